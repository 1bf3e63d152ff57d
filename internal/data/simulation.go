package data

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// hourColumns is the period ordering of the raw simulation tables: the
// operating day runs 0800 through 0700, mapping to periods 1..24.
var hourColumns = []string{
	"0800", "0900", "1000", "1100", "1200", "1300", "1400", "1500",
	"1600", "1700", "1800", "1900", "2000", "2100", "2200", "2300",
	"0000", "0100", "0200", "0300", "0400", "0500", "0600", "0700",
}

const (
	colType       = "Type"
	colIndex      = "Index"
	rowSimulation = "Simulation"
)

// Simulations holds aggregated renewable output per simulation index: for
// each index, one value per hour column, summed across every source file
// that carries that index.
type Simulations struct {
	byIndex map[int][]float64
}

// Indices returns the simulation indices in ascending order.
func (s *Simulations) Indices() []int {
	out := make([]int, 0, len(s.byIndex))
	for idx := range s.byIndex {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// AggregateSimulations walks dir recursively for CSV files, keeps rows with
// Type == Simulation, and sums hour values per simulation index across all
// files. Files without simulation rows are skipped; files that fail to parse
// abort the aggregation.
func AggregateSimulations(dir string) (*Simulations, error) {
	agg := &Simulations{byIndex: make(map[int][]float64)}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		return agg.addFile(path)
	})
	if err != nil {
		return nil, err
	}
	if len(agg.byIndex) == 0 {
		return nil, fmt.Errorf("%s: no simulation rows found", dir)
	}
	return agg, nil
}

func (s *Simulations) addFile(path string) error {
	t, err := readTable(path)
	if err != nil {
		return err
	}
	if !t.has(colType) || !t.has(colIndex) {
		return nil // not a simulation table
	}

	for _, row := range t.rows {
		if t.str(row, colType) != rowSimulation {
			continue
		}
		idx, err := strconv.Atoi(t.str(row, colIndex))
		if err != nil {
			continue
		}
		hours := s.byIndex[idx]
		if hours == nil {
			hours = make([]float64, len(hourColumns))
			s.byIndex[idx] = hours
		}
		for h, col := range hourColumns {
			if !t.has(col) {
				continue
			}
			v, err := t.float(row, col)
			if err != nil {
				return err
			}
			hours[h] += v
		}
	}
	return nil
}

// Select picks n simulation indices per the configured criteria: "first"
// takes the n lowest indices, "random" samples without replacement using the
// given seed.
func (s *Simulations) Select(n int, criteria string, seed int64) ([]int, error) {
	indices := s.Indices()
	if n > len(indices) {
		return nil, fmt.Errorf("requested %d scenarios, but only %d available", n, len(indices))
	}
	switch criteria {
	case "first":
		return indices[:n], nil
	case "random":
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		return indices[:n], nil
	default:
		return nil, fmt.Errorf("invalid scenario selection criteria %q", criteria)
	}
}

// WriteScenarioCSV writes the wide renewable table consumed by
// LoadRenewable: a T column plus one column per chosen simulation index,
// truncated to the requested period count.
func (s *Simulations) WriteScenarioCSV(path string, chosen []int, periods int) error {
	if periods > len(hourColumns) {
		return fmt.Errorf("requested %d periods, but simulations carry %d", periods, len(hourColumns))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{colPeriod}
	for _, idx := range chosen {
		header = append(header, strconv.Itoa(idx))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for p := 1; p <= periods; p++ {
		row := []string{strconv.Itoa(p)}
		for _, idx := range chosen {
			row = append(row, strconv.FormatFloat(s.byIndex[idx][p-1], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
