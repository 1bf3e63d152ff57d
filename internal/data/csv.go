// Package data loads the market input tables from CSV and prepares scenario
// files from raw simulation output. Column names follow the upstream grid
// datasets; loaders fail fast and name every missing column at once.
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// table is a parsed CSV with by-name column access.
type table struct {
	path   string
	header []string
	index  map[string]int
	rows   [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: empty file", path)
	}

	t := &table{path: path, header: records[0], rows: records[1:], index: make(map[string]int)}
	for i, name := range t.header {
		t.index[strings.TrimSpace(name)] = i
	}
	return t, nil
}

// require errors with the full list of absent columns, not just the first.
func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing columns %v", t.path, missing)
	}
	return nil
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *table) str(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) float(row []string, col string) (float64, error) {
	s := t.str(row, col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: column %q: parse %q: %w", t.path, col, s, err)
	}
	return v, nil
}

// head caps the row count, mirroring how every loader truncates its table to
// the configured set size.
func (t *table) head(n int) [][]string {
	if n <= 0 || n >= len(t.rows) {
		return t.rows
	}
	return t.rows[:n]
}
