package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"flexmarket/internal/lp"
)

// parseSolution reads glpsol's plain-text solution report. The report is
// fixed-width: columns 0-5 hold the entry number, 7-18 the name (long names
// spill onto their own line with the data continued at column 20), 20-22 the
// basis status, then four 13-character numeric fields (activity, lower,
// upper, marginal). Near-zero marginals are printed as "< eps".
func parseSolution(r io.Reader) (*lp.Solution, error) {
	const (
		inHeader = iota
		inRows
		inColumns
	)

	status := lp.Status{}
	objective := 0.0
	sol := lp.NewSolution(status, 0)

	section := inHeader
	pendingName := ""

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "Status:"):
			msg := strings.TrimSpace(strings.TrimPrefix(trimmed, "Status:"))
			sol.Status = lp.Status{
				OK:      true,
				Optimal: msg == "OPTIMAL",
				Message: msg,
			}
			continue
		case strings.HasPrefix(trimmed, "Objective:"):
			v, err := parseObjective(trimmed)
			if err != nil {
				return nil, err
			}
			objective = v
			sol.Objective = v
			continue
		case strings.Contains(line, "Row name"):
			section = inRows
			continue
		case strings.Contains(line, "Column name"):
			section = inColumns
			continue
		}

		if section == inHeader || trimmed == "" || strings.HasPrefix(trimmed, "---") {
			continue
		}
		if !startsWithEntryNumber(line) && pendingName == "" {
			// End of the tabular sections (KKT report etc).
			section = inHeader
			continue
		}

		name := pendingName
		if name == "" {
			tokens := strings.Fields(line)
			if len(tokens) < 2 {
				continue
			}
			if len(tokens) == 2 {
				// Long name: the data fields continue on the next line,
				// starting at the status column.
				pendingName = tokens[1]
				continue
			}
			name = tokens[1]
		}
		pendingName = ""

		switch section {
		case inRows:
			marginal := parseNumField(field(line, 65, 78))
			sol.SetDual(lp.ReadName(name), marginal)
		case inColumns:
			activity := parseNumField(field(line, 23, 36))
			sol.SetValue(lp.ReadName(name), activity)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sol.Status.OK && sol.Status.Message == "" {
		return nil, fmt.Errorf("solution report carries no status line")
	}
	sol.Objective = objective
	return sol, nil
}

// parseObjective extracts the value from a line like
// "Objective:  obj = 6810.25 (MINimum)".
func parseObjective(line string) (float64, error) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return 0, fmt.Errorf("malformed objective line %q", line)
	}
	rest := strings.TrimSpace(line[eq+1:])
	if par := strings.Index(rest, "("); par >= 0 {
		rest = strings.TrimSpace(rest[:par])
	}
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed objective value in %q", line)
	}
	return v, nil
}

func startsWithEntryNumber(line string) bool {
	f := strings.TrimSpace(field(line, 0, 6))
	if f == "" {
		return false
	}
	_, err := strconv.Atoi(f)
	return err == nil
}

// field slices [start, end) clamped to the line length.
func field(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

// parseNumField reads a fixed-width numeric cell. Empty cells (basic
// entries) and "< eps" both mean zero.
func parseNumField(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "< eps" || s == "." {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
