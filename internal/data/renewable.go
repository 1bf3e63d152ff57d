package data

import (
	"fmt"
	"strconv"

	"flexmarket/internal/model"
)

const colPeriod = "T"

// LoadRenewable reads the wide scenario table: a T index column plus one
// column per scenario, in header order. The source column names are
// simulation indices and carry no meaning here; scenarios renumber to 1..S.
// Fewer columns or rows than requested is an error.
func LoadRenewable(path string, scenarios, periods int) (model.ScenarioTable, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(colPeriod); err != nil {
		return nil, err
	}

	var scenCols []string
	for _, name := range t.header {
		if name != colPeriod {
			scenCols = append(scenCols, name)
		}
	}
	if len(scenCols) < scenarios {
		return nil, fmt.Errorf("%s: %d scenarios requested but only %d columns", path, scenarios, len(scenCols))
	}
	scenCols = scenCols[:scenarios]

	rows := t.head(periods)
	if len(rows) < periods {
		return nil, fmt.Errorf("%s: %d periods requested but only %d rows", path, periods, len(rows))
	}

	table := make(model.ScenarioTable, scenarios*periods)
	for _, row := range rows {
		period, err := strconv.Atoi(t.str(row, colPeriod))
		if err != nil {
			return nil, fmt.Errorf("%s: bad period index %q", path, t.str(row, colPeriod))
		}
		if period < 1 || period > periods {
			continue
		}
		for s, col := range scenCols {
			v, err := t.float(row, col)
			if err != nil {
				return nil, err
			}
			table[model.ScenarioPeriod{Scenario: s + 1, Period: period}] = v
		}
	}

	for s := 1; s <= scenarios; s++ {
		for p := 1; p <= periods; p++ {
			if _, ok := table[model.ScenarioPeriod{Scenario: s, Period: p}]; !ok {
				return nil, fmt.Errorf("%s: no row for period %d", path, p)
			}
		}
	}
	return table, nil
}
