package data

import "fmt"

// demandZones are the load-zone columns summed into system demand.
var demandZones = []string{"1", "2", "3"}

// LoadDemand reads the demand table and sums the zone columns into system
// demand per period. Rows map to periods 1..periods in order; fewer rows
// than periods is an error.
func LoadDemand(path string, periods int) (map[int]float64, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(demandZones...); err != nil {
		return nil, err
	}

	rows := t.head(periods)
	if len(rows) < periods {
		return nil, fmt.Errorf("%s: %d periods requested but only %d rows", path, periods, len(rows))
	}

	demand := make(map[int]float64, periods)
	for i, row := range rows {
		total := 0.0
		for _, zone := range demandZones {
			v, err := t.float(row, zone)
			if err != nil {
				return nil, err
			}
			total += v
		}
		demand[i+1] = total
	}
	return demand, nil
}
