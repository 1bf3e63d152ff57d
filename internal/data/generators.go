package data

import (
	"fmt"

	"flexmarket/internal/model"
)

// Generator table columns (upstream grid dataset naming).
const (
	colGenUID    = "GEN UID"
	colPMax      = "PMax MW"
	colRampRate  = "Ramp Rate MW/Min"
	colFuelPrice = "Fuel Price $/MMBTU"
	colHeatRate  = "HR_avg_0"
	colFuel      = "Fuel"
	colFlag      = "flag"
)

// LoadGenerators reads the generator table and partitions it by role:
// dispatchable rows become sellers, variable renewables (flag -1, or fuel
// Solar/Wind when no flag column exists) become buyers. IDs are assigned
// sequentially in row order across both roles. max <= 0 loads every row.
//
// Variable cost derives from fuel price and heat rate:
// VC = (Fuel Price $/MMBTU * HR_avg_0) / 1000, in $/MWh. Up- and
// down-flexibility offer costs default to the same value. Ramp rates arrive
// in MW/min and convert to MW per period (hourly).
func LoadGenerators(path string, max int) ([]model.Seller, []model.Buyer, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}
	required := []string{colGenUID, colPMax, colRampRate, colFuelPrice, colHeatRate}
	if !t.has(colFlag) {
		required = append(required, colFuel)
	}
	if err := t.require(required...); err != nil {
		return nil, nil, err
	}

	var sellers []model.Seller
	var buyers []model.Buyer
	for i, row := range t.head(max) {
		id := i + 1

		capMW, err := t.float(row, colPMax)
		if err != nil {
			return nil, nil, err
		}

		renewable, err := isRenewable(t, row)
		if err != nil {
			return nil, nil, err
		}
		if renewable {
			buyers = append(buyers, model.Buyer{ID: id, CapacityMW: capMW})
			continue
		}

		ramp, err := t.float(row, colRampRate)
		if err != nil {
			return nil, nil, err
		}
		fuelPrice, err := t.float(row, colFuelPrice)
		if err != nil {
			return nil, nil, err
		}
		heatRate, err := t.float(row, colHeatRate)
		if err != nil {
			return nil, nil, err
		}
		vc := fuelPrice * heatRate / 1000.0

		sellers = append(sellers, model.Seller{
			ID:           id,
			CapacityMW:   capMW,
			RampMW:       ramp * 60,
			EnergyCost:   vc,
			FlexUpCost:   vc,
			FlexDownCost: vc,
		})
	}
	return sellers, buyers, nil
}

func isRenewable(t *table, row []string) (bool, error) {
	if t.has(colFlag) {
		flag, err := t.float(row, colFlag)
		if err != nil {
			return false, err
		}
		switch flag {
		case 1:
			return false, nil
		case -1:
			return true, nil
		default:
			return false, fmt.Errorf("%s: row %q: flag must be 1 or -1, got %v", t.path, t.str(row, colGenUID), flag)
		}
	}
	fuel := t.str(row, colFuel)
	return fuel == "Solar" || fuel == "Wind", nil
}
