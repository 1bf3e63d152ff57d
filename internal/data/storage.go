package data

import "flexmarket/internal/model"

// Storage table columns.
const (
	colMaxVolume = "Max Volume GWh"
	colRating    = "Rating MVA"
)

// Upstream storage tables carry no efficiency, cost or boundary-state
// columns; these stand-ins keep the units feasible without distorting the
// dispatch. Boundary states are near-zero rather than zero so the terminal
// state-of-charge floor stays active.
const (
	defaultEfficiency     = 1.0
	defaultThroughputCost = 1e-4
	defaultBoundaryMWh    = 1e-4
)

// LoadStorage reads the storage table. Unit IDs are assigned sequentially in
// row order; the source table's UID column is not unique and is ignored.
// Energy capacity arrives in GWh and converts to MWh. max <= 0 loads every
// row; a missing or empty table means no storage participates.
func LoadStorage(path string, max int) ([]model.Unit, error) {
	if path == "" {
		return nil, nil
	}
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.require(colMaxVolume, colRating); err != nil {
		return nil, err
	}

	var units []model.Unit
	for i, row := range t.head(max) {
		energyGWh, err := t.float(row, colMaxVolume)
		if err != nil {
			return nil, err
		}
		powerMW, err := t.float(row, colRating)
		if err != nil {
			return nil, err
		}
		units = append(units, model.Unit{
			ID:             i + 1,
			EnergyCapMWh:   energyGWh * 1000,
			PowerCapMW:     powerMW,
			ChargeEff:      defaultEfficiency,
			DischargeEff:   defaultEfficiency,
			InitialMWh:     defaultBoundaryMWh,
			FinalMWh:       defaultBoundaryMWh,
			ThroughputCost: defaultThroughputCost,
		})
	}
	return units, nil
}
