package model

// Benchmark returns the fixed built-in dataset used for regression runs:
// 5 dispatchable generators, 5 renewable scenarios, 4 flexibility tiers,
// 2 periods, no storage. The literals seed the deterministic reference case:
// with identical solver settings the day-ahead objective and price vector
// must not move between runs.
func Benchmark() *Dataset {
	d := &Dataset{
		Periods:   2,
		Scenarios: 5,
		Tiers:     4,
		Sellers: []Seller{
			{ID: 1, CapacityMW: 50, RampMW: 50, EnergyCost: 20, FlexUpCost: 20, FlexDownCost: 20},
			{ID: 2, CapacityMW: 10, RampMW: 10, EnergyCost: 35, FlexUpCost: 35, FlexDownCost: 35},
			{ID: 3, CapacityMW: 10, RampMW: 10, EnergyCost: 50, FlexUpCost: 50, FlexDownCost: 50},
			{ID: 4, CapacityMW: 10, RampMW: 10, EnergyCost: 60, FlexUpCost: 60, FlexDownCost: 60},
			{ID: 5, CapacityMW: 10, RampMW: 10, EnergyCost: 70, FlexUpCost: 70, FlexDownCost: 70},
		},
		Demand: map[int]float64{1: 200, 2: 200},
		Renewable: ScenarioTable{
			{Scenario: 1, Period: 1}: 131, {Scenario: 1, Period: 2}: 131,
			{Scenario: 2, Period: 1}: 141, {Scenario: 2, Period: 2}: 141,
			{Scenario: 3, Period: 1}: 155, {Scenario: 3, Period: 2}: 155,
			{Scenario: 4, Period: 1}: 165, {Scenario: 4, Period: 2}: 165,
			{Scenario: 5, Period: 1}: 172, {Scenario: 5, Period: 2}: 172,
		},
		Options: Options{
			PenaltyUp:        5000,
			PenaltyDown:      5000,
			TieBreak:         1e-3,
			DemandCostLinear: 500,
			// Quadratic demand cost stays zero so the benchmark is a pure LP
			// and solves identically on any LP backend.
			DemandCostQuad: 0,
			TierProbUp:     LadderProbUp(4, 5),
			TierProbDown:   LadderProbDown(4, 5),
		},
	}
	return d
}

// LadderProbUp returns the default up-exercise probabilities for tiers
// 1..tiers under uniform scenarios: tier r is drawn by every scenario s <= r,
// so its exercise likelihood is r/S.
func LadderProbUp(tiers, scenarios int) []float64 {
	p := make([]float64, tiers)
	for r := 1; r <= tiers; r++ {
		p[r-1] = float64(r) / float64(scenarios)
	}
	return p
}

// LadderProbDown returns the default down-exercise probabilities: tier r is
// drawn by every scenario s >= r+1, so its exercise likelihood is (S-r)/S.
func LadderProbDown(tiers, scenarios int) []float64 {
	p := make([]float64, tiers)
	for r := 1; r <= tiers; r++ {
		p[r-1] = float64(scenarios-r) / float64(scenarios)
	}
	return p
}
