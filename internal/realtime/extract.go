package realtime

import (
	"flexmarket/internal/lp"
	"flexmarket/internal/model"
)

// Solution is the typed recourse outcome per scenario.
type Solution struct {
	Objective float64

	AdjustUp   map[model.ScenGenPeriod]float64 // xup
	AdjustDown map[model.ScenGenPeriod]float64 // xdn

	RenewableUp   map[model.ScenarioPeriod]float64 // rgup
	RenewableDown map[model.ScenarioPeriod]float64 // rgdn
	Shortfall     map[model.ScenarioPeriod]float64 // sdup
	Surplus       map[model.ScenarioPeriod]float64 // sddn

	DemandResponse map[model.ScenarioPeriod]float64 // d

	StorageCharge    map[model.ScenStoragePeriod]float64
	StorageDischarge map[model.ScenStoragePeriod]float64
	StorageLevel     map[model.ScenStoragePeriod]float64
	StorageFlexUp    map[model.ScenStoragePeriod]float64 // b_up
	StorageFlexDown  map[model.ScenStoragePeriod]float64 // b_dn

	// Price[s,t] is the dual of the real-time balance for scenario s.
	Price map[model.ScenarioPeriod]float64
}

// Extract reads the solver's values into a typed Solution. The caller must
// have verified sol.Status beforehand.
func Extract(ds *model.Dataset, sol *lp.Solution) *Solution {
	T, S := ds.Periods, ds.Scenarios
	out := &Solution{
		Objective:        sol.Objective,
		AdjustUp:         make(map[model.ScenGenPeriod]float64),
		AdjustDown:       make(map[model.ScenGenPeriod]float64),
		RenewableUp:      make(map[model.ScenarioPeriod]float64),
		RenewableDown:    make(map[model.ScenarioPeriod]float64),
		Shortfall:        make(map[model.ScenarioPeriod]float64),
		Surplus:          make(map[model.ScenarioPeriod]float64),
		DemandResponse:   make(map[model.ScenarioPeriod]float64),
		StorageCharge:    make(map[model.ScenStoragePeriod]float64),
		StorageDischarge: make(map[model.ScenStoragePeriod]float64),
		StorageLevel:     make(map[model.ScenStoragePeriod]float64),
		StorageFlexUp:    make(map[model.ScenStoragePeriod]float64),
		StorageFlexDown:  make(map[model.ScenStoragePeriod]float64),
		Price:            make(map[model.ScenarioPeriod]float64),
	}

	for s := 1; s <= S; s++ {
		for t := 1; t <= T; t++ {
			st := model.ScenarioPeriod{Scenario: s, Period: t}
			out.RenewableUp[st] = sol.Value(rgup(s, t))
			out.RenewableDown[st] = sol.Value(rgdn(s, t))
			out.Shortfall[st] = sol.Value(sdup(s, t))
			out.Surplus[st] = sol.Value(sddn(s, t))
			out.DemandResponse[st] = sol.Value(dRT(s, t))
			out.Price[st] = sol.Dual(conBalance(s, t))
		}
		for _, g := range ds.Sellers {
			for t := 1; t <= T; t++ {
				out.AdjustUp[model.ScenGenPeriod{Scenario: s, Gen: g.ID, Period: t}] = sol.Value(xup(s, g.ID, t))
				out.AdjustDown[model.ScenGenPeriod{Scenario: s, Gen: g.ID, Period: t}] = sol.Value(xdn(s, g.ID, t))
			}
		}
		for b := 1; b <= len(ds.Storage); b++ {
			for t := 1; t <= T; t++ {
				k := model.ScenStoragePeriod{Scenario: s, Storage: b, Period: t}
				out.StorageCharge[k] = sol.Value(pCh(s, b, t))
				out.StorageDischarge[k] = sol.Value(pDch(s, b, t))
				out.StorageLevel[k] = sol.Value(eLvl(s, b, t))
				out.StorageFlexUp[k] = sol.Value(bUp(s, b, t))
				out.StorageFlexDown[k] = sol.Value(bDn(s, b, t))
			}
		}
	}
	return out
}
