package settlement

import (
	"gonum.org/v1/gonum/stat"

	"flexmarket/internal/dayahead"
	"flexmarket/internal/model"
	"flexmarket/internal/realtime"
)

// Metrics are system-level diagnostics reported alongside the allocation.
type Metrics struct {
	DAAveragePrice float64
	DATotalCost    float64

	// Per scenario: probability-weighted net redispatch cost, average
	// real-time price, unmet-demand cost and curtailment cost.
	RTCost          map[int]float64
	RTAveragePrice  map[int]float64
	UnmetDemandCost map[int]float64
	CurtailmentCost map[int]float64
}

// SystemMetrics computes the diagnostics from both stages.
func SystemMetrics(ds *model.Dataset, da *dayahead.Solution, rt *realtime.Solution) *Metrics {
	m := &Metrics{
		DAAveragePrice:  meanDAPrice(ds, da),
		DATotalCost:     da.Objective,
		RTCost:          make(map[int]float64, ds.Scenarios),
		RTAveragePrice:  make(map[int]float64, ds.Scenarios),
		UnmetDemandCost: make(map[int]float64, ds.Scenarios),
		CurtailmentCost: make(map[int]float64, ds.Scenarios),
	}

	opt := ds.Options
	for s := 1; s <= ds.Scenarios; s++ {
		p := ds.Prob(s)

		upCost, downCost := 0.0, 0.0
		for _, g := range ds.Sellers {
			for t := 1; t <= ds.Periods; t++ {
				k := model.ScenGenPeriod{Scenario: s, Gen: g.ID, Period: t}
				upCost += g.FlexUpCost * rt.AdjustUp[k]
				downCost += g.FlexDownCost * rt.AdjustDown[k]
			}
		}
		m.RTCost[s] = p * (upCost - downCost)

		prices := make([]float64, 0, ds.Periods)
		unmet, curtail := 0.0, 0.0
		for t := 1; t <= ds.Periods; t++ {
			st := model.ScenarioPeriod{Scenario: s, Period: t}
			prices = append(prices, rt.Price[st])
			d := rt.DemandResponse[st]
			unmet += opt.DemandCostLinear*d + opt.DemandCostQuad*d*d
			curtail += opt.PenaltyDown * rt.Shortfall[st]
		}
		m.RTAveragePrice[s] = stat.Mean(prices, nil)
		m.UnmetDemandCost[s] = p * unmet
		m.CurtailmentCost[s] = p * curtail
	}

	return m
}
