// Package settlement turns primal awards and shadow prices from the two
// market stages into economic allocations. It is pure post-processing: no
// decision variables, no solver calls. Sparse award tables are expected;
// any absent (tier, generator, period) combination contributes zero.
package settlement

import (
	"gonum.org/v1/gonum/stat"

	"flexmarket/internal/dayahead"
	"flexmarket/internal/model"
	"flexmarket/internal/realtime"
)

// ScenarioGen keys per-scenario, per-generator settlement rows.
type ScenarioGen struct {
	Scenario int
	Gen      int
}

// GrossMargin is a seller's day-ahead profit before real-time settlement:
// the energy margin plus the per-tier up-flexibility premium margin.
type GrossMargin struct {
	Energy float64
	FlexUp map[int]float64 // by tier
}

// Total sums the energy and all tier contributions.
func (g GrossMargin) Total() float64 {
	total := g.Energy
	for _, v := range g.FlexUp {
		total += v
	}
	return total
}

// GrossMargins computes day-ahead gross margins per seller.
// Energy: sum over t of (DA price - VC) * award. Per tier r: sum over t of
// award * (tier premium - exercise-probability-weighted up cost).
func GrossMargins(ds *model.Dataset, da *dayahead.Solution) map[int]GrossMargin {
	out := make(map[int]GrossMargin, len(ds.Sellers))
	for _, g := range ds.Sellers {
		gm := GrossMargin{FlexUp: make(map[int]float64, ds.Tiers)}
		for t := 1; t <= ds.Periods; t++ {
			gm.Energy += (da.EnergyPrice[t] - g.EnergyCost) * da.Energy[model.GenPeriod{Gen: g.ID, Period: t}]
		}
		for r := 1; r <= ds.Tiers; r++ {
			margin := 0.0
			for t := 1; t <= ds.Periods; t++ {
				award := da.FlexUp[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}]
				price := da.FlexUpPrice[model.TierPeriod{Tier: r, Period: t}]
				margin += award * (price - g.FlexUpCost*ds.ProbUp(r))
			}
			gm.FlexUp[r] = margin
		}
		out[g.ID] = gm
	}
	return out
}

// RTMargins computes the real-time adjustment margin per scenario, seller
// and period: (RT price - probability-weighted VC) * net adjustment.
func RTMargins(ds *model.Dataset, rt *realtime.Solution) map[model.ScenGenPeriod]float64 {
	out := make(map[model.ScenGenPeriod]float64)
	for s := 1; s <= ds.Scenarios; s++ {
		for _, g := range ds.Sellers {
			for t := 1; t <= ds.Periods; t++ {
				k := model.ScenGenPeriod{Scenario: s, Gen: g.ID, Period: t}
				price := rt.Price[model.ScenarioPeriod{Scenario: s, Period: t}]
				adj := rt.AdjustUp[k] - rt.AdjustDown[k]
				out[k] = (price - ds.Prob(s)*g.EnergyCost) * adj
			}
		}
	}
	return out
}

// Payoffs are the option cash flows realized at the real-time stage. An
// up-option pays from buyer to seller when the scenario realizes high: the
// up payoff for scenario s aggregates tiers at or above s and is negated
// (an outflow from the scenario's perspective). Down payoffs mirror this
// over tiers below s without negation. Up is defined for s < S, Down for
// s > 1; the boundary scenarios exercise nothing on that side.
type Payoffs struct {
	Up   map[ScenarioGen]float64
	Down map[ScenarioGen]float64
}

// RTPayoffs settles the option positions against realized scenarios.
func RTPayoffs(ds *model.Dataset, da *dayahead.Solution, rt *realtime.Solution) Payoffs {
	out := Payoffs{
		Up:   make(map[ScenarioGen]float64),
		Down: make(map[ScenarioGen]float64),
	}
	for s := 1; s <= ds.Scenarios; s++ {
		for _, g := range ds.Sellers {
			if s < ds.Scenarios {
				total := 0.0
				for t := 1; t <= ds.Periods; t++ {
					award := da.SellerFlexUpAtOrAbove(ds, s, g.ID, t)
					price := rt.Price[model.ScenarioPeriod{Scenario: s, Period: t}]
					total += -(price*award - ds.Prob(s)*g.FlexUpCost*award)
				}
				out.Up[ScenarioGen{Scenario: s, Gen: g.ID}] = total
			}
			if s > 1 {
				total := 0.0
				for t := 1; t <= ds.Periods; t++ {
					award := da.SellerFlexDownBelow(ds, s, g.ID, t)
					price := rt.Price[model.ScenarioPeriod{Scenario: s, Period: t}]
					total += price*award - ds.Prob(s)*g.FlexDownCost*award
				}
				out.Down[ScenarioGen{Scenario: s, Gen: g.ID}] = total
			}
		}
	}
	return out
}

// Premium is the convergence diagnostic per seller: day-ahead premium
// income plus realized real-time payoffs. Reported only; the theory says it
// should trend toward the fair option premium as the scenario count grows,
// and nothing here asserts that.
type Premium struct {
	Up   float64
	Down float64
}

// PremiumConvergence aggregates the diagnostic per seller.
func PremiumConvergence(ds *model.Dataset, gross map[int]GrossMargin, pay Payoffs) map[int]Premium {
	out := make(map[int]Premium, len(ds.Sellers))
	for _, g := range ds.Sellers {
		p := Premium{}
		for _, v := range gross[g.ID].FlexUp {
			p.Up += v
		}
		for s := 1; s <= ds.Scenarios; s++ {
			p.Up += pay.Up[ScenarioGen{Scenario: s, Gen: g.ID}]
			p.Down += pay.Down[ScenarioGen{Scenario: s, Gen: g.ID}]
		}
		out[g.ID] = p
	}
	return out
}

// Allocation is the total welfare split across the settled parties: one row
// per seller and scenario, plus synthetic rows for the aggregate renewable
// owner and for demand response.
type Allocation struct {
	Sellers        map[ScenarioGen]float64
	Renewable      map[int]float64 // by scenario
	DemandResponse map[int]float64 // by scenario
}

// TotalMargins reconciles the full allocation. Per seller and scenario:
// probability-weighted gross margin + real-time margin + realized payoffs.
// The renewable owner earns redispatch value plus scenario-averaged
// day-ahead revenue minus the total flexibility premium paid out; demand
// response earns its real-time value plus day-ahead revenue minus its own
// convex cost.
func TotalMargins(
	ds *model.Dataset,
	da *dayahead.Solution,
	rt *realtime.Solution,
	gross map[int]GrossMargin,
	rtMargins map[model.ScenGenPeriod]float64,
	pay Payoffs,
	prem map[int]Premium,
) Allocation {
	out := Allocation{
		Sellers:        make(map[ScenarioGen]float64),
		Renewable:      make(map[int]float64, ds.Scenarios),
		DemandResponse: make(map[int]float64, ds.Scenarios),
	}

	daPriceMean := meanDAPrice(ds, da)

	totalPremium := 0.0
	for _, p := range prem {
		totalPremium += p.Up + p.Down
	}

	for s := 1; s <= ds.Scenarios; s++ {
		p := ds.Prob(s)

		for _, g := range ds.Sellers {
			total := p * gross[g.ID].Total()
			for t := 1; t <= ds.Periods; t++ {
				total += rtMargins[model.ScenGenPeriod{Scenario: s, Gen: g.ID, Period: t}]
			}
			total += pay.Up[ScenarioGen{Scenario: s, Gen: g.ID}]
			total += pay.Down[ScenarioGen{Scenario: s, Gen: g.ID}]
			out.Sellers[ScenarioGen{Scenario: s, Gen: g.ID}] = total
		}

		// Aggregate renewable owner.
		redispatch := 0.0
		daRevenue := 0.0
		for t := 1; t <= ds.Periods; t++ {
			st := model.ScenarioPeriod{Scenario: s, Period: t}
			redispatch += rt.Price[st] * (rt.RenewableUp[st] - rt.RenewableDown[st])
			daRevenue += da.RenewableCommit[t] * daPriceMean
		}
		out.Renewable[s] = redispatch + p*daRevenue - p*totalPremium

		// Demand response.
		rtValue := 0.0
		drRevenue := 0.0
		drCost := 0.0
		for t := 1; t <= ds.Periods; t++ {
			st := model.ScenarioPeriod{Scenario: s, Period: t}
			d := rt.DemandResponse[st]
			dr0 := da.DemandSlack[t]
			rtValue += rt.Price[st] * d
			drRevenue += dr0 * daPriceMean
			drCost += ds.Options.DemandCostLinear*(d+dr0) + ds.Options.DemandCostQuad*(d+dr0)*(d+dr0)
		}
		out.DemandResponse[s] = rtValue + p*drRevenue - p*drCost
	}

	return out
}

func meanDAPrice(ds *model.Dataset, da *dayahead.Solution) float64 {
	prices := make([]float64, 0, ds.Periods)
	for t := 1; t <= ds.Periods; t++ {
		prices = append(prices, da.EnergyPrice[t])
	}
	return stat.Mean(prices, nil)
}
