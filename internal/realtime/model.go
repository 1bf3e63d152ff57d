package realtime

import (
	"flexmarket/internal/lp"
	"flexmarket/internal/model"
)

// Build constructs the joint recourse LP over all scenarios. The day-ahead
// schedule enters as fixed parameters; every balance holds per scenario and
// period, and scenarios couple only through the probability-weighted
// objective.
func Build(ds *model.Dataset, in *Inputs) *lp.Model {
	m := lp.NewModel("rt_recourse")

	T, S := ds.Periods, ds.Scenarios
	B := len(ds.Storage)

	for s := 1; s <= S; s++ {
		for t := 1; t <= T; t++ {
			m.Free(dRT(s, t))
			m.NonNeg(rgup(s, t))
			m.NonNeg(rgdn(s, t))
			m.NonNeg(sdup(s, t))
			m.NonNeg(sddn(s, t))
		}
		for _, g := range ds.Sellers {
			for t := 1; t <= T; t++ {
				m.NonNeg(xup(s, g.ID, t))
				m.NonNeg(xdn(s, g.ID, t))
			}
		}
		for b := 1; b <= B; b++ {
			for t := 1; t <= T; t++ {
				m.NonNeg(eLvl(s, b, t))
				m.NonNeg(pCh(s, b, t))
				m.NonNeg(pDch(s, b, t))
				m.NonNeg(bUp(s, b, t))
				m.NonNeg(bDn(s, b, t))
			}
		}
	}

	buildObjective(m, ds, in)
	buildConstraints(m, ds, in)
	return m
}

func buildObjective(m *lp.Model, ds *model.Dataset, in *Inputs) {
	T, S := ds.Periods, ds.Scenarios
	opt := ds.Options
	var obj lp.Expr

	for s := 1; s <= S; s++ {
		p := ds.Prob(s)

		// Generator adjustment net cost.
		for _, g := range ds.Sellers {
			for t := 1; t <= T; t++ {
				obj = obj.Plus(
					lp.Term(m.Lookup(xup(s, g.ID, t)), p*g.FlexUpCost),
					lp.Term(m.Lookup(xdn(s, g.ID, t)), -p*g.FlexDownCost),
				)
			}
		}

		for t := 1; t <= T; t++ {
			// Shortfall and surplus penalties.
			obj = obj.Plus(
				lp.Term(m.Lookup(sdup(s, t)), p*opt.PenaltyDown),
				lp.Term(m.Lookup(sddn(s, t)), p*opt.PenaltyUp),
			)

			// Incremental demand-response cost net of the day-ahead
			// baseline: D1*(dr0+d) + D2*(dr0+d)^2 - (D1*dr0 + D2*dr0^2).
			dr0 := in.DemandResponse[t]
			dv := m.Lookup(dRT(s, t))
			obj = obj.Plus(lp.Term(dv, p*(opt.DemandCostLinear+2*opt.DemandCostQuad*dr0)))
			if opt.DemandCostQuad != 0 {
				m.AddQuadObjective(dv, dv, p*opt.DemandCostQuad)
			}
		}

		// Storage throughput cost and FO settlement.
		for i, u := range ds.Storage {
			b := i + 1
			for t := 1; t <= T; t++ {
				obj = obj.Plus(
					lp.Term(m.Lookup(pCh(s, b, t)), p*u.ThroughputCost),
					lp.Term(m.Lookup(pDch(s, b, t)), p*u.ThroughputCost),
					lp.Term(m.Lookup(bUp(s, b, t)), p*u.FlexUpCost),
					lp.Term(m.Lookup(bDn(s, b, t)), -p*u.FlexDownCost),
				)
			}
		}
	}

	m.Minimize(obj)
}

func buildConstraints(m *lp.Model, ds *model.Dataset, in *Inputs) {
	T, S := ds.Periods, ds.Scenarios
	B := len(ds.Storage)

	for s := 1; s <= S; s++ {
		for t := 1; t <= T; t++ {
			// Real-time balance: net generator adjustment + net renewable
			// adjustment + net storage adjustment relative to its DA
			// schedule + demand response = 0. Dual is the RT price.
			lhs := lp.Term(m.Lookup(rgup(s, t)), 1).
				Minus(lp.Term(m.Lookup(rgdn(s, t)), 1)).
				Plus(lp.Term(m.Lookup(dRT(s, t)), 1))
			for _, g := range ds.Sellers {
				lhs = lhs.Plus(
					lp.Term(m.Lookup(xup(s, g.ID, t)), 1),
					lp.Term(m.Lookup(xdn(s, g.ID, t)), -1),
				)
			}
			daNet := 0.0
			for b := 1; b <= B; b++ {
				lhs = lhs.Plus(
					lp.Term(m.Lookup(pDch(s, b, t)), 1),
					lp.Term(m.Lookup(pCh(s, b, t)), -1),
				)
				daNet += in.StorageDischarge[model.StoragePeriod{Storage: b, Period: t}] - in.StorageCharge[model.StoragePeriod{Storage: b, Period: t}]
			}
			m.Add(conBalance(s, t), lhs, lp.Eq, daNet)

			// Renewable availability: realized minus committed output splits
			// into absorbed redispatch and residual shortfall/surplus.
			avail := lp.Term(m.Lookup(rgup(s, t)), 1).
				Minus(lp.Term(m.Lookup(rgdn(s, t)), 1)).
				Plus(lp.Term(m.Lookup(sdup(s, t)), 1)).
				Minus(lp.Term(m.Lookup(sddn(s, t)), 1))
			m.Add(conAvailability(s, t), avail, lp.Eq,
				ds.Renewable.At(s, t)-in.RenewableCommit[t])
		}

		for _, g := range ds.Sellers {
			for t := 1; t <= T; t++ {
				x0 := in.Schedule[model.GenPeriod{Gen: g.ID, Period: t}]
				m.Add(conRampUp(s, g.ID, t), lp.Term(m.Lookup(xup(s, g.ID, t)), 1), lp.LE, g.RampMW)
				m.Add(conRampDn(s, g.ID, t), lp.Term(m.Lookup(xdn(s, g.ID, t)), 1), lp.LE, g.RampMW)
				m.Add(conCapMax(s, g.ID, t), lp.Term(m.Lookup(xup(s, g.ID, t)), 1), lp.LE, g.CapacityMW-x0)
				// Cannot adjust below zero dispatch.
				m.Add(conCapMin(s, g.ID, t), lp.Term(m.Lookup(xdn(s, g.ID, t)), 1), lp.LE, x0)
			}
		}

		for i, u := range ds.Storage {
			b := i + 1
			for t := 1; t <= T; t++ {
				bal := lp.Term(m.Lookup(eLvl(s, b, t)), 1).
					Minus(lp.Term(m.Lookup(pCh(s, b, t)), u.ChargeEff)).
					Plus(lp.Term(m.Lookup(pDch(s, b, t)), 1/u.DischargeEff))
				rhs := 0.0
				if t == 1 {
					rhs = u.InitialMWh
				} else {
					bal = bal.Minus(lp.Term(m.Lookup(eLvl(s, b, t-1)), 1))
				}
				m.Add(conStorageBalance(s, b, t), bal, lp.Eq, rhs)

				m.Add(conStorageCapacity(s, b, t), lp.Term(m.Lookup(eLvl(s, b, t)), 1), lp.LE, u.EnergyCapMWh)

				// Shared power cap relaxation, as in the day-ahead stage.
				m.Add(conPowerLimit(s, b, t),
					lp.Term(m.Lookup(pCh(s, b, t)), 1).Plus(lp.Term(m.Lookup(pDch(s, b, t)), 1)),
					lp.LE, u.PowerCapMW)

				m.Add(conAdjustLimit(s, b, t),
					lp.Term(m.Lookup(bUp(s, b, t)), 1).Plus(lp.Term(m.Lookup(bDn(s, b, t)), 1)),
					lp.LE, 0.5*u.PowerCapMW)

				// Activation bounded by what the state of charge can absorb
				// or deliver.
				m.Add(conStorageRtUpCap(s, b, t),
					lp.Term(m.Lookup(bUp(s, b, t)), 1).Minus(lp.Term(m.Lookup(eLvl(s, b, t)), u.DischargeEff)),
					lp.LE, 0)
				m.Add(conStorageRtDnCap(s, b, t),
					lp.Term(m.Lookup(bDn(s, b, t)), 1).Plus(lp.Term(m.Lookup(eLvl(s, b, t)), 1/u.ChargeEff)),
					lp.LE, u.EnergyCapMWh/u.ChargeEff)
			}

			// Terminal state-of-charge floor, enforced per scenario.
			m.Add(conFinalSoc(s, b), lp.Term(m.Lookup(eLvl(s, b, T)), 1), lp.GE, u.FinalMWh)
		}
	}
}
