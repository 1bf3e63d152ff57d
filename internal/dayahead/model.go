// Package dayahead builds the day-ahead co-optimization: energy dispatch,
// tiered flexibility-option positions and storage operation are cleared
// together against the discrete renewable scenario set. The energy-balance
// duals are the day-ahead prices; the flexibility-balance duals are the
// per-tier option premiums.
package dayahead

import (
	"flexmarket/internal/lp"
	"flexmarket/internal/model"
)

// Build constructs the day-ahead LP (QP when the quadratic demand cost
// coefficient is non-zero) for a validated dataset. Only sellers receive
// energy and flexibility variables; buyers enter solely through the
// aggregate renewable scenario table. An empty storage set leaves every
// storage-indexed sum at the additive identity.
func Build(ds *model.Dataset) *lp.Model {
	m := lp.NewModel("da_market")

	T, S, R := ds.Periods, ds.Scenarios, ds.Tiers
	B := len(ds.Storage)

	// Variables.
	for t := 1; t <= T; t++ {
		m.NonNeg(dSlack(t))
		m.NonNeg(rgDA(t))
	}
	for s := 1; s <= S; s++ {
		for t := 1; t <= T; t++ {
			m.Free(du(s, t))
			m.NonNeg(yDev(s, t))
		}
	}
	for _, g := range ds.Sellers {
		for t := 1; t <= T; t++ {
			m.NonNeg(xDA(g.ID, t))
			for r := 1; r <= R; r++ {
				m.NonNeg(hsu(r, g.ID, t))
				m.NonNeg(hsd(r, g.ID, t))
			}
		}
	}
	for r := 1; r <= R; r++ {
		for t := 1; t <= T; t++ {
			m.NonNeg(hdu(r, t))
			m.NonNeg(hdd(r, t))
			m.NonNeg(sdu(r, t))
			m.NonNeg(sdd(r, t))
		}
	}
	for b := 1; b <= B; b++ {
		for t := 1; t <= T; t++ {
			m.NonNeg(eLvl(b, t))
			m.NonNeg(pCh(b, t))
			m.NonNeg(pDch(b, t))
			for r := 1; r <= R; r++ {
				m.NonNeg(bsu(r, b, t))
				m.NonNeg(bsd(r, b, t))
			}
		}
	}

	buildObjective(m, ds)
	buildConstraints(m, ds)
	return m
}

func buildObjective(m *lp.Model, ds *model.Dataset) {
	T, S, R := ds.Periods, ds.Scenarios, ds.Tiers
	opt := ds.Options
	var obj lp.Expr

	// Seller energy cost and expected flexibility net cost.
	for _, g := range ds.Sellers {
		for t := 1; t <= T; t++ {
			obj = obj.Plus(lp.Term(m.Lookup(xDA(g.ID, t)), g.EnergyCost))
			for r := 1; r <= R; r++ {
				obj = obj.Plus(
					lp.Term(m.Lookup(hsu(r, g.ID, t)), ds.ProbUp(r)*g.FlexUpCost),
					lp.Term(m.Lookup(hsd(r, g.ID, t)), -ds.ProbDown(r)*g.FlexDownCost),
				)
			}
		}
	}

	// Storage flexibility net cost, throughput cost and opportunity-value
	// credit on stored energy.
	for i, u := range ds.Storage {
		b := i + 1
		for t := 1; t <= T; t++ {
			for r := 1; r <= R; r++ {
				obj = obj.Plus(
					lp.Term(m.Lookup(bsu(r, b, t)), ds.ProbUp(r)*u.FlexUpCost),
					lp.Term(m.Lookup(bsd(r, b, t)), -ds.ProbDown(r)*u.FlexDownCost),
				)
			}
			obj = obj.Plus(
				lp.Term(m.Lookup(pCh(b, t)), u.ThroughputCost),
				lp.Term(m.Lookup(pDch(b, t)), u.ThroughputCost),
				lp.Term(m.Lookup(eLvl(b, t)), -u.MarginalValue),
			)
		}
	}

	// Self-hedge penalty (asymmetric) and the tie-break envelope term.
	for t := 1; t <= T; t++ {
		for r := 1; r <= R; r++ {
			obj = obj.Plus(
				lp.Term(m.Lookup(sdu(r, t)), ds.ProbUp(r)*opt.PenaltyUp),
				lp.Term(m.Lookup(sdd(r, t)), -ds.ProbDown(r)*opt.PenaltyDown),
			)
		}
		for s := 1; s <= S; s++ {
			obj = obj.Plus(lp.Term(m.Lookup(yDev(s, t)), opt.TieBreak))
		}
	}

	// Probability-weighted convex demand-slack cost: D1*(d+du) + D2*(d+du)^2.
	for s := 1; s <= S; s++ {
		p := ds.Prob(s)
		for t := 1; t <= T; t++ {
			dv := m.Lookup(dSlack(t))
			duv := m.Lookup(du(s, t))
			obj = obj.Plus(
				lp.Term(dv, p*opt.DemandCostLinear),
				lp.Term(duv, p*opt.DemandCostLinear),
			)
			if opt.DemandCostQuad != 0 {
				c := p * opt.DemandCostQuad
				m.AddQuadObjective(dv, dv, c)
				m.AddQuadObjective(dv, duv, 2*c)
				m.AddQuadObjective(duv, duv, c)
			}
		}
	}

	m.Minimize(obj)
}

func buildConstraints(m *lp.Model, ds *model.Dataset) {
	T, S, R := ds.Periods, ds.Scenarios, ds.Tiers
	B := len(ds.Storage)

	// Energy balance: seller energy + committed renewable + net storage
	// discharge + demand slack = demand. The dual is the day-ahead price.
	for t := 1; t <= T; t++ {
		lhs := lp.Term(m.Lookup(rgDA(t)), 1).
			Plus(lp.Term(m.Lookup(dSlack(t)), 1))
		for _, g := range ds.Sellers {
			lhs = lhs.Plus(lp.Term(m.Lookup(xDA(g.ID, t)), 1))
		}
		lhs = lhs.Plus(lp.Sum(B, func(b int) lp.Expr {
			return lp.Term(m.Lookup(pDch(b, t)), 1).Minus(lp.Term(m.Lookup(pCh(b, t)), 1))
		}))
		m.Add(conEnergyBalance(t), lhs, lp.Eq, ds.Demand[t])
	}

	// Flexibility balance per tier: seller + storage awards equal the system
	// ladder volume. The dual is the tier's option premium.
	for r := 1; r <= R; r++ {
		for t := 1; t <= T; t++ {
			up := lp.Sum(B, func(b int) lp.Expr { return lp.Term(m.Lookup(bsu(r, b, t)), 1) })
			dn := lp.Sum(B, func(b int) lp.Expr { return lp.Term(m.Lookup(bsd(r, b, t)), 1) })
			for _, g := range ds.Sellers {
				up = up.Plus(lp.Term(m.Lookup(hsu(r, g.ID, t)), 1))
				dn = dn.Plus(lp.Term(m.Lookup(hsd(r, g.ID, t)), 1))
			}
			m.Add(conFlexUpBalance(r, t), up.Minus(lp.Term(m.Lookup(hdu(r, t)), 1)), lp.Eq, 0)
			m.Add(conFlexDnBalance(r, t), dn.Minus(lp.Term(m.Lookup(hdd(r, t)), 1)), lp.Eq, 0)
		}
	}

	// Flexibility-demand identity: a scenario realizing below commitment
	// draws the down tiers indexed under it, above commitment draws the up
	// tiers at or over it.
	for s := 1; s <= S; s++ {
		for t := 1; t <= T; t++ {
			lhs := lp.Term(m.Lookup(du(s, t)), -1)
			for r := 1; r <= s-1; r++ {
				lhs = lhs.Plus(
					lp.Term(m.Lookup(hdd(r, t)), 1),
					lp.Term(m.Lookup(sdd(r, t)), 1),
				)
			}
			for r := s; r <= R; r++ {
				lhs = lhs.Plus(
					lp.Term(m.Lookup(hdu(r, t)), -1),
					lp.Term(m.Lookup(sdu(r, t)), -1),
				)
			}
			lhs = lhs.Plus(lp.Term(m.Lookup(rgDA(t)), 1))
			m.Add(conFlexDemand(s, t), lhs, lp.Eq, ds.Renewable.At(s, t))
		}
	}

	// Deviation envelope: y bounds both the total ladder exercise and the
	// signed deviation from commitment. It never cuts the feasible region;
	// it only steers the optimum among degenerate alternatives.
	for s := 1; s <= S; s++ {
		for t := 1; t <= T; t++ {
			y := m.Lookup(yDev(s, t))
			ladder := lp.Expr{}
			for r := 1; r <= s-1; r++ {
				ladder = ladder.Plus(lp.Term(m.Lookup(hdd(r, t)), 1), lp.Term(m.Lookup(sdd(r, t)), 1))
			}
			for r := s; r <= R; r++ {
				ladder = ladder.Plus(lp.Term(m.Lookup(hdu(r, t)), 1), lp.Term(m.Lookup(sdu(r, t)), 1))
			}
			m.Add(conDevEnvelope(s, t), ladder.Minus(lp.Term(y, 1)), lp.LE, 0)

			re := ds.Renewable.At(s, t)
			m.Add(conDevAbove(s, t),
				lp.Term(y, 1).Minus(lp.Term(m.Lookup(rgDA(t)), 1)), lp.GE, -re)
			m.Add(conDevBelow(s, t),
				lp.Term(y, 1).Plus(lp.Term(m.Lookup(rgDA(t)), 1)), lp.GE, re)
		}
	}

	// Seller constraints: flexibility-ramp headroom, inter-temporal energy
	// ramp (skipped at t=1), capacity shared between energy and up-flex, and
	// the down-flex feasibility bound.
	for _, g := range ds.Sellers {
		for t := 1; t <= T; t++ {
			upSum := lp.Sum(ds.Tiers, func(r int) lp.Expr { return lp.Term(m.Lookup(hsu(r, g.ID, t)), 1) })
			dnSum := lp.Sum(ds.Tiers, func(r int) lp.Expr { return lp.Term(m.Lookup(hsd(r, g.ID, t)), 1) })

			m.Add(conFlexRampUp(g.ID, t), upSum, lp.LE, g.RampMW)
			m.Add(conFlexRampDn(g.ID, t), dnSum, lp.LE, g.RampMW)

			if t > 1 {
				step := lp.Term(m.Lookup(xDA(g.ID, t)), 1).Minus(lp.Term(m.Lookup(xDA(g.ID, t-1)), 1))
				m.Add(conRampUp(g.ID, t), step, lp.LE, g.RampMW)
				m.Add(conRampDn(g.ID, t), step.Scale(-1), lp.LE, g.RampMW)
			}

			m.Add(conCapacity(g.ID, t),
				upSum.Plus(lp.Term(m.Lookup(xDA(g.ID, t)), 1)), lp.LE, g.CapacityMW)
			m.Add(conDownFlexLimit(g.ID, t),
				dnSum.Minus(lp.Term(m.Lookup(xDA(g.ID, t)), 1)), lp.LE, 0)
		}
	}

	// Storage constraints. Positional 1-based ids keep the LP names stable
	// regardless of the unit ids in the source table.
	for i, u := range ds.Storage {
		b := i + 1
		for t := 1; t <= T; t++ {
			// State evolution with fixed round-trip efficiencies.
			bal := lp.Term(m.Lookup(eLvl(b, t)), 1).
				Minus(lp.Term(m.Lookup(pCh(b, t)), u.ChargeEff)).
				Plus(lp.Term(m.Lookup(pDch(b, t)), 1/u.DischargeEff))
			rhs := 0.0
			if t == 1 {
				rhs = u.InitialMWh
			} else {
				bal = bal.Minus(lp.Term(m.Lookup(eLvl(b, t-1)), 1))
			}
			m.Add(conStorageBalance(b, t), bal, lp.Eq, rhs)

			m.Add(conStorageCapacity(b, t), lp.Term(m.Lookup(eLvl(b, t)), 1), lp.LE, u.EnergyCapMWh)

			// Shared power cap: a relaxation standing in for true mutual
			// exclusivity of charge and discharge (see DESIGN.md).
			m.Add(conChargePower(b, t),
				lp.Term(m.Lookup(pCh(b, t)), 1).Plus(lp.Term(m.Lookup(pDch(b, t)), 1)),
				lp.LE, u.PowerCapMW)

			for r := 1; r <= ds.Tiers; r++ {
				// FO awards bounded by what the state of charge can deliver.
				m.Add(conStorageFoUp(r, b, t),
					lp.Term(m.Lookup(bsu(r, b, t)), 1).Minus(lp.Term(m.Lookup(eLvl(b, t)), u.DischargeEff)),
					lp.LE, 0)
				m.Add(conStorageFoDn(r, b, t),
					lp.Term(m.Lookup(bsd(r, b, t)), 1).Plus(lp.Term(m.Lookup(eLvl(b, t)), 1/u.ChargeEff)),
					lp.LE, u.EnergyCapMWh/u.ChargeEff)
				m.Add(conStorageFoPower(r, b, t),
					lp.Term(m.Lookup(bsu(r, b, t)), 1).Plus(lp.Term(m.Lookup(bsd(r, b, t)), 1)),
					lp.LE, u.PowerCapMW)

				// Profitability gating: awards survive only where the option
				// premium dominates the opportunity value of capacity.
				m.Add(conFoProfitUp(r, b, t),
					lp.Term(m.Lookup(bsu(r, b, t)), ds.Options.PenaltyUp-u.MarginalValue), lp.GE, 0)
				m.Add(conFoProfitDn(r, b, t),
					lp.Term(m.Lookup(bsd(r, b, t)), ds.Options.PenaltyDown-u.MarginalValue), lp.GE, 0)
			}
		}
	}
}
