package dayahead

import (
	"fmt"
	"math"

	"flexmarket/internal/model"
)

// Check verifies an accepted day-ahead solution against the invariants the
// formulation promises, to the given tolerance. A violation means the solver
// returned garbage or the extraction drifted from the builder; either way
// the run must not proceed.
func Check(ds *model.Dataset, sol *Solution, tol float64) error {
	T, R := ds.Periods, ds.Tiers

	// Energy balance exactness.
	for t := 1; t <= T; t++ {
		supply := sol.RenewableCommit[t] + sol.DemandSlack[t]
		for _, g := range ds.Sellers {
			supply += sol.Energy[model.GenPeriod{Gen: g.ID, Period: t}]
		}
		for b := 1; b <= len(ds.Storage); b++ {
			supply += sol.StorageDischarge[model.StoragePeriod{Storage: b, Period: t}] - sol.StorageCharge[model.StoragePeriod{Storage: b, Period: t}]
		}
		if math.Abs(supply-ds.Demand[t]) > tol {
			return fmt.Errorf("energy balance violated at t=%d: supply %.6f demand %.6f", t, supply, ds.Demand[t])
		}
	}

	// Flexibility ladder consistency.
	for r := 1; r <= R; r++ {
		for t := 1; t <= T; t++ {
			up, dn := 0.0, 0.0
			for _, g := range ds.Sellers {
				up += sol.FlexUp[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}]
				dn += sol.FlexDown[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}]
			}
			for b := 1; b <= len(ds.Storage); b++ {
				up += sol.StorageFlexUp[model.TierStoragePeriod{Tier: r, Storage: b, Period: t}]
				dn += sol.StorageFlexDown[model.TierStoragePeriod{Tier: r, Storage: b, Period: t}]
			}
			if math.Abs(up-sol.LadderUp[model.TierPeriod{Tier: r, Period: t}]) > tol {
				return fmt.Errorf("up-flex ladder violated at r=%d t=%d", r, t)
			}
			if math.Abs(dn-sol.LadderDown[model.TierPeriod{Tier: r, Period: t}]) > tol {
				return fmt.Errorf("down-flex ladder violated at r=%d t=%d", r, t)
			}
		}
	}

	// Capacity, ramp and down-flex feasibility per seller.
	for _, g := range ds.Sellers {
		for t := 1; t <= T; t++ {
			x := sol.Energy[model.GenPeriod{Gen: g.ID, Period: t}]
			if x < -tol {
				return fmt.Errorf("negative energy award for generator %d at t=%d", g.ID, t)
			}
			up, dn := 0.0, 0.0
			for r := 1; r <= R; r++ {
				up += sol.FlexUp[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}]
				dn += sol.FlexDown[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}]
			}
			if x+up > g.CapacityMW+tol {
				return fmt.Errorf("capacity violated for generator %d at t=%d: %.6f > %.6f", g.ID, t, x+up, g.CapacityMW)
			}
			if dn > x+tol {
				return fmt.Errorf("down-flex exceeds energy award for generator %d at t=%d", g.ID, t)
			}
			if up > g.RampMW+tol || dn > g.RampMW+tol {
				return fmt.Errorf("flex-ramp headroom violated for generator %d at t=%d", g.ID, t)
			}
			if t > 1 {
				prev := sol.Energy[model.GenPeriod{Gen: g.ID, Period: t - 1}]
				if math.Abs(x-prev) > g.RampMW+tol {
					return fmt.Errorf("ramp violated for generator %d between t=%d and t=%d", g.ID, t-1, t)
				}
			}
		}
	}

	// Storage state bounds and evolution.
	for i, u := range ds.Storage {
		b := i + 1
		prev := u.InitialMWh
		for t := 1; t <= T; t++ {
			e := sol.StorageLevel[model.StoragePeriod{Storage: b, Period: t}]
			if e < -tol || e > u.EnergyCapMWh+tol {
				return fmt.Errorf("storage %d level out of bounds at t=%d: %.6f", b, t, e)
			}
			want := prev + u.ChargeEff*sol.StorageCharge[model.StoragePeriod{Storage: b, Period: t}] -
				sol.StorageDischarge[model.StoragePeriod{Storage: b, Period: t}]/u.DischargeEff
			if math.Abs(e-want) > tol {
				return fmt.Errorf("storage %d balance violated at t=%d", b, t)
			}
			prev = e
		}
	}

	return nil
}
