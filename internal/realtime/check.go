package realtime

import (
	"fmt"
	"math"

	"flexmarket/internal/model"
)

// Check verifies an accepted recourse solution against the stage's
// invariants, to the given tolerance.
func Check(ds *model.Dataset, in *Inputs, sol *Solution, tol float64) error {
	T, S := ds.Periods, ds.Scenarios

	for s := 1; s <= S; s++ {
		for t := 1; t <= T; t++ {
			st := model.ScenarioPeriod{Scenario: s, Period: t}

			// Real-time balance.
			net := sol.RenewableUp[st] - sol.RenewableDown[st] + sol.DemandResponse[st]
			for _, g := range ds.Sellers {
				k := model.ScenGenPeriod{Scenario: s, Gen: g.ID, Period: t}
				net += sol.AdjustUp[k] - sol.AdjustDown[k]
			}
			for b := 1; b <= len(ds.Storage); b++ {
				k := model.ScenStoragePeriod{Scenario: s, Storage: b, Period: t}
				bp := model.StoragePeriod{Storage: b, Period: t}
				net += sol.StorageDischarge[k] - sol.StorageCharge[k] -
					in.StorageDischarge[bp] + in.StorageCharge[bp]
			}
			if math.Abs(net) > tol {
				return fmt.Errorf("rt balance violated at s=%d t=%d: %.6f", s, t, net)
			}

			// Renewable availability identity.
			dev := sol.RenewableUp[st] - sol.RenewableDown[st] + sol.Shortfall[st] - sol.Surplus[st]
			want := ds.Renewable.At(s, t) - in.RenewableCommit[t]
			if math.Abs(dev-want) > tol {
				return fmt.Errorf("re availability violated at s=%d t=%d", s, t)
			}
		}

		for _, g := range ds.Sellers {
			for t := 1; t <= T; t++ {
				k := model.ScenGenPeriod{Scenario: s, Gen: g.ID, Period: t}
				x0 := in.Schedule[model.GenPeriod{Gen: g.ID, Period: t}]
				if sol.AdjustUp[k] > g.RampMW+tol || sol.AdjustDown[k] > g.RampMW+tol {
					return fmt.Errorf("rt ramp violated for generator %d at s=%d t=%d", g.ID, s, t)
				}
				if x0+sol.AdjustUp[k] > g.CapacityMW+tol {
					return fmt.Errorf("rt capacity violated for generator %d at s=%d t=%d", g.ID, s, t)
				}
				if x0-sol.AdjustDown[k] < -tol {
					return fmt.Errorf("rt down-adjustment below zero dispatch for generator %d at s=%d t=%d", g.ID, s, t)
				}
			}
		}

		for i, u := range ds.Storage {
			b := i + 1
			prev := u.InitialMWh
			for t := 1; t <= T; t++ {
				k := model.ScenStoragePeriod{Scenario: s, Storage: b, Period: t}
				e := sol.StorageLevel[k]
				if e < -tol || e > u.EnergyCapMWh+tol {
					return fmt.Errorf("storage %d level out of bounds at s=%d t=%d", b, s, t)
				}
				want := prev + u.ChargeEff*sol.StorageCharge[k] - sol.StorageDischarge[k]/u.DischargeEff
				if math.Abs(e-want) > tol {
					return fmt.Errorf("storage %d balance violated at s=%d t=%d", b, s, t)
				}
				prev = e
			}
			if prev < u.FinalMWh-tol {
				return fmt.Errorf("storage %d terminal level %.6f below floor %.6f at s=%d", b, prev, u.FinalMWh, s)
			}
		}
	}

	return nil
}
