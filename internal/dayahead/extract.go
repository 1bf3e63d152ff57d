package dayahead

import (
	"flexmarket/internal/lp"
	"flexmarket/internal/model"
)

// Solution is the typed day-ahead outcome: primal awards plus the shadow
// prices the settlement stage turns into economic allocations. Maps are
// dense over the dataset's index ranges; readers that probe other
// combinations get zero, matching the sparse-table contract.
type Solution struct {
	Objective float64

	Energy        map[model.GenPeriod]float64     // xDA, sellers only
	FlexUp        map[model.TierGenPeriod]float64 // hsu
	FlexDown      map[model.TierGenPeriod]float64 // hsd
	LadderUp      map[model.TierPeriod]float64    // hdu
	LadderDown    map[model.TierPeriod]float64    // hdd
	SelfHedgeUp   map[model.TierPeriod]float64    // sdu
	SelfHedgeDown map[model.TierPeriod]float64    // sdd

	RenewableCommit map[int]float64 // rgDA by period
	DemandSlack     map[int]float64 // d by period

	StorageCharge    map[model.StoragePeriod]float64
	StorageDischarge map[model.StoragePeriod]float64
	StorageLevel     map[model.StoragePeriod]float64
	StorageFlexUp    map[model.TierStoragePeriod]float64
	StorageFlexDown  map[model.TierStoragePeriod]float64

	// EnergyPrice[t] is the dual of the energy balance; FlexUpPrice and
	// FlexDownPrice are the per-tier flexibility-balance duals.
	EnergyPrice   map[int]float64
	FlexUpPrice   map[model.TierPeriod]float64
	FlexDownPrice map[model.TierPeriod]float64
}

// Extract reads the solver's primal and dual values into a typed Solution.
// The caller must have verified sol.Status beforehand.
func Extract(ds *model.Dataset, sol *lp.Solution) *Solution {
	T, R := ds.Periods, ds.Tiers
	out := &Solution{
		Objective:        sol.Objective,
		Energy:           make(map[model.GenPeriod]float64),
		FlexUp:           make(map[model.TierGenPeriod]float64),
		FlexDown:         make(map[model.TierGenPeriod]float64),
		LadderUp:         make(map[model.TierPeriod]float64),
		LadderDown:       make(map[model.TierPeriod]float64),
		SelfHedgeUp:      make(map[model.TierPeriod]float64),
		SelfHedgeDown:    make(map[model.TierPeriod]float64),
		RenewableCommit:  make(map[int]float64),
		DemandSlack:      make(map[int]float64),
		StorageCharge:    make(map[model.StoragePeriod]float64),
		StorageDischarge: make(map[model.StoragePeriod]float64),
		StorageLevel:     make(map[model.StoragePeriod]float64),
		StorageFlexUp:    make(map[model.TierStoragePeriod]float64),
		StorageFlexDown:  make(map[model.TierStoragePeriod]float64),
		EnergyPrice:      make(map[int]float64),
		FlexUpPrice:      make(map[model.TierPeriod]float64),
		FlexDownPrice:    make(map[model.TierPeriod]float64),
	}

	for t := 1; t <= T; t++ {
		out.RenewableCommit[t] = sol.Value(rgDA(t))
		out.DemandSlack[t] = sol.Value(dSlack(t))
		out.EnergyPrice[t] = sol.Dual(conEnergyBalance(t))
		for r := 1; r <= R; r++ {
			out.LadderUp[model.TierPeriod{Tier: r, Period: t}] = sol.Value(hdu(r, t))
			out.LadderDown[model.TierPeriod{Tier: r, Period: t}] = sol.Value(hdd(r, t))
			out.SelfHedgeUp[model.TierPeriod{Tier: r, Period: t}] = sol.Value(sdu(r, t))
			out.SelfHedgeDown[model.TierPeriod{Tier: r, Period: t}] = sol.Value(sdd(r, t))
			out.FlexUpPrice[model.TierPeriod{Tier: r, Period: t}] = sol.Dual(conFlexUpBalance(r, t))
			out.FlexDownPrice[model.TierPeriod{Tier: r, Period: t}] = sol.Dual(conFlexDnBalance(r, t))
		}
	}
	for _, g := range ds.Sellers {
		for t := 1; t <= T; t++ {
			out.Energy[model.GenPeriod{Gen: g.ID, Period: t}] = sol.Value(xDA(g.ID, t))
			for r := 1; r <= R; r++ {
				out.FlexUp[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}] = sol.Value(hsu(r, g.ID, t))
				out.FlexDown[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}] = sol.Value(hsd(r, g.ID, t))
			}
		}
	}
	for i := range ds.Storage {
		b := i + 1
		for t := 1; t <= T; t++ {
			out.StorageCharge[model.StoragePeriod{Storage: b, Period: t}] = sol.Value(pCh(b, t))
			out.StorageDischarge[model.StoragePeriod{Storage: b, Period: t}] = sol.Value(pDch(b, t))
			out.StorageLevel[model.StoragePeriod{Storage: b, Period: t}] = sol.Value(eLvl(b, t))
			for r := 1; r <= R; r++ {
				out.StorageFlexUp[model.TierStoragePeriod{Tier: r, Storage: b, Period: t}] = sol.Value(bsu(r, b, t))
				out.StorageFlexDown[model.TierStoragePeriod{Tier: r, Storage: b, Period: t}] = sol.Value(bsd(r, b, t))
			}
		}
	}
	return out
}

// SellerFlexUpAtOrAbove sums a seller's up-flex awards over tiers >= s at
// period t: exactly the volume drawn when scenario s realizes.
func (s *Solution) SellerFlexUpAtOrAbove(ds *model.Dataset, scen, gen, t int) float64 {
	total := 0.0
	for r := scen; r <= ds.Tiers; r++ {
		total += s.FlexUp[model.TierGenPeriod{Tier: r, Gen: gen, Period: t}]
	}
	return total
}

// SellerFlexDownBelow sums a seller's down-flex awards over tiers < s at
// period t.
func (s *Solution) SellerFlexDownBelow(ds *model.Dataset, scen, gen, t int) float64 {
	total := 0.0
	for r := 1; r < scen && r <= ds.Tiers; r++ {
		total += s.FlexDown[model.TierGenPeriod{Tier: r, Gen: gen, Period: t}]
	}
	return total
}
