package dayahead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexmarket/internal/lp"
	"flexmarket/internal/model"
)

func TestBuildBenchmarkStructure(t *testing.T) {
	ds := model.Benchmark()
	m := Build(ds)

	assert.Equal(t, "da_market", m.Name)

	// T=2, S=5, R=4, 5 sellers, no storage.
	assert.Len(t, m.Vars(), 146)
	assert.Len(t, m.Constraints(), 108)

	for t2 := 1; t2 <= ds.Periods; t2++ {
		assert.NotNil(t, m.Lookup(rgDA(t2)))
		assert.NotNil(t, m.Lookup(dSlack(t2)))
		assert.NotNil(t, m.LookupConstraint(conEnergyBalance(t2)))
		for _, g := range ds.Sellers {
			assert.NotNil(t, m.Lookup(xDA(g.ID, t2)))
		}
		for r := 1; r <= ds.Tiers; r++ {
			assert.NotNil(t, m.Lookup(hdu(r, t2)))
			assert.NotNil(t, m.LookupConstraint(conFlexUpBalance(r, t2)))
			assert.NotNil(t, m.LookupConstraint(conFlexDnBalance(r, t2)))
		}
		for s := 1; s <= ds.Scenarios; s++ {
			assert.NotNil(t, m.Lookup(du(s, t2)))
			assert.NotNil(t, m.Lookup(yDev(s, t2)))
			assert.NotNil(t, m.LookupConstraint(conFlexDemand(s, t2)))
		}
	}

	// Inter-temporal ramp constraints start at the second period.
	assert.Nil(t, m.LookupConstraint(conRampUp(1, 1)))
	assert.NotNil(t, m.LookupConstraint(conRampUp(1, 2)))

	// No storage units means no storage variables at all.
	assert.Nil(t, m.Lookup(eLvl(1, 1)))
	assert.Nil(t, m.LookupConstraint(conStorageBalance(1, 1)))

	// Pure LP: the benchmark keeps the quadratic demand cost at zero.
	assert.False(t, m.HasQuadObjective())
}

func TestBuildBuyersCarryNoVariables(t *testing.T) {
	ds := model.Benchmark()
	ds.Buyers = []model.Buyer{{ID: 6, CapacityMW: 100}}
	require.NoError(t, ds.Validate())

	m := Build(ds)
	for t2 := 1; t2 <= ds.Periods; t2++ {
		assert.Nil(t, m.Lookup(xDA(6, t2)))
		for r := 1; r <= ds.Tiers; r++ {
			assert.Nil(t, m.Lookup(hsu(r, 6, t2)))
			assert.Nil(t, m.Lookup(hsd(r, 6, t2)))
		}
	}
}

func TestBuildObjectiveCoefficients(t *testing.T) {
	ds := model.Benchmark()
	m := Build(ds)
	coeffs := m.Objective().Coefficients()

	assert.InDelta(t, 20.0, coeffs[xDA(1, 1)], 1e-12)
	assert.InDelta(t, 70.0, coeffs[xDA(5, 2)], 1e-12)

	// Expected flexibility cost: probUp(1)=0.2, probDown(1)=0.8.
	assert.InDelta(t, 0.2*20, coeffs[hsu(1, 1, 1)], 1e-12)
	assert.InDelta(t, -0.8*20, coeffs[hsd(1, 1, 1)], 1e-12)

	// Self-hedge penalty carries the same probability weighting.
	assert.InDelta(t, 0.2*5000, coeffs[sdu(1, 1)], 1e-12)
	assert.InDelta(t, -0.8*5000, coeffs[sdd(1, 1)], 1e-12)

	assert.InDelta(t, 1e-3, coeffs[yDev(1, 1)], 1e-12)

	// Demand slack is weighted across all five uniform scenarios.
	assert.InDelta(t, 500.0, coeffs[dSlack(1)], 1e-9)
	assert.InDelta(t, 0.2*500, coeffs[du(3, 1)], 1e-9)
}

func TestBuildQuadraticDemandCost(t *testing.T) {
	ds := model.Benchmark()
	ds.Options.DemandCostQuad = 1.0

	m := Build(ds)
	assert.True(t, m.HasQuadObjective())
	// (d + du)^2 expands to three quadratic terms per scenario and period.
	assert.Len(t, m.QuadObjective(), 3*ds.Scenarios*ds.Periods)
}

func TestBuildEnergyBalance(t *testing.T) {
	ds := model.Benchmark()
	m := Build(ds)

	c := m.LookupConstraint(conEnergyBalance(1))
	require.NotNil(t, c)
	assert.Equal(t, lp.Eq, c.Rel)
	assert.InDelta(t, 200.0, c.RHS, 1e-12)

	coeffs := c.Expr.Coefficients()
	assert.InDelta(t, 1.0, coeffs[rgDA(1)], 1e-12)
	assert.InDelta(t, 1.0, coeffs[dSlack(1)], 1e-12)
	for _, g := range ds.Sellers {
		assert.InDelta(t, 1.0, coeffs[xDA(g.ID, 1)], 1e-12)
	}
	assert.Len(t, coeffs, 2+len(ds.Sellers))
}

func TestBuildWithStorage(t *testing.T) {
	ds := model.Benchmark()
	ds.Storage = []model.Unit{{
		ID:           7,
		EnergyCapMWh: 400,
		PowerCapMW:   100,
		ChargeEff:    0.9,
		DischargeEff: 0.9,
		InitialMWh:   200,
		FinalMWh:     200,
	}}
	require.NoError(t, ds.Validate())

	m := Build(ds)
	// Storage variables use positional 1-based ids, not the unit id.
	assert.NotNil(t, m.Lookup(eLvl(1, 1)))
	assert.NotNil(t, m.Lookup(pCh(1, 2)))
	assert.NotNil(t, m.Lookup(bsu(1, 1, 1)))
	assert.Nil(t, m.Lookup(eLvl(7, 1)))

	// The first-period state equation folds the initial charge into the RHS.
	c := m.LookupConstraint(conStorageBalance(1, 1))
	require.NotNil(t, c)
	assert.InDelta(t, 200.0, c.RHS, 1e-12)
	coeffs := c.Expr.Coefficients()
	assert.InDelta(t, -0.9, coeffs[pCh(1, 1)], 1e-12)
	assert.InDelta(t, 1/0.9, coeffs[pDch(1, 1)], 1e-12)

	// Later periods reference the previous level instead.
	c2 := m.LookupConstraint(conStorageBalance(1, 2))
	require.NotNil(t, c2)
	assert.Zero(t, c2.RHS)
	assert.InDelta(t, -1.0, c2.Expr.Coefficients()[eLvl(1, 1)], 1e-12)

	// Storage shares the energy balance through net discharge.
	bal := m.LookupConstraint(conEnergyBalance(1)).Expr.Coefficients()
	assert.InDelta(t, 1.0, bal[pDch(1, 1)], 1e-12)
	assert.InDelta(t, -1.0, bal[pCh(1, 1)], 1e-12)
}

// feasiblePoint is a hand-checked feasible (not optimal) benchmark point:
// generator 1 at 45 MW with the renewable commitment covering the rest.
func feasiblePoint(ds *model.Dataset) *lp.Solution {
	sol := lp.NewSolution(lp.Status{OK: true, Optimal: true}, 1000)
	for t := 1; t <= ds.Periods; t++ {
		sol.SetValue(rgDA(t), 155)
		sol.SetValue(xDA(1, t), 45)
		sol.SetDual(conEnergyBalance(t), 20)
	}
	return sol
}

func TestExtractRoundTrip(t *testing.T) {
	ds := model.Benchmark()
	sol := Extract(ds, feasiblePoint(ds))

	assert.InDelta(t, 1000.0, sol.Objective, 1e-12)
	assert.InDelta(t, 155.0, sol.RenewableCommit[1], 1e-12)
	assert.InDelta(t, 45.0, sol.Energy[model.GenPeriod{Gen: 1, Period: 2}], 1e-12)
	assert.Zero(t, sol.Energy[model.GenPeriod{Gen: 2, Period: 1}])
	assert.InDelta(t, 20.0, sol.EnergyPrice[1], 1e-12)
	assert.Zero(t, sol.FlexUpPrice[model.TierPeriod{Tier: 1, Period: 1}])
}

func TestCheckAcceptsFeasiblePoint(t *testing.T) {
	ds := model.Benchmark()
	sol := Extract(ds, feasiblePoint(ds))
	assert.NoError(t, Check(ds, sol, 1e-6))
}

func TestCheckRejectsViolations(t *testing.T) {
	ds := model.Benchmark()

	t.Run("energy balance", func(t *testing.T) {
		sol := Extract(ds, feasiblePoint(ds))
		sol.Energy[model.GenPeriod{Gen: 1, Period: 2}] = 200
		err := Check(ds, sol, 1e-6)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "energy balance")
	})

	t.Run("capacity", func(t *testing.T) {
		sol := Extract(ds, feasiblePoint(ds))
		sol.Energy[model.GenPeriod{Gen: 1, Period: 1}] = 60
		sol.RenewableCommit[1] = 140
		err := Check(ds, sol, 1e-6)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capacity violated")
	})

	t.Run("ladder consistency", func(t *testing.T) {
		sol := Extract(ds, feasiblePoint(ds))
		sol.FlexUp[model.TierGenPeriod{Tier: 1, Gen: 1, Period: 1}] = 5
		err := Check(ds, sol, 1e-6)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "up-flex ladder")
	})

	t.Run("down-flex exceeds award", func(t *testing.T) {
		sol := Extract(ds, feasiblePoint(ds))
		sol.FlexDown[model.TierGenPeriod{Tier: 1, Gen: 1, Period: 1}] = 50
		sol.LadderDown[model.TierPeriod{Tier: 1, Period: 1}] = 50
		err := Check(ds, sol, 1e-6)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "down-flex exceeds")
	})
}

func TestSellerFlexSums(t *testing.T) {
	ds := model.Benchmark()
	sol := Extract(ds, feasiblePoint(ds))
	for r := 1; r <= ds.Tiers; r++ {
		sol.FlexUp[model.TierGenPeriod{Tier: r, Gen: 1, Period: 1}] = float64(r)
		sol.FlexDown[model.TierGenPeriod{Tier: r, Gen: 1, Period: 1}] = float64(r)
	}

	// Scenario 3 draws up tiers 3..4 and down tiers 1..2.
	assert.InDelta(t, 3+4, sol.SellerFlexUpAtOrAbove(ds, 3, 1, 1), 1e-12)
	assert.InDelta(t, 1+2, sol.SellerFlexDownBelow(ds, 3, 1, 1), 1e-12)
	assert.InDelta(t, 1+2+3+4, sol.SellerFlexUpAtOrAbove(ds, 1, 1, 1), 1e-12)
	assert.Zero(t, sol.SellerFlexDownBelow(ds, 1, 1, 1))
}
