package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexmarket/internal/dayahead"
	"flexmarket/internal/lp"
	"flexmarket/internal/model"
)

const commit = 155.0

// benchmarkInputs is the frozen day-ahead point used across the recourse
// tests: generator 1 at 45 MW, 155 MW of committed renewable output.
func benchmarkInputs(ds *model.Dataset) *Inputs {
	in := &Inputs{
		Schedule:         make(map[model.GenPeriod]float64),
		RenewableCommit:  make(map[int]float64),
		DemandResponse:   make(map[int]float64),
		StorageCharge:    make(map[model.StoragePeriod]float64),
		StorageDischarge: make(map[model.StoragePeriod]float64),
	}
	for t := 1; t <= ds.Periods; t++ {
		in.Schedule[model.GenPeriod{Gen: 1, Period: t}] = 45
		in.RenewableCommit[t] = commit
		in.DemandResponse[t] = 0
	}
	return in
}

// feasiblePoint absorbs each scenario's renewable deviation through the
// renewable redispatch variables and demand response.
func feasiblePoint(ds *model.Dataset) *lp.Solution {
	sol := lp.NewSolution(lp.Status{OK: true, Optimal: true}, 1000)
	for s := 1; s <= ds.Scenarios; s++ {
		for t := 1; t <= ds.Periods; t++ {
			gap := ds.Renewable.At(s, t) - commit
			if gap >= 0 {
				sol.SetValue(rgup(s, t), gap)
			} else {
				sol.SetValue(rgdn(s, t), -gap)
			}
			sol.SetValue(dRT(s, t), -gap)
			sol.SetDual(conBalance(s, t), 25)
		}
	}
	return sol
}

func TestFromDayAhead(t *testing.T) {
	ds := model.Benchmark()
	daSol := lp.NewSolution(lp.Status{OK: true, Optimal: true}, 1000)
	for t2 := 1; t2 <= ds.Periods; t2++ {
		daSol.SetValue(lp.Key("rgDA", t2), commit)
		daSol.SetValue(lp.Key("xDA", 1, t2), 45)
	}

	in := FromDayAhead(ds, dayahead.Extract(ds, daSol))
	assert.InDelta(t, commit, in.RenewableCommit[1], 1e-12)
	assert.InDelta(t, 45.0, in.Schedule[model.GenPeriod{Gen: 1, Period: 2}], 1e-12)
	assert.Zero(t, in.Schedule[model.GenPeriod{Gen: 2, Period: 1}])
	assert.Zero(t, in.DemandResponse[1])
}

func TestBuildBenchmarkStructure(t *testing.T) {
	ds := model.Benchmark()
	m := Build(ds, benchmarkInputs(ds))

	assert.Equal(t, "rt_recourse", m.Name)

	// Per scenario: 5 system variables and 2 adjustment variables per seller
	// and period; 2 system constraints plus 4 per seller and period.
	assert.Len(t, m.Vars(), ds.Scenarios*ds.Periods*(5+2*len(ds.Sellers)))
	assert.Len(t, m.Constraints(), ds.Scenarios*ds.Periods*(2+4*len(ds.Sellers)))

	for s := 1; s <= ds.Scenarios; s++ {
		for t2 := 1; t2 <= ds.Periods; t2++ {
			assert.NotNil(t, m.Lookup(dRT(s, t2)))
			assert.NotNil(t, m.Lookup(rgup(s, t2)))
			assert.NotNil(t, m.LookupConstraint(conBalance(s, t2)))
			assert.NotNil(t, m.LookupConstraint(conAvailability(s, t2)))
		}
	}
	assert.Nil(t, m.Lookup(eLvl(1, 1, 1)))
	assert.False(t, m.HasQuadObjective())
}

func TestBuildConstraintParameters(t *testing.T) {
	ds := model.Benchmark()
	in := benchmarkInputs(ds)
	m := Build(ds, in)

	// Availability RHS is the realized-minus-committed deviation.
	c := m.LookupConstraint(conAvailability(1, 1))
	require.NotNil(t, c)
	assert.Equal(t, lp.Eq, c.Rel)
	assert.InDelta(t, 131.0-commit, c.RHS, 1e-12)

	// Balance RHS is the day-ahead net storage dispatch, zero without units.
	assert.Zero(t, m.LookupConstraint(conBalance(1, 1)).RHS)

	// Headroom around the frozen schedule: generator 1 sits at 45 of 50 MW.
	assert.InDelta(t, 5.0, m.LookupConstraint(conCapMax(1, 1, 1)).RHS, 1e-12)
	assert.InDelta(t, 45.0, m.LookupConstraint(conCapMin(1, 1, 1)).RHS, 1e-12)
	// Generator 2 is unscheduled, so it has no room to adjust down.
	assert.InDelta(t, 10.0, m.LookupConstraint(conCapMax(1, 2, 1)).RHS, 1e-12)
	assert.Zero(t, m.LookupConstraint(conCapMin(1, 2, 1)).RHS)
}

func TestBuildObjectiveCoefficients(t *testing.T) {
	ds := model.Benchmark()
	m := Build(ds, benchmarkInputs(ds))
	coeffs := m.Objective().Coefficients()

	// Uniform probability 0.2 weights every scenario term.
	assert.InDelta(t, 0.2*20, coeffs[xup(1, 1, 1)], 1e-12)
	assert.InDelta(t, -0.2*20, coeffs[xdn(1, 1, 1)], 1e-12)
	assert.InDelta(t, 0.2*5000, coeffs[sdup(1, 1)], 1e-12)
	assert.InDelta(t, 0.2*5000, coeffs[sddn(1, 1)], 1e-12)
	assert.InDelta(t, 0.2*500, coeffs[dRT(3, 2)], 1e-12)
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
		FinalMWh:     150,
	}}
	require.NoError(t, ds.Validate())

	m := Build(ds, benchmarkInputs(ds))
	assert.NotNil(t, m.Lookup(eLvl(1, 1, 1)))
	assert.NotNil(t, m.Lookup(bUp(2, 1, 2)))

	// Terminal state-of-charge floor holds in every scenario.
	for s := 1; s <= ds.Scenarios; s++ {
		c := m.LookupConstraint(conFinalSoc(s, 1))
		require.NotNil(t, c)
		assert.Equal(t, lp.GE, c.Rel)
		assert.InDelta(t, 150.0, c.RHS, 1e-12)
		assert.InDelta(t, 1.0, c.Expr.Coefficients()[eLvl(s, 1, ds.Periods)], 1e-12)
	}

	// Activation headroom is capped at half the power rating.
	c := m.LookupConstraint(conAdjustLimit(1, 1, 1))
	require.NotNil(t, c)
	assert.InDelta(t, 50.0, c.RHS, 1e-12)
}

func TestExtractRoundTrip(t *testing.T) {
	ds := model.Benchmark()
	sol := Extract(ds, feasiblePoint(ds))

	st := model.ScenarioPeriod{Scenario: 1, Period: 1}
	assert.InDelta(t, 24.0, sol.RenewableDown[st], 1e-12)
	assert.Zero(t, sol.RenewableUp[st])
	assert.InDelta(t, 24.0, sol.DemandResponse[st], 1e-12)
	assert.InDelta(t, 25.0, sol.Price[st], 1e-12)

	high := model.ScenarioPeriod{Scenario: 5, Period: 2}
	assert.InDelta(t, 17.0, sol.RenewableUp[high], 1e-12)
	assert.InDelta(t, -17.0, sol.DemandResponse[high], 1e-12)
}

func TestCheckAcceptsFeasiblePoint(t *testing.T) {
	ds := model.Benchmark()
	in := benchmarkInputs(ds)
	sol := Extract(ds, feasiblePoint(ds))
	assert.NoError(t, Check(ds, in, sol, 1e-6))
}

func TestCheckRejectsViolations(t *testing.T) {
	ds := model.Benchmark()
	in := benchmarkInputs(ds)

	t.Run("rt balance", func(t *testing.T) {
		sol := Extract(ds, feasiblePoint(ds))
		sol.AdjustUp[model.ScenGenPeriod{Scenario: 1, Gen: 1, Period: 1}] = 3
		err := Check(ds, in, sol, 1e-6)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rt balance")
	})

	t.Run("availability", func(t *testing.T) {
		sol := Extract(ds, feasiblePoint(ds))
		// Shortfall enters only the availability identity, so tampering with
		// it leaves the balance intact.
		sol.Shortfall[model.ScenarioPeriod{Scenario: 2, Period: 1}] = 4
		err := Check(ds, in, sol, 1e-6)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "re availability")
	})

	t.Run("rt capacity", func(t *testing.T) {
		sol := Extract(ds, feasiblePoint(ds))
		st := model.ScenarioPeriod{Scenario: 1, Period: 1}
		// Keep both balances intact while pushing generator 1 over its cap.
		sol.AdjustUp[model.ScenGenPeriod{Scenario: 1, Gen: 1, Period: 1}] = 10
		sol.DemandResponse[st] -= 10
		err := Check(ds, in, sol, 1e-6)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rt capacity")
	})
}

func TestCheckTerminalStateOfCharge(t *testing.T) {
	ds := model.Benchmark()
	ds.Storage = []model.Unit{{
		ID:           1,
		EnergyCapMWh: 400,
		PowerCapMW:   100,
		ChargeEff:    1,
		DischargeEff: 1,
		InitialMWh:   200,
		FinalMWh:     300,
	}}
	in := benchmarkInputs(ds)

	sol := Extract(ds, feasiblePoint(ds))
	// An idle unit holds its initial charge, which sits below the floor.
	for s := 1; s <= ds.Scenarios; s++ {
		for t2 := 1; t2 <= ds.Periods; t2++ {
			sol.StorageLevel[model.ScenStoragePeriod{Scenario: s, Storage: 1, Period: t2}] = 200
		}
	}
	err := Check(ds, in, sol, 1e-6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal level")
}
