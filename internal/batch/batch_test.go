package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexmarket/internal/config"
	"flexmarket/internal/lp"
	"flexmarket/internal/model"
	"flexmarket/internal/solver"
)

// benchmarkStub returns a feasible (not optimal) point for both benchmark
// stages, same construction as the pipeline tests: commit the median
// scenario, cover the residual with generator 1, absorb forecast errors
// through renewable redispatch and demand response.
func benchmarkStub() solver.Func {
	ds := model.Benchmark()
	return func(_ context.Context, m *lp.Model) (*lp.Solution, error) {
		sol := lp.NewSolution(lp.Status{OK: true, Optimal: true}, 1000)
		const commit = 155.0
		switch m.Name {
		case "da_market":
			for t := 1; t <= ds.Periods; t++ {
				sol.SetValue(lp.Key("rgDA", t), commit)
				sol.SetValue(lp.Key("xDA", 1, t), 45)
				sol.SetDual(lp.Key("energy_balance", t), 20)
			}
		case "rt_recourse":
			for s := 1; s <= ds.Scenarios; s++ {
				for t := 1; t <= ds.Periods; t++ {
					gap := ds.Renewable.At(s, t) - commit
					if gap >= 0 {
						sol.SetValue(lp.Key("rgup", s, t), gap)
					} else {
						sol.SetValue(lp.Key("rgdn", s, t), -gap)
					}
					sol.SetValue(lp.Key("d", s, t), -gap)
					sol.SetDual(lp.Key("rt_balance", s, t), 25)
				}
			}
		}
		return sol, nil
	}
}

func benchmarkConfig(t *testing.T, runs, workers int) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Benchmark: true,
		Batch:     config.BatchConfig{Runs: runs, Workers: workers},
		OutputDir: t.TempDir(),
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestBatchBenchmark(t *testing.T) {
	cfg := benchmarkConfig(t, 3, 2)
	r := New(cfg, nil)
	r.Solver = benchmarkStub()

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Runs)
	assert.Equal(t, 3, sum.Succeeded)
	assert.Zero(t, sum.Failed)
	assert.InDelta(t, 1000.0, sum.DAObjectiveMean, 1e-9)
	assert.InDelta(t, 0.0, sum.DAObjectiveStdDev, 1e-9)

	// Results come back ordered with disjoint run directories.
	for i, res := range sum.Results {
		assert.Equal(t, i+1, res.Run)
		_, err := os.Stat(filepath.Join(res.Dir, "schedule.csv"))
		assert.NoError(t, err, res.Dir)
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	cfg := benchmarkConfig(t, 4, 2)
	r := New(cfg, nil)
	r.Solver = solver.Func(func(context.Context, *lp.Model) (*lp.Solution, error) {
		return nil, errors.New("backend exploded")
	})

	sum, err := r.Run(context.Background())
	require.NoError(t, err, "replicate failures must not fail the batch")

	assert.Equal(t, 4, sum.Runs)
	assert.Equal(t, 4, sum.Failed)
	assert.Zero(t, sum.Succeeded)
	for _, res := range sum.Results {
		assert.Error(t, res.Err)
	}
}

func TestBatchConfigIsCopied(t *testing.T) {
	cfg := benchmarkConfig(t, 1, 1)
	r := New(cfg, nil)
	r.Solver = benchmarkStub()

	cfg.Batch.Runs = 99 // mutation after New must not reach the runner

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Runs)
}
