// Package batch runs independent clearing replicates on a worker pool. Each
// replicate owns a value copy of the configuration and a private scenario
// file, and writes to a disjoint run_NNN directory; one failed replicate
// never aborts its siblings.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"flexmarket/internal/config"
	"flexmarket/internal/data"
	"flexmarket/internal/lp"
	"flexmarket/internal/pipeline"
	"flexmarket/internal/report"
	"flexmarket/internal/solver"
)

// RunResult is the outcome of one replicate.
type RunResult struct {
	Run int
	Dir string
	Err error

	DAObjective float64
	RTObjective float64
	DAAvgPrice  float64
}

// Summary aggregates a whole batch.
type Summary struct {
	Runs      int
	Succeeded int
	Failed    int

	DAObjectiveMean   float64
	DAObjectiveStdDev float64
	DAAvgPriceMean    float64

	Results []RunResult // ordered by run number
}

// Runner executes a batch from one configuration.
type Runner struct {
	cfg config.Config
	log *zap.Logger

	// Solver overrides the configured backend when non-nil (test seam).
	Solver lp.Solver
}

// New copies the configuration; later mutations of the caller's config do
// not reach running workers.
func New(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: *cfg, log: log}
}

// Run executes cfg.Batch.Runs replicates and returns the summary. Run itself
// errors only on setup failures (output directory, raw-simulation
// aggregation); per-replicate failures land in the summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}

	// Raw simulations aggregate once; workers only read from it.
	var sims *data.Simulations
	if !r.cfg.Benchmark && r.cfg.DataPaths.RawSimulations != "" {
		var err error
		sims, err = data.AggregateSimulations(r.cfg.DataPaths.RawSimulations)
		if err != nil {
			return nil, fmt.Errorf("aggregate simulations: %w", err)
		}
	}

	workers := r.cfg.Batch.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}

	runs := make(chan int)
	results := make(chan RunResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range runs {
				results <- r.runOne(ctx, run, sims)
			}
		}()
	}
	go func() {
		defer close(runs)
		for run := 1; run <= r.cfg.Batch.Runs; run++ {
			select {
			case runs <- run:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []RunResult
	for res := range results {
		if res.Err != nil {
			r.log.Warn("replicate failed", zap.Int("run", res.Run), zap.Error(res.Err))
		} else {
			r.log.Info("replicate complete", zap.Int("run", res.Run),
				zap.Float64("da_objective", res.DAObjective))
		}
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Run < all[j].Run })

	return summarize(all), nil
}

// runOne executes a single replicate on a private config copy.
func (r *Runner) runOne(ctx context.Context, run int, sims *data.Simulations) RunResult {
	res := RunResult{Run: run, Dir: filepath.Join(r.cfg.OutputDir, fmt.Sprintf("run_%03d", run))}
	cfg := r.cfg

	if sims != nil {
		scenFile, cleanup, err := r.drawScenarios(run, sims)
		if err != nil {
			res.Err = err
			return res
		}
		defer cleanup()
		cfg.DataPaths.Renewable = scenFile
	}

	ds, err := data.BuildDataset(&cfg)
	if err != nil {
		res.Err = err
		return res
	}

	backend := r.Solver
	if backend == nil {
		backend, err = solver.New(cfg.Solver.Name, cfg.Solver.Executable, cfg.Solver.Options)
		if err != nil {
			res.Err = err
			return res
		}
	}

	out, err := pipeline.New(backend, r.log.With(zap.Int("run", run))).Run(ctx, ds)
	if err != nil {
		res.Err = err
		return res
	}

	if err := report.WriteAll(res.Dir, ds, out); err != nil {
		res.Err = err
		return res
	}

	res.DAObjective = out.DayAhead.Objective
	res.RTObjective = out.RealTime.Objective
	res.DAAvgPrice = out.Metrics.DAAveragePrice
	return res
}

// drawScenarios samples this replicate's scenario columns into a private
// temp file. The per-run seed offset keeps replicates distinct while the
// batch as a whole stays reproducible.
func (r *Runner) drawScenarios(run int, sims *data.Simulations) (string, func(), error) {
	chosen, err := sims.Select(r.cfg.General.NumScenarios,
		r.cfg.ScenarioSelection.Criteria,
		r.cfg.ScenarioSelection.Seed+int64(run))
	if err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", fmt.Sprintf("scenarios_run%03d_*.csv", run))
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	f.Close()
	cleanup := func() { os.Remove(path) }

	if err := sims.WriteScenarioCSV(path, chosen, r.cfg.General.NumPeriods); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func summarize(all []RunResult) *Summary {
	s := &Summary{Runs: len(all), Results: all}

	var objectives, prices []float64
	for _, res := range all {
		if res.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		objectives = append(objectives, res.DAObjective)
		prices = append(prices, res.DAAvgPrice)
	}
	if len(objectives) > 0 {
		s.DAObjectiveMean = stat.Mean(objectives, nil)
		s.DAAvgPriceMean = stat.Mean(prices, nil)
	}
	if len(objectives) > 1 {
		s.DAObjectiveStdDev = stat.StdDev(objectives, nil)
	}
	return s
}
