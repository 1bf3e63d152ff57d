// Package pipeline runs the full clearing sequence: day-ahead co-optimization,
// real-time recourse, then settlement. A run either completes all three stages
// or fails with no partial results.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"flexmarket/internal/dayahead"
	"flexmarket/internal/lp"
	"flexmarket/internal/model"
	"flexmarket/internal/realtime"
	"flexmarket/internal/settlement"
)

// ErrNotOptimal reports a solve that terminated without an optimal solution.
// Callers can match it with errors.Is to distinguish market infeasibility
// from mechanical solver failures.
var ErrNotOptimal = errors.New("solver did not reach optimality")

const defaultTolerance = 1e-6

// Results is the complete output of one clearing run.
type Results struct {
	DayAhead *dayahead.Solution
	RealTime *realtime.Solution

	Gross      map[int]settlement.GrossMargin
	RTMargins  map[model.ScenGenPeriod]float64
	Payoffs    settlement.Payoffs
	Premiums   map[int]settlement.Premium
	Allocation settlement.Allocation
	Metrics    *settlement.Metrics
}

// Engine wires a solver backend into the clearing sequence.
type Engine struct {
	solver lp.Solver
	log    *zap.Logger
	tol    float64
}

// New returns an Engine using the given solver backend. A nil logger
// disables stage logging.
func New(solver lp.Solver, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{solver: solver, log: log, tol: defaultTolerance}
}

// Run clears the market for one dataset. Any stage failure aborts the run.
func (e *Engine) Run(ctx context.Context, ds *model.Dataset) (*Results, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	daSol, err := e.runDayAhead(ctx, ds)
	if err != nil {
		return nil, err
	}

	in := realtime.FromDayAhead(ds, daSol)
	rtSol, err := e.runRealTime(ctx, ds, in)
	if err != nil {
		return nil, err
	}

	gross := settlement.GrossMargins(ds, daSol)
	rtm := settlement.RTMargins(ds, rtSol)
	pay := settlement.RTPayoffs(ds, daSol, rtSol)
	prem := settlement.PremiumConvergence(ds, gross, pay)

	res := &Results{
		DayAhead:   daSol,
		RealTime:   rtSol,
		Gross:      gross,
		RTMargins:  rtm,
		Payoffs:    pay,
		Premiums:   prem,
		Allocation: settlement.TotalMargins(ds, daSol, rtSol, gross, rtm, pay, prem),
		Metrics:    settlement.SystemMetrics(ds, daSol, rtSol),
	}

	e.log.Info("clearing run complete",
		zap.Float64("da_objective", daSol.Objective),
		zap.Float64("rt_objective", rtSol.Objective),
		zap.Float64("da_avg_price", res.Metrics.DAAveragePrice))
	return res, nil
}

func (e *Engine) runDayAhead(ctx context.Context, ds *model.Dataset) (*dayahead.Solution, error) {
	m := dayahead.Build(ds)
	e.log.Debug("day-ahead model built",
		zap.Int("vars", len(m.Vars())),
		zap.Int("constraints", len(m.Constraints())))

	sol, err := e.solver.Solve(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("day-ahead solve: %w", err)
	}
	if !sol.Status.Usable() {
		return nil, fmt.Errorf("day-ahead: %w: %s", ErrNotOptimal, sol.Status.Message)
	}

	out := dayahead.Extract(ds, sol)
	if err := dayahead.Check(ds, out, e.tol); err != nil {
		return nil, fmt.Errorf("day-ahead solution rejected: %w", err)
	}
	e.log.Info("day-ahead cleared", zap.Float64("objective", out.Objective))
	return out, nil
}

func (e *Engine) runRealTime(ctx context.Context, ds *model.Dataset, in *realtime.Inputs) (*realtime.Solution, error) {
	m := realtime.Build(ds, in)
	e.log.Debug("real-time model built",
		zap.Int("vars", len(m.Vars())),
		zap.Int("constraints", len(m.Constraints())))

	sol, err := e.solver.Solve(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("real-time solve: %w", err)
	}
	if !sol.Status.Usable() {
		return nil, fmt.Errorf("real-time: %w: %s", ErrNotOptimal, sol.Status.Message)
	}

	out := realtime.Extract(ds, sol)
	if err := realtime.Check(ds, in, out, e.tol); err != nil {
		return nil, fmt.Errorf("real-time solution rejected: %w", err)
	}
	e.log.Info("real-time cleared", zap.Float64("objective", out.Objective))
	return out, nil
}
