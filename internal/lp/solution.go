package lp

import "context"

// Status is the solver's verdict as a checked sentinel, never an error:
// callers must inspect it and abandon the run on anything but ok+optimal.
type Status struct {
	OK      bool
	Optimal bool
	// Message carries the backend's own wording for logs.
	Message string
}

func (s Status) Usable() bool { return s.OK && s.Optimal }

// Solution holds primal values keyed by variable name and dual (shadow
// price) values keyed by constraint name. Absent keys read as zero, which is
// the contract the settlement stage depends on for sparse award tables.
type Solution struct {
	Status    Status
	Objective float64

	primal map[string]float64
	dual   map[string]float64
}

func NewSolution(status Status, objective float64) *Solution {
	return &Solution{
		Status:    status,
		Objective: objective,
		primal:    make(map[string]float64),
		dual:      make(map[string]float64),
	}
}

func (s *Solution) SetValue(name string, v float64) { s.primal[name] = v }
func (s *Solution) SetDual(name string, v float64)  { s.dual[name] = v }

// Value returns the primal value of a variable, zero when absent.
func (s *Solution) Value(name string) float64 { return s.primal[name] }

// Dual returns the shadow price of a constraint, zero when absent.
func (s *Solution) Dual(name string) float64 { return s.dual[name] }

// Solver is the external solve(model) capability. Implementations return an
// error only for mechanical failures (process spawn, I/O, parse); an
// infeasible or non-optimal model comes back as a Solution whose Status is
// not usable.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
