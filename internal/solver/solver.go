// Package solver provides lp.Solver backends. The market core never solves
// anything itself; it hands a constructed model to one of these adapters and
// checks the status that comes back.
package solver

import (
	"context"
	"fmt"
	"strings"

	"flexmarket/internal/lp"
)

// Func adapts a function to the lp.Solver interface. Used to stub solves in
// tests and to wrap ad-hoc backends.
type Func func(ctx context.Context, m *lp.Model) (*lp.Solution, error)

func (f Func) Solve(ctx context.Context, m *lp.Model) (*lp.Solution, error) {
	return f(ctx, m)
}

// New builds the backend selected by the configuration surface
// (solver name, executable path, raw CLI options).
func New(name, executable string, options []string) (lp.Solver, error) {
	switch strings.ToLower(name) {
	case "", "glpk", "glpsol":
		return &GLPK{Executable: executable, Options: options}, nil
	default:
		return nil, fmt.Errorf("unsupported solver %q (supported: glpk)", name)
	}
}
