package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"flexmarket/internal/lp"
)

// GLPK shells out to the GLPK stand-alone solver (glpsol). The model is
// written in CPLEX LP format to a private temporary directory and the
// plain-text solution report is parsed back, including row marginals (the
// shadow prices the settlement stage consumes).
type GLPK struct {
	// Executable defaults to "glpsol" on PATH.
	Executable string
	// Options are passed through to the command line verbatim.
	Options []string
}

// ErrQuadraticObjective is returned for models the GLPK backend cannot
// express. The model representation carries quadratic demand cost so other
// backends can support it; runs targeting GLPK keep D2 at zero.
var ErrQuadraticObjective = errors.New("glpk backend cannot solve quadratic objectives")

func (g *GLPK) Solve(ctx context.Context, m *lp.Model) (*lp.Solution, error) {
	if m.HasQuadObjective() {
		return nil, ErrQuadraticObjective
	}

	dir, err := os.MkdirTemp("", "flexmarket-glpk-*")
	if err != nil {
		return nil, fmt.Errorf("create solver workdir: %w", err)
	}
	defer os.RemoveAll(dir)

	lpPath := filepath.Join(dir, "model.lp")
	solPath := filepath.Join(dir, "model.sol")

	f, err := os.Create(lpPath)
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}
	if err := lp.WriteLP(f, m); err != nil {
		f.Close()
		return nil, fmt.Errorf("write model %s: %w", m.Name, err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	exe := g.Executable
	if exe == "" {
		exe = "glpsol"
	}
	args := []string{"--lp", lpPath, "-o", solPath}
	args = append(args, g.Options...)

	cmd := exec.CommandContext(ctx, exe, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w (%s)", exe, err, tail(out.String(), 400))
	}

	sf, err := os.Open(solPath)
	if err != nil {
		return nil, fmt.Errorf("open solution file: %w", err)
	}
	defer sf.Close()

	sol, err := parseSolution(sf)
	if err != nil {
		return nil, fmt.Errorf("parse %s solution: %w", m.Name, err)
	}
	return sol, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
