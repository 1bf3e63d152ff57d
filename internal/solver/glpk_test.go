package solver

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexmarket/internal/lp"
)

// reportRow formats one entry of a glpsol plain-text report the way glpsol
// does: entry number in columns 0-5, name in 7-18, status in 20-21, then
// right-aligned 13-wide numeric cells. Names longer than 12 characters spill
// onto their own line with the data continued underneath.
func reportRow(no int, name, st string, cells ...string) string {
	padded := make([]string, 4)
	copy(padded, cells)
	data := fmt.Sprintf("%2s %13s %13s %13s %13s",
		st, padded[0], padded[1], padded[2], padded[3])
	if len(name) > 12 {
		return fmt.Sprintf("%6d %s\n%20s%s", no, name, "", data)
	}
	return fmt.Sprintf("%6d %-12s %s", no, name, data)
}

func cannedReport() string {
	return strings.Join([]string{
		"Problem:    da_market",
		"Rows:       3",
		"Columns:    3",
		"Non-zeros:  6",
		"Status:     OPTIMAL",
		"Objective:  obj = 6810.25 (MINimum)",
		"",
		"   No.   Row name   St   Activity     Lower bound   Upper bound    Marginal",
		"------ ------------ -- ------------- ------------- ------------- -------------",
		reportRow(1, "cost", "B", "6810.25"),
		reportRow(2, "energy_balance(1)", "NS", "200", "200", "=", "20"),
		reportRow(3, "cap(1)", "NU", "50", "", "50", "< eps"),
		"",
		"   No. Column name  St   Activity     Lower bound   Upper bound    Marginal",
		"------ ------------ -- ------------- ------------- ------------- -------------",
		reportRow(1, "rgDA(1)", "B", "155", "0", ""),
		reportRow(2, "xDA(1,1)", "B", "45", "0", ""),
		reportRow(3, "flexup_award(1,2,1)", "B", "7.5", "0", ""),
		"",
		"Karush-Kuhn-Tucker optimality conditions:",
		"",
		"KKT.PE: max.abs.err = 0.00e+00 on row 0",
		"",
		"End of output",
	}, "\n")
}

func TestParseSolution(t *testing.T) {
	sol, err := parseSolution(strings.NewReader(cannedReport()))
	require.NoError(t, err)

	assert.True(t, sol.Status.Usable())
	assert.Equal(t, "OPTIMAL", sol.Status.Message)
	assert.InDelta(t, 6810.25, sol.Objective, 1e-9)

	// Duals come back under the bracketed model names.
	assert.InDelta(t, 20.0, sol.Dual("energy_balance[1]"), 1e-9)
	assert.Zero(t, sol.Dual("cap[1]"), "< eps marginals read as zero")
	assert.Zero(t, sol.Dual("cost"), "basic rows carry no marginal")

	assert.InDelta(t, 155.0, sol.Value("rgDA[1]"), 1e-9)
	assert.InDelta(t, 45.0, sol.Value("xDA[1,1]"), 1e-9)
	assert.InDelta(t, 7.5, sol.Value("flexup_award[1,2,1]"), 1e-9,
		"long-name entries parse from the spill line")
}

func TestParseSolutionNonOptimal(t *testing.T) {
	report := strings.Join([]string{
		"Problem:    rt_recourse",
		"Status:     INFEASIBLE (FINAL)",
		"Objective:  obj = 0 (MINimum)",
	}, "\n")

	sol, err := parseSolution(strings.NewReader(report))
	require.NoError(t, err)
	assert.True(t, sol.Status.OK)
	assert.False(t, sol.Status.Usable())
	assert.Equal(t, "INFEASIBLE (FINAL)", sol.Status.Message)
}

func TestParseSolutionMissingStatus(t *testing.T) {
	_, err := parseSolution(strings.NewReader("Problem: x\nRows: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no status line")
}

func TestParseObjective(t *testing.T) {
	v, err := parseObjective("Objective:  obj = 6810.25 (MINimum)")
	require.NoError(t, err)
	assert.InDelta(t, 6810.25, v, 1e-9)

	v, err = parseObjective("Objective:  obj = -3.5e+02 (MINimum)")
	require.NoError(t, err)
	assert.InDelta(t, -350.0, v, 1e-9)

	_, err = parseObjective("Objective: nonsense")
	assert.Error(t, err)
}

func TestGLPKRejectsQuadraticObjective(t *testing.T) {
	m := lp.NewModel("quad")
	d := m.NonNeg("d")
	m.Minimize(lp.Term(d, 1))
	m.AddQuadObjective(d, d, 2)

	g := &GLPK{Executable: "definitely-not-on-path"}
	_, err := g.Solve(context.Background(), m)
	assert.ErrorIs(t, err, ErrQuadraticObjective)
}

func TestNewSolver(t *testing.T) {
	for _, name := range []string{"", "glpk", "GLPK", "glpsol"} {
		s, err := New(name, "", nil)
		require.NoError(t, err, name)
		assert.IsType(t, &GLPK{}, s)
	}

	_, err := New("cplex", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported solver")
}

func TestFuncAdapter(t *testing.T) {
	want := lp.NewSolution(lp.Status{OK: true, Optimal: true}, 7)
	var s lp.Solver = Func(func(context.Context, *lp.Model) (*lp.Solution, error) {
		return want, nil
	})

	got, err := s.Solve(context.Background(), lp.NewModel("t"))
	require.NoError(t, err)
	assert.Same(t, want, got)
}
