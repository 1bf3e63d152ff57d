package lp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// WriteLP serializes the model in CPLEX LP format. Square brackets are not
// legal in LP-format identifiers, so indexed names are written with
// parentheses; ReadName undoes the substitution when parsing solutions.
func WriteLP(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\ %s\n", m.Name)
	fmt.Fprintln(bw, "Minimize")
	writeObjective(bw, m)

	fmt.Fprintln(bw, "Subject To")
	for _, c := range m.cons {
		writeConstraint(bw, c)
	}

	fmt.Fprintln(bw, "Bounds")
	for _, v := range m.vars {
		writeBounds(bw, v)
	}

	fmt.Fprintln(bw, "End")
	return bw.Flush()
}

// WriteName converts a model name to its LP-file spelling.
func WriteName(name string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(name)
}

// ReadName converts an LP-file identifier back to the model name.
func ReadName(name string) string {
	return strings.NewReplacer("(", "[", ")", "]").Replace(name)
}

func writeObjective(bw *bufio.Writer, m *Model) {
	fmt.Fprint(bw, " obj:")
	n := 0
	coeffs := m.obj.Coefficients()
	for _, name := range sortedKeys(coeffs) {
		writeTerm(bw, &n, coeffs[name], WriteName(name))
	}
	if m.obj.Constant != 0 {
		writeConst(bw, &n, m.obj.Constant)
	}
	if len(m.objQuad) > 0 {
		fmt.Fprint(bw, " + [")
		qn := 0
		for _, q := range m.objQuad {
			// CPLEX quadratic sections are written halved, so double here.
			coef := 2 * q.Coef
			name := WriteName(q.X.Name) + " * " + WriteName(q.Y.Name)
			if q.X == q.Y {
				name = WriteName(q.X.Name) + " ^2"
			}
			writeTerm(bw, &qn, coef, name)
		}
		fmt.Fprint(bw, " ] / 2")
	}
	fmt.Fprintln(bw)
}

func writeConstraint(bw *bufio.Writer, c *Constraint) {
	fmt.Fprintf(bw, " %s:", WriteName(c.Name))
	n := 0
	coeffs := c.Expr.Coefficients()
	for _, name := range sortedKeys(coeffs) {
		writeTerm(bw, &n, coeffs[name], WriteName(name))
	}
	if n == 0 {
		// An empty left-hand side is still a valid (vacuous or infeasible)
		// constraint; write an explicit zero so the file stays parseable.
		fmt.Fprint(bw, " 0")
	}
	fmt.Fprintf(bw, " %s %s\n", c.Rel, fmtNum(c.RHS-c.Expr.Constant))
}

func writeBounds(bw *bufio.Writer, v *Var) {
	name := WriteName(v.Name)
	switch {
	case math.IsInf(v.Lower, -1) && math.IsInf(v.Upper, 1):
		fmt.Fprintf(bw, " %s free\n", name)
	case math.IsInf(v.Upper, 1):
		if v.Lower != 0 {
			fmt.Fprintf(bw, " %s >= %s\n", name, fmtNum(v.Lower))
		}
		// the default bound [0, +inf) needs no entry
	default:
		fmt.Fprintf(bw, " %s <= %s <= %s\n", fmtNum(v.Lower), name, fmtNum(v.Upper))
	}
}

// writeTerm emits one signed coefficient, wrapping lines to keep them well
// under the LP-format line limit.
func writeTerm(bw *bufio.Writer, n *int, coef float64, name string) {
	if coef == 0 {
		return
	}
	if *n > 0 && *n%6 == 0 {
		fmt.Fprint(bw, "\n   ")
	}
	sign := "+"
	if coef < 0 {
		sign = "-"
		coef = -coef
	}
	if *n == 0 && sign == "+" {
		fmt.Fprintf(bw, " %s %s", fmtNum(coef), name)
	} else {
		fmt.Fprintf(bw, " %s %s %s", sign, fmtNum(coef), name)
	}
	*n++
}

func writeConst(bw *bufio.Writer, n *int, c float64) {
	sign := "+"
	if c < 0 {
		sign = "-"
		c = -c
	}
	fmt.Fprintf(bw, " %s %s", sign, fmtNum(c))
	*n++
}

func fmtNum(x float64) string {
	return fmt.Sprintf("%.12g", x)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
