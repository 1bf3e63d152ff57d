package lp

type term struct {
	v    *Var
	coef float64
}

// Expr is a linear expression: sum of coef*var plus a constant. The zero
// value is the empty expression, which is what every aggregate over an empty
// entity set (no storage units, no sellers) reduces to.
type Expr struct {
	terms    []term
	Constant float64
}

// Term returns coef * v as an expression.
func Term(v *Var, coef float64) Expr {
	return Expr{terms: []term{{v: v, coef: coef}}}
}

// Plus returns e + others without mutating e.
func (e Expr) Plus(others ...Expr) Expr {
	out := Expr{Constant: e.Constant}
	out.terms = append(out.terms, e.terms...)
	for _, o := range others {
		out.terms = append(out.terms, o.terms...)
		out.Constant += o.Constant
	}
	return out
}

// Minus returns e - o.
func (e Expr) Minus(o Expr) Expr {
	return e.Plus(o.Scale(-1))
}

// Scale returns k * e.
func (e Expr) Scale(k float64) Expr {
	out := Expr{Constant: e.Constant * k}
	out.terms = make([]term, len(e.terms))
	for i, t := range e.terms {
		out.terms[i] = term{v: t.v, coef: t.coef * k}
	}
	return out
}

// AddConst returns e + c.
func (e Expr) AddConst(c float64) Expr {
	out := e.Plus()
	out.Constant += c
	return out
}

// Sum folds an index range into an expression; the empty range yields the
// empty expression. Centralizing the additive identity here keeps "if the
// set is empty" branches out of the constraint builders.
func Sum(n int, f func(i int) Expr) Expr {
	var out Expr
	for i := 1; i <= n; i++ {
		out = out.Plus(f(i))
	}
	return out
}

// Coefficients folds duplicate variable references and returns the dense
// coefficient per variable name.
func (e Expr) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(e.terms))
	for _, t := range e.terms {
		out[t.v.Name] += t.coef
	}
	return out
}

// Value evaluates the expression at a primal point.
func (e Expr) Value(sol *Solution) float64 {
	total := e.Constant
	for _, t := range e.terms {
		total += t.coef * sol.Value(t.v.Name)
	}
	return total
}
