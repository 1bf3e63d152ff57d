// Package lp holds a minimal algebraic representation of the linear (and
// optionally quadratic-objective) programs built by the market stages, plus
// the solver contract. Variable and constraint names are the cross-stage
// interface: primal values come back keyed by variable name and shadow prices
// keyed by constraint name.
package lp

import (
	"fmt"
	"math"
)

type Rel int

const (
	Eq Rel = iota
	LE
	GE
)

func (r Rel) String() string {
	switch r {
	case Eq:
		return "="
	case LE:
		return "<="
	case GE:
		return ">="
	}
	return "?"
}

// Var is a continuous decision variable. Bounds default to [0, +inf) for
// variables created with NonNeg and (-inf, +inf) for Free.
type Var struct {
	id    int
	Name  string
	Lower float64
	Upper float64
}

// Constraint is a named linear constraint Expr Rel RHS. Names must be unique
// within a model; the dual value of the constraint is retrieved by name.
type Constraint struct {
	Name string
	Expr Expr
	Rel  Rel
	RHS  float64
}

// QuadTerm is a Coef * X * Y objective term. Only the objective may be
// quadratic; constraints stay linear.
type QuadTerm struct {
	X, Y *Var
	Coef float64
}

// Model is a minimization program.
type Model struct {
	Name string

	vars   []*Var
	byName map[string]*Var

	cons       []*Constraint
	consByName map[string]*Constraint

	obj     Expr
	objQuad []QuadTerm
}

func NewModel(name string) *Model {
	return &Model{
		Name:       name,
		byName:     make(map[string]*Var),
		consByName: make(map[string]*Constraint),
	}
}

// NonNeg adds a variable bounded below by zero. Adding a duplicate name
// panics: duplicate names are always a builder bug, never a data condition.
func (m *Model) NonNeg(name string) *Var {
	return m.addVar(name, 0, math.Inf(1))
}

// Free adds an unbounded variable.
func (m *Model) Free(name string) *Var {
	return m.addVar(name, math.Inf(-1), math.Inf(1))
}

func (m *Model) addVar(name string, lower, upper float64) *Var {
	if _, ok := m.byName[name]; ok {
		panic(fmt.Sprintf("lp: duplicate variable %q", name))
	}
	v := &Var{id: len(m.vars), Name: name, Lower: lower, Upper: upper}
	m.vars = append(m.vars, v)
	m.byName[name] = v
	return v
}

// Add registers a named constraint.
func (m *Model) Add(name string, expr Expr, rel Rel, rhs float64) {
	if _, ok := m.consByName[name]; ok {
		panic(fmt.Sprintf("lp: duplicate constraint %q", name))
	}
	c := &Constraint{Name: name, Expr: expr, Rel: rel, RHS: rhs}
	m.cons = append(m.cons, c)
	m.consByName[name] = c
}

// Minimize sets the linear part of the objective.
func (m *Model) Minimize(obj Expr) { m.obj = obj }

// AddQuadObjective appends coef * x * y to the objective.
func (m *Model) AddQuadObjective(x, y *Var, coef float64) {
	if coef == 0 {
		return
	}
	m.objQuad = append(m.objQuad, QuadTerm{X: x, Y: y, Coef: coef})
}

func (m *Model) Vars() []*Var               { return m.vars }
func (m *Model) Constraints() []*Constraint { return m.cons }
func (m *Model) Objective() Expr            { return m.obj }
func (m *Model) QuadObjective() []QuadTerm  { return m.objQuad }
func (m *Model) HasQuadObjective() bool     { return len(m.objQuad) > 0 }

// Lookup returns the variable with the given name, nil when absent.
func (m *Model) Lookup(name string) *Var { return m.byName[name] }

// LookupConstraint returns the named constraint, nil when absent.
func (m *Model) LookupConstraint(name string) *Constraint { return m.consByName[name] }

// ObjectiveValue evaluates the full objective at a primal point.
func (m *Model) ObjectiveValue(sol *Solution) float64 {
	total := m.obj.Constant
	for _, t := range m.obj.terms {
		total += t.coef * sol.Value(t.v.Name)
	}
	for _, q := range m.objQuad {
		total += q.Coef * sol.Value(q.X.Name) * sol.Value(q.Y.Name)
	}
	return total
}

// Key formats an indexed name like "xDA[2,1]". Builders and extractors must
// use the same helper so names always agree.
func Key(base string, idx ...int) string {
	s := base + "["
	for i, v := range idx {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", v)
	}
	return s + "]"
}
