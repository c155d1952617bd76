package typesystem

// Predicate is the boolean condition of a refinement type.
type Predicate interface {
	String() string
	isPredicate()
}

type PredValue struct{ V bool }
type PredConst struct{ Name string }

type PredEqual struct {
	LHS string
	RHS TyParam
}

type PredNotEqual struct {
	LHS string
	RHS TyParam
}

type PredLessEqual struct {
	LHS string
	RHS TyParam
}

type PredGreaterEqual struct {
	LHS string
	RHS TyParam
}

type PredAnd struct{ L, R Predicate }
type PredOr struct{ L, R Predicate }
type PredNot struct{ P Predicate }

func (PredValue) isPredicate()        {}
func (PredConst) isPredicate()        {}
func (PredEqual) isPredicate()        {}
func (PredNotEqual) isPredicate()     {}
func (PredLessEqual) isPredicate()    {}
func (PredGreaterEqual) isPredicate() {}
func (PredAnd) isPredicate()          {}
func (PredOr) isPredicate()           {}
func (PredNot) isPredicate()          {}

func (p PredValue) String() string {
	if p.V {
		return "True"
	}
	return "False"
}

func (p PredConst) String() string        { return p.Name }
func (p PredEqual) String() string        { return p.LHS + " == " + p.RHS.String() }
func (p PredNotEqual) String() string     { return p.LHS + " != " + p.RHS.String() }
func (p PredLessEqual) String() string    { return p.LHS + " <= " + p.RHS.String() }
func (p PredGreaterEqual) String() string { return p.LHS + " >= " + p.RHS.String() }
func (p PredAnd) String() string          { return "(" + p.L.String() + ") and (" + p.R.String() + ")" }
func (p PredOr) String() string           { return p.L.String() + " or " + p.R.String() }
func (p PredNot) String() string          { return "not (" + p.P.String() + ")" }

// EqualsAny builds `var == v0 or var == v1 ...`. An empty list is False.
func EqualsAny(v string, rhs []TyParam) Predicate {
	var pred Predicate
	for _, r := range rhs {
		eq := PredEqual{LHS: v, RHS: r}
		if pred == nil {
			pred = eq
		} else {
			pred = PredOr{L: pred, R: eq}
		}
	}
	if pred == nil {
		return PredValue{V: false}
	}
	return pred
}

// enumOperands returns the right-hand sides of a pure chain of
// equalities on v joined by or.
func enumOperands(v string, p Predicate) ([]TyParam, bool) {
	switch p := p.(type) {
	case PredEqual:
		if p.LHS != v {
			return nil, false
		}
		return []TyParam{p.RHS}, true
	case PredOr:
		l, ok := enumOperands(v, p.L)
		if !ok {
			return nil, false
		}
		r, ok := enumOperands(v, p.R)
		if !ok {
			return nil, false
		}
		return append(l, r...), true
	}
	return nil, false
}
