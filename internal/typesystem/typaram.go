package typesystem

import "strings"

// TyParam is a type-level term. It mirrors Value and adds forms that are
// not yet concrete: variables, erased placeholders and pending operations.
type TyParam interface {
	String() string
	isTyParam()
}

type TPValue struct{ V Value }
type TPType struct{ T Type }

type TPVar struct {
	FV *FreeVar[TyParam]
}

// TPErased stands for a value known only by its type, e.g. `_: Nat`.
type TPErased struct{ T Type }

type TPBinOp struct {
	Op   OpKind
	L, R TyParam
}

type TPUnaryOp struct {
	Op OpKind
	V  TyParam
}

// TPApp is a named constant function applied to arguments, not yet reduced.
type TPApp struct {
	Name string
	Args []TyParam
}

// TPMono refers to a named constant.
type TPMono struct{ Name string }

type TPArray struct{ Elems []TyParam }
type TPTuple struct{ Elems []TyParam }
type TPSet struct{ Elems []TyParam }

type TPDictEntry struct{ Key, Val TyParam }
type TPDict struct{ Entries []TPDictEntry }

type TPField struct {
	Name string
	TP   TyParam
}
type TPRecord struct{ Fields []TPField }

type TPProj struct {
	Obj  TyParam
	Attr string
}

type TPFailure struct{}

func (TPValue) isTyParam()   {}
func (TPType) isTyParam()    {}
func (TPVar) isTyParam()     {}
func (TPErased) isTyParam()  {}
func (TPBinOp) isTyParam()   {}
func (TPUnaryOp) isTyParam() {}
func (TPApp) isTyParam()     {}
func (TPMono) isTyParam()    {}
func (TPArray) isTyParam()   {}
func (TPTuple) isTyParam()   {}
func (TPSet) isTyParam()     {}
func (TPDict) isTyParam()    {}
func (TPRecord) isTyParam()  {}
func (TPProj) isTyParam()    {}
func (TPFailure) isTyParam() {}

// NewTPVar creates a type-parameter variable whose values have type t.
func NewTPVar(name string, level int, t Type) TPVar {
	return TPVar{FV: NewFreeVar[TyParam](name, level, TypeOf(t))}
}

// NamedTPVar is a quantified type-parameter variable of type t.
func NamedTPVar(name string, t Type) TPVar {
	return TPVar{FV: NewGeneralized[TyParam](name, TypeOf(t))}
}

func (p TPValue) String() string  { return p.V.String() }
func (p TPType) String() string   { return p.T.String() }
func (p TPVar) String() string    { return p.FV.String() }
func (p TPErased) String() string { return "_: " + p.T.String() }

func (p TPBinOp) String() string {
	return p.L.String() + " " + p.Op.String() + " " + p.R.String()
}

func (p TPUnaryOp) String() string {
	if p.Op == OpNot {
		return "not " + p.V.String()
	}
	return p.Op.String() + p.V.String()
}

func (p TPApp) String() string   { return p.Name + "(" + joinTP(p.Args) + ")" }
func (p TPMono) String() string  { return p.Name }
func (p TPArray) String() string { return "[" + joinTP(p.Elems) + "]" }
func (p TPTuple) String() string { return "(" + joinTP(p.Elems) + ")" }
func (p TPSet) String() string   { return "{" + joinTP(p.Elems) + "}" }

func (p TPDict) String() string {
	parts := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		parts[i] = e.Key.String() + ": " + e.Val.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (p TPRecord) String() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		parts[i] = f.Name + " = " + f.TP.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

func (p TPProj) String() string  { return p.Obj.String() + "." + p.Attr }
func (TPFailure) String() string { return "<Failure>" }

func joinTP(tps []TyParam) string {
	parts := make([]string, len(tps))
	for i, tp := range tps {
		parts[i] = tp.String()
	}
	return strings.Join(parts, ", ")
}

// TPIsUnboundVar also sees a type variable wrapped in TPType.
func TPIsUnboundVar(tp TyParam) bool {
	switch tp := DerefTP(tp).(type) {
	case TPVar:
		return tp.FV.IsUnbound()
	case TPType:
		return IsUnboundVar(tp.T)
	}
	return false
}

func TPIsGeneralized(tp TyParam) bool {
	switch tp := DerefTP(tp).(type) {
	case TPVar:
		return tp.FV.IsGeneralized()
	case TPType:
		return IsGeneralized(tp.T)
	}
	return false
}

// HasNoUnboundVarTP reports whether tp is free of unbound variables.
func HasNoUnboundVarTP(tp TyParam) bool {
	found := false
	walkTP(tp, func(fv *FreeVar[Type]) {
		if fv.IsUnbound() {
			found = true
		}
	}, func(fv *FreeVar[TyParam]) {
		if fv.IsUnbound() {
			found = true
		}
	})
	return !found
}
