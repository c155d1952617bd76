package typesystem

import (
	"github.com/funvibe/tycore/internal/config"
	"strings"
)

// Type is the interface for all types in our system.
// The variant set is closed; switches over it end in an unreachable default.
type Type interface {
	String() string
	isType()
}

// Mono is a monomorphic named type (Int, Str, a class without parameters).
type Mono struct {
	Name string
}

// Poly is a named type applied to type parameters, e.g. Array(Int, 3).
type Poly struct {
	Name   string
	Params []TyParam
}

type SubrKind int

const (
	FuncKind SubrKind = iota
	ProcKind
)

// ParamTy is one parameter of a subroutine type. Name may be empty.
type ParamTy struct {
	Name    string
	Ty      Type
	Default Type
}

type Subr struct {
	Kind             SubrKind
	NonDefaultParams []ParamTy
	VarParams        *ParamTy
	DefaultParams    []ParamTy
	Return           Type
}

// Refinement is {Var: Base | Pred}.
type Refinement struct {
	Var  string
	Base Type
	Pred Predicate
}

// Proj is the associated type LHS.Attr.
type Proj struct {
	LHS  Type
	Attr string
}

// ProjCall is LHS.Attr(Args), an associated subroutine applied at type level.
type ProjCall struct {
	LHS  TyParam
	Attr string
	Args []TyParam
}

type Or struct{ L, R Type }
type And struct{ L, R Type }
type Not struct{ T Type }

type Ref struct{ T Type }

// RefMut is a mutable reference. After is nil when the state does not change.
type RefMut struct {
	Before Type
	After  Type
}

// TyVar is a free type variable.
type TyVar struct {
	FV *FreeVar[Type]
}

type FieldType struct {
	Name string
	Ty   Type
}

type RecordType struct {
	Fields []FieldType
}

type NeverType struct{}
type FailureType struct{}

func (Mono) isType()        {}
func (Poly) isType()        {}
func (Subr) isType()        {}
func (Refinement) isType()  {}
func (Proj) isType()        {}
func (ProjCall) isType()    {}
func (Or) isType()          {}
func (And) isType()         {}
func (Not) isType()         {}
func (Ref) isType()         {}
func (RefMut) isType()      {}
func (TyVar) isType()       {}
func (RecordType) isType()  {}
func (NeverType) isType()   {}
func (FailureType) isType() {}

var (
	Never   Type = NeverType{}
	Failure Type = FailureType{}

	Obj        = Mono{Name: config.ObjTypeName}
	Int        = Mono{Name: config.IntTypeName}
	Nat        = Mono{Name: config.NatTypeName}
	Bool       = Mono{Name: config.BoolTypeName}
	Float      = Mono{Name: config.FloatTypeName}
	Ratio      = Mono{Name: config.RatioTypeName}
	Str        = Mono{Name: config.StrTypeName}
	NoneType   = Mono{Name: config.NoneTypeName}
	Ellipsis   = Mono{Name: config.EllipsisTypeName}
	Inf        = Mono{Name: config.InfTypeName}
	TypeT      = Mono{Name: config.TypeTypeName}
	ClassType  = Mono{Name: config.ClassTypeName}
	TraitType  = Mono{Name: config.TraitTypeName}
	Subroutine = Mono{Name: config.SubroutineTypeName}
	ModuleT    = Mono{Name: config.ModuleTypeName}
)

func NewTyVar(name string, level int, sub, sup Type) TyVar {
	return TyVar{FV: NewFreeVar[Type](name, level, SubSup(sub, sup))}
}

// NamedTyVar is a quantified type variable bounded by Never and Obj.
func NamedTyVar(name string) TyVar {
	return TyVar{FV: NewGeneralized[Type](name, SubSup(Never, Obj))}
}

func (t Mono) String() string { return t.Name }

func (t Poly) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return t.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (p ParamTy) String() string {
	s := p.Ty.String()
	if p.Name != "" {
		s = p.Name + ": " + s
	}
	if p.Default != nil {
		s += " := " + p.Default.String()
	}
	return s
}

func (t Subr) String() string {
	var parts []string
	for _, p := range t.NonDefaultParams {
		parts = append(parts, p.String())
	}
	if t.VarParams != nil {
		parts = append(parts, "*"+t.VarParams.String())
	}
	for _, p := range t.DefaultParams {
		parts = append(parts, p.String())
	}
	arrow := " -> "
	if t.Kind == ProcKind {
		arrow = " => "
	}
	return "(" + strings.Join(parts, ", ") + ")" + arrow + t.Return.String()
}

// IsMethod reports whether the first parameter is the receiver.
func (t Subr) IsMethod() bool {
	return len(t.NonDefaultParams) > 0 && t.NonDefaultParams[0].Name == "self"
}

func (t Refinement) String() string {
	if vals, ok := EnumValues(t); ok {
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = v.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "{" + t.Var + ": " + t.Base.String() + " | " + t.Pred.String() + "}"
}

func (t Proj) String() string { return t.LHS.String() + "." + t.Attr }

func (t ProjCall) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.LHS.String() + "." + t.Attr + "(" + strings.Join(parts, ", ") + ")"
}

func (t Or) String() string  { return t.L.String() + " or " + t.R.String() }
func (t And) String() string { return t.L.String() + " and " + t.R.String() }
func (t Not) String() string { return "not " + t.T.String() }
func (t Ref) String() string { return "Ref(" + t.T.String() + ")" }

func (t RefMut) String() string {
	if t.After == nil {
		return "RefMut(" + t.Before.String() + ")"
	}
	return "RefMut(" + t.Before.String() + " ~> " + t.After.String() + ")"
}

func (t TyVar) String() string { return t.FV.String() }

func (t RecordType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + " = " + f.Ty.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

func (NeverType) String() string   { return config.NeverTypeName }
func (FailureType) String() string { return config.FailureTypeName }

// Deref follows linked type variables to the first non-linked type.
func Deref(t Type) Type {
	for {
		v, ok := t.(TyVar)
		if !ok || !v.FV.IsLinked() {
			return t
		}
		t = v.FV.Crack()
	}
}

// DerefTP follows linked type-parameter variables.
func DerefTP(tp TyParam) TyParam {
	for {
		v, ok := tp.(TPVar)
		if !ok || !v.FV.IsLinked() {
			return tp
		}
		tp = v.FV.Crack()
	}
}

// QualName is the nominal name used to find a type's own context.
func QualName(t Type) string {
	switch t := Deref(t).(type) {
	case Mono:
		return t.Name
	case Poly:
		return t.Name
	case Refinement:
		return QualName(t.Base)
	case Ref:
		return QualName(t.T)
	case RefMut:
		return QualName(t.Before)
	case TyVar:
		return t.FV.Name()
	case Subr:
		return config.SubroutineTypeName
	case RecordType:
		return config.RecordTypeName
	default:
		return t.String()
	}
}

// Typarams lists the type parameters of a poly type, seeing through
// linked variables. Other shapes have none.
func Typarams(t Type) []TyParam {
	switch t := Deref(t).(type) {
	case Poly:
		return t.Params
	case Ref:
		return Typarams(t.T)
	case RefMut:
		return Typarams(t.Before)
	default:
		return nil
	}
}

// GetSub returns the lower bound of an unbound type variable.
func GetSub(t Type) (Type, bool) {
	v, ok := Deref(t).(TyVar)
	if !ok || v.FV.IsLinked() {
		return nil, false
	}
	c := v.FV.Constraint()
	if c.Sub == nil {
		return nil, false
	}
	return c.Sub, true
}

// GetSubSup returns both bounds of an unbound type variable.
func GetSubSup(t Type) (Type, Type, bool) {
	v, ok := Deref(t).(TyVar)
	if !ok || v.FV.IsLinked() {
		return nil, nil, false
	}
	c := v.FV.Constraint()
	if !c.IsSubSup() {
		return nil, nil, false
	}
	sub, sup := c.Sub, c.Sup
	if sub == nil {
		sub = Never
	}
	if sup == nil {
		sup = Obj
	}
	return sub, sup, true
}

func IsUnboundVar(t Type) bool {
	v, ok := Deref(t).(TyVar)
	return ok && v.FV.IsUnbound()
}

func IsGeneralized(t Type) bool {
	v, ok := Deref(t).(TyVar)
	return ok && v.FV.IsGeneralized()
}

func IsFreeVar(t Type) bool {
	_, ok := t.(TyVar)
	return ok
}

// IsMonomorphic reports types without parameters that evaluate to themselves.
func IsMonomorphic(t Type) bool {
	switch t := t.(type) {
	case Mono, NeverType, FailureType:
		return true
	case TyVar:
		return t.FV.IsUnbound()
	case RecordType:
		for _, f := range t.Fields {
			if !IsMonomorphic(f.Ty) {
				return false
			}
		}
		return true
	}
	return false
}

// HasNoUnboundVar reports whether t is free of unbound variables.
func HasNoUnboundVar(t Type) bool {
	found := false
	walkType(t, func(fv *FreeVar[Type]) {
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

// HasUndoableLinkedVar reports whether any variable in t is undoable-linked.
func HasUndoableLinkedVar(t Type) bool {
	found := false
	walkType(t, func(fv *FreeVar[Type]) {
		if fv.IsUndoableLinked() {
			found = true
		}
	}, func(fv *FreeVar[TyParam]) {
		if fv.IsUndoableLinked() {
			found = true
		}
	})
	return found
}

// walkType visits every free variable reachable from t, linked or not.
func walkType(t Type, onType func(*FreeVar[Type]), onTP func(*FreeVar[TyParam])) {
	switch t := t.(type) {
	case TyVar:
		onType(t.FV)
		if t.FV.IsLinked() {
			walkType(t.FV.Crack(), onType, onTP)
		} else {
			c := t.FV.Constraint()
			if c.Sub != nil {
				walkType(c.Sub, onType, onTP)
			}
			if c.Sup != nil {
				walkType(c.Sup, onType, onTP)
			}
		}
	case Poly:
		for _, p := range t.Params {
			walkTP(p, onType, onTP)
		}
	case Subr:
		for _, p := range t.NonDefaultParams {
			walkType(p.Ty, onType, onTP)
		}
		if t.VarParams != nil {
			walkType(t.VarParams.Ty, onType, onTP)
		}
		for _, p := range t.DefaultParams {
			walkType(p.Ty, onType, onTP)
		}
		walkType(t.Return, onType, onTP)
	case Refinement:
		walkType(t.Base, onType, onTP)
	case Proj:
		walkType(t.LHS, onType, onTP)
	case ProjCall:
		walkTP(t.LHS, onType, onTP)
		for _, a := range t.Args {
			walkTP(a, onType, onTP)
		}
	case Or:
		walkType(t.L, onType, onTP)
		walkType(t.R, onType, onTP)
	case And:
		walkType(t.L, onType, onTP)
		walkType(t.R, onType, onTP)
	case Not:
		walkType(t.T, onType, onTP)
	case Ref:
		walkType(t.T, onType, onTP)
	case RefMut:
		walkType(t.Before, onType, onTP)
		if t.After != nil {
			walkType(t.After, onType, onTP)
		}
	case RecordType:
		for _, f := range t.Fields {
			walkType(f.Ty, onType, onTP)
		}
	}
}

func walkTP(tp TyParam, onType func(*FreeVar[Type]), onTP func(*FreeVar[TyParam])) {
	switch tp := tp.(type) {
	case TPVar:
		onTP(tp.FV)
		if tp.FV.IsLinked() {
			walkTP(tp.FV.Crack(), onType, onTP)
		}
	case TPType:
		walkType(tp.T, onType, onTP)
	case TPValue:
		if tv, ok := tp.V.(TypeVal); ok {
			walkType(tv.Obj.Typ(), onType, onTP)
		}
	case TPErased:
		walkType(tp.T, onType, onTP)
	case TPBinOp:
		walkTP(tp.L, onType, onTP)
		walkTP(tp.R, onType, onTP)
	case TPUnaryOp:
		walkTP(tp.V, onType, onTP)
	case TPApp:
		for _, a := range tp.Args {
			walkTP(a, onType, onTP)
		}
	case TPArray:
		for _, e := range tp.Elems {
			walkTP(e, onType, onTP)
		}
	case TPTuple:
		for _, e := range tp.Elems {
			walkTP(e, onType, onTP)
		}
	case TPSet:
		for _, e := range tp.Elems {
			walkTP(e, onType, onTP)
		}
	case TPDict:
		for _, e := range tp.Entries {
			walkTP(e.Key, onType, onTP)
			walkTP(e.Val, onType, onTP)
		}
	case TPRecord:
		for _, f := range tp.Fields {
			walkTP(f.TP, onType, onTP)
		}
	case TPProj:
		walkTP(tp.Obj, onType, onTP)
	}
}
