package typesystem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/funvibe/tycore/internal/ast"
)

// Value is a compile-time value.
type Value interface {
	String() string
	isValue()
}

type BoolVal bool
type NatVal uint64
type IntVal int64

// FloatVal also holds ratio literals.
type FloatVal float64
type StrVal string
type NoneVal struct{}
type EllipsisVal struct{}
type InfVal struct{}
type NegInfVal struct{}
type ArrayVal []Value
type TupleVal []Value

// SetVal holds distinct elements. Build it with NewSet.
type SetVal []Value

type DictEntry struct{ Key, Val Value }
type DictVal []DictEntry

type Field struct {
	Name  string
	Value Value
}
type RecordVal []Field

type SubrVal struct{ Subr ConstSubr }
type TypeVal struct{ Obj TypeObj }

// IllegalVal is the failure sentinel of the value space.
type IllegalVal struct{}

func (BoolVal) isValue()     {}
func (NatVal) isValue()      {}
func (IntVal) isValue()      {}
func (FloatVal) isValue()    {}
func (StrVal) isValue()      {}
func (NoneVal) isValue()     {}
func (EllipsisVal) isValue() {}
func (InfVal) isValue()      {}
func (NegInfVal) isValue()   {}
func (ArrayVal) isValue()    {}
func (TupleVal) isValue()    {}
func (SetVal) isValue()      {}
func (DictVal) isValue()     {}
func (RecordVal) isValue()   {}
func (SubrVal) isValue()     {}
func (TypeVal) isValue()     {}
func (IllegalVal) isValue()  {}

func NewSet(elems ...Value) SetVal {
	out := make(SetVal, 0, len(elems))
	for _, e := range elems {
		dup := false
		for _, o := range out {
			if EqValue(e, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return out
}

func (v BoolVal) String() string {
	if v {
		return "True"
	}
	return "False"
}

func (v NatVal) String() string   { return strconv.FormatUint(uint64(v), 10) }
func (v IntVal) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v FloatVal) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v StrVal) String() string   { return strconv.Quote(string(v)) }
func (NoneVal) String() string    { return "None" }
func (EllipsisVal) String() string {
	return "Ellipsis"
}
func (InfVal) String() string     { return "Inf" }
func (NegInfVal) String() string  { return "-Inf" }
func (IllegalVal) String() string { return "<illegal>" }

func (v ArrayVal) String() string { return "[" + joinValues(v) + "]" }
func (v TupleVal) String() string { return "(" + joinValues(v) + ")" }

func (v SetVal) String() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.String()
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v DictVal) String() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Key.String() + ": " + e.Val.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v RecordVal) String() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.Name + " = " + f.Value.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

func (v SubrVal) String() string { return fmt.Sprintf("<subr %s>", v.Subr.Name()) }
func (v TypeVal) String() string { return v.Obj.Typ().String() }

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Get returns a record field by name.
func (v RecordVal) Get(name string) (Value, bool) {
	for _, f := range v {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Get returns the value stored under key.
func (v DictVal) Get(key Value) (Value, bool) {
	for _, e := range v {
		if EqValue(e.Key, key) {
			return e.Val, true
		}
	}
	return nil, false
}

// Insert adds or replaces an entry and keeps insertion order.
func (v DictVal) Insert(key, val Value) DictVal {
	for i, e := range v {
		if EqValue(e.Key, key) {
			out := append(DictVal(nil), v...)
			out[i].Val = val
			return out
		}
	}
	return append(append(DictVal(nil), v...), DictEntry{Key: key, Val: val})
}

// TypeObjKind tells builtin type objects from generated ones.
type TypeObjKind int

const (
	BuiltinTypeObj TypeObjKind = iota
	GeneratedTypeObj
)

// TypeObj is a type used as a value. Builtin objects carry their meta
// type (ClassType, TraitType or Type); generated ones a descriptor.
type TypeObj struct {
	Kind TypeObjKind
	T    Type
	Meta Type
	Gen  *GenTypeObj
}

type GenKind int

const (
	GenClass GenKind = iota
	GenTrait
	GenUnion
	GenIntersection
)

// GenTypeObj describes a type created by user code.
type GenTypeObj struct {
	Kind  GenKind
	T     Type
	Base  *TypeObj
	Lhs   *TypeObj
	Rhs   *TypeObj
	Attrs RecordVal
}

func BuiltinClass(t Type) TypeVal {
	return TypeVal{Obj: TypeObj{Kind: BuiltinTypeObj, T: t, Meta: ClassType}}
}

func BuiltinTrait(t Type) TypeVal {
	return TypeVal{Obj: TypeObj{Kind: BuiltinTypeObj, T: t, Meta: TraitType}}
}

func BuiltinType(t Type) TypeVal {
	return TypeVal{Obj: TypeObj{Kind: BuiltinTypeObj, T: t, Meta: TypeT}}
}

func GenType(gen *GenTypeObj) TypeVal {
	return TypeVal{Obj: TypeObj{Kind: GeneratedTypeObj, T: gen.T, Gen: gen}}
}

// Typ returns the type the object denotes.
func (o TypeObj) Typ() Type {
	if o.Kind == GeneratedTypeObj && o.Gen != nil {
		return o.Gen.T
	}
	return o.T
}

// MetaType is the type of the type object itself.
func (o TypeObj) MetaType() Type {
	if o.Kind == BuiltinTypeObj {
		return o.Meta
	}
	switch o.Gen.Kind {
	case GenTrait:
		return TraitType
	case GenClass:
		return ClassType
	}
	return TypeT
}

// ValueArgs are the evaluated arguments of a constant call.
type ValueArgs struct {
	Pos []Value
	Kw  []Field
}

// ConstSubr is a subroutine that can run at compile time.
type ConstSubr interface {
	Name() string
	SigType() Subr
	isConstSubr()
}

// UserSubr is a subroutine defined in source with a constant body.
type UserSubr struct {
	SubrName string
	Params   *ast.Params
	Body     *ast.Block
	Sig      Subr
}

// BuiltinSubr is implemented natively.
type BuiltinSubr struct {
	SubrName string
	Sig      Subr
	Fn       func(args ValueArgs) (Value, error)
}

// GenSubr is synthesized by the checker, e.g. a class constructor.
type GenSubr struct {
	SubrName string
	Sig      Subr
	Fn       func(args ValueArgs) (Value, error)
}

func (s *UserSubr) Name() string     { return s.SubrName }
func (s *UserSubr) SigType() Subr    { return s.Sig }
func (*UserSubr) isConstSubr()       {}
func (s *BuiltinSubr) Name() string  { return s.SubrName }
func (s *BuiltinSubr) SigType() Subr { return s.Sig }
func (*BuiltinSubr) isConstSubr()    {}
func (s *GenSubr) Name() string      { return s.SubrName }
func (s *GenSubr) SigType() Subr     { return s.Sig }
func (*GenSubr) isConstSubr()        {}
