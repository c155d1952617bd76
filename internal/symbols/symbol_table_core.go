package symbols

import (
	"fmt"

	"github.com/funvibe/tycore/internal/token"
	"github.com/funvibe/tycore/internal/typesystem"
)

type ContextKind int

const (
	KindFunc ContextKind = iota
	KindProc
	KindClass
	KindMethodDefs
	KindTrait
	KindStructuralTrait
	KindPatch
	KindStructuralPatch
	KindGluePatch
	KindModule
	KindInstant
	KindDummy
)

var kindNames = [...]string{
	KindFunc: "Func", KindProc: "Proc", KindClass: "Class", KindMethodDefs: "MethodDefs",
	KindTrait: "Trait", KindStructuralTrait: "StructuralTrait", KindPatch: "Patch",
	KindStructuralPatch: "StructuralPatch", KindGluePatch: "GluePatch", KindModule: "Module",
	KindInstant: "Instant", KindDummy: "Dummy",
}

func (k ContextKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ContextKind(%d)", int(k))
}

func (k ContextKind) IsTrait() bool { return k == KindTrait || k == KindStructuralTrait }
func (k ContextKind) IsClass() bool { return k == KindClass }
func (k ContextKind) IsPatch() bool {
	return k == KindPatch || k == KindStructuralPatch || k == KindGluePatch
}

// IsSubr reports function and procedure scopes.
func (k ContextKind) IsSubr() bool { return k == KindFunc || k == KindProc }

type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) IsPublic() bool { return v == Public }

type Mutability int

const (
	Immutable Mutability = iota
	Const
)

type VarKind int

const (
	VarDeclared VarKind = iota
	VarDefined
	VarParameter
	VarBuiltin
	VarGenerated
)

// VarInfo describes one name visible in a context.
type VarInfo struct {
	Type       typesystem.Type
	Mutability Mutability
	Vis        Visibility
	Kind       VarKind
	DefLoc     token.Token
}

func (vi VarInfo) IsConst() bool { return vi.Mutability == Const }

func (vi VarInfo) String() string {
	if vi.Type == nil {
		return "<untyped>"
	}
	return vi.Type.String()
}

// NamedVar is a (name, info) pair as returned by Dir.
type NamedVar struct {
	Name string
	Info VarInfo
}

// Param is one parameter of a subroutine context.
type Param struct {
	Name string
	Info VarInfo
}

// TypeDef pairs a defined type with the context holding its members.
type TypeDef struct {
	Type typesystem.Type
	Ctx  *Context
}

// ClassDefType tells plain method groups from trait implementations.
// ImplTrait is nil for a plain group.
type ClassDefType struct {
	Class     typesystem.Type
	ImplTrait typesystem.Type
}

func SimpleDef(class typesystem.Type) ClassDefType { return ClassDefType{Class: class} }

func ImplTraitDef(class, trait typesystem.Type) ClassDefType {
	return ClassDefType{Class: class, ImplTrait: trait}
}

func (d ClassDefType) IsImplTrait() bool { return d.ImplTrait != nil }

func (d ClassDefType) String() string {
	if d.ImplTrait != nil {
		return d.Class.String() + "|<: " + d.ImplTrait.String() + "|"
	}
	return d.Class.String()
}

// MethodDefs is a method group attached to a type context.
type MethodDefs struct {
	DefType ClassDefType
	Ctx     *Context
}

// TraitInstance is the fact that SubType implements SupTrait.
type TraitInstance struct {
	SubType  typesystem.Type
	SupTrait typesystem.Type
}

func (ti TraitInstance) String() string {
	return ti.SubType.String() + " <: " + ti.SupTrait.String()
}

// ModuleResolver gives contexts access to other modules without a
// direct dependency on the module cache.
type ModuleResolver interface {
	BuiltinsCtx() (*Context, bool)
	ModuleCtx(path string) (*Context, bool)
}
