package typesystem

import (
	"fmt"
	"sync/atomic"

	"github.com/funvibe/tycore/internal/config"
)

type FreeKind int

const (
	Unbound FreeKind = iota
	Linked
	UndoableLinked
)

// Constraint bounds a free variable. Type variables carry Sub/Sup,
// type-parameter variables carry the type of the value they stand for.
type Constraint struct {
	Sub    Type
	Sup    Type
	TypeOf Type
}

func SubSup(sub, sup Type) Constraint {
	return Constraint{Sub: sub, Sup: sup}
}

func TypeOf(t Type) Constraint {
	return Constraint{TypeOf: t}
}

func (c Constraint) IsSubSup() bool { return c.Sub != nil || c.Sup != nil }

var freeIDs atomic.Uint64

type snapshot[T any] struct {
	kind   FreeKind
	target T
}

// FreeVar is a placeholder that is unbound, permanently linked, or linked
// in a way that Undo can reverse. Undoable links nest.
type FreeVar[T any] struct {
	id         uint64
	name       string
	level      int
	constraint Constraint
	kind       FreeKind
	target     T
	history    []snapshot[T]
}

func NewFreeVar[T any](name string, level int, c Constraint) *FreeVar[T] {
	return &FreeVar[T]{id: freeIDs.Add(1), name: name, level: level, constraint: c}
}

// NewGeneralized creates a quantified variable.
func NewGeneralized[T any](name string, c Constraint) *FreeVar[T] {
	return NewFreeVar[T](name, config.GenericLevel, c)
}

func (fv *FreeVar[T]) ID() uint64             { return fv.id }
func (fv *FreeVar[T]) Name() string           { return fv.name }
func (fv *FreeVar[T]) Level() int             { return fv.level }
func (fv *FreeVar[T]) Constraint() Constraint { return fv.constraint }
func (fv *FreeVar[T]) Kind() FreeKind         { return fv.kind }

func (fv *FreeVar[T]) IsLinked() bool         { return fv.kind != Unbound }
func (fv *FreeVar[T]) IsUnbound() bool        { return fv.kind == Unbound }
func (fv *FreeVar[T]) IsUndoableLinked() bool { return fv.kind == UndoableLinked }

// IsGeneralized is true only while the variable is unbound at GenericLevel.
func (fv *FreeVar[T]) IsGeneralized() bool {
	return fv.kind == Unbound && fv.level == config.GenericLevel
}

// Crack returns the link target. It is the zero value when unbound.
func (fv *FreeVar[T]) Crack() T { return fv.target }

// Link binds the variable for good and forgets any undo history.
func (fv *FreeVar[T]) Link(t T) {
	fv.kind = Linked
	fv.target = t
	fv.history = nil
}

func (fv *FreeVar[T]) UndoableLink(t T) {
	fv.history = append(fv.history, snapshot[T]{kind: fv.kind, target: fv.target})
	fv.kind = UndoableLinked
	fv.target = t
}

// Undo restores the state saved by the latest UndoableLink.
// It is a no-op on a variable that is not undoable-linked.
func (fv *FreeVar[T]) Undo() bool {
	if fv.kind != UndoableLinked || len(fv.history) == 0 {
		return false
	}
	last := fv.history[len(fv.history)-1]
	fv.history = fv.history[:len(fv.history)-1]
	fv.kind = last.kind
	fv.target = last.target
	return true
}

// Generalize moves an unbound variable to GenericLevel.
func (fv *FreeVar[T]) Generalize() {
	if fv.kind == Unbound {
		fv.level = config.GenericLevel
	}
}

func (fv *FreeVar[T]) UpdateConstraint(c Constraint) {
	fv.constraint = c
}

// Detach returns an unbound copy with a fresh identity.
func (fv *FreeVar[T]) Detach() *FreeVar[T] {
	return NewFreeVar[T](fv.name, fv.level, fv.constraint)
}

func (fv *FreeVar[T]) String() string {
	switch fv.kind {
	case Unbound:
		if fv.name != "" {
			return "?" + fv.name
		}
		return fmt.Sprintf("?%d", fv.id)
	default:
		return fmt.Sprint(fv.target)
	}
}
