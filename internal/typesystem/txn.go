package typesystem

import "sync/atomic"

var openTxns atomic.Int64

// Txn logs the undoable links made by one speculative substitution.
// Every Txn must end with Undo or be absorbed into another Txn.
type Txn struct {
	undo []func() bool
	done bool
}

func NewTxn() *Txn {
	openTxns.Add(1)
	return &Txn{}
}

// OpenTxns counts logs that are still open.
func OpenTxns() int64 { return openTxns.Load() }

func (t *Txn) LinkTP(fv *FreeVar[TyParam], tp TyParam) {
	fv.UndoableLink(tp)
	t.undo = append(t.undo, fv.Undo)
}

func (t *Txn) LinkType(fv *FreeVar[Type], ty Type) {
	fv.UndoableLink(ty)
	t.undo = append(t.undo, fv.Undo)
}

// Absorb moves the entries of other into t and closes other.
func (t *Txn) Absorb(other *Txn) {
	if other == nil || other.done {
		return
	}
	t.undo = append(t.undo, other.undo...)
	other.undo = nil
	other.close()
}

func (t *Txn) Len() int {
	if t == nil {
		return 0
	}
	return len(t.undo)
}

// Undo reverses every logged link, newest first. Calling it twice is harmless.
func (t *Txn) Undo() {
	if t == nil || t.done {
		return
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.close()
}

func (t *Txn) close() {
	t.done = true
	openTxns.Add(-1)
}
