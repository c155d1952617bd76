package typesystem

import "testing"

func TestUndoableLinkNests(t *testing.T) {
	fv := NewGeneralized[TyParam]("N", TypeOf(Nat))
	if !fv.IsGeneralized() {
		t.Fatal("new generalized var should be generalized")
	}

	fv.UndoableLink(NatTP(3))
	if !fv.IsUndoableLinked() || fv.IsGeneralized() {
		t.Fatalf("after UndoableLink: kind = %d, want undoable-linked", fv.Kind())
	}
	fv.UndoableLink(NatTP(4))
	if got := fv.Crack().String(); got != "4" {
		t.Errorf("Crack() = %s, want 4", got)
	}

	if !fv.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if got := fv.Crack().String(); got != "3" {
		t.Errorf("after one Undo, Crack() = %s, want 3", got)
	}
	fv.Undo()
	if !fv.IsUnbound() || !fv.IsGeneralized() {
		t.Errorf("after two Undos: kind = %d, want unbound generalized", fv.Kind())
	}
	if fv.Undo() {
		t.Error("Undo on unbound var should report false")
	}
}

func TestLinkIsPermanent(t *testing.T) {
	tv := NamedTyVar("T")
	tv.FV.UndoableLink(Int)
	tv.FV.Link(Str)
	if tv.FV.Undo() {
		t.Error("Undo after Link should do nothing")
	}
	if got := Deref(tv); !EqType(got, Str) {
		t.Errorf("Deref = %s, want Str", got)
	}
}

func TestDetachFreshIdentity(t *testing.T) {
	fv := NewGeneralized[Type]("T", SubSup(Never, Obj))
	d := fv.Detach()
	if d.ID() == fv.ID() {
		t.Error("detached var must have a new id")
	}
	if d.Name() != "T" || d.Level() != fv.Level() {
		t.Errorf("detached var = %s/%d, want T/%d", d.Name(), d.Level(), fv.Level())
	}
}

func TestTxnUndoRestoresAll(t *testing.T) {
	before := OpenTxns()
	n := NamedTPVar("N", Nat)
	tv := NamedTyVar("T")

	txn := NewTxn()
	txn.LinkTP(n.FV, NatTP(3))
	txn.LinkType(tv.FV, Int)
	if txn.Len() != 2 {
		t.Errorf("Len() = %d, want 2", txn.Len())
	}
	if OpenTxns() != before+1 {
		t.Errorf("OpenTxns() = %d, want %d", OpenTxns(), before+1)
	}

	txn.Undo()
	txn.Undo()
	if !n.FV.IsUnbound() || !tv.FV.IsUnbound() {
		t.Error("Undo should unbind every logged var")
	}
	if OpenTxns() != before {
		t.Errorf("OpenTxns() = %d, want %d", OpenTxns(), before)
	}
}

func TestTxnAbsorb(t *testing.T) {
	before := OpenTxns()
	n := NamedTPVar("N", Nat)
	outer, inner := NewTxn(), NewTxn()
	inner.LinkTP(n.FV, NatTP(1))
	outer.Absorb(inner)
	if outer.Len() != 1 || inner.Len() != 0 {
		t.Errorf("Len() = %d/%d, want 1/0", outer.Len(), inner.Len())
	}
	if !n.FV.IsLinked() {
		t.Error("Absorb must keep the links")
	}
	outer.Undo()
	if !n.FV.IsUnbound() {
		t.Error("Undo of the outer log should undo the absorbed links")
	}
	if OpenTxns() != before {
		t.Errorf("OpenTxns() = %d, want %d", OpenTxns(), before)
	}
	var none *Txn
	none.Undo()
	outer.Absorb(none)
}
