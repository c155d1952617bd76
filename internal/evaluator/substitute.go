package evaluator

import (
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/symbols"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// SubstituteTypeParams binds the quantified parameters of qt to the
// matching parameters of st, e.g. Array(T, N) against Array(Int, 3) links
// T to Int and N to 3. Every link is undoable and recorded in the returned
// transaction; on error the partial links are already undone.
//
// When the shapes differ and st has a lower bound, the bound is tried
// instead. When nothing matches the substitution succeeds vacuously.
func (e *Evaluator) SubstituteTypeParams(qt, st ts.Type) (*ts.Txn, error) {
	txn := ts.NewTxn()
	if err := e.substituteTypeParams(txn, qt, st); err != nil {
		txn.Undo()
		return nil, err
	}
	return txn, nil
}

func (e *Evaluator) substituteTypeParams(txn *ts.Txn, qt, st ts.Type) error {
	qtps, stps := ts.Typarams(qt), ts.Typarams(st)
	if ts.QualName(qt) != ts.QualName(st) || len(qtps) != len(stps) {
		if sub, ok := ts.GetSub(st); ok {
			return e.substituteTypeParams(txn, qt, sub)
		}
		e.log.Debug("vacuous substitution", "quantified", qt.String(), "target", st.String())
		return nil
	}
	for i := range qtps {
		if err := e.substituteTypeParam(txn, qtps[i], stps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) substituteTypeParam(txn *ts.Txn, qtp, stp ts.TyParam) error {
	switch q := qtp.(type) {
	case ts.TPVar:
		if !q.FV.IsGeneralized() {
			return nil
		}
		if !quantifiedTP(stp) {
			txn.LinkTP(q.FV, stp)
		}
		if err := ts.SubUnifyTP(stp, qtp); err != nil {
			e.log.Debug("substituted parameter does not unify", "err", err)
		}
		return nil
	case ts.TPType:
		return e.substituteType(txn, stp, q.T)
	case ts.TPValue:
		if tv, ok := q.V.(ts.TypeVal); ok {
			return e.substituteType(txn, stp, tv.Obj.Typ())
		}
	}
	return nil
}

func (e *Evaluator) substituteType(txn *ts.Txn, stp ts.TyParam, qt ts.Type) error {
	st, ok := e.ConvertTPIntoType(stp)
	if !ok {
		return e.fail(diagnostics.NotAType(token.Token{}, "", stp.String()))
	}
	if tv, ok := qt.(ts.TyVar); ok && tv.FV.IsGeneralized() && !quantified(st) {
		txn.LinkType(tv.FV, st)
	}
	if !quantified(st) {
		if err := e.substituteTypeParams(txn, qt, st); err != nil {
			return err
		}
	}
	if ts.HasNoUnboundVar(st) && ts.HasNoUnboundVar(qt) {
		return nil
	}
	if err := ts.SubUnify(st, qt); err != nil {
		e.log.Debug("substituted type does not unify", "err", err)
	}
	return nil
}

// quantified reports an unbound generalized variable, which is never
// linked to another quantified variable.
func quantified(t ts.Type) bool { return ts.IsUnboundVar(t) && ts.IsGeneralized(t) }

func quantifiedTP(tp ts.TyParam) bool { return ts.TPIsUnboundVar(tp) && ts.TPIsGeneralized(tp) }

// OverwriteTypeParams rebinds parameters of qt that are already
// undoably linked, stacking a new link on top of the old one.
func (e *Evaluator) OverwriteTypeParams(qt, st ts.Type) (*ts.Txn, error) {
	txn := ts.NewTxn()
	if err := e.overwriteTypeParams(txn, qt, st); err != nil {
		txn.Undo()
		return nil, err
	}
	return txn, nil
}

func (e *Evaluator) overwriteTypeParams(txn *ts.Txn, qt, st ts.Type) error {
	qtps, stps := ts.Typarams(qt), ts.Typarams(st)
	if ts.QualName(qt) != ts.QualName(st) || len(qtps) != len(stps) {
		e.log.Debug("vacuous overwrite", "quantified", qt.String(), "target", st.String())
		return nil
	}
	for i := range qtps {
		if err := e.overwriteTypeParam(txn, qtps[i], stps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) overwriteTypeParam(txn *ts.Txn, qtp, stp ts.TyParam) error {
	switch q := qtp.(type) {
	case ts.TPVar:
		if !q.FV.IsUndoableLinked() {
			return nil
		}
		if !quantifiedTP(stp) {
			txn.LinkTP(q.FV, stp)
		}
		if err := ts.SubUnifyTP(stp, qtp); err != nil {
			e.log.Debug("overwritten parameter does not unify", "err", err)
		}
		return nil
	case ts.TPType:
		return e.overwriteType(txn, stp, q.T)
	case ts.TPValue:
		if tv, ok := q.V.(ts.TypeVal); ok {
			return e.overwriteType(txn, stp, tv.Obj.Typ())
		}
	}
	return nil
}

func (e *Evaluator) overwriteType(txn *ts.Txn, stp ts.TyParam, qt ts.Type) error {
	st, ok := e.ConvertTPIntoType(stp)
	if !ok {
		return e.fail(diagnostics.NotAType(token.Token{}, "", stp.String()))
	}
	if tv, ok := qt.(ts.TyVar); ok && ts.HasUndoableLinkedVar(qt) && !quantified(st) {
		txn.LinkType(tv.FV, st)
	}
	if !quantified(st) {
		if err := e.overwriteTypeParams(txn, qt, st); err != nil {
			return err
		}
	}
	if err := ts.SubUnify(st, qt); err != nil {
		e.log.Debug("overwritten type does not unify", "err", err)
	}
	return nil
}

// UndoSubstituteTypeParams reverts the innermost undoable link of every
// parameter of a substituted type. Transactions returned by
// SubstituteTypeParams are the precise way to undo; this walks the
// structure instead.
func UndoSubstituteTypeParams(substituted ts.Type) {
	for _, tp := range ts.Typarams(substituted) {
		switch p := tp.(type) {
		case ts.TPVar:
			if p.FV.IsUndoableLinked() {
				p.FV.Undo()
			}
		case ts.TPType:
			if tv, ok := p.T.(ts.TyVar); ok {
				if tv.FV.IsUndoableLinked() {
					tv.FV.Undo()
				}
				continue
			}
			UndoSubstituteTypeParams(p.T)
		case ts.TPValue:
			if tv, ok := p.V.(ts.TypeVal); ok {
				UndoSubstituteTypeParams(tv.Obj.Typ())
			}
		}
	}
}

// Detach copies t, replacing linked variables by their targets and
// unbound ones by fresh variables of the same name. Repeated names share
// one fresh variable through cache.
func (e *Evaluator) Detach(t ts.Type, cache *symbols.TyVarCache) ts.Type {
	switch typ := t.(type) {
	case ts.TyVar:
		if typ.FV.IsLinked() {
			return e.Detach(typ.FV.Crack(), cache)
		}
		name := typ.FV.Name()
		if cached, ok := cache.GetType(name); ok {
			return cached
		}
		fresh := ts.TyVar{FV: typ.FV.Detach()}
		cache.PushType(name, fresh)
		return fresh
	case ts.Poly:
		params := make([]ts.TyParam, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = e.detachTP(p, cache)
		}
		return ts.Poly{Name: typ.Name, Params: params}
	}
	return t
}

func (e *Evaluator) detachTP(tp ts.TyParam, cache *symbols.TyVarCache) ts.TyParam {
	switch p := tp.(type) {
	case ts.TPVar:
		if p.FV.IsLinked() {
			return e.detachTP(p.FV.Crack(), cache)
		}
		name := p.FV.Name()
		if cached, ok := cache.GetTP(name); ok {
			return cached
		}
		fresh := ts.TPVar{FV: p.FV.Detach()}
		cache.PushTP(name, fresh)
		return fresh
	case ts.TPType:
		return ts.TPType{T: e.Detach(p.T, cache)}
	}
	return tp
}
