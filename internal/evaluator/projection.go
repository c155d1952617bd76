package evaluator

import (
	"fmt"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/symbols"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// EvalProj resolves the associated type lhs.attr.
//
// The candidates are, in order: the context being defined under the name
// of lhs, the nominal contexts of lhs and its supertypes, then their
// method groups. Trait implementations are only consulted when the trait
// covers the bound of lhs. Each candidate is tried inside a substitution
// that binds the quantified parameters of its owner to those of lhs; the
// substitution is undone whether or not the candidate applies, so a
// successful resolution leaves no links behind.
//
// When nothing matches and lhs is a bounded variable, lhs is replaced by
// its bound and resolution is retried once.
func (e *Evaluator) EvalProj(lhs ts.Type, attr string, level int, tok token.Token) (ts.Type, error) {
	switch l := lhs.(type) {
	case ts.NeverType, ts.FailureType:
		return lhs, nil
	case ts.TyVar:
		if l.FV.IsLinked() {
			return e.EvalTParams(ts.Proj{LHS: l.FV.Crack(), Attr: attr}, level, tok)
		}
	}

	sub, sup := lhs, ts.Type(nil)
	if s, p, ok := ts.GetSubSup(lhs); ok {
		sub, sup = s, p
	}
	if ts.EqType(sub, ts.Never) {
		return ts.Proj{LHS: lhs, Attr: attr}, nil
	}

	if owner, ok := e.ctx.GetSameNameContext(ts.QualName(sub)); ok {
		if t, ok := e.in(owner).validateAndProject(sub, sup, attr, e.ctx, level); ok {
			return t, nil
		}
	}
	ctxs, ok := e.ctx.GetNominalSuperTypeCtxs(sub)
	if !ok {
		return ts.Failure, e.fail(diagnostics.TypeNotFound(tok, "", sub.String()))
	}
	for _, tyCtx := range ctxs {
		if t, ok := e.validateAndProject(sub, sup, attr, tyCtx, level); ok {
			return t, nil
		}
		for _, methods := range tyCtx.MethodsList() {
			if implTrait := methods.DefType.ImplTrait; implTrait != nil {
				bound := sub
				if sup != nil {
					bound = sup
				}
				if !e.ctx.SupertypeOf(implTrait, bound) {
					continue
				}
			}
			if t, ok := e.validateAndProject(sub, sup, attr, methods.Ctx, level); ok {
				return t, nil
			}
		}
	}

	if tv, ok := lhs.(ts.TyVar); ok && sup != nil {
		if e.ctx.IsTrait(sup) && !e.ctx.TraitImplExists(sub, sup) {
			// linked so the same failure is reported once
			tv.FV.Link(ts.Never)
			readableSub, readableSup := Coerce(sub).String(), Coerce(sup).String()
			return ts.Failure, e.fail(diagnostics.NoTraitImpl(tok, "", readableSub, readableSup, implHint(readableSub, readableSup)))
		}
	}

	coerced := Coerce(lhs)
	if !ts.EqType(lhs, coerced) {
		return e.EvalTParams(ts.Proj{LHS: coerced, Attr: attr}, level, tok)
	}
	proj := ts.Proj{LHS: lhs, Attr: attr}
	return ts.Failure, e.fail(diagnostics.NoCandidate(tok, "", proj.String(), noCandidateHint(lhs.String(), attr)))
}

// validateAndProject looks attr up in methods and, if it is a type,
// evaluates it with the owner's quantified parameters bound to sub (and,
// for a trait implementation, the trait's parameters bound to sup).
// The result is detached from every variable the substitution touched.
func (e *Evaluator) validateAndProject(sub, sup ts.Type, attr string, methods *symbols.Context, level int) (ts.Type, bool) {
	obj, ok := methods.GetConstLocal(attr)
	if !ok {
		return nil, false
	}
	implOf, hasImpl := methods.ImplOf()
	if sup != nil && hasImpl && !e.ctx.SupertypeOf(implOf, sup) {
		return nil, false
	}
	tv, ok := obj.(ts.TypeVal)
	if !ok {
		e.log.Debug("projected attribute is not a type", "attr", attr, "value", obj.String())
		return nil, false
	}
	quant, ok := e.ctx.RecGetType(ts.QualName(sub))
	if !ok {
		return nil, false
	}

	txn := ts.NewTxn()
	defer txn.Undo()
	if sup != nil && hasImpl {
		supTxn, err := e.SubstituteTypeParams(implOf, sup)
		if err != nil {
			return nil, false
		}
		txn.Absorb(supTxn)
	}
	subTxn, err := e.SubstituteTypeParams(quant.Type, sub)
	if err != nil {
		return nil, false
	}
	txn.Absorb(subTxn)

	body := ts.ReplaceMono(tv.Obj.Typ(), config.SelfTypeName, sub)
	t, err := e.EvalTParams(body, level, token.Token{})
	if err != nil {
		e.log.Debug("projected type does not evaluate", "attr", attr, "err", err)
		return nil, false
	}
	// detach before the deferred undo resets the links
	return e.Detach(t, symbols.NewTyVarCache(level)), true
}

// EvalProjCall resolves lhs.attr(args), calling the constant subroutine
// attr with lhs as receiver when it is a method.
func (e *Evaluator) EvalProjCall(lhs ts.TyParam, attr string, args []ts.TyParam, level int, tok token.Token) (ts.Type, error) {
	t, err := e.GetTPType(lhs)
	if err != nil {
		return ts.Failure, err
	}
	ctxs, ok := e.ctx.GetNominalSuperTypeCtxs(t)
	if !ok {
		return ts.Failure, e.fail(diagnostics.TypeNotFound(tok, "", t.String()))
	}
	for _, tyCtx := range ctxs {
		if obj, ok := tyCtx.GetConstLocal(attr); ok {
			return e.callProjected(obj, lhs, args, true, tok)
		}
		for _, methods := range tyCtx.MethodsList() {
			if obj, ok := methods.Ctx.GetConstLocal(attr); ok {
				return e.callProjected(obj, lhs, args, false, tok)
			}
		}
	}

	if tv, ok := lhs.(ts.TPVar); ok && tv.FV.IsUnbound() {
		if c := tv.FV.Constraint(); c.IsSubSup() {
			sub, sup := boundsOf(c)
			if e.ctx.IsTrait(sup) && !e.ctx.TraitImplExists(sub, sup) {
				tv.FV.Link(ts.TPType{T: ts.Never})
				readableSub, readableSup := Coerce(sub).String(), Coerce(sup).String()
				return ts.Failure, e.fail(diagnostics.NoTraitImpl(tok, "", readableSub, readableSup, implHint(readableSub, readableSup)))
			}
		}
	}

	coerced := CoerceTP(lhs)
	if !ts.EqTP(lhs, coerced) {
		return e.EvalTParams(ts.ProjCall{LHS: coerced, Attr: attr, Args: args}, level, tok)
	}
	proj := ts.ProjCall{LHS: lhs, Attr: attr, Args: args}
	return ts.Failure, e.fail(diagnostics.NoCandidate(tok, "", proj.String(), noCandidateHint(lhs.String(), attr)))
}

func (e *Evaluator) callProjected(obj ts.Value, lhs ts.TyParam, args []ts.TyParam, withSelf bool, tok token.Token) (ts.Type, error) {
	sv, ok := obj.(ts.SubrVal)
	if !ok {
		return ts.Failure, e.feature(tok, "projection call of non-subroutine "+obj.String())
	}
	pos := make([]ts.Value, 0, len(args)+1)
	if withSelf && sv.Subr.SigType().IsMethod() {
		self, ok := e.ConvertTPIntoValue(lhs)
		if !ok {
			return ts.Failure, e.feature(tok, "projection call on non-constant receiver "+lhs.String())
		}
		pos = append(pos, self)
	}
	for _, arg := range args {
		v, ok := e.ConvertTPIntoValue(arg)
		if !ok {
			return ts.Failure, e.feature(tok, "projection call with non-constant argument "+arg.String())
		}
		pos = append(pos, v)
	}
	v, err := e.Call(sv.Subr, ts.ValueArgs{Pos: pos}, tok)
	if err != nil {
		return ts.Failure, err
	}
	t, ok := e.ConvertValueIntoType(v)
	if !ok {
		return ts.Failure, e.fail(diagnostics.NotAType(tok, "", v.String()))
	}
	return t, nil
}

func boundsOf(c ts.Constraint) (sub, sup ts.Type) {
	sub, sup = c.Sub, c.Sup
	if sub == nil {
		sub = ts.Never
	}
	if sup == nil {
		sup = ts.Obj
	}
	return sub, sup
}

// Coerce replaces an unbound bounded variable by its most informative
// bound: the lower one unless it is Never, else the upper one unless it
// is Obj. Parameters of poly types are coerced in place. Variables are
// never linked.
func Coerce(t ts.Type) ts.Type {
	switch typ := ts.Deref(t).(type) {
	case ts.TyVar:
		c := typ.FV.Constraint()
		if !c.IsSubSup() {
			return typ
		}
		sub, sup := boundsOf(c)
		if !ts.EqType(sub, ts.Never) {
			return sub
		}
		if !ts.EqType(sup, ts.Obj) {
			return sup
		}
		return typ
	case ts.Poly:
		params := make([]ts.TyParam, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = CoerceTP(p)
		}
		return ts.Poly{Name: typ.Name, Params: params}
	default:
		return typ
	}
}

// CoerceTP is Coerce for type-level terms.
func CoerceTP(tp ts.TyParam) ts.TyParam {
	switch p := ts.DerefTP(tp).(type) {
	case ts.TPType:
		return ts.TPType{T: Coerce(p.T)}
	case ts.TPVar:
		if c := p.FV.Constraint(); c.IsSubSup() {
			sub, _ := boundsOf(c)
			return ts.TPType{T: sub}
		}
		return p
	default:
		return p
	}
}

func implHint(sub, sup string) string {
	return fmt.Sprintf("implement %s for %s", sup, sub)
}

func noCandidateHint(lhs, attr string) string {
	return fmt.Sprintf("no implementation of %s defines %s", lhs, attr)
}
