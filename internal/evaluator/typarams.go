package evaluator

import (
	"fmt"
	"math"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

const floatEpsilon = 0x1p-52

// EvalTP reduces a type-level term as far as it goes. Unbound variables
// and pending operations on them are kept.
func (e *Evaluator) EvalTP(p ts.TyParam) (ts.TyParam, error) {
	switch tp := p.(type) {
	case ts.TPVar:
		if tp.FV.IsLinked() {
			return e.EvalTP(tp.FV.Crack())
		}
		return tp, nil
	case ts.TPMono:
		v, ok := e.ctx.RecGetConstObj(tp.Name)
		if !ok {
			suggestion, _ := e.ctx.GetSimilarName(tp.Name)
			return nil, e.fail(diagnostics.NoVar(token.Symbol(tp.Name), "", tp.Name, suggestion))
		}
		return ts.TPValue{V: v}, nil
	case ts.TPApp:
		args, err := e.evalTPs(tp.Args)
		if err != nil {
			return nil, err
		}
		return e.EvalApp(tp.Name, args)
	case ts.TPBinOp:
		l, err := e.EvalTP(tp.L)
		if err != nil {
			return nil, err
		}
		r, err := e.EvalTP(tp.R)
		if err != nil {
			return nil, err
		}
		return e.EvalBinTP(tp.Op, l, r)
	case ts.TPUnaryOp:
		v, err := e.EvalTP(tp.V)
		if err != nil {
			return nil, err
		}
		return e.EvalUnaryTP(tp.Op, v)
	case ts.TPArray:
		elems, err := e.evalTPs(tp.Elems)
		if err != nil {
			return nil, err
		}
		return ts.TPArray{Elems: elems}, nil
	case ts.TPTuple:
		elems, err := e.evalTPs(tp.Elems)
		if err != nil {
			return nil, err
		}
		return ts.TPTuple{Elems: elems}, nil
	case ts.TPSet:
		elems, err := e.evalTPs(tp.Elems)
		if err != nil {
			return nil, err
		}
		return ts.TPSet{Elems: elems}, nil
	case ts.TPDict:
		out := ts.TPDict{Entries: make([]ts.TPDictEntry, 0, len(tp.Entries))}
		for _, entry := range tp.Entries {
			k, err := e.EvalTP(entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := e.EvalTP(entry.Val)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, ts.TPDictEntry{Key: k, Val: v})
		}
		return out, nil
	case ts.TPRecord:
		out := ts.TPRecord{Fields: make([]ts.TPField, 0, len(tp.Fields))}
		for _, f := range tp.Fields {
			v, err := e.EvalTP(f.TP)
			if err != nil {
				return nil, err
			}
			out.Fields = append(out.Fields, ts.TPField{Name: f.Name, TP: v})
		}
		return out, nil
	case ts.TPProj:
		obj, err := e.EvalTP(tp.Obj)
		if err != nil {
			return nil, err
		}
		if v, ok := obj.(ts.TPValue); ok {
			if attr, ok := ts.TryGetAttr(v.V, tp.Attr); ok {
				return ts.TPValue{V: attr}, nil
			}
		}
		if ts.HasNoUnboundVarTP(obj) {
			return nil, e.feature(token.Token{}, fmt.Sprintf("projection %s.%s", obj, tp.Attr))
		}
		return ts.TPProj{Obj: obj, Attr: tp.Attr}, nil
	case ts.TPType, ts.TPErased, ts.TPValue, ts.TPFailure:
		return tp, nil
	}
	return nil, e.feature(token.Token{}, fmt.Sprintf("evaluating %s", p))
}

func (e *Evaluator) evalTPs(tps []ts.TyParam) ([]ts.TyParam, error) {
	out := make([]ts.TyParam, len(tps))
	for i, tp := range tps {
		v, err := e.EvalTP(tp)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EvalBinTP applies op to two evaluated terms. A comparison against a
// variable or an erased term whose type covers the other side holds.
func (e *Evaluator) EvalBinTP(op ts.OpKind, lhs, rhs ts.TyParam) (ts.TyParam, error) {
	if l, ok := lhs.(ts.TPValue); ok {
		if r, ok := rhs.(ts.TPValue); ok {
			v, err := e.evalBin(op, l.V, r.V)
			if err != nil {
				return nil, err
			}
			return ts.TPValue{V: v}, nil
		}
	}
	if op == ts.OpAdd {
		switch l := lhs.(type) {
		case ts.TPDict:
			if r, ok := rhs.(ts.TPDict); ok {
				entries := append(append([]ts.TPDictEntry{}, l.Entries...), r.Entries...)
				return ts.TPDict{Entries: entries}, nil
			}
		case ts.TPArray:
			if r, ok := rhs.(ts.TPArray); ok {
				return ts.TPArray{Elems: append(append([]ts.TyParam{}, l.Elems...), r.Elems...)}, nil
			}
		}
	}
	if l, ok := lhs.(ts.TPVar); ok {
		if l.FV.IsLinked() {
			return e.EvalBinTP(op, l.FV.Crack(), rhs)
		}
		if op.IsComparison() {
			return ts.TPValue{V: ts.BoolVal(true)}, nil
		}
	}
	if l, ok := lhs.(ts.TPErased); ok && op.IsComparison() && e.ctx.SupertypeOf(l.T, e.tpTypeOr(rhs, ts.Obj)) {
		return ts.TPValue{V: ts.BoolVal(true)}, nil
	}
	if r, ok := rhs.(ts.TPVar); ok {
		if r.FV.IsLinked() {
			return e.EvalBinTP(op, lhs, r.FV.Crack())
		}
		if op.IsComparison() {
			return ts.TPValue{V: ts.BoolVal(true)}, nil
		}
	}
	if r, ok := rhs.(ts.TPErased); ok && op.IsComparison() && e.ctx.SupertypeOf(e.tpTypeOr(lhs, ts.Obj), r.T) {
		return ts.TPValue{V: ts.BoolVal(true)}, nil
	}
	if _, ok := lhs.(ts.TPErased); ok {
		return lhs, nil
	}
	if _, ok := rhs.(ts.TPErased); ok {
		return rhs, nil
	}
	if !ts.HasNoUnboundVarTP(lhs) || !ts.HasNoUnboundVarTP(rhs) {
		return ts.TPBinOp{Op: op, L: lhs, R: rhs}, nil
	}
	return nil, e.feature(token.Token{}, opString(op, lhs, rhs))
}

func (e *Evaluator) tpTypeOr(tp ts.TyParam, fallback ts.Type) ts.Type {
	t, err := e.GetTPType(tp)
	if err != nil {
		return fallback
	}
	return t
}

func (e *Evaluator) EvalUnaryTP(op ts.OpKind, val ts.TyParam) (ts.TyParam, error) {
	switch v := val.(type) {
	case ts.TPValue:
		out, err := e.evalUnary(op, v.V)
		if err != nil {
			return nil, err
		}
		return ts.TPValue{V: out}, nil
	case ts.TPVar:
		if v.FV.IsLinked() {
			return e.EvalUnaryTP(op, v.FV.Crack())
		}
	case ts.TPErased:
		return v, nil
	}
	return nil, e.feature(token.Token{}, fmt.Sprintf("%s%s", op, val))
}

// EvalApp reduces `name(args)`. succ and pred are built in; other names
// that resolve to constant subroutines are called when every argument is
// concrete. Anything else stays an application.
func (e *Evaluator) EvalApp(name string, args []ts.TyParam) (ts.TyParam, error) {
	vals := make([]ts.Value, 0, len(args))
	for _, a := range args {
		v, ok := a.(ts.TPValue)
		if !ok {
			break
		}
		vals = append(vals, v.V)
	}
	if len(vals) == len(args) {
		switch {
		case name == config.SuccFuncName && len(vals) == 1:
			v, err := e.evalSucc(vals[0])
			if err != nil {
				return nil, err
			}
			return ts.TPValue{V: v}, nil
		case name == config.PredFuncName && len(vals) == 1:
			v, err := e.evalPred(vals[0])
			if err != nil {
				return nil, err
			}
			return ts.TPValue{V: v}, nil
		}
		if obj, ok := e.ctx.RecGetConstObj(name); ok {
			if subr, ok := obj.(ts.SubrVal); ok {
				v, err := e.Call(subr.Subr, ts.ValueArgs{Pos: vals}, token.Symbol(name))
				if err != nil {
					return nil, err
				}
				return ts.ValueToTypeParam(v), nil
			}
		}
	}
	e.log.Debug("application left unevaluated", "name", name, "args", len(args))
	return ts.TPApp{Name: name, Args: args}, nil
}

func (e *Evaluator) evalSucc(v ts.Value) (ts.Value, error) {
	switch v := v.(type) {
	case ts.BoolVal:
		if v {
			return ts.NatVal(2), nil
		}
		return ts.NatVal(1), nil
	case ts.NatVal:
		return v + 1, nil
	case ts.IntVal:
		return v + 1, nil
	case ts.FloatVal:
		return v + floatEpsilon, nil
	case ts.InfVal, ts.NegInfVal:
		return v, nil
	}
	return nil, e.fail(diagnostics.Unreachable())
}

func (e *Evaluator) evalPred(v ts.Value) (ts.Value, error) {
	switch v := v.(type) {
	case ts.BoolVal:
		return ts.NatVal(0), nil
	case ts.NatVal:
		if v == 0 {
			return v, nil
		}
		return v - 1, nil
	case ts.IntVal:
		if v == math.MinInt64 {
			return v, nil
		}
		return v - 1, nil
	case ts.FloatVal:
		return v - floatEpsilon, nil
	case ts.InfVal, ts.NegInfVal:
		return v, nil
	}
	return nil, e.fail(diagnostics.Unreachable())
}

// EvalTParams evaluates every type-level term and projection inside t.
// On failure it still returns the best type it has, with Failure in
// place of what could not be evaluated.
func (e *Evaluator) EvalTParams(t ts.Type, level int, tok token.Token) (ts.Type, error) {
	switch typ := t.(type) {
	case ts.TyVar:
		if typ.FV.IsLinked() {
			return e.EvalTParams(typ.FV.Crack(), level, tok)
		}
		return typ, nil
	case ts.Subr:
		var errs []error
		eval := func(p ts.ParamTy) ts.ParamTy {
			pt, err := e.EvalTParams(p.Ty, level, tok)
			if err != nil {
				errs = append(errs, err)
			}
			p.Ty = pt
			return p
		}
		out := typ
		out.NonDefaultParams = make([]ts.ParamTy, len(typ.NonDefaultParams))
		for i, p := range typ.NonDefaultParams {
			out.NonDefaultParams[i] = eval(p)
		}
		if typ.VarParams != nil {
			vp := eval(*typ.VarParams)
			out.VarParams = &vp
		}
		out.DefaultParams = make([]ts.ParamTy, len(typ.DefaultParams))
		for i, p := range typ.DefaultParams {
			out.DefaultParams[i] = eval(p)
		}
		ret, err := e.EvalTParams(typ.Return, level, tok)
		if err != nil {
			errs = append(errs, err)
			ret = ts.Failure
		}
		out.Return = ret
		return out, diagnostics.Merge(errs...)
	case ts.Refinement:
		pred, err := e.EvalPred(typ.Pred)
		if err != nil {
			return ts.Failure, err
		}
		return ts.Refinement{Var: typ.Var, Base: typ.Base, Pred: pred}, nil
	case ts.Proj:
		return e.EvalProj(typ.LHS, typ.Attr, level, tok)
	case ts.ProjCall:
		return e.EvalProjCall(typ.LHS, typ.Attr, typ.Args, level, tok)
	case ts.Ref:
		inner, err := e.EvalTParams(typ.T, level, tok)
		return ts.Ref{T: inner}, err
	case ts.RefMut:
		before, err := e.EvalTParams(typ.Before, level, tok)
		if err != nil || typ.After == nil {
			return ts.RefMut{Before: before}, err
		}
		after, err := e.EvalTParams(typ.After, level, tok)
		return ts.RefMut{Before: before, After: after}, err
	case ts.Poly:
		var errs []error
		params := make([]ts.TyParam, len(typ.Params))
		for i, p := range typ.Params {
			v, err := e.EvalTP(p)
			if err != nil {
				errs = append(errs, err)
				v = p
			}
			params[i] = v
		}
		return ts.Poly{Name: typ.Name, Params: params}, diagnostics.Merge(errs...)
	case ts.And:
		l, err := e.EvalTParams(typ.L, level, tok)
		if err != nil {
			return ts.Failure, err
		}
		r, err := e.EvalTParams(typ.R, level, tok)
		if err != nil {
			return ts.Failure, err
		}
		return e.ctx.Intersection(l, r), nil
	case ts.Or:
		l, err := e.EvalTParams(typ.L, level, tok)
		if err != nil {
			return ts.Failure, err
		}
		r, err := e.EvalTParams(typ.R, level, tok)
		if err != nil {
			return ts.Failure, err
		}
		return e.ctx.Union(l, r), nil
	case ts.Not:
		inner, err := e.EvalTParams(typ.T, level, tok)
		if err != nil {
			return ts.Failure, err
		}
		return e.ctx.Complement(inner), nil
	case ts.RecordType:
		var errs []error
		fields := make([]ts.FieldType, len(typ.Fields))
		for i, f := range typ.Fields {
			ft, err := e.EvalTParams(f.Ty, level, tok)
			if err != nil {
				errs = append(errs, err)
			}
			fields[i] = ts.FieldType{Name: f.Name, Ty: ft}
		}
		return ts.RecordType{Fields: fields}, diagnostics.Merge(errs...)
	}
	if ts.IsMonomorphic(t) {
		return t, nil
	}
	return ts.Failure, e.feature(tok, fmt.Sprintf("evaluating type %s", t))
}

// EvalPred evaluates the right-hand sides of a refinement predicate.
func (e *Evaluator) EvalPred(p ts.Predicate) (ts.Predicate, error) {
	switch pred := p.(type) {
	case ts.PredValue, ts.PredConst:
		return pred, nil
	case ts.PredEqual:
		rhs, err := e.EvalTP(pred.RHS)
		return ts.PredEqual{LHS: pred.LHS, RHS: rhs}, err
	case ts.PredNotEqual:
		rhs, err := e.EvalTP(pred.RHS)
		return ts.PredNotEqual{LHS: pred.LHS, RHS: rhs}, err
	case ts.PredLessEqual:
		rhs, err := e.EvalTP(pred.RHS)
		return ts.PredLessEqual{LHS: pred.LHS, RHS: rhs}, err
	case ts.PredGreaterEqual:
		rhs, err := e.EvalTP(pred.RHS)
		return ts.PredGreaterEqual{LHS: pred.LHS, RHS: rhs}, err
	case ts.PredAnd:
		l, err := e.EvalPred(pred.L)
		if err != nil {
			return nil, err
		}
		r, err := e.EvalPred(pred.R)
		return ts.PredAnd{L: l, R: r}, err
	case ts.PredOr:
		l, err := e.EvalPred(pred.L)
		if err != nil {
			return nil, err
		}
		r, err := e.EvalPred(pred.R)
		return ts.PredOr{L: l, R: r}, err
	case ts.PredNot:
		inner, err := e.EvalPred(pred.P)
		return ts.PredNot{P: inner}, err
	}
	return nil, e.fail(diagnostics.Unreachable())
}

// GetTPType is the type of a type-level term: a singleton for values,
// the declared type for variables and the meta type for types.
func (e *Evaluator) GetTPType(p ts.TyParam) (ts.Type, error) {
	if ev, err := e.EvalTP(p); err == nil {
		p = ev
	} else {
		e.log.Debug("type of unevaluated term", "term", p.String(), "err", err)
	}
	switch tp := p.(type) {
	case ts.TPValue:
		return ts.VEnum(tp.V), nil
	case ts.TPErased:
		return tp.T, nil
	case ts.TPVar:
		if tp.FV.IsLinked() {
			return e.GetTPType(tp.FV.Crack())
		}
		if t := tp.FV.Constraint().TypeOf; t != nil {
			return t, nil
		}
		return nil, e.feature(token.Token{}, "type of "+tp.String())
	case ts.TPType:
		return e.ctx.MetaType(tp.T), nil
	case ts.TPMono:
		v, ok := e.ctx.RecGetConstObj(tp.Name)
		if !ok {
			return nil, e.fail(diagnostics.Unreachable())
		}
		return ts.VEnum(v), nil
	case ts.TPApp:
		return e.appType(tp)
	case ts.TPArray:
		elem := ts.Type(ts.Never)
		if len(tp.Elems) > 0 {
			t, err := e.GetTPType(tp.Elems[0])
			if err != nil {
				return nil, err
			}
			elem = t
		}
		return ts.ArrayT(elem, ts.NatTP(uint64(len(tp.Elems)))), nil
	case ts.TPTuple:
		elems := make([]ts.Type, len(tp.Elems))
		for i, el := range tp.Elems {
			t, err := e.GetTPType(el)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return ts.TupleT(elems), nil
	case ts.TPSet:
		union := ts.Type(ts.Never)
		for _, el := range tp.Elems {
			t, err := e.GetTPType(el)
			if err != nil {
				return nil, err
			}
			union = e.ctx.Union(union, t)
		}
		return ts.SetT(union, ts.NatTP(uint64(len(tp.Elems)))), nil
	case ts.TPDict:
		return ts.DictT(tp), nil
	case ts.TPBinOp:
		if tp.Op != ts.OpOr && tp.Op != ts.OpAnd {
			break
		}
		l, err := e.GetTPType(tp.L)
		if err != nil {
			return nil, err
		}
		r, err := e.GetTPType(tp.R)
		if err != nil {
			return nil, err
		}
		switch {
		case e.ctx.SubtypeOf(l, ts.Bool) && e.ctx.SubtypeOf(r, ts.Bool):
			return ts.Bool, nil
		case e.ctx.SubtypeOf(l, ts.TypeT) && e.ctx.SubtypeOf(r, ts.TypeT):
			return ts.TypeT, nil
		}
		return nil, e.feature(token.Token{}, fmt.Sprintf("get type: %s(%s, %s)", tp.Op.MethodName(), l, r))
	}
	return nil, e.feature(token.Token{}, "get type: "+p.String())
}

// appType is the type of an unreduced application of a constant type
// constructor, e.g. Array(Int, 3) used as a term.
func (e *Evaluator) appType(app ts.TPApp) (ts.Type, error) {
	obj, ok := e.ctx.RecGetConstObj(app.Name)
	if !ok {
		return nil, e.fail(diagnostics.Unreachable())
	}
	ty, ok := e.ConvertValueIntoType(obj)
	if !ok {
		return nil, e.fail(diagnostics.Unreachable())
	}
	def, ok := e.ctx.RecGetType(ts.QualName(ty))
	if !ok {
		return nil, e.fail(diagnostics.Unreachable())
	}
	params := ts.Typarams(def.Type)
	if len(params) != len(app.Args) {
		return nil, e.fail(diagnostics.Unreachable())
	}
	for i, arg := range app.Args {
		if err := ts.SubUnifyTP(arg, params[i]); err != nil {
			return nil, e.fail(diagnostics.Unreachable())
		}
	}
	instance := ts.Poly{Name: ts.QualName(def.Type), Params: app.Args}
	var tyObj ts.Value
	switch {
	case e.ctx.IsClass(instance):
		tyObj = ts.BuiltinClass(instance)
	case e.ctx.IsTrait(instance):
		tyObj = ts.BuiltinTrait(instance)
	default:
		tyObj = ts.BuiltinType(instance)
	}
	return ts.VEnum(tyObj), nil
}
