package typesystem

// ReplaceMono replaces every occurrence of the monomorphic type name with
// repl. It is used to swap a placeholder for its final definition.
func ReplaceMono(t Type, name string, repl Type) Type {
	switch typ := Deref(t).(type) {
	case Mono:
		if typ.Name == name {
			return repl
		}
		return typ
	case Poly:
		params := make([]TyParam, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = replaceMonoTP(p, name, repl)
		}
		return Poly{Name: typ.Name, Params: params}
	case Subr:
		out := typ
		out.NonDefaultParams = replaceParams(typ.NonDefaultParams, name, repl)
		out.DefaultParams = replaceParams(typ.DefaultParams, name, repl)
		if typ.VarParams != nil {
			vp := *typ.VarParams
			vp.Ty = ReplaceMono(vp.Ty, name, repl)
			out.VarParams = &vp
		}
		out.Return = ReplaceMono(typ.Return, name, repl)
		return out
	case Refinement:
		return Refinement{Var: typ.Var, Base: ReplaceMono(typ.Base, name, repl), Pred: typ.Pred}
	case Or:
		return Or{L: ReplaceMono(typ.L, name, repl), R: ReplaceMono(typ.R, name, repl)}
	case And:
		return And{L: ReplaceMono(typ.L, name, repl), R: ReplaceMono(typ.R, name, repl)}
	case Not:
		return Not{T: ReplaceMono(typ.T, name, repl)}
	case Ref:
		return Ref{T: ReplaceMono(typ.T, name, repl)}
	case RefMut:
		out := RefMut{Before: ReplaceMono(typ.Before, name, repl)}
		if typ.After != nil {
			out.After = ReplaceMono(typ.After, name, repl)
		}
		return out
	case Proj:
		return Proj{LHS: ReplaceMono(typ.LHS, name, repl), Attr: typ.Attr}
	case RecordType:
		fields := make([]FieldType, len(typ.Fields))
		for i, f := range typ.Fields {
			fields[i] = FieldType{Name: f.Name, Ty: ReplaceMono(f.Ty, name, repl)}
		}
		return RecordType{Fields: fields}
	default:
		return typ
	}
}

func replaceParams(ps []ParamTy, name string, repl Type) []ParamTy {
	out := make([]ParamTy, len(ps))
	for i, p := range ps {
		out[i] = p
		out[i].Ty = ReplaceMono(p.Ty, name, repl)
	}
	return out
}

func replaceMonoTP(tp TyParam, name string, repl Type) TyParam {
	switch p := DerefTP(tp).(type) {
	case TPType:
		return TPType{T: ReplaceMono(p.T, name, repl)}
	case TPArray:
		elems := make([]TyParam, len(p.Elems))
		for i, e := range p.Elems {
			elems[i] = replaceMonoTP(e, name, repl)
		}
		return TPArray{Elems: elems}
	case TPTuple:
		elems := make([]TyParam, len(p.Elems))
		for i, e := range p.Elems {
			elems[i] = replaceMonoTP(e, name, repl)
		}
		return TPTuple{Elems: elems}
	default:
		return p
	}
}
