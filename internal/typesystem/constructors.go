package typesystem

import "github.com/funvibe/tycore/internal/config"

func ArrayT(elem Type, length TyParam) Poly {
	return Poly{Name: config.ArrayTypeName, Params: []TyParam{TPType{T: elem}, length}}
}

func SetT(elem Type, length TyParam) Poly {
	return Poly{Name: config.SetTypeName, Params: []TyParam{TPType{T: elem}, length}}
}

func DictT(dict TyParam) Poly {
	return Poly{Name: config.DictTypeName, Params: []TyParam{dict}}
}

func TupleT(elems []Type) Poly {
	params := make([]TyParam, len(elems))
	for i, e := range elems {
		params[i] = TPType{T: e}
	}
	return Poly{Name: config.TupleTypeName, Params: params}
}

func FuncT(params []ParamTy, ret Type) Subr {
	return Subr{Kind: FuncKind, NonDefaultParams: params, Return: ret}
}

func NatTP(n uint64) TPValue { return TPValue{V: NatVal(n)} }

// VEnum is the refinement type whose inhabitants are exactly vals.
func VEnum(vals ...Value) Refinement {
	set := NewSet(vals...)
	classes := make([]Type, len(set))
	rhs := make([]TyParam, len(set))
	for i, v := range set {
		classes[i] = ClassOf(v)
		rhs[i] = TPValue{V: v}
	}
	base := Never
	if len(classes) > 0 {
		base = NormalizeUnion(classes)
	}
	return Refinement{Var: "_", Base: base, Pred: EqualsAny("_", rhs)}
}

// TPEnum is the refinement of base restricted to the given terms.
func TPEnum(base Type, tps []TyParam) Refinement {
	return Refinement{Var: "_", Base: base, Pred: EqualsAny("_", tps)}
}

// EnumValues returns the values of a refinement written as an enumeration.
func EnumValues(t Refinement) ([]Value, bool) {
	tps, ok := enumOperands(t.Var, t.Pred)
	if !ok {
		return nil, false
	}
	vals := make([]Value, len(tps))
	for i, tp := range tps {
		v, ok := DerefTP(tp).(TPValue)
		if !ok {
			return nil, false
		}
		vals[i] = v.V
	}
	return vals, true
}

// ClassOf is the nominal class of a value.
func ClassOf(v Value) Type {
	switch v := v.(type) {
	case BoolVal:
		return Bool
	case NatVal:
		return Nat
	case IntVal:
		return Int
	case FloatVal:
		return Float
	case StrVal:
		return Str
	case NoneVal:
		return NoneType
	case EllipsisVal:
		return Ellipsis
	case InfVal, NegInfVal:
		return Inf
	case ArrayVal:
		return ArrayT(elemClass(v), NatTP(uint64(len(v))))
	case TupleVal:
		ts := make([]Type, len(v))
		for i, e := range v {
			ts[i] = ClassOf(e)
		}
		return TupleT(ts)
	case SetVal:
		return SetT(elemClass(v), NatTP(uint64(len(v))))
	case DictVal:
		entries := make([]TPDictEntry, len(v))
		for i, e := range v {
			entries[i] = TPDictEntry{Key: TPType{T: ClassOf(e.Key)}, Val: TPType{T: ClassOf(e.Val)}}
		}
		return DictT(TPDict{Entries: entries})
	case RecordVal:
		fields := make([]FieldType, len(v))
		for i, f := range v {
			fields[i] = FieldType{Name: f.Name, Ty: ClassOf(f.Value)}
		}
		return RecordType{Fields: fields}
	case SubrVal:
		return v.Subr.SigType()
	case TypeVal:
		return v.Obj.MetaType()
	}
	return Failure
}

func elemClass(vs []Value) Type {
	if len(vs) == 0 {
		return Never
	}
	ts := make([]Type, len(vs))
	for i, e := range vs {
		ts[i] = ClassOf(e)
	}
	return NormalizeUnion(ts)
}

// ValueToTypeParam lifts a value into type-parameter space. It never fails.
func ValueToTypeParam(v Value) TyParam {
	switch v := v.(type) {
	case TypeVal:
		return TPType{T: v.Obj.Typ()}
	case ArrayVal:
		return TPArray{Elems: valuesToTPs(v)}
	case TupleVal:
		return TPTuple{Elems: valuesToTPs(v)}
	case SetVal:
		return TPSet{Elems: valuesToTPs(v)}
	case DictVal:
		entries := make([]TPDictEntry, len(v))
		for i, e := range v {
			entries[i] = TPDictEntry{Key: ValueToTypeParam(e.Key), Val: ValueToTypeParam(e.Val)}
		}
		return TPDict{Entries: entries}
	case RecordVal:
		fields := make([]TPField, len(v))
		for i, f := range v {
			fields[i] = TPField{Name: f.Name, TP: ValueToTypeParam(f.Value)}
		}
		return TPRecord{Fields: fields}
	}
	return TPValue{V: v}
}

func valuesToTPs(vs []Value) []TyParam {
	out := make([]TyParam, len(vs))
	for i, v := range vs {
		out[i] = ValueToTypeParam(v)
	}
	return out
}

// TypeParamToValue lowers a fully concrete term back to a value.
func TypeParamToValue(tp TyParam) (Value, bool) {
	switch tp := DerefTP(tp).(type) {
	case TPValue:
		return tp.V, true
	case TPType:
		t := Deref(tp.T)
		if !HasNoUnboundVar(t) {
			return nil, false
		}
		return BuiltinType(t), true
	case TPArray:
		vs, ok := tpsToValues(tp.Elems)
		return ArrayVal(vs), ok
	case TPTuple:
		vs, ok := tpsToValues(tp.Elems)
		return TupleVal(vs), ok
	case TPSet:
		vs, ok := tpsToValues(tp.Elems)
		return NewSet(vs...), ok
	case TPDict:
		out := make(DictVal, 0, len(tp.Entries))
		for _, e := range tp.Entries {
			k, ok := TypeParamToValue(e.Key)
			if !ok {
				return nil, false
			}
			v, ok := TypeParamToValue(e.Val)
			if !ok {
				return nil, false
			}
			out = append(out, DictEntry{Key: k, Val: v})
		}
		return out, true
	case TPRecord:
		out := make(RecordVal, 0, len(tp.Fields))
		for _, f := range tp.Fields {
			v, ok := TypeParamToValue(f.TP)
			if !ok {
				return nil, false
			}
			out = append(out, Field{Name: f.Name, Value: v})
		}
		return out, true
	}
	return nil, false
}

func tpsToValues(tps []TyParam) ([]Value, bool) {
	out := make([]Value, len(tps))
	for i, tp := range tps {
		v, ok := TypeParamToValue(tp)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
