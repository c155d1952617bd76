package evaluator

import (
	"github.com/funvibe/tycore/internal/config"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// ConvertTPIntoType reads a type-level term as a type. It reports false
// for terms that denote plain values.
func (e *Evaluator) ConvertTPIntoType(tp ts.TyParam) (ts.Type, bool) {
	switch p := tp.(type) {
	case ts.TPTuple:
		elems := make([]ts.Type, len(p.Elems))
		for i, el := range p.Elems {
			t, ok := e.ConvertTPIntoType(el)
			if !ok {
				return nil, false
			}
			elems[i] = t
		}
		return ts.TupleT(elems), true
	case ts.TPSet:
		union := ts.Type(ts.Never)
		for _, el := range p.Elems {
			union = e.ctx.Union(union, e.tpTypeOr(el, ts.Obj))
		}
		return ts.TPEnum(union, p.Elems), true
	case ts.TPRecord:
		fields := make([]ts.FieldType, len(p.Fields))
		for i, f := range p.Fields {
			t, ok := e.ConvertTPIntoType(f.TP)
			if !ok {
				return nil, false
			}
			fields[i] = ts.FieldType{Name: f.Name, Ty: t}
		}
		return ts.RecordType{Fields: fields}, true
	case ts.TPDict:
		entries := make([]ts.TPDictEntry, len(p.Entries))
		for i, entry := range p.Entries {
			k, ok := e.ConvertTPIntoType(entry.Key)
			if !ok {
				return nil, false
			}
			v, ok := e.ConvertTPIntoType(entry.Val)
			if !ok {
				return nil, false
			}
			entries[i] = ts.TPDictEntry{Key: ts.TPType{T: k}, Val: ts.TPType{T: v}}
		}
		return ts.DictT(ts.TPDict{Entries: entries}), true
	case ts.TPVar:
		if p.FV.IsLinked() {
			return e.ConvertTPIntoType(p.FV.Crack())
		}
	case ts.TPType:
		return p.T, true
	case ts.TPMono:
		return ts.Mono{Name: p.Name}, true
	case ts.TPApp:
		return ts.Poly{Name: p.Name, Params: p.Args}, true
	case ts.TPProj:
		lhs, ok := e.ConvertTPIntoType(p.Obj)
		if !ok {
			return nil, false
		}
		return ts.Proj{LHS: lhs, Attr: p.Attr}, true
	case ts.TPValue:
		return e.ConvertValueIntoType(p.V)
	}
	return nil, false
}

// ConvertValueIntoType reads a value as the type it denotes.
func (e *Evaluator) ConvertValueIntoType(v ts.Value) (ts.Type, bool) {
	switch val := v.(type) {
	case ts.EllipsisVal:
		return ts.Ellipsis, true
	case ts.TypeVal:
		return val.Obj.Typ(), true
	case ts.RecordVal:
		fields := make([]ts.FieldType, len(val))
		for i, f := range val {
			t, ok := e.ConvertValueIntoType(f.Value)
			if !ok {
				return nil, false
			}
			fields[i] = ts.FieldType{Name: f.Name, Ty: t}
		}
		return ts.RecordType{Fields: fields}, true
	case ts.TupleVal:
		elems := make([]ts.Type, len(val))
		for i, el := range val {
			t, ok := e.ConvertValueIntoType(el)
			if !ok {
				return nil, false
			}
			elems[i] = t
		}
		return ts.TupleT(elems), true
	case ts.ArrayVal:
		union := ts.Type(ts.Never)
		for _, el := range val {
			t, ok := e.ConvertValueIntoType(el)
			if !ok {
				return nil, false
			}
			union = e.ctx.Union(union, t)
		}
		return ts.ArrayT(union, ts.NatTP(uint64(len(val)))), true
	case ts.SetVal:
		return ts.VEnum(val...), true
	case ts.SubrVal:
		return val.Subr.SigType(), true
	}
	return nil, false
}

// ConvertSingularTypeIntoValue gives the only inhabitant of a singleton
// refinement such as {3}.
func (e *Evaluator) ConvertSingularTypeIntoValue(t ts.Type) (ts.Value, bool) {
	ref, ok := ts.Deref(t).(ts.Refinement)
	if !ok {
		return nil, false
	}
	eq, ok := ref.Pred.(ts.PredEqual)
	if !ok {
		return nil, false
	}
	v, ok := eq.RHS.(ts.TPValue)
	if !ok {
		return nil, false
	}
	return v.V, true
}

// ConvertTPIntoValue is TypeParamToValue, except that a singleton type
// stands for its only value.
func (e *Evaluator) ConvertTPIntoValue(tp ts.TyParam) (ts.Value, bool) {
	if t, ok := ts.DerefTP(tp).(ts.TPType); ok {
		if v, ok := e.ConvertSingularTypeIntoValue(t.T); ok {
			return v, true
		}
	}
	return ts.TypeParamToValue(tp)
}

// ConvertValueIntoArray spreads an array value, or the array type
// Array(T, n), into its elements. The type form yields n copies of T.
func (e *Evaluator) ConvertValueIntoArray(v ts.Value) ([]ts.Value, bool) {
	switch val := v.(type) {
	case ts.ArrayVal:
		return append([]ts.Value{}, val...), true
	case ts.TypeVal:
		poly, ok := val.Obj.Typ().(ts.Poly)
		if !ok || poly.Name != config.ArrayTypeName || len(poly.Params) != 2 {
			return nil, false
		}
		elem, ok := e.ConvertTPIntoType(poly.Params[0])
		if !ok {
			return nil, false
		}
		n, ok := ts.DerefTP(poly.Params[1]).(ts.TPValue)
		if !ok {
			return nil, false
		}
		length, ok := n.V.(ts.NatVal)
		if !ok {
			return nil, false
		}
		out := make([]ts.Value, length)
		for i := range out {
			out[i] = ts.BuiltinType(elem)
		}
		return out, true
	}
	return nil, false
}
