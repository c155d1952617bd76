package typesystem

import (
	"math"
	"sort"
)

// EqType is structural equality. Linked variables compare by target,
// unbound ones by identity.
func EqType(a, b Type) bool {
	a, b = Deref(a), Deref(b)
	switch a := a.(type) {
	case Mono:
		b, ok := b.(Mono)
		return ok && a.Name == b.Name
	case Poly:
		b, ok := b.(Poly)
		return ok && a.Name == b.Name && eqTPs(a.Params, b.Params)
	case Subr:
		b, ok := b.(Subr)
		if !ok || a.Kind != b.Kind || !eqParams(a.NonDefaultParams, b.NonDefaultParams) ||
			!eqParams(a.DefaultParams, b.DefaultParams) {
			return false
		}
		if (a.VarParams == nil) != (b.VarParams == nil) {
			return false
		}
		if a.VarParams != nil && !EqType(a.VarParams.Ty, b.VarParams.Ty) {
			return false
		}
		return EqType(a.Return, b.Return)
	case Refinement:
		b, ok := b.(Refinement)
		if !ok || !EqType(a.Base, b.Base) {
			return false
		}
		if av, ok := EnumValues(a); ok {
			bv, ok := EnumValues(b)
			return ok && eqValueSets(av, bv)
		}
		return a.Var == b.Var && EqPred(a.Pred, b.Pred)
	case Proj:
		b, ok := b.(Proj)
		return ok && a.Attr == b.Attr && EqType(a.LHS, b.LHS)
	case ProjCall:
		b, ok := b.(ProjCall)
		return ok && a.Attr == b.Attr && EqTP(a.LHS, b.LHS) && eqTPs(a.Args, b.Args)
	case Or:
		b, ok := b.(Or)
		return ok && eqTypeSets(flattenOr(a), flattenOr(b))
	case And:
		b, ok := b.(And)
		return ok && eqTypeSets(flattenAnd(a), flattenAnd(b))
	case Not:
		b, ok := b.(Not)
		return ok && EqType(a.T, b.T)
	case Ref:
		b, ok := b.(Ref)
		return ok && EqType(a.T, b.T)
	case RefMut:
		b, ok := b.(RefMut)
		if !ok || !EqType(a.Before, b.Before) || (a.After == nil) != (b.After == nil) {
			return false
		}
		return a.After == nil || EqType(a.After, b.After)
	case TyVar:
		b, ok := b.(TyVar)
		return ok && a.FV == b.FV
	case RecordType:
		b, ok := b.(RecordType)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !EqType(a.Fields[i].Ty, b.Fields[i].Ty) {
				return false
			}
		}
		return true
	case NeverType:
		_, ok := b.(NeverType)
		return ok
	case FailureType:
		_, ok := b.(FailureType)
		return ok
	}
	return false
}

func eqParams(a, b []ParamTy) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqType(a[i].Ty, b[i].Ty) {
			return false
		}
	}
	return true
}

func eqTPs(a, b []TyParam) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqTP(a[i], b[i]) {
			return false
		}
	}
	return true
}

func eqTypeSets(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if EqType(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func eqValueSets(a, b []Value) bool {
	a, b = NewSet(a...), NewSet(b...)
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if EqValue(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// EqTP is structural equality over type-level terms. A type value and
// the type it wraps are the same term.
func EqTP(a, b TyParam) bool {
	a, b = DerefTP(a), DerefTP(b)
	if av, ok := a.(TPValue); ok {
		if tv, ok := av.V.(TypeVal); ok {
			a = TPType{T: tv.Obj.Typ()}
		}
	}
	if bv, ok := b.(TPValue); ok {
		if tv, ok := bv.V.(TypeVal); ok {
			b = TPType{T: tv.Obj.Typ()}
		}
	}
	switch a := a.(type) {
	case TPValue:
		b, ok := b.(TPValue)
		return ok && EqValue(a.V, b.V)
	case TPType:
		b, ok := b.(TPType)
		return ok && EqType(a.T, b.T)
	case TPVar:
		b, ok := b.(TPVar)
		return ok && a.FV == b.FV
	case TPErased:
		b, ok := b.(TPErased)
		return ok && EqType(a.T, b.T)
	case TPBinOp:
		b, ok := b.(TPBinOp)
		return ok && a.Op == b.Op && EqTP(a.L, b.L) && EqTP(a.R, b.R)
	case TPUnaryOp:
		b, ok := b.(TPUnaryOp)
		return ok && a.Op == b.Op && EqTP(a.V, b.V)
	case TPApp:
		b, ok := b.(TPApp)
		return ok && a.Name == b.Name && eqTPs(a.Args, b.Args)
	case TPMono:
		b, ok := b.(TPMono)
		return ok && a.Name == b.Name
	case TPArray:
		b, ok := b.(TPArray)
		return ok && eqTPs(a.Elems, b.Elems)
	case TPTuple:
		b, ok := b.(TPTuple)
		return ok && eqTPs(a.Elems, b.Elems)
	case TPSet:
		b, ok := b.(TPSet)
		return ok && len(a.Elems) == len(b.Elems) && containsAllTP(a.Elems, b.Elems)
	case TPDict:
		b, ok := b.(TPDict)
		if !ok || len(a.Entries) != len(b.Entries) {
			return false
		}
		for i := range a.Entries {
			if !EqTP(a.Entries[i].Key, b.Entries[i].Key) || !EqTP(a.Entries[i].Val, b.Entries[i].Val) {
				return false
			}
		}
		return true
	case TPRecord:
		b, ok := b.(TPRecord)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !EqTP(a.Fields[i].TP, b.Fields[i].TP) {
				return false
			}
		}
		return true
	case TPProj:
		b, ok := b.(TPProj)
		return ok && a.Attr == b.Attr && EqTP(a.Obj, b.Obj)
	case TPFailure:
		_, ok := b.(TPFailure)
		return ok
	}
	return false
}

func containsAllTP(a, b []TyParam) bool {
	for _, x := range a {
		found := false
		for _, y := range b {
			if EqTP(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// EqValue compares values. Numbers compare across Nat, Int and Float.
func EqValue(a, b Value) bool {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return x == y
		}
	}
	switch a := a.(type) {
	case BoolVal:
		b, ok := b.(BoolVal)
		return ok && a == b
	case StrVal:
		b, ok := b.(StrVal)
		return ok && a == b
	case NoneVal:
		_, ok := b.(NoneVal)
		return ok
	case EllipsisVal:
		_, ok := b.(EllipsisVal)
		return ok
	case InfVal:
		_, ok := b.(InfVal)
		return ok
	case NegInfVal:
		_, ok := b.(NegInfVal)
		return ok
	case IllegalVal:
		_, ok := b.(IllegalVal)
		return ok
	case ArrayVal:
		b, ok := b.(ArrayVal)
		return ok && eqValueSlices(a, b)
	case TupleVal:
		b, ok := b.(TupleVal)
		return ok && eqValueSlices(a, b)
	case SetVal:
		b, ok := b.(SetVal)
		return ok && eqValueSets(a, b)
	case DictVal:
		b, ok := b.(DictVal)
		if !ok || len(a) != len(b) {
			return false
		}
		for _, e := range a {
			v, ok := b.Get(e.Key)
			if !ok || !EqValue(e.Val, v) {
				return false
			}
		}
		return true
	case RecordVal:
		b, ok := b.(RecordVal)
		if !ok || len(a) != len(b) {
			return false
		}
		for _, f := range a {
			v, ok := b.Get(f.Name)
			if !ok || !EqValue(f.Value, v) {
				return false
			}
		}
		return true
	case SubrVal:
		b, ok := b.(SubrVal)
		return ok && a.Subr == b.Subr
	case TypeVal:
		b, ok := b.(TypeVal)
		return ok && EqType(a.Obj.Typ(), b.Obj.Typ())
	}
	return false
}

func eqValueSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqValue(a[i], b[i]) {
			return false
		}
	}
	return true
}

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case NatVal:
		return float64(v), true
	case IntVal:
		return float64(v), true
	case FloatVal:
		return float64(v), true
	case InfVal:
		return math.Inf(1), true
	case NegInfVal:
		return math.Inf(-1), true
	}
	return 0, false
}

// EqPred compares predicates structurally.
func EqPred(a, b Predicate) bool {
	switch a := a.(type) {
	case PredValue:
		b, ok := b.(PredValue)
		return ok && a.V == b.V
	case PredConst:
		b, ok := b.(PredConst)
		return ok && a.Name == b.Name
	case PredEqual:
		b, ok := b.(PredEqual)
		return ok && a.LHS == b.LHS && EqTP(a.RHS, b.RHS)
	case PredNotEqual:
		b, ok := b.(PredNotEqual)
		return ok && a.LHS == b.LHS && EqTP(a.RHS, b.RHS)
	case PredLessEqual:
		b, ok := b.(PredLessEqual)
		return ok && a.LHS == b.LHS && EqTP(a.RHS, b.RHS)
	case PredGreaterEqual:
		b, ok := b.(PredGreaterEqual)
		return ok && a.LHS == b.LHS && EqTP(a.RHS, b.RHS)
	case PredAnd:
		b, ok := b.(PredAnd)
		return ok && EqPred(a.L, b.L) && EqPred(a.R, b.R)
	case PredOr:
		b, ok := b.(PredOr)
		return ok && EqPred(a.L, b.L) && EqPred(a.R, b.R)
	case PredNot:
		b, ok := b.(PredNot)
		return ok && EqPred(a.P, b.P)
	}
	return false
}

func flattenOr(t Type) []Type {
	if o, ok := Deref(t).(Or); ok {
		return append(flattenOr(o.L), flattenOr(o.R)...)
	}
	return []Type{t}
}

func flattenAnd(t Type) []Type {
	if a, ok := Deref(t).(And); ok {
		return append(flattenAnd(a.L), flattenAnd(a.R)...)
	}
	return []Type{t}
}

// UnionMembers lists the operands of a (nested) union.
func UnionMembers(t Type) []Type { return flattenOr(t) }

// IntersectionMembers lists the operands of a (nested) intersection.
func IntersectionMembers(t Type) []Type { return flattenAnd(t) }

// NormalizeUnion flattens nested unions, drops Never and duplicates,
// and sorts the members so equal unions print the same.
func NormalizeUnion(types []Type) Type {
	flat := []Type{}
	for _, t := range types {
		flat = append(flat, flattenOr(t)...)
	}
	unique := dedupSorted(flat, func(t Type) bool { _, ok := Deref(t).(NeverType); return ok })
	switch len(unique) {
	case 0:
		return Never
	case 1:
		return unique[0]
	}
	return foldBinary(unique, func(l, r Type) Type { return Or{L: l, R: r} })
}

// NormalizeIntersection is the dual of NormalizeUnion with Obj as identity.
func NormalizeIntersection(types []Type) Type {
	flat := []Type{}
	for _, t := range types {
		flat = append(flat, flattenAnd(t)...)
	}
	unique := dedupSorted(flat, func(t Type) bool { return EqType(t, Obj) })
	switch len(unique) {
	case 0:
		return Obj
	case 1:
		return unique[0]
	}
	return foldBinary(unique, func(l, r Type) Type { return And{L: l, R: r} })
}

func dedupSorted(flat []Type, skip func(Type) bool) []Type {
	unique := []Type{}
	for _, t := range flat {
		if skip(t) {
			continue
		}
		dup := false
		for _, u := range unique {
			if EqType(t, u) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, Deref(t))
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})
	return unique
}

func foldBinary(ts []Type, mk func(l, r Type) Type) Type {
	acc := ts[0]
	for _, t := range ts[1:] {
		acc = mk(acc, t)
	}
	return acc
}
