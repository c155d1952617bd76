package symbols

import (
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// TyParamIdx locates a type argument inside a poly type: Path[0] indexes
// the outer parameters, each further entry the parameters of the type
// found at the previous step.
type TyParamIdx struct {
	Path []int
}

// SearchTyParam finds target among the type arguments of from, descending
// into nested poly types. Value arguments are skipped.
func SearchTyParam(from, target ts.Type) (TyParamIdx, bool) {
	poly, ok := ts.Deref(from).(ts.Poly)
	if !ok {
		return TyParamIdx{}, false
	}
	for i, tp := range poly.Params {
		t, ok := asType(ts.DerefTP(tp))
		if !ok {
			continue
		}
		if ts.EqType(t, target) {
			return TyParamIdx{Path: []int{i}}, true
		}
		if ts.IsMonomorphic(t) {
			continue
		}
		if inner, ok := SearchTyParam(t, target); ok {
			return TyParamIdx{Path: append([]int{i}, inner.Path...)}, true
		}
	}
	return TyParamIdx{}, false
}

// Select returns the type argument of from at the index.
func (idx TyParamIdx) Select(from ts.Type) (ts.Type, bool) {
	cur := from
	for _, i := range idx.Path {
		params := ts.Typarams(cur)
		if i >= len(params) {
			return nil, false
		}
		t, ok := asType(ts.DerefTP(params[i]))
		if !ok {
			return nil, false
		}
		cur = t
	}
	return cur, len(idx.Path) > 0
}
