package symbols

import (
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// maxCompareDepth bounds the nominal search through cyclic hierarchies.
const maxCompareDepth = 32

// SupertypeOf reports whether every inhabitant of sub is an inhabitant of
// sup. Unbound variables are judged by their bounds, nominal subtyping by
// the registered super types and trait instances.
func (c *Context) SupertypeOf(sup, sub ts.Type) bool {
	return c.supertypeOf(sup, sub, 0)
}

func (c *Context) SubtypeOf(sub, sup ts.Type) bool {
	return c.supertypeOf(sup, sub, 0)
}

func (c *Context) supertypeOf(sup, sub ts.Type, depth int) bool {
	if depth > maxCompareDepth {
		return false
	}
	depth++
	sup, sub = ts.Deref(sup), ts.Deref(sub)
	if ts.EqType(sup, sub) {
		return true
	}
	switch sub.(type) {
	case ts.NeverType, ts.FailureType:
		return true
	}
	switch s := sup.(type) {
	case ts.FailureType:
		return true
	case ts.NeverType:
		return false
	case ts.Mono:
		if s.Name == ts.Obj.Name {
			return true
		}
	}

	// unions and intersections split before anything nominal
	switch b := sub.(type) {
	case ts.Or:
		return c.supertypeOf(sup, b.L, depth) && c.supertypeOf(sup, b.R, depth)
	case ts.And:
		if c.supertypeOf(sup, b.L, depth) || c.supertypeOf(sup, b.R, depth) {
			return true
		}
	}
	switch p := sup.(type) {
	case ts.Or:
		return c.supertypeOf(p.L, sub, depth) || c.supertypeOf(p.R, sub, depth)
	case ts.And:
		return c.supertypeOf(p.L, sub, depth) && c.supertypeOf(p.R, sub, depth)
	case ts.Not:
		return !c.supertypeOf(p.T, sub, depth) && !c.supertypeOf(sub, p.T, depth)
	}

	if v, ok := sub.(ts.TyVar); ok {
		if v.FV.IsGeneralized() {
			return true
		}
		lo, _, ok := ts.GetSubSup(v)
		return !ok || c.supertypeOf(sup, lo, depth)
	}
	if v, ok := sup.(ts.TyVar); ok {
		if v.FV.IsGeneralized() {
			return true
		}
		_, hi, ok := ts.GetSubSup(v)
		return !ok || c.supertypeOf(hi, sub, depth)
	}

	switch p := sup.(type) {
	case ts.Refinement:
		b, ok := sub.(ts.Refinement)
		if !ok {
			return false
		}
		pv, ok1 := ts.EnumValues(p)
		bv, ok2 := ts.EnumValues(b)
		if !ok1 || !ok2 {
			return c.supertypeOf(p.Base, b.Base, depth)
		}
		for _, v := range bv {
			if !containsValue(pv, v) {
				return false
			}
		}
		return true
	case ts.RecordType:
		b, ok := sub.(ts.RecordType)
		if !ok {
			return false
		}
		for _, pf := range p.Fields {
			found := false
			for _, bf := range b.Fields {
				if bf.Name == pf.Name && c.supertypeOf(pf.Ty, bf.Ty, depth) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case ts.Subr:
		b, ok := sub.(ts.Subr)
		if !ok || len(p.NonDefaultParams) != len(b.NonDefaultParams) {
			return false
		}
		for i := range p.NonDefaultParams {
			if !c.supertypeOf(b.NonDefaultParams[i].Ty, p.NonDefaultParams[i].Ty, depth) {
				return false
			}
		}
		return c.supertypeOf(p.Return, b.Return, depth)
	case ts.Poly:
		if b, ok := sub.(ts.Poly); ok && b.Name == p.Name {
			return c.supertypeOfParams(p.Params, b.Params, depth)
		}
	}

	if r, ok := sub.(ts.Refinement); ok {
		return c.supertypeOf(sup, r.Base, depth)
	}
	if c.nominalSupertypeOf(sup, sub, depth) {
		return true
	}
	if c.IsTrait(sup) {
		for _, inst := range c.RecGetTraitImpls(ts.QualName(sup)) {
			if c.supertypeOf(inst.SubType, sub, depth) && c.supertypeOf(sup, inst.SupTrait, depth) {
				return true
			}
		}
	}
	return false
}

func containsValue(vs []ts.Value, v ts.Value) bool {
	for _, e := range vs {
		if ts.EqValue(e, v) {
			return true
		}
	}
	return false
}

// supertypeOfParams compares arguments of the same poly type. Type
// arguments are covariant, value arguments must be equal.
func (c *Context) supertypeOfParams(sups, subs []ts.TyParam, depth int) bool {
	if len(sups) != len(subs) {
		return false
	}
	for i := range sups {
		if !c.supertypeOfTP(sups[i], subs[i], depth) {
			return false
		}
	}
	return true
}

func (c *Context) supertypeOfTP(sup, sub ts.TyParam, depth int) bool {
	sup, sub = ts.DerefTP(sup), ts.DerefTP(sub)
	if ts.EqTP(sup, sub) {
		return true
	}
	switch sub.(type) {
	case ts.TPVar, ts.TPErased, ts.TPFailure:
		return true
	}
	switch sup.(type) {
	case ts.TPVar, ts.TPErased:
		return true
	}
	pt, ok1 := asType(sup)
	bt, ok2 := asType(sub)
	if ok1 && ok2 {
		return c.supertypeOf(pt, bt, depth)
	}
	return false
}

func asType(tp ts.TyParam) (ts.Type, bool) {
	switch tp := tp.(type) {
	case ts.TPType:
		return tp.T, true
	case ts.TPValue:
		if tv, ok := tp.V.(ts.TypeVal); ok {
			return tv.Obj.Typ(), true
		}
	}
	return nil, false
}

// nominalSupertypeOf walks the super classes and super traits registered
// for sub's own context.
func (c *Context) nominalSupertypeOf(sup, sub ts.Type, depth int) bool {
	ctx, ok := c.GetNominalTypeCtx(sub)
	if !ok {
		return false
	}
	if own, ok := c.GetNominalTypeCtx(sup); ok && own == ctx && ts.QualName(sup) == ts.QualName(sub) {
		return true
	}
	for _, st := range ctx.superClasses {
		if c.supertypeOf(sup, st, depth) {
			return true
		}
	}
	for _, st := range ctx.superTraits {
		if c.supertypeOf(sup, st, depth) {
			return true
		}
	}
	return false
}

// Union is the least upper bound of a and b as far as the oracle can
// tell. Members subsumed by other members are dropped.
func (c *Context) Union(a, b ts.Type) ts.Type {
	a, b = ts.Deref(a), ts.Deref(b)
	switch {
	case ts.EqType(a, ts.Failure) || ts.EqType(b, ts.Failure):
		return ts.Failure
	case ts.EqType(a, ts.Never):
		return b
	case ts.EqType(b, ts.Never):
		return a
	case c.SupertypeOf(a, b):
		return a
	case c.SupertypeOf(b, a):
		return b
	}
	members := append(ts.UnionMembers(a), ts.UnionMembers(b)...)
	kept := make([]ts.Type, 0, len(members))
	for i, m := range members {
		subsumed := false
		for j, o := range members {
			if i == j {
				continue
			}
			// Of two equal members keep the first.
			if c.SupertypeOf(o, m) && (!c.SupertypeOf(m, o) || j < i) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, m)
		}
	}
	return ts.NormalizeUnion(kept)
}

// Intersection is the greatest lower bound of a and b.
func (c *Context) Intersection(a, b ts.Type) ts.Type {
	a, b = ts.Deref(a), ts.Deref(b)
	switch {
	case ts.EqType(a, ts.Failure) || ts.EqType(b, ts.Failure):
		return ts.Failure
	case ts.EqType(a, ts.Never) || ts.EqType(b, ts.Never):
		return ts.Never
	case c.SupertypeOf(a, b):
		return b
	case c.SupertypeOf(b, a):
		return a
	}
	if c.IsClass(a) && c.IsClass(b) {
		// distinct classes with no subtyping relation share no values
		return ts.Never
	}
	return ts.NormalizeIntersection([]ts.Type{a, b})
}

// Complement is `not t`.
func (c *Context) Complement(t ts.Type) ts.Type {
	switch t := ts.Deref(t).(type) {
	case ts.NeverType:
		return ts.Obj
	case ts.FailureType:
		return ts.Failure
	case ts.Not:
		return t.T
	case ts.Mono:
		if t.Name == ts.Obj.Name {
			return ts.Never
		}
		return ts.Not{T: t}
	default:
		return ts.Not{T: t}
	}
}

// MetaType is the type of t used as a value.
func (c *Context) MetaType(t ts.Type) ts.Type {
	switch {
	case c.IsTrait(t):
		return ts.TraitType
	case c.IsClass(t):
		return ts.ClassType
	}
	return ts.TypeT
}
