package symbols

import (
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// RegisterTraitImpl records that sub implements trait.
func (c *Context) RegisterTraitImpl(sub, trait ts.Type) {
	name := ts.QualName(trait)
	c.traitImpls[name] = append(c.traitImpls[name], TraitInstance{SubType: sub, SupTrait: trait})
}

// RecGetTraitImpls collects the instances of a trait visible from here,
// innermost first.
func (c *Context) RecGetTraitImpls(traitName string) []TraitInstance {
	var out []TraitInstance
	for ctx := c; ctx != nil; ctx = ctx.next() {
		out = append(out, ctx.traitImpls[traitName]...)
	}
	return out
}

// TraitImplExists reports whether sub is known to implement trait,
// either through an instance or through a declared super trait.
func (c *Context) TraitImplExists(sub, trait ts.Type) bool {
	sub, trait = ts.Deref(sub), ts.Deref(trait)
	if ts.EqType(sub, ts.Never) || ts.EqType(trait, ts.Obj) {
		return true
	}
	for _, inst := range c.RecGetTraitImpls(ts.QualName(trait)) {
		if c.SupertypeOf(inst.SubType, sub) && c.SupertypeOf(trait, inst.SupTrait) {
			return true
		}
	}
	ctxs, ok := c.GetNominalSuperTypeCtxs(sub)
	if !ok {
		return false
	}
	for _, ctx := range ctxs {
		for _, st := range ctx.superTraits {
			if ts.QualName(st) == ts.QualName(trait) {
				return true
			}
		}
	}
	return false
}

// IsTrait reports whether t names a trait.
func (c *Context) IsTrait(t ts.Type) bool {
	switch typ := ts.Deref(t).(type) {
	case ts.TyVar:
		return false
	case ts.Or:
		return c.IsTrait(typ.L) && c.IsTrait(typ.R)
	case ts.And:
		return c.IsTrait(typ.L) && c.IsTrait(typ.R)
	}
	ctx, ok := c.typeCtx(ts.QualName(t))
	return ok && ctx.kind.IsTrait()
}

// IsClass reports whether t names a class.
func (c *Context) IsClass(t ts.Type) bool {
	switch typ := ts.Deref(t).(type) {
	case ts.Refinement:
		return c.IsClass(typ.Base)
	case ts.Or:
		return c.IsClass(typ.L) && c.IsClass(typ.R)
	case ts.NeverType:
		return true
	case ts.TyVar, ts.Proj, ts.ProjCall, ts.Not, ts.FailureType:
		return false
	}
	ctx, ok := c.typeCtx(ts.QualName(t))
	return ok && ctx.kind.IsClass()
}

// ImplOf returns the trait a method group implements.
func (c *Context) ImplOf() (ts.Type, bool) {
	return c.implOf, c.implOf != nil
}

// MethodTraits lists the traits whose implementations in this context
// define the method name.
func (c *Context) MethodTraits(name string) []string {
	return c.methodTraits[name]
}

// GluePatch returns the instance a glue patch context implements.
func (c *Context) GluePatch() (TraitInstance, bool) {
	if c.glueInstance == nil {
		return TraitInstance{}, false
	}
	return *c.glueInstance, true
}

// GetPatch finds a registered patch lexically.
func (c *Context) GetPatch(name string) (*Context, bool) {
	for ctx := c; ctx != nil; ctx = ctx.next() {
		if p, ok := ctx.patches[name]; ok {
			return p, true
		}
	}
	return nil, false
}
