package symbols

import (
	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
	"github.com/funvibe/tycore/internal/utils"
)

// builtins returns the builtins context used as the root fallback. The
// builtins module itself has none, which stops the lookup from looping.
func (c *Context) builtins() *Context {
	if c.IsBuiltins() || c.resolver == nil {
		return nil
	}
	b, ok := c.resolver.BuiltinsCtx()
	if !ok || b == c {
		return nil
	}
	return b
}

// next is where a failed local lookup continues: the outer scope, or the
// builtins once the root is reached.
func (c *Context) next() *Context {
	if c.outer != nil {
		return c.outer
	}
	return c.builtins()
}

func (c *Context) localVarInfo(name string) (VarInfo, bool) {
	if vi, ok := c.locals.get(name); ok {
		return vi, true
	}
	for _, p := range c.params {
		if p.Name == name {
			return p.Info, true
		}
	}
	return c.decls.get(name)
}

// LookupVarInfo finds name lexically without building an error.
func (c *Context) LookupVarInfo(name string) (VarInfo, bool) {
	for ctx := c; ctx != nil; ctx = ctx.next() {
		if vi, ok := ctx.localVarInfo(name); ok {
			return vi, true
		}
	}
	return VarInfo{}, false
}

// GetVarInfo finds name in this context, then outward, then in builtins.
// A miss is an ErrNoVar carrying the closest visible name.
func (c *Context) GetVarInfo(name string) (VarInfo, error) {
	if vi, ok := c.LookupVarInfo(name); ok {
		return vi, nil
	}
	suggestion, _ := c.GetSimilarName(name)
	return VarInfo{}, diagnostics.From(diagnostics.NoVar(token.Symbol(name), c.CausedBy(), name, suggestion))
}

// Dir lists every visible name, innermost first. Shadowed names appear once.
func (c *Context) Dir() []NamedVar {
	seen := make(map[string]bool)
	var out []NamedVar
	add := func(name string, vi VarInfo) {
		if !seen[name] {
			seen[name] = true
			out = append(out, NamedVar{Name: name, Info: vi})
		}
	}
	for ctx := c; ctx != nil; ctx = ctx.next() {
		for _, p := range ctx.params {
			add(p.Name, p.Info)
		}
		ctx.locals.each(add)
		ctx.decls.each(add)
	}
	return out
}

func (c *Context) visibleNames() []string {
	dir := c.Dir()
	names := make([]string, len(dir))
	for i, nv := range dir {
		names[i] = nv.Name
	}
	return names
}

// GetSimilarName suggests a visible name close to name.
func (c *Context) GetSimilarName(name string) (string, bool) {
	return utils.SimilarName(c.visibleNames(), name, c.cfg.SimilarNameMaxDistance)
}

// Path is the name of the outermost module context, or the builtins path
// when the chain has no module at its root.
func (c *Context) Path() string {
	root := c
	for root.outer != nil {
		root = root.outer
	}
	if root.kind == KindModule && root.name != "" {
		return root.name
	}
	return config.BuiltinsPath
}

// CausedBy is the scope path attached to errors raised here.
func (c *Context) CausedBy() string {
	if c.name == "" {
		return c.Path()
	}
	return c.name
}

// RecGetConstObj finds a constant lexically, falling back to builtins.
func (c *Context) RecGetConstObj(name string) (ts.Value, bool) {
	for ctx := c; ctx != nil; ctx = ctx.next() {
		if v, ok := ctx.consts.get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// GetConstLocal looks a constant up in this context only.
func (c *Context) GetConstLocal(name string) (ts.Value, bool) {
	return c.consts.get(name)
}

// ConstNames lists the constants defined directly in this context.
func (c *Context) ConstNames() []string {
	var out []string
	c.consts.each(func(name string, _ ts.Value) { out = append(out, name) })
	return out
}

// GetType finds a type definition in this context only.
func (c *Context) GetType(name string) (TypeDef, bool) {
	if td, ok := c.monoTypes[name]; ok {
		return td, true
	}
	td, ok := c.polyTypes[name]
	return td, ok
}

// RecGetType finds a type definition lexically, falling back to builtins.
func (c *Context) RecGetType(name string) (TypeDef, bool) {
	for ctx := c; ctx != nil; ctx = ctx.next() {
		if td, ok := ctx.GetType(name); ok {
			return td, true
		}
	}
	return TypeDef{}, false
}

// GetSameNameContext finds an enclosing context named after a type, i.e.
// the body of the class being defined.
func (c *Context) GetSameNameContext(name string) (*Context, bool) {
	for ctx := c; ctx != nil; ctx = ctx.outer {
		if ctx.name == name || utils.LastSegment(ctx.name) == name {
			return ctx, true
		}
	}
	return nil, false
}

// GetNominalTypeCtx returns the context that defines t itself.
func (c *Context) GetNominalTypeCtx(t ts.Type) (*Context, bool) {
	switch typ := ts.Deref(t).(type) {
	case ts.TyVar:
		_, sup, ok := ts.GetSubSup(typ)
		if ok && !ts.EqType(sup, ts.Obj) {
			return c.GetNominalTypeCtx(sup)
		}
		return c.typeCtx(ts.Obj.Name)
	case ts.Refinement:
		return c.GetNominalTypeCtx(typ.Base)
	case ts.Ref:
		return c.GetNominalTypeCtx(typ.T)
	case ts.RefMut:
		return c.GetNominalTypeCtx(typ.Before)
	case ts.Mono, ts.Poly, ts.Subr:
		return c.typeCtx(ts.QualName(typ))
	case ts.RecordType, ts.Or, ts.And, ts.Not:
		return c.typeCtx(ts.Obj.Name)
	}
	return nil, false
}

func (c *Context) typeCtx(name string) (*Context, bool) {
	td, ok := c.RecGetType(name)
	if !ok || td.Ctx == nil {
		return nil, false
	}
	return td.Ctx, true
}

// GetNominalSuperTypeCtxs returns the context of t followed by those of
// its super classes and then its super traits, transitively, each once.
func (c *Context) GetNominalSuperTypeCtxs(t ts.Type) ([]*Context, bool) {
	own, ok := c.GetNominalTypeCtx(t)
	if !ok {
		return nil, false
	}
	seen := map[*Context]bool{own: true}
	out := []*Context{own}
	var classes func(ctx *Context)
	classes = func(ctx *Context) {
		for _, sup := range ctx.superClasses {
			sc, ok := c.GetNominalTypeCtx(sup)
			if !ok || seen[sc] {
				continue
			}
			seen[sc] = true
			out = append(out, sc)
			classes(sc)
		}
	}
	classes(own)
	n := len(out)
	var traits func(ctx *Context)
	traits = func(ctx *Context) {
		for _, sup := range ctx.superTraits {
			tc, ok := c.GetNominalTypeCtx(sup)
			if !ok || seen[tc] {
				continue
			}
			seen[tc] = true
			out = append(out, tc)
			traits(tc)
		}
	}
	for _, ctx := range out[:n] {
		traits(ctx)
	}
	return out, true
}

// GetModCtx resolves a module alias to the module's context.
func (c *Context) GetModCtx(alias string) (*Context, bool) {
	for ctx := c; ctx != nil; ctx = ctx.next() {
		if path, ok := ctx.moduleAliases[alias]; ok {
			if c.resolver == nil {
				return nil, false
			}
			return c.resolver.ModuleCtx(path)
		}
	}
	return nil, false
}
