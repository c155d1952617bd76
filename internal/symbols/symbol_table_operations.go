package symbols

import (
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
	"github.com/funvibe/tycore/internal/utils"
)

// Grow makes a fresh child the live context. The current value moves
// into a new heap cell that becomes the child's outer; the receiver is
// reset in place. Pointers taken to the receiver before Grow therefore
// observe the child, not the parent.
func (c *Context) Grow(name string, kind ContextKind, vis Visibility, tv *TyVarCache) {
	qualified := utils.QualifyName(c.name, name, vis.IsPublic())
	parent := new(Context)
	*parent = *c
	*c = *New(Options{Name: qualified, Kind: kind, Outer: parent})
	c.tvCache = tv
	c.log.Debug("grow scope", "namespace", qualified, "kind", kind.String())
}

// Pop restores the outer context as the live one and returns the child.
// At the top level it returns the current context and leaves a fresh
// default context in its place.
func (c *Context) Pop() *Context {
	child := new(Context)
	*child = *c
	if c.outer == nil {
		*c = *c.newDefault()
		return child
	}
	*c = *c.outer
	child.outer = nil
	c.log.Debug("pop scope", "namespace", c.name)
	return child
}

// CheckDecls reports every declaration that was never assigned.
func (c *Context) CheckDecls() error {
	var errs diagnostics.Errors
	c.decls.each(func(name string, vi VarInfo) {
		errs = append(errs, diagnostics.Uninitialized(vi.DefLoc, c.CausedBy(), name))
	})
	return diagnostics.From(errs...)
}

// CheckDeclsAndPop pops only when every declaration is initialized. On
// failure the live context is unchanged and the caller decides whether to
// pop.
func (c *Context) CheckDeclsAndPop() (*Context, error) {
	if err := c.CheckDecls(); err != nil {
		return nil, err
	}
	return c.Pop(), nil
}

// Declare records a name whose definition comes later.
func (c *Context) Declare(name string, vi VarInfo) {
	vi.Kind = VarDeclared
	if vi.DefLoc.Lexeme == "" {
		vi.DefLoc = token.Symbol(name)
	}
	c.decls.put(name, vi)
}

// Assign defines a name, moving it out of the pending declarations.
func (c *Context) Assign(name string, vi VarInfo) {
	c.decls.remove(name)
	if vi.Kind == VarDeclared {
		vi.Kind = VarDefined
	}
	c.locals.put(name, vi)
}

// AddParam binds a parameter of a subroutine context.
func (c *Context) AddParam(name string, vi VarInfo) {
	vi.Kind = VarParameter
	c.params = append(c.params, Param{Name: name, Info: vi})
}

// constType is the type recorded for a constant: the singleton type for
// plain values, the signature for subroutines and the meta type for types.
func constType(v ts.Value) ts.Type {
	switch v := v.(type) {
	case ts.SubrVal:
		return v.Subr.SigType()
	case ts.TypeVal:
		return v.Obj.MetaType()
	case ts.RecordVal, ts.DictVal:
		return ts.ClassOf(v)
	}
	return ts.VEnum(v)
}

// RegisterConst binds a constant in this context.
func (c *Context) RegisterConst(name string, v ts.Value, vis Visibility) {
	c.decls.remove(name)
	c.consts.put(name, v)
	c.locals.put(name, VarInfo{Type: constType(v), Mutability: Const, Vis: vis, Kind: VarDefined, DefLoc: token.Symbol(name)})
}

// RegisterGenConst binds the value produced by a constant definition.
// Type values of class or trait definitions also get a type context;
// aliases (isOther) are bound as plain constants.
func (c *Context) RegisterGenConst(ident token.Token, v ts.Value, vis Visibility, isOther bool) error {
	name := ident.Lexeme
	if _, ok := c.consts.get(name); ok {
		return diagnostics.From(diagnostics.Reassign(ident, c.CausedBy(), name))
	}
	tv, ok := v.(ts.TypeVal)
	if !ok || isOther || tv.Obj.Kind != ts.GeneratedTypeObj {
		c.RegisterConst(name, v, vis)
		return nil
	}
	gen := tv.Obj.Gen
	if m, ok := gen.T.(ts.Mono); ok && m.Name == "" {
		gen.T = ts.Mono{Name: name}
	}
	var ctx *Context
	if gen.Kind == ts.GenTrait {
		ctx = NewMonoTrait(name, c)
	} else {
		ctx = NewMonoClass(name, c)
		if gen.Base != nil {
			ctx.AddSuperClass(gen.Base.Typ())
		} else {
			ctx.AddSuperClass(ts.Obj)
		}
	}
	for _, f := range gen.Attrs {
		var t ts.Type = ts.Obj
		if ft, ok := f.Value.(ts.TypeVal); ok {
			t = ft.Obj.Typ()
		}
		ctx.Assign(f.Name, VarInfo{Type: t, Vis: Public, Kind: VarDefined})
	}
	c.RegisterMonoType(gen.T, ctx, vis)
	c.consts.put(name, v)
	c.log.Debug("register generated type", "name", name, "kind", ctx.kind.String())
	return nil
}

// RegisterMonoType adds a type definition and binds the type as a constant.
func (c *Context) RegisterMonoType(t ts.Type, ctx *Context, vis Visibility) {
	name := ts.QualName(t)
	c.monoTypes[name] = TypeDef{Type: t, Ctx: ctx}
	c.registerTypeConst(name, t, ctx, vis)
}

// RegisterPolyType adds a parameterized type definition, keyed by base name.
func (c *Context) RegisterPolyType(t ts.Type, ctx *Context, vis Visibility) {
	name := ts.QualName(t)
	c.polyTypes[name] = TypeDef{Type: t, Ctx: ctx}
	c.registerTypeConst(name, t, ctx, vis)
}

func (c *Context) registerTypeConst(name string, t ts.Type, ctx *Context, vis Visibility) {
	var v ts.TypeVal
	if ctx != nil && ctx.kind.IsTrait() {
		v = ts.BuiltinTrait(t)
	} else {
		v = ts.BuiltinClass(t)
	}
	c.decls.remove(name)
	if _, ok := c.consts.get(name); !ok {
		c.consts.put(name, v)
	}
	c.locals.put(name, VarInfo{Type: v.Obj.MetaType(), Mutability: Const, Vis: vis, Kind: VarDefined, DefLoc: token.Symbol(name)})
}

func (c *Context) RegisterPatch(name string, patch *Context) {
	c.patches[name] = patch
}

// AddMethods attaches a method group to the type this context defines.
func (c *Context) AddMethods(def ClassDefType, methods *Context) {
	if def.ImplTrait != nil {
		methods.implOf = def.ImplTrait
		trait := ts.QualName(def.ImplTrait)
		methods.locals.each(func(name string, _ VarInfo) {
			c.methodTraits[name] = appendUnique(c.methodTraits[name], trait)
		})
	}
	c.methodsList = append(c.methodsList, MethodDefs{DefType: def, Ctx: methods})
}

func appendUnique(list []string, s string) []string {
	for _, e := range list {
		if e == s {
			return list
		}
	}
	return append(list, s)
}

func (c *Context) AddSuperClass(t ts.Type) { c.superClasses = append(c.superClasses, t) }
func (c *Context) AddSuperTrait(t ts.Type) { c.superTraits = append(c.superTraits, t) }

// RegisterModuleAlias makes `alias.X` resolve inside the module at path.
func (c *Context) RegisterModuleAlias(alias, path string) {
	c.moduleAliases[alias] = path
	c.locals.put(alias, VarInfo{Type: ts.ModuleT, Mutability: Const, Kind: VarDefined, DefLoc: token.Symbol(alias)})
}
