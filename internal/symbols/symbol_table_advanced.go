package symbols

import (
	"log/slog"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/typesystem"
)

// Context is one node of the scope tree: a module, a class body, a
// subroutine, a method group or a transient block.
//
// The live context of a checking pass is a single value. Grow moves it
// into a fresh heap cell that becomes the new context's outer, so only the
// live value is ever mutated through the checker's handle.
type Context struct {
	name string
	kind ContextKind
	cfg  config.Config
	log  *slog.Logger

	// Base type of a patch, or the instance a glue patch implements.
	patchBase    typesystem.Type
	glueInstance *TraitInstance

	outer  *Context
	params []Param

	// Declared but not yet defined names. Assign moves them into locals.
	decls  varTable
	locals varTable
	consts constTable

	// Nested type definitions: mono by name, poly by qualified base name.
	monoTypes map[string]TypeDef
	polyTypes map[string]TypeDef
	patches   map[string]*Context

	// Method groups of the type this context defines, in registration order.
	methodsList []MethodDefs

	// Nominal supertypes of the type this context defines.
	superClasses []typesystem.Type
	superTraits  []typesystem.Type

	// Trait implementation facts: TraitName -> instances.
	traitImpls map[string][]TraitInstance

	// Method name -> trait names that define it.
	methodTraits map[string][]string

	// Module alias -> module path, for `m.X` accessors.
	moduleAliases map[string]string

	// The trait that a method group implements.
	implOf typesystem.Type

	level    int
	resolver ModuleResolver
	tvCache  *TyVarCache
}

// TyVarCache holds the quantified variables introduced by a signature,
// keyed by name. Detach also uses one to keep equal names identified.
type TyVarCache struct {
	Level  int
	types  map[string]typesystem.Type
	params map[string]typesystem.TyParam
}

func NewTyVarCache(level int) *TyVarCache {
	return &TyVarCache{
		Level:  level,
		types:  make(map[string]typesystem.Type),
		params: make(map[string]typesystem.TyParam),
	}
}

func (tv *TyVarCache) PushType(name string, t typesystem.Type)   { tv.types[name] = t }
func (tv *TyVarCache) PushTP(name string, tp typesystem.TyParam) { tv.params[name] = tp }
func (tv *TyVarCache) Len() int                                  { return len(tv.types) + len(tv.params) }

func (tv *TyVarCache) GetType(name string) (typesystem.Type, bool) {
	t, ok := tv.types[name]
	return t, ok
}

func (tv *TyVarCache) GetTP(name string) (typesystem.TyParam, bool) {
	tp, ok := tv.params[name]
	return tp, ok
}

func (c *Context) Name() string                    { return c.name }
func (c *Context) Kind() ContextKind               { return c.kind }
func (c *Context) Level() int                      { return c.level }
func (c *Context) Outer() *Context                 { return c.outer }
func (c *Context) Params() []Param                 { return c.params }
func (c *Context) Config() config.Config           { return c.cfg }
func (c *Context) Logger() *slog.Logger            { return c.log }
func (c *Context) Resolver() ModuleResolver        { return c.resolver }
func (c *Context) TyVarCache() *TyVarCache         { return c.tvCache }
func (c *Context) MethodsList() []MethodDefs       { return c.methodsList }
func (c *Context) SuperClasses() []typesystem.Type { return c.superClasses }
func (c *Context) SuperTraits() []typesystem.Type  { return c.superTraits }
func (c *Context) PatchBase() typesystem.Type      { return c.patchBase }

// SetResolver installs the module resolver. Grow propagates it to children.
func (c *Context) SetResolver(r ModuleResolver) { c.resolver = r }

// SetLevel changes the nesting level used for new free variables.
func (c *Context) SetLevel(level int) { c.level = level }

// IsBuiltins reports the distinguished builtins module.
func (c *Context) IsBuiltins() bool {
	return c.kind == KindModule && c.name == config.BuiltinsPath
}

// LocalsLen, DeclsLen and ConstsLen report table sizes.
func (c *Context) LocalsLen() int { return c.locals.len() }
func (c *Context) DeclsLen() int  { return c.decls.len() }
func (c *Context) ConstsLen() int { return c.consts.len() }
