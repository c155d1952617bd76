package symbols

import (
	"fmt"
	"log/slog"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// Options configures a new context. Zero fields are inherited from Outer
// when it is set, and defaulted otherwise.
type Options struct {
	Name     string
	Kind     ContextKind
	Params   []Param
	Outer    *Context
	Capacity int
	Level    int
	Resolver ModuleResolver
	Config   *config.Config
	Logger   *slog.Logger
}

func New(opts Options) *Context {
	cfg := config.DefaultConfig()
	switch {
	case opts.Config != nil:
		cfg = *opts.Config
	case opts.Outer != nil:
		cfg = opts.Outer.cfg
	}
	log := opts.Logger
	if log == nil && opts.Outer != nil {
		log = opts.Outer.log
	}
	if log == nil {
		log = slog.Default()
	}
	resolver := opts.Resolver
	if resolver == nil && opts.Outer != nil {
		resolver = opts.Outer.resolver
	}
	level := opts.Level
	if level == 0 {
		level = config.TopLevel
		if opts.Outer != nil {
			level = opts.Outer.level
		}
	}
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = config.DefaultCapacity
	}

	return &Context{
		name:          opts.Name,
		kind:          opts.Kind,
		cfg:           cfg,
		log:           log,
		outer:         opts.Outer,
		params:        opts.Params,
		decls:         newVarTable(),
		locals:        newVarTable(),
		consts:        newConstTable(),
		monoTypes:     make(map[string]TypeDef, capacity),
		polyTypes:     make(map[string]TypeDef, capacity),
		patches:       make(map[string]*Context),
		traitImpls:    make(map[string][]TraitInstance),
		methodTraits:  make(map[string][]string),
		moduleAliases: make(map[string]string),
		level:         level,
		resolver:      resolver,
	}
}

// newDefault is what Pop leaves behind at the top level.
func (c *Context) newDefault() *Context {
	return New(Options{Kind: KindDummy, Config: &c.cfg, Logger: c.log, Resolver: c.resolver})
}

func NewModule(name string, resolver ModuleResolver, cfg *config.Config) *Context {
	return New(Options{Name: name, Kind: KindModule, Resolver: resolver, Config: cfg})
}

func NewInstant(name string, outer *Context) *Context {
	return New(Options{Name: name, Kind: KindInstant, Outer: outer, Capacity: config.InstantCapacity})
}

func NewFunc(name string, params []Param, outer *Context) *Context {
	return New(Options{Name: name, Kind: KindFunc, Params: params, Outer: outer})
}

func NewProc(name string, params []Param, outer *Context) *Context {
	return New(Options{Name: name, Kind: KindProc, Params: params, Outer: outer})
}

func NewMonoClass(name string, outer *Context) *Context {
	return New(Options{Name: name, Kind: KindClass, Outer: outer})
}

func NewPolyClass(name string, params []Param, outer *Context) *Context {
	return New(Options{Name: name, Kind: KindClass, Params: params, Outer: outer})
}

func NewMonoTrait(name string, outer *Context) *Context {
	return New(Options{Name: name, Kind: KindTrait, Outer: outer})
}

func NewPolyTrait(name string, params []Param, outer *Context) *Context {
	return New(Options{Name: name, Kind: KindTrait, Params: params, Outer: outer})
}

// NewMethods creates a method group. Groups implementing a trait remember
// it as their ImplOf.
func NewMethods(def ClassDefType, outer *Context) *Context {
	ctx := New(Options{Name: def.String(), Kind: KindMethodDefs, Outer: outer})
	ctx.implOf = def.ImplTrait
	return ctx
}

func NewPatch(name string, base ts.Type, outer *Context) *Context {
	ctx := New(Options{Name: name, Kind: KindPatch, Outer: outer})
	ctx.patchBase = base
	return ctx
}

// NewGluePatch creates the patch that makes inst.SubType implement
// inst.SupTrait.
func NewGluePatch(name string, inst TraitInstance, outer *Context) *Context {
	ctx := New(Options{Name: name, Kind: KindGluePatch, Outer: outer})
	ctx.patchBase = inst.SubType
	ctx.glueInstance = &inst
	ctx.implOf = inst.SupTrait
	return ctx
}

func typeParam(name string, t ts.Type) Param {
	return Param{Name: name, Info: VarInfo{Type: t, Mutability: Const, Kind: VarParameter}}
}

// NewBuiltins builds the distinguished builtins module: the primitive
// classes and their nominal hierarchy, the arithmetic traits with their
// Output projections, the collection types and a few constant functions.
func NewBuiltins(cfg *config.Config, logger *slog.Logger) *Context {
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	b := New(Options{Name: config.BuiltinsPath, Kind: KindModule, Config: cfg, Logger: logger})

	supers := []struct {
		t     ts.Mono
		super ts.Type
	}{
		{ts.Obj, nil},
		{ts.Float, ts.Obj},
		{ts.Ratio, ts.Float},
		{ts.Int, ts.Float},
		{ts.Nat, ts.Int},
		{ts.Bool, ts.Nat},
		{ts.Str, ts.Obj},
		{ts.NoneType, ts.Obj},
		{ts.Ellipsis, ts.Obj},
		{ts.Inf, ts.Obj},
		{ts.TypeT, ts.Obj},
		{ts.ClassType, ts.TypeT},
		{ts.TraitType, ts.TypeT},
		{ts.Subroutine, ts.Obj},
		{ts.ModuleT, ts.Obj},
	}
	classes := make(map[string]*Context, len(supers))
	for _, s := range supers {
		ctx := NewMonoClass(s.t.Name, b)
		if s.super != nil {
			ctx.AddSuperClass(s.super)
		}
		classes[s.t.Name] = ctx
		b.RegisterMonoType(s.t, ctx, Public)
	}
	b.RegisterMonoType(ts.Mono{Name: config.NeverTypeName}, NewMonoClass(config.NeverTypeName, b), Public)

	eq := ts.Mono{Name: "Eq"}
	ord := ts.Mono{Name: "Ord"}
	b.RegisterMonoType(eq, NewMonoTrait("Eq", b), Public)
	ordCtx := NewMonoTrait("Ord", b)
	ordCtx.AddSuperTrait(eq)
	b.RegisterMonoType(ord, ordCtx, Public)

	r := ts.NamedTyVar("R")
	for _, name := range []string{"Add", "Sub", "Mul", "Div"} {
		trait := NewPolyTrait(name, []Param{typeParam("R", ts.TypeT)}, b)
		trait.Declare("Output", VarInfo{Type: ts.TypeT, Mutability: Const, Vis: Public})
		trait.Assign("Output", VarInfo{Type: ts.TypeT, Mutability: Const, Vis: Public})
		b.RegisterPolyType(ts.Poly{Name: name, Params: []ts.TyParam{ts.TPType{T: r}}}, trait, Public)
	}

	arith := []struct {
		class ts.Mono
		trait string
		rhs   ts.Type
		out   ts.Type
	}{
		{ts.Nat, "Add", ts.Nat, ts.Nat},
		{ts.Nat, "Sub", ts.Nat, ts.Int},
		{ts.Nat, "Mul", ts.Nat, ts.Nat},
		{ts.Nat, "Div", ts.Nat, ts.Float},
		{ts.Int, "Add", ts.Int, ts.Int},
		{ts.Int, "Sub", ts.Int, ts.Int},
		{ts.Int, "Mul", ts.Int, ts.Int},
		{ts.Int, "Div", ts.Int, ts.Float},
		{ts.Float, "Add", ts.Float, ts.Float},
		{ts.Float, "Sub", ts.Float, ts.Float},
		{ts.Float, "Mul", ts.Float, ts.Float},
		{ts.Float, "Div", ts.Float, ts.Float},
		{ts.Str, "Add", ts.Str, ts.Str},
	}
	for _, a := range arith {
		impl := ts.Poly{Name: a.trait, Params: []ts.TyParam{ts.TPType{T: a.rhs}}}
		methods := NewMethods(ImplTraitDef(a.class, impl), classes[a.class.Name])
		methods.registerBuiltinConst("Output", ts.BuiltinClass(a.out))
		classes[a.class.Name].AddMethods(ImplTraitDef(a.class, impl), methods)
		b.RegisterTraitImpl(a.class, impl)
	}
	for _, name := range []string{config.BoolTypeName, config.NatTypeName, config.IntTypeName, config.FloatTypeName, config.StrTypeName} {
		class := ts.Mono{Name: name}
		b.RegisterTraitImpl(class, eq)
		b.RegisterTraitImpl(class, ord)
	}

	elemT := ts.NamedTyVar("T")
	lenN := ts.NamedTPVar("N", ts.Nat)
	colls := []struct {
		t      ts.Poly
		params []Param
	}{
		{ts.ArrayT(elemT, lenN), []Param{typeParam("T", ts.TypeT), typeParam("N", ts.Nat)}},
		{ts.SetT(elemT, lenN), []Param{typeParam("T", ts.TypeT), typeParam("N", ts.Nat)}},
		{ts.DictT(ts.NamedTPVar("D", ts.DictT(ts.TPDict{}))), []Param{typeParam("D", ts.TypeT)}},
		{ts.TupleT(nil), nil},
	}
	for _, coll := range colls {
		ctx := NewPolyClass(coll.t.Name, coll.params, b)
		ctx.AddSuperClass(ts.Obj)
		b.RegisterPolyType(coll.t, ctx, Public)
	}

	for _, subr := range builtinSubrs() {
		b.registerBuiltinConst(subr.Name(), ts.SubrVal{Subr: subr})
	}
	printT := ts.Subr{Kind: ts.ProcKind, VarParams: &ts.ParamTy{Name: "objs", Ty: ts.Obj}, Return: ts.NoneType}
	b.locals.put("print!", VarInfo{Type: printT, Vis: Public, Kind: VarBuiltin})
	return b
}

func builtinSubrs() []ts.ConstSubr {
	abs := &ts.BuiltinSubr{
		SubrName: "abs",
		Sig:      ts.FuncT([]ts.ParamTy{{Name: "x", Ty: ts.Float}}, ts.Float),
		Fn: func(args ts.ValueArgs) (ts.Value, error) {
			if len(args.Pos) != 1 {
				return nil, fmt.Errorf("abs takes 1 argument, got %d", len(args.Pos))
			}
			switch v := args.Pos[0].(type) {
			case ts.NatVal:
				return v, nil
			case ts.BoolVal:
				if v {
					return ts.NatVal(1), nil
				}
				return ts.NatVal(0), nil
			case ts.IntVal:
				if v < 0 {
					return ts.NatVal(uint64(-v)), nil
				}
				return ts.NatVal(uint64(v)), nil
			case ts.FloatVal:
				if v < 0 {
					return -v, nil
				}
				return v, nil
			}
			return nil, fmt.Errorf("abs: unsupported argument %s", args.Pos[0])
		},
	}
	length := &ts.BuiltinSubr{
		SubrName: "len",
		Sig:      ts.FuncT([]ts.ParamTy{{Name: "x", Ty: ts.Obj}}, ts.Nat),
		Fn: func(args ts.ValueArgs) (ts.Value, error) {
			if len(args.Pos) != 1 {
				return nil, fmt.Errorf("len takes 1 argument, got %d", len(args.Pos))
			}
			switch v := args.Pos[0].(type) {
			case ts.StrVal:
				return ts.NatVal(len([]rune(string(v)))), nil
			case ts.ArrayVal:
				return ts.NatVal(len(v)), nil
			case ts.TupleVal:
				return ts.NatVal(len(v)), nil
			case ts.SetVal:
				return ts.NatVal(len(v)), nil
			case ts.DictVal:
				return ts.NatVal(len(v)), nil
			case ts.RecordVal:
				return ts.NatVal(len(v)), nil
			}
			return nil, fmt.Errorf("len: unsupported argument %s", args.Pos[0])
		},
	}
	class := &ts.BuiltinSubr{
		SubrName: "Class",
		Sig:      ts.FuncT([]ts.ParamTy{{Name: "Requirement", Ty: ts.Obj}}, ts.ClassType),
		Fn: func(args ts.ValueArgs) (ts.Value, error) {
			return ts.GenType(genTypeObj(ts.GenClass, args)), nil
		},
	}
	trait := &ts.BuiltinSubr{
		SubrName: "Trait",
		Sig:      ts.FuncT([]ts.ParamTy{{Name: "Requirement", Ty: ts.Obj}}, ts.TraitType),
		Fn: func(args ts.ValueArgs) (ts.Value, error) {
			return ts.GenType(genTypeObj(ts.GenTrait, args)), nil
		},
	}
	return []ts.ConstSubr{abs, length, class, trait}
}

// genTypeObj builds an anonymous type. Binding it with a definition gives
// it the defined name.
func genTypeObj(kind ts.GenKind, args ts.ValueArgs) *ts.GenTypeObj {
	gen := &ts.GenTypeObj{Kind: kind, T: ts.Mono{Name: ""}}
	var req ts.Value
	if len(args.Pos) > 0 {
		req = args.Pos[0]
	}
	for _, kw := range args.Kw {
		if kw.Name == "Requirement" {
			req = kw.Value
		}
	}
	if rec, ok := req.(ts.RecordVal); ok {
		gen.Attrs = rec
	}
	return gen
}

// registerBuiltinConst adds a constant without creating a type context
// for type values.
func (c *Context) registerBuiltinConst(name string, v ts.Value) {
	c.consts.put(name, v)
	c.locals.put(name, VarInfo{Type: constType(v), Mutability: Const, Vis: Public, Kind: VarBuiltin, DefLoc: token.Symbol(name)})
}
