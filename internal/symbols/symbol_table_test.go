package symbols

import (
	"testing"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

type staticResolver struct {
	builtins *Context
	modules  map[string]*Context
}

func (r *staticResolver) BuiltinsCtx() (*Context, bool) { return r.builtins, r.builtins != nil }

func (r *staticResolver) ModuleCtx(path string) (*Context, bool) {
	ctx, ok := r.modules[path]
	return ctx, ok
}

func newTestModule() (*Context, *staticResolver) {
	r := &staticResolver{builtins: NewBuiltins(nil, nil), modules: map[string]*Context{}}
	return NewModule(config.MainModuleName, r, nil), r
}

func TestGrowPopRoundTrip(t *testing.T) {
	mod, _ := newTestModule()
	mod.RegisterConst("X", ts.NatVal(1), Public)
	locals := mod.LocalsLen()

	mod.Grow("f", KindFunc, Private, nil)
	if mod.Name() != "<module>::f" || mod.Kind() != KindFunc {
		t.Fatalf("after Grow: %s/%s, want <module>::f/Func", mod.Name(), mod.Kind())
	}
	if mod.Outer() == nil || mod.Outer().Name() != "<module>" {
		t.Fatal("outer should be the module")
	}
	mod.Grow("g", KindInstant, Public, NewTyVarCache(2))
	if mod.Name() != "<module>::f.g" {
		t.Errorf("nested name = %s, want <module>::f.g", mod.Name())
	}
	mod.Assign("y", VarInfo{Type: ts.Int})

	g := mod.Pop()
	if g.Name() != "<module>::f.g" || g.LocalsLen() != 1 {
		t.Errorf("popped %s with %d locals", g.Name(), g.LocalsLen())
	}
	mod.Pop()
	if mod.Name() != "<module>" || mod.Kind() != KindModule || mod.LocalsLen() != locals {
		t.Errorf("after Pop: %s/%s with %d locals, want <module>/Module with %d", mod.Name(), mod.Kind(), mod.LocalsLen(), locals)
	}
	if v, ok := mod.RecGetConstObj("X"); !ok || !ts.EqValue(v, ts.NatVal(1)) {
		t.Errorf("X = %v, want 1", v)
	}
}

func TestPopAtTopLevel(t *testing.T) {
	mod, _ := newTestModule()
	got := mod.Pop()
	if got.Name() != "<module>" {
		t.Errorf("Pop() = %s, want <module>", got.Name())
	}
	if mod.Kind() != KindDummy || mod.LocalsLen() != 0 {
		t.Errorf("live context = %s with %d locals, want an empty Dummy", mod.Kind(), mod.LocalsLen())
	}
	mod.Pop()
}

func TestCheckDeclsAndPop(t *testing.T) {
	mod, _ := newTestModule()
	mod.Grow("C", KindClass, Public, nil)
	mod.Declare("a", VarInfo{Type: ts.Int})
	mod.Declare("b", VarInfo{Type: ts.Str})

	_, err := mod.CheckDeclsAndPop()
	if got := len(diagnostics.AsErrors(err)); got != 2 {
		t.Fatalf("errors = %d, want 2 (%v)", got, err)
	}
	for _, code := range diagnostics.Codes(err) {
		if code != diagnostics.ErrUninitialized {
			t.Errorf("code = %s, want %s", code, diagnostics.ErrUninitialized)
		}
	}
	if mod.Name() != "<module>.C" {
		t.Errorf("failed CheckDeclsAndPop must not pop, live = %s", mod.Name())
	}

	mod.Assign("a", VarInfo{Type: ts.Int})
	mod.Assign("b", VarInfo{Type: ts.Str})
	child, err := mod.CheckDeclsAndPop()
	if err != nil {
		t.Fatalf("CheckDeclsAndPop: %v", err)
	}
	if child.Name() != "<module>.C" || mod.Name() != "<module>" {
		t.Errorf("popped %s, live %s", child.Name(), mod.Name())
	}
}

func TestGetVarInfoBuiltinsFallback(t *testing.T) {
	mod, r := newTestModule()
	mod.Grow("f", KindFunc, Private, nil)
	vi, err := mod.GetVarInfo("Int")
	if err != nil {
		t.Fatalf("GetVarInfo(Int): %v", err)
	}
	if !ts.EqType(vi.Type, ts.ClassType) {
		t.Errorf("Int: %s, want ClassType", vi.Type)
	}
	if _, err := r.builtins.GetVarInfo("nowhere"); err == nil {
		t.Error("builtins lookup of an unknown name should fail")
	}
}

func TestNoVarSuggestsFromBuiltins(t *testing.T) {
	mod, _ := newTestModule()
	_, err := mod.GetVarInfo("Innt")
	errs := diagnostics.AsErrors(err)
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrNoVar {
		t.Fatalf("err = %v, want one %s", err, diagnostics.ErrNoVar)
	}
	if errs[0].Suggestion != "Int" || errs[0].Name != "Innt" {
		t.Errorf("suggestion = %q for %q, want Int", errs[0].Suggestion, errs[0].Name)
	}
}

func TestDir(t *testing.T) {
	mod, _ := newTestModule()
	mod.RegisterConst("X", ts.NatVal(1), Public)
	mod.Grow("f", KindFunc, Private, nil)
	mod.Assign("y", VarInfo{Type: ts.Int})
	mod.Assign("Int", VarInfo{Type: ts.Str})

	dir := mod.Dir()
	if len(dir) < 3 || dir[0].Name != "y" || dir[1].Name != "Int" || dir[2].Name != "X" {
		t.Fatalf("Dir() = %v, want y, Int, X first", dir)
	}
	count := 0
	for _, nv := range dir {
		if nv.Name == "Int" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Int listed %d times, want 1", count)
	}
	if !ts.EqType(dir[1].Info.Type, ts.Str) {
		t.Errorf("shadowing Int = %s, want Str", dir[1].Info.Type)
	}
}

func TestPath(t *testing.T) {
	mod, _ := newTestModule()
	mod.Grow("f", KindFunc, Private, nil)
	if got := mod.Path(); got != "<module>" {
		t.Errorf("Path() = %s, want <module>", got)
	}
	inst := NewInstant("tmp", nil)
	if got := inst.Path(); got != config.BuiltinsPath {
		t.Errorf("Path() = %s, want %s", got, config.BuiltinsPath)
	}
}

func TestRegisterGenConst(t *testing.T) {
	mod, r := newTestModule()
	if err := mod.RegisterGenConst(token.Symbol("N"), ts.NatVal(3), Public, true); err != nil {
		t.Fatalf("RegisterGenConst(N): %v", err)
	}
	err := mod.RegisterGenConst(token.Symbol("N"), ts.NatVal(4), Public, true)
	if !diagnostics.HasCode(err, diagnostics.ErrReassign) {
		t.Errorf("redefinition err = %v, want %s", err, diagnostics.ErrReassign)
	}

	classFn, ok := r.builtins.GetConstLocal("Class")
	if !ok {
		t.Fatal("builtins should define Class")
	}
	subr := classFn.(ts.SubrVal).Subr.(*ts.BuiltinSubr)
	req := ts.RecordVal{{Name: "x", Value: ts.BuiltinClass(ts.Int)}}
	v, err := subr.Fn(ts.ValueArgs{Kw: []ts.Field{{Name: "Requirement", Value: req}}})
	if err != nil {
		t.Fatalf("Class(...): %v", err)
	}
	if err := mod.RegisterGenConst(token.Symbol("C"), v, Public, false); err != nil {
		t.Fatalf("RegisterGenConst(C): %v", err)
	}
	c := ts.Mono{Name: "C"}
	td, ok := mod.GetType("C")
	if !ok || td.Ctx.Kind() != KindClass {
		t.Fatalf("GetType(C) = %v, %v; want a class", td, ok)
	}
	if !mod.IsClass(c) || mod.IsTrait(c) {
		t.Error("C should be a class")
	}
	if vi, ok := td.Ctx.LookupVarInfo("x"); !ok || !ts.EqType(vi.Type, ts.Int) {
		t.Errorf("C.x = %v, want Int", vi.Type)
	}
	if !mod.SupertypeOf(ts.Obj, c) || mod.SupertypeOf(c, ts.Int) {
		t.Error("C should sit directly below Obj")
	}
}

func TestSupertypeOf(t *testing.T) {
	mod, _ := newTestModule()
	add := func(r ts.Type) ts.Type { return ts.Poly{Name: "Add", Params: []ts.TyParam{ts.TPType{T: r}}} }
	tests := []struct {
		sup, sub ts.Type
		want     bool
	}{
		{ts.Int, ts.Nat, true},
		{ts.Nat, ts.Int, false},
		{ts.Float, ts.Bool, true},
		{ts.Obj, ts.Str, true},
		{ts.Str, ts.Never, true},
		{ts.Or{L: ts.Int, R: ts.Str}, ts.Nat, true},
		{ts.Nat, ts.Or{L: ts.Nat, R: ts.Str}, false},
		{ts.Mono{Name: "Eq"}, ts.Int, true},
		{add(ts.Int), ts.Int, true},
		{add(ts.Str), ts.Int, false},
		{ts.VEnum(ts.NatVal(1), ts.NatVal(2), ts.NatVal(3)), ts.VEnum(ts.NatVal(1), ts.NatVal(2)), true},
		{ts.VEnum(ts.NatVal(1)), ts.VEnum(ts.NatVal(2)), false},
		{ts.Nat, ts.VEnum(ts.NatVal(1)), true},
		{ts.ArrayT(ts.Int, ts.NatTP(3)), ts.ArrayT(ts.Nat, ts.NatTP(3)), true},
		{ts.ArrayT(ts.Int, ts.NatTP(3)), ts.ArrayT(ts.Int, ts.NatTP(4)), false},
		{ts.TypeT, ts.ClassType, true},
		{ts.Not{T: ts.Int}, ts.Str, true},
	}
	for _, tt := range tests {
		if got := mod.SupertypeOf(tt.sup, tt.sub); got != tt.want {
			t.Errorf("SupertypeOf(%s, %s) = %v, want %v", tt.sup, tt.sub, got, tt.want)
		}
	}
}

func TestUnionIntersectionAlgebra(t *testing.T) {
	mod, _ := newTestModule()
	types := []ts.Type{ts.Int, ts.Nat, ts.Str, ts.Never, ts.VEnum(ts.NatVal(1), ts.NatVal(2)), ts.ArrayT(ts.Int, ts.NatTP(3))}
	for _, a := range types {
		if got := mod.Union(a, ts.Never); !ts.EqType(got, a) {
			t.Errorf("Union(%s, Never) = %s, want %s", a, got, a)
		}
		if got := mod.Intersection(a, ts.Never); !ts.EqType(got, ts.Never) {
			t.Errorf("Intersection(%s, Never) = %s, want Never", a, got)
		}
		for _, b := range types {
			ab := mod.Union(a, b)
			if got := mod.Union(a, ab); !ts.EqType(got, ab) {
				t.Errorf("Union(%s, Union(%s, %s)) = %s, want %s", a, a, b, got, ab)
			}
		}
	}

	tests := []struct {
		got  ts.Type
		want string
	}{
		{mod.Union(ts.Int, ts.Nat), "Int"},
		{mod.Union(ts.Str, ts.Int), "Int or Str"},
		{mod.Union(ts.Failure, ts.Int), "Failure"},
		{mod.Intersection(ts.Int, ts.Nat), "Nat"},
		{mod.Intersection(ts.Int, ts.Str), "Never"},
		{mod.Intersection(ts.Mono{Name: "Eq"}, ts.Mono{Name: "Ord"}), "Ord"},
		{mod.Complement(ts.Not{T: ts.Int}), "Int"},
		{mod.Complement(ts.Obj), "Never"},
		{mod.MetaType(ts.Mono{Name: "Eq"}), "TraitType"},
		{mod.MetaType(ts.Int), "ClassType"},
	}
	for _, tt := range tests {
		if tt.got.String() != tt.want {
			t.Errorf("got %s, want %s", tt.got, tt.want)
		}
	}
}

func TestNominalSuperTypeCtxs(t *testing.T) {
	mod, _ := newTestModule()
	tests := []struct {
		t    ts.Type
		want []string
	}{
		{ts.Nat, []string{"Nat", "Int", "Float", "Obj"}},
		{ts.Mono{Name: "Ord"}, []string{"Ord", "Eq"}},
		{ts.VEnum(ts.StrVal("a")), []string{"Str", "Obj"}},
	}
	for _, tt := range tests {
		ctxs, ok := mod.GetNominalSuperTypeCtxs(tt.t)
		if !ok || len(ctxs) != len(tt.want) {
			t.Errorf("GetNominalSuperTypeCtxs(%s) = %d ctxs, want %v", tt.t, len(ctxs), tt.want)
			continue
		}
		for i, ctx := range ctxs {
			if ctx.Name() != tt.want[i] {
				t.Errorf("ctx %d of %s = %s, want %s", i, tt.t, ctx.Name(), tt.want[i])
			}
		}
	}
	if _, ok := mod.GetNominalSuperTypeCtxs(ts.Mono{Name: "Missing"}); ok {
		t.Error("an unknown type has no contexts")
	}
}

func TestTraitImplExists(t *testing.T) {
	mod, _ := newTestModule()
	if !mod.TraitImplExists(ts.Nat, ts.Mono{Name: "Ord"}) {
		t.Error("Nat should implement Ord")
	}
	if mod.TraitImplExists(ts.NoneType, ts.Mono{Name: "Ord"}) {
		t.Error("NoneType should not implement Ord")
	}
	mod.RegisterTraitImpl(ts.NoneType, ts.Mono{Name: "Ord"})
	if !mod.TraitImplExists(ts.NoneType, ts.Mono{Name: "Ord"}) {
		t.Error("a registered instance should be found")
	}
}

func TestMethodGroups(t *testing.T) {
	mod, _ := newTestModule()
	intCtx, ok := mod.typeCtx("Int")
	if !ok {
		t.Fatal("Int has a context")
	}
	var found bool
	for _, m := range intCtx.MethodsList() {
		impl, ok := m.Ctx.ImplOf()
		if !ok || ts.QualName(impl) != "Add" {
			continue
		}
		out, ok := m.Ctx.GetConstLocal("Output")
		if !ok || out.String() != "Int" {
			t.Errorf("Int Add Output = %v", out)
		}
		found = true
	}
	if !found {
		t.Error("Int should implement Add")
	}

	methods := NewMethods(ImplTraitDef(ts.Str, ts.Mono{Name: "Eq"}), intCtx)
	methods.Assign("__eq__", VarInfo{Type: ts.Bool})
	intCtx.AddMethods(ImplTraitDef(ts.Str, ts.Mono{Name: "Eq"}), methods)
	if got := intCtx.MethodTraits("__eq__"); len(got) != 1 || got[0] != "Eq" {
		t.Errorf("MethodTraits(__eq__) = %v, want [Eq]", got)
	}
}

func TestGetModCtx(t *testing.T) {
	mod, r := newTestModule()
	other := NewModule("/src/other.er", r, nil)
	other.RegisterConst("K", ts.NatVal(7), Public)
	r.modules["/src/other.er"] = other
	mod.RegisterModuleAlias("o", "/src/other.er")
	mod.Grow("f", KindFunc, Private, nil)

	ctx, ok := mod.GetModCtx("o")
	if !ok || ctx != other {
		t.Fatal("GetModCtx(o) should return the other module")
	}
	if v, ok := ctx.GetConstLocal("K"); !ok || v.String() != "7" {
		t.Errorf("o.K = %v, want 7", v)
	}
	if _, ok := mod.GetModCtx("p"); ok {
		t.Error("unknown alias should fail")
	}
}

func TestTyParamIdx(t *testing.T) {
	tv := ts.NamedTyVar("T")
	from := ts.TupleT([]ts.Type{ts.Int, ts.ArrayT(tv, ts.NatTP(2))})
	idx, ok := SearchTyParam(from, tv)
	if !ok || len(idx.Path) != 2 || idx.Path[0] != 1 || idx.Path[1] != 0 {
		t.Fatalf("SearchTyParam = %v, %v; want [1 0]", idx.Path, ok)
	}
	got, ok := idx.Select(ts.TupleT([]ts.Type{ts.Str, ts.ArrayT(ts.Bool, ts.NatTP(2))}))
	if !ok || !ts.EqType(got, ts.Bool) {
		t.Errorf("Select = %v, want Bool", got)
	}
	if _, ok := SearchTyParam(ts.Int, tv); ok {
		t.Error("a mono type has no type arguments")
	}
}
