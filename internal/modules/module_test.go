package modules

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/symbols"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

func newModule(name string, r symbols.ModuleResolver) *symbols.Context {
	return symbols.NewModule(name, r, nil)
}

func TestRegisterAssignsIncreasingIDs(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	mc.RegisterBuiltins(symbols.NewBuiltins(nil, nil))

	var last ModID
	for i, path := range []string{"main.er", "a.er", "b.er", "a.er"} {
		id := mc.Register(path, nil, newModule(path, mc))
		if id <= last {
			t.Errorf("register %d: id = %d, want > %d", i, id, last)
		}
		last = id
		e, ok := mc.Get(path)
		if !ok || e.ID != id {
			t.Errorf("Get(%s) = %v, %v; want id %d", path, e, ok, id)
		}
	}
	if e, _ := mc.Get(config.BuiltinsPath); e.ID != BuiltinsID {
		t.Errorf("builtins id = %d, want %d", e.ID, BuiltinsID)
	}
	if mc.Len() != 4 {
		t.Errorf("Len() = %d, want 4", mc.Len())
	}
}

func TestBuiltinsKeepReservedID(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	mc.RegisterBuiltins(symbols.NewBuiltins(nil, nil))
	a := mc.Register("a.er", nil, nil)

	replaced := symbols.NewBuiltins(nil, nil)
	mc.RegisterBuiltins(replaced)
	e, ok := mc.Get(config.BuiltinsPath)
	if !ok || e.ID != BuiltinsID || e.Ctx != replaced {
		t.Errorf("re-registered builtins = %v, %v; want id %d and the new context", e, ok, BuiltinsID)
	}
	if b := mc.Register("b.er", nil, nil); b <= a {
		t.Errorf("id after re-registering builtins = %d, want > %d", b, a)
	}
}

func TestSessionBuiltinsPath(t *testing.T) {
	sc := NewSession(nil, nil)
	b, ok := sc.BuiltinsCtx()
	if !ok {
		t.Fatal("NewSession should register builtins")
	}
	if !b.IsBuiltins() || b.Path() != config.BuiltinsPath {
		t.Errorf("builtins Path() = %s, want %s", b.Path(), config.BuiltinsPath)
	}
	if vi, err := newModule("main.er", sc).GetVarInfo("Int"); err != nil {
		t.Errorf("GetVarInfo(Int) through the session: %v (%v)", err, vi)
	}
}

func TestFirstModuleIsMain(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	mc.RegisterBuiltins(symbols.NewBuiltins(nil, nil))
	if id := mc.Register("main.er", nil, nil); id != MainID {
		t.Errorf("first id = %d, want %d", id, MainID)
	}
}

func TestRemoveByID(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	id := mc.Register("lib.er", "unit", nil)
	mc.Register("other.er", nil, nil)

	e, ok := mc.RemoveByID(id)
	if !ok || e.Unit != "unit" {
		t.Fatalf("RemoveByID = %v, %v", e, ok)
	}
	if _, ok := mc.Get("lib.er"); ok {
		t.Error("removed entry is still present")
	}
	if _, ok := mc.RemoveByID(id); ok {
		t.Error("second RemoveByID should fail")
	}
	if mc.Len() != 1 || mc.IsEmpty() {
		t.Errorf("Len() = %d, want 1", mc.Len())
	}
}

func TestRenamePath(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	ctx := newModule("old", mc)
	id := mc.Register("src/old.er", nil, ctx)

	if !mc.RenamePath("src/old.er", "src/new.er") {
		t.Fatal("RenamePath = false")
	}
	if _, ok := mc.Get("src/old.er"); ok {
		t.Error("old path should be absent")
	}
	e, ok := mc.Get("src/new.er")
	if !ok || e.ID != id || e.Ctx != ctx {
		t.Errorf("new path = %v, %v; want id %d and the same context", e, ok, id)
	}
	if mc.RenamePath("src/missing.er", "src/x.er") {
		t.Error("renaming a missing path should fail")
	}
}

func TestNormalize(t *testing.T) {
	abs, _ := filepath.Abs("a/b.er")
	tests := []struct {
		in   string
		want NormalizedPath
	}{
		{"a/b.er", NormalizedPath(abs)},
		{"a/./c/../b.er", NormalizedPath(abs)},
		{config.BuiltinsPath, config.BuiltinsPath},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestInitializeKeepsBuiltins(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	b := symbols.NewBuiltins(nil, nil)
	mc.RegisterBuiltins(b)
	mc.Register("main.er", nil, nil)
	session := mc.Session()

	mc.Initialize()
	if mc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", mc.Len())
	}
	if ctx, ok := mc.BuiltinsCtx(); !ok || ctx != b {
		t.Error("builtins should survive Initialize")
	}
	if mc.Session() == session {
		t.Error("Initialize should start a new session")
	}
	if id := mc.Register("main.er", nil, nil); id <= MainID {
		t.Errorf("id after Initialize = %d, want > %d", id, MainID)
	}
}

func TestUpdateKeepsID(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	id := mc.Register("m.er", nil, nil)
	ok := mc.Update("m.er", func(e *ModuleEntry) {
		e.Unit = 42
		e.ID = 999
	})
	e, _ := mc.Get("m.er")
	if !ok || e.ID != id || e.Unit != 42 {
		t.Errorf("after Update: %v, want id %d and unit 42", e, id)
	}
}

func TestGetSimilarName(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	mc.Register("pkg/math.er", nil, nil)
	mc.Register("pkg/string.er", nil, nil)
	if got, ok := mc.GetSimilarName("maht"); !ok || got != "math" {
		t.Errorf("GetSimilarName(maht) = %q, %v; want math", got, ok)
	}
}

func TestIterOrderedByID(t *testing.T) {
	mc := NewModuleCache(nil, nil)
	mc.Register("c.er", nil, nil)
	mc.Register("a.er", nil, nil)
	mc.RegisterBuiltins(nil)
	entries := mc.Iter()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Entry.ID >= entries[i].Entry.ID {
			t.Errorf("Iter() not ordered: %s", mc)
		}
	}
	if entries[0].Path != config.BuiltinsPath {
		t.Errorf("first entry = %s, want builtins", entries[0].Path)
	}
}

func TestModuleLookupFallsBackToCachedBuiltins(t *testing.T) {
	sc := NewSession(nil, nil)
	mod := newModule(config.MainModuleName, sc)
	sc.Register("main.er", nil, mod)

	vi, err := mod.GetVarInfo("Nat")
	if err != nil || !ts.EqType(vi.Type, ts.ClassType) {
		t.Errorf("GetVarInfo(Nat) = %v, %v", vi.Type, err)
	}
	ctx, ok := sc.GetCtx("main.er")
	if !ok || ctx != mod {
		t.Error("GetCtx should return the registered context")
	}
}

func TestGetOrCompileConcurrent(t *testing.T) {
	sc := NewSession(nil, nil)
	var compiles atomic.Int32
	compile := func(path NormalizedPath) (any, *symbols.Context, error) {
		compiles.Add(1)
		return "bytecode", symbols.NewModule(string(path), nil, nil), nil
	}

	var g errgroup.Group
	ids := make([]ModID, 16)
	for i := range ids {
		i := i
		g.Go(func() error {
			e, err := sc.GetOrCompile("shared.er", compile)
			ids[i] = e.ID
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	if n := compiles.Load(); n != 1 {
		t.Errorf("compiled %d times, want 1", n)
	}
	for _, id := range ids {
		if id != ids[0] {
			t.Errorf("ids differ: %v", ids)
			break
		}
	}
	ctx, _ := sc.GetCtx("shared.er")
	if ctx.Resolver() == nil {
		t.Error("compiled context should resolve through the cache")
	}
}

func TestGetOrCompileError(t *testing.T) {
	sc := NewSharedCache(nil, nil)
	boom := errors.New("boom")
	_, err := sc.GetOrCompile("bad.er", func(NormalizedPath) (any, *symbols.Context, error) {
		return nil, nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if _, ok := sc.Get("bad.er"); ok {
		t.Error("failed compile must not be cached")
	}
}

func TestSharedCacheReadersAndWriters(t *testing.T) {
	sc := NewSession(nil, nil)
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				sc.RefCtx(config.BuiltinsPath, func(ctx *symbols.Context) {
					ctx.LookupVarInfo("Int")
				})
				sc.Len()
			}
			return nil
		})
		g.Go(func() error {
			path := filepath.Join("w", string(rune('a'+i))+".er")
			for j := 0; j < 50; j++ {
				sc.Register(path, nil, nil)
				sc.Remove(path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if sc.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (builtins)", sc.Len())
	}
}
