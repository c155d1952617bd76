package modules

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/symbols"
)

// CompileFunc produces the unit and context of the module at path.
type CompileFunc func(path NormalizedPath) (unit any, ctx *symbols.Context, err error)

// SharedCache is a ModuleCache safe for concurrent sessions. Readers
// share the lock; register, remove, rename and initialize hold it
// exclusively for the whole change.
type SharedCache struct {
	mu    sync.RWMutex
	cache *ModuleCache
	group singleflight.Group
}

func NewSharedCache(cfg *config.Config, logger *slog.Logger) *SharedCache {
	return &SharedCache{cache: NewModuleCache(cfg, logger)}
}

// NewSession builds a shared cache holding a fresh builtins module.
func NewSession(cfg *config.Config, logger *slog.Logger) *SharedCache {
	sc := NewSharedCache(cfg, logger)
	b := symbols.NewBuiltins(cfg, logger)
	b.SetResolver(sc)
	sc.RegisterBuiltins(b)
	return sc
}

func (sc *SharedCache) Session() uuid.UUID {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.Session()
}

func (sc *SharedCache) Register(path string, unit any, ctx *symbols.Context) ModID {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.cache.Register(path, unit, ctx)
}

func (sc *SharedCache) RegisterBuiltins(ctx *symbols.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.RegisterBuiltins(ctx)
}

func (sc *SharedCache) Get(path string) (ModuleEntry, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.Get(path)
}

func (sc *SharedCache) Update(path string, fn func(e *ModuleEntry)) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.cache.Update(path, fn)
}

func (sc *SharedCache) GetCtx(path string) (*symbols.Context, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.GetCtx(path)
}

// RefCtx holds the read lock while fn runs.
func (sc *SharedCache) RefCtx(path string, fn func(ctx *symbols.Context)) bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.RefCtx(path, fn)
}

func (sc *SharedCache) Remove(path string) (ModuleEntry, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.cache.Remove(path)
}

func (sc *SharedCache) RemoveByID(id ModID) (ModuleEntry, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.cache.RemoveByID(id)
}

func (sc *SharedCache) RenamePath(oldPath, newPath string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.cache.RenamePath(oldPath, newPath)
}

func (sc *SharedCache) GetSimilarName(name string) (string, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.GetSimilarName(name)
}

func (sc *SharedCache) Initialize() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.Initialize()
}

func (sc *SharedCache) Len() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.Len()
}

func (sc *SharedCache) IsEmpty() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.IsEmpty()
}

func (sc *SharedCache) Iter() []PathEntry {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.Iter()
}

func (sc *SharedCache) String() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cache.String()
}

func (sc *SharedCache) BuiltinsCtx() (*symbols.Context, bool) {
	return sc.GetCtx(config.BuiltinsPath)
}

func (sc *SharedCache) ModuleCtx(path string) (*symbols.Context, bool) {
	return sc.GetCtx(path)
}

// GetOrCompile returns the cached module at path, compiling it first if
// needed. Concurrent callers asking for the same path share one compile.
// compile runs without the lock held, so it may consult the cache.
func (sc *SharedCache) GetOrCompile(path string, compile CompileFunc) (ModuleEntry, error) {
	key := Normalize(path)
	if e, ok := sc.Get(string(key)); ok {
		return e, nil
	}
	v, err, shared := sc.group.Do(string(key), func() (interface{}, error) {
		if e, ok := sc.Get(string(key)); ok {
			return e, nil
		}
		unit, ctx, err := compile(key)
		if err != nil {
			return nil, fmt.Errorf("compiling %s: %w", key, err)
		}
		if ctx != nil && ctx.Resolver() == nil {
			ctx.SetResolver(sc)
		}
		sc.Register(string(key), unit, ctx)
		e, _ := sc.Get(string(key))
		return e, nil
	})
	if err != nil {
		return ModuleEntry{}, err
	}
	if shared {
		sc.cache.log.Debug("shared module compile", "path", string(key))
	}
	return v.(ModuleEntry), nil
}

var (
	_ symbols.ModuleResolver = (*ModuleCache)(nil)
	_ symbols.ModuleResolver = (*SharedCache)(nil)
)
