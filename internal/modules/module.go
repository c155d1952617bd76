package modules

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/symbols"
	"github.com/funvibe/tycore/internal/utils"
)

// ModID identifies a cached module. Ids are never reused within a cache.
type ModID uint64

const (
	BuiltinsID ModID = config.BuiltinsModID
	MainID     ModID = config.MainModID
)

// NormalizedPath is a module cache key. Build it with Normalize.
type NormalizedPath string

// Normalize makes path absolute and clean. The builtins sentinel and other
// <...> paths are kept as they are.
func Normalize(path string) NormalizedPath {
	return NormalizedPath(utils.NormalizePath(path))
}

// ModuleEntry is one compiled module. Unit is whatever the compiler
// produced for it and may be nil.
type ModuleEntry struct {
	ID   ModID
	Unit any
	Ctx  *symbols.Context
}

func (e ModuleEntry) String() string {
	name := "<nil>"
	if e.Ctx != nil {
		name = e.Ctx.Name()
	}
	return fmt.Sprintf("ModuleEntry(id = %d, ctx = %s)", e.ID, name)
}

// PathEntry pairs an entry with its key, as returned by Iter.
type PathEntry struct {
	Path  NormalizedPath
	Entry ModuleEntry
}

// ModuleCache maps normalized paths to compiled modules. It is not safe
// for concurrent use; see SharedCache.
type ModuleCache struct {
	entries map[NormalizedPath]*ModuleEntry
	lastID  ModID
	session uuid.UUID
	log     *slog.Logger
}

func NewModuleCache(cfg *config.Config, logger *slog.Logger) *ModuleCache {
	capacity := config.DefaultConfig().CacheCapacity
	if cfg != nil && cfg.CacheCapacity > 0 {
		capacity = cfg.CacheCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ModuleCache{
		entries: make(map[NormalizedPath]*ModuleEntry, capacity),
		lastID:  BuiltinsID,
		session: uuid.New(),
		log:     logger,
	}
}

// Session is the id of the current compilation session.
func (mc *ModuleCache) Session() uuid.UUID { return mc.session }

// Register stores a module under path with a fresh id, replacing any
// previous entry. The builtins sentinel always gets BuiltinsID, also when
// registered again; other paths keep drawing increasing ids.
func (mc *ModuleCache) Register(path string, unit any, ctx *symbols.Context) ModID {
	key := Normalize(path)
	id := BuiltinsID
	if string(key) != config.BuiltinsPath {
		mc.lastID++
		id = mc.lastID
	}
	mc.entries[key] = &ModuleEntry{ID: id, Unit: unit, Ctx: ctx}
	mc.log.Debug("register module", "path", string(key), "id", id, "session", mc.session.String())
	return id
}

// RegisterBuiltins stores the builtins module under the reserved path.
func (mc *ModuleCache) RegisterBuiltins(ctx *symbols.Context) {
	mc.Register(config.BuiltinsPath, nil, ctx)
}

func (mc *ModuleCache) Get(path string) (ModuleEntry, bool) {
	e, ok := mc.entries[Normalize(path)]
	if !ok {
		return ModuleEntry{}, false
	}
	return *e, true
}

// Update runs fn on the stored entry in place. The id cannot be changed.
func (mc *ModuleCache) Update(path string, fn func(e *ModuleEntry)) bool {
	e, ok := mc.entries[Normalize(path)]
	if !ok {
		return false
	}
	id := e.ID
	fn(e)
	e.ID = id
	return true
}

func (mc *ModuleCache) GetCtx(path string) (*symbols.Context, bool) {
	e, ok := mc.entries[Normalize(path)]
	if !ok || e.Ctx == nil {
		return nil, false
	}
	return e.Ctx, true
}

// RefCtx lends the context registered at path to fn.
func (mc *ModuleCache) RefCtx(path string, fn func(ctx *symbols.Context)) bool {
	ctx, ok := mc.GetCtx(path)
	if !ok {
		return false
	}
	fn(ctx)
	return true
}

func (mc *ModuleCache) Remove(path string) (ModuleEntry, bool) {
	key := Normalize(path)
	e, ok := mc.entries[key]
	if !ok {
		return ModuleEntry{}, false
	}
	delete(mc.entries, key)
	mc.log.Debug("remove module", "path", string(key), "id", e.ID, "session", mc.session.String())
	return *e, true
}

// RemoveByID scans for the entry with id and removes it.
func (mc *ModuleCache) RemoveByID(id ModID) (ModuleEntry, bool) {
	for key, e := range mc.entries {
		if e.ID == id {
			return mc.Remove(string(key))
		}
	}
	return ModuleEntry{}, false
}

// RenamePath moves an entry to a new path, keeping its id and contents.
func (mc *ModuleCache) RenamePath(oldPath, newPath string) bool {
	from, to := Normalize(oldPath), Normalize(newPath)
	e, ok := mc.entries[from]
	if !ok {
		return false
	}
	delete(mc.entries, from)
	mc.entries[to] = e
	mc.log.Debug("rename module", "from", string(from), "to", string(to), "id", e.ID, "session", mc.session.String())
	return true
}

// GetSimilarName suggests the cached module whose name is closest to name.
func (mc *ModuleCache) GetSimilarName(name string) (string, bool) {
	names := make([]string, 0, len(mc.entries))
	for _, pe := range mc.Iter() {
		if string(pe.Path) == config.BuiltinsPath {
			continue
		}
		names = append(names, utils.ExtractModuleName(string(pe.Path)))
	}
	return utils.SimilarName(names, name, config.SimilarNameDistance)
}

// Initialize starts a new session. Only the builtins entry survives.
func (mc *ModuleCache) Initialize() {
	builtins, ok := mc.entries[config.BuiltinsPath]
	mc.entries = make(map[NormalizedPath]*ModuleEntry, len(mc.entries))
	if ok {
		mc.entries[config.BuiltinsPath] = builtins
	}
	mc.session = uuid.New()
	mc.log.Debug("initialize module cache", "session", mc.session.String(), "builtins", ok)
}

func (mc *ModuleCache) Len() int      { return len(mc.entries) }
func (mc *ModuleCache) IsEmpty() bool { return len(mc.entries) == 0 }

// Iter returns a snapshot of the entries ordered by id.
func (mc *ModuleCache) Iter() []PathEntry {
	out := make([]PathEntry, 0, len(mc.entries))
	for key, e := range mc.entries {
		out = append(out, PathEntry{Path: key, Entry: *e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entry.ID < out[j].Entry.ID })
	return out
}

func (mc *ModuleCache) String() string {
	var sb strings.Builder
	sb.WriteString("ModuleCache {")
	for i, pe := range mc.Iter() {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, " %s: %s", pe.Path, pe.Entry)
	}
	sb.WriteString(" }")
	return sb.String()
}

// BuiltinsCtx and ModuleCtx let contexts resolve through the cache.
func (mc *ModuleCache) BuiltinsCtx() (*symbols.Context, bool) {
	return mc.GetCtx(config.BuiltinsPath)
}

func (mc *ModuleCache) ModuleCtx(path string) (*symbols.Context, bool) {
	return mc.GetCtx(path)
}
