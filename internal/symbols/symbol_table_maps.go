package symbols

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/funvibe/tycore/internal/typesystem"
)

// varTable keeps VarInfo entries in insertion order so Dir and
// suggestions are deterministic.
type varTable struct {
	m *linkedhashmap.Map
}

func newVarTable() varTable { return varTable{m: linkedhashmap.New()} }

func (t varTable) get(name string) (VarInfo, bool) {
	v, ok := t.m.Get(name)
	if !ok {
		return VarInfo{}, false
	}
	return v.(VarInfo), true
}

func (t varTable) put(name string, vi VarInfo) { t.m.Put(name, vi) }
func (t varTable) remove(name string)          { t.m.Remove(name) }
func (t varTable) len() int                    { return t.m.Size() }

func (t varTable) each(fn func(name string, vi VarInfo)) {
	it := t.m.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(VarInfo))
	}
}

func (t varTable) names() []string {
	keys := t.m.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// constTable maps constant names to their compile-time values.
type constTable struct {
	m *linkedhashmap.Map
}

func newConstTable() constTable { return constTable{m: linkedhashmap.New()} }

func (t constTable) get(name string) (typesystem.Value, bool) {
	v, ok := t.m.Get(name)
	if !ok {
		return nil, false
	}
	return v.(typesystem.Value), true
}

func (t constTable) put(name string, v typesystem.Value) { t.m.Put(name, v) }
func (t constTable) len() int                            { return t.m.Size() }

func (t constTable) each(fn func(name string, v typesystem.Value)) {
	it := t.m.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(typesystem.Value))
	}
}
