// Package ordmap provides an insertion-ordered string keyed mapping used to
// carry configuration trees whose key order is part of their contract.
package ordmap

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

type Map struct {
	m *linkedhashmap.Map
}

func New() *Map {
	return &Map{m: linkedhashmap.New()}
}

// Of builds a Map from alternating key/value arguments.
func Of(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("ordmap: Of requires an even number of arguments")
	}
	m := New()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("ordmap: key %v is not a string", kv[i]))
		}
		m.Set(key, kv[i+1])
	}
	return m
}

// Set stores value under key. Overwriting an existing key keeps its position.
func (m *Map) Set(key string, value any) {
	m.m.Put(key, value)
}

func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	return m.m.Get(key)
}

func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Map) Delete(key string) {
	m.m.Remove(key)
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.m.Size()
}

func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.m.Size())
	for _, k := range m.m.Keys() {
		keys = append(keys, k.(string))
	}
	return keys
}

// Each visits entries in insertion order.
func (m *Map) Each(fn func(key string, value any)) {
	if m == nil {
		return
	}
	it := m.m.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value())
	}
}

func (m *Map) GetMap(key string) (*Map, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Map)
	return sub, ok
}

func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *Map) GetBool(key string) (bool, bool) {
	v, ok := m.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Clone returns a deep copy. Nested maps and slices are copied, other values
// are shared.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := New()
	m.Each(func(key string, value any) {
		out.Set(key, CloneValue(value))
	})
	return out
}

func CloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		items := make([]any, len(t))
		for i := range t {
			items[i] = CloneValue(t[i])
		}
		return items
	default:
		return v
	}
}

// Merge returns a copy of base with every entry of over applied on top.
// Only the first level is merged.
func Merge(base, over *Map) *Map {
	out := base.Clone()
	if out == nil {
		out = New()
	}
	over.Each(func(key string, value any) {
		out.Set(key, CloneValue(value))
	})
	return out
}

func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	m.Each(func(key string, value any) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var kb, vb []byte
		if kb, err = json.Marshal(key); err != nil {
			return
		}
		if vb, err = json.Marshal(value); err != nil {
			err = fmt.Errorf("ordmap: key %q: %w", key, err)
			return
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Map) String() string {
	b, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("ordmap<%v>", err)
	}
	return string(b)
}
