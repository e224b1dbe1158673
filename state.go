package workflow

import "reflect"

// State is the shared key/value store of a run. Values are the usual
// dynamically typed shapes: strings, numbers, bools, lists and nested maps.
type State map[string]any

// Merge copies every key of delta into s, overwriting existing values.
// Keys of s that are absent from delta are left untouched.
func (s State) Merge(delta State) {
	for k, v := range delta {
		s[k] = v
	}
}

// Clone returns a deep copy of s. Nested maps and slices are copied so the
// result can be held while s keeps changing. A map or slice reached more than
// once, including through a cycle, is copied once and the copy is shared the
// same way.
func (s State) Clone() State {
	c := cloner{seen: make(map[refKey]any)}
	return cloneMap(&c, s)
}

// refKey identifies a map or slice already copied during one Clone.
// Slices sharing a backing array are told apart by length.
type refKey struct {
	typ reflect.Type
	ptr uintptr
	n   int
}

type cloner struct {
	seen map[refKey]any
}

func (c *cloner) recall(v reflect.Value) (any, bool) {
	if v.IsNil() || v.Len() == 0 {
		return nil, false
	}
	prev, ok := c.seen[refKey{v.Type(), v.Pointer(), v.Len()}]
	return prev, ok
}

func (c *cloner) remember(v reflect.Value, clone any) {
	if v.IsNil() || v.Len() == 0 {
		return
	}
	c.seen[refKey{v.Type(), v.Pointer(), v.Len()}] = clone
}

func cloneMap[M ~map[string]any](c *cloner, m M) M {
	rv := reflect.ValueOf(m)
	if prev, ok := c.recall(rv); ok {
		return prev.(M)
	}
	out := make(M, len(m))
	c.remember(rv, out)
	for k, v := range m {
		out[k] = c.value(v)
	}
	return out
}

func (c *cloner) value(v any) any {
	switch t := v.(type) {
	case nil, string, bool, int, int64, float64:
		return v
	case State:
		return cloneMap(c, t)
	case map[string]any:
		return cloneMap(c, t)
	case []any:
		rv := reflect.ValueOf(t)
		if prev, ok := c.recall(rv); ok {
			return prev
		}
		l := make([]any, len(t))
		c.remember(rv, l)
		for i, e := range t {
			l[i] = c.value(e)
		}
		return l
	case []string:
		l := make([]string, len(t))
		copy(l, t)
		return l
	}
	return c.dynamic(reflect.ValueOf(v)).Interface()
}

// dynamic handles the typed maps and slices the fast path does not know.
func (c *cloner) dynamic(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		if prev, ok := c.recall(v); ok {
			return reflect.ValueOf(prev)
		}
		m := reflect.MakeMapWithSize(v.Type(), v.Len())
		c.remember(v, m.Interface())
		iter := v.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), c.elem(iter.Value(), v.Type().Elem()))
		}
		return m
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		if prev, ok := c.recall(v); ok {
			return reflect.ValueOf(prev)
		}
		l := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		c.remember(v, l.Interface())
		for i := 0; i < v.Len(); i++ {
			l.Index(i).Set(c.elem(v.Index(i), v.Type().Elem()))
		}
		return l
	}
	return v
}

func (c *cloner) elem(v reflect.Value, typ reflect.Type) reflect.Value {
	if typ.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(typ)
		}
		return reflect.ValueOf(c.value(v.Interface()))
	}
	return c.dynamic(v)
}

// Truthy coerces a state value to a boolean. Missing values, false, numeric
// zero, the empty string and empty lists or maps are false; everything else
// is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
