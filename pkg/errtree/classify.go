package errtree

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Classify inspects the shape of a raw error tree node once and returns the
// tagged node. Unrecognized shapes classify as VariantOpaque and never fail.
//
// Accepted raw shapes are nil, Leaf, *Leaf, []Leaf, Array, *Array, []any,
// map[string]any, map[any]any and map[int]any. Other map and slice types
// built in Go (map[string][]Leaf, map[int]*Array, []map[string]any, ...)
// are converted to those shapes one level at a time. Sequences follow a fixed
// precedence: empty without items, leading leaf, single wrapped field map,
// then hybrid.
func Classify(raw any) Node {
	switch v := raw.(type) {
	case nil:
		return Node{Variant: VariantEmpty}
	case Leaf:
		return classifyLeaf(v)
	case *Leaf:
		if v == nil {
			return Node{Variant: VariantEmpty}
		}
		return classifyLeaf(*v)
	case []Leaf:
		elems := make([]any, len(v))
		for i, l := range v {
			elems[i] = l
		}
		return classifySequence(elems, nil)
	case Array:
		return classifySequence(v.Direct, v.Items)
	case *Array:
		if v == nil {
			return Node{Variant: VariantEmpty}
		}
		return classifySequence(v.Direct, v.Items)
	case []any:
		return classifySequence(v, nil)
	case map[int]any:
		return Node{Variant: VariantIndexedItems, Items: sortedItems(v)}
	case map[string]any:
		return classifyMapping(v)
	case map[any]any:
		return classifyMapping(stringKeys(v))
	default:
		if g, ok := generic(raw); ok {
			return Classify(g)
		}
		return Node{Variant: VariantOpaque}
	}
}

// generic rewrites a typed map or slice as map[string]any, map[int]any or
// []any. Element values are left untouched.
func generic(raw any) (any, bool) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Map:
		switch rv.Type().Key().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out := make(map[int]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[int(iter.Key().Int())] = iter.Value().Interface()
			}
			return out, true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out := make(map[int]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[int(iter.Key().Uint())] = iter.Value().Interface()
			}
			return out, true
		default:
			out := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				key := iter.Key()
				if key.Kind() == reflect.String {
					out[key.String()] = iter.Value().Interface()
				} else {
					out[fmt.Sprint(key.Interface())] = iter.Value().Interface()
				}
			}
			return out, true
		}
	case reflect.Slice, reflect.Array:
		// byte slices are payloads, not sequences of errors
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

func classifyLeaf(l Leaf) Node {
	if l.Kind == "" || l.Message == "" {
		return Node{Variant: VariantOpaque}
	}
	return Node{Variant: VariantLeaf, Leaves: []Leaf{l}}
}

func classifyMapping(m map[string]any) Node {
	if l, ok := leafFromMap(m); ok {
		return Node{Variant: VariantLeaf, Leaves: []Leaf{l}}
	}
	if len(m) > 0 && allIndexKeys(m) {
		items := make(map[int]any, len(m))
		for k, v := range m {
			idx, _ := strconv.Atoi(k)
			items[idx] = v
		}
		return Node{Variant: VariantIndexedItems, Items: sortedItems(items)}
	}

	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Value: m[name]}
	}
	return Node{Variant: VariantFieldMap, Fields: fields}
}

func classifySequence(elems []any, items map[int]any) Node {
	if len(elems) == 0 {
		if len(items) == 0 {
			return Node{Variant: VariantEmpty}
		}
		return Node{Variant: VariantArrayHybrid, Items: sortedItems(items)}
	}

	if first, ok := asLeaf(elems[0]); ok {
		leaves := []Leaf{first}
		for _, e := range elems[1:] {
			if l, ok := asLeaf(e); ok {
				leaves = append(leaves, l)
			}
		}
		// Array-level violations win over any per-element side-channel.
		return Node{Variant: VariantLeafGroup, Leaves: leaves}
	}

	if len(elems) == 1 && isPlainMapping(elems[0]) {
		return Node{Variant: VariantObjectWrapper, Inner: elems[0]}
	}

	return Node{Variant: VariantArrayHybrid, Elements: elems, Items: sortedItems(items)}
}

// asLeaf reports whether raw is a complete leaf, in typed or mapping form.
func asLeaf(raw any) (Leaf, bool) {
	switch v := raw.(type) {
	case Leaf:
		return v, v.Kind != "" && v.Message != ""
	case *Leaf:
		if v == nil {
			return Leaf{}, false
		}
		return *v, v.Kind != "" && v.Message != ""
	case map[string]any:
		return leafFromMap(v)
	case map[any]any:
		return leafFromMap(stringKeys(v))
	}
	if g, ok := generic(raw); ok {
		if m, ok := g.(map[string]any); ok {
			return leafFromMap(m)
		}
	}
	return Leaf{}, false
}

// leafFromMap reads kind (or the engine's "rule" alias) and message.
func leafFromMap(m map[string]any) (Leaf, bool) {
	kind := kindOf(m)
	message, _ := m["message"].(string)
	if kind == "" || message == "" {
		return Leaf{}, false
	}
	l := Leaf{Kind: kind, Message: message}
	if ctx, ok := m["context"].(map[string]any); ok {
		l.Context = ctx
	}
	return l, true
}

func kindOf(m map[string]any) string {
	if kind, ok := m["kind"].(string); ok && kind != "" {
		return kind
	}
	rule, _ := m["rule"].(string)
	return rule
}

// isPlainMapping reports whether raw is a mapping without a kind.
func isPlainMapping(raw any) bool {
	switch v := raw.(type) {
	case map[string]any:
		return kindOf(v) == ""
	case map[any]any:
		return kindOf(stringKeys(v)) == ""
	case map[int]any:
		return true
	}
	if g, ok := generic(raw); ok {
		if _, isSeq := g.([]any); !isSeq {
			return isPlainMapping(g)
		}
	}
	return false
}

func allIndexKeys(m map[string]any) bool {
	for k := range m {
		if !isIndex(k) {
			return false
		}
	}
	return true
}

// isIndex reports whether s is a base-10 non-negative integer without
// leading zeros.
func isIndex(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func sortedItems(m map[int]any) []Item {
	if len(m) == 0 {
		return nil
	}
	items := make([]Item, 0, len(m))
	for idx, v := range m {
		if idx < 0 {
			continue
		}
		items = append(items, Item{Index: idx, Value: v})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })
	return items
}

func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}
	return out
}
