package errtree

import (
	"sort"
	"strconv"
)

// Flatten walks an error tree depth-first and returns one record per invalid
// leaf field, keyed by its dot-joined path. Only the first violation of each
// field is kept. A nil tree yields an empty map.
//
// Field names are used verbatim, so a name containing "." produces a path
// that cannot be split back into its segments.
func Flatten(tree any) map[string]FieldError {
	f := &flattener{out: make(map[string]FieldError)}
	f.walk(tree, "")
	return f.out
}

// Messages is Flatten reduced to the message of each field.
func Messages(tree any) map[string]string {
	flat := Flatten(tree)
	out := make(map[string]string, len(flat))
	for path, fe := range flat {
		out[path] = fe.Message
	}
	return out
}

// Paths returns the keys of a flattened map in sorted order.
func Paths[V any](flat map[string]V) []string {
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// JoinPath appends a segment to a dot path.
func JoinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}

// flattener accumulates the output of a single Flatten call.
type flattener struct {
	out map[string]FieldError
}

func (f *flattener) emit(path string, l Leaf) {
	f.out[path] = FieldError{Kind: l.Kind, Message: l.Message}
}

func (f *flattener) walk(raw any, path string) {
	node := Classify(raw)
	switch node.Variant {
	case VariantLeaf, VariantLeafGroup:
		f.emit(path, node.Leaves[0])

	case VariantFieldMap:
		for _, field := range node.Fields {
			f.walk(field.Value, JoinPath(path, field.Name))
		}

	case VariantObjectWrapper:
		// the wrapper does not consume a segment
		f.walk(node.Inner, path)

	case VariantIndexedItems:
		f.walkItems(node.Items, path)

	case VariantArrayHybrid:
		for i, elem := range node.Elements {
			f.walk(elem, JoinPath(path, strconv.Itoa(i)))
		}
		f.walkItems(node.Items, path)
	}
}

func (f *flattener) walkItems(items []Item, path string) {
	for _, item := range items {
		f.walk(item.Value, JoinPath(path, strconv.Itoa(item.Index)))
	}
}
