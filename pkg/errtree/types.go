package errtree

import "strconv"

// Leaf is one recorded rule violation.
type Leaf struct {
	Kind    string         `json:"kind" yaml:"kind"`
	Message string         `json:"message" yaml:"message"`
	Context map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
}

// Array is an array field carrying both array-level violations (Direct) and
// per-element errors (Items). Direct holds raw nodes, usually Leaf values.
type Array struct {
	Direct []any
	Items  map[int]any
}

// Variant is the structural kind of an error tree node.
type Variant int

const (
	// VariantOpaque is any shape that carries no recognizable errors.
	VariantOpaque Variant = iota
	// VariantEmpty is an absent node or an empty sequence without items.
	VariantEmpty
	VariantLeaf
	VariantLeafGroup
	VariantFieldMap
	VariantIndexedItems
	VariantArrayHybrid
	VariantObjectWrapper
)

var variantNames = [...]string{
	VariantOpaque:        "opaque",
	VariantEmpty:         "empty",
	VariantLeaf:          "leaf",
	VariantLeafGroup:     "leaf-group",
	VariantFieldMap:      "field-map",
	VariantIndexedItems:  "indexed-items",
	VariantArrayHybrid:   "array-hybrid",
	VariantObjectWrapper: "object-wrapper",
}

func (v Variant) String() string {
	if v >= 0 && int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "Variant(" + strconv.Itoa(int(v)) + ")"
}

// Field is one entry of a field map.
type Field struct {
	Name  string
	Value any
}

// Item is one entry of an indexed items mapping.
type Item struct {
	Index int
	Value any
}

// Node is a classified error tree node. Only the payload matching Variant is set:
//
//   - Leaf, LeafGroup: Leaves (Leaves[0] is the one surfaced)
//   - FieldMap: Fields, sorted by name
//   - IndexedItems: Items, sorted by index
//   - ArrayHybrid: Elements and, when a side-channel exists, Items
//   - ObjectWrapper: Inner, the wrapped field map
type Node struct {
	Variant  Variant
	Leaves   []Leaf
	Fields   []Field
	Items    []Item
	Elements []any
	Inner    any
}

// FieldError is the flattened record emitted for one invalid field.
type FieldError struct {
	Kind    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}
