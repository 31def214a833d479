package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/formajs/formbind/pkg/errtree"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

// violation is one leaf error at an instance location.
type violation struct {
	location []string
	leaf     errtree.Leaf
}

// violations collects the leaf causes of a validation error in evaluation
// order. Required and additionalProperties errors are reported on the
// offending property rather than on the enclosing object.
func (s *Schema) violations(root *jsonschema.ValidationError) []violation {
	var out []violation
	var walk func(*jsonschema.ValidationError)
	walk = func(verr *jsonschema.ValidationError) {
		if len(verr.Causes) > 0 {
			for _, cause := range verr.Causes {
				walk(cause)
			}
			return
		}

		loc := verr.InstanceLocation
		switch k := verr.ErrorKind.(type) {
		case *kind.Required:
			for _, name := range k.Missing {
				out = append(out, violation{
					location: childLocation(loc, name),
					leaf: errtree.Leaf{
						Kind:    "required",
						Message: fmt.Sprintf("missing property '%s'", name),
					},
				})
			}
			return
		case *kind.AdditionalProperties:
			for _, name := range k.Properties {
				out = append(out, violation{
					location: childLocation(loc, name),
					leaf: errtree.Leaf{
						Kind:    "additionalProperties",
						Message: fmt.Sprintf("additional property '%s' not allowed", name),
					},
				})
			}
			return
		}

		keywordPath := verr.ErrorKind.KeywordPath()
		out = append(out, violation{
			location: loc,
			leaf: errtree.Leaf{
				Kind:    keyword(keywordPath),
				Message: verr.ErrorKind.LocalizedString(s.printer),
				Context: map[string]any{"keywordPath": strings.Join(keywordPath, "/")},
			},
		})
	}
	walk(root)
	return out
}

func childLocation(loc []string, name string) []string {
	out := make([]string, len(loc), len(loc)+1)
	copy(out, loc)
	return append(out, name)
}

func keyword(path []string) string {
	if len(path) == 0 {
		return "schema"
	}
	return path[0]
}

// treeNode accumulates violations for one instance location.
type treeNode struct {
	array  bool
	leaves []errtree.Leaf
	fields map[string]*treeNode
	items  map[int]*treeNode
}

// buildTree arranges violations into an error tree shaped like instance.
// Arrays become errtree.Array values so that array-level violations and
// per-element errors stay separate.
func buildTree(violations []violation, instance any) any {
	root := &treeNode{}
	for _, v := range violations {
		root.insert(v.location, instance, v.leaf)
	}
	return root.materialize()
}

func (n *treeNode) insert(loc []string, value any, l errtree.Leaf) {
	arr, isArray := value.([]any)
	if isArray {
		n.array = true
	}

	if len(loc) == 0 {
		n.leaves = append(n.leaves, l)
		return
	}

	segment, rest := loc[0], loc[1:]
	if isArray {
		if idx, err := strconv.Atoi(segment); err == nil && idx >= 0 {
			var next any
			if idx < len(arr) {
				next = arr[idx]
			}
			n.item(idx).insert(rest, next, l)
			return
		}
	}

	var next any
	if obj, ok := value.(map[string]any); ok {
		next = obj[segment]
	}
	n.field(segment).insert(rest, next, l)
}

func (n *treeNode) field(name string) *treeNode {
	if n.fields == nil {
		n.fields = make(map[string]*treeNode)
	}
	child, ok := n.fields[name]
	if !ok {
		child = &treeNode{}
		n.fields[name] = child
	}
	return child
}

func (n *treeNode) item(idx int) *treeNode {
	if n.items == nil {
		n.items = make(map[int]*treeNode)
	}
	child, ok := n.items[idx]
	if !ok {
		child = &treeNode{}
		n.items[idx] = child
	}
	return child
}

// materialize returns nil for a node without errors. Object-level
// violations are only kept when no property below the object failed.
func (n *treeNode) materialize() any {
	if n.array {
		arr := &errtree.Array{}
		for _, l := range n.leaves {
			arr.Direct = append(arr.Direct, l)
		}
		for idx, child := range n.items {
			if sub := child.materialize(); sub != nil {
				if arr.Items == nil {
					arr.Items = make(map[int]any)
				}
				arr.Items[idx] = sub
			}
		}
		if len(arr.Direct) == 0 && len(arr.Items) == 0 {
			return nil
		}
		return arr
	}

	if len(n.fields) > 0 {
		out := make(map[string]any, len(n.fields))
		for name, child := range n.fields {
			if sub := child.materialize(); sub != nil {
				out[name] = sub
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	if len(n.leaves) > 0 {
		return append([]errtree.Leaf(nil), n.leaves...)
	}
	return nil
}
