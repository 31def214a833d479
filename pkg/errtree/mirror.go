package errtree

import "strconv"

// ItemsKey is the key under which per-element messages of an array field
// are surfaced by Mirror.
const ItemsKey = "items"

// Mirror rebuilds the error tree with the shape of the validated values,
// replacing every leaf group with the message of its first violation.
// Branches without errors are omitted. The result is never nil: an empty or
// absent tree yields an empty map.
func Mirror(tree any) any {
	if out := mirror(tree); out != nil {
		return out
	}
	return map[string]any{}
}

func mirror(raw any) any {
	node := Classify(raw)
	switch node.Variant {
	case VariantLeaf, VariantLeafGroup:
		return node.Leaves[0].Message

	case VariantFieldMap:
		out := make(map[string]any, len(node.Fields))
		for _, field := range node.Fields {
			if sub := mirror(field.Value); sub != nil {
				out[field.Name] = sub
			}
		}
		return out

	case VariantObjectWrapper:
		return mirror(node.Inner)

	case VariantIndexedItems:
		if items := mirrorItems(node.Items); items != nil {
			return items
		}
		return nil

	case VariantArrayHybrid:
		if items := mirrorItems(node.Items); items != nil {
			return map[string]any{ItemsKey: items}
		}
		for _, elem := range node.Elements {
			if l, ok := asLeaf(elem); ok {
				return l.Message
			}
		}
		return nil
	}
	return nil
}

// mirrorItems returns nil when no item has anything to report.
func mirrorItems(items []Item) map[string]any {
	out := make(map[string]any, len(items))
	for _, item := range items {
		if sub := mirror(item.Value); sub != nil {
			out[strconv.Itoa(item.Index)] = sub
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
