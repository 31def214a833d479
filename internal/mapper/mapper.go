package mapper

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// LocatePath maps a flattened field path ("user.tags.1") to spans in a YAML
// or JSON document. It returns one or more candidate spans ordered by
// confidence.
func LocatePath(doc []byte, path string, meta ErrorMeta) ([]Span, error) {
	segments := splitPath(path)

	// Parse with goccy/go-yaml to get an AST with positions.
	file, err := parser.ParseBytes(doc, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}

	if len(file.Docs) == 0 || file.Docs[0] == nil || file.Docs[0].Body == nil {
		return []Span{documentFallbackSpan()}, nil
	}
	root := file.Docs[0].Body

	node, parent, keyNode := traverseBySegments(root, segments)

	property := meta.Property
	if property == "" && len(segments) > 0 {
		property = segments[len(segments)-1]
	}

	switch meta.Kind {
	case "type":
		if node != nil {
			if valueSpan, ok := valueNodeSpan(node); ok {
				valueSpan.Reason = "type mismatch: highlighting value"
				return []Span{valueSpan}, nil
			}
			return []Span{nodeSpan(node, 0.9, "type mismatch: highlighting node")}, nil
		}

	case "additionalProperties":
		if keyNode != nil {
			return []Span{nodeSpan(keyNode, 0.98, "additional property key")}, nil
		}
		if keyNode := findKeyInMapping(parent, property); keyNode != nil {
			return []Span{nodeSpan(keyNode, 0.95, "additional property key")}, nil
		}

	case "required":
		// The property is missing, so anchor on the mapping that should hold it.
		if len(segments) > 0 {
			if parentNode, _, _ := traverseBySegments(root, segments[:len(segments)-1]); parentNode != nil {
				return []Span{computeInsertionAnchor(parentNode, property)}, nil
			}
		}
		if parent != nil {
			return []Span{computeInsertionAnchor(parent, property)}, nil
		}

	default:
		if keyNode != nil {
			return []Span{nodeSpan(keyNode, 0.85, "field key")}, nil
		}
		if node != nil {
			return []Span{nodeSpan(node, 0.8, "generic mapping")}, nil
		}
	}

	if candidates := fallbackHeuristics(root, doc, segments, property); len(candidates) > 0 {
		return candidates, nil
	}

	return []Span{documentFallbackSpan()}, nil
}

// traverseBySegments walks the AST using segments. Returns (node, parentNode, keyNode).
// node is the value node for the final segment, parent its enclosing
// mapping or sequence and keyNode the mapping key when the last step went
// through a mapping. The literal "items" segment of an array side-channel is
// skipped when it appears before an index on a sequence.
func traverseBySegments(root ast.Node, segments []string) (ast.Node, ast.Node, ast.Node) {
	current := root
	var parent ast.Node
	var keyNode ast.Node

	for i := 0; i < len(segments); i++ {
		segment := segments[i]
		parent = current
		keyNode = nil

		switch node := current.(type) {
		case *ast.MappingNode:
			value, key := lookupMapping(node.Values, segment)
			if value == nil {
				return nil, parent, nil
			}
			current, keyNode = value, key

		case *ast.MappingValueNode:
			value, key := lookupMapping([]*ast.MappingValueNode{node}, segment)
			if value == nil {
				return nil, parent, nil
			}
			current, keyNode = value, key

		case *ast.SequenceNode:
			if segment == "items" && i+1 < len(segments) && isIndex(segments[i+1]) {
				i++
				segment = segments[i]
			}
			idx := parseIndex(segment)
			if idx < 0 || idx >= len(node.Values) {
				return nil, parent, nil
			}
			current = node.Values[idx]

		default:
			return nil, parent, nil
		}
	}

	return current, parent, keyNode
}

func lookupMapping(values []*ast.MappingValueNode, segment string) (ast.Node, ast.Node) {
	for _, valueNode := range values {
		if keyMatches(valueNode.Key, segment) {
			return valueNode.Value, valueNode.Key
		}
	}
	return nil, nil
}

// keyMatches checks if a mapping key node matches the expected segment string
func keyMatches(keyNode ast.MapKeyNode, segment string) bool {
	switch key := keyNode.(type) {
	case *ast.StringNode:
		return key.Value == segment
	case *ast.MappingKeyNode:
		return key.Value.GetToken().Value == segment
	default:
		if tk := key.GetToken(); tk != nil {
			return tk.Value == segment
		}
		return false
	}
}

// valueNodeSpan tries to map an AST node to a Span that highlights the value token.
func valueNodeSpan(node ast.Node) (Span, bool) {
	if tk := node.GetToken(); tk != nil {
		return tokenToSpan(tk, 0.95, "exact value node"), true
	}
	return Span{}, false
}

// nodeSpan builds a Span from AST node positions with confidence and reason.
func nodeSpan(node ast.Node, conf float64, reason string) Span {
	if tk := node.GetToken(); tk != nil {
		return tokenToSpan(tk, conf, reason)
	}
	return Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1, Confidence: conf * 0.5, Reason: reason + " (no position)"}
}

func tokenToSpan(tk *token.Token, confidence float64, reason string) Span {
	pos := tk.Position
	return Span{
		StartLine:  pos.Line,
		StartCol:   pos.Column,
		EndLine:    pos.Line,
		EndCol:     pos.Column + len(tk.Value),
		Confidence: confidence,
		Reason:     reason,
	}
}

// findKeyInMapping returns the key node for key in a mapping parent.
func findKeyInMapping(parent ast.Node, key string) ast.Node {
	if key == "" {
		return nil
	}
	switch node := parent.(type) {
	case *ast.MappingNode:
		_, keyNode := lookupMapping(node.Values, key)
		return keyNode
	case *ast.MappingValueNode:
		_, keyNode := lookupMapping([]*ast.MappingValueNode{node}, key)
		return keyNode
	}
	return nil
}

// computeInsertionAnchor determines where a missing key would be inserted:
// after the last child of the parent mapping when it has one.
func computeInsertionAnchor(parent ast.Node, propertyName string) Span {
	var values []*ast.MappingValueNode
	switch node := parent.(type) {
	case *ast.MappingNode:
		values = node.Values
	case *ast.MappingValueNode:
		values = []*ast.MappingValueNode{node}
	default:
		return Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1, Confidence: 0.3, Reason: "insertion anchor fallback"}
	}

	if len(values) > 0 {
		last := values[len(values)-1]
		keyTk := last.Key.GetToken()
		valueTk := last.Value.GetToken()
		if keyTk != nil && valueTk != nil {
			return Span{
				StartLine:  valueTk.Position.Line + 1,
				StartCol:   keyTk.Position.Column,
				EndLine:    valueTk.Position.Line + 1,
				EndCol:     keyTk.Position.Column,
				Confidence: 0.75,
				Reason:     fmt.Sprintf("insertion anchor for missing property '%s'", propertyName),
			}
		}
	}

	if tk := parent.GetToken(); tk != nil {
		return Span{
			StartLine:  tk.Position.Line,
			StartCol:   tk.Position.Column + 1,
			EndLine:    tk.Position.Line,
			EndCol:     tk.Position.Column + 1,
			Confidence: 0.7,
			Reason:     fmt.Sprintf("empty mapping insertion anchor for '%s'", propertyName),
		}
	}

	return Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1, Confidence: 0.3, Reason: "insertion anchor fallback"}
}

// fallbackHeuristics looks for the property in the text and for the closest
// existing ancestor of the path.
func fallbackHeuristics(root ast.Node, doc []byte, segments []string, property string) []Span {
	var candidates []Span

	if property != "" && !isIndex(property) {
		candidates = append(candidates, searchPropertyInText(doc, property)...)
	}

	for i := len(segments) - 1; i > 0; i-- {
		if ancestor, _, _ := traverseBySegments(root, segments[:i]); ancestor != nil {
			candidates = append(candidates, nodeSpan(ancestor, 0.4, fmt.Sprintf("parent context for missing segments at depth %d", i)))
			break
		}
	}

	return candidates
}

// searchPropertyInText returns a span for each "property:" key in the text.
func searchPropertyInText(doc []byte, property string) []Span {
	var spans []Span
	for lineNum, line := range strings.Split(string(doc), "\n") {
		trimmed := strings.TrimLeft(line, " \t-{,\"")
		if !strings.HasPrefix(trimmed, property) {
			continue
		}
		rest := strings.TrimLeft(trimmed[len(property):], "\" \t")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		idx := strings.Index(line, property)
		spans = append(spans, Span{
			StartLine:  lineNum + 1,
			StartCol:   idx + 1,
			EndLine:    lineNum + 1,
			EndCol:     idx + len(property) + 1,
			Confidence: 0.6,
			Reason:     fmt.Sprintf("text search match for property '%s'", property),
		})
	}
	return spans
}

// documentFallbackSpan returns a low-confidence span covering the entire document
func documentFallbackSpan() Span {
	return Span{
		StartLine:  1,
		StartCol:   1,
		EndLine:    1,
		EndCol:     1,
		Confidence: 0.2,
		Reason:     "document-level fallback",
	}
}
