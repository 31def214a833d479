package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/formajs/formbind/pkg/binder"
	"github.com/formajs/formbind/pkg/config"
	"github.com/formajs/formbind/pkg/console"
	"github.com/formajs/formbind/pkg/errtree"
	"gopkg.in/yaml.v3"
)

// writeOutput renders v to w as JSON, YAML or a table of field errors.
func writeOutput(w io.Writer, v any, output string) error {
	switch output {
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML output: %w", err)
		}
		return enc.Close()

	case config.OutputTable:
		_, err := fmt.Fprint(w, console.RenderTable(tableFor("", v)))
		return err

	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}

// tableFor lays out any binder or transform output as path/type/message rows.
func tableFor(title string, v any) console.TableConfig {
	table := console.TableConfig{
		Title:   title,
		Headers: []string{"Path", "Type", "Message"},
	}

	switch out := v.(type) {
	case binder.ResolverResult:
		return tableFor(title, out.Errors)
	case binder.StoreResult:
		return tableFor(title, out.Errors)
	case map[string]errtree.FieldError:
		for _, path := range errtree.Paths(out) {
			table.Rows = append(table.Rows, []string{displayPath(path), out[path].Kind, out[path].Message})
		}
	case map[string]string:
		for _, path := range errtree.Paths(out) {
			table.Rows = append(table.Rows, []string{displayPath(path), "", out[path]})
		}
	default:
		// mirror output: collapse nested maps back into paths
		messages := map[string]string{}
		collectMessages(v, "", messages)
		for _, path := range errtree.Paths(messages) {
			table.Rows = append(table.Rows, []string{displayPath(path), "", messages[path]})
		}
	}

	table.Footer = []string{fmt.Sprintf("%d errors", len(table.Rows)), "", ""}
	return table
}

func collectMessages(v any, path string, out map[string]string) {
	switch node := v.(type) {
	case string:
		out[path] = node
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectMessages(node[k], errtree.JoinPath(path, k), out)
		}
	}
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
