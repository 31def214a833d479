package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/formajs/formbind/pkg/config"
	"github.com/formajs/formbind/pkg/console"
	"github.com/formajs/formbind/pkg/errtree"
)

// TransformFile decodes the error tree in path ("-" for stdin) and writes
// it to w in the given format: flat {path: {type, message}}, messages
// {path: message} or mirror (nested, string leaves).
func TransformFile(path, format, output string, verbose bool, w io.Writer) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}

	tree, err := errtree.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Root of %s classified as %s", path, errtree.Classify(tree).Variant)))
	}

	out, err := Transform(tree, format)
	if err != nil {
		return err
	}
	return writeOutput(w, out, output)
}

// Transform applies the named transform to a raw error tree.
func Transform(tree any, format string) (any, error) {
	switch format {
	case config.FormatFlat, "":
		return errtree.Flatten(tree), nil
	case config.FormatMessages:
		return errtree.Messages(tree), nil
	case config.FormatMirror:
		return errtree.Mirror(tree), nil
	default:
		return nil, fmt.Errorf("invalid format '%s'. Must be one of: %s, %s, %s", format, config.FormatFlat, config.FormatMessages, config.FormatMirror)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
