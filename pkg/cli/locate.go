package cli

import (
	"fmt"
	"io"

	"github.com/formajs/formbind/internal/mapper"
	"github.com/formajs/formbind/pkg/console"
	"github.com/formajs/formbind/pkg/errtree"
)

// approximateConfidence is the span confidence below which a diagnostic
// carries a hint that its position is a guess.
const approximateConfidence = 0.5

// LocateField prints where the field at path sits in the data document.
// With verbose every candidate span is printed, not only the best one.
func LocateField(dataFile, path, kind string, contextLines int, verbose bool, w io.Writer) error {
	doc, err := readInput(dataFile)
	if err != nil {
		return err
	}

	spans, err := mapper.LocatePath(doc, path, mapper.ErrorMeta{Kind: kind})
	if err != nil {
		return fmt.Errorf("%s: %w", dataFile, err)
	}

	if !verbose {
		spans = spans[:1]
	}
	for _, span := range spans {
		d := console.Diagnostic{
			Position: console.Position{File: dataFile, Line: span.StartLine, Column: span.StartCol},
			Severity: console.SeverityInfo,
			Path:     path,
			Kind:     kind,
			Message:  fmt.Sprintf("%s (confidence %.2f)", span.Reason, span.Confidence),
			Context:  console.SourceContext(doc, span.StartLine, contextLines),
		}
		fmt.Fprint(w, console.FormatDiagnostic(d))
	}
	return nil
}

// diagnose places every flattened field error in the data document it was
// produced from.
func diagnose(file string, doc []byte, flat map[string]errtree.FieldError, contextLines int) []console.Diagnostic {
	diagnostics := make([]console.Diagnostic, 0, len(flat))
	for _, path := range errtree.Paths(flat) {
		fe := flat[path]
		d := console.Diagnostic{
			Position: console.Position{File: file},
			Severity: console.SeverityError,
			Path:     path,
			Kind:     fe.Kind,
			Message:  fe.Message,
		}

		spans, err := mapper.LocatePath(doc, path, mapper.ErrorMeta{Kind: fe.Kind})
		if err == nil && len(spans) > 0 {
			span := spans[0]
			d.Position.Line = span.StartLine
			d.Position.Column = span.StartCol
			d.Context = console.SourceContext(doc, span.StartLine, contextLines)
			if span.Confidence < approximateConfidence {
				d.Hint = "position is approximate: " + span.Reason
			}
		}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}
