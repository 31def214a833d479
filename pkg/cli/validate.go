package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/formajs/formbind/internal/mapper"
	"github.com/formajs/formbind/pkg/binder"
	"github.com/formajs/formbind/pkg/config"
	"github.com/formajs/formbind/pkg/console"
	"github.com/formajs/formbind/pkg/constants"
	"github.com/formajs/formbind/pkg/errtree"
	"github.com/formajs/formbind/pkg/schema"
)

// ValidateOptions configures a validation run over one or more data files.
type ValidateOptions struct {
	SchemaPath string
	Files      []string
	Config     config.Config
	Stdout     io.Writer
	Stderr     io.Writer
}

// FileResult is the outcome of validating one data file.
type FileResult struct {
	Index       int
	Path        string
	Valid       bool
	Output      any // binder output, or the error object of a raised ValidationError
	Diagnostics []console.Diagnostic
	Err         error
}

// ErrValidationFailed is returned when at least one file did not validate.
var ErrValidationFailed = errors.New("validation failed")

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <data-file>...",
		Short: "Validate data files against a JSON schema and print form errors",
		Long: `Validate JSON or YAML data files against a JSON schema. Each failed
validation is routed through the selected binder so the output has the exact
shape the form library expects, and every field error is located in the data
file and reported with its source line.

Binders: ` + fmt.Sprint(binder.Names()) + `

Examples:
  ` + constants.CLIExtensionPrefix + ` validate -s signup.schema.json signup.yaml
  ` + constants.CLIExtensionPrefix + ` validate -s signup.schema.json -b formik forms/*.yaml
  ` + constants.CLIExtensionPrefix + ` validate -s signup.schema.json -o table forms/*.json
  ` + constants.CLIExtensionPrefix + ` validate -s signup.schema.json -j 8 forms/*.yaml
  ` + constants.CLIExtensionPrefix + ` validate -s signup.schema.json --watch signup.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Schema == "" {
				return fmt.Errorf("a schema is required: pass --schema or set schema in the config file")
			}

			opts := ValidateOptions{
				SchemaPath: cfg.Schema,
				Files:      args,
				Config:     cfg,
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			}

			watch, _ := cmd.Flags().GetBool("watch")
			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return WatchAndValidate(ctx, opts)
			}
			return ValidateFiles(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringP("schema", "s", "", "JSON or YAML schema file to validate against")
	cmd.Flags().StringP("binder", "b", config.DefaultBinder, "Binder shaping the output")
	cmd.Flags().Bool("throw-on-error", false, "Raise failures as ValidationError (formik)")
	cmd.Flags().IntP("concurrency", "j", config.DefaultConcurrency, "Number of files validated in parallel")
	cmd.Flags().BoolP("watch", "w", false, "Watch the schema and data files and re-validate on change")

	return cmd
}

// ValidateFiles validates every file in opts and reports the results.
// It returns ErrValidationFailed when any file is invalid.
func ValidateFiles(ctx context.Context, opts ValidateOptions) error {
	s, err := schema.CompileFile(opts.SchemaPath)
	if err != nil {
		return err
	}
	kind, err := binder.Lookup(opts.Config.Binder)
	if err != nil {
		return err
	}

	if opts.Config.Verbose {
		fmt.Fprintln(opts.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Validating %d files against %s with the %s binder", len(opts.Files), s.Name(), kind.Name)))
	}

	results := validateConcurrent(ctx, s, kind, opts)
	return reportResults(results, opts)
}

func validateConcurrent(ctx context.Context, s *schema.Schema, kind binder.Kind, opts ValidateOptions) []FileResult {
	spinner := console.NewSpinner("Validating")
	spinner.SetTotal(len(opts.Files))
	spinner.Start()
	defer spinner.Stop()

	p := pool.NewWithResults[FileResult]().WithMaxGoroutines(max(opts.Config.Concurrency, 1))
	for i, path := range opts.Files {
		p.Go(func() FileResult {
			defer spinner.Advance()
			result := validateFile(ctx, s, kind, opts.Config, path)
			result.Index = i
			return result
		})
	}

	results := p.Wait()
	sort.Slice(results, func(a, b int) bool { return results[a].Index < results[b].Index })
	return results
}

func validateFile(ctx context.Context, s *schema.Schema, kind binder.Kind, cfg config.Config, path string) FileResult {
	result := FileResult{Path: path}

	doc, err := readInput(path)
	if err != nil {
		result.Err = err
		return result
	}
	var data any
	if err := yaml.Unmarshal(doc, &data); err != nil {
		result.Err = fmt.Errorf("failed to parse %s", path)
		line, column, message := mapper.ParseErrorPosition(err)
		result.Diagnostics = []console.Diagnostic{{
			Position: console.Position{File: path, Line: line, Column: column},
			Severity: console.SeverityError,
			Message:  message,
			Context:  console.SourceContext(doc, line, cfg.ContextLines),
		}}
		return result
	}

	// Keep the engine result so diagnostics can be built from the raw tree
	// whatever shape the binder produces.
	var engineResult binder.Result
	recorder := binder.SchemaFunc(func(ctx context.Context, input any) (binder.Result, error) {
		r, err := s.Validate(ctx, input)
		engineResult = r
		return r, err
	})

	bind, err := kind.Bind(recorder, binder.WithThrowOnError(cfg.ThrowOnError))
	if err != nil {
		result.Err = err
		return result
	}

	out, err := bind(ctx, data)
	var verr *binder.ValidationError
	switch {
	case errors.As(err, &verr):
		result.Output = verr.Errors
	case err != nil:
		result.Err = fmt.Errorf("%s: %w", path, err)
		return result
	default:
		result.Output = out
	}

	result.Valid = engineResult.Valid
	if !result.Valid {
		result.Diagnostics = diagnose(path, doc, errtree.Flatten(engineResult.Errors), cfg.ContextLines)
	}
	return result
}

func reportResults(results []FileResult, opts ValidateOptions) error {
	cfg := opts.Config
	failed := 0

	outputs := make(map[string]any, len(results))
	for _, result := range results {
		for _, d := range result.Diagnostics {
			fmt.Fprint(opts.Stderr, console.FormatDiagnostic(d))
		}
		if result.Err != nil {
			failed++
			fmt.Fprintln(opts.Stderr, console.FormatErrorMessage(result.Err.Error()))
			continue
		}
		if !result.Valid {
			failed++
		}

		if cfg.Output == config.OutputTable {
			if !result.Valid {
				fmt.Fprint(opts.Stdout, console.RenderTable(tableFor(result.Path, result.Output)))
			}
			continue
		}
		outputs[result.Path] = result.Output
	}

	if cfg.Output != config.OutputTable {
		var v any = outputs
		if len(opts.Files) == 1 {
			v = outputs[opts.Files[0]]
		}
		if len(outputs) > 0 {
			if err := writeOutput(opts.Stdout, v, cfg.Output); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrValidationFailed, failed, len(results))
	}
	if cfg.Verbose || cfg.Output == config.OutputTable {
		fmt.Fprintln(opts.Stderr, console.FormatSuccessMessage(fmt.Sprintf("%d files valid", len(results))))
	}
	return nil
}

// WatchAndValidate validates once and then again whenever the schema or a
// data file changes, until ctx is cancelled.
func WatchAndValidate(ctx context.Context, opts ValidateOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, path := range append([]string{opts.SchemaPath}, opts.Files...) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	// fsnotify watches directories so editors that replace files on save
	// are still seen
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	fmt.Fprintln(opts.Stderr, console.FormatInfoMessage(fmt.Sprintf("Watching %d files for changes...", len(watched))))
	if opts.Config.Verbose {
		fmt.Fprintln(opts.Stderr, console.FormatVerboseMessage("Press Ctrl+C to stop watching."))
	}

	revalidate := func() {
		if err := ValidateFiles(ctx, opts); err != nil {
			fmt.Fprintln(opts.Stderr, console.FormatWarningMessage(err.Error()))
		}
	}
	revalidate()

	const debounceDelay = 300 * time.Millisecond
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if opts.Config.Verbose {
				fmt.Fprintln(opts.Stderr, console.FormatVerboseMessage("Stopping watch mode..."))
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if _, ok := watched[filepath.Clean(event.Name)]; !ok {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if opts.Config.Verbose {
					fmt.Fprintln(opts.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Detected change: %s (%s)", event.Name, event.Op)))
				}
				debounce = time.After(debounceDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			fmt.Fprintln(opts.Stderr, console.FormatWarningMessage(fmt.Sprintf("Watcher error: %v", err)))

		case <-debounce:
			debounce = nil
			revalidate()
		}
	}
}
