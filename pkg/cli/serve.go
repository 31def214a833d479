package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/formajs/formbind/pkg/binder"
	"github.com/formajs/formbind/pkg/config"
	"github.com/formajs/formbind/pkg/console"
	"github.com/formajs/formbind/pkg/constants"
	"github.com/formajs/formbind/pkg/schema"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP server exposing the error tree transforms as tools",
		Long: `Run a Model Context Protocol server on stdin/stdout.

Tools:
  flatten   flatten an error tree to {path: {type, message}} or {path: message}
  mirror    rebuild an error tree with string leaves
  validate  validate data against a JSON schema and shape the result with a binder

Examples:
  ` + constants.CLIExtensionPrefix + ` serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if verbose {
				fmt.Fprintln(os.Stderr, console.FormatVerboseMessage("Serving MCP on stdio"))
			}
			if err := NewMCPServer().Run(ctx, mcp.NewStdioTransport()); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}

type transformArgs struct {
	Errors any    `json:"errors" jsonschema:"the error tree produced by a validation engine"`
	Format string `json:"format,omitempty" jsonschema:"flat (default) or messages"`
}

type mirrorArgs struct {
	Errors any `json:"errors" jsonschema:"the error tree produced by a validation engine"`
}

type validateArgs struct {
	Schema       any    `json:"schema" jsonschema:"JSON schema document"`
	Data         any    `json:"data" jsonschema:"values to validate"`
	Binder       string `json:"binder,omitempty" jsonschema:"binder shaping the result (rhf, formik, felte, mantine, tanstack, vee)"`
	ThrowOnError bool   `json:"throwOnError,omitempty" jsonschema:"report failures as a ValidationError (formik)"`
}

// NewMCPServer builds the MCP server with the flatten, mirror and validate tools.
func NewMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: constants.CLIExtensionPrefix, Version: GetVersion()}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "flatten",
		Description: "Flatten a nested validation error tree into dot-path keys. Only the first violation per field is kept.",
	}, func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[transformArgs]) (*mcp.CallToolResultFor[any], error) {
		format := params.Arguments.Format
		if format == config.FormatMirror {
			return nil, fmt.Errorf("use the mirror tool for nested output")
		}
		out, err := Transform(params.Arguments.Errors, format)
		if err != nil {
			return nil, err
		}
		return jsonResult(out)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mirror",
		Description: "Rebuild a validation error tree with the shape of the form values and plain string messages at the leaves.",
	}, func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[mirrorArgs]) (*mcp.CallToolResultFor[any], error) {
		out, err := Transform(params.Arguments.Errors, config.FormatMirror)
		if err != nil {
			return nil, err
		}
		return jsonResult(out)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate form values against a JSON schema and return the errors in the shape a form library binder expects.",
	}, func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[validateArgs]) (*mcp.CallToolResultFor[any], error) {
		out, err := validateValues(ctx, params.Arguments)
		if err != nil {
			return nil, err
		}
		return jsonResult(out)
	})

	return server
}

func validateValues(ctx context.Context, args validateArgs) (any, error) {
	doc, err := json.Marshal(args.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	s, err := schema.Compile("input", doc)
	if err != nil {
		return nil, err
	}

	name := args.Binder
	if name == "" {
		name = config.DefaultBinder
	}
	kind, err := binder.Lookup(name)
	if err != nil {
		return nil, err
	}
	bind, err := kind.Bind(s, binder.WithThrowOnError(args.ThrowOnError))
	if err != nil {
		return nil, err
	}

	out, err := bind(ctx, args.Data)
	var verr *binder.ValidationError
	if errors.As(err, &verr) {
		return map[string]any{"name": verr.Name(), "message": verr.Error(), "errors": verr.Errors}, nil
	}
	return out, err
}

func jsonResult(v any) (*mcp.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
