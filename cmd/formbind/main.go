package main

import (
	"fmt"
	"os"

	"github.com/formajs/formbind/pkg/binder"
	"github.com/formajs/formbind/pkg/cli"
	"github.com/formajs/formbind/pkg/config"
	"github.com/formajs/formbind/pkg/console"
	"github.com/formajs/formbind/pkg/constants"
	"github.com/spf13/cobra"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var (
	verbose    bool
	configFile string
)

// validateFormat validates the --format flag value
func validateFormat(format string) error {
	switch format {
	case config.FormatFlat, config.FormatMessages, config.FormatMirror:
		return nil
	}
	return fmt.Errorf("invalid format value '%s'. Must be 'flat', 'messages', or 'mirror'", format)
}

var rootCmd = &cobra.Command{
	Use:   constants.CLIExtensionPrefix,
	Short: "Turn schema validation error trees into form library errors",
	Long: constants.CLIExtensionPrefix + ` reshapes the nested error trees produced by schema validation into the
shapes form libraries consume: flat dot-path maps (react-hook-form, TanStack Form,
VeeValidate) or nested mirrors with string leaves (Formik, Felte, Mantine).

Error trees and data files may be JSON or YAML. Use '-' to read from stdin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var flattenCmd = &cobra.Command{
	Use:   "flatten <errors-file>",
	Short: "Flatten an error tree into dot-path keys",
	Long: `Flatten an error tree into a single-level map keyed by dot-joined field paths.
Only the first violation of each field is kept.

Examples:
  ` + constants.CLIExtensionPrefix + ` flatten errors.json
  ` + constants.CLIExtensionPrefix + ` flatten errors.yaml --format messages
  ` + constants.CLIExtensionPrefix + ` flatten - -o table < errors.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			return err
		}
		if err := validateFormat(cfg.Format); err != nil {
			return err
		}
		return cli.TransformFile(args[0], cfg.Format, cfg.Output, cfg.Verbose, cmd.OutOrStdout())
	},
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror <errors-file>",
	Short: "Rebuild an error tree with string leaves",
	Long: `Rebuild an error tree with the shape of the form values, replacing every
field's violations with the message of the first one. Array element errors
appear under an "items" key.

Examples:
  ` + constants.CLIExtensionPrefix + ` mirror errors.json
  ` + constants.CLIExtensionPrefix + ` mirror errors.json -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.TransformFile(args[0], config.FormatMirror, cfg.Output, cfg.Verbose, cmd.OutOrStdout())
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate <data-file> <path>",
	Short: "Show where a field path sits in a JSON or YAML document",
	Long: `Show the line and column of a flattened field path in a data document.

Examples:
  ` + constants.CLIExtensionPrefix + ` locate signup.yaml users.0.email
  ` + constants.CLIExtensionPrefix + ` locate signup.yaml email --kind required
  ` + constants.CLIExtensionPrefix + ` locate signup.yaml tags.1 -v   # show every candidate`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			return err
		}
		kind, _ := cmd.Flags().GetString("kind")
		return cli.LocateField(args[0], args[1], kind, cfg.ContextLines, cfg.Verbose, cmd.OutOrStdout())
	},
}

var bindersCmd = &cobra.Command{
	Use:   "binders",
	Short: "List the available binders",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, console.FormatListHeader("Binders"))
		for _, name := range binder.Names() {
			kind, _ := binder.Lookup(name)
			fmt.Fprintln(out, console.FormatListItem(fmt.Sprintf("%-9s %-9s %s", kind.Name, kind.Family, kind.Description)))
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.CLIExtensionPrefix, cli.GetVersion())))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing detailed information")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./formbind.yaml or ~/.config/formbind/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutput, "Output format (json, yaml, table)")
	rootCmd.PersistentFlags().Int("context-lines", config.DefaultContextLines, "Source lines shown around each diagnostic")

	flattenCmd.Flags().StringP("format", "f", config.DefaultFormat, "Transform to apply (flat, messages, mirror)")
	locateCmd.Flags().StringP("kind", "k", "", "Schema keyword of the error (type, required, additionalProperties, ...)")

	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(cli.NewValidateCommand())
	rootCmd.AddCommand(cli.NewServeCommand())
	rootCmd.AddCommand(bindersCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	cli.SetVersionInfo(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
