// Package config loads formbind settings from defaults, a config file, the
// environment and command-line flags, in increasing order of precedence.
package config

// Output formats.
const (
	FormatFlat     = "flat"
	FormatMessages = "messages"
	FormatMirror   = "mirror"

	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// Defaults.
const (
	DefaultFormat       = FormatFlat
	DefaultBinder       = "rhf"
	DefaultOutput       = OutputJSON
	DefaultConcurrency  = 4
	DefaultContextLines = 1
	EnvPrefix           = "FORMBIND"
)

// Config holds the merged settings shared by all commands.
type Config struct {
	Format       string `mapstructure:"format"`
	Binder       string `mapstructure:"binder"`
	Output       string `mapstructure:"output"`
	ThrowOnError bool   `mapstructure:"throw-on-error"`
	Concurrency  int    `mapstructure:"concurrency"`
	Schema       string `mapstructure:"schema"`
	ContextLines int    `mapstructure:"context-lines"`
	Verbose      bool   `mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Format:       DefaultFormat,
		Binder:       DefaultBinder,
		Output:       DefaultOutput,
		Concurrency:  DefaultConcurrency,
		ContextLines: DefaultContextLines,
	}
}
