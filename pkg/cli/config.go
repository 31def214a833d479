package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formajs/formbind/pkg/config"
	"github.com/formajs/formbind/pkg/console"
)

// LoadConfig merges the config file, environment and the command's flags.
// The config file comes from --config when the command has that flag.
func LoadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")

	result, err := config.Load(config.LoadOptions{ConfigFile: configFile, Flags: flags})
	if err != nil {
		return config.Config{}, err
	}
	if result.Config.Verbose && result.ConfigFileUsed != "" {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage("Using config file "+console.ToRelativePath(result.ConfigFileUsed)))
	}
	return result.Config, nil
}
