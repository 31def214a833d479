package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/formajs/formbind/pkg/constants"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	ConfigFile  string
	ConfigFiles []string
	Flags       *pflag.FlagSet
}

// LoadResult contains the merged configuration and the file it came from.
type LoadResult struct {
	Config         Config
	ConfigFileUsed string
}

// Load merges defaults, config file, FORMBIND_* environment and flags.
func Load(opts LoadOptions) (LoadResult, error) {
	v := viper.New()
	setDefaults(v)
	configureEnv(v)

	if opts.Flags != nil {
		if err := BindFlags(v, opts.Flags); err != nil {
			return LoadResult{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	configPath, err := resolveConfigFile(opts)
	if err != nil {
		return LoadResult{}, err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return LoadResult{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return LoadResult{}, fmt.Errorf("unmarshal config: %w", err)
	}

	result := LoadResult{Config: cfg, ConfigFileUsed: v.ConfigFileUsed()}
	if err := cfg.Validate(); err != nil {
		return result, err
	}
	return result, nil
}

// BindFlags binds every flag in flags that names a config key. Flags
// unknown to the configuration are left alone.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range keys {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %q: %w", key, err)
		}
	}
	return nil
}

var keys = []string{
	"format",
	"binder",
	"output",
	"throw-on-error",
	"concurrency",
	"schema",
	"context-lines",
	"verbose",
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("format", defaults.Format)
	v.SetDefault("binder", defaults.Binder)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("throw-on-error", defaults.ThrowOnError)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("schema", defaults.Schema)
	v.SetDefault("context-lines", defaults.ContextLines)
	v.SetDefault("verbose", defaults.Verbose)
}

func configureEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
}

func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("config file not found: %s", opts.ConfigFile)
			}
			return "", fmt.Errorf("config file error: %w", err)
		}
		return opts.ConfigFile, nil
	}

	candidates := opts.ConfigFiles
	if candidates == nil {
		candidates = defaultConfigFiles()
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("config file error: %w", err)
		}
		if info.IsDir() {
			continue
		}
		return candidate, nil
	}

	return "", nil
}

func defaultConfigFiles() []string {
	files := []string{"./" + constants.ConfigFileName}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".config", "formbind", "config.yaml"))
	}
	return files
}
