package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/runtimepath"
)

// Flags holds the global command-line flags.
type Flags struct {
	Display    string
	ConfigPath string
	Verbose    bool
}

// flagsFrom reads the persistent flags, checking both local and inherited sets.
func flagsFrom(cmd *cobra.Command) Flags {
	return Flags{
		Display:    stringFlag(cmd, "display"),
		ConfigPath: stringFlag(cmd, "config"),
		Verbose:    boolFlag(cmd, "verbose"),
	}
}

func stringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		val, _ = cmd.InheritedFlags().GetString(name)
	}
	return val
}

func boolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		val, _ = cmd.InheritedFlags().GetBool(name)
	}
	return val
}

// configPath returns the explicit --config value or the default location.
func (f Flags) configPath() (string, error) {
	if f.ConfigPath != "" {
		return config.ExpandHome(f.ConfigPath), nil
	}
	return config.DefaultConfigPath()
}

func (f Flags) load() (*config.LoadResult, string, error) {
	path, err := f.configPath()
	if err != nil {
		return nil, "", err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	return res, path, nil
}

// display picks the flag, then the config file, then lets the X library
// fall back to $DISPLAY.
func (f Flags) display(cfg *config.Config) string {
	if f.Display != "" {
		return f.Display
	}
	if cfg != nil {
		return cfg.Display
	}
	return ""
}

func (f Flags) socketPath(cfg *config.Config) (string, error) {
	return runtimepath.SocketPath(f.display(cfg))
}
