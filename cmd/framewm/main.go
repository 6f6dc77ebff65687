// Command framewm is a reparenting X11 window manager.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "framewm",
	Short:        "framewm - a minimal reparenting window manager for X11",
	Args:         cobra.NoArgs,
	RunE:         runManager,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("display", "d", "", "X display to manage (default: $DISPLAY or config display)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default: $XDG_CONFIG_HOME/framewm/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "enable verbose console output")

	rootCmd.AddCommand(runCmd, statusCmd, clientsCmd, closeCmd, reloadCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
