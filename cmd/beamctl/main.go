// Beamctl drives networked projectors over their HTTP control APIs.
//
// It keeps a shared device list (data.json), discovers projectors on
// the local network, and exposes both one-shot commands (power, source
// selection, feature toggles) and an interactive terminal control
// panel.
//
// Usage:
//
//	beamctl [command] [flags]
//
// Running without arguments launches the control panel.
// See 'beamctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/beamctl/internal/logging"
	"github.com/muurk/beamctl/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "beamctl",
	Short: "Projector control from the terminal",
	Long: `Beamctl drives networked projectors over their HTTP control APIs.

It keeps a shared device list, discovers projectors on the local
network, and offers both one-shot commands and an interactive control
panel.

If no command is specified, the control panel launches.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	RunE: runPanel,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("beamctl %s\n", version.Full())
	},
}
