// Package cli provides the command-line interface for MemoryMatch.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memorymatch",
	Short: "MemoryMatch is a card matching game.",
	Long: `MemoryMatch deals pairs of face-down cards. Flip two at a time; ` +
		`matching pairs stay face up, the rest flip back after a short delay.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
