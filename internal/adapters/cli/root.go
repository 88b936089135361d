package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
)

// NewRootCommand creates the root command for the server binary
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "battleship-server",
		Short: "Battleship server - matchmaking, gameplay and live events",
		Long: `Battleship server hosts two-player games: FIFO matchmaking over a
shared lobby queue, auto-placed fleets, turn-based shot resolution and
live event broadcast over WebSocket.

Examples:
  battleship-server serve
  battleship-server serve --config ./configs/config.yaml
  battleship-server migrate --config /etc/battleship/config.yaml`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml in ., ./configs, /etc/battleship)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
