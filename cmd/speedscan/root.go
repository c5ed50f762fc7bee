package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for speedscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speedscan",
		Short: "Find quickly beatable games on speedrun.com",
		Long: `Speedscan searches speedrun.com for games whose Any% world record is
at or below a time limit on a given platform.

A full platform scan walks every game on the platform and checks its
Any% leaderboard, so large platforms take a while. Results stream to
the terminal as they are found.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewPlatformsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
