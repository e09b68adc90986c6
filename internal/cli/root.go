// Package cli implements the watchdiff command line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "watchdiff",
	Short: "Watch a directory and review file changes as they happen",
	Long: `watchdiff monitors a directory for file changes in real time, computes
diffs, attributes changes to humans or AI tools, and opens a terminal
interface for reviewing them hunk by hunk.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(watchCmd, reviewCmd, sessionsCmd, serveCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
