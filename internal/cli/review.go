package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/watchdiff/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review <session-id>",
	Short: "Inspect a saved review session",
	Long: `Print the state of a saved review session: per-change decisions,
progress, and optionally the patch of accepted hunks.

Examples:
  watchdiff review 4f0c...                   # show decisions and progress
  watchdiff review 4f0c... -o accepted.patch # write accepted hunks as a patch`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("root", "r", ".", "watched directory the session was saved under")
	reviewCmd.Flags().StringP("output-patch", "o", "", "write accepted hunks as a patch to file")
}

func runReview(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")

	session, err := review.LoadSession(root, args[0])
	if err != nil {
		return err
	}

	stats := session.ReviewStats()
	fmt.Printf("Session %s (started %s)\n", session.ID, session.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%d change(s): %d accepted, %d rejected, %d skipped, %d pending (%.0f%% reviewed)\n\n",
		stats.Total, stats.Accepted, stats.Rejected, stats.Skipped, stats.Pending,
		stats.CompletionPercentage())

	for _, c := range session.Changes {
		fmt.Printf("  %-8s %-10s %s (%d hunks)\n",
			c.OverallAction, c.Event.Kind, c.Event.Path, len(c.Hunks))
	}

	patchPath, _ := cmd.Flags().GetString("output-patch")
	if patchPath != "" {
		patch := session.GeneratePatch()
		if patch == "" {
			fmt.Fprintln(os.Stderr, "No accepted hunks — no patch written.")
			return nil
		}
		if err := os.WriteFile(patchPath, []byte(patch), 0o644); err != nil {
			return fmt.Errorf("writing patch: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Patch written to %s\n", patchPath)
	}

	return nil
}
