package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/watchdiff/internal/review"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved review sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved review sessions",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Export a saved session",
	Long: `Export a saved review session in one of several formats.

Formats:
  text      — human-readable summary (default)
  json      — full session record
  markdown  — report suitable for pasting into a PR or issue`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.PersistentFlags().StringP("root", "r", ".", "watched directory sessions were saved under")
	sessionsShowCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsDeleteCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")

	ids, err := review.ListSessions(root)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No saved sessions.")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")

	session, err := review.LoadSession(root, args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return exportJSON(session)
	case "markdown":
		return exportMarkdown(session)
	default:
		return exportText(session)
	}
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")

	if err := review.DeleteSession(root, args[0]); err != nil {
		return fmt.Errorf("deleting session %s: %w", args[0], err)
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}

func exportJSON(session *review.Session) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(session)
}

func exportText(session *review.Session) error {
	stats := session.ReviewStats()
	fmt.Printf("Session: %s\n", session.ID)
	fmt.Printf("Started: %s\n", session.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Changes: %d (%.0f%% reviewed)\n\n", stats.Total, stats.CompletionPercentage())

	for _, c := range session.Changes {
		fmt.Printf("%s %s\n", c.Event.Kind, c.Event.Path)
		fmt.Printf("  decision: %s\n", c.OverallAction)
		if c.Event.Origin.ToolName != "" {
			fmt.Printf("  origin: %s (%s)\n", c.Event.Origin.Type, c.Event.Origin.ToolName)
		} else {
			fmt.Printf("  origin: %s\n", c.Event.Origin.Type)
		}
		if c.Event.Confidence != nil {
			fmt.Printf("  confidence: %s (%.2f)\n", c.Event.Confidence.Level, c.Event.Confidence.Score)
			for _, reason := range c.Event.Confidence.Reasons {
				fmt.Printf("    - %s\n", reason)
			}
		}
		fmt.Println()
	}
	return nil
}

func exportMarkdown(session *review.Session) error {
	var b strings.Builder
	stats := session.ReviewStats()

	fmt.Fprintf(&b, "# Review session %s\n\n", session.ID)
	fmt.Fprintf(&b, "Started %s. %d change(s), %.0f%% reviewed: %d accepted, %d rejected, %d skipped, %d pending.\n\n",
		session.StartedAt.Format("2006-01-02 15:04"), stats.Total, stats.CompletionPercentage(),
		stats.Accepted, stats.Rejected, stats.Skipped, stats.Pending)

	b.WriteString("| File | Kind | Decision | Origin | Confidence |\n")
	b.WriteString("|------|------|----------|--------|------------|\n")
	for _, c := range session.Changes {
		confidence := "-"
		if c.Event.Confidence != nil {
			confidence = fmt.Sprintf("%s (%.2f)", c.Event.Confidence.Level, c.Event.Confidence.Score)
		}
		origin := c.Event.Origin.Type.String()
		if c.Event.Origin.ToolName != "" {
			origin += " / " + c.Event.Origin.ToolName
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			c.Event.Path, c.Event.Kind, c.OverallAction, origin, confidence)
	}

	if patch := session.GeneratePatch(); patch != "" {
		b.WriteString("\n## Accepted hunks\n\n```diff\n")
		b.WriteString(patch)
		b.WriteString("```\n")
	}

	_, err := os.Stdout.WriteString(b.String())
	return err
}
