package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/watchdiff/internal/config"
	"github.com/sprite-ai/watchdiff/internal/event"
	"github.com/sprite-ai/watchdiff/internal/tui"
	"github.com/sprite-ai/watchdiff/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a directory and show live diffs",
	Long: `Watch a directory for file changes and show them live. The default
output is the interactive TUI; --output json or text streams events to
stdout instead, one per line.

Examples:
  watchdiff watch                  # watch the current directory
  watchdiff watch ./src            # watch a subdirectory
  watchdiff watch --output json    # newline-delimited JSON events
  watchdiff watch --engine dmp     # alternate diff engine`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("engine", "", "diff engine: difflib or dmp")
	watchCmd.Flags().Int("debounce", 0, "per-path debounce window in milliseconds")
	watchCmd.Flags().Int("max-events", 0, "maximum events kept in the feed")
	watchCmd.Flags().StringP("output", "o", "tui", "output mode: tui, json, text")
}

// watchRoot resolves the watched directory from args and loads its config,
// applying command-line overrides.
func watchRoot(cmd *cobra.Command, args []string) (string, config.Config, error) {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", config.Config{}, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", config.Config{}, fmt.Errorf("cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", config.Config{}, fmt.Errorf("%s is not a directory", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return "", config.Config{}, err
	}
	if engine, _ := cmd.Flags().GetString("engine"); engine != "" {
		cfg.Watcher.DiffEngine = engine
	}
	if debounce, _ := cmd.Flags().GetInt("debounce"); debounce > 0 {
		cfg.Watcher.EventDebounceMS = debounce
	}
	// Only watch registers max-events; serve shares the rest of the flags.
	if cmd.Flags().Lookup("max-events") != nil {
		if maxEvents, _ := cmd.Flags().GetInt("max-events"); maxEvents > 0 {
			cfg.Watcher.MaxEvents = maxEvents
		}
	}
	return root, cfg, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, cfg, err := watchRoot(cmd, args)
	if err != nil {
		return err
	}

	pipeline, err := watcher.New(root, cfg)
	if err != nil {
		return err
	}
	defer pipeline.Stop()

	initialFiles, err := pipeline.InitialFiles()
	if err != nil {
		return fmt.Errorf("listing watchable files: %w", err)
	}

	pipeline.Start()

	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "json":
		return streamJSON(pipeline.Events())
	case "text":
		return streamText(pipeline.Events())
	default:
		return tui.Run(cfg, root, pipeline.Events(), initialFiles)
	}
}

// streamJSON prints each event as one JSON line until the pipeline stops.
func streamJSON(events <-chan event.FileEvent) error {
	enc := json.NewEncoder(os.Stdout)
	for fe := range events {
		if err := enc.Encode(fe); err != nil {
			return err
		}
	}
	return nil
}

func streamText(events <-chan event.FileEvent) error {
	for fe := range events {
		line := fmt.Sprintf("%s %s %s", fe.Timestamp.Format("15:04:05"), fe.Kind, fe.Path)
		if fe.Kind == event.Moved {
			line = fmt.Sprintf("%s %s %s -> %s", fe.Timestamp.Format("15:04:05"), fe.Kind, fe.MovedFrom, fe.Path)
		}
		if fe.Confidence != nil {
			line += fmt.Sprintf(" [%s %.2f]", fe.Confidence.Level, fe.Confidence.Score)
		}
		if fe.BatchID != "" {
			line += " " + fe.BatchID
		}
		fmt.Println(line)
	}
	return nil
}
