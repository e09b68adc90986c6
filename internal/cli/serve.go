package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/watchdiff/internal/api"
	"github.com/sprite-ai/watchdiff/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Watch a directory and serve events over HTTP",
	Long: `Watch a directory and expose the event stream and review state over
HTTP instead of the terminal interface.

Endpoints:
  GET /health        — liveness check
  GET /api/stats     — review progress for the running session
  GET /api/sessions  — saved session ids
  GET /api/ws        — websocket: live events out, review decisions in`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to bind")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
	serveCmd.Flags().String("engine", "", "diff engine: difflib or dmp")
	serveCmd.Flags().Int("debounce", 0, "per-path debounce window in milliseconds")
}

func runServe(cmd *cobra.Command, args []string) error {
	root, cfg, err := watchRoot(cmd, args)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")
	listen := fmt.Sprintf("%s:%d", addr, port)

	pipeline, err := watcher.New(root, cfg)
	if err != nil {
		return err
	}
	defer pipeline.Stop()

	srv := api.New(listen, root)
	go srv.Attach(pipeline.Events())
	pipeline.Start()

	slog.Info("serving", "addr", listen, "root", root)
	return srv.ListenAndServe()
}
