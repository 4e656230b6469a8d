package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"todos-cli/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var dbPath string
	var accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference task collection backed by SQLite",
		Long: strings.TrimSpace(`
Run a local implementation of the remote task collection
(GET/POST /todos, PATCH/DELETE /todos/{id}), persisted in SQLite.

Point the client at it with --api-url http://<addr>.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = strings.TrimSpace(app.cfg.Serve.Addr)
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}
			path := strings.TrimSpace(dbPath)
			if path == "" {
				path = app.cfg.Serve.DB
			}

			st, err := server.OpenStore(cmd.Context(), path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()

			_ = writeOut(cmd, app, map[string]any{
				"addr":      actualAddr,
				"apiURL":    "http://" + actualAddr,
				"db":        path,
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "todos reference API at http://%s (db=%s)\n", actualAddr, path)

			hs := &http.Server{
				Handler:           server.New(st, server.Config{AccessLog: accessLog}).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return hs.Serve(ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (default serve.addr)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default serve.db)")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "Log every request to stdout")
	return cmd
}
