package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"todos-cli/internal/api"
	"todos-cli/internal/logx"
	"todos-cli/internal/todos"
	"todos-cli/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the todo list as a live page in the browser",
		Long: strings.TrimSpace(`
Serve the todo list from a local HTTP server.

The page is server-rendered; actions post back through datastar and every open
tab is kept current over one SSE stream. All tabs share the same list state.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address (web.addr)
todos web --user-id 42

# Pick a port and skip opening the browser
todos web --addr :3336 --open=false
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = strings.TrimSpace(app.cfg.Web.Addr)
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			client, err := api.NewClient(app.cfg.API.URL, app.cfg.API.UserID)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess := todos.NewSession(client, app.cfg.API.UserID)

			srv, err := web.NewServer(web.ServerConfig{
				Addr:    listenAddr,
				Session: sess,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			if sess.UserID() != 0 {
				go func() {
					if err := sess.Load(context.Background()); err != nil {
						logx.L().Warn("initial load failed", "err", err)
					}
				}()
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openURL(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			_ = writeOut(cmd, app, map[string]any{
				"addr":      actualAddr,
				"url":       url,
				"apiURL":    app.cfg.API.URL,
				"userId":    app.cfg.API.UserID,
				"opened":    opened,
				"openError": openErr,
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "todos web running at %s (user=%d)\n", url, app.cfg.API.UserID)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			return hs.Serve(ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default web.addr)")
	cmd.Flags().BoolVar(&open, "open", true, "Open the page in your default browser")
	return cmd
}

func openURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("empty url")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url).Run()
	default:
		return exec.Command("xdg-open", url).Run()
	}
}
