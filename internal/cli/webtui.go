package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"todos-cli/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the terminal UI in a browser tab",
		Long: strings.TrimSpace(`
Serve the terminal UI over a websocket. Every tab gets its own TUI process on
a pseudo-terminal, started with the same --config, --api-url and --user-id.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:       listenAddr,
				APIURL:     app.cfg.API.URL,
				UserID:     app.cfg.API.UserID,
				ConfigPath: app.ConfigPath,
				Theme:      app.cfg.TUI.Theme,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/terminal"

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
				"addr":      ln.Addr().String(),
				"url":       url,
				"opened":    opened,
				"openError": openErr,
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "todos webtui running at %s\n", url)

			hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			return hs.Serve(ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3338", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", true, "Open the terminal in your default browser")
	return cmd
}
