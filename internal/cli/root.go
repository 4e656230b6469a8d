package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"todos-cli/internal/api"
	"todos-cli/internal/config"
	"todos-cli/internal/format"
	"todos-cli/internal/logx"
	"todos-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	APIURL     string
	UserID     int
	PrettyJSON bool
	Format     string
	DebugLog   string

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todos",
		Short:        "Todo list for a remote task collection (TUI, browser, and scripts)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todos --user-id 42

  # Same list in the browser
  todos web --user-id 42

  # Scriptable commands
  todos list --filter active
  todos add "Buy milk"
  todos toggle 17

  # Local reference backend
  todos serve
  todos --api-url http://127.0.0.1:3337 --user-id 1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := format.Normalize(app.Format); err != nil {
			return writeErr(cmd, err)
		}
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return writeErr(cmd, fmt.Errorf("load config: %w", err))
		}
		applyFlagOverrides(app, cfg)
		app.cfg = cfg

		if _, err := logx.OpenFile(cfg.DebugLog); err != nil {
			return writeErr(cmd, fmt.Errorf("open debug log: %w", err))
		}
		logx.L().Debug("command start", "cmd", cmd.CommandPath(), "apiURL", cfg.API.URL, "userID", cfg.API.UserID)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TODOS_CONFIG", ""), "Config file (default: ~/.todos/config.yaml then ./.todos/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Base address of the task collection (overrides api.url)")
	cmd.PersistentFlags().IntVar(&app.UserID, "user-id", 0, "User id that scopes every request (overrides api.user_id)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TODOS_FORMAT", format.JSON), "Output format (json|edn|text)")
	cmd.PersistentFlags().StringVar(&app.DebugLog, "debug-log", "", "Append debug logs to this file (overrides debug_log)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newClearCompletedCmd(app))
	cmd.AddCommand(newToggleAllCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

// Execute runs cmd and then closes the debug log. Cobra skips post-run hooks
// when a command fails, so the close cannot live in one.
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if cerr := logx.Close(); err == nil {
		err = cerr
	}
	return err
}

// applyFlagOverrides lets explicit flags win over files and env.
func applyFlagOverrides(app *App, cfg *config.Config) {
	if v := strings.TrimSpace(app.APIURL); v != "" {
		cfg.API.URL = v
	}
	if app.UserID != 0 {
		cfg.API.UserID = app.UserID
	}
	if v := strings.TrimSpace(app.DebugLog); v != "" {
		cfg.DebugLog = v
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	client, err := api.NewClient(app.cfg.API.URL, app.cfg.API.UserID)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(tui.Options{
		Remote: client,
		UserID: app.cfg.API.UserID,
		Theme:  app.cfg.TUI.Theme,
	})
}

// newClient builds the API client for scripted commands, which cannot do
// anything useful without a user id.
func newClient(app *App) (*api.Client, error) {
	if app.cfg.API.UserID == 0 {
		return nil, errMissingUserID
	}
	return api.NewClient(app.cfg.API.URL, app.cfg.API.UserID)
}

func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid todo id: %q", s)
	}
	return id, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut wraps structured output in a {"data": ...} envelope. Text output
// is written bare.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	f, err := format.Normalize(app.Format)
	if err != nil {
		return err
	}
	if f == format.Text {
		return format.WriteText(cmd.OutOrStdout(), v)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, f, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
