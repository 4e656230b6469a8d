package cli

import (
	"errors"
	"os"
	"strings"

	"todos-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, *app.cfg)
		},
	}
	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var global bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigPath()
			if global {
				path = config.GlobalConfigPath()
			}
			if strings.TrimSpace(path) == "" {
				return writeErr(cmd, errors.New("config: cannot resolve config path"))
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, errors.New("config: "+path+" already exists (use --force to overwrite)"))
			}
			if err := config.WriteDefault(path); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"path": path})
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Write ~/.todos/config.yaml instead of ./.todos/config.yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
