package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"livewatch-cli/internal/config"
	"livewatch-cli/internal/format"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

func configPath(app *App) (string, error) {
	if strings.TrimSpace(app.ConfigPath) != "" {
		return app.ConfigPath, nil
	}
	return config.Path()
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file, env and flags applied)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			stateDir, err := app.cfg.ResolveStateDir()
			if err != nil {
				return writeErr(cmd, err)
			}
			c := app.cfg
			return writeOut(cmd, app, format.Envelope{
				Data: map[string]any{
					"api": map[string]any{
						"baseUrl":        c.API.BaseURL,
						"timeout":        c.API.Timeout.String(),
						"rateLimit":      c.API.RateLimit,
						"burst":          c.API.Burst,
						"statusInterval": c.API.StatusInterval.String(),
					},
					"log":      map[string]any{"level": c.Log.Level, "file": c.Log.File},
					"metrics":  map[string]any{"addr": c.Metrics.Addr},
					"output":   map[string]any{"format": c.Output.Format, "pretty": c.Output.Pretty},
					"stateDir": stateDir,
				},
				Meta: map[string]any{"path": path},
			})
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, usageError{msg: path + " already exists (use --force to overwrite)"})
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"path": path, "written": true}})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
