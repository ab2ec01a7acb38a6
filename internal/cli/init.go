package cli

import (
	"errors"
	"os"
	"path/filepath"

	"kanban-cli/internal/config"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage and write a default config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}

			cfgPath := filepath.Join(app.Dir, config.FileName)
			wroteConfig := false
			if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
				if err := config.Write(app.Dir, app.cfg); err != nil {
					return writeErr(cmd, err)
				}
				wroteConfig = true
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":         app.Dir,
					"sqlitePath":  s.Path(),
					"configPath":  cfgPath,
					"wroteConfig": wroteConfig,
				},
			})
		},
	}
	return cmd
}
