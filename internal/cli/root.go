package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"kanban-cli/internal/config"
	"kanban-cli/internal/format"
	"kanban-cli/internal/logging"
	"kanban-cli/internal/store"
	"kanban-cli/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg      config.Config
	log      *logrus.Logger
	closeLog func() error
	st       *store.Store
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "kanban",
		Short:        "Local kanban boards (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  kanban

  # Scriptable commands
  kanban boards create --title "Work"
  kanban items move item-... --list list-... --to 0

  # Direct item lookup (shortcut for: kanban items show <item-id>)
  kanban item-3f2a...
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
		return app.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.teardown()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("KANBAN_DIR", ""), "Path to the data dir (default: nearest .kanban/ walking up from the working directory)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("KANBAN_FORMAT", "json"), "Output format (json)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error); overrides KANBAN_LOG_LEVEL and config.toml")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newBoardsCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newPublishCmd(app))

	return cmd
}

// setup resolves the data dir, loads config.toml and opens the log file. The
// store itself is opened lazily by commands that need it.
func (app *App) setup() error {
	if app.Dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return err
		}
		app.Dir = d
	}
	cfg, err := config.Load(app.Dir)
	if err != nil {
		return err
	}
	if app.LogLevel != "" {
		cfg.LogLevel = app.LogLevel
	}
	app.cfg = cfg
	app.log, app.closeLog = logging.New(logging.Options{Dir: app.Dir, Level: cfg.LogLevel, MaxSizeMB: cfg.LogMaxSizeMB})
	return nil
}

func (app *App) teardown() error {
	var errs []error
	if app.st != nil {
		errs = append(errs, app.st.Close())
		app.st = nil
	}
	if app.closeLog != nil {
		errs = append(errs, app.closeLog())
		app.closeLog = nil
	}
	return errors.Join(errs...)
}

func (app *App) logger() *logrus.Logger {
	if app.log == nil {
		return logging.Discard()
	}
	return app.log
}

func openStore(ctx context.Context, app *App) (*store.Store, error) {
	if app.st != nil {
		return app.st, nil
	}
	if app.Dir == "" {
		if err := app.setup(); err != nil {
			return nil, err
		}
	}
	s, err := store.Open(ctx, app.Dir)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", app.Dir, err)
	}
	s.CheckInvariants = app.cfg.DebugInvariants
	app.st = s
	return s, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openStore(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), tui.Options{
		Store:  s,
		Config: app.cfg,
		Log:    app.logger(),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// writeErr reports err on stderr as a JSON envelope and returns it so cobra
// exits non-zero.
func writeErr(cmd *cobra.Command, err error) error {
	_ = format.WriteJSON(cmd.ErrOrStderr(), map[string]any{"error": errorBody(err)}, false)
	return err
}
