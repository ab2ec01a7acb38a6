package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every board, list, item and tag as one JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out = strings.TrimSpace(out)
			if out == "" || out == "-" {
				if err := s.WriteSnapshot(cmd.Context(), cmd.OutOrStdout(), app.PrettyJSON); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}
			f, err := os.Create(out)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.WriteSnapshot(cmd.Context(), f, app.PrettyJSON); err != nil {
				_ = f.Close()
				return writeErr(cmd, err)
			}
			if err := f.Close(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": out}})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace all stored data with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				r = f
			}
			if err := s.ReadSnapshot(cmd.Context(), r); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().WithField("source", args[0]).Info("snapshot imported")

			snap, err := s.Export(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"boards":   len(snap.Boards),
				"lists":    len(snap.Lists),
				"items":    len(snap.Items),
				"tags":     len(snap.Tags),
				"itemTags": len(snap.ItemTags),
			}})
		},
	}
	return cmd
}
