package cli

import (
	"kanban-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var html bool
	var content bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export derived Markdown/HTML artifacts (not canonical)",
	}

	boardCmd := &cobra.Command{
		Use:   "board <board-id>",
		Short: "Publish a board as Markdown (and optionally HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteBoard(cmd.Context(), s, args[0], toDir, publish.WriteOptions{
				HTML:           html,
				IncludeContent: content,
				Overwrite:      overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	boardCmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	boardCmd.Flags().BoolVar(&html, "html", false, "Also write a standalone HTML page")
	boardCmd.Flags().BoolVar(&content, "content", false, "Include card content")
	boardCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = boardCmd.MarkFlagRequired("to")

	cmd.AddCommand(boardCmd)
	return cmd
}
