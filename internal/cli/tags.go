package cli

import (
	"kanban-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Tag commands",
	}
	cmd.AddCommand(newTagsCreateCmd(app))
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsAttachCmd(app))
	cmd.AddCommand(newTagsDetachCmd(app))
	return cmd
}

func newTagsCreateCmd(app *App) *cobra.Command {
	var boardID, title, color string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag on a board (returns the existing tag for a duplicate title)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := mutate.CreateTag(cmd.Context(), s, boardID, title, color)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&boardID, "board", "", "Board id")
	cmd.Flags().StringVar(&title, "title", "", "Tag title")
	cmd.Flags().StringVar(&color, "color", "", "Tag color (lipgloss color: name, ANSI number or #hex)")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	var boardID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tags of a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tags, err := s.Tags().InContainer(cmd.Context(), boardID, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tags})
		},
	}

	cmd.Flags().StringVar(&boardID, "board", "", "Board id")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func newTagsAttachCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach <item-id> <tag-id>",
		Short: "Attach a tag to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rel, err := mutate.AttachTag(cmd.Context(), s, args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": rel})
		},
	}
	return cmd
}

func newTagsDetachCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detach <item-id> <tag-id>",
		Short: "Detach a tag from an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			removed, err := mutate.DetachTag(cmd.Context(), s, args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"itemId": args[0], "tagId": args[1], "removed": removed}})
		},
	}
	return cmd
}
