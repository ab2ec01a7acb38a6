package cli

import (
	"kanban-cli/internal/model"
	"kanban-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newBoardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "boards",
		Aliases: []string{"board"},
		Short:   "Board commands",
	}
	cmd.AddCommand(newBoardsCreateCmd(app))
	cmd.AddCommand(newBoardsListCmd(app))
	cmd.AddCommand(newBoardsShowCmd(app))
	cmd.AddCommand(newBoardsRenameCmd(app))
	cmd.AddCommand(newBoardsArchiveCmd(app, true))
	cmd.AddCommand(newBoardsArchiveCmd(app, false))
	cmd.AddCommand(newBoardsDeleteCmd(app))
	return cmd
}

func newBoardsCreateCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board (appended after existing boards)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := mutate.CreateBoard(cmd.Context(), s, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Board title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBoardsListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boards in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var boards []model.Board
			if all {
				boards, err = s.Boards().InContainer(cmd.Context(), "", true)
			} else {
				boards, err = s.ActiveBoards(cmd.Context())
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": boards})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived boards")
	return cmd
}

func newBoardsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <board-id>",
		Short: "Show a board with its lists and items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := s.LoadBoardView(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			lists := make([]map[string]any, 0, len(v.Lists))
			for _, l := range v.Lists {
				lists = append(lists, map[string]any{"list": l, "items": v.Items[l.ID]})
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"board": v.Board, "lists": lists, "tags": v.Tags},
			})
		},
	}
	return cmd
}

func newBoardsRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <board-id>",
		Short: "Rename a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := mutate.RenameBoard(cmd.Context(), s, args[0], title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBoardsArchiveCmd(app *App, archive bool) *cobra.Command {
	use, short := "archive <board-id>", "Archive a board"
	if !archive {
		use, short = "restore <board-id>", "Restore an archived board (appended at the end)"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.SetBoardArchived(cmd.Context(), s, args[0], archive)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := s.Boards().Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b, "meta": res})
		},
	}
	return cmd
}

func newBoardsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <board-id>",
		Short: "Permanently delete a board with its lists, items and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.DeleteBoard(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": res}})
		},
	}
	return cmd
}
