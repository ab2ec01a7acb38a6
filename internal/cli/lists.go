package cli

import (
	"fmt"

	"kanban-cli/internal/dnd"
	"kanban-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "List (column) commands",
	}
	cmd.AddCommand(newListsCreateCmd(app))
	cmd.AddCommand(newListsListCmd(app))
	cmd.AddCommand(newListsRenameCmd(app))
	cmd.AddCommand(newListsArchiveCmd(app, true))
	cmd.AddCommand(newListsArchiveCmd(app, false))
	cmd.AddCommand(newListsDeleteCmd(app))
	cmd.AddCommand(newListsMoveCmd(app))
	return cmd
}

func newListsCreateCmd(app *App) *cobra.Command {
	var boardID, title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a list at the end of a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := mutate.CreateList(cmd.Context(), s, boardID, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	cmd.Flags().StringVar(&boardID, "board", "", "Board id")
	cmd.Flags().StringVar(&title, "title", "", "List title")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newListsListCmd(app *App) *cobra.Command {
	var boardID string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the lists of a board in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := s.Boards().Get(cmd.Context(), boardID); err != nil {
				return writeErr(cmd, err)
			}
			lists, err := s.ListsOfBoard(cmd.Context(), boardID, all)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": lists})
		},
	}

	cmd.Flags().StringVar(&boardID, "board", "", "Board id")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived lists")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func newListsRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <list-id>",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := mutate.RenameList(cmd.Context(), s, args[0], title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newListsArchiveCmd(app *App, archive bool) *cobra.Command {
	use, short := "archive <list-id>", "Archive a list (its siblings are re-densified)"
	if !archive {
		use, short = "restore <list-id>", "Restore an archived list at the end of its board"
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
			res, err := mutate.SetListArchived(cmd.Context(), s, args[0], archive)
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := s.Lists().Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": l, "meta": res})
		},
	}
	return cmd
}

func newListsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Permanently delete a list and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.DeleteList(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": res}})
		},
	}
	return cmd
}

func newListsMoveCmd(app *App) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "move <list-id>",
		Short: "Move a list to a 0-based position within its board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to < 0 {
				return writeErr(cmd, mutate.InvalidInputError{Field: "to", Reason: fmt.Sprintf("must be >= 0 (got %d)", to)})
			}
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := s.Lists().Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if l.Archived {
				return writeErr(cmd, staleError{kind: "list", id: l.ID})
			}
			out, err := dnd.MoveList(cmd.Context(), s, l, to)
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == dnd.OutcomeStale {
				return writeErr(cmd, staleError{kind: "list", id: l.ID})
			}
			lists, err := s.ListsOfBoard(cmd.Context(), l.BoardID, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": lists,
				"meta": map[string]any{"outcome": out.String(), "moved": l.ID},
			})
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "Target position (0-based; clamped to the end)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
