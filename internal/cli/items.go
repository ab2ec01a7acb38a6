package cli

import (
	"fmt"
	"strings"

	"kanban-cli/internal/dnd"
	"kanban-cli/internal/model"
	"kanban-cli/internal/mutate"
	"kanban-cli/internal/store"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Item (card) commands",
	}
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsArchiveCmd(app, true))
	cmd.AddCommand(newItemsArchiveCmd(app, false))
	cmd.AddCommand(newItemsDeleteCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	return cmd
}

func newItemsCreateCmd(app *App) *cobra.Command {
	var listID, title, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item at the end of a list",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := mutate.CreateItem(cmd.Context(), s, listID, title, content)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	cmd.Flags().StringVar(&listID, "list", "", "List id")
	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().StringVar(&content, "content", "", "Item content (markdown)")
	_ = cmd.MarkFlagRequired("list")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var listID string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the items of a list in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := s.Lists().Get(cmd.Context(), listID); err != nil {
				return writeErr(cmd, err)
			}
			items, err := s.ItemsOfList(cmd.Context(), listID, all)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": items})
		},
	}

	cmd.Flags().StringVar(&listID, "list", "", "List id")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived items")
	_ = cmd.MarkFlagRequired("list")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item with its tags and references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := s.Items().Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			tags, err := itemTags(cmd, s, it.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": it,
				"meta": map[string]any{"tags": tags},
			})
		},
	}
	return cmd
}

func itemTags(cmd *cobra.Command, s *store.Store, itemID string) ([]model.Tag, error) {
	rels, err := s.ItemTags().InContainer(cmd.Context(), itemID, true)
	if err != nil {
		return nil, err
	}
	out := []model.Tag{}
	for _, r := range rels {
		t, err := s.Tags().Get(cmd.Context(), r.TagID)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func newItemsEditCmd(app *App) *cobra.Command {
	var title, content string
	var refs []string

	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Edit an item's title, content or references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e mutate.ItemEdit
			if cmd.Flags().Changed("title") {
				e.Title = &title
			}
			if cmd.Flags().Changed("content") {
				e.Content = &content
			}
			if cmd.Flags().Changed("ref") {
				e.ReferenceItems = []string{}
				for _, r := range refs {
					if r = strings.TrimSpace(r); r != "" {
						e.ReferenceItems = append(e.ReferenceItems, r)
					}
				}
			}
			if e.Title == nil && e.Content == nil && e.ReferenceItems == nil {
				return writeErr(cmd, mutate.InvalidInputError{Field: "edit", Reason: "nothing to change (use --title, --content or --ref)"})
			}
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := mutate.EditItem(cmd.Context(), s, args[0], e)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content (markdown)")
	cmd.Flags().StringSliceVar(&refs, "ref", nil, "Referenced item ids (replaces the current set; repeatable)")
	return cmd
}

func newItemsArchiveCmd(app *App, archive bool) *cobra.Command {
	use, short := "archive <item-id>", "Archive an item (its list is re-densified)"
	if !archive {
		use, short = "restore <item-id>", "Restore an archived item at the end of its list"
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
			res, err := mutate.SetItemArchived(cmd.Context(), s, args[0], archive)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := s.Items().Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it, "meta": res})
		},
	}
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Permanently delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.DeleteItem(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": res}})
		},
	}
	return cmd
}

func newItemsMoveCmd(app *App) *cobra.Command {
	var listID string
	var to int

	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item to a 0-based position, optionally in another list",
		Example: strings.TrimSpace(`
  # Reorder within the current list
  kanban items move item-... --to 0

  # Move to another list (appended when --to is past the end)
  kanban items move item-... --list list-... --to 99
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to < 0 {
				return writeErr(cmd, mutate.InvalidInputError{Field: "to", Reason: fmt.Sprintf("must be >= 0 (got %d)", to)})
			}
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := s.Items().Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if it.Archived {
				return writeErr(cmd, staleError{kind: "item", id: it.ID})
			}
			dest := strings.TrimSpace(listID)
			if dest == "" {
				dest = it.ListID
			}
			if dest != it.ListID {
				l, err := s.Lists().Get(cmd.Context(), dest)
				if err != nil {
					return writeErr(cmd, err)
				}
				from, err := s.Lists().Get(cmd.Context(), it.ListID)
				if err != nil {
					return writeErr(cmd, err)
				}
				if l.BoardID != from.BoardID {
					return writeErr(cmd, mutate.InvalidInputError{Field: "list", Reason: "items can only move between lists of the same board"})
				}
			}

			out, err := dnd.MoveItem(cmd.Context(), s, it, dest, to)
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == dnd.OutcomeStale {
				return writeErr(cmd, staleError{kind: "item", id: it.ID})
			}
			moved, err := s.Items().Get(cmd.Context(), it.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": moved,
				"meta": map[string]any{"outcome": out.String(), "fromList": it.ListID},
			})
		},
	}

	cmd.Flags().StringVar(&listID, "list", "", "Destination list id (default: the item's current list)")
	cmd.Flags().IntVar(&to, "to", 0, "Target position (0-based; clamped to the end)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
