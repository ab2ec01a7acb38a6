package mutate

import (
	"context"
	"strings"
	"time"

	"kanban-cli/internal/model"
	"kanban-cli/internal/store"
)

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", InvalidInputError{Field: "title", Reason: "must not be empty"}
	}
	return title, nil
}

// CreateBoard appends a new board after the existing active boards.
func CreateBoard(ctx context.Context, s *store.Store, title string) (model.Board, error) {
	title, err := requireTitle(title)
	if err != nil {
		return model.Board{}, err
	}
	var out model.Board
	err = s.Transaction(ctx, func(tx *store.Tx) error {
		boards, err := tx.Boards().InContainer(ctx, "", false)
		if err != nil {
			return err
		}
		out, err = tx.Boards().Create(ctx, model.Board{
			Title:   title,
			Created: time.Now().UTC(),
			Order:   len(boards),
		})
		return err
	})
	return out, err
}

// CreateList appends a new list at the end of boardID.
func CreateList(ctx context.Context, s *store.Store, boardID, title string) (model.List, error) {
	title, err := requireTitle(title)
	if err != nil {
		return model.List{}, err
	}
	var out model.List
	err = s.Transaction(ctx, func(tx *store.Tx) error {
		b, err := tx.Boards().Get(ctx, boardID)
		if err != nil {
			return err
		}
		if b.Archived {
			return ArchivedParentError{Kind: "board", ID: b.ID}
		}
		lists, err := tx.ListsOfBoard(ctx, b.ID)
		if err != nil {
			return err
		}
		out, err = tx.Lists().Create(ctx, model.List{
			BoardID: b.ID,
			Title:   title,
			Created: time.Now().UTC(),
			Order:   len(lists),
		})
		tx.TouchBoard(b.ID)
		return err
	})
	return out, err
}

// CreateItem appends a new item at the end of listID.
func CreateItem(ctx context.Context, s *store.Store, listID, title, content string) (model.Item, error) {
	title, err := requireTitle(title)
	if err != nil {
		return model.Item{}, err
	}
	var out model.Item
	err = s.Transaction(ctx, func(tx *store.Tx) error {
		l, err := tx.GetList(ctx, listID)
		if err != nil {
			return err
		}
		if l.Archived {
			return ArchivedParentError{Kind: "list", ID: l.ID}
		}
		items, err := tx.ItemsOfList(ctx, l.ID)
		if err != nil {
			return err
		}
		out, err = tx.Items().Create(ctx, model.Item{
			ListID:  l.ID,
			Title:   title,
			Content: strings.TrimSpace(content),
			Created: time.Now().UTC(),
			Order:   len(items),
		})
		tx.TouchList(l.ID)
		return err
	})
	return out, err
}

// ItemEdit holds optional field changes; nil means unchanged.
type ItemEdit struct {
	Title          *string
	Content        *string
	ReferenceItems []string
}

func EditItem(ctx context.Context, s *store.Store, itemID string, e ItemEdit) (model.Item, error) {
	var out model.Item
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		it, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if e.Title != nil {
			t, err := requireTitle(*e.Title)
			if err != nil {
				return err
			}
			it.Title = t
		}
		if e.Content != nil {
			it.Content = strings.TrimSpace(*e.Content)
		}
		if e.ReferenceItems != nil {
			for _, ref := range e.ReferenceItems {
				if _, err := tx.GetItem(ctx, ref); err != nil {
					return err
				}
			}
			it.ReferenceItems = e.ReferenceItems
		}
		out = it
		return tx.Items().Update(ctx, it)
	})
	return out, err
}

func RenameList(ctx context.Context, s *store.Store, listID, title string) (model.List, error) {
	title, err := requireTitle(title)
	if err != nil {
		return model.List{}, err
	}
	l, err := s.Lists().Get(ctx, listID)
	if err != nil {
		return model.List{}, err
	}
	l.Title = title
	return l, s.Lists().Update(ctx, l)
}

func RenameBoard(ctx context.Context, s *store.Store, boardID, title string) (model.Board, error) {
	title, err := requireTitle(title)
	if err != nil {
		return model.Board{}, err
	}
	b, err := s.Boards().Get(ctx, boardID)
	if err != nil {
		return model.Board{}, err
	}
	b.Title = title
	return b, s.Boards().Update(ctx, b)
}
