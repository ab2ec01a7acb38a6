package store

import (
	"context"

	"kanban-cli/internal/model"
)

// ActiveBoards returns non-archived boards sorted by order.
func (s *Store) ActiveBoards(ctx context.Context) ([]model.Board, error) {
	return s.Boards().InContainer(ctx, "", false)
}

func (s *Store) ListsOfBoard(ctx context.Context, boardID string, includeArchived bool) ([]model.List, error) {
	return s.Lists().InContainer(ctx, boardID, includeArchived)
}

func (s *Store) ItemsOfList(ctx context.Context, listID string, includeArchived bool) ([]model.Item, error) {
	return s.Items().InContainer(ctx, listID, includeArchived)
}

// BoardView is everything needed to draw one board.
type BoardView struct {
	Board model.Board
	Lists []model.List
	// Items maps list id to its non-archived items sorted by order.
	Items map[string][]model.Item
	// Tags maps item id to the titles of its tags.
	Tags map[string][]string
}

// LoadBoardView reads a board with its active lists and items.
func (s *Store) LoadBoardView(ctx context.Context, boardID string) (BoardView, error) {
	b, err := s.Boards().Get(ctx, boardID)
	if err != nil {
		return BoardView{}, err
	}
	lists, err := s.ListsOfBoard(ctx, boardID, false)
	if err != nil {
		return BoardView{}, err
	}
	v := BoardView{Board: b, Lists: lists, Items: map[string][]model.Item{}, Tags: map[string][]string{}}
	for _, l := range lists {
		items, err := s.ItemsOfList(ctx, l.ID, false)
		if err != nil {
			return BoardView{}, err
		}
		v.Items[l.ID] = items
	}

	tags, err := s.Tags().InContainer(ctx, boardID, true)
	if err != nil {
		return BoardView{}, err
	}
	titles := make(map[string]string, len(tags))
	for _, t := range tags {
		titles[t.ID] = t.Title
	}
	rels, err := s.ItemTags().FindMany(ctx, func(r model.ItemTag) bool { return r.BoardID == boardID })
	if err != nil {
		return BoardView{}, err
	}
	for _, r := range rels {
		if t, ok := titles[r.TagID]; ok {
			v.Tags[r.ItemID] = append(v.Tags[r.ItemID], t)
		}
	}
	return v, nil
}
