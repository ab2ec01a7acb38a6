package store

import (
	"context"
	"database/sql"
	"fmt"

	"kanban-cli/internal/model"
	"kanban-cli/internal/order"
)

// Repo is the slice of storage the reorder paths need: ordered sibling reads and
// batched writes. *Tx implements it.
type Repo interface {
	GetItem(ctx context.Context, id string) (model.Item, error)
	GetList(ctx context.Context, id string) (model.List, error)
	// ItemsOfList returns the non-archived items of listID sorted by order.
	ItemsOfList(ctx context.Context, listID string) ([]model.Item, error)
	// ListsOfBoard returns the non-archived lists of boardID sorted by order.
	ListsOfBoard(ctx context.Context, boardID string) ([]model.List, error)
	PutItems(ctx context.Context, items ...model.Item) error
	PutLists(ctx context.Context, lists ...model.List) error
}

// Tx is an open transaction. Collections obtained from it write through the
// transaction and queue their change notifications until commit.
type Tx struct {
	s       *Store
	q       *sql.Tx
	pending []Change

	touchedLists  map[string]bool
	touchedBoards map[string]bool
}

func (tx *Tx) queue(changes ...Change) { tx.pending = append(tx.pending, changes...) }

func (tx *Tx) Boards() Collection[model.Board]     { return newCollection(boardsTable, tx.q, tx.queue) }
func (tx *Tx) Lists() Collection[model.List]       { return newCollection(listsTable, tx.q, tx.queue) }
func (tx *Tx) Items() Collection[model.Item]       { return newCollection(itemsTable, tx.q, tx.queue) }
func (tx *Tx) Tags() Collection[model.Tag]         { return newCollection(tagsTable, tx.q, tx.queue) }
func (tx *Tx) ItemTags() Collection[model.ItemTag] { return newCollection(itemTagsTable, tx.q, tx.queue) }

func (tx *Tx) GetItem(ctx context.Context, id string) (model.Item, error) {
	return tx.Items().Get(ctx, id)
}

func (tx *Tx) GetList(ctx context.Context, id string) (model.List, error) {
	return tx.Lists().Get(ctx, id)
}

func (tx *Tx) ItemsOfList(ctx context.Context, listID string) ([]model.Item, error) {
	return tx.Items().InContainer(ctx, listID, false)
}

func (tx *Tx) ListsOfBoard(ctx context.Context, boardID string) ([]model.List, error) {
	return tx.Lists().InContainer(ctx, boardID, false)
}

func (tx *Tx) PutItems(ctx context.Context, items ...model.Item) error {
	c := tx.Items()
	for _, it := range items {
		if err := c.Update(ctx, it); err != nil {
			return err
		}
		tx.TouchList(it.ListID)
	}
	return nil
}

func (tx *Tx) PutLists(ctx context.Context, lists ...model.List) error {
	c := tx.Lists()
	for _, l := range lists {
		if err := c.Update(ctx, l); err != nil {
			return err
		}
		tx.TouchBoard(l.BoardID)
	}
	return nil
}

// TouchList marks listID's items for the commit-time density check.
func (tx *Tx) TouchList(listID string) {
	if tx.touchedLists == nil {
		tx.touchedLists = map[string]bool{}
	}
	tx.touchedLists[listID] = true
}

// TouchBoard marks boardID's lists for the commit-time density check.
func (tx *Tx) TouchBoard(boardID string) {
	if tx.touchedBoards == nil {
		tx.touchedBoards = map[string]bool{}
	}
	tx.touchedBoards[boardID] = true
}

func (tx *Tx) checkTouchedContainers(ctx context.Context) error {
	for id := range tx.touchedLists {
		items, err := tx.ItemsOfList(ctx, id)
		if err != nil {
			return err
		}
		ptrs := make([]*model.Item, len(items))
		for i := range items {
			ptrs[i] = &items[i]
		}
		if err := order.CheckDense(ptrs); err != nil {
			return fmt.Errorf("list %s: %w", id, err)
		}
	}
	for id := range tx.touchedBoards {
		lists, err := tx.ListsOfBoard(ctx, id)
		if err != nil {
			return err
		}
		ptrs := make([]*model.List, len(lists))
		for i := range lists {
			ptrs[i] = &lists[i]
		}
		if err := order.CheckDense(ptrs); err != nil {
			return fmt.Errorf("board %s: %w", id, err)
		}
	}
	return nil
}
