package mutate

import (
	"context"

	"kanban-cli/internal/model"
	"kanban-cli/internal/order"
	"kanban-cli/internal/store"
)

type ArchiveResult struct {
	Changed bool `json:"changed"`
	// Reordered counts siblings whose order was rewritten to keep the container dense.
	Reordered int `json:"reordered"`
}

// densify reindexes rows (already in order, archived members removed) and returns
// the rows whose order changed.
func densify[T any, P interface {
	*T
	order.Entity
}](rows []T) []T {
	ptrs := make([]P, len(rows))
	for i := range rows {
		ptrs[i] = P(&rows[i])
	}
	changed := order.Reindex(ptrs)
	out := make([]T, len(changed))
	for i, p := range changed {
		out[i] = *p
	}
	return out
}

func without[T any](rows []T, id func(T) string, skip string) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if id(r) != skip {
			out = append(out, r)
		}
	}
	return out
}

// SetItemArchived archives or restores an item. Archiving removes it from its
// list's ordering; restoring appends it at the end of the list.
func SetItemArchived(ctx context.Context, s *store.Store, itemID string, archived bool) (ArchiveResult, error) {
	var res ArchiveResult
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		it, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if it.Archived == archived {
			return nil
		}
		sibs, err := tx.ItemsOfList(ctx, it.ListID)
		if err != nil {
			return err
		}
		sibs = without(sibs, func(x model.Item) string { return x.ID }, it.ID)
		if archived {
			it.Archived = true
			changed := densify(sibs)
			if err := tx.PutItems(ctx, changed...); err != nil {
				return err
			}
			res.Reordered = len(changed)
		} else {
			l, err := tx.GetList(ctx, it.ListID)
			if err != nil {
				return err
			}
			if l.Archived {
				return ArchivedParentError{Kind: "list", ID: l.ID}
			}
			it.Archived = false
			it.Order = len(sibs)
		}
		if err := tx.PutItems(ctx, it); err != nil {
			return err
		}
		res.Changed = true
		return nil
	})
	return res, err
}

// SetListArchived archives or restores a list within its board's ordering. Items
// of an archived list keep their own ordering untouched.
func SetListArchived(ctx context.Context, s *store.Store, listID string, archived bool) (ArchiveResult, error) {
	var res ArchiveResult
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		l, err := tx.GetList(ctx, listID)
		if err != nil {
			return err
		}
		if l.Archived == archived {
			return nil
		}
		sibs, err := tx.ListsOfBoard(ctx, l.BoardID)
		if err != nil {
			return err
		}
		sibs = without(sibs, func(x model.List) string { return x.ID }, l.ID)
		if archived {
			l.Archived = true
			changed := densify(sibs)
			if err := tx.PutLists(ctx, changed...); err != nil {
				return err
			}
			res.Reordered = len(changed)
		} else {
			b, err := tx.Boards().Get(ctx, l.BoardID)
			if err != nil {
				return err
			}
			if b.Archived {
				return ArchivedParentError{Kind: "board", ID: b.ID}
			}
			l.Archived = false
			l.Order = len(sibs)
		}
		if err := tx.PutLists(ctx, l); err != nil {
			return err
		}
		res.Changed = true
		return nil
	})
	return res, err
}

func SetBoardArchived(ctx context.Context, s *store.Store, boardID string, archived bool) (ArchiveResult, error) {
	var res ArchiveResult
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		b, err := tx.Boards().Get(ctx, boardID)
		if err != nil {
			return err
		}
		if b.Archived == archived {
			return nil
		}
		sibs, err := tx.Boards().InContainer(ctx, "", false)
		if err != nil {
			return err
		}
		sibs = without(sibs, func(x model.Board) string { return x.ID }, b.ID)
		if archived {
			changed := densify(sibs)
			for _, c := range changed {
				if err := tx.Boards().Update(ctx, c); err != nil {
					return err
				}
			}
			res.Reordered = len(changed)
			b.Archived = true
		} else {
			b.Archived = false
			b.Order = len(sibs)
		}
		if err := tx.Boards().Update(ctx, b); err != nil {
			return err
		}
		res.Changed = true
		return nil
	})
	return res, err
}
