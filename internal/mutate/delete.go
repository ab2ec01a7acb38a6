package mutate

import (
	"context"

	"kanban-cli/internal/model"
	"kanban-cli/internal/store"
)

type DeleteResult struct {
	Lists     int `json:"lists"`
	Items     int `json:"items"`
	ItemTags  int `json:"itemTags"`
	Tags      int `json:"tags"`
	Reordered int `json:"reordered"`
}

// DeleteItem permanently removes an item and its tag relations, then re-densifies
// the remaining items of its list.
func DeleteItem(ctx context.Context, s *store.Store, itemID string) (DeleteResult, error) {
	var res DeleteResult
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		it, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if err := deleteItemRows(ctx, tx, it.ID, &res); err != nil {
			return err
		}
		if it.Archived {
			return nil
		}
		sibs, err := tx.ItemsOfList(ctx, it.ListID)
		if err != nil {
			return err
		}
		changed := densify(sibs)
		res.Reordered = len(changed)
		tx.TouchList(it.ListID)
		return tx.PutItems(ctx, changed...)
	})
	return res, err
}

// DeleteList permanently removes a list with all of its items.
func DeleteList(ctx context.Context, s *store.Store, listID string) (DeleteResult, error) {
	var res DeleteResult
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		l, err := tx.GetList(ctx, listID)
		if err != nil {
			return err
		}
		if err := deleteListRows(ctx, tx, l.ID, &res); err != nil {
			return err
		}
		if l.Archived {
			return nil
		}
		sibs, err := tx.ListsOfBoard(ctx, l.BoardID)
		if err != nil {
			return err
		}
		changed := densify(sibs)
		res.Reordered = len(changed)
		tx.TouchBoard(l.BoardID)
		return tx.PutLists(ctx, changed...)
	})
	return res, err
}

// DeleteBoard permanently removes a board, its lists, items, tags and tag relations.
func DeleteBoard(ctx context.Context, s *store.Store, boardID string) (DeleteResult, error) {
	var res DeleteResult
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		b, err := tx.Boards().Get(ctx, boardID)
		if err != nil {
			return err
		}
		lists, err := tx.Lists().InContainer(ctx, b.ID, true)
		if err != nil {
			return err
		}
		for _, l := range lists {
			if err := deleteListRows(ctx, tx, l.ID, &res); err != nil {
				return err
			}
		}
		tags, err := tx.Tags().InContainer(ctx, b.ID, true)
		if err != nil {
			return err
		}
		for _, t := range tags {
			if err := tx.Tags().Delete(ctx, t.ID); err != nil {
				return err
			}
			res.Tags++
		}
		if err := tx.Boards().Delete(ctx, b.ID); err != nil {
			return err
		}
		if b.Archived {
			return nil
		}
		sibs, err := tx.Boards().InContainer(ctx, "", false)
		if err != nil {
			return err
		}
		changed := densify(sibs)
		for _, c := range changed {
			if err := tx.Boards().Update(ctx, c); err != nil {
				return err
			}
		}
		res.Reordered = len(changed)
		return nil
	})
	return res, err
}

func deleteListRows(ctx context.Context, tx *store.Tx, listID string, res *DeleteResult) error {
	items, err := tx.Items().InContainer(ctx, listID, true)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := deleteItemRows(ctx, tx, it.ID, res); err != nil {
			return err
		}
	}
	if err := tx.Lists().Delete(ctx, listID); err != nil {
		return err
	}
	res.Lists++
	return nil
}

func deleteItemRows(ctx context.Context, tx *store.Tx, itemID string, res *DeleteResult) error {
	rels, err := tx.ItemTags().InContainer(ctx, itemID, true)
	if err != nil {
		return err
	}
	for _, r := range rels {
		if err := tx.ItemTags().Delete(ctx, r.ID); err != nil {
			return err
		}
		res.ItemTags++
	}
	// Drop dangling references from other items.
	refs, err := tx.Items().FindMany(ctx, func(it model.Item) bool {
		for _, id := range it.ReferenceItems {
			if id == itemID {
				return true
			}
		}
		return false
	})
	if err != nil {
		return err
	}
	for _, r := range refs {
		r.ReferenceItems = without(r.ReferenceItems, func(s string) string { return s }, itemID)
		if err := tx.Items().Update(ctx, r); err != nil {
			return err
		}
	}
	if err := tx.Items().Delete(ctx, itemID); err != nil {
		return err
	}
	res.Items++
	return nil
}
