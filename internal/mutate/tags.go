package mutate

import (
	"context"
	"strings"

	"kanban-cli/internal/model"
	"kanban-cli/internal/store"
)

func CreateTag(ctx context.Context, s *store.Store, boardID, title, color string) (model.Tag, error) {
	title, err := requireTitle(title)
	if err != nil {
		return model.Tag{}, err
	}
	var out model.Tag
	err = s.Transaction(ctx, func(tx *store.Tx) error {
		if _, err := tx.Boards().Get(ctx, boardID); err != nil {
			return err
		}
		dup, err := tx.Tags().FindMany(ctx, func(t model.Tag) bool {
			return t.BoardID == boardID && strings.EqualFold(t.Title, title)
		})
		if err != nil {
			return err
		}
		if len(dup) > 0 {
			out = dup[0]
			return nil
		}
		out, err = tx.Tags().Create(ctx, model.Tag{BoardID: boardID, Title: title, Color: strings.TrimSpace(color)})
		return err
	})
	return out, err
}

// AttachTag relates tagID to itemID. Both must belong to the same board.
// Attaching an already-attached tag is a no-op.
func AttachTag(ctx context.Context, s *store.Store, itemID, tagID string) (model.ItemTag, error) {
	var out model.ItemTag
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		it, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		l, err := tx.GetList(ctx, it.ListID)
		if err != nil {
			return err
		}
		tag, err := tx.Tags().Get(ctx, tagID)
		if err != nil {
			return err
		}
		if tag.BoardID != l.BoardID {
			return InvalidInputError{Field: "tag", Reason: "belongs to a different board"}
		}
		rels, err := tx.ItemTags().InContainer(ctx, it.ID, true)
		if err != nil {
			return err
		}
		for _, r := range rels {
			if r.TagID == tag.ID {
				out = r
				return nil
			}
		}
		out, err = tx.ItemTags().Create(ctx, model.ItemTag{ItemID: it.ID, TagID: tag.ID, BoardID: l.BoardID})
		return err
	})
	return out, err
}

// DetachTag removes the relation if present and reports whether one was removed.
func DetachTag(ctx context.Context, s *store.Store, itemID, tagID string) (bool, error) {
	removed := false
	err := s.Transaction(ctx, func(tx *store.Tx) error {
		rels, err := tx.ItemTags().InContainer(ctx, itemID, true)
		if err != nil {
			return err
		}
		for _, r := range rels {
			if r.TagID != tagID {
				continue
			}
			if err := tx.ItemTags().Delete(ctx, r.ID); err != nil {
				return err
			}
			removed = true
		}
		return nil
	})
	return removed, err
}
