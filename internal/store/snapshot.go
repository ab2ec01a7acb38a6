package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"kanban-cli/internal/model"
)

const snapshotVersion = 1

// Snapshot is the JSON export format: every row of every collection.
type Snapshot struct {
	Version  int             `json:"version"`
	Boards   []model.Board   `json:"boards"`
	Lists    []model.List    `json:"lists"`
	Items    []model.Item    `json:"items"`
	Tags     []model.Tag     `json:"tags"`
	ItemTags []model.ItemTag `json:"itemTags"`
}

func (s *Store) Export(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Version: snapshotVersion}
	var err error
	if snap.Boards, err = s.Boards().FindMany(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Lists, err = s.Lists().FindMany(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Items, err = s.Items().FindMany(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Tags, err = s.Tags().FindMany(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.ItemTags, err = s.ItemTags().FindMany(ctx, nil); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) WriteSnapshot(ctx context.Context, w io.Writer, pretty bool) error {
	snap, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(snap)
}

// Import replaces all stored rows with snap in a single transaction.
func (s *Store) Import(ctx context.Context, snap Snapshot) error {
	if snap.Version > snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return s.Transaction(ctx, func(tx *Tx) error {
		for _, t := range tableNames {
			if _, err := tx.q.ExecContext(ctx, `DELETE FROM `+t); err != nil {
				return err
			}
		}
		for _, b := range snap.Boards {
			if _, err := tx.Boards().Create(ctx, b); err != nil {
				return err
			}
		}
		for _, l := range snap.Lists {
			if _, err := tx.Lists().Create(ctx, l); err != nil {
				return err
			}
			tx.TouchBoard(l.BoardID)
		}
		for _, it := range snap.Items {
			if _, err := tx.Items().Create(ctx, it); err != nil {
				return err
			}
			tx.TouchList(it.ListID)
		}
		for _, t := range snap.Tags {
			if _, err := tx.Tags().Create(ctx, t); err != nil {
				return err
			}
		}
		for _, r := range snap.ItemTags {
			if _, err := tx.ItemTags().Create(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ReadSnapshot(ctx context.Context, r io.Reader) error {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return s.Import(ctx, snap)
}
