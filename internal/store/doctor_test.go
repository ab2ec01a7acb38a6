package store

import (
	"context"
	"testing"

	"kanban-cli/internal/model"
)

func TestDoctor_DetectsAndFixesGaps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Boards().Create(ctx, model.Board{ID: "b1", Title: "B"}); err != nil {
		t.Fatalf("create board: %v", err)
	}
	if _, err := s.Lists().Create(ctx, model.List{ID: "l1", BoardID: "b1", Title: "L"}); err != nil {
		t.Fatalf("create list: %v", err)
	}
	for _, it := range []model.Item{
		{ID: "a", ListID: "l1", Order: 0},
		{ID: "b", ListID: "l1", Order: 3},
		{ID: "c", ListID: "l1", Order: 7},
		{ID: "o", ListID: "gone", Order: 0},
	} {
		if _, err := s.Items().Create(ctx, it); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	rep, err := s.Doctor(ctx, false)
	if err != nil {
		t.Fatalf("Doctor: %v", err)
	}
	if !rep.HasErrors() || rep.Fixed != 0 {
		t.Fatalf("expected errors without fixes; got %#v", rep)
	}
	codes := map[string]bool{}
	for _, is := range rep.Issues {
		codes[is.Code] = true
	}
	if !codes["order_not_dense"] || !codes["item_orphaned"] {
		t.Fatalf("issues=%#v", rep.Issues)
	}

	rep, err = s.Doctor(ctx, true)
	if err != nil {
		t.Fatalf("Doctor fix: %v", err)
	}
	if rep.Fixed != 2 {
		t.Fatalf("expected 2 rows fixed; got %d", rep.Fixed)
	}
	items, _ := s.ItemsOfList(ctx, "l1", false)
	for i, it := range items {
		if it.Order != i {
			t.Fatalf("item %s order=%d; want %d", it.ID, it.Order, i)
		}
	}

	rep, _ = s.Doctor(ctx, false)
	if rep.HasErrors() {
		t.Fatalf("expected clean report after fix; got %#v", rep.Issues)
	}
}
