package mutate

import (
	"context"
	"errors"
	"testing"

	"kanban-cli/internal/store"

	"github.com/google/go-cmp/cmp"
)

func TestDeleteItem_RedensifiesAndDropsReferences(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b, l, items := seedBoard(t, s, "a", "b", "c")

	tag, err := CreateTag(ctx, s, b.ID, "urgent", "red")
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if _, err := AttachTag(ctx, s, items[1].ID, tag.ID); err != nil {
		t.Fatalf("AttachTag: %v", err)
	}
	if _, err := EditItem(ctx, s, items[2].ID, ItemEdit{ReferenceItems: []string{items[1].ID}}); err != nil {
		t.Fatalf("EditItem: %v", err)
	}

	res, err := DeleteItem(ctx, s, items[1].ID)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if diff := cmp.Diff(DeleteResult{Items: 1, ItemTags: 1, Reordered: 1}, res); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}
	titles, orders := titlesAndOrders(t, s, l.ID)
	if diff := cmp.Diff([]string{"a", "c"}, titles); diff != "" {
		t.Fatalf("titles (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, orders); diff != "" {
		t.Fatalf("orders (-want +got):\n%s", diff)
	}
	c, err := s.Items().Get(ctx, items[2].ID)
	if err != nil {
		t.Fatalf("get c: %v", err)
	}
	if len(c.ReferenceItems) != 0 {
		t.Fatalf("expected dangling reference removed; got %v", c.ReferenceItems)
	}
}

func TestDeleteBoard_Cascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b, _, items := seedBoard(t, s, "a", "b")
	other, err := CreateBoard(ctx, s, "Other")
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	tag, _ := CreateTag(ctx, s, b.ID, "x", "")
	if _, err := AttachTag(ctx, s, items[0].ID, tag.ID); err != nil {
		t.Fatalf("AttachTag: %v", err)
	}

	res, err := DeleteBoard(ctx, s, b.ID)
	if err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	if diff := cmp.Diff(DeleteResult{Lists: 1, Items: 2, ItemTags: 1, Tags: 1, Reordered: 1}, res); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}
	if _, err := s.Items().Get(ctx, items[0].ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected item gone; got %v", err)
	}
	got, err := s.Boards().Get(ctx, other.ID)
	if err != nil || got.Order != 0 {
		t.Fatalf("remaining board=%+v err=%v", got, err)
	}
}

func TestTags(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b, _, items := seedBoard(t, s, "a")

	t1, err := CreateTag(ctx, s, b.ID, "Bug", "red")
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	t2, err := CreateTag(ctx, s, b.ID, "bug", "blue")
	if err != nil || t2.ID != t1.ID {
		t.Fatalf("expected case-insensitive dedupe; got %+v err=%v", t2, err)
	}

	r1, err := AttachTag(ctx, s, items[0].ID, t1.ID)
	if err != nil {
		t.Fatalf("AttachTag: %v", err)
	}
	r2, err := AttachTag(ctx, s, items[0].ID, t1.ID)
	if err != nil || r2.ID != r1.ID {
		t.Fatalf("expected idempotent attach; got %+v err=%v", r2, err)
	}

	other, _ := CreateBoard(ctx, s, "Other")
	foreign, _ := CreateTag(ctx, s, other.ID, "bug", "")
	var iie InvalidInputError
	if _, err := AttachTag(ctx, s, items[0].ID, foreign.ID); !errors.As(err, &iie) {
		t.Fatalf("expected cross-board attach to fail; got %v", err)
	}

	removed, err := DetachTag(ctx, s, items[0].ID, t1.ID)
	if err != nil || !removed {
		t.Fatalf("DetachTag=%v,%v", removed, err)
	}
	removed, err = DetachTag(ctx, s, items[0].ID, t1.ID)
	if err != nil || removed {
		t.Fatalf("second DetachTag=%v,%v", removed, err)
	}
}
