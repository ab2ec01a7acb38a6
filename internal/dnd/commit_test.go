package dnd

import (
	"context"
	"errors"
	"testing"

	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	"github.com/google/go-cmp/cmp"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s.CheckInvariants = true
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// seedLists creates board "b1" with one list per entry of lists; each list holds
// items whose ids are given in order.
func seedLists(t *testing.T, s *store.Store, lists map[string][]string, listOrder ...string) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Boards().Create(ctx, model.Board{ID: "b1", Title: "Board"}); err != nil {
		t.Fatalf("create board: %v", err)
	}
	for i, lid := range listOrder {
		if _, err := s.Lists().Create(ctx, model.List{ID: lid, BoardID: "b1", Title: lid, Order: i}); err != nil {
			t.Fatalf("create list: %v", err)
		}
		for j, iid := range lists[lid] {
			if _, err := s.Items().Create(ctx, model.Item{ID: iid, ListID: lid, Title: iid, Order: j}); err != nil {
				t.Fatalf("create item: %v", err)
			}
		}
	}
}

type placed struct {
	ID    string
	Order int
}

func listContents(t *testing.T, s *store.Store, listID string) []placed {
	t.Helper()
	items, err := s.ItemsOfList(context.Background(), listID, false)
	if err != nil {
		t.Fatalf("items of %s: %v", listID, err)
	}
	out := []placed{}
	for _, it := range items {
		out = append(out, placed{ID: it.ID, Order: it.Order})
	}
	return out
}

func itemEntity(id, listID string, index int) Entity {
	return Entity{Kind: KindItem, ID: id, ContainerID: listID, Index: index}
}

func TestCommit_SameContainerMove(t *testing.T) {
	s := openTestStore(t)
	seedLists(t, s, map[string][]string{"L0": {"A", "B", "C", "D"}}, "L0")

	// B dragged below D: raw 3 over [A,C,D] corrects to gap 4.
	e := itemEntity("B", "L0", 1)
	out, err := StoreCommitter{Store: s}.Commit(context.Background(), e, Target{ContainerID: "L0", Index: 4})
	if err != nil || out != OutcomeMoved {
		t.Fatalf("commit=%v,%v", out, err)
	}
	want := []placed{{"A", 0}, {"C", 1}, {"D", 2}, {"B", 3}}
	if diff := cmp.Diff(want, listContents(t, s, "L0")); diff != "" {
		t.Fatalf("L0 mismatch (-want +got):\n%s", diff)
	}
}

func TestCommit_CrossContainerMove(t *testing.T) {
	s := openTestStore(t)
	seedLists(t, s, map[string][]string{"L0": {"A", "B"}, "L1": {"C"}}, "L0", "L1")

	out, err := StoreCommitter{Store: s}.Commit(context.Background(), itemEntity("A", "L0", 0), Target{ContainerID: "L1", Index: 0})
	if err != nil || out != OutcomeMoved {
		t.Fatalf("commit=%v,%v", out, err)
	}
	if diff := cmp.Diff([]placed{{"B", 0}}, listContents(t, s, "L0")); diff != "" {
		t.Fatalf("origin mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]placed{{"A", 0}, {"C", 1}}, listContents(t, s, "L1")); diff != "" {
		t.Fatalf("destination mismatch (-want +got):\n%s", diff)
	}
	it, err := s.Items().Get(context.Background(), "A")
	if err != nil || it.ListID != "L1" {
		t.Fatalf("A=%+v err=%v", it, err)
	}
}

func TestCommit_AppendToEmptyListKeepsOrderButMovesList(t *testing.T) {
	s := openTestStore(t)
	seedLists(t, s, map[string][]string{"L0": {"A", "B"}}, "L0", "L1")

	if _, err := (StoreCommitter{Store: s}).Commit(context.Background(), itemEntity("A", "L0", 0), Target{ContainerID: "L1", Index: 0}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if diff := cmp.Diff([]placed{{"A", 0}}, listContents(t, s, "L1")); diff != "" {
		t.Fatalf("destination mismatch (-want +got):\n%s", diff)
	}
}

// failingStorage runs the real transaction but makes the batched write fail after
// its first row has been written.
type failingStorage struct{ s *store.Store }

var errInjected = errors.New("injected write failure")

func (f failingStorage) Atomically(ctx context.Context, fn func(store.Repo) error) error {
	return f.s.Atomically(ctx, func(r store.Repo) error {
		return fn(failingRepo{Repo: r})
	})
}

type failingRepo struct{ store.Repo }

func (r failingRepo) PutItems(ctx context.Context, items ...model.Item) error {
	if len(items) > 0 {
		if err := r.Repo.PutItems(ctx, items[0]); err != nil {
			return err
		}
	}
	return errInjected
}

func TestCommit_CrossContainerFailureIsAllOrNothing(t *testing.T) {
	s := openTestStore(t)
	seedLists(t, s, map[string][]string{"L0": {"A", "B"}, "L1": {"C"}}, "L0", "L1")

	var changes []store.Change
	defer s.Subscribe(func(c store.Change) { changes = append(changes, c) })()

	_, err := StoreCommitter{Store: failingStorage{s: s}}.Commit(context.Background(), itemEntity("A", "L0", 0), Target{ContainerID: "L1", Index: 0})
	if !errors.Is(err, errInjected) {
		t.Fatalf("expected injected failure; got %v", err)
	}
	if diff := cmp.Diff([]placed{{"A", 0}, {"B", 1}}, listContents(t, s, "L0")); diff != "" {
		t.Fatalf("origin changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]placed{{"C", 0}}, listContents(t, s, "L1")); diff != "" {
		t.Fatalf("destination changed (-want +got):\n%s", diff)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no change notifications for a rolled back commit; got %v", changes)
	}
}

type countingStorage struct{ calls int }

func (c *countingStorage) Atomically(context.Context, func(store.Repo) error) error {
	c.calls++
	return nil
}

func TestCommit_NoopTouchesNoStorage(t *testing.T) {
	cs := &countingStorage{}
	e := itemEntity("B", "L0", 1)
	for _, idx := range []int{1, 2} {
		out, err := StoreCommitter{Store: cs}.Commit(context.Background(), e, Target{ContainerID: "L0", Index: idx})
		if err != nil || out != OutcomeNoop {
			t.Fatalf("index %d: commit=%v,%v", idx, out, err)
		}
	}
	if cs.calls != 0 {
		t.Fatalf("expected zero storage calls; got %d", cs.calls)
	}
}

func TestCommit_StaleEntityIsIgnored(t *testing.T) {
	s := openTestStore(t)
	seedLists(t, s, map[string][]string{"L0": {"A", "B"}, "L1": {}}, "L0", "L1")
	if err := s.Items().Delete(context.Background(), "A"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	out, err := StoreCommitter{Store: s}.Commit(context.Background(), itemEntity("A", "L0", 0), Target{ContainerID: "L1", Index: 0})
	if err != nil || out != OutcomeStale {
		t.Fatalf("commit=%v,%v; want stale", out, err)
	}
	if got := listContents(t, s, "L1"); len(got) != 0 {
		t.Fatalf("expected L1 untouched; got %v", got)
	}
}

func TestCommit_ArchivedDestinationIsStale(t *testing.T) {
	s := openTestStore(t)
	seedLists(t, s, map[string][]string{"L0": {"A"}}, "L0", "L1")
	ctx := context.Background()
	l1, _ := s.Lists().Get(ctx, "L1")
	l1.Archived = true
	if err := s.Lists().Update(ctx, l1); err != nil {
		t.Fatalf("archive: %v", err)
	}
	out, err := StoreCommitter{Store: s}.Commit(ctx, itemEntity("A", "L0", 0), Target{ContainerID: "L1", Index: 0})
	if err != nil || out != OutcomeStale {
		t.Fatalf("commit=%v,%v; want stale", out, err)
	}
}

func TestMoveList(t *testing.T) {
	s := openTestStore(t)
	seedLists(t, s, nil, "L0", "L1", "L2")
	ctx := context.Background()

	l0, _ := s.Lists().Get(ctx, "L0")
	if out, err := MoveList(ctx, s, l0, 2); err != nil || out != OutcomeMoved {
		t.Fatalf("MoveList=%v,%v", out, err)
	}
	lists, err := s.ListsOfBoard(ctx, "b1", false)
	if err != nil {
		t.Fatalf("lists: %v", err)
	}
	var got []placed
	for _, l := range lists {
		got = append(got, placed{ID: l.ID, Order: l.Order})
	}
	if diff := cmp.Diff([]placed{{"L1", 0}, {"L2", 1}, {"L0", 2}}, got); diff != "" {
		t.Fatalf("lists mismatch (-want +got):\n%s", diff)
	}

	l2, _ := s.Lists().Get(ctx, "L2")
	if out, err := MoveList(ctx, s, l2, l2.Order); err != nil || out != OutcomeNoop {
		t.Fatalf("MoveList to own position=%v,%v; want noop", out, err)
	}
}

func TestMoveItem_ToPosition(t *testing.T) {
	s := openTestStore(t)
	seedLists(t, s, map[string][]string{"L0": {"A", "B", "C"}}, "L0")
	ctx := context.Background()

	a, _ := s.Items().Get(ctx, "A")
	if _, err := MoveItem(ctx, s, a, "L0", 1); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if diff := cmp.Diff([]placed{{"B", 0}, {"A", 1}, {"C", 2}}, listContents(t, s, "L0")); diff != "" {
		t.Fatalf("L0 mismatch (-want +got):\n%s", diff)
	}

	c, _ := s.Items().Get(ctx, "C")
	if _, err := MoveItem(ctx, s, c, "L0", 0); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if diff := cmp.Diff([]placed{{"C", 0}, {"B", 1}, {"A", 2}}, listContents(t, s, "L0")); diff != "" {
		t.Fatalf("L0 mismatch (-want +got):\n%s", diff)
	}
}
