package dnd

import (
	"context"
	"errors"
	"fmt"

	"kanban-cli/internal/model"
	"kanban-cli/internal/order"
	"kanban-cli/internal/store"

	"github.com/sirupsen/logrus"
)

type Outcome int

const (
	// OutcomeNoop: the target was the entity's own position; storage was not touched.
	OutcomeNoop Outcome = iota
	OutcomeMoved
	// OutcomeStale: the entity (or destination) vanished or was archived mid-drag;
	// the transaction was abandoned.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeMoved:
		return "moved"
	case OutcomeStale:
		return "stale"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Storage is the transactional surface Drop Commit needs. *store.Store implements it.
type Storage interface {
	Atomically(ctx context.Context, fn func(store.Repo) error) error
}

var (
	errStale = errors.New("stale drag entity")
	errNoop  = errors.New("noop move")
)

// StoreCommitter is the Committer backed by local storage.
type StoreCommitter struct {
	Store Storage
	Log   logrus.FieldLogger
}

func (c StoreCommitter) logger() logrus.FieldLogger {
	if c.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		return l
	}
	return c.Log
}

// Commit moves e to t. Every write happens in one transaction; the move is
// recomputed from stored data rather than trusting e.Index.
func (c StoreCommitter) Commit(ctx context.Context, e Entity, t Target) (Outcome, error) {
	if t.IsNoop(e) {
		return OutcomeNoop, nil
	}
	var fn func(store.Repo) error
	switch e.Kind {
	case KindItem:
		fn = func(r store.Repo) error { return moveItem(ctx, r, e.ID, t) }
	case KindList:
		fn = func(r store.Repo) error { return moveList(ctx, r, e.ID, t) }
	default:
		return OutcomeNoop, fmt.Errorf("commit: unknown kind %v", e.Kind)
	}

	err := c.Store.Atomically(ctx, fn)
	switch {
	case err == nil:
		return OutcomeMoved, nil
	case errors.Is(err, errNoop):
		return OutcomeNoop, nil
	case errors.Is(err, errStale):
		c.logger().WithFields(logrus.Fields{"kind": e.Kind, "id": e.ID}).Warn("drop on stale entity ignored")
		return OutcomeStale, nil
	default:
		return OutcomeNoop, fmt.Errorf("commit %s %s: %w", e.Kind, e.ID, err)
	}
}

// PositionTarget converts a final position (0-based, within the destination
// after the move) into the gap Target a drop would produce.
func PositionTarget(e Entity, containerID string, pos int) Target {
	if containerID == e.ContainerID && pos > e.Index {
		return Target{ContainerID: containerID, Index: pos + 1}
	}
	return Target{ContainerID: containerID, Index: pos}
}

// MoveItem moves an item outside of a drag (CLI, scripts) using the same
// transactional path as a drop.
func MoveItem(ctx context.Context, s Storage, it model.Item, listID string, pos int) (Outcome, error) {
	e := Entity{Kind: KindItem, ID: it.ID, ContainerID: it.ListID, Index: it.Order}
	return StoreCommitter{Store: s}.Commit(ctx, e, PositionTarget(e, listID, pos))
}

// MoveList is MoveItem for lists within their board.
func MoveList(ctx context.Context, s Storage, l model.List, pos int) (Outcome, error) {
	e := Entity{Kind: KindList, ID: l.ID, ContainerID: l.BoardID, Index: l.Order}
	return StoreCommitter{Store: s}.Commit(ctx, e, PositionTarget(e, l.BoardID, pos))
}

func staleIfMissing(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errStale
	}
	return err
}

func itemPtrs(items []model.Item) []*model.Item {
	out := make([]*model.Item, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func indexOfItem(seq []*model.Item, id string) int {
	for i, it := range seq {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func derefItems(ptrs []*model.Item) []model.Item {
	out := make([]model.Item, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}

func moveItem(ctx context.Context, r store.Repo, itemID string, t Target) error {
	it, err := r.GetItem(ctx, itemID)
	if err != nil {
		return staleIfMissing(err)
	}
	if it.Archived {
		return errStale
	}
	originItems, err := r.ItemsOfList(ctx, it.ListID)
	if err != nil {
		return err
	}
	origin := itemPtrs(originItems)
	from := indexOfItem(origin, it.ID)
	if from < 0 {
		return errStale
	}

	if t.ContainerID == "" || t.ContainerID == it.ListID {
		at := order.InsertionIndex(from, t.Index, true)
		at = clamp(at, 0, len(origin)-1)
		if at == from {
			return errNoop
		}
		changed := order.Reindex(order.Move(origin, from, at))
		return r.PutItems(ctx, derefItems(changed)...)
	}

	dest, err := r.GetList(ctx, t.ContainerID)
	if err != nil {
		return staleIfMissing(err)
	}
	if dest.Archived {
		return errStale
	}
	destItems, err := r.ItemsOfList(ctx, dest.ID)
	if err != nil {
		return err
	}

	changedOrigin := order.Reindex(order.Remove(origin, from))

	moved := origin[from]
	moved.ListID = dest.ID
	destSeq := order.Insert(itemPtrs(destItems), t.Index, moved)
	changedDest := order.Reindex(destSeq)
	if indexOfItem(changedDest, moved.ID) < 0 {
		// Its order may coincide with the new slot, but its list changed.
		changedDest = append(changedDest, moved)
	}

	writes := append(derefItems(changedOrigin), derefItems(changedDest)...)
	return r.PutItems(ctx, writes...)
}

func moveList(ctx context.Context, r store.Repo, listID string, t Target) error {
	l, err := r.GetList(ctx, listID)
	if err != nil {
		return staleIfMissing(err)
	}
	if l.Archived {
		return errStale
	}
	if t.ContainerID != "" && t.ContainerID != l.BoardID {
		return fmt.Errorf("lists cannot move across boards (%s -> %s)", l.BoardID, t.ContainerID)
	}
	sibs, err := r.ListsOfBoard(ctx, l.BoardID)
	if err != nil {
		return err
	}
	seq := make([]*model.List, len(sibs))
	from := -1
	for i := range sibs {
		seq[i] = &sibs[i]
		if sibs[i].ID == l.ID {
			from = i
		}
	}
	if from < 0 {
		return errStale
	}
	at := clamp(order.InsertionIndex(from, t.Index, true), 0, len(seq)-1)
	if at == from {
		return errNoop
	}
	changed := order.Reindex(order.Move(seq, from, at))
	writes := make([]model.List, len(changed))
	for i, p := range changed {
		writes[i] = *p
	}
	return r.PutLists(ctx, writes...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
