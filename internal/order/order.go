// Package order maintains dense 0..n-1 ordering for sibling sets (a board's lists,
// a list's items) and plans the minimal set of writes needed after a change.
package order

import (
	"fmt"
	"sort"
)

// Entity is anything carrying a per-container order index.
type Entity interface {
	OrderIndex() int
	SetOrderIndex(int)
}

// Reindex assigns each element its position as order and returns only the elements
// whose order actually changed, in sequence order.
//
// seq must already be in the desired final order (spliced by the caller).
func Reindex[T Entity](seq []T) []T {
	var changed []T
	for i, e := range seq {
		if e.OrderIndex() == i {
			continue
		}
		e.SetOrderIndex(i)
		changed = append(changed, e)
	}
	return changed
}

// Sort sorts seq in place by current order. Ties keep their relative position.
func Sort[T Entity](seq []T) {
	sort.SliceStable(seq, func(i, j int) bool { return seq[i].OrderIndex() < seq[j].OrderIndex() })
}

// Remove returns a new slice without the element at i.
func Remove[T any](seq []T, i int) []T {
	if i < 0 || i >= len(seq) {
		return append([]T(nil), seq...)
	}
	out := make([]T, 0, len(seq)-1)
	out = append(out, seq[:i]...)
	return append(out, seq[i+1:]...)
}

// Insert returns a new slice with e placed at index at (clamped to [0, len(seq)]).
func Insert[T any](seq []T, at int, e T) []T {
	at = clamp(at, 0, len(seq))
	out := make([]T, 0, len(seq)+1)
	out = append(out, seq[:at]...)
	out = append(out, e)
	return append(out, seq[at:]...)
}

// Move returns a new slice with the element at from moved to index to, where to is
// expressed in the coordinate system after removal.
func Move[T any](seq []T, from, to int) []T {
	if from < 0 || from >= len(seq) {
		return append([]T(nil), seq...)
	}
	e := seq[from]
	return Insert(Remove(seq, from), to, e)
}

// CorrectIndex converts a raw drop index (computed over the sibling set with the
// dragged element excluded) into the index the element ends up at in the full set.
// When the element comes from the same container and its original index is at or
// before the raw index, every later slot is shifted by one.
func CorrectIndex(originIdx, rawIdx int, sameContainer bool) int {
	if sameContainer && originIdx >= 0 && originIdx <= rawIdx {
		return rawIdx + 1
	}
	return rawIdx
}

// InsertionIndex converts a corrected drop index back into "after removal"
// coordinates for a same-container move.
func InsertionIndex(originIdx, target int, sameContainer bool) int {
	if sameContainer && originIdx >= 0 && originIdx < target {
		return target - 1
	}
	return target
}

// DenseError reports a sibling set whose orders are not exactly 0..n-1.
type DenseError struct {
	Index int
	Got   int
}

func (e DenseError) Error() string {
	return fmt.Sprintf("order not dense: position %d has order %d", e.Index, e.Got)
}

// CheckDense verifies that seq, sorted by order, holds exactly 0..n-1.
func CheckDense[T Entity](seq []T) error {
	orders := make([]int, len(seq))
	for i, e := range seq {
		orders[i] = e.OrderIndex()
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i {
			return DenseError{Index: i, Got: o}
		}
	}
	return nil
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
