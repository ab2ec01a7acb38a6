package order

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type row struct {
	id string
	o  int
}

func (r *row) OrderIndex() int     { return r.o }
func (r *row) SetOrderIndex(i int) { r.o = i }

func rows(ids ...string) []*row {
	out := make([]*row, len(ids))
	for i, id := range ids {
		out[i] = &row{id: id, o: i}
	}
	return out
}

func ids(seq []*row) []string {
	out := make([]string, len(seq))
	for i, r := range seq {
		out[i] = r.id
	}
	return out
}

func orders(seq []*row) []int {
	out := make([]int, len(seq))
	for i, r := range seq {
		out[i] = r.o
	}
	return out
}

func TestReindex_EmptyAndDense(t *testing.T) {
	if got := Reindex([]*row{}); len(got) != 0 {
		t.Fatalf("expected no changes for empty input; got %v", ids(got))
	}
	if got := Reindex(rows("a", "b", "c")); len(got) != 0 {
		t.Fatalf("expected no changes for dense input; got %v", ids(got))
	}
}

func TestReindex_ReturnsOnlyChanged(t *testing.T) {
	seq := Move(rows("a", "b", "c", "d", "e"), 3, 1) // a d b c e
	changed := Reindex(seq)

	if diff := cmp.Diff([]string{"d", "b", "c"}, ids(changed)); diff != "" {
		t.Fatalf("changed ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, orders(seq)); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
}

func TestMove_SameContainerCorrection(t *testing.T) {
	// [A,B,C,D]; B is dragged and the scan over [A,C,D] yields raw index 3 (after D).
	raw := 3
	target := CorrectIndex(1, raw, true)
	at := InsertionIndex(1, target, true)
	if at != 3 {
		t.Fatalf("expected insertion index 3; got %d (target %d)", at, target)
	}
	final := Move(rows("A", "B", "C", "D"), 1, at)
	Reindex(final)
	if diff := cmp.Diff([]string{"A", "C", "D", "B"}, ids(final)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, orders(final)); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}

	// Raw index 2 (above D) lands between C and D.
	final = Move(rows("A", "B", "C", "D"), 1, InsertionIndex(1, CorrectIndex(1, 2, true), true))
	Reindex(final)
	if diff := cmp.Diff([]string{"A", "C", "B", "D"}, ids(final)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	// Raw index 1 (between A and C) is B's own slot.
	if at := InsertionIndex(1, CorrectIndex(1, 1, true), true); at != 1 {
		t.Fatalf("expected no-op insertion index 1; got %d", at)
	}
}

func TestCorrectIndex(t *testing.T) {
	cases := []struct {
		origin, raw int
		same        bool
		want        int
	}{
		{origin: 1, raw: 3, same: true, want: 4},
		{origin: 1, raw: 1, same: true, want: 2},
		{origin: 2, raw: 0, same: true, want: 0},
		{origin: 1, raw: 3, same: false, want: 3},
	}
	for _, tc := range cases {
		if got := CorrectIndex(tc.origin, tc.raw, tc.same); got != tc.want {
			t.Fatalf("CorrectIndex(%d,%d,%v)=%d; want %d", tc.origin, tc.raw, tc.same, got, tc.want)
		}
	}
}

func TestReindex_DensityAndMinimalWrites_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seq := rows("a", "b", "c", "d", "e", "f", "g", "h")
	for step := 0; step < 500; step++ {
		switch rng.Intn(3) {
		case 0:
			from, to := rng.Intn(len(seq)), rng.Intn(len(seq))
			next := Move(seq, from, to)
			changed := Reindex(next)
			if limit := abs(from-to) + 1; len(changed) > limit {
				t.Fatalf("step %d: move %d->%d wrote %d rows; want <= %d", step, from, to, len(changed), limit)
			}
			for _, c := range changed {
				if c.o == indexOf(seq, c) {
					t.Fatalf("step %d: %s returned although its order was already correct", step, c.id)
				}
			}
			seq = next
		case 1:
			if len(seq) > 1 {
				seq = Remove(seq, rng.Intn(len(seq)))
				Reindex(seq)
			}
		case 2:
			seq = Insert(seq, rng.Intn(len(seq)+1), &row{id: "n", o: -1})
			Reindex(seq)
		}
		if err := CheckDense(seq); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}

func TestCheckDense(t *testing.T) {
	seq := rows("a", "b", "c")
	seq[2].o = 3
	if err := CheckDense(seq); err == nil {
		t.Fatalf("expected gap to be reported")
	}
	seq[2].o = 1
	if err := CheckDense(seq); err == nil {
		t.Fatalf("expected duplicate to be reported")
	}
}

func indexOf(seq []*row, r *row) int {
	for i := range seq {
		if seq[i] == r {
			return i
		}
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
