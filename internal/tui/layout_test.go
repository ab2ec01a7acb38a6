package tui

import (
	"testing"

	"kanban-cli/internal/dnd"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
)

func TestWrapText(t *testing.T) {
	cases := []struct {
		in    string
		width int
		max   int
		want  []string
	}{
		{in: "", width: 10, max: 3, want: []string{""}},
		{in: "fix the login bug", width: 10, max: 3, want: []string{"fix the", "login bug"}},
		{in: "abcdefghijkl", width: 5, max: 3, want: []string{"abcde", "fghij", "kl"}},
		{in: "one two three four five six", width: 7, max: 2, want: []string{"one two", "three…"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, wrapText(tc.in, tc.width, tc.max)); diff != "" {
			t.Fatalf("wrapText(%q, %d) mismatch (-want +got):\n%s", tc.in, tc.width, diff)
		}
	}
}

func TestOverlay_PreservesSurroundingCells(t *testing.T) {
	base := "..........\n..........\n.........."
	got := overlay(base, "AB\nCD", 3, 1)
	want := "..........\n...AB.....\n...CD....."
	if got != want {
		t.Fatalf("overlay mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
	// Blocks hanging off the left edge are clipped.
	if got := overlay("....", "XYZ", -1, 0); got != "YZ.." {
		t.Fatalf("expected left clip; got %q", got)
	}
}

func TestNormalizePane(t *testing.T) {
	got := normalizePane("abc\nlonger line", 6, 3)
	want := "abc   \nlonge…\n      "
	if got != want {
		t.Fatalf("normalizePane mismatch: %q", got)
	}
	for _, ln := range []string{"abc   ", "longe…"} {
		if w := xansi.StringWidth(ln); w != 6 {
			t.Fatalf("expected width 6 for %q; got %d", ln, w)
		}
	}
}

func manyLists(n int) store.BoardView {
	v := store.BoardView{Board: model.Board{ID: "b1"}, Items: map[string][]model.Item{}, Tags: map[string][]string{}}
	for i := 0; i < n; i++ {
		id := string(rune('p' + i))
		v.Lists = append(v.Lists, model.List{ID: id, BoardID: "b1", Title: id, Order: i})
		v.Items[id] = []model.Item{{ID: id + "1", ListID: id, Title: "first"}, {ID: id + "2", ListID: id, Title: "second", Order: 1}}
	}
	return v
}

func TestComputeLayout_ScrolledColumnsKeepGlobalListIndex(t *testing.T) {
	// 60 cells fit three 18-cell columns; five lists scrolled by two.
	l := computeLayout(manyLists(5), 60, 20, 2, 2, map[string]int{})
	if l.colW != minColW || l.visibleCols != 3 || l.first != 2 {
		t.Fatalf("unexpected layout: colW=%d visible=%d first=%d", l.colW, l.visibleCols, l.first)
	}
	reg := dnd.NewRegistry()
	l.register(reg)
	if reg.Len() != 5 {
		t.Fatalf("expected all lists registered; got %d", reg.Len())
	}

	// Drag the list at index 4 (screen x=40) onto the first visible column.
	sess := dnd.Session{
		Entity:  dnd.Entity{Kind: dnd.KindList, ID: "t", ContainerID: "b1", Index: 4},
		Pointer: dnd.Point{X: 5, Y: boardTop},
		Target:  dnd.Target{ContainerID: "b1", Index: 4},
	}
	got, over := dnd.Resolve(reg, sess)
	if !over {
		t.Fatalf("expected pointer over the board")
	}
	// Hidden lists p and q sit left of the pointer, as does the header of r.
	if got.Index != 3 {
		t.Fatalf("expected global index 3; got %d", got.Index)
	}

	// Off-screen columns cannot receive item drops.
	if c, _ := reg.Container("p"); !c.Bounds.Empty() {
		t.Fatalf("expected hidden column to have no drop bounds; got %+v", c.Bounds)
	}
}

func TestComputeLayout_ScrollShiftsCards(t *testing.T) {
	v := manyLists(1)
	l := computeLayout(v, 40, 20, 2, 0, map[string]int{"p": 2})
	c := l.cols[0]
	if c.cards[0].rect.Y != l.cardsTop()-2 || c.cards[1].rect.Y != l.cardsTop() {
		t.Fatalf("unexpected card rows: %+v %+v", c.cards[0].rect, c.cards[1].rect)
	}
	if _, card := l.hit(dnd.Point{X: 1, Y: l.cardsTop()}); card == nil || card.item.ID != "p2" {
		t.Fatalf("expected to hit the second card after scrolling")
	}
}

func TestScrollToShow(t *testing.T) {
	// Body of 10 rows leaves 8 for cards.
	if got := scrollToShow(0, 3, 1, 10); got != 0 {
		t.Fatalf("visible row must not scroll; got %d", got)
	}
	if got := scrollToShow(0, 9, 2, 10); got != 3 {
		t.Fatalf("expected scroll to 3; got %d", got)
	}
	if got := scrollToShow(5, 2, 1, 10); got != 2 {
		t.Fatalf("expected scroll back to 2; got %d", got)
	}
}
