package tui

import (
	"strings"

	"kanban-cli/internal/dnd"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	minColW = 18
	maxColW = 34
	colGap  = 2

	// boardTop is the first row below the title bar.
	boardTop = 2
	// cardTop is the offset of the first card below the column header.
	cardTop = 2
	// maxTitleLines caps how tall a card grows for long titles.
	maxTitleLines = 3
)

type cardBox struct {
	item  model.Item
	index int
	// rect is in screen cells; cards scrolled out of the column have rows outside
	// the body.
	rect  dnd.Rect
	lines []string
	tags  string
}

type columnBox struct {
	list    model.List
	index   int
	rect    dnd.Rect
	header  dnd.Rect
	cards   []cardBox
	content int // total card rows, separators included
	visible bool
}

// boardLayout is one layout pass over a board view: where every column and card
// sits on screen, visible or not.
type boardLayout struct {
	width, height int
	colW          int
	first         int
	visibleCols   int
	body          dnd.Rect
	cols          []columnBox
}

func (l boardLayout) bodyBottom() int { return l.body.Y + l.body.H }

// cardsTop is the first screen row cards may occupy.
func (l boardLayout) cardsTop() int { return l.body.Y + cardTop }

func columnWidth(width, n int) int {
	if n <= 0 {
		return maxColW
	}
	w := (width - colGap*(n-1)) / n
	if w < minColW {
		w = minColW
	}
	if w > maxColW {
		w = maxColW
	}
	return w
}

// computeLayout places the view's columns left to right starting at column
// first, with each column's cards shifted up by scroll[listID] rows. footer is
// the number of rows reserved below the board.
func computeLayout(v store.BoardView, width, height, footer, first int, scroll map[string]int) boardLayout {
	n := len(v.Lists)
	l := boardLayout{width: width, height: height, colW: columnWidth(width, n)}
	bodyH := height - boardTop - footer
	if bodyH < cardTop+1 {
		bodyH = cardTop + 1
	}
	l.body = dnd.Rect{X: 0, Y: boardTop, W: width, H: bodyH}

	l.visibleCols = (width + colGap) / (l.colW + colGap)
	if l.visibleCols < 1 {
		l.visibleCols = 1
	}
	l.first = clampInt(first, 0, maxInt(0, n-l.visibleCols))

	for i, list := range v.Lists {
		x := (i - l.first) * (l.colW + colGap)
		col := columnBox{
			list:    list,
			index:   i,
			rect:    dnd.Rect{X: x, Y: l.body.Y, W: l.colW, H: bodyH},
			header:  dnd.Rect{X: x, Y: l.body.Y, W: l.colW, H: 1},
			visible: i >= l.first && i < l.first+l.visibleCols,
		}
		y := l.cardsTop() - scroll[list.ID]
		for j, it := range v.Items[list.ID] {
			lines := wrapText(it.Title, l.colW-2, maxTitleLines)
			tags := ""
			if ts := v.Tags[it.ID]; len(ts) > 0 {
				tags = "#" + strings.Join(ts, " #")
			}
			h := len(lines)
			if tags != "" {
				h++
			}
			col.cards = append(col.cards, cardBox{
				item:  it,
				index: j,
				rect:  dnd.Rect{X: x, Y: y, W: l.colW, H: h},
				lines: lines,
				tags:  tags,
			})
			y += h + 1
		}
		col.content = y - (l.cardsTop() - scroll[list.ID])
		l.cols = append(l.cols, col)
	}
	return l
}

// register publishes the pass to the drop registry. Every column is registered,
// including ones scrolled off screen, so list indexes stay global; lists that
// left the board are unregistered.
func (l boardLayout) register(r *dnd.Registry) {
	r.SetScope(l.body)
	ids := make([]string, 0, len(l.cols))
	for _, c := range l.cols {
		children := make([]dnd.Element, len(c.cards))
		for i, cb := range c.cards {
			children[i] = dnd.Element{ID: cb.item.ID, Bounds: cb.rect}
		}
		bounds := c.rect
		if !c.visible {
			bounds = dnd.Rect{}
		}
		r.Register(dnd.Container{
			ID:     c.list.ID,
			Order:  c.index,
			Bounds: bounds,
			Header: c.header,
		}, children)
		ids = append(ids, c.list.ID)
	}
	r.Retain(ids)
}

func (l boardLayout) column(listID string) (columnBox, bool) {
	for _, c := range l.cols {
		if c.list.ID == listID {
			return c, true
		}
	}
	return columnBox{}, false
}

// hit finds the visible card or header under p.
func (l boardLayout) hit(p dnd.Point) (col *columnBox, card *cardBox) {
	if !l.body.Contains(p) {
		return nil, nil
	}
	for i := range l.cols {
		c := &l.cols[i]
		if !c.visible || !c.rect.Contains(p) {
			continue
		}
		if c.header.Contains(p) {
			return c, nil
		}
		if p.Y < l.cardsTop() {
			return c, nil
		}
		for j := range c.cards {
			if c.cards[j].rect.Contains(p) {
				return c, &c.cards[j]
			}
		}
		return c, nil
	}
	return nil, nil
}

// scrollToShow returns the scroll offset that keeps rows [top, top+h) of a
// column's content inside a body of bodyH rows.
func scrollToShow(cur, top, h, bodyH int) int {
	view := bodyH - cardTop
	if view < 1 {
		view = 1
	}
	if top < cur {
		return top
	}
	if top+h > cur+view {
		return top + h - view
	}
	return cur
}

// wrapText greedily wraps s into at most maxLines lines of width cells; an
// overflowing last line ends in an ellipsis.
func wrapText(s string, width, maxLines int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range words {
		for xansi.StringWidth(w) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, xansi.Cut(w, 0, width))
			w = xansi.Cut(w, width, xansi.StringWidth(w))
		}
		switch {
		case cur == "":
			cur = w
		case xansi.StringWidth(cur)+1+xansi.StringWidth(w) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		if xansi.StringWidth(last) >= width {
			last = xansi.Cut(last, 0, width-1)
		}
		lines[maxLines-1] = last + "…"
	}
	return lines
}

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and
// height lines tall.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch width {
			case 0:
				ln = ""
			case 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// overlay draws block over base with its top-left corner at (x, y). Both are
// newline separated; cells of base outside the block are preserved.
func overlay(base, block string, x, y int) string {
	rows := strings.Split(base, "\n")
	for i, bl := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(rows) {
			continue
		}
		rows[row] = spliceLine(rows[row], bl, x)
	}
	return strings.Join(rows, "\n")
}

func spliceLine(line, s string, x int) string {
	sw := xansi.StringWidth(s)
	if x < 0 {
		s = xansi.Cut(s, -x, sw)
		sw += x
		x = 0
	}
	if sw <= 0 {
		return line
	}
	lw := xansi.StringWidth(line)
	if lw < x {
		line += strings.Repeat(" ", x-lw)
		lw = x
	}
	right := ""
	if x+sw < lw {
		right = xansi.Cut(line, x+sw, lw)
	}
	return xansi.Cut(line, 0, x) + s + right
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
