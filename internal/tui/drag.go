package tui

import (
	"strconv"
	"strings"
	"time"

	"kanban-cli/internal/dnd"

	tea "github.com/charmbracelet/bubbletea"
)

// dragHost is the terminal side of a drag session. Capture switches the
// terminal to all-motion mouse reporting and hides the cursor; the board also
// stops drawing the keyboard selection while capture is held.
type dragHost struct {
	capturing bool
	pending   []tea.Cmd
}

func (h *dragHost) DragStarted(dnd.Entity) {
	h.capturing = true
	h.pending = append(h.pending, tea.EnableMouseAllMotion, tea.HideCursor)
}

func (h *dragHost) DragEnded(dnd.Entity) {
	h.capturing = false
	h.pending = append(h.pending, tea.EnableMouseCellMotion, tea.ShowCursor)
}

func (h *dragHost) drain() tea.Cmd {
	cmds := h.pending
	h.pending = nil
	return tea.Batch(cmds...)
}

func longPressAfter(tok dnd.Token) tea.Cmd {
	return tea.Tick(tok.Delay, func(time.Time) tea.Msg { return longPressMsg{tok: tok} })
}

// sourceAt builds the drag source for the card or column header under p.
func (m boardModel) sourceAt(p dnd.Point) (dnd.Source, bool) {
	col, card := m.lay.hit(p)
	if col == nil {
		return dnd.Source{}, false
	}
	w := m.lay.colW
	if card != nil {
		cb := *card
		return dnd.Source{
			Entity: dnd.Entity{Kind: dnd.KindItem, ID: cb.item.ID, ContainerID: col.list.ID, Index: cb.index},
			Bounds: cb.rect,
			Clone:  func() string { return renderCardClone(cb, w) },
		}, true
	}
	if col.header.Contains(p) {
		c := *col
		return dnd.Source{
			Entity: dnd.Entity{Kind: dnd.KindList, ID: c.list.ID, ContainerID: c.list.BoardID, Index: c.index},
			Bounds: c.header,
			Clone:  func() string { return renderHeaderClone(c, w) },
		}, true
	}
	return dnd.Source{}, false
}

func (m boardModel) updateMouse(msg tea.MouseMsg) (boardModel, tea.Cmd) {
	p := dnd.Point{X: msg.X, Y: msg.Y}
	var cmds []tea.Cmd

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if m.drag.State().Phase() == dnd.PhaseIdle {
				m.wheel(p, msg.Button == tea.MouseButtonWheelDown)
			}
		case tea.MouseButtonLeft:
			src, ok := m.sourceAt(p)
			if !ok {
				m.clickEmpty(p)
				break
			}
			if tok, ok := m.drag.PointerDown(src, p, true); ok {
				cmds = append(cmds, longPressAfter(tok))
			}
		case tea.MouseButtonRight:
			// Right click is the terminal's context menu gesture: drag at once.
			if src, ok := m.sourceAt(p); ok {
				if _, ok := m.drag.PointerDown(src, p, true); ok {
					m.drag.ContextMenu()
				}
			}
		default:
			if src, ok := m.sourceAt(p); ok {
				m.drag.PointerDown(src, p, false)
			}
		}
	case tea.MouseActionMotion:
		m.drag.PointerMove(p)
	case tea.MouseActionRelease:
		rel, err := m.drag.PointerUp(m.ctx, p)
		m.afterRelease(rel, err)
	}

	cmds = append(cmds, m.host.drain())
	return m, tea.Batch(cmds...)
}

func (m *boardModel) afterRelease(rel dnd.Release, err error) {
	switch {
	case rel.Click:
		m.click(rel.Entity)
		return
	case rel.Entity.ID == "":
		return
	case err != nil:
		m.flashErr(err)
	case rel.Outcome == dnd.OutcomeStale:
		m.flash(rel.Entity.Kind.String() + " changed while dragging; drop ignored")
	case rel.Outcome == dnd.OutcomeMoved:
		m.flash("moved " + rel.Entity.Kind.String())
		if rel.Entity.Kind == dnd.KindItem {
			m.sel.itemID = rel.Entity.ID
		}
	}
	if err := m.reload(""); err != nil {
		m.flashErr(err)
	}
	if rel.Outcome == dnd.OutcomeMoved && rel.Entity.Kind == dnd.KindList {
		if i := m.listIndex(rel.Entity.ID); i >= 0 {
			m.sel = selection{col: i}
			m.fixSelection()
			m.relayout(true)
		}
	}
}

// click runs the normal press-and-release behaviour: select, and open a card
// that was already selected.
func (m *boardModel) click(e dnd.Entity) {
	i := m.listIndex(e.ContainerID)
	switch e.Kind {
	case dnd.KindItem:
		if i < 0 {
			return
		}
		if m.sel.itemID == e.ID {
			m.openDetail()
			return
		}
		m.sel = selection{col: i, itemID: e.ID}
	case dnd.KindList:
		if j := m.listIndex(e.ID); j >= 0 {
			m.sel = selection{col: j}
			m.fixSelection()
		}
	}
	m.relayout(true)
}

func (m *boardModel) clickEmpty(p dnd.Point) {
	col, _ := m.lay.hit(p)
	if col == nil || col.index == m.sel.col {
		return
	}
	m.sel = selection{col: col.index}
	m.fixSelection()
	m.relayout(true)
}

func (m *boardModel) wheel(p dnd.Point, down bool) {
	col, _ := m.lay.hit(p)
	if col == nil {
		return
	}
	if down {
		m.scroll[col.list.ID] += 2
	} else {
		m.scroll[col.list.ID] -= 2
	}
	m.relayout(false)
}

func (m boardModel) listIndex(listID string) int {
	for i, l := range m.view.Lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

// dragStatus is the title bar hint shown while a session is live.
func (m boardModel) dragStatus() string {
	sess, ok := m.drag.State().Session()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString("dragging " + sess.Entity.Kind.String())
	if !sess.Over {
		b.WriteString(" (outside board)")
	}
	if sess.Entity.Kind == dnd.KindItem {
		if i := m.listIndex(sess.Target.ContainerID); i >= 0 {
			b.WriteString(" → " + m.view.Lists[i].Title)
		}
	}
	b.WriteString(" @" + strconv.Itoa(sess.Target.Index) + " · esc cancels")
	return b.String()
}
