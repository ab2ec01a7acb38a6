package tui

import (
	"fmt"
	"strings"

	"kanban-cli/internal/dnd"
	"kanban-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m boardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "loading…"
	}
	if m.mode == modeDetail || (m.mode == modeInput && m.detailID != "") {
		return m.viewDetail()
	}

	var b strings.Builder
	b.WriteString(normalizePane(m.viewTitle(), m.width, boardTop))
	b.WriteString("\n")
	b.WriteString(m.viewBody())
	b.WriteString("\n")
	b.WriteString(normalizePane(m.viewFooter(), m.width, m.height-boardTop-m.lay.body.H))
	screen := b.String()

	if sess, ok := m.drag.State().Session(); ok && sess.Clone != "" {
		o := sess.CloneOrigin()
		// The clone's border sits one cell outside the source bounds.
		screen = overlay(screen, sess.Clone, o.X-1, o.Y-1)
		screen = normalizePane(screen, m.width, m.height)
	}
	return screen
}

func (m boardModel) viewTitle() string {
	if m.view.Board.ID == "" {
		return titleBarStyle.Render("kanban") + "  " + styleMuted().Render("no boards yet · B creates one")
	}
	title := titleBarStyle.Render(m.view.Board.Title)
	if len(m.boards) > 1 {
		title += styleMuted().Render(fmt.Sprintf("  board %d/%d", m.boardIdx+1, len(m.boards)))
	}
	if s := m.dragStatus(); s != "" {
		title += "  " + dropHintStyle.Render(s)
	}
	return title
}

func (m boardModel) viewFooter() string {
	var lines []string
	switch {
	case m.mode == modeInput:
		lines = append(lines, m.input.View())
	case m.status != "":
		st := styleMuted()
		if m.statusErr {
			st = statusErrorStyle
		}
		lines = append(lines, st.Render(m.status))
	default:
		lines = append(lines, "")
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m boardModel) viewBody() string {
	h := m.lay.body.H
	if len(m.view.Lists) == 0 {
		msg := "no lists · N adds one"
		if m.view.Board.ID == "" {
			msg = ""
		}
		return normalizePane(styleMuted().Render(msg), m.width, h)
	}

	sess, dragging := m.drag.State().Session()
	var blocks []string
	for _, c := range m.lay.cols {
		if !c.visible {
			continue
		}
		if len(blocks) > 0 {
			blocks = append(blocks, normalizePane("", colGap, h))
		}
		blocks = append(blocks, m.renderColumn(c, sess, dragging))
	}
	body := normalizePane(lipgloss.JoinHorizontal(lipgloss.Top, blocks...), m.width, h)
	if dragging {
		body = m.drawDropHint(body, sess)
	}
	return body
}

func (m boardModel) renderColumn(c columnBox, sess dnd.Session, dragging bool) string {
	w, h := m.lay.colW, m.lay.body.H
	selected := !dragging && c.index == m.sel.col
	listDragged := dragging && sess.Entity.Kind == dnd.KindList && sess.Entity.ID == c.list.ID

	header := fmt.Sprintf(" %s (%d)", c.list.Title, len(c.cards))
	hs := headerStyle
	switch {
	case listDragged:
		hs = styleMuted()
	case selected:
		hs = headerSelectedStyle
	}
	lines := []string{hs.Render(normalizePane(header, w, 1)), ""}

	var content []string
	for i, cb := range c.cards {
		if i > 0 {
			content = append(content, "")
		}
		content = append(content, m.renderCard(cb, w, selected, listDragged, sess, dragging)...)
	}
	if len(c.cards) == 0 {
		content = append(content, styleMuted().Render(" (empty)"))
	}
	off := m.scroll[c.list.ID]
	view := h - cardTop
	for i := off; i < off+view && i < len(content); i++ {
		if i >= 0 {
			lines = append(lines, content[i])
		}
	}
	if off > 0 {
		lines[1] = styleMuted().Render(normalizePane(" ↑ more", w, 1))
	}
	return normalizePane(strings.Join(lines, "\n"), w, h)
}

func (m boardModel) renderCard(cb cardBox, w int, colSelected, listDragged bool, sess dnd.Session, dragging bool) []string {
	st := cardStyle
	switch {
	case listDragged || (dragging && sess.Entity.Kind == dnd.KindItem && sess.Entity.ID == cb.item.ID):
		// The original stays in place, dimmed, until the drop commits.
		st = styleMuted()
	case colSelected && cb.item.ID == m.sel.itemID:
		st = cardSelectedStyle
	}
	out := make([]string, 0, len(cb.lines)+1)
	for _, ln := range cb.lines {
		out = append(out, st.Render(normalizePane(" "+ln, w, 1)))
	}
	if cb.tags != "" {
		out = append(out, cardTagStyle.Render(normalizePane(" "+cb.tags, w, 1)))
	}
	return out
}

// drawDropHint marks where the session's current target would land: a
// horizontal rule between cards for item drags, a vertical bar between columns
// for list drags.
func (m boardModel) drawDropHint(body string, sess dnd.Session) string {
	top := m.lay.body.Y
	switch sess.Entity.Kind {
	case dnd.KindItem:
		c, ok := m.lay.column(sess.Target.ContainerID)
		if !ok || !c.visible {
			return body
		}
		y := m.lay.cardsTop()
		switch {
		case sess.Target.Index < len(c.cards):
			y = c.cards[sess.Target.Index].rect.Y - 1
		case len(c.cards) > 0:
			last := c.cards[len(c.cards)-1].rect
			y = last.Y + last.H
		}
		if y < m.lay.cardsTop()-1 || y >= m.lay.bodyBottom() {
			return body
		}
		return overlay(body, dropHintStyle.Render(strings.Repeat("━", c.rect.W)), c.rect.X, y-top)

	case dnd.KindList:
		cols := m.lay.cols
		if len(cols) == 0 {
			return body
		}
		var x int
		if i := sess.Target.Index; i < len(cols) {
			x = cols[i].rect.X - 1
		} else {
			last := cols[len(cols)-1].rect
			x = last.X + last.W
		}
		if x < 0 {
			x = 0
		}
		if x >= m.width {
			return body
		}
		bar := strings.TrimSuffix(strings.Repeat(dropHintStyle.Render("┃")+"\n", m.lay.body.H), "\n")
		return overlay(body, bar, x, 0)
	}
	return body
}

func renderCardClone(cb cardBox, w int) string {
	text := strings.Join(cb.lines, "\n")
	if cb.tags != "" {
		text += "\n" + cardTagStyle.Render(cb.tags)
	}
	return cloneStyle.Width(maxInt(1, w-2)).Render(text)
}

func renderHeaderClone(c columnBox, w int) string {
	return cloneHeaderStyle.Width(maxInt(1, w-2)).Render(fmt.Sprintf("%s (%d)", c.list.Title, len(c.cards)))
}

func (m boardModel) viewDetail() string {
	it, ok := m.selectedItem()
	if !ok {
		return ""
	}
	footer := styleMuted().Render("esc close · e edit title · ↑/↓ scroll")
	if m.mode == modeInput {
		footer = m.input.View()
	}
	box := detailBoxStyle.Width(maxInt(10, m.width-2)).Render(m.detail.View())
	return normalizePane(detailTitleStyle.Render(it.Title)+"\n"+box+"\n"+footer, m.width, m.height)
}

func (m boardModel) renderDetailBody(it model.Item) string {
	var b strings.Builder
	if l, ok := m.selectedList(); ok {
		b.WriteString(styleMuted().Render("in " + l.Title + " · " + m.view.Board.Title))
		b.WriteString("\n")
	}
	if tags := m.view.Tags[it.ID]; len(tags) > 0 {
		b.WriteString(cardTagStyle.Render("#" + strings.Join(tags, " #")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if body := renderMarkdown(it.Content, m.detail.Width, m.cfg.MarkdownStyle); body != "" {
		b.WriteString(body)
	} else {
		b.WriteString(styleMuted().Render("(no content)"))
	}
	if len(it.ReferenceItems) > 0 {
		b.WriteString("\n\n")
		b.WriteString(detailTitleStyle.Render("References"))
		for _, ref := range it.ReferenceItems {
			b.WriteString("\n  " + m.referenceTitle(ref))
		}
	}
	return b.String()
}

func (m boardModel) referenceTitle(id string) string {
	for _, items := range m.view.Items {
		if i := indexOfItemID(items, id); i >= 0 {
			return items[i].Title
		}
	}
	return styleMuted().Render(id)
}
