package tui

import (
	"errors"
	"strings"

	"kanban-cli/internal/dnd"
	"kanban-cli/internal/mutate"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.mode == modeDetail {
			m.sizeDetail()
		}
		m.relayout(true)
		return m, nil

	case storeChangedMsg:
		if err := m.reload(""); err != nil {
			m.flashErr(err)
		}
		if m.mode == modeDetail {
			m.refreshDetail()
		}
		return m, waitForChange(m.changes)

	case longPressMsg:
		m.drag.LongPress(msg.tok)
		return m, m.host.drain()

	case tea.MouseMsg:
		if m.mode != modeBoard {
			if m.mode == modeDetail {
				var cmd tea.Cmd
				m.detail, cmd = m.detail.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateBoardKeys(msg)
		}
	}
	return m, nil
}

func (m boardModel) updateBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.drag.State().Phase() != dnd.PhaseIdle {
		// Keys other than cancel and quit are ignored mid-gesture.
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.drag.Cancel()
			m.flash("drag cancelled")
			return m, m.host.drain()
		case key.Matches(msg, m.keys.Quit):
			m.drag.Cancel()
			return m, tea.Batch(m.host.drain(), tea.Quit)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.status = ""
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout(true)

	case key.Matches(msg, m.keys.Left):
		m.selectColumn(m.sel.col - 1)
	case key.Matches(msg, m.keys.Right):
		m.selectColumn(m.sel.col + 1)
	case key.Matches(msg, m.keys.Up):
		m.selectItemOffset(-1)
	case key.Matches(msg, m.keys.Down):
		m.selectItemOffset(1)

	case key.Matches(msg, m.keys.Open):
		m.openDetail()
	case key.Matches(msg, m.keys.NewItem):
		if _, ok := m.selectedList(); ok {
			return m, m.startInput(actionNewItem, "New card", "")
		}
		m.flash("create a list first (N)")
	case key.Matches(msg, m.keys.NewList):
		if m.view.Board.ID != "" {
			return m, m.startInput(actionNewList, "New list", "")
		}
		m.flash("create a board first (B)")
	case key.Matches(msg, m.keys.NewBoard):
		return m, m.startInput(actionNewBoard, "New board", "")
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.selectedItem(); ok {
			return m, m.startInput(actionEditItem, "Title", it.Title)
		}
	case key.Matches(msg, m.keys.RenameList):
		if l, ok := m.selectedList(); ok {
			return m, m.startInput(actionRenameList, "List title", l.Title)
		}
	case key.Matches(msg, m.keys.Archive):
		m.archiveSelectedItem()
	case key.Matches(msg, m.keys.ArchiveList):
		m.archiveSelectedList()
	case key.Matches(msg, m.keys.NextBoard):
		if len(m.boards) > 1 {
			next := m.boards[(m.boardIdx+1)%len(m.boards)]
			if err := m.reload(next.ID); err != nil {
				m.flashErr(err)
			}
		}
	}
	return m, nil
}

func (m *boardModel) selectColumn(col int) {
	if len(m.view.Lists) == 0 {
		return
	}
	col = clampInt(col, 0, len(m.view.Lists)-1)
	if col == m.sel.col {
		return
	}
	// Keep roughly the same row when hopping between lists.
	row := 0
	if l, ok := m.selectedList(); ok {
		row = maxInt(0, indexOfItemID(m.view.Items[l.ID], m.sel.itemID))
	}
	m.sel = selection{col: col}
	if items := m.view.Items[m.view.Lists[col].ID]; len(items) > 0 {
		m.sel.itemID = items[clampInt(row, 0, len(items)-1)].ID
	}
	m.relayout(true)
}

func (m *boardModel) selectItemOffset(delta int) {
	l, ok := m.selectedList()
	if !ok {
		return
	}
	items := m.view.Items[l.ID]
	if len(items) == 0 {
		return
	}
	i := clampInt(indexOfItemID(items, m.sel.itemID)+delta, 0, len(items)-1)
	m.sel.itemID = items[i].ID
	m.relayout(true)
}

func (m *boardModel) archiveSelectedItem() {
	it, ok := m.selectedItem()
	if !ok {
		return
	}
	items := m.view.Items[it.ListID]
	next := ""
	if i := indexOfItemID(items, it.ID); i+1 < len(items) {
		next = items[i+1].ID
	} else if i > 0 {
		next = items[i-1].ID
	}
	if _, err := mutate.SetItemArchived(m.ctx, m.st, it.ID, true); err != nil {
		m.flashErr(err)
		return
	}
	m.sel.itemID = next
	m.flash("archived " + it.Title)
	if err := m.reload(""); err != nil {
		m.flashErr(err)
	}
}

func (m *boardModel) archiveSelectedList() {
	l, ok := m.selectedList()
	if !ok {
		return
	}
	if _, err := mutate.SetListArchived(m.ctx, m.st, l.ID, true); err != nil {
		m.flashErr(err)
		return
	}
	m.sel.itemID = ""
	m.flash("archived list " + l.Title)
	if err := m.reload(""); err != nil {
		m.flashErr(err)
	}
}

func (m *boardModel) startInput(a inputAction, placeholder, value string) tea.Cmd {
	m.mode = modeInput
	m.inputAction = a
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.endInput()
		return m, nil
	case tea.KeyEnter:
		err := m.submitInput(strings.TrimSpace(m.input.Value()))
		m.endInput()
		if err != nil {
			m.flashErr(err)
		} else if err := m.reload(""); err != nil {
			m.flashErr(err)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) endInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.inputAction = actionNone
	if m.detailID != "" {
		m.mode = modeDetail
		m.refreshDetail()
		return
	}
	m.mode = modeBoard
}

var errEmptyTitle = errors.New("title is required")

func (m *boardModel) submitInput(v string) error {
	if v == "" {
		return errEmptyTitle
	}
	switch m.inputAction {
	case actionNewItem:
		l, ok := m.selectedList()
		if !ok {
			return nil
		}
		it, err := mutate.CreateItem(m.ctx, m.st, l.ID, v, "")
		if err != nil {
			return err
		}
		m.sel.itemID = it.ID
	case actionNewList:
		if _, err := mutate.CreateList(m.ctx, m.st, m.view.Board.ID, v); err != nil {
			return err
		}
		m.sel = selection{col: len(m.view.Lists)}
	case actionNewBoard:
		b, err := mutate.CreateBoard(m.ctx, m.st, v)
		if err != nil {
			return err
		}
		return m.reload(b.ID)
	case actionEditItem:
		it, ok := m.selectedItem()
		if !ok {
			return nil
		}
		_, err := mutate.EditItem(m.ctx, m.st, it.ID, mutate.ItemEdit{Title: &v})
		return err
	case actionRenameList:
		l, ok := m.selectedList()
		if !ok {
			return nil
		}
		_, err := mutate.RenameList(m.ctx, m.st, l.ID, v)
		return err
	}
	return nil
}

func (m *boardModel) openDetail() {
	it, ok := m.selectedItem()
	if !ok {
		return
	}
	m.mode = modeDetail
	m.detailID = it.ID
	m.sizeDetail()
	m.refreshDetail()
}

func (m *boardModel) sizeDetail() {
	w, h := maxInt(20, m.width-4), maxInt(3, m.height-4)
	if m.detail.Width != w || m.detail.Height != h {
		m.detail = viewport.New(w, h)
	}
}

func (m *boardModel) refreshDetail() {
	it, ok := m.selectedItem()
	if !ok || it.ID != m.detailID {
		m.closeDetail()
		return
	}
	m.detail.SetContent(m.renderDetailBody(it))
}

func (m *boardModel) closeDetail() {
	m.mode = modeBoard
	m.detailID = ""
}

func (m boardModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), msg.String() == "q", key.Matches(msg, m.keys.Open):
		m.closeDetail()
		return m, nil
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.selectedItem(); ok {
			return m, m.startInput(actionEditItem, "Title", it.Title)
		}
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

