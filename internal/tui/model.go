package tui

import (
	"context"

	"kanban-cli/internal/config"
	"kanban-cli/internal/dnd"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

type viewMode int

const (
	modeBoard viewMode = iota
	modeInput
	modeDetail
)

type inputAction int

const (
	actionNone inputAction = iota
	actionNewItem
	actionNewList
	actionNewBoard
	actionEditItem
	actionRenameList
)

type selection struct {
	col    int
	itemID string
}

type storeChangedMsg struct{}

type longPressMsg struct{ tok dnd.Token }

// boardModel is the bubbletea model for one open board. The drag engine state
// lives behind pointers so copies made by value receivers share it.
type boardModel struct {
	ctx context.Context
	st  *store.Store
	cfg config.Config
	log logrus.FieldLogger

	boards   []model.Board
	boardIdx int
	view     store.BoardView

	width, height int
	first         int
	scroll        map[string]int
	lay           boardLayout
	sel           selection

	reg  *dnd.Registry
	drag *dnd.Controller
	host *dragHost

	mode        viewMode
	input       textinput.Model
	inputAction inputAction
	detail      viewport.Model
	detailID    string

	keys keyMap
	help help.Model

	status    string
	statusErr bool

	changes <-chan struct{}
}

func newBoardModel(ctx context.Context, opts Options) (boardModel, error) {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	log = log.WithField("component", "tui")

	in := textinput.New()
	in.CharLimit = 200
	in.Prompt = "› "

	m := boardModel{
		ctx:    ctx,
		st:     opts.Store,
		cfg:    opts.Config,
		log:    log,
		scroll: map[string]int{},
		reg:    dnd.NewRegistry(),
		host:   &dragHost{},
		input:  in,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	m.drag = dnd.NewController(
		dnd.Config{LongPress: opts.Config.LongPress(), MoveSlop: opts.Config.MoveSlop},
		m.reg,
		m.host,
		dnd.StoreCommitter{Store: opts.Store, Log: log},
		log,
	)
	if err := m.reload(opts.BoardID); err != nil {
		return boardModel{}, err
	}
	return m, nil
}

func (m boardModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// reload re-reads boards and the shown board from storage, keeping the
// selection on the same item or column where possible. boardID overrides the
// currently shown board.
func (m *boardModel) reload(boardID string) error {
	boards, err := m.st.ActiveBoards(m.ctx)
	if err != nil {
		return err
	}
	m.boards = boards
	if boardID == "" {
		boardID = m.view.Board.ID
	}
	m.boardIdx = 0
	for i, b := range boards {
		if b.ID == boardID {
			m.boardIdx = i
			break
		}
	}
	if len(boards) == 0 {
		m.view = store.BoardView{}
		m.relayout(true)
		return nil
	}

	prevBoard := m.view.Board.ID
	v, err := m.st.LoadBoardView(m.ctx, boards[m.boardIdx].ID)
	if err != nil {
		return err
	}
	m.view = v
	if v.Board.ID != prevBoard {
		m.sel = selection{}
		m.first = 0
		m.scroll = map[string]int{}
	}
	m.fixSelection()
	m.relayout(true)
	return nil
}

// fixSelection re-anchors the selection after the view changed: the selected
// item is followed to its (possibly new) list.
func (m *boardModel) fixSelection() {
	if len(m.view.Lists) == 0 {
		m.sel = selection{}
		return
	}
	if m.sel.itemID != "" {
		for ci, l := range m.view.Lists {
			if indexOfItemID(m.view.Items[l.ID], m.sel.itemID) >= 0 {
				m.sel.col = ci
				return
			}
		}
	}
	m.sel.col = clampInt(m.sel.col, 0, len(m.view.Lists)-1)
	items := m.view.Items[m.view.Lists[m.sel.col].ID]
	m.sel.itemID = ""
	if len(items) > 0 {
		m.sel.itemID = items[0].ID
	}
}

func indexOfItemID(items []model.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// relayout recomputes geometry and republishes it to the drop registry. With
// follow set, the viewport scrolls to keep the selection visible.
func (m *boardModel) relayout(follow bool) {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.lay = computeLayout(m.view, m.width, m.height, m.footerHeight(), m.first, m.scroll)
	if follow && len(m.view.Lists) > 0 {
		if m.sel.col < m.lay.first {
			m.first = m.sel.col
		} else if m.sel.col >= m.lay.first+m.lay.visibleCols {
			m.first = m.sel.col - m.lay.visibleCols + 1
		}
		if c, ok := m.selectedColumn(); ok {
			if i := cardIndex(c, m.sel.itemID); i >= 0 {
				cb := c.cards[i]
				top := cb.rect.Y - (m.lay.cardsTop() - m.scroll[c.list.ID])
				m.scroll[c.list.ID] = scrollToShow(m.scroll[c.list.ID], top, cb.rect.H, m.lay.body.H)
			}
		}
		m.lay = computeLayout(m.view, m.width, m.height, m.footerHeight(), m.first, m.scroll)
	}
	m.first = m.lay.first
	for _, c := range m.lay.cols {
		m.scroll[c.list.ID] = clampInt(m.scroll[c.list.ID], 0, maxInt(0, c.content-(m.lay.body.H-cardTop)))
	}
	m.lay = computeLayout(m.view, m.width, m.height, m.footerHeight(), m.first, m.scroll)
	m.lay.register(m.reg)
}

// footerHeight is the status line plus the help block.
func (m boardModel) footerHeight() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

func cardIndex(c columnBox, itemID string) int {
	for i, cb := range c.cards {
		if cb.item.ID == itemID {
			return i
		}
	}
	return -1
}

func (m boardModel) selectedList() (model.List, bool) {
	if m.sel.col < 0 || m.sel.col >= len(m.view.Lists) {
		return model.List{}, false
	}
	return m.view.Lists[m.sel.col], true
}

func (m boardModel) selectedItem() (model.Item, bool) {
	l, ok := m.selectedList()
	if !ok {
		return model.Item{}, false
	}
	items := m.view.Items[l.ID]
	if i := indexOfItemID(items, m.sel.itemID); i >= 0 {
		return items[i], true
	}
	return model.Item{}, false
}

func (m boardModel) selectedColumn() (columnBox, bool) {
	l, ok := m.selectedList()
	if !ok {
		return columnBox{}, false
	}
	return m.lay.column(l.ID)
}

func (m *boardModel) flash(msg string) {
	m.status, m.statusErr = msg, false
}

func (m *boardModel) flashErr(err error) {
	m.log.WithError(err).Warn("board action failed")
	m.status, m.statusErr = err.Error(), true
}
