package tui

import (
	"context"
	"errors"

	"kanban-cli/internal/config"
	"kanban-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Store  *store.Store
	Config config.Config
	Log    logrus.FieldLogger
	// BoardID selects the board shown first; empty means the first active board.
	BoardID string
}

// Run starts the interactive board and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return errors.New("tui: nil store")
	}
	applyColorProfilePreference()
	applyThemePreference()

	// Store notifications arrive on the event loop goroutine (mutations run inside
	// Update), so the subscriber must never block: one pending signal is enough to
	// trigger a reload.
	changes := make(chan struct{}, 1)
	unsubscribe := opts.Store.Subscribe(func(store.Change) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	m, err := newBoardModel(ctx, opts)
	if err != nil {
		return err
	}
	m.changes = changes

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
