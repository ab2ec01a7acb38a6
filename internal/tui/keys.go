package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding

	Open        key.Binding
	NewItem     key.Binding
	NewList     key.Binding
	NewBoard    key.Binding
	Edit        key.Binding
	RenameList  key.Binding
	Archive     key.Binding
	ArchiveList key.Binding
	NextBoard   key.Binding

	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "list")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "list")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "card")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "card")),

		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		NewItem:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new card")),
		NewList:     key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new list")),
		NewBoard:    key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "new board")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		RenameList:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename list")),
		Archive:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive card")),
		ArchiveList: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "archive list")),
		NextBoard:   key.NewBinding(key.WithKeys("b", "tab"), key.WithHelp("b", "next board")),

		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.NewItem, k.Archive, k.NextBoard, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Open, k.NewItem, k.NewList, k.NewBoard, k.Edit, k.RenameList},
		{k.Archive, k.ArchiveList, k.NextBoard, k.Cancel, k.Help, k.Quit},
	}
}
