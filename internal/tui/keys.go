package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Open         key.Binding
	Collapse     key.Binding
	Favorites    key.Binding
	AddBookmark  key.Binding
	AddFolder    key.Binding
	Edit         key.Binding
	Icon         key.Binding
	Delete       key.Binding
	Favorite     key.Binding
	YankURL      key.Binding
	Move         key.Binding
	MoveUp       key.Binding
	MoveDown     key.Binding
	ColumnLeft   key.Binding
	ColumnRight  key.Binding
	AddColumn    key.Binding
	DeleteColumn key.Binding
	Wider        key.Binding
	Narrower     key.Binding
	Search       key.Binding
	Help         key.Binding
	Quit         key.Binding

	// Move mode
	DropBefore key.Binding
	DropAfter  key.Binding
	DropInto   key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "previous column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "next column"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter/o", "open / fold"),
		),
		Collapse: key.NewBinding(
			key.WithKeys(" ", "z"),
			key.WithHelp("space/z", "fold folder"),
		),
		Favorites: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "favorites bar"),
		),
		AddBookmark: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add bookmark"),
		),
		AddFolder: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add folder"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Icon: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "pick icon"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle favorite"),
		),
		YankURL: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "yank URL"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move item up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move item down"),
		),
		ColumnLeft: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "move column left"),
		),
		ColumnRight: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "move column right"),
		),
		AddColumn: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new column"),
		),
		DeleteColumn: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete column"),
		),
		Wider: key.NewBinding(
			key.WithKeys(">", "+"),
			key.WithHelp(">", "wider"),
		),
		Narrower: key.NewBinding(
			key.WithKeys("<", "-"),
			key.WithHelp("<", "narrower"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		DropBefore: key.NewBinding(
			key.WithKeys("enter", "P"),
			key.WithHelp("enter/P", "drop before"),
		),
		DropAfter: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "drop after"),
		),
		DropInto: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "drop into folder"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
