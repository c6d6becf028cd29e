package tui

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/session"
	"github.com/nikbrunner/shelf/internal/storage"
	"github.com/nikbrunner/shelf/internal/tui/layout"
)

// storeChangedMsg tells the App that a background update changed the store.
type storeChangedMsg struct{}

// App is the main bubbletea model for the bookmark organizer.
type App struct {
	session      *session.Session
	store        *model.Store // snapshot, never mutated
	changes      <-chan struct{}
	keys         KeyMap
	styles       Styles
	layoutConfig layout.Config

	mode    Mode
	columns []columnView
	col     int            // focused column in display order
	cursors map[string]int // row cursor per column ID

	favFocus  bool
	favCursor int

	// For gg command
	lastKeyWasG bool

	modal      ModalState
	move       MoveState
	iconPicker IconPickerState
	search     SearchState

	messageText string
	messageType MessageType

	clipboard func(string) error
	openURL   func(string) error

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Session *session.Session
	// Changes signals background store updates, see Notifier.
	Changes      <-chan struct{}
	Keys         *KeyMap         // optional, uses default if nil
	Styles       *Styles         // optional, uses default if nil
	LayoutConfig *layout.Config  // optional, uses default if nil
	Clipboard    func(string) error // optional, uses the system clipboard
	OpenURL      func(string) error // optional, uses the system browser
}

// Notifier returns a callback for session.Params.OnChange and the channel
// to pass as AppParams.Changes.
func Notifier() (func(), <-chan struct{}) {
	ch := make(chan struct{}, 1)
	notify := func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return notify, ch
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	openFn := params.OpenURL
	if openFn == nil {
		openFn = OpenURL
	}

	app := App{
		session:      params.Session,
		changes:      params.Changes,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutConfig,
		cursors:      map[string]int{},
		modal:        NewModalState(layoutConfig),
		iconPicker:   NewIconPickerState(layoutConfig),
		search:       NewSearchState(layoutConfig),
		clipboard:    copyFn,
		openURL:      openFn,
		width:        80,
		height:       24,
	}

	app.refresh()
	return app
}

// refresh takes a new snapshot and clamps every cursor into range.
func (a *App) refresh() {
	a.store = a.session.Snapshot()
	a.columns = buildColumns(a.store)

	if a.col >= len(a.columns) {
		a.col = max(len(a.columns)-1, 0)
	}
	for _, c := range a.columns {
		if cur, ok := a.cursors[c.ID]; ok && cur >= len(c.Rows) {
			a.cursors[c.ID] = max(len(c.Rows)-1, 0)
		}
	}

	favs := len(a.store.FavoritesOrder)
	if a.favCursor >= favs {
		a.favCursor = max(favs-1, 0)
	}
	if favs == 0 {
		a.favFocus = false
	}
}

func (a *App) currentColumn() *columnView {
	if a.col < len(a.columns) {
		return &a.columns[a.col]
	}
	return nil
}

func (a *App) currentRow() (Row, bool) {
	c := a.currentColumn()
	if c == nil || len(c.Rows) == 0 {
		return Row{}, false
	}
	cur := min(a.cursors[c.ID], len(c.Rows)-1)
	return c.Rows[cur], true
}

func (a *App) setCursor(n int) {
	if c := a.currentColumn(); c != nil {
		a.cursors[c.ID] = min(max(n, 0), max(len(c.Rows)-1, 0))
	}
}

// focusItem moves the focus to the row showing the item, if it is visible.
func (a *App) focusItem(id string) bool {
	for ci, c := range a.columns {
		for ri, r := range c.Rows {
			if r.ID() == id {
				a.col = ci
				a.cursors[c.ID] = ri
				return true
			}
		}
	}
	return false
}

func (a *App) focusColumn(id string) {
	for ci, c := range a.columns {
		if c.ID == id {
			a.col = ci
			return
		}
	}
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a *App) clearMessage() {
	a.messageText = ""
}

// report turns a session result into a message. A failed save keeps the
// change in memory, so the view is refreshed either way.
func (a *App) report(err error, success string) {
	switch {
	case err == nil:
		if success != "" {
			a.setMessage(MessageSuccess, success)
		}
	case errors.Is(err, storage.ErrPersistence):
		a.setMessage(MessageError, "Not saved: "+err.Error())
	default:
		a.setMessage(MessageWarning, err.Error())
	}
}

// Mode returns the current mode.
func (a App) Mode() Mode {
	return a.mode
}

// FocusedColumn returns the index of the focused column in display order.
func (a App) FocusedColumn() int {
	return a.col
}

// Cursor returns the row cursor of the focused column.
func (a App) Cursor() int {
	if c := a.currentColumn(); c != nil {
		return a.cursors[c.ID]
	}
	return 0
}

// SelectedItem returns the item under the cursor, or nil.
func (a App) SelectedItem() *model.Item {
	if a.favFocus {
		favs := a.store.FavoriteItems()
		if a.favCursor < len(favs) {
			return favs[a.favCursor]
		}
		return nil
	}
	if row, ok := a.currentRow(); ok {
		return row.Item
	}
	return nil
}

// FavoritesFocused reports whether the favorites bar has focus.
func (a App) FavoritesFocused() bool {
	return a.favFocus
}

// Message returns the current message line text.
func (a App) Message() string {
	return a.messageText
}

// Store returns the snapshot currently displayed.
func (a App) Store() *model.Store {
	return a.store
}

// WithDimensions returns a copy of the App sized to the given terminal.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	return waitForChange(a.changes)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case storeChangedMsg:
		a.refresh()
		return a, waitForChange(a.changes)

	case tea.KeyMsg:
		switch a.mode {
		case ModeNormal:
			if a.favFocus {
				return a.updateFavorites(msg)
			}
			return a.updateNormal(msg)
		case ModeAddBookmark, ModeAddFolder, ModeEditBookmark, ModeEditFolder:
			return a.updateForm(msg)
		case ModeConfirmDelete, ModeConfirmDeleteColumn:
			return a.updateConfirm(msg)
		case ModeMove:
			return a.updateMove(msg)
		case ModeIconPicker:
			return a.updateIconPicker(msg)
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeHelp:
			if key.Matches(msg, a.keys.Help, a.keys.Quit, a.keys.Cancel) {
				a.mode = ModeNormal
			}
			return a, nil
		}
	}

	return a.updateInputs(msg)
}

// updateInputs forwards non-key messages, such as cursor blinks, to the
// focused text input.
func (a App) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.mode {
	case ModeAddBookmark, ModeAddFolder, ModeEditBookmark, ModeEditFolder:
		input := a.focusedInput()
		if input != nil {
			*input, cmd = input.Update(msg)
		}
	case ModeIconPicker:
		a.iconPicker.FilterInput, cmd = a.iconPicker.FilterInput.Update(msg)
	case ModeSearch:
		a.search.Input, cmd = a.search.Input.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
