package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/tui/layout"
)

// Mode is the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddBookmark
	ModeAddFolder
	ModeEditBookmark
	ModeEditFolder
	ModeConfirmDelete
	ModeConfirmDeleteColumn
	ModeMove
	ModeIconPicker
	ModeSearch
	ModeHelp
)

// MessageType styles the message line.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// Form fields in tab order.
const (
	fieldTitle = iota
	fieldURL
	fieldFavorite
	fieldColor = fieldURL
)

// ModalState holds state for the add/edit modals.
type ModalState struct {
	TitleInput textinput.Model
	URLInput   textinput.Model
	ColorInput textinput.Model
	Icon       string // chosen or guessed icon; empty keeps the default
	IconPicked bool   // Icon came from the picker, not from a guess
	Favorite   bool
	Field      int

	EditItemID    string // item being edited or deleted
	DestinationID string // container for new items
}

// NewModalState creates a new ModalState with initialized inputs.
func NewModalState(cfg layout.Config) ModalState {
	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.CharLimit = cfg.Input.TitleCharLimit
	titleInput.Width = cfg.Input.StandardWidth

	urlInput := textinput.New()
	urlInput.Placeholder = "https://"
	urlInput.CharLimit = cfg.Input.URLCharLimit
	urlInput.Width = cfg.Input.StandardWidth

	colorInput := textinput.New()
	colorInput.Placeholder = "#e3f2fd"
	colorInput.CharLimit = cfg.Input.ColorCharLimit
	colorInput.Width = cfg.Input.StandardWidth

	return ModalState{
		TitleInput: titleInput,
		URLInput:   urlInput,
		ColorInput: colorInput,
	}
}

// ResetInputs clears all modal inputs for a new modal session.
func (m *ModalState) ResetInputs() {
	m.TitleInput.Reset()
	m.URLInput.Reset()
	m.ColorInput.Reset()
	m.TitleInput.Blur()
	m.URLInput.Blur()
	m.ColorInput.Blur()
	m.Icon = ""
	m.IconPicked = false
	m.Favorite = false
	m.Field = fieldTitle
	m.EditItemID = ""
	m.DestinationID = ""
}

// MoveState holds the item picked up in move mode.
type MoveState struct {
	ItemID string
	Title  string
}

// Active reports whether an item is picked up.
func (m *MoveState) Active() bool {
	return m.ItemID != ""
}

// Reset drops the picked-up item.
func (m *MoveState) Reset() {
	m.ItemID = ""
	m.Title = ""
}

// IconPickerState holds state for the icon picker.
type IconPickerState struct {
	FilterInput textinput.Model
	Category    int    // index into icon.Categories
	Icons       []string
	Cursor      int
	ItemID      string // bookmark to update; empty when picking for the form
	ReturnMode  Mode
}

// NewIconPickerState creates an IconPickerState with an initialized input.
func NewIconPickerState(cfg layout.Config) IconPickerState {
	input := textinput.New()
	input.Placeholder = "Filter icons..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	return IconPickerState{FilterInput: input}
}

// CurrentCategory returns the selected icon category.
func (p *IconPickerState) CurrentCategory() icon.Category {
	return icon.Categories[p.Category%len(icon.Categories)]
}

// Refresh reapplies the filter to the current category.
func (p *IconPickerState) Refresh() {
	p.Icons = icon.Search(p.CurrentCategory(), p.FilterInput.Value())
	if p.Cursor >= len(p.Icons) {
		p.Cursor = max(len(p.Icons)-1, 0)
	}
}

// Selected returns the icon under the cursor, or "" when the list is empty.
func (p *IconPickerState) Selected() string {
	if p.Cursor < len(p.Icons) {
		return p.Icons[p.Cursor]
	}
	return ""
}

// Reset clears the picker for a new session.
func (p *IconPickerState) Reset() {
	p.FilterInput.Reset()
	p.Category = 0
	p.Icons = nil
	p.Cursor = 0
	p.ItemID = ""
	p.ReturnMode = ModeNormal
}

// SearchState holds state for global search.
type SearchState struct {
	Input   textinput.Model
	Results []search.Result
	Cursor  int
}

// NewSearchState creates a SearchState with an initialized input.
func NewSearchState(cfg layout.Config) SearchState {
	input := textinput.New()
	input.Placeholder = "Search all..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	return SearchState{Input: input}
}

// Reset clears the search state.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Input.Blur()
	s.Results = nil
	s.Cursor = 0
}
