package tui

import (
	"errors"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

func isPersistence(err error) bool {
	return errors.Is(err, storage.ErrPersistence)
}

// addDestination picks the container for a new item: the folder under the
// cursor, else the container of the item under the cursor, else the column.
func (a *App) addDestination() (string, bool) {
	if row, ok := a.currentRow(); ok {
		if row.IsFolder() {
			return row.ID(), true
		}
		return row.ContainerID, true
	}
	if c := a.currentColumn(); c != nil {
		return c.ID, true
	}
	return "", false
}

func (a App) openAddForm(mode Mode) (tea.Model, tea.Cmd) {
	dest, ok := a.addDestination()
	if !ok {
		a.setMessage(MessageWarning, "Add a column first (n)")
		return a, nil
	}

	a.modal.ResetInputs()
	a.modal.DestinationID = dest
	a.mode = mode
	return a, a.focusField(fieldTitle)
}

func (a App) openEditForm(item *model.Item) (tea.Model, tea.Cmd) {
	a.modal.ResetInputs()
	a.modal.EditItemID = item.ID
	a.modal.TitleInput.SetValue(item.Title)

	if item.IsFolder() {
		a.modal.ColorInput.SetValue(item.Color)
		a.mode = ModeEditFolder
	} else {
		a.modal.URLInput.SetValue(item.URL)
		a.modal.Icon = item.Icon
		a.modal.Favorite = item.IsFavorite
		a.mode = ModeEditBookmark
	}
	return a, a.focusField(fieldTitle)
}

func (a *App) isBookmarkForm() bool {
	return a.mode == ModeAddBookmark || a.mode == ModeEditBookmark
}

func (a *App) fieldCount() int {
	if a.isBookmarkForm() {
		return 3
	}
	return 2
}

// focusedInput returns the text input of the focused field, or nil for the
// favorite checkbox.
func (a *App) focusedInput() *textinput.Model {
	switch a.modal.Field {
	case fieldTitle:
		return &a.modal.TitleInput
	case fieldURL:
		if a.isBookmarkForm() {
			return &a.modal.URLInput
		}
		return &a.modal.ColorInput
	}
	return nil
}

func (a *App) focusField(field int) tea.Cmd {
	if input := a.focusedInput(); input != nil {
		input.Blur()
	}
	// leaving the URL field previews the icon the URL would get
	if a.isBookmarkForm() && a.modal.Field == fieldURL && field != fieldURL && !a.modal.IconPicked {
		if u := strings.TrimSpace(a.modal.URLInput.Value()); u != "" && a.mode == ModeAddBookmark {
			a.modal.Icon = icon.Guess(u)
		}
	}

	a.modal.Field = field
	if input := a.focusedInput(); input != nil {
		return input.Focus()
	}
	return nil
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
		a.modal.ResetInputs()
		return a, nil

	case "enter":
		return a.submitForm()

	case "tab", "down":
		return a, a.focusField((a.modal.Field + 1) % a.fieldCount())

	case "shift+tab", "up":
		return a, a.focusField((a.modal.Field + a.fieldCount() - 1) % a.fieldCount())

	case "ctrl+p":
		if a.isBookmarkForm() {
			return a.openIconPicker("", a.mode)
		}
		return a, nil

	case " ":
		if a.isBookmarkForm() && a.modal.Field == fieldFavorite {
			a.modal.Favorite = !a.modal.Favorite
			return a, nil
		}
	}

	input := a.focusedInput()
	if input == nil {
		return a, nil
	}
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return a, cmd
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(a.modal.TitleInput.Value())
	if title == "" {
		a.setMessage(MessageWarning, "Title is required")
		return a, nil
	}

	var err error
	var focusID string

	switch a.mode {
	case ModeAddBookmark, ModeEditBookmark:
		url := strings.TrimSpace(a.modal.URLInput.Value())
		if url == "" {
			a.setMessage(MessageWarning, "URL is required")
			return a, nil
		}
		if a.mode == ModeAddBookmark {
			params := model.NewBookmarkParams{Title: title, URL: url, IsFavorite: a.modal.Favorite}
			if a.modal.IconPicked {
				params.Icon = a.modal.Icon
			}
			var item model.Item
			item, err = a.session.AddBookmark(a.modal.DestinationID, math.MaxInt, params)
			focusID = item.ID
		} else {
			focusID = a.modal.EditItemID
			err = a.session.Update(focusID, a.bookmarkPatch(title, url))
		}

	case ModeAddFolder, ModeEditFolder:
		color := strings.TrimSpace(a.modal.ColorInput.Value())
		if color != "" && !model.IsHexColor(color) {
			a.setMessage(MessageWarning, "Color must look like #e3f2fd")
			return a, nil
		}
		if a.mode == ModeAddFolder {
			var item model.Item
			item, err = a.session.AddFolder(a.modal.DestinationID, math.MaxInt, model.NewFolderParams{Title: title, Color: color})
			focusID = item.ID
		} else {
			focusID = a.modal.EditItemID
			patch := model.ItemPatch{Title: &title}
			if color != "" {
				patch.Color = &color
			}
			err = a.session.Update(focusID, patch)
		}
	}

	if err != nil && !isPersistence(err) {
		a.setMessage(MessageWarning, err.Error())
		return a, nil
	}

	adding := a.mode == ModeAddBookmark || a.mode == ModeAddFolder
	a.mode = ModeNormal
	a.modal.ResetInputs()
	a.refresh()
	a.focusItem(focusID)
	if adding {
		a.report(err, "Added "+title)
	} else {
		a.report(err, "Saved "+title)
	}
	return a, nil
}

// bookmarkPatch sends only the fields that changed, so an unchanged URL
// does not trigger a new icon lookup.
func (a *App) bookmarkPatch(title, url string) model.ItemPatch {
	patch := model.ItemPatch{Title: &title}
	item, ok := a.store.FindByID(a.modal.EditItemID)
	if !ok {
		return patch
	}
	if url != item.URL {
		patch.URL = &url
	}
	if a.modal.IconPicked && a.modal.Icon != item.Icon {
		ic := a.modal.Icon
		patch.Icon = &ic
	}
	if a.modal.Favorite != item.IsFavorite {
		fav := a.modal.Favorite
		patch.IsFavorite = &fav
	}
	return patch
}
