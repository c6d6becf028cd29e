package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/shelf/internal/model"
)

// resizeStep is how much one keypress widens or narrows a column.
const resizeStep model.Width = 50

// navigate handles cursor movement shared by normal and move mode.
func (a *App) navigate(msg tea.KeyMsg) bool {
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.setCursor(0)
			a.lastKeyWasG = false
			return true
		}
		a.lastKeyWasG = true
		return true
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Down):
		a.setCursor(a.Cursor() + 1)
	case key.Matches(msg, a.keys.Up):
		a.setCursor(a.Cursor() - 1)
	case key.Matches(msg, a.keys.Bottom):
		if c := a.currentColumn(); c != nil {
			a.setCursor(len(c.Rows) - 1)
		}
	case key.Matches(msg, a.keys.Left):
		if a.col > 0 {
			a.col--
		}
	case key.Matches(msg, a.keys.Right):
		if a.col < len(a.columns)-1 {
			a.col++
		}
	default:
		return false
	}
	return true
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.clearMessage()
	if a.navigate(msg) {
		return a, nil
	}

	row, hasRow := a.currentRow()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Favorites):
		if len(a.store.FavoritesOrder) == 0 {
			a.setMessage(MessageInfo, "No favorites yet (f marks a bookmark)")
			return a, nil
		}
		a.favFocus = true

	case key.Matches(msg, a.keys.Open):
		if !hasRow {
			return a, nil
		}
		if row.IsFolder() {
			a.toggleCollapsed(row.ID())
		} else {
			a.open(row.Item)
		}

	case key.Matches(msg, a.keys.Collapse):
		if hasRow && row.IsFolder() {
			a.toggleCollapsed(row.ID())
		}

	case key.Matches(msg, a.keys.AddBookmark):
		return a.openAddForm(ModeAddBookmark)

	case key.Matches(msg, a.keys.AddFolder):
		return a.openAddForm(ModeAddFolder)

	case key.Matches(msg, a.keys.Edit):
		if hasRow {
			return a.openEditForm(row.Item)
		}

	case key.Matches(msg, a.keys.Icon):
		if hasRow && !row.IsFolder() {
			return a.openIconPicker(row.ID(), ModeNormal)
		}

	case key.Matches(msg, a.keys.Delete):
		if hasRow {
			a.modal.ResetInputs()
			a.modal.EditItemID = row.ID()
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Favorite):
		if hasRow && !row.IsFolder() {
			err := a.session.ToggleFavorite(row.ID())
			a.refresh()
			if row.Item.IsFavorite {
				a.report(err, "Removed from favorites")
			} else {
				a.report(err, "Added to favorites")
			}
		}

	case key.Matches(msg, a.keys.YankURL):
		if hasRow && !row.IsFolder() {
			a.yank(row.Item)
		}

	case key.Matches(msg, a.keys.Move):
		if hasRow {
			a.move.ItemID = row.ID()
			a.move.Title = row.Item.Title
			a.mode = ModeMove
			a.setMessage(MessageInfo, "Moving "+row.Item.Title)
		}

	case key.Matches(msg, a.keys.MoveUp):
		if hasRow {
			a.nudge(row, -1)
		}

	case key.Matches(msg, a.keys.MoveDown):
		if hasRow {
			a.nudge(row, 1)
		}

	case key.Matches(msg, a.keys.ColumnLeft):
		a.shiftColumn(-1)

	case key.Matches(msg, a.keys.ColumnRight):
		a.shiftColumn(1)

	case key.Matches(msg, a.keys.AddColumn):
		id, err := a.session.AddColumn(model.DefaultColumnWidth)
		a.refresh()
		a.focusColumn(id)
		a.report(err, "Column added")

	case key.Matches(msg, a.keys.DeleteColumn):
		if a.currentColumn() != nil {
			a.mode = ModeConfirmDeleteColumn
		}

	case key.Matches(msg, a.keys.Wider):
		a.resize(resizeStep)

	case key.Matches(msg, a.keys.Narrower):
		a.resize(-resizeStep)

	case key.Matches(msg, a.keys.Search):
		a.search.Reset()
		a.search.Input.Focus()
		a.mode = ModeSearch
		return a, a.search.Input.Cursor.BlinkCmd()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a *App) toggleCollapsed(id string) {
	err := a.session.ToggleFolderCollapsed(id)
	a.refresh()
	a.focusItem(id)
	a.report(err, "")
}

func (a *App) open(item *model.Item) {
	if err := a.openURL(item.URL); err != nil {
		a.setMessage(MessageError, "Open failed: "+err.Error())
		return
	}
	a.setMessage(MessageInfo, "Opened "+item.Title)
}

func (a *App) yank(item *model.Item) {
	if err := a.clipboard(item.URL); err != nil {
		a.setMessage(MessageError, "Copy failed: "+err.Error())
		return
	}
	a.setMessage(MessageSuccess, "Copied URL")
}

// nudge moves an item one position within its container.
func (a *App) nudge(row Row, delta int) {
	target := row.Index + delta
	if target < 0 {
		return
	}
	res, err := a.session.Move(model.MoveRequest{
		ItemID:        row.ID(),
		DestinationID: row.ContainerID,
		Index:         target,
	})
	a.refresh()
	a.focusItem(row.ID())
	if res.Changed || err != nil {
		a.report(err, "")
	}
}

func (a *App) shiftColumn(delta int) {
	c := a.currentColumn()
	if c == nil {
		return
	}
	target := a.col + delta
	if target < 0 || target >= len(a.columns) {
		return
	}
	id := c.ID
	err := a.session.MoveColumn(id, target)
	a.refresh()
	a.focusColumn(id)
	a.report(err, "")
}

func (a *App) resize(delta model.Width) {
	c := a.currentColumn()
	if c == nil {
		return
	}
	width, err := a.session.ResizeColumn(c.ID, c.Width+delta)
	a.refresh()
	a.report(err, "Width "+width.String())
}

func (a App) updateFavorites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.clearMessage()
	favs := a.store.FavoriteItems()
	if len(favs) == 0 {
		a.favFocus = false
		return a, nil
	}
	current := favs[min(a.favCursor, len(favs)-1)]

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Favorites, a.keys.Cancel, a.keys.Down):
		a.favFocus = false

	case key.Matches(msg, a.keys.Left):
		if a.favCursor > 0 {
			a.favCursor--
		}

	case key.Matches(msg, a.keys.Right):
		if a.favCursor < len(favs)-1 {
			a.favCursor++
		}

	case key.Matches(msg, a.keys.Open):
		a.open(current)

	case key.Matches(msg, a.keys.YankURL):
		a.yank(current)

	case key.Matches(msg, a.keys.Favorite):
		err := a.session.ToggleFavorite(current.ID)
		a.refresh()
		a.report(err, "Removed from favorites")

	case key.Matches(msg, a.keys.ColumnLeft):
		a.reorderFavorite(-1)

	case key.Matches(msg, a.keys.ColumnRight):
		a.reorderFavorite(1)
	}

	return a, nil
}

// reorderFavorite swaps the focused favorite with its neighbor.
func (a *App) reorderFavorite(delta int) {
	from := a.favCursor
	to := from + delta
	order := slices.Clone(a.store.FavoritesOrder)
	if to < 0 || to >= len(order) {
		return
	}
	order[from], order[to] = order[to], order[from]
	err := a.session.ReorderFavorites(order)
	a.refresh()
	a.favCursor = to
	a.report(err, "")
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
	case "n", "N", "esc", "q":
		a.mode = ModeNormal
		a.modal.ResetInputs()
		return a, nil
	default:
		return a, nil
	}

	if a.mode == ModeConfirmDeleteColumn {
		if c := a.currentColumn(); c != nil {
			_, err := a.session.DeleteColumn(c.ID)
			a.refresh()
			a.report(err, "Column deleted")
		}
	} else {
		_, err := a.session.Delete(a.modal.EditItemID)
		a.refresh()
		a.report(err, "Deleted")
	}

	a.mode = ModeNormal
	a.modal.ResetInputs()
	return a, nil
}

func (a App) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.navigate(msg) {
		return a, nil
	}

	var req model.MoveRequest
	row, hasRow := a.currentRow()
	c := a.currentColumn()

	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.move.Reset()
		a.mode = ModeNormal
		a.clearMessage()
		return a, nil

	case key.Matches(msg, a.keys.DropBefore):
		switch {
		case hasRow:
			req = model.MoveRequest{DestinationID: row.ContainerID, Index: row.Index}
		case c != nil:
			req = model.MoveRequest{DestinationID: c.ID, Index: 0}
		default:
			return a, nil
		}

	case key.Matches(msg, a.keys.DropAfter):
		switch {
		case hasRow:
			req = model.MoveRequest{DestinationID: row.ContainerID, Index: row.Index + 1}
		case c != nil:
			req = model.MoveRequest{DestinationID: c.ID, Index: 0}
		default:
			return a, nil
		}

	case key.Matches(msg, a.keys.DropInto):
		if !hasRow || !row.IsFolder() {
			a.setMessage(MessageWarning, "Not a folder")
			return a, nil
		}
		req = model.MoveRequest{DestinationID: row.ID(), Index: len(row.Item.Children)}

	default:
		return a, nil
	}

	req.ItemID = a.move.ItemID
	res, err := a.session.MoveToSlot(req)
	if err != nil && !isPersistence(err) {
		// stay in move mode so another target can be picked
		a.setMessage(MessageWarning, err.Error())
		return a, nil
	}

	a.refresh()
	a.focusItem(req.ItemID)
	a.mode = ModeNormal
	a.move.Reset()
	if res.Changed {
		a.report(err, "Moved")
	} else {
		a.setMessage(MessageInfo, "Unchanged")
	}
	return a, nil
}
