package tui

import (
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/tui/layout"
)

// modalChrome is the horizontal space taken by the modal border and padding.
const modalChrome = 6

func (a *App) modalWidth() int {
	cfg := a.layoutConfig.Modal
	return layout.CalculateModalWidth(a.width, cfg.DefaultWidthPercent, cfg)
}

// iconGridColumns returns how many icons fit in one picker row.
func (a *App) iconGridColumns() int {
	return layout.CalculateGridColumns(a.modalWidth()-modalChrome, a.layoutConfig.Modal.IconCellWidth)
}

func (a App) openIconPicker(itemID string, returnMode Mode) (tea.Model, tea.Cmd) {
	a.iconPicker.Reset()
	a.iconPicker.ItemID = itemID
	a.iconPicker.ReturnMode = returnMode
	a.iconPicker.Refresh()

	current := a.modal.Icon
	if itemID != "" {
		if item, ok := a.store.FindByID(itemID); ok {
			current = item.Icon
		}
	}
	for i, ic := range a.iconPicker.Icons {
		if ic == current {
			a.iconPicker.Cursor = i
			break
		}
	}

	if returnMode != ModeNormal {
		if input := a.focusedInput(); input != nil {
			input.Blur()
		}
	}
	a.mode = ModeIconPicker
	return a, a.iconPicker.FilterInput.Focus()
}

func (a App) closeIconPicker() (tea.Model, tea.Cmd) {
	a.mode = a.iconPicker.ReturnMode
	a.iconPicker.FilterInput.Blur()
	if a.mode != ModeNormal {
		if input := a.focusedInput(); input != nil {
			return a, input.Focus()
		}
	}
	return a, nil
}

func (a App) updateIconPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &a.iconPicker
	cols := a.iconGridColumns()

	switch msg.String() {
	case "esc":
		return a.closeIconPicker()

	case "tab":
		p.Category = (p.Category + 1) % len(icon.Categories)
		p.Cursor = 0
		p.Refresh()
		return a, nil

	case "shift+tab":
		p.Category = (p.Category + len(icon.Categories) - 1) % len(icon.Categories)
		p.Cursor = 0
		p.Refresh()
		return a, nil

	case "left", "ctrl+h":
		if p.Cursor > 0 {
			p.Cursor--
		}
		return a, nil

	case "right", "ctrl+l":
		if p.Cursor < len(p.Icons)-1 {
			p.Cursor++
		}
		return a, nil

	case "up", "ctrl+k":
		if p.Cursor-cols >= 0 {
			p.Cursor -= cols
		}
		return a, nil

	case "down", "ctrl+j":
		if p.Cursor+cols < len(p.Icons) {
			p.Cursor += cols
		}
		return a, nil

	case "enter":
		chosen := p.Selected()
		if chosen == "" {
			return a, nil
		}
		if p.ItemID != "" {
			id := p.ItemID
			err := a.session.Update(id, model.ItemPatch{Icon: &chosen})
			a.refresh()
			a.focusItem(id)
			a.report(err, "Icon set to "+icon.Name(chosen))
		} else {
			a.modal.Icon = chosen
			a.modal.IconPicked = true
		}
		return a.closeIconPicker()
	}

	before := p.FilterInput.Value()
	var cmd tea.Cmd
	p.FilterInput, cmd = p.FilterInput.Update(msg)
	if p.FilterInput.Value() != before {
		p.Cursor = 0
		p.Refresh()
	}
	return a, cmd
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.search

	switch msg.String() {
	case "esc", "ctrl+c":
		s.Reset()
		a.mode = ModeNormal
		return a, nil

	case "enter":
		if len(s.Results) == 0 {
			return a, nil
		}
		id := s.Results[min(s.Cursor, len(s.Results)-1)].Item.ID
		s.Reset()
		a.mode = ModeNormal
		a.reveal(id)
		return a, nil

	case "down", "ctrl+n", "ctrl+j":
		if s.Cursor < len(s.Results)-1 {
			s.Cursor++
		}
		return a, nil

	case "up", "ctrl+p", "ctrl+k":
		if s.Cursor > 0 {
			s.Cursor--
		}
		return a, nil
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() != before {
		s.Cursor = 0
		s.Results = search.Bookmarks(a.store, s.Input.Value())
	}
	return a, cmd
}

// reveal expands every collapsed folder above the item, then focuses it.
func (a *App) reveal(id string) {
	var err error
	for _, folderID := range a.collapsedAncestors(id) {
		if e := a.session.ToggleFolderCollapsed(folderID); e != nil {
			err = e
			if !isPersistence(e) {
				break
			}
		}
	}
	a.refresh()
	if !a.focusItem(id) {
		a.setMessage(MessageWarning, "Item is no longer in the tree")
		return
	}
	a.report(err, "")
}

func (a *App) collapsedAncestors(id string) []string {
	var ids []string
	for {
		loc, ok := a.store.Locate(id)
		if !ok || a.store.FindColumn(loc.ContainerID) != nil {
			return ids
		}
		if folder, ok := a.store.FindByID(loc.ContainerID); ok && folder.Collapsed {
			ids = append(ids, folder.ID)
		}
		id = loc.ContainerID
	}
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
