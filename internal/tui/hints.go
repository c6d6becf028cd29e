package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move h:back l:open"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Edit   []Hint // Edit hints (a, e, d, etc.)
	Action []Hint // Action hints (Enter, Tab, etc.)
	System []Hint // System hints (?, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		if a.favFocus {
			return a.getFavoritesHints()
		}
		return a.getNormalModeHints()
	case ModeSearch:
		return a.getSearchModeHints()
	case ModeAddBookmark, ModeEditBookmark:
		return a.getBookmarkFormHints()
	case ModeAddFolder, ModeEditFolder:
		return a.getFolderFormHints()
	case ModeMove:
		return a.getMoveHints()
	case ModeIconPicker:
		return a.getIconPickerHints()
	case ModeHelp:
		// Help overlay covers screen, minimal hints
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		// confirm modals carry their own hints
		return HintSet{}
	}
}

// getNormalModeHints returns hints for ModeNormal (board browse).
func (a App) getNormalModeHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "h/l", Desc: "column"},
			{Key: "tab", Desc: "favs"},
		},
		Action: []Hint{
			{Key: "enter", Desc: "open"},
			{Key: "/", Desc: "search"},
			{Key: "m", Desc: "move"},
		},
		Edit: []Hint{
			{Key: "a", Desc: "add"},
			{Key: "e", Desc: "edit"},
			{Key: "d", Desc: "del"},
			{Key: "n", Desc: "column"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// getFavoritesHints returns hints while the favorites bar has focus.
func (a App) getFavoritesHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "h/l", Desc: "move"},
		},
		Action: []Hint{
			{Key: "enter", Desc: "open"},
			{Key: "Y", Desc: "yank"},
		},
		Edit: []Hint{
			{Key: "H/L", Desc: "reorder"},
			{Key: "f", Desc: "unfavorite"},
		},
		System: []Hint{
			{Key: "tab/Esc", Desc: "back"},
		},
	}
}

// getSearchModeHints returns hints for ModeSearch (fuzzy finder).
func (a App) getSearchModeHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "↑/↓", Desc: "move"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "reveal"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "cancel"},
		},
	}
}

// getBookmarkFormHints returns hints for ModeAddBookmark/ModeEditBookmark.
func (a App) getBookmarkFormHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "Tab", Desc: "next"},
			{Key: "ctrl+p", Desc: "icon"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "save"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "cancel"},
		},
	}
	if a.modal.Field == fieldFavorite {
		hints.Edit = []Hint{{Key: "space", Desc: "toggle"}}
	}
	return hints
}

// getFolderFormHints returns hints for ModeAddFolder/ModeEditFolder.
func (a App) getFolderFormHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "Tab", Desc: "next"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "save"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "cancel"},
		},
	}
}

// getMoveHints returns hints for ModeMove.
func (a App) getMoveHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "target"},
			{Key: "h/l", Desc: "column"},
		},
		Action: []Hint{
			{Key: "P", Desc: "before"},
			{Key: "p", Desc: "after"},
			{Key: "i", Desc: "into"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "cancel"},
		},
	}
}

// getIconPickerHints returns hints for ModeIconPicker.
func (a App) getIconPickerHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "arrows", Desc: "move"},
			{Key: "Tab", Desc: "category"},
			{Key: "type", Desc: "filter"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "pick"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "back"},
		},
	}
}
