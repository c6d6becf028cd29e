package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/tui/layout"
)

// renderView creates the complete board view.
func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeSearch:
		return a.renderSearch()
	case ModeNormal, ModeMove:
	default:
		return a.renderModal()
	}

	content := a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.renderFavoritesBar(),
		a.renderColumns(),
		a.renderStatusLine(),
		a.renderHelpBar(),
	))

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderFavoritesBar renders the favorites strip above the columns.
func (a App) renderFavoritesBar() string {
	var bar strings.Builder
	bar.WriteString(a.styles.Favorite.Render("★") + " ")

	favs := a.store.FavoriteItems()
	if len(favs) == 0 {
		bar.WriteString(a.styles.Empty.Render("No favorites"))
	}
	for i, item := range favs {
		if i > 0 {
			bar.WriteString("  ")
		}
		title, _ := layout.TruncateText(item.Title, 24, a.layoutConfig.Text)
		if a.favFocus && i == a.favCursor {
			bar.WriteString(a.styles.ItemSelected.Render(" " + title + " "))
		} else {
			bar.WriteString(a.styles.Item.Render(title))
		}
	}

	return a.styles.FavoritesBar.Width(max(a.width-2, 1)).Render(bar.String())
}

func (a App) renderColumns() string {
	cfg := a.layoutConfig.Column
	height := layout.CalculateColumnHeight(a.height, cfg)

	if len(a.columns) == 0 {
		return a.styles.Empty.Height(height + 3).Render("No columns. Press n to add one.")
	}

	widths := make([]int, len(a.columns))
	for i, c := range a.columns {
		widths[i] = layout.ColumnCells(int(c.Width), cfg)
	}
	start, end := layout.VisibleColumns(widths, a.col, a.width-2, cfg)

	gap := strings.Repeat(" ", cfg.Gap)
	var panes []string
	for i := start; i < end; i++ {
		if i > start && gap != "" {
			panes = append(panes, gap)
		}
		panes = append(panes, a.renderColumn(i, widths[i], height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (a App) renderColumn(index, cells, height int) string {
	cfg := a.layoutConfig.Column
	c := a.columns[index]
	focused := index == a.col && !a.favFocus
	textWidth := layout.ContentWidth(cells, cfg)

	var content strings.Builder
	header := fmt.Sprintf("%d/%d  %s", index+1, len(a.columns), c.Width)
	content.WriteString(a.styles.ColumnHeader.Render(header) + "\n")

	if len(c.Rows) == 0 {
		content.WriteString(a.styles.Empty.Render("(empty)"))
	} else {
		cursor := min(a.cursors[c.ID], len(c.Rows)-1)
		offset := layout.CalculateViewportOffset(cursor, len(c.Rows), height)
		for i := offset; i < len(c.Rows) && i < offset+height; i++ {
			content.WriteString(a.renderRow(c.Rows[i], focused && i == cursor, textWidth) + "\n")
		}
	}

	style := a.styles.Column
	if focused {
		style = a.styles.ColumnActive
	}
	// lipgloss widths include padding but not the border
	return style.
		Width(max(cells-2, 1)).
		Height(height + 1).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderRow renders one item line: indent, marker, title and badges.
func (a App) renderRow(row Row, isCursor bool, maxWidth int) string {
	item := row.Item
	indent := strings.Repeat(" ", row.Depth*a.layoutConfig.Column.IndentWidth)

	glyph := "·"
	var suffix string
	if item.IsFolder() {
		glyph = "▾"
		if item.Collapsed {
			glyph = "▸"
			if n := len(item.Children); n > 0 {
				suffix = fmt.Sprintf(" (%d)", n)
			}
		}
	} else if item.IsFavorite {
		suffix = " ★"
	}

	line, _ := layout.TruncateWithPrefixSuffix(item.Title, maxWidth, indent+glyph+" ", suffix, a.layoutConfig.Text)

	switch {
	case isCursor:
		return a.styles.ItemSelected.Render(layout.PadRight(line, maxWidth))
	case a.move.ItemID == item.ID:
		return a.styles.ItemMoving.Render(line)
	case item.IsFolder() && strings.HasPrefix(line, indent+glyph):
		// color only the marker so the title keeps the folder style
		rest := strings.TrimPrefix(line, indent+glyph)
		return indent + folderMarker(item.Color, glyph) + a.styles.Folder.Render(rest)
	case item.IsFolder():
		return a.styles.Folder.Render(line)
	case item.IsFavorite:
		title := strings.TrimSuffix(line, " ★")
		if title != line {
			return a.styles.Bookmark.Render(title) + a.styles.Favorite.Render(" ★")
		}
	}
	return a.styles.Bookmark.Render(line)
}

// renderStatusLine describes the item under the cursor.
func (a App) renderStatusLine() string {
	item := a.SelectedItem()
	if item == nil {
		return ""
	}

	parts := []string{}
	if item.IsFolder() {
		bookmarks, folders := countSubtree(item)
		parts = append(parts, fmt.Sprintf("%d bookmarks, %d folders", bookmarks, folders))
	} else {
		url, _ := layout.TruncateText(item.URL, max(a.width/2, 10), a.layoutConfig.Text)
		parts = append(parts, a.styles.URL.Render(url), iconLabel(item.Icon))
	}
	if !item.CreatedAt.IsZero() {
		parts = append(parts, a.styles.Date.Render("added "+humanize.Time(item.CreatedAt)))
	}
	return strings.Join(parts, a.styles.Help.Render(" · "))
}

func countSubtree(folder *model.Item) (bookmarks, folders int) {
	for k := range folder.Children {
		child := &folder.Children[k]
		if child.IsFolder() {
			folders++
			b, f := countSubtree(child)
			bookmarks += b
			folders += f
		} else {
			bookmarks++
		}
	}
	return bookmarks, folders
}

func iconLabel(ic string) string {
	if icon.IsFavicon(ic) {
		return "favicon"
	}
	return icon.Name(ic)
}

func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	if hints := a.renderHints(a.getContextualHints()); hints != "" {
		lines = append(lines, hints)
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
	}

	return msgStyle.Render(prefix + a.messageText)
}

// renderModal renders the current modal dialog.
func (a App) renderModal() string {
	var title, content strings.Builder

	modalWidth := a.modalWidth()

	switch a.mode {
	case ModeAddBookmark, ModeEditBookmark:
		if a.mode == ModeAddBookmark {
			title.WriteString("Add Bookmark\n\n")
		} else {
			title.WriteString("Edit Bookmark\n\n")
		}
		content.WriteString("Title:\n")
		content.WriteString(a.modal.TitleInput.View())
		content.WriteString("\n\n")
		content.WriteString("URL:\n")
		content.WriteString(a.modal.URLInput.View())
		content.WriteString("\n\n")

		label := "default"
		if a.modal.Icon != "" {
			label = iconLabel(a.modal.Icon)
		}
		content.WriteString("Icon: " + label + "  " + a.styles.Help.Render("(ctrl+p pick)"))
		content.WriteString("\n\n")

		box := "[ ]"
		if a.modal.Favorite {
			box = "[x]"
		}
		fav := box + " Favorite"
		if a.modal.Field == fieldFavorite {
			content.WriteString(a.styles.ItemSelected.Render(fav))
		} else {
			content.WriteString(fav)
		}

	case ModeAddFolder, ModeEditFolder:
		if a.mode == ModeAddFolder {
			title.WriteString("Add Folder\n\n")
		} else {
			title.WriteString("Edit Folder\n\n")
		}
		content.WriteString("Name:\n")
		content.WriteString(a.modal.TitleInput.View())
		content.WriteString("\n\n")
		content.WriteString("Color:\n")
		content.WriteString(a.modal.ColorInput.View())
		if c := strings.TrimSpace(a.modal.ColorInput.Value()); model.IsHexColor(c) {
			content.WriteString(" " + folderMarker(c, "■"))
		}

	case ModeConfirmDelete:
		itemType, itemName := "Item", "this item"
		var detail string
		if item, ok := a.store.FindByID(a.modal.EditItemID); ok {
			itemName = item.Title
			itemType = "Bookmark"
			if item.IsFolder() {
				itemType = "Folder"
				if b, f := countSubtree(item); b+f > 0 {
					detail = fmt.Sprintf("Also deletes %d bookmarks, %d folders.", b, f)
				}
			}
		}
		title.WriteString("Delete " + itemType + "?\n\n")
		content.WriteString("\"" + itemName + "\"\n\n")
		if detail != "" {
			content.WriteString(a.styles.Help.Render(detail) + "\n")
		}
		content.WriteString(a.styles.Help.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}))

	case ModeConfirmDeleteColumn:
		title.WriteString("Delete Column?\n\n")
		if c := a.currentColumn(); c != nil {
			if col := a.store.FindColumn(c.ID); col != nil {
				content.WriteString(fmt.Sprintf("Column %d holds %d items.\n\n", a.col+1, len(col.Items)))
			}
		}
		content.WriteString(a.styles.Help.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}))

	case ModeIconPicker:
		title.WriteString("Pick Icon\n\n")
		content.WriteString(a.renderIconPicker(modalWidth - modalChrome))
	}

	modalContent := a.styles.Title.Render(title.String()) + content.String()

	// Place modal in center, then add help bar at bottom
	modal := lipgloss.Place(
		a.width,
		a.height-3,
		lipgloss.Center,
		lipgloss.Center,
		a.styles.Modal.Width(modalWidth).Render(modalContent),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

// renderIconPicker renders category tabs, the filter and the icon grid.
func (a App) renderIconPicker(width int) string {
	p := a.iconPicker
	cellWidth := a.layoutConfig.Modal.IconCellWidth
	cols := layout.CalculateGridColumns(width, cellWidth)

	var b strings.Builder
	for i, c := range icon.Categories {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == p.Category {
			b.WriteString(a.styles.HintKey.Render("[" + string(c) + "]"))
		} else {
			b.WriteString(a.styles.HintDesc.Render(" " + string(c) + " "))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(p.FilterInput.View())
	b.WriteString("\n\n")

	if len(p.Icons) == 0 {
		b.WriteString(a.styles.Empty.Render("No matching icons"))
		return b.String()
	}

	rows := (len(p.Icons) + cols - 1) / cols
	startRow, endRow := layout.CalculateVisibleListItems(a.layoutConfig.Modal.IconRows, p.Cursor/cols, rows)
	for r := startRow; r < endRow; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(p.Icons) {
				break
			}
			name, _ := layout.TruncateText(icon.Name(p.Icons[i]), cellWidth-2, a.layoutConfig.Text)
			cell := layout.PadRight(" "+name, cellWidth-1)
			if i == p.Cursor {
				b.WriteString(a.styles.ItemSelected.Render(cell) + " ")
			} else {
				b.WriteString(a.styles.Item.Render(cell) + " ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Empty.Render(fmt.Sprintf("%d icons", len(p.Icons))))
	return b.String()
}

// renderSearch renders global search as a full-screen list.
func (a App) renderSearch() string {
	contentStyle := lipgloss.NewStyle().Padding(1, 2)
	listWidth := max(a.width-4, 10)
	listHeight := max(a.height-10, 1)

	var results strings.Builder
	switch {
	case a.search.Input.Value() == "":
		results.WriteString(a.styles.Empty.Render("Type to search titles and URLs"))
	case len(a.search.Results) == 0:
		results.WriteString(a.styles.Empty.Render("No matches"))
	default:
		start, end := layout.CalculateVisibleListItems(listHeight, a.search.Cursor, len(a.search.Results))
		for i := start; i < end; i++ {
			results.WriteString(a.renderSearchResult(a.search.Results[i], i == a.search.Cursor, listWidth) + "\n")
		}
	}

	countStr := fmt.Sprintf("%d results", len(a.search.Results))
	if len(a.search.Results) == 1 {
		countStr = "1 result"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Find")+"  "+a.styles.Empty.Render(countStr),
		"",
		a.search.Input.View(),
		"",
		strings.TrimRight(results.String(), "\n"),
	)

	// Top-left aligned, leave room for help bar at bottom
	main := lipgloss.Place(
		a.width,
		a.height-3,
		lipgloss.Left,
		lipgloss.Top,
		contentStyle.Render(content),
	)

	return lipgloss.JoinVertical(lipgloss.Left, main, a.renderHelpBar())
}

// renderSearchResult renders a match with its matched characters
// highlighted and the folder path right-aligned.
func (a App) renderSearchResult(r search.Result, selected bool, maxWidth int) string {
	text := r.Item.Title
	if r.Field == search.FieldURL {
		text = r.Item.URL
	}

	matchSet := make(map[int]bool, len(r.MatchedIndexes))
	for _, idx := range r.MatchedIndexes {
		matchSet[idx] = true
	}

	path := strings.Join(r.Path, "/")
	pathWidth := 0
	if path != "" {
		pathWidth = max(maxWidth*30/100, 10)
		path, _ = layout.TruncateText(path, pathWidth-1, a.layoutConfig.Text)
	}
	textWidth := maxWidth - pathWidth

	truncated, _ := layout.TruncateText(text, textWidth, a.layoutConfig.Text)
	var line strings.Builder
	for i, ch := range truncated {
		if matchSet[i] {
			line.WriteString("\033[1;4m")
			line.WriteRune(ch)
			line.WriteString("\033[22;24m")
		} else {
			line.WriteRune(ch)
		}
	}

	result := layout.PadRight(line.String(), textWidth)
	if path != "" {
		result += a.styles.Empty.Render(fmt.Sprintf("%*s", pathWidth, path))
	}

	if selected {
		return a.styles.ItemSelected.Render(result)
	}
	return a.styles.Item.Render(result)
}

// renderHelpOverlay renders the help overlay.
func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("h/l  column\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("tab  favorites\n")
	left.WriteString("/    search\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("act") + "\n")
	left.WriteString("enter open / fold\n")
	left.WriteString("z    fold\n")
	left.WriteString("Y    yank url\n")
	left.WriteString("f    favorite\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("columns") + "\n")
	left.WriteString("n    new column\n")
	left.WriteString("X    delete column\n")
	left.WriteString("H/L  move column\n")
	left.WriteString("</>  resize\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("edit") + "\n")
	right.WriteString("a    add bookmark\n")
	right.WriteString("A    add folder\n")
	right.WriteString("e    edit\n")
	right.WriteString("I    pick icon\n")
	right.WriteString("d    delete\n")
	right.WriteString("J/K  reorder\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("move") + "\n")
	right.WriteString("m    pick up\n")
	right.WriteString("P    drop before\n")
	right.WriteString("p    drop after\n")
	right.WriteString("i    drop into folder\n")
	right.WriteString("esc  cancel\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(24).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(28).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}
