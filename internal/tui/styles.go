package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Column       lipgloss.Style
	ColumnActive lipgloss.Style
	ColumnHeader lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemMoving   lipgloss.Style // item picked up in move mode
	Folder       lipgloss.Style
	Bookmark     lipgloss.Style
	Favorite     lipgloss.Style // favorite star marker
	URL          lipgloss.Style
	Date         lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
	FavoritesBar lipgloss.Style
	Modal        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "confirm", "move")
	HintLabel    lipgloss.Style
}

// Accent is the single highlight color of the palette.
var Accent = lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}  // inactive borders
	gold := lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#D7AF5F"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1),

		Column: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		ColumnActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Accent).
			Padding(0, 1),

		ColumnHeader: lipgloss.NewStyle().
			Foreground(subtle),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent),

		Item: lipgloss.NewStyle().
			Foreground(primary),

		ItemSelected: lipgloss.NewStyle().
			Background(Accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		ItemMoving: lipgloss.NewStyle().
			Foreground(Accent).
			Italic(true),

		Folder: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Bookmark: lipgloss.NewStyle().
			Foreground(primary),

		Favorite: lipgloss.NewStyle().
			Foreground(gold),

		URL: lipgloss.NewStyle().
			Foreground(subtle),

		Date: lipgloss.NewStyle().
			Foreground(subtle),

		Help: lipgloss.NewStyle().
			Foreground(subtle),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),

		FavoritesBar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(border),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Accent).
			Padding(1, 2),

		HintKey: lipgloss.NewStyle().
			Foreground(Accent),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),

		HintLabel: lipgloss.NewStyle().
			Foreground(subtle).
			Bold(true),
	}
}

// folderMarker colors the folder glyph with the folder's own color.
func folderMarker(color, glyph string) string {
	if color == "" {
		return glyph
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(glyph)
}
