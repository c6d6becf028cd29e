package layout

// Config holds all layout-related configuration values.
type Config struct {
	Column ColumnConfig
	Modal  ModalConfig
	Input  InputConfig
	Text   TextConfig
}

// ColumnConfig maps stored column widths onto terminal cells.
type ColumnConfig struct {
	// PixelsPerCell converts a stored pixel width to terminal cells.
	PixelsPerCell int

	// MinCells and MaxCells bound the rendered column width.
	MinCells int
	MaxCells int

	// Gap is the number of blank cells between columns.
	Gap int

	// BorderWidth is the horizontal space taken by a column's border and padding.
	BorderWidth int

	// HeightReduction is subtracted from terminal height for column content.
	// Accounts for: favorites bar (3) + column borders (2) + header (1) + message (1) + help bar (1) = 8
	HeightReduction int

	// MinHeight is the minimum column content height.
	MinHeight int

	// IndentWidth is the indent per nesting level.
	IndentWidth int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// ListMaxVisible is the max rows shown in modal result lists.
	ListMaxVisible int

	// IconCellWidth is the width of one cell in the icon picker grid.
	IconCellWidth int

	// IconRows is the number of grid rows shown in the icon picker.
	IconRows int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit  int
	URLCharLimit    int
	ColorCharLimit  int
	SearchCharLimit int

	// StandardWidth is the display width of modal inputs.
	StandardWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		Column: ColumnConfig{
			PixelsPerCell:   10,
			MinCells:        16,
			MaxCells:        60,
			Gap:             1,
			BorderWidth:     4,
			HeightReduction: 8,
			MinHeight:       5,
			IndentWidth:     2,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 50,
			MinWidth:            50,
			MaxWidth:            80,
			ListMaxVisible:      8,
			IconCellWidth:       16,
			IconRows:            6,
		},
		Input: InputConfig{
			TitleCharLimit:  100,
			URLCharLimit:    500,
			ColorCharLimit:  7,
			SearchCharLimit: 100,
			StandardWidth:   40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
