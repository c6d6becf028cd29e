package layout

// ColumnCells converts a stored pixel width to a rendered width in cells,
// border included.
func ColumnCells(pixels int, cfg ColumnConfig) int {
	cells := pixels / max(cfg.PixelsPerCell, 1)
	if cells < cfg.MinCells {
		return cfg.MinCells
	}
	if cells > cfg.MaxCells {
		return cfg.MaxCells
	}
	return cells
}

// ContentWidth is the width left for item text inside a column.
func ContentWidth(cells int, cfg ColumnConfig) int {
	return max(cells-cfg.BorderWidth, 1)
}

// CalculateColumnHeight computes the content height for columns.
// Returns at least MinHeight.
func CalculateColumnHeight(terminalHeight int, cfg ColumnConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// VisibleColumns picks the window of columns that fits the terminal width
// and contains the focused column. widths are rendered cell widths. Returns
// (start, end) where columns[start:end] should be drawn.
func VisibleColumns(widths []int, focused, terminalWidth int, cfg ColumnConfig) (start, end int) {
	if len(widths) == 0 {
		return 0, 0
	}
	focused = min(max(focused, 0), len(widths)-1)

	fits := func(from, to int) bool {
		total := 0
		for i := from; i < to; i++ {
			total += widths[i]
			if i > from {
				total += cfg.Gap
			}
		}
		return total <= terminalWidth
	}

	// grow to the right from the first column, then slide until focused fits
	start, end = 0, 1
	for end < len(widths) && fits(start, end+1) {
		end++
	}
	for focused >= end {
		end++
		for start < end-1 && !fits(start, end) {
			start++
		}
	}
	return start, end
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected row visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
