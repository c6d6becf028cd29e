package tui

import "github.com/nikbrunner/shelf/internal/model"

// Row is one visible line of a column: an item, how deep it is nested, and
// where it sits in its container.
type Row struct {
	Item        *model.Item
	Depth       int
	ContainerID string
	Index       int
}

// ID returns the item's ID.
func (r Row) ID() string {
	return r.Item.ID
}

// IsFolder returns true if the row is a folder.
func (r Row) IsFolder() bool {
	return r.Item.IsFolder()
}

// columnView is a column as drawn: its stored fields plus visible rows.
type columnView struct {
	ID    string
	Width model.Width
	Rows  []Row
}

// flattenColumn lists the visible rows of a column depth-first. Children of
// collapsed folders are hidden.
func flattenColumn(col *model.Column) []Row {
	var rows []Row
	var walk func(items []model.Item, containerID string, depth int)
	walk = func(items []model.Item, containerID string, depth int) {
		for k := range items {
			item := &items[k]
			rows = append(rows, Row{Item: item, Depth: depth, ContainerID: containerID, Index: k})
			if item.IsFolder() && !item.Collapsed {
				walk(item.Children, item.ID, depth+1)
			}
		}
	}
	walk(col.Items, col.ID, 0)
	return rows
}

// buildColumns derives the drawn columns from a store snapshot.
func buildColumns(store *model.Store) []columnView {
	ordered := store.OrderedColumns()
	views := make([]columnView, len(ordered))
	for i, col := range ordered {
		views[i] = columnView{ID: col.ID, Width: col.Width, Rows: flattenColumn(col)}
	}
	return views
}
