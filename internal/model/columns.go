package model

import (
	"fmt"
	"slices"
)

// AddColumn appends a new empty column and returns its ID.
func (s *Store) AddColumn(width Width) string {
	c := NewColumn(width)
	s.Columns = append(s.Columns, c)
	s.ColumnOrder = append(s.ColumnOrder, c.ID)
	return c.ID
}

// AppendColumn adds a fully built column, such as one produced by an import.
// Every ID in the column must be new to the store.
func (s *Store) AppendColumn(c Column) error {
	if s.FindColumn(c.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}

	var incoming []string
	for k := range c.Items {
		incoming = c.Items[k].ids(incoming)
	}
	for _, id := range incoming {
		if _, exists := s.FindByID(id); exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
	}
	if c.Items == nil {
		c.Items = []Item{}
	}

	s.Columns = append(s.Columns, c)
	s.ColumnOrder = append(s.ColumnOrder, c.ID)
	for _, id := range incoming {
		if it, ok := s.FindByID(id); ok && it.IsBookmark() && it.IsFavorite {
			s.appendFavorite(id)
		}
	}
	return nil
}

// DeleteColumn removes the column with everything in it and purges the
// removed bookmarks from the favorites order.
func (s *Store) DeleteColumn(id string) (Column, bool) {
	idx := slices.IndexFunc(s.Columns, func(c Column) bool { return c.ID == id })
	if idx < 0 {
		return Column{}, false
	}

	removed := s.Columns[idx]
	s.Columns = slices.Delete(s.Columns, idx, idx+1)
	s.ColumnOrder = slices.DeleteFunc(s.ColumnOrder, func(cid string) bool { return cid == id })

	var purged []string
	for k := range removed.Items {
		purged = removed.Items[k].ids(purged)
	}
	s.dropFavorites(purged...)
	return removed, true
}

// ResizeColumn sets the column width, clamped to [MinColumnWidth, MaxColumnWidth].
func (s *Store) ResizeColumn(id string, width Width) (Width, error) {
	c := s.FindColumn(id)
	if c == nil {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	c.Width = width.Clamp()
	c.UpdatedAt = s.now()
	return c.Width, nil
}

// ReorderColumns replaces the display order. The new order must be a
// permutation of the existing column IDs.
func (s *Store) ReorderColumns(order []string) error {
	if !isPermutation(order, s.ColumnOrder) {
		return fmt.Errorf("%w: column order must be a permutation of the column ids", ErrInvariantViolation)
	}
	s.ColumnOrder = slices.Clone(order)
	return nil
}

// OrderedColumns returns the columns in display order.
func (s *Store) OrderedColumns() []*Column {
	result := make([]*Column, 0, len(s.ColumnOrder))
	for _, id := range s.ColumnOrder {
		if c := s.FindColumn(id); c != nil {
			result = append(result, c)
		}
	}
	return result
}
