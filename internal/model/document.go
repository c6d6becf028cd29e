package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Decode parses a persisted document and repairs it with Normalize.
func Decode(data []byte) (*Store, error) {
	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.Normalize()
	return &s, nil
}

// Encode serializes the store as a pretty-printed document.
func Encode(s *Store) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Normalize repairs a loaded document so the store invariants hold:
// nil slices become empty, missing widths get the default, columnOrder
// becomes a permutation of the column IDs, and favoritesOrder holds exactly
// the favorite bookmarks (existing order kept, missing ones appended in tree
// order).
func (s *Store) Normalize() {
	if s.AppSettings == nil {
		s.AppSettings = map[string]any{}
	}
	if s.Columns == nil {
		s.Columns = []Column{}
	}

	ids := make(map[string]bool, len(s.Columns))
	for i := range s.Columns {
		c := &s.Columns[i]
		ids[c.ID] = true
		if c.Width <= 0 {
			c.Width = DefaultColumnWidth
		}
		if c.Items == nil {
			c.Items = []Item{}
		}
		normalizeItems(c.Items)
	}

	order := make([]string, 0, len(s.Columns))
	seen := make(map[string]bool, len(s.Columns))
	for _, id := range s.ColumnOrder {
		if ids[id] && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for _, c := range s.Columns {
		if !seen[c.ID] {
			order = append(order, c.ID)
			seen[c.ID] = true
		}
	}
	s.ColumnOrder = order

	favorites := make([]string, 0, len(s.FavoritesOrder))
	for _, id := range s.FavoritesOrder {
		if item, ok := s.FindByID(id); ok && item.IsBookmark() && item.IsFavorite && !slices.Contains(favorites, id) {
			favorites = append(favorites, id)
		}
	}
	s.Walk(func(item *Item, _ int) bool {
		if item.IsBookmark() && item.IsFavorite && !slices.Contains(favorites, item.ID) {
			favorites = append(favorites, item.ID)
		}
		return true
	})
	s.FavoritesOrder = favorites
}

func normalizeItems(items []Item) {
	for k := range items {
		item := &items[k]
		switch item.Type {
		case TypeFolder:
			if item.Children == nil {
				item.Children = []Item{}
			}
			if item.Color == "" {
				item.Color = DefaultFolderColor
			}
			normalizeItems(item.Children)
		default:
			item.Type = TypeBookmark
			if item.Icon == "" {
				item.Icon = DefaultIcon
			}
		}
	}
}

// Validate reports the first broken invariant without repairing anything.
func (s *Store) Validate() error {
	seen := make(map[string]bool)
	for _, c := range s.Columns {
		if seen[c.ID] {
			return fmt.Errorf("%w: column %s", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = true
	}

	var ids []string
	for i := range s.Columns {
		for k := range s.Columns[i].Items {
			ids = s.Columns[i].Items[k].ids(ids)
		}
	}
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: item %s", ErrDuplicateID, id)
		}
		seen[id] = true
	}

	columnIDs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		columnIDs[i] = c.ID
	}
	if !isPermutation(s.ColumnOrder, columnIDs) {
		return fmt.Errorf("%w: columnOrder is not a permutation of the columns", ErrInvariantViolation)
	}

	var favorites []string
	s.Walk(func(item *Item, _ int) bool {
		if item.IsBookmark() && item.IsFavorite {
			favorites = append(favorites, item.ID)
		}
		return true
	})
	if !isPermutation(s.FavoritesOrder, favorites) {
		return fmt.Errorf("%w: favoritesOrder does not match the favorite bookmarks", ErrInvariantViolation)
	}
	return nil
}
