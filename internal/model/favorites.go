package model

import (
	"fmt"
	"slices"
)

// AddFavorite marks the bookmark as favorite and appends it to the favorites
// order. Adding an ID that is already present is a no-op.
func (s *Store) AddFavorite(id string) error {
	item, ok := s.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if !item.IsBookmark() {
		return fmt.Errorf("%w: %s", ErrNotBookmark, id)
	}
	if !item.IsFavorite {
		item.IsFavorite = true
		item.UpdatedAt = s.now()
	}
	s.appendFavorite(id)
	return nil
}

// RemoveFavorite clears the bookmark's favorite flag and drops it from the
// favorites order. Removing an absent ID is a no-op.
func (s *Store) RemoveFavorite(id string) {
	if item, ok := s.FindByID(id); ok && item.IsFavorite {
		item.IsFavorite = false
		item.UpdatedAt = s.now()
	}
	s.dropFavorites(id)
}

// ReorderFavorites replaces the favorites order. The new order must be a
// permutation of the current one; membership only changes through add,
// toggle and delete.
func (s *Store) ReorderFavorites(order []string) error {
	if len(order) != len(s.FavoritesOrder) {
		return fmt.Errorf("%w: favorites reorder has %d ids, want %d",
			ErrInvariantViolation, len(order), len(s.FavoritesOrder))
	}
	if !isPermutation(order, s.FavoritesOrder) {
		return fmt.Errorf("%w: favorites reorder must not add or drop ids", ErrInvariantViolation)
	}
	s.FavoritesOrder = slices.Clone(order)
	return nil
}

// FavoriteItems resolves the favorites order to bookmarks, skipping IDs that
// no longer resolve to a favorite bookmark.
func (s *Store) FavoriteItems() []*Item {
	result := make([]*Item, 0, len(s.FavoritesOrder))
	for _, id := range s.FavoritesOrder {
		if item, ok := s.FindByID(id); ok && item.IsBookmark() && item.IsFavorite {
			result = append(result, item)
		}
	}
	return result
}

func (s *Store) appendFavorite(id string) {
	if !slices.Contains(s.FavoritesOrder, id) {
		s.FavoritesOrder = append(s.FavoritesOrder, id)
	}
}

func (s *Store) dropFavorites(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	s.FavoritesOrder = slices.DeleteFunc(s.FavoritesOrder, func(id string) bool {
		return drop[id]
	})
}

// isPermutation reports whether a and b hold the same IDs, each exactly once.
func isPermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(b))
	for _, id := range b {
		seen[id]++
	}
	for _, id := range a {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
