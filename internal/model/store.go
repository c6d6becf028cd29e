package model

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Store holds the whole bookmark document: columns of item trees plus the
// independently ordered favorites list.
//
// Pointers returned by queries point into the store and are only valid until
// the next mutation.
type Store struct {
	AppSettings    map[string]any `json:"appSettings"`
	Columns        []Column       `json:"columns"`
	ColumnOrder    []string       `json:"columnOrder"`
	FavoritesOrder []string       `json:"favoritesOrder"`

	// Clock overrides time.Now for updatedAt stamps. Used by tests.
	Clock func() time.Time `json:"-"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		AppSettings:    map[string]any{},
		Columns:        []Column{},
		ColumnOrder:    []string{},
		FavoritesOrder: []string{},
	}
}

func (s *Store) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Location identifies where an item sits: the column or folder holding it and
// its index in that container's sequence.
type Location struct {
	ContainerID string
	Index       int
}

// FindByID searches all columns depth-first and returns the first item with
// the given ID.
func (s *Store) FindByID(id string) (*Item, bool) {
	for i := range s.Columns {
		if found := findIn(s.Columns[i].Items, id); found != nil {
			return found, true
		}
	}
	return nil, false
}

// FindColumn finds a column by ID, returns nil if not found.
func (s *Store) FindColumn(id string) *Column {
	for i := range s.Columns {
		if s.Columns[i].ID == id {
			return &s.Columns[i]
		}
	}
	return nil
}

// Locate returns the container and index currently holding the item.
func (s *Store) Locate(id string) (Location, bool) {
	for i := range s.Columns {
		if loc, ok := locateIn(s.Columns[i].Items, s.Columns[i].ID, id); ok {
			return loc, true
		}
	}
	return Location{}, false
}

func locateIn(items []Item, containerID, id string) (Location, bool) {
	for k := range items {
		if items[k].ID == id {
			return Location{ContainerID: containerID, Index: k}, true
		}
		if loc, ok := locateIn(items[k].Children, items[k].ID, id); ok {
			return loc, true
		}
	}
	return Location{}, false
}

// ColumnOf returns the column whose tree holds the item.
func (s *Store) ColumnOf(id string) *Column {
	for i := range s.Columns {
		if findIn(s.Columns[i].Items, id) != nil {
			return &s.Columns[i]
		}
	}
	return nil
}

// container resolves a column or folder ID to the sequence it owns.
func (s *Store) container(id string) (*[]Item, error) {
	if c := s.FindColumn(id); c != nil {
		return &c.Items, nil
	}
	if item, ok := s.FindByID(id); ok && item.IsFolder() {
		return &item.Children, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidDestination, id)
}

// Children returns the items held by a column or folder.
func (s *Store) Children(containerID string) ([]Item, error) {
	items, err := s.container(containerID)
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// Insert places item into the column or folder named by destinationID.
// The index is clamped to [0, len]. Favorite bookmarks in the inserted
// subtree are registered in the favorites order.
func (s *Store) Insert(item Item, destinationID string, index int) error {
	dest, err := s.container(destinationID)
	if err != nil {
		return err
	}

	incoming := item.ids(nil)
	for _, id := range incoming {
		if _, exists := s.FindByID(id); exists || s.FindColumn(id) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
	}

	index = clampIndex(index, len(*dest))
	*dest = slices.Insert(*dest, index, item)

	for _, id := range incoming {
		if it, ok := s.FindByID(id); ok && it.IsBookmark() && it.IsFavorite {
			s.appendFavorite(id)
		}
	}
	return nil
}

// Append places item at the end of the destination container.
func (s *Store) Append(item Item, destinationID string) error {
	return s.Insert(item, destinationID, math.MaxInt)
}

// RemoveByID detaches the item from its container and returns it with its
// subtree intact. Favorites are left untouched so the item can be reinserted.
func (s *Store) RemoveByID(id string) (Item, bool) {
	for i := range s.Columns {
		if removed, ok := removeFrom(&s.Columns[i].Items, id); ok {
			return removed, true
		}
	}
	return Item{}, false
}

func removeFrom(items *[]Item, id string) (Item, bool) {
	for k := range *items {
		if (*items)[k].ID == id {
			removed := (*items)[k]
			*items = slices.Delete(*items, k, k+1)
			return removed, true
		}
	}
	for k := range *items {
		if removed, ok := removeFrom(&(*items)[k].Children, id); ok {
			return removed, true
		}
	}
	return Item{}, false
}

// UpdateByID merges the non-nil patch fields into the item and refreshes
// UpdatedAt. Bookmark fields on a folder (or the reverse) are rejected.
func (s *Store) UpdateByID(id string, patch ItemPatch) error {
	item, ok := s.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if item.IsFolder() && patch.touchesBookmark() {
		return fmt.Errorf("%w: %s", ErrNotBookmark, id)
	}
	if item.IsBookmark() && patch.touchesFolder() {
		return fmt.Errorf("%w: %s", ErrNotFolder, id)
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.URL != nil {
		item.URL = *patch.URL
	}
	if patch.Icon != nil {
		item.Icon = *patch.Icon
	}
	if patch.Color != nil {
		item.Color = *patch.Color
	}
	if patch.Collapsed != nil {
		item.Collapsed = *patch.Collapsed
	}
	item.UpdatedAt = s.now()

	if patch.IsFavorite != nil {
		item.IsFavorite = *patch.IsFavorite
		if item.IsFavorite {
			s.appendFavorite(id)
		} else {
			s.dropFavorites(id)
		}
	}
	return nil
}

// DeleteSubtree removes the item and its descendants and purges every removed
// ID from the favorites order. Deleting an unknown ID is a no-op.
func (s *Store) DeleteSubtree(id string) (Item, bool) {
	removed, ok := s.RemoveByID(id)
	if !ok {
		return Item{}, false
	}
	s.dropFavorites(removed.ids(nil)...)
	return removed, true
}

// ToggleFolderCollapsed flips the collapsed flag of a folder.
func (s *Store) ToggleFolderCollapsed(id string) error {
	item, ok := s.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if !item.IsFolder() {
		return fmt.Errorf("%w: %s", ErrNotFolder, id)
	}
	item.Collapsed = !item.Collapsed
	item.UpdatedAt = s.now()
	return nil
}

// ToggleFavorite flips a bookmark's favorite flag, keeping the favorites order
// consistent: added at the end when set, removed when cleared.
func (s *Store) ToggleFavorite(id string) error {
	item, ok := s.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if !item.IsBookmark() {
		return fmt.Errorf("%w: %s", ErrNotBookmark, id)
	}

	item.IsFavorite = !item.IsFavorite
	item.UpdatedAt = s.now()
	if item.IsFavorite {
		s.appendFavorite(id)
	} else {
		s.dropFavorites(id)
	}
	return nil
}

// Walk visits every item depth-first in display order (columnOrder, then
// sequence order). Returning false from fn stops the walk.
func (s *Store) Walk(fn func(item *Item, depth int) bool) {
	var walk func(items []Item, depth int) bool
	walk = func(items []Item, depth int) bool {
		for k := range items {
			if !fn(&items[k], depth) {
				return false
			}
			if !walk(items[k].Children, depth+1) {
				return false
			}
		}
		return true
	}

	for _, c := range s.OrderedColumns() {
		if !walk(c.Items, 0) {
			return
		}
	}
}

// Bookmarks returns every bookmark in display order.
func (s *Store) Bookmarks() []*Item {
	var result []*Item
	s.Walk(func(item *Item, _ int) bool {
		if item.IsBookmark() {
			result = append(result, item)
		}
		return true
	})
	return result
}

// Count returns the number of bookmarks and folders in the store.
func (s *Store) Count() (bookmarks, folders int) {
	s.Walk(func(item *Item, _ int) bool {
		if item.IsFolder() {
			folders++
		} else {
			bookmarks++
		}
		return true
	})
	return bookmarks, folders
}

// PathOf returns the folder titles leading to the item, outermost first.
func (s *Store) PathOf(id string) []string {
	var path []string
	var search func(items []Item) bool
	search = func(items []Item) bool {
		for k := range items {
			if items[k].ID == id {
				return true
			}
			if items[k].IsFolder() {
				path = append(path, items[k].Title)
				if search(items[k].Children) {
					return true
				}
				path = path[:len(path)-1]
			}
		}
		return false
	}

	for i := range s.Columns {
		if search(s.Columns[i].Items) {
			return path
		}
	}
	return nil
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	out := &Store{
		AppSettings:    cloneSettings(s.AppSettings),
		Columns:        make([]Column, len(s.Columns)),
		ColumnOrder:    slices.Clone(s.ColumnOrder),
		FavoritesOrder: slices.Clone(s.FavoritesOrder),
		Clock:          s.Clock,
	}
	for i, c := range s.Columns {
		items := make([]Item, len(c.Items))
		for k := range c.Items {
			items[k] = cloneItem(c.Items[k])
		}
		c.Items = items
		out.Columns[i] = c
	}
	return out
}

func cloneSettings(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clampIndex(index, length int) int {
	return min(max(index, 0), length)
}
