package model_test

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/shelf/internal/model"
)

func favoritesFixture() *model.Store {
	return newStore(column("c1",
		bookmark("b1", "One", "https://one.example"),
		bookmark("b2", "Two", "https://two.example"),
		bookmark("b3", "Three", "https://three.example"),
		folder("f1", "Folder"),
	))
}

func TestStore_AddFavorite(t *testing.T) {
	store := favoritesFixture()

	assert.NilError(t, store.AddFavorite("b2"))
	assert.NilError(t, store.AddFavorite("b1"))
	assert.NilError(t, store.AddFavorite("b2"))
	assert.DeepEqual(t, []string{"b2", "b1"}, store.FavoritesOrder)

	b2, _ := store.FindByID("b2")
	assert.Assert(t, b2.IsFavorite)

	assert.Assert(t, errors.Is(store.AddFavorite("f1"), model.ErrNotBookmark))
	assert.Assert(t, errors.Is(store.AddFavorite("ghost"), model.ErrItemNotFound))
	assert.NilError(t, store.Validate())
}

func TestStore_RemoveFavorite(t *testing.T) {
	store := favoritesFixture()
	assert.NilError(t, store.AddFavorite("b1"))
	assert.NilError(t, store.AddFavorite("b3"))

	store.RemoveFavorite("b1")
	store.RemoveFavorite("b1")
	store.RemoveFavorite("ghost")

	assert.DeepEqual(t, []string{"b3"}, store.FavoritesOrder)
	b1, _ := store.FindByID("b1")
	assert.Assert(t, !b1.IsFavorite)
}

func TestStore_ReorderFavorites(t *testing.T) {
	store := favoritesFixture()
	for _, id := range []string{"b1", "b2", "b3"} {
		assert.NilError(t, store.AddFavorite(id))
	}

	assert.NilError(t, store.ReorderFavorites([]string{"b3", "b1", "b2"}))
	assert.DeepEqual(t, []string{"b3", "b1", "b2"}, store.FavoritesOrder)

	tests := []struct {
		name  string
		order []string
	}{
		{"drops an id", []string{"b3", "b1"}},
		{"adds an id", []string{"b3", "b1", "b2", "f1"}},
		{"duplicates an id", []string{"b3", "b3", "b2"}},
		{"swaps in a stranger", []string{"b3", "b1", "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.ReorderFavorites(tt.order)
			assert.Assert(t, errors.Is(err, model.ErrInvariantViolation), "got %v", err)
			assert.DeepEqual(t, []string{"b3", "b1", "b2"}, store.FavoritesOrder)
		})
	}
}

func TestStore_FavoriteItems(t *testing.T) {
	store := favoritesFixture()
	assert.NilError(t, store.AddFavorite("b3"))
	assert.NilError(t, store.AddFavorite("b1"))

	items := store.FavoriteItems()
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "Three", items[0].Title)
	assert.Equal(t, "One", items[1].Title)
}
