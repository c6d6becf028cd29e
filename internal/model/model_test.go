package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/nikbrunner/shelf/internal/model"
)

var fixedTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func bookmark(id, title, url string) model.Item {
	return model.Item{
		ID:        id,
		Type:      model.TypeBookmark,
		Title:     title,
		URL:       url,
		Icon:      model.DefaultIcon,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

func folder(id, title string, children ...model.Item) model.Item {
	if children == nil {
		children = []model.Item{}
	}
	return model.Item{
		ID:        id,
		Type:      model.TypeFolder,
		Title:     title,
		Color:     model.DefaultFolderColor,
		Children:  children,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

func column(id string, items ...model.Item) model.Column {
	if items == nil {
		items = []model.Item{}
	}
	return model.Column{
		ID:        id,
		Width:     model.DefaultColumnWidth,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
		Items:     items,
	}
}

func newStore(columns ...model.Column) *model.Store {
	s := model.NewStore()
	for _, c := range columns {
		s.Columns = append(s.Columns, c)
		s.ColumnOrder = append(s.ColumnOrder, c.ID)
	}
	later := fixedTime.Add(time.Hour)
	s.Clock = func() time.Time { return later }
	return s
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestStore_FindByID(t *testing.T) {
	store := newStore(
		column("c1",
			bookmark("b1", "Top", "https://top.example"),
			folder("f1", "Work",
				folder("f2", "Deep",
					bookmark("b2", "Nested", "https://nested.example"),
				),
			),
		),
		column("c2", bookmark("b3", "Other", "https://other.example")),
	)

	tests := []struct {
		id        string
		wantTitle string
		wantFound bool
	}{
		{"b1", "Top", true},
		{"f2", "Deep", true},
		{"b2", "Nested", true},
		{"b3", "Other", true},
		{"missing", "", false},
		{"c1", "", false}, // columns are not items
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			item, ok := store.FindByID(tt.id)
			if ok != tt.wantFound {
				t.Fatalf("FindByID(%q) found=%v, want %v", tt.id, ok, tt.wantFound)
			}
			if ok && item.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", item.Title, tt.wantTitle)
			}
		})
	}
}

func TestStore_InsertThenFind(t *testing.T) {
	store := newStore(column("c1", folder("f1", "Work")))

	b := model.NewBookmark(model.NewBookmarkParams{Title: "Go", URL: "https://go.dev"})
	if err := store.Insert(b, "f1", 0); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, ok := store.FindByID(b.ID)
	if !ok {
		t.Fatal("inserted item not found")
	}
	if diff := cmp.Diff(b, *got); diff != "" {
		t.Errorf("found item differs from inserted (-want +got):\n%s", diff)
	}
}

func TestStore_InsertClampsIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"negative goes first", -5, []string{"new", "b1", "b2"}},
		{"middle", 1, []string{"b1", "new", "b2"}},
		{"past end appends", 99, []string{"b1", "b2", "new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(column("c1",
				bookmark("b1", "One", "https://one.example"),
				bookmark("b2", "Two", "https://two.example"),
			))
			if err := store.Insert(bookmark("new", "New", "https://new.example"), "c1", tt.index); err != nil {
				t.Fatalf("insert: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(store.Columns[0].Items)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_InsertRejects(t *testing.T) {
	store := newStore(column("c1",
		bookmark("b1", "One", "https://one.example"),
		folder("f1", "Work"),
	))

	err := store.Insert(bookmark("x", "X", "https://x.example"), "b1", 0)
	if !errors.Is(err, model.ErrInvalidDestination) {
		t.Errorf("insert into bookmark: got %v, want ErrInvalidDestination", err)
	}

	err = store.Insert(bookmark("x", "X", "https://x.example"), "nowhere", 0)
	if !errors.Is(err, model.ErrInvalidDestination) {
		t.Errorf("insert into unknown: got %v, want ErrInvalidDestination", err)
	}

	err = store.Insert(bookmark("b1", "Dup", "https://dup.example"), "f1", 0)
	if !errors.Is(err, model.ErrDuplicateID) {
		t.Errorf("duplicate id: got %v, want ErrDuplicateID", err)
	}
}

func TestStore_InsertFavoriteRegisters(t *testing.T) {
	store := newStore(column("c1"))
	b := bookmark("b1", "Fav", "https://fav.example")
	b.IsFavorite = true

	if err := store.Append(b, "c1"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if diff := cmp.Diff([]string{"b1"}, store.FavoritesOrder); diff != "" {
		t.Errorf("favorites mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RemoveByID_ReturnsSubtree(t *testing.T) {
	sub := folder("f1", "Work",
		bookmark("b1", "One", "https://one.example"),
		folder("f2", "Inner", bookmark("b2", "Two", "https://two.example")),
	)
	store := newStore(column("c1", sub, bookmark("b3", "Three", "https://three.example")))

	removed, ok := store.RemoveByID("f1")
	if !ok {
		t.Fatal("expected f1 to be removed")
	}
	if diff := cmp.Diff(sub, removed); diff != "" {
		t.Errorf("detached subtree differs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b3"}, ids(store.Columns[0].Items)); diff != "" {
		t.Errorf("remaining order (-want +got):\n%s", diff)
	}
	if _, ok := store.FindByID("b2"); ok {
		t.Error("descendant b2 should be gone with its folder")
	}
	if _, ok := store.RemoveByID("f1"); ok {
		t.Error("second removal should report not found")
	}
}

func TestStore_UpdateByID(t *testing.T) {
	store := newStore(column("c1",
		bookmark("b1", "Old", "https://old.example"),
		folder("f1", "Folder"),
	))

	title := "New"
	url := "https://new.example"
	if err := store.UpdateByID("b1", model.ItemPatch{Title: &title, URL: &url}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := store.FindByID("b1")
	if got.Title != "New" || got.URL != "https://new.example" {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.Icon != model.DefaultIcon {
		t.Errorf("untouched field changed: icon = %q", got.Icon)
	}
	if !got.UpdatedAt.After(fixedTime) {
		t.Error("updatedAt not refreshed")
	}
	if !got.CreatedAt.Equal(fixedTime) {
		t.Error("createdAt must not change")
	}

	if err := store.UpdateByID("missing", model.ItemPatch{Title: &title}); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing item: got %v, want ErrNotFound", err)
	}

	color := "#ff0000"
	if err := store.UpdateByID("b1", model.ItemPatch{Color: &color}); !errors.Is(err, model.ErrNotFolder) {
		t.Errorf("color on bookmark: got %v, want ErrNotFolder", err)
	}
	if err := store.UpdateByID("f1", model.ItemPatch{URL: &url}); !errors.Is(err, model.ErrNotBookmark) {
		t.Errorf("url on folder: got %v, want ErrNotBookmark", err)
	}
}

func TestStore_UpdateByID_FavoriteFlagSyncsOrder(t *testing.T) {
	store := newStore(column("c1", bookmark("b1", "One", "https://one.example")))

	on, off := true, false
	if err := store.UpdateByID("b1", model.ItemPatch{IsFavorite: &on}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"b1"}, store.FavoritesOrder); diff != "" {
		t.Errorf("after favorite on (-want +got):\n%s", diff)
	}

	if err := store.UpdateByID("b1", model.ItemPatch{IsFavorite: &off}); err != nil {
		t.Fatal(err)
	}
	if len(store.FavoritesOrder) != 0 {
		t.Errorf("expected empty favorites, got %v", store.FavoritesOrder)
	}
}

func TestStore_DeleteSubtree_PurgesFavorites(t *testing.T) {
	b1 := bookmark("b1", "One", "https://one.example")
	b1.IsFavorite = true
	b2 := bookmark("b2", "Two", "https://two.example")
	b2.IsFavorite = true
	b3 := bookmark("b3", "Three", "https://three.example")
	b3.IsFavorite = true

	store := newStore(column("c1", folder("f1", "Work", b1, folder("f2", "Inner", b2)), b3))
	store.FavoritesOrder = []string{"b2", "b3", "b1"}

	if _, ok := store.DeleteSubtree("f1"); !ok {
		t.Fatal("expected delete to succeed")
	}

	for _, id := range []string{"f1", "b1", "f2", "b2"} {
		if _, ok := store.FindByID(id); ok {
			t.Errorf("%s still present after delete", id)
		}
	}
	if diff := cmp.Diff([]string{"b3"}, store.FavoritesOrder); diff != "" {
		t.Errorf("favorites not purged (-want +got):\n%s", diff)
	}
	if err := store.Validate(); err != nil {
		t.Errorf("store invalid after delete: %v", err)
	}

	if _, ok := store.DeleteSubtree("f1"); ok {
		t.Error("deleting a missing id should be a no-op")
	}
}

func TestStore_ToggleFavorite_Scenario(t *testing.T) {
	store := newStore(column("c1", bookmark("b1", "Ex", "https://example.com")))

	if err := store.ToggleFavorite("b1"); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if diff := cmp.Diff([]string{"b1"}, store.FavoritesOrder); diff != "" {
		t.Errorf("after first toggle (-want +got):\n%s", diff)
	}

	if err := store.ToggleFavorite("b1"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if diff := cmp.Diff([]string{}, store.FavoritesOrder, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("after second toggle (-want +got):\n%s", diff)
	}
}

func TestStore_ToggleFavorite_RoundTrips(t *testing.T) {
	fav := bookmark("b1", "Fav", "https://fav.example")
	fav.IsFavorite = true
	store := newStore(column("c1", fav, bookmark("b2", "Plain", "https://plain.example")))
	store.FavoritesOrder = []string{"b1"}

	// true -> false -> true keeps exactly one entry
	for i := 0; i < 2; i++ {
		if err := store.ToggleFavorite("b1"); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"b1"}, store.FavoritesOrder); diff != "" {
		t.Errorf("true->false->true (-want +got):\n%s", diff)
	}

	// false -> true -> false leaves it out
	for i := 0; i < 2; i++ {
		if err := store.ToggleFavorite("b2"); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"b1"}, store.FavoritesOrder); diff != "" {
		t.Errorf("false->true->false (-want +got):\n%s", diff)
	}
}

func TestStore_ToggleFavorite_Errors(t *testing.T) {
	store := newStore(column("c1", folder("f1", "Work")))

	if err := store.ToggleFavorite("f1"); !errors.Is(err, model.ErrNotBookmark) {
		t.Errorf("folder: got %v, want ErrNotBookmark", err)
	}
	if err := store.ToggleFavorite("nope"); !errors.Is(err, model.ErrItemNotFound) {
		t.Errorf("missing: got %v, want ErrItemNotFound", err)
	}
}

func TestStore_ToggleFolderCollapsed(t *testing.T) {
	store := newStore(column("c1", folder("f1", "Work"), bookmark("b1", "B", "https://b.example")))

	if err := store.ToggleFolderCollapsed("f1"); err != nil {
		t.Fatal(err)
	}
	f, _ := store.FindByID("f1")
	if !f.Collapsed {
		t.Error("expected folder to be collapsed")
	}
	if err := store.ToggleFolderCollapsed("f1"); err != nil {
		t.Fatal(err)
	}
	f, _ = store.FindByID("f1")
	if f.Collapsed {
		t.Error("expected folder to be expanded again")
	}

	if err := store.ToggleFolderCollapsed("b1"); !errors.Is(err, model.ErrNotFolder) {
		t.Errorf("bookmark: got %v, want ErrNotFolder", err)
	}
}

func TestStore_PathOf(t *testing.T) {
	store := newStore(column("c1",
		folder("f1", "Work", folder("f2", "Go", bookmark("b1", "Docs", "https://go.dev"))),
		bookmark("b2", "Root", "https://root.example"),
	))

	if diff := cmp.Diff([]string{"Work", "Go"}, store.PathOf("b1")); diff != "" {
		t.Errorf("path of b1 (-want +got):\n%s", diff)
	}
	if got := store.PathOf("b2"); len(got) != 0 {
		t.Errorf("root bookmark path = %v, want empty", got)
	}
}

func TestStore_CloneIsDeep(t *testing.T) {
	store := newStore(column("c1", folder("f1", "Work", bookmark("b1", "One", "https://one.example"))))
	clone := store.Clone()

	title := "Changed"
	if err := clone.UpdateByID("b1", model.ItemPatch{Title: &title}); err != nil {
		t.Fatal(err)
	}
	orig, _ := store.FindByID("b1")
	if orig.Title != "One" {
		t.Errorf("mutating the clone changed the original: %q", orig.Title)
	}
}

func TestNewBookmarkAndFolder_Defaults(t *testing.T) {
	b := model.NewBookmark(model.NewBookmarkParams{Title: "T", URL: "https://t.example"})
	if b.ID == "" || b.Type != model.TypeBookmark || b.Icon != model.DefaultIcon {
		t.Errorf("unexpected bookmark defaults: %+v", b)
	}
	if !b.CreatedAt.Equal(b.UpdatedAt) {
		t.Error("createdAt and updatedAt should match on creation")
	}

	f := model.NewFolder(model.NewFolderParams{Title: "F"})
	if f.Color != model.DefaultFolderColor || f.Children == nil || !f.IsFolder() {
		t.Errorf("unexpected folder defaults: %+v", f)
	}
	if f.ID == b.ID {
		t.Error("generated ids must differ")
	}
}
