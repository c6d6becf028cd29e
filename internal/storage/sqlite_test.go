package storage_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nikbrunner/shelf/internal/exporter"
	"github.com/nikbrunner/shelf/internal/importer"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

func openSQLite(t *testing.T, name string) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	s := openSQLite(t, "bookmarks.db")

	store := sampleStore()
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if diff := cmp.Diff(store, loaded, ignoreClock); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStorage_EmptyDatabase(t *testing.T) {
	s := openSQLite(t, "empty.db")

	store, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load empty db: %v", err)
	}
	if len(store.Columns) != 0 || len(store.ColumnOrder) != 0 || len(store.FavoritesOrder) != 0 {
		t.Error("expected empty store")
	}
}

func TestSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "bookmarks.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage with nested dir: %v", err)
	}
	defer s.Close()

	if err := s.Save(model.NewStore()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
}

func TestSQLiteStorage_SchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "versioned.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}
	s.Close()

	// Reopening an up-to-date database must not rerun migrations.
	s, err = storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
}

func TestSQLiteStorage_SaveReplacesEverything(t *testing.T) {
	s := openSQLite(t, "replace.db")

	if err := s.Save(sampleStore()); err != nil {
		t.Fatal(err)
	}

	smaller := sampleStore()
	smaller.DeleteColumn("c1")
	if err := s.Save(smaller); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := loaded.FindByID("b2"); ok {
		t.Error("item from deleted column survived a full save")
	}
	if len(loaded.FavoritesOrder) != 0 {
		t.Errorf("favorites = %v, want none", loaded.FavoritesOrder)
	}
	if diff := cmp.Diff([]string{"c2", "c3"}, loaded.ColumnOrder); diff != "" {
		t.Errorf("column order (-want +got):\n%s", diff)
	}
}

func TestSQLiteStorage_DeepNesting(t *testing.T) {
	s := openSQLite(t, "nested.db")

	store := model.NewStore()
	col := store.AddColumn(0)
	parent := col
	for _, title := range []string{"Level 1", "Level 2", "Level 3", "Level 4"} {
		f := model.NewFolder(model.NewFolderParams{Title: title})
		if err := store.Append(f, parent); err != nil {
			t.Fatal(err)
		}
		parent = f.ID
	}
	leaf := model.NewBookmark(model.NewBookmarkParams{Title: "Deep", URL: "https://deep.example"})
	if err := store.Append(leaf, parent); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(store); err != nil {
		t.Fatal(err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"Level 1", "Level 2", "Level 3", "Level 4"}, loaded.PathOf(leaf.ID)); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStorage_ImportHTML(t *testing.T) {
	s := openSQLite(t, "import.db")

	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Development</H3>
    <DL><p>
        <DT><A HREF="https://github.com">GitHub</A>
        <DT><H3>Go</H3>
        <DL><p>
            <DT><A HREF="https://go.dev">Go Dev</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://news.ycombinator.com">Hacker News</A>
</DL><p>`

	col, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}

	store := model.NewStore()
	if err := store.AppendColumn(col); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save imported data: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	bookmarks, folders := loaded.Count()
	if folders != 2 {
		t.Errorf("expected 2 folders, got %d", folders)
	}
	if bookmarks != 3 {
		t.Errorf("expected 3 bookmarks, got %d", bookmarks)
	}
	if loaded.Columns[0].Width != model.ImportedColumnWidth {
		t.Errorf("width = %d, want %d", loaded.Columns[0].Width, model.ImportedColumnWidth)
	}
}

func TestSQLiteStorage_ImportExportRoundtrip(t *testing.T) {
	s := openSQLite(t, "roundtrip.db")

	if err := s.Save(sampleStore()); err != nil {
		t.Fatal(err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	html := exporter.ExportHTML(loaded)
	col, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to re-import: %v", err)
	}

	reimported := model.NewStore()
	if err := reimported.AppendColumn(col); err != nil {
		t.Fatal(err)
	}

	var want, got []string
	loaded.Walk(func(item *model.Item, _ int) bool {
		if item.IsBookmark() {
			want = append(want, item.URL)
		}
		return true
	})
	for _, b := range reimported.Bookmarks() {
		got = append(got, b.URL)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bookmark urls changed through export/import (-want +got):\n%s", diff)
	}
}
