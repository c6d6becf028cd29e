package session_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/importer"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/session"
	"github.com/nikbrunner/shelf/internal/storage"
)

// memStorage keeps the last saved snapshot in memory.
type memStorage struct {
	mu    sync.Mutex
	saved *model.Store
	saves int
	fail  error
}

func (m *memStorage) Load() (*model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return model.NewStore(), nil
	}
	return m.saved.Clone(), nil
}

func (m *memStorage) Save(store *model.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.saved = store.Clone()
	m.saves++
	return nil
}

func (m *memStorage) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *memStorage) snapshot() (*model.Store, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, m.saves
}

// fixedResolver answers immediately.
type fixedResolver struct {
	icon  string
	calls atomic.Int32
}

func (r *fixedResolver) Resolve(ctx context.Context, rawURL string) string {
	r.calls.Add(1)
	return r.icon
}

// gatedResolver answers once per URL when the test sends on that URL's
// channel, ignoring cancellation.
type gatedResolver struct {
	started chan string
	results map[string]chan string
}

func newGatedResolver(urls ...string) *gatedResolver {
	r := &gatedResolver{started: make(chan string, len(urls)), results: map[string]chan string{}}
	for _, u := range urls {
		r.results[u] = make(chan string, 1)
	}
	return r
}

func (r *gatedResolver) Resolve(ctx context.Context, rawURL string) string {
	r.started <- rawURL
	return <-r.results[rawURL]
}

func open(t *testing.T, mem *memStorage, icons session.IconResolver, onChange func()) *session.Session {
	t.Helper()
	s, err := session.Open(session.Params{Storage: mem, Icons: icons, OnChange: onChange})
	assert.NilError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func firstColumn(s *session.Session) string {
	return s.Snapshot().ColumnOrder[0]
}

func TestOpen_EmptyCreatesDefaultColumn(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)

	snap := s.Snapshot()
	assert.Equal(t, 1, len(snap.Columns))
	assert.Equal(t, model.DefaultColumnWidth, snap.Columns[0].Width)

	saved, saves := mem.snapshot()
	assert.Equal(t, 1, saves)
	assert.DeepEqual(t, snap.ColumnOrder, saved.ColumnOrder)
}

func TestOpen_KeepsExistingColumns(t *testing.T) {
	existing := model.NewStore()
	existing.AddColumn(400)
	existing.AddColumn(250)
	mem := &memStorage{saved: existing}

	s := open(t, mem, nil, nil)

	assert.DeepEqual(t, existing.ColumnOrder, s.Snapshot().ColumnOrder)
	_, saves := mem.snapshot()
	assert.Equal(t, 0, saves)
}

func TestSession_MutationsPersist(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)
	col := firstColumn(s)

	folder, err := s.AddFolder(col, 0, model.NewFolderParams{Title: "Work"})
	assert.NilError(t, err)
	b, err := s.AddBookmark(folder.ID, 0, model.NewBookmarkParams{Title: "Go", URL: "https://go.dev", Icon: "fas fa-code"})
	assert.NilError(t, err)
	assert.NilError(t, s.ToggleFavorite(b.ID))
	assert.NilError(t, s.ToggleFolderCollapsed(folder.ID))

	saved, _ := mem.snapshot()
	got, ok := saved.FindByID(b.ID)
	assert.Assert(t, ok)
	assert.Assert(t, got.IsFavorite)
	assert.DeepEqual(t, []string{b.ID}, saved.FavoritesOrder)
	f, _ := saved.FindByID(folder.ID)
	assert.Assert(t, f.Collapsed)
}

func TestSession_RejectedMutationDoesNotSave(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)
	_, before := mem.snapshot()

	_, err := s.AddFolder("missing", 0, model.NewFolderParams{Title: "Lost"})
	assert.Assert(t, errors.Is(err, model.ErrInvalidDestination))

	removed, err := s.Delete("missing")
	assert.NilError(t, err)
	assert.Assert(t, !removed)

	_, after := mem.snapshot()
	assert.Equal(t, before, after)
}

func TestSession_PersistenceFailureKeepsState(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)
	col := firstColumn(s)
	mem.setFail(errors.New("disk full"))

	folder, err := s.AddFolder(col, 0, model.NewFolderParams{Title: "Unsaved"})
	assert.Assert(t, errors.Is(err, storage.ErrPersistence))
	assert.Assert(t, folder.ID != "")

	_, ok := s.Snapshot().FindByID(folder.ID)
	assert.Assert(t, ok, "in-memory change should survive a failed save")

	saved, _ := mem.snapshot()
	_, ok = saved.FindByID(folder.ID)
	assert.Assert(t, !ok)

	mem.setFail(nil)
	assert.NilError(t, s.Save())
	saved, _ = mem.snapshot()
	_, ok = saved.FindByID(folder.ID)
	assert.Assert(t, ok)
}

func TestSession_MoveUnchangedDoesNotSave(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)
	col := firstColumn(s)

	a, err := s.AddBookmark(col, 0, model.NewBookmarkParams{Title: "A", URL: "https://a.example", Icon: "fas fa-link"})
	assert.NilError(t, err)
	b, err := s.AddBookmark(col, 1, model.NewBookmarkParams{Title: "B", URL: "https://b.example", Icon: "fas fa-link"})
	assert.NilError(t, err)
	_, before := mem.snapshot()

	res, err := s.Move(model.MoveRequest{ItemID: a.ID, DestinationID: col, Index: 0})
	assert.NilError(t, err)
	assert.Assert(t, !res.Changed)
	_, after := mem.snapshot()
	assert.Equal(t, before, after)

	res, err = s.MoveToSlot(model.MoveRequest{ItemID: a.ID, DestinationID: col, Index: 2})
	assert.NilError(t, err)
	assert.Assert(t, res.Changed)

	saved, _ := mem.snapshot()
	items := saved.FindColumn(col).Items
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestSession_ColumnLifecycle(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)
	first := firstColumn(s)

	second, err := s.AddColumn(0)
	assert.NilError(t, err)

	width, err := s.ResizeColumn(second, 9000)
	assert.NilError(t, err)
	assert.Equal(t, model.MaxColumnWidth, width)

	assert.NilError(t, s.MoveColumn(second, 0))
	assert.DeepEqual(t, []string{second, first}, s.Snapshot().ColumnOrder)

	removed, err := s.DeleteColumn(first)
	assert.NilError(t, err)
	assert.Assert(t, removed)

	saved, _ := mem.snapshot()
	assert.DeepEqual(t, []string{second}, saved.ColumnOrder)
}

func TestSession_ImportHTMLAppendsColumn(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)

	doc := `<DL><p>
<DT><A HREF="https://go.dev">Go</A>
</DL><p>`
	col, err := s.ImportHTML(strings.NewReader(doc))
	assert.NilError(t, err)
	assert.Equal(t, model.ImportedColumnWidth, col.Width)

	snap := s.Snapshot()
	assert.Equal(t, 2, len(snap.Columns))
	assert.Equal(t, col.ID, snap.ColumnOrder[1])
}

func TestSession_ImportJSONMalformedLeavesStore(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)
	before := s.Snapshot().ColumnOrder

	err := s.ImportJSON(strings.NewReader(`{"columns": null}`))
	assert.Assert(t, errors.Is(err, importer.ErrMalformedImport))
	assert.DeepEqual(t, before, s.Snapshot().ColumnOrder)
}

func TestSession_ImportJSONReplaces(t *testing.T) {
	mem := &memStorage{}
	s := open(t, mem, nil, nil)

	doc := `{
  "appSettings": {},
  "columns": [{"id": "c9", "width": "320px", "items": [
    {"id": "b9", "type": "bookmark", "title": "Go", "url": "https://go.dev", "icon": "fas fa-code"}
  ]}],
  "columnOrder": ["c9"],
  "favoritesOrder": []
}`
	assert.NilError(t, s.ImportJSON(strings.NewReader(doc)))

	saved, _ := mem.snapshot()
	assert.DeepEqual(t, []string{"c9"}, saved.ColumnOrder)
	_, ok := saved.FindByID("b9")
	assert.Assert(t, ok)
}

func TestSession_IconEnrichmentApplies(t *testing.T) {
	mem := &memStorage{}
	resolver := &fixedResolver{icon: "https://icons.example/go.ico"}
	var changes atomic.Int32
	s := open(t, mem, resolver, func() { changes.Add(1) })

	b, err := s.AddBookmark(firstColumn(s), 0, model.NewBookmarkParams{Title: "Go", URL: "https://go.dev"})
	assert.NilError(t, err)
	assert.Equal(t, icon.Guess("https://go.dev"), b.Icon)

	s.Wait()

	got, _ := s.Snapshot().FindByID(b.ID)
	assert.Equal(t, "https://icons.example/go.ico", got.Icon)
	saved, _ := mem.snapshot()
	persisted, _ := saved.FindByID(b.ID)
	assert.Equal(t, "https://icons.example/go.ico", persisted.Icon)
	assert.Equal(t, int32(1), changes.Load())
	assert.Equal(t, 0, s.Pending())
}

func TestSession_ExplicitIconSkipsLookup(t *testing.T) {
	mem := &memStorage{}
	resolver := &fixedResolver{icon: "https://icons.example/go.ico"}
	s := open(t, mem, resolver, nil)

	b, err := s.AddBookmark(firstColumn(s), 0, model.NewBookmarkParams{Title: "Go", URL: "https://go.dev", Icon: "fas fa-star"})
	assert.NilError(t, err)
	s.Wait()

	got, _ := s.Snapshot().FindByID(b.ID)
	assert.Equal(t, "fas fa-star", got.Icon)
	assert.Equal(t, int32(0), resolver.calls.Load())
}

func TestSession_EditSupersedesIconLookup(t *testing.T) {
	mem := &memStorage{}
	resolver := newGatedResolver("https://go.dev")
	s := open(t, mem, resolver, nil)

	b, err := s.AddBookmark(firstColumn(s), 0, model.NewBookmarkParams{Title: "Go", URL: "https://go.dev"})
	assert.NilError(t, err)
	<-resolver.started

	title := "Go home"
	assert.NilError(t, s.Update(b.ID, model.ItemPatch{Title: &title}))

	resolver.results["https://go.dev"] <- "https://icons.example/stale.ico"
	s.Wait()

	got, _ := s.Snapshot().FindByID(b.ID)
	assert.Equal(t, "Go home", got.Title)
	assert.Equal(t, b.Icon, got.Icon, "superseded lookup must not overwrite the icon")
}

func TestSession_NewURLRestartsIconLookup(t *testing.T) {
	mem := &memStorage{}
	resolver := newGatedResolver("https://old.example", "https://new.example")
	s := open(t, mem, resolver, nil)

	b, err := s.AddBookmark(firstColumn(s), 0, model.NewBookmarkParams{Title: "Site", URL: "https://old.example"})
	assert.NilError(t, err)
	<-resolver.started

	newURL := "https://new.example"
	assert.NilError(t, s.Update(b.ID, model.ItemPatch{URL: &newURL}))
	<-resolver.started

	resolver.results["https://new.example"] <- "https://icons.example/new.ico"
	resolver.results["https://old.example"] <- "https://icons.example/old.ico"
	s.Wait()

	got, _ := s.Snapshot().FindByID(b.ID)
	assert.Equal(t, "https://icons.example/new.ico", got.Icon)
}

func TestSession_DeleteDropsIconLookup(t *testing.T) {
	mem := &memStorage{}
	resolver := newGatedResolver("https://go.dev")
	var changes atomic.Int32
	s := open(t, mem, resolver, func() { changes.Add(1) })

	b, err := s.AddBookmark(firstColumn(s), 0, model.NewBookmarkParams{Title: "Go", URL: "https://go.dev"})
	assert.NilError(t, err)
	<-resolver.started

	removed, err := s.Delete(b.ID)
	assert.NilError(t, err)
	assert.Assert(t, removed)
	assert.Equal(t, 0, s.Pending())

	resolver.results["https://go.dev"] <- "https://icons.example/go.ico"
	s.Wait()

	_, ok := s.Snapshot().FindByID(b.ID)
	assert.Assert(t, !ok)
	assert.Equal(t, int32(0), changes.Load())
}
