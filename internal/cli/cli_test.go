package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

// writeConfig creates a config in a temp dir that keeps the document next to
// it and never fetches icons.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := storage.DefaultConfig()
	cfg.Backend = storage.BackendJSON
	cfg.IconFetch = false
	assert.NilError(t, storage.SaveConfig(path, &cfg))
	return path
}

func runCLI(t *testing.T, app *App, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	if app == nil {
		app = &App{}
	}
	cmd := newRootCmd(app)

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type shelf struct {
	t      *testing.T
	config string
}

func newShelf(t *testing.T) *shelf {
	return &shelf{t: t, config: writeConfig(t)}
}

func (s *shelf) run(args ...string) (string, error) {
	s.t.Helper()
	stdout, _, err := runCLI(s.t, nil, append([]string{"--config", s.config}, args...))
	return string(stdout), err
}

func (s *shelf) mustRun(args ...string) string {
	s.t.Helper()
	out, err := s.run(args...)
	if err != nil {
		s.t.Fatalf("shelf %v failed: %v\nstdout:\n%s", args, err, out)
	}
	return out
}

var idInOutput = regexp.MustCompile(`\(([0-9a-f-]+)\)`)

// add runs an add command and returns the short ID it printed.
func (s *shelf) add(args ...string) string {
	s.t.Helper()
	out := s.mustRun(args...)
	m := idInOutput.FindStringSubmatch(out)
	if m == nil {
		s.t.Fatalf("no id in output %q", out)
	}
	return m[1]
}

func (s *shelf) document() *model.Store {
	s.t.Helper()
	store, err := model.Decode([]byte(s.mustRun("ls", "--json")))
	assert.NilError(s.t, err)
	return store
}

func titlesOf(items []model.Item) []string {
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	return titles
}

func (s *shelf) firstColumnTitles() []string {
	s.t.Helper()
	return titlesOf(s.document().OrderedColumns()[0].Items)
}

func TestAddAndList(t *testing.T) {
	s := newShelf(t)

	dev := s.add("folder", "--title", "Dev", "--color", "#ffcc00")
	s.add("add", "--to", dev, "--title", "Go Docs", "--url", "https://go.dev/doc", "--icon", "fas fa-book")
	out := s.mustRun("add", "--title", "GitHub", "--url", "https://github.com", "--icon", "fab fa-github", "--fav")
	assert.Check(t, is.Contains(out, "Added GitHub ("))

	out = s.mustRun("ls")
	assert.Check(t, is.Contains(out, "1  "))
	assert.Check(t, is.Contains(out, "300px"))
	assert.Check(t, is.Contains(out, "  ▾ Dev  ["+dev+"]"))
	assert.Check(t, is.Contains(out, "    · Go Docs  https://go.dev/doc  <book>"))
	assert.Check(t, is.Contains(out, "  · GitHub ★  https://github.com  <github>"))

	out = s.mustRun("ls", dev)
	assert.Check(t, is.Contains(out, `folder "Dev"`))
	assert.Check(t, is.Contains(out, "Go Docs"))
	assert.Check(t, !strings.Contains(out, "GitHub"))

	folder := s.document().OrderedColumns()[0].Items[0]
	assert.Equal(t, folder.Color, "#ffcc00")
}

func TestAddValidatesInput(t *testing.T) {
	s := newShelf(t)

	_, err := s.run("add", "--title", "No URL")
	assert.ErrorContains(t, err, "url")

	_, err = s.run("folder", "--title", "Dev", "--color", "blue")
	assert.ErrorContains(t, err, "invalid color")

	bm := s.add("add", "--title", "Go", "--url", "https://go.dev", "--icon", "fas fa-code")
	_, err = s.run("add", "--to", bm, "--title", "X", "--url", "https://x.com")
	assert.ErrorIs(t, err, model.ErrNotFolder)
}

func TestAddAtIndex(t *testing.T) {
	s := newShelf(t)
	s.add("add", "--title", "B", "--url", "https://b.example", "--icon", "fas fa-link")
	s.add("add", "--title", "A", "--url", "https://a.example", "--icon", "fas fa-link", "--index", "0")

	assert.DeepEqual(t, s.firstColumnTitles(), []string{"A", "B"})
}

func TestEdit(t *testing.T) {
	s := newShelf(t)
	id := s.add("add", "--title", "GitHub", "--url", "https://github.com", "--icon", "fab fa-github")

	out := s.mustRun("edit", id, "--title", "GitHub!", "--fav")
	assert.Equal(t, out, "Saved GitHub!\n")

	doc := s.document()
	item := &doc.OrderedColumns()[0].Items[0]
	assert.Equal(t, item.Title, "GitHub!")
	assert.Assert(t, item.IsFavorite)
	assert.Equal(t, item.Icon, "fab fa-github")
	assert.DeepEqual(t, doc.FavoritesOrder, []string{item.ID})

	_, err := s.run("edit", id)
	assert.ErrorContains(t, err, "nothing to change")

	_, err = s.run("edit", id, "--color", "#123456")
	assert.ErrorIs(t, err, model.ErrNotFolder)
}

func TestMoveBeforeAndAfter(t *testing.T) {
	s := newShelf(t)
	a := s.add("add", "--title", "A", "--url", "https://a.example", "--icon", "fas fa-link")
	b := s.add("add", "--title", "B", "--url", "https://b.example", "--icon", "fas fa-link")
	c := s.add("add", "--title", "C", "--url", "https://c.example", "--icon", "fas fa-link")

	out := s.mustRun("mv", c, "--before", a)
	assert.Equal(t, out, "Moved C to column 1 at 0\n")
	assert.DeepEqual(t, s.firstColumnTitles(), []string{"C", "A", "B"})

	out = s.mustRun("mv", c, "--after", b)
	assert.Equal(t, out, "Moved C to column 1 at 2\n")
	assert.DeepEqual(t, s.firstColumnTitles(), []string{"A", "B", "C"})

	out = s.mustRun("mv", a, "--to", "1", "--index", "0")
	assert.Equal(t, out, "A is already there\n")
}

func TestMoveIntoFolderAndBack(t *testing.T) {
	s := newShelf(t)
	dev := s.add("folder", "--title", "Dev")
	g := s.add("add", "--title", "Go", "--url", "https://go.dev", "--icon", "fas fa-code")

	out := s.mustRun("mv", g, "--to", dev)
	assert.Equal(t, out, "Moved Go to folder \"Dev\" at 0\n")

	s.mustRun("column", "add")
	s.mustRun("mv", dev, "--to", "2")

	doc := s.document()
	cols := doc.OrderedColumns()
	assert.Equal(t, len(cols[0].Items), 0)
	assert.DeepEqual(t, titlesOf(cols[1].Items), []string{"Dev"})
	assert.DeepEqual(t, titlesOf(cols[1].Items[0].Children), []string{"Go"})
}

func TestMoveRejectsCycle(t *testing.T) {
	s := newShelf(t)
	outer := s.add("folder", "--title", "Outer")
	inner := s.add("folder", "--title", "Inner", "--to", outer)

	_, err := s.run("mv", outer, "--to", inner)
	assert.ErrorIs(t, err, model.ErrCyclicMove)

	_, err = s.run("mv", outer, "--to", outer)
	assert.ErrorIs(t, err, model.ErrCyclicMove)

	assert.DeepEqual(t, s.firstColumnTitles(), []string{"Outer"})
}

func TestMoveNeedsOneTarget(t *testing.T) {
	s := newShelf(t)
	a := s.add("add", "--title", "A", "--url", "https://a.example", "--icon", "fas fa-link")

	_, err := s.run("mv", a)
	assert.Assert(t, err != nil)

	_, err = s.run("mv", a, "--to", "1", "--before", a)
	assert.Assert(t, err != nil)
}

func TestRemove(t *testing.T) {
	s := newShelf(t)
	dev := s.add("folder", "--title", "Dev")
	s.add("add", "--to", dev, "--title", "Go", "--url", "https://go.dev", "--icon", "fas fa-code", "--fav")
	keep := s.add("add", "--title", "Keep", "--url", "https://keep.example", "--icon", "fas fa-link")

	_, err := s.run("rm", dev)
	assert.ErrorContains(t, err, "not empty")

	out := s.mustRun("rm", "--yes", dev)
	assert.Equal(t, out, "Deleted Dev\n")

	doc := s.document()
	assert.DeepEqual(t, titlesOf(doc.OrderedColumns()[0].Items), []string{"Keep"})
	assert.Equal(t, len(doc.FavoritesOrder), 0)

	_, err = s.run("rm", "ffffffff")
	assert.ErrorIs(t, err, model.ErrItemNotFound)

	s.mustRun("rm", keep)
	assert.Equal(t, len(s.firstColumnTitles()), 0)
}

func TestFavorites(t *testing.T) {
	s := newShelf(t)
	assert.Equal(t, s.mustRun("fav"), "No favorites\n")

	a := s.add("add", "--title", "A", "--url", "https://a.example", "--icon", "fas fa-link", "--fav")
	b := s.add("add", "--title", "B", "--url", "https://b.example", "--icon", "fas fa-link")

	assert.Equal(t, s.mustRun("fav", "toggle", b), "Added B to favorites\n")

	out := s.mustRun("fav", "ls")
	assert.Check(t, is.Contains(out, "1  A  https://a.example"))
	assert.Check(t, is.Contains(out, "2  B  https://b.example"))

	assert.Equal(t, s.mustRun("fav", "mv", b, "1"), "Moved B to favorite 1\n")
	out = s.mustRun("fav")
	assert.Check(t, is.Contains(out, "1  B"))
	assert.Check(t, is.Contains(out, "2  A"))

	assert.Equal(t, s.mustRun("fav", "toggle", a), "Removed A from favorites\n")
	_, err := s.run("fav", "mv", a, "1")
	assert.ErrorIs(t, err, model.ErrInvariantViolation)

	dev := s.add("folder", "--title", "Dev")
	_, err = s.run("fav", "toggle", dev)
	assert.ErrorIs(t, err, model.ErrNotBookmark)
}

func TestColumns(t *testing.T) {
	s := newShelf(t)
	s.add("add", "--title", "A", "--url", "https://a.example", "--icon", "fas fa-link")

	out := s.mustRun("column", "add", "--width", "700px")
	assert.Check(t, is.Contains(out, "Added column 2 ("))

	out = s.mustRun("column", "ls")
	assert.Check(t, is.Contains(out, "300px  1 items"))
	assert.Check(t, is.Contains(out, "600px  0 items"))

	assert.Equal(t, s.mustRun("column", "resize", "2", "150"), "Column 2 is now 200px\n")

	out = s.mustRun("column", "mv", "2", "1")
	assert.Check(t, is.Contains(out, "is now at 1"))

	doc := s.document()
	cols := doc.OrderedColumns()
	assert.Equal(t, len(cols[0].Items), 0)
	assert.Equal(t, cols[0].Width, model.MinColumnWidth)

	_, err := s.run("column", "rm", "2")
	assert.ErrorContains(t, err, "holds 1 items")

	assert.Equal(t, s.mustRun("column", "rm", "1"), "Deleted column 1\n")
	assert.DeepEqual(t, s.firstColumnTitles(), []string{"A"})

	_, err = s.run("column", "resize", "5", "300")
	assert.ErrorIs(t, err, model.ErrColumnNotFound)
}

const browserExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Work</H3>
    <DL><p>
        <DT><A HREF="https://x.com">X</A>
        <DT><A HREF="https://github.com">GitHub</A>
    </DL><p>
</DL><p>
`

func TestImportAndExport(t *testing.T) {
	s := newShelf(t)
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "bookmarks.html")
	assert.NilError(t, os.WriteFile(htmlPath, []byte(browserExport), 0644))

	out := s.mustRun("import", htmlPath)
	assert.Equal(t, out, "Imported 2 bookmarks, 1 folders into column 2\n")

	cols := s.document().OrderedColumns()
	assert.Equal(t, cols[1].Width, model.ImportedColumnWidth)
	assert.DeepEqual(t, titlesOf(cols[1].Items), []string{"Work"})

	jsonPath := filepath.Join(dir, "backup.json")
	out = s.mustRun("export", jsonPath)
	assert.Equal(t, out, "Exported 2 bookmarks, 1 folders to "+jsonPath+"\n")

	exported := filepath.Join(dir, "out.html")
	s.mustRun("export", exported)
	data, err := os.ReadFile(exported)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), `<A HREF="https://x.com"`))

	other := newShelf(t)
	_, err = other.run("import", jsonPath)
	assert.ErrorContains(t, err, "--yes")

	out = other.mustRun("import", "--yes", jsonPath)
	assert.Equal(t, out, "Replaced bookmarks: 2 bookmarks, 1 folders in 2 columns\n")
	assert.DeepEqual(t, other.document().ColumnOrder, s.document().ColumnOrder)
}

func TestImportMalformedJSONKeepsBookmarks(t *testing.T) {
	s := newShelf(t)
	s.add("add", "--title", "A", "--url", "https://a.example", "--icon", "fas fa-link")

	bad := filepath.Join(t.TempDir(), "bad.json")
	assert.NilError(t, os.WriteFile(bad, []byte(`{"columns": 3}`), 0644))

	_, err := s.run("import", "--yes", bad)
	assert.Assert(t, err != nil)
	assert.DeepEqual(t, s.firstColumnTitles(), []string{"A"})
}

func TestSearch(t *testing.T) {
	s := newShelf(t)
	s.add("add", "--title", "Go Docs", "--url", "https://go.dev/doc", "--icon", "fas fa-book")
	s.add("add", "--title", "GitHub", "--url", "https://github.com", "--icon", "fab fa-github")

	out := s.mustRun("search", "zzzz")
	assert.Equal(t, out, "No bookmarks found for 'zzzz'\n")

	out = s.mustRun("search", "--list", "g")
	assert.Check(t, is.Contains(out, "Go Docs  https://go.dev/doc"))
	assert.Check(t, is.Contains(out, "GitHub  https://github.com"))

	var opened []string
	app := &App{openURL: func(u string) error {
		opened = append(opened, u)
		return nil
	}}
	stdout, _, err := runCLI(t, app, []string{"--config", s.config, "search", "docs"})
	assert.NilError(t, err)
	assert.Equal(t, string(stdout), "Opening: Go Docs\n")
	assert.DeepEqual(t, opened, []string{"https://go.dev/doc"})
}

func TestCull(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newShelf(t)
	s.add("add", "--title", "Alive", "--url", srv.URL+"/ok", "--icon", "fas fa-link")
	s.add("add", "--title", "Gone", "--url", srv.URL+"/missing", "--icon", "fas fa-link")

	out := s.mustRun("cull", "--quiet")
	assert.Check(t, is.Contains(out, "dead         Gone"))
	assert.Check(t, is.Contains(out, "1 healthy, 1 dead, 0 unreachable"))
	assert.DeepEqual(t, s.firstColumnTitles(), []string{"Alive", "Gone"})

	out = s.mustRun("cull", "--quiet", "--delete")
	assert.Check(t, is.Contains(out, "Deleted 1 dead bookmarks"))
	assert.DeepEqual(t, s.firstColumnTitles(), []string{"Alive"})
}

func TestUnknownCommand(t *testing.T) {
	s := newShelf(t)
	_, err := s.run("frobnicate")
	assert.Assert(t, err != nil)
}

func TestRewriteQuickSearch(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no args", nil, nil},
		{"command", []string{"ls"}, []string{"ls"}},
		{"alias", []string{"col", "ls"}, []string{"col", "ls"}},
		{"help", []string{"help"}, []string{"help"}},
		{"query", []string{"github", "repos"}, []string{"search", "github", "repos"}},
		{"config flag first", []string{"--config", "x.json", "go"}, []string{"--config", "x.json", "search", "go"}},
		{"config flag with equals", []string{"--config=x.json", "ls"}, []string{"--config=x.json", "ls"}},
		{"flags only", []string{"--debug"}, []string{"--debug"}},
		{"after double dash", []string{"--", "ls"}, []string{"--", "ls"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.DeepEqual(t, RewriteQuickSearch(root, tt.args), tt.want)
		})
	}
}

func TestResolveItemByPrefix(t *testing.T) {
	store := model.NewStore()
	col := store.AddColumn(model.DefaultColumnWidth)
	a := model.Item{ID: "abc111", Type: model.TypeBookmark, Title: "A", URL: "https://a.example"}
	b := model.Item{ID: "abc222", Type: model.TypeBookmark, Title: "B", URL: "https://b.example"}
	assert.NilError(t, store.Append(a, col))
	assert.NilError(t, store.Append(b, col))

	item, err := resolveItem(store, "abc2")
	assert.NilError(t, err)
	assert.Equal(t, item.Title, "B")

	_, err = resolveItem(store, "abc")
	assert.ErrorIs(t, err, errAmbiguousID)

	_, err = resolveItem(store, "zzz")
	assert.ErrorIs(t, err, model.ErrItemNotFound)

	id, err := resolveContainer(store, "")
	assert.NilError(t, err)
	assert.Equal(t, id, col)

	_, err = resolveContainer(store, "abc111")
	assert.ErrorIs(t, err, model.ErrNotFolder)
}
