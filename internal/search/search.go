package search

import (
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/sahilm/fuzzy"
)

// Field names the bookmark field a result matched on.
type Field string

const (
	FieldTitle Field = "title"
	FieldURL   Field = "url"
)

// Result represents a fuzzy search match.
type Result struct {
	Item *model.Item
	// Path holds the folder titles above the item, outermost first.
	Path           []string
	Field          Field
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source over bookmark titles.
type bookmarkTitles []*model.Item

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// bookmarkURLs implements fuzzy.Source over bookmark URLs.
type bookmarkURLs []*model.Item

func (bu bookmarkURLs) String(i int) string {
	return bu[i].URL
}

func (bu bookmarkURLs) Len() int {
	return len(bu)
}

// Bookmarks searches every bookmark in the store by title, then by URL.
// Title matches come first, sorted by score; bookmarks that only match on
// their URL follow. Each bookmark appears at most once.
//
// Result items point into the store and are only valid until it changes.
func Bookmarks(store *model.Store, query string) []Result {
	if query == "" {
		return nil
	}

	items := store.Bookmarks()
	seen := make(map[string]bool, len(items))
	var results []Result

	for _, m := range fuzzy.FindFrom(query, bookmarkTitles(items)) {
		item := items[m.Index]
		seen[item.ID] = true
		results = append(results, newResult(store, item, FieldTitle, m))
	}
	for _, m := range fuzzy.FindFrom(query, bookmarkURLs(items)) {
		item := items[m.Index]
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		results = append(results, newResult(store, item, FieldURL, m))
	}

	return results
}

func newResult(store *model.Store, item *model.Item, field Field, m fuzzy.Match) Result {
	return Result{
		Item:           item,
		Path:           store.PathOf(item.ID),
		Field:          field,
		MatchedIndexes: m.MatchedIndexes,
		Score:          m.Score,
	}
}
