package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/model"
)

const (
	untitledBookmark = "Untitled"
	untitledFolder   = "Untitled Folder"
)

// ParseHTML parses Netscape bookmark HTML, as exported by every major
// browser, into a single new column. Headings followed by a list become
// folders, links become bookmarks with an icon guessed from the URL.
// Links without an href are skipped.
func ParseHTML(r io.Reader) (model.Column, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return model.Column{}, fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}

	column := model.NewColumn(model.ImportedColumnWidth)

	// stack holds the item lists being filled, innermost last.
	stack := []*[]model.Item{&column.Items}
	var pendingFolder *model.Item // folder waiting for its DL

	top := func() *[]model.Item { return stack[len(stack)-1] }

	// A heading without a following list is still a folder, just empty.
	flushPending := func() {
		if pendingFolder != nil {
			*top() = append(*top(), *pendingFolder)
			pendingFolder = nil
		}
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				flushPending()
				title := getTextContent(n)
				if title == "" {
					title = untitledFolder
				}
				folder := model.NewFolder(model.NewFolderParams{Title: title})
				if ts, ok := parseAddDate(n); ok {
					folder.CreatedAt, folder.UpdatedAt = ts, ts
				}
				pendingFolder = &folder
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return
				}
				flushPending()

				title := getTextContent(n)
				if title == "" {
					title = untitledBookmark
				}
				bookmark := model.NewBookmark(model.NewBookmarkParams{
					Title: title,
					URL:   href,
					Icon:  icon.Guess(href),
				})
				if ts, ok := parseAddDate(n); ok {
					bookmark.CreatedAt, bookmark.UpdatedAt = ts, ts
				}
				*top() = append(*top(), bookmark)
				return // Don't recurse into A

			case "dl":
				folder := pendingFolder
				pendingFolder = nil
				if folder != nil {
					stack = append(stack, &folder.Children)
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}
				flushPending()

				if folder != nil {
					stack = stack[:len(stack)-1]
					*top() = append(*top(), *folder)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	flushPending()
	return column, nil
}

// parseAddDate reads the ADD_DATE attribute (Unix seconds).
func parseAddDate(n *html.Node) (time.Time, bool) {
	addDate := getAttr(n, "add_date")
	if addDate == "" {
		return time.Time{}, false
	}
	ts, err := strconv.ParseInt(addDate, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(ts, 0), true
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
