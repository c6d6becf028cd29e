package exporter

import (
	"fmt"
	"html"
	"strings"

	"github.com/nikbrunner/shelf/internal/model"
)

// ExportHTML exports the store to Netscape bookmark HTML format.
// Each column becomes a top-level folder named "Column N" in display order.
func ExportHTML(store *model.Store) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for i, col := range store.OrderedColumns() {
		fmt.Fprintf(&b, "    <DT><H3 ADD_DATE=\"%d\">Column %d</H3>\n", col.CreatedAt.Unix(), i+1)
		b.WriteString("    <DL><p>\n")
		writeItems(&b, col.Items, 2)
		b.WriteString("    </DL><p>\n")
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeItems recursively writes a sequence in stored order.
func writeItems(b *strings.Builder, items []model.Item, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, item := range items {
		if item.IsFolder() {
			fmt.Fprintf(b, "%s<DT><H3 ADD_DATE=\"%d\">%s</H3>\n",
				prefix, item.CreatedAt.Unix(), html.EscapeString(item.Title))
			fmt.Fprintf(b, "%s<DL><p>\n", prefix)
			writeItems(b, item.Children, indent+1)
			fmt.Fprintf(b, "%s</DL><p>\n", prefix)
			continue
		}

		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			prefix,
			html.EscapeString(item.URL),
			item.CreatedAt.Unix(),
			html.EscapeString(item.Title),
		)
	}
}
