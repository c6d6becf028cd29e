package icon

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Category groups icons in the picker.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryWeb     Category = "web"
	CategorySocial  Category = "social"
	CategoryFile    Category = "file"
	CategoryArrow   Category = "arrow"
)

// Categories lists the picker categories in display order.
var Categories = []Category{CategoryGeneral, CategoryWeb, CategorySocial, CategoryFile, CategoryArrow}

var catalog = map[Category][]string{
	CategoryGeneral: {
		"fas fa-bookmark", "fas fa-star", "fas fa-heart", "fas fa-home", "fas fa-user",
		"fas fa-cog", "fas fa-search", "fas fa-plus", "fas fa-minus", "fas fa-edit",
		"fas fa-trash", "fas fa-save", "fas fa-print", "fas fa-download", "fas fa-upload",
		"fas fa-bell", "fas fa-envelope", "fas fa-phone", "fas fa-calendar", "fas fa-clock",
		"fas fa-map-marker-alt", "fas fa-tag", "fas fa-tags", "fas fa-flag", "fas fa-info",
		"fas fa-question", "fas fa-exclamation", "fas fa-check", "fas fa-times", "fas fa-eye",
	},
	CategoryWeb: {
		"fab fa-google", "fab fa-amazon", "fab fa-apple", "fab fa-microsoft", "fab fa-chrome",
		"fab fa-firefox", "fab fa-safari", "fab fa-edge", "fas fa-globe", "fas fa-wifi",
		"fas fa-rss", "fas fa-link", "fas fa-external-link-alt", "fas fa-share", "fas fa-code",
		"fas fa-terminal", "fas fa-database", "fas fa-server", "fas fa-cloud", "fas fa-shield-alt",
	},
	CategorySocial: {
		"fab fa-twitter", "fab fa-facebook", "fab fa-instagram", "fab fa-linkedin", "fab fa-youtube",
		"fab fa-tiktok", "fab fa-discord", "fab fa-telegram", "fab fa-whatsapp", "fab fa-line",
		"fab fa-skype", "fab fa-slack", "fab fa-zoom", "fab fa-reddit", "fab fa-pinterest",
		"fab fa-snapchat", "fab fa-tumblr", "fab fa-twitch", "fab fa-spotify", "fab fa-soundcloud",
	},
	CategoryFile: {
		"fas fa-file", "fas fa-file-alt", "fas fa-file-pdf", "fas fa-file-word", "fas fa-file-excel",
		"fas fa-file-powerpoint", "fas fa-file-image", "fas fa-file-video", "fas fa-file-audio",
		"fas fa-file-archive", "fas fa-file-code", "fas fa-folder", "fas fa-folder-open",
		"fas fa-copy", "fas fa-cut", "fas fa-paste", "fas fa-clipboard", "fas fa-paperclip",
		"fas fa-image", "fas fa-images",
	},
	CategoryArrow: {
		"fas fa-arrow-up", "fas fa-arrow-down", "fas fa-arrow-left", "fas fa-arrow-right",
		"fas fa-arrow-circle-up", "fas fa-arrow-circle-down", "fas fa-arrow-circle-left", "fas fa-arrow-circle-right",
		"fas fa-chevron-up", "fas fa-chevron-down", "fas fa-chevron-left", "fas fa-chevron-right",
		"fas fa-angle-up", "fas fa-angle-down", "fas fa-angle-left", "fas fa-angle-right",
		"fas fa-caret-up", "fas fa-caret-down", "fas fa-caret-left", "fas fa-caret-right",
	},
}

// InCategory returns the icons of one category.
func InCategory(c Category) []string {
	return catalog[c]
}

// All returns every catalog icon, categories in display order.
func All() []string {
	var all []string
	for _, c := range Categories {
		all = append(all, catalog[c]...)
	}
	return all
}

// Search filters the category by a fuzzy query on the icon name without its
// style prefix ("github" matches "fab fa-github"). An empty query returns
// the whole category; an empty category searches all icons.
func Search(c Category, query string) []string {
	icons := All()
	if c != "" {
		icons = InCategory(c)
	}
	if strings.TrimSpace(query) == "" {
		return icons
	}

	names := make([]string, len(icons))
	for i, ic := range icons {
		names[i] = Name(ic)
	}

	matches := fuzzy.Find(query, names)
	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = icons[m.Index]
	}
	return result
}

// Name strips the style and "fa-" prefixes: "fab fa-github" becomes "github".
func Name(iconClass string) string {
	fields := strings.Fields(iconClass)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[len(fields)-1], "fa-")
}
