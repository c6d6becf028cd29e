// Package icon picks icons for bookmarks: a deterministic URL classifier,
// a searchable catalog for manual selection, and favicon lookups against
// public icon services.
package icon

import (
	"net/url"
	"strings"

	"github.com/nikbrunner/shelf/internal/model"
)

type brand struct {
	domains []string
	icon    string
}

// Brands are matched against the host, so "netflix.com" never hits "x.com".
var brands = []brand{
	{[]string{"google.com"}, "fab fa-google"},
	{[]string{"github.com"}, "fab fa-github"},
	{[]string{"youtube.com"}, "fab fa-youtube"},
	{[]string{"twitter.com", "x.com"}, "fab fa-twitter"},
	{[]string{"facebook.com"}, "fab fa-facebook"},
	{[]string{"instagram.com"}, "fab fa-instagram"},
	{[]string{"linkedin.com"}, "fab fa-linkedin"},
	{[]string{"amazon.com", "amazon.co.jp"}, "fab fa-amazon"},
	{[]string{"netflix.com"}, "fas fa-film"},
	{[]string{"spotify.com"}, "fab fa-spotify"},
	{[]string{"stackoverflow.com"}, "fab fa-stack-overflow"},
	{[]string{"reddit.com"}, "fab fa-reddit"},
	{[]string{"wikipedia.org"}, "fab fa-wikipedia-w"},
	{[]string{"microsoft.com"}, "fab fa-microsoft"},
	{[]string{"apple.com"}, "fab fa-apple"},
	{[]string{"discord.com"}, "fab fa-discord"},
	{[]string{"slack.com"}, "fab fa-slack"},
	{[]string{"zoom.us"}, "fas fa-video"},
}

type category struct {
	words []string
	icon  string
}

// Categories are matched anywhere in the URL, in order.
var categories = []category{
	{[]string{"mail", "email"}, "fas fa-envelope"},
	{[]string{"news"}, "fas fa-newspaper"},
	{[]string{"shop", "store"}, "fas fa-shopping-cart"},
	{[]string{"game"}, "fas fa-gamepad"},
	{[]string{"music"}, "fas fa-music"},
	{[]string{"video"}, "fas fa-video"},
	{[]string{"photo"}, "fas fa-camera"},
	{[]string{"doc", "pdf"}, "fas fa-file-pdf"},
}

// Guess classifies a URL into an icon class without touching the network.
// Unknown URLs get model.DefaultIcon.
func Guess(rawURL string) string {
	if rawURL == "" {
		return model.DefaultIcon
	}

	host := strings.ToLower(ExtractDomain(rawURL))
	for _, b := range brands {
		for _, d := range b.domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return b.icon
			}
		}
	}

	lower := strings.ToLower(rawURL)
	for _, c := range categories {
		for _, w := range c.words {
			if strings.Contains(lower, w) {
				return c.icon
			}
		}
	}
	return model.DefaultIcon
}

// ExtractDomain returns the host of a URL without a leading "www.".
// Scheme-less input such as "example.com/path" is accepted.
func ExtractDomain(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// IsFavicon reports whether the icon value is an image URL rather than an
// icon class.
func IsFavicon(icon string) bool {
	return strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://")
}
