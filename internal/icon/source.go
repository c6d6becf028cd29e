package icon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoIcon is returned by a Source that has no usable icon for a domain.
var ErrNoIcon = errors.New("no icon")

// Source looks up an icon for a domain.
type Source interface {
	Name() string
	Lookup(ctx context.Context, domain string) (string, error)
}

// FaviconSource resolves a favicon service URL and checks that it serves an
// image. The icon value on success is the favicon URL itself.
type FaviconSource struct {
	name     string
	template string
	client   *http.Client
}

// NewFaviconSource creates a source from a URL template with a single %s
// for the domain. A nil client uses http.DefaultClient.
func NewFaviconSource(name, template string, client *http.Client) *FaviconSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &FaviconSource{name: name, template: template, client: client}
}

// GoogleSource queries the Google favicon service.
func GoogleSource(client *http.Client) *FaviconSource {
	return NewFaviconSource("google", "https://www.google.com/s2/favicons?domain=%s&sz=32", client)
}

// DuckDuckGoSource queries the DuckDuckGo icon service.
func DuckDuckGoSource(client *http.Client) *FaviconSource {
	return NewFaviconSource("duckduckgo", "https://icons.duckduckgo.com/ip3/%s.ico", client)
}

// DefaultSources returns the public favicon services in lookup order.
func DefaultSources(client *http.Client) []Source {
	return []Source{GoogleSource(client), DuckDuckGoSource(client)}
}

// Name returns the source name used in logs.
func (s *FaviconSource) Name() string {
	return s.name
}

// URL returns the favicon URL for a domain.
func (s *FaviconSource) URL(domain string) string {
	return fmt.Sprintf(s.template, url.QueryEscape(domain))
}

// Lookup fetches the favicon and accepts it when the server answers 200 with
// an image body.
func (s *FaviconSource) Lookup(ctx context.Context, domain string) (string, error) {
	iconURL := s.URL(domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s answered %d", ErrNoIcon, s.name, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: %s served %s", ErrNoIcon, s.name, ct)
	}
	return iconURL, nil
}
