// Package culler checks bookmark URLs for dead links.
package culler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/shelf/internal/model"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

const (
	DefaultConcurrency = 10
	DefaultTimeout     = 10 * time.Second
	maxRedirects       = 10
)

// Result holds the check result for a single bookmark.
type Result struct {
	Item       *model.Item
	Status     Status
	StatusCode int    // 0 if the connection failed
	Error      string // reason for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Params configures a Check run.
type Params struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains lists domains where a 404 means "possibly private"
	// rather than dead, e.g. private repositories.
	ExcludeDomains []string
	OnProgress     ProgressFunc
	Client         *http.Client
}

// Check checks every bookmark URL with a pool of workers and returns one
// result per bookmark, in input order. Cancelling ctx marks the remaining
// bookmarks unreachable.
func Check(ctx context.Context, items []*model.Item, params Params) []Result {
	if len(items) == 0 {
		return nil
	}

	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	client := params.Client
	if client == nil {
		client = newClient(params.Timeout)
	}

	// net/http logs protocol noise from misbehaving servers.
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	excluded := make(map[string]bool, len(params.ExcludeDomains))
	for _, domain := range params.ExcludeDomains {
		excluded[strings.ToLower(domain)] = true
	}

	results := make([]Result, len(items))
	jobs := make(chan int, len(items))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkURL(ctx, client, items[idx], excluded)

				if params.OnProgress != nil {
					progressMu.Lock()
					completed++
					params.OnProgress(completed, len(items))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// Filter returns the results with the given status.
func Filter(results []Result, status Status) []Result {
	var out []Result
	for _, r := range results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

func checkURL(ctx context.Context, client *http.Client, item *model.Item, excluded map[string]bool) Result {
	result := Result{Item: item}

	// HEAD first; some servers only answer GET.
	resp, err := do(ctx, client, http.MethodHead, item.URL)
	if err != nil && ctx.Err() == nil {
		resp, err = do(ctx, client, http.MethodGet, item.URL)
	}
	if err != nil {
		result.Status = Unreachable
		result.Error = normalizeError(err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(item.URL, excluded) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 403, 5xx and friends may be temporary or need auth
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain matches the URL host against the exclude list, including
// subdomains ("api.github.com" matches "github.com").
func isExcludedDomain(rawURL string, excluded map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if excluded[host] {
		return true
	}
	for domain := range excluded {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(err error) string {
	if errors.Is(err, context.Canceled) {
		return "Cancelled"
	}
	lower := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	case strings.Contains(lower, "unsupported protocol scheme"):
		return "Unsupported URL"
	default:
		return err.Error()
	}
}
