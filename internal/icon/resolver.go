package icon

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nikbrunner/shelf/internal/model"
)

// DefaultTimeout bounds each source lookup.
const DefaultTimeout = 3 * time.Second

// Resolver tries its sources in order, first success wins, and falls back
// to Guess. Results are cached per domain.
type Resolver struct {
	sources []Source
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// ResolverParams configures a Resolver.
type ResolverParams struct {
	Sources []Source
	// Timeout per source. Zero uses DefaultTimeout.
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(params ResolverParams) *Resolver {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		sources: params.Sources,
		timeout: timeout,
		logger:  logger,
		cache:   make(map[string]string),
	}
}

// Resolve returns an icon for the URL. It never fails: when every source
// errors or times out, or ctx is done, the classifier's guess is returned.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	domain := ExtractDomain(rawURL)
	if domain == "" {
		return model.DefaultIcon
	}

	r.mu.Lock()
	cached, ok := r.cache[domain]
	r.mu.Unlock()
	if ok {
		return cached
	}

	icon := r.lookup(ctx, domain)
	if icon == "" {
		icon = Guess(rawURL)
	}

	// A cancelled lookup says nothing about the domain.
	if ctx.Err() == nil {
		r.mu.Lock()
		r.cache[domain] = icon
		r.mu.Unlock()
	}
	return icon
}

func (r *Resolver) lookup(ctx context.Context, domain string) string {
	for _, src := range r.sources {
		if ctx.Err() != nil {
			return ""
		}

		sctx, cancel := context.WithTimeout(ctx, r.timeout)
		icon, err := src.Lookup(sctx, domain)
		cancel()

		if err != nil {
			r.logger.Debug("icon lookup failed", "source", src.Name(), "domain", domain, "error", err)
			continue
		}
		if icon != "" && icon != model.DefaultIcon {
			return icon
		}
	}
	return ""
}

// Cached returns the cached icon for a domain.
func (r *Resolver) Cached(domain string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	icon, ok := r.cache[domain]
	return icon, ok
}
