package image

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
)

const (
	// breakerFailures is the number of consecutive failures that opens a source
	breakerFailures = 3

	searchCacheTTL     = 30 * time.Minute
	searchCacheCleanup = 1 * time.Hour
)

// NewSearchCache returns the in-process cache shared by guarded searchers
func NewSearchCache() *cache.Cache {
	return cache.New(searchCacheTTL, searchCacheCleanup)
}

// GuardedSearcher wraps a provider with a circuit breaker and a response cache.
// Once the breaker opens the source is short-circuited for the rest of the run.
type GuardedSearcher struct {
	ImageSearcher
	breaker     *gobreaker.CircuitBreaker
	cache       *cache.Cache
	rateLimited atomic.Bool
}

// NewGuardedSearcher wraps s; c may be shared between searchers and may be nil
func NewGuardedSearcher(s ImageSearcher, c *cache.Cache) *GuardedSearcher {
	g := &GuardedSearcher{
		ImageSearcher: s,
		cache:         c,
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name(),
		MaxRequests: 1,
		// Counts are never cleared while closed
		Interval: 0,
		// A run never outlives the open state
		Timeout: 24 * time.Hour,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures || g.rateLimited.Load()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Image source circuit breaker changed state", "source", name, "from", from.String(), "to", to.String())
		},
	})
	return g
}

// Search consults the cache, then the breaker, then the wrapped provider
func (g *GuardedSearcher) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	key := g.cacheKey(opts)
	if g.cache != nil {
		if cached, ok := g.cache.Get(key); ok {
			return cached.([]SearchResult), nil
		}
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		results, err := g.ImageSearcher.Search(ctx, opts)
		if IsRateLimit(err) {
			g.rateLimited.Store(true)
		}
		return results, err
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%s: source disabled for this run: %w", g.Name(), err)
		}
		return nil, err
	}

	results := out.([]SearchResult)
	if g.cache != nil {
		g.cache.Set(key, results, cache.DefaultExpiration)
	}
	return results, nil
}

// Open reports whether the source has been short-circuited
func (g *GuardedSearcher) Open() bool {
	return g.breaker.State() == gobreaker.StateOpen
}

func (g *GuardedSearcher) cacheKey(opts *SearchOptions) string {
	return strings.Join([]string{
		g.Name(),
		strings.ToLower(opts.Prefix),
		strings.ToLower(opts.Query),
		fmt.Sprintf("%d/%d", opts.PerPage, opts.Page),
	}, "|")
}
