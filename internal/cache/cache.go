package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/gridline/racesim/internal/overlay"
)

// Fetcher is the statistics source being memoized.
type Fetcher interface {
	Fetch(ctx context.Context) (*overlay.Stats, error)
}

// StatsCache keeps the first successful statistics snapshot for the lifetime of
// the process so a season does not hit the statistics source once per race.
// Failures are not cached; the next call retries.
type StatsCache struct {
	m      sync.Mutex
	src    Fetcher
	stats  *overlay.Stats
	loaded bool
	hits   SafeCounter
}

func NewStatsCache(src Fetcher) *StatsCache {
	return &StatsCache{src: src}
}

// Fetch returns the cached snapshot or loads it from the source.
func (c *StatsCache) Fetch(ctx context.Context) (*overlay.Stats, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.loaded {
		c.hits.Inc()
		return c.stats, nil
	}
	s, err := c.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.stats = s
	c.loaded = true
	return s, nil
}

// Hits is the number of calls served from the cache.
func (c *StatsCache) Hits() int {
	return c.hits.Value()
}

func (c *StatsCache) String() string {
	return fmt.Sprintf("cached %v", c.src)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
