package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridline/racesim/internal/overlay"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *countingFetcher) Fetch(ctx context.Context) (*overlay.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &overlay.Stats{Drivers: map[string]overlay.DriverStats{"Ada Vance": {SkillDry: 90}}}, nil
}

func TestStatsCache_NewStatsCache(t *testing.T) {
	cache := NewStatsCache(&countingFetcher{})

	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Hits())
}

func TestStatsCache_FetchOnce(t *testing.T) {
	src := &countingFetcher{}
	cache := NewStatsCache(src)

	first, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	second, err := cache.Fetch(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, cache.Hits())
}

func TestStatsCache_ErrorsNotCached(t *testing.T) {
	src := &countingFetcher{err: errors.New("unreachable")}
	cache := NewStatsCache(src)

	_, err := cache.Fetch(context.Background())
	assert.Error(t, err)

	src.err = nil
	s, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Available())
	assert.Equal(t, 2, src.calls)
}

func TestStatsCache_Concurrent(t *testing.T) {
	src := &countingFetcher{}
	cache := NewStatsCache(src)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.Fetch(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 49, cache.Hits())
}

// SafeCounter tests

func TestSafeCounter_InitialValue(t *testing.T) {
	c := &SafeCounter{}
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_Inc(t *testing.T) {
	c := &SafeCounter{}

	c.Inc()
	assert.Equal(t, int(1), c.Value())

	c.Inc()
	c.Inc()
	assert.Equal(t, int(3), c.Value())
}

func TestSafeCounter_Concurrent(t *testing.T) {
	c := &SafeCounter{}
	var wg sync.WaitGroup

	// Concurrent increments
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, int(1000), c.Value())
}
