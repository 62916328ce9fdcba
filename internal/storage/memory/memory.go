// internal/storage/memory/memory.go
package memory

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/gridline/racesim/pkg/core"
)

// Backend keeps race records in process memory
type Backend struct {
	races []core.Race
	byID  map[string]int // index into races
	mu    sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{
		byID: make(map[string]int),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.races = nil
	b.byID = make(map[string]int)
	return nil
}

// SaveRace stores a copy of r
func (b *Backend) SaveRace(r *core.Race) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.byID[r.ID]; ok {
		return fmt.Errorf("%w: %s", core.ErrDuplicateRace, r.ID)
	}
	b.byID[r.ID] = len(b.races)
	b.races = append(b.races, clone(*r))
	return nil
}

// Race returns the race stored under id
func (b *Backend) Race(id string) (core.Race, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i, ok := b.byID[id]
	if !ok {
		return core.Race{}, fmt.Errorf("%w: %s", core.ErrRaceNotFound, id)
	}
	return clone(b.races[i]), nil
}

// Races returns every stored race in round order
func (b *Backend) Races() ([]core.Race, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.Race, len(b.races))
	for i, r := range b.races {
		out[i] = clone(r)
	}
	slices.SortStableFunc(out, func(a, b core.Race) int {
		return cmp.Or(cmp.Compare(a.Round, b.Round), a.Time.Compare(b.Time))
	})
	return out, nil
}

// Standings returns the drivers' championship table
func (b *Backend) Standings() ([]core.Standing, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	drivers, _ := core.Tally(b.races)
	return drivers, nil
}

// ConstructorStandings returns the teams' championship table
func (b *Backend) ConstructorStandings() ([]core.ConstructorStanding, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, teams := core.Tally(b.races)
	return teams, nil
}

func clone(r core.Race) core.Race {
	r.Grid = slices.Clone(r.Grid)
	r.Results = slices.Clone(r.Results)
	r.Laps = slices.Clone(r.Laps)
	return r
}
