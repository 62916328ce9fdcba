package sim

import (
	"cmp"
	"slices"

	"github.com/gridline/racesim/pkg/core"
)

// GridSlot is one starting position.
type GridSlot struct {
	Position int
	Entrant  int // index into Field.Entrants
	Time     float64
}

// Grid is the starting order, pole first.
type Grid []GridSlot

// Competitors returns the grid as an ordered list of competitors.
func (g Grid) Competitors(f *Field) []core.Competitor {
	out := make([]core.Competitor, len(g))
	for i, s := range g {
		out[i] = f.Entrants[s.Entrant].Competitor
	}
	return out
}

// SortByTime orders the grid by qualifying time and renumbers it. Equal times
// keep their current relative order.
func (g Grid) SortByTime() {
	slices.SortStableFunc(g, func(a, b GridSlot) int { return cmp.Compare(a.Time, b.Time) })
	for i := range g {
		g[i].Position = i + 1
	}
}

// validate checks that g is a permutation of the field.
func (g Grid) validate(f *Field) error {
	if len(g) != len(f.Entrants) {
		return ErrInvalidGrid
	}
	seen := make([]bool, len(f.Entrants))
	for _, s := range g {
		if s.Entrant < 0 || s.Entrant >= len(seen) || seen[s.Entrant] {
			return ErrInvalidGrid
		}
		seen[s.Entrant] = true
	}
	return nil
}

// Qualify runs the qualifying session and returns the grid.
func (e *Engine) Qualify(f *Field) Grid {
	grid := make(Grid, len(f.Entrants))
	for i, en := range f.Entrants {
		grid[i] = GridSlot{Entrant: en.Index, Time: e.qualifyingTime(f, en)}
	}
	grid.SortByTime()
	return grid
}

// qualifyingTime is the best of three attempts around a single modelled lap.
func (e *Engine) qualifyingTime(f *Field, en Entrant) float64 {
	c, t := en.Competitor, en.Constructor

	driverFactor := 5 * (1 - c.OverallRating()/100)
	carFactor := 3 * (1 - t.CarRating()/100)
	specialization := Uniform(e.rng, -0.5, 0.5)

	var weather float64
	if f.Weather.IsWet() {
		weather = 2 * (1 - c.SkillWet/100)
	} else {
		weather = 0.5 * (1 - c.SkillDry/100)
	}

	lap := baseLapTime(f.Circuit) + driverFactor + carFactor + specialization + weather + Uniform(e.rng, -0.2, 0.3)

	q1 := lap * Uniform(e.rng, 1.001, 1.01)
	q2 := lap * Uniform(e.rng, 0.995, 1.005)
	q3 := lap * Uniform(e.rng, 0.99, 1.005)
	return min(q1, q2, q3)
}
