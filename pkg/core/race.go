// pkg/core/race.go
package core

import (
	"cmp"
	"errors"
	"slices"
	"time"
)

// Results store errors.
var (
	ErrRaceNotFound  = errors.New("race not found")
	ErrDuplicateRace = errors.New("race already stored")
)

// GridSlot is one starting position as stored with a race.
type GridSlot struct {
	Position    int     `json:"position"`
	Competitor  string  `json:"competitor"`
	Number      int     `json:"number"`
	Constructor string  `json:"constructor"`
	Time        float64 `json:"time"`
}

// Race is the complete record of one simulated race weekend.
type Race struct {
	ID         string     `json:"id"`
	Round      int        `json:"round"`
	Circuit    Circuit    `json:"circuit"`
	Weather    Weather    `json:"weather"`
	Grid       []GridSlot `json:"grid"`
	Results    []Result   `json:"results"`
	Laps       []Lap      `json:"laps,omitempty"`
	FastestLap FastestLap `json:"fastestLap"`
	Seed       uint64     `json:"seed,omitempty"`
	Enhanced   bool       `json:"enhanced"` // external statistics were applied
	Time       time.Time  `json:"time"`
}

// Winner returns the classified winner, if anyone finished.
func (r *Race) Winner() (Result, bool) {
	for _, res := range r.Results {
		if res.Position == 1 && res.Finished() {
			return res, true
		}
	}
	return Result{}, false
}

// ConstructorStanding is one row of the teams' championship table.
type ConstructorStanding struct {
	Constructor string `json:"constructor"`
	Points      int    `json:"points"`
	Wins        int    `json:"wins"`
	Podiums     int    `json:"podiums"`
}

// SortStandings orders a drivers' table by points, then wins, then podiums,
// then name.
func SortStandings(s []Standing) {
	slices.SortFunc(s, func(a, b Standing) int {
		return cmp.Or(
			cmp.Compare(b.Points, a.Points),
			cmp.Compare(b.Wins, a.Wins),
			cmp.Compare(b.Podiums, a.Podiums),
			cmp.Compare(a.Competitor, b.Competitor),
		)
	})
}

// SortConstructorStandings orders a teams' table like SortStandings.
func SortConstructorStandings(s []ConstructorStanding) {
	slices.SortFunc(s, func(a, b ConstructorStanding) int {
		return cmp.Or(
			cmp.Compare(b.Points, a.Points),
			cmp.Compare(b.Wins, a.Wins),
			cmp.Compare(b.Podiums, a.Podiums),
			cmp.Compare(a.Constructor, b.Constructor),
		)
	})
}

// Tally accumulates both championship tables from a set of races.
func Tally(races []Race) ([]Standing, []ConstructorStanding) {
	drivers := make(map[string]*Standing)
	teams := make(map[string]*ConstructorStanding)
	for _, race := range races {
		for _, r := range race.Results {
			d, ok := drivers[r.Competitor]
			if !ok {
				d = &Standing{Competitor: r.Competitor}
				drivers[r.Competitor] = d
			}
			t, ok := teams[r.Constructor]
			if !ok {
				t = &ConstructorStanding{Constructor: r.Constructor}
				teams[r.Constructor] = t
			}
			d.Constructor = r.Constructor
			d.Races++
			d.Points += r.Points
			t.Points += r.Points
			if r.Finished() && r.Position == 1 {
				d.Wins++
				t.Wins++
			}
			if r.Finished() && r.Position <= 3 {
				d.Podiums++
				t.Podiums++
			}
		}
	}

	ds := make([]Standing, 0, len(drivers))
	for _, d := range drivers {
		ds = append(ds, *d)
	}
	ts := make([]ConstructorStanding, 0, len(teams))
	for _, t := range teams {
		ts = append(ts, *t)
	}
	SortStandings(ds)
	SortConstructorStandings(ts)
	return ds, ts
}
