package sim

import (
	"cmp"
	"slices"

	"github.com/gridline/racesim/pkg/core"
)

// PointsTable awards points to finishing positions 1 to 10.
var PointsTable = [...]int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// FastestLapBonus is added for the fastest lap when its holder finished in the
// points.
const FastestLapBonus = 1

// StatusFor maps the end-of-race state of a competitor to its classification.
func StatusFor(active bool, kind core.IncidentKind) core.Status {
	switch {
	case active:
		return core.StatusFinished
	case kind.Disqualifies():
		return core.StatusDisqualified
	default:
		return core.StatusDNF
	}
}

// PointsFor returns the table points for a finishing position.
func PointsFor(position int) int {
	if position < 1 || position > len(PointsTable) {
		return 0
	}
	return PointsTable[position-1]
}

// compile builds one result per grid slot. fastestIdx is the entrant index of
// the fastest-lap holder, or -1 when nobody completed a lap.
func compile(f *Field, grid Grid, state []raceState, fastestIdx int) []core.Result {
	results := make([]core.Result, 0, len(grid))
	for _, s := range grid {
		en := f.Entrants[s.Entrant]
		st := state[s.Entrant]
		results = append(results, core.Result{
			Competitor:          en.Competitor.Name,
			Number:              en.Competitor.Number,
			Constructor:         en.Constructor.Name,
			Grid:                s.Position,
			Time:                st.time,
			Status:              StatusFor(st.active, st.incident),
			FastestLap:          s.Entrant == fastestIdx,
			BestLap:             st.bestLap,
			LapsCompleted:       st.lapsCompleted,
			Incident:            st.incident,
			IncidentDescription: st.description,
		})
	}
	return Rank(results)
}

// Rank orders results and derives positions and points from status, time and
// the fastest-lap flag. Finishers come first by ascending time, everyone else
// after them by descending time. The input slice is not modified.
func Rank(results []core.Result) []core.Result {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b core.Result) int {
		switch {
		case a.Finished() && !b.Finished():
			return -1
		case !a.Finished() && b.Finished():
			return 1
		case a.Finished():
			return cmp.Compare(a.Time, b.Time)
		default:
			return cmp.Compare(b.Time, a.Time)
		}
	})

	for i := range out {
		r := &out[i]
		r.Position = i + 1
		r.Points = 0
		if !r.Finished() {
			continue
		}
		r.Points = PointsFor(r.Position)
		if r.FastestLap && r.Position <= len(PointsTable) {
			r.Points += FastestLapBonus
		}
	}
	return out
}
