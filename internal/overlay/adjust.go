package overlay

import (
	"slices"

	"github.com/gridline/racesim/internal/sim"
	"github.com/gridline/racesim/pkg/core"
)

// Adjustment thresholds and probabilities.
const (
	consistentAbove   = 85
	inconsistentBelow = 65

	overtakerAbove      = 85
	overtakeChance      = 0.3
	incidentProneBelow  = 70
	extraIncidentChance = 0.15
	unreliableBelow     = 75
	failureChance       = 0.1
	failureConfirm      = 0.3
)

var extraIncidents = []core.IncidentKind{
	core.IncidentDriverError,
	core.IncidentPuncture,
	core.IncidentPitError,
}

// AdjustGrid rescales the qualifying times of competitors with consistency
// statistics and re-sorts the grid. Very consistent drivers get a narrow,
// slightly favourable spread; erratic ones a wide symmetric spread.
func AdjustGrid(grid sim.Grid, f *sim.Field, s *Stats, rng sim.Rand) sim.Grid {
	out := slices.Clone(grid)
	if !s.Available() {
		return out
	}
	for i := range out {
		d, ok := s.Driver(f.Entrants[out[i].Entrant].Competitor.Name)
		if !ok {
			continue
		}
		switch {
		case d.Consistency > consistentAbove:
			out[i].Time *= sim.Uniform(rng, 0.995, 1.002)
		case d.Consistency > 0 && d.Consistency < inconsistentBelow:
			out[i].Time *= sim.Uniform(rng, 0.985, 1.015)
		}
	}
	out.SortByTime()
	return out
}

// AdjustResults re-rolls a small subset of race outcomes from the statistics:
// strong overtakers who gained places may pass the car ahead, erratic drivers
// and unreliable teams may lose a finish. The returned results are re-ranked
// so ordering and points stay consistent.
func AdjustResults(results []core.Result, s *Stats, rng sim.Rand) []core.Result {
	out := sim.Rank(results)
	if !s.Available() {
		return out
	}

	for i := 0; i < len(out); i++ {
		r := &out[i]
		d, ok := s.Driver(r.Competitor)
		if !ok {
			continue
		}
		if d.SkillOvertaking > overtakerAbove && r.Finished() && r.Grid > r.Position && i > 0 && out[i-1].Finished() {
			if sim.Chance(rng, overtakeChance) && sim.Pick(rng, []int{0, 0, 1}) == 1 {
				out[i-1].Time, r.Time = r.Time, out[i-1].Time
				out[i-1], out[i] = out[i], out[i-1]
				r = &out[i-1]
			}
		}
		if d.Consistency > 0 && d.Consistency < incidentProneBelow && sim.Chance(rng, extraIncidentChance) {
			if r.Finished() && r.Incident == core.IncidentNone {
				retire(rng, r, sim.Pick(rng, extraIncidents))
			}
		}
	}

	for i := range out {
		r := &out[i]
		t, ok := s.Team(r.Constructor)
		if !ok || t.Reliability <= 0 || t.Reliability >= unreliableBelow {
			continue
		}
		if sim.Chance(rng, failureChance) && r.Finished() && r.Incident == core.IncidentNone && sim.Chance(rng, failureConfirm) {
			retire(rng, r, core.IncidentMechanical)
		}
	}

	return sim.Rank(out)
}

func retire(rng sim.Rand, r *core.Result, kind core.IncidentKind) {
	r.Incident = kind
	r.IncidentDescription = sim.Describe(rng, kind, r.Competitor)
	r.Status = sim.StatusFor(false, kind)
}
