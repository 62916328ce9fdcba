package sim

import (
	"fmt"

	"github.com/gridline/racesim/pkg/core"
)

const (
	baseIncidentChance = 0.001
	// MaxIncidentChance caps the per-lap retirement probability.
	MaxIncidentChance = 0.15
)

// IncidentProbability is the chance that c retires on this lap.
func IncidentProbability(c core.Competitor, t core.Constructor, w core.Weather, lap, totalLaps int) float64 {
	consistency := 2.0 - c.Consistency/100*1.5
	reliability := 2.0 - t.Reliability/100*1.7

	weather := 1.0
	switch w.Condition {
	case core.ConditionWet:
		weather = 4.0
	case core.ConditionMixed:
		weather = 2.5
	}

	firstLap := 1.0
	if lap < 3 {
		firstLap = 8.0
	}
	lateRace := 1.0
	if float64(lap) > float64(totalLaps)*0.8 {
		lateRace = 2.0
	}
	rookie := 1.0
	if c.IsRookie() {
		rookie = 1.5
	}
	aggression := 1.0 + c.Aggression/100*0.8

	p := baseIncidentChance * consistency * reliability * weather * firstLap * lateRace * rookie * aggression
	return min(max(p, 0), MaxIncidentChance)
}

var incidentDescriptions = map[core.IncidentKind][]string{
	core.IncidentMechanical: {
		"Engine failure for %s",
		"Gearbox issue forces %s to retire",
		"Hydraulics fail on %s's car",
		"Power unit problem for %s",
		"Brake failure ends %s's race",
	},
	core.IncidentDriverError: {
		"%s spins off track",
		"%s locks up and runs into the gravel",
		"%s runs wide and damages the floor",
		"%s clips the wall on exit",
		"Driving error forces %s to retire",
	},
	core.IncidentCollision: {
		"Collision damage forces %s to retire",
		"%s tangles with a rival",
		"Contact breaks %s's suspension",
		"Multi-car collision involves %s",
		"Front wing damage from contact stops %s",
	},
	core.IncidentPuncture: {
		"Puncture for %s",
		"%s suffers a tyre failure",
		"Debris causes a puncture for %s",
		"Tyre delamination for %s",
		"Slow puncture wrecks %s's race",
	},
	core.IncidentWeather: {
		"%s aquaplanes off track",
		"Poor visibility causes %s to crash",
		"%s slides off in the wet",
		"Standing water catches %s out",
		"%s loses the rear on a wet kerb",
	},
	core.IncidentPitError: {
		"Pit stop error costs %s the race",
		"Loose wheel after %s's stop",
		"Fire in the pit box ends %s's race",
		"Long delay in the pits for %s",
		"Unsafe release retires %s",
	},
	core.IncidentPenalty: {
		"%s black flagged for a rule infringement",
		"Technical infringement disqualifies %s",
		"Safety violation takes %s out of the race",
		"Stewards show %s the black flag",
		"Disqualification for %s",
	},
}

// Describe picks one description for kind.
func Describe(r Rand, kind core.IncidentKind, name string) string {
	pool, ok := incidentDescriptions[kind]
	if !ok {
		return ""
	}
	return fmt.Sprintf(Pick(r, pool), name)
}

// Classify draws an incident category from the weighted decision ladder.
func Classify(r Rand, c core.Competitor, t core.Constructor, w core.Weather) core.IncidentKind {
	roll := r.Float64()
	switch {
	case roll < 0.6*(1-t.Reliability/100):
		return core.IncidentMechanical
	case roll < 0.5:
		return core.IncidentDriverError
	case roll < 0.7:
		return core.IncidentCollision
	case roll < 0.8:
		return core.IncidentPuncture
	case roll < 0.9 && w.IsWet():
		return core.IncidentWeather
	}
	if Chance(r, 0.5) {
		return core.IncidentPitError
	}
	return core.IncidentPenalty
}

// Incident decides whether en retires on this lap. It returns IncidentNone and
// an empty description when nothing happens.
func (e *Engine) Incident(en Entrant, w core.Weather, lap, totalLaps int) (core.IncidentKind, string) {
	p := IncidentProbability(en.Competitor, en.Constructor, w, lap, totalLaps)
	if !Chance(e.rng, p) {
		return core.IncidentNone, ""
	}
	kind := Classify(e.rng, en.Competitor, en.Constructor, w)
	return kind, Describe(e.rng, kind, en.Competitor.Name)
}
