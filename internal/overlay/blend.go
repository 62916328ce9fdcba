package overlay

import (
	"math"
	"slices"

	"github.com/gridline/racesim/internal/sim"
	"github.com/gridline/racesim/pkg/core"
)

const (
	externalWeight = 0.7
	baseWeight     = 0.3
)

// blend mixes an observed value into a base value. Missing observations keep
// the base value.
func blend(external, base float64) float64 {
	if external <= 0 {
		return base
	}
	return math.Round(external*externalWeight + base*baseWeight)
}

// BlendCompetitors returns copies of cs with skills blended 70/30 towards the
// external statistics. Competitors without statistics are returned unchanged.
func BlendCompetitors(cs []core.Competitor, s *Stats) []core.Competitor {
	out := slices.Clone(cs)
	if !s.Available() {
		return out
	}
	for i := range out {
		d, ok := s.Driver(out[i].Name)
		if !ok {
			continue
		}
		c := &out[i]
		c.SkillDry = blend(d.SkillDry, c.SkillDry)
		c.SkillWet = blend(d.SkillWet, c.SkillWet)
		c.SkillOvertaking = blend(d.SkillOvertaking, c.SkillOvertaking)
		c.Consistency = blend(d.Consistency, c.Consistency)
		c.Aggression = blend(d.Aggression, c.Aggression)
	}
	return out
}

// BlendConstructors returns copies of ts with car attributes blended 70/30
// towards the external statistics.
func BlendConstructors(ts []core.Constructor, s *Stats) []core.Constructor {
	out := slices.Clone(ts)
	if !s.Available() {
		return out
	}
	for i := range out {
		st, ok := s.Team(out[i].Name)
		if !ok {
			continue
		}
		t := &out[i]
		t.Performance = blend(st.Performance, t.Performance)
		t.Reliability = blend(st.Reliability, t.Reliability)
		t.Aerodynamics = blend(st.Aerodynamics, t.Aerodynamics)
		t.Power = blend(st.Power, t.Power)
		t.PitEfficiency = blend(st.PitEfficiency, t.PitEfficiency)
	}
	return out
}

// Enhance returns a copy of e with competitors and constructors blended.
func Enhance(e sim.Entry, s *Stats) sim.Entry {
	e.Competitors = BlendCompetitors(e.Competitors, s)
	e.Constructors = BlendConstructors(e.Constructors, s)
	return e
}

// Coverage counts how many competitors and constructors of e have statistics.
func Coverage(e sim.Entry, s *Stats) (drivers, teams int) {
	for _, c := range e.Competitors {
		if _, ok := s.Driver(c.Name); ok {
			drivers++
		}
	}
	for _, t := range e.Constructors {
		if _, ok := s.Team(t.Name); ok {
			teams++
		}
	}
	return drivers, teams
}
