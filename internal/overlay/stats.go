// Package overlay blends externally supplied performance statistics into the
// simulation inputs and adjusts its outputs. Every function is pure: inputs are
// copied, never modified, and a nil or empty *Stats turns each step into a
// pass-through.
package overlay

import (
	"maps"
	"slices"
	"strings"
)

// DriverStats are observed driver skills on the same 1-100 scale as
// core.Competitor. A zero field means no observation.
type DriverStats struct {
	SkillWet        float64 `yaml:"skillWet" json:"skillWet"`
	SkillDry        float64 `yaml:"skillDry" json:"skillDry"`
	SkillOvertaking float64 `yaml:"skillOvertaking" json:"skillOvertaking"`
	Consistency     float64 `yaml:"consistency" json:"consistency"`
	Aggression      float64 `yaml:"aggression" json:"aggression"`
	Races           int     `yaml:"races" json:"races"`
}

// TeamStats are observed car attributes. A zero field means no observation.
type TeamStats struct {
	Performance   float64 `yaml:"performance" json:"performance"`
	Reliability   float64 `yaml:"reliability" json:"reliability"`
	PitEfficiency float64 `yaml:"pitEfficiency" json:"pitEfficiency"`
	Aerodynamics  float64 `yaml:"aerodynamics" json:"aerodynamics"`
	Power         float64 `yaml:"power" json:"power"`
	Races         int     `yaml:"races" json:"races"`
}

// Stats is one snapshot of external statistics, keyed by driver and team name.
type Stats struct {
	Drivers map[string]DriverStats `yaml:"drivers" json:"drivers"`
	Teams   map[string]TeamStats   `yaml:"teams" json:"teams"`
}

// Available reports whether s carries any statistics at all.
func (s *Stats) Available() bool {
	return s != nil && (len(s.Drivers) > 0 || len(s.Teams) > 0)
}

// Driver looks up statistics by exact name, falling back to a case-insensitive
// match.
func (s *Stats) Driver(name string) (DriverStats, bool) {
	if s == nil {
		return DriverStats{}, false
	}
	if d, ok := s.Drivers[name]; ok {
		return d, true
	}
	for _, k := range slices.Sorted(maps.Keys(s.Drivers)) {
		if strings.EqualFold(k, name) {
			return s.Drivers[k], true
		}
	}
	return DriverStats{}, false
}

// Team looks up statistics for a constructor. Names are compared after
// stripping common suffixes, and either may contain the other.
func (s *Stats) Team(name string) (TeamStats, bool) {
	if s == nil || len(s.Teams) == 0 {
		return TeamStats{}, false
	}
	want := normalizeTeam(name)
	if want == "" {
		return TeamStats{}, false
	}
	for _, k := range slices.Sorted(maps.Keys(s.Teams)) {
		have := normalizeTeam(k)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return s.Teams[k], true
		}
	}
	return TeamStats{}, false
}

var teamSuffixes = []string{" Racing", " F1 Team", " Team"}

func normalizeTeam(name string) string {
	for _, suffix := range teamSuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return strings.ToLower(strings.TrimSpace(name))
}
