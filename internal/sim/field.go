package sim

import (
	"errors"
	"fmt"

	"github.com/gridline/racesim/pkg/core"
)

// Setup errors. They abort the race they were raised for.
var (
	ErrNoCompetitors  = errors.New("no competitors entered")
	ErrNoConstructor  = errors.New("no constructor for competitor")
	ErrInvalidCircuit = errors.New("invalid circuit")
	ErrAttribute      = errors.New("attribute out of range")
	ErrInvalidGrid    = errors.New("grid is not a permutation of the field")
)

// Entry is everything a race needs as input.
type Entry struct {
	Circuit      core.Circuit
	Weather      core.Weather
	Competitors  []core.Competitor
	Constructors []core.Constructor
}

// Entrant pairs a competitor with its car. Index is stable for the whole race
// and addresses all per-competitor state.
type Entrant struct {
	Index       int
	Competitor  core.Competitor
	Constructor core.Constructor
}

// Field is a validated race entry.
type Field struct {
	Circuit  core.Circuit
	Weather  core.Weather
	Entrants []Entrant
}

// Prepare resolves every competitor's constructor by exact name and validates
// the attributes the timing model depends on.
func Prepare(e Entry) (*Field, error) {
	if len(e.Competitors) == 0 {
		return nil, ErrNoCompetitors
	}
	if e.Circuit.Laps < 1 || e.Circuit.LengthKm <= 0 {
		return nil, fmt.Errorf("%w: %q has %d laps of %.3f km", ErrInvalidCircuit, e.Circuit.Name, e.Circuit.Laps, e.Circuit.LengthKm)
	}

	teams := make(map[string]core.Constructor, len(e.Constructors))
	for _, t := range e.Constructors {
		if err := checkConstructor(t); err != nil {
			return nil, err
		}
		teams[t.Name] = t
	}

	f := &Field{
		Circuit:  e.Circuit,
		Weather:  e.Weather,
		Entrants: make([]Entrant, 0, len(e.Competitors)),
	}
	for i, c := range e.Competitors {
		t, ok := teams[c.Team]
		if !ok {
			return nil, fmt.Errorf("%w: %s drives for unknown team %q", ErrNoConstructor, c.Name, c.Team)
		}
		if err := checkCompetitor(c); err != nil {
			return nil, err
		}
		f.Entrants = append(f.Entrants, Entrant{Index: i, Competitor: c, Constructor: t})
	}
	return f, nil
}

func checkCompetitor(c core.Competitor) error {
	skills := map[string]float64{
		"skillWet":        c.SkillWet,
		"skillDry":        c.SkillDry,
		"skillOvertaking": c.SkillOvertaking,
		"consistency":     c.Consistency,
		"aggression":      c.Aggression,
	}
	for name, v := range skills {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s %s=%v", ErrAttribute, c.Name, name, v)
		}
	}
	if c.Experience < 0 {
		return fmt.Errorf("%w: %s experience=%d", ErrAttribute, c.Name, c.Experience)
	}
	return nil
}

func checkConstructor(t core.Constructor) error {
	scalars := map[string]float64{
		"performance":  t.Performance,
		"reliability":  t.Reliability,
		"aerodynamics": t.Aerodynamics,
		"power":        t.Power,
	}
	for name, v := range scalars {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s %s=%v", ErrAttribute, t.Name, name, v)
		}
	}
	return nil
}

// baseLapTime scales a 90s reference lap by circuit length.
func baseLapTime(c core.Circuit) float64 {
	return 90 + (c.LengthKm-5)*5
}
