// Package roster supplies the competitors, constructors and circuits a race is
// run with: a built-in default season or a YAML file with the same layout.
package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gridline/racesim/internal/sim"
	"github.com/gridline/racesim/pkg/core"
)

//go:embed default.yaml
var defaultRoster []byte

var (
	ErrNotFound = errors.New("not found in roster")
	ErrInvalid  = errors.New("invalid roster")
)

// Roster is one season of reference data.
type Roster struct {
	Teams    []core.Constructor `yaml:"teams"`
	Drivers  []core.Competitor  `yaml:"drivers"`
	Circuits []core.Circuit     `yaml:"circuits"`
}

// Default returns the built-in season. Each call returns a fresh copy.
func Default() *Roster {
	r, err := Parse(defaultRoster)
	if err != nil {
		panic(fmt.Sprintf("roster: embedded default is invalid: %v", err))
	}
	return r
}

// LoadFile reads a roster from a YAML file.
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a YAML roster.
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that names are unique and every driver's team exists.
func (r *Roster) Validate() error {
	teams := make(map[string]bool, len(r.Teams))
	for _, t := range r.Teams {
		if t.Name == "" {
			return fmt.Errorf("%w: team without a name", ErrInvalid)
		}
		if teams[t.Name] {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalid, t.Name)
		}
		teams[t.Name] = true
	}
	drivers := make(map[string]bool, len(r.Drivers))
	for _, d := range r.Drivers {
		if drivers[d.Name] {
			return fmt.Errorf("%w: duplicate driver %q", ErrInvalid, d.Name)
		}
		drivers[d.Name] = true
		if !teams[d.Team] {
			return fmt.Errorf("%w: %s drives for unknown team %q", ErrInvalid, d.Name, d.Team)
		}
	}
	for _, c := range r.Circuits {
		if c.Laps < 1 || c.LengthKm <= 0 {
			return fmt.Errorf("%w: circuit %q has %d laps of %.3f km", ErrInvalid, c.Name, c.Laps, c.LengthKm)
		}
	}
	return nil
}

// Driver finds a driver by full or partial name, case-insensitively.
func (r *Roster) Driver(name string) (core.Competitor, error) {
	q := strings.ToLower(name)
	for _, d := range r.Drivers {
		if strings.Contains(strings.ToLower(d.Name), q) {
			return d, nil
		}
	}
	return core.Competitor{}, fmt.Errorf("driver %q: %w", name, ErrNotFound)
}

// Team finds a team by full or partial name, case-insensitively.
func (r *Roster) Team(name string) (core.Constructor, error) {
	q := strings.ToLower(name)
	for _, t := range r.Teams {
		if strings.Contains(strings.ToLower(t.Name), q) {
			return t, nil
		}
	}
	return core.Constructor{}, fmt.Errorf("team %q: %w", name, ErrNotFound)
}

// Circuit finds a circuit by partial circuit or country name.
func (r *Roster) Circuit(name string) (core.Circuit, error) {
	q := strings.ToLower(name)
	for _, c := range r.Circuits {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Country), q) {
			return c, nil
		}
	}
	return core.Circuit{}, fmt.Errorf("circuit %q: %w", name, ErrNotFound)
}

// DriversByTeam returns the drivers whose team name contains team.
func (r *Roster) DriversByTeam(team string) []core.Competitor {
	q := strings.ToLower(team)
	var out []core.Competitor
	for _, d := range r.Drivers {
		if strings.Contains(strings.ToLower(d.Team), q) {
			out = append(out, d)
		}
	}
	return out
}

// TeamsByEngine returns the teams running an engine whose name contains engine.
func (r *Roster) TeamsByEngine(engine string) []core.Constructor {
	q := strings.ToLower(engine)
	var out []core.Constructor
	for _, t := range r.Teams {
		if strings.Contains(strings.ToLower(t.Engine), q) {
			out = append(out, t)
		}
	}
	return out
}

// Calendar returns the circuits in race date order. Undated circuits sort last
// in roster order.
func (r *Roster) Calendar() []core.Circuit {
	out := slices.Clone(r.Circuits)
	slices.SortStableFunc(out, func(a, b core.Circuit) int {
		da, okA := a.RaceDate()
		db, okB := b.RaceDate()
		switch {
		case okA && okB:
			return da.Compare(db)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
	return out
}

// Next returns the first circuit on the calendar racing on or after t.
func (r *Roster) Next(t time.Time) (core.Circuit, bool) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	for _, c := range r.Calendar() {
		if d, ok := c.RaceDate(); ok && !d.Before(day) {
			return c, true
		}
	}
	return core.Circuit{}, false
}

// Entry assembles the race input for circuit c in weather w. The slices are
// copies, so the caller may modify them freely.
func (r *Roster) Entry(c core.Circuit, w core.Weather) sim.Entry {
	return sim.Entry{
		Circuit:      c,
		Weather:      w,
		Competitors:  slices.Clone(r.Drivers),
		Constructors: slices.Clone(r.Teams),
	}
}
