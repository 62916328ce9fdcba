// Package weekend runs race weekends end to end: statistics, blending,
// qualifying, the race, result adjustment, storage, telemetry and metrics.
package weekend

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/gridline/racesim/internal/overlay"
	"github.com/gridline/racesim/internal/roster"
	"github.com/gridline/racesim/internal/sim"
	"github.com/gridline/racesim/internal/stats"
	"github.com/gridline/racesim/internal/storage"
	"github.com/gridline/racesim/internal/telemetry"
	"github.com/gridline/racesim/internal/weather"
	"github.com/gridline/racesim/pkg/core"
)

// Deps are the collaborators of a Service. Roster and Store are required.
type Deps struct {
	Roster       *roster.Roster
	Store        storage.Backend
	Stats        stats.Provider // nil runs every race on base attributes
	StatsTimeout time.Duration
	Telemetry    *telemetry.Sink // nil disables lap export
	Logger       *slog.Logger
	Context      *RaceContext
	Now          func() time.Time
}

// Service runs race weekends.
type Service struct {
	deps    Deps
	metrics *metrics
}

// Request describes one race weekend. The zero value races the next event on
// the calendar with generated weather and a random seed.
type Request struct {
	Track   string        // partial circuit or country name
	Circuit *core.Circuit // takes precedence over Track
	Weather core.Condition
	Seed    uint64 // 0 draws a fresh seed, which is recorded on the race
	Round   int    // 0 numbers the race after the ones already stored
}

// Report is the outcome of one weekend.
type Report struct {
	Race          *core.Race
	Probabilities weather.Probabilities
	DriverStats   int // competitors with external statistics applied
	TeamStats     int
}

// SeasonReport is the outcome of a full calendar.
type SeasonReport struct {
	Reports      []*Report
	Standings    []core.Standing
	Constructors []core.ConstructorStanding
}

// New creates a Service.
func New(deps Deps) (*Service, error) {
	if deps.Roster == nil {
		return nil, fmt.Errorf("weekend service needs a roster")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("weekend service needs a results store")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Context == nil {
		deps.Context = NewRaceContext()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m, err := newMetrics()
	if err != nil {
		return nil, err
	}
	return &Service{deps: deps, metrics: m}, nil
}

// Run simulates one race weekend and stores the result.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := s.deps.Logger

	circuit, err := s.circuit(req)
	if err != nil {
		return nil, err
	}
	if req.Weather != "" && !req.Weather.Valid() {
		return nil, fmt.Errorf("unknown weather condition %q", req.Weather)
	}

	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := sim.NewSeeded(seed)

	round := req.Round
	if round == 0 {
		races, err := s.deps.Store.Races()
		if err != nil {
			return nil, fmt.Errorf("failed to count stored races: %w", err)
		}
		round = len(races) + 1
	}

	runID := uuid.NewString()
	s.deps.Context.Set(runID, circuit.Name, round)
	defer s.deps.Context.Clear()

	month := circuit.Month()
	if month == 0 {
		month = s.deps.Now().Month()
	}
	w := weather.Generate(circuit, rng, weather.Options{Month: month, Force: req.Weather, Now: s.deps.Now})
	log.Debug("Weather generated", "condition", w.Condition, "temperature", w.Temperature, "rainIntensity", w.RainIntensity)

	st := s.loadStats(ctx)
	entry := overlay.Enhance(s.deps.Roster.Entry(circuit, w), st)
	drivers, teams := overlay.Coverage(entry, st)
	if st != nil {
		log.Info("Statistics applied", "drivers", drivers, "teams", teams)
	}

	field, err := sim.Prepare(entry)
	if err != nil {
		return nil, fmt.Errorf("race setup at %s: %w", circuit.Name, err)
	}

	engine := sim.New(rng)
	grid := overlay.AdjustGrid(engine.Qualify(field), field, st, rng)
	log.Debug("Qualifying complete", "pole", field.Entrants[grid[0].Entrant].Competitor.Name, "time", grid[0].Time)

	out, err := engine.Race(field, grid)
	if err != nil {
		return nil, fmt.Errorf("race at %s: %w", circuit.Name, err)
	}

	race := &core.Race{
		ID:         runID,
		Round:      round,
		Circuit:    circuit,
		Weather:    w,
		Grid:       gridSlots(field, grid),
		Results:    overlay.AdjustResults(out.Results, st, rng),
		Laps:       out.Laps,
		FastestLap: out.FastestLap,
		Seed:       seed,
		Enhanced:   st != nil,
		Time:       s.deps.Now().UTC(),
	}

	if err := s.deps.Store.SaveRace(race); err != nil {
		return nil, fmt.Errorf("failed to store race: %w", err)
	}
	s.metrics.recordRace(ctx, race)
	s.exportLaps(race)

	if winner, ok := race.Winner(); ok {
		log.Info("Race complete", "winner", winner.Competitor, "constructor", winner.Constructor,
			"time", core.FormatRaceTime(winner.Time), "seed", seed)
	} else {
		log.Warn("Race complete with no classified finisher", "seed", seed)
	}

	return &Report{
		Race:          race,
		Probabilities: weather.ConditionProbabilities(circuit, month),
		DriverStats:   drivers,
		TeamStats:     teams,
	}, nil
}

// RunSeason races every circuit of the calendar in date order and returns the
// championship tables. A non-zero seed seeds round n with seed+n-1.
func (s *Service) RunSeason(ctx context.Context, seed uint64, condition core.Condition) (*SeasonReport, error) {
	calendar := s.deps.Roster.Calendar()
	out := &SeasonReport{Reports: make([]*Report, 0, len(calendar))}

	for i := range calendar {
		req := Request{Circuit: &calendar[i], Weather: condition, Round: i + 1}
		if seed != 0 {
			req.Seed = seed + uint64(i)
		}
		rep, err := s.Run(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		out.Reports = append(out.Reports, rep)
	}

	var err error
	if out.Standings, err = s.deps.Store.Standings(); err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}
	if out.Constructors, err = s.deps.Store.ConstructorStandings(); err != nil {
		return nil, fmt.Errorf("failed to load constructor standings: %w", err)
	}
	s.deps.Logger.Info("Season complete", "races", len(out.Reports), "champion", champion(out.Standings))
	return out, nil
}

func (s *Service) circuit(req Request) (core.Circuit, error) {
	switch {
	case req.Circuit != nil:
		return *req.Circuit, nil
	case req.Track != "":
		return s.deps.Roster.Circuit(req.Track)
	}
	if c, ok := s.deps.Roster.Next(s.deps.Now()); ok {
		return c, nil
	}
	calendar := s.deps.Roster.Calendar()
	if len(calendar) == 0 {
		return core.Circuit{}, fmt.Errorf("calendar is empty: %w", roster.ErrNotFound)
	}
	return calendar[0], nil
}

func (s *Service) loadStats(ctx context.Context) *overlay.Stats {
	if s.deps.Stats == nil {
		return nil
	}
	st := stats.Load(ctx, s.deps.Stats, s.deps.StatsTimeout, s.deps.Logger)
	if st == nil {
		s.metrics.statsFallbacks.Add(ctx, 1)
	}
	return st
}

func (s *Service) exportLaps(r *core.Race) {
	if s.deps.Telemetry == nil {
		return
	}
	queued := s.deps.Telemetry.Enqueue(r)
	s.deps.Logger.Debug("Lap telemetry queued", "points", queued, "pending", s.deps.Telemetry.Pending())
	written, err := s.deps.Telemetry.Flush()
	if err != nil {
		s.deps.Logger.Warn("Lap telemetry export failed", "queued", queued, "written", written, "error", err)
		return
	}
	s.deps.Logger.Debug("Lap telemetry exported", "points", written)
}

func gridSlots(f *sim.Field, g sim.Grid) []core.GridSlot {
	out := make([]core.GridSlot, len(g))
	for i, c := range g.Competitors(f) {
		out[i] = core.GridSlot{
			Position:    g[i].Position,
			Competitor:  c.Name,
			Number:      c.Number,
			Constructor: f.Entrants[g[i].Entrant].Constructor.Name,
			Time:        g[i].Time,
		}
	}
	return out
}

func champion(s []core.Standing) string {
	if len(s) == 0 {
		return ""
	}
	return s[0].Competitor
}
