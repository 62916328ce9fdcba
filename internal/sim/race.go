package sim

import (
	"cmp"
	"slices"

	"github.com/gridline/racesim/pkg/core"
)

// Engine runs qualifying and races. It holds no per-race state; a single
// engine can run any number of races one after another.
type Engine struct {
	rng Rand
}

// New returns an engine drawing from rng. A nil rng selects Default.
func New(rng Rand) *Engine {
	if rng == nil {
		rng = Default
	}
	return &Engine{rng: rng}
}

// Rand exposes the engine's random source so adjustment layers draw from the
// same sequence.
func (e *Engine) Rand() Rand {
	return e.rng
}

// Outcome is everything a race produces.
type Outcome struct {
	Field      *Field
	Grid       Grid
	Results    []core.Result
	Laps       []core.Lap
	FastestLap core.FastestLap
}

// raceState is the running record of one entrant, addressed by entrant index.
type raceState struct {
	active        bool
	incident      core.IncidentKind
	description   string
	time          float64
	position      int
	lapsCompleted int
	bestLap       float64
}

// Simulate prepares the entry, qualifies and races it.
func (e *Engine) Simulate(entry Entry) (*Outcome, error) {
	f, err := Prepare(entry)
	if err != nil {
		return nil, err
	}
	return e.Race(f, e.Qualify(f))
}

// Race runs every lap of the circuit starting from grid and compiles the
// classified results.
func (e *Engine) Race(f *Field, grid Grid) (*Outcome, error) {
	if err := grid.validate(f); err != nil {
		return nil, err
	}

	state := make([]raceState, len(f.Entrants))
	for _, s := range grid {
		state[s.Entrant] = raceState{active: true, position: s.Position}
	}

	total := f.Circuit.Laps
	out := &Outcome{Field: f, Grid: grid, Laps: make([]core.Lap, 0, total*len(grid))}
	fastest := core.FastestLap{}
	fastestIdx := -1
	lapEntrant := make([]int, 0, len(grid))

	for lap := 1; lap <= total; lap++ {
		first := len(out.Laps)
		lapEntrant = lapEntrant[:0]
		for _, s := range grid {
			st := &state[s.Entrant]
			if !st.active {
				continue
			}
			en := f.Entrants[s.Entrant]

			t := e.lapTime(f.Circuit, e.basePace(f, en), lap, st.position)
			st.time += t
			if st.bestLap == 0 || t < st.bestLap {
				st.bestLap = t
			}
			if fastestIdx < 0 || t < fastest.Time {
				fastestIdx = s.Entrant
				fastest = core.FastestLap{Competitor: en.Competitor.Name, Lap: lap, Time: t}
			}
			out.Laps = append(out.Laps, core.Lap{Lap: lap, Competitor: en.Competitor.Name, Number: en.Competitor.Number, Time: t})
			lapEntrant = append(lapEntrant, s.Entrant)

			kind, desc := e.Incident(en, f.Weather, lap, total)
			if kind != core.IncidentNone {
				st.active = false
				st.incident = kind
				st.description = desc
				st.position = 0
				continue
			}
			st.lapsCompleted = lap
		}
		reposition(grid, state)

		for i := first; i < len(out.Laps); i++ {
			out.Laps[i].Position = state[lapEntrant[i-first]].position
		}
	}

	out.FastestLap = fastest
	out.Results = compile(f, grid, state, fastestIdx)
	return out, nil
}

// basePace is the expected lap time of an entrant before lap-dependent effects.
// It carries its own jitter and is drawn afresh every lap.
func (e *Engine) basePace(f *Field, en Entrant) float64 {
	c, t := en.Competitor, en.Constructor
	pace := baseLapTime(f.Circuit) + 3*(1-c.OverallRating()/100) + 2.5*(1-t.CarRating()/100)
	if f.Weather.IsWet() {
		pace += 1.5 * (1 - c.SkillWet/100)
	} else {
		pace += 0.5 * (1 - c.SkillDry/100)
	}
	return pace + Uniform(e.rng, -0.2, 0.2)
}

// lapTime applies tyre wear, fuel burn and traffic to pace.
func (e *Engine) lapTime(c core.Circuit, pace float64, lap, position int) float64 {
	tyre := 0.05 * (float64(lap) / 20) * (float64(c.TyreWear) / 10)
	fuel := max(-0.02*(float64(lap)/10), -0.2)
	traffic := 0.1 * min(1, max(0, float64(position-5)/10))
	return pace*(1+tyre+fuel+traffic) + Uniform(e.rng, -0.3, 0.3)
}

// reposition renumbers active entrants by cumulative time. Ties keep grid order.
func reposition(grid Grid, state []raceState) {
	active := make([]int, 0, len(grid))
	for _, s := range grid {
		if state[s.Entrant].active {
			active = append(active, s.Entrant)
		}
	}
	slices.SortStableFunc(active, func(a, b int) int { return cmp.Compare(state[a].time, state[b].time) })
	for i, idx := range active {
		state[idx].position = i + 1
	}
}
