package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridline/racesim/pkg/core"
)

func assertClassification(t *testing.T, results []core.Result) {
	t.Helper()

	seenNonFinisher := false
	var lastTime float64
	for i, r := range results {
		assert.Equal(t, i+1, r.Position)
		if !r.Finished() {
			seenNonFinisher = true
			assert.Zero(t, r.Points, "%s scored without finishing", r.Competitor)
			continue
		}
		require.False(t, seenNonFinisher, "finisher %s ranked after a non-finisher", r.Competitor)
		if i > 0 {
			assert.Greater(t, r.Time, lastTime)
		}
		lastTime = r.Time
	}
}

func TestSimulate_FullField(t *testing.T) {
	out, err := New(NewSeeded(2025)).Simulate(testEntry(20))
	require.NoError(t, err)

	require.Len(t, out.Grid, 20)
	require.Len(t, out.Results, 20)
	assertClassification(t, out.Results)

	grids := make(map[int]bool)
	holders := 0
	for _, r := range out.Results {
		grids[r.Grid] = true
		if r.FastestLap {
			holders++
			assert.Equal(t, out.FastestLap.Competitor, r.Competitor)
		}
		if r.Finished() {
			assert.Equal(t, 57, r.LapsCompleted)
			assert.Equal(t, core.IncidentNone, r.Incident)
		} else {
			assert.Less(t, r.LapsCompleted, 57)
			assert.NotEqual(t, core.IncidentNone, r.Incident)
			assert.NotEmpty(t, r.IncidentDescription)
		}
		assert.Positive(t, r.BestLap)
	}
	assert.Len(t, grids, 20)
	assert.Equal(t, 1, holders)
	assert.Positive(t, out.FastestLap.Time)
}

func TestSimulate_PointsTotal(t *testing.T) {
	out, err := New(NewSeeded(9)).Simulate(testEntry(20))
	require.NoError(t, err)

	finishers, total, bonus := 0, 0, 0
	for _, r := range out.Results {
		total += r.Points
		if r.Finished() {
			finishers++
			if r.FastestLap && r.Position <= 10 {
				bonus = FastestLapBonus
			}
		}
	}
	if finishers >= 10 {
		assert.Equal(t, 101+bonus, total)
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	a, err := New(NewSeeded(77)).Simulate(testEntry(20))
	require.NoError(t, err)
	b, err := New(NewSeeded(77)).Simulate(testEntry(20))
	require.NoError(t, err)

	assert.Equal(t, a.Grid, b.Grid)
	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.Laps, b.Laps)
}

func TestSimulate_SetupError(t *testing.T) {
	e := testEntry(4)
	e.Constructors = e.Constructors[:1]

	_, err := New(nil).Simulate(e)
	assert.ErrorIs(t, err, ErrNoConstructor)
}

func TestRace_RejectsBadGrid(t *testing.T) {
	f, err := Prepare(testEntry(4))
	require.NoError(t, err)

	_, err = New(NewSeeded(1)).Race(f, Grid{{1, 0, 0}, {2, 1, 0}})
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestRace_LapArtifacts(t *testing.T) {
	e := testEntry(6)
	e.Circuit.Laps = 5
	out, err := New(NewSeeded(5)).Simulate(e)
	require.NoError(t, err)

	byCompetitor := make(map[string]int)
	for _, l := range out.Laps {
		assert.Positive(t, l.Time)
		assert.GreaterOrEqual(t, l.Position, 0)
		assert.LessOrEqual(t, l.Position, 6)
		byCompetitor[l.Competitor]++
	}
	for _, r := range out.Results {
		if r.Finished() {
			assert.Equal(t, 5, byCompetitor[r.Competitor])
		}
	}
}

func TestRace_SingleLapSingleCar(t *testing.T) {
	e := testEntry(1)
	e.Circuit.Laps = 1
	out, err := New(NewSeeded(1)).Simulate(e)
	require.NoError(t, err)

	require.Len(t, out.Results, 1)
	r := out.Results[0]
	assert.Equal(t, 1, r.Position)
	assert.True(t, r.FastestLap)
	if r.Finished() {
		assert.Equal(t, 26, r.Points)
	}
}

func TestRace_WetRaceIsSlower(t *testing.T) {
	dry := testEntry(10)
	wet := testEntry(10)
	wet.Weather = core.Weather{Condition: core.ConditionWet, RainIntensity: 6}

	eng := New(NewSeeded(4))
	f, err := Prepare(dry)
	require.NoError(t, err)
	dryPace := eng.basePace(f, f.Entrants[9])

	f, err = Prepare(wet)
	require.NoError(t, err)
	wetPace := eng.basePace(f, f.Entrants[9])

	assert.Greater(t, wetPace, dryPace)
}

func TestLapTime_Effects(t *testing.T) {
	c := testCircuit()
	zero := New(&fixedRand{floats: []float64{0.5}}) // jitter draws to 0

	// Traffic only applies from sixth place.
	assert.InDelta(t, zero.lapTime(c, 90, 1, 1), zero.lapTime(c, 90, 1, 5), 1e-9)
	assert.Greater(t, zero.lapTime(c, 90, 1, 15), zero.lapTime(c, 90, 1, 5))
	assert.InDelta(t, zero.lapTime(c, 90, 1, 15), zero.lapTime(c, 90, 1, 20), 1e-9)

	lap := zero.lapTime(c, 90, 20, 1)
	want := 90 * (1 + 0.05*1*0.6 - 0.04)
	assert.InDelta(t, want, lap, 1e-9)
}

func TestReposition(t *testing.T) {
	grid := Grid{{1, 0, 0}, {2, 1, 0}, {3, 2, 0}}
	state := []raceState{
		{active: true, time: 100},
		{active: false, time: 20},
		{active: true, time: 90},
	}
	reposition(grid, state)

	assert.Equal(t, 2, state[0].position)
	assert.Equal(t, 0, state[1].position)
	assert.Equal(t, 1, state[2].position)
}

// countingRand returns a constant draw and counts how often it was asked.
type countingRand struct {
	draws int
}

func (c *countingRand) Float64() float64 { c.draws++; return 0.5 }
func (c *countingRand) IntN(int) int     { c.draws++; return 0 }

func TestRace_PaceDrawnEveryLap(t *testing.T) {
	e := testEntry(1)
	e.Circuit.Laps = 10
	f, err := Prepare(e)
	require.NoError(t, err)

	rng := &countingRand{}
	out, err := New(rng).Race(f, Grid{{Position: 1, Entrant: 0}})
	require.NoError(t, err)
	require.True(t, out.Results[0].Finished())

	// pace jitter, lap jitter and the incident roll on each of the 10 laps
	assert.Equal(t, 30, rng.draws)
}

func TestRace_PaceVariesLapToLap(t *testing.T) {
	e := testEntry(1)
	e.Circuit.Laps = 2
	f, err := Prepare(e)
	require.NoError(t, err)

	// Each lap draws pace jitter, lap jitter, then the incident roll. Only the
	// second lap's pace draw differs between the two runs.
	run := func(secondPace float64) []core.Lap {
		rng := &fixedRand{floats: []float64{0, 0.5, 0.99, secondPace, 0.5, 0.99}}
		out, err := New(rng).Race(f, Grid{{Position: 1, Entrant: 0}})
		require.NoError(t, err)
		require.Len(t, out.Laps, 2)
		return out.Laps
	}
	slow, fast := run(1), run(0)

	assert.Equal(t, slow[0].Time, fast[0].Time)
	// 0.4s of pace jitter scaled by lap 2 tyre wear and fuel burn
	tyre := 0.05 * (2.0 / 20) * (6.0 / 10)
	assert.InDelta(t, 0.4*(1+tyre-0.004), slow[1].Time-fast[1].Time, 1e-9)
}

func TestRace_DuplicateNamesSingleFastestLap(t *testing.T) {
	e := testEntry(4)
	e.Competitors[1].Name = e.Competitors[0].Name

	out, err := New(NewSeeded(1)).Simulate(e)
	require.NoError(t, err)

	flagged, bonus := 0, 0
	for _, r := range out.Results {
		if r.FastestLap {
			flagged++
		}
		if r.Finished() {
			bonus += r.Points - PointsFor(r.Position)
		}
	}
	assert.Equal(t, 1, flagged)
	assert.LessOrEqual(t, bonus, FastestLapBonus)

	for _, l := range out.Laps {
		assert.GreaterOrEqual(t, l.Position, 0)
		assert.LessOrEqual(t, l.Position, 4)
	}
}
