package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualify_GridIsPermutation(t *testing.T) {
	f, err := Prepare(testEntry(20))
	require.NoError(t, err)

	grid := New(NewSeeded(7)).Qualify(f)
	require.Len(t, grid, 20)
	require.NoError(t, grid.validate(f))

	for i, s := range grid {
		assert.Equal(t, i+1, s.Position)
		if i > 0 {
			assert.LessOrEqual(t, grid[i-1].Time, s.Time)
		}
	}
}

func TestQualify_Deterministic(t *testing.T) {
	f, err := Prepare(testEntry(20))
	require.NoError(t, err)

	a := New(NewSeeded(42)).Qualify(f)
	b := New(NewSeeded(42)).Qualify(f)
	assert.Equal(t, a, b)
}

func TestQualify_TimesNearBase(t *testing.T) {
	f, err := Prepare(testEntry(20))
	require.NoError(t, err)

	base := baseLapTime(f.Circuit)
	for _, s := range New(NewSeeded(3)).Qualify(f) {
		assert.Greater(t, s.Time, base-2)
		assert.Less(t, s.Time, base+10)
	}
}

func TestQualify_StrongerFieldStartsAhead(t *testing.T) {
	f, err := Prepare(testEntry(20))
	require.NoError(t, err)

	// Over many sessions the best-rated entrant should average a better
	// position than the worst-rated one.
	var best, worst int
	eng := New(NewSeeded(11))
	for range 50 {
		for _, s := range eng.Qualify(f) {
			switch s.Entrant {
			case 0:
				best += s.Position
			case 19:
				worst += s.Position
			}
		}
	}
	assert.Less(t, best, worst)
}

func TestGrid_Validate(t *testing.T) {
	f, err := Prepare(testEntry(3))
	require.NoError(t, err)

	assert.NoError(t, Grid{{1, 2, 0}, {2, 0, 0}, {3, 1, 0}}.validate(f))
	assert.ErrorIs(t, Grid{{1, 0, 0}, {2, 0, 0}, {3, 1, 0}}.validate(f), ErrInvalidGrid)
	assert.ErrorIs(t, Grid{{1, 0, 0}, {2, 1, 0}}.validate(f), ErrInvalidGrid)
	assert.ErrorIs(t, Grid{{1, 0, 0}, {2, 1, 0}, {3, 5, 0}}.validate(f), ErrInvalidGrid)
}

func TestGrid_SortByTimeIsStable(t *testing.T) {
	g := Grid{{Entrant: 0, Time: 80}, {Entrant: 1, Time: 79}, {Entrant: 2, Time: 80}}
	g.SortByTime()

	assert.Equal(t, []int{1, 0, 2}, []int{g[0].Entrant, g[1].Entrant, g[2].Entrant})
	assert.Equal(t, []int{1, 2, 3}, []int{g[0].Position, g[1].Position, g[2].Position})
}

func TestGrid_Competitors(t *testing.T) {
	f, err := Prepare(testEntry(2))
	require.NoError(t, err)

	got := Grid{{1, 1, 80}, {2, 0, 81}}.Competitors(f)
	require.Len(t, got, 2)
	assert.Equal(t, "Driver 01", got[0].Name)
	assert.Equal(t, "Driver 00", got[1].Name)
}
