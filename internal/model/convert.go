package model

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/gridline/racesim/pkg/core"
)

// FromRace converts a race record to its row form.
func FromRace(r *core.Race) (Race, error) {
	row := Race{
		ID:                   r.ID,
		Round:                r.Round,
		Time:                 r.Time,
		CircuitName:          r.Circuit.Name,
		Country:              r.Circuit.Country,
		Condition:            string(r.Weather.Condition),
		Seed:                 int64(r.Seed),
		Enhanced:             r.Enhanced,
		FastestLapCompetitor: r.FastestLap.Competitor,
		FastestLapNumber:     r.FastestLap.Lap,
		FastestLapTime:       r.FastestLap.Time,
	}

	var err error
	if row.Circuit, err = toJSON(r.Circuit); err != nil {
		return Race{}, fmt.Errorf("circuit: %w", err)
	}
	if row.Weather, err = toJSON(r.Weather); err != nil {
		return Race{}, fmt.Errorf("weather: %w", err)
	}
	if row.Grid, err = toJSON(r.Grid); err != nil {
		return Race{}, fmt.Errorf("grid: %w", err)
	}
	if row.LapTimes, err = toJSON(r.Laps); err != nil {
		return Race{}, fmt.Errorf("laps: %w", err)
	}

	row.Results = make([]Result, len(r.Results))
	for i, res := range r.Results {
		row.Results[i] = FromResult(r.ID, res)
	}
	return row, nil
}

// FromResult converts one classification row.
func FromResult(raceID string, r core.Result) Result {
	return Result{
		RaceID:              raceID,
		Competitor:          r.Competitor,
		Number:              r.Number,
		Constructor:         r.Constructor,
		Grid:                r.Grid,
		Position:            r.Position,
		Time:                r.Time,
		Status:              string(r.Status),
		FastestLap:          r.FastestLap,
		BestLap:             r.BestLap,
		LapsCompleted:       r.LapsCompleted,
		Incident:            r.Incident.String(),
		IncidentDescription: r.IncidentDescription,
		Points:              r.Points,
	}
}

// ToCore converts a row, with its results preloaded, back to a race record.
func (row *Race) ToCore() (core.Race, error) {
	r := core.Race{
		ID:       row.ID,
		Round:    row.Round,
		Time:     row.Time,
		Seed:     uint64(row.Seed),
		Enhanced: row.Enhanced,
		FastestLap: core.FastestLap{
			Competitor: row.FastestLapCompetitor,
			Lap:        row.FastestLapNumber,
			Time:       row.FastestLapTime,
		},
	}
	if err := fromJSON(row.Circuit, &r.Circuit); err != nil {
		return core.Race{}, fmt.Errorf("circuit: %w", err)
	}
	if err := fromJSON(row.Weather, &r.Weather); err != nil {
		return core.Race{}, fmt.Errorf("weather: %w", err)
	}
	if err := fromJSON(row.Grid, &r.Grid); err != nil {
		return core.Race{}, fmt.Errorf("grid: %w", err)
	}
	if err := fromJSON(row.LapTimes, &r.Laps); err != nil {
		return core.Race{}, fmt.Errorf("laps: %w", err)
	}

	r.Results = make([]core.Result, len(row.Results))
	for i, res := range row.Results {
		r.Results[i] = res.ToCore()
	}
	return r, nil
}

// ToCore converts a classification row back.
func (row Result) ToCore() core.Result {
	kind, _ := core.ParseIncidentKind(row.Incident)
	return core.Result{
		Competitor:          row.Competitor,
		Number:              row.Number,
		Constructor:         row.Constructor,
		Grid:                row.Grid,
		Position:            row.Position,
		Time:                row.Time,
		Status:              core.Status(row.Status),
		FastestLap:          row.FastestLap,
		BestLap:             row.BestLap,
		LapsCompleted:       row.LapsCompleted,
		Incident:            kind,
		IncidentDescription: row.IncidentDescription,
		Points:              row.Points,
	}
}

func toJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func fromJSON(data datatypes.JSON, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
