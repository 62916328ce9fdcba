package model

import (
	"time"

	"gorm.io/datatypes"
)

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Race{},
	&Result{},
}

// Race is one simulated race weekend. Structured data that is only ever read
// back whole is kept in JSON columns.
type Race struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Round       int       `json:"round" gorm:"index:idx_race_round"`
	Time        time.Time `json:"time"`
	CircuitName string    `json:"circuitName" gorm:"size:127"`
	Country     string    `json:"country" gorm:"size:64"`
	Condition   string    `json:"condition" gorm:"size:16"`
	Seed        int64     `json:"seed"`
	Enhanced    bool      `json:"enhanced"`

	Circuit  datatypes.JSON `json:"circuit"`
	Weather  datatypes.JSON `json:"weather"`
	Grid     datatypes.JSON `json:"grid"`
	LapTimes datatypes.JSON `json:"lapTimes"`

	FastestLapCompetitor string  `json:"fastestLapCompetitor" gorm:"size:64"`
	FastestLapNumber     int     `json:"fastestLapNumber"`
	FastestLapTime       float64 `json:"fastestLapTime"`

	Results []Result `json:"results" gorm:"foreignKey:RaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*Race) TableName() string {
	return "races"
}

// Result is one competitor's classification in a race.
type Result struct {
	ID                  uint    `json:"id" gorm:"primarykey"`
	RaceID              string  `json:"raceId" gorm:"size:36;index:idx_result_race_id"`
	Competitor          string  `json:"competitor" gorm:"size:64;index:idx_result_competitor"`
	Number              int     `json:"number"`
	Constructor         string  `json:"constructor" gorm:"size:64;index:idx_result_constructor"`
	Grid                int     `json:"grid"`
	Position            int     `json:"position"`
	Time                float64 `json:"time"`
	Status              string  `json:"status" gorm:"size:32"`
	FastestLap          bool    `json:"fastestLap"`
	BestLap             float64 `json:"bestLap"`
	LapsCompleted       int     `json:"lapsCompleted"`
	Incident            string  `json:"incident" gorm:"size:32"`
	IncidentDescription string  `json:"incidentDescription" gorm:"size:255"`
	Points              int     `json:"points"`
}

func (*Result) TableName() string {
	return "results"
}

// StandingRow is the shape of the drivers' championship aggregation query.
type StandingRow struct {
	Competitor  string
	Constructor string
	Points      int
	Wins        int
	Podiums     int
	Races       int
}

// ConstructorStandingRow is the shape of the teams' championship aggregation query.
type ConstructorStandingRow struct {
	Constructor string
	Points      int
	Wins        int
	Podiums     int
}
