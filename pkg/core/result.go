// pkg/core/result.go
package core

import "fmt"

// Status is the classification of a competitor at the end of a race.
type Status string

const (
	StatusFinished     Status = "Finished"
	StatusDNF          Status = "Did Not Finish"
	StatusDisqualified Status = "Disqualified"
)

// IncidentKind classifies a retirement-causing event.
type IncidentKind int

const (
	IncidentNone IncidentKind = iota
	IncidentMechanical
	IncidentDriverError
	IncidentCollision
	IncidentPuncture
	IncidentWeather
	IncidentPenalty
	IncidentPitError
)

var incidentNames = map[IncidentKind]string{
	IncidentNone:        "none",
	IncidentMechanical:  "mechanical_failure",
	IncidentDriverError: "driver_error",
	IncidentCollision:   "collision",
	IncidentPuncture:    "puncture",
	IncidentWeather:     "weather_related",
	IncidentPenalty:     "penalty",
	IncidentPitError:    "pit_error",
}

func (k IncidentKind) String() string {
	if s, ok := incidentNames[k]; ok {
		return s
	}
	return fmt.Sprintf("incident(%d)", int(k))
}

// ParseIncidentKind is the inverse of IncidentKind.String.
func ParseIncidentKind(s string) (IncidentKind, bool) {
	for k, name := range incidentNames {
		if name == s {
			return k, true
		}
	}
	return IncidentNone, false
}

// Disqualifies reports whether the incident resolves to a Disqualified status.
func (k IncidentKind) Disqualifies() bool {
	return k == IncidentPenalty
}

// Result is the per-competitor record of one race.
type Result struct {
	Competitor          string       `json:"competitor"`
	Number              int          `json:"number"`
	Constructor         string       `json:"constructor"`
	Grid                int          `json:"grid"`
	Position            int          `json:"position"`
	Time                float64      `json:"time"` // cumulative seconds
	Status              Status       `json:"status"`
	FastestLap          bool         `json:"fastestLap"`
	BestLap             float64      `json:"bestLap"`
	LapsCompleted       int          `json:"lapsCompleted"`
	Incident            IncidentKind `json:"incident"`
	IncidentDescription string       `json:"incidentDescription,omitempty"`
	Points              int          `json:"points"`
}

// Finished reports whether the competitor took the chequered flag.
func (r Result) Finished() bool {
	return r.Status == StatusFinished
}

func (r Result) String() string {
	if r.Finished() {
		return fmt.Sprintf("%d. %s (%s) - %s", r.Position, r.Competitor, r.Constructor, FormatRaceTime(r.Time))
	}
	return fmt.Sprintf("%d. %s (%s) - %s", r.Position, r.Competitor, r.Constructor, r.Status)
}

// Lap is a single timed lap of one competitor.
type Lap struct {
	Lap        int     `json:"lap"`
	Competitor string  `json:"competitor"`
	Number     int     `json:"number"`
	Time       float64 `json:"time"`
	Position   int     `json:"position"` // running position after the lap, 0 once retired
}

// FastestLap identifies the quickest single lap of a race.
type FastestLap struct {
	Competitor string  `json:"competitor"`
	Lap        int     `json:"lap"`
	Time       float64 `json:"time"`
}

// Standing is one row of the championship table.
type Standing struct {
	Competitor  string `json:"competitor"`
	Constructor string `json:"constructor"`
	Points      int    `json:"points"`
	Wins        int    `json:"wins"`
	Podiums     int    `json:"podiums"`
	Races       int    `json:"races"`
}

// FormatRaceTime renders seconds as m:ss.mmm.
func FormatRaceTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds*1000 + 0.5)
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
