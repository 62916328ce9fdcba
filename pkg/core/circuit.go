// pkg/core/circuit.go
package core

import (
	"regexp"
	"time"
)

// Circuit describes the track a race is held on. Ratings are on a 1-10 scale.
type Circuit struct {
	Name                 string  `yaml:"name" json:"name"`
	Country              string  `yaml:"country" json:"country"`
	City                 string  `yaml:"city" json:"city"`
	LengthKm             float64 `yaml:"lengthKm" json:"lengthKm"`
	Laps                 int     `yaml:"laps" json:"laps"`
	Corners              int     `yaml:"corners" json:"corners"`
	Straights            int     `yaml:"straights" json:"straights"`
	TopSpeed             float64 `yaml:"topSpeed" json:"topSpeed"` // km/h
	Downforce            int     `yaml:"downforce" json:"downforce"`
	TyreWear             int     `yaml:"tyreWear" json:"tyreWear"`
	BrakingSeverity      int     `yaml:"brakingSeverity" json:"brakingSeverity"`
	OvertakingDifficulty int     `yaml:"overtakingDifficulty" json:"overtakingDifficulty"`
	Date                 string  `yaml:"date" json:"date"` // e.g. "April 4-6, 2025"
}

// RaceDistance returns the total race distance in km.
func (c Circuit) RaceDistance() float64 {
	return c.LengthKm * float64(c.Laps)
}

// DownforceClass buckets the downforce rating.
func (c Circuit) DownforceClass() string {
	switch {
	case c.Downforce >= 8:
		return "High Downforce"
	case c.Downforce <= 4:
		return "Low Downforce"
	default:
		return "Medium Downforce"
	}
}

var datePattern = regexp.MustCompile(`^(\w+)\s+(\d+)(?:-(?:\w+\s+)?\d+)?,?\s+(\d{4})$`)

// RaceDate parses the first day of the race weekend from Date.
func (c Circuit) RaceDate() (time.Time, bool) {
	m := datePattern.FindStringSubmatch(c.Date)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("January 2 2006", m[1]+" "+m[2]+" "+m[3])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Month returns the race month, or 0 when the date cannot be parsed.
func (c Circuit) Month() time.Month {
	t, ok := c.RaceDate()
	if !ok {
		return 0
	}
	return t.Month()
}

func (c Circuit) String() string {
	return c.Name + " (" + c.Country + ")"
}
