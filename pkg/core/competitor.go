// pkg/core/competitor.go
package core

// Competitor is a simulated driver with skill attributes in [1,100].
type Competitor struct {
	Name        string `yaml:"name" json:"name"`
	Number      int    `yaml:"number" json:"number"`
	Team        string `yaml:"team" json:"team"` // must match a Constructor.Name exactly
	Nationality string `yaml:"nationality" json:"nationality"`
	Age         int    `yaml:"age" json:"age"`
	Experience  int    `yaml:"experience" json:"experience"` // years

	SkillWet        float64 `yaml:"skillWet" json:"skillWet"`
	SkillDry        float64 `yaml:"skillDry" json:"skillDry"`
	SkillOvertaking float64 `yaml:"skillOvertaking" json:"skillOvertaking"`
	Consistency     float64 `yaml:"consistency" json:"consistency"`
	Aggression      float64 `yaml:"aggression" json:"aggression"`
}

// OverallRating is the fixed-weight driver rating.
func (c Competitor) OverallRating() float64 {
	return c.SkillDry*0.35 +
		c.SkillWet*0.15 +
		c.SkillOvertaking*0.20 +
		c.Consistency*0.20 +
		float64(c.Experience)*0.10
}

// IsRookie reports whether the competitor has less than two years of experience.
func (c Competitor) IsRookie() bool {
	return c.Experience < 2
}

func (c Competitor) String() string {
	return c.Name + " (" + c.Team + ")"
}

// Constructor is a team supplying the car.
type Constructor struct {
	Name            string  `yaml:"name" json:"name"`
	Chassis         string  `yaml:"chassis" json:"chassis"`
	Engine          string  `yaml:"engine" json:"engine"`
	Performance     float64 `yaml:"performance" json:"performance"`
	Reliability     float64 `yaml:"reliability" json:"reliability"`
	PitEfficiency   float64 `yaml:"pitEfficiency" json:"pitEfficiency"`
	DevelopmentRate float64 `yaml:"developmentRate" json:"developmentRate"`
	Aerodynamics    float64 `yaml:"aerodynamics" json:"aerodynamics"`
	Power           float64 `yaml:"power" json:"power"`
}

// CarRating is the fixed-weight car rating.
func (t Constructor) CarRating() float64 {
	return t.Performance*0.3 +
		t.Reliability*0.2 +
		t.Aerodynamics*0.25 +
		t.Power*0.25
}

func (t Constructor) String() string {
	return t.Name + " (" + t.Engine + ")"
}
