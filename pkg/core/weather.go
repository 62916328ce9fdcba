// pkg/core/weather.go
package core

// Condition is the coarse weather tag for a race.
type Condition string

const (
	ConditionDry   Condition = "dry"
	ConditionWet   Condition = "wet"
	ConditionMixed Condition = "mixed"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionDry, ConditionWet, ConditionMixed:
		return true
	}
	return false
}

// Weather is the weather descriptor consumed by the simulation.
type Weather struct {
	Condition        Condition `yaml:"condition" json:"condition"`
	Temperature      float64   `yaml:"temperature" json:"temperature"` // °C
	Humidity         float64   `yaml:"humidity" json:"humidity"`       // %
	WindSpeed        float64   `yaml:"windSpeed" json:"windSpeed"`     // km/h
	RainChance       float64   `yaml:"rainChance" json:"rainChance"`   // %
	RainIntensity    float64   `yaml:"rainIntensity" json:"rainIntensity"`
	TrackTemperature float64   `yaml:"trackTemperature" json:"trackTemperature"` // °C
}

// IsWet holds iff the condition is wet, or mixed with rain intensity above 3.
func (w Weather) IsWet() bool {
	return w.Condition == ConditionWet || (w.Condition == ConditionMixed && w.RainIntensity > 3)
}

// ImpactFactor quantifies how adverse the conditions are, in (0,1].
// 1 is ideal.
func (w Weather) ImpactFactor() float64 {
	switch w.Condition {
	case ConditionWet:
		switch {
		case w.RainIntensity > 7:
			return 0.6
		case w.RainIntensity >= 4:
			return 0.7
		default:
			return 0.8
		}
	case ConditionMixed:
		return 0.85 - 0.1*w.RainIntensity/10
	default:
		switch {
		case w.Temperature >= 18 && w.Temperature <= 26 && w.WindSpeed < 20:
			return 1.0
		case w.Temperature > 35 || w.WindSpeed > 40:
			return 0.85
		case w.Temperature < 10:
			return 0.9
		default:
			return 0.95
		}
	}
}
