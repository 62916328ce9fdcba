// Package weather generates race-day weather from a circuit's location and the
// time of year.
package weather

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/gridline/racesim/internal/sim"
	"github.com/gridline/racesim/pkg/core"
)

// Options override parts of the generation. The zero value derives everything
// from the circuit.
type Options struct {
	Month time.Month     // race month; 0 reads it from the circuit date
	Force core.Condition // fixed condition; empty draws one
	Now   func() time.Time
}

var (
	rainyCountries = []string{"malaysia", "japan", "brazil", "belgium", "great britain", "singapore"}
	aridVenues     = []string{"qatar", "bahrain", "saudi arabia", "uae", "united arab emirates", "las vegas"}
	hotCountries   = []string{"bahrain", "saudi arabia", "qatar", "uae", "singapore"}
	coolCountries  = []string{"canada", "japan", "great britain", "belgium"}
)

// Monthly offset from the 22°C base temperature.
var seasonOffset = map[time.Month]float64{
	time.January: -5, time.February: -4, time.March: -2, time.April: 0,
	time.May: 3, time.June: 5, time.July: 7, time.August: 7,
	time.September: 4, time.October: 0, time.November: -3, time.December: -5,
}

const baseTemperature = 22

// Probabilities are the relative weights of each condition.
type Probabilities struct {
	Dry, Wet, Mixed float64
}

// ConditionProbabilities returns the condition weights for circuit c in month m.
func ConditionProbabilities(c core.Circuit, m time.Month) Probabilities {
	p := Probabilities{Dry: 0.7, Wet: 0.2, Mixed: 0.1}
	country := strings.ToLower(c.Country)
	name := strings.ToLower(c.Name) + " " + strings.ToLower(c.City)

	if slices.Contains(rainyCountries, country) {
		p.Dry -= 0.2
		p.Wet += 0.1
		p.Mixed += 0.1
	}
	for _, loc := range aridVenues {
		if strings.Contains(country, loc) || strings.Contains(name, loc) {
			p = Probabilities{Dry: 0.9, Wet: 0.05, Mixed: 0.05}
			break
		}
	}
	if strings.Contains(name, "losail") || strings.Contains(name, "lusail") {
		p = Probabilities{Dry: 0.95, Wet: 0.03, Mixed: 0.02}
	}
	switch m {
	case time.March, time.April, time.October, time.November:
		p.Dry -= 0.1
		p.Wet += 0.05
		p.Mixed += 0.05
	}
	return p
}

// Pick draws a condition according to the weights.
func (p Probabilities) Pick(rng sim.Rand) core.Condition {
	roll := rng.Float64() * (p.Dry + p.Wet + p.Mixed)
	switch {
	case roll < p.Dry:
		return core.ConditionDry
	case roll < p.Dry+p.Wet:
		return core.ConditionWet
	default:
		return core.ConditionMixed
	}
}

// Generate produces the weather for a race at circuit c.
func Generate(c core.Circuit, rng sim.Rand, opts Options) core.Weather {
	if rng == nil {
		rng = sim.Default
	}
	month := opts.Month
	if month == 0 {
		month = c.Month()
	}
	if month == 0 {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		month = now().Month()
	}

	cond := opts.Force
	if !cond.Valid() {
		cond = ConditionProbabilities(c, month).Pick(rng)
	}

	temp := baseTemperature + seasonOffset[month] + locationOffset(c) + sim.Uniform(rng, -3, 3)
	w := core.Weather{Condition: cond, Temperature: round1(temp)}

	switch cond {
	case core.ConditionDry:
		w.Humidity = sim.Uniform(rng, 40, 70)
		w.WindSpeed = sim.Uniform(rng, 0, 25)
		w.RainChance = sim.Uniform(rng, 0, 15)
		w.TrackTemperature = w.Temperature + sim.Uniform(rng, 10, 20)
	case core.ConditionWet:
		w.Humidity = sim.Uniform(rng, 70, 95)
		w.WindSpeed = sim.Uniform(rng, 5, 40)
		w.RainChance = sim.Uniform(rng, 70, 100)
		w.RainIntensity = sim.Uniform(rng, 3, 10)
		w.TrackTemperature = w.Temperature + sim.Uniform(rng, 0, 7)
	default:
		w.Humidity = sim.Uniform(rng, 60, 85)
		w.WindSpeed = sim.Uniform(rng, 3, 35)
		w.RainChance = sim.Uniform(rng, 40, 80)
		w.RainIntensity = sim.Uniform(rng, 1, 6)
		w.TrackTemperature = w.Temperature + sim.Uniform(rng, 5, 15)
	}

	w.Humidity = round1(w.Humidity)
	w.WindSpeed = round1(w.WindSpeed)
	w.RainChance = round1(w.RainChance)
	w.RainIntensity = round1(w.RainIntensity)
	w.TrackTemperature = round1(w.TrackTemperature)
	return w
}

func locationOffset(c core.Circuit) float64 {
	country := strings.ToLower(c.Country)
	switch {
	case slices.Contains(hotCountries, country):
		return 8
	case slices.Contains(coolCountries, country):
		return -3
	}
	return 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
