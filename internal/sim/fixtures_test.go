package sim

import (
	"fmt"

	"github.com/gridline/racesim/pkg/core"
)

func testCircuit() core.Circuit {
	return core.Circuit{
		Name:     "Test Ring",
		Country:  "Nowhere",
		LengthKm: 5.3,
		Laps:     57,
		TyreWear: 6,
		Date:     "April 4-6, 2025",
	}
}

func dryWeather() core.Weather {
	return core.Weather{Condition: core.ConditionDry, Temperature: 22, WindSpeed: 8}
}

// testEntry builds n competitors spread over n/2 teams with descending skill.
func testEntry(n int) Entry {
	e := Entry{Circuit: testCircuit(), Weather: dryWeather()}
	for i := 0; i < (n+1)/2; i++ {
		e.Constructors = append(e.Constructors, core.Constructor{
			Name:         fmt.Sprintf("Team %d", i),
			Performance:  95 - float64(i)*3,
			Reliability:  92 - float64(i)*2,
			Aerodynamics: 94 - float64(i)*3,
			Power:        93 - float64(i)*2,
		})
	}
	for i := 0; i < n; i++ {
		e.Competitors = append(e.Competitors, core.Competitor{
			Name:            fmt.Sprintf("Driver %02d", i),
			Number:          i + 1,
			Team:            fmt.Sprintf("Team %d", i/2),
			Experience:      i % 12,
			SkillWet:        90 - float64(i),
			SkillDry:        95 - float64(i),
			SkillOvertaking: 88 - float64(i),
			Consistency:     92 - float64(i),
			Aggression:      50 + float64(i),
		})
	}
	return e
}
