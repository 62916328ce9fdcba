package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gridline/racesim/internal/weather"
	"github.com/gridline/racesim/internal/weekend"
	"github.com/gridline/racesim/pkg/core"
)

const (
	purple = lipgloss.Color("#DA0ED3")
	red    = lipgloss.Color("#CF040E")
	subtle = lipgloss.Color("#383838")
	light  = lipgloss.Color("#D1D4DD")
)

var (
	styleH1 = lipgloss.NewStyle().
		Bold(true).
		PaddingBottom(1).
		Border(lipgloss.NormalBorder(), false, false, true, false)
	styleInfo    = lipgloss.NewStyle().Foreground(light)
	styleHeader  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	stylePurple  = styleCell.Foreground(purple)
	styleRetired = styleCell.Foreground(red)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers(headers...)
}

func renderRace(w io.Writer, rep *weekend.Report, laps bool) {
	r := rep.Race
	fmt.Fprintln(w, styleH1.Render(fmt.Sprintf("Round %d: %s", r.Round, r.Circuit)))
	fmt.Fprintln(w, styleInfo.Render(weatherLine(r.Weather)))
	fmt.Fprintln(w, styleInfo.Render(outlookLine(rep.Probabilities)))
	fmt.Fprintln(w, styleInfo.Render(fmt.Sprintf("%d laps of %.3f km, seed %d", r.Circuit.Laps, r.Circuit.LengthKm, r.Seed)))
	if r.Enhanced {
		fmt.Fprintln(w, styleInfo.Render(fmt.Sprintf("Statistics applied to %d drivers and %d teams", rep.DriverStats, rep.TeamStats)))
	}
	fmt.Fprintln(w)

	if len(r.Grid) > 0 {
		fmt.Fprintln(w, "Qualifying:")
		fmt.Fprintln(w, qualifyingTable(r.Grid))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Race:")
	fmt.Fprintln(w, resultsTable(r))

	if r.FastestLap.Competitor != "" {
		fmt.Fprintf(w, "Fastest lap: %s, lap %d, %s\n",
			r.FastestLap.Competitor, r.FastestLap.Lap, core.FormatRaceTime(r.FastestLap.Time))
	}

	if podium := podiumLines(r.Results); len(podium) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Podium:")
		for _, line := range podium {
			fmt.Fprintln(w, "  "+line)
		}
	}

	if incidents := incidentLines(r); len(incidents) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Incidents:")
		for _, line := range incidents {
			fmt.Fprintln(w, "  "+line)
		}
	}

	if laps {
		fmt.Fprintln(w)
		fmt.Fprintln(w, lapChart(r))
	}
}

func weatherLine(w core.Weather) string {
	s := fmt.Sprintf("%s, %.1f°C air, %.1f°C track, %.0f%% humidity, wind %.1f km/h",
		w.Condition, w.Temperature, w.TrackTemperature, w.Humidity, w.WindSpeed)
	if w.Condition != core.ConditionDry {
		s += fmt.Sprintf(", rain %.1f/10", w.RainIntensity)
	}
	return s
}

func outlookLine(p weather.Probabilities) string {
	return fmt.Sprintf("Outlook: dry %.0f%%, wet %.0f%%, mixed %.0f%%", p.Dry*100, p.Wet*100, p.Mixed*100)
}

// qualifyingTable lists the grid with each time's deficit to pole.
func qualifyingTable(grid []core.GridSlot) *table.Table {
	pole := grid[0].Time
	rows := make([][]string, 0, len(grid))
	for _, s := range grid {
		delta := ""
		if s.Position > 1 {
			delta = fmt.Sprintf("+%.3fs", s.Time-pole)
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Position),
			strconv.Itoa(s.Number),
			s.Competitor,
			s.Constructor,
			core.FormatRaceTime(s.Time),
			delta,
		})
	}
	return newTable("Pos", "No", "Driver", "Team", "Time", "Gap").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 && col == 2 {
				return stylePurple
			}
			return plainStyle(row, col)
		})
}

// podiumLines names the top three classified finishers.
func podiumLines(results []core.Result) []string {
	places := []string{"1st", "2nd", "3rd"}
	var out []string
	for _, res := range results {
		if len(out) == len(places) || !res.Finished() {
			break
		}
		out = append(out, fmt.Sprintf("%s  %s (%s)", places[len(out)], res.Competitor, res.Constructor))
	}
	return out
}

func resultsTable(r *core.Race) *table.Table {
	winner, hasWinner := r.Winner()
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, []string{
			strconv.Itoa(res.Position),
			strconv.Itoa(res.Number),
			res.Competitor,
			res.Constructor,
			strconv.Itoa(res.Grid),
			gap(res, winner, hasWinner),
			strconv.Itoa(res.Points),
		})
	}

	return newTable("Pos", "No", "Driver", "Team", "Grid", "Time", "Pts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case row < 0 || row >= len(r.Results):
				return styleCell
			}
			res := r.Results[row]
			switch {
			case !res.Finished():
				return styleRetired
			case res.FastestLap && col == 2:
				return stylePurple
			}
			return styleCell
		})
}

func gap(res, winner core.Result, hasWinner bool) string {
	switch {
	case !res.Finished():
		return string(res.Status)
	case hasWinner && res.Position == 1:
		return core.FormatRaceTime(res.Time)
	case hasWinner:
		return fmt.Sprintf("+%.3fs", res.Time-winner.Time)
	}
	return core.FormatRaceTime(res.Time)
}

func incidentLines(r *core.Race) []string {
	var out []string
	for _, res := range r.Results {
		if res.Incident == core.IncidentNone {
			continue
		}
		line := fmt.Sprintf("%s (%s)", res.IncidentDescription, strings.ReplaceAll(res.Incident.String(), "_", " "))
		if res.LapsCompleted > 0 {
			line += fmt.Sprintf(" after %d laps", res.LapsCompleted)
		}
		out = append(out, line)
	}
	return out
}

// lapChart lists the leader and the fastest time of every lap.
func lapChart(r *core.Race) *table.Table {
	type lapSummary struct {
		leader  string
		fastest float64
		by      string
	}
	summary := make([]lapSummary, r.Circuit.Laps+1)
	for _, l := range r.Laps {
		if l.Lap <= 0 || l.Lap >= len(summary) {
			continue
		}
		s := &summary[l.Lap]
		if l.Position == 1 {
			s.leader = l.Competitor
		}
		if s.by == "" || l.Time < s.fastest {
			s.fastest, s.by = l.Time, l.Competitor
		}
	}

	rows := make([][]string, 0, r.Circuit.Laps)
	for lap := 1; lap < len(summary); lap++ {
		s := summary[lap]
		if s.by == "" {
			continue
		}
		rows = append(rows, []string{strconv.Itoa(lap), s.leader, core.FormatRaceTime(s.fastest), s.by})
	}
	return newTable("Lap", "Leader", "Fastest", "Set by").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
}

func renderStandings(w io.Writer, season *weekend.SeasonReport) {
	fmt.Fprintln(w, styleH1.Render(fmt.Sprintf("Championship after %d rounds", len(season.Reports))))

	drivers := make([][]string, 0, len(season.Standings))
	for i, s := range season.Standings {
		drivers = append(drivers, []string{
			strconv.Itoa(i + 1), s.Competitor, s.Constructor,
			strconv.Itoa(s.Points), strconv.Itoa(s.Wins), strconv.Itoa(s.Podiums),
		})
	}
	fmt.Fprintln(w, newTable("Pos", "Driver", "Team", "Pts", "Wins", "Podiums").
		Rows(drivers...).
		StyleFunc(plainStyle))

	teams := make([][]string, 0, len(season.Constructors))
	for i, s := range season.Constructors {
		teams = append(teams, []string{
			strconv.Itoa(i + 1), s.Constructor,
			strconv.Itoa(s.Points), strconv.Itoa(s.Wins), strconv.Itoa(s.Podiums),
		})
	}
	fmt.Fprintln(w, newTable("Pos", "Team", "Pts", "Wins", "Podiums").
		Rows(teams...).
		StyleFunc(plainStyle))
}

// renderSeason prints one line per round followed by the tables.
func renderSeason(w io.Writer, season *weekend.SeasonReport) {
	rows := make([][]string, 0, len(season.Reports))
	for _, rep := range season.Reports {
		r := rep.Race
		winner := "-"
		if res, ok := r.Winner(); ok {
			winner = res.Competitor + " (" + res.Constructor + ")"
		}
		retired := 0
		for _, res := range r.Results {
			if !res.Finished() {
				retired++
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Round), r.Circuit.Name, string(r.Weather.Condition), winner, strconv.Itoa(retired),
		})
	}
	fmt.Fprintln(w, newTable("Rd", "Circuit", "Weather", "Winner", "DNF").
		Rows(rows...).
		StyleFunc(plainStyle))
	fmt.Fprintln(w)
	renderStandings(w, season)
}

func plainStyle(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return styleHeader
	}
	return styleCell
}
