package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
)

// TeamMetrics are the per-team statistics averaged per match. Each base name is suffixed
// with " team1"/" team2" in the CSV depending on which side the team played.
var TeamMetrics = []string{
	"possession",
	"number of goals",
	"total attempts",
	"on target attempts",
	"passes",
	"passes completed",
	"conceded",
	"goal preventions",
	"fouls against",
	"defensive pressures applied",
	"attempted line breaks",
	"central channel",
	"left channel",
	"right channel",
}

// Result letters used in match histories.
const (
	ResultWin  = "W"
	ResultDraw = "D"
	ResultLoss = "L"
)

// MatchResult is one line of a team's history.
type MatchResult struct {
	MatchID      int       `json:"match_id"`
	Opponent     string    `json:"opponent"`
	Date         time.Time `json:"date"`
	Category     string    `json:"category"`
	GoalsFor     float64   `json:"goals_for"`
	GoalsAgainst float64   `json:"goals_against"`
	Result       string    `json:"result"`
}

// TeamSummary aggregates every filtered match a team played.
type TeamSummary struct {
	Team         string             `json:"team"`
	Group        string             `json:"group,omitempty"` // letter A-H when seen in a group match
	Matches      int                `json:"matches"`
	Wins         int                `json:"wins"`
	Draws        int                `json:"draws"`
	Losses       int                `json:"losses"`
	GoalsFor     float64            `json:"goals_for"`
	GoalsAgainst float64            `json:"goals_against"`
	Averages     map[string]float64 `json:"averages"` // per-match means of TeamMetrics, NaN-free
	History      []MatchResult      `json:"history"`
}

// GoalDiff is goals for minus goals against.
func (s TeamSummary) GoalDiff() float64 { return s.GoalsFor - s.GoalsAgainst }

// side reads base+" team1" or base+" team2".
func side(r dataset.MatchRecord, base string, first bool) float64 {
	if first {
		return r.Value(base + " team1")
	}
	return r.Value(base + " team2")
}

// SummarizeTeams builds one TeamSummary per team, sorted by name. Rows with a missing
// score still count as played but do not change W/D/L or goal totals.
func SummarizeTeams(rows []dataset.MatchRecord) []TeamSummary {
	type acc struct {
		sum    TeamSummary
		totals map[string]float64
		counts map[string]int
	}
	byTeam := map[string]*acc{}
	get := func(team string) *acc {
		a, ok := byTeam[team]
		if !ok {
			a = &acc{sum: TeamSummary{Team: team}, totals: map[string]float64{}, counts: map[string]int{}}
			byTeam[team] = a
		}
		return a
	}
	for _, r := range rows {
		for _, first := range []bool{true, false} {
			team, opp := r.Team1, r.Team2
			gf, ga := r.Goals1, r.Goals2
			if !first {
				team, opp = opp, team
				gf, ga = ga, gf
			}
			if team == "" {
				continue
			}
			a := get(team)
			a.sum.Matches++
			if l := phase.Letter(r.Category); l != "" && a.sum.Group == "" {
				a.sum.Group = l
			}
			mr := MatchResult{MatchID: r.ID, Opponent: opp, Date: r.Date, Category: r.Category, GoalsFor: gf, GoalsAgainst: ga}
			if !math.IsNaN(gf) && !math.IsNaN(ga) {
				a.sum.GoalsFor += gf
				a.sum.GoalsAgainst += ga
				switch {
				case gf > ga:
					a.sum.Wins++
					mr.Result = ResultWin
				case gf < ga:
					a.sum.Losses++
					mr.Result = ResultLoss
				default:
					a.sum.Draws++
					mr.Result = ResultDraw
				}
			}
			a.sum.History = append(a.sum.History, mr)
			for _, m := range TeamMetrics {
				v := side(r, m, first)
				if math.IsNaN(v) {
					continue
				}
				a.totals[m] += v
				a.counts[m]++
			}
		}
	}
	out := make([]TeamSummary, 0, len(byTeam))
	for _, a := range byTeam {
		a.sum.Averages = make(map[string]float64, len(a.totals))
		for m, total := range a.totals {
			a.sum.Averages[m] = total / float64(a.counts[m])
		}
		sort.SliceStable(a.sum.History, func(i, j int) bool { return a.sum.History[i].Date.Before(a.sum.History[j].Date) })
		out = append(out, a.sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

// Find returns the summary for team.
func Find(sums []TeamSummary, team string) (TeamSummary, bool) {
	for _, s := range sums {
		if s.Team == team {
			return s, true
		}
	}
	return TeamSummary{}, false
}

// TopTeamsByGoals returns the n highest scorers, ties broken by name.
func TopTeamsByGoals(sums []TeamSummary, n int) []TeamSummary {
	out := append([]TeamSummary(nil), sums...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GoalsFor != out[j].GoalsFor {
			return out[i].GoalsFor > out[j].GoalsFor
		}
		return out[i].Team < out[j].Team
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MetricRange returns the min and max average of a metric across teams; ok is false
// when no team has a value.
func MetricRange(sums []TeamSummary, metric string) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, s := range sums {
		v, has := s.Averages[metric]
		if !has {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
		ok = true
	}
	return min, max, ok
}

// Report is the JSON document written by the headless CLI.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Filter      string        `json:"filter"`
	Matches     int           `json:"matches"`
	Teams       []TeamSummary `json:"teams"`
}

// WriteReport writes r as indented JSON.
func WriteReport(path string, r Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
