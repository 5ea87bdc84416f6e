// Package dataset loads the World Cup match table and exposes one read-only MatchRecord per row.
package dataset

import (
	"math"
	"sort"
	"time"
)

// Column names used by the loader and the charts. Statistic columns are kept verbatim
// (including the double space some exports carry) so axis keys match the CSV header.
const (
	ColTeam1     = "team1"
	ColTeam2     = "team2"
	ColDate      = "date"
	ColCategory  = "category"
	ColGoals1    = "number of goals team1"
	ColGoals2    = "number of goals team2"
	ColPoss1     = "possession team1"
	ColPoss2     = "possession team2"
	ColPossCont  = "possession in contest"
	ColAttempts1 = "total attempts team1"
	ColAttempts2 = "total attempts team2"
	ColOnTarget1 = "on target attempts team1"
	ColOnTarget2 = "on target attempts team2"
	ColInside1   = "attempts inside the penalty area team1"
	ColInside2   = "attempts inside the penalty area team2"
	ColOutside1  = "attempts outside the penalty area team1"
	ColOutside2  = "attempts outside the penalty area team2"
)

// KeyTotalGoals is the derived per-match total; accepted anywhere an axis key is.
const KeyTotalGoals = "totalGoals"

// StatColumns lists the numeric columns offered as axis choices.
var StatColumns = []string{
	ColGoals1, ColGoals2,
	ColPoss1, ColPoss2, ColPossCont,
	ColAttempts1, ColAttempts2,
	ColOnTarget1, ColOnTarget2,
	ColInside1, ColInside2, ColOutside1, ColOutside2,
	"goal inside the penalty area team1", "goal inside the penalty area team2",
	"goal outside the penalty area team1", "goal outside the penalty area team2",
	"passes team1", "passes team2",
	"passes completed team1", "passes completed team2",
	"yellow cards team1", "yellow cards team2",
	"red cards team1", "red cards team2",
	"fouls against team1", "fouls against team2",
	"conceded team1", "conceded team2",
	"goal preventions team1", "goal preventions team2",
	"defensive pressures applied team1", "defensive pressures applied team2",
	"attempted line breaks team1", "attempted line breaks team2",
	"crosses team1", "crosses team2",
	"corners team1", "corners team2",
	"central channel team1", "central channel team2",
	"left channel team1", "left channel team2",
	"right channel team1", "right channel team2",
	"receptions between midfield and defensive lines team1", "receptions between midfield and defensive lines team2",
}

// axisAliases maps the compact scatter keys onto CSV columns.
var axisAliases = map[string]string{
	"goals_team1":            ColGoals1,
	"goals_team2":            ColGoals2,
	"possession_team1":       ColPoss1,
	"possession_team2":       ColPoss2,
	"possession_in_contest":  ColPossCont,
	"attempts_team1":         ColAttempts1,
	"attempts_team2":         ColAttempts2,
	"on_target_team1":        ColOnTarget1,
	"on_target_team2":        ColOnTarget2,
	"passes_team1":           "passes team1",
	"passes_team2":           "passes team2",
	"passes_completed_team1": "passes completed team1",
	"passes_completed_team2": "passes completed team2",
	"yellow_cards_team1":     "yellow cards team1",
	"yellow_cards_team2":     "yellow cards team2",
	"red_cards_team1":        "red cards team1",
	"red_cards_team2":        "red cards team2",
	"total_goals":            KeyTotalGoals,
}

// ScatterAxisKeys returns the compact keys offered by the scatter/table axis selectors.
func ScatterAxisKeys() []string {
	out := make([]string, 0, len(axisAliases))
	for k := range axisAliases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BubbleAxisKeys returns the raw column keys offered by the bubble axis selectors.
func BubbleAxisKeys() []string {
	out := []string{KeyTotalGoals}
	return append(out, StatColumns...)
}

// ResolveKey maps an alias to its CSV column; unknown keys are returned unchanged.
func ResolveKey(key string) string {
	if col, ok := axisAliases[key]; ok {
		return col
	}
	return key
}

// MatchRecord is one parsed CSV row. Immutable after load.
type MatchRecord struct {
	ID       int
	Team1    string
	Team2    string
	Date     time.Time // zero when the source value could not be parsed
	Category string
	Goals1   float64 // NaN when unparseable
	Goals2   float64
	Stats    map[string]float64
}

// TotalGoals is Goals1+Goals2; NaN when either side is missing.
func (m MatchRecord) TotalGoals() float64 {
	return m.Goals1 + m.Goals2
}

// HasDate reports whether the row carries a usable calendar date.
func (m MatchRecord) HasDate() bool { return !m.Date.IsZero() }

// Value returns the statistic behind an axis key, or NaN.
func (m MatchRecord) Value(key string) float64 {
	col := ResolveKey(key)
	switch col {
	case KeyTotalGoals:
		return m.TotalGoals()
	case ColGoals1:
		return m.Goals1
	case ColGoals2:
		return m.Goals2
	}
	if v, ok := m.Stats[col]; ok {
		return v
	}
	return math.NaN()
}

// Label is the "Team1 vs Team2" caption used in tooltips and detail panels.
func (m MatchRecord) Label() string { return m.Team1 + " vs " + m.Team2 }

// Teams returns the distinct team names in first-seen order.
func Teams(rows []MatchRecord) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rows {
		for _, t := range [2]string{r.Team1, r.Team2} {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
