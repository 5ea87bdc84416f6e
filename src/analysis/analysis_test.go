package analysis

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
)

func rec(id int, t1, t2 string, g1, g2 float64, cat string, d int) dataset.MatchRecord {
	return dataset.MatchRecord{
		ID: id, Team1: t1, Team2: t2, Goals1: g1, Goals2: g2, Category: cat,
		Date: time.Date(2022, 11, d, 0, 0, 0, 0, time.UTC),
		Stats: map[string]float64{
			"possession team1":     50 + float64(id),
			"possession team2":     40 - float64(id),
			"total attempts team1": 10,
			"total attempts team2": math.NaN(),
		},
	}
}

func TestSummarizeTeams(t *testing.T) {
	rows := []dataset.MatchRecord{
		rec(0, "ARGENTINA", "SAUDI ARABIA", 1, 2, "Group C", 22),
		rec(1, "ARGENTINA", "MEXICO", 2, 0, "Group C", 26),
		rec(2, "POLAND", "ARGENTINA", 0, 2, "Group C", 30),
		rec(3, "ARGENTINA", "FRANCE", 3, 3, "Final", 18),
		rec(4, "ARGENTINA", "GHOST", math.NaN(), 1, "Group C", 29),
	}
	sums := SummarizeTeams(rows)
	arg, ok := Find(sums, "ARGENTINA")
	if !ok {
		t.Fatalf("ARGENTINA missing from %+v", sums)
	}
	if arg.Matches != 5 || arg.Wins != 2 || arg.Draws != 1 || arg.Losses != 1 {
		t.Fatalf("W/D/L mismatch: %+v", arg)
	}
	if arg.GoalsFor != 8 || arg.GoalsAgainst != 5 || arg.GoalDiff() != 3 {
		t.Fatalf("goals mismatch: for=%v against=%v", arg.GoalsFor, arg.GoalsAgainst)
	}
	if arg.Group != "C" {
		t.Fatalf("group letter %q", arg.Group)
	}
	// possession as team1 in 0,1,3,4 (50,51,53,54) and team2 in 2 (38) => 246/5
	if got := arg.Averages["possession"]; math.Abs(got-49.2) > 1e-9 {
		t.Fatalf("possession average %v", got)
	}
	// attempts only known on the team1 side (NaN otherwise)
	if got := arg.Averages["total attempts"]; got != 10 {
		t.Fatalf("attempts average %v", got)
	}
	if len(arg.History) != 5 || arg.History[0].Opponent != "FRANCE" || arg.History[0].Result != ResultDraw {
		t.Fatalf("history not sorted by date: %+v", arg.History)
	}
	if ghost := arg.History[3]; ghost.Opponent != "GHOST" || ghost.Result != "" {
		t.Fatalf("unscored match should have no result: %+v", ghost)
	}
	if sums[0].Team != "ARGENTINA" || sums[len(sums)-1].Team != "SAUDI ARABIA" {
		t.Fatalf("summaries not sorted by team")
	}
}

func TestTopTeamsByGoals(t *testing.T) {
	sums := []TeamSummary{{Team: "B", GoalsFor: 3}, {Team: "A", GoalsFor: 3}, {Team: "C", GoalsFor: 9}, {Team: "D"}}
	top := TopTeamsByGoals(sums, 3)
	if len(top) != 3 || top[0].Team != "C" || top[1].Team != "A" || top[2].Team != "B" {
		t.Fatalf("unexpected order %+v", top)
	}
	if sums[0].Team != "B" {
		t.Fatalf("input reordered")
	}
}

func TestMetricRange(t *testing.T) {
	sums := []TeamSummary{
		{Team: "A", Averages: map[string]float64{"passes": 400}},
		{Team: "B", Averages: map[string]float64{"passes": 650}},
		{Team: "C", Averages: map[string]float64{}},
	}
	lo, hi, ok := MetricRange(sums, "passes")
	if !ok || lo != 400 || hi != 650 {
		t.Fatalf("range %v %v %v", lo, hi, ok)
	}
	if _, _, ok := MetricRange(sums, "crosses"); ok {
		t.Fatalf("no team has crosses")
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := Report{Filter: "goals=0..10", Matches: 1, Teams: []TeamSummary{{Team: "A", Wins: 1, Averages: map[string]float64{}}}}
	if err := WriteReport(path, r); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var back Report
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Matches != 1 || len(back.Teams) != 1 || back.Teams[0].Wins != 1 {
		t.Fatalf("unexpected report %+v", back)
	}
}
