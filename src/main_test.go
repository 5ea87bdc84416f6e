package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoHeilmann/Data-visualisation/src/analysis"
	"github.com/HugoHeilmann/Data-visualisation/src/charts"
	"github.com/HugoHeilmann/Data-visualisation/src/config"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

const cliCSV = `team1,team2,possession team1,possession team2,possession in contest,number of goals team1,number of goals team2,date,category
QATAR,ECUADOR,42%,50%,8%,0,2,20 NOV 2022,Group A
ENGLAND,IRAN,72%,19%,9%,6,2,21 NOV 2022,Group B
MOROCCO,PORTUGAL,27%,64%,9%,1,0,10 DEC 2022,Quarter-final
ARGENTINA,FRANCE,46%,40%,14%,3,3,18 DEC 2022,Final
`

func testCLIConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "matches.csv")
	if err := os.WriteFile(data, []byte(cliCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return &config.Config{
		Data:     config.DataConfig{Path: data},
		Prefs:    config.PrefsConfig{Backend: prefstore.BackendFile, Target: filepath.Join(dir, "prefs")},
		LogLevel: "error",
		OutDir:   filepath.Join(dir, "out"),
	}
}

// persisted reads back the snapshot the CLI left in the file slot.
func persisted(t *testing.T, cfg *config.Config) filterstate.State {
	t.Helper()
	raw, err := prefstore.NewFile(cfg.Prefs.Target).Get(context.Background(), filterstate.StorageKey)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	st, err := filterstate.Unmarshal([]byte(raw))
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return st
}

func TestRun_WritesChartsAndReport(t *testing.T) {
	cfg := testCLIConfig(t)
	ff := filterFlags{mainPhase: "knockout", detailPhs: "Final", set: map[string]bool{"phase": true, "detail": true}}
	reportPath := filepath.Join(t.TempDir(), "report.json")
	if err := run(cfg, ff, 900, 500, false, false, reportPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range charts.Names() {
		if _, err := os.Stat(filepath.Join(cfg.OutDir, name+".png")); err != nil {
			t.Fatalf("missing %s.png: %v", name, err)
		}
	}
	b, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var r analysis.Report
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if r.Matches != 1 || len(r.Teams) != 2 {
		t.Fatalf("expected the final only, got %d matches %d teams", r.Matches, len(r.Teams))
	}
	st := persisted(t, cfg)
	if st.MainPhase != phase.Knockout || st.DetailPhase != "Final" {
		t.Fatalf("phase not persisted: %s", st)
	}
}

func TestRun_ClampsGoalFlagsAndKeepsThem(t *testing.T) {
	cfg := testCLIConfig(t)
	ff := filterFlags{goalsMin: 9, goalsMax: 7, set: map[string]bool{"goals-min": true, "goals-max": true}}
	if err := run(cfg, ff, 800, 440, false, false, ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	st := persisted(t, cfg)
	if st.GoalsMin != 7 || st.GoalsMax != 7 {
		t.Fatalf("want clamped 7..7, got %d..%d", st.GoalsMin, st.GoalsMax)
	}
	// a second run without flags keeps the stored range
	if err := run(cfg, filterFlags{set: map[string]bool{}}, 800, 440, false, false, ""); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if st := persisted(t, cfg); st.GoalsMin != 7 || st.GoalsMax != 7 {
		t.Fatalf("range lost on second run: %d..%d", st.GoalsMin, st.GoalsMax)
	}
	// -reset restores the dataset extent
	if err := run(cfg, filterFlags{set: map[string]bool{}}, 800, 440, false, true, ""); err != nil {
		t.Fatalf("reset run: %v", err)
	}
	if st := persisted(t, cfg); st.GoalsMin != 1 || st.GoalsMax != 8 {
		t.Fatalf("reset: want 1..8, got %d..%d", st.GoalsMin, st.GoalsMax)
	}
}

func TestFilterFlags_BadInput(t *testing.T) {
	cfg := testCLIConfig(t)
	cases := []filterFlags{
		{dateMin: "20/11/2022", set: map[string]bool{"date-min": true}},
		{mainPhase: "groups", set: map[string]bool{"phase": true}},
		{detailPhs: "Final", set: map[string]bool{"detail": true}},
	}
	for i, ff := range cases {
		if err := run(cfg, ff, 800, 440, false, false, ""); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestRun_RangePairReplacesDisjointStoredRange(t *testing.T) {
	cfg := testCLIConfig(t)
	first := filterFlags{
		goalsMin: 5, goalsMax: 8, dateMin: "2022-11-20", dateMax: "2022-11-21",
		set: map[string]bool{"goals-min": true, "goals-max": true, "date-min": true, "date-max": true},
	}
	if err := run(cfg, first, 800, 440, false, false, ""); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second := filterFlags{
		goalsMin: 1, goalsMax: 3, dateMin: "2022-12-10", dateMax: "2022-12-18",
		set: map[string]bool{"goals-min": true, "goals-max": true, "date-min": true, "date-max": true},
	}
	if err := run(cfg, second, 800, 440, false, false, ""); err != nil {
		t.Fatalf("second run: %v", err)
	}
	st := persisted(t, cfg)
	if st.GoalsMin != 1 || st.GoalsMax != 3 {
		t.Fatalf("goals %d..%d, want 1..3", st.GoalsMin, st.GoalsMax)
	}
	if got := st.DateMin.Format(dayLayout) + ".." + st.DateMax.Format(dayLayout); got != "2022-12-10..2022-12-18" {
		t.Fatalf("dates %s, want 2022-12-10..2022-12-18", got)
	}
}
