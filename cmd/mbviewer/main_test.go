package main

import (
	"strings"
	"testing"

	"github.com/HugoHeilmann/Data-visualisation/src/charts"
)

func TestTruncatePath(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"/data/matches.csv", 60, "/data/matches.csv"},
		{"/very/long/directory/name/that/keeps/going/matches.csv", 20, "/very/...matches.csv"},
		{"/a/some_really_long_file_name.csv", 10, "...some_really_long_file_name.csv"},
	}
	for _, tc := range cases {
		got := truncatePath(tc.in, tc.n)
		if got != tc.want {
			t.Fatalf("truncatePath(%q,%d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestSelectedPanel_NoTabs(t *testing.T) {
	if _, ok := selectedPanel(&uiState{}); ok {
		t.Fatalf("expected no panel without tabs")
	}
}

func TestPanelTitlesCoverRegistry(t *testing.T) {
	for _, name := range charts.Names() {
		if strings.TrimSpace(panelTitles[name]) == "" {
			t.Fatalf("chart %q has no tab title", name)
		}
	}
}

func TestChartSize_HeadlessDefault(t *testing.T) {
	screenshotWidthOverride = 0
	w, h := chartSize(nil)
	if w != 1100 || h != 605 {
		t.Fatalf("chartSize(nil) = %dx%d, want 1100x605", w, h)
	}
}
