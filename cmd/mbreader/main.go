package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
)

func main() {
	var file, category, mainPhase, detailPhase string
	var koOnly bool
	flag.StringVar(&file, "file", "data/matches.csv", "Path to the match CSV")
	flag.StringVar(&category, "category", filterstate.CategoryAll, "Optional category filter (exact label)")
	flag.StringVar(&mainPhase, "phase", phase.All, "Phase: all|group|knockout")
	flag.StringVar(&detailPhase, "detail", phase.All, "Detail phase, e.g. \"Group C\" or \"Final\"")
	flag.BoolVar(&koOnly, "ko-only", false, "Only knockout-stage matches")
	flag.Parse()
	if !phase.ValidMain(mainPhase) {
		fmt.Fprintf(os.Stderr, "error: unknown phase %q\n", mainPhase)
		os.Exit(2)
	}
	rows, err := dataset.LoadCSV(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	st := filterstate.Defaults()
	st.Category = category
	st.MainPhase = mainPhase
	st.DetailPhase = phase.ReconcileDetail(mainPhase, detailPhase)
	st.KoOnly = koOnly
	if lo, hi, ok := dataset.GoalsExtent(rows); ok {
		st.GoalsMin, st.GoalsMax = lo, hi
	}
	matched := filter.ApplyScope(rows, st, filter.ScopeTable)
	counts := map[string]int{}
	for _, r := range matched {
		k := r.Category
		if k == "" {
			k = "(none)"
		}
		counts[k]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("Total matches: %d of %d\n", len(matched), len(rows))
	for _, k := range keys {
		fmt.Printf("%s: %d\n", k, counts[k])
	}
}
