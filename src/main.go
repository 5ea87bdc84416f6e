// Match board headless entrypoint.
//
// Applies filter flags through the shared filter store (so the next viewer session starts
// from the same selections), renders every chart panel to PNG and optionally writes a
// per-team JSON report of the filtered matches.
//
// Design notes:
//   - Only flags given explicitly on the command line mutate the store; everything else is
//     restored from the configured preference slot.
//   - Range flags go through the board clamps, so -goals-min above -goals-max is pulled back
//     rather than stored inverted. A pair given together replaces the stored pair.
//   - Dependency direction: main -> board -> charts/filter/filterstate; analysis for the report.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/analysis"
	"github.com/HugoHeilmann/Data-visualisation/src/applog"
	"github.com/HugoHeilmann/Data-visualisation/src/board"
	"github.com/HugoHeilmann/Data-visualisation/src/config"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

const dayLayout = "2006-01-02"

// filterFlags holds the raw filter flag values; set records which ones were given.
type filterFlags struct {
	dateMin, dateMax     string
	goalsMin, goalsMax   int
	category             string
	xAxis, yAxis         string
	bubbleX, bubbleY     string
	mainPhase, detailPhs string
	koOnly               bool
	set                  map[string]bool
}

// apply pushes explicitly given flags into the store via the board. A range given with
// both flags is clamped as a pair; a single flag moves one handle like a slider drag.
func (f filterFlags) apply(b *board.Board) error {
	st := b.Store()
	var dMin, dMax time.Time
	var err error
	if f.set["date-min"] {
		if dMin, err = time.Parse(dayLayout, f.dateMin); err != nil {
			return fmt.Errorf("-date-min: %w", err)
		}
	}
	if f.set["date-max"] {
		if dMax, err = time.Parse(dayLayout, f.dateMax); err != nil {
			return fmt.Errorf("-date-max: %w", err)
		}
	}
	switch {
	case f.set["date-min"] && f.set["date-max"]:
		b.SetDateWindow(dMin, dMax)
	case f.set["date-min"]:
		b.DragDateMin(dMin)
	case f.set["date-max"]:
		b.DragDateMax(dMax)
	}
	switch {
	case f.set["goals-min"] && f.set["goals-max"]:
		b.SetGoalsWindow(f.goalsMin, f.goalsMax)
	case f.set["goals-min"]:
		b.DragGoalsMin(f.goalsMin)
	case f.set["goals-max"]:
		b.DragGoalsMax(f.goalsMax)
	}
	if f.set["category"] {
		st.SetCategory(f.category)
	}
	if f.set["x"] {
		st.SetXAxis(f.xAxis)
	}
	if f.set["y"] {
		st.SetYAxis(f.yAxis)
	}
	if f.set["bubble-x"] {
		st.SetBubbleXAxis(f.bubbleX)
	}
	if f.set["bubble-y"] {
		st.SetBubbleYAxis(f.bubbleY)
	}
	if f.set["phase"] {
		if _, err := b.ChooseMainPhase(strings.ToLower(f.mainPhase)); err != nil {
			return fmt.Errorf("-phase: %w", err)
		}
	}
	if f.set["detail"] {
		if err := b.ChooseDetailPhase(f.detailPhs); err != nil {
			return fmt.Errorf("-detail: %w", err)
		}
	}
	if f.set["ko-only"] {
		st.SetKoOnly(f.koOnly)
	}
	return nil
}

// writePanels encodes every panel surface to <outDir>/<name>.png.
func writePanels(b *board.Board, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create out dir: %w", err)
	}
	n := 0
	for _, p := range b.Panels() {
		var buf bytes.Buffer
		if err := p.Surface.EncodePNG(&buf); err != nil {
			return n, fmt.Errorf("png encode %s: %w", p.Chart.Name(), err)
		}
		outPath := filepath.Join(outDir, p.Chart.Name()+".png")
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return n, fmt.Errorf("write %s: %w", outPath, err)
		}
		applog.Debugf("[main] wrote %s (%d rows)", outPath, p.Rows)
		n++
	}
	return n, nil
}

func run(cfg *config.Config, ff filterFlags, width, height int, hints, reset bool, reportPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slot, err := cfg.Prefs.OpenSlot(ctx)
	if err != nil {
		return fmt.Errorf("open preference slot: %w", err)
	}
	defer slot.Close()

	cache := dataset.NewCache(cfg.Data.Path)
	store, err := filterstate.Open(ctx, slot, cache).WaitUntilReady(ctx)
	if err != nil {
		return err
	}
	rows, err := cache.Load(ctx)
	if err != nil {
		return err
	}
	b, err := board.NewDefault(store, rows)
	if err != nil {
		return err
	}
	if reset {
		store.Reset()
	}
	if err := ff.apply(b); err != nil {
		return err
	}
	st := store.Snapshot()
	applog.Infof("[main] filters: %s", st)

	b.SetSize(width, height)
	b.SetShowHints(hints)
	if err := b.Refresh(); err != nil {
		applog.Warnf("[main] some panels failed: %v", err)
	}
	n, err := writePanels(b, cfg.OutDir)
	if err != nil {
		return err
	}
	fmt.Printf("[main] wrote %d charts to %s\n", n, cfg.OutDir)

	if reportPath != "" {
		filtered := filter.Apply(rows, st)
		r := analysis.Report{
			GeneratedAt: time.Now().UTC(),
			Filter:      st.String(),
			Matches:     len(filtered),
			Teams:       analysis.SummarizeTeams(filtered),
		}
		if err := analysis.WriteReport(reportPath, r); err != nil {
			return err
		}
		fmt.Printf("[main] report: %d matches, %d teams -> %s\n", r.Matches, len(r.Teams), reportPath)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var ff filterFlags
	file := flag.String("file", cfg.Data.Path, "Path to the match CSV")
	outDir := flag.String("out", cfg.OutDir, "Directory the chart PNGs are written to")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	prefsBackend := flag.String("prefs", cfg.Prefs.Backend, "Filter persistence: memory|file|sqlite|postgres|redis")
	prefsTarget := flag.String("prefs-target", cfg.Prefs.Target, "Directory, database path/DSN or redis address for -prefs")
	width := flag.Int("width", 1200, "Chart width in pixels")
	height := flag.Int("height", 660, "Chart height in pixels")
	hints := flag.Bool("hints", false, "Draw hint overlays")
	reset := flag.Bool("reset", false, "Reset persisted filters to defaults before applying flags")
	report := flag.String("report", "", "Path to write a JSON per-team report of the filtered matches (optional)")
	flag.StringVar(&ff.dateMin, "date-min", "", "Earliest match day (YYYY-MM-DD)")
	flag.StringVar(&ff.dateMax, "date-max", "", "Latest match day (YYYY-MM-DD)")
	flag.IntVar(&ff.goalsMin, "goals-min", filterstate.DefaultGoalsMin, "Minimum total goals")
	flag.IntVar(&ff.goalsMax, "goals-max", filterstate.DefaultGoalsMax, "Maximum total goals")
	flag.StringVar(&ff.category, "category", filterstate.CategoryAll, "Category label, or All")
	flag.StringVar(&ff.xAxis, "x", filterstate.DefaultXAxis, "Scatter/table X axis key")
	flag.StringVar(&ff.yAxis, "y", filterstate.DefaultYAxis, "Scatter/table Y axis key")
	flag.StringVar(&ff.bubbleX, "bubble-x", filterstate.DefaultBubbleXAxis, "Bubble X axis column")
	flag.StringVar(&ff.bubbleY, "bubble-y", filterstate.DefaultBubbleYAxis, "Bubble Y axis column")
	flag.StringVar(&ff.mainPhase, "phase", "all", "Phase: all|group|knockout")
	flag.StringVar(&ff.detailPhs, "detail", "all", "Detail phase within -phase, e.g. \"Group C\" or \"Final\"")
	flag.BoolVar(&ff.koOnly, "ko-only", false, "Only knockout-stage matches")
	flag.Parse()

	ff.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { ff.set[f.Name] = true })

	applog.SetLogLevel(*logLevel)
	cfg.Data.Path = *file
	cfg.OutDir = *outDir
	cfg.Prefs.Backend = strings.ToLower(*prefsBackend)
	cfg.Prefs.Target = *prefsTarget
	if cfg.Prefs.Backend == config.BackendFyne {
		// the fyne preference store needs a running app; fall back to the file slot
		cfg.Prefs.Backend = prefstore.BackendFile
	}

	if err := run(cfg, ff, *width, *height, *hints, *reset, *report); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
