package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/applog"
	"github.com/HugoHeilmann/Data-visualisation/src/board"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

// screenshotWidthOverride pins the headless chart width; zero uses the default.
var screenshotWidthOverride int

// RunScreenshotsMode renders every registered chart with default filters and writes
// <name>.png files under outDir. It runs headlessly without creating a UI window.
func RunScreenshotsMode(filePath, outDir string, showHints bool) error {
	if filePath == "" {
		filePath = "data/matches.csv"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cache := dataset.NewCache(filePath)
	rows, err := cache.Load(ctx)
	if err != nil {
		return err
	}
	store, err := filterstate.Open(ctx, prefstore.NewMemory(), cache).WaitUntilReady(ctx)
	if err != nil {
		return err
	}
	b, err := board.NewDefault(store, rows)
	if err != nil {
		return err
	}
	w, h := chartSize(nil)
	b.SetSize(w, h)
	b.SetShowHints(showHints)
	if err := b.Refresh(); err != nil {
		// A panel that failed still has its placeholder; write what rendered.
		applog.Warnf("[viewer] screenshots: %v", err)
	}

	for _, p := range b.Panels() {
		var buf bytes.Buffer
		if err := p.Surface.EncodePNG(&buf); err != nil {
			return fmt.Errorf("png encode %s: %w", p.Chart.Name(), err)
		}
		outPath := filepath.Join(outDir, p.Chart.Name()+".png")
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
	}
	return nil
}
