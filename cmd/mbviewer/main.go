package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/HugoHeilmann/Data-visualisation/cmd/mbviewer/uihelpers"
	"github.com/HugoHeilmann/Data-visualisation/src/applog"
	"github.com/HugoHeilmann/Data-visualisation/src/board"
	"github.com/HugoHeilmann/Data-visualisation/src/charts"
	"github.com/HugoHeilmann/Data-visualisation/src/config"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

type uiState struct {
	app      fyne.App
	window   fyne.Window
	cfg      *config.Config
	filePath string

	slot    prefstore.Slot
	store   *filterstate.Store
	board   *board.Board
	rows    []dataset.MatchRecord
	loadSeq int // ignores completions of superseded loads

	// syncing is set while widgets are updated from the store so their callbacks stay quiet
	syncing bool

	// widgets
	table       *widget.Table
	tableRows   []dataset.MatchRecord
	statusLabel *widget.Label
	fileLabel   *widget.Label

	dateMinSlider  *widget.Slider
	dateMaxSlider  *widget.Slider
	dateLabel      *widget.Label
	goalsMinSlider *widget.Slider
	goalsMaxSlider *widget.Slider
	goalsLabel     *widget.Label

	categorySelect    *widget.Select
	xAxisSelect       *widget.Select
	yAxisSelect       *widget.Select
	bubbleXSelect     *widget.Select
	bubbleYSelect     *widget.Select
	mainPhaseSelect   *widget.Select
	detailPhaseSelect *widget.Select
	koOnlyChk         *widget.Check

	tabs     *container.AppTabs
	canvases map[string]*canvas.Image

	// chart hints toggle
	showHints bool
}

var panelTitles = map[string]string{
	charts.NameGrid:     "Match Grid",
	charts.NameDonut:    "Possession",
	charts.NameScatter:  "Scatter",
	charts.NameBubble:   "Bubbles",
	charts.NameNetwork:  "Network",
	charts.NameParallel: "Parallel",
	charts.NameTopTeams: "Top Teams",
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var fileFlag, prefsFlag, logLevel, shotsOut string
	var screenshots, shotsHints bool
	flag.StringVar(&fileFlag, "file", "", "Path to the match CSV")
	flag.StringVar(&prefsFlag, "prefs", config.BackendFyne, "Filter persistence: fyne|memory|file|sqlite|postgres|redis")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (default from MATCHBOARD_LOG_LEVEL)")
	flag.BoolVar(&screenshots, "screenshots", false, "Render every chart to PNG and exit without opening a window")
	flag.StringVar(&shotsOut, "screenshots-out", "", "Output directory for -screenshots (default from MATCHBOARD_OUT)")
	flag.BoolVar(&shotsHints, "screenshots-hints", false, "Draw hint overlays in screenshots")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	applog.SetLogLevel(logLevel)

	if screenshots {
		path := fileFlag
		if path == "" {
			path = cfg.Data.Path
		}
		out := shotsOut
		if out == "" {
			out = cfg.OutDir
		}
		if err := RunScreenshotsMode(path, out, shotsHints); err != nil {
			fmt.Fprintf(os.Stderr, "screenshots: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[viewer] screenshots written to %s\n", out)
		return
	}

	a := app.NewWithID("com.matchboard.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Match Board")
	w.Resize(fyne.NewSize(1200, 900))

	state := &uiState{
		app:      a,
		window:   w,
		cfg:      cfg,
		filePath: fileFlag,
		canvases: map[string]*canvas.Image{},
	}
	state.slot = openSlot(state, prefsFlag)
	// Load showHints early so the checkbox reflects it on creation
	state.showHints = a.Preferences().BoolWithFallback("showHints", false)

	// top bar controls
	state.fileLabel = widget.NewLabel(truncatePath(state.filePath, 60))
	state.statusLabel = widget.NewLabel("")
	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	// filter controls; callbacks are assigned once the canvases exist
	state.dateMinSlider = widget.NewSlider(0, 1)
	state.dateMaxSlider = widget.NewSlider(0, 1)
	state.dateLabel = widget.NewLabel("-")
	state.goalsMinSlider = widget.NewSlider(0, 10)
	state.goalsMaxSlider = widget.NewSlider(0, 10)
	state.goalsLabel = widget.NewLabel("-")
	state.categorySelect = widget.NewSelect([]string{filterstate.CategoryAll}, nil)
	state.xAxisSelect = widget.NewSelect(dataset.ScatterAxisKeys(), nil)
	state.yAxisSelect = widget.NewSelect(dataset.ScatterAxisKeys(), nil)
	state.bubbleXSelect = widget.NewSelect(dataset.BubbleAxisKeys(), nil)
	state.bubbleYSelect = widget.NewSelect(dataset.BubbleAxisKeys(), nil)
	state.mainPhaseSelect = widget.NewSelect(phase.MainOptions(), nil)
	state.detailPhaseSelect = widget.NewSelect(phase.DetailOptions(phase.All), nil)
	state.koOnlyChk = widget.NewCheck("KO only", nil)

	// Data table (filtered matches)
	state.table = widget.NewTable(
		func() (int, int) { return len(state.tableRows) + 1, 7 },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) { updateTableCell(state, id, o.(*widget.Label)) },
	)
	applyColumnWidths(state, 1200)

	// chart tabs: one image per registered chart with a tap overlay on top
	items := []*container.TabItem{container.NewTabItem("Matches", state.table)}
	for _, name := range charts.Names() {
		img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(900, 500))
		state.canvases[name] = img
		scroll := container.NewScroll(container.NewStack(img, newTapOverlay(state, name, img)))
		items = append(items, container.NewTabItem(panelTitles[name], scroll))
	}
	state.tabs = container.NewAppTabs(items...)
	state.tabs.SetTabLocation(container.TabLocationTop)
	// persist selected tab on change
	state.tabs.OnSelected = func(ti *container.TabItem) {
		if state.app != nil {
			state.app.Preferences().SetInt("selectedTabIndex", state.tabs.SelectedIndex())
		}
	}

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openFileDialog(state) }),
		widget.NewButton("Reload", func() { loadAll(state) }),
		widget.NewButton("Reset filters", func() { resetFilters(state) }),
		hintsChk,
		widget.NewLabel("File:"), state.fileLabel,
		state.statusLabel,
	)
	ranges := container.NewGridWithColumns(2,
		container.NewBorder(nil, nil, widget.NewLabel("Dates:"), state.dateLabel,
			container.NewGridWithColumns(2, state.dateMinSlider, state.dateMaxSlider)),
		container.NewBorder(nil, nil, widget.NewLabel("Goals:"), state.goalsLabel,
			container.NewGridWithColumns(2, state.goalsMinSlider, state.goalsMaxSlider)),
	)
	selectors := container.NewHBox(
		widget.NewLabel("Category:"), state.categorySelect,
		widget.NewLabel("X:"), state.xAxisSelect,
		widget.NewLabel("Y:"), state.yAxisSelect,
		widget.NewLabel("Bubble X:"), state.bubbleXSelect,
		widget.NewLabel("Bubble Y:"), state.bubbleYSelect,
		widget.NewLabel("Phase:"), state.mainPhaseSelect, state.detailPhaseSelect,
		state.koOnlyChk,
	)
	content := container.NewBorder(container.NewVBox(top, ranges, container.NewHScroll(selectors)), nil, nil, nil, state.tabs)
	w.SetContent(content)

	// Redraw charts on window resize so they scale with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			if state.slot != nil {
				if err := state.slot.Close(); err != nil {
					applog.Warnf("[viewer] close preference slot: %v", err)
				}
			}
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() {
							applyColumnWidths(state, float32(curW))
							redrawCharts(state)
						})
					}
				}
			}
		}()
	}

	wireFilterCallbacks(state)
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawCharts(state)
	}

	// menus, prefs, initial load
	buildMenus(state)
	loadPrefs(state, hintsChk)
	loadAll(state)

	w.ShowAndRun()
}

// openSlot picks where the filter snapshot lives. Fyne preferences are the default;
// any other backend comes from the environment config.
func openSlot(state *uiState, backend string) prefstore.Slot {
	if backend == "" || strings.EqualFold(backend, config.BackendFyne) {
		return prefstore.NewFyne(state.app.Preferences())
	}
	p := state.cfg.Prefs
	p.Backend = strings.ToLower(backend)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slot, err := p.OpenSlot(ctx)
	if err != nil {
		applog.Warnf("[viewer] preference backend %q unavailable (%v); using app preferences", backend, err)
		return prefstore.NewFyne(state.app.Preferences())
	}
	applog.Infof("[viewer] filter state persisted via %s", p.Backend)
	return slot
}

// wireFilterCallbacks connects every filter widget to the store. Each callback mutates
// the store (which persists) and then redraws.
func wireFilterCallbacks(state *uiState) {
	active := func() bool { return !state.syncing && state.board != nil }

	state.dateMinSlider.OnChanged = func(v float64) {
		if !active() {
			return
		}
		if ext := state.store.Extent(); ext.HasDates {
			state.board.DragDateMin(uihelpers.DayAt(ext.DateMin, v))
			syncWidgets(state)
		}
	}
	state.dateMaxSlider.OnChanged = func(v float64) {
		if !active() {
			return
		}
		if ext := state.store.Extent(); ext.HasDates {
			state.board.DragDateMax(uihelpers.DayAt(ext.DateMin, v))
			syncWidgets(state)
		}
	}
	state.goalsMinSlider.OnChanged = func(v float64) {
		if !active() {
			return
		}
		state.board.DragGoalsMin(int(v))
		syncWidgets(state)
	}
	state.goalsMaxSlider.OnChanged = func(v float64) {
		if !active() {
			return
		}
		state.board.DragGoalsMax(int(v))
		syncWidgets(state)
	}
	// sliders render on release; dragging only moves the handles
	for _, s := range []*widget.Slider{state.dateMinSlider, state.dateMaxSlider, state.goalsMinSlider, state.goalsMaxSlider} {
		s.OnChangeEnded = func(float64) {
			if active() {
				redrawCharts(state)
			}
		}
	}

	bindSelect := func(sel *widget.Select, set func(string)) {
		sel.OnChanged = func(v string) {
			if !active() {
				return
			}
			set(v)
			redrawCharts(state)
		}
	}
	bindSelect(state.categorySelect, func(v string) { state.store.SetCategory(v) })
	bindSelect(state.xAxisSelect, func(v string) { state.store.SetXAxis(v) })
	bindSelect(state.yAxisSelect, func(v string) { state.store.SetYAxis(v) })
	bindSelect(state.bubbleXSelect, func(v string) { state.store.SetBubbleXAxis(v) })
	bindSelect(state.bubbleYSelect, func(v string) { state.store.SetBubbleYAxis(v) })
	bindSelect(state.mainPhaseSelect, func(v string) {
		if _, err := state.board.ChooseMainPhase(v); err != nil {
			dialog.ShowError(err, state.window)
		}
		syncWidgets(state)
	})
	bindSelect(state.detailPhaseSelect, func(v string) {
		if err := state.board.ChooseDetailPhase(v); err != nil {
			applog.Warnf("[viewer] %v", err)
			syncWidgets(state)
		}
	})
	state.koOnlyChk.OnChanged = func(b bool) {
		if !active() {
			return
		}
		state.store.SetKoOnly(b)
		redrawCharts(state)
	}

	if c := state.window.Canvas(); c != nil {
		c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
			if ev.Name != fyne.KeyEscape || state.board == nil {
				return
			}
			if name, ok := selectedPanel(state); ok {
				if err := state.board.Dismiss(name); err != nil {
					applog.Warnf("[viewer] dismiss %s: %v", name, err)
				}
			}
		})
	}
}

// syncWidgets copies the store snapshot into the widgets without firing their callbacks.
func syncWidgets(state *uiState) {
	if state.store == nil {
		return
	}
	state.syncing = true
	defer func() { state.syncing = false }()
	st := state.store.Snapshot()
	ext := state.store.Extent()

	if ext.HasDates && st.DateMin != nil && st.DateMax != nil {
		span := float64(uihelpers.DaySpan(ext.DateMin, ext.DateMax))
		for _, s := range []*widget.Slider{state.dateMinSlider, state.dateMaxSlider} {
			s.Min, s.Max, s.Step = 0, span, 1
		}
		state.dateMinSlider.Value = float64(uihelpers.DaySpan(ext.DateMin, *st.DateMin))
		state.dateMaxSlider.Value = float64(uihelpers.DaySpan(ext.DateMin, *st.DateMax))
		state.dateLabel.SetText(st.DateMin.Format("02 Jan") + " – " + st.DateMax.Format("02 Jan 2006"))
	} else {
		state.dateLabel.SetText("no dates")
	}
	lo, hi := filterstate.DefaultGoalsMin, filterstate.DefaultGoalsMax
	if ext.HasGoals {
		lo, hi = ext.GoalsMin, ext.GoalsMax
	}
	for _, s := range []*widget.Slider{state.goalsMinSlider, state.goalsMaxSlider} {
		s.Min, s.Max, s.Step = float64(lo), float64(hi), 1
	}
	state.goalsMinSlider.Value = float64(st.GoalsMin)
	state.goalsMaxSlider.Value = float64(st.GoalsMax)
	state.goalsLabel.SetText(fmt.Sprintf("%d – %d", st.GoalsMin, st.GoalsMax))
	for _, s := range []*widget.Slider{state.dateMinSlider, state.dateMaxSlider, state.goalsMinSlider, state.goalsMaxSlider} {
		s.Refresh()
	}

	state.categorySelect.Options = append([]string{filterstate.CategoryAll}, filter.Categories(state.rows)...)
	setSelected(state.categorySelect, st.Category)
	setSelected(state.xAxisSelect, st.XAxis)
	setSelected(state.yAxisSelect, st.YAxis)
	setSelected(state.bubbleXSelect, st.BubbleXAxis)
	setSelected(state.bubbleYSelect, st.BubbleYAxis)
	setSelected(state.mainPhaseSelect, st.MainPhase)
	state.detailPhaseSelect.Options = phase.DetailOptions(st.MainPhase)
	setSelected(state.detailPhaseSelect, st.DetailPhase)
	state.koOnlyChk.Checked = st.KoOnly
	state.koOnlyChk.Refresh()
}

func setSelected(sel *widget.Select, v string) {
	sel.Selected = v
	sel.Refresh()
}

func resetFilters(state *uiState) {
	if state.store == nil {
		return
	}
	state.store.Reset()
	syncWidgets(state)
	redrawCharts(state)
}

// selectedPanel maps the current tab to its chart; the first tab is the table.
func selectedPanel(state *uiState) (string, bool) {
	if state.tabs == nil {
		return "", false
	}
	idx := state.tabs.SelectedIndex() - 1
	names := charts.Names()
	if idx < 0 || idx >= len(names) {
		return "", false
	}
	return names[idx], true
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() {
			state.filePath = f
			state.fileLabel.SetText(truncatePath(state.filePath, 60))
			savePrefs(state)
			loadAll(state)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)

	fileItems := []*fyne.MenuItem{
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
	}
	for _, name := range charts.Names() {
		name := name
		fileItems = append(fileItems, fyne.NewMenuItem("Export "+panelTitles[name]+"…", func() { exportChartPNG(state, name) }))
	}
	fileItems = append(fileItems, fyne.NewMenuItemSeparator(), fyne.NewMenuItem("Quit", func() { state.window.Close() }))
	fileMenu := fyne.NewMenu("File", fileItems...)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset Filters", func() { resetFilters(state) }),
		fyne.NewMenuItem("Close Detail", func() {
			if name, ok := selectedPanel(state); ok && state.board != nil {
				_ = state.board.Dismiss(name)
			}
		}),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu, viewMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// file open dialog
func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		state.fileLabel.SetText(truncatePath(state.filePath, 60))
		addRecentFile(state, state.filePath)
		savePrefs(state)
		loadAll(state)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	d.Show()
}

// loadAll reads the CSV in the background. The first call opens the store, which restores
// the persisted filters right away; every call resolves range defaults from the same single
// read of the file.
func loadAll(state *uiState) {
	path := state.filePath
	if path == "" && state.cfg != nil {
		path = state.cfg.Data.Path
	}
	if _, err := os.Stat(path); err != nil {
		applog.Warnf("[viewer] no data file at %q: %v", path, err)
		state.statusLabel.SetText("Open a match CSV to begin.")
		return
	}
	state.filePath = path
	state.fileLabel.SetText(truncatePath(path, 60))
	state.loadSeq++
	seq := state.loadSeq
	cache := dataset.NewCache(path)
	// one store per session: later loads re-bootstrap it against the new file
	store := state.store
	if store == nil {
		store = filterstate.Open(context.Background(), state.slot, cache)
		state.store = store
	} else {
		store.Rebootstrap(context.Background(), cache)
	}
	state.statusLabel.SetText("Loading…")
	go func() {
		defer applog.TimeTrack(time.Now(), "viewer load "+filepath.Base(path))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		rows, err := cache.Load(ctx)
		if _, werr := store.WaitUntilReady(ctx); werr != nil && err == nil {
			err = werr
		}
		fyne.Do(func() {
			if seq != state.loadSeq {
				return
			}
			if err != nil {
				state.statusLabel.SetText("Load failed.")
				dialog.ShowError(err, state.window)
				return
			}
			b, berr := board.NewDefault(store, rows)
			if berr != nil {
				dialog.ShowError(berr, state.window)
				return
			}
			b.OnRender(func(p *board.Panel) { showPanel(state, p) })
			state.board, state.rows = b, rows
			addRecentFile(state, path)
			buildMenus(state)
			applog.Infof("[viewer] loaded %d matches from %s", len(rows), path)
			syncWidgets(state)
			redrawCharts(state)
		})
	}()
}

func redrawCharts(state *uiState) {
	if state == nil || state.board == nil {
		return
	}
	w, h := chartSize(state)
	state.board.SetSize(w, h)
	state.board.SetShowHints(state.showHints)
	if err := state.board.Refresh(); err != nil {
		applog.Warnf("[viewer] refresh: %v", err)
	}
	st := state.store.Snapshot()
	state.tableRows = filter.ApplyScope(state.rows, st, filter.ScopeTable)
	if state.table != nil {
		state.table.Refresh()
	}
	state.statusLabel.SetText(fmt.Sprintf("%d of %d matches", len(state.tableRows), len(state.rows)))
}

// showPanel swaps the panel's raster into its canvas.
func showPanel(state *uiState, p *board.Panel) {
	c, ok := state.canvases[p.Chart.Name()]
	if !ok {
		return
	}
	c.Image = p.Surface.Raster()
	c.SetMinSize(fyne.NewSize(float32(p.Surface.W), float32(p.Surface.H)))
	c.Refresh()
}

// chartSize computes a chart size based on the current window width so charts use more X-axis space.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		if screenshotWidthOverride > 0 {
			return uihelpers.ComputeChartDimensions(screenshotWidthOverride)
		}
		return uihelpers.ComputeChartDimensions(1100)
	}
	sz := state.window.Canvas().Size()
	// Use ~95% of the available width, minus a small margin for scrollbars/padding
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.95) - 12)
}

func applyColumnWidths(state *uiState, winW float32) {
	if state.table == nil {
		return
	}
	for i, w := range uihelpers.ComputeTableColumnWidths(winW) {
		state.table.SetColumnWidth(i, float32(w))
	}
}

func updateTableCell(state *uiState, id widget.TableCellID, lbl *widget.Label) {
	var xKey, yKey string
	if state.store != nil {
		st := state.store.Snapshot()
		xKey, yKey = st.XAxis, st.YAxis
	}
	if id.Row == 0 {
		headers := []string{"Date", "Team 1", "Team 2", "Score", "Category", xKey, yKey}
		lbl.SetText(headers[id.Col])
		lbl.TextStyle = fyne.TextStyle{Bold: true}
		return
	}
	lbl.TextStyle = fyne.TextStyle{}
	rix := id.Row - 1
	if rix < 0 || rix >= len(state.tableRows) {
		lbl.SetText("")
		return
	}
	m := state.tableRows[rix]
	switch id.Col {
	case 0:
		if m.HasDate() {
			lbl.SetText(m.Date.Format("02 Jan 2006"))
		} else {
			lbl.SetText("-")
		}
	case 1:
		lbl.SetText(m.Team1)
	case 2:
		lbl.SetText(m.Team2)
	case 3:
		lbl.SetText(uihelpers.FormatNumericTick(m.Goals1) + " - " + uihelpers.FormatNumericTick(m.Goals2))
	case 4:
		lbl.SetText(m.Category)
	case 5:
		lbl.SetText(uihelpers.FormatNumericTick(m.Value(xKey)))
	case 6:
		lbl.SetText(uihelpers.FormatNumericTick(m.Value(yKey)))
	}
}

// export PNG
func exportChartPNG(state *uiState, name string) {
	if state == nil || state.window == nil {
		return
	}
	var p *board.Panel
	if state.board != nil {
		p, _ = state.board.Panel(name)
	}
	if p == nil || p.Surface.Len() == 0 {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := p.Surface.EncodePNG(wc); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(name + "_chart.png")
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	prefs := state.app.Preferences()
	raw := prefs.StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}
func addRecentFile(state *uiState, path string) {
	prefs := state.app.Preferences()
	list := recentFiles(state)
	filtered := []string{path}
	for _, f := range list {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
}
func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs holds viewer-only settings; filter selections live in the filter store.
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetBool("showHints", state.showHints)
}

func loadPrefs(state *uiState, hints *widget.Check) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if state.filePath == "" {
		if f := prefs.StringWithFallback("lastFile", ""); f != "" {
			state.filePath = f
			state.fileLabel.SetText(truncatePath(state.filePath, 60))
		}
	}
	state.showHints = prefs.BoolWithFallback("showHints", state.showHints)
	if hints != nil {
		hints.SetChecked(state.showHints)
	}
	if state.tabs != nil {
		idx := prefs.IntWithFallback("selectedTabIndex", 0)
		if idx >= 0 && idx < len(state.tabs.Items) {
			state.tabs.SelectIndex(idx)
		}
	}
}

// utils
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
