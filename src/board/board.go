// Package board wires the filter store to a set of chart panels. Every refresh reads a
// fresh snapshot, narrows the rows per panel scope and re-renders.
package board

import (
	"errors"
	"fmt"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/applog"
	"github.com/HugoHeilmann/Data-visualisation/src/charts"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
)

// Panel is one chart and the surface it renders into.
type Panel struct {
	Chart   charts.Chart
	Surface *charts.Surface
	Rows    int   // rows drawn on the last render
	Err     error // last render error
}

// Board owns the panels of one page.
type Board struct {
	store     *filterstate.Store
	rows      []dataset.MatchRecord
	panels    []*Panel
	byName    map[string]*Panel
	width     int
	height    int
	showHints bool
	onRender  func(p *Panel)
}

// New builds a board over the loaded rows. Panels keep the order given.
func New(store *filterstate.Store, rows []dataset.MatchRecord, panels ...charts.Chart) *Board {
	b := &Board{store: store, rows: rows, byName: map[string]*Panel{}}
	for _, c := range panels {
		p := &Panel{Chart: c, Surface: charts.NewSurface(0, 0)}
		b.panels = append(b.panels, p)
		b.byName[c.Name()] = p
	}
	return b
}

// NewDefault builds a board with every registered chart.
func NewDefault(store *filterstate.Store, rows []dataset.MatchRecord) (*Board, error) {
	var cs []charts.Chart
	for _, n := range charts.Names() {
		c, err := charts.New(n)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return New(store, rows, cs...), nil
}

func (b *Board) Store() *filterstate.Store { return b.store }

// SetSize sets the render size used by the next refresh; zero keeps the chart default.
func (b *Board) SetSize(w, h int) { b.width, b.height = w, h }

func (b *Board) SetShowHints(v bool) { b.showHints = v }

// OnRender registers a callback invoked after each panel render.
func (b *Board) OnRender(fn func(p *Panel)) { b.onRender = fn }

func (b *Board) Panels() []*Panel { return b.panels }

func (b *Board) Panel(name string) (*Panel, bool) {
	p, ok := b.byName[name]
	return p, ok
}

// Rows returns the full, unfiltered table.
func (b *Board) Rows() []dataset.MatchRecord { return b.rows }

// Refresh re-renders every panel from a fresh snapshot. Panel errors are logged,
// kept on the panel and joined into the result.
func (b *Board) Refresh() error {
	defer applog.TimeTrack(time.Now(), "board refresh")
	st := b.reconcilePhase()
	var errs []error
	for _, p := range b.panels {
		if err := b.render(p, st); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshPanel re-renders a single panel.
func (b *Board) RefreshPanel(name string) error {
	p, ok := b.byName[name]
	if !ok {
		return fmt.Errorf("unknown panel %q", name)
	}
	return b.render(p, b.reconcilePhase())
}

// reconcilePhase repairs a phase pair that direct store writes left inconsistent and
// returns the snapshot to render from. Repairs go through the setters so they persist.
func (b *Board) reconcilePhase() filterstate.State {
	st := b.store.Snapshot()
	fixed := st
	if !filterstate.NormalizePhase(&fixed) {
		return st
	}
	if fixed.MainPhase != st.MainPhase {
		b.store.SetMainPhase(fixed.MainPhase)
	}
	if fixed.DetailPhase != st.DetailPhase {
		b.store.SetDetailPhase(fixed.DetailPhase)
	}
	return b.store.Snapshot()
}

func (b *Board) render(p *Panel, st filterstate.State) error {
	rows := filter.ApplyScope(b.rows, st, p.Chart.Scope())
	cfg := charts.NewConfig(st, b.width, b.height)
	cfg.ShowHints = b.showHints
	p.Rows = len(rows)
	p.Err = p.Chart.Render(p.Surface, rows, cfg)
	if p.Err != nil {
		applog.Warnf("[board] %s render: %v", p.Chart.Name(), p.Err)
		p.Err = fmt.Errorf("%s: %w", p.Chart.Name(), p.Err)
	}
	applog.Debugf("[board] %s rendered %d rows, %d elements", p.Chart.Name(), len(rows), p.Surface.Len())
	if b.onRender != nil {
		b.onRender(p)
	}
	return p.Err
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateBounds returns the current selection, falling back to the dataset extent.
func (b *Board) dateBounds() (lo, hi *time.Time, ext filterstate.Extent) {
	st := b.store.Snapshot()
	ext = b.store.Extent()
	lo, hi = st.DateMin, st.DateMax
	if lo == nil && ext.HasDates {
		v := ext.DateMin
		lo = &v
	}
	if hi == nil && ext.HasDates {
		v := ext.DateMax
		hi = &v
	}
	return lo, hi, ext
}

// DragDateMin moves the lower date handle. The value is clamped to the dataset extent
// and never passes the upper handle.
func (b *Board) DragDateMin(t time.Time) time.Time {
	t = day(t)
	_, hi, ext := b.dateBounds()
	if ext.HasDates && t.Before(day(ext.DateMin)) {
		t = day(ext.DateMin)
	}
	upper := t
	if hi != nil {
		upper = day(*hi)
	}
	if t.After(upper) {
		t = upper
	}
	b.store.SetDateRange(t, upper)
	return t
}

// DragDateMax moves the upper date handle, clamped like DragDateMin.
func (b *Board) DragDateMax(t time.Time) time.Time {
	t = day(t)
	lo, _, ext := b.dateBounds()
	if ext.HasDates && t.After(day(ext.DateMax)) {
		t = day(ext.DateMax)
	}
	lower := t
	if lo != nil {
		lower = day(*lo)
	}
	if t.Before(lower) {
		t = lower
	}
	b.store.SetDateRange(lower, t)
	return t
}

func (b *Board) goalsLimits() (lo, hi int) {
	ext := b.store.Extent()
	if ext.HasGoals {
		return ext.GoalsMin, ext.GoalsMax
	}
	return filterstate.DefaultGoalsMin, filterstate.DefaultGoalsMax
}

// SetGoalsWindow stores both goal bounds at once. Each is clamped to the dataset
// extent (or the 0..10 fallback); a lower bound above the upper one stops at it.
func (b *Board) SetGoalsWindow(min, max int) (int, int) {
	lo, hi := b.goalsLimits()
	min = clampInt(min, lo, hi)
	max = clampInt(max, lo, hi)
	if min > max {
		min = max
	}
	b.store.SetGoalsRange(min, max)
	return min, max
}

// SetDateWindow stores both date bounds at once, clamped like SetGoalsWindow.
func (b *Board) SetDateWindow(min, max time.Time) (time.Time, time.Time) {
	min, max = day(min), day(max)
	if ext := b.store.Extent(); ext.HasDates {
		lo, hi := day(ext.DateMin), day(ext.DateMax)
		min, max = clampDay(min, lo, hi), clampDay(max, lo, hi)
	}
	if min.After(max) {
		min = max
	}
	b.store.SetDateRange(min, max)
	return min, max
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDay(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

// DragGoalsMin moves the lower total-goals handle; it stops at the upper handle.
func (b *Board) DragGoalsMin(v int) int {
	st := b.store.Snapshot()
	lo, _ := b.goalsLimits()
	if v < lo {
		v = lo
	}
	if v > st.GoalsMax {
		v = st.GoalsMax
	}
	b.store.SetGoalsRange(v, st.GoalsMax)
	return v
}

// DragGoalsMax moves the upper total-goals handle; it stops at the lower handle.
func (b *Board) DragGoalsMax(v int) int {
	st := b.store.Snapshot()
	_, hi := b.goalsLimits()
	if v > hi {
		v = hi
	}
	if v < st.GoalsMin {
		v = st.GoalsMin
	}
	b.store.SetGoalsRange(st.GoalsMin, v)
	return v
}

// ChooseMainPhase stores the coarse phase and resets the fine phase to all when the
// new option list no longer offers it. It returns the rebuilt option list.
func (b *Board) ChooseMainPhase(main string) ([]string, error) {
	if !phase.ValidMain(main) {
		return nil, fmt.Errorf("unknown phase %q (want %v)", main, phase.MainOptions())
	}
	st := b.store.Snapshot()
	b.store.SetMainPhase(main)
	if d := phase.ReconcileDetail(main, st.DetailPhase); d != st.DetailPhase {
		applog.Debugf("[board] detail phase %q reset to %q for %q", st.DetailPhase, d, main)
		b.store.SetDetailPhase(d)
	}
	return phase.DetailOptions(main), nil
}

// ChooseDetailPhase stores the fine phase if the current coarse phase offers it.
func (b *Board) ChooseDetailPhase(detail string) error {
	main := b.store.Snapshot().MainPhase
	d := phase.ReconcileDetail(main, detail)
	if d != detail && detail != phase.All {
		return fmt.Errorf("phase %q not offered under %q", detail, main)
	}
	b.store.SetDetailPhase(d)
	return nil
}

// DetailOptions lists the fine phases for the stored coarse phase.
func (b *Board) DetailOptions() []string {
	return phase.DetailOptions(b.store.Snapshot().MainPhase)
}

// Activate routes a pointer activation at (x, y) to the named panel and re-renders it
// when its detail state changed.
func (b *Board) Activate(name string, x, y float64) (bool, error) {
	p, ok := b.byName[name]
	if !ok {
		return false, fmt.Errorf("unknown panel %q", name)
	}
	if !charts.Click(p.Chart, p.Surface, x, y) {
		return false, nil
	}
	return true, b.RefreshPanel(name)
}

// Dismiss closes the named panel's detail view.
func (b *Board) Dismiss(name string) error {
	p, ok := b.byName[name]
	if !ok {
		return fmt.Errorf("unknown panel %q", name)
	}
	ic, ok := p.Chart.(charts.Interactive)
	if !ok || ic.Detail().State() != charts.DetailOpen {
		return nil
	}
	ic.Detail().Dismiss()
	return b.RefreshPanel(name)
}
