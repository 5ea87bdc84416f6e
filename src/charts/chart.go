// Package charts implements the board's visualizations. Every chart renders into a
// Surface: it clears it, recomputes its scales from the rows it is given and redraws.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/HugoHeilmann/Data-visualisation/src/applog"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
)

// Chart is the render contract every visualization implements.
type Chart interface {
	Name() string
	// Scope names the filter predicates this chart honours.
	Scope() filter.Scope
	// Render fully replaces the surface content. rows are already filtered.
	Render(s *Surface, rows []dataset.MatchRecord, cfg Config) error
}

// Config carries the chart-specific parameters of one render.
type Config struct {
	Width, Height int
	XAxis, YAxis  string // scatter/table pair
	BubbleXAxis   string
	BubbleYAxis   string
	MainPhase     string
	DetailPhase   string
	Category      string
	KoOnly        bool
	ShowHints     bool
}

// NewConfig derives a render config from a state snapshot.
func NewConfig(st filterstate.State, w, h int) Config {
	return Config{
		Width: w, Height: h,
		XAxis: st.XAxis, YAxis: st.YAxis,
		BubbleXAxis: st.BubbleXAxis, BubbleYAxis: st.BubbleYAxis,
		MainPhase: st.MainPhase, DetailPhase: st.DetailPhase,
		Category: st.Category, KoOnly: st.KoOnly,
	}
}

func (c Config) size() (int, int) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = 1100
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

// Names lists the registered charts in board order.
func Names() []string {
	return []string{NameGrid, NameDonut, NameScatter, NameBubble, NameNetwork, NameParallel, NameTopTeams}
}

var registry = map[string]func() Chart{
	NameGrid:     func() Chart { return NewMatchGrid() },
	NameDonut:    func() Chart { return NewPossessionDonut() },
	NameScatter:  func() Chart { return NewScatter() },
	NameBubble:   func() Chart { return NewBubble() },
	NameNetwork:  func() Chart { return NewNetwork() },
	NameParallel: func() Chart { return NewParallel() },
	NameTopTeams: func() Chart { return NewTopTeams() },
}

// New returns a fresh chart instance; every instance owns its own detail state.
func New(name string) (Chart, error) {
	f, ok := registry[name]
	if !ok {
		known := Names()
		sort.Strings(known)
		return nil, fmt.Errorf("unknown chart %q (known: %v)", name, known)
	}
	return f(), nil
}

// palette
var (
	colBackground = color.RGBA{R: 18, G: 18, B: 18, A: 255}
	colPanel      = color.RGBA{R: 30, G: 30, B: 30, A: 240}
	colText       = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	colMuted      = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	colAxis       = color.RGBA{R: 241, G: 196, B: 15, A: 255}
	colGridLine   = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	colWin        = color.RGBA{R: 46, G: 204, B: 113, A: 255}
	colLoss       = color.RGBA{R: 231, G: 76, B: 60, A: 255}
	colDraw       = color.RGBA{R: 241, G: 196, B: 15, A: 255}
	colEmpty      = color.RGBA{R: 43, G: 43, B: 43, A: 255}
	colTeam1      = color.RGBA{R: 0, G: 188, B: 188, A: 255}
	colTeam2      = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	colContested  = color.RGBA{R: 123, G: 104, B: 238, A: 255}
	colHighlight  = color.RGBA{R: 56, G: 189, B: 248, A: 255}
)

var phaseColors = map[string]color.RGBA{
	"Group A": {231, 76, 60, 255}, "Group B": {52, 152, 219, 255}, "Group C": {46, 204, 113, 255},
	"Group D": {243, 156, 18, 255}, "Group E": {155, 89, 182, 255}, "Group F": {26, 188, 156, 255},
	"Group G": {230, 126, 34, 255}, "Group H": {52, 73, 94, 255},
	"Round of 16": {233, 30, 99, 255}, "Quarter-final": {255, 87, 34, 255}, "Semi-final": {121, 85, 72, 255},
	"Final": {255, 193, 7, 255}, "Play-off for third place": {96, 125, 139, 255},
}

// PhaseColor returns the category colour, grey for labels outside the catalogue.
func PhaseColor(category string) color.RGBA {
	if c, ok := phase.Canonical(category); ok {
		return phaseColors[c]
	}
	return colMuted
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// linear maps [d0,d1] onto [r0,r1]; a degenerate domain maps to the range midpoint.
func linear(d0, d1, r0, r1 float64) func(float64) float64 {
	if d1 == d0 {
		mid := (r0 + r1) / 2
		return func(float64) float64 { return mid }
	}
	k := (r1 - r0) / (d1 - d0)
	return func(v float64) float64 { return r0 + (v-d0)*k }
}

// RadiusScale is a square-root scale from [0,maxValue] onto [rMin,rMax].
func RadiusScale(maxValue, rMin, rMax float64) func(float64) float64 {
	if maxValue <= 0 || math.IsNaN(maxValue) {
		maxValue = 1
	}
	return func(v float64) float64 {
		if v < 0 || math.IsNaN(v) {
			v = 0
		}
		return rMin + (rMax-rMin)*math.Sqrt(v/maxValue)
	}
}

// extent returns the finite min and max of vals.
func extent(vals []float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
		ok = true
	}
	return min, max, ok
}

// goChart is satisfied by chart.Chart and chart.BarChart.
type goChart interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// renderGoChart rasterizes a go-chart renderable. On error it logs and returns nil so the
// caller can draw its blank fallback.
func renderGoChart(name string, r goChart) image.Image {
	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		applog.Warnf("[charts] %s render error: %v; showing blank fallback", name, err)
		return nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		applog.Warnf("[charts] %s decode error: %v; showing blank fallback", name, err)
		return nil
	}
	return img
}

// drawEmpty renders the "nothing to show" state.
func drawEmpty(s *Surface, msg string) {
	s.Text(float64(s.W)/2, float64(s.H)/2, msg, colMuted, AnchorMiddle)
}

// drawHint puts a short explanation bottom-left, like the viewer's hint overlay.
func drawHint(s *Surface, cfg Config, text string) {
	if !cfg.ShowHints || text == "" {
		return
	}
	w := int(float64(len(text))*7) + 12
	y := s.H - 6
	s.FillRect("", image.Rect(2, y-16, 2+w, y+2), color.RGBA{A: 200})
	s.Text(8, float64(y-3), text, colText, AnchorStart)
}

// drawPanel draws the detail panel frame and title; the caller adds its content inside.
func drawPanel(s *Surface, r image.Rectangle, title string) {
	s.Box("", r, colPanel, colText, 1)
	s.Text(float64(r.Min.X+10), float64(r.Min.Y+18), title, colText, AnchorStart)
}

// panelRect places a w x h panel at the top-right corner, clamped to the surface.
func panelRect(s *Surface, w, h int) image.Rectangle {
	if w > s.W-8 {
		w = s.W - 8
	}
	if h > s.H-8 {
		h = s.H - 8
	}
	x0 := s.W - w - 8
	return image.Rect(x0, 8, x0+w, 8+h)
}

func fmtNum(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func matchKey(id int) string     { return fmt.Sprintf("match:%d", id) }
func teamKey(team string) string { return "team:" + team }
