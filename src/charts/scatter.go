package charts

import (
	"fmt"
	"image"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
)

const NameScatter = "scatter"

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// Scatter plots one match per point on the selected axis pair, one series per category.
type Scatter struct{}

func NewScatter() *Scatter { return &Scatter{} }

func (c *Scatter) Name() string        { return NameScatter }
func (c *Scatter) Scope() filter.Scope { return filter.ScopeScatter }

func (c *Scatter) Render(s *Surface, rows []dataset.MatchRecord, cfg Config) error {
	s.Clear()
	s.Resize(cfg.size())
	if cfg.XAxis == "" || cfg.YAxis == "" {
		return fmt.Errorf("scatter: axis keys required (x=%q y=%q)", cfg.XAxis, cfg.YAxis)
	}
	xKey, yKey := dataset.ResolveKey(cfg.XAxis), dataset.ResolveKey(cfg.YAxis)

	byCat := map[string][2][]float64{}
	var xs, ys []float64
	for _, r := range rows {
		x, y := r.Value(xKey), r.Value(yKey)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		p := byCat[r.Category]
		p[0] = append(p[0], x)
		p[1] = append(p[1], y)
		byCat[r.Category] = p
		xs = append(xs, x)
		ys = append(ys, y)
	}
	xMin, xMax, okX := extent(xs)
	yMin, yMax, okY := extent(ys)
	if !okX || !okY {
		drawEmpty(s, "No matches with values for these axes.")
		return nil
	}
	xMin, xMax = niceAxisBounds(xMin, xMax)
	yMin, yMax = niceAxisBounds(yMin, yMax)
	s.SetAxes(AxisInfo{Key: xKey, Min: xMin, Max: xMax}, AxisInfo{Key: yKey, Min: yMin, Max: yMax})

	var series []chart.Series
	for _, cat := range filter.Categories(rows) {
		p, ok := byCat[cat]
		if !ok {
			continue
		}
		px, py := p[0], p[1]
		if len(px) == 1 {
			// go-chart needs two values per series to compute its own bounds
			px = []float64{px[0], px[0]}
			py = []float64{py[0], py[0]}
		}
		series = append(series, chart.ContinuousSeries{
			Name: cat, XValues: px, YValues: py, Style: pointStyle(toDrawing(PhaseColor(cat))),
		})
	}
	padBottom := 28
	if cfg.ShowHints {
		padBottom += 18
	}
	title := fmt.Sprintf("%s vs %s", yKey, xKey)
	if cfg.Category != "" && cfg.Category != filterstate.CategoryAll {
		title += " (" + cfg.Category + ")"
	}
	ch := chart.Chart{
		Title:      title,
		Width:      s.W,
		Height:     s.H,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: padBottom}},
		XAxis:      chart.XAxis{Name: xKey, Range: &chart.ContinuousRange{Min: xMin, Max: xMax}, Ticks: goChartTicks(xMin, xMax, 8)},
		YAxis:      chart.YAxis{Name: yKey, Range: &chart.ContinuousRange{Min: yMin, Max: yMax}, Ticks: goChartTicks(yMin, yMax, 6)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	img := renderGoChart("scatter", ch)
	if img == nil {
		s.FillRect("", image.Rect(0, 0, s.W, s.H), colEmpty)
		drawEmpty(s, "Scatter unavailable for this selection.")
		return nil
	}
	s.Image(image.Rect(0, 0, s.W, s.H), img)
	drawHint(s, cfg, "Hint: each dot is a match, coloured by stage.")
	return nil
}
