package charts

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
)

const NameBubble = "bubble"

// Bubble radius bounds in pixels.
const (
	bubbleMinRadius = 20
	bubbleMaxRadius = 50
)

// Bubble places each match on the bubble axis pair. Radius follows total goals on a
// square-root scale; the two halves carry the team colours.
type Bubble struct {
	detail Detail
}

func NewBubble() *Bubble { return &Bubble{} }

func (b *Bubble) Name() string        { return NameBubble }
func (b *Bubble) Scope() filter.Scope { return filter.ScopeBubble }
func (b *Bubble) Detail() *Detail     { return &b.detail }

type bubblePoint struct {
	m    dataset.MatchRecord
	x, y float64
	r    float64
}

func (b *Bubble) Render(s *Surface, rows []dataset.MatchRecord, cfg Config) error {
	s.Clear()
	s.Resize(cfg.size())
	if cfg.BubbleXAxis == "" || cfg.BubbleYAxis == "" {
		return fmt.Errorf("bubble: axis keys required (x=%q y=%q)", cfg.BubbleXAxis, cfg.BubbleYAxis)
	}
	xKey, yKey := dataset.ResolveKey(cfg.BubbleXAxis), dataset.ResolveKey(cfg.BubbleYAxis)

	var pts []bubblePoint
	var xs, ys, goals []float64
	for _, m := range rows {
		x, y := m.Value(xKey), m.Value(yKey)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		pts = append(pts, bubblePoint{m: m, x: x, y: y})
		xs = append(xs, x)
		ys = append(ys, y)
		goals = append(goals, m.TotalGoals())
	}
	if len(pts) == 0 {
		b.detail.Reconcile(nil)
		drawEmpty(s, "No matches for this phase selection.")
		return nil
	}
	xMin, xMax, _ := extent(xs)
	yMin, yMax, _ := extent(ys)
	xMin, xMax = niceAxisBounds(xMin, xMax)
	yMin, yMax = niceAxisBounds(yMin, yMax)
	s.SetAxes(AxisInfo{Key: xKey, Min: xMin, Max: xMax}, AxisInfo{Key: yKey, Min: yMin, Max: yMax})
	_, maxGoals, _ := extent(goals)
	radius := RadiusScale(maxGoals, bubbleMinRadius, bubbleMaxRadius)

	area := plotArea{Left: 60, Top: 40, Right: float64(s.W) - 60, Bottom: float64(s.H) - 60}
	px := linear(xMin, xMax, area.Left, area.Right)
	py := linear(yMin, yMax, area.Bottom, area.Top)
	drawAxes(s, area, xMin, xMax, yMin, yMax, xKey, yKey)

	for i := range pts {
		pts[i].r = radius(pts[i].m.TotalGoals())
	}
	// large bubbles first so small ones stay clickable
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].r > pts[j].r })
	for _, p := range pts {
		c := Pt{px(p.x), py(p.y)}
		key := matchKey(p.m.ID)
		s.Wedge(key, c, 0, p.r, math.Pi, 2*math.Pi, colTeam1)
		s.Wedge(key, c, 0, p.r, 0, math.Pi, colTeam2)
		s.Circle("", c, p.r, color.RGBA{}, colBackground, 1)
	}
	s.Text(area.Right, 20, bubbleTitle(cfg), colText, AnchorEnd)
	drawHint(s, cfg, "Hint: bubble size is total goals; left half team1, right half team2. Click for details.")

	b.detail.Reconcile(s.Keys())
	key, open := b.detail.Key()
	if !open {
		return nil
	}
	var sel bubblePoint
	for _, p := range pts {
		if matchKey(p.m.ID) == key {
			sel = p
			break
		}
	}
	s.WithDetail(func() {
		m := sel.m
		r := panelRect(s, 280, 170)
		drawPanel(s, r, truncateLabel(m.Label(), 34))
		lines := []string{
			fmt.Sprintf("Score: %s - %s", fmtNum(m.Goals1), fmtNum(m.Goals2)),
			"Stage: " + m.Category,
			fmt.Sprintf("%s: %s", truncateLabel(xKey, 22), fmtNum(sel.x)),
			fmt.Sprintf("%s: %s", truncateLabel(yKey, 22), fmtNum(sel.y)),
			fmt.Sprintf("Possession: %s%% / %s%%", fmtNum(m.Value(dataset.ColPoss1)), fmtNum(m.Value(dataset.ColPoss2))),
		}
		if m.HasDate() {
			lines = append([]string{"Date: " + m.Date.Format("02 Jan 2006")}, lines...)
		}
		for i, l := range lines {
			s.Text(float64(r.Min.X+10), float64(r.Min.Y+42+i*18), l, colText, AnchorStart)
		}
	})
	return nil
}

func bubbleTitle(cfg Config) string {
	t := "All matches"
	if cfg.MainPhase != "" && cfg.MainPhase != phase.All {
		t = cfg.MainPhase + " stage"
		if cfg.DetailPhase != "" && cfg.DetailPhase != phase.All {
			t = cfg.DetailPhase
		}
	}
	return t
}
