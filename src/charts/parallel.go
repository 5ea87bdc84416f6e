package charts

import (
	"fmt"
	"math"

	"github.com/HugoHeilmann/Data-visualisation/src/analysis"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
)

const NameParallel = "parallel"

var metricLabels = map[string]string{
	"possession":                  "Poss %",
	"number of goals":             "Goals",
	"total attempts":              "Attempts",
	"on target attempts":          "On target",
	"passes":                      "Passes",
	"passes completed":            "Completed",
	"conceded":                    "Conceded",
	"goal preventions":            "Preventions",
	"fouls against":               "Fouls",
	"defensive pressures applied": "Pressures",
	"attempted line breaks":       "Line brk",
	"central channel":             "Central",
	"left channel":                "Left",
	"right channel":               "Right",
}

// Parallel draws one polyline per team across per-match averages of the team metrics.
type Parallel struct {
	detail Detail
}

func NewParallel() *Parallel { return &Parallel{} }

func (p *Parallel) Name() string        { return NameParallel }
func (p *Parallel) Scope() filter.Scope { return filter.ScopeParallel }
func (p *Parallel) Detail() *Detail     { return &p.detail }

type parallelAxis struct {
	metric   string
	x        float64
	min, max float64
	y        func(float64) float64
}

func (p *Parallel) Render(s *Surface, rows []dataset.MatchRecord, cfg Config) error {
	s.Clear()
	s.Resize(cfg.size())
	sums := analysis.SummarizeTeams(rows)
	var metrics []string
	for _, m := range analysis.TeamMetrics {
		if _, _, ok := analysis.MetricRange(sums, m); ok {
			metrics = append(metrics, m)
		}
	}
	if len(sums) == 0 || len(metrics) < 2 {
		p.detail.Reconcile(nil)
		drawEmpty(s, "Not enough team statistics for these filters.")
		return nil
	}
	area := plotArea{Left: 50, Top: 50, Right: float64(s.W) - 50, Bottom: float64(s.H) - 50}
	step := (area.Right - area.Left) / float64(len(metrics)-1)
	axes := make([]parallelAxis, len(metrics))
	for i, m := range metrics {
		lo, hi, _ := analysis.MetricRange(sums, m)
		lo, hi = niceAxisBounds(lo, hi)
		axes[i] = parallelAxis{metric: m, x: area.Left + float64(i)*step, min: lo, max: hi, y: linear(lo, hi, area.Bottom, area.Top)}
	}

	_, open := p.detail.Key()
	line := func(t analysis.TeamSummary) []Pt {
		var pts []Pt
		for _, a := range axes {
			v, ok := t.Averages[a.metric]
			if !ok || math.IsNaN(v) {
				continue
			}
			pts = append(pts, Pt{a.x, a.y(v)})
		}
		return pts
	}
	for _, t := range sums {
		col := colMuted
		if t.Group != "" {
			col = PhaseColor("Group " + t.Group)
		}
		if open {
			col = withAlpha(col, 90)
		}
		s.Polyline(teamKey(t.Team), line(t), col, 1.5)
	}
	for _, a := range axes {
		s.Line("", Pt{a.x, area.Top}, Pt{a.x, area.Bottom}, colAxis, 1)
		label := metricLabels[a.metric]
		if label == "" {
			label = a.metric
		}
		s.Text(a.x, area.Top-16, label, colAxis, AnchorMiddle)
		s.Text(a.x, area.Top-2, formatTick(a.max), colMuted, AnchorMiddle)
		s.Text(a.x, area.Bottom+16, formatTick(a.min), colMuted, AnchorMiddle)
	}
	drawHint(s, cfg, "Hint: one line per team, averages per match. Click a line to highlight it.")

	p.detail.Reconcile(s.Keys())
	key, open := p.detail.Key()
	if !open {
		return nil
	}
	t, ok := analysis.Find(sums, key[len("team:"):])
	if !ok {
		p.detail.Dismiss()
		return nil
	}
	s.Polyline(teamKey(t.Team), line(t), colHighlight, 3.5)
	s.WithDetail(func() {
		r := panelRect(s, 230, 40+18*len(axes))
		drawPanel(s, r, truncateLabel(fmt.Sprintf("%s (%d matches)", t.Team, t.Matches), 30))
		for i, a := range axes {
			v, has := t.Averages[a.metric]
			if !has {
				v = math.NaN()
			}
			y := float64(r.Min.Y + 40 + i*18)
			s.Text(float64(r.Min.X+10), y, metricLabels[a.metric], colMuted, AnchorStart)
			s.Text(float64(r.Max.X-10), y, fmtNum(v), colText, AnchorEnd)
		}
	})
	return nil
}
