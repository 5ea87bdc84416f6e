package charts

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
)

const NameDonut = "donut"

// maxDonuts caps the small multiples drawn at once.
const maxDonuts = 48

type slice struct {
	Label string
	Value float64
	Color color.RGBA
	Key   string
}

// drawDonut draws slices clockwise from 12 o'clock with percentage labels on each arc.
func drawDonut(s *Surface, c Pt, inner, outer float64, slices []slice, center string) {
	total := 0.0
	for _, sl := range slices {
		if sl.Value > 0 {
			total += sl.Value
		}
	}
	if total <= 0 {
		s.Circle("", c, outer, colEmpty, colGridLine, 1)
		s.Text(c.X, c.Y+4, "n/a", colMuted, AnchorMiddle)
		return
	}
	a := 0.0
	for _, sl := range slices {
		if sl.Value <= 0 {
			continue
		}
		span := 2 * math.Pi * sl.Value / total
		s.Wedge(sl.Key, c, inner, outer, a, a+span, sl.Color)
		if outer >= 40 {
			mid := a + span/2
			r := (inner + outer) / 2
			s.Text(c.X+r*math.Sin(mid), c.Y-r*math.Cos(mid)+4, fmt.Sprintf("%.1f%%", 100*sl.Value/total), colText, AnchorMiddle)
		}
		a += span
	}
	if center != "" {
		s.Text(c.X, c.Y+4, center, colText, AnchorMiddle)
	}
}

// possessionSlices splits a match into team1, team2 and contested possession.
func possessionSlices(m dataset.MatchRecord, keyed bool) []slice {
	v := func(col string) float64 {
		x := m.Value(col)
		if math.IsNaN(x) {
			return 0
		}
		return x
	}
	out := []slice{
		{Label: m.Team1, Value: v(dataset.ColPoss1), Color: colTeam1},
		{Label: m.Team2, Value: v(dataset.ColPoss2), Color: colTeam2},
		{Label: "Contested", Value: v(dataset.ColPossCont), Color: colContested},
	}
	if keyed {
		out[0].Key = shotsKey(m.ID, 1)
		out[1].Key = shotsKey(m.ID, 2)
	}
	return out
}

func drawLegend(s *Surface, x, y float64, slices []slice) {
	for i, sl := range slices {
		yy := y + float64(i)*16
		s.FillRect("", image.Rect(int(x), int(yy)-10, int(x)+12, int(yy)+2), sl.Color)
		s.Text(x+18, yy, sl.Label, colText, AnchorStart)
	}
}

func shotsKey(id, side int) string { return fmt.Sprintf("shots:%d:%d", id, side) }

func parseShotsKey(key string) (id, side int, ok bool) {
	if !strings.HasPrefix(key, "shots:") {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(key, "shots:%d:%d", &id, &side); err != nil {
		return 0, 0, false
	}
	return id, side, side == 1 || side == 2
}

// PossessionDonut draws one possession donut per match. Activating a team's arc opens
// that team's shot breakdown for the match.
type PossessionDonut struct {
	detail Detail
}

func NewPossessionDonut() *PossessionDonut { return &PossessionDonut{} }

func (d *PossessionDonut) Name() string        { return NameDonut }
func (d *PossessionDonut) Scope() filter.Scope { return filter.ScopeTable }
func (d *PossessionDonut) Detail() *Detail     { return &d.detail }

func (d *PossessionDonut) Render(s *Surface, rows []dataset.MatchRecord, cfg Config) error {
	s.Clear()
	s.Resize(cfg.size())
	if len(rows) == 0 {
		d.detail.Reconcile(nil)
		drawEmpty(s, "No matches for these filters.")
		return nil
	}
	shown := rows
	if len(shown) > maxDonuts {
		shown = shown[:maxDonuts]
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(shown)) * float64(s.W) / float64(s.H))))
	if cols < 1 {
		cols = 1
	}
	nrows := (len(shown) + cols - 1) / cols
	cellW := float64(s.W) / float64(cols)
	cellH := float64(s.H-20) / float64(nrows)
	outer := math.Min(cellW, cellH-18)/2 - 6
	if outer < 8 {
		outer = 8
	}
	byID := map[int]dataset.MatchRecord{}
	for i, m := range shown {
		byID[m.ID] = m
		cx := cellW*float64(i%cols) + cellW/2
		cy := cellH*float64(i/cols) + (cellH-18)/2 + 4
		drawDonut(s, Pt{cx, cy}, outer*0.55, outer, possessionSlices(m, true), "")
		s.Text(cx, cy+outer+14, truncateLabel(m.Label(), int(cellW/7)), colMuted, AnchorMiddle)
	}
	if len(rows) > len(shown) {
		s.Text(float64(s.W)-8, float64(s.H)-6, fmt.Sprintf("+%d more", len(rows)-len(shown)), colMuted, AnchorEnd)
	}
	drawHint(s, cfg, "Hint: click a team's arc for its shot breakdown.")

	d.detail.Reconcile(s.Keys())
	key, open := d.detail.Key()
	if !open {
		return nil
	}
	id, side, ok := parseShotsKey(key)
	m, found := byID[id]
	if !ok || !found {
		d.detail.Dismiss()
		return nil
	}
	s.WithDetail(func() { drawShotBreakdown(s, m, side) })
	return nil
}

// ShotBreakdown is the per-team shot detail for one match.
type ShotBreakdown struct {
	Team                           string
	AttemptsOutside, AttemptsInside float64
	GoalsOutside, GoalsInside       float64
	TotalGoals                      float64
}

// ShotsFor reads side 1 or 2 of a match; missing values count as zero.
func ShotsFor(m dataset.MatchRecord, side int) ShotBreakdown {
	suffix := fmt.Sprintf(" team%d", side)
	z := func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}
	team := m.Team1
	if side == 2 {
		team = m.Team2
	}
	return ShotBreakdown{
		Team:            team,
		AttemptsOutside: z(m.Value("attempts outside the penalty area" + suffix)),
		AttemptsInside:  z(m.Value("attempts inside the penalty area" + suffix)),
		GoalsOutside:    z(m.Value("goal outside the penalty area" + suffix)),
		GoalsInside:     z(m.Value("goal inside the penalty area" + suffix)),
		TotalGoals:      z(m.Value("number of goals" + suffix)),
	}
}

func drawShotBreakdown(s *Surface, m dataset.MatchRecord, side int) {
	sb := ShotsFor(m, side)
	r := panelRect(s, 340, 300)
	drawPanel(s, r, fmt.Sprintf("%s shots - %s", sb.Team, m.Label()))
	bars := []struct {
		label string
		v     float64
		col   color.RGBA
	}{
		{"Att. out", sb.AttemptsOutside, color.RGBA{26, 188, 156, 255}},
		{"Att. in", sb.AttemptsInside, color.RGBA{52, 152, 219, 255}},
		{"Goals out", sb.GoalsOutside, color.RGBA{211, 12, 12, 255}},
		{"Goals in", sb.GoalsInside, color.RGBA{243, 156, 18, 255}},
		{"Goals", sb.TotalGoals, color.RGBA{155, 89, 182, 255}},
	}
	maxV := 1.0
	var values []chart.Value
	for _, b := range bars {
		maxV = math.Max(maxV, b.v)
		values = append(values, chart.Value{Label: b.label, Value: b.v, Style: chart.Style{FillColor: toDrawing(b.col), StrokeColor: toDrawing(b.col)}})
	}
	inner := image.Rect(r.Min.X+6, r.Min.Y+26, r.Max.X-6, r.Max.Y-6)
	bc := chart.BarChart{
		Width:      inner.Dx(),
		Height:     inner.Dy(),
		BarWidth:   40,
		Background: chart.Style{Padding: chart.Box{Top: 12, Left: 8, Right: 8, Bottom: 8}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(maxV)}},
		Bars:       values,
	}
	if img := renderGoChart("shot breakdown", bc); img != nil {
		s.Image(inner, img)
		return
	}
	// primitive fallback keeps the panel readable if go-chart rejects the values
	for i, b := range bars {
		y := float64(inner.Min.Y) + 20 + float64(i)*22
		w := (float64(inner.Dx()) - 110) * b.v / maxV
		s.FillRect("", image.Rect(inner.Min.X+80, int(y)-10, inner.Min.X+80+int(w), int(y)+4), b.col)
		s.Text(float64(inner.Min.X+4), y, b.label, colText, AnchorStart)
		s.Text(float64(inner.Min.X+84)+w, y, fmtNum(b.v), colText, AnchorStart)
	}
}

// truncateLabel shortens text to n characters. basicfont is ASCII only, so the
// ellipsis is three dots.
func truncateLabel(text string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n-3]) + "..."
}
