package charts

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
)

const NameGrid = "grid"

// MatchGrid is the team1 x team2 cell table. Cells are coloured by team1's result;
// activating a played cell opens the possession donut of that match.
type MatchGrid struct {
	detail Detail
}

func NewMatchGrid() *MatchGrid { return &MatchGrid{} }

func (g *MatchGrid) Name() string        { return NameGrid }
func (g *MatchGrid) Scope() filter.Scope { return filter.ScopeTable }
func (g *MatchGrid) Detail() *Detail     { return &g.detail }

func distinctSorted(rows []dataset.MatchRecord, pick func(dataset.MatchRecord) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rows {
		v := pick(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (g *MatchGrid) Render(s *Surface, rows []dataset.MatchRecord, cfg Config) error {
	s.Clear()
	s.Resize(cfg.size())
	if len(rows) == 0 {
		g.detail.Reconcile(nil)
		drawEmpty(s, "No matches for these filters.")
		return nil
	}
	teams1 := distinctSorted(rows, func(r dataset.MatchRecord) string { return r.Team1 })
	teams2 := distinctSorted(rows, func(r dataset.MatchRecord) string { return r.Team2 })
	const marginLeft, marginTop = 150, 60
	cellW := math.Min(50, float64(s.W-marginLeft-10)/float64(len(teams2)))
	cellH := math.Min(40, float64(s.H-marginTop-10)/float64(len(teams1)))
	cellW, cellH = math.Max(cellW, 6), math.Max(cellH, 6)

	type pair struct{ t1, t2 string }
	played := map[pair]dataset.MatchRecord{}
	byID := map[int]dataset.MatchRecord{}
	for _, r := range rows {
		p := pair{r.Team1, r.Team2}
		if _, dup := played[p]; !dup {
			played[p] = r
		}
		byID[r.ID] = r
	}

	for j, t2 := range teams2 {
		x := marginLeft + (float64(j)+0.5)*cellW
		s.Text(x, marginTop-8, teamCode(t2), colText, AnchorMiddle)
	}
	for i, t1 := range teams1 {
		y := marginTop + float64(i)*cellH
		s.Text(marginLeft-8, y+cellH/2+4, truncateLabel(t1, 20), colText, AnchorEnd)
		for j, t2 := range teams2 {
			x := marginLeft + float64(j)*cellW
			r := image.Rect(int(x), int(y), int(x+cellW), int(y+cellH))
			m, ok := played[pair{t1, t2}]
			if !ok {
				s.Box("", r, colEmpty, colGridLine, 1)
				continue
			}
			s.Box(matchKey(m.ID), r, resultColor(m.Goals1, m.Goals2), colGridLine, 1)
		}
	}
	drawHint(s, cfg, "Hint: green win, red loss, yellow draw for the row team. Click a cell for possession.")

	g.detail.Reconcile(s.Keys())
	key, open := g.detail.Key()
	if !open {
		return nil
	}
	var id int
	if _, err := fmt.Sscanf(key, "match:%d", &id); err != nil {
		g.detail.Dismiss()
		return nil
	}
	m := byID[id]
	s.WithDetail(func() {
		r := panelRect(s, 240, 300)
		drawPanel(s, r, truncateLabel(m.Label(), 30))
		c := Pt{float64(r.Min.X) + 120, float64(r.Min.Y) + 120}
		sl := possessionSlices(m, false)
		drawDonut(s, c, 47, 84, sl, "Possession")
		drawLegend(s, float64(r.Min.X)+60, float64(r.Min.Y)+230, sl)
	})
	return nil
}

// resultColor is green/red/yellow for a team1 win/loss/draw, grey when unscored.
func resultColor(g1, g2 float64) color.RGBA {
	switch {
	case math.IsNaN(g1) || math.IsNaN(g2):
		return colEmpty
	case g1 > g2:
		return colWin
	case g1 < g2:
		return colLoss
	default:
		return colDraw
	}
}

// teamCode is a three-letter column header.
func teamCode(team string) string {
	r := []rune(strings.ToUpper(strings.ReplaceAll(team, " ", "")))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}
