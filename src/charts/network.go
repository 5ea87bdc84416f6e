package charts

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/HugoHeilmann/Data-visualisation/src/analysis"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
)

const NameNetwork = "network"

// Force layout parameters.
const (
	linkDistance   = 120.0
	linkStrength   = 0.7
	chargeStrength = -220.0
	anchorStrength = 0.06
	layoutTicks    = 300
	velocityDecay  = 0.6
	nodeRadius     = 14.0
)

// Network draws teams as nodes and matches as links, coloured by stage and sized by goals.
// Teams of one group are pulled towards a shared anchor so groups read as clusters.
type Network struct {
	detail Detail
	pos    map[string]Pt
}

func NewNetwork() *Network { return &Network{} }

func (n *Network) Name() string        { return NameNetwork }
func (n *Network) Scope() filter.Scope { return filter.ScopeNetwork }
func (n *Network) Detail() *Detail     { return &n.detail }

// Positions returns the node centres of the last render.
func (n *Network) Positions() map[string]Pt {
	out := make(map[string]Pt, len(n.pos))
	for k, v := range n.pos {
		out[k] = v
	}
	return out
}

type netLink struct {
	a, b     int
	category string
	goals    float64
}

func (n *Network) Render(s *Surface, rows []dataset.MatchRecord, cfg Config) error {
	s.Clear()
	s.Resize(cfg.size())
	n.pos = nil
	sums := analysis.SummarizeTeams(rows)
	if len(sums) == 0 {
		n.detail.Reconcile(nil)
		drawEmpty(s, "No matches for this selection.")
		return nil
	}
	index := make(map[string]int, len(sums))
	teams := make([]string, len(sums))
	groups := make([]string, len(sums))
	for i, t := range sums {
		index[t.Team] = i
		teams[i] = t.Team
		groups[i] = t.Group
	}
	var links []netLink
	for _, r := range rows {
		a, okA := index[r.Team1]
		b, okB := index[r.Team2]
		if !okA || !okB || a == b {
			continue
		}
		links = append(links, netLink{a: a, b: b, category: r.Category, goals: r.TotalGoals()})
	}
	pos := layoutNetwork(groups, links, float64(s.W), float64(s.H))
	n.pos = make(map[string]Pt, len(pos))
	for i, p := range pos {
		n.pos[teams[i]] = p
	}

	for _, l := range links {
		g := l.goals
		if math.IsNaN(g) {
			g = 0
		}
		s.Line("", pos[l.a], pos[l.b], withAlpha(PhaseColor(l.category), 170), 1+math.Min(g, 8)*0.8)
	}
	sel, open := n.detail.Key()
	for i, t := range teams {
		fill := colMuted
		if groups[i] != "" {
			fill = PhaseColor("Group " + groups[i])
		}
		stroke, w := colBackground, 1.5
		if open && sel == teamKey(t) {
			stroke, w = colText, 3
		}
		s.Circle(teamKey(t), pos[i], nodeRadius, fill, stroke, w)
		s.Text(pos[i].X, pos[i].Y+nodeRadius+12, t, colText, AnchorMiddle)
	}
	title := "All matches"
	if cfg.KoOnly {
		title = "Knockout matches"
	} else if cfg.MainPhase != "" && cfg.MainPhase != phase.All {
		title = bubbleTitle(cfg)
	}
	s.Text(float64(s.W)-10, 20, title, colText, AnchorEnd)
	drawHint(s, cfg, "Hint: links are matches, thicker with more goals. Click a team for its record.")

	n.detail.Reconcile(s.Keys())
	key, open := n.detail.Key()
	if !open {
		return nil
	}
	team := key[len("team:"):]
	sum, ok := analysis.Find(sums, team)
	if !ok {
		n.detail.Dismiss()
		return nil
	}
	s.WithDetail(func() { drawTeamPanel(s, sum) })
	return nil
}

func drawTeamPanel(s *Surface, t analysis.TeamSummary) {
	hist := t.History
	if len(hist) > 8 {
		hist = hist[len(hist)-8:]
	}
	r := panelRect(s, 280, 110+18*len(hist))
	title := t.Team
	if t.Group != "" {
		title += " (Group " + t.Group + ")"
	}
	drawPanel(s, r, title)
	x := float64(r.Min.X + 10)
	y := float64(r.Min.Y + 42)
	s.Text(x, y, fmt.Sprintf("Played %d  W %d  D %d  L %d", t.Matches, t.Wins, t.Draws, t.Losses), colText, AnchorStart)
	s.Text(x, y+18, fmt.Sprintf("Goals %s:%s  (diff %+.0f)", fmtNum(t.GoalsFor), fmtNum(t.GoalsAgainst), t.GoalDiff()), colText, AnchorStart)
	s.Text(x, y+42, "History", colMuted, AnchorStart)
	for i, h := range hist {
		col := colText
		switch h.Result {
		case analysis.ResultWin:
			col = colWin
		case analysis.ResultLoss:
			col = colLoss
		case analysis.ResultDraw:
			col = colDraw
		}
		res := h.Result
		if res == "" {
			res = "-"
		}
		line := fmt.Sprintf("%s vs %s %s-%s", res, truncateLabel(h.Opponent, 16), fmtNum(h.GoalsFor), fmtNum(h.GoalsAgainst))
		s.Text(x, y+60+float64(i)*18, line, col, AnchorStart)
	}
}

// layoutNetwork runs a fixed number of force-simulation ticks from a deterministic start,
// so the same input always yields the same positions.
func layoutNetwork(groups []string, links []netLink, w, h float64) []Pt {
	n := len(groups)
	cx, cy := w/2, h/2
	letters := distinctLetters(groups)
	ring := math.Min(w, h) * 0.32
	anchorOf := make(map[string]Pt, len(letters))
	for i, l := range letters {
		a := 2 * math.Pi * float64(i) / float64(len(letters))
		anchorOf[l] = Pt{cx + ring*math.Sin(a), cy - ring*math.Cos(a)}
	}
	anchors := make([]Pt, n)
	members := map[string]int{}
	for i, g := range groups {
		if p, ok := anchorOf[g]; ok {
			anchors[i] = p
		} else {
			anchors[i] = Pt{cx, cy}
		}
		members[g]++
	}
	pos := make([]Pt, n)
	vel := make([]Pt, n)
	seen := map[string]int{}
	for i, g := range groups {
		k := seen[g]
		seen[g]++
		a := 2*math.Pi*float64(k)/float64(members[g]) + float64(i)*0.1
		pos[i] = Pt{anchors[i].X + 30*math.Cos(a), anchors[i].Y + 30*math.Sin(a)}
	}

	for tick := 0; tick < layoutTicks; tick++ {
		alpha := 1 - float64(tick)/layoutTicks
		for _, l := range links {
			dx := pos[l.b].X + vel[l.b].X - pos[l.a].X - vel[l.a].X
			dy := pos[l.b].Y + vel[l.b].Y - pos[l.a].Y - vel[l.a].Y
			d := math.Max(math.Hypot(dx, dy), 1e-6)
			f := (d - linkDistance) / d * alpha * linkStrength * 0.5
			vel[l.a].X += dx * f
			vel[l.a].Y += dy * f
			vel[l.b].X -= dx * f
			vel[l.b].Y -= dy * f
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := pos[j].X - pos[i].X
				dy := pos[j].Y - pos[i].Y
				d2 := math.Max(dx*dx+dy*dy, 1)
				f := chargeStrength * alpha / d2
				vel[i].X += dx * f
				vel[i].Y += dy * f
				vel[j].X -= dx * f
				vel[j].Y -= dy * f
			}
			vel[i].X += (anchors[i].X - pos[i].X) * anchorStrength * alpha
			vel[i].Y += (anchors[i].Y - pos[i].Y) * anchorStrength * alpha
		}
		for i := range pos {
			vel[i].X *= velocityDecay
			vel[i].Y *= velocityDecay
			pos[i].X = clamp(pos[i].X+vel[i].X, nodeRadius+4, w-nodeRadius-4)
			pos[i].Y = clamp(pos[i].Y+vel[i].Y, nodeRadius+24, h-nodeRadius-24)
		}
	}
	return pos
}

func distinctLetters(groups []string) []string {
	set := map[string]struct{}{}
	for _, g := range groups {
		if g != "" {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// withAlpha returns c at opacity a. color.RGBA is premultiplied, so channels scale too.
func withAlpha(c color.RGBA, a uint8) color.RGBA {
	k := float64(a) / 255
	return color.RGBA{R: uint8(float64(c.R) * k), G: uint8(float64(c.G) * k), B: uint8(float64(c.B) * k), A: a}
}
