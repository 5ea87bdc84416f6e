package charts

import (
	"fmt"
	"image"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/HugoHeilmann/Data-visualisation/src/analysis"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filter"
)

const NameTopTeams = "topteams"

// TopTeamsLimit is the number of bars shown.
const TopTeamsLimit = 10

// TopTeams is a bar chart of the highest-scoring teams in the filtered matches.
type TopTeams struct{}

func NewTopTeams() *TopTeams { return &TopTeams{} }

func (c *TopTeams) Name() string        { return NameTopTeams }
func (c *TopTeams) Scope() filter.Scope { return filter.ScopeAll }

func (c *TopTeams) Render(s *Surface, rows []dataset.MatchRecord, cfg Config) error {
	s.Clear()
	s.Resize(cfg.size())
	top := analysis.TopTeamsByGoals(analysis.SummarizeTeams(rows), TopTeamsLimit)
	if len(top) == 0 {
		drawEmpty(s, "No matches for these filters.")
		return nil
	}
	maxGoals := 0.0
	bars := make([]chart.Value, 0, len(top))
	for _, t := range top {
		maxGoals = math.Max(maxGoals, t.GoalsFor)
		col := colMuted
		if t.Group != "" {
			col = PhaseColor("Group " + t.Group)
		}
		bars = append(bars, chart.Value{
			Label: teamCode(t.Team),
			Value: t.GoalsFor,
			Style: chart.Style{FillColor: toDrawing(col), StrokeColor: toDrawing(col)},
		})
	}
	_, yMax := niceAxisBounds(0, math.Max(maxGoals, 1))
	s.SetAxes(AxisInfo{Key: "team"}, AxisInfo{Key: "goals", Min: 0, Max: yMax})
	padBottom := 20
	if cfg.ShowHints {
		padBottom += 18
	}
	barW := (s.W - 120) / (2 * len(bars))
	if barW > 60 {
		barW = 60
	}
	bc := chart.BarChart{
		Title:      fmt.Sprintf("Top %d teams by goals scored", len(top)),
		Width:      s.W,
		Height:     s.H,
		BarWidth:   barW,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: padBottom}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: yMax}, Ticks: goChartTicks(0, yMax, 6)},
		Bars:       bars,
	}
	img := renderGoChart("top teams", bc)
	if img == nil {
		s.FillRect("", image.Rect(0, 0, s.W, s.H), colEmpty)
		drawEmpty(s, "Top teams unavailable for this selection.")
		return nil
	}
	s.Image(image.Rect(0, 0, s.W, s.H), img)
	drawHint(s, cfg, "Hint: goals scored across the filtered matches, coloured by group.")
	return nil
}
