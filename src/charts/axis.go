package charts

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	// counts and percentages never go negative
	if min >= 0 && a < 0 {
		a = 0
	}
	return a, b
}

// niceTicks generates about n tick values covering [min, max] on 1/2/2.5/5 steps.
func niceTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Ceil(min/bestStep-1e-9) * bestStep
	var out []float64
	for v := start; v <= max+bestStep*1e-9; v += bestStep {
		out = append(out, math.Round(v*1e6)/1e6)
		if len(out) > n+2 {
			break
		}
	}
	return out
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	default:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}

// goChartTicks converts tick values for a go-chart axis.
func goChartTicks(min, max float64, n int) []chart.Tick {
	var out []chart.Tick
	for _, v := range niceTicks(min, max, n) {
		out = append(out, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return out
}

// plotArea is the pixel rectangle data is mapped into.
type plotArea struct {
	Left, Top, Right, Bottom float64
}

// drawAxes draws a bottom and a left axis with ticks and labels for the given domains.
func drawAxes(s *Surface, area plotArea, xMin, xMax, yMin, yMax float64, xLabel, yLabel string) {
	px := linear(xMin, xMax, area.Left, area.Right)
	py := linear(yMin, yMax, area.Bottom, area.Top)
	s.Line("", Pt{area.Left, area.Bottom}, Pt{area.Right, area.Bottom}, colAxis, 1)
	s.Line("", Pt{area.Left, area.Top}, Pt{area.Left, area.Bottom}, colAxis, 1)
	for _, v := range niceTicks(xMin, xMax, 8) {
		x := px(v)
		s.Line("", Pt{x, area.Bottom}, Pt{x, area.Bottom + 5}, colAxis, 1)
		s.Text(x, area.Bottom+18, formatTick(v), colAxis, AnchorMiddle)
	}
	for _, v := range niceTicks(yMin, yMax, 6) {
		y := py(v)
		s.Line("", Pt{area.Left, y}, Pt{area.Right, y}, colGridLine, 1)
		s.Line("", Pt{area.Left - 5, y}, Pt{area.Left, y}, colAxis, 1)
		s.Text(area.Left-8, y+4, formatTick(v), colAxis, AnchorEnd)
	}
	s.Text((area.Left+area.Right)/2, area.Bottom+36, xLabel, colAxis, AnchorMiddle)
	s.Text(area.Left, area.Top-10, yLabel, colAxis, AnchorStart)
}
