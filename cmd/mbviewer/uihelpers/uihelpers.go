package uihelpers

import (
	"math"
	"strconv"
	"time"
)

// ComputeChartDimensions applies width/height clamp rules used for charts.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	// network and bubble views need more height than a time series
	h := int(float32(w) * 0.55)
	if h < 440 {
		h = 440
	}
	if h > 760 {
		h = 760
	}
	return w, h
}

// ComputeTableColumnWidths returns the 7 column widths for the match table given a window width.
// Order: Date, Team1, Team2, Score, Category, X value, Y value
func ComputeTableColumnWidths(winW float32) [7]int {
	const compactBreakpoint = 900
	const ultraCompactBreakpoint = 520
	if winW < ultraCompactBreakpoint {
		return [7]int{0, 110, 110, 50, 0, 0, 0}
	}
	if winW < compactBreakpoint {
		if winW < 760 {
			return [7]int{90, 120, 120, 55, 110, 0, 0}
		}
		return [7]int{90, 120, 120, 55, 110, 80, 80}
	}
	return [7]int{110, 170, 170, 70, 160, 120, 120}
}

// FormatNumericTick provides a compact label for table values and slider captions.
func FormatNumericTick(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	av := math.Abs(v)
	switch {
	case av >= 100 || v == math.Trunc(v):
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// DaySpan returns the number of whole days between two dates, never negative.
func DaySpan(min, max time.Time) int {
	d := int(math.Round(max.Sub(min).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// DayAt maps a date-slider position back to a date.
func DayAt(min time.Time, pos float64) time.Time {
	return min.AddDate(0, 0, int(math.Round(pos)))
}
