// Package filter reduces the full match table to the rows a chart should draw.
// Everything here is pure: inputs are never modified and a fresh slice is returned.
package filter

import (
	"math"
	"sort"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
)

// Scope picks which predicate families apply. Charts only honour the selectors they expose.
type Scope struct {
	Ranges   bool // date and total-goals bounds
	Category bool
	Phase    bool // main/detail phase
	KoOnly   bool
}

var (
	ScopeAll      = Scope{Ranges: true, Category: true, Phase: true, KoOnly: true}
	ScopeTable    = Scope{Ranges: true, Category: true}
	ScopeScatter  = Scope{Ranges: true, Category: true}
	ScopeBubble   = Scope{Ranges: true, Phase: true}
	ScopeNetwork  = Scope{Ranges: true, Phase: true, KoOnly: true}
	ScopeParallel = Scope{Ranges: true, Category: true}
)

// Apply runs every predicate.
func Apply(rows []dataset.MatchRecord, st filterstate.State) []dataset.MatchRecord {
	return ApplyScope(rows, st, ScopeAll)
}

// ApplyScope keeps the rows passing every predicate enabled in scope.
func ApplyScope(rows []dataset.MatchRecord, st filterstate.State, scope Scope) []dataset.MatchRecord {
	out := make([]dataset.MatchRecord, 0, len(rows))
	for _, r := range rows {
		if Match(r, st, scope) {
			out = append(out, r)
		}
	}
	return out
}

// Match evaluates one row. A field that failed to parse never satisfies a predicate on it.
func Match(r dataset.MatchRecord, st filterstate.State, scope Scope) bool {
	if scope.Ranges {
		if !inDateRange(r, st.DateMin, st.DateMax) {
			return false
		}
		g := r.TotalGoals()
		if math.IsNaN(g) || g < float64(st.GoalsMin) || g > float64(st.GoalsMax) {
			return false
		}
	}
	if scope.Category && st.Category != filterstate.CategoryAll && st.Category != "" {
		if r.Category != st.Category {
			return false
		}
	}
	if scope.Phase && !phase.Matches(r.Category, st.MainPhase, st.DetailPhase) {
		return false
	}
	if scope.KoOnly && st.KoOnly && phase.IsGroup(r.Category) {
		return false
	}
	return true
}

// inDateRange compares calendar days so a bound stored at midnight keeps the whole day.
func inDateRange(r dataset.MatchRecord, min, max *time.Time) bool {
	if min == nil && max == nil {
		return true
	}
	if !r.HasDate() {
		return false
	}
	d := dayKey(r.Date)
	if min != nil && d < dayKey(*min) {
		return false
	}
	if max != nil && d > dayKey(*max) {
		return false
	}
	return true
}

func dayKey(t time.Time) int {
	t = t.UTC()
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Categories lists the distinct category labels, group stages first in catalogue order.
func Categories(rows []dataset.MatchRecord) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rows {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	rank := func(c string) int {
		canon, ok := phase.Canonical(c)
		if !ok {
			return 1000
		}
		for i, g := range phase.Groups {
			if g == canon {
				return i
			}
		}
		for i, k := range phase.KnockoutRounds {
			if k == canon {
				return len(phase.Groups) + i
			}
		}
		return 1000
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}
