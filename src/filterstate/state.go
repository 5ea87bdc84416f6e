// Package filterstate holds the filter selections shared by every chart on the board and
// persists them as one JSON snapshot.
package filterstate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/applog"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
)

// StorageKey is the single slot key the snapshot lives under.
const StorageKey = "filterMemory"

// CategoryAll disables the category predicate.
const CategoryAll = "All"

// Hard defaults used before storage or the dataset say otherwise.
const (
	DefaultGoalsMin    = 0
	DefaultGoalsMax    = 10
	DefaultXAxis       = "possession_team1"
	DefaultYAxis       = "goals_team1"
	DefaultBubbleXAxis = "possession team1"
	DefaultBubbleYAxis = "possession team2"
)

// State is a value copy of the current selections.
type State struct {
	DateMin     *time.Time // nil: unbounded
	DateMax     *time.Time
	GoalsMin    int
	GoalsMax    int
	Category    string
	XAxis       string
	YAxis       string
	BubbleXAxis string
	BubbleYAxis string
	MainPhase   string
	DetailPhase string
	KoOnly      bool
}

// Defaults returns the state used when nothing was persisted.
func Defaults() State {
	return State{
		GoalsMin:    DefaultGoalsMin,
		GoalsMax:    DefaultGoalsMax,
		Category:    CategoryAll,
		XAxis:       DefaultXAxis,
		YAxis:       DefaultYAxis,
		BubbleXAxis: DefaultBubbleXAxis,
		BubbleYAxis: DefaultBubbleYAxis,
		MainPhase:   phase.All,
		DetailPhase: phase.All,
	}
}

// Clone copies the date pointers so callers cannot reach into the store.
func (s State) Clone() State {
	out := s
	if s.DateMin != nil {
		t := *s.DateMin
		out.DateMin = &t
	}
	if s.DateMax != nil {
		t := *s.DateMax
		out.DateMax = &t
	}
	return out
}

// Equal compares field by field, dates by instant.
func (s State) Equal(o State) bool {
	if !dateEqual(s.DateMin, o.DateMin) || !dateEqual(s.DateMax, o.DateMax) {
		return false
	}
	a, b := s, o
	a.DateMin, a.DateMax, b.DateMin, b.DateMax = nil, nil, nil, nil
	return a == b
}

func dateEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s State) String() string {
	d := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format("2006-01-02")
	}
	return fmt.Sprintf("dates=%s..%s goals=%d..%d category=%q axes=%s/%s bubble=%s/%s phase=%s/%s ko=%t",
		d(s.DateMin), d(s.DateMax), s.GoalsMin, s.GoalsMax, s.Category, s.XAxis, s.YAxis,
		s.BubbleXAxis, s.BubbleYAxis, s.MainPhase, s.DetailPhase, s.KoOnly)
}

// snapshot is the persisted layout.
type snapshot struct {
	DateMin                   *string `json:"dateMin"`
	DateMax                   *string `json:"dateMax"`
	GoalsMin                  int     `json:"goalsMin"`
	GoalsMax                  int     `json:"goalsMax"`
	SelectedCategory          string  `json:"selectedCategory"`
	SelectedXAxis             string  `json:"selectedXAxis"`
	SelectedYAxis             string  `json:"selectedYAxis"`
	SelectedBubbleXAxis       string  `json:"selectedBubbleXAxis"`
	SelectedBubbleYAxis       string  `json:"selectedBubbleYAxis"`
	SelectedBubbleMainPhase   string  `json:"selectedBubbleMainPhase"`
	SelectedBubbleDetailPhase string  `json:"selectedBubbleDetailPhase"`
	KoOnly                    bool    `json:"koOnly"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Marshal encodes the full snapshot.
func Marshal(s State) ([]byte, error) {
	return json.Marshal(snapshot{
		DateMin:                   formatDate(s.DateMin),
		DateMax:                   formatDate(s.DateMax),
		GoalsMin:                  s.GoalsMin,
		GoalsMax:                  s.GoalsMax,
		SelectedCategory:          s.Category,
		SelectedXAxis:             s.XAxis,
		SelectedYAxis:             s.YAxis,
		SelectedBubbleXAxis:       s.BubbleXAxis,
		SelectedBubbleYAxis:       s.BubbleYAxis,
		SelectedBubbleMainPhase:   s.MainPhase,
		SelectedBubbleDetailPhase: s.DetailPhase,
		KoOnly:                    s.KoOnly,
	})
}

// restored records which range bounds came from storage, so the dataset extent only
// fills the rest.
type restored struct {
	dateMin, dateMax   bool
	goalsMin, goalsMax bool
}

// NormalizePhase resets a main phase outside all/group/knockout to all and a detail phase
// the main phase does not offer to all. It reports whether st changed.
func NormalizePhase(st *State) bool {
	changed := false
	if !phase.ValidMain(st.MainPhase) {
		applog.Warnf("[filterstate] unknown main phase %q, using %q", st.MainPhase, phase.All)
		st.MainPhase = phase.All
		changed = true
	}
	if d := phase.ReconcileDetail(st.MainPhase, st.DetailPhase); d != st.DetailPhase {
		applog.Debugf("[filterstate] detail phase %q reset to %q under %q", st.DetailPhase, d, st.MainPhase)
		st.DetailPhase = d
		changed = true
	}
	return changed
}

// Unmarshal decodes a snapshot on top of Defaults. Each key is decoded on its own:
// a missing or mistyped key keeps its default and the others still apply. Unknown keys
// are ignored. The error is non-nil only when the payload is not a JSON object at all.
func Unmarshal(raw []byte) (State, error) {
	st, _, err := unmarshal(raw)
	return st, err
}

func unmarshal(raw []byte) (State, restored, error) {
	st := Defaults()
	var got restored
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return st, got, fmt.Errorf("decode snapshot: %w", err)
	}
	str := func(key string, dst *string) {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			return
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil || s == "" {
			applog.Warnf("[filterstate] ignoring %s=%s", key, string(v))
			return
		}
		*dst = s
	}
	date := func(key string, dst **time.Time) {
		v, ok := fields[key]
		if !ok {
			return
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			applog.Warnf("[filterstate] ignoring %s=%s", key, string(v))
			return
		}
		if s == nil {
			return
		}
		t, err := parseDate(*s)
		if err != nil {
			applog.Warnf("[filterstate] ignoring %s=%q: %v", key, *s, err)
			return
		}
		*dst = &t
	}
	num := func(key string, dst *int) bool {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			return false
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil || math.IsNaN(f) {
			applog.Warnf("[filterstate] ignoring %s=%s", key, string(v))
			return false
		}
		*dst = int(math.Round(f))
		return true
	}

	date("dateMin", &st.DateMin)
	date("dateMax", &st.DateMax)
	got.goalsMin = num("goalsMin", &st.GoalsMin)
	got.goalsMax = num("goalsMax", &st.GoalsMax)
	str("selectedCategory", &st.Category)
	str("selectedXAxis", &st.XAxis)
	str("selectedYAxis", &st.YAxis)
	str("selectedBubbleXAxis", &st.BubbleXAxis)
	str("selectedBubbleYAxis", &st.BubbleYAxis)
	str("selectedBubbleMainPhase", &st.MainPhase)
	str("selectedBubbleDetailPhase", &st.DetailPhase)
	if v, ok := fields["koOnly"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			applog.Warnf("[filterstate] ignoring koOnly=%s", string(v))
		} else {
			st.KoOnly = b
		}
	}
	return st, got, nil
}
