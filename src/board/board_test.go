package board

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/charts"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/filterstate"
	"github.com/HugoHeilmann/Data-visualisation/src/phase"
	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

type rowsLoader []dataset.MatchRecord

func (l rowsLoader) Load(context.Context) ([]dataset.MatchRecord, error) { return l, nil }

func matchDay(d int) time.Time { return time.Date(2022, 11, d, 0, 0, 0, 0, time.UTC) }

func row(id int, t1, t2, cat string, d int, g1, g2, p1, p2 float64) dataset.MatchRecord {
	return dataset.MatchRecord{
		ID: id, Team1: t1, Team2: t2, Category: cat, Date: matchDay(d), Goals1: g1, Goals2: g2,
		Stats: map[string]float64{dataset.ColPoss1: p1, dataset.ColPoss2: p2, dataset.ColPossCont: 100 - p1 - p2},
	}
}

func sampleRows() []dataset.MatchRecord {
	return []dataset.MatchRecord{
		row(1, "Qatar", "Ecuador", "Group A", 20, 0, 2, 42, 46),
		row(2, "England", "Iran", "Group B", 21, 6, 2, 70, 20),
		row(3, "Argentina", "France", "Final", 22, 3, 3, 46, 40),
		row(4, "Morocco", "Portugal", "Quarter-final", 23, 1, 0, 26, 62),
	}
}

func newBoard(t *testing.T) *Board {
	t.Helper()
	rows := sampleRows()
	st := filterstate.Open(context.Background(), prefstore.NewMemory(), rowsLoader(rows))
	if _, err := st.WaitUntilReady(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	b, err := NewDefault(st, rows)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	b.SetSize(1100, 600)
	return b
}

func TestDragClampsKeepBoundsOrdered(t *testing.T) {
	b := newBoard(t)
	ext := b.Store().Extent()
	if !ext.HasGoals || ext.GoalsMin != 1 || ext.GoalsMax != 8 {
		t.Fatalf("unexpected goals extent %+v", ext)
	}
	goals := []struct {
		min bool
		v   int
	}{{true, 5}, {false, 3}, {true, 9}, {false, -4}, {true, 0}, {false, 20}, {true, 8}, {false, 1}}
	for i, g := range goals {
		if g.min {
			b.DragGoalsMin(g.v)
		} else {
			b.DragGoalsMax(g.v)
		}
		st := b.Store().Snapshot()
		if st.GoalsMin > st.GoalsMax || st.GoalsMin < 1 || st.GoalsMax > 8 {
			t.Fatalf("step %d: goals [%d,%d] out of order or extent", i, st.GoalsMin, st.GoalsMax)
		}
	}

	dates := []struct {
		min bool
		v   time.Time
	}{{true, matchDay(22)}, {false, matchDay(21)}, {true, matchDay(1)}, {false, matchDay(30)}, {true, matchDay(30)}, {false, matchDay(2)}}
	for i, d := range dates {
		if d.min {
			b.DragDateMin(d.v)
		} else {
			b.DragDateMax(d.v)
		}
		st := b.Store().Snapshot()
		if st.DateMin == nil || st.DateMax == nil {
			t.Fatalf("step %d: dates unset", i)
		}
		if st.DateMin.After(*st.DateMax) {
			t.Fatalf("step %d: %v after %v", i, st.DateMin, st.DateMax)
		}
		if st.DateMin.Before(matchDay(20)) || st.DateMax.After(matchDay(23)) {
			t.Fatalf("step %d: [%v,%v] outside extent", i, st.DateMin, st.DateMax)
		}
	}
}

func TestDragDateMinStopsAtUpperHandle(t *testing.T) {
	b := newBoard(t)
	b.DragDateMax(matchDay(21))
	if got := b.DragDateMin(matchDay(23)); !got.Equal(matchDay(21)) {
		t.Fatalf("min handle should stop at max, got %v", got)
	}
}

func TestChooseMainPhaseResetsDetail(t *testing.T) {
	b := newBoard(t)
	if _, err := b.ChooseMainPhase(phase.Group); err != nil {
		t.Fatalf("group: %v", err)
	}
	if err := b.ChooseDetailPhase("Group A"); err != nil {
		t.Fatalf("detail: %v", err)
	}
	if err := b.ChooseDetailPhase("Final"); err == nil {
		t.Fatalf("Final is not offered under group")
	}
	opts, err := b.ChooseMainPhase(phase.Knockout)
	if err != nil {
		t.Fatalf("knockout: %v", err)
	}
	if opts[0] != phase.All || opts[len(opts)-1] != "Final" {
		t.Fatalf("unexpected options %v", opts)
	}
	st := b.Store().Snapshot()
	if st.MainPhase != phase.Knockout || st.DetailPhase != phase.All {
		t.Fatalf("detail should reset: %+v", st)
	}
	if got := b.DetailOptions(); len(got) != len(opts) {
		t.Fatalf("DetailOptions %v vs %v", got, opts)
	}
	if _, err := b.ChooseMainPhase("league"); err == nil {
		t.Fatalf("expected error for unknown phase")
	}
}

func TestRefreshRendersEveryPanel(t *testing.T) {
	b := newBoard(t)
	var seen []string
	b.OnRender(func(p *Panel) { seen = append(seen, p.Chart.Name()) })
	if err := b.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(seen) != len(charts.Names()) {
		t.Fatalf("rendered %v", seen)
	}
	for _, p := range b.Panels() {
		if p.Surface.Len() == 0 || p.Rows != 4 {
			t.Fatalf("%s: %d elements, %d rows", p.Chart.Name(), p.Surface.Len(), p.Rows)
		}
	}
	b.DragGoalsMin(6)
	b.Store().SetKoOnly(true)
	if err := b.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	net, _ := b.Panel(charts.NameNetwork)
	if net.Rows != 1 {
		t.Fatalf("network should keep only the final, got %d rows", net.Rows)
	}
	grid, _ := b.Panel(charts.NameGrid)
	if grid.Rows != 2 {
		t.Fatalf("grid ignores koOnly, want 2 rows, got %d", grid.Rows)
	}
	if err := b.RefreshPanel("nope"); err == nil {
		t.Fatalf("expected unknown panel error")
	}
}

func wedgePoint(t *testing.T, s *charts.Surface, key string) (float64, float64) {
	t.Helper()
	for _, e := range s.Elements() {
		if e.Key == key && e.Kind == charts.KindWedge {
			mid := (e.Start + e.End) / 2
			r := (e.Inner + e.Radius) / 2
			return e.Center.X + r*math.Sin(mid), e.Center.Y - r*math.Cos(mid)
		}
	}
	t.Fatalf("no wedge %q", key)
	return 0, 0
}

func TestActivateThenFilterClosesDetail(t *testing.T) {
	b := newBoard(t)
	if err := b.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	p, _ := b.Panel(charts.NameBubble)
	x, y := wedgePoint(t, p.Surface, "match:1")
	changed, err := b.Activate(charts.NameBubble, x, y)
	if err != nil || !changed {
		t.Fatalf("activate: %v %v", changed, err)
	}
	if !p.Surface.DetailOpen() {
		t.Fatalf("detail panel should be drawn")
	}
	// match 1 has two goals; raising the lower bound drops it
	b.DragGoalsMin(3)
	if err := b.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if p.Surface.DetailOpen() || p.Chart.(charts.Interactive).Detail().State() != charts.Overview {
		t.Fatalf("stale detail should be closed")
	}
	if err := b.Dismiss(charts.NameTopTeams); err != nil {
		t.Fatalf("dismiss on a static chart: %v", err)
	}
	if _, err := b.Activate("nope", 0, 0); err == nil {
		t.Fatalf("expected unknown panel error")
	}
}

func TestRefreshRepairsStalePhaseFromStorage(t *testing.T) {
	cases := []struct {
		raw        string
		bubbleRows int
	}{
		{`{"selectedBubbleMainPhase":"knockout","selectedBubbleDetailPhase":"Group A"}`, 2},
		{`{"selectedBubbleMainPhase":"GROUP","selectedBubbleDetailPhase":"all"}`, 4},
	}
	for _, tc := range cases {
		rows := sampleRows()
		slot := prefstore.NewMemory()
		_ = slot.Set(context.Background(), filterstate.StorageKey, tc.raw)
		st := filterstate.Open(context.Background(), slot, rowsLoader(rows))
		if _, err := st.WaitUntilReady(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
		b, err := NewDefault(st, rows)
		if err != nil {
			t.Fatalf("board: %v", err)
		}
		if err := b.Refresh(); err != nil {
			t.Fatalf("refresh: %v", err)
		}
		bubble, _ := b.Panel(charts.NameBubble)
		if bubble.Rows != tc.bubbleRows {
			t.Fatalf("%s: bubble rows %d, want %d", tc.raw, bubble.Rows, tc.bubbleRows)
		}
		if snap := st.Snapshot(); snap.DetailPhase != phase.All || !phase.ValidMain(snap.MainPhase) {
			t.Fatalf("%s: phase not repaired: %s", tc.raw, snap)
		}
	}
}

func TestRefreshRepairsPhasePairWrittenDirectly(t *testing.T) {
	b := newBoard(t)
	b.Store().SetMainPhase(phase.Knockout)
	b.Store().SetDetailPhase("Group A")
	if err := b.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	bubble, _ := b.Panel(charts.NameBubble)
	net, _ := b.Panel(charts.NameNetwork)
	if bubble.Rows != 2 || net.Rows != 2 {
		t.Fatalf("knockout rows: bubble %d network %d, want 2", bubble.Rows, net.Rows)
	}
	if st := b.Store().Snapshot(); st.MainPhase != phase.Knockout || st.DetailPhase != phase.All {
		t.Fatalf("detail phase should reset: %s", st)
	}
}

func TestSetWindowsReplaceDisjointRanges(t *testing.T) {
	b := newBoard(t)
	b.Store().SetGoalsRange(5, 8)
	if lo, hi := b.SetGoalsWindow(1, 3); lo != 1 || hi != 3 {
		t.Fatalf("goals window %d..%d, want 1..3", lo, hi)
	}
	if lo, hi := b.SetGoalsWindow(0, 40); lo != 1 || hi != 8 {
		t.Fatalf("goals window clamps to extent, got %d..%d", lo, hi)
	}
	if lo, hi := b.SetGoalsWindow(7, 2); lo != 2 || hi != 2 {
		t.Fatalf("inverted window should stop at max, got %d..%d", lo, hi)
	}
	b.Store().SetDateRange(matchDay(20), matchDay(21))
	lo, hi := b.SetDateWindow(matchDay(22), matchDay(23))
	st := b.Store().Snapshot()
	if !lo.Equal(matchDay(22)) || !hi.Equal(matchDay(23)) || !st.DateMin.Equal(matchDay(22)) || !st.DateMax.Equal(matchDay(23)) {
		t.Fatalf("date window %v..%v stored %s", lo, hi, st)
	}
}
