package filterstate

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

type stubLoader struct {
	rows  []dataset.MatchRecord
	err   error
	calls int32
	gate  chan struct{}
}

func (l *stubLoader) Load(ctx context.Context) ([]dataset.MatchRecord, error) {
	atomic.AddInt32(&l.calls, 1)
	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return l.rows, l.err
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func match(date time.Time, g1, g2 float64) dataset.MatchRecord {
	return dataset.MatchRecord{Team1: "A", Team2: "B", Date: date, Goals1: g1, Goals2: g2, Category: "Group A"}
}

func waitReady(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.WaitUntilReady(ctx); err != nil {
		t.Fatalf("WaitUntilReady: %v", err)
	}
}

func TestOpen_DefaultsWithoutSnapshot(t *testing.T) {
	s := Open(context.Background(), prefstore.NewMemory(), nil)
	waitReady(t, s)
	if got := s.Snapshot(); !got.Equal(Defaults()) {
		t.Fatalf("got %s want %s", got, Defaults())
	}
}

func TestRoundTrip_AllFields(t *testing.T) {
	slot := prefstore.NewMemory()
	a := Open(context.Background(), slot, nil)
	a.SetDateRange(day(2022, 11, 21), day(2022, 12, 3))
	a.SetGoalsRange(2, 5)
	a.SetCategory("Group C")
	a.SetXAxis("passes_team1")
	a.SetYAxis("passes_team2")
	a.SetBubbleXAxis("corners team1")
	a.SetBubbleYAxis("crosses team2")
	a.SetMainPhase("group")
	a.SetDetailPhase("Group C")
	a.SetKoOnly(true)

	b := Open(context.Background(), slot, nil)
	waitReady(t, b)
	if !b.Snapshot().Equal(a.Snapshot()) {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", b.Snapshot(), a.Snapshot())
	}
	if !b.Snapshot().DateMin.Equal(day(2022, 11, 21)) {
		t.Fatalf("date lost precision: %v", b.Snapshot().DateMin)
	}
}

func TestMarshal_Layout(t *testing.T) {
	st := Defaults()
	d := day(2022, 11, 20)
	st.DateMin = &d
	b, err := Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	want := []string{"dateMax", "dateMin", "goalsMax", "goalsMin", "koOnly", "selectedBubbleDetailPhase",
		"selectedBubbleMainPhase", "selectedBubbleXAxis", "selectedBubbleYAxis", "selectedCategory",
		"selectedXAxis", "selectedYAxis"}
	if len(keys) != len(want) {
		t.Fatalf("keys %v want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys %v want %v", keys, want)
		}
	}
	if m["dateMin"] != "2022-11-20T00:00:00Z" || m["dateMax"] != nil {
		t.Fatalf("date encoding: %v / %v", m["dateMin"], m["dateMax"])
	}
}

func TestUnmarshal_FieldByFieldFallback(t *testing.T) {
	raw := `{"dateMin":"2022-11-20T00:00:00.000Z","dateMax":"yesterday","goalsMin":"abc","goalsMax":7,
		"selectedCategory":5,"koOnly":true,"selectedBubbleMainPhase":"knockout","somethingNew":[1,2]}`
	st, err := Unmarshal([]byte(raw))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.DateMin == nil || !st.DateMin.Equal(day(2022, 11, 20)) {
		t.Fatalf("dateMin %v", st.DateMin)
	}
	if st.DateMax != nil {
		t.Fatalf("bad dateMax should stay nil, got %v", st.DateMax)
	}
	if st.GoalsMin != DefaultGoalsMin || st.GoalsMax != 7 {
		t.Fatalf("goals %d..%d", st.GoalsMin, st.GoalsMax)
	}
	if st.Category != CategoryAll || !st.KoOnly || st.MainPhase != "knockout" || st.XAxis != DefaultXAxis {
		t.Fatalf("unexpected state %s", st)
	}
}

func TestOpen_CorruptSnapshotUsesDefaults(t *testing.T) {
	slot := prefstore.NewMemory()
	_ = slot.Set(context.Background(), StorageKey, "{not json")
	s := Open(context.Background(), slot, nil)
	if !s.Snapshot().Equal(Defaults()) {
		t.Fatalf("expected defaults, got %s", s.Snapshot())
	}
}

func TestBootstrap_FillsUnsetBoundsFromDataset(t *testing.T) {
	loader := &stubLoader{rows: []dataset.MatchRecord{
		match(day(2022, 11, 20), 0, 2),
		match(day(2022, 12, 18), 3, 3),
		match(time.Time{}, 9, 9), // bad date still counts for goals
	}}
	s := Open(context.Background(), prefstore.NewMemory(), loader)
	waitReady(t, s)
	st := s.Snapshot()
	if st.DateMin == nil || !st.DateMin.Equal(day(2022, 11, 20)) || !st.DateMax.Equal(day(2022, 12, 18)) {
		t.Fatalf("dates not resolved: %s", st)
	}
	if st.GoalsMin != 2 || st.GoalsMax != 18 {
		t.Fatalf("goals not resolved: %s", st)
	}
}

func TestBootstrap_PersistedBoundsWin(t *testing.T) {
	slot := prefstore.NewMemory()
	_ = slot.Set(context.Background(), StorageKey, `{"dateMin":"2022-11-25T00:00:00Z","goalsMin":1}`)
	loader := &stubLoader{rows: []dataset.MatchRecord{match(day(2022, 11, 20), 0, 0), match(day(2022, 12, 18), 4, 4)}}
	s := Open(context.Background(), slot, loader)
	waitReady(t, s)
	st := s.Snapshot()
	if !st.DateMin.Equal(day(2022, 11, 25)) {
		t.Fatalf("persisted dateMin overwritten: %v", st.DateMin)
	}
	if !st.DateMax.Equal(day(2022, 12, 18)) {
		t.Fatalf("unset dateMax should come from extent: %v", st.DateMax)
	}
	if st.GoalsMin != 1 || st.GoalsMax != 8 {
		t.Fatalf("goals %d..%d", st.GoalsMin, st.GoalsMax)
	}
}

func TestWaitUntilReady_ResolvesOnLoadFailure(t *testing.T) {
	loader := &stubLoader{err: errors.New("csv gone")}
	s := Open(context.Background(), prefstore.NewMemory(), loader)
	waitReady(t, s)
	st := s.Snapshot()
	if st.DateMin != nil || st.DateMax != nil || st.GoalsMin != DefaultGoalsMin || st.GoalsMax != DefaultGoalsMax {
		t.Fatalf("expected fallback bounds, got %s", st)
	}
	if s.LoadErr() == nil {
		t.Fatalf("load error should be recorded")
	}
}

func TestWaitUntilReady_SingleLoadManyWaiters(t *testing.T) {
	loader := &stubLoader{gate: make(chan struct{}), rows: []dataset.MatchRecord{match(day(2022, 11, 20), 1, 1)}}
	s := Open(context.Background(), prefstore.NewMemory(), loader)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.WaitUntilReady(context.Background()); err != nil {
				t.Errorf("waiter: %v", err)
			}
		}()
	}
	close(loader.gate)
	wg.Wait()
	if n := atomic.LoadInt32(&loader.calls); n != 1 {
		t.Fatalf("dataset loaded %d times", n)
	}
}

func TestWaitUntilReady_ContextCancelled(t *testing.T) {
	loader := &stubLoader{gate: make(chan struct{})}
	defer close(loader.gate)
	s := Open(context.Background(), prefstore.NewMemory(), loader)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.WaitUntilReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestSetter_PersistsImmediately(t *testing.T) {
	slot := prefstore.NewMemory()
	s := Open(context.Background(), slot, nil)
	s.SetCategory("Group A")
	raw, err := slot.Get(context.Background(), StorageKey)
	if err != nil {
		t.Fatalf("nothing persisted: %v", err)
	}
	st, err := Unmarshal([]byte(raw))
	if err != nil || st.Category != "Group A" {
		t.Fatalf("persisted %q err=%v", raw, err)
	}
}

type failingSlot struct{ *prefstore.Memory }

func (failingSlot) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestSetter_SaveFailureKeepsMutation(t *testing.T) {
	s := Open(context.Background(), &failingSlot{Memory: prefstore.NewMemory()}, nil)
	s.SetKoOnly(true)
	if !s.Snapshot().KoOnly {
		t.Fatalf("mutation lost after failed save")
	}
}

func TestSetGoalsRange_BeforeBootstrapWins(t *testing.T) {
	loader := &stubLoader{gate: make(chan struct{}), rows: []dataset.MatchRecord{match(day(2022, 11, 20), 0, 7)}}
	s := Open(context.Background(), prefstore.NewMemory(), loader)
	s.SetGoalsRange(3, 4)
	close(loader.gate)
	waitReady(t, s)
	if st := s.Snapshot(); st.GoalsMin != 3 || st.GoalsMax != 4 {
		t.Fatalf("bootstrap overwrote user range: %s", st)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := Open(context.Background(), prefstore.NewMemory(), nil)
	s.SetDateRange(day(2022, 11, 20), day(2022, 11, 30))
	snap := s.Snapshot()
	*snap.DateMin = day(1999, 1, 1)
	if s.Snapshot().DateMin.Year() != 2022 {
		t.Fatalf("snapshot aliases store state")
	}
}

func TestReset(t *testing.T) {
	loader := &stubLoader{rows: []dataset.MatchRecord{match(day(2022, 11, 20), 1, 2)}}
	s := Open(context.Background(), prefstore.NewMemory(), loader)
	waitReady(t, s)
	s.SetCategory("Final")
	s.SetGoalsRange(0, 1)
	s.Reset()
	st := s.Snapshot()
	if st.Category != CategoryAll || st.GoalsMin != 3 || st.GoalsMax != 3 || st.DateMin == nil {
		t.Fatalf("reset state %s", st)
	}
}

func TestOpen_RepairsStalePhaseSelection(t *testing.T) {
	cases := []struct {
		raw          string
		main, detail string
	}{
		{`{"selectedBubbleMainPhase":"knockout","selectedBubbleDetailPhase":"Group A"}`, "knockout", "all"},
		{`{"selectedBubbleMainPhase":"GROUP","selectedBubbleDetailPhase":"Group A"}`, "all", "all"},
		{`{"selectedBubbleMainPhase":"group","selectedBubbleDetailPhase":"group c"}`, "group", "Group C"},
	}
	for _, tc := range cases {
		slot := prefstore.NewMemory()
		_ = slot.Set(context.Background(), StorageKey, tc.raw)
		s := Open(context.Background(), slot, nil)
		st := s.Snapshot()
		if st.MainPhase != tc.main || st.DetailPhase != tc.detail {
			t.Fatalf("%s: got %s/%s want %s/%s", tc.raw, st.MainPhase, st.DetailPhase, tc.main, tc.detail)
		}
		raw, _ := slot.Get(context.Background(), StorageKey)
		saved, err := Unmarshal([]byte(raw))
		if err != nil || saved.MainPhase != tc.main || saved.DetailPhase != tc.detail {
			t.Fatalf("%s: repair not persisted: %q", tc.raw, raw)
		}
	}
}

func TestRebootstrap_ReplacesExtentAndDropsStaleLoad(t *testing.T) {
	first := &stubLoader{gate: make(chan struct{}), rows: []dataset.MatchRecord{match(day(2018, 6, 14), 5, 0)}}
	s := Open(context.Background(), prefstore.NewMemory(), first)
	second := &stubLoader{rows: []dataset.MatchRecord{
		match(day(2022, 11, 20), 0, 2),
		match(day(2022, 12, 18), 3, 3),
	}}
	s.Rebootstrap(context.Background(), second)
	waitReady(t, s)
	st := s.Snapshot()
	if !st.DateMin.Equal(day(2022, 11, 20)) || !st.DateMax.Equal(day(2022, 12, 18)) || st.GoalsMin != 2 || st.GoalsMax != 6 {
		t.Fatalf("extent not from second loader: %s", st)
	}
	if s.LoadErr() != nil {
		t.Fatalf("cancelled first load should not be recorded: %v", s.LoadErr())
	}
	if n := atomic.LoadInt32(&second.calls); n != 1 {
		t.Fatalf("second loader called %d times", n)
	}
}

func TestRebootstrap_KeepsChosenBounds(t *testing.T) {
	s := Open(context.Background(), prefstore.NewMemory(), &stubLoader{rows: []dataset.MatchRecord{match(day(2022, 11, 20), 1, 1)}})
	waitReady(t, s)
	s.SetGoalsRange(1, 1)
	s.Rebootstrap(context.Background(), &stubLoader{rows: []dataset.MatchRecord{
		match(day(2018, 6, 14), 0, 0),
		match(day(2018, 7, 15), 4, 2),
	}})
	waitReady(t, s)
	st := s.Snapshot()
	if st.GoalsMin != 1 || st.GoalsMax != 1 {
		t.Fatalf("chosen goals replaced: %s", st)
	}
	if !st.DateMin.Equal(day(2018, 6, 14)) || !st.DateMax.Equal(day(2018, 7, 15)) {
		t.Fatalf("extent-derived dates should follow the new dataset: %s", st)
	}
}
