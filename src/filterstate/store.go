package filterstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/applog"
	"github.com/HugoHeilmann/Data-visualisation/src/dataset"
	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

// Loader supplies the rows the bootstrap computes range extents from.
type Loader interface {
	Load(ctx context.Context) ([]dataset.MatchRecord, error)
}

// Extent is the dataset's date and total-goals range, known once the bootstrap succeeded.
type Extent struct {
	DateMin, DateMax   time.Time
	GoalsMin, GoalsMax int
	HasDates, HasGoals bool
}

// writeTimeout bounds one snapshot write so a dead backend cannot stall the UI.
const writeTimeout = 3 * time.Second

// Store is the one shared FilterState of a running board. Construct it once with Open and
// hand the pointer to every panel.
type Store struct {
	mu      sync.Mutex
	st      State
	set     restored
	extent  Extent
	slot    prefstore.Slot
	ready   chan struct{}
	loadErr error
	gen     int                // bumped by every bootstrap; stale ones drop their result
	cancel  context.CancelFunc // stops the running bootstrap
}

// Open restores the persisted snapshot synchronously and starts the bootstrap in the
// background. A stale phase pair in the snapshot is repaired and saved back. A nil loader makes the store ready immediately.
func Open(ctx context.Context, slot prefstore.Slot, loader Loader) *Store {
	if slot == nil {
		slot = prefstore.NewMemory()
	}
	s := &Store{st: Defaults(), slot: slot, ready: make(chan struct{})}
	s.restore(ctx)
	if loader == nil {
		close(s.ready)
		return s
	}
	s.start(ctx, loader)
	return s
}

// Rebootstrap recomputes the extents from another loader, for example after the page
// switched to a different file. A bootstrap still running is cancelled and its result
// dropped. Bounds restored from storage or chosen through a setter are kept; bounds that
// came from the previous extent are replaced.
func (s *Store) Rebootstrap(ctx context.Context, loader Loader) {
	if loader == nil {
		return
	}
	s.start(ctx, loader)
}

func (s *Store) start(ctx context.Context, loader Loader) {
	ctx, cancel := context.WithCancel(ctx)
	ready := make(chan struct{})
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	select {
	case <-s.ready:
		s.ready = ready
	default:
		// waiters on the running bootstrap are released by the new one
		ready = s.ready
	}
	s.loadErr = nil
	s.mu.Unlock()
	go s.bootstrap(ctx, cancel, loader, gen, ready)
}

func (s *Store) restore(ctx context.Context) {
	raw, err := s.slot.Get(ctx, StorageKey)
	if errors.Is(err, prefstore.ErrNotFound) {
		applog.Debugf("[filterstate] no persisted snapshot, using defaults")
		return
	}
	if err != nil {
		applog.Warnf("[filterstate] read snapshot: %v; using defaults", err)
		return
	}
	st, got, err := unmarshal([]byte(raw))
	if err != nil {
		applog.Warnf("[filterstate] corrupt snapshot: %v; using defaults", err)
		return
	}
	got.dateMin, got.dateMax = st.DateMin != nil, st.DateMax != nil
	s.st, s.set = st, got
	if NormalizePhase(&s.st) {
		s.persist()
	}
	applog.Debugf("[filterstate] restored %s", s.st)
}

func (s *Store) bootstrap(ctx context.Context, cancel context.CancelFunc, loader Loader, gen int, ready chan struct{}) {
	defer cancel()
	defer applog.TimeTrack(time.Now(), "filterstate bootstrap")
	rows, err := loader.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		applog.Debugf("[filterstate] bootstrap %d superseded", gen)
		return
	}
	defer close(ready)
	if err != nil {
		applog.Errorf("[filterstate] dataset load failed: %v; keeping fallback bounds", err)
		s.loadErr = err
		return
	}
	var ext Extent
	ext.DateMin, ext.DateMax, ext.HasDates = dataset.DateExtent(rows)
	ext.GoalsMin, ext.GoalsMax, ext.HasGoals = dataset.GoalsExtent(rows)
	s.extent = ext
	s.fillFromExtent()
	if gen > 1 {
		s.persist()
	}
	applog.Infof("[filterstate] ready: %s", s.st)
}

// fillFromExtent resolves bounds that neither storage nor a setter provided. Caller holds mu.
func (s *Store) fillFromExtent() {
	ext := s.extent
	if ext.HasDates {
		if !s.set.dateMin {
			t := ext.DateMin
			s.st.DateMin = &t
		}
		if !s.set.dateMax {
			t := ext.DateMax
			s.st.DateMax = &t
		}
	}
	if ext.HasGoals {
		if !s.set.goalsMin {
			s.st.GoalsMin = ext.GoalsMin
		}
		if !s.set.goalsMax {
			s.st.GoalsMax = ext.GoalsMax
		}
	}
}

// Ready is closed once the bootstrap finished, successfully or not.
func (s *Store) Ready() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// WaitUntilReady blocks until the bootstrap finished. A failed dataset load still resolves;
// only a done ctx returns an error.
func (s *Store) WaitUntilReady(ctx context.Context) (*Store, error) {
	select {
	case <-s.Ready():
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadErr reports the bootstrap failure, if any.
func (s *Store) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Extent returns the dataset bounds computed during the bootstrap.
func (s *Store) Extent() Extent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extent
}

// Snapshot returns a copy of the current selections; read it fresh for every render.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// update applies fn and persists the result while still holding the lock, so no other
// setter can slip between a mutation and its save.
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
	s.persist()
}

// persist writes the snapshot. Caller holds mu. A failed write is logged and the
// in-memory mutation stands.
func (s *Store) persist() {
	b, err := Marshal(s.st)
	if err != nil {
		applog.Errorf("[filterstate] encode snapshot: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.slot.Set(ctx, StorageKey, string(b)); err != nil {
		applog.Errorf("[filterstate] save snapshot: %v", err)
	}
}

// SetDateRange stores both bounds. Callers clamp so min <= max.
func (s *Store) SetDateRange(min, max time.Time) {
	s.update(func(st *State) {
		st.DateMin, st.DateMax = &min, &max
		s.set.dateMin, s.set.dateMax = true, true
	})
}

// SetGoalsRange stores both bounds. Callers clamp so min <= max.
func (s *Store) SetGoalsRange(min, max int) {
	s.update(func(st *State) {
		st.GoalsMin, st.GoalsMax = min, max
		s.set.goalsMin, s.set.goalsMax = true, true
	})
}

// SetCategory stores an opaque category label; CategoryAll clears the filter.
func (s *Store) SetCategory(category string) {
	s.update(func(st *State) { st.Category = category })
}

func (s *Store) SetXAxis(key string) { s.update(func(st *State) { st.XAxis = key }) }
func (s *Store) SetYAxis(key string) { s.update(func(st *State) { st.YAxis = key }) }

func (s *Store) SetBubbleXAxis(key string) { s.update(func(st *State) { st.BubbleXAxis = key }) }
func (s *Store) SetBubbleYAxis(key string) { s.update(func(st *State) { st.BubbleYAxis = key }) }

// SetMainPhase does not touch the detail phase; see phase.ReconcileDetail.
func (s *Store) SetMainPhase(p string) { s.update(func(st *State) { st.MainPhase = p }) }

func (s *Store) SetDetailPhase(p string) { s.update(func(st *State) { st.DetailPhase = p }) }

func (s *Store) SetKoOnly(v bool) { s.update(func(st *State) { st.KoOnly = v }) }

// Reset restores the hard defaults, re-resolves ranges from the known extent and persists.
func (s *Store) Reset() {
	s.update(func(st *State) {
		*st = Defaults()
		s.set = restored{}
		s.fillFromExtent()
	})
}
