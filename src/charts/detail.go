package charts

// DetailState is the drill-down state of one interactive chart.
type DetailState int

const (
	Overview DetailState = iota
	DetailOpen
)

func (d DetailState) String() string {
	if d == DetailOpen {
		return "detail-open"
	}
	return "overview"
}

// Detail is the drill-down panel state owned by a single chart instance.
type Detail struct {
	state DetailState
	key   string
}

func (d *Detail) State() DetailState { return d.state }

// Key returns the selected entity while a detail panel is open.
func (d *Detail) Key() (string, bool) {
	if d.state != DetailOpen {
		return "", false
	}
	return d.key, true
}

// Activate opens the panel for key, or re-targets an open panel.
func (d *Detail) Activate(key string) {
	if key == "" {
		return
	}
	d.state, d.key = DetailOpen, key
}

// Dismiss closes the panel.
func (d *Detail) Dismiss() { d.state, d.key = Overview, "" }

// Reconcile closes the panel when its entity is no longer drawn. It reports whether it closed.
func (d *Detail) Reconcile(present map[string]struct{}) bool {
	if d.state != DetailOpen {
		return false
	}
	if _, ok := present[d.key]; ok {
		return false
	}
	d.Dismiss()
	return true
}

// Interactive charts own a Detail and support drill-down.
type Interactive interface {
	Chart
	Detail() *Detail
}

// Click routes a pointer activation at (x, y) on s to c's detail state. It reports
// whether the state changed and c must be re-rendered.
func Click(c Chart, s *Surface, x, y float64) bool {
	ic, ok := c.(Interactive)
	if !ok {
		return false
	}
	d := ic.Detail()
	e, hit := s.HitTest(x, y)
	switch {
	case hit && e.Detail:
		return false
	case hit && e.Key != "":
		if k, open := d.Key(); open && k == e.Key {
			return false
		}
		d.Activate(e.Key)
		return true
	case d.State() == DetailOpen:
		d.Dismiss()
		return true
	}
	return false
}
