package charts

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Kind is the primitive type of a drawn element.
type Kind int

const (
	KindRect Kind = iota
	KindCircle
	KindWedge
	KindLine
	KindPolyline
	KindText
	KindImage
)

// Anchor aligns text horizontally around its x position.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Pt is a point in surface pixels.
type Pt struct{ X, Y float64 }

// Element is one retained drawing primitive. Elements with a Key are data marks
// that can be activated; Detail marks the element as part of an open detail panel.
type Element struct {
	Kind        Kind
	Key         string
	Detail      bool
	Fill        color.RGBA // zero alpha: no fill
	Stroke      color.RGBA
	StrokeWidth float64
	Rect        image.Rectangle // rect, text and image bounds
	Pts         []Pt            // line and polyline vertices
	Center      Pt
	Radius      float64
	Inner       float64 // wedge inner radius
	Start, End  float64 // wedge angles in radians, clockwise from 12 o'clock
	Text        string
	Img         image.Image
}

// AxisInfo describes the scale a chart used for one axis on its last render.
type AxisInfo struct {
	Key      string
	Min, Max float64
}

// Surface is the container a chart renders into: a retained list of elements that
// can be hit-tested and rasterized. Render implementations start with Clear.
type Surface struct {
	ID         string
	W, H       int
	Background color.RGBA

	elems  []Element
	detail bool
	xAxis  AxisInfo
	yAxis  AxisInfo
}

var textFace font.Face = basicfont.Face7x13

// NewSurface creates an empty surface of the given size.
func NewSurface(w, h int) *Surface {
	return &Surface{ID: uuid.NewString(), W: w, H: h, Background: colBackground}
}

// Clear drops every element and the recorded axes.
func (s *Surface) Clear() {
	s.elems = s.elems[:0]
	s.detail = false
	s.xAxis, s.yAxis = AxisInfo{}, AxisInfo{}
}

// Resize changes the raster size; existing elements are kept.
func (s *Surface) Resize(w, h int) {
	if w > 0 {
		s.W = w
	}
	if h > 0 {
		s.H = h
	}
}

func (s *Surface) Len() int { return len(s.elems) }

// Elements returns a copy of the element list in paint order.
func (s *Surface) Elements() []Element { return append([]Element(nil), s.elems...) }

// Count returns the number of elements of a kind.
func (s *Surface) Count(k Kind) int {
	n := 0
	for _, e := range s.elems {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Keys returns the distinct data keys currently drawn outside the detail panel.
func (s *Surface) Keys() map[string]struct{} {
	out := map[string]struct{}{}
	for _, e := range s.elems {
		if e.Key != "" && !e.Detail {
			out[e.Key] = struct{}{}
		}
	}
	return out
}

// DetailOpen reports whether any detail element is drawn.
func (s *Surface) DetailOpen() bool {
	for _, e := range s.elems {
		if e.Detail {
			return true
		}
	}
	return false
}

func (s *Surface) SetAxes(x, y AxisInfo) { s.xAxis, s.yAxis = x, y }

func (s *Surface) Axes() (x, y AxisInfo) { return s.xAxis, s.yAxis }

// WithDetail runs fn with every added element flagged as part of the detail panel.
func (s *Surface) WithDetail(fn func()) {
	prev := s.detail
	s.detail = true
	defer func() { s.detail = prev }()
	fn()
}

// Add appends e.
func (s *Surface) Add(e Element) {
	if s.detail {
		e.Detail = true
	}
	s.elems = append(s.elems, e)
}

func (s *Surface) FillRect(key string, r image.Rectangle, fill color.RGBA) {
	s.Add(Element{Kind: KindRect, Key: key, Rect: r, Fill: fill})
}

func (s *Surface) Box(key string, r image.Rectangle, fill, stroke color.RGBA, width float64) {
	s.Add(Element{Kind: KindRect, Key: key, Rect: r, Fill: fill, Stroke: stroke, StrokeWidth: width})
}

func (s *Surface) Circle(key string, c Pt, r float64, fill, stroke color.RGBA, width float64) {
	s.Add(Element{Kind: KindCircle, Key: key, Center: c, Radius: r, Fill: fill, Stroke: stroke, StrokeWidth: width})
}

func (s *Surface) Wedge(key string, c Pt, inner, outer, start, end float64, fill color.RGBA) {
	s.Add(Element{Kind: KindWedge, Key: key, Center: c, Inner: inner, Radius: outer, Start: start, End: end, Fill: fill})
}

func (s *Surface) Line(key string, a, b Pt, col color.RGBA, width float64) {
	s.Add(Element{Kind: KindLine, Key: key, Pts: []Pt{a, b}, Stroke: col, StrokeWidth: width})
}

func (s *Surface) Polyline(key string, pts []Pt, col color.RGBA, width float64) {
	s.Add(Element{Kind: KindPolyline, Key: key, Pts: append([]Pt(nil), pts...), Stroke: col, StrokeWidth: width})
}

// Text places a label with its baseline at y.
func (s *Surface) Text(x, y float64, text string, col color.RGBA, anchor Anchor) {
	w := font.MeasureString(textFace, text).Ceil()
	x0 := int(math.Round(x))
	switch anchor {
	case AnchorMiddle:
		x0 -= w / 2
	case AnchorEnd:
		x0 -= w
	}
	m := textFace.Metrics()
	y0 := int(math.Round(y))
	r := image.Rect(x0, y0-m.Ascent.Ceil(), x0+w, y0+m.Descent.Ceil())
	s.Add(Element{Kind: KindText, Rect: r, Text: text, Fill: col})
}

// Image places a raster (typically a go-chart PNG) at r.
func (s *Surface) Image(r image.Rectangle, img image.Image) {
	s.Add(Element{Kind: KindImage, Rect: r, Img: img})
}

// HitTest returns the topmost element under (x, y) that is either a data mark or part
// of the detail panel.
func (s *Surface) HitTest(x, y float64) (Element, bool) {
	p := Pt{x, y}
	for i := len(s.elems) - 1; i >= 0; i-- {
		e := s.elems[i]
		if e.Key == "" && !e.Detail {
			continue
		}
		if e.contains(p) {
			return e, true
		}
	}
	return Element{}, false
}

const hitSlop = 4.0

func (e Element) contains(p Pt) bool {
	switch e.Kind {
	case KindRect, KindText, KindImage:
		return p.X >= float64(e.Rect.Min.X) && p.X < float64(e.Rect.Max.X) &&
			p.Y >= float64(e.Rect.Min.Y) && p.Y < float64(e.Rect.Max.Y)
	case KindCircle:
		return math.Hypot(p.X-e.Center.X, p.Y-e.Center.Y) <= e.Radius
	case KindWedge:
		d := math.Hypot(p.X-e.Center.X, p.Y-e.Center.Y)
		if d < e.Inner || d > e.Radius {
			return false
		}
		a := math.Atan2(p.X-e.Center.X, -(p.Y - e.Center.Y))
		if a < 0 {
			a += 2 * math.Pi
		}
		start := math.Mod(e.Start, 2*math.Pi)
		if start < 0 {
			start += 2 * math.Pi
		}
		span := e.End - e.Start
		rel := a - start
		if rel < 0 {
			rel += 2 * math.Pi
		}
		return rel <= span
	case KindLine, KindPolyline:
		for i := 1; i < len(e.Pts); i++ {
			if segmentDistance(p, e.Pts[i-1], e.Pts[i]) <= math.Max(hitSlop, e.StrokeWidth/2) {
				return true
			}
		}
	}
	return false
}

func segmentDistance(p, a, b Pt) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// EncodePNG rasterizes the surface and writes it as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.Raster())
}
