package charts

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const arcSegments = 48

// Raster paints every element in order onto a fresh RGBA image.
func (s *Surface) Raster() *image.RGBA {
	w, h := s.W, s.H
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
	for _, e := range s.elems {
		paintElement(dst, e)
	}
	return dst
}

func paintElement(dst *image.RGBA, e Element) {
	switch e.Kind {
	case KindRect:
		if e.Fill.A > 0 {
			draw.Draw(dst, e.Rect, image.NewUniform(e.Fill), image.Point{}, draw.Over)
		}
		if e.Stroke.A > 0 && e.StrokeWidth > 0 {
			r := e.Rect
			c := []Pt{
				{float64(r.Min.X), float64(r.Min.Y)}, {float64(r.Max.X), float64(r.Min.Y)},
				{float64(r.Max.X), float64(r.Max.Y)}, {float64(r.Min.X), float64(r.Max.Y)},
				{float64(r.Min.X), float64(r.Min.Y)},
			}
			strokePath(dst, c, e.Stroke, e.StrokeWidth)
		}
	case KindCircle:
		pts := arcPoints(e.Center, e.Radius, 0, 2*math.Pi)
		if e.Fill.A > 0 {
			fillPolygon(dst, pts, e.Fill)
		}
		if e.Stroke.A > 0 && e.StrokeWidth > 0 {
			strokePath(dst, append(pts, pts[0]), e.Stroke, e.StrokeWidth)
		}
	case KindWedge:
		outer := arcPoints(e.Center, e.Radius, e.Start, e.End)
		var inner []Pt
		if e.Inner > 0 {
			inner = arcPoints(e.Center, e.Inner, e.Start, e.End)
		} else {
			inner = []Pt{e.Center}
		}
		poly := outer
		for i := len(inner) - 1; i >= 0; i-- {
			poly = append(poly, inner[i])
		}
		fillPolygon(dst, poly, e.Fill)
	case KindLine, KindPolyline:
		strokePath(dst, e.Pts, e.Stroke, e.StrokeWidth)
	case KindText:
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(e.Fill),
			Face: textFace,
			Dot:  fixed.Point26_6{X: fixed.I(e.Rect.Min.X), Y: fixed.I(e.Rect.Max.Y - textFace.Metrics().Descent.Ceil())},
		}
		d.DrawString(e.Text)
	case KindImage:
		if e.Img != nil {
			draw.Draw(dst, e.Rect, e.Img, e.Img.Bounds().Min, draw.Over)
		}
	}
}

// arcPoints samples a clockwise arc starting at 12 o'clock.
func arcPoints(c Pt, r, start, end float64) []Pt {
	n := int(math.Ceil(float64(arcSegments) * (end - start) / (2 * math.Pi)))
	if n < 2 {
		n = 2
	}
	out := make([]Pt, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + (end-start)*float64(i)/float64(n)
		out = append(out, Pt{c.X + r*math.Sin(a), c.Y - r*math.Cos(a)})
	}
	return out
}

func fillPolygon(dst *image.RGBA, pts []Pt, col color.RGBA) {
	if len(pts) < 3 || col.A == 0 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}

// strokePath draws each segment as a filled quad of the given width.
func strokePath(dst *image.RGBA, pts []Pt, col color.RGBA, width float64) {
	if width <= 0 {
		width = 1
	}
	hw := width / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		fillPolygon(dst, []Pt{{a.X + nx, a.Y + ny}, {b.X + nx, b.Y + ny}, {b.X - nx, b.Y - ny}, {a.X - nx, a.Y - ny}}, col)
	}
}
