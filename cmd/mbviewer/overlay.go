package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/HugoHeilmann/Data-visualisation/src/applog"
)

// computeContainRect returns where an imgW x imgH image lands inside a viewW x viewH
// area with ImageFillContain: the draw origin, drawn size and the view/image scale.
func computeContainRect(imgW, imgH, viewW, viewH float32) (drawX, drawY, drawW, drawH, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 0
	}
	scale = viewW / imgW
	if s := viewH / imgH; s < scale {
		scale = s
	}
	drawW = imgW * scale
	drawH = imgH * scale
	drawX = (viewW - drawW) / 2
	drawY = (viewH - drawH) / 2
	return drawX, drawY, drawW, drawH, scale
}

// viewToImage maps a position inside the view back to image pixels. ok is false when the
// position falls on the letterbox around the image.
func viewToImage(imgW, imgH, viewW, viewH, x, y float32) (float32, float32, bool) {
	dx, dy, dw, dh, scale := computeContainRect(imgW, imgH, viewW, viewH)
	if scale == 0 || x < dx || y < dy || x >= dx+dw || y >= dy+dh {
		return 0, 0, false
	}
	return (x - dx) / scale, (y - dy) / scale, true
}

// tapOverlay sits above a chart image and turns taps into detail activations.
type tapOverlay struct {
	widget.BaseWidget
	state *uiState
	panel string
	img   *canvas.Image
}

func newTapOverlay(state *uiState, panel string, img *canvas.Image) *tapOverlay {
	o := &tapOverlay{state: state, panel: panel, img: img}
	o.ExtendBaseWidget(o)
	return o
}

func (o *tapOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background so the whole area receives taps
	bg := canvas.NewRectangle(color.RGBA{})
	return widget.NewSimpleRenderer(bg)
}

func (o *tapOverlay) Tapped(ev *fyne.PointEvent) {
	st := o.state
	if st == nil || st.board == nil || o.img == nil || o.img.Image == nil {
		return
	}
	b := o.img.Image.Bounds()
	sz := o.Size()
	x, y, ok := viewToImage(float32(b.Dx()), float32(b.Dy()), sz.Width, sz.Height, ev.Position.X, ev.Position.Y)
	if !ok {
		if err := st.board.Dismiss(o.panel); err != nil {
			applog.Warnf("[viewer] dismiss %s: %v", o.panel, err)
		}
		return
	}
	if _, err := st.board.Activate(o.panel, float64(x), float64(y)); err != nil {
		applog.Warnf("[viewer] activate %s: %v", o.panel, err)
	}
}

// Cursor shows a pointer over interactive charts.
func (o *tapOverlay) Cursor() desktop.Cursor { return desktop.PointerCursor }

var (
	_ fyne.Tappable      = (*tapOverlay)(nil)
	_ desktop.Cursorable = (*tapOverlay)(nil)
)
