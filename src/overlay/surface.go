package overlay

import (
	"image"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"region-clicker/src/region"
	"region-clicker/src/selection"
)

const (
	dashLen = 6
	gapLen  = 4
)

var (
	outlineColor = color.NRGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff}
	labelColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelBack    = color.NRGBA{A: 0xc0}
	plainBack    = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

// surface is the full-window widget that turns pointer events into
// tracker calls. Pointer positions are converted to screen pixels using
// the canvas scale and the display origin.
type surface struct {
	widget.BaseWidget

	tracker  *selection.Tracker
	origin   image.Point
	scale    float32
	backdrop image.Image
	onFinish func(selection.Outcome)
	finished bool
	last     region.Point
}

var (
	_ desktop.Mouseable  = (*surface)(nil)
	_ desktop.Hoverable  = (*surface)(nil)
	_ desktop.Cursorable = (*surface)(nil)
	_ fyne.Draggable     = (*surface)(nil)
)

func newSurface(t *selection.Tracker, origin image.Point, backdrop image.Image, onFinish func(selection.Outcome)) *surface {
	s := &surface{tracker: t, origin: origin, scale: 1, backdrop: backdrop, onFinish: onFinish}
	s.ExtendBaseWidget(s)
	return s
}

func (s *surface) setScale(scale float32) {
	if scale > 0 {
		s.scale = scale
	}
}

func (s *surface) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

func (s *surface) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p := toPixel(ev.Position, s.scale, s.origin)
	s.last = p
	s.tracker.Begin(p)
	s.Refresh()
}

func (s *surface) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	s.end(toPixel(ev.Position, s.scale, s.origin))
}

func (s *surface) MouseIn(*desktop.MouseEvent) {}
func (s *surface) MouseOut()                   {}

func (s *surface) MouseMoved(ev *desktop.MouseEvent) {
	s.move(toPixel(ev.Position, s.scale, s.origin))
}

func (s *surface) Dragged(ev *fyne.DragEvent) {
	s.move(toPixel(ev.Position, s.scale, s.origin))
}

func (s *surface) DragEnd() { s.end(s.last) }

func (s *surface) move(p region.Point) {
	s.last = p
	if s.tracker.Move(p) {
		s.Refresh()
	}
}

// cancel ends the gesture as Cancelled (Escape or window close).
func (s *surface) cancel() {
	if s.finished {
		return
	}
	s.tracker.Cancel()
	s.finished = true
	s.Refresh()
	if s.onFinish != nil {
		s.onFinish(selection.Cancelled)
	}
}

func (s *surface) end(p region.Point) {
	if s.finished || !s.tracker.Selecting() {
		return
	}
	out := s.tracker.End(p)
	s.finished = true
	s.Refresh()
	if s.onFinish != nil {
		s.onFinish(out)
	}
}

func (s *surface) CreateRenderer() fyne.WidgetRenderer {
	r := &surfaceRenderer{s: s, labelBox: canvas.NewRectangle(labelBack)}
	if s.backdrop != nil {
		img := canvas.NewImageFromImage(s.backdrop)
		img.FillMode = canvas.ImageFillStretch
		r.background = img
	} else {
		r.background = canvas.NewRectangle(plainBack)
	}
	r.Refresh()
	return r
}

type surfaceRenderer struct {
	s          *surface
	background fyne.CanvasObject
	lines      []*canvas.Line
	labelBox   *canvas.Rectangle
	labels     []*canvas.Text
	size       fyne.Size
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.size = size
	r.background.Resize(size)
	r.background.Move(fyne.NewPos(0, 0))
}

func (r *surfaceRenderer) MinSize() fyne.Size { return fyne.NewSize(1, 1) }

func (r *surfaceRenderer) Refresh() {
	r.lines = r.lines[:0]
	r.labels = r.labels[:0]
	r.labelBox.Hide()

	if cur, ok := r.s.tracker.Current(); ok {
		for _, seg := range selection.DashSegments(cur, dashLen, gapLen) {
			l := canvas.NewLine(outlineColor)
			l.StrokeWidth = 2
			l.Position1 = toCanvas(seg.From, r.s.scale, r.s.origin)
			l.Position2 = toCanvas(seg.To, r.s.scale, r.s.origin)
			r.lines = append(r.lines, l)
		}
		r.layoutLabel(cur)
	}
	canvas.Refresh(r.s)
}

func (r *surfaceRenderer) layoutLabel(cur region.Region) {
	pos := toCanvas(region.Point{X: cur.X1, Y: cur.Y1}, r.s.scale, r.s.origin)
	pos = pos.Add(fyne.NewPos(4, 4))
	var width, height float32
	for i, line := range strings.Split(r.s.tracker.Label(), "\n") {
		t := canvas.NewText(line, labelColor)
		t.TextSize = 13
		if i == 0 {
			t.TextStyle = fyne.TextStyle{Bold: true}
		}
		ms := t.MinSize()
		t.Move(pos.Add(fyne.NewPos(4, height+2)))
		t.Resize(ms)
		height += ms.Height
		if ms.Width > width {
			width = ms.Width
		}
		r.labels = append(r.labels, t)
	}
	r.labelBox.Move(pos)
	r.labelBox.Resize(fyne.NewSize(width+8, height+4))
	r.labelBox.Show()
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, 2+len(r.lines)+len(r.labels))
	objs = append(objs, r.background)
	for _, l := range r.lines {
		objs = append(objs, l)
	}
	objs = append(objs, r.labelBox)
	for _, t := range r.labels {
		objs = append(objs, t)
	}
	return objs
}

func (r *surfaceRenderer) Destroy() {}

// toPixel maps a canvas position (device independent) to absolute screen pixels.
func toPixel(pos fyne.Position, scale float32, origin image.Point) region.Point {
	if scale <= 0 {
		scale = 1
	}
	return region.Point{
		X: origin.X + int(pos.X*scale+0.5),
		Y: origin.Y + int(pos.Y*scale+0.5),
	}
}

func toCanvas(p region.Point, scale float32, origin image.Point) fyne.Position {
	if scale <= 0 {
		scale = 1
	}
	return fyne.NewPos(float32(p.X-origin.X)/scale, float32(p.Y-origin.Y)/scale)
}
