package render

import (
	"image/color"

	"github.com/matzehuels/bddview/pkg/geom"
)

// OpKind names a surface primitive.
type OpKind string

const (
	OpResize   OpKind = "resize"
	OpClear    OpKind = "clear"
	OpCircle   OpKind = "circle"
	OpText     OpKind = "text"
	OpLine     OpKind = "line"
	OpTriangle OpKind = "triangle"
)

// Op is one recorded primitive. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	Points []geom.Point
	R      float64
	W, H   float64
	Text   string
	Fill   color.Color
	Stroke color.Color
}

// Recorder is a [Surface] that keeps every primitive in order.
// The zero value is an empty 0x0 surface.
type Recorder struct {
	w, h float64
	Ops  []Op
}

// NewRecorder returns a recorder of the given size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h}
}

func (r *Recorder) Size() (float64, float64) { return r.w, r.h }

func (r *Recorder) Resize(w, h float64) {
	r.w, r.h = w, h
	r.Ops = append(r.Ops, Op{Kind: OpResize, W: w, H: h})
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Points: []geom.Point{{X: x, Y: y}}, W: w, H: h})
}

func (r *Recorder) Circle(center geom.Point, radius float64, fill, stroke color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, Points: []geom.Point{center}, R: radius, Fill: fill, Stroke: stroke})
}

func (r *Recorder) Text(at geom.Point, s string, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Points: []geom.Point{at}, Text: s, Fill: c})
}

func (r *Recorder) Line(from, to geom.Point, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: []geom.Point{from, to}, Stroke: c})
}

func (r *Recorder) Triangle(a, b, c geom.Point, fill color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpTriangle, Points: []geom.Point{a, b, c}, Fill: fill})
}

// Count returns the number of recorded ops of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the recorded ops of the given kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops every recorded op, keeping the size.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
