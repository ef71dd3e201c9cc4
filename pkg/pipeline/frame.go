package pipeline

import (
	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/geom"
	"github.com/matzehuels/bddview/pkg/graph"
	"github.com/matzehuels/bddview/pkg/layout"
	"github.com/matzehuels/bddview/pkg/render"
)

// Size is a surface size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Frame is a planned pass: the surface size after fitting, the horizontal
// shift that centers the drawing, and the layout it was computed from.
type Frame struct {
	Size
	Offset float64
	Layout layout.Result
	// Grew is set when Size is larger than the size the frame was planned for.
	Grew bool
}

// Plan lays d out for a surface of the given size and fits the surface
// around the result. The surface only grows: each dimension is the larger of
// the old value and what the drawing needs with Padding around it. The
// drawing is then centered horizontally.
//
// An empty diagram keeps the size and gets no offset.
func Plan(d *bdd.Diagram, size Size) Frame {
	res := layout.Compute(d, size.Width)
	f := Frame{Size: size, Layout: res}
	if res.Bounds.Empty {
		return f
	}

	span := res.Bounds.Width()
	f.Width = max(size.Width, span+2*Padding)
	f.Height = max(size.Height, res.Bounds.MaxY+Padding)
	f.Offset = (f.Width-span)/2 - res.Bounds.MinX
	f.Grew = f.Width > size.Width || f.Height > size.Height
	return f
}

// Paint sizes s to the frame, clears it and draws d at the frame's positions.
func Paint(s render.Surface, d *bdd.Diagram, f Frame) {
	s.Resize(f.Width, f.Height)
	s.ClearRect(0, 0, f.Width, f.Height)
	render.Draw(s, d, f.Layout.Positions, f.Offset)
}

// Pass plans d for the current size of s and paints it.
func Pass(s render.Surface, d *bdd.Diagram) Frame {
	w, h := s.Size()
	f := Plan(d, Size{Width: w, Height: h})
	Paint(s, d, f)
	return f
}

// Startup draws the built-in example on s. Every input front end calls it
// before the first submission.
func Startup(s render.Surface) Frame {
	return Pass(s, bdd.Example())
}

// Unreachable lists an Unreachable diagnostic for every node the frame did not
// place.
func (f Frame) Unreachable() bdd.Diagnostics {
	var out bdd.Diagnostics
	for _, i := range f.Layout.Unplaced {
		out = append(out, bdd.UnreachableAt(i))
	}
	return out
}

// Export serializes the frame for d.
func (f Frame) Export(d *bdd.Diagram, vizType, dotSrc string) graph.Layout {
	if vizType == graph.VizTypeGraphviz {
		return graph.FromDOT(d, dotSrc, f.Width, f.Height)
	}
	return graph.FromDiagram(d, f.Layout.Positions, f.Width, f.Height, f.Offset)
}

// FrameOf rebuilds a frame from a serialized layout. Positions are shifted
// back by the stored offset so that painting reproduces the saved drawing.
func FrameOf(l graph.Layout) Frame {
	f := Frame{
		Size:   Size{Width: l.Width, Height: l.Height},
		Offset: l.OffsetX,
		Layout: layout.Result{
			Positions: make(map[bdd.ID]geom.Point),
			Bounds:    geom.EmptyBounds(),
		},
	}
	for id, p := range l.Positions() {
		q := p.Add(-l.OffsetX, 0)
		f.Layout.Positions[id] = q
		f.Layout.Bounds = f.Layout.Bounds.Extend(q)
	}
	for _, n := range l.Nodes {
		if !n.Placed {
			f.Layout.Unplaced = append(f.Layout.Unplaced, n.Index)
		}
	}
	return f
}
