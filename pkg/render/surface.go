package render

import (
	"image/color"
	"math"

	"github.com/matzehuels/bddview/pkg/geom"
)

// Surface is a 2D drawing target. Coordinates are in surface units with the
// origin at the top left and y growing downward.
type Surface interface {
	// Size returns the current width and height.
	Size() (w, h float64)
	// Resize sets the surface dimensions. Like a canvas, resizing discards
	// everything drawn so far.
	Resize(w, h float64)
	// ClearRect erases the given rectangle.
	ClearRect(x, y, w, h float64)
	// Circle draws a circle filled with fill and outlined with stroke.
	Circle(center geom.Point, r float64, fill, stroke color.Color)
	// Text draws s centered horizontally and vertically on at.
	Text(at geom.Point, s string, c color.Color)
	// Line draws a one-unit wide segment.
	Line(from, to geom.Point, c color.Color)
	// Triangle draws a filled triangle.
	Triangle(a, b, c geom.Point, fill color.Color)
}

// Fixed drawing constants. There is no user styling.
const (
	NodeRadius  = 20.0
	ArrowLength = 10.0
	ArrowSpread = math.Pi / 6
	FontSize    = 10.0
)

var (
	NodeFill   color.Color = color.White
	NodeStroke color.Color = color.Black
	LabelColor color.Color = color.Black
	LowColor   color.Color = color.RGBA{R: 0xff, A: 0xff}
	HighColor  color.Color = color.RGBA{G: 0x80, A: 0xff}
)
