// Package geom holds the small amount of plane geometry needed to draw
// circle-to-circle arrows.
package geom

import "math"

// Point is a position in surface coordinates. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Angle returns the direction from p to q in radians.
func Angle(p, q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Polar returns the point at distance r from p in direction angle.
func Polar(p Point, angle, r float64) Point {
	return Point{X: p.X + r*math.Cos(angle), Y: p.Y + r*math.Sin(angle)}
}

// EdgeEndpoints clips the segment from the center of one circle to the
// center of another so that it starts and ends on the circles' boundaries.
// Both circles have radius r.
//
// Coincident centers have angle zero; the endpoints are then offset along
// the x axis.
func EdgeEndpoints(from, to Point, r float64) (start, end Point) {
	a := Angle(from, to)
	return Polar(from, a, r), Polar(to, a, -r)
}

// ArrowHead returns the two base corners of a triangular arrowhead whose tip
// is at tip and which points in direction angle. The corners sit length back
// from the tip, each rotated spread away from the shaft.
func ArrowHead(tip Point, angle, length, spread float64) (a, b Point) {
	a = Polar(tip, angle-spread, -length)
	b = Polar(tip, angle+spread, -length)
	return a, b
}

// Bounds is an axis-aligned extent over a set of points.
type Bounds struct {
	MinX  float64 `json:"min_x"`
	MaxX  float64 `json:"max_x"`
	MaxY  float64 `json:"max_y"`
	Empty bool    `json:"empty,omitempty"`
}

// EmptyBounds is the extent of no points.
func EmptyBounds() Bounds {
	return Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1), Empty: true}
}

// Extend grows b to include p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, p.X),
		MaxX: math.Max(b.MaxX, p.X),
		MaxY: math.Max(b.MaxY, p.Y),
	}
}

// Width is MaxX - MinX, or zero when empty.
func (b Bounds) Width() float64 {
	if b.Empty {
		return 0
	}
	return b.MaxX - b.MinX
}
