package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestEdgeEndpoints(t *testing.T) {
	tests := []struct {
		name               string
		from, to           Point
		r                  float64
		wantStart, wantEnd Point
	}{
		{"Vertical", Point{0, 0}, Point{0, 100}, 20, Point{0, 20}, Point{0, 80}},
		{"Horizontal", Point{0, 0}, Point{100, 0}, 20, Point{20, 0}, Point{80, 0}},
		{"Upward", Point{0, 100}, Point{0, 0}, 20, Point{0, 80}, Point{0, 20}},
		{"Diagonal", Point{0, 0}, Point{30, 40}, 5, Point{3, 4}, Point{27, 36}},
		{"Coincident", Point{10, 10}, Point{10, 10}, 20, Point{30, 10}, Point{-10, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := EdgeEndpoints(tt.from, tt.to, tt.r)
			assert.InDelta(t, tt.wantStart.X, start.X, eps)
			assert.InDelta(t, tt.wantStart.Y, start.Y, eps)
			assert.InDelta(t, tt.wantEnd.X, end.X, eps)
			assert.InDelta(t, tt.wantEnd.Y, end.Y, eps)
		})
	}
}

func TestEdgeEndpointsOnBoundary(t *testing.T) {
	from, to := Point{400, 50}, Point{200, 150}
	start, end := EdgeEndpoints(from, to, 20)
	assert.InDelta(t, 20, math.Hypot(start.X-from.X, start.Y-from.Y), eps)
	assert.InDelta(t, 20, math.Hypot(end.X-to.X, end.Y-to.Y), eps)
	assert.InDelta(t, Angle(from, to), Angle(start, end), eps)
}

func TestArrowHead(t *testing.T) {
	tip := Point{0, 80}
	a, b := ArrowHead(tip, math.Pi/2, 10, math.Pi/6)

	// Pointing down: base corners sit above the tip, mirrored about x=0.
	assert.InDelta(t, -a.X, b.X, eps)
	assert.InDelta(t, a.Y, b.Y, eps)
	assert.InDelta(t, 80-10*math.Cos(math.Pi/6), a.Y, eps)
	assert.InDelta(t, 10, math.Hypot(a.X-tip.X, a.Y-tip.Y), eps)
	assert.InDelta(t, 10, math.Hypot(b.X-tip.X, b.Y-tip.Y), eps)
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	assert.True(t, b.Empty)
	assert.Zero(t, b.Width())

	b = b.Extend(Point{400, 50}).Extend(Point{200, 150}).Extend(Point{600, 150})
	assert.False(t, b.Empty)
	assert.Equal(t, 200.0, b.MinX)
	assert.Equal(t, 600.0, b.MaxX)
	assert.Equal(t, 150.0, b.MaxY)
	assert.Equal(t, 400.0, b.Width())
}
