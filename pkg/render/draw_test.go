package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/geom"
	"github.com/matzehuels/bddview/pkg/layout"
)

func TestDrawEdgeVertical(t *testing.T) {
	rec := NewRecorder(100, 200)
	DrawEdge(rec, geom.Point{X: 0, Y: 0}, geom.Point{X: 0, Y: 100}, LowColor)

	require.Len(t, rec.Ops, 2)
	line := rec.Ops[0]
	assert.Equal(t, OpLine, line.Kind)
	assert.InDelta(t, 0, line.Points[0].X, 1e-9)
	assert.InDelta(t, 20, line.Points[0].Y, 1e-9)
	assert.InDelta(t, 0, line.Points[1].X, 1e-9)
	assert.InDelta(t, 80, line.Points[1].Y, 1e-9)
	assert.Equal(t, LowColor, line.Stroke)

	tri := rec.Ops[1]
	assert.Equal(t, OpTriangle, tri.Kind)
	assert.Equal(t, line.Points[1], tri.Points[0], "arrowhead tip sits on the line end")
	assert.Less(t, tri.Points[1].Y, 80.0)
	assert.Less(t, tri.Points[2].Y, 80.0)
	assert.Equal(t, LowColor, tri.Fill)
}

func TestDrawExample(t *testing.T) {
	d := bdd.Example()
	res := layout.Compute(d, 800)
	rec := NewRecorder(800, 600)
	Draw(rec, d, res.Positions, 0)

	assert.Equal(t, 4, rec.Count(OpCircle))
	assert.Equal(t, 4, rec.Count(OpText))
	assert.Equal(t, 4, rec.Count(OpLine))
	assert.Equal(t, 4, rec.Count(OpTriangle))

	var labels []string
	for _, op := range rec.Filter(OpText) {
		labels = append(labels, op.Text)
	}
	assert.Equal(t, []string{"0", "1", "x1", "x2"}, labels)

	for _, op := range rec.Filter(OpCircle) {
		assert.Equal(t, NodeRadius, op.R)
		assert.Equal(t, NodeFill, op.Fill)
		assert.Equal(t, NodeStroke, op.Stroke)
	}
}

func TestDrawOrder(t *testing.T) {
	d, _ := bdd.Parse("0;1;2,x,0,1")
	res := layout.Compute(d, 800)
	rec := NewRecorder(800, 600)
	Draw(rec, d, res.Positions, 0)

	var kinds []OpKind
	var colors []color.Color
	for _, op := range rec.Ops {
		kinds = append(kinds, op.Kind)
		if op.Kind == OpLine {
			colors = append(colors, op.Stroke)
		}
	}
	want := []OpKind{
		OpCircle, OpText, // 0
		OpCircle, OpText, // 1
		OpCircle, OpText, OpLine, OpTriangle, OpLine, OpTriangle, // x
	}
	assert.Equal(t, want, kinds)
	assert.Equal(t, []color.Color{LowColor, HighColor}, colors)
}

func TestDrawOffset(t *testing.T) {
	d := bdd.NewDiagram(bdd.NewTerminal(1))
	rec := NewRecorder(800, 600)
	Draw(rec, d, map[bdd.ID]geom.Point{1: {X: 10, Y: 50}}, 25)

	c := rec.Filter(OpCircle)
	require.Len(t, c, 1)
	assert.Equal(t, geom.Point{X: 35, Y: 50}, c[0].Points[0])
}

func TestDrawSkips(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantCircles int
		wantLines   int
	}{
		{"UnreachableNotDrawn", "0;1;9;2,x,0,1", 3, 2},
		{"MissingChildDrawsOneEdge", "0;1,x,0", 2, 1},
		{"TerminalChildrenIgnored", "0;1,,0", 2, 0},
		{"UnresolvedRefDrawsNoEdge", "0;1,x,5,0", 2, 1},
		// Record 0 shares id 5 with record 1 and is drawn on top of it.
		{"DuplicateIDDrawnTwice", "5;5;2,x,0,1", 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := bdd.Parse(tt.input)
			res := layout.Compute(d, 800)
			rec := NewRecorder(800, 600)
			Draw(rec, d, res.Positions, 0)
			assert.Equal(t, tt.wantCircles, rec.Count(OpCircle))
			assert.Equal(t, tt.wantLines, rec.Count(OpLine))
			assert.Equal(t, rec.Count(OpLine), rec.Count(OpTriangle))
		})
	}
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	w, h := rec.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)

	rec.Resize(300, 200)
	rec.ClearRect(0, 0, 300, 200)
	w, h = rec.Size()
	assert.Equal(t, 300.0, w)
	assert.Equal(t, 200.0, h)
	assert.Equal(t, 1, rec.Count(OpResize))
	assert.Equal(t, 1, rec.Count(OpClear))

	rec.Reset()
	assert.Empty(t, rec.Ops)
}
