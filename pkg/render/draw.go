package render

import (
	"image/color"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/geom"
)

// Draw renders d onto s using the given positions, shifted right by offsetX.
//
// Nodes are visited once in sequence order. Each positioned node is drawn,
// followed by its low edge and then its high edge when the node has a
// variable and the child's id is positioned.
func Draw(s Surface, d *bdd.Diagram, positions map[bdd.ID]geom.Point, offsetX float64) {
	at := func(n *bdd.Node) (geom.Point, bool) {
		p, ok := positions[n.ID]
		return p.Add(offsetX, 0), ok
	}

	for _, n := range d.Nodes() {
		p, ok := at(n)
		if !ok {
			continue
		}
		DrawNode(s, p, n.Label())
		if n.IsTerminal() {
			continue
		}
		if n.Low != nil {
			if q, ok := at(n.Low); ok {
				DrawEdge(s, p, q, LowColor)
			}
		}
		if n.High != nil {
			if q, ok := at(n.High); ok {
				DrawEdge(s, p, q, HighColor)
			}
		}
	}
}

// DrawNode draws a labeled node centered at p.
func DrawNode(s Surface, p geom.Point, label string) {
	s.Circle(p, NodeRadius, NodeFill, NodeStroke)
	s.Text(p, label, LabelColor)
}

// DrawEdge draws an arrow from the node centered at from to the node
// centered at to, clipped to both outlines.
func DrawEdge(s Surface, from, to geom.Point, c color.Color) {
	start, end := geom.EdgeEndpoints(from, to, NodeRadius)
	s.Line(start, end, c)
	a, b := geom.ArrowHead(end, geom.Angle(from, to), ArrowLength, ArrowSpread)
	s.Triangle(end, a, b, c)
}
