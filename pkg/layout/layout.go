// Package layout computes node positions for a BDD drawing.
//
// The root is placed at the top center of the surface. Each level below sits
// a fixed distance lower, and each child is pushed sideways by half the
// offset its parent received: low children to the left, high children to the
// right. Deep diagrams therefore converge toward their ancestors' columns
// rather than spreading off the surface, and shared children take the
// position of the first path that reaches them.
package layout

import (
	"math"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/geom"
)

const (
	// DefaultTopMargin is the y coordinate of the root.
	DefaultTopMargin = 50.0
	// DefaultLevelHeight is the vertical distance between levels.
	DefaultLevelHeight = 100.0
)

// Option configures [Compute].
type Option func(*config)

type config struct {
	topMargin   float64
	levelHeight float64
}

// WithTopMargin sets the y coordinate of the root.
func WithTopMargin(y float64) Option {
	return func(c *config) { c.topMargin = y }
}

// WithLevelHeight sets the vertical distance between a node and its children.
func WithLevelHeight(h float64) Option {
	return func(c *config) { c.levelHeight = h }
}

// Result is the output of one layout pass.
type Result struct {
	// Positions maps node ids to centers. Nodes sharing an id share a slot.
	Positions map[bdd.ID]geom.Point
	// Bounds covers every position; Bounds.Empty is set when there are none.
	Bounds geom.Bounds
	// Unplaced lists the sequence indices of nodes whose id was never
	// positioned. Those nodes are not drawn.
	Unplaced []int
	// Depth is the deepest level reached, zero for a lone root.
	Depth int
}

// Placed reports whether the node's id received a position.
func (r Result) Placed(n *bdd.Node) bool {
	if n == nil {
		return false
	}
	_, ok := r.Positions[n.ID]
	return ok
}

// Compute lays out d for a surface of the given width.
func Compute(d *bdd.Diagram, canvasWidth float64, opts ...Option) Result {
	cfg := config{topMargin: DefaultTopMargin, levelHeight: DefaultLevelHeight}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := &walker{
		cfg:       cfg,
		width:     canvasWidth,
		positions: make(map[bdd.ID]geom.Point),
		bounds:    geom.EmptyBounds(),
	}
	if root := d.Root(); root != nil {
		w.place(root, geom.Point{X: canvasWidth / 2, Y: cfg.topMargin}, 0)
	}

	res := Result{Positions: w.positions, Bounds: w.bounds, Depth: w.depth}
	for i, n := range d.Nodes() {
		if !res.Placed(n) {
			res.Unplaced = append(res.Unplaced, i)
		}
	}
	return res
}

type walker struct {
	cfg       config
	width     float64
	positions map[bdd.ID]geom.Point
	bounds    geom.Bounds
	depth     int
}

func (w *walker) place(n *bdd.Node, at geom.Point, level int) {
	if _, seen := w.positions[n.ID]; seen {
		return
	}
	w.positions[n.ID] = at
	w.bounds = w.bounds.Extend(at)
	w.depth = max(w.depth, level)

	dx := math.Ldexp(w.width, -(level + 2))
	y := at.Y + w.cfg.levelHeight
	if n.Low != nil {
		w.place(n.Low, geom.Point{X: at.X - dx, Y: y}, level+1)
	}
	if n.High != nil {
		w.place(n.High, geom.Point{X: at.X + dx, Y: y}, level+1)
	}
}
