package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/geom"
	"github.com/matzehuels/bddview/pkg/render"
)

// =============================================================================
// Layout - Serialized Frame
// =============================================================================

// Layout is the serialization format for one rendered pass.
//
// Check VizType to determine which fields are populated:
//
//	Canvas ("canvas"):
//	  - Nodes: every record with its final position
//	  - Edges: arrows as drawn
//	  - OffsetX: horizontal shift already applied to the positions
//
//	Graphviz ("graphviz"):
//	  - Nodes: every record, unplaced
//	  - DOT: Graphviz source for rendering
//
// Width and Height are the surface size after fitting and are shared.
type Layout struct {
	VizType string  `json:"viz_type"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetX float64 `json:"offset_x,omitempty"`

	Nodes       []Node           `json:"nodes"`
	Edges       []Edge           `json:"edges,omitempty"`
	Diagnostics []bdd.Diagnostic `json:"diagnostics,omitempty"`

	DOT string `json:"dot,omitempty"`
}

// IsCanvas returns true if this is a canvas layout.
func (l *Layout) IsCanvas() bool { return l.VizType == VizTypeCanvas }

// IsGraphviz returns true if this is a graphviz layout.
func (l *Layout) IsGraphviz() bool { return l.VizType == VizTypeGraphviz }

// FromDiagram exports a canvas layout. Positions are the unshifted layout
// positions; offsetX is applied to every exported coordinate.
//
// Edges follow the drawing rules: only decision nodes contribute edges, and
// only to children whose id is positioned.
func FromDiagram(d *bdd.Diagram, positions map[bdd.ID]geom.Point, width, height, offsetX float64) Layout {
	l := Layout{
		VizType: VizTypeCanvas,
		Width:   width,
		Height:  height,
		OffsetX: offsetX,
		Nodes:   exportNodes(d),
	}

	at := func(n *bdd.Node) (geom.Point, bool) {
		p, ok := positions[n.ID]
		return p.Add(offsetX, 0), ok
	}

	for i, n := range d.Nodes() {
		p, ok := at(n)
		if !ok {
			continue
		}
		l.Nodes[i].Placed = true
		l.Nodes[i].X, l.Nodes[i].Y = p.X, p.Y
		if n.IsTerminal() {
			continue
		}
		for _, br := range []struct {
			child *bdd.Node
			name  string
		}{{n.Low, BranchLow}, {n.High, BranchHigh}} {
			if br.child == nil {
				continue
			}
			q, ok := at(br.child)
			if !ok {
				continue
			}
			start, end := geom.EdgeEndpoints(p, q, render.NodeRadius)
			l.Edges = append(l.Edges, Edge{
				From:   i,
				To:     d.IndexOf(br.child),
				Branch: br.name,
				X1:     start.X,
				Y1:     start.Y,
				X2:     end.X,
				Y2:     end.Y,
			})
		}
	}
	return l
}

// FromDOT exports a graphviz layout.
func FromDOT(d *bdd.Diagram, src string, width, height float64) Layout {
	return Layout{
		VizType: VizTypeGraphviz,
		Width:   width,
		Height:  height,
		Nodes:   exportNodes(d),
		DOT:     src,
	}
}

func exportNodes(d *bdd.Diagram) []Node {
	nodes := make([]Node, d.Len())
	for i, n := range d.Nodes() {
		nodes[i] = Node{Index: i, ID: formatID(n.ID), Variable: n.Variable}
		if j := d.IndexOf(n.Low); j >= 0 {
			nodes[i].Low = intPtr(j)
		}
		if j := d.IndexOf(n.High); j >= 0 {
			nodes[i].High = intPtr(j)
		}
	}
	return nodes
}

// Diagram rebuilds the node sequence.
func (l *Layout) Diagram() (*bdd.Diagram, error) {
	d := bdd.NewDiagram()
	for i, nj := range l.Nodes {
		id, err := parseID(nj.ID)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		low, err := link(d, i, "low", nj.Low)
		if err != nil {
			return nil, err
		}
		high, err := link(d, i, "high", nj.High)
		if err != nil {
			return nil, err
		}
		d.Append(bdd.NewNode(id, nj.Variable, low, high))
	}
	return d, nil
}

func link(d *bdd.Diagram, i int, field string, ref *int) (*bdd.Node, error) {
	if ref == nil {
		return nil, nil
	}
	if *ref < 0 || *ref >= i {
		return nil, fmt.Errorf("node %d: %s link %d must refer to an earlier node", i, field, *ref)
	}
	return d.Node(*ref), nil
}

// Positions returns the absolute surface position of every placed node,
// keyed by id. Draw with an offset of zero.
func (l *Layout) Positions() map[bdd.ID]geom.Point {
	out := make(map[bdd.ID]geom.Point, len(l.Nodes))
	for _, nj := range l.Nodes {
		if !nj.Placed {
			continue
		}
		id, err := parseID(nj.ID)
		if err != nil {
			continue
		}
		if _, seen := out[id]; !seen {
			out[id] = geom.Point{X: nj.X, Y: nj.Y}
		}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeCanvas
	}

	switch l.VizType {
	case VizTypeCanvas:
		for i, n := range l.Nodes {
			if n.Index != i {
				return Layout{}, fmt.Errorf("node %d has index %d", i, n.Index)
			}
		}
		if _, err := l.Diagram(); err != nil {
			return Layout{}, err
		}
	case VizTypeGraphviz:
		if l.DOT == "" {
			return Layout{}, fmt.Errorf("graphviz layout must contain DOT string")
		}
	default:
		return Layout{}, fmt.Errorf("unknown viz type %q", l.VizType)
	}
	if l.Width < 0 || l.Height < 0 {
		return Layout{}, fmt.Errorf("negative surface size %gx%g", l.Width, l.Height)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
