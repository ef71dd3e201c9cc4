// Package dot renders BDDs as Graphviz node-link diagrams.
//
// # Overview
//
// This is the alternative to the canvas-style drawing in [render]: instead of
// the fixed halving layout, Graphviz ranks and spaces the nodes itself. The
// diagram is walked from the root by node identity, so nodes that share an id
// still appear separately and unreachable nodes are left out.
//
//	src := dot.ToDOT(d, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Decision nodes are circles and terminals are boxes. Low edges are red and
// dashed, high edges green and solid, matching the canvas colors.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
// PDF conversion requires librsvg (rsvg-convert).
//
// [render]: github.com/matzehuels/bddview/pkg/render
package dot
