// Package render draws a laid-out BDD onto a drawing surface.
//
// # Overview
//
// Rendering is split between this package, which decides what to draw, and
// a [Surface], which decides how. A surface offers the handful of primitives
// a 2D canvas has: filled circles, lines, filled triangles, centered text,
// clearing and resizing. Concrete surfaces live in the [sink] subpackage
// (SVG and PNG), and [Recorder] keeps an in-memory log of primitives.
//
//	res := layout.Compute(d, 800)
//	render.Draw(surface, d, res.Positions, offsetX)
//
// # Drawing Rules
//
// Nodes are white circles with a black outline and a centered black label
// (the variable name, or the id for terminals). Each decision node draws a
// red arrow to its low child and a green arrow to its high child. Arrows are
// clipped to the circle boundaries so they start and end on the outlines,
// and end in a filled triangular head.
//
// Nodes without a position are skipped, and an edge is drawn only when the
// child's id has a position. Terminal nodes draw no edges.
//
// # Format Conversion
//
// [ToPDF] converts SVG to PDF using the external rsvg-convert tool (from
// librsvg).
//
// [sink]: github.com/matzehuels/bddview/pkg/render/sink
package render
