// Package graph provides the serialization format for computed BDD drawings.
//
// This package defines the wire format written by `bddview layout` and read
// by `bddview visualize`, and used for JSON output, HTTP responses and the
// artifact cache.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Layout], [Node], [Edge]: serialization types (this package)
//   - pkg/bdd.Diagram: internal node sequence
//   - pkg/layout.Result: internal positions keyed by node id
//
// Use [FromDiagram] to export and [Layout.Diagram] / [Layout.Positions] to
// re-import.
//
// # Constants
//
// This package is the single source of truth for visualization types:
//
//	graph.VizTypeCanvas    // "canvas"
//	graph.VizTypeGraphviz  // "graphviz"
//
// # Layout Serialization
//
// A canvas layout records the surface size, the horizontal centering offset,
// every node of the input sequence with its final surface position, and every
// edge that is drawn:
//
//	{
//	  "viz_type": "canvas",
//	  "width": 800, "height": 600, "offset_x": 150,
//	  "nodes": [
//	    {"index": 0, "id": "0", "placed": true, "x": 250, "y": 250},
//	    {"index": 2, "id": "2", "variable": "x1", "low": 0, "high": 1, "placed": true, "x": 350, "y": 150}
//	  ],
//	  "edges": [{"from": 2, "to": 0, "branch": "low", "x1": 335.86, "y1": 164.14, "x2": 264.14, "y2": 235.86}]
//	}
//
// Links ("low", "high", "from", "to") are positions in the node sequence,
// the same convention as the text format. Node positions are absolute
// surface coordinates with the offset already applied.
//
// A graphviz layout carries the DOT source instead of positions.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
