// Package pkg holds the libraries behind bddview, a viewer for reduced ordered
// binary decision diagrams given as compact node lists.
//
// # Overview
//
// A node list such as
//
//	0;1;2,x1,0,1;3,x2,2,1
//
// is parsed into a diagram, laid out top-down from its last node, fitted onto
// a surface that only grows, and painted as circles, labels and edges. The
// packages split that flow:
//
//  1. [bdd] - node lists, diagrams and diagnostics
//  2. [layout] - recursive top-down placement with halving offsets
//  3. [render] - the drawing surface, the diagram painter and the sinks
//  4. [pipeline] - parse → plan → paint orchestration with caching
//  5. [graph] - the JSON layout format
//
// # Architecture
//
//	node list
//	    ↓
//	[bdd] Parse (diagnostics, never fails)
//	    ↓
//	[layout] Compute (positions, bounds)
//	    ↓
//	[pipeline] Plan (grow the surface, center the drawing)
//	    ↓
//	[render] Draw onto SVG, PNG, PDF; [render/dot] for Graphviz
//
// The surface size after one pass is the starting size of the next. Front
// ends keep it per session: the CLI edit form in memory, the HTTP server per
// cookie.
//
// # Supporting packages
//
// [cache] stores layouts and rendered artifacts on disk or in Redis.
// [config] loads the optional TOML or YAML configuration. [errors] carries
// typed error codes with their HTTP statuses. [observability] exposes hooks
// and Prometheus metrics. [server] is the HTTP front end. [buildinfo] reports
// the version stamped at build time. [geom] is the small geometry shared by
// layout and rendering.
package pkg
