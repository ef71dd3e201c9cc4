// Package sink provides concrete drawing surfaces for BDD renderings.
//
// # Overview
//
// A "sink" is a [render.Surface] that turns drawing primitives into a final
// output format:
//
//   - SVG: vector output built in memory ([SVG])
//   - PNG: raster output drawn with fogleman/gg ([PNG])
//   - PDF: print-ready output converted from SVG ([RenderPDF], requires rsvg-convert)
//
// Basic usage:
//
//	s := sink.NewSVG(800, 600)
//	render.Draw(s, d, positions, offsetX)
//	data := s.Bytes()
//
// Both surfaces follow canvas semantics: [render.Surface.Resize] discards
// everything drawn so far, and ClearRect erases a region.
//
// # PDF Output
//
// PDF conversion requires librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [render.Surface]: github.com/matzehuels/bddview/pkg/render.Surface
// [render.Surface.Resize]: github.com/matzehuels/bddview/pkg/render.Surface
package sink
