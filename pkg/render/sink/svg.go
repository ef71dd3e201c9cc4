package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/bddview/pkg/geom"
	"github.com/matzehuels/bddview/pkg/render"
)

// SVGOption configures an [SVG] surface.
type SVGOption func(*SVG)

// WithBackground paints the whole surface with c beneath every element.
func WithBackground(c color.Color) SVGOption { return func(s *SVG) { s.background = c } }

// WithTitle adds a <title> element.
func WithTitle(t string) SVGOption { return func(s *SVG) { s.title = t } }

// SVG is a [render.Surface] that builds an SVG document.
type SVG struct {
	w, h       float64
	background color.Color
	title      string
	elems      []svgElem
}

type svgElem struct {
	box    box
	markup string
	class  string
}

type box struct{ minX, minY, maxX, maxY float64 }

func (b box) within(x, y, w, h float64) bool {
	return b.minX >= x && b.minY >= y && b.maxX <= x+w && b.maxY <= y+h
}

// NewSVG returns an empty SVG surface of the given size.
func NewSVG(w, h float64, opts ...SVGOption) *SVG {
	s := &SVG{w: w, h: h}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SVG) Size() (float64, float64) { return s.w, s.h }

func (s *SVG) Resize(w, h float64) {
	s.w, s.h = w, h
	s.elems = s.elems[:0]
}

// ClearRect removes every element that lies entirely inside the rectangle.
func (s *SVG) ClearRect(x, y, w, h float64) {
	kept := s.elems[:0]
	for _, e := range s.elems {
		if !e.box.within(x, y, w, h) {
			kept = append(kept, e)
		}
	}
	s.elems = kept
}

func (s *SVG) Circle(c geom.Point, r float64, fill, stroke color.Color) {
	s.add("node", box{c.X - r, c.Y - r, c.X + r, c.Y + r},
		fmt.Sprintf(`<circle class="node" cx="%.2f" cy="%.2f" r="%.2f" %s %s stroke-width="1"/>`,
			c.X, c.Y, r, paint("fill", fill), paint("stroke", stroke)))
}

func (s *SVG) Text(at geom.Point, txt string, c color.Color) {
	var esc bytes.Buffer
	_ = xml.EscapeText(&esc, []byte(txt))
	s.add("label", box{at.X, at.Y, at.X, at.Y},
		fmt.Sprintf(`<text class="label" x="%.2f" y="%.2f" %s font-family="sans-serif" font-size="%.0f" text-anchor="middle" dominant-baseline="middle">%s</text>`,
			at.X, at.Y, paint("fill", c), render.FontSize, esc.String()))
}

func (s *SVG) Line(from, to geom.Point, c color.Color) {
	s.add("edge", bounds(from, to),
		fmt.Sprintf(`<line class="edge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" %s stroke-width="1"/>`,
			from.X, from.Y, to.X, to.Y, paint("stroke", c)))
}

func (s *SVG) Triangle(a, b, c geom.Point, fill color.Color) {
	s.add("arrow", bounds(a, b, c),
		fmt.Sprintf(`<polygon class="arrow" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" %s/>`,
			a.X, a.Y, b.X, b.Y, c.X, c.Y, paint("fill", fill)))
}

func (s *SVG) add(class string, b box, markup string) {
	s.elems = append(s.elems, svgElem{box: b, markup: markup, class: class})
}

// Count returns how many elements of a class ("node", "label", "edge",
// "arrow") are on the surface.
func (s *SVG) Count(class string) int {
	n := 0
	for _, e := range s.elems {
		if e.class == class {
			n++
		}
	}
	return n
}

// Bytes returns the SVG document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.w, s.h, s.w, s.h)
	if s.title != "" {
		buf.WriteString("  <title>")
		_ = xml.EscapeText(&buf, []byte(s.title))
		buf.WriteString("</title>\n")
	}
	if s.background != nil {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.0f" height="%.0f" %s/>`+"\n", s.w, s.h, paint("fill", s.background))
	}
	for _, e := range s.elems {
		buf.WriteString("  ")
		buf.WriteString(e.markup)
		buf.WriteByte('\n')
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func paint(attr string, c color.Color) string {
	if c == nil {
		return attr + `="none"`
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return attr + `="none"`
	}
	_, _, _, a := c.RGBA()
	if a == 0xffff {
		return fmt.Sprintf(`%s="%s"`, attr, cf.Hex())
	}
	return fmt.Sprintf(`%s="%s" %s-opacity="%.3f"`, attr, cf.Hex(), attr, float64(a)/0xffff)
}

func bounds(pts ...geom.Point) box {
	b := box{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		b.minX = math.Min(b.minX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxX = math.Max(b.maxX, p.X)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	return b
}
