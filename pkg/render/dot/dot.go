package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node id and sequence position to every label.
	Detailed bool
}

// ToDOT converts the part of d reachable from its root to Graphviz DOT.
func ToDOT(d *bdd.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph BDD {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontname=\"sans-serif\", fontsize=10, width=0.55, fixedsize=true];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := walker{d: d, names: make(map[*bdd.Node]string)}
	if root := d.Root(); root != nil {
		w.visit(root)
	}

	for _, n := range w.order {
		fmt.Fprintf(&buf, "  %s [%s];\n", w.names[n], fmtAttrs(d, n, opts.Detailed))
	}
	buf.WriteString("\n")
	for _, n := range w.order {
		if n.IsTerminal() {
			continue
		}
		if n.Low != nil {
			fmt.Fprintf(&buf, "  %s -> %s [color=red, style=dashed];\n", w.names[n], w.names[n.Low])
		}
		if n.High != nil {
			fmt.Fprintf(&buf, "  %s -> %s [color=green];\n", w.names[n], w.names[n.High])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

type walker struct {
	d     *bdd.Diagram
	names map[*bdd.Node]string
	order []*bdd.Node
}

func (w *walker) visit(n *bdd.Node) {
	if _, ok := w.names[n]; ok {
		return
	}
	if i := w.d.IndexOf(n); i >= 0 {
		w.names[n] = "n" + strconv.Itoa(i)
	} else {
		w.names[n] = "x" + strconv.Itoa(len(w.names))
	}
	w.order = append(w.order, n)
	if n.IsTerminal() {
		return
	}
	if n.Low != nil {
		w.visit(n.Low)
	}
	if n.High != nil {
		w.visit(n.High)
	}
}

func fmtAttrs(d *bdd.Diagram, n *bdd.Node, detailed bool) string {
	label := n.Label()
	if detailed {
		label = fmt.Sprintf("%s\nid %s #%d", label, n.ID, d.IndexOf(n))
	}
	attrs := fmt.Sprintf("label=%q", label)
	if n.IsTerminal() {
		attrs += ", shape=box, width=0.4"
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	out, err := renderDOT(ctx, src, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, src string) ([]byte, error) {
	return renderDOT(ctx, src, graphviz.PNG)
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, src string) ([]byte, error) {
	svg, err := RenderSVG(ctx, src)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderDOT(ctx context.Context, src string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
