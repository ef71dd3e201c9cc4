package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/bddview/pkg/bdd"
	errs "github.com/matzehuels/bddview/pkg/errors"
	"github.com/matzehuels/bddview/pkg/graph"
	"github.com/matzehuels/bddview/pkg/render/dot"
	"github.com/matzehuels/bddview/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, d *bdd.Diagram, f Frame, l graph.Layout, opts Options) (map[string][]byte, error) {
	if l.IsGraphviz() {
		return renderGraphviz(ctx, l, opts)
	}
	return renderCanvas(ctx, d, f, l, opts)
}

// renderCanvas paints the frame onto one native surface per format.
func renderCanvas(ctx context.Context, d *bdd.Diagram, f Frame, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = paintSVG(d, f).Bytes()
		case FormatPNG:
			var png *sink.PNG
			png, err = sink.NewPNG(f.Width, f.Height, sink.WithScale(opts.Scale))
			if err == nil {
				Paint(png, d, f)
				data, err = png.Bytes()
			}
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, paintSVG(d, f))
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(dot.ToDOT(d, dot.Options{}))
		default:
			return nil, errs.New(errs.ErrCodeUnsupported, "unsupported canvas format: %s", format)
		}

		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func paintSVG(d *bdd.Diagram, f Frame) *sink.SVG {
	s := sink.NewSVG(f.Width, f.Height, sink.WithTitle(fmt.Sprintf("BDD with %d nodes", d.Len())))
	Paint(s, d, f)
	return s
}

// renderGraphviz renders the layout's DOT source with Graphviz.
func renderGraphviz(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if l.DOT == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "graphviz layout missing DOT string")
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = dot.RenderSVG(ctx, l.DOT)
		case FormatPNG:
			data, err = dot.RenderPNG(ctx, l.DOT)
		case FormatPDF:
			data, err = dot.RenderPDF(ctx, l.DOT)
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(l.DOT)
		default:
			return nil, errs.New(errs.ErrCodeUnsupported, "unsupported graphviz format: %s", format)
		}

		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
