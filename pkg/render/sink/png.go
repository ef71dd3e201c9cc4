package sink

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/bddview/pkg/geom"
	"github.com/matzehuels/bddview/pkg/render"
)

// MaxPNGPixels bounds the raster a PNG surface allocates, after scaling.
const MaxPNGPixels = 1 << 26

// ErrImageTooLarge is returned when a PNG surface would exceed [MaxPNGPixels].
var ErrImageTooLarge = errors.New("png image too large")

var regularFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// PNGOption configures a [PNG] surface.
type PNGOption func(*PNG)

// WithScale sets the pixel density (default 1.0). A scale of 2 produces an
// image twice as wide and tall with the same drawing.
func WithScale(s float64) PNGOption {
	return func(p *PNG) {
		if s > 0 {
			p.scale = s
		}
	}
}

// PNG is a [render.Surface] that rasterizes with fogleman/gg.
type PNG struct {
	w, h  float64
	scale float64
	face  font.Face
	dc    *gg.Context
	// err is set by a Resize past the pixel limit and reported by Encode.
	err error
}

// NewPNG returns a transparent PNG surface of the given size.
func NewPNG(w, h float64, opts ...PNGOption) (*PNG, error) {
	f, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	p := &PNG{scale: 1}
	for _, opt := range opts {
		opt(p)
	}
	p.face = truetype.NewFace(f, &truetype.Options{Size: render.FontSize * p.scale, DPI: 72})
	if err := p.checkSize(w, h); err != nil {
		return nil, err
	}
	p.Resize(w, h)
	return p, nil
}

func (p *PNG) checkSize(w, h float64) error {
	pw, ph := math.Ceil(w*p.scale), math.Ceil(h*p.scale)
	if !(pw*ph <= MaxPNGPixels) {
		return fmt.Errorf("%w: %gx%g pixels (limit %d)", ErrImageTooLarge, pw, ph, MaxPNGPixels)
	}
	return nil
}

func (p *PNG) Size() (float64, float64) { return p.w, p.h }

// Resize replaces the raster. A size past the pixel limit leaves the surface
// as it was and makes Encode fail.
func (p *PNG) Resize(w, h float64) {
	if err := p.checkSize(w, h); err != nil {
		p.err = err
		return
	}
	p.w, p.h = w, h
	pw := max(1, int(math.Ceil(w*p.scale)))
	ph := max(1, int(math.Ceil(h*p.scale)))
	p.dc = gg.NewContext(pw, ph)
	p.dc.Scale(p.scale, p.scale)
	p.dc.SetFontFace(p.face)
	p.dc.SetLineWidth(1)
}

func (p *PNG) ClearRect(x, y, w, h float64) {
	img, ok := p.dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	r := image.Rect(
		int(math.Floor(x*p.scale)), int(math.Floor(y*p.scale)),
		int(math.Ceil((x+w)*p.scale)), int(math.Ceil((y+h)*p.scale)),
	)
	draw.Draw(img, r.Intersect(img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

func (p *PNG) Circle(c geom.Point, r float64, fill, stroke color.Color) {
	p.dc.DrawCircle(c.X, c.Y, r)
	p.dc.SetColor(fill)
	p.dc.FillPreserve()
	p.dc.SetColor(stroke)
	p.dc.Stroke()
}

func (p *PNG) Text(at geom.Point, s string, c color.Color) {
	// Measurements are in pixels; the context transform is in surface units.
	w, h := p.dc.MeasureString(s)
	p.dc.SetColor(c)
	p.dc.DrawString(s, at.X-w/2/p.scale, at.Y+0.35*h/p.scale)
}

func (p *PNG) Line(from, to geom.Point, c color.Color) {
	p.dc.SetColor(c)
	p.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	p.dc.Stroke()
}

func (p *PNG) Triangle(a, b, c geom.Point, fill color.Color) {
	p.dc.MoveTo(a.X, a.Y)
	p.dc.LineTo(b.X, b.Y)
	p.dc.LineTo(c.X, c.Y)
	p.dc.ClosePath()
	p.dc.SetColor(fill)
	p.dc.Fill()
}

// Image returns the rasterized surface.
func (p *PNG) Image() image.Image { return p.dc.Image() }

// Encode writes the surface as PNG.
func (p *PNG) Encode(w io.Writer) error {
	if p.err != nil {
		return p.err
	}
	return p.dc.EncodePNG(w)
}

// Bytes returns the PNG encoding of the surface.
func (p *PNG) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
