package sink

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/geom"
	"github.com/matzehuels/bddview/pkg/layout"
	"github.com/matzehuels/bddview/pkg/render"
)

var (
	_ render.Surface = (*SVG)(nil)
	_ render.Surface = (*PNG)(nil)
)

func drawExample(s render.Surface) {
	d := bdd.Example()
	res := layout.Compute(d, 800)
	render.Draw(s, d, res.Positions, 0)
}

func TestSVGExample(t *testing.T) {
	s := NewSVG(800, 600)
	drawExample(s)

	assert.Equal(t, 4, s.Count("node"))
	assert.Equal(t, 4, s.Count("label"))
	assert.Equal(t, 4, s.Count("edge"))
	assert.Equal(t, 4, s.Count("arrow"))

	out := string(s.Bytes())
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.0 600.0" width="800" height="600">`))
	assert.Equal(t, 4, strings.Count(out, "<circle"))
	assert.Equal(t, 4, strings.Count(out, "<polygon"))
	assert.Contains(t, out, `stroke="#ff0000"`)
	assert.Contains(t, out, `stroke="#008000"`)
	assert.Contains(t, out, `fill="#ffffff"`)
	assert.Contains(t, out, ">x2</text>")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestSVGResizeClears(t *testing.T) {
	s := NewSVG(100, 100)
	drawExample(s)
	require.NotZero(t, s.Count("node"))

	s.Resize(1000, 700)
	w, h := s.Size()
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, 700.0, h)
	assert.Zero(t, s.Count("node"))
	assert.Contains(t, string(s.Bytes()), `width="1000" height="700"`)
}

func TestSVGClearRect(t *testing.T) {
	s := NewSVG(800, 600)
	s.Circle(geom.Point{X: 50, Y: 50}, 20, color.White, color.Black)
	s.Circle(geom.Point{X: 500, Y: 50}, 20, color.White, color.Black)

	s.ClearRect(0, 0, 100, 100)
	assert.Equal(t, 1, s.Count("node"))

	s.ClearRect(0, 0, 800, 600)
	assert.Zero(t, s.Count("node"))
}

func TestSVGOptions(t *testing.T) {
	s := NewSVG(10, 10, WithTitle("a<b"), WithBackground(color.White))
	out := string(s.Bytes())
	assert.Contains(t, out, "<title>a&lt;b</title>")
	assert.Contains(t, out, `<rect x="0" y="0" width="10" height="10" fill="#ffffff"/>`)
}

func TestSVGEscapesLabels(t *testing.T) {
	s := NewSVG(100, 100)
	s.Text(geom.Point{X: 1, Y: 1}, `x&"y"`, color.Black)
	assert.Contains(t, string(s.Bytes()), ">x&amp;&#34;y&#34;</text>")
}

func TestPaint(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want string
	}{
		{"Nil", nil, `fill="none"`},
		{"Transparent", color.Transparent, `fill="none"`},
		{"Opaque", color.RGBA{R: 0xff, A: 0xff}, `fill="#ff0000"`},
		{"Translucent", color.NRGBA{G: 0xff, A: 0x80}, `fill="#00ff00" fill-opacity="0.502"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paint("fill", tt.c))
		})
	}
}

func TestPNGExample(t *testing.T) {
	p, err := NewPNG(800, 600, WithScale(2))
	require.NoError(t, err)
	drawExample(p)

	data, err := p.Bytes()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1600, img.Bounds().Dx())
	assert.Equal(t, 1200, img.Bounds().Dy())

	// Inside the root node (400, 50): white fill.
	r, g, b, a := img.At(800, 100+30).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)

	// Far corner: untouched.
	_, _, _, a = img.At(1590, 1190).RGBA()
	assert.Zero(t, a)
}

func TestPNGClearAndResize(t *testing.T) {
	p, err := NewPNG(200, 200)
	require.NoError(t, err)
	p.Circle(geom.Point{X: 100, Y: 100}, 20, color.White, color.Black)

	_, _, _, a := p.Image().At(100, 110).RGBA()
	require.NotZero(t, a)

	p.ClearRect(0, 0, 200, 200)
	_, _, _, a = p.Image().At(100, 110).RGBA()
	assert.Zero(t, a)

	p.Resize(300, 250)
	w, h := p.Size()
	assert.Equal(t, 300.0, w)
	assert.Equal(t, 250.0, h)
	assert.Equal(t, 300, p.Image().Bounds().Dx())
}

func TestPNGPixelLimit(t *testing.T) {
	tests := []struct {
		name  string
		w, h  float64
		scale float64
	}{
		{"Wide", 1e6, 600, 1},
		{"Scaled", 8000, 8000, 4},
		{"Tall", 800, 1e9, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPNG(tt.w, tt.h, WithScale(tt.scale))
			assert.ErrorIs(t, err, ErrImageTooLarge)
		})
	}
}

func TestPNGResizePastLimit(t *testing.T) {
	p, err := NewPNG(200, 100)
	require.NoError(t, err)

	p.Resize(200, 1e9)
	w, h := p.Size()
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 100.0, h)

	_, err = p.Bytes()
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
