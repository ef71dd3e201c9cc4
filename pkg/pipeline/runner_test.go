package pipeline

import (
	"context"
	"math"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/cache"
	errs "github.com/matzehuels/bddview/pkg/errors"
	"github.com/matzehuels/bddview/pkg/graph"
	"github.com/matzehuels/bddview/pkg/observability"
)

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecuteExample(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), bdd.ExampleText, Options{
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	require.NoError(t, err)

	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, DefaultSize, res.Frame.Size)
	assert.Equal(t, 150.0, res.Frame.Offset)
	assert.Equal(t, 4, res.Stats.Records)
	assert.Equal(t, 4, res.Stats.Placed)
	assert.Equal(t, 4, res.Stats.Edges)

	svg := string(res.Artifacts[FormatSVG])
	assert.Contains(t, svg, "<svg")
	assert.Equal(t, 4, strings.Count(svg, "<circle"))

	l, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON])
	require.NoError(t, err)
	assert.Equal(t, 150.0, l.OffsetX)

	assert.Contains(t, string(res.Artifacts[FormatDOT]), "digraph BDD {")
}

func TestExecuteMalformedInputIsNotAnError(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), "0;1;9;2,x,0,zz", Options{})
	require.NoError(t, err)

	kinds := make(map[bdd.Kind]int)
	for _, d := range res.Diagnostics {
		kinds[d.Kind]++
	}
	assert.Equal(t, 1, kinds[bdd.UnresolvedRef])
	assert.Equal(t, 2, kinds[bdd.Unreachable], "records 1 and 2 are not reachable")
	assert.NotEmpty(t, res.Artifacts[FormatSVG])
}

func TestExecuteRejectsUnusableSurface(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"NaNWidth", Options{Width: math.NaN()}, errs.ErrCodeInvalidInput},
		{"InfiniteWidth", Options{Width: math.Inf(1)}, errs.ErrCodeInvalidInput},
		{"PNGPastPixelLimit", Options{Width: 1e6, Formats: []string{FormatPNG}}, errs.ErrCodeRenderFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), bdd.ExampleText, tt.opts)
			assert.True(t, errs.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestExecuteStrict(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(context.Background(), "a;1", Options{Strict: true})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
	diags, ok := bdd.AsDiagnostics(err)
	require.True(t, ok)
	assert.Equal(t, 1, diags.Count(bdd.MalformedID))

	_, err = r.Execute(context.Background(), bdd.ExampleText, Options{Strict: true})
	assert.NoError(t, err)
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), bdd.ExampleText, Options{Formats: []string{"gif"}})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
}

func TestExecuteCaches(t *testing.T) {
	r := newFileRunner(t)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, bdd.ExampleText, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.LayoutHit)
	assert.False(t, first.CacheInfo.RenderHit)

	second, err := r.Execute(ctx, bdd.ExampleText, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Equal(t, first.Artifacts, second.Artifacts)
	assert.Equal(t, first.Frame.Size, second.Frame.Size)
	assert.Equal(t, first.Frame.Offset, second.Frame.Offset)

	// A different starting size is a different layout.
	opts.Width = 200
	third, err := r.Execute(ctx, bdd.ExampleText, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.LayoutHit)

	// NoCache bypasses both stages.
	opts.NoCache = true
	fourth, err := r.Execute(ctx, bdd.ExampleText, opts)
	require.NoError(t, err)
	assert.False(t, fourth.CacheInfo.LayoutHit)
	assert.False(t, fourth.CacheInfo.RenderHit)
}

func TestExecuteThreadsSize(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	size := Size{Width: 100, Height: 100}
	for _, input := range []string{bdd.ExampleText, "1", "0;1;2,a,0,1;3,b,2,1;4,c,3,1;5,d,4,1"} {
		res, err := r.Execute(ctx, input, Options{Width: size.Width, Height: size.Height})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Frame.Width, size.Width)
		assert.GreaterOrEqual(t, res.Frame.Height, size.Height)
		size = res.Frame.Size
	}
}

func TestExecuteGraphviz(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), bdd.ExampleText, Options{
		VizType: "graphviz",
		Formats: []string{FormatDOT, FormatJSON, FormatSVG},
	})
	require.NoError(t, err)

	assert.True(t, res.Layout.IsGraphviz())
	assert.Contains(t, string(res.Artifacts[FormatDOT]), "n3 -> n2")
	assert.Contains(t, string(res.Artifacts[FormatSVG]), "<svg")
}

func TestExecutePNG(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), bdd.ExampleText, Options{
		Formats: []string{FormatPNG},
		Scale:   2,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(res.Artifacts[FormatPNG]), "\x89PNG"))
}

func TestExecutePDF(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), bdd.ExampleText, Options{Formats: []string{FormatPDF}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(res.Artifacts[FormatPDF]), "%PDF"))
}

func TestRenderLayoutReproducesDrawing(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	res, err := r.Execute(ctx, bdd.ExampleText, Options{})
	require.NoError(t, err)

	data, err := graph.MarshalLayout(res.Layout)
	require.NoError(t, err)
	saved, err := graph.UnmarshalLayout(data)
	require.NoError(t, err)

	artifacts, err := r.RenderLayout(ctx, saved, Options{})
	require.NoError(t, err)
	assert.Equal(t, string(res.Artifacts[FormatSVG]), string(artifacts[FormatSVG]))
}

func TestExecuteEmitsHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	r := newFileRunner(t)
	ctx := context.Background()
	opts := Options{Width: 100, Height: 100}

	_, err := r.Execute(ctx, bdd.ExampleText, opts)
	require.NoError(t, err)
	_, err = r.Execute(ctx, bdd.ExampleText, opts)
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, 2, rec.parses)
	assert.Equal(t, 2, rec.resizes)
	assert.Equal(t, 1, rec.renders, "second pass is served from cache")
	assert.Equal(t, 2, rec.hits)
	assert.Equal(t, 2, rec.misses)
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu                                     sync.Mutex
	parses, resizes, renders, hits, misses int
}

func (h *recordingHooks) OnParseComplete(context.Context, int, int, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.parses++
}

func (h *recordingHooks) OnResize(context.Context, float64, float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resizes++
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders++
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func TestRunnerTTLOverride(t *testing.T) {
	c := &ttlCache{}
	r := NewRunner(c, nil, nil)
	_, err := r.Execute(context.Background(), bdd.ExampleText, Options{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{cache.TTLLayout, cache.TTLArtifact}, c.ttls)

	c.ttls = nil
	r.TTL = time.Hour
	_, err = r.Execute(context.Background(), "0;1;2,a,0,1", Options{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Hour, time.Hour}, c.ttls)
}

// ttlCache misses every read and records the expiry of every write.
type ttlCache struct {
	ttls []time.Duration
}

func (c *ttlCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *ttlCache) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	c.ttls = append(c.ttls, ttl)
	return nil
}

func (c *ttlCache) Delete(context.Context, string) error { return nil }
func (c *ttlCache) Close() error                        { return nil }
