package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/cache"
	errs "github.com/matzehuels/bddview/pkg/errors"
	"github.com/matzehuels/bddview/pkg/graph"
	"github.com/matzehuels/bddview/pkg/observability"
	"github.com/matzehuels/bddview/pkg/render/dot"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pass execution with caching.
// The CLI, the terminal form and the server all use it.
//
// The Runner is stateless except for the cache and logger; it never stores
// surfaces or results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default expiry of both cache stages when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs one parse → plan → render pass over input.
//
// Malformed input is not an error: it is drawn as far as it can be and the
// problems are listed in Result.Diagnostics. Only invalid options, Strict
// mode with diagnostics, and render failures return an error.
func (r *Runner) Execute(ctx context.Context, input string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	d, diags := bdd.Parse(input)
	result.Diagram = d
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Records = d.Len()
	observability.Pipeline().OnParseComplete(ctx, d.Len(), len(diags), result.Stats.ParseTime)

	opts.Logger.Debug("parsed node list",
		"records", d.Len(),
		"diagnostics", len(diags),
		"duration", result.Stats.ParseTime)

	if opts.Strict && len(diags) > 0 {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, diags.Err(), "node list has %d problems", len(diags))
	}

	// Stage 2: Plan
	layoutStart := time.Now()
	frame, l, layoutHit, err := r.PlanWithCacheInfo(ctx, d, cache.Hash([]byte(input)), diags, opts)
	if err != nil {
		return nil, err
	}
	result.Frame = frame
	result.Layout = l
	result.Diagnostics = l.Diagnostics
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Placed = len(frame.Layout.Positions)
	result.Stats.Edges = len(l.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	if frame.Grew {
		observability.Pipeline().OnResize(ctx, frame.Width, frame.Height)
	}
	opts.Logger.Debug("planned frame",
		"width", frame.Width,
		"height", frame.Height,
		"offset", frame.Offset,
		"grew", frame.Grew,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, frame, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PlanWithCacheInfo plans d and serializes the frame, consulting the cache
// first. inputHash identifies the text d was parsed from; diags are the
// parser's diagnostics, stored with the layout.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, d *bdd.Diagram, inputHash string, diags bdd.Diagnostics, opts Options) (Frame, graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Frame{}, graph.Layout{}, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, d.Len())
	start := time.Now()

	cacheKey := r.Keyer.LayoutKey(inputHash, opts.LayoutKeyOpts())

	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), nil)
				frame := FrameOf(cached)
				frame.Grew = frame.Width > opts.Width || frame.Height > opts.Height
				return frame, cached, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	frame := Plan(d, opts.Size())
	var src string
	if opts.IsGraphviz() {
		src = dot.ToDOT(d, dot.Options{})
	}
	l := frame.Export(d, opts.VizType, src)
	l.Diagnostics = append(append(bdd.Diagnostics{}, diags...), frame.Unreachable()...)

	if !opts.NoCache {
		if data, err := graph.MarshalLayout(l); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout)); err == nil {
				observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
			}
		}
	}

	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), nil)
	return frame, l, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *bdd.Diagram, f Frame, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	if !opts.NoCache {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, d, f, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !opts.NoCache {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
				observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
			}
		}
	}

	return rendered, false, nil
}

// RenderLayout renders a saved layout through the artifact cache.
func (r *Runner) RenderLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	d, err := l.Diagram()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "rebuild diagram")
	}
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, FrameOf(l), l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
