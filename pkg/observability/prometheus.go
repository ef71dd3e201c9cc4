package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements every hook interface on top of a prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	ParseRecords      prometheus.Histogram
	ParseDiagnostics  prometheus.Counter
	LayoutsTotal      *prometheus.CounterVec
	LayoutDuration    *prometheus.HistogramVec
	RendersTotal      *prometheus.CounterVec
	RenderDuration    prometheus.Histogram
	SurfaceResizes    prometheus.Counter
	SurfaceWidth      prometheus.Gauge
	SurfaceHeight     prometheus.Gauge
	CacheOpsTotal     *prometheus.CounterVec
	CacheBytesWritten prometheus.Counter
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	HTTPInFlight      prometheus.Gauge
}

// NewMetrics registers the bddview collectors on reg. A nil reg gets a fresh
// registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ParseRecords: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bddview_parse_records",
			Help:    "Records per parsed node list",
			Buckets: []float64{1, 4, 16, 64, 256, 1024},
		}),
		ParseDiagnostics: f.NewCounter(prometheus.CounterOpts{
			Name: "bddview_parse_diagnostics_total",
			Help: "Diagnostics reported by the parser",
		}),
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bddview_layouts_total",
			Help: "Computed layouts",
		}, []string{"viz_type", "status"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bddview_layout_duration_seconds",
			Help:    "Layout latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"viz_type"}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bddview_renders_total",
			Help: "Render passes by format",
		}, []string{"format", "status"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bddview_render_duration_seconds",
			Help:    "Render latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		SurfaceResizes: f.NewCounter(prometheus.CounterOpts{
			Name: "bddview_surface_resizes_total",
			Help: "Passes that grew the surface",
		}),
		SurfaceWidth: f.NewGauge(prometheus.GaugeOpts{
			Name: "bddview_surface_width",
			Help: "Width of the last grown surface",
		}),
		SurfaceHeight: f.NewGauge(prometheus.GaugeOpts{
			Name: "bddview_surface_height",
			Help: "Height of the last grown surface",
		}),
		CacheOpsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bddview_cache_operations_total",
			Help: "Cache lookups and writes",
		}, []string{"key_type", "result"}),
		CacheBytesWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "bddview_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bddview_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bddview_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "bddview_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		}),
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) OnParseComplete(_ context.Context, records, diagnostics int, _ time.Duration) {
	m.ParseRecords.Observe(float64(records))
	m.ParseDiagnostics.Add(float64(diagnostics))
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	m.LayoutsTotal.WithLabelValues(vizType, status(err)).Inc()
	m.LayoutDuration.WithLabelValues(vizType).Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		m.RendersTotal.WithLabelValues(f, status(err)).Inc()
	}
	m.RenderDuration.Observe(d.Seconds())
}

func (m *Metrics) OnResize(_ context.Context, width, height float64) {
	m.SurfaceResizes.Inc()
	m.SurfaceWidth.Set(width)
	m.SurfaceHeight.Set(height)
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
	m.CacheBytesWritten.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
