package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnParseComplete(ctx, 4, 0, time.Millisecond)
	p.OnLayoutStart(ctx, "canvas", 4)
	p.OnLayoutComplete(ctx, "canvas", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
	p.OnResize(ctx, 900, 700)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/")
	h.OnResponse(ctx, "GET", "/", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.OnParseComplete(ctx, 4, 2, time.Millisecond)
	m.OnLayoutComplete(ctx, "canvas", time.Millisecond, nil)
	m.OnRenderComplete(ctx, []string{"svg", "png"}, time.Millisecond, errors.New("boom"))
	m.OnResize(ctx, 900, 700)
	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 128)
	m.OnRequest(ctx, "GET", "/")
	m.OnResponse(ctx, "GET", "/", 200, time.Millisecond)

	got := gathered(t, reg)
	tests := []struct {
		name string
		want float64
	}{
		{"bddview_parse_diagnostics_total", 2},
		{"bddview_layouts_total", 1},
		{"bddview_renders_total", 2},
		{"bddview_surface_resizes_total", 1},
		{"bddview_surface_width", 900},
		{"bddview_surface_height", 700},
		{"bddview_cache_operations_total", 3},
		{"bddview_cache_written_bytes_total", 128},
		{"bddview_http_requests_total", 1},
		{"bddview_http_requests_in_flight", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := got[tt.name]
			if !ok {
				t.Fatalf("metric %s not gathered", tt.name)
			}
			if v != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, v, tt.want)
			}
		})
	}
}

func TestNewMetricsNilRegistry(t *testing.T) {
	m := NewMetrics(nil)
	if m.Registry() == nil {
		t.Fatal("Registry() should not be nil")
	}
}

// gathered sums counter and gauge values per metric family.
func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	return out
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
