package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements every hook interface on top of Prometheus metrics.
type Prometheus struct {
	ParseDuration   prometheus.Histogram
	RenderDuration  *prometheus.HistogramVec
	CompileDuration prometheus.Histogram
	GraphNodes      prometheus.Gauge
	GraphEdges      prometheus.Gauge
	ParseErrors     prometheus.Counter
	CacheRequests   *prometheus.CounterVec
	CompileTimeouts prometheus.Counter
}

// NewPrometheus creates the verilive_* metrics and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		ParseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "verilive_parse_seconds",
			Help:    "Time spent parsing a netlist and building its graphs.",
			Buckets: prometheus.DefBuckets,
		}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verilive_render_seconds",
			Help:    "Time spent rendering a graph view.",
			Buckets: prometheus.DefBuckets,
		}, []string{"view", "format"}),
		CompileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "verilive_compile_seconds",
			Help:    "Wall-clock time of iverilog plus vvp runs.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5},
		}),
		GraphNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "verilive_graph_nodes",
			Help: "Module count of the most recently built graph.",
		}),
		GraphEdges: f.NewGauge(prometheus.GaugeOpts{
			Name: "verilive_graph_edges",
			Help: "Hierarchy plus connectivity edge count of the most recently built graph.",
		}),
		ParseErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "verilive_parse_errors_total",
			Help: "Total number of netlists that failed to parse.",
		}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verilive_cache_requests_total",
			Help: "Cache lookups and writes by key type and result.",
		}, []string{"kind", "result"}),
		CompileTimeouts: f.NewCounter(prometheus.CounterOpts{
			Name: "verilive_compile_timeouts_total",
			Help: "Total number of compiler runs killed for exceeding the time budget.",
		}),
	}
}

// Register installs p as the global pipeline, cache and compile hooks.
func Register(p *Prometheus) {
	SetPipelineHooks(p)
	SetCacheHooks(p)
	SetCompileHooks(p)
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (p *Prometheus) OnParseStart(context.Context, int) {}

func (p *Prometheus) OnParseComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	p.ParseDuration.Observe(d.Seconds())
	if err != nil {
		p.ParseErrors.Inc()
		return
	}
	p.GraphNodes.Set(float64(nodes))
	p.GraphEdges.Set(float64(edges))
}

func (p *Prometheus) OnRenderStart(context.Context, string, string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, view, format string, d time.Duration, _ error) {
	p.RenderDuration.WithLabelValues(view, format).Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.CacheRequests.WithLabelValues(keyType, "set").Inc()
}

func (p *Prometheus) OnCompileStart(context.Context) {}

func (p *Prometheus) OnCompileComplete(_ context.Context, d time.Duration, _ error) {
	p.CompileDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCompileTimeout(context.Context, time.Duration) {
	p.CompileTimeouts.Inc()
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ CompileHooks  = (*Prometheus)(nil)
)
