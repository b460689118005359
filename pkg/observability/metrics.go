// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the dispatch pipeline. Both are optional: the middleware
// accepts nil providers and skips whatever is absent, so a bare stdio
// server pays nothing for them.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
)

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Listener configuration. The wire protocol runs over stdio; metrics
	// are exposed on a side HTTP listener so scrapers never touch the
	// protocol stream.
	MetricsPath string // HTTP path for the metrics endpoint (default: /metrics)
	MetricsPort int    // port for the metrics listener (default: 9090)

	// Metric options
	Namespace        string    // Prometheus namespace (default: mcp)
	Subsystem        string    // Prometheus subsystem
	HistogramBuckets []float64 // latency buckets in milliseconds

	// Labels added to every metric
	ConstLabels prometheus.Labels

	// Registerer receives the collectors. Defaults to the process-wide
	// registerer; tests pass a private registry.
	Registerer prometheus.Registerer
}

// MetricsProvider records dispatch metrics.
type MetricsProvider interface {
	// Per-request metrics, labeled by wire method
	RecordRequest(ctx context.Context, method, status string, duration time.Duration)
	RecordError(ctx context.Context, kind, method string)

	// Per-primitive metrics, labeled by the primitive invoked
	RecordToolCall(ctx context.Context, tool, status string, duration time.Duration)
	RecordResourceRead(ctx context.Context, uri, status string, duration time.Duration)
	RecordPromptRender(ctx context.Context, prompt, status string, duration time.Duration)

	// Management
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// PrometheusMetricsProvider implements MetricsProvider using Prometheus.
type PrometheusMetricsProvider struct {
	config     MetricsConfig
	registerer prometheus.Registerer
	server     *http.Server

	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	toolCallDuration     *prometheus.HistogramVec
	resourceReadDuration *prometheus.HistogramVec
	promptRenderDuration *prometheus.HistogramVec
	errorTotal           *prometheus.CounterVec
}

// NewMetricsProvider creates a Prometheus metrics provider and registers
// its collectors.
func NewMetricsProvider(config MetricsConfig) (MetricsProvider, error) {
	if config.Namespace == "" {
		config.Namespace = "mcp"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.MetricsPort == 0 {
		config.MetricsPort = 9090
	}
	if config.HistogramBuckets == nil {
		// Default buckets for milliseconds
		config.HistogramBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}

	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	config.ConstLabels["service"] = config.ServiceName
	config.ConstLabels["version"] = config.ServiceVersion
	config.ConstLabels["environment"] = config.Environment

	provider := &PrometheusMetricsProvider{
		config:     config,
		registerer: config.Registerer,
	}
	provider.initializeMetrics()

	if err := provider.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return provider, nil
}

// initializeMetrics creates all metric collectors.
func (p *PrometheusMetricsProvider) initializeMetrics() {
	p.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "request_duration_milliseconds",
			Help:        "Duration of dispatched requests in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	p.requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "request_total",
			Help:        "Total number of dispatched requests",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	p.toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "tool_call_duration_milliseconds",
			Help:        "Duration of tool executions in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"tool", "status"},
	)

	p.resourceReadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "resource_read_duration_milliseconds",
			Help:        "Duration of resource reads in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"resource", "status"},
	)

	p.promptRenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "prompt_render_duration_milliseconds",
			Help:        "Duration of prompt message generation in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"prompt", "status"},
	)

	p.errorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "error_total",
			Help:        "Total number of error responses by kind",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"kind", "method"},
	)
}

// registerMetrics registers all metrics with the configured registerer.
func (p *PrometheusMetricsProvider) registerMetrics() error {
	collectors := []prometheus.Collector{
		p.requestDuration,
		p.requestTotal,
		p.toolCallDuration,
		p.resourceReadDuration,
		p.promptRenderDuration,
		p.errorTotal,
	}

	for _, collector := range collectors {
		if err := p.registerer.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// RecordRequest records one dispatched request.
func (p *PrometheusMetricsProvider) RecordRequest(ctx context.Context, method, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.requestDuration.WithLabelValues(method, status).Observe(ms)
	p.requestTotal.WithLabelValues(method, status).Inc()
}

// RecordError records one error response.
func (p *PrometheusMetricsProvider) RecordError(ctx context.Context, kind, method string) {
	p.errorTotal.WithLabelValues(kind, method).Inc()
}

// RecordToolCall records one tool execution.
func (p *PrometheusMetricsProvider) RecordToolCall(ctx context.Context, tool, status string, duration time.Duration) {
	p.toolCallDuration.WithLabelValues(tool, status).Observe(float64(duration.Milliseconds()))
}

// RecordResourceRead records one resource read.
func (p *PrometheusMetricsProvider) RecordResourceRead(ctx context.Context, uri, status string, duration time.Duration) {
	p.resourceReadDuration.WithLabelValues(uri, status).Observe(float64(duration.Milliseconds()))
}

// RecordPromptRender records one prompt message generation.
func (p *PrometheusMetricsProvider) RecordPromptRender(ctx context.Context, prompt, status string, duration time.Duration) {
	p.promptRenderDuration.WithLabelValues(prompt, status).Observe(float64(duration.Milliseconds()))
}

// Start starts the metrics HTTP listener.
func (p *PrometheusMetricsProvider) Start(ctx context.Context) error {
	var handler http.Handler
	if gatherer, ok := p.registerer.(prometheus.Gatherer); ok {
		handler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	} else {
		handler = promhttp.Handler()
	}

	mux := http.NewServeMux()
	mux.Handle(p.config.MetricsPath, logging.HTTPMiddleware(logging.GetGlobalLogger())(handler))

	p.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", p.config.MetricsPort),
		Handler: mux,
	}

	go func() {
		_ = p.server.ListenAndServe()
	}()
	return nil
}

// Shutdown gracefully shuts down the metrics listener.
func (p *PrometheusMetricsProvider) Shutdown(ctx context.Context) error {
	if p.server != nil {
		return p.server.Shutdown(ctx)
	}
	return nil
}
