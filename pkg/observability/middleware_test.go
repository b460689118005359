package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/transport"
)

func okHandler() transport.Handler {
	return transport.HandlerFunc(func(ctx context.Context, req *protocol.RequestEnvelope) *protocol.ResponseEnvelope {
		resp, _ := protocol.NewResponse(req.ID, map[string]string{"ok": "yes"})
		return resp
	})
}

func failingHandler(kind mcperrors.Kind) transport.Handler {
	return transport.HandlerFunc(func(ctx context.Context, req *protocol.RequestEnvelope) *protocol.ResponseEnvelope {
		return mcperrors.ToResponse(req.ID, mcperrors.New(kind, "boom"))
	})
}

func newTestMetrics(t *testing.T) *PrometheusMetricsProvider {
	t.Helper()
	provider, err := NewMetricsProvider(MetricsConfig{
		ServiceName: "observability-test",
		Registerer:  prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return provider.(*PrometheusMetricsProvider)
}

func newTestTracing(t *testing.T) (*TracingProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	provider := &TracingProvider{
		config:         TracingConfig{ServiceName: "observability-test"},
		tracerProvider: tp,
		tracer:         tp.Tracer("observability-test"),
		shutdown:       tp.Shutdown,
	}
	return provider, exporter
}

func mustRequest(t *testing.T, id, method string, params interface{}) *protocol.RequestEnvelope {
	t.Helper()
	req, err := protocol.NewRequest(id, method, params)
	require.NoError(t, err)
	return req
}

func TestMiddlewareRecordsRequestMetrics(t *testing.T) {
	metrics := newTestMetrics(t)
	handler := NewMiddleware(metrics, nil).Wrap(okHandler())

	handler.Handle(context.Background(), mustRequest(t, "1", protocol.MethodToolList, nil))
	handler.Handle(context.Background(), mustRequest(t, "2", protocol.MethodToolList, nil))

	counted := testutil.ToFloat64(metrics.requestTotal.WithLabelValues(protocol.MethodToolList, StatusSuccess))
	assert.Equal(t, 2.0, counted)
}

func TestMiddlewareRecordsErrorMetrics(t *testing.T) {
	metrics := newTestMetrics(t)
	handler := NewMiddleware(metrics, nil).Wrap(failingHandler(mcperrors.KindToolNotFound))

	handler.Handle(context.Background(), mustRequest(t, "1", protocol.MethodToolExecute, protocol.ExecuteToolParams{Name: "ghost"}))

	errors := testutil.ToFloat64(metrics.errorTotal.WithLabelValues(string(mcperrors.KindToolNotFound), protocol.MethodToolExecute))
	assert.Equal(t, 1.0, errors)

	total := testutil.ToFloat64(metrics.requestTotal.WithLabelValues(protocol.MethodToolExecute, StatusError))
	assert.Equal(t, 1.0, total)
}

func TestMiddlewareRecordsPerPrimitiveMetrics(t *testing.T) {
	metrics := newTestMetrics(t)
	handler := NewMiddleware(metrics, nil).Wrap(okHandler())

	handler.Handle(context.Background(), mustRequest(t, "1", protocol.MethodToolExecute, protocol.ExecuteToolParams{Name: "calculator"}))
	handler.Handle(context.Background(), mustRequest(t, "2", protocol.MethodResourceRead, protocol.ReadResourceParams{URI: "config://app"}))
	handler.Handle(context.Background(), mustRequest(t, "3", protocol.MethodPromptGetMessages, protocol.GetPromptMessagesParams{Name: "summarize"}))

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.toolCallDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.resourceReadDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.promptRenderDuration))
}

func TestMiddlewareListRequestsSkipPrimitiveMetrics(t *testing.T) {
	metrics := newTestMetrics(t)
	handler := NewMiddleware(metrics, nil).Wrap(okHandler())

	handler.Handle(context.Background(), mustRequest(t, "1", protocol.MethodToolList, nil))

	assert.Zero(t, testutil.CollectAndCount(metrics.toolCallDuration))
}

func TestMiddlewareEmitsServerSpan(t *testing.T) {
	tracing, exporter := newTestTracing(t)
	handler := NewMiddleware(nil, tracing).Wrap(okHandler())

	handler.Handle(context.Background(), mustRequest(t, "1", protocol.MethodServerInfo, nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "mcp.server.info", spans[0].Name)

	attrs := spans[0].Attributes
	var foundMethod bool
	for _, attr := range attrs {
		if string(attr.Key) == "mcp.method" {
			foundMethod = true
			assert.Equal(t, protocol.MethodServerInfo, attr.Value.AsString())
		}
	}
	assert.True(t, foundMethod, "span must carry the mcp.method attribute")
}

func TestMiddlewareMarksSpanOnError(t *testing.T) {
	tracing, exporter := newTestTracing(t)
	handler := NewMiddleware(nil, tracing).Wrap(failingHandler(mcperrors.KindServerNotInitialized))

	handler.Handle(context.Background(), mustRequest(t, "1", protocol.MethodToolList, nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, otelcodes.Error, spans[0].Status.Code)

	var kind string
	for _, attr := range spans[0].Attributes {
		if string(attr.Key) == "mcp.error_kind" {
			kind = attr.Value.AsString()
		}
	}
	assert.Equal(t, string(mcperrors.KindServerNotInitialized), kind)
}

func TestMiddlewareWithNoProvidersIsTransparent(t *testing.T) {
	handler := NewMiddleware(nil, nil).Wrap(okHandler())

	resp := handler.Handle(context.Background(), mustRequest(t, "1", protocol.MethodServerInfo, nil))
	require.NotNil(t, resp)
	assert.True(t, resp.Success)
}

func TestPrimitiveTarget(t *testing.T) {
	kind, name := primitiveTarget(mustRequest(t, "1", protocol.MethodToolExecute, protocol.ExecuteToolParams{Name: "echo"}))
	assert.Equal(t, "tool", kind)
	assert.Equal(t, "echo", name)

	kind, name = primitiveTarget(mustRequest(t, "1", protocol.MethodResourceRead, protocol.ReadResourceParams{URI: "status://system"}))
	assert.Equal(t, "resource", kind)
	assert.Equal(t, "status://system", name)

	kind, name = primitiveTarget(mustRequest(t, "1", protocol.MethodToolList, nil))
	assert.Empty(t, kind)
	assert.Empty(t, name)
}
