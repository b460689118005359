package observability

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/transport"
)

// Dispatch status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Middleware instruments the dispatch pipeline with metrics and tracing.
// Either provider may be nil, in which case that signal is skipped.
type Middleware struct {
	metrics MetricsProvider
	tracing *TracingProvider
}

// NewMiddleware creates an observability middleware over the given
// providers.
func NewMiddleware(metrics MetricsProvider, tracing *TracingProvider) *Middleware {
	return &Middleware{metrics: metrics, tracing: tracing}
}

// Wrap implements transport.Middleware. Every request gets a server span
// named after its method plus request metrics; tool, resource and prompt
// requests additionally record per-primitive metrics.
func (m *Middleware) Wrap(next transport.Handler) transport.Handler {
	return transport.HandlerFunc(func(ctx context.Context, req *protocol.RequestEnvelope) *protocol.ResponseEnvelope {
		start := time.Now()

		var span trace.Span
		if m.tracing != nil {
			ctx, span = m.tracing.StartMethodSpan(ctx, req.Method, trace.SpanKindServer)
			defer span.End()

			if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
				span.SetAttributes(attribute.String("mcp.request_id", requestID))
			}
		}

		targetKind, targetName := primitiveTarget(req)
		if span != nil && targetName != "" {
			span.SetAttributes(attribute.String("mcp."+targetKind, targetName))
		}

		resp := next.Handle(ctx, req)

		duration := time.Since(start)
		status := StatusSuccess
		if resp != nil && !resp.Success {
			status = StatusError
		}

		if span != nil && resp != nil && !resp.Success {
			span.SetStatus(codes.Error, resp.Error.Message)
			span.SetAttributes(attribute.String("mcp.error_kind", resp.Error.Kind))
		}

		if m.metrics != nil {
			m.metrics.RecordRequest(ctx, req.Method, status, duration)
			if resp != nil && !resp.Success {
				m.metrics.RecordError(ctx, resp.Error.Kind, req.Method)
			}

			if targetName != "" {
				switch req.Method {
				case protocol.MethodToolExecute:
					m.metrics.RecordToolCall(ctx, targetName, status, duration)
				case protocol.MethodResourceRead:
					m.metrics.RecordResourceRead(ctx, targetName, status, duration)
				case protocol.MethodPromptGetMessages:
					m.metrics.RecordPromptRender(ctx, targetName, status, duration)
				}
			}
		}

		return resp
	})
}

// primitiveTarget extracts the invoked primitive's label from the request
// params, without validating them; validation errors still surface from the
// dispatcher with the same label attached.
func primitiveTarget(req *protocol.RequestEnvelope) (kind, name string) {
	switch req.Method {
	case protocol.MethodToolExecute:
		var p protocol.ExecuteToolParams
		if json.Unmarshal(req.Params, &p) == nil {
			return "tool", p.Name
		}
	case protocol.MethodResourceRead:
		var p protocol.ReadResourceParams
		if json.Unmarshal(req.Params, &p) == nil {
			return "resource", p.URI
		}
	case protocol.MethodPromptGetMessages:
		var p protocol.GetPromptMessagesParams
		if json.Unmarshal(req.Params, &p) == nil {
			return "prompt", p.Name
		}
	}
	return "", ""
}
