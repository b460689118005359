package logging

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// OperationHandler is the handler shape wrapped by ContextMiddleware. The
// dispatcher routes every wire method through one of these.
type OperationHandler func(ctx context.Context, params interface{}) (interface{}, error)

// ContextMiddleware attaches request IDs and start/finish logging to
// operation handlers.
type ContextMiddleware struct {
	logger Logger
}

// NewContextMiddleware creates a new context middleware.
func NewContextMiddleware(logger Logger) *ContextMiddleware {
	return &ContextMiddleware{logger: logger}
}

// WrapHandler wraps a handler with request-ID propagation and duration
// logging. A request ID already present in the context is reused so that all
// log lines for one wire message correlate.
func (m *ContextMiddleware) WrapHandler(operation string, handler OperationHandler) OperationHandler {
	return func(ctx context.Context, params interface{}) (interface{}, error) {
		requestID := RequestIDFromContext(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
			ctx = ContextWithRequestID(ctx, requestID)
		}

		logger := m.logger.WithFields(
			String("request_id", requestID),
			String("operation", operation),
		)

		logger.Debug("Operation started")
		start := time.Now()

		result, err := handler(ctx, params)

		duration := time.Since(start)
		if err != nil {
			logger.WithError(err).WithFields(
				Duration("duration", duration),
			).Error("Operation failed")
		} else {
			logger.WithFields(
				Duration("duration", duration),
			).Debug("Operation completed")
		}

		return result, err
	}
}

// RequestIDGenerator generates unique request IDs.
type RequestIDGenerator interface {
	Generate() string
}

// UUIDGenerator generates UUID request IDs.
type UUIDGenerator struct{}

// Generate generates a new UUID.
func (g *UUIDGenerator) Generate() string {
	return uuid.New().String()
}

// PrefixedGenerator generates prefixed request IDs.
type PrefixedGenerator struct {
	Prefix    string
	Generator RequestIDGenerator
}

// Generate generates a new prefixed ID.
func (g *PrefixedGenerator) Generate() string {
	return fmt.Sprintf("%s-%s", g.Prefix, g.Generator.Generate())
}

// HTTPMiddleware provides request logging for the diagnostics endpoints,
// such as the Prometheus metrics listener. The protocol itself never runs
// over HTTP.
func HTTPMiddleware(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := ContextWithRequestID(r.Context(), requestID)
			r = r.WithContext(ctx)
			w.Header().Set("X-Request-ID", requestID)

			reqLogger := logger.WithFields(
				String("request_id", requestID),
				String("method", r.Method),
				String("path", r.URL.Path),
			)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rw, r)

			reqLogger.WithFields(
				Int("status", rw.statusCode),
				Int("bytes", rw.bytesWritten),
				Duration("duration", time.Since(start)),
			).Debug("HTTP request completed")
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture response details.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	rw.bytesWritten += n
	return n, err
}
