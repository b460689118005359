package transport

import (
	"context"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
)

// Handler turns one decoded request envelope into a response envelope. A
// handler never returns nil for a request that carries an id; the transport
// writes whatever comes back.
type Handler interface {
	Handle(ctx context.Context, req *protocol.RequestEnvelope) *protocol.ResponseEnvelope
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *protocol.RequestEnvelope) *protocol.ResponseEnvelope

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, req *protocol.RequestEnvelope) *protocol.ResponseEnvelope {
	return f(ctx, req)
}

// Middleware wraps a Handler to add functionality such as metrics,
// tracing or request logging around dispatch.
type Middleware interface {
	// Wrap wraps the given handler with middleware functionality.
	Wrap(next Handler) Handler
}

// MiddlewareFunc is an adapter to allow the use of ordinary functions as
// middleware.
type MiddlewareFunc func(Handler) Handler

// Wrap implements the Middleware interface.
func (f MiddlewareFunc) Wrap(next Handler) Handler {
	return f(next)
}

// Chain chains multiple middleware together.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(h Handler) Handler {
		// Apply middleware in reverse order so the first middleware is the
		// outermost.
		for i := len(middleware) - 1; i >= 0; i-- {
			h = middleware[i].Wrap(h)
		}
		return h
	})
}
