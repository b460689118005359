// Package transport carries request and response envelopes between a client
// and the server core over newline-delimited JSON.
//
// The package has three layers. Framer turns a byte stream into discrete
// JSON messages, one object per line. Dispatcher maps each decoded request
// to a server core operation through a fixed method table and normalizes
// every failure into an error envelope. StdioTransport owns the blocking
// read loop that connects the two, reading from stdin and writing to stdout
// by default.
//
// Handlers compose through Middleware, so cross-cutting behavior such as
// metrics and tracing wraps the dispatcher without the dispatcher knowing:
//
//	handler := transport.Chain(obsMiddleware).Wrap(dispatcher)
//	t := transport.NewStdioTransport(handler)
//	err := t.Run(ctx)
//
// Processing is strictly sequential: one request is read, dispatched and
// answered before the next line is read, so responses leave in request
// order. The request id is still echoed on every response to keep the wire
// contract ready for a concurrent transport.
package transport
