// Package client is the SDK for talking to a server over the
// newline-delimited JSON protocol.
//
// A Client works over any duplex byte stream; Spawn additionally runs the
// server as a child process and wires the client to its stdio. Requests
// carry sequential ids (req-1, req-2, ...) and one request is in flight at
// a time; a response whose id does not match the outstanding request is
// logged and discarded.
//
// Server-side failures come back as typed errors, so callers can branch on
// the taxonomy:
//
//	tools, err := c.ListTools(ctx)
//	if mcperrors.IsKind(err, mcperrors.KindServerNotInitialized) {
//		_, _ = c.InitializeServer(ctx)
//	}
package client
