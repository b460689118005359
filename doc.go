// Package mcp implements a modular tool, resource and prompt server with a
// validated schema layer, a line-oriented JSON wire protocol, and a client
// SDK for driving a server from Go or from the command line.
//
// A server holds three registries of primitives. Tools are invokable
// operations with schema-checked parameters, resources are URI-addressed
// readables, and prompts render role-tagged message sequences from
// schema-checked arguments. The server starts uninitialized: every
// operation except Info is gated until Initialize registers the primitive
// sets, so a host decides exactly what it exposes before the first request
// is served.
//
// # Overview
//
// The module consists of several sub-packages:
//
//   - pkg/schema: parameter descriptors and the validator behind every
//     tool execution and prompt render
//   - pkg/errors: the error taxonomy shared by all operations and the
//     wire envelope mapping
//   - pkg/registry: the generic keyed registry the server cores build on
//   - pkg/primitives: Tool, Resource and Prompt with their executors
//   - pkg/server: the lifecycle-gated core holding the registries
//   - pkg/transport: newline-delimited JSON framing, the stdio transport
//     and the method dispatcher
//   - pkg/protocol: request/response envelopes, method names and the
//     metadata views returned by list operations
//   - pkg/client: the client SDK, including subprocess spawning
//   - pkg/builtin: a ready-made catalog of demonstration primitives
//   - pkg/config: layered YAML configuration
//   - pkg/logging: leveled structured logging
//   - pkg/observability: Prometheus metrics and OpenTelemetry tracing
//     middleware for the dispatcher
//
// This root package re-exports the primary types and constructors, so most
// programs only import it.
//
// # Building a Server
//
// Define primitives, create a core and initialize it:
//
//	adder := &mcp.Tool{
//	    Name:        "add",
//	    Description: "Adds two numbers",
//	    InputSchema: mcp.ObjectSchema(map[string]*mcp.Descriptor{
//	        "a": {Type: mcp.TypeNumber},
//	        "b": {Type: mcp.TypeNumber},
//	    }, "a", "b"),
//	    Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
//	        return map[string]interface{}{"sum": params["a"].(float64) + params["b"].(float64)}, nil
//	    },
//	}
//
//	core := mcp.NewServer(mcp.WithName("adder"), mcp.WithVersion("1.0.0"))
//	if err := core.Initialize([]*mcp.Tool{adder}, nil, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := core.ExecuteTool(ctx, "add", map[string]interface{}{"a": 1.0, "b": 2.0})
//
// Handlers never see invalid input: Execute validates parameters against
// the input schema, fills declared defaults, and turns violations into a
// validation error listing every failed constraint.
//
// # Serving over Stdio
//
// The wire protocol is one JSON object per line. A dispatcher binds the
// core and a catalog to the eight wire methods; the stdio transport pumps
// requests through it until the input stream closes:
//
//	core := mcp.NewServer(mcp.WithName("demo"), mcp.WithVersion("1.0.0"))
//	handler := mcp.NewDispatcher(core, mcp.Catalog{Tools: []*mcp.Tool{adder}}, nil)
//	if err := mcp.NewStdioTransport(handler).Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The catalog is registered when a client calls server.initialize, so the
// host process decides what is exposed and clients cannot alter it.
//
// # Calling a Server
//
// The client speaks the same protocol over any reader/writer pair. Spawn
// starts a server subprocess and wires its stdio:
//
//	sub, err := mcp.Spawn(ctx, "mcpd", "serve")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sub.Close()
//
//	if _, err := sub.InitializeServer(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	raw, err := sub.ExecuteTool(ctx, "add", map[string]interface{}{"a": 1.0, "b": 2.0})
//
// Server-side failures come back as typed errors carrying the wire kind,
// so callers can branch on the failure class rather than message text.
//
// # Command Line
//
// The cmd/mcpd binary serves the builtin catalog over stdio and doubles as
// a client: verbs like "mcpd tools" and "mcpd tool calculator --params"
// spawn a server, initialize it, and print the result as JSON.
package mcp
