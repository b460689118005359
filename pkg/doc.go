// Package pkg holds the implementation sub-packages of the module. The root
// package re-exports the pieces most programs need; import a sub-package
// directly when you need its full surface.
//
// # Sub-packages
//
//   - schema: parameter descriptors and the validator behind every tool
//     execution and prompt render
//   - errors: the shared error taxonomy and its wire envelope mapping
//   - registry: the generic keyed registry the server builds on
//   - primitives: Tool, Resource and Prompt with their executors
//   - server: the lifecycle-gated core holding the three registries
//   - transport: line framing, the stdio transport and the dispatcher
//   - protocol: envelopes, method names and list metadata views
//   - client: the client SDK, including subprocess spawning
//   - builtin: a ready-made catalog of demonstration primitives
//   - config: layered YAML configuration
//   - logging: leveled structured logging
//   - observability: Prometheus metrics and OpenTelemetry tracing
//     middleware for the dispatcher
package pkg
