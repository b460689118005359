// Package builtin provides a ready-made catalog of tools, resources and
// prompts. The fixed set (calculator, echo, batch_processor,
// concurrent_fetcher, the config and status resources, the code_review and
// summarize prompts) doubles as a demonstration of each primitive kind; the
// weather tool is constructed separately to show how a primitive built
// outside this package registers on a running server through the same
// extension point.
//
// Everything here is wired through the public constructors in pkg/primitives
// and pkg/schema. None of it is required: a server with an empty catalog is
// perfectly valid.
package builtin
