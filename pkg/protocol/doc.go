// Package protocol defines the wire types for the line-delimited JSON
// protocol the server speaks over a byte stream.
//
// A request is a single JSON object per line:
//
//	{"id": "req-1", "method": "tool.execute", "params": {"name": "calculator", "parameters": {...}}}
//
// A response echoes the request id and carries either a result or an error:
//
//	{"id": "req-1", "success": true, "result": {"result": 8}}
//	{"id": "req-1", "success": false, "error": {"kind": "ToolNotFoundError", "message": "Tool 'calculator' not found"}}
//
// The method table is fixed: server.info, server.initialize, tool.list,
// tool.execute, resource.list, resource.read, prompt.list and
// prompt.get_messages. No other methods are defined.
//
// The package also declares the metadata views (ToolInfo, ResourceInfo,
// PromptInfo) returned by the list operations, the role-tagged Message type
// produced by prompts, and the typed parameter/result payloads for each
// method.
package protocol
