package errors

import (
	"fmt"
)

// Registration errors

// DuplicateKey creates an error for a registration-time key collision.
// entity names the primitive kind ("Tool", "Resource", "Prompt").
func DuplicateKey(entity, key string) MCPError {
	return Newf(KindDuplicateKey, "%s '%s' is already registered", entity, key).
		WithDetail("entity", entity).
		WithDetail("key", key)
}

// InvalidSchema creates an error for a malformed schema descriptor caught at
// registration time.
func InvalidSchema(entity, key string, cause error) MCPError {
	err := Wrapf(cause, KindInvalidSchema, "%s '%s' has an invalid schema", entity, key).
		WithDetail("entity", entity).
		WithDetail("key", key)
	if cause != nil {
		err = err.WithDetail("reason", cause.Error())
	}
	return err
}

// Lookup errors

// ToolNotFound creates an error for a tool lookup miss.
func ToolNotFound(name string) MCPError {
	return Newf(KindToolNotFound, "Tool '%s' not found", name).
		WithDetail("tool", name)
}

// ResourceNotFound creates an error for a resource lookup miss.
func ResourceNotFound(uri string) MCPError {
	return Newf(KindResourceNotFound, "Resource '%s' not found", uri).
		WithDetail("uri", uri)
}

// PromptNotFound creates an error for a prompt lookup miss.
func PromptNotFound(name string) MCPError {
	return Newf(KindPromptNotFound, "Prompt '%s' not found", name).
		WithDetail("prompt", name)
}

// Execution errors

// ExecutionFailed creates an error for a tool handler that returned an error
// or panicked.
func ExecutionFailed(tool string, cause error) MCPError {
	err := Wrapf(cause, KindExecution, "Tool '%s' execution failed", tool).
		WithDetail("tool", tool)
	if cause != nil {
		err = err.WithDetail("reason", cause.Error())
	}
	return err
}

// GenerationFailed creates an error for a prompt message generator that
// returned an error or produced no messages.
func GenerationFailed(prompt string, cause error) MCPError {
	err := Wrapf(cause, KindExecution, "Prompt '%s' message generation failed", prompt).
		WithDetail("prompt", prompt)
	if cause != nil {
		err = err.WithDetail("reason", cause.Error())
	}
	return err
}

// ResourceReadFailed creates an error for a resource reader failure.
func ResourceReadFailed(uri string, cause error) MCPError {
	err := Wrapf(cause, KindResourceRead, "Failed to read resource '%s'", uri).
		WithDetail("uri", uri)
	if cause != nil {
		err = err.WithDetail("reason", cause.Error())
	}
	return err
}

// Lifecycle errors

// ServerNotInitialized creates an error for operations invoked before
// initialize().
func ServerNotInitialized() MCPError {
	return New(KindServerNotInitialized, "Server not initialized. Call initialize() first.")
}

// InitializationFailed aggregates the per-item failures collected during a
// best-effort initialize(). The details carry every failure so callers see
// the full picture, not just the first bad component.
func InitializationFailed(failures []error) MCPError {
	items := make([]interface{}, 0, len(failures))
	for _, f := range failures {
		if f == nil {
			continue
		}
		if mcpErr, ok := AsMCPError(f); ok {
			items = append(items, mcpErr.ToJSON())
		} else {
			items = append(items, map[string]interface{}{"message": f.Error()})
		}
	}

	return Newf(KindInitialization, "Server initialization failed: %d component(s) could not be registered", len(items)).
		WithDetail("errors", items).
		WithDetail("count", len(items))
}

// Protocol errors

// MethodNotFound creates an error for an unknown wire method.
func MethodNotFound(method string) MCPError {
	return Newf(KindMethodNotFound, "unknown method '%s'", method).
		WithDetail("method", method)
}

// MalformedMessage creates an error for a line that is not a well-formed
// request envelope.
func MalformedMessage(cause error) MCPError {
	err := New(KindMalformedMessage, "Malformed message: not a valid request envelope")
	if cause != nil {
		err = Wrap(cause, KindMalformedMessage, "Malformed message: not a valid request envelope").
			WithDetail("reason", cause.Error())
	}
	return err
}

// Internal creates the fallback error for unexpected failures.
func Internal(operation string, cause error) MCPError {
	message := "Internal error"
	if operation != "" {
		message = fmt.Sprintf("Internal error during %s", operation)
	}
	return Wrap(cause, KindInternal, message)
}
