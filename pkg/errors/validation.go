package errors

import (
	"fmt"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
)

// ValidationFailed creates an error carrying every violated constraint from
// a schema validation run. The details expose the complete list under
// "errors" together with a "count", so callers never see just the first
// problem.
func ValidationFailed(violations []schema.Violation) MCPError {
	if len(violations) == 0 {
		return New(KindValidation, "Validation failed")
	}

	var message string
	if len(violations) == 1 {
		v := violations[0]
		if v.Path != "" {
			message = fmt.Sprintf("Validation failed: %s: %s", v.Path, v.Reason)
		} else {
			message = fmt.Sprintf("Validation failed: %s", v.Reason)
		}
	} else {
		message = fmt.Sprintf("Validation failed with %d errors", len(violations))
	}

	items := make([]interface{}, len(violations))
	for i, v := range violations {
		items[i] = map[string]interface{}{
			"path":   v.Path,
			"reason": v.Reason,
		}
	}

	return New(KindValidation, message).
		WithDetail("errors", items).
		WithDetail("count", len(violations))
}

// MissingParameter creates a validation error for a required request
// parameter that was not supplied, such as a tool.execute without a name.
func MissingParameter(param string) MCPError {
	return Newf(KindValidation, "Missing required parameter: %s", param).
		WithDetail("parameter", param)
}

// InvalidParameter creates a validation error for a request parameter with
// an unusable value.
func InvalidParameter(param string, reason string) MCPError {
	return Newf(KindValidation, "Invalid parameter '%s': %s", param, reason).
		WithDetail("parameter", param).
		WithDetail("reason", reason)
}
