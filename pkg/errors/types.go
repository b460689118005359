// Package errors provides structured error handling for the server. Every
// failure the server reports carries a machine-readable kind from a closed
// taxonomy, a human-readable message and an optional details map, mirroring
// the error object sent on the wire.
package errors

import (
	"encoding/json"
	"fmt"
)

// Category classifies errors for logging and handling.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"
	CategoryExecution  Category = "execution"
	CategoryLifecycle  Category = "lifecycle"
	CategoryProtocol   Category = "protocol"
	CategoryInternal   Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// MCPError is the interface every error produced by this module satisfies.
type MCPError interface {
	error

	// Kind returns the machine-readable error kind.
	Kind() Kind

	// Message returns the human-readable error message.
	Message() string

	// Details returns structured data for programmatic handling. May be nil.
	Details() map[string]interface{}

	// Category returns the error category for classification.
	Category() Category

	// Severity returns the error severity level.
	Severity() Severity

	// WithDetail returns a copy of the error with one more detail entry.
	WithDetail(key string, value interface{}) MCPError

	// Unwrap returns the underlying cause for error chain traversal.
	Unwrap() error

	// ToJSON returns the error as a JSON-serializable map.
	ToJSON() map[string]interface{}
}

// baseError implements the MCPError interface.
type baseError struct {
	kind    Kind
	message string
	details map[string]interface{}
	cause   error
}

// Error implements the error interface.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Kind returns the machine-readable error kind.
func (e *baseError) Kind() Kind {
	return e.kind
}

// Message returns the human-readable error message.
func (e *baseError) Message() string {
	return e.message
}

// Details returns the structured details map.
func (e *baseError) Details() map[string]interface{} {
	return e.details
}

// Category returns the category registered for the error's kind.
func (e *baseError) Category() Category {
	return KindCategory(e.kind)
}

// Severity returns the severity registered for the error's kind.
func (e *baseError) Severity() Severity {
	return KindSeverity(e.kind)
}

// WithDetail returns a copy of the error with one more detail entry.
func (e *baseError) WithDetail(key string, value interface{}) MCPError {
	newErr := *e
	newErr.details = make(map[string]interface{}, len(e.details)+1)
	for k, v := range e.details {
		newErr.details[k] = v
	}
	newErr.details[key] = value
	return &newErr
}

// Unwrap returns the underlying cause.
func (e *baseError) Unwrap() error {
	return e.cause
}

// ToJSON returns the error as a JSON-serializable map.
func (e *baseError) ToJSON() map[string]interface{} {
	result := map[string]interface{}{
		"kind":    string(e.kind),
		"message": e.message,
	}
	if len(e.details) > 0 {
		result["details"] = e.details
	}
	if e.cause != nil {
		result["cause"] = e.cause.Error()
	}
	return result
}

// MarshalJSON implements json.Marshaler for baseError.
func (e *baseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToJSON())
}

// New creates an MCPError of the given kind.
func New(kind Kind, message string) MCPError {
	return &baseError{kind: kind, message: message}
}

// Newf creates an MCPError of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) MCPError {
	return &baseError{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error as an MCPError of the given kind.
func Wrap(err error, kind Kind, message string) MCPError {
	return &baseError{kind: kind, message: message, cause: err}
}

// Wrapf wraps an existing error as an MCPError with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...interface{}) MCPError {
	return &baseError{kind: kind, message: fmt.Sprintf(format, args...), cause: err}
}

// AsMCPError extracts an MCPError from err or its unwrap chain.
func AsMCPError(err error) (MCPError, bool) {
	for err != nil {
		if mcpErr, ok := err.(MCPError); ok {
			return mcpErr, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// IsMCPError checks whether err is (or wraps) an MCPError.
func IsMCPError(err error) bool {
	_, ok := AsMCPError(err)
	return ok
}

// IsKind checks whether err is an MCPError of the given kind.
func IsKind(err error, kind Kind) bool {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Kind() == kind
	}
	return false
}

// KindOf returns the kind of err. Non-MCP errors report KindInternal; a nil
// error reports the empty kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Kind()
	}
	return KindInternal
}
