// Package primitives defines the three server primitives: tools, resources,
// and prompts. Each pairs wire-visible metadata with the callable doing the
// actual work, validates its own shape ahead of registration, and normalizes
// callable failures into the error taxonomy so the layers above never see a
// raw panic or an untyped error.
package primitives

import (
	"context"
	"fmt"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
)

// ToolHandler executes a tool invocation. Parameters arrive already
// validated against the tool's input schema, with declared defaults filled
// in.
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Tool is an invokable operation with a declared parameter schema.
type Tool struct {
	Name         string
	Description  string
	InputSchema  *schema.Descriptor
	OutputSchema *schema.Descriptor
	Handler      ToolHandler
}

// RegistryKey returns the name the tool registers under.
func (t *Tool) RegistryKey() string { return t.Name }

// Validate reports whether the tool is well formed enough to register. The
// input schema must be a well-formed object descriptor since parameters are
// always a mapping.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return mcperrors.New(mcperrors.KindValidation, "Tool name must not be empty")
	}
	if t.Handler == nil {
		return mcperrors.Newf(mcperrors.KindValidation, "Tool '%s' has no handler", t.Name)
	}
	if t.InputSchema == nil {
		return mcperrors.InvalidSchema("Tool", t.Name, fmt.Errorf("input schema is required"))
	}
	if t.InputSchema.Type != schema.TypeObject {
		return mcperrors.InvalidSchema("Tool", t.Name,
			fmt.Errorf("input schema must have type object, got %q", t.InputSchema.Type))
	}
	if err := schema.Check(t.InputSchema); err != nil {
		return mcperrors.InvalidSchema("Tool", t.Name, err)
	}
	if t.OutputSchema != nil {
		if err := schema.Check(t.OutputSchema); err != nil {
			return mcperrors.InvalidSchema("Tool", t.Name, err)
		}
	}
	return nil
}

// Info returns the tool's metadata view.
func (t *Tool) Info() protocol.ToolInfo {
	return protocol.ToolInfo{
		Name:         t.Name,
		Description:  t.Description,
		InputSchema:  t.InputSchema,
		OutputSchema: t.OutputSchema,
	}
}

// Execute fills schema defaults into params, validates the result, and runs
// the handler. A validation failure reports every violated constraint.
// Handler panics and untyped errors surface as ExecutionError; errors that
// already speak the taxonomy, such as a division-by-zero ValidationError,
// pass through unchanged.
func (t *Tool) Execute(ctx context.Context, params map[string]interface{}) (result interface{}, err error) {
	if params == nil {
		params = map[string]interface{}{}
	}

	filled := params
	if out, ok := schema.ApplyDefaults(params, t.InputSchema).(map[string]interface{}); ok {
		filled = out
	}
	if res := schema.Validate(filled, t.InputSchema); !res.OK() {
		return nil, mcperrors.ValidationFailed(res.Violations)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = mcperrors.ExecutionFailed(t.Name, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err = t.Handler(ctx, filled)
	if err != nil {
		if _, ok := mcperrors.AsMCPError(err); ok {
			return nil, err
		}
		return nil, mcperrors.ExecutionFailed(t.Name, err)
	}
	return result, nil
}
