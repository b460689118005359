package primitives

import (
	"context"
	"fmt"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
)

// MessageGenerator produces the ordered message sequence of a prompt.
// Arguments arrive already validated against the prompt's arguments schema,
// with declared defaults filled in.
type MessageGenerator func(ctx context.Context, args map[string]interface{}) ([]protocol.Message, error)

// Prompt is a named generator of role-tagged message sequences.
type Prompt struct {
	Name            string
	Description     string
	ArgumentsSchema *schema.Descriptor
	Generator       MessageGenerator
}

// RegistryKey returns the name the prompt registers under.
func (p *Prompt) RegistryKey() string { return p.Name }

// Validate reports whether the prompt is well formed enough to register. An
// arguments schema is optional; when present it must be a well-formed object
// descriptor.
func (p *Prompt) Validate() error {
	if p.Name == "" {
		return mcperrors.New(mcperrors.KindValidation, "Prompt name must not be empty")
	}
	if p.Generator == nil {
		return mcperrors.Newf(mcperrors.KindValidation, "Prompt '%s' has no message generator", p.Name)
	}
	if p.ArgumentsSchema != nil {
		if p.ArgumentsSchema.Type != schema.TypeObject {
			return mcperrors.InvalidSchema("Prompt", p.Name,
				fmt.Errorf("arguments schema must have type object, got %q", p.ArgumentsSchema.Type))
		}
		if err := schema.Check(p.ArgumentsSchema); err != nil {
			return mcperrors.InvalidSchema("Prompt", p.Name, err)
		}
	}
	return nil
}

// Info returns the prompt's metadata view.
func (p *Prompt) Info() protocol.PromptInfo {
	return protocol.PromptInfo{
		Name:            p.Name,
		Description:     p.Description,
		ArgumentsSchema: p.ArgumentsSchema,
	}
}

// Messages fills schema defaults into args, validates the result, and runs
// the generator. The generated sequence must be non-empty and every message
// must carry a valid role; order is preserved exactly as generated.
// Generator panics and untyped errors surface as ExecutionError.
func (p *Prompt) Messages(ctx context.Context, args map[string]interface{}) (messages []protocol.Message, err error) {
	if args == nil {
		args = map[string]interface{}{}
	}

	filled := args
	if out, ok := schema.ApplyDefaults(args, p.ArgumentsSchema).(map[string]interface{}); ok {
		filled = out
	}
	if res := schema.Validate(filled, p.ArgumentsSchema); !res.OK() {
		return nil, mcperrors.ValidationFailed(res.Violations)
	}

	defer func() {
		if rec := recover(); rec != nil {
			messages = nil
			err = mcperrors.GenerationFailed(p.Name, fmt.Errorf("panic: %v", rec))
		}
	}()

	messages, err = p.Generator(ctx, filled)
	if err != nil {
		if _, ok := mcperrors.AsMCPError(err); ok {
			return nil, err
		}
		return nil, mcperrors.GenerationFailed(p.Name, err)
	}
	if len(messages) == 0 {
		return nil, mcperrors.GenerationFailed(p.Name, fmt.Errorf("generator returned no messages"))
	}
	for i, m := range messages {
		if !m.Role.IsValid() {
			return nil, mcperrors.GenerationFailed(p.Name,
				fmt.Errorf("message %d has invalid role %q", i, m.Role))
		}
	}
	return messages, nil
}
