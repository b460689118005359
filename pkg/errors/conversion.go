package errors

import (
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
)

// ToErrorObject converts any error to the wire error object. MCP errors map
// directly; anything else is reported as an internal error.
func ToErrorObject(err error) *protocol.ErrorObject {
	if err == nil {
		return nil
	}

	if mcpErr, ok := AsMCPError(err); ok {
		return &protocol.ErrorObject{
			Kind:    string(mcpErr.Kind()),
			Message: mcpErr.Message(),
			Details: mcpErr.Details(),
		}
	}

	return &protocol.ErrorObject{
		Kind:    string(KindInternal),
		Message: err.Error(),
	}
}

// ToResponse converts any error to a failure response envelope echoing the
// given request id.
func ToResponse(id string, err error) *protocol.ResponseEnvelope {
	return protocol.NewErrorResponse(id, ToErrorObject(err))
}

// FromErrorObject rebuilds an MCPError from a wire error object, as received
// by a client. Unknown kinds are preserved so round trips stay faithful.
func FromErrorObject(obj *protocol.ErrorObject) MCPError {
	if obj == nil {
		return nil
	}

	err := New(Kind(obj.Kind), obj.Message)
	for k, v := range obj.Details {
		err = err.WithDetail(k, v)
	}
	return err
}
