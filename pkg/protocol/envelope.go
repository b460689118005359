package protocol

import (
	"encoding/json"
	"fmt"
)

// RequestEnvelope is one inbound message: an optional correlation id, the
// method to invoke and the method's parameters. It is constructed per
// message, never reused.
type RequestEnvelope struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// NewRequest creates a request envelope, marshaling params if present.
func NewRequest(id, method string, params interface{}) (*RequestEnvelope, error) {
	var paramsJSON json.RawMessage
	if params != nil {
		var err error
		paramsJSON, err = json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
	}

	return &RequestEnvelope{
		ID:     id,
		Method: method,
		Params: paramsJSON,
	}, nil
}

// ErrorObject is the wire form of a failure: a machine-readable kind, a
// human-readable message and optional structured details.
type ErrorObject struct {
	Kind    string                 `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ResponseEnvelope is one outbound message. Exactly one of Result and Error
// is populated, matching Success. The request id is echoed back when the
// request carried one so callers can correlate responses.
type ResponseEnvelope struct {
	ID      string          `json:"id,omitempty"`
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// NewResponse creates a success response, marshaling the result if present.
func NewResponse(id string, result interface{}) (*ResponseEnvelope, error) {
	var resultJSON json.RawMessage
	if result != nil {
		var err error
		resultJSON, err = json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
	}

	return &ResponseEnvelope{
		ID:      id,
		Success: true,
		Result:  resultJSON,
	}, nil
}

// NewErrorResponse creates a failure response carrying the given error
// object.
func NewErrorResponse(id string, errObj *ErrorObject) *ResponseEnvelope {
	return &ResponseEnvelope{
		ID:      id,
		Success: false,
		Error:   errObj,
	}
}

// UnmarshalResult decodes the result payload into v.
func (r *ResponseEnvelope) UnmarshalResult(v interface{}) error {
	if r.Result == nil {
		return fmt.Errorf("response has no result")
	}
	return json.Unmarshal(r.Result, v)
}

// IsRequest reports whether a raw line looks like a request envelope: valid
// JSON with a non-empty string method.
func IsRequest(data []byte) bool {
	var msg struct {
		Method string `json:"method"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return false
	}
	return msg.Method != ""
}

// ParseRequest decodes one wire line into a request envelope. The line must
// be a JSON object whose fields carry the envelope's types; the method is
// not checked against the routing table here, so an empty or unknown method
// still parses and is rejected later by the dispatcher.
func ParseRequest(data []byte) (*RequestEnvelope, error) {
	var req RequestEnvelope
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// RecoverID pulls the correlation id out of a line whose envelope failed to
// parse, so a malformed-message error can still be correlated with its
// request. It reports false when no string id can be extracted.
func RecoverID(data []byte) (string, bool) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", false
	}
	return probe.ID, probe.ID != ""
}
