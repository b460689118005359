package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/transport"
)

// Client speaks the wire protocol over a duplex byte stream. Methods are
// safe for concurrent use, but calls serialize: the protocol answers
// requests in order, so the client keeps one request outstanding at a time.
type Client struct {
	framer *transport.Framer
	logger logging.Logger

	seq atomic.Int64
	mu  sync.Mutex // one request/response exchange at a time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client that reads responses from r and writes requests to
// w.
func New(r io.Reader, w io.Writer, opts ...Option) *Client {
	c := &Client{
		framer: transport.NewFramer(r, w),
		logger: logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends one request and blocks until its response arrives. Failures
// reported by the server come back as typed errors carrying the wire kind.
// Cancellation is honored between exchanges; a read already in progress
// blocks until the server answers or closes the stream.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := fmt.Sprintf("req-%d", c.seq.Add(1))
	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.framer.WriteMessage(req); err != nil {
		return nil, fmt.Errorf("failed to send %s request: %w", method, err)
	}

	for {
		line, err := c.framer.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("stream closed before response to %s: %w", method, err)
		}

		var resp protocol.ResponseEnvelope
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse response to %s: %w", method, err)
		}

		// The server echoes our id. Anything else is a stray response from
		// an abandoned exchange; skip it and keep reading.
		if resp.ID != "" && resp.ID != id {
			c.logger.Warn("Discarding response with unexpected id",
				logging.String("expected", id),
				logging.String("received", resp.ID),
			)
			continue
		}

		if !resp.Success {
			return nil, mcperrors.FromErrorObject(resp.Error)
		}
		return resp.Result, nil
	}
}

// Info returns the server's metadata. Works in both lifecycle states.
func (c *Client) Info(ctx context.Context) (*protocol.ServerInfo, error) {
	raw, err := c.Call(ctx, protocol.MethodServerInfo, nil)
	if err != nil {
		return nil, err
	}
	var info protocol.ServerInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to decode server info: %w", err)
	}
	return &info, nil
}

// InitializeServer asks the server to register its configured catalog and
// move to the initialized state. Calling it on an initialized server is a
// no-op that reports the same status.
func (c *Client) InitializeServer(ctx context.Context) (*protocol.InitializeResult, error) {
	raw, err := c.Call(ctx, protocol.MethodServerInitialize, nil)
	if err != nil {
		return nil, err
	}
	var result protocol.InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode initialize result: %w", err)
	}
	return &result, nil
}

// ListTools returns metadata for every registered tool, in registration
// order.
func (c *Client) ListTools(ctx context.Context) ([]protocol.ToolInfo, error) {
	raw, err := c.Call(ctx, protocol.MethodToolList, nil)
	if err != nil {
		return nil, err
	}
	var result protocol.ListToolsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode tool list: %w", err)
	}
	return result.Tools, nil
}

// ExecuteTool invokes a tool by name. The result payload is whatever the
// tool's handler produced.
func (c *Client) ExecuteTool(ctx context.Context, name string, params map[string]interface{}) (json.RawMessage, error) {
	return c.Call(ctx, protocol.MethodToolExecute, protocol.ExecuteToolParams{
		Name:       name,
		Parameters: params,
	})
}

// ListResources returns metadata for every registered resource.
func (c *Client) ListResources(ctx context.Context) ([]protocol.ResourceInfo, error) {
	raw, err := c.Call(ctx, protocol.MethodResourceList, nil)
	if err != nil {
		return nil, err
	}
	var result protocol.ListResourcesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode resource list: %w", err)
	}
	return result.Resources, nil
}

// ReadResource reads a resource by URI.
func (c *Client) ReadResource(ctx context.Context, uri string) (*protocol.ResourceContent, error) {
	raw, err := c.Call(ctx, protocol.MethodResourceRead, protocol.ReadResourceParams{URI: uri})
	if err != nil {
		return nil, err
	}
	var content protocol.ResourceContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("failed to decode resource content: %w", err)
	}
	return &content, nil
}

// ListPrompts returns metadata for every registered prompt.
func (c *Client) ListPrompts(ctx context.Context) ([]protocol.PromptInfo, error) {
	raw, err := c.Call(ctx, protocol.MethodPromptList, nil)
	if err != nil {
		return nil, err
	}
	var result protocol.ListPromptsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode prompt list: %w", err)
	}
	return result.Prompts, nil
}

// GetPromptMessages renders a prompt's message sequence with the given
// arguments.
func (c *Client) GetPromptMessages(ctx context.Context, name string, args map[string]interface{}) ([]protocol.Message, error) {
	raw, err := c.Call(ctx, protocol.MethodPromptGetMessages, protocol.GetPromptMessagesParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, err
	}
	var result protocol.GetPromptMessagesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode prompt messages: %w", err)
	}
	return result.Messages, nil
}
