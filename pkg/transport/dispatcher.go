package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/server"
)

// Catalog is the set of primitives the host process has chosen to serve.
// The dispatcher registers it when a client calls server.initialize; the
// params of that call are accepted and ignored, so a client can never pick
// its own catalog.
type Catalog struct {
	Tools     []*primitives.Tool
	Resources []*primitives.Resource
	Prompts   []*primitives.Prompt
}

// Dispatcher routes request envelopes to server core operations through a
// fixed method table. Every failure an operation can produce, including a
// panic, is normalized into an error envelope here; nothing propagates to
// the read loop. The request id is echoed back whenever one was supplied.
type Dispatcher struct {
	core    *server.Server
	catalog Catalog
	logger  logging.Logger
	routes  map[string]logging.OperationHandler
}

// NewDispatcher creates a dispatcher over the given server core. A nil
// logger falls back to the process-wide logger.
func NewDispatcher(core *server.Server, catalog Catalog, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	d := &Dispatcher{
		core:    core,
		catalog: catalog,
		logger:  logger,
	}

	mw := logging.NewContextMiddleware(logger)
	d.routes = map[string]logging.OperationHandler{
		protocol.MethodServerInfo:        mw.WrapHandler(protocol.MethodServerInfo, d.serverInfo),
		protocol.MethodServerInitialize:  mw.WrapHandler(protocol.MethodServerInitialize, d.serverInitialize),
		protocol.MethodToolList:          mw.WrapHandler(protocol.MethodToolList, d.listTools),
		protocol.MethodToolExecute:       mw.WrapHandler(protocol.MethodToolExecute, d.executeTool),
		protocol.MethodResourceList:      mw.WrapHandler(protocol.MethodResourceList, d.listResources),
		protocol.MethodResourceRead:      mw.WrapHandler(protocol.MethodResourceRead, d.readResource),
		protocol.MethodPromptList:        mw.WrapHandler(protocol.MethodPromptList, d.listPrompts),
		protocol.MethodPromptGetMessages: mw.WrapHandler(protocol.MethodPromptGetMessages, d.getPromptMessages),
	}
	return d
}

// Handle implements Handler. This is the single catch point of the server:
// unknown methods, operation errors and panics all come back as error
// envelopes so one bad request can never take down the dispatch loop.
func (d *Dispatcher) Handle(ctx context.Context, req *protocol.RequestEnvelope) (resp *protocol.ResponseEnvelope) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithContext(ctx).Error("Panic during dispatch",
				logging.String("method", req.Method),
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
			)
			resp = mcperrors.ToResponse(req.ID, mcperrors.Internal(req.Method, fmt.Errorf("panic: %v", r)))
		}
	}()

	route, ok := d.routes[req.Method]
	if !ok {
		return mcperrors.ToResponse(req.ID, mcperrors.MethodNotFound(req.Method))
	}

	result, err := route(ctx, req.Params)
	if err != nil {
		return mcperrors.ToResponse(req.ID, err)
	}

	out, err := protocol.NewResponse(req.ID, result)
	if err != nil {
		return mcperrors.ToResponse(req.ID, mcperrors.Internal(req.Method, err))
	}
	return out
}

func (d *Dispatcher) serverInfo(ctx context.Context, _ interface{}) (interface{}, error) {
	return d.core.Info(), nil
}

func (d *Dispatcher) serverInitialize(ctx context.Context, _ interface{}) (interface{}, error) {
	if err := d.core.Initialize(d.catalog.Tools, d.catalog.Resources, d.catalog.Prompts); err != nil {
		return nil, err
	}
	return protocol.InitializeResult{Status: protocol.StatusInitialized}, nil
}

func (d *Dispatcher) listTools(ctx context.Context, _ interface{}) (interface{}, error) {
	tools, err := d.core.ListTools()
	if err != nil {
		return nil, err
	}
	return protocol.ListToolsResult{Tools: tools}, nil
}

func (d *Dispatcher) executeTool(ctx context.Context, params interface{}) (interface{}, error) {
	var p protocol.ExecuteToolParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, mcperrors.MissingParameter("name")
	}
	return d.core.ExecuteTool(ctx, p.Name, p.Parameters)
}

func (d *Dispatcher) listResources(ctx context.Context, _ interface{}) (interface{}, error) {
	resources, err := d.core.ListResources()
	if err != nil {
		return nil, err
	}
	return protocol.ListResourcesResult{Resources: resources}, nil
}

func (d *Dispatcher) readResource(ctx context.Context, params interface{}) (interface{}, error) {
	var p protocol.ReadResourceParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.URI == "" {
		return nil, mcperrors.MissingParameter("uri")
	}
	return d.core.ReadResource(ctx, p.URI)
}

func (d *Dispatcher) listPrompts(ctx context.Context, _ interface{}) (interface{}, error) {
	prompts, err := d.core.ListPrompts()
	if err != nil {
		return nil, err
	}
	return protocol.ListPromptsResult{Prompts: prompts}, nil
}

func (d *Dispatcher) getPromptMessages(ctx context.Context, params interface{}) (interface{}, error) {
	var p protocol.GetPromptMessagesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, mcperrors.MissingParameter("name")
	}
	messages, err := d.core.GetPromptMessages(ctx, p.Name, p.Arguments)
	if err != nil {
		return nil, err
	}
	return protocol.GetPromptMessagesResult{Prompt: p.Name, Messages: messages}, nil
}

// decodeParams unmarshals a raw params payload into dst. Absent or null
// params leave dst zero-valued so each operation reports exactly which
// field it misses.
func decodeParams(params interface{}, dst interface{}) error {
	raw, _ := params.(json.RawMessage)
	if len(raw) == 0 || bytes.Equal(raw, nullLiteral) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return mcperrors.InvalidParameter("params", err.Error())
	}
	return nil
}

var nullLiteral = []byte("null")
