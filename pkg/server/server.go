// Package server implements the lifecycle-gated core that owns the tool,
// resource, and prompt registries. A server starts Uninitialized, accepting
// only Info; Initialize registers the host's catalog and, when every item
// registers cleanly, moves the server to Initialized and unlocks the
// operational surface.
package server

import (
	"context"
	"sync"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/registry"
)

// Concrete registry instantiations owned by the server.
type (
	ToolRegistry     = registry.Registry[*primitives.Tool, protocol.ToolInfo]
	ResourceRegistry = registry.Registry[*primitives.Resource, protocol.ResourceInfo]
	PromptRegistry   = registry.Registry[*primitives.Prompt, protocol.PromptInfo]
)

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return registry.New[*primitives.Tool, protocol.ToolInfo]("Tool", (*primitives.Tool).Info)
}

// NewResourceRegistry creates an empty resource registry.
func NewResourceRegistry() *ResourceRegistry {
	return registry.New[*primitives.Resource, protocol.ResourceInfo]("Resource", (*primitives.Resource).Info)
}

// NewPromptRegistry creates an empty prompt registry.
func NewPromptRegistry() *PromptRegistry {
	return registry.New[*primitives.Prompt, protocol.PromptInfo]("Prompt", (*primitives.Prompt).Info)
}

// Server is the primitive-hosting core. All methods are safe for concurrent
// use.
type Server struct {
	name    string
	version string
	logger  logging.Logger

	tools     *ToolRegistry
	resources *ResourceRegistry
	prompts   *PromptRegistry

	initialized     bool
	initializedLock sync.RWMutex
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the server version.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistries injects pre-built registries instead of the fresh ones New
// constructs. Tests use this to observe or seed registry state directly.
func WithRegistries(tools *ToolRegistry, resources *ResourceRegistry, prompts *PromptRegistry) Option {
	return func(s *Server) {
		if tools != nil {
			s.tools = tools
		}
		if resources != nil {
			s.resources = resources
		}
		if prompts != nil {
			s.prompts = prompts
		}
	}
}

// New creates a server in the Uninitialized state with empty registries.
func New(options ...Option) *Server {
	s := &Server{
		name:      "mcp-server",
		version:   "1.0.0",
		logger:    logging.New(nil, nil).WithFields(logging.String("component", "server")),
		tools:     NewToolRegistry(),
		resources: NewResourceRegistry(),
		prompts:   NewPromptRegistry(),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Initialize registers the given catalog and moves the server to the
// Initialized state. Registration is best-effort: every item is attempted,
// and per-item failures are collected into a single InitializationError
// whose details carry all of them. The state flips to Initialized only when
// the collected failures are empty; items that did register stay registered
// either way. Calling Initialize on an already initialized server is a
// logged no-op.
func (s *Server) Initialize(tools []*primitives.Tool, resources []*primitives.Resource, prompts []*primitives.Prompt) error {
	s.initializedLock.Lock()
	defer s.initializedLock.Unlock()

	if s.initialized {
		s.logger.Warn("Server already initialized, ignoring repeated initialize")
		return nil
	}

	var failures []error

	for _, tool := range tools {
		if err := s.tools.Register(tool); err != nil {
			s.logger.WithError(err).Error("Tool registration failed",
				logging.String("tool", tool.Name))
			failures = append(failures, err)
		}
	}
	for _, resource := range resources {
		if err := s.resources.Register(resource); err != nil {
			s.logger.WithError(err).Error("Resource registration failed",
				logging.String("uri", resource.URI))
			failures = append(failures, err)
		}
	}
	for _, prompt := range prompts {
		if err := s.prompts.Register(prompt); err != nil {
			s.logger.WithError(err).Error("Prompt registration failed",
				logging.String("prompt", prompt.Name))
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		s.logger.Error("Server initialization failed",
			logging.Int("failures", len(failures)))
		return mcperrors.InitializationFailed(failures)
	}

	s.initialized = true
	s.logger.Info("Server initialized",
		logging.Int("tools", s.tools.Len()),
		logging.Int("resources", s.resources.Len()),
		logging.Int("prompts", s.prompts.Len()))
	return nil
}

// Shutdown clears every registry and returns the server to Uninitialized.
// A cleared server may be initialized again, including with an empty
// catalog.
func (s *Server) Shutdown() {
	s.initializedLock.Lock()
	defer s.initializedLock.Unlock()

	s.tools.Clear()
	s.resources.Clear()
	s.prompts.Clear()
	s.initialized = false
	s.logger.Info("Server shut down, registries cleared")
}

// Info describes the server. It works in both lifecycle states; before
// initialization the counts are zero and capabilities empty.
func (s *Server) Info() protocol.ServerInfo {
	s.initializedLock.RLock()
	defer s.initializedLock.RUnlock()

	info := protocol.ServerInfo{
		Name:          s.name,
		Version:       s.version,
		Initialized:   s.initialized,
		Capabilities:  []string{},
		ToolCount:     s.tools.Len(),
		ResourceCount: s.resources.Len(),
		PromptCount:   s.prompts.Len(),
	}
	if info.ToolCount > 0 {
		info.Capabilities = append(info.Capabilities, protocol.CapabilityTools)
	}
	if info.ResourceCount > 0 {
		info.Capabilities = append(info.Capabilities, protocol.CapabilityResources)
	}
	if info.PromptCount > 0 {
		info.Capabilities = append(info.Capabilities, protocol.CapabilityPrompts)
	}
	return info
}

// ListTools returns the metadata of every registered tool in registration
// order.
func (s *Server) ListTools() ([]protocol.ToolInfo, error) {
	if err := s.requireInitialized("tool.list"); err != nil {
		return nil, err
	}
	return s.tools.List(), nil
}

// ExecuteTool looks up a tool by name and executes it with params.
func (s *Server) ExecuteTool(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	if err := s.requireInitialized("tool.execute"); err != nil {
		return nil, err
	}

	tool, ok := s.tools.Get(name)
	if !ok {
		return nil, mcperrors.ToolNotFound(name)
	}
	return tool.Execute(ctx, params)
}

// ListResources returns the metadata of every registered resource in
// registration order.
func (s *Server) ListResources() ([]protocol.ResourceInfo, error) {
	if err := s.requireInitialized("resource.list"); err != nil {
		return nil, err
	}
	return s.resources.List(), nil
}

// ReadResource looks up a resource by URI and reads its current content.
func (s *Server) ReadResource(ctx context.Context, uri string) (*protocol.ResourceContent, error) {
	if err := s.requireInitialized("resource.read"); err != nil {
		return nil, err
	}

	resource, ok := s.resources.Get(uri)
	if !ok {
		return nil, mcperrors.ResourceNotFound(uri)
	}
	return resource.Read(ctx)
}

// ListPrompts returns the metadata of every registered prompt in
// registration order.
func (s *Server) ListPrompts() ([]protocol.PromptInfo, error) {
	if err := s.requireInitialized("prompt.list"); err != nil {
		return nil, err
	}
	return s.prompts.List(), nil
}

// GetPromptMessages looks up a prompt by name and generates its message
// sequence for args.
func (s *Server) GetPromptMessages(ctx context.Context, name string, args map[string]interface{}) ([]protocol.Message, error) {
	if err := s.requireInitialized("prompt.get_messages"); err != nil {
		return nil, err
	}

	prompt, ok := s.prompts.Get(name)
	if !ok {
		return nil, mcperrors.PromptNotFound(name)
	}
	return prompt.Messages(ctx, args)
}

// RegisterTool adds a tool to a running server. Late registration supports
// plugin-style extensions and requires the server to be initialized.
func (s *Server) RegisterTool(tool *primitives.Tool) error {
	if err := s.requireInitialized("register_tool"); err != nil {
		return err
	}
	if err := s.tools.Register(tool); err != nil {
		return err
	}
	s.logger.Info("Tool registered", logging.String("tool", tool.Name))
	return nil
}

// RegisterResource adds a resource to a running server.
func (s *Server) RegisterResource(resource *primitives.Resource) error {
	if err := s.requireInitialized("register_resource"); err != nil {
		return err
	}
	if err := s.resources.Register(resource); err != nil {
		return err
	}
	s.logger.Info("Resource registered", logging.String("uri", resource.URI))
	return nil
}

// RegisterPrompt adds a prompt to a running server.
func (s *Server) RegisterPrompt(prompt *primitives.Prompt) error {
	if err := s.requireInitialized("register_prompt"); err != nil {
		return err
	}
	if err := s.prompts.Register(prompt); err != nil {
		return err
	}
	s.logger.Info("Prompt registered", logging.String("prompt", prompt.Name))
	return nil
}

// isInitialized checks if the server is initialized.
func (s *Server) isInitialized() bool {
	s.initializedLock.RLock()
	defer s.initializedLock.RUnlock()
	return s.initialized
}

// requireInitialized gates an operation on the Initialized state.
func (s *Server) requireInitialized(operation string) error {
	if s.isInitialized() {
		return nil
	}
	s.logger.Warn("Operation rejected before initialization",
		logging.String("operation", operation))
	return mcperrors.ServerNotInitialized()
}
