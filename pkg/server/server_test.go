package server

import (
	"context"
	"strings"
	"testing"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
)

func makeTool(name string) *primitives.Tool {
	return &primitives.Tool{
		Name:        name,
		Description: "test tool " + name,
		InputSchema: schema.Object(map[string]*schema.Descriptor{
			"value": {Type: schema.TypeNumber},
		}),
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"tool": name, "value": params["value"]}, nil
		},
	}
}

func makeResource(uri string) *primitives.Resource {
	return &primitives.Resource{
		URI:  uri,
		Name: uri,
		Reader: func(ctx context.Context) (interface{}, error) {
			return "content of " + uri, nil
		},
	}
}

func makePrompt(name string) *primitives.Prompt {
	return &primitives.Prompt{
		Name: name,
		Generator: func(ctx context.Context, args map[string]interface{}) ([]protocol.Message, error) {
			return []protocol.Message{{Role: protocol.RoleUser, Content: "from " + name}}, nil
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(
		WithName("test-server"),
		WithVersion("0.1.0"),
		WithLogger(logging.NewNopLogger()),
	)
}

func initialized(t *testing.T, tools []*primitives.Tool, resources []*primitives.Resource, prompts []*primitives.Prompt) *Server {
	t.Helper()
	s := newTestServer(t)
	if err := s.Initialize(tools, resources, prompts); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return s
}

// TestInfoBeforeInitialize tests that Info works in the Uninitialized state
func TestInfoBeforeInitialize(t *testing.T) {
	s := newTestServer(t)

	info := s.Info()
	if info.Name != "test-server" {
		t.Errorf("Expected name test-server, got %q", info.Name)
	}
	if info.Version != "0.1.0" {
		t.Errorf("Expected version 0.1.0, got %q", info.Version)
	}
	if info.Initialized {
		t.Error("Expected initialized=false before Initialize")
	}
	if len(info.Capabilities) != 0 {
		t.Errorf("Expected no capabilities, got %v", info.Capabilities)
	}
	if info.ToolCount != 0 || info.ResourceCount != 0 || info.PromptCount != 0 {
		t.Error("Expected zero counts before Initialize")
	}
}

// TestInitialize tests the happy-path lifecycle transition
func TestInitialize(t *testing.T) {
	s := initialized(t,
		[]*primitives.Tool{makeTool("alpha"), makeTool("beta")},
		[]*primitives.Resource{makeResource("config://app")},
		[]*primitives.Prompt{makePrompt("summarize")},
	)

	info := s.Info()
	if !info.Initialized {
		t.Error("Expected initialized=true")
	}
	if info.ToolCount != 2 || info.ResourceCount != 1 || info.PromptCount != 1 {
		t.Errorf("Unexpected counts: %+v", info)
	}

	want := []string{protocol.CapabilityTools, protocol.CapabilityResources, protocol.CapabilityPrompts}
	if len(info.Capabilities) != len(want) {
		t.Fatalf("Expected capabilities %v, got %v", want, info.Capabilities)
	}
	for i := range want {
		if info.Capabilities[i] != want[i] {
			t.Errorf("capabilities[%d] = %q, want %q", i, info.Capabilities[i], want[i])
		}
	}
}

// TestInitializeTwice tests that a repeated Initialize is a no-op
func TestInitializeTwice(t *testing.T) {
	s := initialized(t, []*primitives.Tool{makeTool("alpha")}, nil, nil)

	if err := s.Initialize([]*primitives.Tool{makeTool("beta")}, nil, nil); err != nil {
		t.Fatalf("Repeated Initialize should be a no-op, got %v", err)
	}

	info := s.Info()
	if info.ToolCount != 1 {
		t.Errorf("Repeated Initialize must not register anything, got %d tools", info.ToolCount)
	}
}

// TestInitializeCollectsFailures tests best-effort registration with an
// aggregate error
func TestInitializeCollectsFailures(t *testing.T) {
	s := newTestServer(t)

	err := s.Initialize(
		[]*primitives.Tool{makeTool("alpha"), makeTool("alpha"), makeTool("beta")},
		nil, nil,
	)
	if err == nil {
		t.Fatal("Expected initialization to fail")
	}
	if !mcperrors.IsKind(err, mcperrors.KindInitialization) {
		t.Fatalf("Expected InitializationError, got %v", mcperrors.KindOf(err))
	}

	mcpErr, _ := mcperrors.AsMCPError(err)
	if mcpErr.Details()["count"] != 1 {
		t.Errorf("Expected 1 collected failure, got %v", mcpErr.Details()["count"])
	}
	if !strings.Contains(err.Error(), "1 component(s) could not be registered") {
		t.Errorf("Unexpected message: %q", err.Error())
	}

	// The server must stay Uninitialized, with the clean items registered.
	info := s.Info()
	if info.Initialized {
		t.Error("Expected server to stay Uninitialized after failures")
	}
	if info.ToolCount != 2 {
		t.Errorf("Expected the two clean tools to be registered, got %d", info.ToolCount)
	}

	// Operations stay gated.
	if _, err := s.ListTools(); !mcperrors.IsKind(err, mcperrors.KindServerNotInitialized) {
		t.Errorf("Expected ServerNotInitializedError, got %v", err)
	}
}

// TestOperationsGatedBeforeInitialize tests the lifecycle gate on every
// operation
func TestOperationsGatedBeforeInitialize(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	checks := []struct {
		name string
		call func() error
	}{
		{"ListTools", func() error { _, err := s.ListTools(); return err }},
		{"ExecuteTool", func() error { _, err := s.ExecuteTool(ctx, "x", nil); return err }},
		{"ListResources", func() error { _, err := s.ListResources(); return err }},
		{"ReadResource", func() error { _, err := s.ReadResource(ctx, "x://y"); return err }},
		{"ListPrompts", func() error { _, err := s.ListPrompts(); return err }},
		{"GetPromptMessages", func() error { _, err := s.GetPromptMessages(ctx, "x", nil); return err }},
		{"RegisterTool", func() error { return s.RegisterTool(makeTool("t")) }},
		{"RegisterResource", func() error { return s.RegisterResource(makeResource("r://x")) }},
		{"RegisterPrompt", func() error { return s.RegisterPrompt(makePrompt("p")) }},
	}

	for _, check := range checks {
		err := check.call()
		if !mcperrors.IsKind(err, mcperrors.KindServerNotInitialized) {
			t.Errorf("%s: expected ServerNotInitializedError, got %v", check.name, err)
			continue
		}
		if err.Error() != "Server not initialized. Call initialize() first." {
			t.Errorf("%s: unexpected message %q", check.name, err.Error())
		}
	}
}

// TestExecuteTool tests dispatch to a registered tool
func TestExecuteTool(t *testing.T) {
	s := initialized(t, []*primitives.Tool{makeTool("alpha")}, nil, nil)

	result, err := s.ExecuteTool(context.Background(), "alpha", map[string]interface{}{
		"value": float64(7),
	})
	if err != nil {
		t.Fatalf("ExecuteTool failed: %v", err)
	}
	out := result.(map[string]interface{})
	if out["tool"] != "alpha" || out["value"] != float64(7) {
		t.Errorf("Unexpected result: %v", out)
	}
}

// TestExecuteToolNotFound tests the lookup-miss error
func TestExecuteToolNotFound(t *testing.T) {
	s := initialized(t, []*primitives.Tool{makeTool("alpha")}, nil, nil)

	_, err := s.ExecuteTool(context.Background(), "nonexistent", nil)
	if !mcperrors.IsKind(err, mcperrors.KindToolNotFound) {
		t.Fatalf("Expected ToolNotFoundError, got %v", err)
	}
	if err.Error() != "Tool 'nonexistent' not found" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

// TestReadResource tests resource lookup and read
func TestReadResource(t *testing.T) {
	s := initialized(t, nil, []*primitives.Resource{makeResource("config://app")}, nil)

	content, err := s.ReadResource(context.Background(), "config://app")
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if content.Content != "content of config://app" {
		t.Errorf("Unexpected content: %v", content.Content)
	}

	_, err = s.ReadResource(context.Background(), "missing://x")
	if !mcperrors.IsKind(err, mcperrors.KindResourceNotFound) {
		t.Errorf("Expected ResourceNotFoundError, got %v", err)
	}
	if err.Error() != "Resource 'missing://x' not found" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

// TestGetPromptMessages tests prompt lookup and generation
func TestGetPromptMessages(t *testing.T) {
	s := initialized(t, nil, nil, []*primitives.Prompt{makePrompt("summarize")})

	messages, err := s.GetPromptMessages(context.Background(), "summarize", nil)
	if err != nil {
		t.Fatalf("GetPromptMessages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Content != "from summarize" {
		t.Errorf("Unexpected messages: %v", messages)
	}

	_, err = s.GetPromptMessages(context.Background(), "missing", nil)
	if !mcperrors.IsKind(err, mcperrors.KindPromptNotFound) {
		t.Errorf("Expected PromptNotFoundError, got %v", err)
	}
}

// TestListOrderAndViews tests that listings preserve registration order and
// carry metadata only
func TestListOrderAndViews(t *testing.T) {
	s := initialized(t,
		[]*primitives.Tool{makeTool("charlie"), makeTool("alpha"), makeTool("bravo")},
		nil, nil,
	)

	tools, err := s.ListTools()
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	want := []string{"charlie", "alpha", "bravo"}
	for i := range want {
		if tools[i].Name != want[i] {
			t.Errorf("tools[%d] = %q, want %q", i, tools[i].Name, want[i])
		}
	}
	if tools[0].InputSchema == nil {
		t.Error("Expected the input schema in the view")
	}
}

// TestShutdownAndReinitialize tests clear-then-reinitialize with an empty
// catalog
func TestShutdownAndReinitialize(t *testing.T) {
	s := initialized(t,
		[]*primitives.Tool{makeTool("alpha")},
		[]*primitives.Resource{makeResource("config://app")},
		[]*primitives.Prompt{makePrompt("summarize")},
	)

	s.Shutdown()

	info := s.Info()
	if info.Initialized {
		t.Error("Expected Uninitialized after Shutdown")
	}
	if info.ToolCount != 0 || info.ResourceCount != 0 || info.PromptCount != 0 {
		t.Error("Expected empty registries after Shutdown")
	}

	if err := s.Initialize(nil, nil, nil); err != nil {
		t.Fatalf("Re-initialize with empty catalog failed: %v", err)
	}

	tools, err := s.ListTools()
	if err != nil {
		t.Fatalf("ListTools after empty re-initialize failed: %v", err)
	}
	if len(tools) != 0 {
		t.Errorf("Expected empty tool listing, got %v", tools)
	}
}

// TestRuntimeRegistration tests late registration on a running server
func TestRuntimeRegistration(t *testing.T) {
	s := initialized(t, []*primitives.Tool{makeTool("alpha")}, nil, nil)

	if err := s.RegisterTool(makeTool("plugin")); err != nil {
		t.Fatalf("RegisterTool failed: %v", err)
	}
	if err := s.RegisterResource(makeResource("plugin://data")); err != nil {
		t.Fatalf("RegisterResource failed: %v", err)
	}
	if err := s.RegisterPrompt(makePrompt("plugin_prompt")); err != nil {
		t.Fatalf("RegisterPrompt failed: %v", err)
	}

	tools, _ := s.ListTools()
	if len(tools) != 2 || tools[1].Name != "plugin" {
		t.Errorf("Expected plugin appended to listing, got %v", tools)
	}

	// Late duplicates are still rejected.
	err := s.RegisterTool(makeTool("alpha"))
	if !mcperrors.IsKind(err, mcperrors.KindDuplicateKey) {
		t.Errorf("Expected DuplicateKeyError, got %v", err)
	}
}

// TestWithRegistries tests registry injection
func TestWithRegistries(t *testing.T) {
	tools := NewToolRegistry()
	if err := tools.Register(makeTool("seeded")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	s := New(
		WithLogger(logging.NewNopLogger()),
		WithRegistries(tools, nil, nil),
	)
	if err := s.Initialize(nil, nil, nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	listed, err := s.ListTools()
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "seeded" {
		t.Errorf("Expected the seeded tool, got %v", listed)
	}
}
