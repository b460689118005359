package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/server"
)

// BenchmarkServerOperations benchmarks core operations without the wire in
// the way: schema validation, registry lookups and handler dispatch.
func BenchmarkServerOperations(b *testing.B) {
	b.Run("Info", benchmarkServerInfo)
	b.Run("ExecuteTool", benchmarkServerExecuteTool)
	b.Run("ExecuteTool/Parallel", benchmarkServerExecuteToolParallel)
	b.Run("ExecuteTool/ValidationFailure", benchmarkServerExecuteToolValidationFailure)
	b.Run("ReadResource", benchmarkServerReadResource)
	b.Run("GetPromptMessages", benchmarkServerGetPromptMessages)

	b.Run("ListTools/10", func(b *testing.B) {
		benchmarkServerListTools(b, 10)
	})
	b.Run("ListTools/100", func(b *testing.B) {
		benchmarkServerListTools(b, 100)
	})
}

// BenchmarkDispatcher benchmarks the envelope path: request decoding,
// method routing and response construction on top of the core.
func BenchmarkDispatcher(b *testing.B) {
	b.Run("ServerInfo", func(b *testing.B) {
		benchmarkDispatch(b, protocol.MethodServerInfo, nil)
	})
	b.Run("ExecuteTool", func(b *testing.B) {
		benchmarkDispatch(b, protocol.MethodToolExecute, protocol.ExecuteToolParams{
			Name:       "bench_echo",
			Parameters: map[string]interface{}{"input": "bench"},
		})
	})
	b.Run("ReadResource", func(b *testing.B) {
		benchmarkDispatch(b, protocol.MethodResourceRead, protocol.ReadResourceParams{
			URI: "bench://status",
		})
	})
	b.Run("UnknownMethod", func(b *testing.B) {
		benchmarkDispatch(b, "tool.reload", nil)
	})
}

// benchTool returns a minimal tool whose handler cost is negligible, so
// the measurement is dominated by the server path around it.
func benchTool(name string) *primitives.Tool {
	return &primitives.Tool{
		Name:        name,
		Description: "Returns its input unchanged",
		InputSchema: schema.Object(map[string]*schema.Descriptor{
			"input": {Type: schema.TypeString},
		}, "input"),
		Handler: func(_ context.Context, params map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"echo": params["input"]}, nil
		},
	}
}

// benchCore builds an initialized core with the given number of tools plus
// one resource and one prompt.
func benchCore(b *testing.B, tools int) *server.Server {
	b.Helper()

	nop := logging.NewNopLogger()
	core := server.New(
		server.WithName("bench-server"),
		server.WithVersion("0.0.0"),
		server.WithLogger(nop),
	)

	set := make([]*primitives.Tool, tools)
	for i := range set {
		set[i] = benchTool(fmt.Sprintf("tool_%03d", i))
	}

	status := &primitives.Resource{
		URI:         "bench://status",
		Name:        "Status",
		Description: "Constant status document",
		Reader: func(context.Context) (interface{}, error) {
			return map[string]interface{}{"status": "ok"}, nil
		},
	}
	greeting := &primitives.Prompt{
		Name:        "bench_greeting",
		Description: "Single fixed message",
		Generator: func(context.Context, map[string]interface{}) ([]protocol.Message, error) {
			return []protocol.Message{{Role: protocol.RoleUser, Content: "hello"}}, nil
		},
	}

	if err := core.Initialize(set, []*primitives.Resource{status}, []*primitives.Prompt{greeting}); err != nil {
		b.Fatal(err)
	}
	return core
}

func benchmarkServerInfo(b *testing.B) {
	core := benchCore(b, 10)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = core.Info()
	}
}

func benchmarkServerExecuteTool(b *testing.B) {
	ctx := context.Background()
	core := benchCore(b, 10)
	params := map[string]interface{}{"input": "bench"}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := core.ExecuteTool(ctx, "tool_000", params); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkServerExecuteToolParallel(b *testing.B) {
	ctx := context.Background()
	core := benchCore(b, 10)
	params := map[string]interface{}{"input": "bench"}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := core.ExecuteTool(ctx, "tool_000", params); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func benchmarkServerExecuteToolValidationFailure(b *testing.B) {
	ctx := context.Background()
	core := benchCore(b, 10)
	params := map[string]interface{}{"input": 42}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := core.ExecuteTool(ctx, "tool_000", params); err == nil {
			b.Fatal("expected a validation failure")
		}
	}
}

func benchmarkServerReadResource(b *testing.B) {
	ctx := context.Background()
	core := benchCore(b, 10)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := core.ReadResource(ctx, "bench://status"); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkServerGetPromptMessages(b *testing.B) {
	ctx := context.Background()
	core := benchCore(b, 10)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := core.GetPromptMessages(ctx, "bench_greeting", nil); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkServerListTools(b *testing.B, tools int) {
	core := benchCore(b, tools)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := core.ListTools(); err != nil {
			b.Fatal(err)
		}
	}
}

// benchmarkDispatch pumps one prepared envelope through an initialized
// dispatcher. Error responses count as completed dispatches, so the
// unknown-method path can be measured the same way.
func benchmarkDispatch(b *testing.B, method string, params interface{}) {
	b.Helper()

	ctx := context.Background()
	handler := newBenchHandler()

	init, err := protocol.NewRequest("bench-init", protocol.MethodServerInitialize, nil)
	if err != nil {
		b.Fatal(err)
	}
	if resp := handler.Handle(ctx, init); !resp.Success {
		b.Fatalf("initialize failed: %+v", resp.Error)
	}

	req, err := protocol.NewRequest("bench-1", method, params)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if resp := handler.Handle(ctx, req); resp == nil {
			b.Fatal("nil response")
		}
	}
}
