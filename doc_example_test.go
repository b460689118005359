package mcp_test

import (
	"context"
	"fmt"
	"io"

	mcp "github.com/TalBarda8/mcp-modular-architecture"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
)

// Example builds a server in-process, initializes it and executes a tool.
func Example() {
	adder := &mcp.Tool{
		Name:        "add",
		Description: "Adds two numbers",
		InputSchema: mcp.ObjectSchema(map[string]*mcp.Descriptor{
			"a": {Type: mcp.TypeNumber},
			"b": {Type: mcp.TypeNumber},
		}, "a", "b"),
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"sum": params["a"].(float64) + params["b"].(float64)}, nil
		},
	}

	core := mcp.NewServer(
		mcp.WithName("adder"),
		mcp.WithVersion("1.0.0"),
		mcp.WithLogger(logging.NewNopLogger()),
	)
	if err := core.Initialize([]*mcp.Tool{adder}, nil, nil); err != nil {
		fmt.Println(err)
		return
	}

	result, err := core.ExecuteTool(context.Background(), "add", map[string]interface{}{"a": 19.0, "b": 23.0})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result.(map[string]interface{})["sum"])
	// Output: 42
}

// Example_wire serves a catalog over the line protocol and drives it with
// the client SDK, the way two processes would across stdio.
func Example_wire() {
	nop := logging.NewNopLogger()

	greet := &mcp.Tool{
		Name:        "greet",
		Description: "Greets a caller by name",
		InputSchema: mcp.ObjectSchema(map[string]*mcp.Descriptor{
			"name": {Type: mcp.TypeString},
		}, "name"),
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"greeting": "Hello, " + params["name"].(string) + "!"}, nil
		},
	}

	core := mcp.NewServer(mcp.WithName("greeter"), mcp.WithVersion("1.0.0"), mcp.WithLogger(nop))
	handler := mcp.NewDispatcher(core, mcp.Catalog{Tools: []*mcp.Tool{greet}}, nop)

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()
	tr := mcp.NewStdioTransport(handler, mcp.WithStreams(serverIn, serverOut), mcp.WithTransportLogger(nop))
	go func() { _ = tr.Run(context.Background()) }()
	defer tr.Stop()

	ctx := context.Background()
	c := mcp.NewClient(clientIn, clientOut, mcp.WithClientLogger(nop))
	if _, err := c.InitializeServer(ctx); err != nil {
		fmt.Println(err)
		return
	}

	raw, err := c.ExecuteTool(ctx, "greet", map[string]interface{}{"name": "Ada"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(raw))
	// Output: {"greeting":"Hello, Ada!"}
}
