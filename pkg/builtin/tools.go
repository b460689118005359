package builtin

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
)

// fetchLatency is the simulated round-trip time of one concurrent_fetcher
// item.
const fetchLatency = 5 * time.Millisecond

// Calculator builds the arithmetic tool. Division by zero reports a
// ValidationError rather than an execution failure: the inputs, not the
// tool, are at fault.
func Calculator() *primitives.Tool {
	return &primitives.Tool{
		Name:        "calculator",
		Description: "Perform basic arithmetic operations (add, subtract, multiply, divide)",
		InputSchema: schema.Object(map[string]*schema.Descriptor{
			"operation": {
				Type:        schema.TypeString,
				Description: "Arithmetic operation to perform",
				Enum:        []interface{}{"add", "subtract", "multiply", "divide"},
			},
			"a": {Type: schema.TypeNumber, Description: "First operand"},
			"b": {Type: schema.TypeNumber, Description: "Second operand"},
		}, "operation", "a", "b"),
		OutputSchema: schema.Object(map[string]*schema.Descriptor{
			"result": {Type: schema.TypeNumber, Description: "Calculation result"},
		}),
		Handler: calculate,
	}
}

func calculate(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	operation, _ := params["operation"].(string)
	a := toFloat(params["a"])
	b := toFloat(params["b"])

	var result float64
	switch operation {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return nil, mcperrors.New(mcperrors.KindValidation, "Division by zero is not allowed").
				WithDetail("a", a).
				WithDetail("b", b)
		}
		result = a / b
	default:
		// Unreachable through Execute: the enum rejects anything else.
		return nil, mcperrors.Newf(mcperrors.KindValidation, "Invalid operation: %s", operation)
	}

	return map[string]interface{}{"result": result}, nil
}

// Echo builds the minimal single-parameter tool.
func Echo() *primitives.Tool {
	return &primitives.Tool{
		Name:        "echo",
		Description: "Echo back the provided message",
		InputSchema: schema.Object(map[string]*schema.Descriptor{
			"message": {Type: schema.TypeString, Description: "Message to echo back"},
		}, "message"),
		OutputSchema: schema.Object(map[string]*schema.Descriptor{
			"echo": {Type: schema.TypeString, Description: "Echoed message"},
		}),
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			message, _ := params["message"].(string)
			return map[string]interface{}{"echo": message}, nil
		},
	}
}

// BatchProcessor builds the CPU-bound worker-pool tool. Items fan out across
// a bounded errgroup and results land at the index of the item that produced
// them, so output order always matches input order.
func BatchProcessor() *primitives.Tool {
	defaultWorkers := runtime.NumCPU()
	return &primitives.Tool{
		Name:        "batch_processor",
		Description: "Process a batch of numbers in parallel across a bounded worker pool (CPU-bound)",
		InputSchema: schema.Object(map[string]*schema.Descriptor{
			"items": {
				Type:        schema.TypeArray,
				Items:       &schema.Descriptor{Type: schema.TypeNumber},
				Description: "List of numbers to process in parallel",
			},
			"workers": {
				Type:        schema.TypeInteger,
				Description: fmt.Sprintf("Number of workers (default: %d)", defaultWorkers),
				Minimum:     schema.Float(1),
				Maximum:     schema.Float(float64(defaultWorkers * 2)),
				Default:     defaultWorkers,
			},
		}, "items"),
		OutputSchema: schema.Object(map[string]*schema.Descriptor{
			"results":      {Type: schema.TypeArray, Items: &schema.Descriptor{Type: schema.TypeNumber}, Description: "Processed results in input order"},
			"count":        {Type: schema.TypeInteger, Description: "Number of items processed"},
			"workers_used": {Type: schema.TypeInteger, Description: "Number of workers used"},
		}),
		Handler: processBatch,
	}
}

func processBatch(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	items := toFloatSlice(params["items"])
	if len(items) == 0 {
		return map[string]interface{}{
			"results":      []float64{},
			"count":        0,
			"workers_used": 0,
		}, nil
	}

	workers := clampInt(toInt(params["workers"], runtime.NumCPU()), 1, runtime.NumCPU()*2)

	results := make([]float64, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = computeIntensive(item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"results":      results,
		"count":        len(results),
		"workers_used": workers,
	}, nil
}

// computeIntensive squares n and folds it through a long arithmetic loop,
// standing in for genuinely expensive per-item work.
func computeIntensive(n float64) float64 {
	result := n * n
	for i := 0; i < 1000; i++ {
		result = math.Mod(result+float64(i)*0.0001, 1e6)
	}
	return result
}

// ConcurrentFetcher builds the I/O-bound counterpart of BatchProcessor: each
// item waits out a simulated round trip, so the pool overlaps waiting rather
// than computation. Output order matches input order.
func ConcurrentFetcher() *primitives.Tool {
	return &primitives.Tool{
		Name:        "concurrent_fetcher",
		Description: "Process items concurrently across goroutines (I/O-bound)",
		InputSchema: schema.Object(map[string]*schema.Descriptor{
			"items": {
				Type:        schema.TypeArray,
				Items:       &schema.Descriptor{Type: schema.TypeString},
				Description: "List of items to process concurrently",
			},
			"max_workers": {
				Type:        schema.TypeInteger,
				Description: "Maximum number of concurrent workers (default: 10)",
				Minimum:     schema.Float(1),
				Maximum:     schema.Float(50),
				Default:     10,
			},
		}, "items"),
		OutputSchema: schema.Object(map[string]*schema.Descriptor{
			"results":      {Type: schema.TypeArray, Items: &schema.Descriptor{Type: schema.TypeObject}, Description: "Processed results in input order"},
			"count":        {Type: schema.TypeInteger, Description: "Number of items processed"},
			"workers_used": {Type: schema.TypeInteger, Description: "Number of workers used"},
		}),
		Handler: fetchConcurrently,
	}
}

func fetchConcurrently(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	items := toStringSlice(params["items"])
	if len(items) == 0 {
		return map[string]interface{}{
			"results":      []interface{}{},
			"count":        0,
			"workers_used": 0,
		}, nil
	}

	// More workers than items buys nothing.
	workers := clampInt(toInt(params["max_workers"], 10), 1, 50)
	if len(items) < workers {
		workers = len(items)
	}

	results := make([]map[string]interface{}, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			out, err := simulateFetch(gctx, item)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"results":      results,
		"count":        len(results),
		"workers_used": workers,
	}, nil
}

// simulateFetch stands in for a network or disk round trip: a short wait
// followed by lightweight post-processing.
func simulateFetch(ctx context.Context, item string) (map[string]interface{}, error) {
	select {
	case <-time.After(fetchLatency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return map[string]interface{}{
		"original":     item,
		"length":       len(item),
		"uppercase":    strings.ToUpper(item),
		"processed_at": time.Now().Format(time.RFC3339Nano),
	}, nil
}

// toFloat normalizes the numeric representations that reach a handler:
// float64 from the wire, int from schema defaults and Go callers.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func toInt(v interface{}, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func toFloatSlice(v interface{}) []float64 {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(arr))
	for _, item := range arr {
		out = append(out, toFloat(item))
	}
	return out
}

func toStringSlice(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, _ := item.(string)
		out = append(out, s)
	}
	return out
}
