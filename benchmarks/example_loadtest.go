//go:build ignore
// +build ignore

// Example load test runner.
// Run with: go run example_loadtest.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TalBarda8/mcp-modular-architecture/benchmarks"
)

func main() {
	fmt.Println("=== Load Test Runner ===")

	fmt.Println("\n1. Light load (4 clients, 200 requests each)...")
	runLoadTest(benchmarks.LoadTestConfig{
		Clients:           4,
		RequestsPerClient: 200,
		RampUp:            time.Second,
		OperationMix: benchmarks.OperationMix{
			ExecuteTool:  50,
			ReadResource: 30,
			ListTools:    15,
			ListPrompts:  5,
		},
		ReportInterval: 2 * time.Second,
	})

	fmt.Println("\n2. Heavy load (32 clients, 2000 requests each)...")
	runLoadTest(benchmarks.LoadTestConfig{
		Clients:           32,
		RequestsPerClient: 2000,
		RampUp:            2 * time.Second,
		OperationMix: benchmarks.OperationMix{
			ExecuteTool:  70,
			ReadResource: 20,
			ListTools:    5,
			ListPrompts:  5,
		},
		ReportInterval: 5 * time.Second,
	})

	fmt.Println("\n3. Rate-limited (8 clients, 500 req/s)...")
	runLoadTest(benchmarks.LoadTestConfig{
		Clients:           8,
		RequestsPerClient: 500,
		RateLimit:         500,
		ReportInterval:    2 * time.Second,
	})
}

func runLoadTest(config benchmarks.LoadTestConfig) {
	result, err := benchmarks.NewLoadTester(config).Run(context.Background())
	if err != nil {
		log.Fatalf("Load test failed: %v", err)
	}
	result.PrintResults()
}
