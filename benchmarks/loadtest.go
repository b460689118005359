// Package benchmarks provides performance and load testing for the server
// core, the dispatcher and the client SDK.
package benchmarks

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/client"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/server"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/transport"
)

// LoadTestConfig configures load testing parameters.
type LoadTestConfig struct {
	// Clients is the number of concurrent clients, each with its own
	// transport into the shared server.
	Clients int

	// RequestsPerClient is how many requests each client issues.
	RequestsPerClient int

	// RateLimit caps the aggregate request rate in requests per second
	// (0 = unlimited).
	RateLimit int

	// RampUp spreads client starts over this period so load builds
	// gradually instead of arriving as a thundering herd.
	RampUp time.Duration

	// OperationMix is the relative weight of each operation.
	OperationMix OperationMix

	// ReportInterval is how often progress is logged (0 disables).
	ReportInterval time.Duration

	// Logger receives progress reports. A nil logger falls back to the
	// process-wide logger.
	Logger logging.Logger
}

// OperationMix defines the distribution of operations a load test issues.
// Weights are relative; an all-zero mix falls back to a tool-heavy blend.
type OperationMix struct {
	ExecuteTool  float64
	ReadResource float64
	ListTools    float64
	ListPrompts  float64
}

// LoadTestResult contains the results of a load test.
type LoadTestResult struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	TotalDuration      time.Duration

	// Latency statistics across all operations.
	MinLatency time.Duration
	AvgLatency time.Duration
	P50Latency time.Duration
	P90Latency time.Duration
	P99Latency time.Duration
	MaxLatency time.Duration

	// RequestsPerSecond is the aggregate throughput.
	RequestsPerSecond float64

	// ErrorCounts breaks failures down by error message.
	ErrorCounts map[string]int64

	// OperationMetrics breaks the run down by operation name.
	OperationMetrics map[string]*OperationMetrics
}

// OperationMetrics tracks latencies and outcomes for one operation type.
type OperationMetrics struct {
	Count      int64
	Successful int64
	Failed     int64
	TotalTime  time.Duration
	MinTime    time.Duration
	MaxTime    time.Duration

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *OperationMetrics) record(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Count++
	m.TotalTime += duration
	if err != nil {
		m.Failed++
	} else {
		m.Successful++
	}
	if m.MinTime == 0 || duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
	m.latencies = append(m.latencies, duration)
}

// LoadTester drives a server with concurrent clients over the line
// protocol. The server, its dispatcher and every client run in-process;
// each client gets its own transport so the wire path is exercised
// end to end.
type LoadTester struct {
	config LoadTestConfig
	logger logging.Logger

	totalRequests      atomic.Int64
	successfulRequests atomic.Int64
	failedRequests     atomic.Int64

	mu               sync.Mutex
	errorCounts      map[string]int64
	operationMetrics map[string]*OperationMetrics

	startTime time.Time
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewLoadTester creates a load tester. The operation mix is normalized so
// the weights behave as percentages regardless of their scale.
func NewLoadTester(config LoadTestConfig) *LoadTester {
	if config.Clients <= 0 {
		config.Clients = 1
	}
	if config.RequestsPerClient <= 0 {
		config.RequestsPerClient = 100
	}

	mix := &config.OperationMix
	total := mix.ExecuteTool + mix.ReadResource + mix.ListTools + mix.ListPrompts
	if total == 0 {
		*mix = OperationMix{ExecuteTool: 50, ReadResource: 30, ListTools: 15, ListPrompts: 5}
		total = 100
	}
	mix.ExecuteTool /= total
	mix.ReadResource /= total
	mix.ListTools /= total
	mix.ListPrompts /= total

	logger := config.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &LoadTester{
		config:           config,
		logger:           logger,
		errorCounts:      make(map[string]int64),
		operationMetrics: make(map[string]*OperationMetrics),
		stopCh:           make(chan struct{}),
	}
}

// Run executes the load test and blocks until every client has finished
// its request budget or the context is canceled.
func (lt *LoadTester) Run(ctx context.Context) (*LoadTestResult, error) {
	lt.startTime = time.Now()

	handler := newBenchHandler()

	clients := make([]*benchSession, lt.config.Clients)
	for i := range clients {
		session := startBenchSession(handler)
		if _, err := session.client.InitializeServer(ctx); err != nil {
			session.stop()
			for _, s := range clients[:i] {
				s.stop()
			}
			return nil, fmt.Errorf("failed to initialize client %d: %w", i, err)
		}
		clients[i] = session
	}
	defer func() {
		for _, s := range clients {
			s.stop()
		}
	}()

	if lt.config.ReportInterval > 0 {
		go lt.reportProgress()
	}
	limiter := lt.startRateLimiter()

	for i, s := range clients {
		lt.wg.Add(1)
		go lt.runClient(ctx, int64(i), s.client, limiter)

		if lt.config.RampUp > 0 && i < len(clients)-1 {
			time.Sleep(lt.config.RampUp / time.Duration(len(clients)-1))
		}
	}

	done := make(chan struct{})
	go func() {
		lt.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(lt.stopCh)
	case <-ctx.Done():
		close(lt.stopCh)
		lt.wg.Wait()
	}

	return lt.calculateResults(), nil
}

// runClient issues one client's request budget, picking operations
// according to the configured mix.
func (lt *LoadTester) runClient(ctx context.Context, seed int64, c *client.Client, limiter <-chan struct{}) {
	defer lt.wg.Done()

	rng := rand.New(rand.NewSource(seed + 1))
	for n := 0; n < lt.config.RequestsPerClient; n++ {
		select {
		case <-lt.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		if limiter != nil {
			select {
			case <-limiter:
			case <-lt.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}

		lt.executeOperation(ctx, c, lt.pickOperation(rng))
	}
}

func (lt *LoadTester) pickOperation(rng *rand.Rand) string {
	r := rng.Float64()
	mix := lt.config.OperationMix

	switch {
	case r < mix.ExecuteTool:
		return "tool.execute"
	case r < mix.ExecuteTool+mix.ReadResource:
		return "resource.read"
	case r < mix.ExecuteTool+mix.ReadResource+mix.ListTools:
		return "tool.list"
	default:
		return "prompt.list"
	}
}

func (lt *LoadTester) executeOperation(ctx context.Context, c *client.Client, operation string) {
	start := time.Now()
	var err error

	lt.totalRequests.Add(1)

	switch operation {
	case "tool.execute":
		_, err = c.ExecuteTool(ctx, "bench_echo", map[string]interface{}{
			"input": fmt.Sprintf("load-%d", start.UnixNano()),
		})
	case "resource.read":
		_, err = c.ReadResource(ctx, "bench://status")
	case "tool.list":
		_, err = c.ListTools(ctx)
	case "prompt.list":
		_, err = c.ListPrompts(ctx)
	}

	lt.metricsFor(operation).record(time.Since(start), err)

	if err != nil {
		lt.failedRequests.Add(1)
		lt.recordError(err)
	} else {
		lt.successfulRequests.Add(1)
	}
}

func (lt *LoadTester) metricsFor(operation string) *OperationMetrics {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	m, ok := lt.operationMetrics[operation]
	if !ok {
		m = &OperationMetrics{}
		lt.operationMetrics[operation] = m
	}
	return m
}

func (lt *LoadTester) recordError(err error) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.errorCounts[err.Error()]++
}

// startRateLimiter emits one token per permitted request. A nil channel
// means unlimited.
func (lt *LoadTester) startRateLimiter() <-chan struct{} {
	if lt.config.RateLimit <= 0 {
		return nil
	}

	ch := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(lt.config.RateLimit))
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				select {
				case ch <- struct{}{}:
				case <-lt.stopCh:
					return
				}
			case <-lt.stopCh:
				return
			}
		}
	}()
	return ch
}

func (lt *LoadTester) reportProgress() {
	ticker := time.NewTicker(lt.config.ReportInterval)
	defer ticker.Stop()

	var lastRequests int64
	lastTime := time.Now()

	for {
		select {
		case <-ticker.C:
			current := lt.totalRequests.Load()
			now := time.Now()
			rps := float64(current-lastRequests) / now.Sub(lastTime).Seconds()

			lt.logger.Info("Load test progress",
				logging.Any("requests", current),
				logging.String("rate", fmt.Sprintf("%.1f req/s", rps)),
				logging.Any("successful", lt.successfulRequests.Load()),
				logging.Any("failed", lt.failedRequests.Load()),
			)

			lastRequests = current
			lastTime = now
		case <-lt.stopCh:
			return
		}
	}
}

func (lt *LoadTester) calculateResults() *LoadTestResult {
	duration := time.Since(lt.startTime)

	result := &LoadTestResult{
		TotalRequests:      lt.totalRequests.Load(),
		SuccessfulRequests: lt.successfulRequests.Load(),
		FailedRequests:     lt.failedRequests.Load(),
		TotalDuration:      duration,
		RequestsPerSecond:  float64(lt.totalRequests.Load()) / duration.Seconds(),
		ErrorCounts:        make(map[string]int64),
		OperationMetrics:   make(map[string]*OperationMetrics),
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()

	for msg, count := range lt.errorCounts {
		result.ErrorCounts[msg] = count
	}

	var all []time.Duration
	for op, m := range lt.operationMetrics {
		result.OperationMetrics[op] = m
		all = append(all, m.latencies...)
	}

	if len(all) > 0 {
		sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

		var sum time.Duration
		for _, d := range all {
			sum += d
		}

		result.MinLatency = all[0]
		result.MaxLatency = all[len(all)-1]
		result.AvgLatency = sum / time.Duration(len(all))
		result.P50Latency = percentile(all, 50)
		result.P90Latency = percentile(all, 90)
		result.P99Latency = percentile(all, 99)
	}

	return result
}

// percentile reads the given percentile from an ascending-sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	index := int(float64(len(sorted))*p/100.0+0.5) - 1
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

// PrintResults prints load test results in a readable format.
func (r *LoadTestResult) PrintResults() {
	fmt.Println("\n=== Load Test Results ===")
	fmt.Printf("Total Duration: %s\n", r.TotalDuration)
	fmt.Printf("Total Requests: %d\n", r.TotalRequests)
	fmt.Printf("Successful: %d (%.1f%%)\n", r.SuccessfulRequests,
		float64(r.SuccessfulRequests)/float64(r.TotalRequests)*100)
	fmt.Printf("Failed: %d (%.1f%%)\n", r.FailedRequests,
		float64(r.FailedRequests)/float64(r.TotalRequests)*100)
	fmt.Printf("Requests/sec: %.2f\n", r.RequestsPerSecond)

	fmt.Println("\nLatency:")
	fmt.Printf("  Min: %s\n", r.MinLatency)
	fmt.Printf("  Avg: %s\n", r.AvgLatency)
	fmt.Printf("  P50: %s\n", r.P50Latency)
	fmt.Printf("  P90: %s\n", r.P90Latency)
	fmt.Printf("  P99: %s\n", r.P99Latency)
	fmt.Printf("  Max: %s\n", r.MaxLatency)

	if len(r.OperationMetrics) > 0 {
		fmt.Println("\nOperation Breakdown:")
		for op, m := range r.OperationMetrics {
			fmt.Printf("  %s: %d requests, %.1f%% success, avg %s\n",
				op, m.Count, float64(m.Successful)/float64(m.Count)*100,
				m.TotalTime/time.Duration(m.Count))
		}
	}

	if len(r.ErrorCounts) > 0 {
		fmt.Println("\nErrors:")
		for msg, count := range r.ErrorCounts {
			fmt.Printf("  %s: %d\n", msg, count)
		}
	}
}

// benchSession is one client wired to the shared handler through its own
// in-process transport.
type benchSession struct {
	client *client.Client
	stop   func()
}

// newBenchHandler builds a dispatcher over a fresh server core and a small
// fixed catalog. All sessions share it, the way concurrent clients share
// one server.
func newBenchHandler() transport.Handler {
	nop := logging.NewNopLogger()

	echo := &primitives.Tool{
		Name:        "bench_echo",
		Description: "Returns its input unchanged",
		InputSchema: schema.Object(map[string]*schema.Descriptor{
			"input": {Type: schema.TypeString},
		}, "input"),
		Handler: func(_ context.Context, params map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"echo": params["input"]}, nil
		},
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

	core := server.New(
		server.WithName("bench-server"),
		server.WithVersion("0.0.0"),
		server.WithLogger(nop),
	)
	catalog := transport.Catalog{
		Tools:     []*primitives.Tool{echo},
		Resources: []*primitives.Resource{status},
		Prompts:   []*primitives.Prompt{greeting},
	}
	return transport.NewDispatcher(core, catalog, nop)
}

// startBenchSession connects a client to the handler over pipe-backed
// streams with its own transport loop.
func startBenchSession(handler transport.Handler) *benchSession {
	nop := logging.NewNopLogger()

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()

	tr := transport.NewStdioTransport(handler,
		transport.WithStreams(serverIn, serverOut),
		transport.WithLogger(nop),
	)
	go func() { _ = tr.Run(context.Background()) }()

	c := client.New(clientIn, clientOut, client.WithLogger(nop))
	return &benchSession{
		client: c,
		stop: func() {
			tr.Stop()
			_ = clientOut.Close()
		},
	}
}
