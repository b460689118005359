// Package utils provides test support helpers shared across packages.
package utils

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineLeakDetector compares goroutine counts before and after the
// code under test. The final count is sampled repeatedly while shutdown
// settles, so goroutines that are mid-exit do not show up as leaks.
type GoroutineLeakDetector struct {
	t             *testing.T
	baseline      int
	allowedGrowth int
	settleTime    time.Duration
}

// NewGoroutineLeakDetector creates a detector reporting through t.
func NewGoroutineLeakDetector(t *testing.T) *GoroutineLeakDetector {
	return &GoroutineLeakDetector{
		t:          t,
		settleTime: time.Second,
	}
}

// SetAllowedGrowth permits the goroutine count to end up to n above the
// baseline without failing the test.
func (d *GoroutineLeakDetector) SetAllowedGrowth(n int) *GoroutineLeakDetector {
	d.allowedGrowth = n
	return d
}

// SetSettleTime bounds how long Check waits for goroutines to exit.
func (d *GoroutineLeakDetector) SetSettleTime(settle time.Duration) *GoroutineLeakDetector {
	d.settleTime = settle
	return d
}

// Start records the baseline goroutine count.
func (d *GoroutineLeakDetector) Start() {
	d.baseline = runtime.NumGoroutine()
}

// Check fails the test when the goroutine count has not come back to the
// baseline plus allowed growth within the settle time, and logs the stacks
// of every live goroutine so the leak can be traced.
func (d *GoroutineLeakDetector) Check() {
	deadline := time.Now().Add(d.settleTime)

	var current int
	for {
		current = runtime.NumGoroutine()
		if current <= d.baseline+d.allowedGrowth {
			return
		}
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	d.t.Errorf("goroutine leak: started with %d, still %d after %s (allowed growth %d)",
		d.baseline, current, d.settleTime, d.allowedGrowth)

	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	d.t.Logf("live goroutines:\n%s", buf[:n])
}
