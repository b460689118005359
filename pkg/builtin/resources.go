package builtin

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/config"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
)

const redactedValue = "[REDACTED]"

// sensitiveKeyFragments flags configuration keys whose values must never
// leave the process through a resource read.
var sensitiveKeyFragments = []string{"secret", "password", "token", "credential"}

// AppConfig builds the static config://app resource: a read-only, sanitized
// snapshot of the manager's current configuration.
func AppConfig(cfg *config.Manager) *primitives.Resource {
	return &primitives.Resource{
		URI:         "config://app",
		Name:        "Application Configuration",
		Description: "Read-only access to application configuration",
		MimeType:    "application/json",
		Reader: func(ctx context.Context) (interface{}, error) {
			return sanitize(cfg.All()), nil
		},
	}
}

// sanitize returns a copy of data with values under sensitive-looking keys
// replaced, recursing into nested maps.
func sanitize(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			out[k] = redactedValue
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = sanitize(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, fragment := range sensitiveKeyFragments {
		if strings.Contains(k, fragment) {
			return true
		}
	}
	return false
}

// SystemStatus builds the dynamic status://system resource. Each read bumps
// a counter, so consecutive reads observably differ; the uptime figure is a
// coarse proxy derived from that counter.
func SystemStatus() *primitives.Resource {
	var reads atomic.Int64
	return &primitives.Resource{
		URI:         "status://system",
		Name:        "System Status",
		Description: "Real-time system status information",
		MimeType:    "application/json",
		Dynamic:     true,
		Reader: func(ctx context.Context) (interface{}, error) {
			count := reads.Add(1)
			return map[string]interface{}{
				"timestamp":      time.Now().Format(time.RFC3339),
				"status":         "operational",
				"read_count":     count,
				"uptime_seconds": count * 10,
			}, nil
		},
	}
}
