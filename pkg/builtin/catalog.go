package builtin

import (
	"github.com/TalBarda8/mcp-modular-architecture/pkg/config"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/transport"
)

// Tools returns the fixed tool set. The weather tool is excluded; see
// NewWeatherTool.
func Tools() []*primitives.Tool {
	return []*primitives.Tool{
		Calculator(),
		Echo(),
		BatchProcessor(),
		ConcurrentFetcher(),
	}
}

// Resources returns the fixed resource set, reading configuration snapshots
// from cfg.
func Resources(cfg *config.Manager) []*primitives.Resource {
	return []*primitives.Resource{
		AppConfig(cfg),
		SystemStatus(),
	}
}

// Prompts returns the fixed prompt set.
func Prompts() []*primitives.Prompt {
	return []*primitives.Prompt{
		CodeReview(),
		Summarize(),
	}
}

// Catalog bundles every fixed primitive into a transport catalog, ready to
// hand to a dispatcher.
func Catalog(cfg *config.Manager) transport.Catalog {
	return transport.Catalog{
		Tools:     Tools(),
		Resources: Resources(cfg),
		Prompts:   Prompts(),
	}
}
