package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/builtin"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/config"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/observability"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/server"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/transport"
)

func newServeCommand() *cobra.Command {
	var (
		configDir string
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the server on stdin/stdout",
		Long: `Serve reads one JSON request per line from stdin and writes one JSON
response per line to stdout. Stdout is reserved for the protocol; all
logging goes to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configDir, logLevel, logFormat)
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "config", "directory holding base.yaml and its overlays")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	return cmd
}

func runServe(ctx context.Context, configDir, logLevel, logFormat string) error {
	logger := buildLogger(logLevel, logFormat)
	logging.SetGlobalLogger(logger)

	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	serviceName := cfg.GetString("server.name", "mcp-server")
	serviceVersion := cfg.GetString("server.version", version)

	core := server.New(
		server.WithName(serviceName),
		server.WithVersion(serviceVersion),
		server.WithLogger(logger),
	)

	// The weather tool rides along with the fixed set so the client verbs
	// can exercise it out of the box.
	catalog := builtin.Catalog(cfg)
	catalog.Tools = append(catalog.Tools, builtin.NewWeatherTool())

	var handler transport.Handler = transport.NewDispatcher(core, catalog, logger)

	if cfg.GetBool("observability.metrics.enabled", false) || cfg.GetBool("observability.tracing.enabled", false) {
		middleware, shutdown, err := buildObservability(ctx, cfg, serviceName, serviceVersion, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		handler = middleware.Wrap(handler)
	}

	t := transport.NewStdioTransport(handler, transport.WithLogger(logger))

	logger.Info("Server ready. Listening on stdio",
		logging.String("service", serviceName),
		logging.String("environment", cfg.Environment()),
	)
	if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func buildLogger(level, format string) logging.Logger {
	var formatter logging.Formatter
	if format == "json" {
		formatter = logging.NewJSONFormatter()
	} else {
		formatter = logging.NewTextFormatter()
	}

	logger := logging.New(os.Stderr, formatter)
	logger.SetLevel(logging.ParseLevel(level))
	return logger
}

// buildObservability assembles the configured metrics and tracing providers
// into one dispatch middleware and returns a shutdown hook for both.
func buildObservability(ctx context.Context, cfg *config.Manager, name, version string, logger logging.Logger) (*observability.Middleware, func(), error) {
	var (
		metrics observability.MetricsProvider
		tracing *observability.TracingProvider
		err     error
	)

	if cfg.GetBool("observability.metrics.enabled", false) {
		metrics, err = observability.NewMetricsProvider(observability.MetricsConfig{
			ServiceName:    name,
			ServiceVersion: version,
			Environment:    cfg.Environment(),
			MetricsPort:    cfg.GetInt("observability.metrics.port", 9090),
			MetricsPath:    cfg.GetString("observability.metrics.path", "/metrics"),
		})
		if err != nil {
			return nil, nil, err
		}
	}

	if cfg.GetBool("observability.tracing.enabled", false) {
		tracing, err = observability.NewTracingProvider(observability.TracingConfig{
			ServiceName:    name,
			ServiceVersion: version,
			Environment:    cfg.Environment(),
			ExporterType:   observability.ExporterType(cfg.GetString("observability.tracing.exporter", string(observability.ExporterTypeNoop))),
			Endpoint:       cfg.GetString("observability.tracing.endpoint", ""),
			Insecure:       cfg.GetBool("observability.tracing.insecure", false),
			SampleRate:     cfg.GetFloat("observability.tracing.sample_rate", 1.0),
		})
		if err != nil {
			return nil, nil, err
		}
	}

	if metrics != nil {
		if err := metrics.Start(ctx); err != nil {
			return nil, nil, err
		}
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if tracing != nil {
			if err := tracing.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("Tracing shutdown failed")
			}
		}
		if metrics != nil {
			if err := metrics.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("Metrics shutdown failed")
			}
		}
	}

	return observability.NewMiddleware(metrics, tracing), shutdown, nil
}
