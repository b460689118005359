// mcpd runs the server on stdio and bundles a small client for driving a
// server instance from the command line. The client verbs spawn the server
// as a subprocess (this binary's own serve command by default) and talk to
// it over its stdin/stdout.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "0.1.0"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "mcpd",
		Short:        "Modular tool/resource/prompt server over stdio",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(
		newInfoCommand(),
		newToolsCommand(),
		newToolCommand(),
		newResourcesCommand(),
		newResourceCommand(),
		newPromptsCommand(),
		newPromptCommand(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
