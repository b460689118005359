package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/client"
)

const serverFlagHelp = `server command to spawn (default: this executable's serve command)`

// addServerFlag registers the shared --server flag and returns its target.
func addServerFlag(cmd *cobra.Command) *string {
	var serverCommand string
	cmd.Flags().StringVar(&serverCommand, "server", "", serverFlagHelp)
	return &serverCommand
}

// withClient spawns the server, initializes it, hands the connected client
// to fn, and tears the subprocess down afterwards.
func withClient(ctx context.Context, serverCommand string, fn func(ctx context.Context, c *client.Client) error) error {
	name, args, err := resolveServerCommand(serverCommand)
	if err != nil {
		return err
	}

	sub, err := client.Spawn(ctx, name, args...)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Close() }()

	if _, err := sub.InitializeServer(ctx); err != nil {
		return err
	}
	return fn(ctx, sub.Client)
}

// resolveServerCommand splits the --server value into a command name and
// arguments. An empty value means this executable's own serve command.
func resolveServerCommand(raw string) (string, []string, error) {
	if strings.TrimSpace(raw) == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		return exe, []string{"serve"}, nil
	}
	parts := strings.Fields(raw)
	return parts[0], parts[1:], nil
}

func parseJSONObject(flag, raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("--%s must be a JSON object: %w", flag, err)
	}
	return obj, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show server name, version and capabilities",
	}
	serverCommand := addServerFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), *serverCommand, func(ctx context.Context, c *client.Client) error {
			info, err := c.Info(ctx)
			if err != nil {
				return err
			}
			return printJSON(info)
		})
	}
	return cmd
}

func newToolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the server's tools",
	}
	serverCommand := addServerFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), *serverCommand, func(ctx context.Context, c *client.Client) error {
			tools, err := c.ListTools(ctx)
			if err != nil {
				return err
			}
			return printJSON(tools)
		})
	}
	return cmd
}

func newToolCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool <name>",
		Short: "Execute a tool",
		Example: `  mcpd tool calculator --params '{"operation": "add", "a": 2, "b": 3}'
  mcpd tool weather --params '{"city": "London", "units": "fahrenheit"}'`,
		Args: cobra.ExactArgs(1),
	}
	serverCommand := addServerFlag(cmd)
	paramsJSON := cmd.Flags().String("params", "{}", "tool parameters as a JSON object")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		params, err := parseJSONObject("params", *paramsJSON)
		if err != nil {
			return err
		}
		return withClient(cmd.Context(), *serverCommand, func(ctx context.Context, c *client.Client) error {
			result, err := c.ExecuteTool(ctx, args[0], params)
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	}
	return cmd
}

func newResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List the server's resources",
	}
	serverCommand := addServerFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), *serverCommand, func(ctx context.Context, c *client.Client) error {
			resources, err := c.ListResources(ctx)
			if err != nil {
				return err
			}
			return printJSON(resources)
		})
	}
	return cmd
}

func newResourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resource <uri>",
		Short:   "Read a resource",
		Example: `  mcpd resource status://system`,
		Args:    cobra.ExactArgs(1),
	}
	serverCommand := addServerFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), *serverCommand, func(ctx context.Context, c *client.Client) error {
			content, err := c.ReadResource(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(content)
		})
	}
	return cmd
}

func newPromptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List the server's prompts",
	}
	serverCommand := addServerFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), *serverCommand, func(ctx context.Context, c *client.Client) error {
			prompts, err := c.ListPrompts(ctx)
			if err != nil {
				return err
			}
			return printJSON(prompts)
		})
	}
	return cmd
}

func newPromptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prompt <name>",
		Short:   "Render a prompt's messages",
		Example: `  mcpd prompt summarize --args '{"text": "...", "length": "short"}'`,
		Args:    cobra.ExactArgs(1),
	}
	serverCommand := addServerFlag(cmd)
	argsJSON := cmd.Flags().String("args", "{}", "prompt arguments as a JSON object")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		promptArgs, err := parseJSONObject("args", *argsJSON)
		if err != nil {
			return err
		}
		return withClient(cmd.Context(), *serverCommand, func(ctx context.Context, c *client.Client) error {
			messages, err := c.GetPromptMessages(ctx, args[0], promptArgs)
			if err != nil {
				return err
			}
			return printJSON(messages)
		})
	}
	return cmd
}
