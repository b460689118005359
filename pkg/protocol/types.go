package protocol

import (
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
)

// Role tags a prompt message with its speaker.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is one of the three defined roles.
func (r Role) IsValid() bool {
	return r == RoleSystem || r == RoleUser || r == RoleAssistant
}

// Message is one role-tagged entry in the ordered sequence a prompt
// generates.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToolInfo is the metadata view of a registered tool. It never carries the
// handler.
type ToolInfo struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	InputSchema  *schema.Descriptor `json:"inputSchema"`
	OutputSchema *schema.Descriptor `json:"outputSchema,omitempty"`
}

// ResourceInfo is the metadata view of a registered resource. It never
// carries the reader.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
	IsDynamic   bool   `json:"isDynamic"`
}

// PromptInfo is the metadata view of a registered prompt. It never carries
// the message generator.
type PromptInfo struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	ArgumentsSchema *schema.Descriptor `json:"argumentsSchema"`
}

// ResourceContent is the payload produced by reading a resource.
type ResourceContent struct {
	URI      string      `json:"uri"`
	MimeType string      `json:"mimeType"`
	Content  interface{} `json:"content"`
}

// ServerInfo describes the server in both lifecycle states. Capabilities
// lists "tools", "resources" and "prompts" for whichever registries hold at
// least one entry.
type ServerInfo struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Initialized   bool     `json:"initialized"`
	Capabilities  []string `json:"capabilities"`
	ToolCount     int      `json:"tool_count"`
	ResourceCount int      `json:"resource_count"`
	PromptCount   int      `json:"prompt_count"`
}

// Capability names reported by ServerInfo.
const (
	CapabilityTools     = "tools"
	CapabilityResources = "resources"
	CapabilityPrompts   = "prompts"
)

// ExecuteToolParams are the parameters of a tool.execute request.
type ExecuteToolParams struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// ReadResourceParams are the parameters of a resource.read request.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// GetPromptMessagesParams are the parameters of a prompt.get_messages
// request.
type GetPromptMessagesParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// ListToolsResult is the result payload of tool.list.
type ListToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// ListResourcesResult is the result payload of resource.list.
type ListResourcesResult struct {
	Resources []ResourceInfo `json:"resources"`
}

// ListPromptsResult is the result payload of prompt.list.
type ListPromptsResult struct {
	Prompts []PromptInfo `json:"prompts"`
}

// GetPromptMessagesResult is the result payload of prompt.get_messages.
type GetPromptMessagesResult struct {
	Prompt   string    `json:"prompt"`
	Messages []Message `json:"messages"`
}

// InitializeResult is the result payload of server.initialize.
type InitializeResult struct {
	Status string `json:"status"`
}

// StatusInitialized is the status reported by a successful
// server.initialize.
const StatusInitialized = "initialized"
