package builtin

import (
	"context"
	"fmt"

	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
)

// CodeReview builds the code_review prompt: a system message establishing
// the reviewer persona and focus, followed by a user message carrying the
// code in a fenced block.
func CodeReview() *primitives.Prompt {
	return &primitives.Prompt{
		Name:        "code_review",
		Description: "Guide model to review code for quality and best practices",
		ArgumentsSchema: schema.Object(map[string]*schema.Descriptor{
			"code": {Type: schema.TypeString, Description: "The code to review"},
			"language": {
				Type:        schema.TypeString,
				Description: "Programming language of the code",
				Default:     "unknown",
			},
			"focus": {
				Type:        schema.TypeString,
				Description: "Specific aspects to focus on (e.g., security, performance)",
				Default:     "general best practices",
			},
		}, "code"),
		Generator: codeReviewMessages,
	}
}

func codeReviewMessages(ctx context.Context, args map[string]interface{}) ([]protocol.Message, error) {
	code, _ := args["code"].(string)
	language, _ := args["language"].(string)
	focus, _ := args["focus"].(string)

	system := fmt.Sprintf(
		"You are an expert code reviewer. Review the following %s code with focus on: %s. "+
			"Provide constructive feedback on code quality, potential issues, and suggested improvements.",
		language, focus)
	user := fmt.Sprintf("Please review this code:\n\n```%s\n%s\n```", language, code)

	return []protocol.Message{
		{Role: protocol.RoleSystem, Content: system},
		{Role: protocol.RoleUser, Content: user},
	}, nil
}

// Summarize builds the summarize prompt.
func Summarize() *primitives.Prompt {
	return &primitives.Prompt{
		Name:        "summarize",
		Description: "Guide model to summarize text content",
		ArgumentsSchema: schema.Object(map[string]*schema.Descriptor{
			"text": {Type: schema.TypeString, Description: "The text to summarize"},
			"length": {
				Type:        schema.TypeString,
				Description: "Desired summary length",
				Enum:        []interface{}{"short", "medium", "long"},
				Default:     "medium",
			},
		}, "text"),
		Generator: summarizeMessages,
	}
}

func summarizeMessages(ctx context.Context, args map[string]interface{}) ([]protocol.Message, error) {
	text, _ := args["text"].(string)
	length, _ := args["length"].(string)

	system := fmt.Sprintf(
		"You are a helpful assistant that creates %s summaries. "+
			"Provide a clear, concise summary of the given text.", length)
	user := fmt.Sprintf("Please summarize the following text:\n\n%s", text)

	return []protocol.Message{
		{Role: protocol.RoleSystem, Content: system},
		{Role: protocol.RoleUser, Content: user},
	}, nil
}
