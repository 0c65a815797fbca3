package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const structuredReasoningText = `<structuredReasoning>
BEFORE starting any complex task, you MUST use the declare_reasoning_context tool to:
1. Declare all entities/variables you will reference
2. Define their types and initial values
3. Establish relationships between entities

This declaration phase prevents undefined variable errors and ensures consistent
state management throughout your reasoning process.

MANDATORY WORKFLOW:
1. DECLARE: Call declare_reasoning_context with all planned entities
2. VALIDATE: Use validate_context to check declarations before proceeding
3. EXECUTE: Perform reasoning steps, updating context as needed
4. COMMIT: Save important facts to persistent memory using add_memory_enhanced
</structuredReasoning>`

// StructuredReasoningPrompt handles the structured-reasoning MCP prompt.
type StructuredReasoningPrompt struct{}

// NewStructuredReasoningPrompt creates a StructuredReasoningPrompt.
func NewStructuredReasoningPrompt() *StructuredReasoningPrompt {
	return &StructuredReasoningPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StructuredReasoningPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("structured-reasoning",
		mcp.WithPromptDescription(
			"Instruct the assistant to declare, validate and commit reasoning state "+
				"with the reasoning context and memory tools.",
		),
		mcp.WithArgument("task",
			mcp.ArgumentDescription("Optional description of the reasoning task"),
		),
	)
}

// Handle processes the structured-reasoning prompt request.
func (p *StructuredReasoningPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := structuredReasoningText
	description := "Structured reasoning instructions"
	if task := req.Params.Arguments["task"]; task != "" {
		text += fmt.Sprintf(
			"\n\nThe task is: %s\nCall `search_memories` for related facts, then `declare_reasoning_context`.", task,
		)
		description = fmt.Sprintf("Structured reasoning: %s", task)
	}

	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}, nil
}
