// Package prompts implements MCP prompt handlers carrying the usage
// instructions for the task list and structured reasoning tools.
//
// MCP prompts are user-triggered workflows (like slash commands). The user
// picks one and its text is injected into the conversation, telling the AI
// how to drive the corresponding tools.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const taskTrackingText = `<taskTracking>
Utilize the manage_todo_list tool extensively to organize work and provide visibility
into your progress. This is essential for planning and ensures important steps aren't forgotten.

Break complex work into logical, actionable steps that can be tracked and verified.
Update task status consistently throughout execution:
- Mark tasks as in-progress when you begin working on them
- Mark tasks as completed immediately after finishing each one

Task tracking is valuable for:
- Multi-step work requiring careful sequencing
- Breaking down ambiguous or complex requests
- Maintaining checkpoints for feedback and validation
- When users provide multiple requests or numbered tasks
</taskTracking>`

// TaskTrackingPrompt handles the task-tracking MCP prompt.
type TaskTrackingPrompt struct{}

// NewTaskTrackingPrompt creates a TaskTrackingPrompt.
func NewTaskTrackingPrompt() *TaskTrackingPrompt {
	return &TaskTrackingPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TaskTrackingPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("task-tracking",
		mcp.WithPromptDescription(
			"Instruct the assistant to plan and track multi-step work with the todo list tools.",
		),
		mcp.WithArgument("task",
			mcp.ArgumentDescription("Optional description of the work to break down"),
		),
	)
}

// Handle processes the task-tracking prompt request.
func (p *TaskTrackingPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := taskTrackingText
	if task := req.Params.Arguments["task"]; task != "" {
		text += fmt.Sprintf(
			"\n\nStart by calling `manage_todo_list` with a breakdown of this work:\n%s", task,
		)
	}

	return &mcp.GetPromptResult{
		Description: "Task tracking instructions",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}, nil
}
