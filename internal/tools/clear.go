package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/todo"
)

// ClearCompletedTool handles the clear_completed_todos MCP tool.
type ClearCompletedTool struct {
	store    *todo.Store
	resolver *host.Resolver
}

// NewClearCompletedTool creates a ClearCompletedTool.
func NewClearCompletedTool(store *todo.Store, resolver *host.Resolver) *ClearCompletedTool {
	return &ClearCompletedTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for clear_completed_todos.
func (t *ClearCompletedTool) Definition() mcp.Tool {
	return newTool("clear_completed_todos",
		mcp.WithDescription(
			"Remove all completed tasks from the todo list. Use after finishing a milestone.",
		),
	)
}

// Handle processes the clear_completed_todos tool call.
func (t *ClearCompletedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Start(ctx, "clearing", "Clearing completed tasks...")

	removed, remaining, err := t.store.ClearCompleted(call.UserID())
	if err != nil {
		return host.ErrorResult(err), nil
	}

	message := fmt.Sprintf("Cleared %d completed tasks. %d tasks remaining.", removed, remaining)
	call.Done(ctx, "cleared", message)
	return mcp.NewToolResultText(message), nil
}

// ResetTool handles the reset_todo_list MCP tool.
type ResetTool struct {
	store    *todo.Store
	resolver *host.Resolver
}

// NewResetTool creates a ResetTool.
func NewResetTool(store *todo.Store, resolver *host.Resolver) *ResetTool {
	return &ResetTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for reset_todo_list.
func (t *ResetTool) Definition() mcp.Tool {
	return newTool("reset_todo_list",
		mcp.WithDescription(
			"Clear all tasks and start with an empty todo list. Use when starting a completely new workflow.",
		),
	)
}

// Handle processes the reset_todo_list tool call.
func (t *ResetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Start(ctx, "resetting", "Resetting todo list...")

	n, err := t.store.ResetAll(call.UserID())
	if err != nil {
		return host.ErrorResult(err), nil
	}

	message := fmt.Sprintf("Todo list reset. Removed %d tasks. Ready for new workflow.", n)
	call.Done(ctx, "reset", message)
	return mcp.NewToolResultText(message), nil
}
