package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/todo"
)

// GetTool handles the get_todo_list MCP tool.
type GetTool struct {
	store    *todo.Store
	resolver *host.Resolver
}

// NewGetTool creates a GetTool.
func NewGetTool(store *todo.Store, resolver *host.Resolver) *GetTool {
	return &GetTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for get_todo_list.
func (t *GetTool) Definition() mcp.Tool {
	return newTool("get_todo_list",
		mcp.WithDescription(
			"Retrieve the current todo list to check progress and plan next steps. "+
				"Shows pending, in-progress and completed tasks.",
		),
	)
}

// Handle processes the get_todo_list tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Start(ctx, "fetching", "Retrieving task list...")

	tasks, err := t.store.FetchAll(call.UserID())
	if err != nil {
		return host.ErrorResult(err), nil
	}
	if len(tasks) == 0 {
		call.Done(ctx, "empty", todo.EmptyList)
		return mcp.NewToolResultText(todo.EmptyList + " Use manage_todo_list to create tasks."), nil
	}

	c := todo.Count(tasks)
	call.Done(ctx, "retrieved", fmt.Sprintf("Retrieved %d tasks (%d completed)", c.Total, c.Completed))
	return mcp.NewToolResultText(todo.Render(tasks, call.Prefs.ShowTimestamps)), nil
}
