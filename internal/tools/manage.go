package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/todo"
)

// ManageTool handles the manage_todo_list MCP tool.
type ManageTool struct {
	store    *todo.Store
	resolver *host.Resolver
}

// NewManageTool creates a ManageTool.
func NewManageTool(store *todo.Store, resolver *host.Resolver) *ManageTool {
	return &ManageTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for manage_todo_list.
func (t *ManageTool) Definition() mcp.Tool {
	return newTool("manage_todo_list",
		mcp.WithDescription(
			"Manage a structured todo list to track progress and plan multi-step work. "+
				"Send the COMPLETE list every time: items not included are removed. "+
				"Mark ONE todo in-progress before starting it and mark it completed IMMEDIATELY after finishing. "+
				"Do not batch completions.",
		),
		mcp.WithArray("todo_list",
			mcp.Required(),
			mcp.Description(`Complete array of all todo items. Each item: id (number), title (string, 3-7 words), status (not-started|in-progress|completed). Example: [{"id": 1, "title": "Query API docs", "status": "completed"}, {"id": 2, "title": "Create board", "status": "in-progress"}]`),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":     map[string]any{"type": "number"},
					"title":  map[string]any{"type": "string"},
					"status": map[string]any{"type": "string", "enum": []string{"not-started", "in-progress", "completed"}},
				},
			}),
		),
	)
}

// Handle processes the manage_todo_list tool call.
func (t *ManageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	items, err := parseItems(req.GetArguments()["todo_list"])
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Start(ctx, "updating", "Updating task list...")

	res, err := t.store.ReplaceAll(call.UserID(), items)
	for _, w := range res.Warnings {
		call.Warn(ctx, w)
	}
	if err != nil {
		call.Done(ctx, "error", err.Error())
		return host.ErrorResult(err), nil
	}
	if res.Evicted > 0 {
		call.Warn(ctx, fmt.Sprintf("Auto-cleanup removed %d completed tasks.", res.Evicted))
	}

	call.Done(ctx, "updated", todo.Summary(todo.Count(res.Tasks)))
	return mcp.NewToolResultText(todo.Render(res.Tasks, call.Prefs.ShowTimestamps)), nil
}
