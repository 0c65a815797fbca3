package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/todo"
)

// UpdateTool handles the update_single_todo MCP tool.
type UpdateTool struct {
	store    *todo.Store
	resolver *host.Resolver
}

// NewUpdateTool creates an UpdateTool.
func NewUpdateTool(store *todo.Store, resolver *host.Resolver) *UpdateTool {
	return &UpdateTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for update_single_todo.
func (t *UpdateTool) Definition() mcp.Tool {
	return newTool("update_single_todo",
		mcp.WithDescription(
			"Update a single todo item's status or title without resending the entire list. "+
				"Mark a task in-progress before starting it and completed right after finishing.",
		),
		mcp.WithNumber("todo_id",
			mcp.Required(),
			mcp.Description("The ID of the todo item to update"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status: not-started, in-progress, or completed"),
			mcp.Enum("not-started", "in-progress", "completed"),
		),
		mcp.WithString("title",
			mcp.Description("Optional new title for the todo"),
		),
	)
}

// Handle processes the update_single_todo tool call.
func (t *UpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	id, ok := intArg(req, "todo_id")
	if !ok {
		return host.ErrorResult(host.Errorf(host.KindValidation, "'todo_id' is required")), nil
	}
	status := req.GetString("status", "")
	var title *string
	if v := req.GetString("title", ""); v != "" {
		title = &v
	}

	call.Start(ctx, "updating", fmt.Sprintf("Updating task %d...", id))

	res, err := t.store.UpdateOne(call.UserID(), id, status, title)
	if err != nil {
		code := "error"
		if host.HasKind(err, host.KindNotFound) {
			code = "not_found"
		}
		call.Done(ctx, code, err.Error())
		return host.ErrorResult(err), nil
	}

	message := fmt.Sprintf("Task %d updated (%s).", id, res.Transition())
	if res.InProgress > 1 {
		call.Warn(ctx, fmt.Sprintf("Warning: %d tasks now in-progress.", res.InProgress))
		message += fmt.Sprintf(" ⚠️ Warning: %d tasks now in-progress.", res.InProgress)
	}

	call.Done(ctx, "updated", message)
	return mcp.NewToolResultText(listText(message, res.Tasks, call.Prefs.ShowTimestamps)), nil
}
