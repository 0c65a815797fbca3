package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/textutil"
	"github.com/soon2moon/mindtools/internal/todo"
)

// AddTool handles the add_todo MCP tool.
type AddTool struct {
	store    *todo.Store
	resolver *host.Resolver
}

// NewAddTool creates an AddTool.
func NewAddTool(store *todo.Store, resolver *host.Resolver) *AddTool {
	return &AddTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for add_todo.
func (t *AddTool) Definition() mcp.Tool {
	return newTool("add_todo",
		mcp.WithDescription(
			"Add a new todo item to the list. It gets the next available ID and starts as not-started.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Concise action-oriented task description (3-7 words recommended)"),
		),
	)
}

// Handle processes the add_todo tool call.
func (t *AddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	title := req.GetString("title", "")

	call.Start(ctx, "adding", "Adding new task...")

	res, err := t.store.AddOne(call.UserID(), title)
	if err != nil {
		call.Done(ctx, "limit_reached", err.Error())
		return host.ErrorResult(err), nil
	}

	message := fmt.Sprintf("Added task %d: '%s'", res.Task.ID, textutil.Preview(res.Task.Title, 50))
	call.Done(ctx, "added", message)
	return mcp.NewToolResultText(listText(message, res.Tasks, call.Prefs.ShowTimestamps)), nil
}
