// Package tools implements the MCP tool handlers for the task list.
//
// Each tool follows the same shape:
//   - A struct with its dependencies (todo.Store, host.Resolver) injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() resolves the caller, runs one store operation, and renders the result
//
// Domain failures are returned as tool errors carrying {"error": "..."},
// never as Go errors.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/todo"
)

// callerOptions are the parameters every task tool accepts.
func callerOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("user_id",
			mcp.Description("Caller identity. Defaults to the request's _meta.user_id or the server's default user."),
		),
		mcp.WithBoolean("show_timestamps",
			mcp.Description("Show started/completed timestamps in the rendered list (default: true)"),
		),
	}
}

// newTool builds a tool definition with the caller options appended.
func newTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append(opts, callerOptions()...)...)
}

// intArg extracts an integer argument, reporting whether it was present
// and numeric (JSON numbers arrive as float64).
func intArg(req mcp.CallToolRequest, key string) (int, bool) {
	switch v := req.GetArguments()[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// parseItems converts the raw todo_list argument into store items. It
// accepts a JSON array or a string holding one.
func parseItems(raw any) ([]todo.Item, error) {
	if s, ok := raw.(string); ok {
		var decoded []any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, host.Errorf(host.KindValidation, "'todo_list' must be an array of todo items")
		}
		raw = decoded
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, host.Errorf(host.KindValidation, "'todo_list' must be an array of todo items")
	}

	items := make([]todo.Item, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, host.Errorf(host.KindValidation, "todo_list[%d] must be an object", i)
		}
		var it todo.Item
		if v, ok := m["id"].(float64); ok {
			it.ID = int(v)
		}
		if v, ok := m["title"].(string); ok {
			it.Title = v
		}
		if v, ok := m["status"].(string); ok {
			it.Status = v
		}
		items = append(items, it)
	}
	return items, nil
}

// listText joins a message and the rendered list.
func listText(message string, tasks []todo.Task, showTimestamps bool) string {
	return fmt.Sprintf("%s\n\n%s", message, todo.Render(tasks, showTimestamps))
}
