package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/reasoning"
)

// DeclareTool handles the declare_reasoning_context MCP tool.
type DeclareTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewDeclareTool creates a DeclareTool.
func NewDeclareTool(store *reasoning.Store, resolver *host.Resolver) *DeclareTool {
	return &DeclareTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for declare_reasoning_context.
func (t *DeclareTool) Definition() mcp.Tool {
	return mcp.NewTool("declare_reasoning_context",
		mcp.WithDescription(
			"MANDATORY: declare every entity or variable you will reference BEFORE starting a complex reasoning task. "+
				"Call this FIRST. Re-declaring a name resets it. "+
				`Entity shape: {"name": "unique_identifier", "type": "string|number|boolean|object|array|reference", "value": <initial>, "description": "..."}`,
		),
		mcp.WithArray("entities",
			mcp.Required(),
			mcp.Description(`Entity declarations. Example: [{"name": "board", "type": "reference", "value": null, "description": "The main board container"}, {"name": "primary_color", "type": "string", "value": "#1976D2", "description": "Primary brand color"}]`),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithString("task_description",
			mcp.Required(),
			mcp.Description("Brief description of the reasoning task being performed"),
		),
		withUserID(),
	)
}

// Handle processes the declare_reasoning_context tool call.
func (t *DeclareTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	list, ok, err := listArg(req, "entities")
	if err != nil {
		return host.ErrorResult(err), nil
	}
	if !ok {
		return host.ErrorResult(host.Errorf(host.KindValidation, "'entities' is required")), nil
	}
	task := req.GetString("task_description", "")

	call.Start(ctx, "declaring", fmt.Sprintf("Declaring %d entities for reasoning context...", len(list)))

	res, err := t.store.Declare(call.UserID(), declarations(list), task)
	if err != nil {
		return host.ErrorResult(err), nil
	}

	status := fmt.Sprintf("Declared %d entities", len(res.Declared))
	if len(res.Errors) > 0 {
		status += fmt.Sprintf(" (%d errors)", len(res.Errors))
	}
	call.Done(ctx, "declared", status)

	lines := []string{
		"## Reasoning Context Declared",
		fmt.Sprintf("**Task:** %s", res.TaskDescription),
		fmt.Sprintf("**Declared Entities (%d):**", len(res.Declared)),
	}
	for _, e := range res.Declared {
		line := fmt.Sprintf("  • %s: %s", e.Name, e.Type)
		if e.Value != nil {
			line += " = " + reasoning.FormatValue(e.Value)
		}
		lines = append(lines, line)
	}
	if len(res.Errors) > 0 {
		lines = append(lines, fmt.Sprintf("\n**⚠️ Declaration Errors (%d):**", len(res.Errors)))
		for _, e := range res.Errors {
			lines = append(lines, "  • "+e)
		}
	}
	lines = append(lines,
		"\n✅ Context ready. You may now proceed with reasoning.",
		"💡 Use `update_entity` to modify values, `validate_context` to check state.",
	)
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
