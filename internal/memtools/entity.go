package memtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/reasoning"
)

// UpdateEntityTool handles the update_entity MCP tool.
type UpdateEntityTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewUpdateEntityTool creates an UpdateEntityTool.
func NewUpdateEntityTool(store *reasoning.Store, resolver *host.Resolver) *UpdateEntityTool {
	return &UpdateEntityTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for update_entity.
func (t *UpdateEntityTool) Definition() mcp.Tool {
	return mcp.NewTool("update_entity",
		mcp.WithDescription(
			"Update the value of a previously declared entity to track state changes during reasoning. "+
				"The entity must have been declared with declare_reasoning_context.",
		),
		mcp.WithString("entity_name",
			mcp.Required(),
			mcp.Description("Name of the entity to update"),
		),
		withAnyValue("new_value", "New value for the entity (any JSON value)"),
		withUserID(),
	)
}

// Handle processes the update_entity tool call.
func (t *UpdateEntityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	name := req.GetString("entity_name", "")
	if name == "" {
		return host.ErrorResult(host.Errorf(host.KindValidation, "'entity_name' is required")), nil
	}
	value := req.GetArguments()["new_value"]

	call.Start(ctx, "updating", fmt.Sprintf("Updating entity '%s'...", name))

	res, err := t.store.UpdateEntity(call.UserID(), name, value)
	if err != nil {
		call.Done(ctx, "not_found", fmt.Sprintf("Entity '%s' is not declared.", name))
		return host.ErrorResult(err), nil
	}

	call.Done(ctx, "updated", fmt.Sprintf("Entity '%s' updated.", name))
	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ **Entity Updated**\n**%s** (%s)\n  Old: %s\n  New: %s\n  Modifications: %d",
		res.Name, res.Type,
		reasoning.FormatValueShort(res.OldValue, listValueLength),
		reasoning.FormatValueShort(res.NewValue, listValueLength),
		res.ModificationCount,
	)), nil
}

// ClearContextTool handles the clear_context MCP tool.
type ClearContextTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewClearContextTool creates a ClearContextTool.
func NewClearContextTool(store *reasoning.Store, resolver *host.Resolver) *ClearContextTool {
	return &ClearContextTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for clear_context.
func (t *ClearContextTool) Definition() mcp.Tool {
	return mcp.NewTool("clear_context",
		mcp.WithDescription("Clear the current reasoning context and start fresh. Use when switching to a different task."),
		withUserID(),
	)
}

// Handle processes the clear_context tool call.
func (t *ClearContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Start(ctx, "clearing", "Clearing reasoning context...")

	n, err := t.store.ClearContext(call.UserID())
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Done(ctx, "cleared", fmt.Sprintf("Context cleared (%d entities removed).", n))
	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Reasoning context cleared. %d entities removed.\n\nUse `declare_reasoning_context` to start a new task.", n,
	)), nil
}
