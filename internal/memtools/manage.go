package memtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/reasoning"
	"github.com/soon2moon/mindtools/internal/textutil"
)

const contentPreviewLength = 80

// failStatus picks the terminal progress status for a failed memory call.
func failStatus(err error) string {
	if host.HasKind(err, host.KindNotFound) {
		return "not_found"
	}
	if host.HasKind(err, host.KindBackendFailure) {
		return "failed"
	}
	return "error"
}

// ─── add_memory_enhanced ─────────────────────────────────────────────────────

// AddTool handles the add_memory_enhanced MCP tool.
type AddTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewAddTool creates an AddTool.
func NewAddTool(store *reasoning.Store, resolver *host.Resolver) *AddTool {
	return &AddTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for add_memory_enhanced.
func (t *AddTool) Definition() mcp.Tool {
	return mcp.NewTool("add_memory_enhanced",
		mcp.WithDescription(
			"Store a new fact in the user's personal memory bank so it persists across conversations. "+
				"Be specific and concise, include context (e.g. 'User prefers Python for backend development'), "+
				"and avoid temporary or session-specific information.",
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The fact or information to remember (at least 3 characters, at most 1000 are kept)"),
		),
		mcp.WithString("category",
			mcp.Description("Optional category prefix (e.g. preference, project, skill)"),
		),
		withUserID(),
	)
}

// Handle processes the add_memory_enhanced tool call.
func (t *AddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	content := req.GetString("content", "")
	category := req.GetString("category", "")

	call.Start(ctx, "storing", "Storing new memory...")

	rec, err := t.store.AddMemory(ctx, call.UserID(), content, category)
	if err != nil {
		call.Done(ctx, failStatus(err), err.Error())
		return host.ErrorResult(err), nil
	}

	call.Done(ctx, "stored", "Memory stored successfully.")
	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ **Memory Stored**\n**Content:** %s\n**Memory ID:** %s\n\nUse `search_memories` to retrieve this later.",
		textutil.Preview(rec.Content, contentPreviewLength), rec.ID,
	)), nil
}

// ─── update_memory ───────────────────────────────────────────────────────────

// UpdateTool handles the update_memory MCP tool.
type UpdateTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewUpdateTool creates an UpdateTool.
func NewUpdateTool(store *reasoning.Store, resolver *host.Resolver) *UpdateTool {
	return &UpdateTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for update_memory.
func (t *UpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("update_memory",
		mcp.WithDescription(
			"Update an existing memory with new content to correct or refresh stored information. "+
				"Get the memory_id from recall_all_memories or from search_memories with show_memory_ids.",
		),
		mcp.WithString("memory_id",
			mcp.Required(),
			mcp.Description("The unique ID of the memory to update"),
		),
		mcp.WithString("new_content",
			mcp.Required(),
			mcp.Description("The updated content for the memory"),
		),
		withUserID(),
	)
}

// Handle processes the update_memory tool call.
func (t *UpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	id := req.GetString("memory_id", "")
	content := req.GetString("new_content", "")

	call.Start(ctx, "updating", fmt.Sprintf("Updating memory %s...", shortID(id)))

	rec, err := t.store.UpdateMemory(ctx, call.UserID(), id, content)
	if err != nil {
		call.Done(ctx, failStatus(err), err.Error())
		return host.ErrorResult(err), nil
	}

	call.Done(ctx, "updated", "Memory updated successfully.")
	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ **Memory Updated**\n**ID:** %s\n**New Content:** %s",
		rec.ID, textutil.Preview(rec.Content, contentPreviewLength),
	)), nil
}

// ─── delete_memory ───────────────────────────────────────────────────────────

// DeleteTool handles the delete_memory MCP tool.
type DeleteTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(store *reasoning.Store, resolver *host.Resolver) *DeleteTool {
	return &DeleteTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for delete_memory.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_memory",
		mcp.WithDescription("Delete a memory from the user's memory bank. Use to remove outdated, incorrect, or unwanted memories."),
		mcp.WithString("memory_id",
			mcp.Required(),
			mcp.Description("The unique ID of the memory to delete"),
		),
		withUserID(),
	)
}

// Handle processes the delete_memory tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	id := req.GetString("memory_id", "")

	call.Start(ctx, "deleting", fmt.Sprintf("Deleting memory %s...", shortID(id)))

	if err := t.store.DeleteMemory(ctx, call.UserID(), id); err != nil {
		call.Done(ctx, failStatus(err), err.Error())
		return host.ErrorResult(err), nil
	}

	call.Done(ctx, "deleted", "Memory deleted successfully.")
	return mcp.NewToolResultText(fmt.Sprintf("✅ **Memory Deleted**\n**ID:** %s", id)), nil
}
