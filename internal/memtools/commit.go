package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/reasoning"
)

// CommitTool handles the commit_context_to_memory MCP tool.
type CommitTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewCommitTool creates a CommitTool.
func NewCommitTool(store *reasoning.Store, resolver *host.Resolver) *CommitTool {
	return &CommitTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for commit_context_to_memory.
func (t *CommitTool) Definition() mcp.Tool {
	return mcp.NewTool("commit_context_to_memory",
		mcp.WithDescription(
			"Save the current reasoning context, or selected entities, to persistent memory as one record. "+
				"Use at the end of a reasoning task to preserve important conclusions.",
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("A brief summary of what was accomplished"),
		),
		mcp.WithArray("entities_to_save",
			mcp.Description("Entity names to save (omit to save every entity with a non-null value)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		withUserID(),
	)
}

// Handle processes the commit_context_to_memory tool call.
func (t *CommitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	summary := req.GetString("summary", "")
	names, err := stringsArg(req, "entities_to_save")
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Start(ctx, "committing", "Saving context to memory...")

	res, err := t.store.Commit(ctx, call.UserID(), summary, names)
	if err != nil {
		call.Done(ctx, failStatus(err), err.Error())
		return host.ErrorResult(err), nil
	}
	if res.NothingToSave {
		call.Done(ctx, "empty", "No entities with values to save.")
		return mcp.NewToolResultText("No entities with values to save."), nil
	}

	call.Done(ctx, "committed", fmt.Sprintf("Saved %d entities to memory.", len(res.Saved)))
	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ **Context Committed to Memory**\n**Summary:** %s\n**Entities Saved:** %d\n**Memory ID:** %s\n\nSaved: %s",
		res.Summary, len(res.Saved), res.Record.ID, strings.Join(res.Saved, ", "),
	)), nil
}
