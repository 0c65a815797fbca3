package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/reasoning"
)

// RecallTool handles the recall_all_memories MCP tool.
type RecallTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewRecallTool creates a RecallTool.
func NewRecallTool(store *reasoning.Store, resolver *host.Resolver) *RecallTool {
	return &RecallTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for recall_all_memories.
func (t *RecallTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_all_memories",
		mcp.WithDescription(
			"Retrieve ALL stored memories from the user's memory bank, oldest first, "+
				"as a numbered list with IDs for update_memory and delete_memory.",
		),
		withUserID(),
	)
}

// Handle processes the recall_all_memories tool call.
func (t *RecallTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Start(ctx, "recalling", "Retrieving all memories...")

	all, err := t.store.RecallAll(ctx, call.UserID())
	if err != nil {
		call.Done(ctx, "error", err.Error())
		return host.ErrorResult(err), nil
	}
	if len(all) == 0 {
		call.Done(ctx, "empty", "No memories stored.")
		return mcp.NewToolResultText("No memories stored yet. Use `add_memory_enhanced` to store new facts."), nil
	}

	var b strings.Builder
	b.WriteString("## All Stored Memories\n")
	fmt.Fprintf(&b, "**Total:** %d memories\n\n", len(all))
	for i, m := range all {
		fmt.Fprintf(&b, "%d. **[%s]** %s\n", i+1, m.ID, m.Content)
	}
	b.WriteString("\n_Use memory IDs with `update_memory` or `delete_memory` to manage entries._")

	call.Done(ctx, "recalled", fmt.Sprintf("Retrieved %d memories.", len(all)))
	return mcp.NewToolResultText(b.String()), nil
}
