package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/reasoning"
	"github.com/soon2moon/mindtools/internal/textutil"
)

const (
	defaultSearchCount  = 5
	searchPreviewLength = 200
)

// SearchTool handles the search_memories MCP tool.
type SearchTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(store *reasoning.Store, resolver *host.Resolver) *SearchTool {
	return &SearchTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for search_memories.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_memories",
		mcp.WithDescription(
			"Search the user's personal memory bank for previously stored facts, preferences, or context. "+
				"Matches query words against memory content; falls back to the most recent memories when nothing matches.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query to find related memories"),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum number of memories to return (default: 5, max: 20)"),
		),
		mcp.WithBoolean("show_memory_ids",
			mcp.Description("Include memory IDs in results, useful for update_memory/delete_memory (default: false)"),
		),
		withUserID(),
	)
}

// Handle processes the search_memories tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	query := req.GetString("query", "")
	count := intArg(req, "count", defaultSearchCount)

	call.Start(ctx, "searching", fmt.Sprintf("Searching memories for: '%s'", textutil.Preview(query, 30)))

	res, err := t.store.SearchMemories(ctx, call.UserID(), query, count)
	if err != nil {
		call.Done(ctx, "error", err.Error())
		return host.ErrorResult(err), nil
	}
	if res.Total == 0 {
		call.Done(ctx, "empty", "No memories stored yet.")
		return mcp.NewToolResultText("No memories found. Use `add_memory_enhanced` to store new facts."), nil
	}

	header := "## Memory Search Results"
	if res.Fallback {
		header += " (No exact matches, showing recent memories)"
	}
	lines := []string{
		header,
		fmt.Sprintf("**Query:** %s", query),
		fmt.Sprintf("**Found:** %d memories\n", len(res.Memories)),
	}
	for i, m := range res.Memories {
		content := textutil.Ellipsize(m.Content, searchPreviewLength)
		if call.Prefs.ShowMemoryIDs {
			lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, m.ID, content))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, content))
		}
	}

	call.Done(ctx, "found", fmt.Sprintf("Found %d relevant memories.", len(res.Memories)))
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
