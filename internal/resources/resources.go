// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (mindtools://...) following MCP conventions.
package resources

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/config"
	"github.com/soon2moon/mindtools/internal/reasoning"
)

// ConfigURI addresses the effective limits resource.
const ConfigURI = "mindtools://config"

// Limits is the JSON body of the config resource.
type Limits struct {
	MaxTodos             int  `json:"max_todos"`
	AutoCleanupCompleted bool `json:"auto_cleanup_completed"`
	EnableMemoryOps      bool `json:"enable_memory_ops"`
	MemoryAvailable      bool `json:"memory_available"`
	MaxMemoriesPerSearch int  `json:"max_memories_per_search"`
	MaxSearchCount       int  `json:"max_search_count"`
	MaxMemoryLength      int  `json:"max_memory_length"`
}

// Handler serves the resource endpoints.
type Handler struct {
	cfg             *config.Config
	memoryAvailable func() bool
}

// NewHandler creates a resource Handler. memoryAvailable reports whether
// the memory backend opened; nil means it did not.
func NewHandler(cfg *config.Config, memoryAvailable func() bool) *Handler {
	if memoryAvailable == nil {
		memoryAvailable = func() bool { return false }
	}
	return &Handler{cfg: cfg, memoryAvailable: memoryAvailable}
}

// ConfigResource returns the MCP resource definition for the effective limits.
func (h *Handler) ConfigResource() mcp.Resource {
	return mcp.NewResource(
		ConfigURI,
		"Mindtools Limits",
		mcp.WithResourceDescription("Effective task list and memory limits of this server"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleConfig returns the effective limits as JSON.
func (h *Handler) HandleConfig(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	perSearch := h.cfg.MaxMemoriesPerSearch
	if perSearch > reasoning.MaxSearchCount {
		perSearch = reasoning.MaxSearchCount
	}
	return jsonResource(req.Params.URI, Limits{
		MaxTodos:             h.cfg.MaxTodos,
		AutoCleanupCompleted: h.cfg.AutoCleanupCompleted,
		EnableMemoryOps:      h.cfg.EnableMemoryOps,
		MemoryAvailable:      h.memoryAvailable(),
		MaxMemoriesPerSearch: perSearch,
		MaxSearchCount:       reasoning.MaxSearchCount,
		MaxMemoryLength:      reasoning.MaxContentLength,
	})
}
