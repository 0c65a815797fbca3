// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the stores and injects them into
// the tools, prompts and resources that depend on them. No business logic
// lives here, only wiring.
package server

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/soon2moon/mindtools/internal/config"
	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/memory"
	"github.com/soon2moon/mindtools/internal/memtools"
	"github.com/soon2moon/mindtools/internal/prompts"
	"github.com/soon2moon/mindtools/internal/reasoning"
	"github.com/soon2moon/mindtools/internal/resources"
	"github.com/soon2moon/mindtools/internal/todo"
	"github.com/soon2moon/mindtools/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// openMemory opens the memory backend. Tests replace it to simulate a
// backend that fails to open.
var openMemory = memory.New

// New creates and configures the MCP server with all tools, prompts and
// resources registered.
//
// The returned cleanup function closes the memory database and must be
// called on shutdown. It is always non-nil and safe to call even if the
// memory backend failed to open.
func New(cfg *config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	s := server.NewMCPServer(
		"mindtools",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithToolHandlerMiddleware(loggingMiddleware(logger)),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	resolver := host.NewResolver(cfg.DefaultUserID, host.NewNotificationSink(logger))

	// --- Task list ---

	todoStore := todo.NewStore(todo.Config{
		MaxTodos:             cfg.MaxTodos,
		AutoCleanupCompleted: cfg.AutoCleanupCompleted,
	})
	registerTodoTools(s, todoStore, resolver)

	// --- Memory backend ---
	//
	// The reasoning tools keep working without memory; memory operations
	// then report the feature as unavailable.

	cleanup := noop
	var mem reasoning.MemoryStore
	memStore, err := openMemory(memory.Config{DataDir: cfg.DataDir})
	if err != nil {
		logger.Warn("memory subsystem disabled", zap.String("data_dir", cfg.DataDir), zap.Error(err))
	} else {
		mem = memStore
		cleanup = func() {
			if err := memStore.Close(); err != nil {
				logger.Warn("memory store close", zap.Error(err))
			}
		}
	}

	reasoningStore := reasoning.NewStore(reasoning.Config{
		EnableMemoryOps:      cfg.EnableMemoryOps,
		MaxMemoriesPerSearch: cfg.MaxMemoriesPerSearch,
	}, mem)
	registerReasoningTools(s, reasoningStore, resolver)

	// --- Prompts ---

	taskTracking := prompts.NewTaskTrackingPrompt()
	s.AddPrompt(taskTracking.Definition(), taskTracking.Handle)

	structuredReasoning := prompts.NewStructuredReasoningPrompt()
	s.AddPrompt(structuredReasoning.Definition(), structuredReasoning.Handle)

	// --- Resources ---

	resourceHandler := resources.NewHandler(cfg, reasoningStore.MemoryAvailable)
	s.AddResource(resourceHandler.ConfigResource(), resourceHandler.HandleConfig)

	logger.Info("mindtools server ready",
		zap.String("version", Version),
		zap.Int("max_todos", cfg.MaxTodos),
		zap.Bool("memory_available", reasoningStore.MemoryAvailable()),
		zap.Bool("memory_ops_enabled", cfg.EnableMemoryOps),
	)
	return s, cleanup, nil
}

// noop is the cleanup used when there is nothing to close.
func noop() {}

// registerTodoTools registers the six task list tools.
func registerTodoTools(s *server.MCPServer, store *todo.Store, resolver *host.Resolver) {
	manage := tools.NewManageTool(store, resolver)
	s.AddTool(manage.Definition(), manage.Handle)

	get := tools.NewGetTool(store, resolver)
	s.AddTool(get.Definition(), get.Handle)

	add := tools.NewAddTool(store, resolver)
	s.AddTool(add.Definition(), add.Handle)

	update := tools.NewUpdateTool(store, resolver)
	s.AddTool(update.Definition(), update.Handle)

	clearCompleted := tools.NewClearCompletedTool(store, resolver)
	s.AddTool(clearCompleted.Definition(), clearCompleted.Handle)

	reset := tools.NewResetTool(store, resolver)
	s.AddTool(reset.Definition(), reset.Handle)
}

// registerReasoningTools registers the ten reasoning context and memory tools.
func registerReasoningTools(s *server.MCPServer, store *reasoning.Store, resolver *host.Resolver) {
	// --- Reasoning context ---
	declare := memtools.NewDeclareTool(store, resolver)
	s.AddTool(declare.Definition(), declare.Handle)

	validate := memtools.NewValidateTool(store, resolver)
	s.AddTool(validate.Definition(), validate.Handle)

	updateEntity := memtools.NewUpdateEntityTool(store, resolver)
	s.AddTool(updateEntity.Definition(), updateEntity.Handle)

	clearContext := memtools.NewClearContextTool(store, resolver)
	s.AddTool(clearContext.Definition(), clearContext.Handle)

	// --- Memory bank ---
	search := memtools.NewSearchTool(store, resolver)
	s.AddTool(search.Definition(), search.Handle)

	add := memtools.NewAddTool(store, resolver)
	s.AddTool(add.Definition(), add.Handle)

	update := memtools.NewUpdateTool(store, resolver)
	s.AddTool(update.Definition(), update.Handle)

	del := memtools.NewDeleteTool(store, resolver)
	s.AddTool(del.Definition(), del.Handle)

	recall := memtools.NewRecallTool(store, resolver)
	s.AddTool(recall.Definition(), recall.Handle)

	commit := memtools.NewCommitTool(store, resolver)
	s.AddTool(commit.Definition(), commit.Handle)
}

// loggingMiddleware logs every tool call with its duration and outcome.
func loggingMiddleware(logger *zap.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)
			fields := []zap.Field{
				zap.String("tool", req.Params.Name),
				zap.Duration("duration", time.Since(start)),
			}
			switch {
			case err != nil:
				logger.Error("tool call failed", append(fields, zap.Error(err))...)
			case result != nil && result.IsError:
				logger.Warn("tool call returned error", fields...)
			default:
				logger.Debug("tool call", fields...)
			}
			return result, err
		}
	}
}

// serverInstructions returns the system instructions that tell the AI
// how to use the tools.
func serverInstructions() string {
	return `You have access to mindtools: a per-user task list, a structured reasoning
context, and a long-term memory bank.

## Task list
Use manage_todo_list to plan multi-step work. Send the COMPLETE list every time;
it replaces what is stored. Keep at most one task in-progress, mark it in-progress
when you start and completed as soon as it is done. Use update_single_todo or
add_todo for single changes, and get_todo_list to show progress.

## Structured reasoning
1. DECLARE: call declare_reasoning_context with every entity you will reference
2. VALIDATE: call validate_context before relying on an entity
3. EXECUTE: update values with update_entity as the reasoning progresses
4. COMMIT: save conclusions with commit_context_to_memory or add_memory_enhanced

## Memory bank
Memories persist across conversations. Search with search_memories before asking
the user for facts they may have shared already. Use recall_all_memories to list
IDs for update_memory and delete_memory.

Every tool accepts an optional user_id. State is kept separately per user.`
}
