package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/reasoning"
)

const (
	listValueLength = 50
	stampLayout     = "2006-01-02T15:04:05"
)

// ValidateTool handles the validate_context MCP tool.
type ValidateTool struct {
	store    *reasoning.Store
	resolver *host.Resolver
}

// NewValidateTool creates a ValidateTool.
func NewValidateTool(store *reasoning.Store, resolver *host.Resolver) *ValidateTool {
	return &ValidateTool{store: store, resolver: resolver}
}

// Definition returns the MCP tool definition for validate_context.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_context",
		mcp.WithDescription(
			"Validate that entities are declared before using them, catching undefined references early. "+
				"With entity_names, checks only those; without, returns the full context state.",
		),
		mcp.WithArray("entity_names",
			mcp.Description("Entity names to validate (omit to show all)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		withUserID(),
	)
}

// Handle processes the validate_context tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := t.resolver.Resolve(req)
	if err != nil {
		return host.ErrorResult(err), nil
	}
	names, err := stringsArg(req, "entity_names")
	if err != nil {
		return host.ErrorResult(err), nil
	}

	call.Start(ctx, "validating", "Validating reasoning context...")

	res, err := t.store.Validate(call.UserID(), names)
	if err != nil {
		return host.ErrorResult(err), nil
	}

	switch res.Outcome {
	case reasoning.OutcomeEmpty:
		call.Done(ctx, "empty", "No entities declared yet.")
		return mcp.NewToolResultText(
			"⚠️ **No reasoning context declared.**\n\n" +
				"You must call `declare_reasoning_context` before proceeding.\n" +
				"Declare all entities, variables, and references you will use.",
		), nil

	case reasoning.OutcomeFailed:
		call.Done(ctx, "invalid", fmt.Sprintf("%d undefined entities found!", len(res.Undefined)))
		undefined := make([]string, len(res.Undefined))
		for i, name := range res.Undefined {
			undefined[i] = fmt.Sprintf("  ❌ %s: UNDEFINED", name)
		}
		return mcp.NewToolResultText(
			"## ❌ Validation FAILED\n\n" +
				fmt.Sprintf("**Undefined Entities (%d):**\n", len(res.Undefined)) +
				strings.Join(undefined, "\n") +
				fmt.Sprintf("\n\n**Valid Entities (%d):**\n", len(res.Valid)) +
				strings.Join(validLines(res.Valid), "\n") +
				"\n\n⚠️ Declare missing entities before using them!",
		), nil

	case reasoning.OutcomePassed:
		call.Done(ctx, "valid", fmt.Sprintf("All %d entities validated.", len(res.Valid)))
		return mcp.NewToolResultText(
			"## ✅ Validation PASSED\n\n" +
				fmt.Sprintf("**All Requested Entities Valid (%d):**\n", len(res.Valid)) +
				strings.Join(validLines(res.Valid), "\n"),
		), nil
	}

	task := res.TaskDescription
	if task == "" {
		task = "Not specified"
	}
	lines := []string{
		"## Current Reasoning Context",
		fmt.Sprintf("**Task:** %s", task),
		fmt.Sprintf("**Declared at:** %s", res.DeclarationTime.Format(stampLayout)),
		fmt.Sprintf("**Last validated:** %s", res.LastValidated.Format(stampLayout)),
		fmt.Sprintf("\n**Declared Entities (%d):**", len(res.Entities)),
	}
	for _, e := range res.Entities {
		lines = append(lines, fmt.Sprintf("  • %s (%s): %s", e.Name, e.Type, reasoning.FormatValueShort(e.Value, listValueLength)))
		if e.Description != "" {
			lines = append(lines, fmt.Sprintf("    _%s_", e.Description))
		}
	}
	call.Done(ctx, "validated", fmt.Sprintf("Context has %d entities.", len(res.Entities)))
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func validLines(valid []reasoning.NamedEntity) []string {
	out := make([]string, len(valid))
	for i, e := range valid {
		out[i] = fmt.Sprintf("  ✅ %s: %s = %s", e.Name, e.Type, reasoning.FormatValue(e.Value))
	}
	return out
}
