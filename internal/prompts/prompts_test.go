package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if len(r.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(r.Messages))
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", r.Messages[0].Content)
	}
	return tc.Text
}

func TestTaskTrackingPrompt(t *testing.T) {
	p := NewTaskTrackingPrompt()
	if got := p.Definition().Name; got != "task-tracking" {
		t.Errorf("Name = %q", got)
	}

	r, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := promptText(t, r)
	if !strings.HasPrefix(text, "<taskTracking>") || !strings.HasSuffix(text, "</taskTracking>") {
		t.Errorf("unexpected text: %q", text)
	}

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"task": "ship the release"}
	r, err = p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(promptText(t, r), "ship the release") {
		t.Error("task argument not included")
	}
}

func TestStructuredReasoningPrompt(t *testing.T) {
	p := NewStructuredReasoningPrompt()
	if got := p.Definition().Name; got != "structured-reasoning" {
		t.Errorf("Name = %q", got)
	}

	r, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(promptText(t, r), "MANDATORY WORKFLOW") {
		t.Error("workflow missing")
	}

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"task": "pick colors"}
	r, err = p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if r.Description != "Structured reasoning: pick colors" {
		t.Errorf("Description = %q", r.Description)
	}
}
