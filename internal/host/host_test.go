package host

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestResolve_UserIDArgument(t *testing.T) {
	r := NewResolver("", nil)
	call, err := r.Resolve(makeReq(map[string]interface{}{"user_id": "u1"}))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if call.UserID() != "u1" {
		t.Errorf("UserID = %q, want u1", call.UserID())
	}
	if !call.Prefs.ShowTimestamps || call.Prefs.ShowMemoryIDs {
		t.Errorf("prefs = %+v, want defaults", call.Prefs)
	}
}

func TestResolve_MetaUserIDAndPreferences(t *testing.T) {
	r := NewResolver("", nil)
	req := makeReq(map[string]interface{}{})
	req.Params.Meta = &mcp.Meta{AdditionalFields: map[string]any{
		"user_id":     "meta-user",
		"preferences": map[string]any{"show_memory_ids": true, "show_timestamps": false},
	}}

	call, err := r.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if call.UserID() != "meta-user" {
		t.Errorf("UserID = %q, want meta-user", call.UserID())
	}
	if call.Prefs.ShowTimestamps || !call.Prefs.ShowMemoryIDs {
		t.Errorf("prefs = %+v, want meta overrides", call.Prefs)
	}
}

func TestResolve_ArgumentsOverrideMeta(t *testing.T) {
	r := NewResolver("", nil)
	req := makeReq(map[string]interface{}{"user_id": "arg-user", "show_timestamps": true})
	req.Params.Meta = &mcp.Meta{AdditionalFields: map[string]any{
		"user_id":     "meta-user",
		"preferences": map[string]any{"show_timestamps": false},
	}}

	call, err := r.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if call.UserID() != "arg-user" {
		t.Errorf("UserID = %q, want arg-user", call.UserID())
	}
	if !call.Prefs.ShowTimestamps {
		t.Error("argument show_timestamps should win over meta")
	}
}

func TestResolve_DefaultUser(t *testing.T) {
	r := NewResolver("local", nil)
	call, err := r.Resolve(makeReq(nil))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if call.UserID() != "local" {
		t.Errorf("UserID = %q, want local", call.UserID())
	}
}

func TestResolve_MissingIdentity(t *testing.T) {
	r := NewResolver("", nil)
	_, err := r.Resolve(makeReq(map[string]interface{}{"user_id": "   "}))
	if !HasKind(err, KindMissingIdentity) {
		t.Fatalf("err = %v, want missing identity", err)
	}
}

func TestCall_EmitsEvents(t *testing.T) {
	var got []Event
	sink := SinkFunc(func(_ context.Context, ev Event) { got = append(got, ev) })
	call := Call{Identity: Identity{UserID: "u"}, Sink: sink}

	ctx := context.Background()
	call.Start(ctx, "updating", "Updating task list...")
	call.Warn(ctx, "careful")
	call.Done(ctx, "updated", "done")

	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	if got[0].Type != "status" || got[0].Data.Done {
		t.Errorf("start event = %+v", got[0])
	}
	if got[1].Data.Status != "warning" || got[1].Data.Done {
		t.Errorf("warn event = %+v", got[1])
	}
	if !got[2].Data.Done {
		t.Errorf("done event = %+v", got[2])
	}
}

func TestCall_NilSinkIsSafe(t *testing.T) {
	call := Call{}
	call.Start(context.Background(), "x", "y")
	call.Done(context.Background(), "x", "y")
}

func TestKindOf_Wrapped(t *testing.T) {
	base := Errorf(KindNotFound, "Todo with ID %d not found.", 7)
	wrapped := fmt.Errorf("outer: %w", base)

	if KindOf(wrapped) != KindNotFound {
		t.Errorf("KindOf = %q, want not_found", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("unclassified error should have empty kind")
	}
	if KindOf(nil) != "" {
		t.Error("nil error should have empty kind")
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, "Memory storage failed")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to cause")
	}
	if err.Kind != KindBackendFailure {
		t.Errorf("Kind = %q, want backend_failure", err.Kind)
	}
	if err.Error() != "Memory storage failed: disk full" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestErrorResult_JSONShape(t *testing.T) {
	res := ErrorResult(Errorf(KindValidation, `bad "status"`))
	if !res.IsError {
		t.Fatal("expected IsError")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", res.Content[0])
	}
	if !strings.HasPrefix(tc.Text, `{"error":`) || !strings.Contains(tc.Text, `bad \"status\"`) {
		t.Errorf("error JSON = %s", tc.Text)
	}
}
