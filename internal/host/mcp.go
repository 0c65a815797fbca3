package host

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Resolver builds a Call from an MCP tool request.
//
// The user id is taken from the "user_id" argument, then from the request's
// _meta.user_id, then from DefaultUserID. Preferences come from the
// "show_timestamps" / "show_memory_ids" arguments or a _meta.preferences
// object; arguments win.
type Resolver struct {
	DefaultUserID string
	Sink          ProgressSink
}

// NewResolver creates a Resolver that reports progress to sink.
func NewResolver(defaultUserID string, sink ProgressSink) *Resolver {
	return &Resolver{DefaultUserID: defaultUserID, Sink: sink}
}

// Resolve returns the Call for req, or ErrMissingIdentity when no user id
// can be found.
func (r *Resolver) Resolve(req mcp.CallToolRequest) (Call, error) {
	var meta map[string]any
	if req.Params.Meta != nil {
		meta = req.Params.Meta.AdditionalFields
	}

	userID := strings.TrimSpace(req.GetString("user_id", ""))
	if userID == "" {
		if v, ok := meta["user_id"].(string); ok {
			userID = strings.TrimSpace(v)
		}
	}
	if userID == "" {
		userID = r.DefaultUserID
	}
	if userID == "" {
		return Call{}, ErrMissingIdentity
	}

	prefs := DefaultPreferences()
	if p, ok := meta["preferences"].(map[string]any); ok {
		if v, ok := p["show_timestamps"].(bool); ok {
			prefs.ShowTimestamps = v
		}
		if v, ok := p["show_memory_ids"].(bool); ok {
			prefs.ShowMemoryIDs = v
		}
	}
	args := req.GetArguments()
	if v, ok := args["show_timestamps"].(bool); ok {
		prefs.ShowTimestamps = v
	}
	if v, ok := args["show_memory_ids"].(bool); ok {
		prefs.ShowMemoryIDs = v
	}

	return Call{
		Identity: Identity{UserID: userID},
		Prefs:    prefs,
		Sink:     r.Sink,
	}, nil
}

// ErrorResult converts err into a tool error result carrying {"error": ...}.
func ErrorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(ErrorJSON(err))
}

// NotificationSink forwards progress events to the MCP client as
// notifications/message log entries on the session the call came from.
type NotificationSink struct {
	logger *zap.Logger
}

// NewNotificationSink creates a sink that logs delivery failures to logger.
func NewNotificationSink(logger *zap.Logger) *NotificationSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationSink{logger: logger}
}

// Emit sends ev to the client. Outside an MCP request context it is a no-op.
func (s *NotificationSink) Emit(ctx context.Context, ev Event) {
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return
	}

	level := "info"
	switch ev.Data.Status {
	case "warning", "limit_reached", "not_found", "invalid":
		level = "warning"
	case "error", "failed":
		level = "error"
	}

	err := srv.SendNotificationToClient(ctx, "notifications/message", map[string]any{
		"level":  level,
		"logger": "mindtools",
		"data":   ev,
	})
	if err != nil {
		s.logger.Debug("progress notification not delivered",
			zap.String("status", ev.Data.Status),
			zap.Error(err),
		)
	}
}
