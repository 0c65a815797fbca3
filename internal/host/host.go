// Package host models the contract between the tool stores and the runtime
// that invokes them: who is calling, what display preferences they have,
// and where progress events go.
//
// The stores in internal/todo and internal/reasoning only see user ids and
// return classified errors (see Error). The MCP adapters in internal/tools
// and internal/memtools use Resolver to turn a tool request into a Call and
// report progress through the Call's sink.
package host

import "context"

// Identity is the caller identity supplied by the runtime.
type Identity struct {
	UserID string `json:"id"`
}

// Preferences are per-call display options.
type Preferences struct {
	ShowTimestamps bool `json:"show_timestamps"`
	ShowMemoryIDs  bool `json:"show_memory_ids"`
}

// DefaultPreferences returns the preferences used when the caller sends none.
func DefaultPreferences() Preferences {
	return Preferences{ShowTimestamps: true, ShowMemoryIDs: false}
}

// Status is the payload of a progress event.
type Status struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Event is a structured progress event: {type: "status", data: {...}}.
type Event struct {
	Type string `json:"type"`
	Data Status `json:"data"`
}

// ProgressSink receives progress events during an operation. Delivery is
// best-effort: a sink must not fail the operation that emits to it.
type ProgressSink interface {
	Emit(ctx context.Context, ev Event)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(ctx context.Context, ev Event)

// Emit calls f(ctx, ev).
func (f SinkFunc) Emit(ctx context.Context, ev Event) { f(ctx, ev) }

// Call bundles everything the runtime supplies with one invocation.
type Call struct {
	Identity Identity
	Prefs    Preferences
	Sink     ProgressSink
}

// UserID returns the caller's user id.
func (c Call) UserID() string {
	return c.Identity.UserID
}

// Start emits a status event with done=false.
func (c Call) Start(ctx context.Context, status, description string) {
	c.emit(ctx, status, description, false)
}

// Warn emits a mid-call warning event (done=false).
func (c Call) Warn(ctx context.Context, description string) {
	c.emit(ctx, "warning", description, false)
}

// Done emits the terminal status event (done=true).
func (c Call) Done(ctx context.Context, status, description string) {
	c.emit(ctx, status, description, true)
}

func (c Call) emit(ctx context.Context, status, description string, done bool) {
	if c.Sink == nil {
		return
	}
	c.Sink.Emit(ctx, Event{
		Type: "status",
		Data: Status{Status: status, Description: description, Done: done},
	})
}
