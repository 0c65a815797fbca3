// Package memtools provides MCP tool handlers for the reasoning context and
// the long-term memory bank.
//
// Each tool handler follows the same pattern as internal/tools:
// - A struct with dependencies (reasoning.Store, host.Resolver) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
package memtools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/reasoning"
)

// withUserID adds the optional caller identity parameter.
func withUserID() mcp.ToolOption {
	return mcp.WithString("user_id",
		mcp.Description("Caller identity. Defaults to the request's _meta.user_id or the server's default user."),
	)
}

// withAnyValue adds a required parameter that accepts any JSON value.
func withAnyValue(name, description string) mcp.ToolOption {
	return func(t *mcp.Tool) {
		if t.InputSchema.Properties == nil {
			t.InputSchema.Properties = make(map[string]any)
		}
		t.InputSchema.Properties[name] = map[string]any{
			"description": description,
		}
		t.InputSchema.Required = append(t.InputSchema.Required, name)
	}
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// listArg returns the raw array argument key, decoding it first when the
// client sent the array as a JSON string. ok is false when the key is absent.
func listArg(req mcp.CallToolRequest, key string) (list []any, ok bool, err error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return nil, false, nil
	}
	if s, isString := raw.(string); isString {
		var decoded []any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, true, host.Errorf(host.KindValidation, "'%s' must be an array", key)
		}
		return decoded, true, nil
	}
	list, isList := raw.([]any)
	if !isList {
		return nil, true, host.Errorf(host.KindValidation, "'%s' must be an array", key)
	}
	return list, true, nil
}

// stringsArg extracts an optional array of strings. Non-string entries are
// skipped.
func stringsArg(req mcp.CallToolRequest, key string) ([]string, error) {
	list, _, err := listArg(req, key)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// declarations converts raw entity objects. Anything that is not an object,
// or has a non-string name, becomes a nameless declaration so the store
// reports it per item.
func declarations(list []any) []reasoning.Declaration {
	out := make([]reasoning.Declaration, 0, len(list))
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			out = append(out, reasoning.Declaration{})
			continue
		}
		var d reasoning.Declaration
		d.Name, _ = m["name"].(string)
		d.Type, _ = m["type"].(string)
		d.Description, _ = m["description"].(string)
		d.Value = m["value"]
		out = append(out, d)
	}
	return out
}

// shortID returns the first eight characters of a memory id for progress text.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
