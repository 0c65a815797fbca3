package host

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a failure surfaced to the calling runtime.
type Kind string

const (
	KindMissingIdentity Kind = "missing_identity"
	KindValidation      Kind = "validation"
	KindLimitExceeded   Kind = "limit_exceeded"
	KindNotFound        Kind = "not_found"
	KindFeatureDisabled Kind = "feature_disabled"
	KindBackendFailure  Kind = "backend_failure"
)

// Error is a classified failure. Message is what the caller sees; Err, when
// set, is the underlying cause and is reachable through errors.Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a classified error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause as a backend failure with the given message prefix.
// The caller sees "<prefix>: <cause>".
func Wrap(cause error, prefix string) *Error {
	return &Error{
		Kind:    KindBackendFailure,
		Message: fmt.Sprintf("%s: %v", prefix, cause),
		Err:     cause,
	}
}

// ErrMissingIdentity is returned by every operation invoked without a user id.
var ErrMissingIdentity = &Error{Kind: KindMissingIdentity, Message: "User context not provided."}

// KindOf returns the Kind of err, or "" when err is nil or unclassified.
func KindOf(err error) Kind {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	return ""
}

// HasKind reports whether err carries the given kind.
func HasKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ErrorJSON renders err as the structured error object {"error": "..."}.
func ErrorJSON(err error) string {
	data, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return `{"error":"internal error"}`
	}
	return string(data)
}
