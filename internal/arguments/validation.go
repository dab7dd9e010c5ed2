package arguments

import "fmt"

// Validation is the three-way verdict every validator must produce: accept,
// reject with the generic invalid-input message, or reject with a reason
// that is shown to the user verbatim in place of the generic message.
type Validation struct {
	Valid  bool
	Reason string
}

// Accept reports the input as valid.
func Accept() Validation {
	return Validation{Valid: true}
}

// Reject reports the input as invalid without an explanation; the collector
// falls back to the generic invalid-input message.
func Reject() Validation {
	return Validation{}
}

// RejectWithReason reports the input as invalid with an explanation shown
// to the user in place of the generic message.
func RejectWithReason(format string, args ...any) Validation {
	return Validation{Reason: fmt.Sprintf(format, args...)}
}

// TypeHandler is the pluggable validate/parse capability bound to a named
// type id. Parse is only invoked for input Validate accepted and must
// succeed for such input; a Parse failure aborts the collection as a
// handler contract violation, not as user error.
type TypeHandler interface {
	Validate(raw string, conv Conversation, spec *Spec) Validation
	Parse(raw string, conv Conversation, spec *Spec) (any, error)
}

// ValidateFunc and ParseFunc are the custom per-argument overrides. When a
// Declaration carries both, they are used exclusively and no TypeHandler is
// consulted.
type ValidateFunc func(raw string, conv Conversation, spec *Spec) Validation

type ParseFunc func(raw string, conv Conversation, spec *Spec) (any, error)

// Resolver looks up a TypeHandler by its registered id. Lookup failures
// surface at Spec construction time, never mid-dialogue.
type Resolver interface {
	Lookup(id string) (TypeHandler, bool)
}
