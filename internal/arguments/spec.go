// Package arguments implements interactive argument acquisition for bot
// commands: a command declares the inputs it expects and the collectors
// obtain valid values for them, conducting a prompt/reply dialogue with the
// invoking user when the supplied input is missing or invalid.
package arguments

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrKeyRequired     = errors.New("arguments: key is required")
	ErrPromptRequired  = errors.New("arguments: prompt is required")
	ErrTypeRequired    = errors.New("arguments: a type or a validator and parser pair is required")
	ErrTypeConflict    = errors.New("arguments: a type and a custom validator/parser are mutually exclusive")
	ErrPartialOverride = errors.New("arguments: a custom validator requires a parser and vice versa")
)

// Declaration describes one expected input. It is the construction input
// for a Spec; commands keep Declarations, the dispatcher builds Specs once
// at registration time.
type Declaration struct {
	// Key identifies the argument within a command's argument list.
	Key string
	// Label is the display name used in messages. Defaults to Key.
	Label string
	// Prompt is shown when the value must be solicited.
	Prompt string
	// Type names a registered TypeHandler. Mutually exclusive with the
	// Validate/Parse pair.
	Type string
	// Min and Max bound the value; their meaning is up to the type
	// (numeric range, string length).
	Min *float64
	Max *float64
	// Default, when non-nil, makes the argument optional: it is returned
	// without any dialogue when no value was supplied.
	Default any
	// Infinite selects open-ended collection of a value sequence.
	Infinite bool
	// Validate and Parse override the type handler. Both must be set
	// together, and Type must then be empty.
	Validate ValidateFunc
	Parse    ParseFunc
	// Wait bounds how long the collector waits for each reply. Zero means
	// wait forever.
	Wait time.Duration
}

// Spec is the immutable, resolved form of a Declaration. Construction
// fails for inconsistent declarations; a Spec that exists is safe to
// collect against.
type Spec struct {
	key     string
	label   string
	prompt  string
	handler TypeHandler

	validate ValidateFunc
	parse    ParseFunc

	min *float64
	max *float64

	def      any
	infinite bool
	wait     time.Duration
}

// New resolves a Declaration into a Spec. The type id, when present, is
// looked up in types immediately; an unknown id is a construction failure.
func New(d Declaration, types Resolver) (*Spec, error) {
	key := strings.TrimSpace(d.Key)
	if key == "" {
		return nil, ErrKeyRequired
	}
	prompt := strings.TrimSpace(d.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w (argument %q)", ErrPromptRequired, key)
	}
	label := strings.TrimSpace(d.Label)
	if label == "" {
		label = key
	}

	hasOverride := d.Validate != nil || d.Parse != nil
	hasPair := d.Validate != nil && d.Parse != nil
	typeID := strings.TrimSpace(d.Type)

	var handler TypeHandler
	switch {
	case typeID != "" && hasOverride:
		return nil, fmt.Errorf("%w (argument %q, type %q)", ErrTypeConflict, key, typeID)
	case typeID != "":
		if types == nil {
			return nil, fmt.Errorf("arguments: %s: no type resolver for type %q", key, typeID)
		}
		h, ok := types.Lookup(typeID)
		if !ok {
			return nil, fmt.Errorf("arguments: %s: unknown type %q", key, typeID)
		}
		handler = h
	case hasPair:
		// custom pair used exclusively
	case hasOverride:
		return nil, fmt.Errorf("%w (argument %q)", ErrPartialOverride, key)
	default:
		return nil, fmt.Errorf("%w (argument %q)", ErrTypeRequired, key)
	}

	if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
		return nil, fmt.Errorf("arguments: %s: min %g exceeds max %g", key, *d.Min, *d.Max)
	}

	wait := d.Wait
	if wait < 0 {
		wait = 0
	}

	return &Spec{
		key:      key,
		label:    label,
		prompt:   prompt,
		handler:  handler,
		validate: d.Validate,
		parse:    d.Parse,
		min:      d.Min,
		max:      d.Max,
		def:      d.Default,
		infinite: d.Infinite,
		wait:     wait,
	}, nil
}

func (s *Spec) Key() string   { return s.key }
func (s *Spec) Label() string { return s.label }

func (s *Spec) Prompt() string      { return s.prompt }
func (s *Spec) Infinite() bool      { return s.infinite }
func (s *Spec) Wait() time.Duration { return s.wait }

// Min and Max expose the declared bounds to type handlers.
func (s *Spec) Min() *float64 { return s.min }
func (s *Spec) Max() *float64 { return s.max }

// Default returns the declared default value, nil when the argument is
// required.
func (s *Spec) Default() any { return s.def }

// Validate applies the custom validator when one is set, otherwise the
// bound type handler.
func (s *Spec) Validate(raw string, conv Conversation) Validation {
	if s.validate != nil {
		return s.validate(raw, conv, s)
	}
	return s.handler.Validate(raw, conv, s)
}

// Parse converts validated raw input into its final value.
func (s *Spec) Parse(raw string, conv Conversation) (any, error) {
	if s.parse != nil {
		return s.parse(raw, conv, s)
	}
	return s.handler.Parse(raw, conv, s)
}
