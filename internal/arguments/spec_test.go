package arguments

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

type fakeResolver map[string]TypeHandler

func (r fakeResolver) Lookup(id string) (TypeHandler, bool) {
	h, ok := r[id]
	return h, ok
}

type intHandler struct{}

func (intHandler) Validate(raw string, _ Conversation, _ *Spec) Validation {
	if _, err := strconv.Atoi(strings.TrimSpace(raw)); err != nil {
		return Reject()
	}
	return Accept()
}

func (intHandler) Parse(raw string, _ Conversation, _ *Spec) (any, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func testResolver() Resolver {
	return fakeResolver{"integer": intHandler{}}
}

func acceptAll(raw string, _ Conversation, _ *Spec) Validation { return Accept() }

func parseRaw(raw string, _ Conversation, _ *Spec) (any, error) { return raw, nil }

func TestNewRejectsMalformedDeclarations(t *testing.T) {
	cases := []struct {
		name string
		decl Declaration
		want error
	}{
		{"missing key", Declaration{Prompt: "p", Type: "integer"}, ErrKeyRequired},
		{"missing prompt", Declaration{Key: "n", Type: "integer"}, ErrPromptRequired},
		{"no type no pair", Declaration{Key: "n", Prompt: "p"}, ErrTypeRequired},
		{"validator without parser", Declaration{Key: "n", Prompt: "p", Validate: acceptAll}, ErrPartialOverride},
		{"parser without validator", Declaration{Key: "n", Prompt: "p", Parse: parseRaw}, ErrPartialOverride},
		{"type and pair", Declaration{Key: "n", Prompt: "p", Type: "integer", Validate: acceptAll, Parse: parseRaw}, ErrTypeConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.decl, testResolver())
			if !errors.Is(err, tc.want) {
				t.Fatalf("New error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(Declaration{Key: "n", Prompt: "p", Type: "member"}, testResolver())
	if err == nil || !strings.Contains(err.Error(), `unknown type "member"`) {
		t.Fatalf("New error = %v, want unknown type", err)
	}
}

func TestNewRejectsInvertedBounds(t *testing.T) {
	lo, hi := 10.0, 2.0
	_, err := New(Declaration{Key: "n", Prompt: "p", Type: "integer", Min: &lo, Max: &hi}, testResolver())
	if err == nil || !strings.Contains(err.Error(), "min 10 exceeds max 2") {
		t.Fatalf("New error = %v, want inverted bounds error", err)
	}
}

func TestNewDefaultsLabelToKey(t *testing.T) {
	spec, err := New(Declaration{Key: "count", Prompt: "p", Type: "integer"}, testResolver())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if spec.Label() != "count" {
		t.Fatalf("label = %q, want %q", spec.Label(), "count")
	}

	spec, err = New(Declaration{Key: "count", Label: "number of rolls", Prompt: "p", Type: "integer"}, testResolver())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if spec.Label() != "number of rolls" {
		t.Fatalf("label = %q, want %q", spec.Label(), "number of rolls")
	}
}

func TestNewClampsNegativeWait(t *testing.T) {
	spec, err := New(Declaration{Key: "n", Prompt: "p", Type: "integer", Wait: -time.Second}, testResolver())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if spec.Wait() != 0 {
		t.Fatalf("wait = %v, want 0", spec.Wait())
	}
}

func TestCustomPairUsedExclusively(t *testing.T) {
	validated := ""
	spec, err := New(Declaration{
		Key:    "color",
		Prompt: "p",
		Validate: func(raw string, _ Conversation, _ *Spec) Validation {
			validated = raw
			if raw == "red" {
				return Accept()
			}
			return RejectWithReason("only red is acceptable")
		},
		Parse: func(raw string, _ Conversation, _ *Spec) (any, error) {
			return strings.ToUpper(raw), nil
		},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	v := spec.Validate("blue", Conversation{})
	if v.Valid || v.Reason != "only red is acceptable" {
		t.Fatalf("verdict = %+v, want reasoned rejection", v)
	}
	if validated != "blue" {
		t.Fatalf("custom validator saw %q, want %q", validated, "blue")
	}

	parsed, err := spec.Parse("red", Conversation{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != "RED" {
		t.Fatalf("parsed = %v, want RED", parsed)
	}
}
