package argtypes

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aerisDoesCodes/Komugari/internal/arguments"
)

// stringType accepts any text; min/max bound the length in runes.
type stringType struct{}

func (stringType) Validate(raw string, _ arguments.Conversation, spec *arguments.Spec) arguments.Validation {
	length := float64(len([]rune(raw)))
	if min := spec.Min(); min != nil && length < *min {
		return arguments.RejectWithReason("Please keep the %s to at least %g characters.", spec.Label(), *min)
	}
	if max := spec.Max(); max != nil && length > *max {
		return arguments.RejectWithReason("Please keep the %s to at most %g characters.", spec.Label(), *max)
	}
	return arguments.Accept()
}

func (stringType) Parse(raw string, _ arguments.Conversation, _ *arguments.Spec) (any, error) {
	return raw, nil
}

// integerType parses a whole number; min/max bound the value.
type integerType struct{}

func (integerType) Validate(raw string, _ arguments.Conversation, spec *arguments.Spec) arguments.Validation {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return arguments.Reject()
	}
	return checkRange(float64(n), spec)
}

func (integerType) Parse(raw string, _ arguments.Conversation, _ *arguments.Spec) (any, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// numberType parses a decimal number; min/max bound the value.
type numberType struct{}

func (numberType) Validate(raw string, _ arguments.Conversation, spec *arguments.Spec) arguments.Validation {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return arguments.Reject()
	}
	return checkRange(f, spec)
}

func (numberType) Parse(raw string, _ arguments.Conversation, _ *arguments.Spec) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func checkRange(v float64, spec *arguments.Spec) arguments.Validation {
	if min := spec.Min(); min != nil && v < *min {
		return arguments.RejectWithReason("Please enter a number above or exactly %g.", *min)
	}
	if max := spec.Max(); max != nil && v > *max {
		return arguments.RejectWithReason("Please enter a number below or exactly %g.", *max)
	}
	return arguments.Accept()
}

var (
	truthy = map[string]struct{}{
		"true": {}, "t": {}, "yes": {}, "y": {}, "on": {}, "enable": {}, "enabled": {}, "1": {}, "+": {},
	}
	falsy = map[string]struct{}{
		"false": {}, "f": {}, "no": {}, "n": {}, "off": {}, "disable": {}, "disabled": {}, "0": {}, "-": {},
	}
)

// booleanType accepts the usual yes/no spellings.
type booleanType struct{}

func (booleanType) Validate(raw string, _ arguments.Conversation, _ *arguments.Spec) arguments.Validation {
	lc := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := truthy[lc]; ok {
		return arguments.Accept()
	}
	if _, ok := falsy[lc]; ok {
		return arguments.Accept()
	}
	return arguments.Reject()
}

func (booleanType) Parse(raw string, _ arguments.Conversation, _ *arguments.Spec) (any, error) {
	lc := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := truthy[lc]; ok {
		return true, nil
	}
	if _, ok := falsy[lc]; ok {
		return false, nil
	}
	return nil, fmt.Errorf("argtypes: not a boolean: %q", raw)
}

// urlType accepts absolute http(s) URLs and parses them to *url.URL.
type urlType struct{}

func (urlType) Validate(raw string, _ arguments.Conversation, spec *arguments.Spec) arguments.Validation {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return arguments.Reject()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return arguments.RejectWithReason("Please give me an http or https URL for the %s.", spec.Label())
	}
	return arguments.Accept()
}

func (urlType) Parse(raw string, _ arguments.Conversation, _ *arguments.Spec) (any, error) {
	return url.Parse(strings.TrimSpace(raw))
}
