package arguments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Cancellation reports why a collection ended without producing a value.
type Cancellation string

const (
	CancelNone        Cancellation = ""
	CancelUser        Cancellation = "user"
	CancelTimeout     Cancellation = "timeout"
	CancelPromptLimit Cancellation = "prompt_limit"
)

const (
	cancelKeyword = "cancel"
	finishKeyword = "finish"
)

// Result is the outcome of one collection. Exactly one of Value being
// non-nil or Cancelled being non-empty holds at completion. Prompts and
// Answers record the full exchange in order regardless of outcome.
type Result struct {
	// Value holds the parsed value, or a []any in acceptance order for an
	// infinite argument. Nil when the collection was cancelled.
	Value     any
	Cancelled Cancellation
	Prompts   []Message
	Answers   []Message
}

// Obtain acquires a single value for the argument. raw carries the token
// already supplied with the command invocation, empty when none was.
// promptLimit caps how many prompts may be sent before the collection is
// abandoned; a limit <= 0 means no cap. The limit is checked before each
// prompt, so a limit-cancelled result has sent exactly promptLimit prompts.
//
// The error return is reserved for transport failures and handler contract
// violations; every user-driven outcome is reported through
// Result.Cancelled.
func (s *Spec) Obtain(ctx context.Context, ch PromptChannel, conv Conversation, raw string, promptLimit int) (Result, error) {
	var res Result

	raw = strings.TrimSpace(raw)
	if raw == "" && s.def != nil {
		res.Value = s.def
		return res, nil
	}

	empty := raw == ""
	var verdict Validation
	if !empty {
		verdict = s.Validate(raw, conv)
	}

	for empty || !verdict.Valid {
		if promptLimit > 0 && len(res.Prompts) >= promptLimit {
			res.Cancelled = CancelPromptLimit
			return res, nil
		}

		var text string
		switch {
		case empty:
			text = s.prompt
		case verdict.Reason != "":
			text = verdict.Reason
		default:
			text = fmt.Sprintf("You provided an invalid %s. Please try again.", s.label)
		}
		sent, err := ch.Send(ctx, text+promptFooter(s.wait, false))
		if err != nil {
			return res, fmt.Errorf("arguments: %s: send prompt: %w", s.key, err)
		}
		res.Prompts = append(res.Prompts, sent)

		reply, ok, err := ch.AwaitReply(ctx, conv.UserID, s.wait)
		if err != nil {
			return res, fmt.Errorf("arguments: %s: await reply: %w", s.key, err)
		}
		if !ok {
			res.Cancelled = CancelTimeout
			return res, nil
		}
		res.Answers = append(res.Answers, reply)

		if isKeyword(reply.Content, cancelKeyword) {
			res.Cancelled = CancelUser
			return res, nil
		}

		raw = reply.Content
		empty = false
		verdict = s.Validate(raw, conv)
	}

	value, err := s.Parse(raw, conv)
	if err != nil {
		return res, fmt.Errorf("arguments: %s: parse accepted input: %w", s.key, err)
	}
	res.Value = value
	return res, nil
}

func isKeyword(content, keyword string) bool {
	return strings.EqualFold(strings.TrimSpace(content), keyword)
}

// promptFooter appends the abort instructions every prompt carries: how to
// cancel, how to finish when the argument is infinite, and the auto-cancel
// deadline when the reply wait is bounded.
func promptFooter(wait time.Duration, infinite bool) string {
	note := "\nRespond with `cancel` to cancel the command."
	if infinite {
		note = "\nRespond with `cancel` to cancel the command, or `finish` to finish entry."
	}
	if wait > 0 {
		now := time.Now()
		note += " The command will automatically be cancelled in " +
			strings.TrimSpace(humanize.RelTime(now, now.Add(wait), "", "")) + "."
	}
	return note
}
