package arguments

import (
	"context"
	"fmt"
	"strings"
)

// maxTokenEcho bounds how much of an offending pre-supplied token is echoed
// back in a re-prompt.
const maxTokenEcho = 256

// ObtainInfinite acquires an open-ended, ordered sequence of values.
//
// Tokens already supplied with the invocation are consumed in order; an
// invalid token is re-prompted for individually (the replacement takes its
// position) and once every token has produced an accepted value the
// collection ends successfully. An empty slot in vals is solicited
// interactively instead, so a collection can move from token replacement to
// open solicitation without losing accumulated values. With no tokens at
// all the collection runs fully interactively until the user replies
// `finish` or `cancel`.
//
// promptLimit is scoped to the value currently being solicited; the budget
// resets for each slot. A `finish` with nothing accepted is a user
// cancellation, never an empty success.
func (s *Spec) ObtainInfinite(ctx context.Context, ch PromptChannel, conv Conversation, vals []string, promptLimit int) (Result, error) {
	var res Result
	var accepted []any
	total := len(vals)

	for slot := 0; ; slot++ {
		if total > 0 && slot >= total {
			res.Value = accepted
			return res, nil
		}

		var raw string
		if slot < total {
			raw = strings.TrimSpace(vals[slot])
		}
		var verdict Validation
		if raw != "" {
			verdict = s.Validate(raw, conv)
		}

		prompted := 0
		for raw == "" || !verdict.Valid {
			var text string
			switch {
			case raw == "" && len(accepted) == 0:
				text = s.prompt
			case raw == "":
				// The user already knows the drill; keep listening
				// without re-sending the generic prompt.
			case verdict.Reason != "":
				text = verdict.Reason
			default:
				text = fmt.Sprintf("You provided an invalid %s, \"%s\". Please try again.", s.label, tokenEcho(raw))
			}

			if text != "" {
				if promptLimit > 0 && prompted >= promptLimit {
					res.Cancelled = CancelPromptLimit
					return res, nil
				}
				sent, err := ch.Send(ctx, text+promptFooter(s.wait, true))
				if err != nil {
					return res, fmt.Errorf("arguments: %s: send prompt: %w", s.key, err)
				}
				res.Prompts = append(res.Prompts, sent)
				prompted++
			}

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
			if isKeyword(reply.Content, finishKeyword) {
				if len(accepted) > 0 {
					res.Value = accepted
					return res, nil
				}
				res.Cancelled = CancelUser
				return res, nil
			}

			raw = reply.Content
			verdict = s.Validate(raw, conv)
		}

		value, err := s.Parse(raw, conv)
		if err != nil {
			return res, fmt.Errorf("arguments: %s: parse accepted input: %w", s.key, err)
		}
		accepted = append(accepted, value)
	}
}

// tokenEcho prepares an offending token for echoing back to the user:
// mentions are neutralized with a zero-width space and oversized tokens are
// truncated.
func tokenEcho(raw string) string {
	neutral := strings.ReplaceAll(raw, "@", "@\u200b")
	runes := []rune(neutral)
	if len(runes) > maxTokenEcho {
		return string(runes[:maxTokenEcho]) + "…"
	}
	return neutral
}
