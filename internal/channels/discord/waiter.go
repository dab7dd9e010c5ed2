package discord

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aerisDoesCodes/Komugari/internal/arguments"
)

var ErrWaitPending = errors.New("discord: a reply wait is already pending for this user in this channel")

type pendingKey struct {
	userID    string
	channelID string
}

// ReplyWaiter is the suspension point a collection dialogue blocks on: at
// most one pending wait per user+channel, resolved by the bot's inbound
// message handler or released by the configured deadline.
type ReplyWaiter struct {
	mu      sync.Mutex
	pending map[pendingKey]chan arguments.Message
}

func NewReplyWaiter() *ReplyWaiter {
	return &ReplyWaiter{pending: make(map[pendingKey]chan arguments.Message)}
}

// Resolve offers an inbound message to the pending wait for its author in
// channelID, reporting whether the message was consumed by a dialogue.
func (w *ReplyWaiter) Resolve(channelID string, msg arguments.Message) bool {
	key := pendingKey{userID: msg.UserID, channelID: channelID}

	w.mu.Lock()
	ch, ok := w.pending[key]
	if ok {
		delete(w.pending, key)
	}
	w.mu.Unlock()

	if !ok {
		return false
	}
	ch <- msg // buffered; never blocks
	return true
}

func (w *ReplyWaiter) await(ctx context.Context, userID, channelID string, wait time.Duration) (arguments.Message, bool, error) {
	key := pendingKey{userID: userID, channelID: channelID}
	ch := make(chan arguments.Message, 1)

	w.mu.Lock()
	if _, exists := w.pending[key]; exists {
		w.mu.Unlock()
		return arguments.Message{}, false, ErrWaitPending
	}
	w.pending[key] = ch
	w.mu.Unlock()

	release := func() {
		w.mu.Lock()
		if w.pending[key] == ch {
			delete(w.pending, key)
		}
		w.mu.Unlock()
	}

	var deadline <-chan time.Time
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case msg := <-ch:
		return msg, true, nil
	case <-deadline:
		release()
		// Resolve may have won the race against the timer.
		select {
		case msg := <-ch:
			return msg, true, nil
		default:
		}
		return arguments.Message{}, false, nil
	case <-ctx.Done():
		release()
		return arguments.Message{}, false, ctx.Err()
	}
}
