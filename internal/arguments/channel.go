package arguments

import (
	"context"
	"time"
)

// Message is one message exchanged over a PromptChannel.
type Message struct {
	ID      string
	UserID  string
	Content string
}

// PromptChannel is the transport a collection dialogue runs over. An
// implementation is bound to one channel/room; the collectors never address
// a channel directly.
type PromptChannel interface {
	// Send delivers text to the channel, preserving literal formatting
	// (code spans, line breaks), and returns a handle to the sent message.
	Send(ctx context.Context, text string) (Message, error)

	// AwaitReply blocks until the next message from userID arrives in the
	// same channel, or wait elapses. A wait <= 0 means wait forever.
	// ok reports whether a reply arrived; a false ok with a nil error is a
	// timeout. The error return is reserved for transport failures.
	AwaitReply(ctx context.Context, userID string, wait time.Duration) (Message, bool, error)
}

// Conversation identifies the user and room a collection converses with.
// Type handlers receive it so that platform-aware types can resolve values
// relative to the guild or channel the dialogue lives in.
type Conversation struct {
	UserID    string
	ChannelID string
	GuildID   string
}
