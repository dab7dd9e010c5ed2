package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aerisDoesCodes/Komugari/internal/arguments"
)

// messageSender is the slice of discordgo.Session the prompt channel
// needs.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Channel binds an arguments.PromptChannel to one Discord channel.
type Channel struct {
	sender    messageSender
	waiter    *ReplyWaiter
	channelID string
}

func NewChannel(sender messageSender, waiter *ReplyWaiter, channelID string) *Channel {
	return &Channel{sender: sender, waiter: waiter, channelID: channelID}
}

func (c *Channel) Send(ctx context.Context, text string) (arguments.Message, error) {
	_ = ctx
	m, err := c.sender.ChannelMessageSend(c.channelID, text)
	if err != nil {
		return arguments.Message{}, fmt.Errorf("discord: send message: %w", err)
	}
	sent := arguments.Message{ID: m.ID, Content: m.Content}
	if m.Author != nil {
		sent.UserID = m.Author.ID
	}
	return sent, nil
}

func (c *Channel) AwaitReply(ctx context.Context, userID string, wait time.Duration) (arguments.Message, bool, error) {
	return c.waiter.await(ctx, userID, c.channelID, wait)
}
