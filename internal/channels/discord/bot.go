// Package discord runs the bot over a Discord gateway session. Inbound
// messages are first offered to the reply waiter so collection dialogues
// get their answers, then parsed as command invocations.
package discord

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aerisDoesCodes/Komugari/internal/arguments"
	"github.com/aerisDoesCodes/Komugari/internal/channels/chat"
	"github.com/aerisDoesCodes/Komugari/internal/commands"
	"github.com/aerisDoesCodes/Komugari/internal/config"
)

const defaultDiscordMaxSize = 1900

type Bot struct {
	cfg       config.DiscordConfig
	gate      *chat.Gate
	limiter   *chat.Limiter
	registry  *commands.Registry
	waiter    *ReplyWaiter
	session   *discordgo.Session
	closeOnce sync.Once
}

func New(cfg config.Config, registry *commands.Registry) (*Bot, error) {
	token := strings.TrimSpace(cfg.Discord.Token)
	if token == "" && cfg.Discord.TokenEnv != "" {
		token = strings.TrimSpace(os.Getenv(cfg.Discord.TokenEnv))
	}
	if token == "" {
		return nil, errors.New("discord token is required")
	}
	if registry == nil {
		return nil, errors.New("command registry is required")
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		cfg:      cfg.Discord,
		gate:     chat.NewGate(cfg.Discord.AllowUsers, cfg.Discord.AllowChannels, cfg.Discord.AllowGuilds),
		limiter:  chat.NewLimiter(cfg.Discord.RateLimitPerMin, time.Minute),
		registry: registry,
		waiter:   NewReplyWaiter(),
		session:  s,
	}
	s.AddHandler(b.onMessage)
	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent
	return b, nil
}

func (b *Bot) Start() error {
	return b.session.Open()
}

func (b *Bot) Stop() error {
	var err error
	b.closeOnce.Do(func() { err = b.session.Close() })
	return err
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	msg := arguments.Message{ID: m.ID, UserID: m.Author.ID, Content: m.Content}
	if b.waiter.Resolve(m.ChannelID, msg) {
		return
	}

	name, rest, ok := parseInvocation(m.Content, b.cfg.CommandPrefix)
	if !ok {
		return
	}
	if !b.gate.Allow(m.Author.ID, m.ChannelID, m.GuildID) {
		return
	}
	if !b.limiter.Allow(m.Author.ID + ":" + m.ChannelID) {
		_, _ = s.ChannelMessageSendReply(m.ChannelID, "You're sending commands too quickly. Try again in a bit.", m.Reference())
		return
	}

	conv := arguments.Conversation{
		UserID:    m.Author.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
	}
	ch := NewChannel(s, b.waiter, m.ChannelID)

	reply, err := b.registry.Dispatch(context.Background(), conv, ch, name, rest)
	if err != nil {
		if errors.Is(err, commands.ErrUnknownCommand) {
			_, _ = s.ChannelMessageSendReply(m.ChannelID, "I don't know that command. Try `"+b.cfg.CommandPrefix+"help`.", m.Reference())
			return
		}
		_, _ = s.ChannelMessageSendReply(m.ChannelID, "command failed: "+err.Error(), m.Reference())
		return
	}
	if strings.TrimSpace(reply) != "" {
		b.sendChunked(s, m, reply)
	}
}

// parseInvocation extracts the command name and the remaining invocation
// text from a prefixed message. Non-invocations report ok=false.
func parseInvocation(content, prefix string) (name, rest string, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	body := strings.TrimSpace(strings.TrimPrefix(content, prefix))
	if body == "" {
		return "", "", false
	}
	name, rest, _ = strings.Cut(body, " ")
	return strings.ToLower(name), strings.TrimSpace(rest), true
}

func splitMessage(text string, maxLen int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []string{"(empty)"}
	}
	if maxLen <= 0 {
		maxLen = defaultDiscordMaxSize
	}

	var out []string
	remaining := trimmed
	for len(remaining) > maxLen {
		cut := strings.LastIndex(remaining[:maxLen], "\n")
		if cut <= 0 {
			cut = maxLen
		}
		part := strings.TrimSpace(remaining[:cut])
		if part != "" {
			out = append(out, part)
		}
		remaining = strings.TrimSpace(remaining[cut:])
	}
	if remaining != "" {
		out = append(out, remaining)
	}
	if len(out) == 0 {
		return []string{"(empty)"}
	}
	return out
}

func (b *Bot) sendChunked(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	parts := splitMessage(text, defaultDiscordMaxSize)
	for i, part := range parts {
		if i == 0 {
			_, _ = s.ChannelMessageSendReply(m.ChannelID, part, m.Reference())
			continue
		}
		_, _ = s.ChannelMessageSend(m.ChannelID, part)
	}
}
