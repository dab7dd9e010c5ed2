package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type fakeSender struct {
	sent    []string
	sendErr error
	nextID  int
}

func (f *fakeSender) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, content)
	return &discordgo.Message{
		ID:        "msg-" + string(rune('0'+f.nextID)),
		ChannelID: channelID,
		Content:   content,
	}, nil
}

func TestChannelSend(t *testing.T) {
	sender := &fakeSender{}
	ch := NewChannel(sender, NewReplyWaiter(), "c1")

	msg, err := ch.Send(context.Background(), "What is your name?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("expected the sent message to carry an id")
	}
	if len(sender.sent) != 1 || sender.sent[0] != "What is your name?" {
		t.Fatalf("unexpected sent messages: %v", sender.sent)
	}
}

func TestChannelSendError(t *testing.T) {
	sender := &fakeSender{sendErr: errors.New("gateway down")}
	ch := NewChannel(sender, NewReplyWaiter(), "c1")

	if _, err := ch.Send(context.Background(), "hi"); err == nil {
		t.Fatal("expected send error")
	}
}
