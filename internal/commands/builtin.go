package commands

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/aerisDoesCodes/Komugari/internal/arguments"
)

// NicknameStore persists per-guild nicknames for the nickname commands.
type NicknameStore interface {
	Set(ctx context.Context, guildID, userID, nickname string) error
	Get(ctx context.Context, guildID, userID string) (string, bool, error)
	Delete(ctx context.Context, guildID, userID string) error
}

func floatPtr(v float64) *float64 { return &v }

// NewNickname builds the nickname command: it collects the name to use and
// stores it for the invoking user.
func NewNickname(store NicknameStore) Command {
	return Command{
		Name:        "nickname",
		Description: "Tell me what to call you.",
		Args: []arguments.Declaration{{
			Key:    "name",
			Label:  "nickname",
			Prompt: "What would you like me to call you?",
			Type:   "string",
			Min:    floatPtr(1),
			Max:    floatPtr(32),
		}},
		Handler: func(ctx context.Context, conv arguments.Conversation, args map[string]any, _ arguments.PromptChannel) (string, error) {
			name := strings.TrimSpace(args["name"].(string))
			if err := store.Set(ctx, conv.GuildID, conv.UserID, name); err != nil {
				return "", err
			}
			return fmt.Sprintf("Alright, I'll call you %s from now on.", name), nil
		},
	}
}

// NewForgetMe builds the command that clears the stored nickname.
func NewForgetMe(store NicknameStore) Command {
	return Command{
		Name:        "forgetme",
		Description: "Make me forget your nickname.",
		Handler: func(ctx context.Context, conv arguments.Conversation, _ map[string]any, _ arguments.PromptChannel) (string, error) {
			name, ok, err := store.Get(ctx, conv.GuildID, conv.UserID)
			if err != nil {
				return "", err
			}
			if !ok {
				return "I don't have a nickname for you.", nil
			}
			if err := store.Delete(ctx, conv.GuildID, conv.UserID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Okay, I've forgotten %s.", name), nil
		},
	}
}

// NewChoose builds the choose command: it collects an open-ended list of
// options and picks one. pick selects an index in [0, n); nil uses the
// default random source.
func NewChoose(pick func(n int) int) Command {
	if pick == nil {
		pick = rand.Intn
	}
	return Command{
		Name:        "choose",
		Description: "Let me pick one of your options.",
		Args: []arguments.Declaration{{
			Key:      "options",
			Label:    "option",
			Prompt:   "What are the options? Give me one per message.",
			Type:     "string",
			Min:      floatPtr(1),
			Infinite: true,
		}},
		Handler: func(_ context.Context, _ arguments.Conversation, args map[string]any, _ arguments.PromptChannel) (string, error) {
			options := args["options"].([]any)
			if len(options) < 2 {
				return "Give me at least two options to choose from.", nil
			}
			choice := options[pick(len(options))].(string)
			return fmt.Sprintf("I choose %s.", choice), nil
		},
	}
}

// NewEcho builds the echo command: it repeats one collected message with
// mentions neutralized.
func NewEcho() Command {
	return Command{
		Name:        "echo",
		Description: "Repeat what you tell me.",
		Args: []arguments.Declaration{{
			Key:    "text",
			Label:  "message",
			Prompt: "What should I say?",
			Type:   "string",
			Min:    floatPtr(1),
		}},
		Handler: func(_ context.Context, _ arguments.Conversation, args map[string]any, _ arguments.PromptChannel) (string, error) {
			text := args["text"].(string)
			return strings.ReplaceAll(text, "@", "@\u200b"), nil
		},
	}
}

// NewHelp builds the help command. list supplies the commands to describe;
// pass Registry.List.
func NewHelp(list func() []Command) Command {
	return Command{
		Name:        "help",
		Description: "List the commands I know.",
		Handler: func(_ context.Context, _ arguments.Conversation, _ map[string]any, _ arguments.PromptChannel) (string, error) {
			cmds := list()
			if len(cmds) == 0 {
				return "I don't know any commands yet.", nil
			}
			lines := make([]string, 0, len(cmds))
			for _, c := range cmds {
				desc := c.Description
				if desc == "" {
					desc = "(no description)"
				}
				lines = append(lines, fmt.Sprintf("`%s`: %s", c.Name, desc))
			}
			return strings.Join(lines, "\n"), nil
		},
	}
}

// NewRoll builds the roll command: a dice roll with an optional number of
// sides.
func NewRoll(pick func(n int) int) Command {
	if pick == nil {
		pick = rand.Intn
	}
	return Command{
		Name:        "roll",
		Description: "Roll a die.",
		Args: []arguments.Declaration{{
			Key:     "sides",
			Prompt:  "How many sides should the die have?",
			Type:    "integer",
			Min:     floatPtr(2),
			Max:     floatPtr(1000),
			Default: 6,
		}},
		Handler: func(_ context.Context, _ arguments.Conversation, args map[string]any, _ arguments.PromptChannel) (string, error) {
			sides := args["sides"].(int)
			return fmt.Sprintf("You rolled a %d.", pick(sides)+1), nil
		},
	}
}
