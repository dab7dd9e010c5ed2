package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/aerisDoesCodes/Komugari/internal/argtypes"
)

type memoryNicknames struct {
	names map[string]string
}

func newMemoryNicknames() *memoryNicknames {
	return &memoryNicknames{names: make(map[string]string)}
}

func (m *memoryNicknames) Set(_ context.Context, guildID, userID, nickname string) error {
	m.names[guildID+"/"+userID] = nickname
	return nil
}

func (m *memoryNicknames) Get(_ context.Context, guildID, userID string) (string, bool, error) {
	n, ok := m.names[guildID+"/"+userID]
	return n, ok, nil
}

func (m *memoryNicknames) Delete(_ context.Context, guildID, userID string) error {
	delete(m.names, guildID+"/"+userID)
	return nil
}

func builtinRegistry(t *testing.T, store NicknameStore, pick func(int) int) *Registry {
	t.Helper()
	r := NewRegistry(argtypes.Builtin(), nil, 5)
	for _, cmd := range []Command{NewNickname(store), NewForgetMe(store), NewChoose(pick), NewRoll(pick), NewEcho()} {
		if err := r.Register(cmd); err != nil {
			t.Fatalf("Register %s: %v", cmd.Name, err)
		}
	}
	return r
}

func TestNicknameRoundTrip(t *testing.T) {
	store := newMemoryNicknames()
	r := builtinRegistry(t, store, nil)

	reply, err := r.Dispatch(context.Background(), conv, &fakeChannel{}, "nickname", `"Komu Fan"`)
	if err != nil {
		t.Fatalf("Dispatch nickname: %v", err)
	}
	if !strings.Contains(reply, "Komu Fan") {
		t.Fatalf("reply = %q", reply)
	}
	if got, ok, _ := store.Get(context.Background(), "g1", "u1"); !ok || got != "Komu Fan" {
		t.Fatalf("stored = %q, %v", got, ok)
	}

	reply, err = r.Dispatch(context.Background(), conv, &fakeChannel{}, "forgetme", "")
	if err != nil {
		t.Fatalf("Dispatch forgetme: %v", err)
	}
	if !strings.Contains(reply, "Komu Fan") {
		t.Fatalf("reply = %q", reply)
	}
	if _, ok, _ := store.Get(context.Background(), "g1", "u1"); ok {
		t.Fatal("nickname still stored after forgetme")
	}

	reply, err = r.Dispatch(context.Background(), conv, &fakeChannel{}, "forgetme", "")
	if err != nil {
		t.Fatalf("Dispatch forgetme again: %v", err)
	}
	if !strings.Contains(reply, "don't have a nickname") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestNicknameSolicitsWhenMissing(t *testing.T) {
	store := newMemoryNicknames()
	r := builtinRegistry(t, store, nil)

	ch := &fakeChannel{replies: []string{"Bun"}}
	reply, err := r.Dispatch(context.Background(), conv, ch, "nickname", "")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !strings.Contains(reply, "Bun") {
		t.Fatalf("reply = %q", reply)
	}
	if len(ch.sent) != 1 || !strings.HasPrefix(ch.sent[0], "What would you like me to call you?") {
		t.Fatalf("sent = %v", ch.sent)
	}
}

func TestChoosePicksAnOption(t *testing.T) {
	r := builtinRegistry(t, newMemoryNicknames(), func(n int) int { return n - 1 })

	reply, err := r.Dispatch(context.Background(), conv, &fakeChannel{}, "choose", "tea coffee water")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if reply != "I choose water." {
		t.Fatalf("reply = %q", reply)
	}
}

func TestChooseNeedsTwoOptions(t *testing.T) {
	r := builtinRegistry(t, newMemoryNicknames(), nil)

	ch := &fakeChannel{replies: []string{"finish"}}
	reply, err := r.Dispatch(context.Background(), conv, ch, "choose", "tea")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !strings.Contains(reply, "at least two options") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestHelpListsCommands(t *testing.T) {
	r := builtinRegistry(t, newMemoryNicknames(), nil)
	if err := r.Register(NewHelp(r.List)); err != nil {
		t.Fatalf("Register help: %v", err)
	}

	reply, err := r.Dispatch(context.Background(), conv, &fakeChannel{}, "help", "")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	lines := strings.Split(reply, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d: %q", len(lines), reply)
	}
	if !strings.HasPrefix(lines[0], "`choose`:") {
		t.Fatalf("expected sorted listing, got %q", lines[0])
	}
	if !strings.Contains(reply, "`roll`: Roll a die.") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestEchoNeutralizesMentions(t *testing.T) {
	r := builtinRegistry(t, newMemoryNicknames(), nil)

	reply, err := r.Dispatch(context.Background(), conv, &fakeChannel{}, "echo", `"hi @everyone"`)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if reply != "hi @\u200beveryone" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestRollUsesDefaultSides(t *testing.T) {
	var sides int
	r := builtinRegistry(t, newMemoryNicknames(), func(n int) int { sides = n; return 0 })

	reply, err := r.Dispatch(context.Background(), conv, &fakeChannel{}, "roll", "")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if sides != 6 {
		t.Fatalf("sides = %d, want default 6", sides)
	}
	if reply != "You rolled a 1." {
		t.Fatalf("reply = %q", reply)
	}
}

func TestRollRejectsOutOfRangeThenAccepts(t *testing.T) {
	var sides int
	r := builtinRegistry(t, newMemoryNicknames(), func(n int) int { sides = n; return n - 1 })

	ch := &fakeChannel{replies: []string{"20"}}
	reply, err := r.Dispatch(context.Background(), conv, ch, "roll", "1")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if sides != 20 {
		t.Fatalf("sides = %d, want 20", sides)
	}
	if reply != "You rolled a 20." {
		t.Fatalf("reply = %q", reply)
	}
	if len(ch.sent) != 1 || !strings.Contains(ch.sent[0], "above or exactly 2") {
		t.Fatalf("sent = %v, want bound reason", ch.sent)
	}
}
