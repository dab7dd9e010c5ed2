package discord

import (
	"strings"
	"testing"

	"github.com/aerisDoesCodes/Komugari/internal/commands"
	"github.com/aerisDoesCodes/Komugari/internal/config"
)

func TestParseInvocation(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		prefix   string
		wantName string
		wantRest string
		wantOK   bool
	}{
		{
			name:     "bare command",
			content:  "!roll",
			prefix:   "!",
			wantName: "roll",
			wantOK:   true,
		},
		{
			name:     "command with rest",
			content:  "!nickname Komugari the Second",
			prefix:   "!",
			wantName: "nickname",
			wantRest: "Komugari the Second",
			wantOK:   true,
		},
		{
			name:     "uppercase name lowered",
			content:  "!Roll 20",
			prefix:   "!",
			wantName: "roll",
			wantRest: "20",
			wantOK:   true,
		},
		{
			name:     "surrounding whitespace",
			content:  "  !choose a b  ",
			prefix:   "!",
			wantName: "choose",
			wantRest: "a b",
			wantOK:   true,
		},
		{
			name:    "missing prefix",
			content: "roll 6",
			prefix:  "!",
		},
		{
			name:    "prefix only",
			content: "!",
			prefix:  "!",
		},
		{
			name:    "empty prefix never matches",
			content: "roll",
			prefix:  "",
		},
		{
			name:     "multi character prefix",
			content:  "komu! roll",
			prefix:   "komu!",
			wantName: "roll",
			wantOK:   true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name, rest, ok := parseInvocation(tc.content, tc.prefix)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if name != tc.wantName || rest != tc.wantRest {
				t.Fatalf("got (%q, %q), want (%q, %q)", name, rest, tc.wantName, tc.wantRest)
			}
		})
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("", 10); len(got) != 1 || got[0] != "(empty)" {
		t.Fatalf("empty input: got %v", got)
	}

	short := "hello"
	if got := splitMessage(short, 10); len(got) != 1 || got[0] != short {
		t.Fatalf("short input: got %v", got)
	}

	long := strings.Repeat("line one\n", 5) + "tail"
	parts := splitMessage(long, 20)
	if len(parts) < 2 {
		t.Fatalf("expected the long message to be split, got %v", parts)
	}
	for _, p := range parts {
		if len(p) > 20 {
			t.Fatalf("part exceeds limit: %q", p)
		}
		if p != strings.TrimSpace(p) {
			t.Fatalf("part not trimmed: %q", p)
		}
	}
	if joined := strings.Join(parts, " "); !strings.Contains(joined, "tail") {
		t.Fatalf("tail lost: %v", parts)
	}

	unbroken := strings.Repeat("a", 45)
	parts = splitMessage(unbroken, 20)
	if len(parts) != 3 {
		t.Fatalf("expected 3 hard-cut parts, got %d: %v", len(parts), parts)
	}
}

func TestNewRequiresToken(t *testing.T) {
	cfg := config.Default()
	cfg.Discord.Token = ""
	cfg.Discord.TokenEnv = "KOMUGARI_TEST_TOKEN_UNSET"

	registry := commands.NewRegistry(nil, nil, 5)
	if _, err := New(cfg, registry); err == nil {
		t.Fatal("expected an error when no token is configured")
	}
}

func TestNewRequiresRegistry(t *testing.T) {
	cfg := config.Default()
	cfg.Discord.Token = "tok"

	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected an error when no registry is given")
	}
}
