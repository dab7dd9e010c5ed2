// Package config loads and persists the bot configuration as a JSON file.
// Missing fields fall back to defaults; writes go through an atomic
// temp-file rename so a crash never leaves a half-written config behind.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the config location used by the CLI when no -config flag
// is given.
const DefaultPath = ".komugari/config.json"

type Config struct {
	Discord DiscordConfig `json:"discord"`
	Store   StoreConfig   `json:"store"`
	Audit   AuditConfig   `json:"audit"`
}

type DiscordConfig struct {
	Token            string   `json:"token,omitempty"`
	TokenEnv         string   `json:"token_env,omitempty"`
	CommandPrefix    string   `json:"command_prefix"`
	AllowUsers       []string `json:"allow_users,omitempty"`
	AllowChannels    []string `json:"allow_channels,omitempty"`
	AllowGuilds      []string `json:"allow_guilds,omitempty"`
	RateLimitPerMin  int      `json:"rate_limit_per_min,omitempty"`
	PromptLimit      int      `json:"prompt_limit,omitempty"`
	ReplyWaitSeconds int      `json:"reply_wait_seconds,omitempty"`
}

type StoreConfig struct {
	Path string `json:"path"`
}

type AuditConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

func Default() Config {
	return Config{
		Discord: DiscordConfig{
			TokenEnv:         "DISCORD_BOT_TOKEN",
			CommandPrefix:    "!",
			RateLimitPerMin:  20,
			PromptLimit:      5,
			ReplyWaitSeconds: 30,
		},
		Store: StoreConfig{
			Path: ".komugari/nicknames.db",
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    ".komugari/audit.log",
		},
	}
}

func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Discord.TokenEnv == "" {
		c.Discord.TokenEnv = d.Discord.TokenEnv
	}
	if c.Discord.CommandPrefix == "" {
		c.Discord.CommandPrefix = d.Discord.CommandPrefix
	}
	if c.Discord.RateLimitPerMin == 0 {
		c.Discord.RateLimitPerMin = d.Discord.RateLimitPerMin
	}
	if c.Discord.PromptLimit == 0 {
		c.Discord.PromptLimit = d.Discord.PromptLimit
	}
	if c.Discord.ReplyWaitSeconds == 0 {
		c.Discord.ReplyWaitSeconds = d.Discord.ReplyWaitSeconds
	}
	if c.Store.Path == "" {
		c.Store.Path = d.Store.Path
	}
	if c.Audit.Path == "" {
		c.Audit.Path = d.Audit.Path
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Discord.CommandPrefix) == "" {
		return errors.New("discord.command_prefix is required")
	}
	if strings.ContainsAny(c.Discord.CommandPrefix, " \t") {
		return fmt.Errorf("discord.command_prefix must not contain whitespace: %q", c.Discord.CommandPrefix)
	}
	if c.Discord.RateLimitPerMin < 1 {
		return errors.New("discord.rate_limit_per_min must be >= 1")
	}
	if c.Discord.PromptLimit < 0 {
		return errors.New("discord.prompt_limit must not be negative")
	}
	if c.Discord.ReplyWaitSeconds < 0 {
		return errors.New("discord.reply_wait_seconds must not be negative")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path is required")
	}
	if c.Audit.Enabled && strings.TrimSpace(c.Audit.Path) == "" {
		return errors.New("audit.path is required when audit is enabled")
	}
	return nil
}

func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Save(path string, cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	buf, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	buf = append(buf, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return WriteAtomic(path, buf, 0o600)
}
