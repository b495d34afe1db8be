package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config mirrors config.toml. Environment variables (MESHBOT_*) override
// whatever the file sets, so deployments can keep secrets and per-host
// tweaks out of the file.
type Config struct {
	Radio   RadioConfig   `toml:"radio"`
	Bot     BotConfig     `toml:"bot"`
	Weather WeatherConfig `toml:"weather"`
}

type RadioConfig struct {
	// BridgeURL points at the meshd websocket bridge that fronts the
	// serial radio.
	BridgeURL    string `env:"MESHBOT_RADIO_BRIDGE_URL"    toml:"bridge_url"`
	ChannelIndex int    `env:"MESHBOT_RADIO_CHANNEL_INDEX" toml:"channel_index"`
}

type BotConfig struct {
	CommandPrefix         string `env:"MESHBOT_BOT_COMMAND_PREFIX"          toml:"command_prefix"`
	MaxReplyLen           int    `env:"MESHBOT_BOT_MAX_REPLY_LEN"           toml:"max_reply_len"`
	MailboxTTLSeconds     int    `env:"MESHBOT_BOT_MAILBOX_TTL_SECONDS"     toml:"mailbox_ttl_seconds"`
	MailboxPerKeyCap      int    `env:"MESHBOT_BOT_MAILBOX_PER_KEY_CAP"     toml:"mailbox_per_key_cap"`
	HandlerTimeoutSeconds int    `env:"MESHBOT_BOT_HANDLER_TIMEOUT_SECONDS" toml:"handler_timeout_seconds"`
}

type WeatherConfig struct {
	Units        string `env:"MESHBOT_WEATHER_UNITS"         toml:"units"`
	Lang         string `env:"MESHBOT_WEATHER_LANG"          toml:"lang"`
	DefaultPlace string `env:"MESHBOT_WEATHER_DEFAULT_PLACE" toml:"default_place"`
}

func DefaultConfig() *Config {
	return &Config{
		Radio: RadioConfig{
			BridgeURL:    "ws://127.0.0.1:4403/ws",
			ChannelIndex: 1,
		},
		Bot: BotConfig{
			CommandPrefix:         "!",
			MaxReplyLen:           220,
			MailboxTTLSeconds:     7 * 24 * 3600,
			MailboxPerKeyCap:      25,
			HandlerTimeoutSeconds: 15,
		},
		Weather: WeatherConfig{
			Units:        "metric",
			Lang:         "cs",
			DefaultPlace: "Prague",
		},
	}
}

// Load reads the TOML file at path (missing file is fine, defaults
// apply), layers environment overrides on top and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Radio.BridgeURL == "" {
		return fmt.Errorf("radio.bridge_url must not be empty")
	}
	if c.Radio.ChannelIndex < 0 {
		return fmt.Errorf("radio.channel_index must not be negative")
	}
	if c.Bot.CommandPrefix == "" {
		return fmt.Errorf("bot.command_prefix must not be empty")
	}
	if c.Bot.MaxReplyLen < 16 {
		return fmt.Errorf("bot.max_reply_len must be at least 16")
	}
	if c.Bot.MailboxTTLSeconds <= 0 {
		return fmt.Errorf("bot.mailbox_ttl_seconds must be positive")
	}
	if c.Bot.MailboxPerKeyCap < 0 {
		return fmt.Errorf("bot.mailbox_per_key_cap must not be negative")
	}
	if c.Bot.HandlerTimeoutSeconds <= 0 {
		return fmt.Errorf("bot.handler_timeout_seconds must be positive")
	}
	if c.Weather.Units != "metric" && c.Weather.Units != "imperial" {
		return fmt.Errorf("weather.units must be 'metric' or 'imperial', got %q", c.Weather.Units)
	}
	return nil
}

func (c *Config) MailboxTTL() time.Duration {
	return time.Duration(c.Bot.MailboxTTLSeconds) * time.Second
}

func (c *Config) HandlerTimeout() time.Duration {
	return time.Duration(c.Bot.HandlerTimeoutSeconds) * time.Second
}
