package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultDatabasePath     = "taskmaster.db"
	DefaultReminderSeconds  = 60
	DefaultCountdownSeconds = 1
)

// Config keeps runtime settings for the CLI and the watch daemon.
type Config struct {
	DatabasePath     string `toml:"database_path"`
	SessionFile      string `toml:"session_file"`
	TelegramToken    string `toml:"telegram_token"`
	TelegramChatID   int64  `toml:"telegram_chat_id"`
	ReminderSeconds  int    `toml:"reminder_seconds"`
	CountdownSeconds int    `toml:"countdown_seconds"`
}

// ReminderInterval is the fallback sweep interval for the watch daemon.
func (c Config) ReminderInterval() time.Duration {
	return time.Duration(c.ReminderSeconds) * time.Second
}

// CountdownInterval is the countdown display refresh interval.
func (c Config) CountdownInterval() time.Duration {
	return time.Duration(c.CountdownSeconds) * time.Second
}

// Load builds the configuration: defaults, then the TOML file when path
// points at one, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		DatabasePath:     DefaultDatabasePath,
		SessionFile:      defaultSessionFile(),
		ReminderSeconds:  DefaultReminderSeconds,
		CountdownSeconds: DefaultCountdownSeconds,
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.ReminderSeconds <= 0 {
		cfg.ReminderSeconds = DefaultReminderSeconds
	}
	if cfg.CountdownSeconds <= 0 {
		cfg.CountdownSeconds = DefaultCountdownSeconds
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TASKMASTER_DB")); v != "" {
		cfg.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKMASTER_SESSION_FILE")); v != "" {
		cfg.SessionFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")); v != "" {
		cfg.TelegramToken = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = id
		}
	}
	if v := strings.TrimSpace(os.Getenv("TASKMASTER_REMINDER_INTERVAL")); v != "" {
		if seconds := parseSeconds(v); seconds > 0 {
			cfg.ReminderSeconds = seconds
		}
	}
	if v := strings.TrimSpace(os.Getenv("TASKMASTER_COUNTDOWN_INTERVAL")); v != "" {
		if seconds := parseSeconds(v); seconds > 0 {
			cfg.CountdownSeconds = seconds
		}
	}
}

// parseSeconds accepts either a bare number of seconds or a Go duration
// string like "90s" or "2m".
func parseSeconds(raw string) int {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return int(d.Seconds())
	}
	return 0
}

// defaultSessionFile places the authenticated marker under the user cache
// dir so it survives only as long as the machine's local state does.
func defaultSessionFile() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "taskmaster", "session")
}
