// Package config loads user settings from <dir>/config.toml and KANBAN_*
// environment variables. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const FileName = "config.toml"

type Config struct {
	// LongPressMS is how long a press must be held before it becomes a drag.
	LongPressMS int `toml:"long_press_ms"`
	// MoveSlop is how far (cells, per axis) the pointer may move while a press is
	// pending before it is treated as a click instead.
	MoveSlop int `toml:"move_slop"`

	LogLevel     string `toml:"log_level"`
	LogMaxSizeMB int    `toml:"log_max_size_mb"`

	// MarkdownStyle is a glamour style name ("dark", "light", "notty", ...) or
	// "auto" to pick from the terminal background.
	MarkdownStyle string `toml:"markdown_style"`

	// DebugInvariants re-checks dense ordering inside every storage transaction.
	DebugInvariants bool `toml:"debug_invariants"`
}

func Default() Config {
	return Config{
		LongPressMS:   500,
		MoveSlop:      0,
		LogLevel:      "info",
		LogMaxSizeMB:  10,
		MarkdownStyle: "auto",
	}
}

// Load returns defaults overlaid with dir/config.toml (if present) and then the
// environment.
func Load(dir string) (Config, error) {
	cfg := Default()
	if dir != "" {
		path := filepath.Join(dir, FileName)
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("KANBAN_LONG_PRESS_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KANBAN_LONG_PRESS_MS: %w", err)
		}
		c.LongPressMS = n
	}
	if v := strings.TrimSpace(os.Getenv("KANBAN_MOVE_SLOP")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KANBAN_MOVE_SLOP: %w", err)
		}
		c.MoveSlop = n
	}
	if v := strings.TrimSpace(os.Getenv("KANBAN_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("KANBAN_MARKDOWN_STYLE")); v != "" {
		c.MarkdownStyle = v
	}
	if v := strings.TrimSpace(os.Getenv("KANBAN_DEBUG_INVARIANTS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("KANBAN_DEBUG_INVARIANTS: %w", err)
		}
		c.DebugInvariants = b
	}
	return nil
}

func (c Config) Validate() error {
	if c.LongPressMS <= 0 {
		return fmt.Errorf("long_press_ms must be positive (got %d)", c.LongPressMS)
	}
	if c.MoveSlop < 0 {
		return fmt.Errorf("move_slop must not be negative (got %d)", c.MoveSlop)
	}
	if c.LogMaxSizeMB < 0 {
		return fmt.Errorf("log_max_size_mb must not be negative (got %d)", c.LogMaxSizeMB)
	}
	return nil
}

func (c Config) LongPress() time.Duration {
	return time.Duration(c.LongPressMS) * time.Millisecond
}

// Write saves c to dir/config.toml, replacing any existing file.
func Write(dir string, c Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
