package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all vibe-context configuration.
type Config struct {
	Debug bool `toml:"debug"`

	Extract ExtractConfig `toml:"extract"`
	Helper  HelperConfig  `toml:"helper"`
	Archive ArchiveConfig `toml:"archive"`
	Sinks   []SinkConfig  `toml:"sinks"`
}

// ExtractConfig bounds one extraction.
type ExtractConfig struct {
	WindowSize    int `toml:"window_size"`
	MaxCommandLen int `toml:"max_command_len"`
	MaxTextLen    int `toml:"max_text_len"`
}

// HelperConfig selects the external tail helper.
type HelperConfig struct {
	Enabled        bool   `toml:"enabled"`
	Command        string `toml:"command"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ArchiveConfig struct {
	Dir string `toml:"dir"`
}

// SinkConfig names a downstream command that receives each result on stdin.
// Format is "result" (default) or "notification"; Voice and Language fill
// the notification request.
type SinkConfig struct {
	Name           string   `toml:"name"`
	Command        []string `toml:"command"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Format         string   `toml:"format"`
	Voice          string   `toml:"voice"`
	Language       string   `toml:"language"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Extract: ExtractConfig{
			WindowSize:    20,
			MaxCommandLen: 100,
			MaxTextLen:    100,
		},
		Helper: HelperConfig{
			Enabled:        true,
			Command:        "jq",
			TimeoutSeconds: 10,
		},
		Archive: ArchiveConfig{
			Dir: "~/.local/share/vibe-context/archive",
		},
	}
}

// MaxWindowSize bounds extract.window_size.
const MaxWindowSize = 10000

// Validate rejects extraction bounds that cannot be honored. Zero selects
// the built-in default.
func (c Config) Validate() error {
	e := c.Extract
	if e.WindowSize < 0 || e.WindowSize > MaxWindowSize {
		return fmt.Errorf("extract.window_size %d out of range 0..%d", e.WindowSize, MaxWindowSize)
	}
	if e.MaxCommandLen < 0 {
		return fmt.Errorf("extract.max_command_len %d is negative", e.MaxCommandLen)
	}
	if e.MaxTextLen < 0 {
		return fmt.Errorf("extract.max_text_len %d is negative", e.MaxTextLen)
	}
	return nil
}

// Load reads config from the standard path, falling back to defaults. A
// config that fails to parse or validate yields the defaults along with
// the error.
func Load() (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return expandPaths(DefaultConfig()), fmt.Errorf("parse config %s: %w", p, err)
			}
			if err := cfg.Validate(); err != nil {
				return expandPaths(DefaultConfig()), fmt.Errorf("config %s: %w", p, err)
			}
			break
		}
	}

	return expandPaths(cfg), nil
}

// expandPaths expands ~ in the archive dir and sink commands.
func expandPaths(cfg Config) Config {
	cfg.Archive.Dir = expandHome(cfg.Archive.Dir)
	for i := range cfg.Sinks {
		if len(cfg.Sinks[i].Command) > 0 {
			cfg.Sinks[i].Command[0] = expandHome(cfg.Sinks[i].Command[0])
		}
	}
	return cfg
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "vibe-context", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "vibe-context", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// HelperTimeout returns the helper bound as a duration.
func (c Config) HelperTimeout() time.Duration {
	return seconds(c.Helper.TimeoutSeconds)
}

// Timeout returns the sink bound as a duration, zero when unset.
func (s SinkConfig) Timeout() time.Duration {
	return seconds(s.TimeoutSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
