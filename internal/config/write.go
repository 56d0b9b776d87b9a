package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the vibe-context config directory path.
// Uses $XDG_CONFIG_HOME/vibe-context if set, otherwise ~/.config/vibe-context.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vibe-context")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vibe-context")
}

// WriteDefault writes a default config.toml with archive output under
// archiveDir (the default directory when empty). Returns the config file
// path and whether it was created; an existing file is left untouched.
func WriteDefault(archiveDir string) (string, bool, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	if archiveDir == "" {
		archiveDir = DefaultConfig().Archive.Dir
	}
	d := DefaultConfig()

	content := fmt.Sprintf(`# Enables debug logging on stderr.
debug = false

[extract]
# Trailing log records considered per extraction.
window_size = %d
max_command_len = %d
max_text_len = %d

[helper]
# jq slices the log tail when available; the in-process reader is used otherwise.
enabled = %t
command = %q
timeout_seconds = %d

[archive]
dir = %q

# Downstream notifiers receive each result as JSON on stdin.
# [[sinks]]
# name = "voice"
# command = ["~/.claude/hooks/voice-notify", "--stdin"]
# timeout_seconds = 15
# format = "notification"
# voice = "Zephyr"
# language = "en"
#
# [[sinks]]
# name = "daily-log"
# command = ["~/.claude/hooks/daily-log"]
`,
		d.Extract.WindowSize, d.Extract.MaxCommandLen, d.Extract.MaxTextLen,
		d.Helper.Enabled, d.Helper.Command, d.Helper.TimeoutSeconds,
		CompressHome(archiveDir))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}

	return path, true, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
