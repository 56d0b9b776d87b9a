// Package discover locates Claude Code session logs on disk, either under
// the projects directory or in the zstd archive.
package discover

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/suykerbuyk/vibe-context/internal/archive"
)

var sessionPattern = regexp.MustCompile(`^([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})\.jsonl(?:\.zst)?$`)

// ErrNoLogs is returned when a search finds nothing.
var ErrNoLogs = errors.New("no session logs found")

// Log is one session log on disk.
type Log struct {
	Path      string
	SessionID string
	Subagent  bool // under */subagents/
	ModTime   time.Time
}

// ProjectsDir returns ~/.claude/projects.
func ProjectsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// Discover walks base and returns every session log, oldest first.
// Unreadable entries are skipped.
func Discover(base string) ([]Log, error) {
	var logs []Log

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		m := sessionPattern.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		sep := string(filepath.Separator)
		logs = append(logs, Log{
			Path:      path,
			SessionID: m[1],
			Subagent:  strings.Contains(path, sep+"subagents"+sep),
			ModTime:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].ModTime.Before(logs[j].ModTime)
	})
	return logs, nil
}

// Latest returns the most recently modified main-session log under base.
// Subagent logs are ignored.
func Latest(base string) (Log, error) {
	logs, err := Discover(base)
	if err != nil {
		return Log{}, err
	}
	for i := len(logs) - 1; i >= 0; i-- {
		if !logs[i].Subagent {
			return logs[i], nil
		}
	}
	return Log{}, ErrNoLogs
}

// FindSession locates the log for sessionID. Each project directory under
// projectsDir is checked (main and subagents), then archiveDir.
func FindSession(projectsDir, archiveDir, sessionID string) (string, error) {
	filename := sessionID + ".jsonl"

	if entries, err := os.ReadDir(projectsDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			for _, candidate := range []string{
				filepath.Join(projectsDir, e.Name(), filename),
				filepath.Join(projectsDir, e.Name(), "subagents", filename),
			} {
				if _, err := os.Stat(candidate); err == nil {
					return candidate, nil
				}
			}
		}
	}

	if archiveDir != "" {
		candidate := archive.Path(sessionID, archiveDir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", ErrNoLogs
}
