package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/vibe-context/internal/config"
)

// Command is the hook command registered in Claude Code settings.
const Command = "vctx hook"

// Events are the Claude Code events vctx registers for: the end of a
// main turn and the end of a subagent run.
var Events = []string{"Stop", "SubagentStop"}

// SettingsPath returns the path to ~/.claude/settings.json.
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// Install adds the hook to every event in the settings file at path, keeping
// a backup of the previous file. It reports whether the file changed.
func Install(path string) (bool, error) {
	settings, err := readSettings(path)
	if err != nil {
		return false, err
	}
	if registeredEvents(settings) == len(Events) {
		return false, nil
	}
	if err := backup(path); err != nil {
		return false, err
	}
	addEntries(settings)
	return true, writeSettings(path, settings)
}

// Uninstall removes the hook from the settings file at path. It reports
// whether the file changed.
func Uninstall(path string) (bool, error) {
	settings, err := readSettings(path)
	if err != nil {
		return false, err
	}
	if registeredEvents(settings) == 0 {
		return false, nil
	}
	if err := backup(path); err != nil {
		return false, err
	}
	removeEntries(settings)
	return true, writeSettings(path, settings)
}

// Installed reports how many of Events carry the hook in the settings file.
func Installed(path string) (int, error) {
	settings, err := readSettings(path)
	if err != nil {
		return 0, err
	}
	return registeredEvents(settings), nil
}

// readSettings reads and parses the settings file.
// Returns an empty map if the file doesn't exist or is empty.
func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", config.CompressHome(path), err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return make(map[string]any), nil
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", config.CompressHome(path), err)
	}
	return settings, nil
}

// writeSettings writes the settings map as pretty-printed JSON.
// Creates the parent directory if needed.
func writeSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", config.CompressHome(path), err)
	}
	return nil
}

// backup copies the settings file to path.vctx.bak. No-op if source doesn't exist.
func backup(path string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", config.CompressHome(path), err)
	}
	defer src.Close()

	dst, err := os.Create(path + ".vctx.bak")
	if err != nil {
		return fmt.Errorf("backup: create %s.vctx.bak: %w", config.CompressHome(path), err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("backup: copy: %w", err)
	}
	return nil
}

func registeredEvents(settings map[string]any) int {
	hooksMap, ok := settings["hooks"].(map[string]any)
	if !ok {
		return 0
	}
	n := 0
	for _, event := range Events {
		if eventHasHook(hooksMap, event) {
			n++
		}
	}
	return n
}

func addEntries(settings map[string]any) {
	hooksMap, ok := settings["hooks"].(map[string]any)
	if !ok {
		hooksMap = make(map[string]any)
		settings["hooks"] = hooksMap
	}

	for _, event := range Events {
		if eventHasHook(hooksMap, event) {
			continue
		}

		entry := map[string]any{
			"matcher": "",
			"hooks": []any{
				map[string]any{
					"type":    "command",
					"command": Command,
				},
			},
		}

		eventArray, _ := hooksMap[event].([]any)
		hooksMap[event] = append(eventArray, entry)
	}
}

// removeEntries drops our entries and any event arrays or hooks map left
// empty.
func removeEntries(settings map[string]any) {
	hooksMap, ok := settings["hooks"].(map[string]any)
	if !ok {
		return
	}

	for _, event := range Events {
		eventArray, ok := hooksMap[event].([]any)
		if !ok {
			continue
		}

		var kept []any
		for _, entry := range eventArray {
			if !entryRunsCommand(entry) {
				kept = append(kept, entry)
			}
		}

		if len(kept) == 0 {
			delete(hooksMap, event)
		} else {
			hooksMap[event] = kept
		}
	}

	if len(hooksMap) == 0 {
		delete(settings, "hooks")
	}
}

func eventHasHook(hooksMap map[string]any, event string) bool {
	eventArray, ok := hooksMap[event].([]any)
	if !ok {
		return false
	}
	for _, entry := range eventArray {
		if entryRunsCommand(entry) {
			return true
		}
	}
	return false
}

// entryRunsCommand walks one matcher entry looking for a command hook that
// runs Command.
func entryRunsCommand(entry any) bool {
	entryMap, ok := entry.(map[string]any)
	if !ok {
		return false
	}

	innerHooks, ok := entryMap["hooks"].([]any)
	if !ok {
		return false
	}

	for _, h := range innerHooks {
		hMap, ok := h.(map[string]any)
		if !ok {
			continue
		}
		cmd, _ := hMap["command"].(string)
		if strings.Contains(cmd, Command) {
			return true
		}
	}
	return false
}
