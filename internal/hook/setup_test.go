package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func settingsFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), ".claude", "settings.json")
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func hasEvent(settings map[string]any, event string) bool {
	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		return false
	}
	return eventHasHook(hooks, event)
}

func otherEntry(command string) map[string]any {
	return map[string]any{
		"matcher": "",
		"hooks":   []any{map[string]any{"type": "command", "command": command}},
	}
}

func TestInstall_NoFile(t *testing.T) {
	path := settingsFile(t)

	changed, err := Install(path)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("changed = false on fresh install")
	}

	settings := readJSON(t, path)
	for _, event := range Events {
		if !hasEvent(settings, event) {
			t.Errorf("%s hook missing", event)
		}
	}
	if _, err := os.Stat(path + ".vctx.bak"); !os.IsNotExist(err) {
		t.Error("backup written although no settings existed")
	}
}

func TestInstall_EmptyFile(t *testing.T) {
	path := settingsFile(t)
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("  \n"), 0o644)

	if _, err := Install(path); err != nil {
		t.Fatal(err)
	}
	if !hasEvent(readJSON(t, path), "Stop") {
		t.Error("Stop hook missing")
	}
}

func TestInstall_PreservesSettings(t *testing.T) {
	path := settingsFile(t)
	writeJSON(t, path, map[string]any{
		"permissions": map[string]any{"allow": []any{"Bash(ls)"}},
		"hooks": map[string]any{
			"Stop": []any{otherEntry("other-tool")},
		},
	})

	if _, err := Install(path); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, path)
	if _, ok := settings["permissions"]; !ok {
		t.Error("existing 'permissions' key was lost")
	}
	stop := settings["hooks"].(map[string]any)["Stop"].([]any)
	if len(stop) != 2 {
		t.Errorf("expected 2 Stop entries, got %d", len(stop))
	}
	if _, err := os.Stat(path + ".vctx.bak"); err != nil {
		t.Errorf("backup missing: %v", err)
	}
}

func TestInstall_Idempotent(t *testing.T) {
	path := settingsFile(t)

	if _, err := Install(path); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)

	changed, err := Install(path)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("second install reported a change")
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Error("idempotent install modified the file")
	}
}

func TestInstall_PartialHooks(t *testing.T) {
	path := settingsFile(t)
	writeJSON(t, path, map[string]any{
		"hooks": map[string]any{
			"Stop": []any{otherEntry(Command)},
		},
	})

	n, err := Installed(path)
	if err != nil || n != 1 {
		t.Fatalf("Installed = %d, %v; want 1", n, err)
	}
	if _, err := Install(path); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, path)
	if stop := settings["hooks"].(map[string]any)["Stop"].([]any); len(stop) != 1 {
		t.Errorf("Stop entries = %d, want 1", len(stop))
	}
	if !hasEvent(settings, "SubagentStop") {
		t.Error("SubagentStop hook missing")
	}
}

func TestInstall_MalformedJSON(t *testing.T) {
	path := settingsFile(t)
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("{not json"), 0o644)

	if _, err := Install(path); err == nil {
		t.Fatal("expected error for malformed settings")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Error("malformed settings were overwritten")
	}
}

func TestUninstall_PreservesOtherHooks(t *testing.T) {
	path := settingsFile(t)
	writeJSON(t, path, map[string]any{
		"hooks": map[string]any{
			"Stop":         []any{otherEntry("other-tool"), otherEntry(Command)},
			"SubagentStop": []any{otherEntry(Command)},
		},
	})

	changed, err := Uninstall(path)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("changed = false")
	}

	settings := readJSON(t, path)
	hooks := settings["hooks"].(map[string]any)
	if stop := hooks["Stop"].([]any); len(stop) != 1 {
		t.Errorf("Stop entries = %d, want 1", len(stop))
	}
	if _, ok := hooks["SubagentStop"]; ok {
		t.Error("empty SubagentStop array not removed")
	}
}

func TestUninstall_CleansEmptyHooksMap(t *testing.T) {
	path := settingsFile(t)
	if _, err := Install(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Uninstall(path); err != nil {
		t.Fatal(err)
	}
	if _, ok := readJSON(t, path)["hooks"]; ok {
		t.Error("empty hooks map not removed")
	}
}

func TestUninstall_NotInstalled(t *testing.T) {
	path := settingsFile(t)
	changed, err := Uninstall(path)
	if err != nil || changed {
		t.Errorf("Uninstall = %v, %v; want false, nil", changed, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("uninstall created a settings file")
	}
}
