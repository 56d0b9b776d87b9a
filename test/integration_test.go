package test

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// vctxBinary is the path to the compiled vctx binary, set by TestMain.
var vctxBinary string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	tmpDir, err := os.MkdirTemp("", "vctx-integration-build-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	vctxBinary = filepath.Join(tmpDir, "vctx")
	cmd := exec.Command("go", "build", "-o", vctxBinary, "./cmd/vctx")
	// Test working dir is test/, so go up one level to project root
	cmd.Dir = filepath.Join("..")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build vctx binary: %v\n", err)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// --- Fixtures ---

// fixtureTests: a turn that runs the Go tests and sees them pass.
const fixtureTests = `{"type":"user","message":{"role":"user","content":"Run the tests please"}}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"Running the suite."},{"type":"tool_use","id":"tu1","name":"Bash","input":{"command":"go test ./..."}}]}}
{"type":"tool_result","output":"ok  \tgithub.com/x/y\t0.2s\n15 tests passed"}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"All green."}]}}
`

// fixtureFeature: a turn that writes one Go file.
const fixtureFeature = `{"type":"user","uuid":"a","sessionId":"sess-1","cwd":"/tmp/proj","message":{"role":"user","content":"Implement feature X"}}
{"type":"assistant","uuid":"b","sessionId":"sess-1","cwd":"/tmp/proj","message":{"role":"assistant","content":[{"type":"text","text":"I'll implement feature X."},{"type":"tool_use","id":"tu1","name":"Write","input":{"file_path":"/tmp/proj/x.go","content":"package x"}}]}}
{"type":"user","uuid":"c","sessionId":"sess-1","cwd":"/tmp/proj","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"tu1","content":"File created successfully at: /tmp/proj/x.go"}]}}
{"type":"user","uuid":"d","sessionId":"sess-1","cwd":"/tmp/proj","message":{"role":"user","content":"Looks good, thanks"}}
{"type":"assistant","uuid":"e","sessionId":"sess-1","cwd":"/tmp/proj","message":{"role":"assistant","content":[{"type":"text","text":"Done!"}]}}
`

// --- Helpers ---

// result mirrors the JSON document vctx prints.
type result struct {
	FilesModified     []string `json:"files_modified"`
	CommandsRun       []string `json:"commands_run"`
	ToolsUsed         []string `json:"tools_used"`
	GitOperations     []string `json:"git_operations"`
	TestResults       *struct {
		Passed *int `json:"passed"`
		Failed *int `json:"failed"`
	} `json:"test_results"`
	ErrorsEncountered []string `json:"errors_encountered"`
	SuccessIndicators []string `json:"success_indicators"`
	PrimaryActivity   string   `json:"primary_activity"`
	LastUserRequest   string   `json:"last_user_request"`
	TaskSummary       string   `json:"task_summary"`
	ProjectName       string   `json:"project_name"`
	Success           bool     `json:"success"`
	EventType         string   `json:"event_type"`
}

type env struct {
	home string
	xdg  string
	vars []string
}

func newEnv(t *testing.T) env {
	t.Helper()
	e := env{home: t.TempDir(), xdg: t.TempDir()}
	e.vars = []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.home,
		"XDG_CONFIG_HOME=" + e.xdg,
	}
	return e
}

func (e env) writeConfig(t *testing.T, content string) {
	t.Helper()
	writeFile(t, filepath.Join(e.xdg, "vibe-context"), "config.toml", content)
}

func runVctx(t *testing.T, e env, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command(vctxBinary, args...)
	cmd.Env = e.vars
	cmd.Dir = e.home
	cmd.Stdin = strings.NewReader(stdin)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func mustRunVctx(t *testing.T, e env, stdin string, args ...string) string {
	t.Helper()
	stdout, stderr, err := runVctx(t, e, stdin, args...)
	if err != nil {
		t.Fatalf("vctx %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

func decode(t *testing.T, out string) result {
	t.Helper()
	var r result
	require.NoError(t, json.Unmarshal([]byte(out), &r), "output: %s", out)
	return r
}

func writeFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- Tests ---

func TestVersion(t *testing.T) {
	out := mustRunVctx(t, newEnv(t), "", "version")
	if !strings.HasPrefix(out, "vctx ") {
		t.Errorf("version output = %q", out)
	}
}

func TestHelp(t *testing.T) {
	out := mustRunVctx(t, newEnv(t), "", "--help")
	for _, want := range []string{"vctx extract", "vctx hook", "vctx check"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}

	out = mustRunVctx(t, newEnv(t), "", "extract", "--help")
	if !strings.Contains(out, "--no-helper") {
		t.Errorf("extract help missing flags:\n%s", out)
	}
}

func TestExtract_Log(t *testing.T) {
	e := newEnv(t)
	path := writeFile(t, t.TempDir(), "session.jsonl", fixtureTests)

	r := decode(t, mustRunVctx(t, e, "", "extract", "--log", path, "--project", "demo"))

	if r.PrimaryActivity != "tests_passed" || r.EventType != "test_success" {
		t.Errorf("got %s/%s, want tests_passed/test_success", r.PrimaryActivity, r.EventType)
	}
	if r.TestResults == nil || r.TestResults.Passed == nil || *r.TestResults.Passed != 15 {
		t.Errorf("test_results = %+v, want passed 15", r.TestResults)
	}
	if diff := cmp.Diff([]string{"go test ./..."}, r.CommandsRun); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
	if r.LastUserRequest != "Run the tests please" {
		t.Errorf("last_user_request = %q", r.LastUserRequest)
	}
	if r.ProjectName != "demo" || !r.Success {
		t.Errorf("project %q success %v", r.ProjectName, r.Success)
	}
}

func TestExtract_HelperMatchesInProcess(t *testing.T) {
	e := newEnv(t)
	path := writeFile(t, t.TempDir(), "session.jsonl", fixtureTests)

	with := mustRunVctx(t, e, "", "extract", "--log", path, "--project", "demo", "--window", "3")
	without := mustRunVctx(t, e, "", "extract", "--log", path, "--project", "demo", "--window", "3", "--no-helper")
	if with != without {
		t.Errorf("helper and in-process output differ:\n%s\n---\n%s", with, without)
	}
}

func TestExtract_ArchivedLog(t *testing.T) {
	e := newEnv(t)
	src := writeFile(t, t.TempDir(), "session.jsonl", fixtureTests)
	dest := t.TempDir()

	out := mustRunVctx(t, e, "", "archive", src, dest)
	if !strings.Contains(out, "session.jsonl.zst") {
		t.Fatalf("archive output = %q", out)
	}
	archived := filepath.Join(dest, "session.jsonl.zst")

	plain := mustRunVctx(t, e, "", "extract", "--log", src, "--project", "demo")
	packed := mustRunVctx(t, e, "", "extract", "--log", archived, "--project", "demo")
	if plain != packed {
		t.Errorf("archived log extracts differently:\n%s\n---\n%s", plain, packed)
	}
}

func TestExtract_MissingLog(t *testing.T) {
	e := newEnv(t)
	out := mustRunVctx(t, e, "", "extract", "--log", filepath.Join(t.TempDir(), "gone.jsonl"), "--project", "demo")

	r := decode(t, out)
	if !r.Success || r.PrimaryActivity != "general" || r.EventType != "general" {
		t.Errorf("missing log = %+v, want empty successful context", r)
	}
	if r.FilesModified == nil || r.ErrorsEncountered == nil {
		t.Error("collections must encode as empty arrays")
	}
}

func TestExtract_TextStdin(t *testing.T) {
	e := newEnv(t)
	r := decode(t, mustRunVctx(t, e, "Error: connection refused\n", "extract", "--project", "demo"))

	if r.Success {
		t.Error("success = true with an error present")
	}
	if r.PrimaryActivity != "error_encountered" || r.EventType != "error" {
		t.Errorf("got %s/%s, want error_encountered/error", r.PrimaryActivity, r.EventType)
	}
	if diff := cmp.Diff([]string{"Error: connection refused"}, r.ErrorsEncountered); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
}

func TestExtract_EmptyStdin(t *testing.T) {
	r := decode(t, mustRunVctx(t, newEnv(t), "", "extract", "--project", "demo"))
	if !r.Success || r.PrimaryActivity != "general" {
		t.Errorf("empty input = %+v", r)
	}
}

func TestExtract_YAML(t *testing.T) {
	out := mustRunVctx(t, newEnv(t), "", "extract", "--project", "demo", "--format", "yaml")
	for _, want := range []string{"primary_activity: general", "event_type: general", "project_name: demo"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestExtract_BadFormat(t *testing.T) {
	_, stderr, err := runVctx(t, newEnv(t), "", "extract", "--format", "xml")
	if err == nil {
		t.Fatal("expected failure for unknown format")
	}
	if !strings.Contains(stderr, "unknown output format") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestExtract_WindowOutOfRange(t *testing.T) {
	for _, w := range []string{"-1", "1125899906842624"} {
		_, stderr, err := runVctx(t, newEnv(t), "", "extract", "--window", w)
		if err == nil {
			t.Fatalf("--window %s: expected failure", w)
		}
		if !strings.Contains(stderr, "out of range") {
			t.Errorf("--window %s: stderr = %q", w, stderr)
		}
	}
}

func TestExtract_BrokenConfigFallsBack(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "[extract\n")

	r := decode(t, mustRunVctx(t, e, "", "extract", "--project", "demo"))
	if !r.Success {
		t.Errorf("broken config should fall back to defaults: %+v", r)
	}
}

func TestHook_DeliversToSink(t *testing.T) {
	e := newEnv(t)
	transcript := writeFile(t, t.TempDir(), "t.jsonl", fixtureFeature)
	outDir := t.TempDir()
	resultOut := filepath.Join(outDir, "result.json")
	speechOut := filepath.Join(outDir, "speech.json")

	e.writeConfig(t, fmt.Sprintf(`
[[sinks]]
name = "record"
command = ["sh", "-c", "cat > %s"]

[[sinks]]
name = "speech"
command = ["sh", "-c", "cat > %s"]
format = "notification"
voice = "nova"
language = "en"

[[sinks]]
name = "broken"
command = ["sh", "-c", "exit 3"]
`, resultOut, speechOut))

	stdin := fmt.Sprintf(`{"session_id":"sess-1","transcript_path":%q,"hook_event_name":"Stop","cwd":"/nonexistent/work/feature-x"}`, transcript)
	out := mustRunVctx(t, e, stdin, "hook")

	r := decode(t, out)
	if diff := cmp.Diff([]string{"x.go"}, r.FilesModified); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
	if r.ProjectName != "feature-x" || r.TaskSummary != "Done!" {
		t.Errorf("project %q summary %q", r.ProjectName, r.TaskSummary)
	}

	data, err := os.ReadFile(resultOut)
	require.NoError(t, err)
	var envelope struct {
		result
		Tone string `json:"tone"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	if envelope.EventType != r.EventType || envelope.Tone == "" {
		t.Errorf("result sink got event %q tone %q", envelope.EventType, envelope.Tone)
	}

	data, err = os.ReadFile(speechOut)
	require.NoError(t, err)
	var note map[string]string
	require.NoError(t, json.Unmarshal(data, &note))
	want := map[string]string{
		"message":  "Done!",
		"voice":    "nova",
		"style":    "friendly and casual",
		"language": "en",
	}
	if diff := cmp.Diff(want, note); diff != "" {
		t.Errorf("notification (-want +got):\n%s", diff)
	}
}

func TestHook_GarbageInput(t *testing.T) {
	e := newEnv(t)
	r := decode(t, mustRunVctx(t, e, "not json at all", "hook"))
	if r.EventType == "" {
		t.Error("hook must always print a result")
	}
}

func TestHookInstallUninstall(t *testing.T) {
	e := newEnv(t)
	settings := filepath.Join(e.home, ".claude", "settings.json")

	out := mustRunVctx(t, e, "", "hook", "install")
	if !strings.Contains(out, "installed") {
		t.Errorf("install output = %q", out)
	}
	data, err := os.ReadFile(settings)
	require.NoError(t, err)
	for _, event := range []string{"Stop", "SubagentStop"} {
		if !strings.Contains(string(data), event) {
			t.Errorf("settings missing %s:\n%s", event, data)
		}
	}

	out = mustRunVctx(t, e, "", "hook", "install")
	if !strings.Contains(out, "already present") {
		t.Errorf("second install output = %q", out)
	}

	out = mustRunVctx(t, e, "", "check")
	if !strings.Contains(out, "pass  hook") {
		t.Errorf("check should pass the hook:\n%s", out)
	}

	out = mustRunVctx(t, e, "", "hook", "uninstall")
	if !strings.Contains(out, "removed") {
		t.Errorf("uninstall output = %q", out)
	}
	data, err = os.ReadFile(settings)
	require.NoError(t, err)
	if strings.Contains(string(data), "vctx hook") {
		t.Errorf("hook still present after uninstall:\n%s", data)
	}
}

func TestConfigInit(t *testing.T) {
	e := newEnv(t)
	out := mustRunVctx(t, e, "", "config", "init")
	if !strings.Contains(out, "wrote") {
		t.Errorf("config init output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(e.xdg, "vibe-context", "config.toml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	out = mustRunVctx(t, e, "", "config", "init")
	if !strings.Contains(out, "already exists") {
		t.Errorf("second config init output = %q", out)
	}

	// The written template must load cleanly.
	r := decode(t, mustRunVctx(t, e, "", "extract", "--project", "demo"))
	if !r.Success {
		t.Errorf("default config broke extraction: %+v", r)
	}
}

func TestCheck_FailingSink(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, `
[[sinks]]
name = "tts"
command = ["vctx-no-such-binary"]
`)
	stdout, _, err := runVctx(t, e, "", "check")
	if err == nil {
		t.Fatalf("check should exit nonzero:\n%s", stdout)
	}
	if !strings.Contains(stdout, "FAIL  sink:tts") {
		t.Errorf("check output:\n%s", stdout)
	}
}

func TestExtract_SessionAndLatest(t *testing.T) {
	e := newEnv(t)
	const id = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	archiveDir := filepath.Join(e.home, "archive")
	e.writeConfig(t, fmt.Sprintf("[archive]\ndir = %q\n", archiveDir))

	src := writeFile(t, t.TempDir(), id+".jsonl", fixtureTests)
	mustRunVctx(t, e, "", "archive", src)

	want := mustRunVctx(t, e, "", "extract", "--log", src, "--project", "demo")
	got := mustRunVctx(t, e, "", "extract", "--session", id, "--project", "demo")
	if got != want {
		t.Errorf("--session output differs:\n%s\n---\n%s", want, got)
	}

	writeFile(t, filepath.Join(e.home, ".claude", "projects", "-home-dev-demo"), id+".jsonl", fixtureFeature)
	r := decode(t, mustRunVctx(t, e, "", "extract", "--latest", "--project", "demo"))
	if diff := cmp.Diff([]string{"x.go"}, r.FilesModified); diff != "" {
		t.Errorf("--latest files (-want +got):\n%s", diff)
	}

	if _, _, err := runVctx(t, e, "", "extract", "--session", "00000000-0000-0000-0000-000000000000"); err == nil {
		t.Error("unknown session should fail")
	}
}
