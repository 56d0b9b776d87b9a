package patterns

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/suykerbuyk/vibe-context/internal/activity"
)

func valuesOf(facts []activity.Fact, kind activity.FactKind) []string {
	out := []string{}
	for _, f := range facts {
		if f.Kind == kind {
			out = append(out, f.Value)
		}
	}
	return out
}

func TestExtract_Tools(t *testing.T) {
	text := `I ran Read(file_path="/a.go") then Edit(file_path="/a.go") and Edit(file_path="/b.go").
Also called mcp__github__create_issue.`
	facts, faults := Extract(text)
	if len(faults) != 0 {
		t.Fatalf("faults: %v", faults)
	}
	want := []string{"Read", "Edit", "github:create_issue"}
	if diff := cmp.Diff(want, valuesOf(facts, activity.FactTool)); diff != "" {
		t.Errorf("tools (-want +got):\n%s", diff)
	}
}

func TestExtract_Files(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"verb prefix", "I modified src/auth.py to add checks.", []string{"src/auth.py"}},
		{"file label", "File: config/app.yaml", []string{"config/app.yaml"}},
		{"verb suffix", "handler.go updated with retries", []string{"handler.go"}},
		{"backticks", "See `internal/x/y.ts` for details", []string{"internal/x/y.ts"}},
		{"dedup within mode", "created `a.md` and created a.md", []string{"a.md"}},
		{"version rejected", "updated 1.2.3 release and created v2.0.1", []string{}},
		{"url rejected", "created http.example.com and `www.site.org`", []string{}},
		{"file prefix allowed", "created file.py", []string{"file.py"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, _ := Extract(tt.text)
			if diff := cmp.Diff(tt.want, valuesOf(facts, activity.FactFile)); diff != "" {
				t.Errorf("files (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"main.go", true},
		{"./src/app.tsx", true},
		{"~/notes/today.md", true},
		{"3.14", false},
		{"1.2.3", false},
		{"v1.20", false},
		{"https.proxy", false},
		{"README", false},
		{"some path.txt", false},
	}
	for _, tt := range tests {
		if got := IsFilePath(tt.token); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestExtract_Commands(t *testing.T) {
	text := "Bash(command=\"go test ./...\")\n" +
		"```bash\nnpm run lint\n```\n" +
		"Running: make build\n" +
		"Executing: make build\n"
	facts, _ := Extract(text)
	want := []string{"go test ./...", "npm run lint", "make build"}
	if diff := cmp.Diff(want, valuesOf(facts, activity.FactCommand)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}

func TestExtract_Errors(t *testing.T) {
	text := "TypeError: x is undefined\nError: build broke\nFAILED tests/test_a.py::test_one\nerror: linker failed\n✗ lint"
	facts, _ := Extract(text)
	want := []string{
		"Error: build broke",
		"TypeError: x is undefined",
		"error: linker failed",
		"FAILED tests/test_a.py::test_one",
		"✗ lint",
	}
	if diff := cmp.Diff(want, valuesOf(facts, activity.FactError)); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
}

func TestExtract_TestResults(t *testing.T) {
	facts, _ := Extract("Ran suite: 12 tests passed, 2 tests failed, 1 test skipped. Coverage: 87.5%. Later 99 tests passed.")

	got := map[activity.FactKind][]float64{}
	for _, f := range facts {
		switch f.Kind {
		case activity.FactTestPassed, activity.FactTestFailed, activity.FactTestSkipped, activity.FactCoverage:
			got[f.Kind] = append(got[f.Kind], f.Number)
		}
	}
	want := map[activity.FactKind][]float64{
		activity.FactTestPassed:  {12},
		activity.FactTestFailed:  {2},
		activity.FactTestSkipped: {1},
		activity.FactCoverage:    {87.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("test facts (-want +got):\n%s", diff)
	}
}

func TestExtract_PytestSummary(t *testing.T) {
	facts, _ := Extract("===== 3 passed, 1 failed in 0.12s =====")
	var passed, failed float64
	for _, f := range facts {
		switch f.Kind {
		case activity.FactTestPassed:
			passed = f.Number
		case activity.FactTestFailed:
			failed = f.Number
		}
	}
	if passed != 3 || failed != 1 {
		t.Errorf("passed=%v failed=%v, want 3 and 1", passed, failed)
	}
}

func TestExtract_GitOperations(t *testing.T) {
	facts, _ := Extract("Ran git commit -m 'x' then git push origin main. Committed the change. Opened gh pr create. The git repository is clean.")
	want := []string{"git commit", "git push", "git commit", "gh pr"}
	if diff := cmp.Diff(want, valuesOf(facts, activity.FactGitOp)); diff != "" {
		t.Errorf("git (-want +got):\n%s", diff)
	}
}

func TestExtract_Success(t *testing.T) {
	facts, _ := Extract("✓ build ok\nSuccessfully deployed\n4 tests passed\nAll checks passed")
	// Test counts belong to test_results, not to success indicators.
	want := []string{"✓ build ok", "Successfully deployed", "All checks passed"}
	if diff := cmp.Diff(want, valuesOf(facts, activity.FactSuccess)); diff != "" {
		t.Errorf("success (-want +got):\n%s", diff)
	}
}

func TestScoreKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"none", "nothing to see here", ""},
		{"fixed wins", "Fixed the bug, resolved the crash, and updated docs.", activity.KeywordFixed},
		{"counts occurrences", "Reviewed a. Reviewed b. Created c.", activity.KeywordAnalyzed},
		// One hit each for created and fixed: the earlier category wins.
		{"tie goes to earlier category", "Fixed it and created it.", activity.KeywordCreated},
		{"tie modified vs documented", "documented and updated", activity.KeywordModified},
		{"word boundary", "padded and embedded", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreKeywords(tt.text); got != tt.want {
				t.Errorf("ScoreKeywords(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"# Heading\nSome intro text that is long enough\nAll work completed.", "All work completed."},
		{"# Heading\nshort\nA meaningful line with more than twenty chars", "A meaningful line with more than twenty chars"},
		{"tiny", ""},
	}
	for _, tt := range tests {
		if got := Summary(tt.text); got != tt.want {
			t.Errorf("Summary(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestApply_GroupFaultIsolated(t *testing.T) {
	groups := []Group{
		{
			Name: "broken",
			Rules: []Rule{{
				Kind:    activity.FactTool,
				Pattern: regexp.MustCompile(`boom`),
				Accept:  func(string) bool { panic("bad rule") },
			}},
		},
		{
			Name:  "ok",
			Rules: []Rule{{Kind: activity.FactTool, Pattern: regexp.MustCompile(`Bash`)}},
		},
	}
	facts, faults := Apply(groups, "boom Bash")
	if len(faults) != 1 {
		t.Fatalf("expected 1 fault, got %v", faults)
	}
	if diff := cmp.Diff([]string{"Bash"}, valuesOf(facts, activity.FactTool)); diff != "" {
		t.Errorf("facts (-want +got):\n%s", diff)
	}
}

func TestToolName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Bash", "Bash"},
		{"mcp__github__create_issue", "github:create_issue"},
		{"mcp__claude_ai_Notion__search", "claude_ai_Notion:search"},
		{"mcp__broken", "mcp__broken"},
	}
	for _, tt := range tests {
		if got := ToolName(tt.in); got != tt.want {
			t.Errorf("ToolName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
