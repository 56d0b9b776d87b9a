package activity

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Primary activity labels.
const (
	ErrorEncountered       = "error_encountered"
	TestsFailed            = "tests_failed"
	TestsPassed            = "tests_passed"
	GitCommit              = "git_commit"
	GitPush                = "git_push"
	GitStaging             = "git_staging"
	GitOperation           = "git_operation"
	Linting                = "linting"
	Testing                = "testing"
	Building               = "building"
	InstallingDependencies = "installing_dependencies"
	UpdatedDocumentation   = "updated_documentation"
	UpdatedConfiguration   = "updated_configuration"
	CreatedFiles           = "created_files"
	ModifiedFiles          = "modified_files"
	RanCommands            = "ran_commands"
	CompletedTask          = "completed_task"
	General                = "general"
)

// commandFamily maps keywords found in a shell command to a label.
type commandFamily struct {
	label   string
	pattern *regexp.Regexp
}

var commandFamilies = []commandFamily{
	{Linting, regexp.MustCompile(`\b(?:lint|ruff|eslint|flake8|pylint|shellcheck|golangci-lint|go vet)\b`)},
	{Testing, regexp.MustCompile(`\b(?:test|tests|pytest|jest|vitest|mocha)\b`)},
	{Building, regexp.MustCompile(`\b(?:build|compile|make|tsc|webpack)\b`)},
	{InstallingDependencies, regexp.MustCompile(`\b(?:install|npm i|go get|yarn add|pnpm add|uv add|cargo add)\b`)},
}

// fileFamily maps file extensions to a label.
type fileFamily struct {
	label string
	exts  []string
}

// Order matters: source languages, then scripting and markup, then
// documentation, then configuration.
var fileFamilies = []fileFamily{
	{"modified_python", []string{".py", ".pyi"}},
	{"modified_javascript", []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}},
	{"modified_go", []string{".go"}},
	{"modified_rust", []string{".rs"}},
	{"modified_java", []string{".java", ".kt"}},
	{"modified_cpp", []string{".c", ".h", ".cc", ".cpp", ".hpp"}},
	{"modified_ruby", []string{".rb"}},
	{"modified_shell", []string{".sh", ".bash", ".zsh", ".fish"}},
	{"modified_web", []string{".html", ".htm", ".css", ".scss", ".vue", ".svelte"}},
	{"modified_sql", []string{".sql"}},
	{UpdatedDocumentation, []string{".md", ".markdown", ".txt", ".rst", ".adoc"}},
	{UpdatedConfiguration, []string{".yml", ".yaml", ".json", ".toml", ".ini"}},
}

// creationTools produce new files rather than editing existing ones.
var creationTools = []string{"Write"}

// Classify picks the primary activity for c. Rules are evaluated in order
// and the first match wins: errors, tests, git, command families, file
// families, plain commands, success phrases, free-text keyword, general.
func Classify(c *Context) string {
	if c == nil {
		return General
	}

	if len(c.ErrorsEncountered) > 0 && len(c.SuccessIndicators) == 0 {
		return ErrorEncountered
	}

	if c.TestResults != nil {
		if TestsFailing(c.TestResults) {
			return TestsFailed
		}
		return TestsPassed
	}

	if len(c.GitOperations) > 0 {
		return classifyGit(c.GitOperations)
	}

	if len(c.CommandsRun) > 0 {
		if label := classifyCommands(c.CommandsRun); label != "" {
			return label
		}
	}

	if len(c.FilesModified) > 0 {
		return classifyFiles(c)
	}

	if len(c.CommandsRun) > 0 {
		return RanCommands
	}

	if len(c.SuccessIndicators) > 0 {
		return CompletedTask
	}

	if c.Keyword != "" {
		return c.Keyword
	}

	return General
}

// TestsFailing reports whether test results show a failure: a nonzero
// failed count or a raw phrase reporting failure.
func TestsFailing(tr *TestResults) bool {
	if tr == nil {
		return false
	}
	if tr.Failed != nil && *tr.Failed > 0 {
		return true
	}
	return FailurePhrase(tr.Raw)
}

// FailurePhrase reports whether a test phrase mentions failure.
func FailurePhrase(phrase string) bool {
	return strings.Contains(strings.ToLower(phrase), "fail")
}

func classifyGit(ops []string) string {
	var commit, push, stage bool
	for _, op := range ops {
		switch gitVerb(op) {
		case "commit":
			commit = true
		case "push":
			push = true
		case "add", "stage":
			stage = true
		}
	}
	switch {
	case commit:
		return GitCommit
	case push:
		return GitPush
	case stage:
		return GitStaging
	}
	return GitOperation
}

// gitVerb returns the verb of a "git <verb>" operation, or "" for other
// prefixes such as gh.
func gitVerb(op string) string {
	fields := strings.Fields(op)
	if len(fields) < 2 || fields[0] != "git" {
		return ""
	}
	return strings.ToLower(fields[1])
}

func classifyCommands(cmds []string) string {
	for _, fam := range commandFamilies {
		for _, cmd := range cmds {
			if fam.pattern.MatchString(strings.ToLower(cmd)) {
				return fam.label
			}
		}
	}
	return ""
}

func classifyFiles(c *Context) string {
	for _, fam := range fileFamilies {
		for _, f := range c.FilesModified {
			ext := strings.ToLower(filepath.Ext(f))
			for _, e := range fam.exts {
				if ext == e {
					return fam.label
				}
			}
		}
	}
	for _, t := range creationTools {
		if c.HasTool(t) {
			return CreatedFiles
		}
	}
	return ModifiedFiles
}
