package patterns

import (
	"regexp"
	"strings"

	"github.com/suykerbuyk/vibe-context/internal/activity"
)

const toolNames = `Read|Write|Edit|MultiEdit|NotebookEdit|Bash|Grep|Glob|LS|WebFetch|WebSearch|Task|TodoWrite`

// pathToken is an extension-bearing token built from path-safe characters.
const pathToken = `([\w\-./~]+\.\w+)`

// Groups are evaluated in this order.
var Groups = []Group{
	{
		Name:   "tools",
		Unique: true,
		Rules: []Rule{
			{Kind: activity.FactTool, Pattern: regexp.MustCompile(`\b(` + toolNames + `)\(`), Group: 1},
			{Kind: activity.FactTool, Pattern: regexp.MustCompile(`"(?:name|tool)":\s*"(` + toolNames + `)"`), Group: 1},
			{Kind: activity.FactTool, Pattern: regexp.MustCompile(`\b(mcp__\w+?__\w+)`), Group: 1, Transform: ToolName},
		},
	},
	{
		Name:   "files",
		Unique: true,
		Rules: []Rule{
			{Kind: activity.FactFile, Pattern: regexp.MustCompile(`(?i)\b(?:modified|created|updated|wrote to|edited) ` + "`?" + pathToken), Group: 1, Accept: IsFilePath},
			{Kind: activity.FactFile, Pattern: regexp.MustCompile(`File: ` + pathToken), Group: 1, Accept: IsFilePath},
			{Kind: activity.FactFile, Pattern: regexp.MustCompile(pathToken + `\s+(?:modified|created|updated)`), Group: 1, Accept: IsFilePath},
			{Kind: activity.FactFile, Pattern: regexp.MustCompile("`" + pathToken + "`"), Group: 1, Accept: IsFilePath},
			{Kind: activity.FactFile, Pattern: regexp.MustCompile(`\b(?:Edit|Write|MultiEdit)\((?:file_path=)?"?` + pathToken), Group: 1, Accept: IsFilePath},
		},
	},
	{
		Name:   "commands",
		Unique: true,
		Rules: []Rule{
			{Kind: activity.FactCommand, Pattern: regexp.MustCompile(`Bash\(command="([^"]+)"`), Group: 1},
			{Kind: activity.FactCommand, Pattern: regexp.MustCompile("(?s)```(?:bash|sh|shell|zsh|console)\\n(.+?)\\n```"), Group: 1},
			{Kind: activity.FactCommand, Pattern: regexp.MustCompile(`\b(?:Running|Executing): ([^\n]+)`), Group: 1},
		},
	},
	{
		Name:   "errors",
		Unique: true,
		Rules: []Rule{
			{Kind: activity.FactError, Pattern: regexp.MustCompile(`\b((?:Error|Exception|Failed|Failure):[^\n]+)`), Group: 1},
			{Kind: activity.FactError, Pattern: regexp.MustCompile(`\b(\w+(?:Error|Exception):[^\n]+)`), Group: 1},
			{Kind: activity.FactError, Pattern: regexp.MustCompile(`(?m)^((?:error|fatal): [^\n]+)`), Group: 1},
			{Kind: activity.FactError, Pattern: regexp.MustCompile(`\b(FAILED\b[^\n]*)`), Group: 1},
			{Kind: activity.FactError, Pattern: regexp.MustCompile(`(✗[^\n]+)`), Group: 1},
			{Kind: activity.FactError, Pattern: regexp.MustCompile(`(Traceback \(most recent call last\))`), Group: 1},
			{Kind: activity.FactError, Pattern: regexp.MustCompile(`\b(panic: [^\n]+)`), Group: 1},
		},
	},
	{
		Name:  "tests",
		Rules: TestRules,
	},
	{
		Name: "git",
		Rules: []Rule{
			{
				Kind:    activity.FactGitOp,
				Pattern: regexp.MustCompile(`(?i)\bgit (commit|push|pull|merge|checkout|add|stage|rebase|stash|fetch|branch|tag|reset|clone|init|restore|switch|cherry-pick|revert)\b`),
				Group:   1,
				Lower:   true,
				Format:  "git %s",
			},
			{
				Kind:    activity.FactGitOp,
				Pattern: regexp.MustCompile(`(?i)\b(committed|pushed|pulled|merged)\b`),
				Group:   1,
				Lower:   true,
				Map: map[string]string{
					"committed": "git commit",
					"pushed":    "git push",
					"pulled":    "git pull",
					"merged":    "git merge",
				},
			},
			{Kind: activity.FactGitOp, Pattern: regexp.MustCompile(`\bgh (pr|issue|release|repo)\b`), Group: 1, Format: "gh %s"},
		},
	},
	{
		Name: "success",
		Rules: []Rule{
			{Kind: activity.FactSuccess, Pattern: regexp.MustCompile(`✓ [^\n]+`)},
			{Kind: activity.FactSuccess, Pattern: regexp.MustCompile(`\bSuccessfully [^\n]+`)},
			{Kind: activity.FactSuccess, Pattern: regexp.MustCompile(`\bCompleted [^\n]+`)},
			{Kind: activity.FactSuccess, Pattern: regexp.MustCompile(`All checks passed`)},
		},
	},
}

// TestRules match test counts and phrases. Every sub-field is tried
// independently, so several can populate from the same text. They are
// shared with tool-result scanning in structured mode.
var TestRules = []Rule{
	{Kind: activity.FactTestPassed, Pattern: regexp.MustCompile(`(?i)\b(\d+) tests? passed`), Extract: Number, Group: 1},
	{Kind: activity.FactTestPassed, Pattern: regexp.MustCompile(`(?i)\b(\d+) passed(?:,|\s+in\b)`), Extract: Number, Group: 1},
	{Kind: activity.FactTestFailed, Pattern: regexp.MustCompile(`(?i)\b(\d+) tests? failed`), Extract: Number, Group: 1},
	{Kind: activity.FactTestFailed, Pattern: regexp.MustCompile(`(?i)\b(\d+) failed(?:,|\s+in\b)`), Extract: Number, Group: 1},
	{Kind: activity.FactTestSkipped, Pattern: regexp.MustCompile(`(?i)\b(\d+) tests? skipped`), Extract: Number, Group: 1},
	{Kind: activity.FactCoverage, Pattern: regexp.MustCompile(`(?i)\bcoverage:?\s*(\d+(?:\.\d+)?)%`), Extract: Number, Group: 1},
	{Kind: activity.FactTestPhrase, Pattern: regexp.MustCompile(`(?i)\ball tests passed\b`), Extract: FirstCapture},
	{Kind: activity.FactTestPhrase, Pattern: regexp.MustCompile(`(?i)\btests? (?:failed|failing)\b`), Extract: FirstCapture},
}

var (
	filePathPattern = regexp.MustCompile(`^[\w\-./~]+\.\w+$`)
	versionPattern  = regexp.MustCompile(`^v?\d+\.\d+`)
)

// IsFilePath reports whether token looks like a file path rather than a
// version number or URL fragment.
func IsFilePath(token string) bool {
	if !filePathPattern.MatchString(token) {
		return false
	}
	if versionPattern.MatchString(token) {
		return false
	}
	lower := strings.ToLower(token)
	return !strings.HasPrefix(lower, "http") && !strings.HasPrefix(lower, "www.")
}

// ToolName normalizes a tool identifier. MCP tools named
// mcp__<server>__<tool> become <server>:<tool>; other names pass through.
func ToolName(name string) string {
	rest, ok := strings.CutPrefix(name, "mcp__")
	if !ok {
		return name
	}
	server, tool, ok := strings.Cut(rest, "__")
	if !ok || server == "" || tool == "" {
		return name
	}
	return server + ":" + tool
}
