package activity

// TestResults holds counts parsed from test output. A nil count means the
// phrase for that count was never seen.
type TestResults struct {
	Passed      *int     `json:"passed,omitempty" yaml:"passed,omitempty"`
	Failed      *int     `json:"failed,omitempty" yaml:"failed,omitempty"`
	Skipped     *int     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	CoveragePct *float64 `json:"coverage_pct,omitempty" yaml:"coverage_pct,omitempty"`
	Raw         string   `json:"raw,omitempty" yaml:"raw,omitempty"` // display fallback when nothing numeric matched
}

// HasCounts reports whether any numeric sub-field is populated.
func (r *TestResults) HasCounts() bool {
	return r != nil && (r.Passed != nil || r.Failed != nil || r.Skipped != nil || r.CoveragePct != nil)
}

// Context is the normalized summary of what a session just did.
// Collections are never nil.
type Context struct {
	FilesModified     []string     `json:"files_modified" yaml:"files_modified"`
	CommandsRun       []string     `json:"commands_run" yaml:"commands_run"`
	ToolsUsed         []string     `json:"tools_used" yaml:"tools_used"`
	GitOperations     []string     `json:"git_operations" yaml:"git_operations"`
	TestResults       *TestResults `json:"test_results" yaml:"test_results"`
	ErrorsEncountered []string     `json:"errors_encountered" yaml:"errors_encountered"`
	SuccessIndicators []string     `json:"success_indicators" yaml:"success_indicators"`
	PrimaryActivity   string       `json:"primary_activity" yaml:"primary_activity"`
	LastUserRequest   string       `json:"last_user_request" yaml:"last_user_request"`
	TaskSummary       string       `json:"task_summary" yaml:"task_summary"`
	ProjectName       string       `json:"project_name" yaml:"project_name"`
	Success           bool         `json:"success" yaml:"success"`

	// Keyword is the dominant activity-keyword category scored from free
	// text (created, modified, fixed, ...). Empty in structured mode.
	Keyword string `json:"activity_keyword,omitempty" yaml:"activity_keyword,omitempty"`
}

// Result is the document handed to downstream notifiers.
type Result struct {
	Context   `yaml:",inline"`
	EventType EventType `json:"event_type" yaml:"event_type"`
}

// FactKind tags one atomic observation produced by either extraction mode.
type FactKind int

const (
	FactFile FactKind = iota
	FactCommand
	FactTool
	FactGitOp
	FactError
	FactSuccess
	FactTestPassed
	FactTestFailed
	FactTestSkipped
	FactCoverage
	FactTestPhrase
	FactUserRequest
	FactSummary
	FactKeyword
)

var factNames = map[FactKind]string{
	FactFile:        "file",
	FactCommand:     "command",
	FactTool:        "tool",
	FactGitOp:       "git",
	FactError:       "error",
	FactSuccess:     "success",
	FactTestPassed:  "tests_passed",
	FactTestFailed:  "tests_failed",
	FactTestSkipped: "tests_skipped",
	FactCoverage:    "coverage",
	FactTestPhrase:  "test_phrase",
	FactUserRequest: "user_request",
	FactSummary:     "summary",
	FactKeyword:     "keyword",
}

func (k FactKind) String() string {
	if s, ok := factNames[k]; ok {
		return s
	}
	return "unknown"
}

// Fact is one atomic observation. Value carries the text payload, Number the
// numeric payload for test counts and coverage, Tool the tool that produced
// a file fact.
type Fact struct {
	Kind   FactKind
	Value  string
	Number float64
	Tool   string
}
