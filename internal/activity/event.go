package activity

// EventType is the coarse tone-selection label for downstream notifiers.
type EventType string

const (
	EventError        EventType = "error"
	EventTestSuccess  EventType = "test_success"
	EventTestFailure  EventType = "test_failure"
	EventGitOperation EventType = "git_operation"
	EventBugFix       EventType = "bug_fix"
	EventCreation     EventType = "creation"
	EventSuccess      EventType = "success"
	EventGeneral      EventType = "general"
)

// Keyword categories scored from free text. "fixed" and "created" feed the
// bug_fix and creation event types.
const (
	KeywordCreated    = "created"
	KeywordModified   = "modified"
	KeywordFixed      = "fixed"
	KeywordAnalyzed   = "analyzed"
	KeywordConfigured = "configured"
	KeywordDocumented = "documented"
)

// IsLabel reports whether s belongs to the activity vocabulary: a primary
// activity label or a keyword category.
func IsLabel(s string) bool {
	return vocabulary[s]
}

var vocabulary = func() map[string]bool {
	v := map[string]bool{}
	for _, s := range []string{
		ErrorEncountered, TestsFailed, TestsPassed, GitCommit, GitPush, GitStaging,
		GitOperation, CreatedFiles, ModifiedFiles, RanCommands, CompletedTask, General,
		KeywordCreated, KeywordModified, KeywordFixed, KeywordAnalyzed, KeywordConfigured, KeywordDocumented,
	} {
		v[s] = true
	}
	for _, f := range commandFamilies {
		v[f.label] = true
	}
	for _, f := range fileFamilies {
		v[f.label] = true
	}
	return v
}()

// ResolveEventType mirrors Classify at a coarser grain. It reads the context
// and its primary activity; it never extracts anything new.
func ResolveEventType(c *Context) EventType {
	if c == nil {
		return EventGeneral
	}

	if len(c.ErrorsEncountered) > 0 && len(c.SuccessIndicators) == 0 {
		return EventError
	}

	if c.TestResults != nil {
		if TestsFailing(c.TestResults) {
			return EventTestFailure
		}
		return EventTestSuccess
	}

	if len(c.GitOperations) > 0 {
		return EventGitOperation
	}

	switch c.PrimaryActivity {
	case KeywordFixed:
		return EventBugFix
	case KeywordCreated, CreatedFiles:
		return EventCreation
	}

	if len(c.SuccessIndicators) > 0 {
		return EventSuccess
	}

	return EventGeneral
}

// Resolve classifies c in place and wraps it with its event type.
func Resolve(c *Context) Result {
	if c == nil {
		c = NewContext()
	}
	c.PrimaryActivity = Classify(c)
	return Result{Context: *c, EventType: ResolveEventType(c)}
}
