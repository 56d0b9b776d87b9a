package extract

import (
	"path/filepath"

	"github.com/suykerbuyk/vibe-context/internal/activity"
	"github.com/suykerbuyk/vibe-context/internal/sanitize"
)

// Limits bounds the strings stored in a context.
type Limits struct {
	Command int // commands_run entries
	Text    int // every other string field
}

// Aggregate folds facts into c in order. Files are kept unique by clipped basename,
// tools by exact name, and the first value of each test count wins.
// Commands and git operations keep every repetition. A raw test phrase
// survives when no numeric count was found or when it reports a failure.
func Aggregate(c *activity.Context, facts []activity.Fact, lim Limits) {
	for _, f := range facts {
		switch f.Kind {
		case activity.FactFile:
			c.AddFile(sanitize.Clip(filepath.Base(f.Value), lim.Text))
		case activity.FactCommand:
			c.AddCommand(sanitize.Clip(f.Value, lim.Command))
		case activity.FactTool:
			c.AddTool(sanitize.Clip(f.Value, lim.Text))
		case activity.FactGitOp:
			c.AddGitOp(sanitize.Clip(f.Value, lim.Text))
		case activity.FactError:
			c.AddError(sanitize.Clip(f.Value, lim.Text))
		case activity.FactSuccess:
			c.AddSuccess(sanitize.Clip(f.Value, lim.Text))
		case activity.FactTestPassed, activity.FactTestFailed, activity.FactTestSkipped, activity.FactCoverage:
			c.SetTestCount(f.Kind, f.Number)
		case activity.FactTestPhrase:
			c.SetTestPhrase(sanitize.Clip(f.Value, lim.Text))
		case activity.FactUserRequest:
			c.LastUserRequest = sanitize.Clip(f.Value, lim.Text)
		case activity.FactSummary:
			c.TaskSummary = sanitize.Clip(f.Value, lim.Text)
		case activity.FactKeyword:
			c.Keyword = sanitize.Clip(f.Value, lim.Text)
		}
	}
	if tr := c.TestResults; tr.HasCounts() && !activity.FailurePhrase(tr.Raw) {
		tr.Raw = ""
	}
}
