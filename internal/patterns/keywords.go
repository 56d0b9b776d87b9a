package patterns

import (
	"regexp"
	"strings"

	"github.com/suykerbuyk/vibe-context/internal/activity"
)

// KeywordCategory lists the words that vote for one activity category.
type KeywordCategory struct {
	Name     string
	Keywords []string
}

// Keywords is ordered; ties go to the earlier category.
var Keywords = []KeywordCategory{
	{activity.KeywordCreated, []string{"created", "added", "implemented", "built", "generated"}},
	{activity.KeywordModified, []string{"modified", "updated", "changed", "edited", "refactored"}},
	{activity.KeywordFixed, []string{"fixed", "resolved", "corrected", "repaired", "debugged"}},
	{activity.KeywordAnalyzed, []string{"analyzed", "reviewed", "examined", "inspected", "investigated"}},
	{activity.KeywordConfigured, []string{"configured", "setup", "set up", "installed", "initialized"}},
	{activity.KeywordDocumented, []string{"documented", "explained", "described", "annotated"}},
}

var keywordPatterns = compileKeywords(Keywords)

func compileKeywords(cats []KeywordCategory) [][]*regexp.Regexp {
	out := make([][]*regexp.Regexp, len(cats))
	for i, c := range cats {
		for _, kw := range c.Keywords {
			out[i] = append(out[i], regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}
	return out
}

// ScoreKeywords counts keyword occurrences per category and returns the
// highest-scoring category, or "" when nothing matched.
func ScoreKeywords(text string) string {
	best, bestScore := "", 0
	for i, cat := range Keywords {
		score := 0
		for _, re := range keywordPatterns[i] {
			score += len(re.FindAllStringIndex(text, -1))
		}
		if score > bestScore {
			best, bestScore = cat.Name, score
		}
	}
	return best
}

var summaryWords = regexp.MustCompile(`(?i)\b(?:completed|finished|done|created|fixed)\b`)

// Summary returns the first line announcing an outcome, else the first
// meaningful line that is not a heading.
func Summary(text string) string {
	lines := splitLines(text)
	for _, line := range lines {
		if summaryWords.MatchString(line) {
			return line
		}
	}
	for _, line := range lines {
		if len(line) > 20 && line[0] != '#' {
			return line
		}
	}
	return ""
}

func splitLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
