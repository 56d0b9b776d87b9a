// Package sanitize normalizes free text pulled from session logs before it
// is stored in a context: wrapper tags removed and lengths bounded.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wrapperTagPattern = regexp.MustCompile(
	`</?(?:local-command-(?:stdout|stderr|caveat)|command-(?:output|name|args|message)|` +
		`system-reminder|user-prompt-submit-hook|thinking|tool-use-id)[^>]*>`,
)

// StripTags removes Claude Code wrapper tags from text.
func StripTags(text string) string {
	return strings.TrimSpace(wrapperTagPattern.ReplaceAllString(text, ""))
}

// Clip bounds s to maxRunes runes, replacing the tail with "..." when cut.
// It never splits a multi-byte character.
func Clip(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string([]rune(s)[:maxRunes])
	}
	return string([]rune(s)[:maxRunes-3]) + "..."
}
