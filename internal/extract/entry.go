package extract

import (
	"regexp"
	"strings"

	"github.com/suykerbuyk/vibe-context/internal/activity"
	"github.com/suykerbuyk/vibe-context/internal/patterns"
	"github.com/suykerbuyk/vibe-context/internal/sanitize"
	"github.com/suykerbuyk/vibe-context/internal/transcript"
)

// maxUserRequest bounds the user messages considered as the last request.
// Longer messages are pasted content rather than a request.
const maxUserRequest = 200

// fileInputKeys maps file-editing tools to the input field naming the target.
var fileInputKeys = map[string]string{
	"Edit":         "file_path",
	"Write":        "file_path",
	"MultiEdit":    "file_path",
	"NotebookEdit": "notebook_path",
}

// shellTools run a command string.
var shellTools = map[string]bool{
	"Bash": true,
}

// gitPrefixes are command heads recorded as git operations.
var gitPrefixes = map[string]bool{
	"git": true,
	"gh":  true,
}

type errorMarker struct {
	pattern *regexp.Regexp
	note    string
}

// errorMarkers are checked in order; the first hit names the error.
var errorMarkers = []errorMarker{
	{regexp.MustCompile(`Traceback \(most recent call last\)`), "traceback in tool output"},
	{regexp.MustCompile(`\b\w*(?:Error|Exception):`), "exception in tool output"},
	{regexp.MustCompile(`(?m)^(?:error|fatal):`), "error in tool output"},
	{regexp.MustCompile(`\bpanic:`), "panic in tool output"},
	{regexp.MustCompile(`\bFAILED\b`), "failure in tool output"},
}

var fileOpPattern = regexp.MustCompile(`has been (?:created|updated)`)

var testGroups = []patterns.Group{{Name: "tests", Rules: patterns.TestRules}}

// ClassifyRecord extracts the atomic facts carried by one decoded record.
// Unrecognized records yield nothing.
func ClassifyRecord(rec transcript.Record) []activity.Fact {
	switch rec.Kind {
	case transcript.KindAssistant:
		return assistantFacts(rec)
	case transcript.KindToolResult:
		return toolResultFacts(rec)
	case transcript.KindUser:
		return userFacts(rec)
	}
	return nil
}

func assistantFacts(rec transcript.Record) []activity.Fact {
	var facts []activity.Fact
	for _, tc := range rec.Tools {
		facts = append(facts, activity.Fact{Kind: activity.FactTool, Value: patterns.ToolName(tc.Name)})

		if key, ok := fileInputKeys[tc.Name]; ok {
			if path := tc.Str(key); path != "" {
				facts = append(facts, activity.Fact{Kind: activity.FactFile, Value: path, Tool: tc.Name})
			}
			continue
		}

		if shellTools[tc.Name] {
			cmd := strings.TrimSpace(tc.Str("command"))
			if cmd == "" {
				continue
			}
			facts = append(facts, activity.Fact{Kind: activity.FactCommand, Value: cmd})
			if op := gitOperation(cmd); op != "" {
				facts = append(facts, activity.Fact{Kind: activity.FactGitOp, Value: op})
			}
		}
	}

	if s := patterns.Summary(rec.Text); s != "" {
		facts = append(facts, activity.Fact{Kind: activity.FactSummary, Value: s})
	}
	return facts
}

// gitOperation returns "<head> <verb>" for commands starting with a git
// prefix, or "".
func gitOperation(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) < 2 || !gitPrefixes[fields[0]] {
		return ""
	}
	return fields[0] + " " + fields[1]
}

func toolResultFacts(rec transcript.Record) []activity.Fact {
	var facts []activity.Fact

	tests, _ := patterns.Apply(testGroups, rec.Output)
	facts = append(facts, tests...)

	if note := errorNote(rec); note != "" {
		facts = append(facts, activity.Fact{Kind: activity.FactError, Value: note})
	}

	if fileOpPattern.MatchString(rec.Output) {
		facts = append(facts, activity.Fact{Kind: activity.FactSuccess, Value: "file operation successful"})
	}
	return facts
}

func errorNote(rec transcript.Record) string {
	if rec.IsError {
		return "tool reported error"
	}
	for _, m := range errorMarkers {
		if m.pattern.MatchString(rec.Output) {
			return m.note
		}
	}
	return ""
}

func userFacts(rec transcript.Record) []activity.Fact {
	if rec.IsMeta {
		return nil
	}
	text := sanitize.StripTags(rec.Text)
	if text == "" || len(text) >= maxUserRequest {
		return nil
	}
	return []activity.Fact{{Kind: activity.FactUserRequest, Value: text}}
}
