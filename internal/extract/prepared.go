package extract

import (
	"encoding/json"
	"strings"

	"github.com/suykerbuyk/vibe-context/internal/activity"
	"github.com/suykerbuyk/vibe-context/internal/patterns"
)

// preparedKeys are the fields of a pre-structured summary document.
var preparedKeys = []string{"tools", "files", "commands", "errors", "tests", "git", "activity", "success", "summary"}

// recordKeys mark an object as a log record rather than a summary.
var recordKeys = []string{"type", "role", "message"}

// preparedFields returns the fields of data when it is a pre-structured
// summary: a JSON object carrying at least one summary key and no record
// discriminator.
func preparedFields(data []byte) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, false
	}
	for _, k := range recordKeys {
		if _, ok := fields[k]; ok {
			return nil, false
		}
	}
	for _, k := range preparedKeys {
		if _, ok := fields[k]; ok {
			return fields, true
		}
	}
	return nil, false
}

// PreparedFacts converts a pre-structured summary into facts. Lists accept
// a single string in place of an array; fields of the wrong type are
// ignored. An activity outside the label vocabulary is dropped.
func PreparedFacts(fields map[string]json.RawMessage) []activity.Fact {
	var facts []activity.Fact
	add := func(kind activity.FactKind, values []string) {
		for _, v := range values {
			facts = append(facts, activity.Fact{Kind: kind, Value: v})
		}
	}

	for _, t := range stringList(fields["tools"]) {
		facts = append(facts, activity.Fact{Kind: activity.FactTool, Value: patterns.ToolName(t)})
	}
	add(activity.FactFile, stringList(fields["files"]))
	add(activity.FactCommand, stringList(fields["commands"]))
	add(activity.FactError, stringList(fields["errors"]))
	facts = append(facts, testFacts(fields["tests"])...)
	add(activity.FactGitOp, stringList(fields["git"]))
	add(activity.FactSuccess, stringList(fields["success"]))

	if s := stringValue(fields["summary"]); s != "" {
		facts = append(facts, activity.Fact{Kind: activity.FactSummary, Value: s})
	}
	if a := strings.ToLower(strings.TrimSpace(stringValue(fields["activity"]))); activity.IsLabel(a) {
		facts = append(facts, activity.Fact{Kind: activity.FactKeyword, Value: a})
	}
	return facts
}

func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	if s := stringValue(raw); s != "" {
		return []string{s}
	}
	return nil
}

func stringValue(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

var testCountKeys = map[string]activity.FactKind{
	"passed":       activity.FactTestPassed,
	"failed":       activity.FactTestFailed,
	"skipped":      activity.FactTestSkipped,
	"coverage":     activity.FactCoverage,
	"coverage_pct": activity.FactCoverage,
}

// testCountOrder fixes the evaluation order of testCountKeys.
var testCountOrder = []string{"passed", "failed", "skipped", "coverage_pct", "coverage"}

// testFacts accepts either a counts object or a phrase. A phrase is scanned
// with the test rules and kept as the raw fallback.
func testFacts(raw json.RawMessage) []activity.Fact {
	if len(raw) == 0 {
		return nil
	}

	if phrase := stringValue(raw); phrase != "" {
		facts, _ := patterns.Apply(testGroups, phrase)
		return append(facts, activity.Fact{Kind: activity.FactTestPhrase, Value: phrase})
	}

	var counts map[string]interface{}
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil
	}
	var facts []activity.Fact
	for _, key := range testCountOrder {
		n, ok := counts[key].(float64)
		if !ok {
			continue
		}
		facts = append(facts, activity.Fact{Kind: testCountKeys[key], Value: key, Number: n})
	}
	if phrase, ok := counts["raw"].(string); ok && phrase != "" {
		facts = append(facts, activity.Fact{Kind: activity.FactTestPhrase, Value: phrase})
	}
	return facts
}
