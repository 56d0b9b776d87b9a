// Package patterns extracts facts from free text with ordered, declarative
// rule tables and a single interpreter.
package patterns

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/suykerbuyk/vibe-context/internal/activity"
)

// Extraction selects how a rule turns a match into a fact value.
type Extraction int

const (
	// Capture emits submatch Group for every occurrence.
	Capture Extraction = iota
	// FirstCapture emits submatch Group for the first occurrence only.
	FirstCapture
	// Number parses submatch Group as a number, first occurrence only.
	Number
)

// Rule is one row of a pattern table.
type Rule struct {
	Kind    activity.FactKind
	Pattern *regexp.Regexp
	Extract Extraction
	Group   int

	// Format, when set, is applied to the extracted value with fmt.Sprintf.
	Format string
	// Map, when set, rewrites the extracted value; a missing key drops it.
	Map map[string]string
	// Lower lowercases the extracted value before Map and Format.
	Lower bool
	// Transform, when set, rewrites the extracted value after Lower.
	Transform func(string) string
	// Accept, when set, must return true for the value to be kept.
	Accept func(string) bool
}

// Group is an ordered list of rules evaluated together.
type Group struct {
	Name  string
	Rules []Rule
	// Unique drops values already emitted by this group.
	Unique bool
}

// Apply evaluates groups in order against text. A group that panics
// contributes nothing and is reported in faults; later groups still run.
func Apply(groups []Group, text string) (facts []activity.Fact, faults []string) {
	for _, g := range groups {
		got, err := applyGroup(g, text)
		if err != nil {
			faults = append(faults, err.Error())
			continue
		}
		facts = append(facts, got...)
	}
	return facts, faults
}

func applyGroup(g Group, text string) (facts []activity.Fact, err error) {
	defer func() {
		if r := recover(); r != nil {
			facts = nil
			err = fmt.Errorf("pattern group %s failed: %v", g.Name, r)
		}
	}()

	seen := map[string]bool{}
	for _, rule := range g.Rules {
		limit := -1
		if rule.Extract != Capture {
			limit = 1
		}
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, limit) {
			if rule.Group >= len(m) {
				continue
			}
			value, ok := rule.value(m[rule.Group])
			if !ok {
				continue
			}
			fact := activity.Fact{Kind: rule.Kind, Value: value}
			if rule.Extract == Number {
				n, err := strconv.ParseFloat(value, 64)
				if err != nil {
					continue
				}
				fact.Number = n
				fact.Value = m[0]
			}
			if g.Unique {
				key := fact.Kind.String() + "\x00" + fact.Value
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			facts = append(facts, fact)
		}
	}
	return facts, nil
}

func (r Rule) value(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	if r.Lower {
		v = strings.ToLower(v)
	}
	if r.Transform != nil {
		v = r.Transform(v)
	}
	if r.Accept != nil && !r.Accept(v) {
		return "", false
	}
	if r.Map != nil {
		mapped, ok := r.Map[v]
		if !ok {
			return "", false
		}
		v = mapped
	}
	if r.Format != "" {
		v = fmt.Sprintf(r.Format, v)
	}
	return v, true
}

// Extract runs every table, keyword scoring, and summary detection over a
// free-text blob.
func Extract(text string) (facts []activity.Fact, faults []string) {
	facts, faults = Apply(Groups, text)
	if kw := ScoreKeywords(text); kw != "" {
		facts = append(facts, activity.Fact{Kind: activity.FactKeyword, Value: kw})
	}
	if s := Summary(text); s != "" {
		facts = append(facts, activity.Fact{Kind: activity.FactSummary, Value: s})
	}
	return facts, faults
}
