package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Decode parses one log line into a Record. Lines that are not JSON objects
// return an error; objects with an unknown discriminator decode to
// KindUnrecognized.
func Decode(line []byte) (Record, error) {
	var e Entry
	if err := json.Unmarshal(line, &e); err != nil {
		return Record{}, fmt.Errorf("decode entry: %w", err)
	}
	return FromEntry(e), nil
}

// FromEntry converts a raw entry into its tagged variant.
func FromEntry(e Entry) Record {
	switch role(e) {
	case "assistant":
		return Record{
			Kind:  KindAssistant,
			Text:  assistantText(e),
			Tools: toolCalls(e),
		}

	case "tool_result":
		out := stringify(e.Output)
		if out == "" {
			out = stringify(e.Content)
		}
		return Record{
			Kind:    KindToolResult,
			Output:  joinNonEmpty(out, resultStreams(e.ToolUseResult)),
			IsError: e.IsError,
		}

	case "user":
		// Claude Code delivers tool results as user entries carrying
		// tool_result blocks.
		if out, isErr, ok := toolResultBlocks(e); ok {
			if out == "" {
				out = resultStreams(e.ToolUseResult)
			}
			return Record{Kind: KindToolResult, Output: out, IsError: isErr}
		}
		return Record{Kind: KindUser, Text: userText(e), IsMeta: e.IsMeta}
	}
	return Record{Kind: KindUnrecognized}
}

// DecodeLines splits data into non-blank lines and decodes each one. ok is
// false when any non-blank line is not a JSON object or no line carries a
// recognized record, meaning data is not a structured log.
func DecodeLines(data []byte) (records []Record, ok bool) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line

	recognized := false
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] != '{' {
			return nil, false
		}
		rec, err := Decode(line)
		if err != nil {
			return nil, false
		}
		if rec.Kind != KindUnrecognized {
			recognized = true
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, false
	}
	return records, recognized
}

func role(e Entry) string {
	switch e.Type {
	case "user", "assistant", "tool_result":
		return e.Type
	}
	switch e.Role {
	case "user", "assistant", "tool_result":
		return e.Role
	}
	if e.Type == "" && e.Message != nil {
		return e.Message.Role
	}
	return ""
}

// ContentBlocks extracts typed content blocks from message content.
// Handles both string content and array content.
func ContentBlocks(content interface{}) []ContentBlock {
	switch c := content.(type) {
	case string:
		if c == "" {
			return nil
		}
		return []ContentBlock{{Type: "text", Text: c}}
	case []interface{}:
		var blocks []ContentBlock
		for _, item := range c {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			b, err := json.Marshal(m)
			if err != nil {
				continue
			}
			var block ContentBlock
			if err := json.Unmarshal(b, &block); err != nil {
				continue
			}
			blocks = append(blocks, block)
		}
		return blocks
	}
	return nil
}

func messageContent(e Entry) interface{} {
	if e.Message != nil && e.Message.Content != nil {
		return e.Message.Content
	}
	return e.Content
}

// textOf joins the text blocks of content.
func textOf(content interface{}) string {
	var parts []string
	for _, b := range ContentBlocks(content) {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func assistantText(e Entry) string {
	return textOf(messageContent(e))
}

func userText(e Entry) string {
	return strings.TrimSpace(textOf(messageContent(e)))
}

// toolCalls gathers tool invocations from tool_use/tools (single object or
// list) and from tool_use content blocks.
func toolCalls(e Entry) []ToolCall {
	var calls []ToolCall
	for _, raw := range []interface{}{e.ToolUse, e.Tools} {
		switch v := raw.(type) {
		case map[string]interface{}:
			if tc, ok := toolCallFromMap(v); ok {
				calls = append(calls, tc)
			}
		case []interface{}:
			for _, item := range v {
				if m, ok := item.(map[string]interface{}); ok {
					if tc, ok := toolCallFromMap(m); ok {
						calls = append(calls, tc)
					}
				}
			}
		}
	}
	for _, b := range ContentBlocks(messageContent(e)) {
		if b.Type != "tool_use" || b.Name == "" {
			continue
		}
		input, _ := b.Input.(map[string]interface{})
		calls = append(calls, ToolCall{Name: b.Name, Input: input})
	}
	return calls
}

func toolCallFromMap(m map[string]interface{}) (ToolCall, bool) {
	name, _ := m["name"].(string)
	if name == "" {
		name, _ = m["tool"].(string)
	}
	if name == "" {
		return ToolCall{}, false
	}
	input, _ := m["input"].(map[string]interface{})
	return ToolCall{Name: name, Input: input}, true
}

// toolResultBlocks returns the joined output of tool_result blocks in a user
// entry. ok is false when the entry carries none.
func toolResultBlocks(e Entry) (out string, isErr bool, ok bool) {
	var parts []string
	for _, b := range ContentBlocks(messageContent(e)) {
		if b.Type != "tool_result" {
			continue
		}
		ok = true
		isErr = isErr || b.IsError
		if s := stringify(b.Content); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n"), isErr, ok
}

// stringify flattens a string or an array of text blocks.
func stringify(v interface{}) string {
	switch c := v.(type) {
	case string:
		return c
	case []interface{}:
		return textOf(c)
	}
	return ""
}

func resultStreams(r *ToolUseResult) string {
	if r == nil {
		return ""
	}
	return joinNonEmpty(r.Stdout, r.Stderr)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
