package transcript

// Entry is one raw line of a session log. Two shapes are accepted: the flat
// hook shape (type/role, content, tool_use, output) and the nested Claude
// Code shape (message.content blocks, toolUseResult).
type Entry struct {
	Type string `json:"type"`
	Role string `json:"role"`

	// Flat shape
	Content interface{} `json:"content,omitempty"`  // string or []ContentBlock
	ToolUse interface{} `json:"tool_use,omitempty"` // object or list of objects
	Tools   interface{} `json:"tools,omitempty"`    // alias of tool_use
	Output  interface{} `json:"output,omitempty"`   // tool_result output
	IsError bool        `json:"is_error,omitempty"`

	// Nested shape
	Message       *Message       `json:"message,omitempty"`
	IsMeta        bool           `json:"isMeta,omitempty"`
	ToolUseResult *ToolUseResult `json:"toolUseResult,omitempty"`
}

// Message is the inner message object on user/assistant entries.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string or []ContentBlock
}

// ContentBlock represents one block in a content array.
type ContentBlock struct {
	Type      string      `json:"type"`
	Text      string      `json:"text,omitempty"`
	ID        string      `json:"id,omitempty"`
	Name      string      `json:"name,omitempty"`
	Input     interface{} `json:"input,omitempty"`
	ToolUseID string      `json:"tool_use_id,omitempty"`
	Content   interface{} `json:"content,omitempty"` // tool_result content (string or array)
	IsError   bool        `json:"is_error,omitempty"`
}

// ToolUseResult holds stdout/stderr from tool execution.
type ToolUseResult struct {
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Kind discriminates decoded records.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindUser
	KindAssistant
	KindToolResult
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAssistant:
		return "assistant"
	case KindToolResult:
		return "tool_result"
	}
	return "unrecognized"
}

// ToolCall is one tool invocation carried by an assistant record.
type ToolCall struct {
	Name  string
	Input map[string]interface{}
}

// Str returns the string input field key, or "".
func (tc ToolCall) Str(key string) string {
	v, _ := tc.Input[key].(string)
	return v
}

// Record is the decoded, shape-independent form of an Entry.
type Record struct {
	Kind    Kind
	Text    string     // user or assistant prose
	Tools   []ToolCall // assistant tool invocations
	Output  string     // tool result text
	IsError bool       // tool result flagged as an error by the producer
	IsMeta  bool       // system-injected user message
}
