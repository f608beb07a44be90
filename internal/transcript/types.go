// Package transcript models the records served by the agent-session API
// and extracts file-edit payloads from tool calls.
package transcript

import (
	"encoding/json"
	"time"
)

// Session is one entry in the session list.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CWD          string    `json:"cwd,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// Message is one transcript entry: user text, assistant text, or a
// tool invocation with its result.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user", "assistant", "tool"
	Timestamp time.Time `json:"timestamp"`
	Blocks    []Block   `json:"blocks"`
}

// Block is one content unit inside a message.
type Block struct {
	Type string    `json:"type"` // "text" or "tool_call"
	Text string    `json:"text,omitempty"`
	Tool *ToolCall `json:"tool,omitempty"`
}

// ToolCall records a single invocation of an external capability.
type ToolCall struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Input  json.RawMessage `json:"input,omitempty"`
	Result *ToolResult     `json:"result,omitempty"`
}

// ToolResult carries the tool's textual output plus optional metadata.
type ToolResult struct {
	Text string          `json:"text,omitempty"`
	Meta json.RawMessage `json:"meta,omitempty"`
}

// ToolCalls returns the tool invocations in a message, in order.
func (m *Message) ToolCalls() []*ToolCall {
	var calls []*ToolCall
	for _, b := range m.Blocks {
		if b.Type == "tool_call" && b.Tool != nil {
			calls = append(calls, b.Tool)
		}
	}
	return calls
}

// FirstText returns the first text block, for list previews.
func (m *Message) FirstText() string {
	for _, b := range m.Blocks {
		if b.Type == "text" && b.Text != "" {
			return b.Text
		}
	}
	return ""
}
