package model

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

const (
	FinishStop      = "stop"
	FinishToolCalls = "tool_calls"
)

// Message is a single role-tagged turn in a conversation transcript.
// Assistant messages may carry tool calls; tool messages answer exactly
// one of them, identified by ToolCallID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a structured request from the model to invoke a named
// capability. Arguments is the raw JSON exactly as the model issued it.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Tool describes one callable capability to the model. Parameters is a
// JSON-schema object.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Completion is one model response: either a final message (FinishStop)
// or a round of tool calls to dispatch (FinishToolCalls).
type Completion struct {
	FinishReason string
	Message      Message
}

type Provider interface {
	Complete(ctx context.Context, transcript []Message, tools []Tool) (*Completion, error)
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
