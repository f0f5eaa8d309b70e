package agent

import "context"

// Role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall // set on assistant messages that request tools
	ToolCallID string     // set on tool messages
}

// ToolCall is a model request to run a tool with JSON-encoded arguments.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ChatModel produces the next assistant message for a transcript. Never call
// a specific provider directly; inject a ChatModel.
type ChatModel interface {
	Complete(ctx context.Context, messages []Message, tools []Tool) (Message, error)
}
