package chat

import "context"

// ReplyKind discriminates what the model sent back: prose or a tool call.
type ReplyKind int

const (
	PlainReply ReplyKind = iota
	ToolInvocation
)

// ModelReply is a tagged union. Text is set for PlainReply; ToolName and
// ToolArgs for ToolInvocation.
type ModelReply struct {
	Kind     ReplyKind
	Text     string
	ToolName string
	ToolArgs map[string]any
}

// Conversation is a stateful exchange with the model that remembers prior
// turns.
type Conversation interface {
	Send(ctx context.Context, text string) (ModelReply, error)
	SendToolResult(ctx context.Context, toolName, result string) (ModelReply, error)
}

// Client starts tutoring conversations and fulfils image tool calls.
type Client interface {
	StartConversation(ctx context.Context, contextText string) (Conversation, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
