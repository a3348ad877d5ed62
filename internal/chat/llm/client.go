// Package llm talks to the chat-completions API that generates assistant
// replies.
package llm

import "context"

// Role values for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client abstracts the completion API. Complete returns the model's raw text
// output; callers own parsing it.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
