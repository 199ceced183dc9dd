package api

import (
	"context"

	"github.com/quocvuong92/chat-agent-cli/internal/config"
)

// Client defines the interface the chat loop depends on.
// The concrete OpenAIClient implements it; tests substitute fakes.
type Client interface {
	// CreateResponse sends conversation input items and returns the model's
	// response, including any requested function calls and usage counts
	CreateResponse(ctx context.Context, req *ResponseRequest) (*Response, error)

	// CreateConversation creates a server-side conversation resource
	CreateConversation(ctx context.Context, metadata map[string]string) (*Conversation, error)

	// ListConversationItems lists stored items of a conversation (ascending)
	ListConversationItems(ctx context.Context, conversationID string, limit int) (*ConversationItemList, error)

	// Close releases any resources held by the client
	Close()
}

// Ensure the OpenAI client implements Client
var _ Client = (*OpenAIClient)(nil)

// NewClient creates the API client for the configured provider.
// Only OpenAI is supported; the constructor exists so callers never
// depend on the concrete type.
func NewClient(cfg *config.Config) (Client, error) {
	return NewOpenAIClient(cfg), nil
}
