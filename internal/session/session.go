// Package session holds the mutable state of one interactive chat session.
// The session is owned by the single control loop and is never accessed
// concurrently, so no locking discipline is required.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ErrConversationBound is returned when code tries to rebind an active
// session to a different server-side conversation. The conversation id
// never changes once assigned; only Reset may drop it.
var ErrConversationBound = errors.New("session already bound to a conversation")

// Turn is one message exchanged in the conversation. Turns are immutable
// once appended to the transcript.
type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Stats is a read-only snapshot of session counters for display
type Stats struct {
	SessionID      string
	ConversationID string
	Messages       int
	InputTokens    int
	OutputTokens   int
	TotalTokens    int
	WebSearch      bool
}

// Session is the running conversation state: the server-issued conversation
// id, the local transcript, and cumulative token counts as reported by each
// remote call's usage metadata.
type Session struct {
	// ID is the local session id, attached to conversation metadata.
	// It changes on every Reset so distinct chats stay distinguishable.
	ID string

	conversationID string
	turns          []Turn
	inputTokens    int
	outputTokens   int
	messageCount   int

	// WebSearchEnabled toggles the provider-side web_search tool
	WebSearchEnabled bool
}

// New creates a fresh session with web search enabled by default
func New() *Session {
	return &Session{
		ID:               uuid.New().String(),
		WebSearchEnabled: true,
	}
}

// ConversationID returns the server-issued conversation id, or "" before
// the first message creates one.
func (s *Session) ConversationID() string {
	return s.conversationID
}

// BindConversation records the server-issued conversation id.
// Rebinding an active session is an invariant violation.
func (s *Session) BindConversation(id string) error {
	if s.conversationID != "" && s.conversationID != id {
		return ErrConversationBound
	}
	s.conversationID = id
	return nil
}

// AddTurn appends an immutable turn to the local transcript
func (s *Session) AddTurn(role, content string) {
	s.turns = append(s.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Turns returns a copy of the transcript so callers cannot mutate it
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// AddUsage accumulates token counts from one remote call
func (s *Session) AddUsage(inputTokens, outputTokens int) {
	s.inputTokens += inputTokens
	s.outputTokens += outputTokens
}

// CountMessage records one completed user turn
func (s *Session) CountMessage() {
	s.messageCount++
}

// Stats returns a snapshot of the session counters
func (s *Session) Stats() Stats {
	return Stats{
		SessionID:      s.ID,
		ConversationID: s.conversationID,
		Messages:       s.messageCount,
		InputTokens:    s.inputTokens,
		OutputTokens:   s.outputTokens,
		TotalTokens:    s.inputTokens + s.outputTokens,
		WebSearch:      s.WebSearchEnabled,
	}
}

// ToggleWebSearch flips the web search toggle and returns the new state
func (s *Session) ToggleWebSearch() bool {
	s.WebSearchEnabled = !s.WebSearchEnabled
	return s.WebSearchEnabled
}

// Reset returns the session to a fresh, empty state: token counts to zero,
// transcript cleared, conversation id dropped, new local session id.
// The previous server-side conversation is not deleted; its lifecycle is
// the provider's concern.
func (s *Session) Reset() {
	s.ID = uuid.New().String()
	s.conversationID = ""
	s.turns = nil
	s.inputTokens = 0
	s.outputTokens = 0
	s.messageCount = 0
}
