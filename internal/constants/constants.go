// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// DefaultAPITimeout is the timeout for Responses API requests
// (tool round-trips and web search can take a while)
const DefaultAPITimeout = 120 * time.Second

// Application defaults
const (
	DefaultModel   = "gpt-5"
	DefaultBaseURL = "https://api.openai.com/v1"

	// SessionMetadataKey is the metadata key attached to server-side
	// conversations so they can be traced back to a CLI session.
	SessionMetadataKey = "session"
)

// MaxToolIterations caps the tool-call dispatch loop for a single user turn.
// The model occasionally keeps requesting tools; the loop must terminate.
const MaxToolIterations = 5

// MaxHistoryItems is the page size used when listing conversation items.
const MaxHistoryItems = 100
