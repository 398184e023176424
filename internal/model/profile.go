package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a session's conversation history.
type Turn struct {
	Role    string
	Content string
	At      time.Time
}

// ExtractedProfile is a persisted business-profile snapshot for a session.
// Fields holds the full field mapping as returned by the extractor,
// including any extra non-schema fields the model added that turn.
type ExtractedProfile struct {
	ID        int64
	SessionID string
	Fields    map[string]any
	Confirmed bool
	CreatedAt time.Time
}
