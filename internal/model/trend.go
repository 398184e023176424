package model

import "time"

// KeywordTrend is one analyzed keyword with the topics the model surfaced.
type KeywordTrend struct {
	ID        int64
	SessionID string
	Keyword   string
	Topics    []string
	ModelUsed string
	CreatedAt time.Time
}

// TrendJob is the queue payload for a trend-analysis run. Empty keywords
// mean the worker derives them from the session's stored profile.
type TrendJob struct {
	SessionID string   `json:"session_id"`
	Keywords  []string `json:"keywords,omitempty"`
}
