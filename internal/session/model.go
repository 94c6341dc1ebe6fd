package session

import "time"

// MaxHistory bounds a session's history. Appends beyond the cap evict the
// oldest exchanges first.
const MaxHistory = 20

// Exchange is one user/assistant turn pair. Immutable once appended.
type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	UserText  string    `json:"user"`
	AIText    string    `json:"ai"`
}

// Session holds the conversational state for one opaque session id.
type Session struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
	History      []Exchange     `json:"history"`
	Context      map[string]any `json:"context"`
}

// Info is a lightweight session summary for listing.
type Info struct {
	ID           string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

// Stats aggregates over all live sessions.
type Stats struct {
	TotalSessions         int     `json:"total_sessions"`
	TotalMessages         int     `json:"total_messages"`
	AvgMessagesPerSession float64 `json:"avg_messages_per_session"`
}
