// Package domain defines the core domain models for the backend.
package domain

import (
	"encoding/json"
	"time"
)

// RunStatus represents the status of a run.
type RunStatus string

const (
	RunStatusCreated       RunStatus = "CREATED"
	RunStatusActive        RunStatus = "ACTIVE"
	RunStatusAwaitingInput RunStatus = "AWAITING_INPUT"
	RunStatusPaused        RunStatus = "PAUSED"
	RunStatusComplete      RunStatus = "COMPLETE"
	RunStatusError         RunStatus = "ERROR"
	RunStatusStopped       RunStatus = "STOPPED"
)

// Session represents a conversation context owned by a user.
// The ID is either locally generated or issued by the remote
// orchestrator; both are carried as opaque strings.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskMessage is the originating task of a run.
type TaskMessage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Run represents one execution attempt within a session.
type Run struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"session_id"`
	UserID       string          `json:"user_id,omitempty"`
	Status       RunStatus       `json:"status"`
	Task         *TaskMessage    `json:"task"`
	TeamResult   json.RawMessage `json:"team_result"`
	CreatedAt    time.Time       `json:"created_at"`
	InputRequest json.RawMessage `json:"input_request,omitempty"`
}

// MessageConfig carries the source and content of a message turn.
type MessageConfig struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Message represents a single turn within a run.
type Message struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	RunID     string        `json:"run_id"`
	Config    MessageConfig `json:"config"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// User represents an account that owns sessions.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RunEntry is one run in a session's aggregated history. A run whose
// assembly failed is reported with status ERROR and a populated Error
// field instead of aborting the whole history.
type RunEntry struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	Status       RunStatus       `json:"status"`
	Task         *TaskMessage    `json:"task"`
	TeamResult   json.RawMessage `json:"team_result"`
	Messages     []Message       `json:"messages"`
	InputRequest json.RawMessage `json:"input_request"`
	Error        string          `json:"error,omitempty"`
}

// RunHistory is the aggregation result for a session.
type RunHistory struct {
	Runs []RunEntry `json:"runs"`
}
