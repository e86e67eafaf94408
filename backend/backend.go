// Package backend implements the session surface over two
// interchangeable backends: local SQLite storage and the remote
// orchestration service. The implementation is chosen once at startup;
// there is no per-request fallback between the two.
package backend

import (
	"context"
	"errors"

	"github.com/agentboard/backend/domain"
)

// ErrNotFound reports a session that is absent or not accessible to
// the requesting user. The two cases are deliberately identical so the
// API never discloses the existence of another user's sessions.
var ErrNotFound = errors.New("session not found")

// ValidationError reports a request the backend rejected as malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SessionBackend is the session surface served by the HTTP API.
type SessionBackend interface {
	ListSessions(ctx context.Context, userID string) ([]domain.Session, error)
	GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)
	CreateSession(ctx context.Context, userID, name string) (*domain.Session, error)
	UpdateSession(ctx context.Context, sessionID, userID, name string) (*domain.Session, error)
	DeleteSession(ctx context.Context, sessionID, userID string) error
	RunHistory(ctx context.Context, sessionID, userID string) (*domain.RunHistory, error)
}
