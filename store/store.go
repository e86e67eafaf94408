// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/agentboard/backend/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Session operations
	CreateSessionWithRun(ctx context.Context, session *domain.Session, run *domain.Run) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessions(ctx context.Context, userID string) ([]domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, sessionID string) error

	// Run operations
	CreateRun(ctx context.Context, run *domain.Run) error
	GetRuns(ctx context.Context, sessionID string) ([]domain.Run, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetRunMessages(ctx context.Context, runID string) ([]domain.Message, error)

	// User operations
	UpsertUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// Lifecycle
	Close() error
}
