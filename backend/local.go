package backend

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentboard/backend/domain"
	"github.com/agentboard/backend/policy"
	"github.com/agentboard/backend/store"
)

// Local serves the session surface from the SQLite store, with access
// decisions delegated to the policy engine.
type Local struct {
	store  store.Store
	policy *policy.Engine
}

// NewLocal creates a local session backend.
func NewLocal(store store.Store, engine *policy.Engine) *Local {
	return &Local{
		store:  store,
		policy: engine,
	}
}

// ListSessions returns the user's sessions, oldest first.
func (b *Local) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	sessions, err := b.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return sessions, nil
}

// GetSession returns one session the user may read.
func (b *Local) GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	return b.authorize(ctx, policy.ActionRead, sessionID, userID)
}

// CreateSession creates a session together with its first run in one
// transaction, so a run-insert failure never leaves an orphaned
// session behind.
func (b *Local) CreateSession(ctx context.Context, userID, name string) (*domain.Session, error) {
	if userID == "" {
		return nil, &ValidationError{Message: "user_id is required"}
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        newID("sess"),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	run := &domain.Run{
		ID:        newID("run"),
		SessionID: session.ID,
		UserID:    userID,
		Status:    domain.RunStatusCreated,
		CreatedAt: now,
	}

	if err := b.store.CreateSessionWithRun(ctx, session, run); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// UpdateSession renames a session the user owns.
func (b *Local) UpdateSession(ctx context.Context, sessionID, userID, name string) (*domain.Session, error) {
	session, err := b.authorize(ctx, policy.ActionUpdate, sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.Name = name
	session.UpdatedAt = time.Now().UTC()
	if err := b.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}

// DeleteSession deletes a session the user owns. Runs and messages are
// removed by the store's cascade rule.
func (b *Local) DeleteSession(ctx context.Context, sessionID, userID string) error {
	if _, err := b.authorize(ctx, policy.ActionDelete, sessionID, userID); err != nil {
		return err
	}
	if err := b.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RunHistory assembles the session's full run and message history.
// Message fetches for different runs are independent, so they are
// issued concurrently; the result slice is indexed by run position so
// completion order never disturbs creation-time order. One run failing
// degrades that run's entry instead of failing the request.
func (b *Local) RunHistory(ctx context.Context, sessionID, userID string) (*domain.RunHistory, error) {
	if _, err := b.authorize(ctx, policy.ActionRead, sessionID, userID); err != nil {
		return nil, err
	}

	runs, err := b.store.GetRuns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	// No runs is a valid, empty history.
	entries := make([]domain.RunEntry, len(runs))
	var wg sync.WaitGroup
	for i, run := range runs {
		wg.Add(1)
		go func(i int, run domain.Run) {
			defer wg.Done()
			entries[i] = b.assembleRun(ctx, run)
		}(i, run)
	}
	wg.Wait()

	return &domain.RunHistory{Runs: entries}, nil
}

// assembleRun builds one run's history entry. Any failure while
// assembling — a message fetch error or a panic — degrades this entry
// to an ERROR record carrying the description; the other runs in the
// session are unaffected.
func (b *Local) assembleRun(ctx context.Context, run domain.Run) (entry domain.RunEntry) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: failed to assemble run %s: %v", run.ID, r)
			entry = degradedRun(run, fmt.Sprintf("failed to process run: %v", r))
		}
	}()

	messages, err := b.store.GetRunMessages(ctx, run.ID)
	if err != nil {
		log.Printf("ERROR: failed to fetch messages for run %s: %v", run.ID, err)
		return degradedRun(run, fmt.Sprintf("failed to fetch messages: %v", err))
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	return domain.RunEntry{
		ID:           run.ID,
		CreatedAt:    run.CreatedAt,
		Status:       run.Status,
		Task:         run.Task,
		TeamResult:   run.TeamResult,
		Messages:     messages,
		InputRequest: run.InputRequest,
	}
}

// degradedRun reports a run whose history could not be assembled.
func degradedRun(run domain.Run, reason string) domain.RunEntry {
	return domain.RunEntry{
		ID:           run.ID,
		CreatedAt:    run.CreatedAt,
		Status:       domain.RunStatusError,
		Task:         run.Task,
		TeamResult:   nil,
		Messages:     []domain.Message{},
		InputRequest: run.InputRequest,
		Error:        reason,
	}
}

// authorize loads a session and checks the policy decision for the
// action. A missing session and a policy denial are both ErrNotFound.
func (b *Local) authorize(ctx context.Context, action, sessionID, userID string) (*domain.Session, error) {
	session, err := b.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}

	allowed, err := b.policy.Allow(ctx, policy.AccessInput{
		Action:  action,
		UserID:  userID,
		OwnerID: session.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate session policy: %w", err)
	}
	if !allowed {
		return nil, ErrNotFound
	}
	return session, nil
}

func newID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}
