package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agentboard/backend/domain"
	"github.com/agentboard/backend/remote"
)

// Remote serves the session surface from the external orchestration
// service. The orchestrator has no run concept, so every session's
// history is one synthesized run wrapping its message stream. There is
// no fallback to local storage: an unreachable orchestrator fails the
// request.
type Remote struct {
	client *remote.Client
}

// NewRemote creates a remote session backend.
func NewRemote(client *remote.Client) *Remote {
	return &Remote{client: client}
}

// ListSessions lists sessions from the orchestrator. The orchestrator
// tracks no ownership, so the user id is accepted for interface parity
// and ignored.
func (b *Remote) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	data, err := b.client.Request(ctx, http.MethodGet, "/sessions", nil)
	if err != nil {
		return nil, err
	}
	return remote.SessionsFromResponse(data), nil
}

// GetSession fetches one session from the orchestrator.
func (b *Remote) GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	data, err := b.client.Request(ctx, http.MethodGet, "/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	session := remote.SessionFromResponse(data)
	return &session, nil
}

// CreateSession creates a session on the orchestrator and returns the
// canonical shape with the orchestrator-issued identifier.
func (b *Remote) CreateSession(ctx context.Context, userID, name string) (*domain.Session, error) {
	payload := map[string]interface{}{
		"metadata": map[string]interface{}{"name": name},
	}
	data, err := b.client.Request(ctx, http.MethodPost, "/sessions", payload)
	if err != nil {
		return nil, err
	}
	session := remote.CreatedSession(data, name)
	if session.ID == "" {
		return nil, fmt.Errorf("orchestrator create response carried no session id")
	}
	return &session, nil
}

// UpdateSession renames a session on the orchestrator.
func (b *Remote) UpdateSession(ctx context.Context, sessionID, userID, name string) (*domain.Session, error) {
	payload := map[string]interface{}{
		"metadata": map[string]interface{}{"name": name},
	}
	data, err := b.client.Request(ctx, http.MethodPatch, "/sessions/"+sessionID, payload)
	if err != nil {
		return nil, err
	}
	session := remote.SessionFromResponse(data)
	return &session, nil
}

// DeleteSession deletes a session on the orchestrator.
func (b *Remote) DeleteSession(ctx context.Context, sessionID, userID string) error {
	_, err := b.client.Request(ctx, http.MethodDelete, "/sessions/"+sessionID, nil)
	return err
}

// RunHistory fetches the session's message stream in one call, maps
// it, and wraps it in the single synthesized run. With a single
// upstream call there is no per-run failure to isolate here.
func (b *Remote) RunHistory(ctx context.Context, sessionID, userID string) (*domain.RunHistory, error) {
	data, err := b.client.Request(ctx, http.MethodGet, "/sessions/"+sessionID+"/messages", nil)
	if err != nil {
		return nil, err
	}
	messages := remote.MessagesFromResponse(data, sessionID)
	run := remote.SynthesizeRun(sessionID, messages)
	return &domain.RunHistory{Runs: []domain.RunEntry{run}}, nil
}
