package store

import (
	"context"
	"testing"
	"time"

	"github.com/agentboard/backend/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newSessionWithRun(t *testing.T, store *SQLiteStore, sessionID, userID string, at time.Time) {
	t.Helper()
	session := &domain.Session{ID: sessionID, UserID: userID, Name: "demo", CreatedAt: at, UpdatedAt: at}
	run := &domain.Run{ID: sessionID + "-run", SessionID: sessionID, UserID: userID, Status: domain.RunStatusCreated, CreatedAt: at}
	if err := store.CreateSessionWithRun(context.Background(), session, run); err != nil {
		t.Fatalf("CreateSessionWithRun failed: %v", err)
	}
}

func TestSQLiteStoreSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	newSessionWithRun(t, store, "s1", "u1", now)

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil || got.UserID != "u1" || got.Name != "demo" {
		t.Fatalf("unexpected session: %+v", got)
	}

	runs, err := store.GetRuns(ctx, "s1")
	if err != nil {
		t.Fatalf("GetRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != domain.RunStatusCreated {
		t.Fatalf("expected 1 created run, got %+v", runs)
	}

	got.Name = "renamed"
	got.UpdatedAt = now.Add(time.Minute)
	if err := store.UpdateSession(ctx, got); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}
	got, err = store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession after update failed: %v", err)
	}
	if got.Name != "renamed" {
		t.Fatalf("expected renamed session, got %+v", got)
	}

	if err := store.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	got, err = store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected session gone, got %+v", got)
	}
	// Cascade removes the runs with the session.
	runs, err = store.GetRuns(ctx, "s1")
	if err != nil {
		t.Fatalf("GetRuns after delete failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected runs cascade-deleted, got %+v", runs)
	}
}

func TestSQLiteStoreListSessionsByUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	newSessionWithRun(t, store, "s1", "u1", now)
	newSessionWithRun(t, store, "s2", "u1", now.Add(time.Second))
	newSessionWithRun(t, store, "s3", "u2", now.Add(2*time.Second))

	sessions, err := store.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "s1" || sessions[1].ID != "s2" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}

func TestSQLiteStoreRunOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	newSessionWithRun(t, store, "s1", "u1", now)
	for i, id := range []string{"r2", "r1"} {
		// Inserted out of creation order on purpose.
		offset := time.Duration(2-i) * time.Minute
		run := &domain.Run{ID: id, SessionID: "s1", Status: domain.RunStatusComplete, CreatedAt: now.Add(offset)}
		if err := store.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}

	runs, err := store.GetRuns(ctx, "s1")
	if err != nil {
		t.Fatalf("GetRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "s1-run" || runs[1].ID != "r1" || runs[2].ID != "r2" {
		t.Fatalf("runs out of creation order: %+v", runs)
	}
}

func TestSQLiteStoreMessageOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	newSessionWithRun(t, store, "s1", "u1", now)
	contents := []string{"third", "first", "second"}
	offsets := []time.Duration{2 * time.Minute, 0, time.Minute}
	for i, content := range contents {
		msg := &domain.Message{
			ID:        content,
			SessionID: "s1",
			RunID:     "s1-run",
			Config:    domain.MessageConfig{Source: "user", Content: content},
			CreatedAt: now.Add(offsets[i]),
			UpdatedAt: now.Add(offsets[i]),
		}
		if err := store.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	messages, err := store.GetRunMessages(ctx, "s1-run")
	if err != nil {
		t.Fatalf("GetRunMessages failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Config.Content != "first" || messages[1].Config.Content != "second" || messages[2].Config.Content != "third" {
		t.Fatalf("messages out of creation order: %+v", messages)
	}
}

func TestSQLiteStoreUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	user := &domain.User{ID: "u1@example.com", Name: "First", CreatedAt: now}
	if err := store.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	user.Name = "Renamed"
	if err := store.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser update failed: %v", err)
	}

	got, err := store.GetUser(ctx, "u1@example.com")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got == nil || got.Name != "Renamed" {
		t.Fatalf("unexpected user: %+v", got)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}

	missing, err := store.GetUser(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUser for missing user failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing user, got %+v", missing)
	}
}
