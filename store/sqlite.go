package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/agentboard/backend/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			name TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_id TEXT,
			status TEXT NOT NULL,
			task TEXT,
			team_result TEXT,
			input_request TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			run_id TEXT NOT NULL,
			source TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_run ON messages(run_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSessionWithRun writes a session and its first run in one
// transaction. A run insert failure rolls the session back so no
// orphaned session row survives a failed create.
func (s *SQLiteStore) CreateSessionWithRun(ctx context.Context, session *domain.Session, run *domain.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Name, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertRun(ctx, tx, run); err != nil {
		return err
	}

	return tx.Commit()
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var name sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, name, created_at, updated_at FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.ID, &session.UserID, &name, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if name.Valid {
		session.Name = name.String
	}
	return &session, nil
}

// ListSessions retrieves all sessions owned by a user, oldest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, user_id, name, created_at, updated_at FROM sessions WHERE user_id = ? ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		var name sql.NullString
		if err := rows.Scan(&session.ID, &session.UserID, &name, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		if name.Valid {
			session.Name = name.String
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// UpdateSession updates the mutable fields of a session.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET name = ?, updated_at = ? WHERE session_id = ?`,
		session.Name, session.UpdatedAt, session.ID)
	return err
}

// DeleteSession deletes a session. Runs and messages go with it via
// the schema's cascade rule.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = ?`, sessionID)
	return err
}

// CreateRun creates a new run.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *domain.Run) error {
	return insertRun(ctx, s.db, run)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertRun(ctx context.Context, db execer, run *domain.Run) error {
	var task sql.NullString
	if run.Task != nil {
		data, err := json.Marshal(run.Task)
		if err != nil {
			return fmt.Errorf("failed to marshal task: %w", err)
		}
		task = sql.NullString{String: string(data), Valid: true}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (run_id, session_id, user_id, status, task, team_result, input_request, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SessionID, run.UserID, run.Status, task,
		rawToNull(run.TeamResult), rawToNull(run.InputRequest), run.CreatedAt)
	return err
}

// GetRuns retrieves all runs for a session in ascending creation order.
func (s *SQLiteStore) GetRuns(ctx context.Context, sessionID string) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, session_id, user_id, status, task, team_result, input_request, created_at FROM runs WHERE session_id = ? ORDER BY created_at ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var run domain.Run
		var userID, task, teamResult, inputRequest sql.NullString
		if err := rows.Scan(&run.ID, &run.SessionID, &userID, &run.Status, &task, &teamResult, &inputRequest, &run.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			run.UserID = userID.String
		}
		if task.Valid {
			var t domain.TaskMessage
			if err := json.Unmarshal([]byte(task.String), &t); err == nil {
				run.Task = &t
			}
		}
		if teamResult.Valid {
			run.TeamResult = json.RawMessage(teamResult.String)
		}
		if inputRequest.Valid {
			run.InputRequest = json.RawMessage(inputRequest.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CreateMessage creates a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, run_id, source, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.ID, message.SessionID, message.RunID, message.Config.Source, message.Config.Content,
		message.CreatedAt, message.UpdatedAt)
	return err
}

// GetRunMessages retrieves messages for a run in ascending creation order.
func (s *SQLiteStore) GetRunMessages(ctx context.Context, runID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, run_id, source, content, created_at, updated_at FROM messages WHERE run_id = ? ORDER BY created_at ASC`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.RunID, &msg.Config.Source, &msg.Config.Content, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// UpsertUser creates or updates a user.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET name = excluded.name`,
		user.ID, user.Name, user.CreatedAt)
	return err
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	var name sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, created_at FROM users WHERE user_id = ?`,
		userID).Scan(&user.ID, &name, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if name.Valid {
		user.Name = name.String
	}
	return &user, nil
}

// ListUsers lists all users.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, name, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		var name sql.NullString
		if err := rows.Scan(&user.ID, &name, &user.CreatedAt); err != nil {
			return nil, err
		}
		if name.Valid {
			user.Name = name.String
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func rawToNull(raw json.RawMessage) sql.NullString {
	if raw == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}
