package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionRequest is the request body for creating or updating a session.
type SessionRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// ListSessions lists all sessions for a user.
// GET /api/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "list_sessions")

	sessions, err := h.sessions.ListSessions(ctx, h.requestUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Status: true, Data: sessions})
}

// GetSession returns a specific session.
// GET /api/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "get_session")

	session, err := h.sessions.GetSession(ctx, c.Param("session_id"), h.requestUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Status: true, Data: session})
}

// CreateSession creates a new session with its first run.
// POST /api/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "create_session")

	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Status: false, Message: "invalid request body"})
	}
	if req.UserID == "" {
		req.UserID = h.config.DefaultUserID
	}

	session, err := h.sessions.CreateSession(ctx, req.UserID, req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Status: true, Data: session})
}

// UpdateSession renames an existing session.
// PUT /api/sessions/:session_id
func (h *Handler) UpdateSession(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "update_session")

	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Status: false, Message: "invalid request body"})
	}

	session, err := h.sessions.UpdateSession(ctx, c.Param("session_id"), h.requestUserID(c), req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{
		Status:  true,
		Data:    session,
		Message: "Session updated successfully",
	})
}

// DeleteSession deletes a session.
// DELETE /api/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "delete_session")

	if err := h.sessions.DeleteSession(ctx, c.Param("session_id"), h.requestUserID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Status: true, Message: "Session deleted successfully"})
}

// ListSessionRuns returns the complete session history organized by runs.
// GET /api/sessions/:session_id/runs
func (h *Handler) ListSessionRuns(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "list_session_runs")

	ctx, span := h.tracer.Start(ctx, "session.run_history")
	defer span.End()

	history, err := h.sessions.RunHistory(ctx, c.Param("session_id"), h.requestUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, Envelope{Status: true, Data: history})
}
