package api

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agentboard/backend/domain"
)

// UserRequest is the request body for creating or updating a user.
type UserRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListUsers lists all users.
// GET /api/users
func (h *Handler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "list_users")

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list users: %v", err)
		return c.JSON(http.StatusInternalServerError, Envelope{Status: false, Message: "Internal server error"})
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, Envelope{Status: true, Data: users})
}

// GetUser returns a specific user.
// GET /api/users/:user_id
func (h *Handler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "get_user")

	user, err := h.store.GetUser(ctx, c.Param("user_id"))
	if err != nil {
		log.Printf("ERROR: failed to get user: %v", err)
		return c.JSON(http.StatusInternalServerError, Envelope{Status: false, Message: "Internal server error"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, Envelope{Status: false, Message: "User not found"})
	}
	return c.JSON(http.StatusOK, Envelope{Status: true, Data: user})
}

// UpsertUser creates or updates a user.
// POST /api/users
func (h *Handler) UpsertUser(c echo.Context) error {
	ctx := c.Request().Context()
	h.count(ctx, "upsert_user")

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Status: false, Message: "invalid request body"})
	}
	if req.ID == "" {
		return c.JSON(http.StatusBadRequest, Envelope{Status: false, Message: "id is required"})
	}

	user := &domain.User{
		ID:        req.ID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.UpsertUser(ctx, user); err != nil {
		log.Printf("ERROR: failed to upsert user: %v", err)
		return c.JSON(http.StatusInternalServerError, Envelope{Status: false, Message: "Internal server error"})
	}
	return c.JSON(http.StatusOK, Envelope{Status: true, Data: user})
}
