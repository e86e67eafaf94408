package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/agentboard/backend/backend"
	"github.com/agentboard/backend/remote"
)

// Envelope is the uniform response shape of the API.
type Envelope struct {
	Status  bool        `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// fail translates a backend error into the HTTP envelope. Only the
// taxonomy surfaces to clients; unexpected detail is logged, not
// returned.
func (h *Handler) fail(c echo.Context, err error) error {
	var validationErr *backend.ValidationError
	var remoteErr *remote.Error

	switch {
	case errors.Is(err, backend.ErrNotFound):
		return c.JSON(http.StatusNotFound, Envelope{Status: false, Message: "Session not found"})
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, Envelope{Status: false, Message: validationErr.Message})
	case errors.As(err, &remoteErr):
		return c.JSON(remoteErr.StatusCode, Envelope{Status: false, Message: remoteErr.Message})
	default:
		log.Printf("ERROR: %v", err)
		return c.JSON(http.StatusInternalServerError, Envelope{Status: false, Message: "Internal server error"})
	}
}

// count records one request against the named route.
func (h *Handler) count(ctx context.Context, route string) {
	h.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
}

// requestUserID reads the user_id query parameter, falling back to the
// configured default user.
func (h *Handler) requestUserID(c echo.Context) string {
	if userID := c.QueryParam("user_id"); userID != "" {
		return userID
	}
	return h.config.DefaultUserID
}
