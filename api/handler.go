// Package api provides the HTTP handlers for the backend.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentboard/backend/backend"
	"github.com/agentboard/backend/config"
	"github.com/agentboard/backend/store"
)

// Handler handles HTTP requests.
type Handler struct {
	sessions backend.SessionBackend
	store    store.Store
	config   *config.Config
	requests metric.Int64Counter
	tracer   trace.Tracer
}

// NewHandler creates a new handler. The session backend is the one
// chosen at startup; user records always live in the local store.
func NewHandler(sessions backend.SessionBackend, store store.Store, cfg *config.Config) *Handler {
	meter := otel.Meter("agentboard/api")
	requests, _ := meter.Int64Counter("api.requests",
		metric.WithDescription("Number of API requests by route"))

	return &Handler{
		sessions: sessions,
		store:    store,
		config:   cfg,
		requests: requests,
		tracer:   otel.Tracer("agentboard/api"),
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/sessions", h.ListSessions)
	g.GET("/sessions/:session_id", h.GetSession)
	g.POST("/sessions", h.CreateSession)
	g.PUT("/sessions/:session_id", h.UpdateSession)
	g.DELETE("/sessions/:session_id", h.DeleteSession)
	g.GET("/sessions/:session_id/runs", h.ListSessionRuns)

	g.GET("/users", h.ListUsers)
	g.GET("/users/:user_id", h.GetUser)
	g.POST("/users", h.UpsertUser)

	if h.config.APIDocs {
		g.GET("/docs", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"routes": e.Routes(),
			})
		})
	}

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
