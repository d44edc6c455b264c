// Package handler provides HTTP handlers for all API endpoints. Handlers
// fetch rows through the store and feed them to the pure stats/chart
// engines; there is no service layer in between.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openfairway/rangelog/internal/api/respond"
	"github.com/openfairway/rangelog/internal/auth"
	"github.com/openfairway/rangelog/internal/cache"
	"github.com/openfairway/rangelog/internal/config"
	"github.com/openfairway/rangelog/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store  *store.Store
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(st *store.Store, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{store: st, cache: c, cfg: cfg, logger: logger}
}

// userID pulls the authenticated user out of the context. The auth
// middleware guarantees it is present on protected routes.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "MISSING_TOKEN", "Not authenticated")
		return 0, false
	}
	return id, true
}

// statsCachePrefix namespaces a user's cached stats responses so mutations
// can invalidate them wholesale.
func statsCachePrefix(userID int64) string {
	return fmt.Sprintf("stats:%d:", userID)
}

// dateParam validates an optional ?date=YYYY-MM-DD query parameter.
// Returns "" when absent.
func dateParam(r *http.Request) (string, error) {
	d := r.URL.Query().Get("date")
	if d == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return "", fmt.Errorf("date must be YYYY-MM-DD")
	}
	return d, nil
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Rangelog API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies database connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
