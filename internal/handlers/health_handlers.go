package handlers

import (
	"context"
	"net/http"
	"time"

	"condoparcel/internal/caching"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db        Pinger
	cache     caching.ViewCache
	version   string
	startedAt time.Time
}

func NewHealthHandlers(db Pinger, cache caching.ViewCache, version string) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cache:     cache,
		version:   version,
		startedAt: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

func (h *HealthHandlers) probe(ctx context.Context) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return map[string]error{
		"database": h.db.Ping(ctx),
		"redis":    h.cache.Ping(ctx),
	}
}

// HealthCheck reports each dependency; the service stays up when Redis is down.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Uptime:    time.Since(h.startedAt).Truncate(time.Second).String(),
		Version:   h.version,
	}

	for name, err := range h.probe(c.Request().Context()) {
		if err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
			continue
		}
		health.Services[name] = "healthy"
	}

	return c.JSON(http.StatusOK, health)
}

// ReadinessCheck fails while PostgreSQL is unreachable.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	results := h.probe(c.Request().Context())
	if results["database"] != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}
