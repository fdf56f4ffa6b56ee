// Package api provides HTTP handlers for the graph console.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/db"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	pool      HealthChecker
	neo4j     HealthChecker
	graphs    GraphCounter
	sessions  SessionCounter
	hub       ClientCounter
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// SessionCounter reports the number of live console sessions.
type SessionCounter interface {
	Count() int
}

// ClientCounter reports the number of connected WebSocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthDeps holds the dependencies checked by HealthHandler. Nil entries
// are reported as not configured.
type HealthDeps struct {
	Pool     HealthChecker
	Neo4j    HealthChecker
	Graphs   GraphCounter
	Sessions SessionCounter
	Hub      ClientCounter
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(deps HealthDeps, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		pool:      deps.Pool,
		neo4j:     deps.Neo4j,
		graphs:    deps.Graphs,
		sessions:  deps.Sessions,
		hub:       deps.Hub,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	SchemaVersion int     `json:"schema_version"`
	Database      string  `json:"database"`
	Neo4j         string  `json:"neo4j"`
	Sessions      int     `json:"sessions"`
	Clients       int     `json:"clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /console/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		SchemaVersion: db.SchemaVersion(),
		Database:      checkStatus(ctx, h.pool, "connected", "disconnected"),
		Neo4j:         checkStatus(ctx, h.neo4j, "connected", "disconnected"),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.sessions != nil {
		resp.Sessions = h.sessions.Count()
	}

	if h.hub != nil {
		resp.Clients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /console/ready. Both databases and the saved-graph
// schema must be reachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{
		"database": "ok",
		"schema":   "ok",
		"neo4j":    "ok",
	}
	status := "ready"
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	fail := func(check string, err error) {
		h.log.WithError(err).Errorf("readiness: %s check failed", check)
		checks[check] = "error"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	if h.pool == nil {
		checks["database"] = "not_configured"
	} else if err := h.pool.HealthCheck(ctx); err != nil {
		fail("database", err)
	}

	switch {
	case checks["database"] != "ok" || h.graphs == nil:
		checks["schema"] = "unknown"
	default:
		if _, err := h.graphs.Count(ctx); err != nil {
			fail("schema", err)
		}
	}

	if h.neo4j == nil {
		checks["neo4j"] = "not_configured"
	} else if err := h.neo4j.HealthCheck(ctx); err != nil {
		fail("neo4j", err)
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}

func checkStatus(ctx context.Context, hc HealthChecker, ok, failed string) string {
	if hc == nil {
		return "not_configured"
	}

	if err := hc.HealthCheck(ctx); err != nil {
		return failed
	}

	return ok
}
