package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status      string    `json:"status"`
	Database    string    `json:"database"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health answers health checks. Database results are cached for
// cacheDuration so a busy probe does not hammer the pool.
type Health struct {
	db            Pinger
	version       string
	startTime     time.Time
	cacheDuration time.Duration

	mu          sync.Mutex
	last        HealthStatus
	lastChecked time.Time
}

func NewHealth(db Pinger, version string) *Health {
	return &Health{
		db:            db,
		version:       version,
		startTime:     time.Now(),
		cacheDuration: 5 * time.Second,
	}
}

func (h *Health) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.check(c.Request.Context())

		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}

func (h *Health) check(ctx context.Context) HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	if !h.lastChecked.IsZero() && now.Sub(h.lastChecked) < h.cacheDuration {
		h.last.Uptime = now.Sub(h.startTime).Round(time.Second).String()
		return h.last
	}

	status := HealthStatus{
		Status:      "ok",
		Database:    "ok",
		LastChecked: now,
		Uptime:      now.Sub(h.startTime).Round(time.Second).String(),
		Version:     h.version,
	}
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(pingCtx); err != nil {
			status.Status = "degraded"
			status.Database = err.Error()
		}
	}

	h.last = status
	h.lastChecked = now
	return status
}
