package adaptor

import (
	"context"
	"net/http"
	"time"

	"cinema-backoffice/pkg/database"
	"cinema-backoffice/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

type HealthHandler struct {
	db        database.Querier
	redis     redis.UniversalClient
	startedAt time.Time
	clock     utils.Clock
	log       *zap.Logger
}

type healthStatus struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	Uptime         string `json:"uptime"`
	Database       string `json:"database"`
	Redis          string `json:"redis"`
	ResponseTimeMS int64  `json:"response_time_ms"`
}

// NewHealthHandler builds the health check. redis may be nil when it is not configured.
func NewHealthHandler(db database.Querier, rdb redis.UniversalClient, clock utils.Clock, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     rdb,
		startedAt: clock.Now(),
		clock:     clock,
		log:       log.With(zap.String("handler", "health")),
	}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := healthStatus{
		Status:   "healthy",
		Database: "up",
		Redis:    "disabled",
	}

	var one int
	if err := h.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		h.log.Error("Database health check failed", zap.Error(err))
		status.Status = "unhealthy"
		status.Database = "down"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.log.Error("Redis health check failed", zap.Error(err))
			status.Status = "unhealthy"
			status.Redis = "down"
		} else {
			status.Redis = "up"
		}
	}

	now := h.clock.Now()
	status.Timestamp = now.Format(time.RFC3339)
	status.Uptime = now.Sub(h.startedAt).Truncate(time.Second).String()
	status.ResponseTimeMS = time.Since(start).Milliseconds()

	if status.Status != "healthy" {
		utils.ResponseServiceUnavailable(w, "Service unhealthy", status)
		return
	}
	utils.ResponseSuccess(w, "Service healthy", status)
}
