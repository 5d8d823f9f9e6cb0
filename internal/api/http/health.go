package http

import (
	"context"
	"net/http"
	"time"

	"github.com/eon-interface/idealworld/internal/provider"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status    string                      `json:"status"`
	Timestamp time.Time                   `json:"timestamp"`
	Service   string                      `json:"service"`
	Version   string                      `json:"version"`
	Redis     string                      `json:"redis,omitempty"`
	Provider  map[string]provider.OpStats `json:"provider,omitempty"`
}

// MetricsSource reports provider call counters.
type MetricsSource interface {
	Snapshot() map[string]provider.OpStats
}

type HealthHandler struct {
	serviceName string
	version     string
	redis       *redis.Client
	metrics     MetricsSource
}

// NewHealthHandler builds the handler. redis and metrics may be nil.
func NewHealthHandler(serviceName, version string, rdb *redis.Client, metrics MetricsSource) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		redis:       rdb,
		metrics:     metrics,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	redisStatus := "disabled"
	if h.redis != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.redis.Ping(pingCtx).Err(); err != nil {
			redisStatus = "down"
		} else {
			redisStatus = "up"
		}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Redis:     redisStatus,
	}
	if h.metrics != nil {
		resp.Provider = h.metrics.Snapshot()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
