package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	credentialPresent func() bool
	redis             *redis.Client
}

// NewHealthChecker creates a health checker. credentialPresent reports
// whether the provider API key is available; redisClient may be nil.
func NewHealthChecker(credentialPresent func() bool, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{credentialPresent: credentialPresent, redis: redisClient}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthCheck handles /healthz. With ?mode=extended it reports the provider
// credential and redis. A missing credential only degrades the service since
// the greeting still falls back; an unreachable redis makes it unhealthy.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	statusCode := http.StatusOK
	if r.URL.Query().Get("mode") == "extended" {
		checks := make(map[string]string)

		if h.credentialPresent != nil && h.credentialPresent() {
			checks["ai_credential"] = "present"
		} else {
			checks["ai_credential"] = "missing"
			response.Status = statusDegraded
		}

		if h.redis != nil {
			if err := h.checkRedis(r.Context()); err != nil {
				checks["redis"] = statusUnhealthy + ": " + sanitizeErrorMessage(err.Error())
				response.Status = statusUnhealthy
				statusCode = http.StatusServiceUnavailable
			} else {
				checks["redis"] = statusHealthy
			}
		}

		response.Checks = checks
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthChecker) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.redis.Ping(ctx).Err()
}
