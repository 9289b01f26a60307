// Package healthcheck provides health and readiness check functionality
// following the Health Check API pattern for cloud-native applications.
package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check represents a single dependency check result
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
}

// Response represents the aggregate health check response
type Response struct {
	Status        Status        `json:"status"`
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// HealthCheck runs registered checkers and caches the aggregate result
// briefly so probe storms do not hammer dependencies.
type HealthCheck struct {
	version  string
	checkers map[string]Checker
	logger   *zap.Logger
	mu       sync.RWMutex
	cache    *Response
	cachedAt time.Time
	cacheTTL time.Duration
}

// New creates a new health check instance
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		checkers: make(map[string]Checker),
		logger:   logger,
		cacheTTL: 5 * time.Second,
	}
}

// Register registers a health checker under a name
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// SetCacheTTL overrides how long an aggregate result is reused
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Run executes all registered checkers and aggregates their status.
// Degraded means at least one check failed but not all of them.
func (h *HealthCheck) Run(ctx context.Context) Response {
	h.mu.RLock()
	if h.cache != nil && time.Since(h.cachedAt) < h.cacheTTL {
		cached := *h.cache
		h.mu.RUnlock()
		return cached
	}
	checkers := make(map[string]Checker, len(h.checkers))
	for name, c := range h.checkers {
		checkers[name] = c
	}
	h.mu.RUnlock()

	start := time.Now()
	checks := make([]Check, 0, len(checkers))
	healthy, unhealthy := 0, 0

	for name, checker := range checkers {
		check := checker.Check(ctx)
		if check.Name == "" {
			check.Name = name
		}
		if check.Status == StatusHealthy {
			healthy++
		} else {
			unhealthy++
			h.logger.Warn("Health check failed",
				zap.String("check", check.Name),
				zap.String("message", check.Message),
			)
		}
		checks = append(checks, check)
	}

	status := StatusHealthy
	switch {
	case unhealthy > 0 && healthy > 0:
		status = StatusDegraded
	case unhealthy > 0:
		status = StatusUnhealthy
	}

	resp := Response{
		Status:        status,
		Version:       h.version,
		Timestamp:     time.Now(),
		Checks:        checks,
		TotalDuration: time.Since(start) / time.Millisecond,
	}

	h.mu.Lock()
	h.cache = &resp
	h.cachedAt = time.Now()
	h.mu.Unlock()

	return resp
}

// Handler serves the aggregate health status. A fully unhealthy response is
// reported as 503 so load balancers stop routing.
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		resp := h.Run(ctx)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("Failed to encode health response", zap.Error(err))
		}
	}
}
