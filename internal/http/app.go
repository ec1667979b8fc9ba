// Package http holds what the router needs from the composition root and the
// contract every HTTP-facing module implements.
package http

import (
	"context"

	"salescrm_backend/internal/events"
	"salescrm_backend/platform/config"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/metrics"
)

// RouterConfig is the slice of configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.AuthConfig
}

// HealthChecker backs /api/health/ready.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is built by cmd/api and handed to router.New.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health may be nil; readiness then always reports ok.
	Health HealthChecker
	// Metrics may be nil; /metrics is then not mounted.
	Metrics  *metrics.Manager
	EventBus events.Bus
	Modules  []Module
}
