// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"salescrm_backend/internal/events"
	apphttp "salescrm_backend/internal/http"
	"salescrm_backend/internal/leads/handler"
	"salescrm_backend/internal/leads/repository"
	"salescrm_backend/internal/leads/service"
	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/config"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/metrics"
	"salescrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.CalendarConfig, m *metrics.Manager, log *logger.Logger) (*Module, error) {
	if err := transport.RegisterValidations(val); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log, cfg.GetLocation())

	NewRecorder(m, log).Subscribe(eventBus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for the exporters and the CLI.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the leads repository for seed imports.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// SetRescoreEnqueuer enables ?async=true batch rescoring.
func (m *Module) SetRescoreEnqueuer(e service.RescoreEnqueuer) {
	m.service.SetRescoreEnqueuer(e)
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

var (
	_ apphttp.Module = (*Module)(nil)
	_ QueueReader    = (*service.Service)(nil)
	_ BatchScorer    = (*service.Service)(nil)
)
