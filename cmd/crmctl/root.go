package main

import (
	"context"
	"fmt"

	"salescrm_backend/internal/events"
	"salescrm_backend/internal/leads"
	"salescrm_backend/platform/config"
	"salescrm_backend/platform/db"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/metrics"
	"salescrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "crmctl - sales CRM maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(rescoreCmd)
}

// runtime bundles what the data commands need. close releases the pool and
// drains the event bus.
type runtime struct {
	cfg   *config.Config
	log   *logger.Logger
	pool  *pgxpool.Pool
	leads *leads.Module
	bus   *events.InMemoryBus
}

func (r *runtime) close() {
	r.bus.Wait()
	r.pool.Close()
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Env)

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	bus := events.NewInMemoryBus(log)
	module, err := leads.NewModule(pool, bus, validator.New(), cfg, metrics.NewManager(), log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, log: log, pool: pool, leads: module, bus: bus}, nil
}
