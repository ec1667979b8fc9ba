package scheduler

import (
	"context"
	"fmt"

	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/config"
	"salescrm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Rescorer runs the batch rescore loop.
type Rescorer interface {
	ScoreBatch(ctx context.Context) (transport.BatchScoreResponse, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	rescorer Rescorer
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, rescorer Rescorer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 1
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(rescorer, log)
	w.server = server
	return w, nil
}

func newWorker(rescorer Rescorer, log *logger.Logger) *Worker {
	w := &Worker{
		mux:      asynq.NewServeMux(),
		rescorer: rescorer,
		log:      log,
	}
	w.mux.HandleFunc(TaskRescoreAll, w.handleRescoreAll)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRescoreAll(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRescoreAllPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	result, err := w.rescorer.ScoreBatch(ctx)
	if err != nil {
		return err
	}

	w.log.Info("batch rescore finished",
		"count", result.Count,
		"source", payload.Source,
		"requested_at", payload.RequestedAt,
	)
	return nil
}
