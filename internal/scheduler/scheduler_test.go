package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/config"
	"salescrm_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func TestEnqueueRescoreAllPushesPendingTask(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisURL: "redis://" + mr.Addr(), AsynqQueueName: "crm"}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	taskID, err := client.EnqueueRescoreAll(context.Background())
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if taskID == "" {
		t.Fatal("expected a task id")
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	n, err := rdb.LLen(context.Background(), "asynq:{crm}:pending").Result()
	if err != nil {
		t.Fatalf("llen: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pending task, got %d", n)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(&config.Config{}); err == nil {
		t.Fatal("expected error without REDIS_URL")
	}
}

func TestRedisClientOptTLSInsecure(t *testing.T) {
	opt, err := redisClientOpt("rediss://:secret@cache.internal:6380/2", true)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opt.Addr != "cache.internal:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected options %+v", opt)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config")
	}
}

type stubRescorer struct {
	count int
	err   error
	calls int
}

func (s *stubRescorer) ScoreBatch(context.Context) (transport.BatchScoreResponse, error) {
	s.calls++
	return transport.BatchScoreResponse{Count: s.count}, s.err
}

func TestHandleRescoreAll(t *testing.T) {
	task, err := NewRescoreAllTask(RescoreAllPayload{RequestedAt: time.Now(), Source: "api"})
	if err != nil {
		t.Fatalf("task: %v", err)
	}

	ok := &stubRescorer{count: 4}
	if err := newWorker(ok, logger.Discard()).handleRescoreAll(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.calls != 1 {
		t.Fatalf("expected one batch run, got %d", ok.calls)
	}

	failing := &stubRescorer{err: errors.New("db down")}
	if err := newWorker(failing, logger.Discard()).handleRescoreAll(context.Background(), task); err == nil {
		t.Fatal("expected batch error to propagate for retry")
	}
}

func TestHandleRescoreAllSkipsRetryOnBadPayload(t *testing.T) {
	w := newWorker(&stubRescorer{}, logger.Discard())
	err := w.handleRescoreAll(context.Background(), asynq.NewTask(TaskRescoreAll, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
