// Package leads provides lead management functionality.
// This file defines the public API of the leads bounded context.
// Other modules depend on these interfaces, not on the service itself.
package leads

import (
	"context"

	"salescrm_backend/internal/leads/transport"
)

// QueueReader exposes the Today Queue to exporters.
type QueueReader interface {
	TodayQueue(ctx context.Context) ([]transport.QueueItem, error)
}

// BatchScorer runs the sequential batch rescore for background workers.
type BatchScorer interface {
	ScoreBatch(ctx context.Context) (transport.BatchScoreResponse, error)
}
