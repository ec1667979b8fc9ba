package service

import (
	"context"

	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/queue"
	"salescrm_backend/internal/leads/transport"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const topReasonCount = 3

// TodayQueue returns the leads due for outreach today, most urgent first.
func (s *Service) TodayQueue(ctx context.Context) ([]transport.QueueItem, error) {
	candidates, err := s.repo.ListQueueCandidates(ctx)
	if err != nil {
		return nil, err
	}
	due := queue.Select(candidates, s.Today())
	if len(due) == 0 {
		return []transport.QueueItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(due))
	for _, lead := range due {
		ids = append(ids, lead.ID)
	}

	var (
		contacts map[uuid.UUID][]domain.Contact
		latest   map[uuid.UUID]domain.Activity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, err = s.repo.ListContactsByLeadIDs(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.repo.LatestActivities(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]transport.QueueItem, 0, len(due))
	for _, lead := range due {
		var last *domain.Activity
		if a, ok := latest[lead.ID]; ok {
			last = &a
		}
		items = append(items, ToQueueItem(lead, primaryContact(contacts[lead.ID]), last))
	}
	return items, nil
}

func primaryContact(contacts []domain.Contact) *domain.Contact {
	for i := range contacts {
		if contacts[i].IsPrimary {
			return &contacts[i]
		}
	}
	return nil
}
