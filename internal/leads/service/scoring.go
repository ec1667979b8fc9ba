package service

import (
	"context"
	"fmt"

	"salescrm_backend/internal/events"
	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/repository"
	"salescrm_backend/internal/leads/scoring"
	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Score recomputes and persists one lead's score.
func (s *Service) Score(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, contacts, err := s.loadLeadWithContacts(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	scored, err := s.persistScore(ctx, lead, contacts, false)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(scored), nil
}

// ScoreBatch rescores every lead sequentially. Leads scored before a failure
// stay committed.
func (s *Service) ScoreBatch(ctx context.Context) (transport.BatchScoreResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return transport.BatchScoreResponse{}, err
	}

	ids := make([]uuid.UUID, 0, len(leads))
	for _, lead := range leads {
		ids = append(ids, lead.ID)
	}
	contactsByLead, err := s.repo.ListContactsByLeadIDs(ctx, ids)
	if err != nil {
		return transport.BatchScoreResponse{}, err
	}

	scored := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		updated, err := s.persistScore(ctx, lead, contactsByLead[lead.ID], true)
		if err != nil {
			s.log.WithContext(ctx).DatabaseError("score batch", err)
			return transport.BatchScoreResponse{}, fmt.Errorf("rescore after %d leads: %w", len(scored), err)
		}
		scored = append(scored, ToLeadResponse(updated))
	}

	return transport.BatchScoreResponse{
		Message: fmt.Sprintf("Successfully scored %d leads", len(scored)),
		Count:   len(scored),
		Leads:   scored,
	}, nil
}

// EnqueueScoreBatch hands the batch rescore to the worker.
func (s *Service) EnqueueScoreBatch(ctx context.Context) (transport.BatchScoreQueuedResponse, error) {
	if s.rescorer == nil {
		return transport.BatchScoreQueuedResponse{}, apperr.Misconfigured(MsgAsyncUnavailable)
	}
	taskID, err := s.rescorer.EnqueueRescoreAll(ctx)
	if err != nil {
		return transport.BatchScoreQueuedResponse{}, err
	}
	return transport.BatchScoreQueuedResponse{Queued: true, TaskID: taskID}, nil
}

// AsyncScoringEnabled reports whether EnqueueScoreBatch can succeed.
func (s *Service) AsyncScoringEnabled() bool {
	return s.rescorer != nil
}

func (s *Service) persistScore(ctx context.Context, lead domain.Lead, contacts []domain.Contact, batch bool) (domain.Lead, error) {
	result := scoring.Score(lead, scoring.SignalsFromContacts(contacts))

	updated, err := s.repo.UpdateScore(ctx, lead.ID, repository.ScoreUpdate{
		Score:   result.Score,
		Reasons: result.Reasons,
		Angle:   result.Angle,
	})
	if err != nil {
		return domain.Lead{}, mapNotFound(err)
	}

	s.log.LeadScored(updated.ID.String(), result.Score, result.Angle)
	s.publish(ctx, events.LeadScored{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    updated.ID,
		Score:     result.Score,
		Angle:     result.Angle,
		Batch:     batch,
	})
	return updated, nil
}
