package service

import (
	"context"

	"salescrm_backend/internal/events"
	"salescrm_backend/internal/leads/automation"
	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/repository"
	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/apperr"
	"salescrm_backend/platform/sanitize"

	"github.com/google/uuid"
)

// LogActivity appends an outreach activity. When a result is given the
// automation rules update the lead in the same transaction.
func (s *Service) LogActivity(ctx context.Context, req transport.CreateActivityRequest) (transport.CreateActivityResponse, error) {
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil || req.Type == "" {
		return transport.CreateActivityResponse{}, apperr.Validation(MsgActivityRequired)
	}
	activityType, ok := domain.ParseActivityType(req.Type)
	if !ok {
		return transport.CreateActivityResponse{}, apperr.Validation("type must be one of call, email, voicemail, linkedin, note")
	}

	var result *domain.ActivityResult
	if req.Result != nil && *req.Result != "" {
		parsed, ok := domain.ParseActivityResult(*req.Result)
		if !ok {
			return transport.CreateActivityResponse{}, apperr.Validation("result is not a known activity result")
		}
		result = &parsed
	}

	lead, err := s.getLead(ctx, leadID)
	if err != nil {
		return transport.CreateActivityResponse{}, err
	}
	if lead.DoNotContact {
		return transport.CreateActivityResponse{}, apperr.Forbidden(MsgDoNotContactActivity)
	}

	var contactID *uuid.UUID
	if req.ContactID != nil && *req.ContactID != "" {
		id, err := uuid.Parse(*req.ContactID)
		if err != nil {
			return transport.CreateActivityResponse{}, apperr.Validation("contactId must be a valid uuid")
		}
		if err := s.ensureContactBelongsTo(ctx, leadID, id); err != nil {
			return transport.CreateActivityResponse{}, err
		}
		contactID = &id
	}

	var (
		resolved *automation.Resolved
		outcome  *repository.OutcomeUpdate
	)
	if result != nil {
		r := s.rules.Evaluate(automation.Input{
			Type:         activityType,
			Result:       *result,
			CurrentStage: lead.Stage,
		}).Resolve(s.now().In(s.loc))
		resolved = &r
		outcome = &repository.OutcomeUpdate{
			Status:         r.Status,
			Stage:          r.Stage,
			NextAction:     r.NextAction,
			NextActionDate: r.NextActionDate,
			DoNotContact:   r.SuppressLead,
		}
	}

	activity, err := s.repo.LogActivity(ctx, repository.CreateActivityParams{
		LeadID:    leadID,
		ContactID: contactID,
		Type:      activityType,
		Result:    result,
		Notes:     sanitize.OptionalText(req.Notes),
		Timestamp: req.Timestamp,
	}, outcome)
	if err != nil {
		return transport.CreateActivityResponse{}, mapNotFound(err)
	}

	refreshed, err := s.getLead(ctx, leadID)
	if err != nil {
		return transport.CreateActivityResponse{}, err
	}

	s.publish(ctx, events.ActivityLogged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		ActivityID: activity.ID,
		Type:       string(activity.Type),
		Result:     resultString(activity.Result),
	})

	resp := transport.CreateActivityResponse{Activity: ToActivityResponse(activity, nil)}
	leadResp := ToLeadResponse(refreshed)
	resp.Activity.Lead = &leadResp

	if resolved != nil {
		s.log.WithContext(ctx).AutomationApplied(leadID.String(), resolved.Rule, string(lead.Stage), string(resolved.Stage))
		s.publish(ctx, events.LeadAutomationApplied{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    leadID,
			Rule:      resolved.Rule,
			FromStage: string(lead.Stage),
			ToStage:   string(resolved.Stage),
		})
		if resolved.SuppressLead {
			s.publish(ctx, events.LeadDoNotContact{
				BaseEvent: events.NewBaseEvent(),
				LeadID:    leadID,
				Source:    "activity",
			})
		}
		resp.Automation = &transport.AutomationResponse{
			Rule:           resolved.Rule,
			Status:         resolved.Status,
			Stage:          string(resolved.Stage),
			NextAction:     resolved.NextAction,
			NextActionDate: resolved.NextActionDateString(),
		}
	}
	return resp, nil
}

// ListActivities returns a lead's history, most recent first.
func (s *Service) ListActivities(ctx context.Context, leadID uuid.UUID) ([]transport.ActivityResponse, error) {
	if _, err := s.getLead(ctx, leadID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListActivities(ctx, leadID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ActivityResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToActivityResponse(row.Activity, row.Contact))
	}
	return out, nil
}

func (s *Service) ensureContactBelongsTo(ctx context.Context, leadID, contactID uuid.UUID) error {
	contacts, err := s.repo.ListContacts(ctx, leadID)
	if err != nil {
		return err
	}
	for _, c := range contacts {
		if c.ID == contactID {
			return nil
		}
	}
	return apperr.NotFound(MsgContactNotFound)
}

func resultString(r *domain.ActivityResult) string {
	if r == nil {
		return ""
	}
	return string(*r)
}
