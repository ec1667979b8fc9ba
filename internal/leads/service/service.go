// Package service orchestrates the leads repository, the scoring and
// automation engines and the event bus. Handlers call into this layer only.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"salescrm_backend/internal/events"
	"salescrm_backend/internal/leads/automation"
	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/repository"
	"salescrm_backend/internal/leads/scheduling"
	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/apperr"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/phone"
	"salescrm_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MsgLeadNotFound         = "Lead not found"
	MsgContactNotFound      = "Contact not found"
	MsgCompanyNameRequired  = "companyName is required and must be a string"
	MsgActivityRequired     = "leadId and type are required"
	MsgDoNotContactActivity = "Cannot update activities for do-not-contact leads"
	MsgDoNotContactUpdate   = "Cannot update do-not-contact leads"
	MsgAsyncUnavailable     = "async rescoring is not configured"
)

// RescoreEnqueuer hands a batch rescore to a background worker.
type RescoreEnqueuer interface {
	EnqueueRescoreAll(ctx context.Context) (string, error)
}

// Service handles lead management, scoring, outreach logging and the queue.
type Service struct {
	repo     repository.LeadsRepository
	eventBus events.Bus
	rules    *automation.Engine
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time
	rescorer RescoreEnqueuer
}

// New creates the leads service. loc decides what "today" means.
func New(repo repository.LeadsRepository, eventBus events.Bus, log *logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		rules:    automation.New(),
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

// SetRescoreEnqueuer enables async batch rescoring.
func (s *Service) SetRescoreEnqueuer(e RescoreEnqueuer) {
	s.rescorer = e
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Today is local midnight of the current day in the configured zone.
func (s *Service) Today() time.Time {
	return scheduling.StartOfDay(s.now(), s.loc)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, event)
	}
}

// Create adds a lead in stage NEW.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	name := sanitize.Text(req.CompanyName)
	if name == "" {
		return transport.LeadResponse{}, apperr.Validation(MsgCompanyNameRequired)
	}

	params := repository.CreateLeadParams{
		CompanyName:      name,
		Website:          trimmed(req.Website),
		IndustryTrade:    sanitize.OptionalText(req.IndustryTrade),
		Locations:        sanitize.OptionalText(req.Locations),
		EmployeeEstimate: req.EmployeeEstimate,
		CurrentStack:     sanitize.OptionalText(req.CurrentStack),
		PainSignals:      sanitize.OptionalText(req.PainSignals),
		Stage:            domain.StageNew,
	}
	var err error
	if params.DoesPublicWorks, err = parseTri("doesPublicWorks", req.DoesPublicWorks); err != nil {
		return transport.LeadResponse{}, err
	}
	if params.UnionLikely, err = parseTri("unionLikely", req.UnionLikely); err != nil {
		return transport.LeadResponse{}, err
	}
	if params.MultiJobsite, err = parseTri("multiJobsite", req.MultiJobsite); err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		CompanyName: lead.CompanyName,
	})
	return ToLeadResponse(lead), nil
}

// List returns all leads, newest first.
func (s *Service) List(ctx context.Context) ([]transport.LeadResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out, nil
}

// Get returns one lead with its contacts.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, contacts, err := s.loadLeadWithContacts(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}
	return ToLeadDetailResponse(lead, contacts), nil
}

// Update applies a partial edit of the qualification fields and stage.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	current, err := s.getLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if current.DoNotContact {
		return transport.LeadResponse{}, apperr.Forbidden(MsgDoNotContactUpdate)
	}

	params := repository.UpdateLeadParams{
		Website:          trimmed(req.Website),
		IndustryTrade:    keepEmpty(req.IndustryTrade),
		Locations:        keepEmpty(req.Locations),
		EmployeeEstimate: req.EmployeeEstimate,
		CurrentStack:     keepEmpty(req.CurrentStack),
		PainSignals:      keepEmpty(req.PainSignals),
	}
	for _, tri := range []struct {
		field string
		raw   *string
		dst   **domain.TriState
	}{
		{"doesPublicWorks", req.DoesPublicWorks, &params.DoesPublicWorks},
		{"unionLikely", req.UnionLikely, &params.UnionLikely},
		{"multiJobsite", req.MultiJobsite, &params.MultiJobsite},
	} {
		if tri.raw == nil {
			continue
		}
		value, err := parseTri(tri.field, tri.raw)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		*tri.dst = &value
	}
	if req.Stage != nil {
		stage, ok := domain.ParseStage(*req.Stage)
		if !ok {
			return transport.LeadResponse{}, apperr.Validation("stage must be one of " + strings.Join(domain.StageValues(), ", "))
		}
		params.Stage = &stage
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, mapNotFound(err)
	}
	return ToLeadResponse(lead), nil
}

// SetDoNotContact suppresses a lead. A nil flag means true.
func (s *Service) SetDoNotContact(ctx context.Context, id uuid.UUID, flag *bool) (transport.LeadResponse, error) {
	doNotContact := true
	if flag != nil {
		doNotContact = *flag
	}

	lead, err := s.repo.SetDoNotContact(ctx, id, doNotContact)
	if err != nil {
		return transport.LeadResponse{}, mapNotFound(err)
	}
	if doNotContact {
		s.publish(ctx, events.LeadDoNotContact{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Source:    "manual",
		})
	}
	return ToLeadResponse(lead), nil
}

// AddContact attaches a contact to a lead. Phones are stored as E.164 when
// they parse.
func (s *Service) AddContact(ctx context.Context, leadID uuid.UUID, req transport.CreateContactRequest) (transport.ContactResponse, error) {
	if _, err := s.getLead(ctx, leadID); err != nil {
		return transport.ContactResponse{}, err
	}

	name := sanitize.Text(req.Name)
	if name == "" {
		return transport.ContactResponse{}, apperr.Validation("name is required")
	}

	var phoneNumber *string
	if p := trimmed(req.Phone); p != nil && *p != "" {
		normalized := phone.NormalizeE164(*p)
		phoneNumber = &normalized
	}

	contact, err := s.repo.CreateContact(ctx, repository.CreateContactParams{
		LeadID:      leadID,
		Name:        name,
		Title:       sanitize.OptionalText(req.Title),
		Email:       lowerTrimmed(req.Email),
		Phone:       phoneNumber,
		LinkedInURL: trimmed(req.LinkedInURL),
		IsPrimary:   req.IsPrimary,
	})
	if err != nil {
		return transport.ContactResponse{}, mapNotFound(err)
	}
	return ToContactResponse(contact), nil
}

// ListContacts returns a lead's contacts, primary first.
func (s *Service) ListContacts(ctx context.Context, leadID uuid.UUID) ([]transport.ContactResponse, error) {
	_, contacts, err := s.loadLeadWithContacts(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}

func (s *Service) getLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, mapNotFound(err)
	}
	return lead, nil
}

// loadLeadWithContacts reads the lead and its contacts concurrently.
func (s *Service) loadLeadWithContacts(ctx context.Context, id uuid.UUID) (domain.Lead, []domain.Contact, error) {
	var (
		lead     domain.Lead
		contacts []domain.Contact
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lead, err = s.repo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		contacts, err = s.repo.ListContacts(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Lead{}, nil, mapNotFound(err)
	}
	return lead, contacts, nil
}

func mapNotFound(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(MsgLeadNotFound)
	case errors.Is(err, repository.ErrContactNotFound):
		return apperr.NotFound(MsgContactNotFound)
	default:
		return err
	}
}

func parseTri(field string, raw *string) (domain.TriState, error) {
	if raw == nil {
		return domain.TriUnknown, nil
	}
	value, ok := domain.ParseTriState(*raw)
	if !ok {
		return "", apperr.Validation(field + " must be one of yes, no, unknown")
	}
	return value, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func lowerTrimmed(s *string) *string {
	v := trimmed(s)
	if v == nil || *v == "" {
		return nil
	}
	lower := strings.ToLower(*v)
	return &lower
}

// keepEmpty sanitizes an update value but keeps an explicit empty string so
// a PATCH can blank a field.
func keepEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitize.Text(*s)
	return &v
}
