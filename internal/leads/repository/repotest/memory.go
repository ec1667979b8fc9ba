// Package repotest provides an in-memory leads repository for tests.
package repotest

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// Memory is an in-memory LeadsRepository. It mirrors the SQL semantics the
// services rely on: primary contacts first, newest leads first, outcomes
// applied with the do-not-contact flag only ever set.
type Memory struct {
	mu         sync.Mutex
	leads      map[uuid.UUID]domain.Lead
	order      []uuid.UUID
	contacts   map[uuid.UUID][]domain.Contact
	activities map[uuid.UUID][]domain.Activity
	now        time.Time

	// FailScoreAfter makes UpdateScore fail after this many successful calls.
	// Negative disables it.
	FailScoreAfter int
	scoreCalls     int
}

var _ repository.LeadsRepository = (*Memory)(nil)

// NewMemory returns an empty repository whose timestamps are now.
func NewMemory(now time.Time) *Memory {
	return &Memory{
		leads:          map[uuid.UUID]domain.Lead{},
		contacts:       map[uuid.UUID][]domain.Contact{},
		activities:     map[uuid.UUID][]domain.Activity{},
		now:            now,
		FailScoreAfter: -1,
	}
}

// Put stores lead as is, assigning an id when it has none.
func (m *Memory) Put(lead domain.Lead) domain.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if _, exists := m.leads[lead.ID]; !exists {
		m.order = append(m.order, lead.ID)
	}
	m.leads[lead.ID] = lead
	return lead
}

// Leads returns a snapshot of every stored lead.
func (m *Memory) Leads() []domain.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Lead, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.leads[id])
	}
	return out
}

func (m *Memory) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (m *Memory) List(_ context.Context) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Lead, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.leads[m.order[i]])
	}
	return out, nil
}

func (m *Memory) ListQueueCandidates(ctx context.Context) ([]domain.Lead, error) {
	return m.List(ctx)
}

func (m *Memory) Create(_ context.Context, params repository.CreateLeadParams) (domain.Lead, error) {
	lead := domain.NewLead(params.CompanyName, m.now)
	lead.Website = params.Website
	lead.IndustryTrade = params.IndustryTrade
	lead.Locations = params.Locations
	lead.EmployeeEstimate = params.EmployeeEstimate
	lead.DoesPublicWorks = params.DoesPublicWorks
	lead.UnionLikely = params.UnionLikely
	lead.MultiJobsite = params.MultiJobsite
	lead.CurrentStack = params.CurrentStack
	lead.PainSignals = params.PainSignals
	lead.Stage = params.Stage
	return m.Put(lead), nil
}

func (m *Memory) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	if params.Website != nil {
		lead.Website = params.Website
	}
	if params.PainSignals != nil {
		lead.PainSignals = params.PainSignals
	}
	if params.EmployeeEstimate != nil {
		lead.EmployeeEstimate = params.EmployeeEstimate
	}
	if params.UnionLikely != nil {
		lead.UnionLikely = *params.UnionLikely
	}
	if params.Stage != nil {
		lead.Stage = *params.Stage
	}
	m.leads[id] = lead
	return lead, nil
}

func (m *Memory) UpdateScore(_ context.Context, id uuid.UUID, score repository.ScoreUpdate) (domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailScoreAfter >= 0 && m.scoreCalls >= m.FailScoreAfter {
		return domain.Lead{}, errors.New("database unavailable")
	}
	m.scoreCalls++
	lead, ok := m.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	angle := score.Angle
	lead.Score = score.Score
	lead.ScoreReasons = score.Reasons
	lead.RecommendedAngle = &angle
	m.leads[id] = lead
	return lead, nil
}

func (m *Memory) SetDoNotContact(_ context.Context, id uuid.UUID, doNotContact bool) (domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	lead.MarkDoNotContact()
	lead.DoNotContact = doNotContact
	m.leads[id] = lead
	return lead, nil
}

func (m *Memory) ApplyOutcome(_ context.Context, id uuid.UUID, outcome repository.OutcomeUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	applyOutcome(&lead, outcome)
	m.leads[id] = lead
	return nil
}

func applyOutcome(lead *domain.Lead, outcome repository.OutcomeUpdate) {
	status := outcome.Status
	lead.Status = &status
	lead.Stage = outcome.Stage
	lead.NextAction = outcome.NextAction
	lead.NextActionDate = outcome.NextActionDate
	lead.DoNotContact = lead.DoNotContact || outcome.DoNotContact
}

func (m *Memory) CreateContact(_ context.Context, params repository.CreateContactParams) (domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[params.LeadID]; !ok {
		return domain.Contact{}, repository.ErrNotFound
	}
	if params.IsPrimary {
		for i := range m.contacts[params.LeadID] {
			m.contacts[params.LeadID][i].IsPrimary = false
		}
	}
	c := domain.Contact{
		ID:          uuid.New(),
		LeadID:      params.LeadID,
		Name:        params.Name,
		Title:       params.Title,
		Email:       params.Email,
		Phone:       params.Phone,
		LinkedInURL: params.LinkedInURL,
		IsPrimary:   params.IsPrimary,
	}
	m.contacts[params.LeadID] = append(m.contacts[params.LeadID], c)
	return c, nil
}

func (m *Memory) ListContacts(_ context.Context, leadID uuid.UUID) ([]domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.contacts[leadID])
	slices.SortStableFunc(out, func(a, b domain.Contact) int {
		switch {
		case a.IsPrimary == b.IsPrimary:
			return 0
		case a.IsPrimary:
			return -1
		default:
			return 1
		}
	})
	return out, nil
}

func (m *Memory) ListContactsByLeadIDs(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]domain.Contact, error) {
	out := make(map[uuid.UUID][]domain.Contact, len(leadIDs))
	for _, id := range leadIDs {
		contacts, _ := m.ListContacts(ctx, id)
		if len(contacts) > 0 {
			out[id] = contacts
		}
	}
	return out, nil
}

func (m *Memory) LogActivity(_ context.Context, params repository.CreateActivityParams, outcome *repository.OutcomeUpdate) (domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[params.LeadID]
	if !ok {
		return domain.Activity{}, repository.ErrNotFound
	}
	ts := m.now
	if params.Timestamp != nil {
		ts = *params.Timestamp
	}
	a := domain.Activity{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		ContactID: params.ContactID,
		Type:      params.Type,
		Result:    params.Result,
		Notes:     params.Notes,
		Timestamp: ts,
	}
	m.activities[params.LeadID] = append(m.activities[params.LeadID], a)

	if outcome != nil {
		applyOutcome(&lead, *outcome)
	}
	lead.UpdatedAt = m.now
	m.leads[params.LeadID] = lead
	return a, nil
}

func (m *Memory) ListActivities(_ context.Context, leadID uuid.UUID) ([]repository.ActivityWithContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acts := m.activities[leadID]
	out := make([]repository.ActivityWithContact, 0, len(acts))
	for i := len(acts) - 1; i >= 0; i-- {
		row := repository.ActivityWithContact{Activity: acts[i]}
		if acts[i].ContactID != nil {
			for _, c := range m.contacts[leadID] {
				if c.ID == *acts[i].ContactID {
					row.Contact = &repository.ContactSummary{ID: c.ID, Name: c.Name, Title: c.Title}
				}
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *Memory) LatestActivities(_ context.Context, leadIDs []uuid.UUID) (map[uuid.UUID]domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID]domain.Activity{}
	for _, id := range leadIDs {
		if acts := m.activities[id]; len(acts) > 0 {
			out[id] = acts[len(acts)-1]
		}
	}
	return out, nil
}
