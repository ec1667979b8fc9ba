package repository

import (
	"context"

	"salescrm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context) ([]domain.Lead, error)
	ListQueueCandidates(ctx context.Context) ([]domain.Lead, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error)
	UpdateScore(ctx context.Context, id uuid.UUID, score ScoreUpdate) (domain.Lead, error)
	SetDoNotContact(ctx context.Context, id uuid.UUID, doNotContact bool) (domain.Lead, error)
	ApplyOutcome(ctx context.Context, id uuid.UUID, outcome OutcomeUpdate) error
}

// ContactStore manages lead contacts.
type ContactStore interface {
	CreateContact(ctx context.Context, params CreateContactParams) (domain.Contact, error)
	ListContacts(ctx context.Context, leadID uuid.UUID) ([]domain.Contact, error)
	ListContactsByLeadIDs(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]domain.Contact, error)
}

// ActivityStore appends and reads outreach activities. There is no update
// or delete: the activity log is append-only.
type ActivityStore interface {
	LogActivity(ctx context.Context, params CreateActivityParams, outcome *OutcomeUpdate) (domain.Activity, error)
	ListActivities(ctx context.Context, leadID uuid.UUID) ([]ActivityWithContact, error)
	LatestActivities(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID]domain.Activity, error)
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	ContactStore
	ActivityStore
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)
