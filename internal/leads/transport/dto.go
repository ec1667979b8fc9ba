package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateLeadRequest creates a lead from a company name. Qualification fields
// are optional so a seed-style record can be posted in one call.
type CreateLeadRequest struct {
	CompanyName      string  `json:"companyName" validate:"required,max=200"`
	Website          *string `json:"website,omitempty" validate:"omitempty,max=500"`
	IndustryTrade    *string `json:"industryTrade,omitempty" validate:"omitempty,max=200"`
	Locations        *string `json:"locations,omitempty" validate:"omitempty,max=500"`
	EmployeeEstimate *int    `json:"employeeEstimate,omitempty" validate:"omitempty,min=0,max=1000000"`
	DoesPublicWorks  *string `json:"doesPublicWorks,omitempty" validate:"omitempty,tristate"`
	UnionLikely      *string `json:"unionLikely,omitempty" validate:"omitempty,tristate"`
	MultiJobsite     *string `json:"multiJobsite,omitempty" validate:"omitempty,tristate"`
	CurrentStack     *string `json:"currentStack,omitempty" validate:"omitempty,max=2000"`
	PainSignals      *string `json:"painSignals,omitempty" validate:"omitempty,max=5000"`
}

// UpdateLeadRequest is a partial update; absent fields are left untouched.
type UpdateLeadRequest struct {
	Website          *string `json:"website,omitempty" validate:"omitempty,max=500"`
	IndustryTrade    *string `json:"industryTrade,omitempty" validate:"omitempty,max=200"`
	Locations        *string `json:"locations,omitempty" validate:"omitempty,max=500"`
	EmployeeEstimate *int    `json:"employeeEstimate,omitempty" validate:"omitempty,min=0,max=1000000"`
	DoesPublicWorks  *string `json:"doesPublicWorks,omitempty" validate:"omitempty,tristate"`
	UnionLikely      *string `json:"unionLikely,omitempty" validate:"omitempty,tristate"`
	MultiJobsite     *string `json:"multiJobsite,omitempty" validate:"omitempty,tristate"`
	CurrentStack     *string `json:"currentStack,omitempty" validate:"omitempty,max=2000"`
	PainSignals      *string `json:"painSignals,omitempty" validate:"omitempty,max=5000"`
	Stage            *string `json:"stage,omitempty" validate:"omitempty,stage"`
}

type DoNotContactRequest struct {
	DoNotContact *bool `json:"doNotContact"`
}

type CreateContactRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,min=5,max=40"`
	LinkedInURL *string `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	IsPrimary   bool    `json:"isPrimary"`
}

type CreateActivityRequest struct {
	LeadID    string     `json:"leadId" validate:"required,uuid"`
	ContactID *string    `json:"contactId,omitempty" validate:"omitempty,uuid"`
	Type      string     `json:"type" validate:"required,activitytype"`
	Result    *string    `json:"result,omitempty" validate:"omitempty,activityresult"`
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Response DTOs

type ContactResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"leadId"`
	Name        string    `json:"name"`
	Title       *string   `json:"title"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	LinkedInURL *string   `json:"linkedinUrl"`
	IsPrimary   bool      `json:"isPrimary"`
}

type LeadResponse struct {
	ID               uuid.UUID `json:"id"`
	CompanyName      string    `json:"companyName"`
	Website          *string   `json:"website"`
	IndustryTrade    *string   `json:"industryTrade"`
	Locations        *string   `json:"locations"`
	EmployeeEstimate *int      `json:"employeeEstimate"`
	DoesPublicWorks  string    `json:"doesPublicWorks"`
	UnionLikely      string    `json:"unionLikely"`
	MultiJobsite     string    `json:"multiJobsite"`
	CurrentStack     *string   `json:"currentStack"`
	PainSignals      *string   `json:"painSignals"`
	Score            int       `json:"score"`
	ScoreReasons     []string  `json:"scoreReasons"`
	RecommendedAngle *string   `json:"recommendedAngle"`
	Stage            string    `json:"stage"`
	Status           *string   `json:"status"`
	NextAction       *string   `json:"nextAction"`
	NextActionDate   *string   `json:"nextActionDate"`
	DoNotContact     bool      `json:"doNotContact"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// LeadDetailResponse is a lead with its contacts, primary first.
type LeadDetailResponse struct {
	LeadResponse
	Contacts []ContactResponse `json:"contacts"`
}

type BatchScoreResponse struct {
	Message string         `json:"message"`
	Count   int            `json:"count"`
	Leads   []LeadResponse `json:"leads"`
}

type BatchScoreQueuedResponse struct {
	Queued bool   `json:"queued"`
	TaskID string `json:"taskId"`
}

type ContactSummaryResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Title *string   `json:"title"`
}

type ActivityResponse struct {
	ID        uuid.UUID               `json:"id"`
	LeadID    uuid.UUID               `json:"leadId"`
	ContactID *uuid.UUID              `json:"contactId"`
	Type      string                  `json:"type"`
	Result    *string                 `json:"result"`
	Notes     *string                 `json:"notes"`
	Timestamp time.Time               `json:"timestamp"`
	Contact   *ContactSummaryResponse `json:"contact,omitempty"`
	Lead      *LeadResponse           `json:"lead,omitempty"`
}

type AutomationResponse struct {
	Rule           string  `json:"rule"`
	Status         string  `json:"status"`
	Stage          string  `json:"stage"`
	NextAction     *string `json:"nextAction"`
	NextActionDate *string `json:"nextActionDate"`
}

type CreateActivityResponse struct {
	Activity   ActivityResponse    `json:"activity"`
	Automation *AutomationResponse `json:"automation"`
}

// Queue projection keys are snake_case for the dashboard.

type QueueContact struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Title *string   `json:"title"`
	Email *string   `json:"email"`
	Phone *string   `json:"phone"`
}

type QueueActivity struct {
	Type      string    `json:"type"`
	Result    *string   `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

type QueueItem struct {
	LeadID           uuid.UUID      `json:"lead_id"`
	CompanyName      string         `json:"company_name"`
	Website          *string        `json:"website"`
	Score            int            `json:"score"`
	RecommendedAngle *string        `json:"recommended_angle"`
	NextAction       *string        `json:"next_action"`
	NextActionDate   *string        `json:"next_action_date"`
	Stage            string         `json:"stage"`
	Status           *string        `json:"status"`
	TopReasons       []string       `json:"top_reasons"`
	PrimaryContact   *QueueContact  `json:"primary_contact"`
	LastActivity     *QueueActivity `json:"last_activity"`
}
