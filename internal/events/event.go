// Package events defines the leads domain events and re-exports the bus
// from platform/events so modules import a single package.
package events

import (
	"salescrm_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a lead is created through the API or a seed import.
type LeadCreated struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	CompanyName string    `json:"companyName"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadScored is published after a score recomputation has been persisted.
type LeadScored struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Score  int       `json:"score"`
	Angle  string    `json:"angle"`
	Batch  bool      `json:"batch"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// ActivityLogged is published for every appended activity.
type ActivityLogged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	ActivityID uuid.UUID `json:"activityId"`
	Type       string    `json:"type"`
	Result     string    `json:"result,omitempty"`
}

func (e ActivityLogged) EventName() string { return "leads.activity.logged" }

// LeadAutomationApplied is published when the automation rules updated a lead.
type LeadAutomationApplied struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Rule      string    `json:"rule"`
	FromStage string    `json:"fromStage"`
	ToStage   string    `json:"toStage"`
}

func (e LeadAutomationApplied) EventName() string { return "leads.automation.applied" }

// LeadDoNotContact is published when a lead is suppressed from outreach.
type LeadDoNotContact struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Source string    `json:"source"`
}

func (e LeadDoNotContact) EventName() string { return "leads.lead.do_not_contact" }
