// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusDoNotContact is the status written when a lead is suppressed.
const StatusDoNotContact = "Do not contact"

// Lead is a prospective customer company.
type Lead struct {
	ID               uuid.UUID
	CompanyName      string
	Website          *string
	IndustryTrade    *string
	Locations        *string
	EmployeeEstimate *int
	DoesPublicWorks  TriState
	UnionLikely      TriState
	MultiJobsite     TriState
	CurrentStack     *string
	PainSignals      *string
	Score            int
	ScoreReasons     []string
	RecommendedAngle *string
	Stage            Stage
	Status           *string
	NextAction       *string
	NextActionDate   *time.Time
	DoNotContact     bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Contact is a person at a lead's company.
type Contact struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	Name        string
	Title       *string
	Email       *string
	Phone       *string
	LinkedInURL *string
	IsPrimary   bool
}

// HasDirectInfo reports whether the contact can be reached without a gatekeeper.
func (c Contact) HasDirectInfo() bool {
	return nonBlank(c.Email) || nonBlank(c.Phone)
}

// Activity is one logged outreach touch. Activities are never edited.
type Activity struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	ContactID *uuid.UUID
	Type      ActivityType
	Result    *ActivityResult
	Notes     *string
	Timestamp time.Time
}

// NewLead returns a lead with the documented defaults.
func NewLead(companyName string, now time.Time) Lead {
	return Lead{
		ID:              uuid.New(),
		CompanyName:     companyName,
		DoesPublicWorks: TriUnknown,
		UnionLikely:     TriUnknown,
		MultiJobsite:    TriUnknown,
		ScoreReasons:    []string{},
		Stage:           StageNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MarkDoNotContact applies the suppression invariant: closed lost, no
// scheduled follow-up.
func (l *Lead) MarkDoNotContact() {
	status := StatusDoNotContact
	l.DoNotContact = true
	l.Status = &status
	l.Stage = StageClosedLost
	l.NextAction = nil
	l.NextActionDate = nil
}

// ValidateState returns a non-empty reason when the lead breaks an invariant.
func (l Lead) ValidateState() string {
	if l.Score < 0 || l.Score > 100 {
		return "score must be between 0 and 100"
	}
	if !l.Stage.IsValid() {
		return "unknown stage " + string(l.Stage)
	}
	if l.DoNotContact {
		if l.Stage != StageClosedLost {
			return "do-not-contact leads must be CLOSED_LOST"
		}
		if l.NextAction != nil || l.NextActionDate != nil {
			return "do-not-contact leads cannot have a next action"
		}
	}
	return ""
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
