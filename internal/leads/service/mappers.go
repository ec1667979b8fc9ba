package service

import (
	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/repository"
	"salescrm_backend/internal/leads/scheduling"
	"salescrm_backend/internal/leads/transport"
)

func ToLeadResponse(lead domain.Lead) transport.LeadResponse {
	reasons := lead.ScoreReasons
	if reasons == nil {
		reasons = []string{}
	}
	return transport.LeadResponse{
		ID:               lead.ID,
		CompanyName:      lead.CompanyName,
		Website:          lead.Website,
		IndustryTrade:    lead.IndustryTrade,
		Locations:        lead.Locations,
		EmployeeEstimate: lead.EmployeeEstimate,
		DoesPublicWorks:  string(lead.DoesPublicWorks),
		UnionLikely:      string(lead.UnionLikely),
		MultiJobsite:     string(lead.MultiJobsite),
		CurrentStack:     lead.CurrentStack,
		PainSignals:      lead.PainSignals,
		Score:            lead.Score,
		ScoreReasons:     reasons,
		RecommendedAngle: lead.RecommendedAngle,
		Stage:            string(lead.Stage),
		Status:           lead.Status,
		NextAction:       lead.NextAction,
		NextActionDate:   formatDate(lead),
		DoNotContact:     lead.DoNotContact,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

func ToLeadDetailResponse(lead domain.Lead, contacts []domain.Contact) transport.LeadDetailResponse {
	return transport.LeadDetailResponse{
		LeadResponse: ToLeadResponse(lead),
		Contacts:     ToContactResponses(contacts),
	}
}

func ToContactResponse(c domain.Contact) transport.ContactResponse {
	return transport.ContactResponse{
		ID:          c.ID,
		LeadID:      c.LeadID,
		Name:        c.Name,
		Title:       c.Title,
		Email:       c.Email,
		Phone:       c.Phone,
		LinkedInURL: c.LinkedInURL,
		IsPrimary:   c.IsPrimary,
	}
}

func ToContactResponses(contacts []domain.Contact) []transport.ContactResponse {
	out := make([]transport.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, ToContactResponse(c))
	}
	return out
}

func ToActivityResponse(a domain.Activity, contact *repository.ContactSummary) transport.ActivityResponse {
	resp := transport.ActivityResponse{
		ID:        a.ID,
		LeadID:    a.LeadID,
		ContactID: a.ContactID,
		Type:      string(a.Type),
		Notes:     a.Notes,
		Timestamp: a.Timestamp,
	}
	if a.Result != nil {
		r := string(*a.Result)
		resp.Result = &r
	}
	if contact != nil {
		resp.Contact = &transport.ContactSummaryResponse{ID: contact.ID, Name: contact.Name, Title: contact.Title}
	}
	return resp
}

// ToQueueItem flattens a lead for the Today Queue.
func ToQueueItem(lead domain.Lead, primary *domain.Contact, last *domain.Activity) transport.QueueItem {
	reasons := lead.ScoreReasons
	if len(reasons) > topReasonCount {
		reasons = reasons[:topReasonCount]
	}
	item := transport.QueueItem{
		LeadID:           lead.ID,
		CompanyName:      lead.CompanyName,
		Website:          lead.Website,
		Score:            lead.Score,
		RecommendedAngle: lead.RecommendedAngle,
		NextAction:       lead.NextAction,
		NextActionDate:   formatDate(lead),
		Stage:            string(lead.Stage),
		Status:           lead.Status,
		TopReasons:       append([]string{}, reasons...),
	}
	if primary != nil {
		item.PrimaryContact = &transport.QueueContact{
			ID:    primary.ID,
			Name:  primary.Name,
			Title: primary.Title,
			Email: primary.Email,
			Phone: primary.Phone,
		}
	}
	if last != nil {
		qa := &transport.QueueActivity{Type: string(last.Type), Timestamp: last.Timestamp}
		if last.Result != nil {
			r := string(*last.Result)
			qa.Result = &r
		}
		item.LastActivity = qa
	}
	return item
}

func formatDate(lead domain.Lead) *string {
	if lead.NextActionDate == nil {
		return nil
	}
	s := scheduling.FormatDate(*lead.NextActionDate)
	return &s
}
