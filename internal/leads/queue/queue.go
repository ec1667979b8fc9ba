// Package queue decides which leads are due for outreach today and in which
// order they should be worked.
package queue

import (
	"cmp"
	"slices"
	"time"

	"salescrm_backend/internal/leads/domain"
)

// Include reports whether lead belongs in the queue for today. today is the
// calendar day being worked; only its year, month and day are used.
func Include(lead domain.Lead, today time.Time) bool {
	if lead.DoNotContact || lead.Stage.IsTerminal() {
		return false
	}
	if lead.NextActionDate != nil {
		return civilDay(*lead.NextActionDate) <= civilDay(today)
	}
	return lead.Stage.IsWorkable()
}

// Compare orders two queued leads: undated first, then earliest due date,
// then highest score, then most recently updated.
func Compare(a, b domain.Lead) int {
	switch {
	case a.NextActionDate == nil && b.NextActionDate != nil:
		return -1
	case a.NextActionDate != nil && b.NextActionDate == nil:
		return 1
	case a.NextActionDate != nil && b.NextActionDate != nil:
		if c := cmp.Compare(civilDay(*a.NextActionDate), civilDay(*b.NextActionDate)); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return b.UpdatedAt.Compare(a.UpdatedAt)
}

// Sort orders leads in place using Compare.
func Sort(leads []domain.Lead) {
	slices.SortStableFunc(leads, Compare)
}

// Select returns the included leads in queue order. The input is not modified.
func Select(leads []domain.Lead, today time.Time) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if Include(lead, today) {
			out = append(out, lead)
		}
	}
	Sort(out)
	return out
}

// civilDay collapses t to a sortable yyyymmdd integer in t's own location,
// so a DATE column read as UTC midnight compares cleanly with a local today.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
