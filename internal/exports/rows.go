// Package exports renders the Today Queue as downloadable CSV and XLSX files.
package exports

import (
	"context"
	"strconv"
	"strings"

	"salescrm_backend/internal/leads/transport"
)

// QueueSource yields the current Today Queue projection.
type QueueSource interface {
	TodayQueue(ctx context.Context) ([]transport.QueueItem, error)
}

// Headers is the column order shared by every export format.
var Headers = []string{
	"Company",
	"Website",
	"Score",
	"Recommended Angle",
	"Stage",
	"Status",
	"Next Action",
	"Next Action Date",
	"Top Reasons",
	"Primary Contact",
	"Contact Email",
	"Contact Phone",
	"Last Activity",
	"Last Activity At",
}

const (
	dateTimeLayout  = "2006-01-02 15:04"
	reasonSeparator = "; "
)

// Row flattens a queue item into export cells in Headers order.
func Row(item transport.QueueItem) []string {
	row := []string{
		item.CompanyName,
		deref(item.Website),
		strconv.Itoa(item.Score),
		deref(item.RecommendedAngle),
		item.Stage,
		deref(item.Status),
		deref(item.NextAction),
		deref(item.NextActionDate),
		strings.Join(item.TopReasons, reasonSeparator),
		"", "", "",
		"", "",
	}
	if c := item.PrimaryContact; c != nil {
		row[9] = c.Name
		row[10] = deref(c.Email)
		row[11] = deref(c.Phone)
	}
	if a := item.LastActivity; a != nil {
		label := a.Type
		if a.Result != nil && *a.Result != "" {
			label += " (" + *a.Result + ")"
		}
		row[12] = label
		row[13] = a.Timestamp.Format(dateTimeLayout)
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
