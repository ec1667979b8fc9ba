package queue

import (
	"testing"
	"time"

	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/scheduling"
)

var today = time.Date(2025, 3, 10, 0, 0, 0, 0, time.FixedZone("CST", -6*60*60))

func date(s string) *time.Time {
	t, err := scheduling.ParseDate(s, time.UTC)
	if err != nil {
		panic(err)
	}
	return &t
}

func lead(name string, stage domain.Stage, due *time.Time, score int) domain.Lead {
	l := domain.NewLead(name, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	l.Stage = stage
	l.NextActionDate = due
	l.Score = score
	return l
}

func TestInclude(t *testing.T) {
	suppressed := lead("dnc", domain.StageAttempting, date("2025-03-01"), 50)
	suppressed.DoNotContact = true

	tests := []struct {
		name string
		lead domain.Lead
		want bool
	}{
		{"due today", lead("a", domain.StageAttempting, date("2025-03-10"), 10), true},
		{"overdue", lead("b", domain.StageNurture, date("2025-02-01"), 10), true},
		{"due tomorrow", lead("c", domain.StageWorking, date("2025-03-11"), 10), false},
		{"no date but workable", lead("d", domain.StageQueued, nil, 10), true},
		{"no date engaged", lead("e", domain.StageEngaged, nil, 10), true},
		{"no date and new", lead("f", domain.StageNew, nil, 10), false},
		{"no date and researched", lead("g", domain.StageResearched, nil, 10), false},
		{"no date and nurture", lead("h", domain.StageNurture, nil, 10), false},
		{"meeting set excluded even if due", lead("i", domain.StageMeetingSet, date("2025-03-01"), 10), false},
		{"closed lost excluded", lead("j", domain.StageClosedLost, nil, 10), false},
		{"do not contact excluded", suppressed, false},
		{"new with due date", lead("k", domain.StageNew, date("2025-03-10"), 10), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Include(tc.lead, today); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSelectOrdersQueue(t *testing.T) {
	older := lead("older-tie", domain.StageWorking, date("2025-03-05"), 40)
	newer := lead("newer-tie", domain.StageWorking, date("2025-03-05"), 40)
	newer.UpdatedAt = older.UpdatedAt.Add(time.Hour)

	input := []domain.Lead{
		lead("due-today-low", domain.StageAttempting, date("2025-03-10"), 10),
		older,
		lead("undated", domain.StageQueued, nil, 5),
		lead("overdue-high", domain.StageAttempting, date("2025-03-05"), 90),
		lead("future", domain.StageAttempting, date("2025-03-12"), 99),
		newer,
	}

	got := Select(input, today)

	want := []string{"undated", "overdue-high", "newer-tie", "older-tie", "due-today-low"}
	if len(got) != len(want) {
		t.Fatalf("expected %d leads, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].CompanyName != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, got[i].CompanyName)
		}
	}
	if input[0].CompanyName != "due-today-low" {
		t.Fatal("expected input slice to be left untouched")
	}
}

func TestCompareUndatedBeforeDated(t *testing.T) {
	undated := lead("u", domain.StageQueued, nil, 0)
	dated := lead("d", domain.StageQueued, date("2020-01-01"), 100)
	if Compare(undated, dated) >= 0 || Compare(dated, undated) <= 0 {
		t.Fatal("expected undated leads to sort first")
	}
}
