package scheduling

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestAddBusinessDays(t *testing.T) {
	// 2025-03-07 is a Friday.
	tests := []struct {
		name string
		from time.Time
		n    int
		want string
	}{
		{"zero keeps date", day(2025, 3, 7), 0, "2025-03-07"},
		{"zero on saturday keeps date", day(2025, 3, 8), 0, "2025-03-08"},
		{"friday plus one is monday", day(2025, 3, 7), 1, "2025-03-10"},
		{"friday plus two is tuesday", day(2025, 3, 7), 2, "2025-03-11"},
		{"saturday plus one is monday", day(2025, 3, 8), 1, "2025-03-10"},
		{"sunday plus one is monday", day(2025, 3, 9), 1, "2025-03-10"},
		{"monday plus three is thursday", day(2025, 3, 10), 3, "2025-03-13"},
		{"wednesday plus five is next wednesday", day(2025, 3, 12), 5, "2025-03-19"},
		{"thirty business days is six weeks", day(2025, 3, 10), 30, "2025-04-21"},
		{"crosses year end", day(2025, 12, 31), 2, "2026-01-02"},
		{"negative is a no-op", day(2025, 3, 7), -4, "2025-03-07"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextActionDate(tc.from, tc.n); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestAddBusinessDaysNeverLandsOnWeekend(t *testing.T) {
	start := day(2025, 1, 1)
	for offset := 0; offset < 14; offset++ {
		from := start.AddDate(0, 0, offset)
		for n := 1; n <= 10; n++ {
			if got := AddBusinessDays(from, n); !IsBusinessDay(got) {
				t.Fatalf("AddBusinessDays(%s, %d) landed on %s", FormatDate(from), n, got.Weekday())
			}
		}
	}
}

func TestAddBusinessDaysPreservesClockAndLocation(t *testing.T) {
	loc := time.FixedZone("PST", -8*60*60)
	from := time.Date(2025, 3, 7, 23, 15, 0, 0, loc)
	got := AddBusinessDays(from, 1)

	if got.Location() != loc || got.Hour() != 23 || got.Minute() != 15 {
		t.Fatalf("expected 23:15 in PST, got %s", got)
	}
	if FormatDate(got) != "2025-03-10" {
		t.Fatalf("expected local date 2025-03-10, got %s", FormatDate(got))
	}
}

func TestStartOfDayUsesLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	instant := time.Date(2025, 3, 8, 3, 0, 0, 0, time.UTC) // 22:00 on the 7th in EST

	got := StartOfDay(instant, loc)
	want := time.Date(2025, 3, 7, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-10", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Weekday() != time.Monday {
		t.Fatalf("expected Monday, got %s", got.Weekday())
	}
	if _, err := ParseDate("03/10/2025", time.UTC); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}
