package domain

import (
	"testing"
	"time"
)

func TestParseStage(t *testing.T) {
	if s, ok := ParseStage(" meeting_set "); !ok || s != StageMeetingSet {
		t.Fatalf("expected MEETING_SET, got %q (%v)", s, ok)
	}
	if _, ok := ParseStage("WON"); ok {
		t.Fatal("expected unknown stage to be rejected")
	}
}

func TestStageGroups(t *testing.T) {
	tests := []struct {
		stage    Stage
		early    bool
		workable bool
		terminal bool
	}{
		{StageNew, true, false, false},
		{StageResearched, true, false, false},
		{StageQueued, true, true, false},
		{StageAttempting, false, true, false},
		{StageWorking, false, true, false},
		{StageEngaged, false, true, false},
		{StageMeetingSet, false, false, true},
		{StageNurture, false, false, false},
		{StageClosedLost, false, false, true},
	}

	for _, tc := range tests {
		if tc.stage.IsEarly() != tc.early || tc.stage.IsWorkable() != tc.workable || tc.stage.IsTerminal() != tc.terminal {
			t.Errorf("%s: unexpected grouping early=%v workable=%v terminal=%v",
				tc.stage, tc.stage.IsEarly(), tc.stage.IsWorkable(), tc.stage.IsTerminal())
		}
	}
}

func TestParseActivityResult(t *testing.T) {
	tests := []struct {
		raw  string
		want ActivityResult
		ok   bool
	}{
		{"no answer", ResultNoAnswer, true},
		{"NO_ANSWER", ResultNoAnswer, true},
		{"Left VM", ResultLeftVM, true},
		{"do not contact", ResultDoNotContact, true},
		{"ghosted", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseActivityResult(tc.raw)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseActivityResult(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseActivityType(t *testing.T) {
	if got, ok := ParseActivityType("LinkedIn"); !ok || got != ActivityLinkedIn {
		t.Fatalf("expected linkedin, got %q (%v)", got, ok)
	}
	if _, ok := ParseActivityType("sms"); ok {
		t.Fatal("expected sms to be rejected")
	}
}

func TestParseTriState(t *testing.T) {
	if got, ok := ParseTriState(""); !ok || got != TriUnknown {
		t.Fatalf("expected blank to map to unknown, got %q", got)
	}
	if got, ok := ParseTriState("YES"); !ok || !got.IsYes() {
		t.Fatalf("expected yes, got %q", got)
	}
	if _, ok := ParseTriState("maybe"); ok {
		t.Fatal("expected maybe to be rejected")
	}
}

func TestMarkDoNotContactClearsFollowUp(t *testing.T) {
	now := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	lead := NewLead("Acme Builders", now)
	action := "Call back"
	lead.NextAction = &action
	lead.NextActionDate = &now
	lead.Stage = StageWorking

	lead.MarkDoNotContact()

	if !lead.DoNotContact || lead.Stage != StageClosedLost {
		t.Fatalf("expected suppressed closed-lost lead, got %+v", lead)
	}
	if lead.NextAction != nil || lead.NextActionDate != nil {
		t.Fatal("expected next action to be cleared")
	}
	if lead.Status == nil || *lead.Status != StatusDoNotContact {
		t.Fatalf("expected status %q", StatusDoNotContact)
	}
	if reason := lead.ValidateState(); reason != "" {
		t.Fatalf("unexpected invariant violation: %s", reason)
	}
}

func TestValidateState(t *testing.T) {
	now := time.Now()
	lead := NewLead("Acme", now)
	lead.DoNotContact = true
	if lead.ValidateState() == "" {
		t.Fatal("expected do-not-contact lead outside CLOSED_LOST to fail")
	}

	lead = NewLead("Acme", now)
	lead.Score = 101
	if lead.ValidateState() == "" {
		t.Fatal("expected out of range score to fail")
	}
}

func TestContactHasDirectInfo(t *testing.T) {
	blank := "  "
	email := "pm@acme.test"
	if (Contact{Email: &blank}).HasDirectInfo() {
		t.Fatal("blank email is not direct info")
	}
	if !(Contact{Email: &email}).HasDirectInfo() {
		t.Fatal("expected email to count as direct info")
	}
}
