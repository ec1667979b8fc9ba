package domain

import "strings"

// ActivityType is the channel of an outreach touch.
type ActivityType string

const (
	ActivityCall      ActivityType = "call"
	ActivityEmail     ActivityType = "email"
	ActivityVoicemail ActivityType = "voicemail"
	ActivityLinkedIn  ActivityType = "linkedin"
	ActivityNote      ActivityType = "note"
)

// ActivityTypes lists every activity type.
var ActivityTypes = []ActivityType{
	ActivityCall,
	ActivityEmail,
	ActivityVoicemail,
	ActivityLinkedIn,
	ActivityNote,
}

// ActivityResult is the outcome recorded for an activity.
type ActivityResult string

const (
	ResultNoAnswer     ActivityResult = "no answer"
	ResultLeftVM       ActivityResult = "left vm"
	ResultConnected    ActivityResult = "connected"
	ResultSent         ActivityResult = "sent"
	ResultReplied      ActivityResult = "replied"
	ResultBounced      ActivityResult = "bounced"
	ResultNotNow       ActivityResult = "not now"
	ResultWrongPerson  ActivityResult = "wrong person"
	ResultMeetingSet   ActivityResult = "meeting set"
	ResultDoNotContact ActivityResult = "do not contact"
)

// ActivityResults lists every activity result.
var ActivityResults = []ActivityResult{
	ResultNoAnswer,
	ResultLeftVM,
	ResultConnected,
	ResultSent,
	ResultReplied,
	ResultBounced,
	ResultNotNow,
	ResultWrongPerson,
	ResultMeetingSet,
	ResultDoNotContact,
}

func (t ActivityType) IsValid() bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t ActivityType) String() string { return string(t) }

func (r ActivityResult) IsValid() bool {
	for _, known := range ActivityResults {
		if r == known {
			return true
		}
	}
	return false
}

func (r ActivityResult) String() string { return string(r) }

// ParseActivityType accepts a stored value in any letter case.
func ParseActivityType(raw string) (ActivityType, bool) {
	t := ActivityType(strings.ToLower(strings.TrimSpace(raw)))
	return t, t.IsValid()
}

// ParseActivityResult accepts a stored value in any letter case. Underscores
// are read as spaces so "NO_ANSWER" and "no answer" are the same result.
func ParseActivityResult(raw string) (ActivityResult, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	r := ActivityResult(normalized)
	return r, r.IsValid()
}
