package domain

import "strings"

// Stage is a lead's position in the outreach pipeline.
type Stage string

const (
	StageNew        Stage = "NEW"
	StageResearched Stage = "RESEARCHED"
	StageQueued     Stage = "QUEUED"
	StageAttempting Stage = "ATTEMPTING"
	StageWorking    Stage = "WORKING"
	StageEngaged    Stage = "ENGAGED"
	StageMeetingSet Stage = "MEETING_SET"
	StageNurture    Stage = "NURTURE"
	StageClosedLost Stage = "CLOSED_LOST"
)

// Stages lists every pipeline stage in pipeline order.
var Stages = []Stage{
	StageNew,
	StageResearched,
	StageQueued,
	StageAttempting,
	StageWorking,
	StageEngaged,
	StageMeetingSet,
	StageNurture,
	StageClosedLost,
}

var knownStages = func() map[Stage]struct{} {
	m := make(map[Stage]struct{}, len(Stages))
	for _, s := range Stages {
		m[s] = struct{}{}
	}
	return m
}()

// earlyStages are stages where first outreach moves the lead to ATTEMPTING.
var earlyStages = map[Stage]bool{
	StageNew:        true,
	StageResearched: true,
	StageQueued:     true,
}

// workableStages are stages that belong in the queue even without a due date.
var workableStages = map[Stage]bool{
	StageQueued:     true,
	StageAttempting: true,
	StageWorking:    true,
	StageEngaged:    true,
}

// terminalStages never show up in the daily queue.
var terminalStages = map[Stage]bool{
	StageMeetingSet: true,
	StageClosedLost: true,
}

// IsValid reports whether s is one of the known stages.
func (s Stage) IsValid() bool {
	_, ok := knownStages[s]
	return ok
}

// IsEarly reports whether s is NEW, RESEARCHED or QUEUED.
func (s Stage) IsEarly() bool { return earlyStages[s] }

// IsWorkable reports whether s is QUEUED, ATTEMPTING, WORKING or ENGAGED.
func (s Stage) IsWorkable() bool { return workableStages[s] }

// IsTerminal reports whether s is MEETING_SET or CLOSED_LOST.
func (s Stage) IsTerminal() bool { return terminalStages[s] }

func (s Stage) String() string { return string(s) }

// ParseStage accepts a stage name in any letter case.
func ParseStage(raw string) (Stage, bool) {
	s := Stage(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.IsValid()
}

// StageValues returns the stage names as strings, for validation tags.
func StageValues() []string {
	out := make([]string, len(Stages))
	for i, s := range Stages {
		out[i] = string(s)
	}
	return out
}
