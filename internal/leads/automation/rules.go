// Package automation turns a logged outreach outcome into the lead's next
// status, stage and follow-up. Rules are evaluated in order and the first
// match wins; a default rule always matches last.
package automation

import (
	"time"

	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/scheduling"
)

// Input is what the engine needs to know about an activity.
type Input struct {
	Type         domain.ActivityType
	Result       domain.ActivityResult
	CurrentStage domain.Stage
}

// Outcome is the engine's decision. A nil NextAction with a nil offset means
// the lead has no follow-up.
type Outcome struct {
	Rule                     string
	Status                   string
	Stage                    domain.Stage
	NextAction               *string
	NextActionInBusinessDays *int
	// SuppressLead is set when the result asks never to contact the lead again.
	SuppressLead bool
}

// Resolved is an Outcome with its follow-up offset turned into a date.
type Resolved struct {
	Outcome
	NextActionDate *time.Time
}

// Resolve anchors the offset on now. The date keeps now's location.
func (o Outcome) Resolve(now time.Time) Resolved {
	r := Resolved{Outcome: o}
	if o.NextActionInBusinessDays != nil {
		due := scheduling.AddBusinessDays(now, *o.NextActionInBusinessDays)
		r.NextActionDate = &due
	}
	return r
}

// NextActionDateString is the resolved date as YYYY-MM-DD, or nil.
func (r Resolved) NextActionDateString() *string {
	if r.NextActionDate == nil {
		return nil
	}
	s := scheduling.FormatDate(*r.NextActionDate)
	return &s
}

// Rule is one guarded transition.
type Rule struct {
	Name    string
	Matches func(in Input) bool
	Apply   func(in Input) Outcome
}

// Engine evaluates a fixed, ordered rule list.
type Engine struct {
	rules    []Rule
	fallback Rule
}

// New returns an engine with the standard outreach rules.
func New() *Engine {
	return &Engine{rules: defaultRules(), fallback: defaultRule}
}

// Rules returns the ordered rule names, default last.
func (e *Engine) Rules() []string {
	names := make([]string, 0, len(e.rules)+1)
	for _, r := range e.rules {
		names = append(names, r.Name)
	}
	return append(names, e.fallback.Name)
}

// Evaluate runs the rules against in.
func (e *Engine) Evaluate(in Input) Outcome {
	for _, rule := range e.rules {
		if rule.Matches(in) {
			out := rule.Apply(in)
			out.Rule = rule.Name
			return out
		}
	}
	out := e.fallback.Apply(in)
	out.Rule = e.fallback.Name
	return out
}

// Evaluate runs the standard rules.
func Evaluate(activityType domain.ActivityType, result domain.ActivityResult, current domain.Stage) Outcome {
	return standard.Evaluate(Input{Type: activityType, Result: result, CurrentStage: current})
}

var standard = New()
