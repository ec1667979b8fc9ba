package automation

import (
	"salescrm_backend/internal/leads/domain"
)

const (
	StatusCalledNoAnswer  = "Called no answer"
	StatusLeftVM          = "Left VM"
	StatusConnected       = "Connected"
	StatusEmailedNoReply  = "Emailed no reply"
	StatusRepliedFollowUp = "Replied needs follow-up"
	StatusEmailBounced    = "Email bounced"
	StatusNotNow          = "Not now"
	StatusWrongPerson     = "Wrong person"
	StatusMeetingSet      = "Meeting set"
	StatusDoNotContact    = domain.StatusDoNotContact
)

const (
	ActionCallBack           = "Call back"
	ActionEmailReferencingVM = "Send follow-up email referencing VM"
	ActionRecapEmail         = "Send recap email + ask 3 qualifier questions"
	ActionFollowUpEmail      = "Follow-up email #1"
	ActionReplyQualify       = "Reply and ask 3 qualifier questions"
	ActionFindEmail          = "Find correct email / alternate contact"
	ActionNurture            = "Nurture check-in"
	ActionFindContact        = "Find correct contact"
	ActionPrepMeeting        = "Prep for meeting (research + agenda)"
	ActionFollowUp           = "Follow up"
)

const nurtureBusinessDays = 30

func when(t domain.ActivityType, r domain.ActivityResult) func(Input) bool {
	return func(in Input) bool { return in.Type == t && in.Result == r }
}

func whenResult(r domain.ActivityResult) func(Input) bool {
	return func(in Input) bool { return in.Result == r }
}

// followUp builds an outcome with a next action due in days business days.
func followUp(status string, stage domain.Stage, action string, days int) Outcome {
	return Outcome{
		Status:                   status,
		Stage:                    stage,
		NextAction:               &action,
		NextActionInBusinessDays: &days,
	}
}

// advanceEarly moves NEW/RESEARCHED/QUEUED leads to ATTEMPTING.
func advanceEarly(current domain.Stage) domain.Stage {
	if current.IsEarly() {
		return domain.StageAttempting
	}
	return current
}

func defaultRules() []Rule {
	return []Rule{
		// Call outcomes
		{
			Name:    "call_no_answer",
			Matches: when(domain.ActivityCall, domain.ResultNoAnswer),
			Apply: func(in Input) Outcome {
				return followUp(StatusCalledNoAnswer, advanceEarly(in.CurrentStage), ActionCallBack, 2)
			},
		},
		{
			Name:    "call_left_vm",
			Matches: when(domain.ActivityCall, domain.ResultLeftVM),
			Apply: func(in Input) Outcome {
				return followUp(StatusLeftVM, advanceEarly(in.CurrentStage), ActionEmailReferencingVM, 1)
			},
		},
		{
			Name:    "call_connected",
			Matches: when(domain.ActivityCall, domain.ResultConnected),
			Apply: func(in Input) Outcome {
				stage := domain.StageWorking
				if in.CurrentStage == domain.StageMeetingSet {
					stage = in.CurrentStage
				}
				return followUp(StatusConnected, stage, ActionRecapEmail, 0)
			},
		},

		// Email outcomes
		{
			Name:    "email_sent",
			Matches: when(domain.ActivityEmail, domain.ResultSent),
			Apply: func(in Input) Outcome {
				return followUp(StatusEmailedNoReply, advanceEarly(in.CurrentStage), ActionFollowUpEmail, 3)
			},
		},
		{
			Name:    "email_replied",
			Matches: when(domain.ActivityEmail, domain.ResultReplied),
			Apply: func(Input) Outcome {
				return followUp(StatusRepliedFollowUp, domain.StageEngaged, ActionReplyQualify, 0)
			},
		},
		{
			Name:    "email_bounced",
			Matches: when(domain.ActivityEmail, domain.ResultBounced),
			Apply: func(in Input) Outcome {
				return followUp(StatusEmailBounced, in.CurrentStage, ActionFindEmail, 0)
			},
		},

		// Dispositions, any channel
		{
			Name:    "not_now",
			Matches: whenResult(domain.ResultNotNow),
			Apply: func(Input) Outcome {
				return followUp(StatusNotNow, domain.StageNurture, ActionNurture, nurtureBusinessDays)
			},
		},
		{
			Name:    "wrong_person",
			Matches: whenResult(domain.ResultWrongPerson),
			Apply: func(in Input) Outcome {
				return followUp(StatusWrongPerson, in.CurrentStage, ActionFindContact, 0)
			},
		},
		{
			Name:    "meeting_set",
			Matches: whenResult(domain.ResultMeetingSet),
			Apply: func(Input) Outcome {
				return followUp(StatusMeetingSet, domain.StageMeetingSet, ActionPrepMeeting, 0)
			},
		},
		{
			Name:    "do_not_contact",
			Matches: whenResult(domain.ResultDoNotContact),
			Apply: func(Input) Outcome {
				return Outcome{
					Status:       StatusDoNotContact,
					Stage:        domain.StageClosedLost,
					SuppressLead: true,
				}
			},
		},
	}
}

var defaultRule = Rule{
	Name:    "default",
	Matches: func(Input) bool { return true },
	Apply: func(in Input) Outcome {
		return followUp(string(in.Type)+" logged", in.CurrentStage, ActionFollowUp, 1)
	},
}
