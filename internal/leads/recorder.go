package leads

import (
	"context"

	"salescrm_backend/internal/events"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/metrics"
)

// Recorder turns leads events into metrics and audit log lines.
type Recorder struct {
	metrics *metrics.Manager
	log     *logger.Logger
}

func NewRecorder(m *metrics.Manager, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Discard()
	}
	return &Recorder{metrics: m, log: log}
}

// Subscribe registers the recorder on every leads event.
func (r *Recorder) Subscribe(bus events.Bus) {
	for _, name := range []string{
		events.LeadCreated{}.EventName(),
		events.LeadScored{}.EventName(),
		events.ActivityLogged{}.EventName(),
		events.LeadAutomationApplied{}.EventName(),
		events.LeadDoNotContact{}.EventName(),
	} {
		bus.Subscribe(name, events.HandlerFunc(r.Handle))
	}
}

// Handle records one event. Unknown events are ignored.
func (r *Recorder) Handle(_ context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		r.log.Info("lead created", "lead_id", e.LeadID.String(), "company", e.CompanyName)
	case events.LeadScored:
		r.metrics.ObserveScore(e.Score, e.Batch)
	case events.ActivityLogged:
		r.metrics.RecordActivity(e.Type)
	case events.LeadAutomationApplied:
		r.metrics.RecordAutomation(e.Rule)
		r.metrics.RecordStageTransition(e.FromStage, e.ToStage)
	case events.LeadDoNotContact:
		r.log.Info("lead suppressed", "lead_id", e.LeadID.String(), "source", e.Source)
	}
	return nil
}
