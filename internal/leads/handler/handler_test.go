package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/repository/repotest"
	"salescrm_backend/internal/leads/service"
	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/httpkit"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

type testServer struct {
	engine *gin.Engine
	repo   *repotest.Memory
	svc    *service.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	val := validator.New()
	if err := transport.RegisterValidations(val); err != nil {
		t.Fatalf("register validations: %v", err)
	}
	repo := repotest.NewMemory(fixedNow)
	svc := service.New(repo, nil, logger.Discard(), time.UTC)
	svc.SetClock(func() time.Time { return fixedNow })

	r := gin.New()
	New(svc, val).RegisterRoutes(r.Group("/api"))
	return &testServer{engine: r, repo: repo, svc: svc}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if buf.Len() > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func TestCreateLead(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{"valid", map[string]any{"companyName": "  Acme  "}, http.StatusCreated, ""},
		{"missing name", map[string]any{}, http.StatusBadRequest, service.MsgCompanyNameRequired},
		{"blank name", map[string]any{"companyName": "   "}, http.StatusBadRequest, service.MsgCompanyNameRequired},
		{"non-string name", map[string]any{"companyName": 42}, http.StatusBadRequest, service.MsgCompanyNameRequired},
		{"bad tristate", map[string]any{"companyName": "Acme", "unionLikely": "maybe"}, http.StatusBadRequest, "unionLikely must be a valid tristate"},
		{"malformed json", "{", http.StatusBadRequest, msgInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/leads", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.message != "" {
				if got := decode[httpkit.ErrorResponse](t, w); got.Error != tt.message {
					t.Fatalf("expected %q, got %q", tt.message, got.Error)
				}
				return
			}
			lead := decode[transport.LeadResponse](t, w)
			if lead.CompanyName != "Acme" || lead.Stage != "NEW" {
				t.Fatalf("unexpected lead %+v", lead)
			}
		})
	}
}

func TestGetLead(t *testing.T) {
	s := newTestServer(t)
	lead := s.repo.Put(domain.NewLead("Acme", fixedNow))

	if w := s.do(t, http.MethodGet, "/api/leads/"+lead.ID.String(), nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	} else if got := decode[map[string]any](t, w); got["contacts"] == nil {
		t.Fatalf("expected contacts array on detail, got %v", got)
	}
	if w := s.do(t, http.MethodGet, "/api/leads/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/leads/not-a-uuid", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestScoreRoutes(t *testing.T) {
	s := newTestServer(t)
	lead := domain.NewLead("Acme", fixedNow)
	lead.UnionLikely = domain.TriYes
	lead = s.repo.Put(lead)

	w := s.do(t, http.MethodPost, "/api/leads/"+lead.ID.String()+"/score", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[transport.LeadResponse](t, w); got.Score != 10 {
		t.Fatalf("expected union score 10, got %d", got.Score)
	}

	w = s.do(t, http.MethodPost, "/api/leads/score/batch", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	batch := decode[transport.BatchScoreResponse](t, w)
	if batch.Count != 1 || batch.Message != "Successfully scored 1 leads" {
		t.Fatalf("unexpected batch %+v", batch)
	}
}

type stubEnqueuer struct{}

func (stubEnqueuer) EnqueueRescoreAll(context.Context) (string, error) { return "task-9", nil }

func TestScoreBatchAsync(t *testing.T) {
	s := newTestServer(t)

	// Without a worker queue async requests run inline.
	if w := s.do(t, http.MethodPost, "/api/leads/score/batch?async=true", nil); w.Code != http.StatusOK {
		t.Fatalf("expected inline 200, got %d", w.Code)
	}

	s.svc.SetRescoreEnqueuer(stubEnqueuer{})
	w := s.do(t, http.MethodPost, "/api/leads/score/batch?async=true", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	if got := decode[transport.BatchScoreQueuedResponse](t, w); !got.Queued || got.TaskID != "task-9" {
		t.Fatalf("unexpected queued response %+v", got)
	}
}

func TestDoNotContactRoute(t *testing.T) {
	s := newTestServer(t)
	lead := s.repo.Put(domain.NewLead("Acme", fixedNow))

	w := s.do(t, http.MethodPatch, "/api/leads/"+lead.ID.String()+"/do-not-contact", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode[transport.LeadResponse](t, w)
	if !got.DoNotContact || got.Stage != "CLOSED_LOST" {
		t.Fatalf("unexpected lead %+v", got)
	}

	w = s.do(t, http.MethodPost, "/api/activities", map[string]any{"leadId": lead.ID.String(), "type": "call"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for suppressed lead, got %d", w.Code)
	}
	if msg := decode[httpkit.ErrorResponse](t, w).Error; msg != service.MsgDoNotContactActivity {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCreateActivity(t *testing.T) {
	s := newTestServer(t)
	lead := domain.NewLead("Acme", fixedNow)
	lead.Stage = domain.StageQueued
	lead = s.repo.Put(lead)

	tests := []struct {
		name    string
		body    map[string]any
		status  int
		message string
	}{
		{"missing lead", map[string]any{"type": "call"}, http.StatusBadRequest, service.MsgActivityRequired},
		{"missing type", map[string]any{"leadId": lead.ID.String()}, http.StatusBadRequest, service.MsgActivityRequired},
		{"bad type", map[string]any{"leadId": lead.ID.String(), "type": "fax"}, http.StatusBadRequest, "type must be a valid activitytype"},
		{"bad result", map[string]any{"leadId": lead.ID.String(), "type": "call", "result": "maybe"}, http.StatusBadRequest, "result must be a valid activityresult"},
		{"unknown lead", map[string]any{"leadId": uuid.NewString(), "type": "call"}, http.StatusNotFound, service.MsgLeadNotFound},
		{"email sent", map[string]any{"leadId": lead.ID.String(), "type": "email", "result": "sent"}, http.StatusCreated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/activities", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.message != "" {
				if got := decode[httpkit.ErrorResponse](t, w); got.Error != tt.message {
					t.Fatalf("expected %q, got %q", tt.message, got.Error)
				}
				return
			}
			got := decode[transport.CreateActivityResponse](t, w)
			if got.Automation == nil || got.Automation.Rule != "email_sent" {
				t.Fatalf("expected email_sent automation, got %+v", got.Automation)
			}
			if got.Automation.NextActionDate == nil || *got.Automation.NextActionDate != "2025-03-13" {
				t.Fatalf("expected follow-up in 3 business days, got %v", got.Automation.NextActionDate)
			}
			if got.Activity.Lead == nil || got.Activity.Lead.Stage != "ATTEMPTING" {
				t.Fatalf("expected refreshed lead, got %+v", got.Activity.Lead)
			}
		})
	}
}

func TestContactsAndHistoryRoutes(t *testing.T) {
	s := newTestServer(t)
	lead := s.repo.Put(domain.NewLead("Acme", fixedNow))
	base := "/api/leads/" + lead.ID.String()

	w := s.do(t, http.MethodPost, base+"/contacts", map[string]any{"name": "Pat", "email": "not-an-email"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", w.Code)
	}

	w = s.do(t, http.MethodPost, base+"/contacts", map[string]any{"name": "Pat", "isPrimary": true})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	contact := decode[transport.ContactResponse](t, w)

	w = s.do(t, http.MethodPost, "/api/activities", map[string]any{
		"leadId": lead.ID.String(), "contactId": contact.ID.String(), "type": "note", "notes": "intro",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[map[string]any](t, w); got["automation"] != nil {
		t.Fatalf("expected null automation without result, got %v", got["automation"])
	}

	w = s.do(t, http.MethodGet, base+"/activities", nil)
	history := decode[[]transport.ActivityResponse](t, w)
	if len(history) != 1 || history[0].Contact == nil || history[0].Contact.Name != "Pat" {
		t.Fatalf("unexpected history %+v", history)
	}

	w = s.do(t, http.MethodGet, base+"/contacts", nil)
	if contacts := decode[[]transport.ContactResponse](t, w); len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
}

func TestUpdateAndQueueRoutes(t *testing.T) {
	s := newTestServer(t)
	lead := s.repo.Put(domain.NewLead("Acme", fixedNow))

	w := s.do(t, http.MethodPatch, "/api/leads/"+lead.ID.String(), map[string]any{"stage": "BOGUS"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad stage, got %d", w.Code)
	}

	w = s.do(t, http.MethodPatch, "/api/leads/"+lead.ID.String(), map[string]any{"stage": "QUEUED"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/queue/today", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	items := decode[[]map[string]any](t, w)
	if len(items) != 1 || items[0]["lead_id"] != lead.ID.String() {
		t.Fatalf("unexpected queue %v", items)
	}
	for _, key := range []string{"company_name", "top_reasons", "primary_contact", "last_activity", "next_action_date"} {
		if _, ok := items[0][key]; !ok {
			t.Fatalf("expected key %q in queue item", key)
		}
	}
}
