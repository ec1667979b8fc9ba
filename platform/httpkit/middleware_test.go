package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"salescrm_backend/platform/apperr"
	"salescrm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type staticKey string

func (k staticKey) GetAPIKey() string { return string(k) }

var testOrigins = []string{"http://127.0.0.1:5173", "http://localhost:5173"}

func newAuthEngine(key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api")
	api.Use(APIKeyAuth(staticKey(key), testOrigins, logger.Discard()))
	api.GET("/health", func(c *gin.Context) { OK(c, gin.H{"status": "ok"}) })
	api.GET("/leads", func(c *gin.Context) { OK(c, []string{}) })
	return engine
}

func doRequest(engine http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Error
}

func TestAPIKeyAuth(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		path    string
		headers map[string]string
		status  int
		message string
	}{
		{"health bypass", "secret", "/api/health", nil, http.StatusOK, ""},
		{"health bypass without server key", "", "/api/health", nil, http.StatusOK, ""},
		{"allowed origin 127", "secret", "/api/leads", map[string]string{"Origin": "http://127.0.0.1:5173"}, http.StatusOK, ""},
		{"allowed origin localhost", "secret", "/api/leads", map[string]string{"Origin": "http://localhost:5173"}, http.StatusOK, ""},
		{"valid key", "secret", "/api/leads", map[string]string{HeaderAPIKey: "secret"}, http.StatusOK, ""},
		{"wrong key", "secret", "/api/leads", map[string]string{HeaderAPIKey: "nope"}, http.StatusUnauthorized, MsgInvalidAPIKey},
		{"missing key", "secret", "/api/leads", nil, http.StatusUnauthorized, MsgInvalidAPIKey},
		{"foreign origin needs key", "secret", "/api/leads", map[string]string{"Origin": "http://evil.test"}, http.StatusUnauthorized, MsgInvalidAPIKey},
		{"server key missing", "", "/api/leads", map[string]string{HeaderAPIKey: "anything"}, http.StatusInternalServerError, MsgAPIKeyNotConfigured},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(newAuthEngine(tc.key), http.MethodGet, tc.path, tc.headers)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			if tc.message != "" {
				if got := decodeError(t, rec); got != tc.message {
					t.Fatalf("expected error %q, got %q", tc.message, got)
				}
			}
		})
	}
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Discard())
	engine.Use(limiter.RateLimit())
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		if rec := doRequest(engine, http.MethodGet, "/x", nil); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, rec.Code)
		}
	}
	if rec := doRequest(engine, http.MethodGet, "/x", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", rec.Code)
	}
}

func TestRecoveryReturnsGenericBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Recovery(logger.Discard()))
	engine.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := doRequest(engine, http.MethodGet, "/boom", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != MsgInternal {
		t.Fatalf("expected %q, got %q", MsgInternal, got)
	}
}

func TestRequestIDEchoesCallerValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(logger.Discard()))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := doRequest(engine, http.MethodGet, "/x", map[string]string{HeaderRequestID: "abc-123"})
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
	rec = doRequest(engine, http.MethodGet, "/x", nil)
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatal("expected generated request id")
	}
}

func TestHandleErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperr.NotFound("Lead not found"), http.StatusNotFound, "Lead not found"},
		{"forbidden", apperr.Forbidden("Cannot update activities for do-not-contact leads"), http.StatusForbidden, "Cannot update activities for do-not-contact leads"},
		{"validation", apperr.Validation("companyName is required and must be a string"), http.StatusBadRequest, "companyName is required and must be a string"},
		{"internal hides detail", apperr.Internal("pool exhausted"), http.StatusInternalServerError, MsgInternal},
		{"untyped", errors.New("driver: connection reset"), http.StatusInternalServerError, MsgInternal},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			if !HandleError(c, tc.err) {
				t.Fatal("expected error to be handled")
			}
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			if got := decodeError(t, rec); got != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, got)
			}
		})
	}

	if HandleError(nil, nil) {
		t.Fatal("expected nil error to be ignored")
	}
}
