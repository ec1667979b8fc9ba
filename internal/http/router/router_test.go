package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "salescrm_backend/internal/http"
	"salescrm_backend/platform/httpkit"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/metrics"

	"github.com/gin-gonic/gin"
)

type testConfig struct {
	apiKey string
}

func (testConfig) GetHTTPAddr() string { return ":0" }
func (testConfig) GetAllowedOrigins() []string {
	return []string{"http://localhost:5173"}
}
func (testConfig) GetRateLimitRPS() float64 { return 0 }
func (testConfig) GetRateLimitBurst() int   { return 1 }
func (c testConfig) GetAPIKey() string      { return c.apiKey }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/echo", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"ok": true})
	})
	ctx.Protected.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})
}

func newTestEngine(health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{apiKey: "secret"},
		Logger:  logger.Discard(),
		Health:  health,
		Metrics: metrics.NewManager(),
		Modules: []apphttp.Module{echoModule{}},
	})
}

func serve(engine http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealthIsPublic(t *testing.T) {
	engine := newTestEngine(nil)

	rec := serve(engine, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["status"]; got != "ok" {
		t.Fatalf("expected status ok, got %v", got)
	}
}

func TestReadinessReportsDatabaseDown(t *testing.T) {
	engine := newTestEngine(pingFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	rec := serve(engine, http.MethodGet, "/api/health/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestProtectedRoutes(t *testing.T) {
	engine := newTestEngine(nil)

	tests := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{name: "missing key", status: http.StatusUnauthorized},
		{name: "wrong key", headers: map[string]string{httpkit.HeaderAPIKey: "nope"}, status: http.StatusUnauthorized},
		{name: "valid key", headers: map[string]string{httpkit.HeaderAPIKey: "secret"}, status: http.StatusOK},
		{name: "allowed origin", headers: map[string]string{"Origin": "http://localhost:5173"}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(engine, http.MethodGet, "/api/echo", tt.headers)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	engine := newTestEngine(nil)

	rec := serve(engine, http.MethodGet, "/nowhere", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != msgRouteNotFound {
		t.Fatalf("expected %q, got %v", msgRouteNotFound, got)
	}
}

func TestPanicReturnsGenericError(t *testing.T) {
	engine := newTestEngine(nil)

	rec := serve(engine, http.MethodGet, "/api/boom", map[string]string{httpkit.HeaderAPIKey: "secret"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != httpkit.MsgInternal {
		t.Fatalf("expected %q, got %v", httpkit.MsgInternal, got)
	}
}

func TestMetricsEndpointExposesRequests(t *testing.T) {
	engine := newTestEngine(nil)

	serve(engine, http.MethodGet, "/api/health", nil)
	rec := serve(engine, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "salescrm_http_requests_total") {
		t.Fatalf("expected request counter in exposition")
	}
}
