package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/intranet/internal/metrics"
	"github.com/hitoshi/intranet/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	return m.err
}

func newTestRouter(t *testing.T, mutate func(*RouterDeps)) http.Handler {
	t.Helper()
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    100,
		WriteRate:       100,
		WriteBurst:      100,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)

	deps := &RouterDeps{
		CORSAllowedOrigin: "http://localhost:5173",
		RateLimiter:       rl,
		HealthChecker:     &mockHealthChecker{},
		UserService:       &mockUserService{},
		SpaceService:      &mockSpaceService{},
		ContentService:    &mockContentService{},
		UploadService:     &mockUploadService{maxBytes: 1 << 20},
		AdminService:      &mockAdminService{},
	}
	if mutate != nil {
		mutate(deps)
	}
	return NewRouter(deps)
}

func TestNewRouter_RootAndIndex(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "Social Intranet API" {
		t.Errorf("message = %v", got)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api status = %d", w.Code)
	}
	if _, ok := decodeBody(t, w)["endpoints"].(map[string]any); !ok {
		t.Error("expected endpoints map")
	}
}

func TestNewRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("healthy: status = %d, want 200", w.Code)
	}

	router := newTestRouter(t, func(d *RouterDeps) {
		d.HealthChecker = &mockHealthChecker{err: errors.New("down")}
	})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy: status = %d, want 503", w.Code)
	}
}

func TestNewRouter_AllEndpointsRegistered(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		method, path, body string
		notWant            int
	}{
		{http.MethodGet, "/api/users", "", http.StatusNotFound},
		{http.MethodPost, "/api/users", `{"name":"a","email":"a@example.com"}`, http.StatusNotFound},
		{http.MethodGet, "/api/users/1", "", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/users/1", `{}`, http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/spaces", "", http.StatusNotFound},
		{http.MethodPost, "/api/spaces", `{"name":"s","createdBy":1}`, http.StatusNotFound},
		{http.MethodPut, "/api/spaces/1", `{}`, http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/content/status", `{}`, http.StatusNotFound},
		{http.MethodPost, "/api/content/document", `{}`, http.StatusNotFound},
		{http.MethodPost, "/api/content/blog", `{}`, http.StatusNotFound},
		{http.MethodGet, "/api/content?type=blog", "", http.StatusNotFound},
		{http.MethodPost, "/api/uploads", "", http.StatusNotFound},
		{http.MethodPost, "/api/uploads/multiple", "", http.StatusNotFound},
		{http.MethodGet, "/api/admin/form-fields?formName=x", "", http.StatusNotFound},
		{http.MethodPost, "/api/admin/form-fields", `{}`, http.StatusNotFound},
		{http.MethodDelete, "/api/admin/form-fields/1", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code == tt.notWant {
				t.Errorf("status = %d, route appears unregistered", w.Code)
			}
			if w.Code == http.StatusNotFound && strings.Contains(w.Body.String(), "Route not found") {
				t.Errorf("route fell through to the 404 handler")
			}
		})
	}
}

func TestNewRouter_NotFound(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != false || body["error"] != "Route not found" {
		t.Errorf("body = %v", body)
	}
	if body["message"] != "Cannot GET /api/nothing" {
		t.Errorf("message = %v", body["message"])
	}
	routes, ok := body["availableRoutes"].(map[string]any)
	if !ok || routes["users"] != "/api/users" {
		t.Errorf("availableRoutes = %v", body["availableRoutes"])
	}
}

func TestNewRouter_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/users/1", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
	if body := decodeBody(t, w); body["success"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestNewRouter_CORSAndSecurityHeaders(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/users", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}

func TestNewRouter_WriteRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    100,
		WriteRate:       0.001,
		WriteBurst:      1,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)
	router := newTestRouter(t, func(d *RouterDeps) { d.RateLimiter = rl })

	send := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(middleware.ActorHeader, "5")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(http.MethodPost, "/api/spaces", `{"name":"a","createdBy":5}`); code != http.StatusCreated {
		t.Fatalf("first write: status = %d, want 201", code)
	}
	if code := send(http.MethodPost, "/api/spaces", `{"name":"b","createdBy":5}`); code != http.StatusTooManyRequests {
		t.Errorf("second write: status = %d, want 429", code)
	}
	if code := send(http.MethodGet, "/api/spaces", ""); code != http.StatusOK {
		t.Errorf("read after write limit: status = %d, want 200", code)
	}
	if code := send(http.MethodGet, "/health", ""); code != http.StatusOK {
		t.Errorf("health: status = %d, want 200", code)
	}
}

func TestNewRouter_MetricsEndpointAndCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	router := newTestRouter(t, func(d *RouterDeps) {
		d.Metrics = collector
		d.MetricsGatherer = reg
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `intranet_http_status_total{status_code="404"} 1`) {
		t.Errorf("metrics output missing 404 counter:\n%s", w.Body.String())
	}
}
