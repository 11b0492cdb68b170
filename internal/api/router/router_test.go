package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sopiautomobile/lead-platform/internal/admin"
	"github.com/sopiautomobile/lead-platform/internal/leads"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

func newTestRouter(t *testing.T) (http.Handler, *admin.MemoryStore, leads.Repository) {
	t.Helper()
	logger := logging.Default()
	repo := leads.NewInMemoryRepository()
	sessions := admin.NewMemoryStore(time.Hour)

	svc := leads.NewService(repo, nil, logger, nil)
	h := New(&Config{
		Logger:       logger,
		LeadsHandler: leads.NewHandler(svc, logger),
		AdminAuth:    admin.NewAuthHandler("admin", "s3cret", sessions, false, logger),
		AdminLeads:   admin.NewLeadsHandler(repo, nil, logger),
		Sessions:     sessions,
	})
	return h, sessions, repo
}

func submission() []byte {
	body, _ := json.Marshal(map[string]any{
		"vehicle": map[string]any{
			"brand":                 "BMW",
			"model":                 "320d",
			"firstRegistrationYear": 2018,
			"mileageKm":             85000,
			"condition":             "gut",
		},
		"contact": map[string]any{
			"name":  "Max Mustermann",
			"email": "max@example.com",
			"phone": "+49 170 1234567",
		},
		"meta": map[string]any{
			"source":  "website",
			"consent": true,
		},
	})
	return body
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/leads", nil))
	if w.Code != http.StatusOK {
		t.Errorf("lead health: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(submission())))
	if w.Code != http.StatusOK {
		t.Errorf("intake: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_AdminRoutesRequireSession(t *testing.T) {
	h, _, _ := newTestRouter(t)

	protected := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/admin/leads"},
		{http.MethodPatch, "/api/admin/leads"},
		{http.MethodDelete, "/api/admin/leads"},
		{http.MethodGet, "/api/admin/leads/export"},
		{http.MethodPost, "/api/admin/test/notifications"},
	}
	for _, route := range protected {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without session, got %d", route.method, route.path, w.Code)
		}
	}
}

func TestRouter_AdminRoutesWithSession(t *testing.T) {
	h, sessions, repo := newTestRouter(t)

	token, err := sessions.Create(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	_ = repo // seeded through the public endpoint below

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(submission())))
	if w.Code != http.StatusOK {
		t.Fatalf("intake: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
	req.AddCookie(&http.Cookie{Name: admin.SessionCookieName, Value: token})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Leads []json.RawMessage `json:"leads"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Leads) != 1 {
		t.Errorf("expected the submitted lead, got %d", len(resp.Leads))
	}
}

func TestRouter_LoginLogoutFlow(t *testing.T) {
	h, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/auth",
		bytes.NewReader([]byte(`{"username":"admin","password":"s3cret"}`))))
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == admin.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list after login: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/auth", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}
}

func TestRouter_RateLimitedIntake(t *testing.T) {
	logger := logging.Default()
	repo := leads.NewInMemoryRepository()
	sessions := admin.NewMemoryStore(time.Hour)
	svc := leads.NewService(repo, nil, logger, nil)
	h := New(&Config{
		Logger:          logger,
		LeadsHandler:    leads.NewHandler(svc, logger),
		AdminAuth:       admin.NewAuthHandler("admin", "s3cret", sessions, false, logger),
		AdminLeads:      admin.NewLeadsHandler(repo, nil, logger),
		Sessions:        sessions,
		IntakeRateLimit: 1,
		IntakeRateBurst: 2,
	})

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(submission()))
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes[w.Code]++
	}
	if codes[http.StatusTooManyRequests] == 0 {
		t.Errorf("expected some 429 responses, got %v", codes)
	}
	if codes[http.StatusOK] == 0 {
		t.Errorf("expected some accepted requests, got %v", codes)
	}
}
