package leads

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

func newTestHandler(repo Repository, notifier Notifier) *Handler {
	logger := logging.Default()
	return NewHandler(NewService(repo, notifier, logger, nil), logger)
}

func TestSubmit_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := newTestHandler(repo, nil)

	body, _ := json.Marshal(validSubmission())
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("User-Agent", "integration-test")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp struct {
		Success               bool   `json:"success"`
		Message               string `json:"message"`
		LeadID                string `json:"leadId"`
		EstimatedResponseTime string `json:"estimatedResponseTime"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.LeadID == "" {
		t.Error("expected lead id")
	}
	if resp.EstimatedResponseTime != "24 Stunden" {
		t.Errorf("unexpected estimatedResponseTime: %s", resp.EstimatedResponseTime)
	}

	stored, err := repo.GetByID(req.Context(), resp.LeadID)
	if err != nil {
		t.Fatalf("lead not stored: %v", err)
	}
	if stored.Meta.IP != "203.0.113.7" {
		t.Errorf("expected first X-Forwarded-For entry, got %q", stored.Meta.IP)
	}
	if stored.Meta.UserAgent != "integration-test" {
		t.Errorf("user agent not captured: %q", stored.Meta.UserAgent)
	}
}

func TestSubmit_ValidationError(t *testing.T) {
	handler := newTestHandler(NewInMemoryRepository(), nil)

	sub := validSubmission()
	sub.Contact.Email = "not-an-email"
	body, _ := json.Marshal(sub)
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "Gültige E-Mail-Adresse erforderlich" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestSubmit_Honeypot(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := newTestHandler(repo, nil)

	sub := validSubmission()
	sub.Website = "http://spam.example"
	body, _ := json.Marshal(sub)
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp["error"] != "Invalid request" {
		t.Errorf("honeypot response must be generic, got %q", resp["error"])
	}
	all, _ := repo.ListAll(req.Context())
	if len(all) != 0 {
		t.Error("spam submission must not be stored")
	}
}

func TestSubmit_InvalidJSON(t *testing.T) {
	handler := newTestHandler(NewInMemoryRepository(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader("{"))
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestSubmit_RepositoryError(t *testing.T) {
	repo := &failingSaveRepository{NewInMemoryRepository()}
	handler := newTestHandler(repo, nil)

	body, _ := json.Marshal(validSubmission())
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if !strings.Contains(resp["error"], "unerwarteter Fehler") {
		t.Errorf("expected generic German error, got %q", resp["error"])
	}
}

func TestSubmit_AllNotificationsFailingStillSucceeds(t *testing.T) {
	// A notifier that reports nothing back; channel failures must never
	// surface to the customer.
	handler := newTestHandler(NewInMemoryRepository(), NopNotifier{})

	body, _ := json.Marshal(validSubmission())
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(NewInMemoryRepository(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("expected healthy, got %q", resp["status"])
	}
	if resp["service"] == "" || resp["version"] == "" || resp["timestamp"] == "" {
		t.Errorf("incomplete health payload: %v", resp)
	}
}

func TestRequestMeta_XRealIPFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	req.Header.Set("X-Real-Ip", "198.51.100.4")

	meta := requestMeta(req)
	if meta.IP != "198.51.100.4" {
		t.Errorf("expected X-Real-Ip fallback, got %q", meta.IP)
	}
}
