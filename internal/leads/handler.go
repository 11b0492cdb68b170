package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

const (
	serviceName    = "Sopi Automobile Lead API"
	serviceVersion = "1.0.0"

	genericErrorMessage = "Ein unerwarteter Fehler ist aufgetreten. Bitte versuchen Sie es erneut."
)

// Handler handles HTTP requests for the lead intake endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Submit handles POST /api/leads.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Info("failed to decode lead submission", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	result, err := h.service.Intake(r.Context(), &sub, requestMeta(r))
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.logger.Error("lead intake failed", "error", err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":               true,
		"message":               result.Message,
		"leadId":                result.LeadID,
		"estimatedResponseTime": result.EstimatedResponseTime,
	})
}

// Health handles GET /api/leads, used as an unauthenticated health check.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// requestMeta extracts the submitter's user agent and IP from request
// headers. X-Forwarded-For may carry a proxy chain; the first entry is the
// client.
func requestMeta(r *http.Request) RequestMeta {
	ip := r.Header.Get("X-Forwarded-For")
	if idx := strings.IndexByte(ip, ','); idx >= 0 {
		ip = ip[:idx]
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = strings.TrimSpace(r.Header.Get("X-Real-Ip"))
	}
	return RequestMeta{
		UserAgent: r.Header.Get("User-Agent"),
		IP:        ip,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
