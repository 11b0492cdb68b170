package admin

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sopiautomobile/lead-platform/internal/leads"
	"github.com/sopiautomobile/lead-platform/internal/notify"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

// LeadsHandler serves the admin lead-management surface. Every route is
// expected to sit behind RequireSession.
type LeadsHandler struct {
	repo       leads.Repository
	dispatcher *notify.Dispatcher
	logger     *logging.Logger
}

// NewLeadsHandler creates the admin leads handler. dispatcher may be nil;
// the notification test endpoint then reports no channels.
func NewLeadsHandler(repo leads.Repository, dispatcher *notify.Dispatcher, logger *logging.Logger) *LeadsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadsHandler{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// List handles GET /api/admin/leads.
func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeError(w, http.StatusInternalServerError, "Fehler beim Abrufen der Leads")
		return
	}
	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Fehler beim Abrufen der Leads")
		return
	}
	if all == nil {
		all = []*leads.Lead{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"leads":   all,
		"stats":   stats,
	})
}

type updateRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// Update handles PATCH /api/admin/leads.
func (h *LeadsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Ungültige Anfrage")
		return
	}
	if req.ID == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "ID und Status sind erforderlich")
		return
	}

	err := h.repo.UpdateStatus(r.Context(), req.ID, req.Status, req.Notes)
	switch {
	case errors.Is(err, leads.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "Ungültiger Status")
		return
	case errors.Is(err, leads.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, "Lead nicht gefunden")
		return
	case err != nil:
		h.logger.Error("failed to update lead", "error", err, "lead_id", req.ID)
		writeError(w, http.StatusInternalServerError, "Fehler beim Aktualisieren des Leads")
		return
	}

	h.logger.Info("lead updated", "lead_id", req.ID, "status", req.Status)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Lead-Status aktualisiert",
	})
}

type deleteRequest struct {
	ID string `json:"id"`
}

// Delete handles DELETE /api/admin/leads.
func (h *LeadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Ungültige Anfrage")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Lead-ID ist erforderlich")
		return
	}

	err := h.repo.Delete(r.Context(), req.ID)
	switch {
	case errors.Is(err, leads.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, "Lead nicht gefunden")
		return
	case err != nil:
		h.logger.Error("failed to delete lead", "error", err, "lead_id", req.ID)
		writeError(w, http.StatusInternalServerError, "Fehler beim Löschen des Leads")
		return
	}

	h.logger.Info("lead deleted", "lead_id", req.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Lead gelöscht",
	})
}

var csvHeader = []string{
	"id", "timestamp",
	"vehicle_brand", "vehicle_model", "first_registration_year", "mileage_km", "condition",
	"contact_name", "contact_email", "contact_phone",
	"source", "consent", "status", "notes", "created_at", "updated_at",
}

// Export handles GET /api/admin/leads/export, streaming all leads as CSV.
func (h *LeadsHandler) Export(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to export leads", "error", err)
		writeError(w, http.StatusInternalServerError, "Fehler beim Exportieren der Leads")
		return
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, lead := range all {
		_ = cw.Write([]string{
			lead.ID,
			lead.Timestamp.Format(time.RFC3339),
			lead.Vehicle.Brand,
			lead.Vehicle.Model,
			strconv.Itoa(lead.Vehicle.FirstRegistrationYear),
			strconv.Itoa(lead.Vehicle.MileageKm),
			lead.Vehicle.Condition,
			lead.Contact.Name,
			lead.Contact.Email,
			lead.Contact.Phone,
			lead.Meta.Source,
			strconv.FormatBool(lead.Meta.Consent),
			lead.Status,
			lead.Notes,
			lead.CreatedAt.Format(time.RFC3339),
			lead.UpdatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

// TestNotifications handles POST /api/admin/test/notifications. It pushes
// a synthetic lead through every configured sink so an operator can verify
// channel configuration without submitting the public form.
func (h *LeadsHandler) TestNotifications(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil || len(h.dispatcher.Sinks()) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"message":  "Keine Benachrichtigungskanäle konfiguriert",
			"channels": []any{},
		})
		return
	}

	now := time.Now().UTC()
	sample := &leads.Lead{
		ID:        "test-" + strconv.FormatInt(now.Unix(), 10),
		Timestamp: now,
		Vehicle: leads.Vehicle{
			Brand:                 "BMW",
			Model:                 "320d",
			FirstRegistrationYear: 2015,
			MileageKm:             120000,
			Condition:             "motorschaden",
		},
		Contact: leads.Contact{
			Name:  "Max Mustermann",
			Email: "max@example.com",
			Phone: "+49 176 12345678",
		},
		Meta: leads.Meta{
			Source:    "admin-test",
			Consent:   true,
			UserAgent: r.UserAgent(),
		},
		Status:    leads.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	results := h.dispatcher.Dispatch(r.Context(), sample)

	channels := make([]map[string]any, 0, len(results))
	failures := 0
	for _, res := range results {
		entry := map[string]any{
			"sink":        res.Sink,
			"ok":          res.Err == nil,
			"duration_ms": res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			failures++
			entry["error"] = res.Err.Error()
		}
		channels = append(channels, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  failures == 0,
		"message":  fmt.Sprintf("%d/%d Kanäle erfolgreich", len(results)-failures, len(results)),
		"channels": channels,
	})
}
