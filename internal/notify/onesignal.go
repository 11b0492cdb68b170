package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sopiautomobile/lead-platform/internal/leads"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

const oneSignalBaseURL = "https://onesignal.com/api/v1"

// OneSignalSink delivers a web-push notification about a new lead.
type OneSignalSink struct {
	appID         string
	apiKey        string
	playerID      string
	adminPanelURL string
	baseURL       string
	httpClient    *http.Client
	logger        *logging.Logger
}

// NewOneSignalSink creates the OneSignal sink. Returns nil unless both app
// id and API key are configured. playerID is optional; when empty the
// notification goes to the "All" segment.
func NewOneSignalSink(appID, apiKey, playerID, adminPanelURL string, logger *logging.Logger) *OneSignalSink {
	if appID == "" || apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OneSignalSink{
		appID:         appID,
		apiKey:        apiKey,
		playerID:      playerID,
		adminPanelURL: adminPanelURL,
		baseURL:       oneSignalBaseURL,
		httpClient:    &http.Client{},
		logger:        logger,
	}
}

func (s *OneSignalSink) Name() string { return "onesignal" }

type oneSignalNotification struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids,omitempty"`
	IncludedSegments []string          `json:"included_segments,omitempty"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Data             map[string]string `json:"data"`
	URL              string            `json:"url"`
}

func (s *OneSignalSink) Send(ctx context.Context, lead *leads.Lead) error {
	notification := oneSignalNotification{
		AppID:    s.appID,
		Headings: map[string]string{"en": "🚗 Neue Lead-Anfrage!"},
		Contents: map[string]string{
			"en": fmt.Sprintf("%s - %s %s\n📞 %s",
				lead.Contact.Name, lead.Vehicle.Brand, lead.Vehicle.Model, lead.Contact.Phone),
		},
		Data: map[string]string{
			"leadId": lead.ID,
			"type":   "new_lead",
		},
		URL: s.adminPanelURL,
	}
	if s.playerID != "" {
		notification.IncludePlayerIDs = []string{s.playerID}
	} else {
		notification.IncludedSegments = []string{"All"}
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("notify: marshal onesignal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build onesignal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: onesignal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notify: onesignal returned %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Debug("onesignal notification sent", "lead_id", lead.ID)
	return nil
}

var _ Sink = (*OneSignalSink)(nil)
