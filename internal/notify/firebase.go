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

const fcmSendURL = "https://fcm.googleapis.com/fcm/send"

// FirebaseSink delivers a push notification through the legacy FCM send
// endpoint to a single registered operator device.
type FirebaseSink struct {
	serverKey   string
	deviceToken string
	sendURL     string
	httpClient  *http.Client
	logger      *logging.Logger
}

// NewFirebaseSink creates the FCM sink. Returns nil unless both server key
// and device token are configured.
func NewFirebaseSink(serverKey, deviceToken string, logger *logging.Logger) *FirebaseSink {
	if serverKey == "" || deviceToken == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FirebaseSink{
		serverKey:   serverKey,
		deviceToken: deviceToken,
		sendURL:     fcmSendURL,
		httpClient:  &http.Client{},
		logger:      logger,
	}
}

func (s *FirebaseSink) Name() string { return "firebase" }

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data"`
	Priority     string            `json:"priority"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

func (s *FirebaseSink) Send(ctx context.Context, lead *leads.Lead) error {
	message := fcmMessage{
		To: s.deviceToken,
		Notification: fcmNotification{
			Title: "🚗 Neue Lead-Anfrage!",
			Body: fmt.Sprintf("%s - %s %s\n📞 %s",
				lead.Contact.Name, lead.Vehicle.Brand, lead.Vehicle.Model, lead.Contact.Phone),
			Sound: "default",
		},
		Data: map[string]string{
			"leadId": lead.ID,
			"type":   "new_lead",
		},
		Priority: "high",
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("notify: marshal fcm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build fcm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: fcm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notify: fcm returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.Failure > 0 {
		return fmt.Errorf("notify: fcm reported %d failed deliveries", result.Failure)
	}

	s.logger.Debug("firebase notification sent", "lead_id", lead.ID)
	return nil
}

var _ Sink = (*FirebaseSink)(nil)
