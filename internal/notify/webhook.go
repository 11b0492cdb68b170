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

const webhookUserAgent = "SopiAutomobile-LeadSystem/1.0"

// WebhookSink POSTs the full lead JSON to a configured URL, optionally
// signed with a shared bearer secret. Any non-2xx status is an error.
type WebhookSink struct {
	url        string
	secret     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewWebhookSink creates the webhook sink. Returns nil when no URL is
// configured.
func NewWebhookSink(url, secret string, logger *logging.Logger) *WebhookSink {
	if url == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookSink{
		url:        url,
		secret:     secret,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Send(ctx context.Context, lead *leads.Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("notify: marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", webhookUserAgent)
	if s.secret != "" {
		req.Header.Set("Authorization", "Bearer "+s.secret)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notify: webhook returned %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Debug("webhook delivered", "lead_id", lead.ID, "status", resp.StatusCode)
	return nil
}

var _ Sink = (*WebhookSink)(nil)
