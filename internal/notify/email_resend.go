package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

// ResendSender sends emails via the Resend API. It is the primary provider.
type ResendSender struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// ResendConfig holds configuration for Resend.
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewResendSender creates a new Resend email sender. Returns nil when no
// API key is configured.
func NewResendSender(cfg ResendConfig, logger *logging.Logger) *ResendSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Sopi Automobile"
	}
	return &ResendSender{
		client:    resend.NewClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via Resend.
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("notify: email has no recipients")
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail),
		To:      msg.To,
		Cc:      msg.CC,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("notify: resend send failed: %w", err)
	}

	s.logger.Info("email sent via resend", "to", msg.To, "subject", msg.Subject, "message_id", sent.Id)
	return nil
}

var _ EmailSender = (*ResendSender)(nil)
