package notify

import (
	"context"
	"fmt"

	"github.com/sopiautomobile/lead-platform/internal/leads"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

// CustomerEmailSink sends the acknowledgement email to the submitter.
// Non-critical: a failure is logged by the dispatcher and nothing else.
type CustomerEmailSink struct {
	sender EmailSender
	logger *logging.Logger
}

// NewCustomerEmailSink wraps an email sender. Returns nil when sender is
// nil (no provider configured), so the sink drops out of the fan-out.
func NewCustomerEmailSink(sender EmailSender, logger *logging.Logger) *CustomerEmailSink {
	if sender == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CustomerEmailSink{sender: sender, logger: logger}
}

func (s *CustomerEmailSink) Name() string { return "customer_email" }

func (s *CustomerEmailSink) Send(ctx context.Context, lead *leads.Lead) error {
	subject, html := CustomerEmailTemplate(lead)
	return s.sender.Send(ctx, EmailMessage{
		To:      []string{lead.Contact.Email},
		Subject: subject,
		HTML:    html,
	})
}

// CompanyEmailSink sends the internal alert to the operator addresses.
// This is the channel the business actually watches, so its failure is
// logged at error level with full context — but it still never changes the
// customer-facing response.
type CompanyEmailSink struct {
	sender        EmailSender
	recipients    []string
	cc            []string
	adminPanelURL string
	logger        *logging.Logger
}

// NewCompanyEmailSink wraps an email sender with the operator recipient
// list. Returns nil when sender is nil or no recipient is configured.
func NewCompanyEmailSink(sender EmailSender, recipients, cc []string, adminPanelURL string, logger *logging.Logger) *CompanyEmailSink {
	if sender == nil || len(recipients) == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CompanyEmailSink{
		sender:        sender,
		recipients:    recipients,
		cc:            cc,
		adminPanelURL: adminPanelURL,
		logger:        logger,
	}
}

func (s *CompanyEmailSink) Name() string { return "company_email" }

func (s *CompanyEmailSink) Send(ctx context.Context, lead *leads.Lead) error {
	subject, html := CompanyEmailTemplate(lead, s.adminPanelURL)
	err := s.sender.Send(ctx, EmailMessage{
		To:      s.recipients,
		CC:      s.cc,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		// The operators missed a lead. The lead is persisted and shows up
		// in the admin panel, but nobody was told — loud log so on-call
		// alerting picks it up.
		s.logger.Error("company notification failed, lead only visible in admin panel",
			"lead_id", lead.ID,
			"customer", lead.Contact.Name,
			"phone", lead.Contact.Phone,
			"error", err,
		)
		return fmt.Errorf("notify: company email failed: %w", err)
	}
	return nil
}

var _ Sink = (*CustomerEmailSink)(nil)
var _ Sink = (*CompanyEmailSink)(nil)
