package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/sopiautomobile/lead-platform/internal/observability/metrics"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

// Notifier fans a freshly persisted lead out to the configured
// notification channels. Implementations must swallow channel failures:
// Notify returns once every channel has settled, and its outcome never
// influences the intake response.
type Notifier interface {
	Notify(ctx context.Context, lead *Lead)
}

// NopNotifier discards leads. Used when no channel is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, lead *Lead) {}

// IntakeResult is returned to the client on a successful submission.
type IntakeResult struct {
	LeadID                string
	Message               string
	EstimatedResponseTime string
}

const (
	successMessage        = "Ihre Anfrage wurde erfolgreich übermittelt. Wir melden uns binnen 24 Stunden bei Ihnen."
	estimatedResponseTime = "24 Stunden"
)

// Service runs the intake pipeline: validate, persist, fan out.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *logging.Logger
	metrics  *metrics.LeadMetrics
	now      func() time.Time
}

// NewService creates the intake service. notifier may be nil.
func NewService(repo Repository, notifier Notifier, logger *logging.Logger, m *metrics.LeadMetrics) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Intake processes one submission end to end.
//
// Validation failure returns a *ValidationError and has zero side effects.
// Persistence failure is fatal: a lead the store never accepted must not be
// acknowledged to the customer. Notification failures are logged inside the
// notifier and never reach the caller — the customer must not see an error
// because a downstream provider is down.
func (s *Service) Intake(ctx context.Context, sub *Submission, reqMeta RequestMeta) (*IntakeResult, error) {
	start := s.now()

	if verr := ValidateSubmission(sub, start); verr != nil {
		outcome := "rejected"
		if verr.Field == "website" {
			outcome = "spam"
		}
		s.metrics.ObserveIntake(outcome)
		s.logger.Info("lead rejected",
			"field", verr.Field,
			"source", sub.Meta.Source,
		)
		return nil, verr
	}

	lead := NewLead(sub, reqMeta, start)

	if err := s.repo.Save(ctx, lead); err != nil {
		s.metrics.ObserveIntake("error")
		s.logger.Error("lead persistence failed",
			"error", err,
			"lead_id", lead.ID,
		)
		return nil, fmt.Errorf("leads: persist lead: %w", err)
	}

	s.logger.Info("lead persisted",
		"lead_id", lead.ID,
		"brand", lead.Vehicle.Brand,
		"model", lead.Vehicle.Model,
		"source", lead.Meta.Source,
	)

	// The fan-out continues even if the client goes away mid-request.
	s.notifier.Notify(context.WithoutCancel(ctx), lead)

	s.metrics.ObserveIntake("accepted")
	s.metrics.ObserveIntakeDuration(s.now().Sub(start).Seconds())

	return &IntakeResult{
		LeadID:                lead.ID,
		Message:               successMessage,
		EstimatedResponseTime: estimatedResponseTime,
	}, nil
}
