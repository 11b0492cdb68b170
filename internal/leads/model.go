package leads

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead status workflow values, managed through the admin surface.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusWon       = "won"
	StatusLost      = "lost"
)

// ValidStatus reports whether s is a known workflow status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusWon, StatusLost:
		return true
	}
	return false
}

// Vehicle describes the car the customer wants to sell.
type Vehicle struct {
	Brand                 string `json:"brand"`
	Model                 string `json:"model"`
	FirstRegistrationYear int    `json:"firstRegistrationYear"`
	MileageKm             int    `json:"mileageKm"`
	Condition             string `json:"condition"`
}

// Contact holds the customer's contact details.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Meta carries request-level metadata captured at intake.
type Meta struct {
	Source    string `json:"source"`
	Consent   bool   `json:"consent"`
	UserAgent string `json:"userAgent,omitempty"`
	IP        string `json:"ip,omitempty"`
}

// Lead is one customer's vehicle-sale inquiry.
type Lead struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Vehicle   Vehicle   `json:"vehicle"`
	Contact   Contact   `json:"contact"`
	Meta      Meta      `json:"meta"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Submission is the raw, untrusted request body of the lead form.
type Submission struct {
	Vehicle Vehicle        `json:"vehicle"`
	Contact Contact        `json:"contact"`
	Meta    SubmissionMeta `json:"meta"`
	// Website is a honeypot field. Legitimate clients never fill it.
	Website string `json:"website,omitempty"`
}

// SubmissionMeta is the client-supplied part of Meta.
type SubmissionMeta struct {
	Source  string `json:"source"`
	Consent bool   `json:"consent"`
}

// RequestMeta is server-observed request context attached to a lead.
type RequestMeta struct {
	UserAgent string
	IP        string
}

// Stats summarizes the stored leads for the admin dashboard.
type Stats struct {
	Total        int            `json:"total"`
	Today        int            `json:"today"`
	ThisWeek     int            `json:"thisWeek"`
	StatusCounts map[string]int `json:"statusCounts"`
}

const conditionUnspecified = "Nicht angegeben"

// NewLead builds a fully populated Lead from a validated submission.
// Fields are trimmed, the email lower-cased, and missing optional values
// replaced with their sentinels. The id and timestamps are fresh on every
// call.
func NewLead(sub *Submission, req RequestMeta, now time.Time) *Lead {
	condition := strings.TrimSpace(sub.Vehicle.Condition)
	if condition == "" {
		condition = conditionUnspecified
	}
	source := sub.Meta.Source
	if source == "" {
		source = "unknown"
	}
	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = "Unknown"
	}
	ip := req.IP
	if ip == "" {
		ip = "Unknown"
	}

	now = now.UTC()
	return &Lead{
		ID:        uuid.New().String(),
		Timestamp: now,
		Vehicle: Vehicle{
			Brand:                 strings.TrimSpace(sub.Vehicle.Brand),
			Model:                 strings.TrimSpace(sub.Vehicle.Model),
			FirstRegistrationYear: sub.Vehicle.FirstRegistrationYear,
			MileageKm:             sub.Vehicle.MileageKm,
			Condition:             condition,
		},
		Contact: Contact{
			Name:  strings.TrimSpace(sub.Contact.Name),
			Email: strings.ToLower(strings.TrimSpace(sub.Contact.Email)),
			Phone: strings.TrimSpace(sub.Contact.Phone),
		},
		Meta: Meta{
			Source:    source,
			Consent:   sub.Meta.Consent,
			UserAgent: userAgent,
			IP:        ip,
		},
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
