package leads

import (
	"regexp"
	"strings"
	"time"
)

// Validation bounds for vehicle data.
const (
	minRegistrationYear = 1950
	maxMileageKm        = 2_000_000
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]{10,}$`)
)

// ValidateSubmission checks a raw submission against the intake rules.
// It is pure: no I/O, no side effects. Rules are evaluated in a fixed
// order and the first failure wins, so the caller always surfaces exactly
// one message.
//
// The honeypot message is deliberately generic so an automated submitter
// cannot distinguish spam rejection from ordinary validation failure.
func ValidateSubmission(sub *Submission, now time.Time) *ValidationError {
	if strings.TrimSpace(sub.Website) != "" {
		return &ValidationError{Field: "website", Message: "Invalid request"}
	}

	if len(strings.TrimSpace(sub.Vehicle.Brand)) < 2 {
		return &ValidationError{Field: "vehicle.brand", Message: "Fahrzeugmarke ist erforderlich (min. 2 Zeichen)"}
	}
	if len(strings.TrimSpace(sub.Vehicle.Model)) < 1 {
		return &ValidationError{Field: "vehicle.model", Message: "Fahrzeugmodell ist erforderlich"}
	}
	year := sub.Vehicle.FirstRegistrationYear
	if year < minRegistrationYear || year > now.Year()+1 {
		return &ValidationError{Field: "vehicle.firstRegistrationYear", Message: "Gültiges Erstzulassungsjahr erforderlich"}
	}
	if sub.Vehicle.MileageKm < 0 || sub.Vehicle.MileageKm > maxMileageKm {
		return &ValidationError{Field: "vehicle.mileageKm", Message: "Gültiger Kilometerstand erforderlich (0-2.000.000 km)"}
	}
	if len(strings.TrimSpace(sub.Contact.Name)) < 2 {
		return &ValidationError{Field: "contact.name", Message: "Name ist erforderlich (min. 2 Zeichen)"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(sub.Contact.Email)) {
		return &ValidationError{Field: "contact.email", Message: "Gültige E-Mail-Adresse erforderlich"}
	}
	if !phonePattern.MatchString(strings.TrimSpace(sub.Contact.Phone)) {
		return &ValidationError{Field: "contact.phone", Message: "Gültige Telefonnummer erforderlich (min. 10 Zeichen)"}
	}
	if !sub.Meta.Consent {
		return &ValidationError{Field: "meta.consent", Message: "Zustimmung zur Datenschutzerklärung ist erforderlich"}
	}

	return nil
}
