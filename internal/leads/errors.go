package leads

import "errors"

var (
	// ErrLeadNotFound is returned when a lead id does not exist in the store.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidStatus is returned when an admin update carries an unknown
	// workflow status.
	ErrInvalidStatus = errors.New("invalid lead status")
)

// ValidationError reports the first failing rule of a submission. Message
// is the user-facing text returned with the 400 response.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
