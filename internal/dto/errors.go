package dto

// ValidationError marks an action the preconditions forbid (asking with no
// ready sources, malformed URL, invalid request body). Always recovered
// locally and surfaced as an inline message; never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
