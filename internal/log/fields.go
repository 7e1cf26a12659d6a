package log

// Canonical field name constants for structured logging.
const (
	FieldComponent     = "component"
	FieldCorrelationID = "correlation_id"

	// Call fields
	FieldAction  = "action"
	FieldSection = "section"
	FieldAttempt = "attempt"
	FieldHost    = "host"

	// Response fields
	FieldStatusCode = "status_code"
	FieldRequestID  = "request_id"
	FieldErrorCode  = "error_code"
	FieldDuration   = "duration"
)
