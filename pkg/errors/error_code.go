package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidBar           ErrorCode = 103

	// Transport errors (200-299)
	ErrCodeTransportFailed ErrorCode = 200
	ErrCodeHTTPStatus      ErrorCode = 201

	// Command decoding errors (300-399)
	ErrCodeUnknownCommand   ErrorCode = 300
	ErrCodeMalformedCommand ErrorCode = 301
	ErrCodeUnknownOrderKind ErrorCode = 302

	// Terminal errors (400-499)
	ErrCodeOrderFailed         ErrorCode = 400
	ErrCodeCloseFailed         ErrorCode = 401
	ErrCodeVolumeChangeDenied  ErrorCode = 402
	ErrCodeTicketNotFound      ErrorCode = 403
	ErrCodePriceUnavailable    ErrorCode = 404
	ErrCodeInsufficientBalance ErrorCode = 405

	// Session errors (500-599)
	ErrCodeInitFailed ErrorCode = 500
)
