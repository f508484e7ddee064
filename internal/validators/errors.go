package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyEndpoint     = errors.New("endpoint is required")
	ErrAbsoluteEndpoint  = errors.New("endpoint must be relative to the backend address")
	ErrInvalidMethod     = errors.New("invalid HTTP method")
	ErrInvalidPayload    = errors.New("payload must be valid JSON")
	ErrInvalidHeaderName = errors.New("invalid header name")
	ErrEmptyTag          = errors.New("tag cannot be empty")
	ErrEmptyRequestID    = errors.New("request ID is required")
	ErrNegativeRetries   = errors.New("retry count cannot be negative")
)
