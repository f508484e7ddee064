package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessable       = errors.New("unprocessable entity")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrGatewayTimeout      = errors.New("gateway timeout")
	// ErrUnexpectedStatus is wrapped for statuses without a dedicated sentinel.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrNetwork marks failures where no HTTP response was received:
	// DNS, connection refused, TLS, timeouts and cancelled contexts.
	ErrNetwork = errors.New("network error")
)

// RequestError is returned by [Transport.Send] for a non-2xx response.
type RequestError struct {
	StatusCode int
	Body       string
	// Err is the sentinel matching StatusCode.
	Err error
}

func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("http %d: %v: %s", e.StatusCode, e.Err, e.Body)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from err. The bool is false when err
// carries no response status.
func StatusCode(err error) (int, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode, true
	}
	return 0, false
}
