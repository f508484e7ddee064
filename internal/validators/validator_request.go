package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/MKhiriev/go-offline-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldID         = "id"
	FieldEndpoint   = "endpoint"
	FieldMethod     = "method"
	FieldPayload    = "payload"
	FieldHeaders    = "headers"
	FieldTags       = "tags"
	FieldRetryCount = "retry_count"
)

var allowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.OutboundRequest:
		return v.validateOutbound(ctx, value, fields...)
	case *models.OutboundRequest:
		return v.validateOutbound(ctx, *value, fields...)

	case models.QueuedRequest:
		return v.validateQueued(ctx, value, fields...)
	case *models.QueuedRequest:
		return v.validateQueued(ctx, *value, fields...)

	case models.RequestOptions:
		return v.validateOptions(ctx, value, fields...)
	case *models.RequestOptions:
		return v.validateOptions(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// IsAllowedMethod reports whether method (case-insensitive) can be queued.
func IsAllowedMethod(method string) bool {
	return slices.Contains(allowedMethods, strings.ToUpper(method))
}

func (v *RequestValidator) validateOutbound(_ context.Context, req models.OutboundRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEndpoint, FieldMethod, FieldPayload, FieldHeaders}
	}

	for _, f := range fields {
		switch f {
		case FieldEndpoint:
			if err := validateEndpoint(req.Endpoint); err != nil {
				return err
			}
		case FieldMethod:
			// empty means the transport default
			if req.Method != "" && !IsAllowedMethod(req.Method) {
				return fmt.Errorf("%w: %q", ErrInvalidMethod, req.Method)
			}
		case FieldPayload:
			if len(req.Payload) > 0 && !json.Valid(req.Payload) {
				return ErrInvalidPayload
			}
		case FieldHeaders:
			if err := validateHeaders(req.Headers); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateQueued(ctx context.Context, req models.QueuedRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldEndpoint, FieldMethod, FieldPayload, FieldHeaders, FieldTags, FieldRetryCount}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if req.ID == "" {
				return ErrEmptyRequestID
			}
		case FieldEndpoint, FieldMethod, FieldPayload, FieldHeaders:
			if err := v.validateOutbound(ctx, req.Outbound(), f); err != nil {
				return err
			}
		case FieldTags:
			if err := validateTags(req.Tags); err != nil {
				return err
			}
		case FieldRetryCount:
			if req.RetryCount < 0 {
				return ErrNegativeRetries
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateOptions(_ context.Context, opts models.RequestOptions, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTags, FieldHeaders}
	}

	for _, f := range fields {
		switch f {
		case FieldTags:
			if err := validateTags(opts.Tags); err != nil {
				return err
			}
		case FieldHeaders:
			if err := validateHeaders(opts.Headers); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateEndpoint(endpoint string) error {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return ErrEmptyEndpoint
	}
	if strings.Contains(trimmed, "://") {
		return ErrAbsoluteEndpoint
	}
	return nil
}

func validateHeaders(headers map[string]string) error {
	for name := range headers {
		if !isToken(name) {
			return fmt.Errorf("%w: %q", ErrInvalidHeaderName, name)
		}
	}
	return nil
}

func validateTags(tags []string) error {
	for i, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("validation error at index %d: %w", i, ErrEmptyTag)
		}
	}
	return nil
}

// isToken reports whether s is a valid RFC 7230 header field name.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("!#$%&'*+-.^_`|~", r):
		default:
			return false
		}
	}
	return true
}
