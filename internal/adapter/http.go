package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

type httpTransport struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPTransport constructs an HTTP/REST implementation of [Transport].
// It normalises and validates the base URL from cfg.HTTPAddress and
// configures the underlying resty client with it and cfg.RequestTimeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPTransport(cfg config.Adapter, logger *logger.Logger) (Transport, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpTransport{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Send implements [Transport]. Endpoint is resolved against the base URL
// unless it is already absolute. A non-empty payload is sent verbatim as
// the JSON body.
func (h *httpTransport) Send(ctx context.Context, req models.OutboundRequest) (models.Response, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPost
	}

	r := h.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers)
	if len(req.Payload) > 0 {
		r.SetHeader("Content-Type", "application/json").
			SetBody([]byte(req.Payload))
	}

	resp, err := r.Execute(method, req.Endpoint)
	if err != nil {
		h.logger.Debug().Err(err).
			Str("method", method).
			Str("endpoint", req.Endpoint).
			Msg("request did not reach the backend")
		return models.Response{}, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, req.Endpoint, err)
	}

	out := models.Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}

	if err = mapHTTPError(resp); err != nil {
		return out, err
	}

	return out, nil
}
