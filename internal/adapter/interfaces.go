// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the outbound transport the sync engine uses to
// deliver requests to the backend.
//
// The primary abstraction is [Transport], which decouples the engine from
// the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPTransport]) built on resty.
//
// Non-2xx responses are mapped by mapHTTPError to a [*RequestError] that
// carries the status code and wraps one of the sentinel values defined in
// errors.go, so callers can use [errors.Is] (e.g. [ErrConflict] for 409) or
// [errors.As] for the raw status. Failures before any response arrives wrap
// [ErrNetwork].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-offline-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Transport sends one request to the backend and reports the outcome.
// Implementations own timeouts, authentication and serialization.
type Transport interface {
	// Send delivers req. A 2xx response returns a nil error. Any other
	// status returns the response together with a *RequestError; a
	// connection failure or timeout returns an error wrapping ErrNetwork.
	Send(ctx context.Context, req models.OutboundRequest) (models.Response, error)
}
