// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrUnknownOption is returned in strict mode when the request options
	// contain keys the engine does not recognise.
	ErrUnknownOption = errors.New("unknown request option")

	ErrNegativeExpiration = errors.New("expiration_ms cannot be negative")
)
