// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server
// configuration has no listen address, so there is nothing to serve.
var errNoHandlersAreCreated = errors.New("no handlers are created")

// errNoEngine is returned by NewHandlers when the sync engine is missing.
var errNoEngine = errors.New("sync engine is required")
