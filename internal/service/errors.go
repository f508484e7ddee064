// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrSyncInProgress is reported inside a SyncResult when Synchronize is
	// called while another pass is running. Callers should retry shortly.
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrOffline is reported inside a SyncResult when the device is offline.
	ErrOffline = errors.New("device is offline")

	// ErrTransientRequest marks delivery failures that may succeed later.
	ErrTransientRequest = errors.New("transient request error")
	// ErrPermanentRequest marks delivery failures that will never succeed.
	ErrPermanentRequest = errors.New("permanent request error")

	ErrInvalidRequest = errors.New("invalid request")
	ErrEmptyCacheKey  = errors.New("cache key is required")
	ErrEmptyTag       = errors.New("tag is required")
)
