// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Reasons attached to SyncError entries.
const (
	ReasonMaxRetries     = "max retries reached"
	ReasonPermanent      = "permanent error, not retrying"
	ReasonWillRetry      = "will retry later"
	ReasonSyncInProgress = "sync already in progress"
	ReasonOffline        = "device is offline"
	ReasonStorage        = "failed to persist queue"
	ReasonInterrupted    = "sync interrupted"
)

// SyncResult is the outcome of one synchronize call. It is never persisted.
type SyncResult struct {
	Success     bool        `json:"success"`
	SyncedCount int         `json:"synced_count"`
	FailedCount int         `json:"failed_count"`
	Errors      []SyncError `json:"errors,omitempty"`
}

// SyncError describes why a request (or the whole pass) did not succeed.
type SyncError struct {
	RequestID  string `json:"request_id,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Method     string `json:"method,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Reason     string `json:"reason"`
	Error      string `json:"error,omitempty"`
}

// SyncState is the observable state of a sync engine.
type SyncState struct {
	IsOnline          bool       `json:"is_online"`
	IsSynchronizing   bool       `json:"is_synchronizing"`
	LastSyncTime      *time.Time `json:"last_sync_time,omitempty"`
	PendingOperations int        `json:"pending_operations"`
}
