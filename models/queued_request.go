// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"slices"
	"time"
)

// QueuedRequest is a mutation waiting to be delivered to the backend.
//
// A request is created when an immediate send fails or the device is offline,
// has its RetryCount incremented after each transient failure and is removed
// on success, on a permanent failure or once the retry budget is exhausted.
type QueuedRequest struct {
	// ID is generated at enqueue time and is unique within the queue.
	ID string `json:"id"`

	// Endpoint is the target resource, relative to the transport base URL.
	Endpoint string `json:"endpoint"`

	// Method is the HTTP verb used to deliver the request.
	Method string `json:"method"`

	// Payload is the opaque request body as supplied by the caller.
	Payload json.RawMessage `json:"payload,omitempty"`

	// EnqueuedAt is the moment the request entered the queue.
	EnqueuedAt time.Time `json:"enqueued_at"`

	// RetryCount is the number of failed delivery attempts so far.
	RetryCount int `json:"retry_count"`

	// Tags groups requests, e.g. for bulk cancellation.
	Tags []string `json:"tags,omitempty"`

	// Headers are sent with the request in addition to transport defaults.
	Headers map[string]string `json:"headers,omitempty"`
}

// HasTag reports whether tag is attached to the request.
func (r QueuedRequest) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// Outbound converts the queued request into a transport call.
func (r QueuedRequest) Outbound() OutboundRequest {
	return OutboundRequest{
		Endpoint: r.Endpoint,
		Method:   r.Method,
		Payload:  r.Payload,
		Headers:  r.Headers,
	}
}

// RequestOptions are the recognised options of a queueRequest call.
type RequestOptions struct {
	// ForceQueue skips the immediate send even when the device is online.
	ForceQueue bool `json:"force_queue,omitempty"`

	// Tags are persisted with the request.
	Tags []string `json:"tags,omitempty"`

	// Headers are persisted with the request and sent on every attempt.
	Headers map[string]string `json:"headers,omitempty"`
}

// QueueResult tells the caller what happened to a queueRequest call.
type QueueResult struct {
	// Queued is true when the request was stored for a later sync pass,
	// false when it was delivered immediately.
	Queued bool `json:"queued"`

	// ID identifies the request; for queued requests it is the queue ID.
	ID string `json:"id"`
}
