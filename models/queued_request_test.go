package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueuedRequest_HasTag(t *testing.T) {
	r := QueuedRequest{Tags: []string{"order-42", "status"}}

	assert.True(t, r.HasTag("order-42"))
	assert.False(t, r.HasTag("order-4"))
	assert.False(t, QueuedRequest{}.HasTag("status"))
}

func TestQueuedRequest_Outbound(t *testing.T) {
	r := QueuedRequest{
		ID:         "a1",
		Endpoint:   "/orders/42/status",
		Method:     "PUT",
		Payload:    json.RawMessage(`{"status":"picked_up"}`),
		RetryCount: 2,
		Tags:       []string{"order-42"},
		Headers:    map[string]string{"X-Driver": "d-7"},
	}

	assert.Equal(t, OutboundRequest{
		Endpoint: "/orders/42/status",
		Method:   "PUT",
		Payload:  json.RawMessage(`{"status":"picked_up"}`),
		Headers:  map[string]string{"X-Driver": "d-7"},
	}, r.Outbound())
}
