package models

import (
	"encoding/json"
	"net/http"
)

// OutboundRequest is a single call handed to the transport.
type OutboundRequest struct {
	Endpoint string
	Method   string
	Payload  json.RawMessage
	Headers  map[string]string
}

// Response is what the transport returns for a successful (2xx) call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
