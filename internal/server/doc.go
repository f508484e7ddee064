// Package server runs the agent's local control API.
//
// It owns the HTTP listener lifecycle: startup, serving until the caller's
// context is cancelled, and graceful shutdown of in-flight requests.
package server
