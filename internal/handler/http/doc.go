// Package http implements the local control API of the sync agent.
//
// It exposes the engine operations (queueing, manual sync, cache access,
// cleanup) as JSON endpoints on a chi router, together with the Prometheus
// /metrics endpoint. Request tracing and access logging are handled here
// before calls are delegated to the engine.
package http
