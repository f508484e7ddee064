// Package utils provides general-purpose helpers shared by the engine
// packages: clocks, identifier generation, context keys, the resty client
// wrapper and HTTP response writing.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SyncTriggerCtxKey is the key under which the origin of a sync pass is
// stored (for example "periodic", "reconnect" or "manual").
var SyncTriggerCtxKey = contextKey("syncTrigger")

// Known sync trigger values.
const (
	TriggerManual    = "manual"
	TriggerPeriodic  = "periodic"
	TriggerReconnect = "reconnect"
)

// WithSyncTrigger returns a copy of ctx that records trigger as the reason
// a sync pass was started.
func WithSyncTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, SyncTriggerCtxKey, trigger)
}

// SyncTriggerFromContext returns the trigger stored by WithSyncTrigger,
// or TriggerManual when none was set.
func SyncTriggerFromContext(ctx context.Context) string {
	trigger, ok := ctx.Value(SyncTriggerCtxKey).(string)
	if !ok || trigger == "" {
		return TriggerManual
	}
	return trigger
}
