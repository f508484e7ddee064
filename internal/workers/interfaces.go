// Package workers manages the lifecycle of the agent's background loops.
// It defines the Worker interface and a Workers aggregate that starts
// workers in registration order and stops them in reverse.
package workers

import "context"

// Worker is a background loop with an explicit lifecycle.
//
// Start must not block; implementations spawn their own goroutines and stop
// them either when ctx is cancelled or when Stop is called. Stop must be
// safe to call more than once.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
