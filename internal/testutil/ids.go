package testutil

import (
	"fmt"
	"sync/atomic"
)

// SequenceIDs hands out "req-1", "req-2", ... in call order.
//
// Thread-safe. Satisfies utils.IDGenerator.
type SequenceIDs struct {
	seq atomic.Int64
}

// Generate returns the next identifier.
func (s *SequenceIDs) Generate() string {
	return fmt.Sprintf("req-%d", s.seq.Add(1))
}
