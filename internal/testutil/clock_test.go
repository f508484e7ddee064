package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_Frozen(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewManualClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now())
}

func TestManualClock_Advance(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewManualClock(start)

	got := c.Advance(90 * time.Second)

	assert.Equal(t, start.Add(90*time.Second), got)
	assert.Equal(t, got, c.Now())
}

func TestManualClock_Set(t *testing.T) {
	c := NewManualClock(time.Time{})
	target := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

	c.Set(target)

	assert.Equal(t, target, c.Now())
}

func TestManualClock_ConcurrentAdvance(t *testing.T) {
	start := time.Unix(0, 0).UTC()
	c := NewManualClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(50*time.Millisecond), c.Now())
}

func TestSequenceIDs(t *testing.T) {
	var ids SequenceIDs

	assert.Equal(t, "req-1", ids.Generate())
	assert.Equal(t, "req-2", ids.Generate())
}
