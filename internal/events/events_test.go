package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishInOrder(t *testing.T) {
	bus := NewBus[int]()
	var got []string

	bus.Subscribe(func(v int) { got = append(got, "first") })
	bus.Subscribe(func(v int) { got = append(got, "second") })

	bus.Publish(1)

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus[string]()
	calls := 0

	unsubscribe := bus.Subscribe(func(string) { calls++ })
	bus.Publish("a")
	unsubscribe()
	unsubscribe()
	bus.Publish("b")

	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.Len())
}

func TestBus_UnsubscribeOnlyRemovesOwnHandler(t *testing.T) {
	bus := NewBus[bool]()
	var a, b int

	unsubA := bus.Subscribe(func(bool) { a++ })
	bus.Subscribe(func(bool) { b++ })

	unsubA()
	bus.Publish(true)

	assert.Zero(t, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 1, bus.Len())
}

func TestBus_HandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewBus[int]()
	calls := 0

	var unsubscribe func()
	unsubscribe = bus.Subscribe(func(int) {
		calls++
		unsubscribe()
	})

	require.NotPanics(t, func() {
		bus.Publish(1)
		bus.Publish(2)
	})
	assert.Equal(t, 1, calls)
}

func TestBus_NilPublishIsNoop(t *testing.T) {
	var bus *Bus[int]
	assert.NotPanics(t, func() { bus.Publish(1) })
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus[int]()
	var mu sync.Mutex
	sum := 0
	bus.Subscribe(func(v int) {
		mu.Lock()
		sum += v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 55, sum)
}
