package service

import (
	"context"
	"sync"
	"time"
)

// reconnectWatcher turns connectivity changes into a delayed callback.
//
// After an offline→online transition it waits delay and calls onStable if
// the device is still online. Going offline during the wait cancels it.
// Repeated online notifications while waiting do not restart the timer.
type reconnectWatcher struct {
	network  NetworkMonitor
	delay    time.Duration
	onChange func(online bool)
	onStable func(ctx context.Context)

	mu          sync.Mutex
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

func newReconnectWatcher(network NetworkMonitor, delay time.Duration, onChange func(bool), onStable func(context.Context)) *reconnectWatcher {
	return &reconnectWatcher{
		network:  network,
		delay:    delay,
		onChange: onChange,
		onStable: onStable,
	}
}

func (w *reconnectWatcher) Start(ctx context.Context) {
	w.Stop()

	// one pending signal is enough: the loop reads the current state
	signal := make(chan struct{}, 1)
	notify := func(bool) {
		select {
		case signal <- struct{}{}:
		default:
		}
	}

	// baseline is read before subscribing; the extra signal catches a
	// change that lands between the read and the subscription
	last := w.network.IsOnline()
	unsubscribe := w.network.Subscribe(notify)
	notify(last)

	w.mu.Lock()
	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.unsubscribe = unsubscribe
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		w.loop(watchCtx, signal, last)
	}()
}

func (w *reconnectWatcher) loop(ctx context.Context, signal <-chan struct{}, last bool) {
	var (
		timer  *time.Timer
		stable <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer, stable = nil, nil
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return

		case <-signal:
			online := w.network.IsOnline()
			if online == last {
				continue
			}
			last = online
			w.onChange(online)

			if !online {
				stopTimer()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
				stable = timer.C
			}

		case <-stable:
			timer, stable = nil, nil
			if w.network.IsOnline() {
				w.onStable(ctx)
			}
		}
	}
}

func (w *reconnectWatcher) Stop() {
	w.mu.Lock()
	cancel, unsubscribe := w.cancel, w.unsubscribe
	w.cancel, w.unsubscribe = nil, nil
	w.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
