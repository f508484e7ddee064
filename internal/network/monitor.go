package network

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/events"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
)

// Monitor tracks connectivity and notifies subscribers when it changes.
//
// The first observation is taken as-is. After that a transition is only
// reported once debounce consecutive observations agree on the new state,
// so a single dropped probe does not flap the engine offline.
type Monitor struct {
	checker  Checker
	interval time.Duration
	debounce int
	logger   *logger.Logger
	bus      *events.Bus[bool]

	stateMu  sync.Mutex
	online   bool
	observed bool
	pending  bool
	streak   int

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor creates an idle monitor. Nothing is checked until Start or
// Refresh is called.
func NewMonitor(checker Checker, cfg config.Network, logger *logger.Logger) *Monitor {
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = config.DefaultNetworkCheckInterval
	}
	debounce := cfg.DebounceChecks
	if debounce < 1 {
		debounce = 1
	}

	return &Monitor{
		checker:  checker,
		interval: interval,
		debounce: debounce,
		logger:   logger,
		bus:      events.NewBus[bool](),
	}
}

// IsOnline returns the last reported state.
func (m *Monitor) IsOnline() bool {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.online
}

// Subscribe registers fn for state changes. fn runs on the monitor's
// goroutine and must not block.
func (m *Monitor) Subscribe(fn func(isOnline bool)) (unsubscribe func()) {
	return m.bus.Subscribe(fn)
}

// Refresh performs one check and applies it. It returns the resulting
// reported state.
func (m *Monitor) Refresh(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	return m.Observe(m.checker.Check(checkCtx))
}

// Observe feeds one observation through the debounce logic and returns the
// reported state afterwards.
func (m *Monitor) Observe(online bool) bool {
	m.stateMu.Lock()
	changed := false

	switch {
	case !m.observed:
		m.observed = true
		changed = m.online != online
		m.online = online
		m.streak = 0
	case online == m.online:
		m.streak = 0
	case m.streak > 0 && online == m.pending:
		m.streak++
	default:
		m.pending = online
		m.streak = 1
	}

	if m.streak >= m.debounce {
		m.online = online
		m.streak = 0
		changed = true
	}

	current := m.online
	m.stateMu.Unlock()

	if changed {
		m.logger.Info().Bool("online", current).Msg("connectivity changed")
		m.bus.Publish(current)
	}

	return current
}

// Start takes an initial observation and then polls every interval until
// ctx is cancelled or Stop is called. Calling Start again restarts polling.
func (m *Monitor) Start(ctx context.Context) {
	m.Stop()

	m.Refresh(ctx)

	m.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(m.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				m.Refresh(jobCtx)
			}
		}
	}()
}

// Stop cancels polling and blocks until the goroutine has exited. Safe to
// call when the monitor is not running.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}
