package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/events"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/metrics"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/internal/validators"
	"github.com/MKhiriev/go-offline-sync/models"
)

// SyncEngine is the offline-first coordinator. Its only states are idle and
// syncing; a Synchronize call made while syncing is rejected, not queued.
type SyncEngine struct {
	queue        QueueStore
	cache        CacheStore
	transport    adapter.Transport
	network      NetworkMonitor
	synchronizer *Synchronizer
	validator    validators.Validator
	cfg          config.Engine
	clock        utils.Clock
	ids          utils.IDGenerator
	metrics      *metrics.Recorder
	logger       *logger.Logger
	bus          *events.Bus[models.SyncState]

	syncing atomic.Bool

	stateMu  sync.RWMutex
	lastSync *time.Time
	pending  int

	job     *syncJob
	watcher *reconnectWatcher
}

var _ Engine = (*SyncEngine)(nil)

// Option customises a SyncEngine.
type Option func(*SyncEngine)

func WithClock(clock utils.Clock) Option {
	return func(e *SyncEngine) { e.clock = clock }
}

func WithIDGenerator(ids utils.IDGenerator) Option {
	return func(e *SyncEngine) { e.ids = ids }
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(e *SyncEngine) { e.metrics = recorder }
}

func WithValidator(v validators.Validator) Option {
	return func(e *SyncEngine) { e.validator = v }
}

// NewSyncEngine wires the engine over storages. cfg is expected to be
// validated; zero intervals fall back to the defaults.
func NewSyncEngine(storages *store.Storages, transport adapter.Transport, network NetworkMonitor, cfg config.Engine, logger *logger.Logger, opts ...Option) *SyncEngine {
	return newSyncEngine(storages.Queue, storages.Cache, transport, network, cfg, logger, opts...)
}

func newSyncEngine(queue QueueStore, cache CacheStore, transport adapter.Transport, network NetworkMonitor, cfg config.Engine, logger *logger.Logger, opts ...Option) *SyncEngine {
	e := &SyncEngine{
		queue:     queue,
		cache:     cache,
		transport: transport,
		network:   network,
		validator: validators.NewRequestValidator(),
		cfg:       cfg,
		clock:     utils.NewSystemClock(),
		ids:       utils.NewUUIDGenerator(),
		logger:    logger,
		bus:       events.NewBus[models.SyncState](),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.synchronizer = NewSynchronizer(queue, transport, cfg, e.metrics, logger)
	e.job = newSyncJob(e.periodicSync)
	e.watcher = newReconnectWatcher(network, cfg.StabilizationDelay, e.connectivityChanged, e.reconnectSync)

	return e
}

func (e *SyncEngine) QueueRequest(ctx context.Context, endpoint, method string, payload json.RawMessage, opts models.RequestOptions) (models.QueueResult, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodPost
	}

	out := models.OutboundRequest{Endpoint: endpoint, Method: method, Payload: payload, Headers: opts.Headers}
	if err := e.validator.Validate(ctx, out); err != nil {
		return models.QueueResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := e.validator.Validate(ctx, opts, validators.FieldTags); err != nil {
		return models.QueueResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if !opts.ForceQueue && e.network.IsOnline() {
		_, err := e.transport.Send(ctx, out)
		if err == nil {
			return models.QueueResult{Queued: false, ID: e.ids.Generate()}, nil
		}
		e.logger.Warn().Err(err).
			Str("endpoint", endpoint).
			Str("method", method).
			Msg("immediate send failed, queueing request")
	}

	req, err := e.queue.Enqueue(ctx, endpoint, method, payload, opts)
	if err != nil {
		return models.QueueResult{}, fmt.Errorf("queue request: %w", err)
	}
	e.metrics.IncEnqueued()
	e.refreshPending(ctx)
	e.publish()

	return models.QueueResult{Queued: true, ID: req.ID}, nil
}

func (e *SyncEngine) Synchronize(ctx context.Context) models.SyncResult {
	if !e.syncing.CompareAndSwap(false, true) {
		return failedResult(models.ReasonSyncInProgress, ErrSyncInProgress)
	}
	defer func() {
		e.syncing.Store(false)
		e.publish()
	}()
	e.publish()

	if !e.network.IsOnline() {
		return failedResult(models.ReasonOffline, ErrOffline)
	}

	trigger := utils.SyncTriggerFromContext(ctx)
	e.logger.Debug().Str("trigger", trigger).Msg("sync pass started")

	started := e.clock.Now()
	result := e.synchronizer.Run(ctx)
	finished := e.clock.Now()

	if result.Success {
		e.stateMu.Lock()
		e.lastSync = &finished
		e.stateMu.Unlock()
	}
	e.metrics.ObservePass(result.Success, finished.Sub(started))
	e.refreshPending(context.WithoutCancel(ctx))

	return result
}

func (e *SyncEngine) CacheData(ctx context.Context, key string, data any, opts models.CacheOptions) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyCacheKey
	}
	return e.cache.Set(ctx, key, data, opts)
}

func (e *SyncEngine) GetCachedData(ctx context.Context, key string, def json.RawMessage) (json.RawMessage, error) {
	if strings.TrimSpace(key) == "" {
		return def, ErrEmptyCacheKey
	}
	return e.cache.GetOrDefault(ctx, key, def)
}

// GetCached decodes the cached value for key into T, returning def when the
// entry is missing or expired.
func GetCached[T any](ctx context.Context, e *SyncEngine, key string, def T) (T, error) {
	if strings.TrimSpace(key) == "" {
		return def, ErrEmptyCacheKey
	}

	raw, ok, err := e.cache.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}

	var v T
	if err = json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("decode cached %q: %w", key, err)
	}
	return v, nil
}

func (e *SyncEngine) RemoveCachedData(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyCacheKey
	}
	return e.cache.Remove(ctx, key)
}

// ClearOfflineData empties the queue and the cache. Both are attempted even
// if the first fails.
func (e *SyncEngine) ClearOfflineData(ctx context.Context) error {
	var errs []error
	if err := e.queue.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear queue: %w", err))
	}
	n, err := e.cache.ClearAll(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("clear cache: %w", err))
	}

	e.refreshPending(ctx)
	e.publish()
	e.logger.Info().Int("cache_entries", n).Msg("offline data cleared")

	return errors.Join(errs...)
}

func (e *SyncEngine) CancelRequests(ctx context.Context, tag string) (int, error) {
	if strings.TrimSpace(tag) == "" {
		return 0, ErrEmptyTag
	}

	n, err := e.queue.RemoveByTag(ctx, tag)
	if err != nil {
		return 0, fmt.Errorf("cancel requests: %w", err)
	}
	if n > 0 {
		e.refreshPending(ctx)
		e.publish()
	}
	return n, nil
}

func (e *SyncEngine) State() models.SyncState {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	state := models.SyncState{
		IsOnline:          e.network.IsOnline(),
		IsSynchronizing:   e.syncing.Load(),
		PendingOperations: e.pending,
	}
	if e.lastSync != nil {
		t := *e.lastSync
		state.LastSyncTime = &t
	}
	return state
}

// Subscribe registers fn for state changes. fn runs synchronously on the
// goroutine that changed the state and must not block.
func (e *SyncEngine) Subscribe(fn func(models.SyncState)) (unsubscribe func()) {
	return e.bus.Subscribe(fn)
}

// Start loads the pending count and launches the periodic job and the
// reconnect listener. Calling Start again restarts both.
func (e *SyncEngine) Start(ctx context.Context) {
	e.refreshPending(ctx)
	e.metrics.SetOnline(e.network.IsOnline())

	e.watcher.Start(ctx)
	e.job.Start(ctx, e.cfg.SyncInterval)

	e.logger.Info().
		Dur("sync_interval", e.cfg.SyncInterval).
		Dur("stabilization_delay", e.cfg.StabilizationDelay).
		Msg("sync engine started")
}

// Stop halts the background triggers and waits for them. A pass already
// running is not interrupted.
func (e *SyncEngine) Stop() {
	e.watcher.Stop()
	e.job.Stop()
	e.logger.Info().Msg("sync engine stopped")
}

// periodicSync runs a pass only when online, idle and there is work.
func (e *SyncEngine) periodicSync(ctx context.Context) {
	if !e.network.IsOnline() || e.syncing.Load() {
		return
	}
	if e.refreshPending(ctx) == 0 {
		return
	}

	result := e.Synchronize(utils.WithSyncTrigger(ctx, utils.TriggerPeriodic))
	e.logger.Debug().Bool("success", result.Success).Msg("periodic sync finished")
}

func (e *SyncEngine) reconnectSync(ctx context.Context) {
	if e.refreshPending(ctx) == 0 {
		return
	}

	result := e.Synchronize(utils.WithSyncTrigger(ctx, utils.TriggerReconnect))
	e.logger.Info().
		Bool("success", result.Success).
		Int("synced", result.SyncedCount).
		Int("failed", result.FailedCount).
		Msg("sync after reconnect finished")
}

func (e *SyncEngine) connectivityChanged(online bool) {
	e.metrics.SetOnline(online)
	e.publish()
}

// refreshPending reloads the queue length. On a storage error the previous
// value is kept.
func (e *SyncEngine) refreshPending(ctx context.Context) int {
	n, err := e.queue.Count(ctx)

	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	if err != nil {
		e.logger.Err(err).Msg("failed to count queued requests")
		return e.pending
	}
	e.pending = n
	e.metrics.SetQueueLength(n)
	return n
}

func (e *SyncEngine) publish() {
	e.bus.Publish(e.State())
}

func failedResult(reason string, err error) models.SyncResult {
	return models.SyncResult{
		Success: false,
		Errors:  []models.SyncError{{Reason: reason, Error: err.Error()}},
	}
}
