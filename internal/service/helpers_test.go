package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/events"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/mock"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/testutil"
	"github.com/MKhiriev/go-offline-sync/models"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeNetwork is a manually driven NetworkMonitor.
type fakeNetwork struct {
	online atomic.Bool
	bus    *events.Bus[bool]
}

func newFakeNetwork(online bool) *fakeNetwork {
	n := &fakeNetwork{bus: events.NewBus[bool]()}
	n.online.Store(online)
	return n
}

func (n *fakeNetwork) IsOnline() bool { return n.online.Load() }

func (n *fakeNetwork) Subscribe(fn func(bool)) func() { return n.bus.Subscribe(fn) }

func (n *fakeNetwork) Set(online bool) {
	n.online.Store(online)
	n.bus.Publish(online)
}

// flakyKV wraps a memory store and fails writes on demand.
type flakyKV struct {
	store.KeyValueStore
	failWrites atomic.Bool
}

var errDiskFull = errors.New("disk full")

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failWrites.Load() {
		return errDiskFull
	}
	return f.KeyValueStore.Set(ctx, key, value)
}

// endpointIs matches an OutboundRequest by endpoint.
type endpointIs string

func (e endpointIs) Matches(x any) bool {
	req, ok := x.(models.OutboundRequest)
	return ok && req.Endpoint == string(e)
}

func (e endpointIs) String() string { return fmt.Sprintf("request to %s", string(e)) }

func httpError(status int) error {
	return &adapter.RequestError{StatusCode: status, Err: adapter.ErrUnexpectedStatus}
}

func ok200() models.Response { return models.Response{StatusCode: http.StatusOK} }

// engineFixture bundles an engine with its collaborators.
type engineFixture struct {
	engine    *SyncEngine
	transport *mock.MockTransport
	network   *fakeNetwork
	storages  *store.Storages
	kv        *flakyKV
	clock     *testutil.ManualClock
}

func newEngineFixture(t *testing.T, online bool, tune ...func(*config.Engine)) *engineFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := config.DefaultEngine()
	cfg.StabilizationDelay = 10 * time.Millisecond
	cfg.SyncInterval = time.Hour
	for _, fn := range tune {
		fn(&cfg)
	}
	require.NoError(t, cfg.Validate())

	clock := testutil.NewManualClock(testStart)
	ids := &testutil.SequenceIDs{}
	kv := &flakyKV{KeyValueStore: store.NewMemoryKeyValueStore()}
	storages := store.NewStoragesWith(kv, cfg, clock, ids, logger.Nop())
	transport := mock.NewMockTransport(ctrl)
	network := newFakeNetwork(online)

	engine := NewSyncEngine(storages, transport, network, cfg, logger.Nop(), WithClock(clock), WithIDGenerator(ids))

	return &engineFixture{
		engine:    engine,
		transport: transport,
		network:   network,
		storages:  storages,
		kv:        kv,
		clock:     clock,
	}
}

// enqueueOffline puts requests in the queue without touching the transport.
func (f *engineFixture) enqueueOffline(t *testing.T, endpoints ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		res, err := f.engine.QueueRequest(context.Background(), ep, http.MethodPost, nil, models.RequestOptions{ForceQueue: true})
		require.NoError(t, err)
		require.True(t, res.Queued)
		ids = append(ids, res.ID)
	}
	return ids
}

func (f *engineFixture) queued(t *testing.T) []models.QueuedRequest {
	t.Helper()
	list, err := f.storages.Queue.List(context.Background())
	require.NoError(t, err)
	return list
}
