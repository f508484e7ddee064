// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/metrics"
	"github.com/MKhiriev/go-offline-sync/internal/mock"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/testutil"
	"github.com/MKhiriev/go-offline-sync/models"
)

func newTestSynchronizer(t *testing.T, tune ...func(*config.Engine)) (*Synchronizer, *mock.MockTransport, *store.QueueStore, *flakyKV) {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := config.DefaultEngine()
	for _, fn := range tune {
		fn(&cfg)
	}

	kv := &flakyKV{KeyValueStore: store.NewMemoryKeyValueStore()}
	queue := store.NewQueueStore(kv, cfg.QueueKey, testutil.NewManualClock(testStart), &testutil.SequenceIDs{}, logger.Nop())
	transport := mock.NewMockTransport(ctrl)

	return NewSynchronizer(queue, transport, cfg, nil, logger.Nop()), transport, queue, kv
}

func enqueue(t *testing.T, q *store.QueueStore, endpoints ...string) []models.QueuedRequest {
	t.Helper()
	out := make([]models.QueuedRequest, 0, len(endpoints))
	for _, ep := range endpoints {
		r, err := q.Enqueue(context.Background(), ep, http.MethodPost, nil, models.RequestOptions{})
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

// ── Run ──────────────────────────────────────────────────────────────────────

func TestSynchronizer_Run_EmptyQueue(t *testing.T) {
	s, _, _, _ := newTestSynchronizer(t)

	res := s.Run(context.Background())

	assert.Equal(t, models.SyncResult{Success: true}, res)
}

func TestSynchronizer_Run_FIFO(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t)
	enqueue(t, q, "/r1", "/r2", "/r3", "/r4", "/r5")

	var order []string
	transport.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.OutboundRequest) (models.Response, error) {
			order = append(order, req.Endpoint)
			return ok200(), nil
		}).Times(5)

	res := s.Run(context.Background())

	assert.Equal(t, []string{"/r1", "/r2", "/r3", "/r4", "/r5"}, order)
	assert.True(t, res.Success)
	assert.Equal(t, 5, res.SyncedCount)
	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSynchronizer_Run_MixedOutcomes(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t)
	reqs := enqueue(t, q, "/ok", "/flaky", "/missing")

	gomock.InOrder(
		transport.EXPECT().Send(gomock.Any(), endpointIs("/ok")).Return(ok200(), nil),
		transport.EXPECT().Send(gomock.Any(), endpointIs("/flaky")).Return(models.Response{StatusCode: 500}, httpError(500)),
		transport.EXPECT().Send(gomock.Any(), endpointIs("/missing")).Return(models.Response{StatusCode: 404}, httpError(404)),
	)

	res := s.Run(context.Background())

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.SyncedCount)
	assert.Equal(t, 1, res.FailedCount)
	require.Len(t, res.Errors, 2)

	assert.Equal(t, reqs[1].ID, res.Errors[0].RequestID)
	assert.Equal(t, models.ReasonWillRetry, res.Errors[0].Reason)
	assert.Equal(t, 500, res.Errors[0].StatusCode)

	assert.Equal(t, reqs[2].ID, res.Errors[1].RequestID)
	assert.Equal(t, models.ReasonPermanent, res.Errors[1].Reason)
	assert.Equal(t, 404, res.Errors[1].StatusCode)
	assert.Equal(t, "/missing", res.Errors[1].Endpoint)
	assert.Equal(t, http.MethodPost, res.Errors[1].Method)

	left, err := q.List(context.Background())
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, reqs[1].ID, left[0].ID)
	assert.Equal(t, 1, left[0].RetryCount)
}

func TestSynchronizer_Run_RetryIncrementsOncePerPass(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t, func(c *config.Engine) { c.MaxRetryAttempts = 10 })
	enqueue(t, q, "/down")

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).
		Return(models.Response{}, fmt.Errorf("%w: connection refused", adapter.ErrNetwork)).
		Times(4)

	for pass := 1; pass <= 4; pass++ {
		res := s.Run(context.Background())
		require.True(t, res.Success)

		left, err := q.List(context.Background())
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, pass, left[0].RetryCount, "pass %d", pass)
	}
}

func TestSynchronizer_Run_RetryCeiling(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t, func(c *config.Engine) { c.MaxRetryAttempts = 2 })
	enqueue(t, q, "/down")

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(models.Response{}, httpError(503)).Times(3)

	// two retries are allowed
	for range 2 {
		res := s.Run(context.Background())
		assert.Zero(t, res.FailedCount)
	}

	res := s.Run(context.Background())
	assert.Equal(t, 1, res.FailedCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.ReasonMaxRetries, res.Errors[0].Reason)

	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSynchronizer_Run_ExtraTransientCode(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t, func(c *config.Engine) { c.TransientStatusCodes = []int{409} })
	enqueue(t, q, "/conflict")

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(models.Response{}, httpError(409))

	res := s.Run(context.Background())

	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.ReasonWillRetry, res.Errors[0].Reason)
	assert.Zero(t, res.FailedCount)
}

func TestSynchronizer_Run_KeepsRequestsEnqueuedDuringPass(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t)
	enqueue(t, q, "/first")

	transport.EXPECT().Send(gomock.Any(), endpointIs("/first")).
		DoAndReturn(func(_ context.Context, _ models.OutboundRequest) (models.Response, error) {
			enqueue(t, q, "/late")
			return ok200(), nil
		})

	res := s.Run(context.Background())
	require.True(t, res.Success)

	left, err := q.List(context.Background())
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "/late", left[0].Endpoint)
	assert.Zero(t, left[0].RetryCount)
}

func TestSynchronizer_Run_WriteBackFailure(t *testing.T) {
	s, transport, q, kv := newTestSynchronizer(t)
	enqueue(t, q, "/a", "/b")

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.OutboundRequest) (models.Response, error) {
			kv.failWrites.Store(true)
			return ok200(), nil
		}).Times(2)

	res := s.Run(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, 2, res.SyncedCount)
	require.NotEmpty(t, res.Errors)
	last := res.Errors[len(res.Errors)-1]
	assert.Equal(t, models.ReasonStorage, last.Reason)
	assert.Contains(t, last.Error, errDiskFull.Error())

	kv.failWrites.Store(false)
	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n, "queue must be unchanged")
}

func TestSynchronizer_Run_CorruptedQueue(t *testing.T) {
	s, _, _, kv := newTestSynchronizer(t)
	require.NoError(t, kv.Set(context.Background(), config.DefaultQueueKey, "{not json"))

	res := s.Run(context.Background())

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.ReasonStorage, res.Errors[0].Reason)
}

func TestSynchronizer_Run_Pacing(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t, func(c *config.Engine) { c.RequestsPerSecond = 50 })
	enqueue(t, q, "/a", "/b", "/c")

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(ok200(), nil).Times(3)

	started := time.Now()
	res := s.Run(context.Background())

	assert.Equal(t, 3, res.SyncedCount)
	// burst of one, then 20ms per request
	assert.GreaterOrEqual(t, time.Since(started), 35*time.Millisecond)
}

func TestSynchronizer_Run_PacingCancelled(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t, func(c *config.Engine) { c.RequestsPerSecond = 0.001 })
	enqueue(t, q, "/a", "/b")

	transport.EXPECT().Send(gomock.Any(), endpointIs("/a")).Return(ok200(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := s.Run(ctx)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.SyncedCount)
	assert.Zero(t, res.FailedCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.ReasonInterrupted, res.Errors[0].Reason)

	rest, err := q.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "/b", rest[0].Endpoint)
	assert.Zero(t, rest[0].RetryCount, "a request held back by pacing was never sent")
}

func TestSynchronizer_Run_CancelledMidPassLeavesRestUntouched(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t, func(c *config.Engine) { c.MaxRetryAttempts = 3 })
	enqueue(t, q, "/a", "/b", "/c")
	require.NoError(t, q.Update(context.Background(), func(list []models.QueuedRequest) []models.QueuedRequest {
		list[1].RetryCount = 3
		return list
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport.EXPECT().Send(gomock.Any(), endpointIs("/a")).
		DoAndReturn(func(context.Context, models.OutboundRequest) (models.Response, error) {
			cancel()
			return ok200(), nil
		})

	res := s.Run(ctx)

	assert.Equal(t, 1, res.SyncedCount)
	assert.Zero(t, res.FailedCount, "nothing is dropped after cancellation")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.ReasonInterrupted, res.Errors[0].Reason)

	rest, err := q.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "/b", rest[0].Endpoint)
	assert.Equal(t, 3, rest[0].RetryCount)
	assert.Equal(t, "/c", rest[1].Endpoint)
	assert.Zero(t, rest[1].RetryCount)
}

func TestSynchronizer_Run_SendFailsBecauseOfCancellation(t *testing.T) {
	s, transport, q, _ := newTestSynchronizer(t, func(c *config.Engine) { c.MaxRetryAttempts = 1 })
	enqueue(t, q, "/a", "/b")
	require.NoError(t, q.Update(context.Background(), func(list []models.QueuedRequest) []models.QueuedRequest {
		list[1].RetryCount = 1
		return list
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport.EXPECT().Send(gomock.Any(), endpointIs("/a")).Return(ok200(), nil)
	transport.EXPECT().Send(gomock.Any(), endpointIs("/b")).
		DoAndReturn(func(ctx context.Context, _ models.OutboundRequest) (models.Response, error) {
			cancel()
			return models.Response{}, fmt.Errorf("%w: %w", adapter.ErrNetwork, ctx.Err())
		})

	res := s.Run(ctx)

	assert.Equal(t, 1, res.SyncedCount)
	assert.Zero(t, res.FailedCount)

	rest, err := q.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "/b", rest[0].Endpoint)
	assert.Equal(t, 1, rest[0].RetryCount, "an interrupted send is not a failed attempt")
}

func TestSynchronizer_Run_AlreadyCancelled(t *testing.T) {
	s, _, q, _ := newTestSynchronizer(t)
	enqueue(t, q, "/a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := s.Run(ctx)

	assert.Zero(t, res.SyncedCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.ReasonInterrupted, res.Errors[0].Reason)
	rest, err := q.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Zero(t, rest[0].RetryCount)
}

func TestSynchronizer_Run_RecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	cfg := config.DefaultEngine()
	queue := store.NewQueueStore(store.NewMemoryKeyValueStore(), cfg.QueueKey, testutil.NewManualClock(testStart), &testutil.SequenceIDs{}, logger.Nop())
	transport := mock.NewMockTransport(ctrl)
	s := NewSynchronizer(queue, transport, cfg, recorder, logger.Nop())

	enqueue(t, queue, "/a", "/b")
	transport.EXPECT().Send(gomock.Any(), endpointIs("/a")).Return(ok200(), nil)
	transport.EXPECT().Send(gomock.Any(), endpointIs("/b")).Return(models.Response{}, httpError(400))

	res := s.Run(context.Background())
	assert.Equal(t, 1, res.SyncedCount)
	assert.Equal(t, 1, res.FailedCount)
}
