package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/mock"
	"github.com/MKhiriev/go-offline-sync/internal/testutil"
	"github.com/MKhiriev/go-offline-sync/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*CacheStore, *failingKV, *testutil.ManualClock) {
	t.Helper()
	kv := &failingKV{KeyValueStore: NewMemoryKeyValueStore()}
	clock := testutil.NewManualClock(testStart)
	return NewCacheStore(kv, "offline_cache:", ttl, clock, logger.Nop()), kv, clock
}

type load struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestCacheStore_SetGet(t *testing.T) {
	c, kv, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "loads", []load{{ID: "1", Status: "assigned"}}, models.CacheOptions{}))

	data, ok, err := c.Get(ctx, "loads")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"1","status":"assigned"}]`, string(data))

	_, stored, err := kv.Get(ctx, "offline_cache:loads")
	require.NoError(t, err)
	assert.True(t, stored, "entry lives under the cache prefix")
}

func TestCacheStore_Get_Missing(t *testing.T) {
	c, _, _ := newTestCache(t, time.Hour)

	data, ok, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

// TestCacheStore_TTLBoundary checks the strict comparison: an entry is
// still fresh exactly at its expiration and gone one millisecond later.
func TestCacheStore_TTLBoundary(t *testing.T) {
	c, kv, clock := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", models.WithExpiration(time.Minute)))

	clock.Advance(time.Minute)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "fresh at exactly the expiration")

	clock.Advance(time.Millisecond)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired just after")

	_, stored, err := kv.Get(ctx, "offline_cache:k")
	require.NoError(t, err)
	assert.False(t, stored, "stale entry is evicted on read")
}

func TestCacheStore_DefaultTTL(t *testing.T) {
	c, _, clock := newTestCache(t, 24*time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", 1, models.CacheOptions{}))

	clock.Advance(23 * time.Hour)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(2 * time.Hour)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheStore_NonPositiveExpiration(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second} {
		c, _, _ := newTestCache(t, time.Hour)
		ctx := context.Background()

		require.NoError(t, c.Set(ctx, "k", "v", models.WithExpiration(ttl)))

		_, ok, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok, "ttl %v expires on the next read", ttl)
	}
}

func TestCacheStore_GetOrDefault(t *testing.T) {
	c, _, clock := newTestCache(t, time.Hour)
	ctx := context.Background()
	def := json.RawMessage(`[]`)

	got, err := c.GetOrDefault(ctx, "loads", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	require.NoError(t, c.Set(ctx, "loads", []int{1}, models.CacheOptions{}))
	got, err = c.GetOrDefault(ctx, "loads", def)
	require.NoError(t, err)
	assert.JSONEq(t, `[1]`, string(got))

	clock.Advance(2 * time.Hour)
	got, err = c.GetOrDefault(ctx, "loads", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)
}

func TestCacheStore_UndecodableEntryIsDropped(t *testing.T) {
	c, kv, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "offline_cache:k", "garbage"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, stored, _ := kv.Get(ctx, "offline_cache:k")
	assert.False(t, stored)
}

func TestCacheStore_Entry(t *testing.T) {
	c, _, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", models.CacheOptions{}))

	entry, ok, err := c.Entry(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "k", entry.Key)
	assert.True(t, entry.Timestamp.Equal(testStart))
	assert.Equal(t, time.Hour, entry.Expiration)
}

func TestCacheStore_Remove(t *testing.T) {
	c, _, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", models.CacheOptions{}))

	require.NoError(t, c.Remove(ctx, "k"))
	require.NoError(t, c.Remove(ctx, "k"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheStore_ClearAll_LeavesOtherKeys(t *testing.T) {
	c, kv, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", 1, models.CacheOptions{}))
	require.NoError(t, c.Set(ctx, "b", 2, models.CacheOptions{}))
	require.NoError(t, kv.Set(ctx, "offline_queue", "[]"))

	n, err := c.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	keys, err := kv.ListKeys(ctx, "offline_cache:")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, ok, _ := kv.Get(ctx, "offline_queue")
	assert.True(t, ok)
}

func TestCacheStore_Set_StorageFailure(t *testing.T) {
	c, kv, _ := newTestCache(t, time.Hour)
	kv.setFailWrites(true)

	err := c.Set(context.Background(), "k", "v", models.CacheOptions{})
	assert.ErrorIs(t, err, ErrStorage)
}

func TestCacheStore_Set_UnencodableData(t *testing.T) {
	c, _, _ := newTestCache(t, time.Hour)

	err := c.Set(context.Background(), "k", make(chan int), models.CacheOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStorage)
}

// ── backend failures ─────────────────────────────────────────────────────────

var errBackendDown = errors.New("backend down")

func newMockedCache(t *testing.T) (*CacheStore, *mock.MockKeyValueStore) {
	t.Helper()
	kv := mock.NewMockKeyValueStore(gomock.NewController(t))
	return NewCacheStore(kv, "offline_cache:", time.Hour, testutil.NewManualClock(testStart), logger.Nop()), kv
}

func TestCacheStore_Get_StorageFailure(t *testing.T) {
	c, kv := newMockedCache(t)
	kv.EXPECT().Get(gomock.Any(), "offline_cache:loads").Return("", false, errBackendDown)

	data, ok, err := c.Get(context.Background(), "loads")

	require.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, errBackendDown)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "get", se.Op)
	assert.Equal(t, "offline_cache:loads", se.Key)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestCacheStore_GetOrDefault_StorageFailure(t *testing.T) {
	c, kv := newMockedCache(t)
	kv.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, errBackendDown)

	data, err := c.GetOrDefault(context.Background(), "loads", json.RawMessage(`[]`))

	require.ErrorIs(t, err, ErrStorage)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCacheStore_ClearAll_ListFailure(t *testing.T) {
	c, kv := newMockedCache(t)
	kv.EXPECT().ListKeys(gomock.Any(), "offline_cache:").Return(nil, errBackendDown)

	n, err := c.ClearAll(context.Background())

	require.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, errBackendDown)
	assert.Zero(t, n)
}

func TestCacheStore_ClearAll_PartialRemoveFailure(t *testing.T) {
	c, kv := newMockedCache(t)
	keys := []string{"offline_cache:a", "offline_cache:b", "offline_cache:c"}

	gomock.InOrder(
		kv.EXPECT().ListKeys(gomock.Any(), "offline_cache:").Return(keys, nil),
		kv.EXPECT().Remove(gomock.Any(), "offline_cache:a").Return(nil),
		kv.EXPECT().Remove(gomock.Any(), "offline_cache:b").Return(errBackendDown),
	)

	n, err := c.ClearAll(context.Background())

	require.ErrorIs(t, err, ErrStorage)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "offline_cache:b", se.Key)
	assert.Equal(t, 1, n, "keys removed before the failure are counted")
}
