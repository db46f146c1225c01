package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go-pos-terminal/internal/config"
	"go-pos-terminal/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendContract runs the behaviour every Backend must share.
func backendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, b.Put(ctx, "a", []byte("one")))
	got, err := b.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	require.NoError(t, b.Put(ctx, "a", []byte("two")))
	got, err = b.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	require.NoError(t, b.PutMany(ctx, map[string][]byte{"b": []byte("B"), "c": []byte("C")}))
	got, err = b.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []byte("C"), got)

	require.NoError(t, b.Delete(ctx, "a"))
	_, err = b.Get(ctx, "a")
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.NoError(t, b.Delete(ctx, "a"), "deleting a missing key is not an error")
}

func TestMemoryBackend(t *testing.T) {
	backendContract(t, NewMemoryBackend())
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	value := []byte("abc")
	require.NoError(t, b.Put(ctx, "k", value))
	value[0] = 'z'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func newSQLiteBackend(t *testing.T) *GormBackend {
	t.Helper()
	cfg := config.StoreConfig{
		Driver:          config.DriverSQLite,
		DSN:             filepath.Join(t.TempDir(), "pos.db"),
		ConnectAttempts: 1,
	}
	db, err := Connect(context.Background(), cfg, nil)
	require.NoError(t, err)
	backend := NewGormBackend(db)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestGormBackendSQLite(t *testing.T) {
	backendContract(t, newSQLiteBackend(t))
}

func TestStoreOverSQLite(t *testing.T) {
	store := NewStore(newSQLiteBackend(t), nil)
	ctx := context.Background()

	shift, err := store.OpenShift(ctx, "1", dec(t, "100"))
	require.NoError(t, err)
	_, err = store.RecordSale(ctx, models.SaleInput{
		Timestamp:     time.Now(),
		Items:         []models.SaleItem{{ProductID: "3", Quantity: 4, UnitPrice: dec(t, "3.49"), Total: dec(t, "13.96"), Name: "Eggs"}},
		Total:         dec(t, "13.96"),
		PaymentMethod: models.PaymentCash,
		ShiftID:       shift.ID,
	})
	require.NoError(t, err)

	eggs, ok, err := store.GetProduct(ctx, "3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 36, eggs.Stock)

	closed, ok, err := store.CloseShift(ctx, shift.ID, dec(t, "113.96"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"1"}, closed.Sales)
}

type fakeRedis struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(value), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = toBytes(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) MSet(_ context.Context, values ...any) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i+1 < len(values); i += 2 {
		f.data[values[i].(string)] = toBytes(values[i+1])
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func toBytes(value any) []byte {
	switch v := value.(type) {
	case []byte:
		return append([]byte(nil), v...)
	case string:
		return []byte(v)
	}
	return nil
}

func TestRedisBackendWithFake(t *testing.T) {
	backendContract(t, &RedisBackend{store: newFakeRedis(), prefix: "pos"})
}

func TestRedisBackendPrefixesKeys(t *testing.T) {
	fake := newFakeRedis()
	backend := &RedisBackend{store: fake, prefix: "till7:"}
	require.NoError(t, backend.Put(context.Background(), KeyShifts, []byte("[]")))

	_, ok := fake.data["till7:pos_shifts"]
	assert.True(t, ok)
	assert.NoError(t, backend.Close())
}
