package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-pos-terminal/internal/config"
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/logger"
)

// Stable keys of the persisted collections and session slots.
const (
	KeyUsers       = "pos_users"
	KeyProducts    = "pos_products"
	KeySales       = "pos_sales"
	KeyShifts      = "pos_shifts"
	KeySessionUser = "pos_currentUser"
	KeyLastSale    = "lastSale"
)

// Store is the persistence layer: four independent collections, each read and
// written whole, plus two single-value session slots.
type Store struct {
	mu      sync.Mutex
	backend Backend
	now     func() time.Time
	log     *logger.Logger
}

type Option func(*Store)

// WithClock overrides the time source used for shift end times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(backend Backend, logg *logger.Logger, opts ...Option) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Store{
		backend: backend,
		now:     time.Now,
		log:     logg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open builds the backend selected by cfg. The returned closer is never nil.
func Open(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger) (Backend, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryBackend(), noop, nil
	case config.DriverSQLite, config.DriverMySQL:
		db, err := Connect(ctx, cfg, logg)
		if err != nil {
			return nil, noop, err
		}
		backend := NewGormBackend(db)
		return backend, backend.Close, nil
	case config.DriverRedis:
		backend, err := NewRedisBackend(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, noop, err
		}
		return backend, backend.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func readCollection[T any](ctx context.Context, b Backend, key string) ([]T, bool, error) {
	raw, err := b.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeDependency, err, "read "+key)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeInternal, err, "malformed "+key)
	}
	return items, true, nil
}

func encodeCollection[T any](key string, items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "encode "+key)
	}
	return raw, nil
}

func writeCollection[T any](ctx context.Context, b Backend, key string, items []T) error {
	raw, err := encodeCollection(key, items)
	if err != nil {
		return err
	}
	if err := b.Put(ctx, key, raw); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "write "+key)
	}
	return nil
}

func readSlot[T any](ctx context.Context, b Backend, key string) (T, bool, error) {
	var value T
	raw, err := b.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, apperrors.Wrap(apperrors.CodeDependency, err, "read "+key)
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, apperrors.Wrap(apperrors.CodeInternal, err, "malformed "+key)
	}
	return value, true, nil
}

func writeSlot[T any](ctx context.Context, b Backend, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "encode "+key)
	}
	if err := b.Put(ctx, key, raw); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "write "+key)
	}
	return nil
}

func deleteSlot(ctx context.Context, b Backend, key string) error {
	if err := b.Delete(ctx, key); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "delete "+key)
	}
	return nil
}

// nextID returns max(numeric ids, 0)+1. An id counts by its leading integer,
// so "12a" is 12; ids with no leading digits are ignored.
func nextID(ids []string) string {
	highest := 0
	for _, id := range ids {
		if n, ok := leadingInt(id); ok && n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1)
}

func leadingInt(id string) (int, bool) {
	s := strings.TrimLeft(id, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
