package shift

import (
	"context"
	"testing"
	"time"

	"go-pos-terminal/internal/database"
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticUser struct {
	user *models.User
}

func (s *staticUser) Current() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

type countingRecorder struct {
	opened, closed int
}

func (c *countingRecorder) ShiftOpened() { c.opened++ }
func (c *countingRecorder) ShiftClosed() { c.closed++ }

type fixture struct {
	backend  *database.MemoryBackend
	store    *database.Store
	ledger   *Ledger
	users    *staticUser
	recorder *countingRecorder
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    &staticUser{user: &models.User{ID: "2", Username: "cashier", Role: models.RoleCashier}},
		recorder: &countingRecorder{},
		now:      time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		backend:  database.NewMemoryBackend(),
	}
	f.store = database.NewStore(f.backend, nil, database.WithClock(func() time.Time {
		f.now = f.now.Add(time.Minute)
		return f.now
	}))
	f.ledger = NewLedger(f.store, f.users, f.recorder, nil)
	return f
}

func TestOpenRequiresUser(t *testing.T) {
	f := newFixture(t)
	f.users.user = nil

	_, err := f.ledger.Open(context.Background(), decimal.NewFromInt(100))
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))

	_, ok := f.ledger.Current()
	assert.False(t, ok)
}

func TestOpenTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	opened, err := f.ledger.Open(ctx, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "2", opened.UserID)
	assert.Equal(t, 1, f.recorder.opened)

	_, err = f.ledger.Open(ctx, decimal.NewFromInt(5))
	require.ErrorIs(t, err, ErrShiftAlreadyOpen)
	assert.Equal(t, apperrors.CodeStateConflict, apperrors.CodeOf(err))

	shifts, err := f.store.ListShifts(ctx)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)
}

func TestCloseWithoutShift(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.ledger.Close(context.Background(), decimal.Zero)
	require.ErrorIs(t, err, ErrNoShiftOpen)
}

func TestCloseCollectsSalesAndClearsCurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	opened, err := f.ledger.Open(ctx, decimal.NewFromInt(100000))
	require.NoError(t, err)
	_, err = f.store.RecordSale(ctx, models.SaleInput{
		Timestamp:     f.now,
		ShiftID:       opened.ID,
		Total:         decimal.NewFromInt(50000),
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	summary, err := f.ledger.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SalesCount)
	assert.True(t, summary.ExpectedClosing.Equal(decimal.NewFromInt(150000)))
	assert.Nil(t, summary.Variance)

	closed, ok, err := f.ledger.Close(ctx, decimal.NewFromInt(150000))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"1"}, closed.Sales)
	assert.Equal(t, 1, f.recorder.closed)

	_, current := f.ledger.Current()
	assert.False(t, current)

	_, err = f.ledger.Summary(ctx)
	require.ErrorIs(t, err, ErrNoShiftOpen)
}

func TestCloseKeepsCurrentWhenStoreLostShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	opened, err := f.ledger.Open(ctx, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, f.backend.Put(ctx, database.KeyShifts, []byte("[]")))

	_, ok, err := f.ledger.Close(ctx, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, f.recorder.closed)

	current, open := f.ledger.Current()
	require.True(t, open)
	assert.Equal(t, opened.ID, current.ID)
}

func TestRefreshAdoptsOpenShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stored, err := f.store.OpenShift(ctx, "1", decimal.NewFromInt(20))
	require.NoError(t, err)

	require.NoError(t, f.ledger.Refresh(ctx))
	current, ok := f.ledger.Current()
	require.True(t, ok)
	assert.Equal(t, stored.ID, current.ID)

	_, _, err = f.store.CloseShift(ctx, stored.ID, decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, f.ledger.Refresh(ctx))
	_, ok = f.ledger.Current()
	assert.False(t, ok)
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.ledger.Open(ctx, decimal.Zero)
		require.NoError(t, err)
		_, _, err = f.ledger.Close(ctx, decimal.Zero)
		require.NoError(t, err)
	}

	history, err := f.ledger.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "3", history[0].ID)
	assert.Equal(t, "1", history[2].ID)
}
