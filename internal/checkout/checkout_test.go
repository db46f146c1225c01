package checkout

import (
	"context"
	"testing"
	"time"

	"go-pos-terminal/internal/auth"
	"go-pos-terminal/internal/cart"
	"go-pos-terminal/internal/database"
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/shift"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sales    map[string]int
	rejected map[string]int
}

func newRecorder() *recorder {
	return &recorder{sales: map[string]int{}, rejected: map[string]int{}}
}

func (r *recorder) SaleRecorded(method string, _ decimal.Decimal) { r.sales[method]++ }
func (r *recorder) CheckoutRejected(reason string)                { r.rejected[reason]++ }

type harness struct {
	store    *database.Store
	gate     *auth.Gate
	ledger   *shift.Ledger
	cart     *cart.Cart
	service  *Service
	recorder *recorder
}

var saleTime = time.Date(2026, 6, 2, 14, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{recorder: newRecorder()}
	h.store = database.NewStore(database.NewMemoryBackend(), nil)
	h.gate = auth.NewGate(h.store, nil)
	h.ledger = shift.NewLedger(h.store, h.gate, nil, nil)
	h.cart = cart.New(decimal.Zero)
	h.service = NewService(h.cart, h.store, h.gate, h.ledger, h.recorder, nil,
		WithClock(func() time.Time { return saleTime }))
	return h
}

func (h *harness) ready(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := h.gate.Login(ctx, "cashier", "cashier123")
	require.NoError(t, err)
	_, err = h.ledger.Open(ctx, decimal.NewFromInt(100000))
	require.NoError(t, err)
}

func (h *harness) addEspresso(t *testing.T) models.Product {
	t.Helper()
	p, err := h.store.AddProduct(context.Background(), models.ProductInput{
		Name:     "Espresso",
		Category: "Coffee",
		Price:    decimal.NewFromInt(25000),
		Stock:    50,
		MinStock: 5,
	})
	require.NoError(t, err)
	return p
}

func cash(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestEspressoCashSaleEndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.ready(t)
	espresso := h.addEspresso(t)

	require.NoError(t, h.cart.Add(espresso, 2))
	sale, err := h.service.Complete(ctx, Request{PaymentMethod: models.PaymentCash, CashTendered: cash(50000)})
	require.NoError(t, err)

	assert.True(t, sale.Total.Equal(decimal.NewFromInt(50000)))
	require.NotNil(t, sale.Change)
	assert.True(t, sale.Change.IsZero())
	assert.Equal(t, "2", sale.CashierID)
	assert.Equal(t, saleTime, sale.Timestamp)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Espresso", sale.Items[0].Name)
	assert.True(t, h.cart.IsEmpty())
	assert.Equal(t, 1, h.recorder.sales["cash"])

	stocked, _, err := h.store.GetProduct(ctx, espresso.ID)
	require.NoError(t, err)
	assert.Equal(t, 48, stocked.Stock)

	last, ok, err := h.store.TakeLastSale(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sale.ID, last.ID)

	closed, ok, err := h.ledger.Close(ctx, decimal.NewFromInt(150000))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, closed.Sales, sale.ID)

	summary := shift.Reconcile(closed, []models.Sale{sale})
	require.NotNil(t, summary.Variance)
	assert.True(t, summary.Variance.IsZero())
}

func TestCardSaleHasNoChange(t *testing.T) {
	h := newHarness(t)
	h.ready(t)
	require.NoError(t, h.cart.Add(h.addEspresso(t), 1))

	sale, err := h.service.Complete(context.Background(), Request{
		PaymentMethod: models.PaymentCard,
		CashTendered:  cash(99999),
		CustomerName:  "Dana",
	})
	require.NoError(t, err)
	assert.Nil(t, sale.CashTendered)
	assert.Nil(t, sale.Change)
	assert.Equal(t, "Dana", sale.CustomerName)
}

func TestCashChange(t *testing.T) {
	h := newHarness(t)
	h.ready(t)
	require.NoError(t, h.cart.Add(h.addEspresso(t), 1))

	sale, err := h.service.Complete(context.Background(), Request{PaymentMethod: models.PaymentCash, CashTendered: cash(30000)})
	require.NoError(t, err)
	require.NotNil(t, sale.Change)
	assert.True(t, sale.Change.Equal(decimal.NewFromInt(5000)))
}

func TestRejectionsLeaveEverythingUntouched(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		h := newHarness(t)
		h.ready(t)
		_, err := h.service.Complete(ctx, Request{PaymentMethod: models.PaymentCard})
		require.ErrorIs(t, err, ErrEmptyCart)
		assert.Equal(t, 1, h.recorder.rejected["empty_cart"])
	})

	t.Run("not logged in", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.cart.Add(h.addEspresso(t), 1))
		_, err := h.service.Complete(ctx, Request{PaymentMethod: models.PaymentCard})
		require.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
		assert.False(t, h.cart.IsEmpty())
	})

	t.Run("no shift", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.gate.Login(ctx, "admin", "admin123")
		require.NoError(t, err)
		require.NoError(t, h.cart.Add(h.addEspresso(t), 1))
		_, err = h.service.Complete(ctx, Request{PaymentMethod: models.PaymentCard})
		require.ErrorIs(t, err, ErrNoActiveShift)
	})

	t.Run("bad payment method", func(t *testing.T) {
		h := newHarness(t)
		h.ready(t)
		require.NoError(t, h.cart.Add(h.addEspresso(t), 1))
		_, err := h.service.Complete(ctx, Request{PaymentMethod: "bitcoin"})
		require.ErrorIs(t, err, ErrInvalidPaymentMethod)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	})

	t.Run("short cash", func(t *testing.T) {
		h := newHarness(t)
		h.ready(t)
		espresso := h.addEspresso(t)
		require.NoError(t, h.cart.Add(espresso, 2))

		_, err := h.service.Complete(ctx, Request{PaymentMethod: models.PaymentCash, CashTendered: cash(49999)})
		require.ErrorIs(t, err, ErrInsufficientCash)
		_, err = h.service.Complete(ctx, Request{PaymentMethod: models.PaymentCash})
		require.ErrorIs(t, err, ErrInsufficientCash)

		assert.Len(t, h.cart.Items(), 1)
		sales, err := h.store.ListSales(ctx)
		require.NoError(t, err)
		assert.Empty(t, sales)
		stocked, _, err := h.store.GetProduct(ctx, espresso.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, stocked.Stock)
	})
}
