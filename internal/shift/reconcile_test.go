package shift

import (
	"testing"
	"time"

	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileOpenShift(t *testing.T) {
	shift := models.Shift{ID: "1", OpeningBalance: decimal.NewFromInt(100000), Status: models.ShiftOpen}
	sales := []models.Sale{
		{ID: "1", ShiftID: "1", Total: decimal.NewFromInt(50000), PaymentMethod: models.PaymentCash},
		{ID: "2", ShiftID: "1", Total: decimal.NewFromInt(30000), PaymentMethod: models.PaymentCard},
		{ID: "3", ShiftID: "9", Total: decimal.NewFromInt(999), PaymentMethod: models.PaymentCash},
	}

	r := Reconcile(shift, sales)
	assert.Equal(t, 2, r.SalesCount)
	assert.True(t, r.SalesTotal.Equal(decimal.NewFromInt(80000)))
	assert.True(t, r.CashSalesTotal.Equal(decimal.NewFromInt(50000)))
	assert.True(t, r.ExpectedClosing.Equal(decimal.NewFromInt(150000)))
	assert.Nil(t, r.Variance)
}

func TestReconcileClosedShiftVariance(t *testing.T) {
	end := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	counted := decimal.NewFromInt(149000)
	shift := models.Shift{
		ID:             "1",
		OpeningBalance: decimal.NewFromInt(100000),
		EndTime:        &end,
		ClosingBalance: &counted,
		Status:         models.ShiftClosed,
	}
	sales := []models.Sale{{ID: "1", ShiftID: "1", Total: decimal.NewFromInt(50000), PaymentMethod: models.PaymentCash}}

	r := Reconcile(shift, sales)
	require.NotNil(t, r.Variance)
	assert.True(t, r.Variance.Equal(decimal.NewFromInt(-1000)))

	exact := decimal.NewFromInt(150000)
	shift.ClosingBalance = &exact
	r = Reconcile(shift, sales)
	require.NotNil(t, r.Variance)
	assert.True(t, r.Variance.IsZero())
}
