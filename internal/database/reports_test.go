package database

import (
	"context"
	"testing"
	"time"

	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardTruncatesLowStockList(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3", "4", "5"} {
		_, err := store.AdjustStock(ctx, id, -200)
		require.NoError(t, err)
	}
	_, err := store.AddProduct(ctx, models.ProductInput{Name: "Salt", Stock: 0, MinStock: 1})
	require.NoError(t, err)
	_, err = store.RecordSale(ctx, models.SaleInput{Timestamp: fixedNow, Total: dec(t, "10.50"), PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	_, err = store.RecordSale(ctx, models.SaleInput{Timestamp: fixedNow, Total: dec(t, "4.50"), PaymentMethod: models.PaymentCard})
	require.NoError(t, err)

	summary, err := store.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TotalSales.Equal(dec(t, "15")))
	assert.Equal(t, 2, summary.SalesCount)
	assert.Equal(t, 6, summary.LowStockCount)
	assert.Len(t, summary.LowStockItems, 5)
	assert.Equal(t, 1, summary.MoreLowStock)
	assert.False(t, summary.ShiftOpen)
}

func TestSalesReportIsInclusive(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.RecordSale(ctx, models.SaleInput{
			Timestamp:     fixedNow.Add(time.Duration(i) * 24 * time.Hour),
			Total:         decimal.NewFromInt(100),
			PaymentMethod: models.PaymentCash,
		})
		require.NoError(t, err)
	}

	report, err := store.SalesReport(ctx, fixedNow, fixedNow.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalOrders)
	assert.True(t, report.TotalRevenue.Equal(decimal.NewFromInt(200)))
}

func TestStockValuationGroupsByCategory(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddProduct(ctx, models.ProductInput{Name: "Loose", Stock: 2, CostPrice: dec(t, "1.25")})
	require.NoError(t, err)

	valuation, err := store.StockValuation(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(valuation.Categories))
	for _, group := range valuation.Categories {
		names = append(names, group.CategoryName)
	}
	assert.Equal(t, []string{"Bakery", "Dairy", "Fruits", "Uncategorized"}, names)

	// Bakery: 30 x 0.99
	assert.True(t, valuation.Categories[0].Subtotal.Equal(dec(t, "29.7")))
	// 50*1.99 + 30*0.99 + 40*2.49 + 25*3.49 + 100*0.49 + 2*1.25
	assert.True(t, valuation.GrandTotal.Equal(dec(t, "367.55")), valuation.GrandTotal.String())
}

func TestTopSellingRanksByQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	record := func(items ...models.SaleItem) {
		_, err := store.RecordSale(ctx, models.SaleInput{Timestamp: fixedNow, Items: items, PaymentMethod: models.PaymentCash})
		require.NoError(t, err)
	}
	record(
		models.SaleItem{ProductID: "1", Name: "Milk", Quantity: 2, Total: dec(t, "5.98")},
		models.SaleItem{ProductID: "5", Name: "Apple", Quantity: 10, Total: dec(t, "9.90")},
	)
	record(models.SaleItem{ProductID: "1", Name: "Milk", Quantity: 1, Total: dec(t, "2.99")})
	record(models.SaleItem{ProductID: "2", Name: "Bread", Quantity: 1, Total: dec(t, "1.99")})

	top, err := store.TopSelling(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Apple", top[0].ProductName)
	assert.Equal(t, "Milk", top[1].ProductName)
	assert.Equal(t, 3, top[1].Sold)
	assert.True(t, top[1].Revenue.Equal(dec(t, "8.97")))
}
