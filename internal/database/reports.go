package database

import (
	"context"
	"sort"
	"time"

	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
)

const (
	uncategorized     = "Uncategorized"
	dashboardLowStock = 5
)

// ValuationItem is one product row of the stock valuation.
type ValuationItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// CategoryGroup collects the valuation rows of one category.
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type SalesReportResult struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int             `json:"total_orders"`
	Sales        []models.Sale   `json:"sales"`
}

type TopSellingItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Sold        int             `json:"sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DashboardSummary backs the landing screen.
type DashboardSummary struct {
	TotalSales    decimal.Decimal  `json:"total_sales"`
	SalesCount    int              `json:"sales_count"`
	LowStockCount int              `json:"low_stock_count"`
	LowStockItems []models.Product `json:"low_stock_items"`
	MoreLowStock  int              `json:"more_low_stock"`
	ShiftOpen     bool             `json:"shift_open"`
}

func (s *Store) Dashboard(ctx context.Context) (DashboardSummary, error) {
	sales, err := s.ListSales(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	low, err := s.LowStockProducts(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	_, open, err := s.GetOpenShift(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		TotalSales:    decimal.Zero,
		SalesCount:    len(sales),
		LowStockCount: len(low),
		LowStockItems: low,
		ShiftOpen:     open,
	}
	for _, sale := range sales {
		summary.TotalSales = summary.TotalSales.Add(sale.Total)
	}
	if len(low) > dashboardLowStock {
		summary.LowStockItems = low[:dashboardLowStock]
		summary.MoreLowStock = len(low) - dashboardLowStock
	}
	return summary, nil
}

// SalesReport totals the sales whose timestamp falls in [start, end].
func (s *Store) SalesReport(ctx context.Context, start, end time.Time) (SalesReportResult, error) {
	sales, err := s.ListSales(ctx)
	if err != nil {
		return SalesReportResult{}, err
	}
	result := SalesReportResult{
		Start:        start,
		End:          end,
		TotalRevenue: decimal.Zero,
		Sales:        []models.Sale{},
	}
	for _, sale := range sales {
		if sale.Timestamp.Before(start) || sale.Timestamp.After(end) {
			continue
		}
		result.Sales = append(result.Sales, sale)
		result.TotalRevenue = result.TotalRevenue.Add(sale.Total)
	}
	result.TotalOrders = len(result.Sales)
	return result, nil
}

// StockValuation values on-hand stock at cost, grouped by category.
func (s *Store) StockValuation(ctx context.Context) (ValuationResponse, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return ValuationResponse{}, err
	}

	grouped := make(map[string]*CategoryGroup)
	response := ValuationResponse{GrandTotal: decimal.Zero, Categories: []CategoryGroup{}}
	for _, p := range products {
		name := p.Category
		if name == "" {
			name = uncategorized
		}
		group, ok := grouped[name]
		if !ok {
			group = &CategoryGroup{CategoryName: name, Items: []ValuationItem{}, Subtotal: decimal.Zero}
			grouped[name] = group
		}

		total := p.CostPrice.Mul(decimal.NewFromInt(int64(p.Stock)))
		group.Items = append(group.Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Stock,
			CostPrice: p.CostPrice,
			TotalCost: total,
		})
		group.Subtotal = group.Subtotal.Add(total)
		response.GrandTotal = response.GrandTotal.Add(total)
	}

	for _, group := range grouped {
		response.Categories = append(response.Categories, *group)
	}
	sort.Slice(response.Categories, func(i, j int) bool {
		return response.Categories[i].CategoryName < response.Categories[j].CategoryName
	})
	return response, nil
}

// TopSelling ranks products by units sold. Ties are broken by revenue, then name.
func (s *Store) TopSelling(ctx context.Context, limit int) ([]TopSellingItem, error) {
	sales, err := s.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*TopSellingItem)
	for _, sale := range sales {
		for _, item := range sale.Items {
			row, ok := byProduct[item.ProductID]
			if !ok {
				row = &TopSellingItem{ProductID: item.ProductID, ProductName: item.Name, Revenue: decimal.Zero}
				byProduct[item.ProductID] = row
			}
			row.Sold += item.Quantity
			row.Revenue = row.Revenue.Add(item.Total)
		}
	}

	rows := make([]TopSellingItem, 0, len(byProduct))
	for _, row := range byProduct {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sold != rows[j].Sold {
			return rows[i].Sold > rows[j].Sold
		}
		if c := rows[i].Revenue.Cmp(rows[j].Revenue); c != 0 {
			return c > 0
		}
		return rows[i].ProductName < rows[j].ProductName
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
