package shift

import (
	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
)

// Reconciliation compares what the drawer should hold with what was counted.
type Reconciliation struct {
	Shift           models.Shift     `json:"shift"`
	Sales           []models.Sale    `json:"sales"`
	SalesCount      int              `json:"sales_count"`
	SalesTotal      decimal.Decimal  `json:"sales_total"`
	CashSalesTotal  decimal.Decimal  `json:"cash_sales_total"`
	ExpectedClosing decimal.Decimal  `json:"expected_closing"`
	Variance        *decimal.Decimal `json:"variance,omitempty"`
}

// Reconcile totals the sales belonging to shift. Variance is set only once
// the shift has a closing balance.
func Reconcile(shift models.Shift, sales []models.Sale) Reconciliation {
	r := Reconciliation{
		Shift:          shift,
		Sales:          make([]models.Sale, 0, len(sales)),
		SalesTotal:     decimal.Zero,
		CashSalesTotal: decimal.Zero,
	}
	for _, sale := range sales {
		if sale.ShiftID != shift.ID {
			continue
		}
		r.Sales = append(r.Sales, sale)
		r.SalesTotal = r.SalesTotal.Add(sale.Total)
		if sale.PaymentMethod == models.PaymentCash {
			r.CashSalesTotal = r.CashSalesTotal.Add(sale.Total)
		}
	}
	r.SalesCount = len(r.Sales)
	r.ExpectedClosing = shift.OpeningBalance.Add(r.CashSalesTotal)
	if !shift.IsOpen() && shift.ClosingBalance != nil {
		variance := shift.ClosingBalance.Sub(r.ExpectedClosing)
		r.Variance = &variance
	}
	return r
}
