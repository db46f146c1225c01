package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentOther PaymentMethod = "other"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentOther:
		return true
	}
	return false
}

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// User - a person allowed to operate the till
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	// Password is stored as entered, or as a bcrypt hash for users created via registration.
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// Public strips the credential before the record leaves the process.
func (u User) Public() User {
	u.Password = ""
	return u
}

// NewUser is the registration payload.
type NewUser struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     Role   `json:"role" binding:"required,oneof=admin manager cashier"`
}

// Product - the inventory
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Barcode   string          `json:"barcode"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"min_stock"`
	Unit      string          `json:"unit"`
	ImageURL  string          `json:"image_url"`
}

// LowStock reports whether the product is at or under its reorder threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// ProductInput is a Product without an id, as submitted by the product form.
type ProductInput struct {
	Name      string          `json:"name" binding:"required"`
	Barcode   string          `json:"barcode"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"min_stock"`
	Unit      string          `json:"unit"`
	ImageURL  string          `json:"image_url"`
}

func (in ProductInput) WithID(id string) Product {
	return Product{
		ID:        id,
		Name:      in.Name,
		Barcode:   in.Barcode,
		Category:  in.Category,
		Price:     in.Price,
		CostPrice: in.CostPrice,
		Stock:     in.Stock,
		MinStock:  in.MinStock,
		Unit:      in.Unit,
		ImageURL:  in.ImageURL,
	}
}

// CartItem lives only in memory.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (c CartItem) LineTotal() decimal.Decimal {
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// SaleItem - snapshot of a product line at the time of sale
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Name      string          `json:"name"`
}

// Sale - the transaction record, written once at checkout
type Sale struct {
	ID            string           `json:"id"`
	Timestamp     time.Time        `json:"timestamp"`
	Items         []SaleItem       `json:"items"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	Discount      decimal.Decimal  `json:"discount"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod PaymentMethod    `json:"payment_method"`
	CashierID     string           `json:"cashier_id"`
	ShiftID       string           `json:"shift_id"`
	CustomerName  string           `json:"customer_name,omitempty"`
	CashTendered  *decimal.Decimal `json:"cash_tendered,omitempty"`
	Change        *decimal.Decimal `json:"change,omitempty"`
}

// SaleInput is a Sale before the store assigns its id.
type SaleInput struct {
	Timestamp     time.Time
	Items         []SaleItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CashierID     string
	ShiftID       string
	CustomerName  string
	CashTendered  *decimal.Decimal
	Change        *decimal.Decimal
}

func (in SaleInput) WithID(id string) Sale {
	items := make([]SaleItem, len(in.Items))
	copy(items, in.Items)
	return Sale{
		ID:            id,
		Timestamp:     in.Timestamp,
		Items:         items,
		Subtotal:      in.Subtotal,
		Tax:           in.Tax,
		Discount:      in.Discount,
		Total:         in.Total,
		PaymentMethod: in.PaymentMethod,
		CashierID:     in.CashierID,
		ShiftID:       in.ShiftID,
		CustomerName:  in.CustomerName,
		CashTendered:  in.CashTendered,
		Change:        in.Change,
	}
}

// Shift - one cash drawer session
type Shift struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        *time.Time       `json:"end_time"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance"`
	Sales          []string         `json:"sales"`
	Status         ShiftStatus      `json:"status"`
}

func (s Shift) IsOpen() bool {
	return s.EndTime == nil
}
