// Package checkout turns the cart into a recorded sale.
package checkout

import (
	"context"
	"errors"
	"time"

	"go-pos-terminal/internal/cart"
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/logger"
	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNotAuthenticated     = errors.New("not logged in")
	ErrNoActiveShift        = errors.New("no active shift")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInsufficientCash     = errors.New("insufficient cash tendered")
)

// Store persists the finished sale.
type Store interface {
	RecordSale(ctx context.Context, in models.SaleInput) (models.Sale, error)
	SaveLastSale(ctx context.Context, sale models.Sale) error
}

type CurrentUser interface {
	Current() (models.User, bool)
}

type CurrentShift interface {
	Current() (models.Shift, bool)
}

type Recorder interface {
	SaleRecorded(paymentMethod string, total decimal.Decimal)
	CheckoutRejected(reason string)
}

// Request is what the payment screen submits.
type Request struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	CashTendered  *decimal.Decimal     `json:"cash_tendered"`
	CustomerName  string               `json:"customer_name"`
}

type Service struct {
	cart    *cart.Cart
	store   Store
	users   CurrentUser
	shifts  CurrentShift
	metrics Recorder
	log     *logger.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(c *cart.Cart, store Store, users CurrentUser, shifts CurrentShift, metrics Recorder, logg *logger.Logger, opts ...Option) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Service{
		cart:    c,
		store:   store,
		users:   users,
		shifts:  shifts,
		metrics: metrics,
		log:     logg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) reject(ctx context.Context, reason string, err error) error {
	if s.metrics != nil {
		s.metrics.CheckoutRejected(reason)
	}
	s.log.Warn(s.log.WithField(ctx, "reason", reason), "checkout.rejected")
	return err
}

// Complete validates the payment, records the sale, hands it to the receipt
// slot and clears the cart. Nothing is written when validation fails.
func (s *Service) Complete(ctx context.Context, req Request) (models.Sale, error) {
	if s.cart.IsEmpty() {
		return models.Sale{}, s.reject(ctx, "empty_cart",
			apperrors.Wrap(apperrors.CodeValidation, ErrEmptyCart, "cart is empty"))
	}
	user, ok := s.users.Current()
	if !ok {
		return models.Sale{}, s.reject(ctx, "not_authenticated",
			apperrors.Wrap(apperrors.CodeUnauthorized, ErrNotAuthenticated, "log in to complete a sale"))
	}
	shift, ok := s.shifts.Current()
	if !ok {
		return models.Sale{}, s.reject(ctx, "no_active_shift",
			apperrors.Wrap(apperrors.CodeValidation, ErrNoActiveShift, "open a shift before selling"))
	}
	if !req.PaymentMethod.Valid() {
		return models.Sale{}, s.reject(ctx, "invalid_payment_method",
			apperrors.Wrap(apperrors.CodeValidation, ErrInvalidPaymentMethod, "payment method must be cash, card or other").
				WithDetails(map[string]any{"payment_method": req.PaymentMethod}))
	}

	totals := s.cart.Totals()
	var tendered, change *decimal.Decimal
	if req.PaymentMethod == models.PaymentCash {
		if req.CashTendered == nil || req.CashTendered.LessThan(totals.Total) {
			return models.Sale{}, s.reject(ctx, "insufficient_cash",
				apperrors.Wrap(apperrors.CodeValidation, ErrInsufficientCash, "cash tendered is less than the total").
					WithDetails(map[string]any{"total": totals.Total}))
		}
		t := *req.CashTendered
		c := t.Sub(totals.Total)
		tendered, change = &t, &c
	}

	lines := s.cart.Items()
	items := make([]models.SaleItem, len(lines))
	for i, line := range lines {
		items[i] = models.SaleItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			Total:     line.LineTotal(),
			Name:      line.Product.Name,
		}
	}

	sale, err := s.store.RecordSale(ctx, models.SaleInput{
		Timestamp:     s.now(),
		Items:         items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		PaymentMethod: req.PaymentMethod,
		CashierID:     user.ID,
		ShiftID:       shift.ID,
		CustomerName:  req.CustomerName,
		CashTendered:  tendered,
		Change:        change,
	})
	if err != nil {
		return models.Sale{}, err
	}

	ctx = s.log.WithFields(ctx, map[string]any{
		"sale_id":        sale.ID,
		"shift_id":       sale.ShiftID,
		"user_id":        user.ID,
		"payment_method": string(sale.PaymentMethod),
		"total":          sale.Total.String(),
	})
	if err := s.store.SaveLastSale(ctx, sale); err != nil {
		// the sale is already committed; the receipt slot is best effort
		s.log.Error(ctx, "checkout.last_sale", err)
	}
	s.cart.Clear()

	if s.metrics != nil {
		s.metrics.SaleRecorded(string(sale.PaymentMethod), sale.Total)
	}
	s.log.Info(ctx, "checkout.completed")
	return sale, nil
}
