package database

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/models"
)

// SaleFilter narrows the receipt list.
type SaleFilter struct {
	// Query matches an id substring or a case-insensitive customer name substring.
	Query string
	// Since drops sales older than this instant when non-zero.
	Since time.Time
}

func (f SaleFilter) matches(sale models.Sale) bool {
	if !f.Since.IsZero() && sale.Timestamp.Before(f.Since) {
		return false
	}
	if f.Query == "" {
		return true
	}
	if strings.Contains(sale.ID, f.Query) {
		return true
	}
	return strings.Contains(strings.ToLower(sale.CustomerName), strings.ToLower(f.Query))
}

func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sales, _, err := readCollection[models.Sale](ctx, s.backend, KeySales)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	return sales, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (models.Sale, bool, error) {
	sales, err := s.ListSales(ctx)
	if err != nil {
		return models.Sale{}, false, err
	}
	for _, sale := range sales {
		if sale.ID == id {
			return sale, true, nil
		}
	}
	return models.Sale{}, false, nil
}

// SearchSales returns matching sales, newest first.
func (s *Store) SearchSales(ctx context.Context, filter SaleFilter) ([]models.Sale, error) {
	sales, err := s.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if filter.matches(sale) {
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *Store) SalesForShift(ctx context.Context, shiftID string) ([]models.Sale, error) {
	sales, err := s.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Sale, 0)
	for _, sale := range sales {
		if sale.ShiftID == shiftID {
			out = append(out, sale)
		}
	}
	return out, nil
}

// RecordSale appends the sale under the next id and decrements stock for every
// line item. Sales and products are committed together.
func (s *Store) RecordSale(ctx context.Context, in models.SaleInput) (models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sales, _, err := readCollection[models.Sale](ctx, s.backend, KeySales)
	if err != nil {
		return models.Sale{}, err
	}
	products, _, err := s.loadProducts(ctx)
	if err != nil {
		return models.Sale{}, err
	}

	ids := make([]string, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}
	sale := in.WithID(nextID(ids))
	sales = append(sales, sale)

	for _, item := range sale.Items {
		// products removed since the cart was filled are skipped
		adjustStock(products, item.ProductID, -item.Quantity)
	}

	salesRaw, err := encodeCollection(KeySales, sales)
	if err != nil {
		return models.Sale{}, err
	}
	productsRaw, err := encodeCollection(KeyProducts, products)
	if err != nil {
		return models.Sale{}, err
	}
	if err := s.backend.PutMany(ctx, map[string][]byte{
		KeySales:    salesRaw,
		KeyProducts: productsRaw,
	}); err != nil {
		return models.Sale{}, apperrors.Wrap(apperrors.CodeDependency, err, "commit sale")
	}

	ctx = s.log.WithFields(ctx, map[string]any{
		"sale_id":  sale.ID,
		"shift_id": sale.ShiftID,
		"items":    len(sale.Items),
	})
	s.log.Info(ctx, "sale.recorded")
	return sale, nil
}
