package database

import (
	"context"
	"strings"

	"go-pos-terminal/internal/models"
)

// ProductFilter narrows ListProducts the way the POS screen search box does.
type ProductFilter struct {
	// Query matches a case-insensitive name substring or a barcode substring.
	Query    string
	Category string
}

func (f ProductFilter) matches(p models.Product) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(p.Barcode, f.Query) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// ListProducts returns every product, seeding the sample catalogue on first access.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listProductsLocked(ctx)
}

func (s *Store) listProductsLocked(ctx context.Context) ([]models.Product, error) {
	products, seeded, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	if seeded {
		if err := writeCollection(ctx, s.backend, KeyProducts, products); err != nil {
			return nil, err
		}
		s.log.Info(ctx, "products.seeded")
	}
	return products, nil
}

// loadProducts reads the collection without writing; seeded reports that the
// sample catalogue was substituted for a missing key.
func (s *Store) loadProducts(ctx context.Context) ([]models.Product, bool, error) {
	products, found, err := readCollection[models.Product](ctx, s.backend, KeyProducts)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return defaultProducts(), true, nil
	}
	return products, false, nil
}

func (s *Store) SearchProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filter.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories lists distinct categories in first-seen order.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories, nil
}

func (s *Store) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, bool, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return models.Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

func (s *Store) FindProductByBarcode(ctx context.Context, barcode string) (models.Product, bool, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return models.Product{}, false, err
	}
	for _, p := range products {
		if barcode != "" && p.Barcode == barcode {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

// AddProduct assigns the next numeric id and appends the product.
func (s *Store) AddProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.listProductsLocked(ctx)
	if err != nil {
		return models.Product{}, err
	}
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	product := in.WithID(nextID(ids))
	products = append(products, product)
	if err := writeCollection(ctx, s.backend, KeyProducts, products); err != nil {
		return models.Product{}, err
	}
	s.log.Info(s.log.WithField(ctx, "product_id", product.ID), "product.created")
	return product, nil
}

// UpdateProduct replaces the product with the same id. When no product matches
// nothing is written, and the input is returned unchanged in both cases.
func (s *Store) UpdateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.listProductsLocked(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			if err := writeCollection(ctx, s.backend, KeyProducts, products); err != nil {
				return models.Product{}, err
			}
			s.log.Info(s.log.WithField(ctx, "product_id", product.ID), "product.updated")
			return product, nil
		}
	}
	return product, nil
}

// DeleteProduct removes by id and reports whether anything was removed.
func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.listProductsLocked(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return false, nil
	}
	if err := writeCollection(ctx, s.backend, KeyProducts, kept); err != nil {
		return false, err
	}
	s.log.Info(s.log.WithField(ctx, "product_id", id), "product.deleted")
	return true, nil
}

// AdjustStock adds delta to the product's stock. Stock may go negative.
func (s *Store) AdjustStock(ctx context.Context, id string, delta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.listProductsLocked(ctx)
	if err != nil {
		return false, err
	}
	if !adjustStock(products, id, delta) {
		return false, nil
	}
	if err := writeCollection(ctx, s.backend, KeyProducts, products); err != nil {
		return false, err
	}
	return true, nil
}

func adjustStock(products []models.Product, id string, delta int) bool {
	for i := range products {
		if products[i].ID == id {
			products[i].Stock += delta
			return true
		}
	}
	return false
}
