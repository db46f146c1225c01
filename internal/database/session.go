package database

import (
	"context"

	"go-pos-terminal/internal/models"
)

// SaveSessionUser remembers who is logged in so a restart can restore them.
func (s *Store) SaveSessionUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeSlot(ctx, s.backend, KeySessionUser, user)
}

func (s *Store) LoadSessionUser(ctx context.Context) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readSlot[models.User](ctx, s.backend, KeySessionUser)
}

func (s *Store) ClearSessionUser(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteSlot(ctx, s.backend, KeySessionUser)
}

// SaveLastSale hands the completed sale over to the receipt view.
func (s *Store) SaveLastSale(ctx context.Context, sale models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeSlot(ctx, s.backend, KeyLastSale, sale)
}

// TakeLastSale reads and clears the last-sale slot.
func (s *Store) TakeLastSale(ctx context.Context) (models.Sale, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok, err := readSlot[models.Sale](ctx, s.backend, KeyLastSale)
	if err != nil || !ok {
		return sale, ok, err
	}
	if err := deleteSlot(ctx, s.backend, KeyLastSale); err != nil {
		return models.Sale{}, false, err
	}
	return sale, true, nil
}
