package database

import (
	"context"

	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
)

func (s *Store) ListShifts(ctx context.Context) ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listShiftsLocked(ctx)
}

func (s *Store) listShiftsLocked(ctx context.Context) ([]models.Shift, error) {
	shifts, _, err := readCollection[models.Shift](ctx, s.backend, KeyShifts)
	if err != nil {
		return nil, err
	}
	if shifts == nil {
		shifts = []models.Shift{}
	}
	return shifts, nil
}

// GetOpenShift returns the first shift without an end time.
func (s *Store) GetOpenShift(ctx context.Context) (models.Shift, bool, error) {
	shifts, err := s.ListShifts(ctx)
	if err != nil {
		return models.Shift{}, false, err
	}
	for _, sh := range shifts {
		if sh.IsOpen() {
			return sh, true, nil
		}
	}
	return models.Shift{}, false, nil
}

// OpenShift starts a new shift. It does not look for one that is already open;
// callers go through the shift ledger for that.
func (s *Store) OpenShift(ctx context.Context, userID string, openingBalance decimal.Decimal) (models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shifts, err := s.listShiftsLocked(ctx)
	if err != nil {
		return models.Shift{}, err
	}
	ids := make([]string, len(shifts))
	for i, sh := range shifts {
		ids[i] = sh.ID
	}

	shift := models.Shift{
		ID:             nextID(ids),
		UserID:         userID,
		StartTime:      s.now(),
		OpeningBalance: openingBalance,
		Sales:          []string{},
		Status:         models.ShiftOpen,
	}
	shifts = append(shifts, shift)
	if err := writeCollection(ctx, s.backend, KeyShifts, shifts); err != nil {
		return models.Shift{}, err
	}

	ctx = s.log.WithUserID(s.log.WithShiftID(ctx, shift.ID), userID)
	s.log.Info(ctx, "shift.opened")
	return shift, nil
}

// CloseShift stamps the end time and closing balance and rebuilds the list of
// sale ids from the sales collection. ok is false when the id is unknown.
func (s *Store) CloseShift(ctx context.Context, shiftID string, closingBalance decimal.Decimal) (models.Shift, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shifts, err := s.listShiftsLocked(ctx)
	if err != nil {
		return models.Shift{}, false, err
	}
	idx := -1
	for i := range shifts {
		if shifts[i].ID == shiftID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Shift{}, false, nil
	}

	sales, _, err := readCollection[models.Sale](ctx, s.backend, KeySales)
	if err != nil {
		return models.Shift{}, false, err
	}
	saleIDs := make([]string, 0)
	for _, sale := range sales {
		if sale.ShiftID == shiftID {
			saleIDs = append(saleIDs, sale.ID)
		}
	}

	end := s.now()
	balance := closingBalance
	shifts[idx].EndTime = &end
	shifts[idx].ClosingBalance = &balance
	shifts[idx].Status = models.ShiftClosed
	shifts[idx].Sales = saleIDs

	if err := writeCollection(ctx, s.backend, KeyShifts, shifts); err != nil {
		return models.Shift{}, false, err
	}

	s.log.Info(s.log.WithShiftID(ctx, shiftID), "shift.closed")
	return shifts[idx], true, nil
}
