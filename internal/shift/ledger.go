// Package shift tracks the cash drawer session of the terminal.
package shift

import (
	"context"
	"errors"
	"sort"
	"sync"

	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/logger"
	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrShiftAlreadyOpen = errors.New("a shift is already open")
	ErrNoShiftOpen      = errors.New("no shift is open")
	ErrNotAuthenticated = errors.New("not logged in")
)

// Store is the slice of the persistence layer the ledger needs.
type Store interface {
	ListShifts(ctx context.Context) ([]models.Shift, error)
	GetOpenShift(ctx context.Context) (models.Shift, bool, error)
	OpenShift(ctx context.Context, userID string, openingBalance decimal.Decimal) (models.Shift, error)
	CloseShift(ctx context.Context, shiftID string, closingBalance decimal.Decimal) (models.Shift, bool, error)
	SalesForShift(ctx context.Context, shiftID string) ([]models.Sale, error)
}

// CurrentUser reports who is logged in.
type CurrentUser interface {
	Current() (models.User, bool)
}

type Recorder interface {
	ShiftOpened()
	ShiftClosed()
}

// Ledger holds the terminal's current shift.
type Ledger struct {
	mu      sync.RWMutex
	store   Store
	users   CurrentUser
	metrics Recorder
	log     *logger.Logger
	current *models.Shift
}

func NewLedger(store Store, users CurrentUser, metrics Recorder, logg *logger.Logger) *Ledger {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Ledger{store: store, users: users, metrics: metrics, log: logg}
}

// Refresh adopts whatever shift the store has open, or none.
func (l *Ledger) Refresh(ctx context.Context) error {
	open, ok, err := l.store.GetOpenShift(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if ok {
		l.current = &open
		l.log.Info(l.log.WithShiftID(ctx, open.ID), "shift.restored")
	} else {
		l.current = nil
	}
	return nil
}

func (l *Ledger) Current() (models.Shift, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.current == nil {
		return models.Shift{}, false
	}
	return *l.current, true
}

// Open starts a shift for the logged-in user.
func (l *Ledger) Open(ctx context.Context, openingBalance decimal.Decimal) (models.Shift, error) {
	user, ok := l.users.Current()
	if !ok {
		return models.Shift{}, apperrors.Wrap(apperrors.CodeUnauthorized, ErrNotAuthenticated, "log in to open a shift")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		l.log.Warn(l.log.WithShiftID(ctx, l.current.ID), "shift.open.rejected")
		return models.Shift{}, apperrors.Wrap(apperrors.CodeStateConflict, ErrShiftAlreadyOpen, "close the current shift first")
	}

	opened, err := l.store.OpenShift(ctx, user.ID, openingBalance)
	if err != nil {
		return models.Shift{}, err
	}
	l.current = &opened
	if l.metrics != nil {
		l.metrics.ShiftOpened()
	}
	return opened, nil
}

// Close ends the current shift. ok is false when the store no longer knows
// the shift, and the ledger keeps it as current.
func (l *Ledger) Close(ctx context.Context, closingBalance decimal.Decimal) (models.Shift, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return models.Shift{}, false, apperrors.Wrap(apperrors.CodeStateConflict, ErrNoShiftOpen, "no shift is open")
	}

	closed, ok, err := l.store.CloseShift(ctx, l.current.ID, closingBalance)
	if err != nil {
		return models.Shift{}, false, err
	}
	if !ok {
		l.log.Warn(l.log.WithShiftID(ctx, l.current.ID), "shift.close.missing")
		return closed, false, nil
	}
	l.current = nil
	if l.metrics != nil {
		l.metrics.ShiftClosed()
	}
	return closed, true, nil
}

// Summary reconciles the current shift against its sales so far.
func (l *Ledger) Summary(ctx context.Context) (Reconciliation, error) {
	current, ok := l.Current()
	if !ok {
		return Reconciliation{}, apperrors.Wrap(apperrors.CodeStateConflict, ErrNoShiftOpen, "no shift is open")
	}
	sales, err := l.store.SalesForShift(ctx, current.ID)
	if err != nil {
		return Reconciliation{}, err
	}
	return Reconcile(current, sales), nil
}

// History lists every shift, newest first.
func (l *Ledger) History(ctx context.Context) ([]models.Shift, error) {
	shifts, err := l.store.ListShifts(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(shifts, func(i, j int) bool {
		return shifts[i].StartTime.After(shifts[j].StartTime)
	})
	return shifts, nil
}
