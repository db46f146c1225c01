// Package auth owns the terminal's single logged-in user.
package auth

import (
	"context"
	"errors"
	"sync"

	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/logger"
	"go-pos-terminal/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Store is what the gate needs from the persistence layer.
type Store interface {
	ValidateUser(ctx context.Context, username, password string) (models.User, bool, error)
	SaveSessionUser(ctx context.Context, user models.User) error
	LoadSessionUser(ctx context.Context) (models.User, bool, error)
	ClearSessionUser(ctx context.Context) error
}

// Gate tracks who is operating the till. The session user is mirrored into
// the store so a restart can pick it up again.
type Gate struct {
	mu      sync.RWMutex
	store   Store
	log     *logger.Logger
	current *models.User
}

func NewGate(store Store, logg *logger.Logger) *Gate {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Gate{store: store, log: logg}
}

// Login checks the credentials and makes the user current. A failed attempt
// leaves the previous state untouched.
func (g *Gate) Login(ctx context.Context, username, password string) (models.User, error) {
	user, ok, err := g.store.ValidateUser(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		g.log.Warn(g.log.WithField(ctx, "username", username), "auth.login.rejected")
		return models.User{}, apperrors.Wrap(apperrors.CodeUnauthorized, ErrInvalidCredentials, "invalid username or password")
	}

	public := user.Public()
	if err := g.store.SaveSessionUser(ctx, public); err != nil {
		return models.User{}, err
	}

	g.mu.Lock()
	g.current = &public
	g.mu.Unlock()

	g.log.Info(g.log.WithUserID(ctx, public.ID), "auth.login")
	return public, nil
}

// Logout clears the current user. It is safe to call when nobody is logged in.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.store.ClearSessionUser(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	previous := g.current
	g.current = nil
	g.mu.Unlock()

	if previous != nil {
		g.log.Info(g.log.WithUserID(ctx, previous.ID), "auth.logout")
	}
	return nil
}

// Restore adopts the stored session user as is. The credentials are not checked again.
func (g *Gate) Restore(ctx context.Context) (models.User, bool, error) {
	user, ok, err := g.store.LoadSessionUser(ctx)
	if err != nil || !ok {
		return models.User{}, false, err
	}
	g.mu.Lock()
	g.current = &user
	g.mu.Unlock()

	g.log.Info(g.log.WithUserID(ctx, user.ID), "auth.session.restored")
	return user, true, nil
}

func (g *Gate) Current() (models.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return models.User{}, false
	}
	return *g.current, true
}
