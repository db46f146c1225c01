package auth

import (
	"context"
	"testing"

	"go-pos-terminal/internal/database"
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGate(t *testing.T) (*Gate, *database.Store) {
	t.Helper()
	store := database.NewStore(database.NewMemoryBackend(), nil)
	return NewGate(store, nil), store
}

func TestLoginSetsCurrentAndSession(t *testing.T) {
	gate, store := newGate(t)
	ctx := context.Background()

	user, err := gate.Login(ctx, "cashier", "cashier123")
	require.NoError(t, err)
	assert.Equal(t, "2", user.ID)
	assert.Empty(t, user.Password)

	current, ok := gate.Current()
	require.True(t, ok)
	assert.Equal(t, user, current)

	saved, ok, err := store.LoadSessionUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cashier", saved.Username)
	assert.Empty(t, saved.Password)
}

func TestWrongPasswordWritesNothing(t *testing.T) {
	gate, store := newGate(t)
	ctx := context.Background()

	_, err := gate.Login(ctx, "admin", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))

	_, ok := gate.Current()
	assert.False(t, ok)
	_, ok, err = store.LoadSessionUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFailedLoginKeepsPreviousUser(t *testing.T) {
	gate, _ := newGate(t)
	ctx := context.Background()

	_, err := gate.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	_, err = gate.Login(ctx, "cashier", "wrong")
	require.Error(t, err)

	current, ok := gate.Current()
	require.True(t, ok)
	assert.Equal(t, "admin", current.Username)
}

func TestLogoutAndRestore(t *testing.T) {
	gate, store := newGate(t)
	ctx := context.Background()

	_, err := gate.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	restarted := NewGate(store, nil)
	user, ok, err := restarted.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, user.Role)

	require.NoError(t, restarted.Logout(ctx))
	_, ok = restarted.Current()
	assert.False(t, ok)
	require.NoError(t, restarted.Logout(ctx))

	again := NewGate(store, nil)
	_, ok, err = again.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreTrustsStoredUser(t *testing.T) {
	gate, store := newGate(t)
	ctx := context.Background()

	ghost := models.User{ID: "77", Username: "ghost", Role: models.RoleManager}
	require.NoError(t, store.SaveSessionUser(ctx, ghost))

	user, ok, err := gate.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ghost, user)
}
