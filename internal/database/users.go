package database

import (
	"context"
	"errors"

	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/security"
)

// ErrUsernameTaken is returned by AddUser for a duplicate username.
var ErrUsernameTaken = errors.New("username already exists")

// ListUsers returns every user, seeding the default admin and cashier on first access.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listUsersLocked(ctx)
}

func (s *Store) listUsersLocked(ctx context.Context) ([]models.User, error) {
	users, found, err := readCollection[models.User](ctx, s.backend, KeyUsers)
	if err != nil {
		return nil, err
	}
	if found {
		return users, nil
	}
	users = defaultUsers()
	if err := writeCollection(ctx, s.backend, KeyUsers, users); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "users.seeded")
	return users, nil
}

// ValidateUser finds the user whose username and password both match exactly.
func (s *Store) ValidateUser(ctx context.Context, username, password string) (models.User, bool, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return models.User{}, false, err
	}
	for _, user := range users {
		if user.Username == username && security.PasswordMatches(user.Password, password) {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

// AddUser creates a user out of band. The password is stored as a bcrypt hash.
func (s *Store) AddUser(ctx context.Context, in models.NewUser) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.listUsersLocked(ctx)
	if err != nil {
		return models.User{}, err
	}

	ids := make([]string, 0, len(users))
	for _, user := range users {
		if user.Username == in.Username {
			return models.User{}, apperrors.Wrap(apperrors.CodeConflict, ErrUsernameTaken, "username already exists")
		}
		ids = append(ids, user.ID)
	}

	hashed, err := security.HashPassword(in.Password)
	if err != nil {
		return models.User{}, apperrors.Wrap(apperrors.CodeValidation, err, "invalid password")
	}

	user := models.User{
		ID:       nextID(ids),
		Username: in.Username,
		Password: hashed,
		Name:     in.Name,
		Role:     in.Role,
	}
	users = append(users, user)
	if err := writeCollection(ctx, s.backend, KeyUsers, users); err != nil {
		return models.User{}, err
	}
	s.log.Info(s.log.WithUserID(ctx, user.ID), "user.created")
	return user, nil
}
