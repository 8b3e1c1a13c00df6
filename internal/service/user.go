// Package service implements the business logic for users and recipes on
// top of the store contracts.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/auth"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/repository"
	apperrors "github.com/PresidentialParadise/The-Big-Cheese/pkg/errors"
)

// UserService implements account management on top of the user store.
// Registration and login live in the auth service; this covers everything
// that happens to an account after it exists.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// UpdateUserInput holds the caller-editable account fields. Password hash
// and token set are never part of an update; the stored values carry over.
type UpdateUserInput struct {
	ID          primitive.ObjectID   `json:"id"`
	Username    string               `json:"username" validate:"required,min=1,max=64"`
	DisplayName string               `json:"display_name" validate:"required,min=1,max=128"`
	Admin       bool                 `json:"admin"`
	Recipes     []primitive.ObjectID `json:"recipes"`
}

// List returns all accounts with their secrets blanked.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Sanitize()
	}
	return users, nil
}

// Get returns a single sanitized account.
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user", id.Hex())
	}
	user.Sanitize()
	return user, nil
}

// Update overwrites the account identified by id with the given fields.
//
// Two rules hold regardless of how the caller was authorized:
//   - an actor who is not an admin cannot grant admin status;
//   - the identity inside the body must match the target account.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, input UpdateUserInput) error {
	if input.Admin && !actor.Admin {
		return auth.ErrNotAdmin
	}
	if input.ID != id {
		return auth.ErrNotSelf
	}

	stored, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if stored == nil {
		return apperrors.NotFound("user", id.Hex())
	}

	if input.Username != stored.Username {
		taken, err := s.users.FindByUsername(ctx, input.Username)
		if err != nil {
			return fmt.Errorf("look up username %q: %w", input.Username, err)
		}
		if taken != nil {
			return auth.ErrUserExists
		}
	}

	updated := &domain.User{
		ID:           id,
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: stored.PasswordHash,
		Admin:        input.Admin,
		Recipes:      input.Recipes,
		Tokens:       stored.Tokens,
	}
	if updated.Recipes == nil {
		updated.Recipes = stored.Recipes
	}

	if err := s.users.Replace(ctx, id, updated); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.String("user_id", id.Hex()),
		slog.String("actor_id", actor.ID.Hex()),
	)

	return nil
}

// Delete removes the account identified by id.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user", id.Hex())
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.String("user_id", id.Hex()),
		slog.String("username", user.Username),
	)

	return nil
}
