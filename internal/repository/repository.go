package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
// Lookups return (nil, nil) when no matching record exists; absence is not
// a store error.
type UserRepository interface {
	// Insert stores a new user and returns the identity assigned by the store.
	Insert(ctx context.Context, user *domain.User) (primitive.ObjectID, error)

	// FindByID retrieves a user by their assigned identity.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	// FindByUsername retrieves a user by their unique username.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByToken retrieves the user owning the given session token.
	FindByToken(ctx context.Context, token domain.Token) (*domain.User, error)

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)

	// Replace overwrites the stored user with the given id.
	Replace(ctx context.Context, id primitive.ObjectID, user *domain.User) error

	// RemoveToken evicts a single dated token from the user's token set.
	// Removing a token that is already absent is a no-op, not an error.
	RemoveToken(ctx context.Context, user *domain.User, token domain.DatedToken) error

	// Delete removes a user by their identity.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MetaRepository defines the interface for the server-wide settings document.
type MetaRepository interface {
	// EnsureDefault seeds the default meta document if none exists yet.
	// Must be called once at startup; Config depends on it.
	EnsureDefault(ctx context.Context) error

	// Config returns the current session configuration.
	Config(ctx context.Context) (domain.SessionConfig, error)

	// SetConfig replaces the session configuration.
	SetConfig(ctx context.Context, cfg domain.SessionConfig) error
}

// RecipeRepository defines the interface for recipe persistence operations.
type RecipeRepository interface {
	// Insert stores a new recipe and returns its assigned id.
	Insert(ctx context.Context, recipe *domain.Recipe) (primitive.ObjectID, error)

	// FindByID retrieves a recipe by id, or (nil, nil) when absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error)

	// List returns all recipes.
	List(ctx context.Context) ([]domain.Recipe, error)

	// Replace overwrites the stored recipe with the given id.
	Replace(ctx context.Context, id primitive.ObjectID, recipe *domain.Recipe) error

	// Delete removes a recipe by id.
	Delete(ctx context.Context, id primitive.ObjectID) error
}
