package auth

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/repository"
)

// Service implements registration, login, and token verification. It holds
// no state of its own; all persistence is delegated to the store.
type Service struct {
	users  repository.UserRepository
	meta   repository.MetaRepository
	hasher *Hasher
	logger *slog.Logger
}

// NewService creates an authentication service.
func NewService(
	users repository.UserRepository,
	meta repository.MetaRepository,
	hasher *Hasher,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:  users,
		meta:   meta,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates a new account with the given credentials. The password is
// hashed before storage and the created user is never an admin.
//
// The existence check runs before the insert without a store-level
// uniqueness constraint, so two concurrent registrations with the same
// username can both pass it. Known limitation, kept deliberately.
func (s *Service) Register(ctx context.Context, username, password string) error {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("look up user %q: %w", username, err)
	}
	if existing != nil {
		return ErrUserExists
	}

	user := &domain.User{
		Username:     username,
		DisplayName:  username,
		PasswordHash: passwordHash,
		Admin:        false,
		Recipes:      []primitive.ObjectID{},
		Tokens:       []domain.DatedToken{},
	}

	if _, err := s.users.Insert(ctx, user); err != nil {
		return fmt.Errorf("create user %q: %w", username, err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("username", username),
	)

	return nil
}

// Login verifies the given credentials and issues a fresh session token.
// An unknown username and a wrong password produce the identical
// ErrInvalidCredentials, so callers cannot tell which it was.
func (s *Service) Login(ctx context.Context, username, password string) (domain.Token, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("look up user %q: %w", username, err)
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	if !user.HasIdentity() {
		return "", ErrMissingIdentity
	}

	dt := domain.NewDatedToken()
	user.Tokens = append(user.Tokens, dt)

	if err := s.users.Replace(ctx, user.ID, user); err != nil {
		return "", fmt.Errorf("persist session token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("username", username),
		slog.String("user_id", user.ID.Hex()),
	)

	return dt.Token, nil
}

// Verify resolves the user owning the given token and checks that the
// session has not expired. Expired tokens are evicted from the store as a
// best-effort side effect; a failed eviction never turns an expired session
// into a valid one.
func (s *Service) Verify(ctx context.Context, token domain.Token) (*domain.User, error) {
	user, err := s.users.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("look up token owner: %w", err)
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}

	cfg, err := s.meta.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session config: %w", err)
	}

	// The token set may have changed between the owner lookup and now.
	dt, found := user.FindToken(token)
	if !found {
		return nil, ErrTokenInvalid
	}

	if dt.Expired(cfg.Expiration) {
		if err := s.users.RemoveToken(ctx, user, dt); err != nil {
			// The token is rejected again on its next use regardless.
			s.logger.WarnContext(ctx, "failed to evict expired token",
				slog.String("user_id", user.ID.Hex()),
				slog.String("error", err.Error()),
			)
		}
		return nil, ErrTokenExpired
	}

	return user, nil
}
