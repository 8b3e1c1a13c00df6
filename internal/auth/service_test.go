package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
)

// --- In-memory stores ---
//
// Stateful flows (register -> login -> verify) need a store that actually
// remembers users, so these fakes implement the repository contracts over a
// map. Targeted failure paths use testify mocks below.

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[primitive.ObjectID]*domain.User)}
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	cp.Tokens = append([]domain.DatedToken(nil), u.Tokens...)
	cp.Recipes = append([]primitive.ObjectID(nil), u.Recipes...)
	return &cp
}

func (m *memUsers) Insert(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	cp := copyUser(user)
	cp.ID = id
	m.users[id] = cp
	return id, nil
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByToken(_ context.Context, token domain.Token) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		for _, dt := range u.Tokens {
			if dt.Token == token {
				return copyUser(u), nil
			}
		}
	}
	return nil, nil
}

func (m *memUsers) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *copyUser(u))
	}
	return out, nil
}

func (m *memUsers) Replace(_ context.Context, id primitive.ObjectID, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copyUser(user)
	cp.ID = id
	m.users[id] = cp
	return nil
}

func (m *memUsers) RemoveToken(_ context.Context, user *domain.User, token domain.DatedToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.ID]
	if !ok {
		return nil
	}
	// Idempotent pull: removing an absent token is a no-op.
	kept := stored.Tokens[:0]
	for _, dt := range stored.Tokens {
		if dt.Token != token.Token {
			kept = append(kept, dt)
		}
	}
	stored.Tokens = kept
	return nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

type memMeta struct {
	mu  sync.Mutex
	cfg *domain.SessionConfig
}

func (m *memMeta) EnsureDefault(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		cfg := domain.DefaultSessionConfig()
		m.cfg = &cfg
	}
	return nil
}

func (m *memMeta) Config(_ context.Context) (domain.SessionConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return domain.SessionConfig{}, errors.New("session config not seeded")
	}
	return *m.cfg, nil
}

func (m *memMeta) SetConfig(_ context.Context, cfg domain.SessionConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = &cfg
	return nil
}

// --- Mock stores for failure paths ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Insert(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) FindByToken(ctx context.Context, token domain.Token) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) Replace(ctx context.Context, id primitive.ObjectID, user *domain.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *mockUserRepository) RemoveToken(ctx context.Context, user *domain.User, token domain.DatedToken) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMetaRepository struct {
	mock.Mock
}

func (m *mockMetaRepository) EnsureDefault(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockMetaRepository) Config(ctx context.Context) (domain.SessionConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SessionConfig), args.Error(1)
}

func (m *mockMetaRepository) SetConfig(ctx context.Context, cfg domain.SessionConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// --- Test helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(users *memUsers, meta *memMeta) *Service {
	return NewService(users, meta, NewHasherWithCost(bcrypt.MinCost), newTestLogger())
}

// --- Register / Login / Verify ---

func TestRoundTrip(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	require.NoError(t, meta.EnsureDefault(context.Background()))
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice", user.DisplayName)
	assert.False(t, user.Admin)
	assert.True(t, user.HasIdentity())
}

func TestRegister_NeverGrantsAdmin(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "mallory", "pw"))

	stored, err := users.FindByUsername(ctx, "mallory")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Admin)
	assert.Empty(t, stored.Tokens)
	assert.Empty(t, stored.Recipes)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))
	assert.ErrorIs(t, svc.Register(ctx, "alice", "pw2"), ErrUserExists)
}

func TestRegister_StoreFailure(t *testing.T) {
	users := new(mockUserRepository)
	meta := new(mockMetaRepository)
	svc := NewService(users, meta, NewHasherWithCost(bcrypt.MinCost), newTestLogger())
	ctx := context.Background()

	storeErr := errors.New("connection reset")
	users.On("FindByUsername", ctx, "alice").Return(nil, storeErr)

	err := svc.Register(ctx, "alice", "pw1")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrUserExists)
}

func TestLogin_NoEnumeration(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	_, errUnknownUser := svc.Login(ctx, "nonexistent", "pw1")
	_, errWrongPassword := svc.Login(ctx, "alice", "wrong")

	assert.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.Equal(t, errUnknownUser, errWrongPassword)
}

func TestLogin_ConcurrentSessions(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	require.NoError(t, meta.EnsureDefault(context.Background()))
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	t1, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	t2, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	// Both sessions are valid at the same time.
	u1, err := svc.Verify(ctx, t1)
	require.NoError(t, err)
	u2, err := svc.Verify(ctx, t2)
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)
	assert.Len(t, u1.Tokens, 2)
}

func TestLogin_MissingIdentity(t *testing.T) {
	users := new(mockUserRepository)
	meta := new(mockMetaRepository)
	hasher := NewHasherWithCost(bcrypt.MinCost)
	svc := NewService(users, meta, hasher, newTestLogger())
	ctx := context.Background()

	hash, err := hasher.Hash("pw1")
	require.NoError(t, err)

	// A stored user without an assigned id violates the store contract.
	broken := &domain.User{Username: "alice", PasswordHash: hash}
	users.On("FindByUsername", ctx, "alice").Return(broken, nil)

	_, err = svc.Login(ctx, "alice", "pw1")
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestVerify_UnknownToken(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	require.NoError(t, meta.EnsureDefault(context.Background()))
	svc := newTestService(users, meta)

	_, err := svc.Verify(context.Background(), domain.NewToken())
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Expiration(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, meta.SetConfig(ctx, domain.SessionConfig{Expiration: time.Millisecond}))
	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	// Let the token expire.
	time.Sleep(5 * time.Millisecond)

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_ExpiredTokenIsEvicted(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, meta.SetConfig(ctx, domain.SessionConfig{Expiration: time.Millisecond}))
	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Verify(ctx, token)
	require.ErrorIs(t, err, ErrTokenExpired)

	stored, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, stored.Tokens)

	// An evicted token no longer resolves at all.
	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_EvictionFailureStaysExpired(t *testing.T) {
	users := new(mockUserRepository)
	meta := new(mockMetaRepository)
	svc := NewService(users, meta, NewHasherWithCost(bcrypt.MinCost), newTestLogger())
	ctx := context.Background()

	dt := domain.DatedToken{Token: domain.NewToken(), Issued: time.Now().UTC().Add(-time.Hour)}
	owner := &domain.User{ID: primitive.NewObjectID(), Username: "alice", Tokens: []domain.DatedToken{dt}}

	users.On("FindByToken", ctx, dt.Token).Return(owner, nil)
	meta.On("Config", ctx).Return(domain.SessionConfig{Expiration: time.Minute}, nil)
	users.On("RemoveToken", ctx, owner, dt).Return(errors.New("write concern failure"))

	_, err := svc.Verify(ctx, dt.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	users.AssertExpectations(t)
}

func TestVerify_ConfigLoadFailureIsNotSuccess(t *testing.T) {
	users := new(mockUserRepository)
	meta := new(mockMetaRepository)
	svc := NewService(users, meta, NewHasherWithCost(bcrypt.MinCost), newTestLogger())
	ctx := context.Background()

	dt := domain.NewDatedToken()
	owner := &domain.User{ID: primitive.NewObjectID(), Username: "alice", Tokens: []domain.DatedToken{dt}}

	users.On("FindByToken", ctx, dt.Token).Return(owner, nil)
	meta.On("Config", ctx).Return(domain.SessionConfig{}, errors.New("meta collection unavailable"))

	_, err := svc.Verify(ctx, dt.Token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_TokenSetChangedConcurrently(t *testing.T) {
	users := new(mockUserRepository)
	meta := new(mockMetaRepository)
	svc := NewService(users, meta, NewHasherWithCost(bcrypt.MinCost), newTestLogger())
	ctx := context.Background()

	token := domain.NewToken()
	// The owner lookup matched, but by the time the document arrives the
	// token set no longer contains the token.
	owner := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}

	users.On("FindByToken", ctx, token).Return(owner, nil)
	meta.On("Config", ctx).Return(domain.DefaultSessionConfig(), nil)

	_, err := svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestScenario_AliceLifecycle(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	require.NoError(t, meta.EnsureDefault(context.Background()))
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	user, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Admin)

	// Shrink the session lifetime to zero; the existing token immediately
	// stops verifying.
	require.NoError(t, meta.SetConfig(ctx, domain.SessionConfig{Expiration: 0}))

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRemoveToken_Idempotent(t *testing.T) {
	users := newMemUsers()
	meta := &memMeta{}
	require.NoError(t, meta.EnsureDefault(context.Background()))
	svc := newTestService(users, meta)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))
	token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	stored, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	dt, ok := stored.FindToken(token)
	require.True(t, ok)

	require.NoError(t, users.RemoveToken(ctx, stored, dt))
	// Second removal of the same token is a no-op, not an error.
	require.NoError(t, users.RemoveToken(ctx, stored, dt))

	stored, err = users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, stored.Tokens)
}
