package auth

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
)

// bearerPrefix is the literal scheme prefix clients send in the
// Authorization header, followed by the token in canonical form.
const bearerPrefix = "Bearer:"

// Guard authenticates requests and applies a capability policy before
// exposing the resolved identity to handlers.
type Guard struct {
	auth *Service
}

// NewGuard creates a guard backed by the given authentication service.
func NewGuard(auth *Service) *Guard {
	return &Guard{auth: auth}
}

// credential extracts and parses the bearer token from the request.
func (g *Guard) credential(r *http.Request) (domain.Token, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoAuthorizationHeader
	}

	rest, found := strings.CutPrefix(strings.TrimSpace(header), bearerPrefix)
	if !found {
		return "", ErrNoBearerPrefix
	}

	token, err := domain.ParseToken(strings.TrimSpace(rest))
	if err != nil {
		return "", ErrMalformedToken
	}

	return token, nil
}

func (g *Guard) verify(r *http.Request) (*domain.User, error) {
	token, err := g.credential(r)
	if err != nil {
		return nil, err
	}
	return g.auth.Verify(r.Context(), token)
}

// Authenticate resolves the request's session. Any logged-in user passes.
func (g *Guard) Authenticate(r *http.Request) (*Auth, error) {
	user, err := g.verify(r)
	if err != nil {
		return nil, err
	}
	return &Auth{user: user}, nil
}

// AuthenticateAdmin resolves the request's session and requires admin
// status, failing with ErrNotAdmin otherwise.
func (g *Guard) AuthenticateAdmin(r *http.Request) (*AdminAuth, error) {
	user, err := g.verify(r)
	if err != nil {
		return nil, err
	}
	if !user.Admin {
		return nil, ErrNotAdmin
	}
	return &AdminAuth{user: user}, nil
}

// AuthenticateSelf resolves the request's session into a SelfAuth. The
// identity stays sealed until the handler proves the request targets that
// same user.
func (g *Guard) AuthenticateSelf(r *http.Request) (*SelfAuth, error) {
	user, err := g.verify(r)
	if err != nil {
		return nil, err
	}
	return &SelfAuth{user: user}, nil
}

// AuthenticateSelfOrAdmin resolves the request's session into a
// SelfOrAdminAuth: sealed like SelfAuth, but admins pass any criterion.
func (g *Guard) AuthenticateSelfOrAdmin(r *http.Request) (*SelfOrAdminAuth, error) {
	user, err := g.verify(r)
	if err != nil {
		return nil, err
	}
	return &SelfOrAdminAuth{user: user}, nil
}

// Auth wraps the identity of any logged-in user.
type Auth struct {
	user *domain.User
}

// User returns the authenticated user.
func (a *Auth) User() *domain.User {
	return a.user
}

// AdminAuth wraps the identity of a logged-in admin.
type AdminAuth struct {
	user *domain.User
}

// User returns the authenticated admin.
func (a *AdminAuth) User() *domain.User {
	return a.user
}

// SelfAuth wraps an authenticated identity that may only be used for
// requests targeting that same user. The wrapped user is unreachable except
// through an accessor that takes the request's target as proof, so a handler
// cannot forget the ownership check.
type SelfAuth struct {
	user *domain.User
}

// User returns the wrapped identity if it matches the target id, and
// ErrNotSelf otherwise. Admin status does not bypass a SelfAuth.
func (a *SelfAuth) User(id primitive.ObjectID) (*domain.User, error) {
	if a.user.ID == id {
		return a.user, nil
	}
	return nil, ErrNotSelf
}

// UserByName returns the wrapped identity if it matches the target
// username, and ErrNotSelf otherwise.
func (a *SelfAuth) UserByName(username string) (*domain.User, error) {
	if a.user.Username == username {
		return a.user, nil
	}
	return nil, ErrNotSelf
}

// NewSelfAuthForTest constructs a SelfAuth around a known user for tests.
func NewSelfAuthForTest(user *domain.User) *SelfAuth {
	return &SelfAuth{user: user}
}

// SelfOrAdminAuth wraps an authenticated identity that may be used for
// requests targeting that same user, or by an admin for any target.
type SelfOrAdminAuth struct {
	user *domain.User
}

// User returns the wrapped identity if it matches the target id or is an
// admin, and ErrNotSelf otherwise.
func (a *SelfOrAdminAuth) User(id primitive.ObjectID) (*domain.User, error) {
	if a.user.ID == id || a.user.Admin {
		return a.user, nil
	}
	return nil, ErrNotSelf
}

// UserByName returns the wrapped identity if it matches the target username
// or is an admin, and ErrNotSelf otherwise.
func (a *SelfOrAdminAuth) UserByName(username string) (*domain.User, error) {
	if a.user.Username == username || a.user.Admin {
		return a.user, nil
	}
	return nil, ErrNotSelf
}

// NewSelfOrAdminAuthForTest constructs a SelfOrAdminAuth around a known user
// for tests.
func NewSelfOrAdminAuthForTest(user *domain.User) *SelfOrAdminAuth {
	return &SelfOrAdminAuth{user: user}
}
