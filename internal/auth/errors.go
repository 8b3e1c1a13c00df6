package auth

import "errors"

// Credential and session errors. These are user-correctable and map to 4xx
// at the HTTP boundary; store and hashing failures are wrapped separately
// and never exposed with internal detail.
var (
	// ErrInvalidCredentials is returned by Login for an unknown username and
	// for a wrong password alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials provided")

	// ErrUserExists is returned by Register when the username is taken.
	ErrUserExists = errors.New("user with this name already exists")

	// ErrTokenInvalid is returned by Verify when no user owns the token.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired is returned by Verify when the token's lifetime has
	// elapsed. The token is evicted from the store as a side effect.
	ErrTokenExpired = errors.New("token expired")

	// ErrMissingIdentity signals a user record without a store-assigned id.
	// Unreachable when the store behaves; surfaced as a distinct error
	// because it means a store bug, not bad input.
	ErrMissingIdentity = errors.New("user record has no assigned identity")
)

// Guard errors raised while resolving a request's bearer credential and
// applying its capability policy.
var (
	ErrNoAuthorizationHeader = errors.New("no authorization header in request")
	ErrNoBearerPrefix        = errors.New("no bearer prefix in authorization header")
	ErrMalformedToken        = errors.New("malformed token in authorization header")
	ErrNotAdmin              = errors.New("admin status is required for this route")
	ErrNotSelf               = errors.New("this route can only be accessed for your own user or as admin")
)
