package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/auth"
	apperrors "github.com/PresidentialParadise/The-Big-Cheese/pkg/errors"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/httputil"
)

// translateAuthError maps the auth package's sentinels onto transport
// errors. Credential and capability failures are all 401 so a caller
// probing the API learns nothing about which check failed; only an expired
// session is distinguishable, since the client can recover by logging in
// again.
func translateAuthError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return apperrors.Unauthorized("invalid credentials")
	case errors.Is(err, auth.ErrTokenInvalid):
		return apperrors.Unauthorized("invalid token")
	case errors.Is(err, auth.ErrNotAdmin):
		return apperrors.Unauthorized("admin access required")
	case errors.Is(err, auth.ErrNotSelf):
		return apperrors.Unauthorized("not allowed to act on another account")
	case errors.Is(err, auth.ErrTokenExpired):
		return apperrors.Forbidden("session expired")
	case errors.Is(err, auth.ErrUserExists):
		return &apperrors.AppError{
			Code:    "ALREADY_EXISTS",
			Message: "username already taken",
			Status:  http.StatusConflict,
			Err:     apperrors.ErrAlreadyExists,
		}
	case errors.Is(err, auth.ErrNoAuthorizationHeader):
		return apperrors.InvalidInput("missing Authorization header")
	case errors.Is(err, auth.ErrNoBearerPrefix):
		return apperrors.InvalidInput("Authorization header is not a bearer credential")
	case errors.Is(err, auth.ErrMalformedToken):
		return apperrors.InvalidInput("malformed bearer token")
	default:
		return err
	}
}

// writeError funnels every handler error through the auth translation
// before the shared writer renders it.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	httputil.WriteError(w, r, translateAuthError(err), fallback)
}
