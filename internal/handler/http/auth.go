// Package http exposes the REST API over chi.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/auth"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/httputil"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/validator"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	auth   *auth.Service
	logger *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

// CredentialsRequest is the JSON request body for register and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=256"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token domain.Token `json:"token"`
}

// Register handles POST /api/v1/users/register. A successful registration
// immediately logs the new account in and returns its first token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	if err := h.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: TokenResponse{Token: token}})
}

// Login handles POST /api/v1/users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: TokenResponse{Token: token}})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return req, false
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return req, false
	}

	return req, true
}
