package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/auth"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/repository"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/httputil"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/validator"
)

// AdminHandler exposes server-wide settings to admins.
type AdminHandler struct {
	meta   repository.MetaRepository
	guard  *auth.Guard
	logger *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(meta repository.MetaRepository, guard *auth.Guard, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{meta: meta, guard: guard, logger: logger}
}

// SessionConfigRequest is the JSON request body for updating the session
// policy. The expiration is given in seconds.
type SessionConfigRequest struct {
	ExpirationSeconds int64 `json:"expiration_seconds" validate:"required,min=1,max=31536000"`
}

// SessionConfigResponse mirrors the stored session policy.
type SessionConfigResponse struct {
	ExpirationSeconds int64 `json:"expiration_seconds"`
}

// GetSessionConfig handles GET /api/v1/admin/session-config.
func (h *AdminHandler) GetSessionConfig(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.AuthenticateAdmin(r); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cfg, err := h.meta.Config(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SessionConfigResponse{ExpirationSeconds: int64(cfg.Expiration / time.Second)},
	})
}

// PutSessionConfig handles PUT /api/v1/admin/session-config. The new
// expiration applies to every existing session on its next verification.
func (h *AdminHandler) PutSessionConfig(w http.ResponseWriter, r *http.Request) {
	a, err := h.guard.AuthenticateAdmin(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req SessionConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cfg := domain.SessionConfig{Expiration: time.Duration(req.ExpirationSeconds) * time.Second}
	if err := h.meta.SetConfig(r.Context(), cfg); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	h.logger.InfoContext(r.Context(), "session config updated",
		slog.Int64("expiration_seconds", req.ExpirationSeconds),
		slog.String("actor_id", a.User().ID.Hex()),
	)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SessionConfigResponse{ExpirationSeconds: req.ExpirationSeconds},
	})
}
