package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/auth"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/service"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/httputil"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/validator"
)

// UserHandler handles HTTP requests for account endpoints.
type UserHandler struct {
	service *service.UserService
	guard   *auth.Guard
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, guard *auth.Guard, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, guard: guard, logger: logger}
}

// Me handles GET /api/v1/users/me. Any authenticated user sees their own
// sanitized account.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	a, err := h.guard.Authenticate(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	user := *a.User()
	user.Sanitize()

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// List handles GET /api/v1/users. Admin only.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.AuthenticateAdmin(r); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: users})
}

// Get handles GET /api/v1/users/{id}. The requester must be the account
// owner or an admin.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := h.guard.AuthenticateSelfOrAdmin(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if _, err := a.User(id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// Update handles PATCH /api/v1/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := h.guard.AuthenticateSelfOrAdmin(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	actor, err := a.User(id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var input service.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.Update(r.Context(), actor, id, input); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.Hex()}})
}

// Delete handles DELETE /api/v1/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := h.guard.AuthenticateSelfOrAdmin(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if _, err := a.User(id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path parameter as an object id.
func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid id"},
		})
		return primitive.NilObjectID, false
	}
	return id, true
}
