package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/auth"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/service"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/httputil"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/validator"
)

// RecipeHandler handles HTTP requests for recipe endpoints. Reads are
// public; writes require a session.
type RecipeHandler struct {
	service *service.RecipeService
	guard   *auth.Guard
	logger  *slog.Logger
}

// NewRecipeHandler creates a new recipe HTTP handler.
func NewRecipeHandler(svc *service.RecipeService, guard *auth.Guard, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{service: svc, guard: guard, logger: logger}
}

// RecipeRequest is the JSON request body for creating or updating a recipe.
type RecipeRequest struct {
	Title        string              `json:"title" validate:"required,min=1,max=256"`
	Description  string              `json:"description" validate:"max=4096"`
	Servings     string              `json:"servings" validate:"max=64"`
	Ingredients  []domain.Ingredient `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	Tags         []string            `json:"tags"`
	Categories   []string            `json:"categories"`
	PrepTime     string              `json:"prep_time" validate:"max=64"`
	CookTime     string              `json:"cook_time" validate:"max=64"`
}

func (req RecipeRequest) toDomain() *domain.Recipe {
	return &domain.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Servings:     req.Servings,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Tags:         req.Tags,
		Categories:   req.Categories,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
	}
}

// List handles GET /api/v1/recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: recipes})
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	recipe, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: recipe})
}

// Create handles POST /api/v1/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, err := h.guard.Authenticate(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	req, ok := decodeRecipe(w, r)
	if !ok {
		return
	}

	id, err := h.service.Create(r.Context(), a.User(), req.toDomain())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]string{"id": id.Hex()}})
}

// Update handles PATCH /api/v1/recipes/{id}.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.Authenticate(r); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, ok := decodeRecipe(w, r)
	if !ok {
		return
	}

	if err := h.service.Update(r.Context(), id, req.toDomain()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.Hex()}})
}

// Delete handles DELETE /api/v1/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, err := h.guard.Authenticate(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), a.User(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeRecipe(w http.ResponseWriter, r *http.Request) (RecipeRequest, bool) {
	var req RecipeRequest
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
