package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/repository"
	apperrors "github.com/PresidentialParadise/The-Big-Cheese/pkg/errors"
)

// RecipeService implements recipe management. Reads are public; writes take
// the authenticated actor so the account's recipe list can be kept in step.
type RecipeService struct {
	recipes repository.RecipeRepository
	users   repository.UserRepository
	logger  *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	recipes repository.RecipeRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{recipes: recipes, users: users, logger: logger}
}

// List returns all recipes.
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	return s.recipes.List(ctx)
}

// Get returns a single recipe.
func (s *RecipeService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, apperrors.NotFound("recipe", id.Hex())
	}
	return recipe, nil
}

// Create stores a new recipe and records it on the actor's account.
// The recipe-list update is best-effort: the recipe exists either way.
func (s *RecipeService) Create(ctx context.Context, actor *domain.User, recipe *domain.Recipe) (primitive.ObjectID, error) {
	if err := validateUnits(recipe); err != nil {
		return primitive.NilObjectID, err
	}

	id, err := s.recipes.Insert(ctx, recipe)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("create recipe: %w", err)
	}

	actor.Recipes = append(actor.Recipes, id)
	if err := s.users.Replace(ctx, actor.ID, actor); err != nil {
		s.logger.WarnContext(ctx, "failed to record recipe on account",
			slog.String("recipe_id", id.Hex()),
			slog.String("user_id", actor.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "recipe created",
		slog.String("recipe_id", id.Hex()),
		slog.String("user_id", actor.ID.Hex()),
	)

	return id, nil
}

// Update overwrites the recipe identified by id.
func (s *RecipeService) Update(ctx context.Context, id primitive.ObjectID, recipe *domain.Recipe) error {
	if err := validateUnits(recipe); err != nil {
		return err
	}

	stored, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if stored == nil {
		return apperrors.NotFound("recipe", id.Hex())
	}

	recipe.ID = id
	if err := s.recipes.Replace(ctx, id, recipe); err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	return nil
}

// Delete removes the recipe identified by id and drops it from the actor's
// recipe list when present.
func (s *RecipeService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	stored, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if stored == nil {
		return apperrors.NotFound("recipe", id.Hex())
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	if removeRecipeRef(actor, id) {
		if err := s.users.Replace(ctx, actor.ID, actor); err != nil {
			s.logger.WarnContext(ctx, "failed to drop recipe from account",
				slog.String("recipe_id", id.Hex()),
				slog.String("user_id", actor.ID.Hex()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "recipe deleted",
		slog.String("recipe_id", id.Hex()),
		slog.String("user_id", actor.ID.Hex()),
	)

	return nil
}

// validateUnits rejects recipes whose ingredient quantities use an unknown
// measurement unit.
func validateUnits(recipe *domain.Recipe) error {
	for _, ing := range recipe.Ingredients {
		if !domain.ValidUnit(ing.Quantity.Unit) {
			return apperrors.InvalidInput(fmt.Sprintf("unknown unit %q for ingredient %q", ing.Quantity.Unit, ing.Title))
		}
	}
	return nil
}

func removeRecipeRef(user *domain.User, id primitive.ObjectID) bool {
	for i, ref := range user.Recipes {
		if ref == id {
			user.Recipes = append(user.Recipes[:i], user.Recipes[i+1:]...)
			return true
		}
	}
	return false
}
