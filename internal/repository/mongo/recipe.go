package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
)

// RecipeRepository implements repository.RecipeRepository over the recipes
// collection.
type RecipeRepository struct {
	coll *mongo.Collection
}

// NewRecipeRepository creates a MongoDB-backed recipe repository.
func NewRecipeRepository(coll *mongo.Collection) *RecipeRepository {
	return &RecipeRepository{coll: coll}
}

// Insert stores a new recipe and returns the id assigned by the store.
func (r *RecipeRepository) Insert(ctx context.Context, recipe *domain.Recipe) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, recipe)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert recipe: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return id, nil
}

// FindByID retrieves a recipe by id, or (nil, nil) when absent.
func (r *RecipeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return &recipe, nil
}

// List returns all recipes.
func (r *RecipeRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer cur.Close(ctx)

	recipes := []domain.Recipe{}
	if err := cur.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}

	return recipes, nil
}

// Replace overwrites the stored recipe document with the given id.
func (r *RecipeRepository) Replace(ctx context.Context, id primitive.ObjectID, recipe *domain.Recipe) error {
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, recipe); err != nil {
		return fmt.Errorf("replace recipe: %w", err)
	}
	return nil
}

// Delete removes a recipe by id.
func (r *RecipeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
