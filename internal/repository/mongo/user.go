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

// UserRepository implements repository.UserRepository over the users
// collection.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a MongoDB-backed user repository.
func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

// Insert stores a new user and returns the id assigned by the store.
func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return id, nil
}

// FindByID retrieves a user by id, or (nil, nil) when absent.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByUsername retrieves a user by username, or (nil, nil) when absent.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByToken retrieves the user whose token set contains the given token,
// or (nil, nil) when no user owns it.
func (r *UserRepository) FindByToken(ctx context.Context, token domain.Token) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"tokens": bson.M{"$elemMatch": bson.M{"token": token}},
	})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// List returns all users.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	users := []domain.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return users, nil
}

// Replace overwrites the stored user document with the given id.
func (r *UserRepository) Replace(ctx context.Context, id primitive.ObjectID, user *domain.User) error {
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, user); err != nil {
		return fmt.Errorf("replace user: %w", err)
	}
	return nil
}

// RemoveToken pulls a single dated token out of the user's token set.
// Pulling an absent token matches zero array elements and is a no-op.
func (r *UserRepository) RemoveToken(ctx context.Context, user *domain.User, token domain.DatedToken) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"username": user.Username},
		bson.M{"$pull": bson.M{"tokens": token}},
	)
	if err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Delete removes a user by id.
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
