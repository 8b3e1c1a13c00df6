package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/domain"
)

// MetaRepository implements repository.MetaRepository over the singleton
// meta collection.
type MetaRepository struct {
	coll *mongo.Collection
}

// NewMetaRepository creates a MongoDB-backed meta repository.
func NewMetaRepository(coll *mongo.Collection) *MetaRepository {
	return &MetaRepository{coll: coll}
}

// EnsureDefault seeds the default meta document if the collection is empty.
// Config returns an error until this has run once.
func (r *MetaRepository) EnsureDefault(ctx context.Context) error {
	err := r.coll.FindOne(ctx, bson.M{}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		meta := domain.Meta{Config: domain.DefaultSessionConfig()}
		if _, err := r.coll.InsertOne(ctx, meta); err != nil {
			return fmt.Errorf("seed meta document: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("probe meta document: %w", err)
	}
	return nil
}

// Config returns the current session configuration.
func (r *MetaRepository) Config(ctx context.Context) (domain.SessionConfig, error) {
	var meta domain.Meta
	err := r.coll.FindOne(ctx, bson.M{}).Decode(&meta)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.SessionConfig{}, errors.New("meta document not seeded")
	}
	if err != nil {
		return domain.SessionConfig{}, fmt.Errorf("load meta document: %w", err)
	}
	return meta.Config, nil
}

// SetConfig replaces the session configuration in place.
func (r *MetaRepository) SetConfig(ctx context.Context, cfg domain.SessionConfig) error {
	res := r.coll.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$set": bson.M{"config": cfg}})
	if err := res.Err(); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("update meta document: %w", err)
	}
	return nil
}
