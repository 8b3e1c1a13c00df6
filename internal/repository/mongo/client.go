// Package mongo implements the store contracts on top of MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection   = "users"
	recipesCollection = "recipes"
	metaCollection    = "meta"

	connectTimeout = 10 * time.Second
)

// Client bundles the database handle with the repositories built on it.
type Client struct {
	client *mongo.Client
	db     *mongo.Database

	Users   *UserRepository
	Recipes *RecipeRepository
	Meta    *MetaRepository
}

// Connect dials the given MongoDB URI, verifies the connection with a ping,
// and wires the repositories over the named database.
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)

	return &Client{
		client:  client,
		db:      db,
		Users:   NewUserRepository(db.Collection(usersCollection)),
		Recipes: NewRecipeRepository(db.Collection(recipesCollection)),
		Meta:    NewMetaRepository(db.Collection(metaCollection)),
	}, nil
}

// Ping verifies the connection is still healthy.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close tears down the underlying connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
