package mongo

import (
	"context"
	"fmt"

	"github.com/mcg-platform/componentgen/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB wraps the Mongo client and the application database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect creates the client and verifies the deployment is reachable.
func Connect(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

// Ping verifies the connection is still alive.
func (d *DB) Ping(ctx context.Context) error {
	if d.client == nil {
		return fmt.Errorf("not connected")
	}
	return d.client.Ping(ctx, nil)
}

// Collection returns a handle for the named collection.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}
