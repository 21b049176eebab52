package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// DefaultMongoConfig returns sensible defaults for MongoDB.
func DefaultMongoConfig(uri, database string) MongoConfig {
	return MongoConfig{
		URI:            uri,
		Database:       database,
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    100,
	}
}

// NewMongoDatabase connects to MongoDB, verifies the connection with a ping,
// and returns a handle to the configured database.
func NewMongoDatabase(ctx context.Context, cfg MongoConfig) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(cfg.Database), nil
}

// CloseMongo disconnects the client backing the given database handle.
func CloseMongo(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return nil
	}
	return db.Client().Disconnect(ctx)
}
