package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	URI      string
	Database string
}

// NewMongoConfig accepts MONGODB_URL or MONGODB_URI for the connection string.
func NewMongoConfig() (*MongoConfig, error) {
	uri := getEnv("MONGODB_URL", getEnv("MONGODB_URI", ""))
	if uri == "" {
		return nil, errors.New("MONGODB_URL environment variable is required")
	}

	return &MongoConfig{
		URI:      uri,
		Database: getEnv("MONGODB_DATABASE", "voting"),
	}, nil
}

func ConnectMongoDB(ctx context.Context, cfg *MongoConfig) (*mongo.Database, error) {
	if cfg.URI == "" {
		return nil, errors.New("MongoDB URI not provided")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	slog.Info("connected to MongoDB", "database", cfg.Database)
	return client.Database(cfg.Database), nil
}

// PingMongoDB backs the health endpoint.
func PingMongoDB(db *mongo.Database) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.Client().Ping(ctx, readpref.Primary())
	}
}
