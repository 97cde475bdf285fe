package db

import (
	"context"
	"fmt"

	"threadstory-be/internal/config"
	"threadstory-be/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// NewMongo connects to MongoDB and returns the configured database. Server
// selection is bounded by connectTimeout.
func NewMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, client.Database(cfg.MongoDatabase), nil
}

func InitMongo(cfg *config.Config) (*mongo.Client, *mongo.Database) {
	client, database, err := NewMongo(context.Background(), cfg)
	if err != nil {
		logger.L().Fatal("mongo unavailable", zap.Error(err))
	}

	logger.L().Info("mongo connection established", zap.String("database", cfg.MongoDatabase))
	return client, database
}
