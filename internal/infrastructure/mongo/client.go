package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/focusflow/backend/internal/config"
)

// Connect creates a MongoDB client, validates connectivity and returns the
// application database handle.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxPoolSize))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.Database))
	return client, client.Database(cfg.Database), nil
}
