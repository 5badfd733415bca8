// Package mongo provides the MongoDB-backed credential store.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	appName        = "vitrine-portal"
	defaultTimeout = 10 * time.Second
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// clientOptions fails server selection within the boot timeout and requires
// majority acknowledgement, so a reconciled digest survives a primary step-down.
func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(cfg.timeout()).
		SetWriteConcern(writeconcern.Majority())
}

// Open connects, pings, ensures the accounts indexes and returns the
// repository with the client's Disconnect as its close function.
func Open(ctx context.Context, cfg Config) (*AccountRepository, func(context.Context) error, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	repo := NewAccountRepository(client.Database(cfg.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return repo, client.Disconnect, nil
}
