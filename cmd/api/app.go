package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"school-supply-tracker-api-server/config"
	"school-supply-tracker-api-server/internal/database"
	"school-supply-tracker-api-server/internal/logger"
)

// store bundles the Mongo-backed repositories every command works with.
type store struct {
	client  *mongo.Client
	db      *mongo.Database
	users   *database.UserRepository
	items   *database.ItemRepository
	pickups *database.PickupLedger
}

func (s *store) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Warn("mongo disconnect failed", "error", err)
	}
}

// loadConfig reads configuration and sets up the process logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return cfg, fmt.Errorf("could not load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return cfg, fmt.Errorf("could not init logger: %w", err)
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.MongoConfig) (*store, error) {
	client, db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &store{
		client:  client,
		db:      db,
		users:   &database.UserRepository{DB: db},
		items:   &database.ItemRepository{DB: db},
		pickups: &database.PickupLedger{Client: client, DB: db},
	}, nil
}
