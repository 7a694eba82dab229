package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/payflow/payment-gateway/internal/infrastructure/config"
	mongodb "github.com/payflow/payment-gateway/internal/infrastructure/db/mongo"
	"github.com/payflow/payment-gateway/pkg/logger"
)

const serviceName = "payment-gateway"

// store bundles the Mongo-backed repositories every command needs.
type store struct {
	client *mongo.Client
	db     *mongo.Database
	roles  *mongodb.RoleRepository
	users  *mongodb.UserRepository
}

// bootstrap loads configuration, initialises the logger and connects to
// MongoDB. Callers must call store.close.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, *store, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Version: Version,
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, log, nil, err
	}

	roles := mongodb.NewRoleRepository(db)
	return cfg, log, &store{
		client: client,
		db:     db,
		roles:  roles,
		users:  mongodb.NewUserRepository(db, roles),
	}, nil
}

func (s *store) ensureIndexes(ctx context.Context) error {
	if err := s.roles.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("role indexes: %w", err)
	}
	if err := s.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	return nil
}

func (s *store) close(ctx context.Context) {
	_ = s.client.Disconnect(ctx)
}
