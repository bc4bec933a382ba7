// Package app wires configuration, storage and the service for the binaries in cmd/.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/config"
	"github.com/Kerhoff/ChoreboT/internal/repository/memory"
	"github.com/Kerhoff/ChoreboT/internal/repository/postgres"
	"github.com/Kerhoff/ChoreboT/internal/service"
)

// NewService opens the configured storage and builds the service on top of
// it. The returned close function releases the storage.
func NewService(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*service.Service, func() error, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.New()
		svc := service.New(logger,
			store.Users(), store.JobTypes(), store.Jobs(), store.UserPairs(), store.JobInvites(),
		)
		return svc, func() error { return nil }, nil

	case config.StoragePostgres:
		db, err := config.NewDatabase(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, err
		}

		svc := service.New(logger,
			postgres.NewUserRepository(db.DB),
			postgres.NewJobTypeRepository(db.DB),
			postgres.NewJobRepository(db.DB),
			postgres.NewUserPairRepository(db.DB),
			postgres.NewJobInviteRepository(db.DB),
		)
		return svc, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
