package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/common/logger"
	"vocab-progress-backend/internal/features/progress/models"
	"vocab-progress-backend/internal/features/progress/repository"
	"vocab-progress-backend/internal/features/progress/repository/memory"
	progresspg "vocab-progress-backend/internal/features/progress/repository/postgres"
	progressredis "vocab-progress-backend/internal/features/progress/repository/redis"
	"vocab-progress-backend/internal/features/progress/service"
	"vocab-progress-backend/internal/platform/postgres"
	"vocab-progress-backend/internal/platform/redis"
)

// Storage holds the platform clients and the progress backends built on them.
type Storage struct {
	Redis    *redis.Client
	Postgres *postgres.Client // nil with the memory durable backend
	Session  repository.Backend
	Durable  repository.Backend
}

// OpenStorage connects to Redis and the configured durable backend.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	rdb, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	s := &Storage{
		Redis:   rdb,
		Session: progressredis.NewSessionRepository(rdb.Client, cfg.Storage.Key, cfg.Storage.SessionTTL),
	}

	switch cfg.Storage.Durable {
	case "memory":
		logger.Warn().Msg("Durable backend is in-memory, progress will not survive a restart")
		s.Durable = memory.NewRepository("memory")
	default:
		pg, err := postgres.NewClient(ctx, cfg.Postgres)
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo := progresspg.NewProfileRepository(pg.GetDB())
		if cfg.Postgres.AutoMigrate {
			if err := repo.EnsureSchema(ctx); err != nil {
				_ = pg.Close()
				_ = rdb.Close()
				return nil, fmt.Errorf("ensure schema: %w", err)
			}
		}
		s.Postgres = pg
		s.Durable = repo
	}
	return s, nil
}

// Backends returns the load order: session first, durable second.
func (s *Storage) Backends() []repository.Backend {
	return []repository.Backend{s.Session, s.Durable}
}

// StoreFactory opens learner stores over these backends.
func (s *Storage) StoreFactory(policy service.RewardPolicy, catalog models.Catalog) service.StoreFactory {
	backends := s.Backends()
	return func(ctx context.Context, learnerID string) (*service.Store, error) {
		return service.Open(ctx, learnerID, service.Options{
			Policy:   policy,
			Catalog:  catalog,
			Backends: backends,
		})
	}
}

// HealthCheck pings every connected client.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.Redis.HealthCheck(ctx); err != nil {
		return fmt.Errorf("redis unavailable: %w", err)
	}
	if s.Postgres != nil {
		if err := s.Postgres.HealthCheck(ctx); err != nil {
			return fmt.Errorf("postgres unavailable: %w", err)
		}
	}
	return nil
}

func (s *Storage) Close() error {
	var errs []error
	if s.Postgres != nil {
		errs = append(errs, s.Postgres.Close())
	}
	errs = append(errs, s.Redis.Close())
	return errors.Join(errs...)
}
