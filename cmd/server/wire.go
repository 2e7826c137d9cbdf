package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/medical-agent/internal/config"
	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/repository/postgres"
	"github.com/Rrens/medical-agent/internal/repository/sqlite"
	"github.com/rs/zerolog/log"
)

// store is the session store selected by database.driver
type store struct {
	sessions domain.SessionRepository
	users    domain.UserRepository
	ping     func(ctx context.Context) error
	close    func()
}

func (s *store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "postgresql":
		if cfg.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DSN()); err != nil {
				return nil, err
			}
		}
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &store{
			sessions: postgres.NewSessionRepository(db),
			users:    postgres.NewUserRepository(db),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := db.Migrate(true); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &store{
			sessions: sqlite.NewSessionRepository(db),
			users:    sqlite.NewUserRepository(db),
			ping:     db.Ping,
			close: func() {
				if err := db.Close(); err != nil {
					log.Warn().Err(err).Msg("failed to close sqlite database")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
