package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/periodic-tables/config"
	"github.com/Domenick1991/periodic-tables/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// OpenStore connects to the configured database, brings its schema up to date
// and returns the store together with a function that releases it.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (repository.Store, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := repository.NewPGStore(pool)
		if err := store.Migrate(ctx, log); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return store, pool.Close, nil

	case "mysql", "sqlite":
		db, err := repository.OpenGorm(cfg.Driver, cfg.DSN(), log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if cfg.Driver == "sqlite" {
			sqlDB.SetMaxOpenConns(1)
		}
		store := repository.NewGormStore(db)
		if err := store.Migrate(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate %s: %w", cfg.Driver, err)
		}
		return store, func() { _ = sqlDB.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
