// Package storage opens the configured fact store driver.
package storage

import (
	"context"
	"fmt"

	"github.com/lorrc/field-service-analytics/internal/adapters/secondary/postgres"
	"github.com/lorrc/field-service-analytics/internal/adapters/secondary/sqlite"
	"github.com/lorrc/field-service-analytics/internal/config"
	"github.com/lorrc/field-service-analytics/internal/core/ports"
)

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is an opened fact store.
type Store struct {
	Driver string
	Reader ports.FactReader
	Health Pinger
	close  func() error
}

// Close releases the store's connections.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the store named by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			URL:             cfg.URL,
			MaxConns:        cfg.MaxOpenConns,
			MinConns:        cfg.MaxIdleConns,
			MaxConnLifetime: cfg.ConnMaxLifetime,
			MaxConnIdleTime: cfg.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Driver,
			Reader: postgres.NewFactRepository(pool),
			Health: pool,
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Driver,
			Reader: sqlite.NewFactRepository(db),
			Health: db,
			close:  db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
