package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stevenscomputer/site/internal/config"
)

// Open connects to the store selected by cfg.Driver and runs the liveness
// check. The returned store owns its pool; callers must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (ContactStore, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		db, err := NewMySQLDB(cfg)
		if err != nil {
			return nil, err
		}
		store := NewMySQLContactStore(db)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case config.DriverPostgres, "":
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := NewPgContactStore(pool)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPool creates a PostgreSQL connection pool capped at cfg.PoolSize.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolCfg.MaxConns = int32(cfg.PoolSize)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	return pool, nil
}

// NewMySQLDB opens a MySQL handle capped at cfg.PoolSize open connections.
// parseTime is forced on so created_at scans into time.Time.
func NewMySQLDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	myCfg, err := mysql.ParseDSN(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	myCfg.ParseTime = true

	connector, err := mysql.NewConnector(myCfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if cfg.PoolSize > 0 {
		db.SetMaxOpenConns(cfg.PoolSize)
		db.SetMaxIdleConns(cfg.PoolSize)
	}
	return db, nil
}
