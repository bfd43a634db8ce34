// Package postgres provides the PostgreSQL-backed NPC library using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/npcforge/internal/config"
)

// ErrNotMigrated is returned by Open when the npc_library table is missing.
var ErrNotMigrated = errors.New("npc_library table missing; run the migrate command")

// Pool owns the pgx connection pool shared by the library repository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the database described by cfg.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "npcforge"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Open connects and checks that the library schema has been migrated.
//
// Postcondition: Returns a ready repository and its pool, or ErrNotMigrated,
// or a connection error. The caller closes the pool.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*LibraryRepository, *Pool, error) {
	p, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	var present bool
	err = p.pool.QueryRow(ctx, `SELECT to_regclass('npc_library') IS NOT NULL`).Scan(&present)
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("checking schema: %w", err)
	}
	if !present {
		p.Close()
		return nil, nil, ErrNotMigrated
	}
	return NewLibraryRepository(p.pool), p, nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
