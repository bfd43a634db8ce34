package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/npcforge/internal/config"
	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
	"github.com/cory-johannsen/npcforge/internal/library"
	"github.com/cory-johannsen/npcforge/internal/observability"
	"github.com/cory-johannsen/npcforge/internal/storage/postgres"
	"github.com/cory-johannsen/npcforge/internal/storage/redis"
	"github.com/cory-johannsen/npcforge/internal/storage/sqlite"
)

// app holds the process-wide collaborators shared by every subcommand.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	out    io.Writer
	asJSON bool

	src       dice.Source
	tables    *ruleset.Tables
	generator *npc.Generator
	roller    *statblock.Roller
	library   *library.Service
	closers   []func()
}

// loadContent reads the content tables and builds the generator.
//
// Postcondition: a.tables, a.generator and a.roller are set, or an error is returned.
func (a *app) loadContent(ctx context.Context) error {
	if a.generator != nil {
		return nil
	}
	start := time.Now()
	tables, err := ruleset.LoadTables(ctx, a.cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	a.logger.Info("content loaded",
		zap.String("dir", a.cfg.Content.Dir),
		zap.Int("archetypes", len(tables.Archetypes)),
		zap.Int("races", len(tables.Races)),
		zap.Int("spells", len(tables.Spells)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if a.src == nil {
		a.src = newSource(a.cfg.Generator.Seed)
	}
	engine := statblock.NewEngine(tables, a.src,
		statblock.WithRetryCap(a.cfg.Generator.RetryCap),
		statblock.WithLogger(observability.Component(a.logger, "engine")),
	)
	a.tables = tables
	a.generator = npc.NewGenerator(engine, a.src, npc.WithLogger(observability.Component(a.logger, "generator")))
	a.roller = statblock.NewRoller(a.src, observability.Component(a.logger, "dice"))
	return nil
}

// openLibrary connects the configured storage backend.
//
// Postcondition: a.library is set and its release is queued on a.closers,
// or an error is returned.
func (a *app) openLibrary(ctx context.Context) error {
	if a.library != nil {
		return nil
	}
	start := time.Now()
	store, closer, err := openStore(ctx, a.cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.library = library.NewService(store, a.cfg.Storage.Capacity, observability.Component(a.logger, "library"))
	a.logger.Info("library opened",
		zap.String("driver", a.cfg.Storage.Driver),
		zap.Int("capacity", a.cfg.Storage.Capacity),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// shutdown runs the queued closers in reverse order and syncs the logger.
func (a *app) shutdown() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newSource(seed uint64) dice.Source {
	if seed != 0 {
		return dice.NewSeededSource(seed)
	}
	return dice.NewCryptoSource()
}

func openStore(ctx context.Context, cfg config.Config) (library.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return library.NewMemoryStore(), nil, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite library: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case config.DriverPostgres:
		repo, pool, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres library: %w", err)
		}
		return repo, pool.Close, nil
	case config.DriverRedis:
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("pinging redis: %w", err)
		}
		return redis.NewLibraryStore(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// printNPC writes n as text or indented JSON.
func (a *app) printNPC(n *npc.NPC) error {
	if a.asJSON {
		return a.printJSON(n)
	}
	_, err := fmt.Fprintln(a.out, npc.FormatText(n))
	return err
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
