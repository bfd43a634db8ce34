// Package sqlite implements the NPC library on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/library"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const opTimeout = 3 * time.Second

// LibraryStore stores NPC records as JSON text rows.
type LibraryStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// library schema exists.
//
// Precondition: path must be non-empty.
// Postcondition: Returns a ready store or a non-nil error; the caller owns Close.
func Open(ctx context.Context, path string) (*LibraryStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("empty sqlite database path")
	}
	if path != MemoryPath {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, fmt.Errorf("creating sqlite directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &LibraryStore{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS npc_library (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT    NOT NULL UNIQUE,
			record     TEXT    NOT NULL,
			saved_at   INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("creating npc_library: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *LibraryStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put implements library.Store. The row keeps its seq on update.
func (s *LibraryStore) Put(ctx context.Context, rec *npc.NPC) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding npc: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO npc_library (id, record, saved_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE
		SET record = excluded.record, updated_at = excluded.updated_at`,
		rec.ID, string(raw), now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting npc: %w", err)
	}
	return nil
}

// Get implements library.Store.
func (s *LibraryStore) Get(ctx context.Context, id string) (*npc.NPC, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM npc_library WHERE id = ?`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, library.ErrNotFound
		}
		return nil, fmt.Errorf("querying npc: %w", err)
	}
	return library.Decode([]byte(raw))
}

// List implements library.Store.
func (s *LibraryStore) List(ctx context.Context) ([]*npc.NPC, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT record FROM npc_library ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing npcs: %w", err)
	}
	defer rows.Close()

	var out []*npc.NPC
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning npc: %w", err)
		}
		rec, err := library.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating npcs: %w", err)
	}
	return out, nil
}

// Delete implements library.Store.
func (s *LibraryStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM npc_library WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting npc: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting npc: %w", err)
	}
	if n == 0 {
		return library.ErrNotFound
	}
	return nil
}

// Count implements library.Store.
func (s *LibraryStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM npc_library`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting npcs: %w", err)
	}
	return n, nil
}

// Clear implements library.Store.
func (s *LibraryStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM npc_library`); err != nil {
		return fmt.Errorf("clearing npcs: %w", err)
	}
	return nil
}
