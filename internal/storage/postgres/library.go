package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/library"
)

// LibraryRepository stores NPC records as JSONB rows in npc_library.
type LibraryRepository struct {
	db *pgxpool.Pool
}

// NewLibraryRepository creates a LibraryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the npc_library
// migration applied.
func NewLibraryRepository(db *pgxpool.Pool) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// Put upserts rec. The row's seq and saved_at are assigned on first insert
// and kept on update.
//
// Postcondition: Returns nil once the row reflects rec.
func (r *LibraryRepository) Put(ctx context.Context, rec *npc.NPC) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding npc: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO npc_library (id, record)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET record = EXCLUDED.record, updated_at = NOW()`,
		rec.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("upserting npc: %w", err)
	}
	return nil
}

// Get returns the record with id.
//
// Postcondition: Returns library.ErrNotFound when no row matches.
func (r *LibraryRepository) Get(ctx context.Context, id string) (*npc.NPC, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT record FROM npc_library WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, library.ErrNotFound
		}
		return nil, fmt.Errorf("querying npc: %w", err)
	}
	return library.Decode(raw)
}

// List returns every record ordered by first save, newest first.
func (r *LibraryRepository) List(ctx context.Context) ([]*npc.NPC, error) {
	rows, err := r.db.Query(ctx, `SELECT record FROM npc_library ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing npcs: %w", err)
	}
	defer rows.Close()

	var out []*npc.NPC
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning npc: %w", err)
		}
		rec, err := library.Decode(raw)
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

// Delete removes the record with id.
func (r *LibraryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM npc_library WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting npc: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return library.ErrNotFound
	}
	return nil
}

// Count returns the number of stored records.
func (r *LibraryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM npc_library`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting npcs: %w", err)
	}
	return n, nil
}

// Clear removes every record.
func (r *LibraryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM npc_library`); err != nil {
		return fmt.Errorf("clearing npcs: %w", err)
	}
	return nil
}
