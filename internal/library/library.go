// Package library keeps a bounded, newest-first collection of saved NPCs on
// top of a pluggable Store.
package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
)

// DefaultCapacity is the maximum number of saved records.
const DefaultCapacity = 100

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("npc not found")
	// ErrFull is returned when saving a new record into a library at capacity.
	ErrFull = errors.New("library is full")
)

// Store persists NPC records keyed by id.
//
// Implementations MUST preserve the original save order of a record when it
// is overwritten, and List MUST return records most recently added first.
type Store interface {
	// Put inserts rec or replaces the record with the same id.
	Put(ctx context.Context, rec *npc.NPC) error
	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*npc.NPC, error)
	// List returns every record, newest first.
	List(ctx context.Context) ([]*npc.NPC, error)
	// Delete removes the record with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
	// Clear removes every record.
	Clear(ctx context.Context) error
}

// Service enforces library capacity over a Store.
//
// Saves through one Service are serialized, so a single process never
// overfills the library. The exists, count and put steps are separate Store
// calls, so two processes sharing a postgres or redis backend can together
// exceed the capacity by their number of concurrent writers.
type Service struct {
	saveMu   sync.Mutex
	store    Store
	capacity int
	logger   *zap.Logger
}

// NewService wraps store with a capacity limit. A capacity below 1 selects
// DefaultCapacity; a nil logger is replaced by a no-op logger.
//
// Precondition: store must be non-nil.
func NewService(store Store, capacity int, logger *zap.Logger) *Service {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, capacity: capacity, logger: logger}
}

// Capacity returns the maximum number of records.
func (s *Service) Capacity() int {
	return s.capacity
}

// Save stores rec. Updating an existing record always succeeds; adding a new
// record to a full library returns ErrFull.
//
// Precondition: rec must be non-nil with a non-empty ID.
func (s *Service) Save(ctx context.Context, rec *npc.NPC) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("saving npc: record must have an id")
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	exists, err := s.Exists(ctx, rec.ID)
	if err != nil {
		return err
	}
	if !exists {
		full, err := s.IsFull(ctx)
		if err != nil {
			return err
		}
		if full {
			return fmt.Errorf("saving npc %s: %w (maximum %d)", rec.ID, ErrFull, s.capacity)
		}
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("saving npc %s: %w", rec.ID, err)
	}
	s.logger.Info("npc saved", zap.String("id", rec.ID), zap.String("name", rec.Name), zap.Bool("update", exists))
	return nil
}

// Get returns the record with id.
func (s *Service) Get(ctx context.Context, id string) (*npc.NPC, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading npc %s: %w", id, err)
	}
	return rec, nil
}

// List returns every saved record, newest first.
func (s *Service) List(ctx context.Context) ([]*npc.NPC, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing npcs: %w", err)
	}
	return recs, nil
}

// Delete removes the record with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting npc %s: %w", id, err)
	}
	s.logger.Info("npc deleted", zap.String("id", id))
	return nil
}

// Exists reports whether a record with id is saved.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("checking npc %s: %w", id, err)
	}
}

// Count returns the number of saved records.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting npcs: %w", err)
	}
	return n, nil
}

// IsFull reports whether the library has reached capacity.
func (s *Service) IsFull(ctx context.Context) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	return n >= s.capacity, nil
}

// Clear removes every saved record.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing library: %w", err)
	}
	s.logger.Warn("library cleared")
	return nil
}

// UpdateNotes replaces the notes of a saved record.
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*npc.NPC, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Notes = notes
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("updating notes for npc %s: %w", id, err)
	}
	return rec, nil
}
