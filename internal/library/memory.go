package library

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
)

// MemoryStore is an in-process Store. Records are stored as JSON so callers
// never share mutable state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string // oldest first
	data  map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, rec *npc.NPC) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding npc: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[rec.ID]; !ok {
		m.order = append(m.order, rec.ID)
	}
	m.data[rec.ID] = raw
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id string) (*npc.NPC, error) {
	m.mu.RLock()
	raw, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Decode(raw)
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]*npc.NPC, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*npc.NPC, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		rec, err := Decode(m.data[m.order[i]])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return ErrNotFound
	}
	delete(m.data, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data), nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	m.data = make(map[string][]byte)
	return nil
}

// Decode parses a stored JSON record.
func Decode(raw []byte) (*npc.NPC, error) {
	var rec npc.NPC
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding npc: %w", err)
	}
	return &rec, nil
}
