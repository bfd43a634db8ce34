package npc

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces record identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator produces random UUIDv4 identifiers.
type UUIDGenerator struct{}

// Generate returns a new UUID string.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// SequentialGenerator produces predictable identifiers, e.g. "npc-1", "npc-2".
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential returns a SequentialGenerator using prefix.
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next identifier in sequence.
func (g *SequentialGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, atomic.AddUint64(&g.counter, 1))
}
