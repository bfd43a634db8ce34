package importer

import (
	"context"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// Source produces spell reference entries from an external catalogue.
//
// Postcondition: Returns zero or more spells, or a non-nil error. Entries
// need not be sorted or unique; the Importer normalizes them.
type Source interface {
	Spells(ctx context.Context) ([]*ruleset.Spell, error)
}

// StaticSource serves a fixed list of spells. It backs dry runs and tests.
type StaticSource []*ruleset.Spell

// Spells implements Source.
func (s StaticSource) Spells(context.Context) ([]*ruleset.Spell, error) {
	return s, nil
}
