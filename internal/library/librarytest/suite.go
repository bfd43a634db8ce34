// Package librarytest provides a conformance suite every library.Store
// implementation must pass.
package librarytest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
	"github.com/cory-johannsen/npcforge/internal/library"
)

// StoreSuite exercises a library.Store produced fresh for every test.
type StoreSuite struct {
	suite.Suite
	NewStore func(t *testing.T) library.Store
	store    library.Store
}

// Run executes the conformance suite against stores built by newStore.
func Run(t *testing.T, newStore func(t *testing.T) library.Store) {
	suite.Run(t, &StoreSuite{NewStore: newStore})
}

// SetupTest builds a fresh store.
func (s *StoreSuite) SetupTest() {
	s.store = s.NewStore(s.T())
}

// Record returns a small but fully populated NPC with the given id.
func Record(id string) *npc.NPC {
	return &npc.NPC{
		ID:        id,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Sex:       "Female",
		Race:      "Dwarf",
		RaceID:    "dwarf",
		Alignment: "Neutral",
		Name:      fmt.Sprintf("Helja %q Ironfist", id),
		Version:   npc.RecordVersion,
		Block: statblock.Block{
			Tier:              ruleset.Veteran,
			ArchetypeID:       ruleset.Cleric,
			ArchetypeLabel:    "Cleric",
			ChallengeRating:   6,
			ProficiencyBonus:  3,
			ArmorClass:        16,
			HitPoints:         42,
			Speed:             25,
			AbilityScores:     statblock.Scores{STR: 13, DEX: 10, CON: 13, INT: 10, WIS: 16, CHA: 10},
			AbilityMods:       statblock.Scores{STR: 1, CON: 1, WIS: 3},
			SaveProficiencies: []ruleset.Ability{ruleset.WIS, ruleset.CHA},
			SavingThrows:      statblock.Scores{STR: 1, CON: 1, WIS: 6, CHA: 3},
			Actions: []statblock.Entry{{
				Name: "Mace",
				Text: "Melee Weapon Attack: +4 to hit.",
				Roll: &statblock.RollPayload{AttackBonus: 4, DamageDice: "1d6", DamageMod: 1},
			}},
		},
	}
}

func (s *StoreSuite) ids(recs []*npc.NPC) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func (s *StoreSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	rec := Record("a")
	s.Require().NoError(s.store.Put(ctx, rec))

	got, err := s.store.Get(ctx, "a")
	s.Require().NoError(err)
	s.Equal(rec, got)
}

func (s *StoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "missing")
	s.ErrorIs(err, library.ErrNotFound)
}

func (s *StoreSuite) TestListNewestFirstAndUpsertKeepsPosition() {
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		s.Require().NoError(s.store.Put(ctx, Record(id)))
	}
	updated := Record("a")
	updated.Notes = "revised"
	s.Require().NoError(s.store.Put(ctx, updated))

	recs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"c", "b", "a"}, s.ids(recs))
	s.Equal("revised", recs[2].Notes)

	n, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(3, n)
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, Record("a")))
	s.Require().NoError(s.store.Put(ctx, Record("b")))

	s.Require().NoError(s.store.Delete(ctx, "a"))
	s.ErrorIs(s.store.Delete(ctx, "a"), library.ErrNotFound)

	recs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"b"}, s.ids(recs))
}

func (s *StoreSuite) TestClear() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, Record("a")))
	s.Require().NoError(s.store.Clear(ctx))

	n, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Zero(n)
	recs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Empty(recs)

	s.Require().NoError(s.store.Put(ctx, Record("b")))
	n, err = s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}
