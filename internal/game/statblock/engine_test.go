package statblock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

func TestComputeStatsFor_MartialVeteranHuman(t *testing.T) {
	tbl := loadTables(t)
	e := statblock.NewEngine(tbl, dice.NewCryptoSource(), statblock.WithLogger(zaptest.NewLogger(t)))

	b := e.ComputeStatsFor("martial", ruleset.Veteran, "Human")
	assert.Equal(t, ruleset.Martial, b.ArchetypeID)
	assert.Equal(t, "Martial", b.ArchetypeLabel)
	assert.Equal(t, 3, b.ProficiencyBonus)
	assert.Equal(t, 6, b.ChallengeRating)
	assert.Equal(t, 30+b.AbilityMods.CON*6, b.HitPoints)
	assert.GreaterOrEqual(t, b.ArmorClass, 12)
	assert.LessOrEqual(t, b.ArmorClass, 18)
	assert.Equal(t, 30, b.Speed)
	assert.Equal(t, b.AbilityMods.DEX, b.Initiative)

	assert.Len(t, b.Traits, 2)
	assert.Len(t, b.Reactions, 1)
	require.Len(t, b.Actions, 2)
	assert.Equal(t, statblock.MultiattackName, b.Actions[0].Name)
	word, list := multiattackNames(b.Actions[0].Text)
	assert.Equal(t, "two", word)
	assert.Len(t, list, 2)
}

func TestComputeStatsFor_Coercions(t *testing.T) {
	tbl := loadTables(t)
	e := statblock.NewEngine(tbl, dice.NewSeededSource(3))

	b := e.ComputeStatsFor("paladin", ruleset.Tier(42), "Gnome")
	assert.Equal(t, tbl.Archetypes[0].ID, b.ArchetypeID)
	assert.Equal(t, ruleset.Novice, b.Tier)
	assert.Equal(t, 30, b.Speed)

	b = e.ComputeStatsFor("Brute", ruleset.Elite, "dwarf")
	assert.Equal(t, ruleset.Brute, b.ArchetypeID)
	assert.Equal(t, 25, b.Speed)
}

func TestComputeStatsFor_CasterHasNoMultiattack(t *testing.T) {
	tbl := loadTables(t)
	e := statblock.NewEngine(tbl, dice.NewSeededSource(11))
	for _, tier := range ruleset.Tiers() {
		b := e.ComputeStatsFor("caster", tier, "Elf")
		for _, a := range b.Actions {
			assert.NotEqual(t, statblock.MultiattackName, a.Name)
		}
		assert.Len(t, b.Actions, tier.Info().Actions)
	}
}

func TestComputeStatsFor_MultiattackFallsBackToWildcardAttacks(t *testing.T) {
	brute := &ruleset.Archetype{ID: ruleset.Brute, Label: "Brute", Primary: []ruleset.Ability{ruleset.STR}}
	tbl := &ruleset.Tables{
		Archetypes: []*ruleset.Archetype{brute},
		Actions: []*ruleset.Behavior{
			{Name: "Ground Stomp", Tags: []string{"brute"}, SaveAbility: ruleset.STR, Text: "DC {dc}"},
			{Name: "Roar", Tags: []string{"brute"}, Text: "Roar."},
			{Name: "Club", Tags: []string{"any"}, AttackAbility: ruleset.STR, Damage: "1d4", Text: "{toHit}"},
		},
	}
	e := statblock.NewEngine(tbl, dice.NewSeededSource(5))

	b := e.ComputeStatsFor("brute", ruleset.Veteran, "Human")
	require.Len(t, b.Actions, 2)
	assert.Equal(t, statblock.MultiattackName, b.Actions[0].Name)
	assert.Equal(t, "The creature makes two attacks: Club and Club.", b.Actions[0].Text)
}

func TestComputeStatsFor_NoArchetypesLoaded(t *testing.T) {
	e := statblock.NewEngine(&ruleset.Tables{}, dice.NewSeededSource(1))
	b := e.ComputeStatsFor("martial", ruleset.Elite, "Human")
	assert.Equal(t, statblock.Uniform(10), b.AbilityScores)
	assert.Empty(t, b.Actions)
	assert.Len(t, b.SaveProficiencies, 2)
}

func TestComputeStatsFor_DeterministicUnderFixedSource(t *testing.T) {
	tbl := loadTables(t)
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		arch := rapid.SampledFrom(ruleset.ArchetypeIDs()).Draw(rt, "archetype")
		tier := rapid.SampledFrom(ruleset.Tiers()).Draw(rt, "tier")

		a := statblock.NewEngine(tbl, dice.NewSeededSource(seed)).ComputeStatsFor(string(arch), tier, "Human")
		b := statblock.NewEngine(tbl, dice.NewSeededSource(seed)).ComputeStatsFor(string(arch), tier, "Human")
		assert.Equal(rt, a, b)
	})
}

func TestComputeStatsFor_Invariants(t *testing.T) {
	tbl := loadTables(t)
	races := tbl.RaceOptions()
	rapid.Check(t, func(rt *rapid.T) {
		arch := rapid.SampledFrom(ruleset.ArchetypeIDs()).Draw(rt, "archetype")
		tier := rapid.SampledFrom(ruleset.Tiers()).Draw(rt, "tier")
		race := rapid.SampledFrom(races).Draw(rt, "race")
		e := statblock.NewEngine(tbl, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))

		b := e.ComputeStatsFor(string(arch), tier, race.Label)
		info := tier.Info()

		hi := 20
		if info.Compressed {
			hi = 14
		}
		for _, k := range ruleset.Abilities() {
			assert.GreaterOrEqual(rt, b.AbilityScores.Get(k), 8)
			assert.LessOrEqual(rt, b.AbilityScores.Get(k), hi)
		}
		assert.GreaterOrEqual(rt, b.HitPoints, 1)
		assert.GreaterOrEqual(rt, b.ArmorClass, 10)
		assert.LessOrEqual(rt, b.ArmorClass, 20)

		require.Len(rt, b.SaveProficiencies, 2)
		assert.NotEqual(rt, b.SaveProficiencies[0], b.SaveProficiencies[1])
		for _, k := range ruleset.Abilities() {
			want := b.AbilityMods.Get(k)
			if statblock.Proficient(b.SaveProficiencies, k) {
				want += b.ProficiencyBonus
			}
			assert.Equal(rt, want, b.SavingThrows.Get(k), "save %s", k)
		}

		assert.Len(rt, b.Traits, info.Traits)
		assert.Len(rt, b.Actions, info.Actions)
		assert.Len(rt, b.Reactions, info.Reactions)

		if !arch.PureCaster() && info.Multiattack > 0 {
			require.NotEmpty(rt, b.Actions)
			require.Equal(rt, statblock.MultiattackName, b.Actions[0].Name)
			word, list := multiattackNames(b.Actions[0].Text)
			assert.Equal(rt, statblock.CountWord(len(list)), word)
			assert.Len(rt, list, info.Multiattack)
		}
		for _, entry := range b.Entries() {
			for _, p := range statblock.Placeholders() {
				assert.NotContains(rt, entry.Text, p)
			}
		}
	})
}
