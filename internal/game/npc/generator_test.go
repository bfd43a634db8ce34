package npc_test

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func loadTables(t testing.TB) *ruleset.Tables {
	t.Helper()
	tables, err := ruleset.LoadTables(context.Background(), "../../../content")
	require.NoError(t, err)
	return tables
}

func newGenerator(tables *ruleset.Tables, seed uint64) *npc.Generator {
	src := dice.NewSeededSource(seed)
	engine := statblock.NewEngine(tables, src)
	return npc.NewGenerator(engine, src,
		npc.WithIDGenerator(npc.NewSequential("npc")),
		npc.WithClock(func() time.Time { return fixedTime }),
	)
}

func TestGenerate_ConcreteCriteria(t *testing.T) {
	tables := loadTables(t)
	src := dice.NewSeededSource(7)
	g := npc.NewGenerator(statblock.NewEngine(tables, src), src, npc.WithLogger(zaptest.NewLogger(t)))

	n := g.Generate(npc.Criteria{
		Sex:       "Female",
		Race:      npc.RaceChoice{ID: "dwarf", Label: "Dwarf"},
		Alignment: "Evil",
		Archetype: "cleric",
		Tier:      "Elite",
	})
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "Female", n.Sex)
	assert.Equal(t, "Dwarf", n.Race)
	assert.Equal(t, "dwarf", n.RaceID)
	assert.Equal(t, "Evil", n.Alignment)
	assert.Equal(t, ruleset.Cleric, n.ArchetypeID)
	assert.Equal(t, ruleset.Elite, n.Tier)
	assert.Equal(t, 25, n.Speed)
	assert.Equal(t, npc.RecordVersion, n.Version)
	assert.Regexp(t, regexp.MustCompile(`^\S+ "\S+" \S+$`), n.Name)
	assert.Contains(t, tables.Psych.For("evil"), n.PsychDescription)
	assert.Contains(t, tables.Physical.For("Dwarf"), n.PhysicalDescription)
	assert.Contains(t, tables.Faces, n.Face)
}

func TestGenerate_RandomCriteriaResolvesEverything(t *testing.T) {
	tables := loadTables(t)
	rapid.Check(t, func(rt *rapid.T) {
		g := newGenerator(tables, rapid.Uint64().Draw(rt, "seed"))
		n := g.Generate(npc.RandomCriteria())
		assert.Contains(rt, npc.SexOptions(), n.Sex)
		assert.Contains(rt, npc.AlignmentOptions(), n.Alignment)
		_, ok := tables.Race(n.RaceID)
		assert.True(rt, ok)
		assert.True(rt, n.ArchetypeID.Valid())
		assert.True(rt, n.Tier.Valid())
		assert.NotEmpty(rt, n.Name)
		assert.Equal(rt, fixedTime, n.CreatedAt)
	})
}

func TestGenerate_DeterministicUnderFixedSources(t *testing.T) {
	tables := loadTables(t)
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		c := npc.RandomCriteria()
		a := newGenerator(tables, seed).Generate(c)
		b := newGenerator(tables, seed).Generate(c)
		assert.Equal(rt, a, b)
	})
}

func TestGenerate_EmptyCriteriaIsRandom(t *testing.T) {
	g := newGenerator(loadTables(t), 1)
	n := g.Generate(npc.Criteria{})
	assert.Equal(t, "npc-1", n.ID)
	assert.NotEmpty(t, n.Race)
	assert.NotEmpty(t, n.ArchetypeLabel)
}

func TestGenerate_UnknownRaceKeepsCallerLabel(t *testing.T) {
	g := newGenerator(loadTables(t), 2)
	n := g.Generate(npc.Criteria{Race: npc.RaceChoice{ID: "gnome", Label: "Gnome"}, Archetype: "martial", Tier: "Novice"})
	assert.Equal(t, "Gnome", n.Race)
	assert.Equal(t, 30, n.Speed)
	assert.Empty(t, n.Name)
}

func TestGenerate_CasterGetsSpellActions(t *testing.T) {
	g := newGenerator(loadTables(t), 5)
	n := g.Generate(npc.Criteria{Race: npc.RaceChoice{ID: "elf"}, Archetype: "caster", Tier: "Legendary"})
	// Every caster action names a spell.
	require.NotEmpty(t, n.SpellActions)
	seen := map[string]bool{}
	for _, sa := range n.SpellActions {
		assert.False(t, seen[sa.Name], "duplicate spell action %s", sa.Name)
		seen[sa.Name] = true
		assert.NotEmpty(t, sa.Meta)
	}
}

func TestRestat_ReplacesBlockKeepsIdentity(t *testing.T) {
	g := newGenerator(loadTables(t), 3)
	n := g.Generate(npc.Criteria{Race: npc.RaceChoice{Label: "Human"}, Archetype: "brute", Tier: "Novice"})
	n.Notes = "met at the docks"
	id, name := n.ID, n.Name

	g.Restat(n, "skirmisher", ruleset.Legendary)
	assert.Equal(t, id, n.ID)
	assert.Equal(t, name, n.Name)
	assert.Equal(t, "met at the docks", n.Notes)
	assert.Equal(t, ruleset.Skirmisher, n.ArchetypeID)
	assert.Equal(t, ruleset.Legendary, n.Tier)
	assert.Equal(t, 15, n.ChallengeRating)
	assert.Len(t, n.Traits, 3)
	assert.Len(t, n.Actions, 3)
	assert.Len(t, n.Reactions, 2)
}

func TestFormatText(t *testing.T) {
	g := newGenerator(loadTables(t), 4)
	n := g.Generate(npc.Criteria{Sex: "Male", Race: npc.RaceChoice{ID: "human"}, Alignment: "Good", Archetype: "martial", Tier: "Veteran"})
	n.Notes = "owes the party 10 gp"

	text := npc.FormatText(n)
	lines := strings.Split(text, "\n")
	assert.Equal(t, n.Name, lines[0])
	assert.Equal(t, "Sex: Male | Race: Human | Alignment: Good", lines[1])
	assert.Equal(t, "Archetype: Martial · Tier: Veteran · CR 6 · PB +3", lines[2])
	assert.Contains(t, text, "Saves: STR ")
	assert.Contains(t, text, "Actions:\n  Multiattack. The creature makes two attacks")
	assert.Contains(t, text, "Physical: "+n.PhysicalDescription)
	assert.Contains(t, text, "Psych: "+n.PsychDescription)
	assert.True(t, strings.HasSuffix(text, "Notes: owes the party 10 gp"))
}

func TestOptions_AreCopies(t *testing.T) {
	opts := npc.SexOptions()
	opts[0] = "Other"
	assert.Equal(t, []string{"Male", "Female"}, npc.SexOptions())
	assert.Equal(t, []string{"Good", "Neutral", "Evil"}, npc.AlignmentOptions())
}
