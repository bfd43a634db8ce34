package reference_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/npcforge/internal/game/reference"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

var (
	fireBolt = &ruleset.Spell{
		Name: "Fire Bolt", Level: 0, School: "Evocation", CastingTime: "1 action",
		Description: "You hurl a mote of fire. Make a ranged spell attack against the target. On a hit, the target takes 1d10 fire damage.",
	}
	fire       = &ruleset.Spell{Name: "Fire", Level: 1, Description: "Something burns."}
	holdPerson = &ruleset.Spell{
		Name: "Hold Person", Level: 2, School: "Enchantment", CastingTime: "1 action",
		Description: "Choose a humanoid. The target must succeed on a Wisdom saving throw or be paralyzed.",
	}
	shield    = &ruleset.Spell{Name: "Shield", Level: 1, School: "Abjuration", Description: "A barrier appears"}
	prone     = &ruleset.Condition{Name: "Prone", Description: "On the ground."}
	paralyzed = &ruleset.Condition{Name: "Paralyzed"}
)

func newLinker() *reference.Linker {
	return reference.NewLinker(
		[]*ruleset.Spell{fire, fireBolt, holdPerson, shield},
		[]*ruleset.Condition{prone, paralyzed},
	)
}

func TestScan_LongestNameWins(t *testing.T) {
	refs := newLinker().References("The mage casts FIRE BOLT, then fire.")
	require.Len(t, refs, 2)
	assert.Equal(t, "Fire Bolt", refs[0].Name)
	assert.Equal(t, "fire bolt", refs[0].Key)
	assert.Equal(t, "Fire", refs[1].Name)
}

func TestScan_WholeWordOnly(t *testing.T) {
	l := newLinker()
	assert.Empty(t, l.References("Shielded by a shieldwall, firebolts everywhere."))
	assert.Empty(t, l.References("Proneness is not a condition."))
	refs := l.References("It raises its shield. The target falls prone")
	require.Len(t, refs, 2)
	assert.Equal(t, reference.KindSpell, refs[0].Kind)
	assert.Equal(t, reference.KindCondition, refs[1].Kind)
}

func TestScan_PrefixNeverMatchesLongerWord(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		suffix := rapid.StringMatching(`[a-z]{1,6}`).Draw(rt, "suffix")
		text := "The creature casts Shield" + suffix + " today."
		for _, r := range newLinker().References(text) {
			assert.NotEqual(rt, "shield", r.Key)
		}
		text = "The creature casts " + strings.ToUpper("shield") + " today."
		refs := newLinker().References(text)
		require.Len(rt, refs, 1)
		assert.Equal(rt, "shield", refs[0].Key)
	})
}

func TestSegments_RoundTrip(t *testing.T) {
	text := "Casts Hold Person; target is paralyzed."
	segs := newLinker().Segments(text)
	var b strings.Builder
	linked := 0
	for _, s := range segs {
		b.WriteString(s.Text)
		if s.Ref != nil {
			linked++
		}
	}
	assert.Equal(t, text, b.String())
	assert.Equal(t, 2, linked)
}

func TestSpellcastingAbility(t *testing.T) {
	mods := statblock.Scores{INT: 1, WIS: 3, CHA: 3}
	assert.Equal(t, ruleset.WIS, reference.SpellcastingAbility(ruleset.Cleric, statblock.Scores{INT: 5}))
	assert.Equal(t, ruleset.INT, reference.SpellcastingAbility(ruleset.Caster, mods))
	assert.Equal(t, ruleset.INT, reference.SpellcastingAbility(ruleset.Rogue, mods))
	assert.Equal(t, ruleset.WIS, reference.SpellcastingAbility(ruleset.Martial, mods))
	assert.Equal(t, ruleset.INT, reference.SpellcastingAbility(ruleset.Brute, statblock.Scores{}))
	assert.Equal(t, ruleset.CHA, reference.SpellcastingAbility(ruleset.Skirmisher, statblock.Scores{CHA: 2}))
}

func TestSpellActions_DedupesAndAnnotates(t *testing.T) {
	b := &statblock.Block{
		ArchetypeID:      ruleset.Caster,
		ProficiencyBonus: 3,
		AbilityMods:      statblock.Scores{INT: 4},
		Traits:           []statblock.Entry{{Name: "Spellcasting", Text: "It has Fire Bolt and Hold Person prepared."}},
		Actions:          []statblock.Entry{{Name: "Arcane Bolt", Text: "The creature casts fire bolt."}},
		Reactions:        []statblock.Entry{{Name: "Guard", Text: "It casts Shield; attacker falls prone."}},
	}
	got := newLinker().SpellActions(b)
	require.Len(t, got, 3)

	assert.Equal(t, "Fire Bolt", got[0].Name)
	assert.Equal(t, "You hurl a mote of fire.", got[0].Text)
	assert.Equal(t, "Evocation cantrip · 1 action · Spell attack +7", got[0].Meta)
	require.NotNil(t, got[0].Roll)
	assert.Equal(t, statblock.RollPayload{AttackBonus: 7, DamageDice: "1d10"}, *got[0].Roll)

	assert.Equal(t, "Hold Person", got[1].Name)
	assert.Equal(t, "Level 2 enchantment · 1 action · Save DC 15", got[1].Meta)
	assert.Nil(t, got[1].Roll)

	assert.Equal(t, "Shield", got[2].Name)
	assert.Equal(t, "A barrier appears", got[2].Text)
}

func TestSpellActions_NoSpellsNoEntries(t *testing.T) {
	b := &statblock.Block{Actions: []statblock.Entry{{Name: "Club", Text: "Hit: 1d4 bludgeoning."}}}
	assert.Empty(t, newLinker().SpellActions(b))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "One.", reference.FirstSentence(" One. Two. "))
	assert.Equal(t, "Takes 1.5 damage?", reference.FirstSentence("Takes 1.5 damage? Yes."))
	assert.Equal(t, "No period", reference.FirstSentence("No period"))
}
