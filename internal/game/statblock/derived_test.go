package statblock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

func TestArmorClass_Clamped(t *testing.T) {
	assert.Equal(t, 17, statblock.ArmorClass(ruleset.Veteran.Info(), ruleset.Martial))
	assert.Equal(t, 11, statblock.ArmorClass(ruleset.Novice.Info(), ruleset.Caster))
	assert.Equal(t, 10, statblock.ArmorClass(ruleset.TierInfo{ACBase: 4}, ruleset.Caster))
	assert.Equal(t, 20, statblock.ArmorClass(ruleset.TierInfo{ACBase: 19}, ruleset.Martial))
}

func TestHitPoints_AtLeastOne(t *testing.T) {
	assert.Equal(t, 42, statblock.HitPoints(ruleset.Veteran.Info(), 2))
	assert.Equal(t, 1, statblock.HitPoints(ruleset.TierInfo{HPBase: 3, HPMultiplier: 5}, -5))
	rapid.Check(t, func(rt *rapid.T) {
		tier := rapid.SampledFrom(ruleset.Tiers()).Draw(rt, "tier")
		con := rapid.IntRange(-5, 10).Draw(rt, "con")
		assert.GreaterOrEqual(rt, statblock.HitPoints(tier.Info(), con), 1)
	})
}

func TestSaveProficiencies_Declared(t *testing.T) {
	a := &ruleset.Archetype{SaveProfs: []ruleset.Ability{ruleset.WIS, ruleset.CHA}}
	assert.Equal(t, []ruleset.Ability{ruleset.WIS, ruleset.CHA}, statblock.SaveProficiencies(a, statblock.Scores{}))
}

func TestSaveProficiencies_DerivedWhenDeclarationInvalid(t *testing.T) {
	mods := statblock.Scores{STR: 1, DEX: 3, CON: 1, INT: 3, WIS: 0, CHA: 3}
	for _, a := range []*ruleset.Archetype{
		nil,
		{SaveProfs: []ruleset.Ability{ruleset.WIS}},
		{SaveProfs: []ruleset.Ability{ruleset.WIS, ruleset.WIS}},
		{SaveProfs: []ruleset.Ability{ruleset.WIS, ruleset.CHA, ruleset.STR}},
	} {
		assert.Equal(t, []ruleset.Ability{ruleset.DEX, ruleset.INT}, statblock.SaveProficiencies(a, mods))
	}
	assert.Equal(t, []ruleset.Ability{ruleset.STR, ruleset.DEX}, statblock.SaveProficiencies(nil, statblock.Scores{}))
}

func TestSavingThrows(t *testing.T) {
	mods := statblock.Scores{STR: 3, DEX: 1, CON: 2, INT: -1, WIS: 0, CHA: 0}
	saves := statblock.SavingThrows(mods, []ruleset.Ability{ruleset.STR, ruleset.CON}, 3)
	assert.Equal(t, statblock.Scores{STR: 6, DEX: 1, CON: 5, INT: -1, WIS: 0, CHA: 0}, saves)
}
