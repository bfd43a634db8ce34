package statblock_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

var martial = &ruleset.Archetype{ID: ruleset.Martial, Label: "Martial", Primary: []ruleset.Ability{ruleset.STR}}

func names(list []*ruleset.Behavior) []string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.Name)
	}
	return out
}

func TestSelect_ZeroCountMakesNoDraws(t *testing.T) {
	src := &countingSource{src: dice.NewSeededSource(1)}
	sel := statblock.NewSelector(src, statblock.DefaultRetryCap)
	list := []*ruleset.Behavior{behavior("Longsword", []string{"martial"}, ruleset.STR)}
	assert.Empty(t, sel.Select(list, martial, 0))
	assert.Zero(t, src.calls)
}

func TestSelect_EmptyPoolYieldsEmptyList(t *testing.T) {
	sel := statblock.NewSelector(dice.NewSeededSource(1), statblock.DefaultRetryCap)
	list := []*ruleset.Behavior{behavior("Fireball", []string{"caster"}, "")}
	assert.Empty(t, sel.Select(list, martial, 3))
	assert.Empty(t, sel.Select(nil, martial, 3))
}

func TestSelect_FallsBackToWildcardWhenTaggedPoolExhausted(t *testing.T) {
	list := []*ruleset.Behavior{
		behavior("Longsword", []string{"martial"}, ruleset.STR),
		behavior("Club", []string{"any"}, ruleset.STR),
	}
	sel := statblock.NewSelector(constSource(0), statblock.DefaultRetryCap)
	assert.Equal(t, []string{"Longsword", "Club", "Club"}, names(sel.Select(list, martial, 3)))
}

func TestSelect_AcceptsDuplicateAfterRetryCap(t *testing.T) {
	list := []*ruleset.Behavior{
		behavior("Longsword", []string{"martial"}, ruleset.STR),
		behavior("Greatsword", []string{"martial"}, ruleset.STR),
	}
	src := &countingSource{src: constSource(0)}
	sel := statblock.NewSelector(src, 3)
	got := sel.Select(list, martial, 2)
	assert.Equal(t, []string{"Longsword", "Longsword"}, names(got))
	assert.Equal(t, 1+3, src.calls, "second slot retries exactly the cap")
}

func TestSelect_UsesWildcardPoolWhenNothingTagged(t *testing.T) {
	list := []*ruleset.Behavior{
		behavior("Fireball", []string{"caster"}, ""),
		behavior("Club", []string{"any"}, ruleset.STR),
	}
	sel := statblock.NewSelector(dice.NewSeededSource(9), statblock.DefaultRetryCap)
	assert.Equal(t, []string{"Club", "Club"}, names(sel.Select(list, martial, 2)))
}

func TestSelect_DistinctWhenPoolLargeEnough(t *testing.T) {
	tbl := loadTables(t)
	rapid.Check(t, func(rt *rapid.T) {
		arch := rapid.SampledFrom(tbl.Archetypes).Draw(rt, "archetype")
		sel := statblock.NewSelector(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), 1000)
		got := sel.Select(tbl.Actions, arch, 2)
		require.Len(rt, got, 2)
		if len(ruleset.Pool(tbl.Actions, arch)) >= 2 {
			assert.NotEqual(rt, got[0].Name, got[1].Name)
		}
	})
}

func TestMultiattack_NamesAndPadding(t *testing.T) {
	selected := []*ruleset.Behavior{
		behavior("Longsword", nil, ruleset.STR),
		behavior("Second Wind", nil, ""),
	}
	pool := []*ruleset.Behavior{
		behavior("Longsword", nil, ruleset.STR),
		behavior("Heavy Crossbow", nil, ruleset.DEX),
	}
	e, ok := statblock.Multiattack(selected, pool, 3)
	require.True(t, ok)
	assert.Equal(t, statblock.MultiattackName, e.Name)
	assert.Equal(t, "The creature makes three attacks: Longsword, Heavy Crossbow, and Longsword.", e.Text)

	e, ok = statblock.Multiattack(selected, nil, 2)
	require.True(t, ok)
	assert.Equal(t, "The creature makes two attacks: Longsword and Longsword.", e.Text)

	_, ok = statblock.Multiattack([]*ruleset.Behavior{behavior("Second Wind", nil, "")}, nil, 2)
	assert.False(t, ok)
	_, ok = statblock.Multiattack(selected, pool, 0)
	assert.False(t, ok)
}

func TestAttackPool(t *testing.T) {
	list := []*ruleset.Behavior{
		behavior("Roar", []string{"brute"}, ""),
		behavior("Greataxe", []string{"brute"}, ruleset.STR),
		behavior("Club", []string{"any"}, ruleset.STR),
	}
	brute := &ruleset.Archetype{ID: ruleset.Brute}
	assert.Equal(t, []string{"Greataxe"}, names(statblock.AttackPool(list, brute)))

	list = []*ruleset.Behavior{list[0], list[2]}
	assert.Equal(t, []string{"Club"}, names(statblock.AttackPool(list, brute)))
	assert.Empty(t, statblock.AttackPool(list[:1], brute))
}

// multiattackNames parses the attack list out of a multiattack text.
func multiattackNames(text string) (word string, list []string) {
	text = strings.TrimPrefix(text, "The creature makes ")
	word, rest, _ := strings.Cut(text, " attacks: ")
	rest = strings.TrimSuffix(rest, ".")
	rest = strings.ReplaceAll(rest, ", and ", ", ")
	rest = strings.ReplaceAll(rest, " and ", ", ")
	return word, strings.Split(rest, ", ")
}

func TestResolve_SubstitutesPlaceholders(t *testing.T) {
	b := &ruleset.Behavior{
		Name:          "Poisoned Blade",
		Tags:          []string{"rogue"},
		AttackAbility: ruleset.DEX,
		Damage:        "1d6",
		Text:          "{toHit} to hit. Hit: {damage}. DC {dc} ({pb}, {mod}) {unknown}",
	}
	rogue := &ruleset.Archetype{ID: ruleset.Rogue, BonusDamage: map[string]string{"Veteran": "3d6"}}
	mods := statblock.Scores{DEX: 4}
	e := statblock.Resolve(b, mods, 3, ruleset.Veteran, rogue)
	assert.Equal(t, "+7 to hit. Hit: 1d6+3d6+4. DC 15 (3, +4) {unknown}", e.Text)
	require.NotNil(t, e.Roll)
	assert.Equal(t, statblock.RollPayload{AttackBonus: 7, DamageDice: "1d6", BonusDice: "3d6", DamageMod: 4}, *e.Roll)
}

func TestResolve_SaveTemplateHasNoRollAndNoBonusDice(t *testing.T) {
	b := &ruleset.Behavior{Name: "Stomp", SaveAbility: ruleset.STR, DamageByTier: map[string]string{"Elite": "4d8"}, Text: "DC {dc}, {damage}"}
	rogue := &ruleset.Archetype{ID: ruleset.Rogue, BonusDamage: map[string]string{"Elite": "5d6"}}
	e := statblock.Resolve(b, statblock.Scores{STR: -1}, 4, ruleset.Elite, rogue)
	assert.Equal(t, "DC 11, 4d8-1", e.Text)
	assert.Nil(t, e.Roll)
}

func TestResolve_ModifierAbilityFeedsTextWithoutRoll(t *testing.T) {
	b := &ruleset.Behavior{Name: "Heavy Hitter", ModifierAbility: ruleset.STR, Text: "adds {mod}, {damage}"}
	brute := &ruleset.Archetype{ID: ruleset.Brute, BonusDamage: map[string]string{"Veteran": "1d8"}}
	e := statblock.Resolve(b, statblock.Scores{STR: 3}, 3, ruleset.Veteran, brute)
	assert.Equal(t, "adds +3, +3", e.Text)
	assert.Nil(t, e.Roll)
}

func findBehavior(t *testing.T, list []*ruleset.Behavior, name string) *ruleset.Behavior {
	t.Helper()
	for _, b := range list {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no template named %q", name)
	return nil
}

func TestResolve_ContentTraitsAreNotAttacks(t *testing.T) {
	tbl := loadTables(t)
	rogue, ok := tbl.Archetype(ruleset.Rogue)
	require.True(t, ok)
	mods := statblock.Scores{STR: 2, DEX: 4, WIS: 3}

	for _, name := range []string{"Fighting Style", "Brute Force", "Sneak Attack"} {
		e := statblock.Resolve(findBehavior(t, tbl.Traits, name), mods, 3, ruleset.Veteran, rogue)
		assert.Nil(t, e.Roll, name)
	}

	sneak := statblock.Resolve(findBehavior(t, tbl.Traits, "Sneak Attack"), mods, 3, ruleset.Veteran, rogue)
	assert.Contains(t, sneak.Text, "(3d6)")

	style := statblock.Resolve(findBehavior(t, tbl.Traits, "Fighting Style"), mods, 3, ruleset.Veteran, rogue)
	assert.Contains(t, style.Text, "a +2 bonus")

	word := statblock.Resolve(findBehavior(t, tbl.Actions, "Binding Word"), mods, 3, ruleset.Veteran, rogue)
	assert.Contains(t, word.Text, "save DC 14")
}

func TestDamageExpression(t *testing.T) {
	assert.Equal(t, "1d8+1d6+3", statblock.DamageExpression("1d8", "1d6", 3))
	assert.Equal(t, "2d6", statblock.DamageExpression("2d6", "", 0))
	assert.Equal(t, "1d4-1", statblock.DamageExpression("", "1d4", -1))
	assert.Equal(t, "+2", statblock.DamageExpression("", "", 2))
	assert.Equal(t, "+0", statblock.DamageExpression(" ", "", 0))
}

func TestResolve_NoPlaceholderSurvives(t *testing.T) {
	tbl := loadTables(t)
	all := append(append(append([]*ruleset.Behavior{}, tbl.Traits...), tbl.Actions...), tbl.Reactions...)
	rapid.Check(t, func(rt *rapid.T) {
		b := rapid.SampledFrom(all).Draw(rt, "template")
		arch := rapid.SampledFrom(tbl.Archetypes).Draw(rt, "archetype")
		tier := rapid.SampledFrom(ruleset.Tiers()).Draw(rt, "tier")
		var mods statblock.Scores
		for _, a := range ruleset.Abilities() {
			mods.Set(a, rapid.IntRange(-1, 5).Draw(rt, string(a)))
		}
		e := statblock.Resolve(b, mods, tier.Info().ProficiencyBonus, tier, arch)
		for _, p := range statblock.Placeholders() {
			assert.NotContains(rt, e.Text, p)
		}
	})
}
