// Package statblock computes NPC statistics blocks: ability scores, derived
// combat values, and resolved trait/action/reaction text for a given
// archetype and tier.
package statblock

import "github.com/cory-johannsen/npcforge/internal/game/ruleset"

// RollPayload carries the numbers needed to re-roll a resolved attack.
type RollPayload struct {
	AttackBonus int    `json:"attack_bonus"`
	DamageDice  string `json:"damage_dice,omitempty"`
	BonusDice   string `json:"bonus_dice,omitempty"`
	DamageMod   int    `json:"damage_mod"`
}

// Entry is a resolved behavior: final text with every known placeholder
// substituted, plus an optional roll payload for attacks.
type Entry struct {
	Name string       `json:"name"`
	Text string       `json:"text"`
	Meta string       `json:"meta,omitempty"`
	Roll *RollPayload `json:"roll,omitempty"`
}

// Block is the engine's output for one archetype/tier/race combination.
// Every field is replaced together whenever the block is recomputed.
type Block struct {
	Tier              ruleset.Tier        `json:"tier"`
	ArchetypeID       ruleset.ArchetypeID `json:"archetype_id"`
	ArchetypeLabel    string              `json:"archetype_label"`
	ChallengeRating   int                 `json:"cr"`
	ProficiencyBonus  int                 `json:"proficiency_bonus"`
	ArmorClass        int                 `json:"armor_class"`
	HitPoints         int                 `json:"hit_points"`
	Speed             int                 `json:"speed"`
	Initiative        int                 `json:"initiative"`
	AbilityScores     Scores              `json:"ability_scores"`
	AbilityMods       Scores              `json:"ability_mods"`
	SaveProficiencies []ruleset.Ability   `json:"saving_throw_proficiencies"`
	SavingThrows      Scores              `json:"saving_throws"`
	Traits            []Entry             `json:"traits"`
	Actions           []Entry             `json:"actions"`
	Reactions         []Entry             `json:"reactions"`
	SpellActions      []Entry             `json:"spell_actions,omitempty"`
}

// Entries returns traits, actions and reactions in stat-block order.
func (b *Block) Entries() []Entry {
	out := make([]Entry, 0, len(b.Traits)+len(b.Actions)+len(b.Reactions))
	out = append(out, b.Traits...)
	out = append(out, b.Actions...)
	return append(out, b.Reactions...)
}
