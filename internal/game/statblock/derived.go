package statblock

import (
	"sort"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

const (
	minAC = 10
	maxAC = 20
)

// ArmorClass returns clamp(acBase + archetype adjustment, 10, 20).
func ArmorClass(info ruleset.TierInfo, id ruleset.ArchetypeID) int {
	return clamp(info.ACBase+id.ACAdjust(), minAC, maxAC)
}

// HitPoints returns max(1, hpBase + conMod*hpMultiplier).
func HitPoints(info ruleset.TierInfo, conMod int) int {
	hp := info.HPBase + conMod*info.HPMultiplier
	if hp < 1 {
		return 1
	}
	return hp
}

// SaveProficiencies returns the archetype's declared pair when it names exactly
// two distinct valid keys, else the two keys with the highest modifiers, ties
// broken by canonical key order.
//
// Postcondition: Returns exactly two distinct abilities in canonical order.
func SaveProficiencies(a *ruleset.Archetype, mods Scores) []ruleset.Ability {
	if a != nil && len(a.SaveProfs) == 2 {
		x, y := a.SaveProfs[0], a.SaveProfs[1]
		if x.Valid() && y.Valid() && x != y {
			return canonical([]ruleset.Ability{x, y})
		}
	}
	keys := ruleset.Abilities()
	sort.SliceStable(keys, func(i, j int) bool {
		return mods.Get(keys[i]) > mods.Get(keys[j])
	})
	return canonical(keys[:2])
}

func canonical(keys []ruleset.Ability) []ruleset.Ability {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Index() < keys[j].Index() })
	return keys
}

// SavingThrows returns mod+pb for proficient keys and mod otherwise.
func SavingThrows(mods Scores, profs []ruleset.Ability, pb int) Scores {
	saves := mods
	for _, k := range profs {
		saves.Set(k, mods.Get(k)+pb)
	}
	return saves
}

// Proficient reports whether a is among profs.
func Proficient(profs []ruleset.Ability, a ruleset.Ability) bool {
	for _, p := range profs {
		if p == a {
			return true
		}
	}
	return false
}
