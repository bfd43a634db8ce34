package reference

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

var diceExpr = regexp.MustCompile(`\b\d+d\d+\b`)

const (
	phraseSpellAttack = "spell attack"
	phraseSavingThrow = "saving throw"
)

// SpellcastingAbility returns the casting ability for an archetype: WIS for
// clerics, INT for casters and rogues, otherwise the highest of INT, WIS and
// CHA with ties favoring INT then WIS.
func SpellcastingAbility(id ruleset.ArchetypeID, mods statblock.Scores) ruleset.Ability {
	switch id {
	case ruleset.Cleric:
		return ruleset.WIS
	case ruleset.Caster, ruleset.Rogue:
		return ruleset.INT
	}
	best := ruleset.INT
	for _, a := range []ruleset.Ability{ruleset.WIS, ruleset.CHA} {
		if mods.Get(a) > mods.Get(best) {
			best = a
		}
	}
	return best
}

// SpellActions synthesizes one entry per distinct spell referenced by the
// block's traits, actions and reactions, in order of first reference.
//
// Postcondition: no two returned entries name the same spell.
func (l *Linker) SpellActions(b *statblock.Block) []statblock.Entry {
	ability := SpellcastingAbility(b.ArchetypeID, b.AbilityMods)
	mod := b.AbilityMods.Get(ability)
	pb := b.ProficiencyBonus

	var out []statblock.Entry
	seen := make(map[string]bool)
	for _, e := range b.Entries() {
		for _, ref := range l.References(e.Text) {
			if ref.Kind != KindSpell || seen[ref.Key] {
				continue
			}
			seen[ref.Key] = true
			out = append(out, spellAction(l.spells[ref.Key], mod, pb))
		}
	}
	return out
}

func spellAction(s *ruleset.Spell, mod, pb int) statblock.Entry {
	desc := s.Description
	lower := strings.ToLower(desc)
	hasAttack := strings.Contains(lower, phraseSpellAttack)

	meta := []string{levelSchool(s)}
	if s.CastingTime != "" {
		meta = append(meta, s.CastingTime)
	}
	if hasAttack {
		meta = append(meta, "Spell attack "+statblock.Signed(mod+pb))
	}
	if strings.Contains(lower, phraseSavingThrow) {
		meta = append(meta, fmt.Sprintf("Save DC %d", statblock.SaveDC(pb, mod)))
	}

	e := statblock.Entry{
		Name: s.Name,
		Text: FirstSentence(desc),
		Meta: strings.Join(meta, " · "),
	}
	if d := diceExpr.FindString(desc); hasAttack && d != "" {
		e.Roll = &statblock.RollPayload{AttackBonus: mod + pb, DamageDice: d}
	}
	return e
}

func levelSchool(s *ruleset.Spell) string {
	school := s.School
	if school == "" {
		school = "Spell"
	}
	if s.Level == 0 {
		return school + " cantrip"
	}
	return fmt.Sprintf("Level %d %s", s.Level, strings.ToLower(school))
}

// FirstSentence returns text up to and including its first sentence-ending
// period, or the whole trimmed text when it has none.
func FirstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i := 0; i < len(text); i++ {
		if text[i] != '.' && text[i] != '!' && text[i] != '?' {
			continue
		}
		if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
			return text[:i+1]
		}
	}
	return text
}
