package npc

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

// FormatText renders n as plain text suitable for pasting into notes.
func FormatText(n *NPC) string {
	var b strings.Builder
	fmt.Fprintln(&b, n.Name)
	fmt.Fprintf(&b, "Sex: %s | Race: %s | Alignment: %s\n", n.Sex, n.Race, n.Alignment)
	fmt.Fprintf(&b, "Archetype: %s · Tier: %s · CR %d · PB %s\n",
		n.ArchetypeLabel, n.Tier, n.ChallengeRating, statblock.Signed(n.ProficiencyBonus))
	fmt.Fprintf(&b, "AC %d · HP %d · Speed %d ft. · Initiative %s\n",
		n.ArmorClass, n.HitPoints, n.Speed, statblock.Signed(n.Initiative))

	abilities := make([]string, 0, 6)
	saves := make([]string, 0, 6)
	for _, a := range ruleset.Abilities() {
		abilities = append(abilities, fmt.Sprintf("%s %d (%s)", a, n.AbilityScores.Get(a), statblock.Signed(n.AbilityMods.Get(a))))
		save := fmt.Sprintf("%s %s", a, statblock.Signed(n.SavingThrows.Get(a)))
		if statblock.Proficient(n.SaveProficiencies, a) {
			save += "*"
		}
		saves = append(saves, save)
	}
	fmt.Fprintf(&b, "Abilities: %s\n", strings.Join(abilities, ", "))
	fmt.Fprintf(&b, "Saves: %s\n", strings.Join(saves, ", "))

	writeEntries(&b, "Traits", n.Traits)
	writeEntries(&b, "Actions", n.Actions)
	writeEntries(&b, "Reactions", n.Reactions)
	writeEntries(&b, "Spell Actions", n.SpellActions)

	fmt.Fprintf(&b, "Physical: %s\n", n.PhysicalDescription)
	fmt.Fprintf(&b, "Psych: %s", n.PsychDescription)
	if n.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", n.Notes)
	}
	return b.String()
}

func writeEntries(b *strings.Builder, heading string, entries []statblock.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, e := range entries {
		line := fmt.Sprintf("  %s. %s", e.Name, e.Text)
		if e.Meta != "" {
			line += " (" + e.Meta + ")"
		}
		fmt.Fprintln(b, line)
	}
}
