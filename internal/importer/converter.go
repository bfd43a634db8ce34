package importer

import (
	"sort"
	"strings"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// NameToIndex converts a display name to the catalogue's kebab-case index,
// e.g. "Melf's Acid Arrow" → "melfs-acid-arrow".
//
// Postcondition: result is lowercase, contains only [a-z0-9-], has no leading,
// trailing or doubled dashes, and is idempotent.
func NameToIndex(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case r == '\'' || r == '’':
			// apostrophes vanish without splitting the word
		default:
			dash = true
		}
	}
	return b.String()
}

// Normalize trims and collapses whitespace in every field, drops nameless
// entries, keeps the first entry per name key, and sorts by level then name.
func Normalize(spells []*ruleset.Spell) []*ruleset.Spell {
	seen := make(map[string]bool, len(spells))
	out := make([]*ruleset.Spell, 0, len(spells))
	for _, s := range spells {
		if s == nil {
			continue
		}
		c := *s
		c.Name = collapse(c.Name)
		c.School = collapse(c.School)
		c.CastingTime = collapse(c.CastingTime)
		c.Range = collapse(c.Range)
		c.Duration = collapse(c.Duration)
		c.Description = collapse(c.Description)
		if c.Name == "" {
			continue
		}
		key := ruleset.NormalizeKey(c.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Merge overlays imported on existing: imported entries replace existing
// ones with the same name key, and existing entries the import lacks are kept.
func Merge(existing, imported []*ruleset.Spell) []*ruleset.Spell {
	return Normalize(append(append([]*ruleset.Spell{}, imported...), existing...))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
