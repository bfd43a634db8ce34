package statblock

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// MultiattackName is the name of the synthesized composite action.
const MultiattackName = "Multiattack"

var countWords = map[int]string{2: "two", 3: "three", 4: "four"}

// CountWord spells out n for multiattack text, falling back to digits.
func CountWord(n int) string {
	if w, ok := countWords[n]; ok {
		return w
	}
	return fmt.Sprint(n)
}

// AttackPool returns the attack-capable templates of a's pool in list. When
// the archetype's tagged templates include no attack, the wildcard templates
// are used instead.
func AttackPool(list []*ruleset.Behavior, a *ruleset.Archetype) []*ruleset.Behavior {
	if pool := attacks(ruleset.Pool(list, a)); len(pool) > 0 {
		return pool
	}
	return attacks(ruleset.Tagged(list, ruleset.TagAny))
}

func attacks(list []*ruleset.Behavior) []*ruleset.Behavior {
	var out []*ruleset.Behavior
	for _, b := range list {
		if b.AttackCapable() {
			out = append(out, b)
		}
	}
	return out
}

// multiattackNames picks count attack names: distinct attack-capable names
// from selected, then from pool, padded with the first name.
//
// Postcondition: returns exactly count names, or nil when no attack-capable
// template exists in either list.
func multiattackNames(selected, pool []*ruleset.Behavior, count int) []string {
	var names []string
	seen := make(map[string]bool)
	collect := func(list []*ruleset.Behavior) {
		for _, b := range list {
			if len(names) == count {
				return
			}
			if b.AttackCapable() && !seen[b.Name] {
				seen[b.Name] = true
				names = append(names, b.Name)
			}
		}
	}
	collect(selected)
	collect(pool)
	if len(names) == 0 {
		return nil
	}
	for len(names) < count {
		names = append(names, names[0])
	}
	return names
}

// Multiattack builds the composite action naming count attacks, or reports
// false when no attack-capable template is available.
func Multiattack(selected, pool []*ruleset.Behavior, count int) (Entry, bool) {
	if count < 2 {
		return Entry{}, false
	}
	names := multiattackNames(selected, pool, count)
	if names == nil {
		return Entry{}, false
	}
	return Entry{
		Name: MultiattackName,
		Text: fmt.Sprintf("The creature makes %s attacks: %s.", CountWord(len(names)), joinNames(names)),
	}, true
}

func joinNames(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
