package ruleset

import (
	"fmt"
	"strings"
)

// Ability is one of the six ability-score keys.
type Ability string

// The six ability keys, in canonical order.
const (
	STR Ability = "STR"
	DEX Ability = "DEX"
	CON Ability = "CON"
	INT Ability = "INT"
	WIS Ability = "WIS"
	CHA Ability = "CHA"
)

var abilityOrder = [...]Ability{STR, DEX, CON, INT, WIS, CHA}

// abilityNames maps every accepted upper-case spelling to its key.
var abilityNames = map[string]Ability{
	"STR": STR, "STRENGTH": STR,
	"DEX": DEX, "DEXTERITY": DEX,
	"CON": CON, "CONSTITUTION": CON,
	"INT": INT, "INTELLIGENCE": INT,
	"WIS": WIS, "WISDOM": WIS,
	"CHA": CHA, "CHARISMA": CHA,
}

// Abilities returns the six ability keys in canonical order STR, DEX, CON,
// INT, WIS, CHA. The returned slice is a fresh copy.
func Abilities() []Ability {
	out := make([]Ability, len(abilityOrder))
	copy(out, abilityOrder[:])
	return out
}

// Index returns the position of a in canonical order, or -1 if a is not a
// valid key.
func (a Ability) Index() int {
	for i, k := range abilityOrder {
		if k == a {
			return i
		}
	}
	return -1
}

// Valid reports whether a is one of the six ability keys.
func (a Ability) Valid() bool {
	return a.Index() >= 0
}

// ParseAbility normalizes s into an Ability key. Matching is case-insensitive
// and accepts the three-letter key or the full name ("str", "Strength").
//
// Postcondition: Returns a valid Ability or a non-nil error.
func ParseAbility(s string) (Ability, error) {
	a, ok := abilityNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown ability %q", s)
	}
	return a, nil
}

// UnmarshalText accepts any spelling ParseAbility accepts; the empty string
// decodes to the empty Ability.
func (a *Ability) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*a = ""
		return nil
	}
	parsed, err := ParseAbility(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
