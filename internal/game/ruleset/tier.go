package ruleset

import (
	"fmt"
	"strings"
)

// Tier is the discrete power band that drives every scaling table.
type Tier int

// Tiers in ascending order of power.
const (
	Novice Tier = iota
	Trained
	Veteran
	Elite
	Legendary

	tierCount
)

// TierInfo is the fixed configuration row for one tier.
type TierInfo struct {
	Tier             Tier
	ChallengeRating  int
	ProficiencyBonus int
	PrimaryBoost     int
	SecondaryBoost   int
	ACBase           int
	HPBase           int
	HPMultiplier     int
	Traits           int
	Actions          int
	Reactions        int
	// Multiattack is the number of attacks a synthesized multiattack names;
	// 0 means the tier never receives one.
	Multiattack int
	// Compressed selects the narrow [8,14] ability-score range.
	Compressed bool
}

var tierNames = [tierCount]string{"Novice", "Trained", "Veteran", "Elite", "Legendary"}

var tierTable = [tierCount]TierInfo{
	Novice:    {Tier: Novice, ChallengeRating: 1, ProficiencyBonus: 2, ACBase: 12, HPBase: 10, HPMultiplier: 1, Traits: 1, Actions: 1, Compressed: true},
	Trained:   {Tier: Trained, ChallengeRating: 3, ProficiencyBonus: 2, ACBase: 13, HPBase: 18, HPMultiplier: 3, Traits: 1, Actions: 2, Reactions: 1, Multiattack: 2},
	Veteran:   {Tier: Veteran, ChallengeRating: 6, ProficiencyBonus: 3, PrimaryBoost: 2, SecondaryBoost: 1, ACBase: 15, HPBase: 30, HPMultiplier: 6, Traits: 2, Actions: 2, Reactions: 1, Multiattack: 2},
	Elite:     {Tier: Elite, ChallengeRating: 10, ProficiencyBonus: 4, PrimaryBoost: 4, SecondaryBoost: 2, ACBase: 16, HPBase: 60, HPMultiplier: 10, Traits: 2, Actions: 3, Reactions: 1, Multiattack: 3},
	Legendary: {Tier: Legendary, ChallengeRating: 15, ProficiencyBonus: 5, PrimaryBoost: 6, SecondaryBoost: 3, ACBase: 17, HPBase: 100, HPMultiplier: 15, Traits: 3, Actions: 3, Reactions: 2, Multiattack: 3},
}

// Tiers returns every tier in ascending order.
func Tiers() []Tier {
	out := make([]Tier, 0, tierCount)
	for t := Novice; t < tierCount; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is a defined tier.
func (t Tier) Valid() bool {
	return t >= Novice && t < tierCount
}

// Info returns the configuration row for t. An undefined tier yields the
// Novice row.
//
// Postcondition: Returns a row whose Tier field is valid.
func (t Tier) Info() TierInfo {
	if !t.Valid() {
		return tierTable[Novice]
	}
	return tierTable[t]
}

// String returns the display name of t, e.g. "Veteran".
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseTier resolves a tier name case-insensitively. Unknown input falls back
// to Novice; ok reports whether the name matched.
func ParseTier(s string) (t Tier, ok bool) {
	name := strings.TrimSpace(s)
	for i, n := range tierNames {
		if strings.EqualFold(n, name) {
			return Tier(i), true
		}
	}
	return Novice, false
}

// MarshalText encodes the tier as its display name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.Info().Tier.name()), nil
}

// UnmarshalText decodes a tier name, coercing unknown names to Novice.
func (t *Tier) UnmarshalText(text []byte) error {
	*t, _ = ParseTier(string(text))
	return nil
}

func (t Tier) name() string {
	return tierNames[t]
}
