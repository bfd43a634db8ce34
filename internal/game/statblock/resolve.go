package statblock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// Placeholders recognized in behavior text. Anything else in braces is left
// untouched.
const (
	PlaceholderToHit  = "{toHit}"
	PlaceholderDC     = "{dc}"
	PlaceholderDamage = "{damage}"
	PlaceholderPB     = "{pb}"
	PlaceholderMod    = "{mod}"
)

// Placeholders returns the closed substitution set.
func Placeholders() []string {
	return []string{PlaceholderToHit, PlaceholderDC, PlaceholderDamage, PlaceholderPB, PlaceholderMod}
}

// Signed formats n with an explicit sign, e.g. "+3", "-1", "+0".
func Signed(n int) string {
	return fmt.Sprintf("%+d", n)
}

// SaveDC returns 8 + pb + mod.
func SaveDC(pb, mod int) int {
	return 8 + pb + mod
}

// DamageExpression joins the non-empty dice parts with "+" and appends the
// signed modifier when it is non-zero. With no dice only the signed modifier
// is returned.
func DamageExpression(diceExpr, bonusDice string, mod int) string {
	var parts []string
	for _, p := range []string{diceExpr, bonusDice} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Signed(mod)
	}
	expr := strings.Join(parts, "+")
	if mod != 0 {
		expr += Signed(mod)
	}
	return expr
}

// Resolve substitutes the placeholders of b for a creature with modifiers mods
// and proficiency bonus pb at tier t. Archetype bonus dice apply to
// attack-capable templates only.
//
// Postcondition: no recognized placeholder remains in the returned Text; Roll
// is non-nil iff b is attack-capable.
func Resolve(b *ruleset.Behavior, mods Scores, pb int, t ruleset.Tier, a *ruleset.Archetype) Entry {
	mod := mods.Get(b.ActingAbility())
	diceExpr := b.DamageFor(t)
	var bonus string
	if b.AttackCapable() {
		bonus = a.BonusDie(t)
	}

	r := strings.NewReplacer(
		PlaceholderToHit, Signed(mod+pb),
		PlaceholderDC, strconv.Itoa(SaveDC(pb, mod)),
		PlaceholderDamage, DamageExpression(diceExpr, bonus, mod),
		PlaceholderPB, strconv.Itoa(pb),
		PlaceholderMod, Signed(mod),
	)
	e := Entry{Name: b.Name, Text: r.Replace(b.Text)}
	if b.AttackCapable() {
		e.Roll = &RollPayload{
			AttackBonus: mod + pb,
			DamageDice:  diceExpr,
			BonusDice:   bonus,
			DamageMod:   mod,
		}
	}
	return e
}
