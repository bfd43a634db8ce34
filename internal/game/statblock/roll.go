package statblock

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// Outcome is a display-ready roll result.
type Outcome struct {
	Result int    `json:"result"`
	Detail string `json:"detail"`
}

// Roller performs on-demand rolls against resolved entries and blocks. It
// retains no state between calls.
type Roller struct {
	dice *dice.Roller
}

// NewRoller returns a Roller drawing from src and logging each roll to logger.
//
// Precondition: src must be non-nil.
func NewRoller(src dice.Source, logger *zap.Logger) *Roller {
	return &Roller{dice: dice.NewLoggedRoller(src, logger)}
}

func outcome(label string, r dice.RollResult) Outcome {
	detail := r.String()
	if label != "" {
		detail = label + ": " + detail
	}
	return Outcome{Result: r.Total(), Detail: detail}
}

// Attack rolls d20 + the payload's attack bonus. A natural 20 is noted in the
// detail.
func (r *Roller) Attack(p RollPayload) Outcome {
	res := r.dice.RollD20(p.AttackBonus)
	o := outcome("Attack", res)
	if res.Dice[0] == 20 {
		o.Detail += " (critical)"
	}
	return o
}

// Damage rolls every dice term of the payload plus its flat modifier.
// Malformed dice contribute nothing.
func (r *Roller) Damage(p RollPayload) Outcome {
	return outcome("Damage", r.dice.RollLenient(DamageExpression(p.DamageDice, p.BonusDice, p.DamageMod)))
}

// Save rolls d20 + the block's modifier for a, adding the proficiency bonus
// when the block is proficient in a. An unknown ability counts as modifier 0.
func (r *Roller) Save(b *Block, a ruleset.Ability) Outcome {
	bonus := b.AbilityMods.Get(a)
	if Proficient(b.SaveProficiencies, a) {
		bonus += b.ProficiencyBonus
	}
	return outcome(fmt.Sprintf("%s save", a), r.dice.RollD20(bonus))
}

// Check rolls d20 + the block's modifier for a.
func (r *Roller) Check(b *Block, a ruleset.Ability) Outcome {
	return outcome(fmt.Sprintf("%s check", a), r.dice.RollD20(b.AbilityMods.Get(a)))
}

// Expression rolls an arbitrary dice expression. Unparseable terms contribute
// zero.
func (r *Roller) Expression(raw string) Outcome {
	return outcome("", r.dice.RollLenient(raw))
}
