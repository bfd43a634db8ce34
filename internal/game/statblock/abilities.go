package statblock

import (
	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// Score bounds for each tier band.
const (
	baseScore       = 10
	minScore        = 8
	maxScore        = 20
	maxNoviceScore  = 14
	novicePrimary   = 14
	noviceSecondary = 12
)

// Scores maps the six ability keys to integers. It is used both for raw
// scores and for values derived from them (modifiers, saving throws).
type Scores struct {
	STR int `json:"STR"`
	DEX int `json:"DEX"`
	CON int `json:"CON"`
	INT int `json:"INT"`
	WIS int `json:"WIS"`
	CHA int `json:"CHA"`
}

// Uniform returns Scores with every key set to v.
func Uniform(v int) Scores {
	return Scores{v, v, v, v, v, v}
}

// Get returns the value for a. An unknown key yields 0.
func (s Scores) Get(a ruleset.Ability) int {
	if p := s.field(a); p != nil {
		return *p
	}
	return 0
}

// Set assigns v to a. Unknown keys are ignored.
func (s *Scores) Set(a ruleset.Ability, v int) {
	if p := s.field(a); p != nil {
		*p = v
	}
}

func (s *Scores) field(a ruleset.Ability) *int {
	switch a {
	case ruleset.STR:
		return &s.STR
	case ruleset.DEX:
		return &s.DEX
	case ruleset.CON:
		return &s.CON
	case ruleset.INT:
		return &s.INT
	case ruleset.WIS:
		return &s.WIS
	case ruleset.CHA:
		return &s.CHA
	default:
		return nil
	}
}

// Map returns s keyed by ability, including all six keys.
func (s Scores) Map() map[ruleset.Ability]int {
	out := make(map[ruleset.Ability]int, 6)
	for _, a := range ruleset.Abilities() {
		out[a] = s.Get(a)
	}
	return out
}

// Modifier returns floor((score-10)/2).
func Modifier(score int) int {
	d := score - baseScore
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// Mods derives the modifier for every key from s.
//
// Postcondition: Mods().Get(a) == Modifier(s.Get(a)) for every ability a.
func (s Scores) Mods() Scores {
	var m Scores
	for _, a := range ruleset.Abilities() {
		m.Set(a, Modifier(s.Get(a)))
	}
	return m
}

// GenerateScores produces ability scores for archetype a at the tier described
// by info, drawing any random choice from src.
//
// Compressed tiers set one random primary to 14 and a second ability (the next
// primary in list order, else the first secondary) to 12, clamped to [8,14].
// Secondary boosts do not apply to compressed tiers. Other tiers add 4 plus the
// tier's primary boost to each primary, and 2 plus its secondary boost to each
// secondary, clamped to [8,20]. A nil archetype yields baseline scores.
//
// Precondition: src must be non-nil.
// Postcondition: every score lies in [8,14] for compressed tiers, else [8,20].
func GenerateScores(a *ruleset.Archetype, info ruleset.TierInfo, src dice.Source) Scores {
	s := Uniform(baseScore)
	hi := maxScore
	if info.Compressed {
		hi = maxNoviceScore
	}
	if a != nil {
		if info.Compressed {
			applyCompressed(&s, a, src)
		} else {
			for _, k := range a.Primary {
				s.Set(k, s.Get(k)+4+info.PrimaryBoost)
			}
			for _, k := range a.Secondary {
				s.Set(k, s.Get(k)+2+info.SecondaryBoost)
			}
		}
	}
	for _, k := range ruleset.Abilities() {
		s.Set(k, clamp(s.Get(k), minScore, hi))
	}
	return s
}

func applyCompressed(s *Scores, a *ruleset.Archetype, src dice.Source) {
	if len(a.Primary) == 0 {
		return
	}
	first := a.Primary[src.Intn(len(a.Primary))]
	s.Set(first, novicePrimary)

	var second ruleset.Ability
	for _, k := range a.Primary {
		if k != first {
			second = k
			break
		}
	}
	if second == "" && len(a.Secondary) > 0 && a.Secondary[0] != first {
		second = a.Secondary[0]
	}
	if second != "" {
		s.Set(second, noviceSecondary)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
