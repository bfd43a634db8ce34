package statblock

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// Engine computes stat blocks from a read-only content bundle.
type Engine struct {
	tables   *ruleset.Tables
	src      dice.Source
	retryCap int
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRetryCap overrides DefaultRetryCap.
func WithRetryCap(n int) Option {
	return func(e *Engine) { e.retryCap = n }
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine over tables drawing randomness from src.
//
// Precondition: tables and src must be non-nil.
// Postcondition: Returns a ready Engine; tables are never mutated by it.
func NewEngine(tables *ruleset.Tables, src dice.Source, opts ...Option) *Engine {
	if tables == nil {
		panic("statblock.NewEngine: tables must not be nil")
	}
	if src == nil {
		panic("statblock.NewEngine: src must not be nil")
	}
	e := &Engine{tables: tables, src: src, retryCap: DefaultRetryCap, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables returns the content bundle the engine was built with.
func (e *Engine) Tables() *ruleset.Tables {
	return e.tables
}

// ComputeStatsFor builds a complete block for the named archetype at tier t
// for a creature of race raceLabel. Unknown archetypes coerce to the first
// loaded archetype, unknown tiers to Novice, and unknown races to a 30 ft.
// speed.
//
// Postcondition: the returned Block is fully populated and never partially
// derived from a previous call.
func (e *Engine) ComputeStatsFor(archetype string, t ruleset.Tier, raceLabel string) Block {
	info := t.Info()
	arch := e.tables.ResolveArchetype(archetype)

	var id ruleset.ArchetypeID
	var label string
	if arch != nil {
		id, label = arch.ID, arch.Label
	}

	scores := GenerateScores(arch, info, e.src)
	mods := scores.Mods()
	profs := SaveProficiencies(arch, mods)

	speed := 30
	if race, ok := e.tables.Race(raceLabel); ok {
		speed = race.Speed()
	}

	b := Block{
		Tier:              info.Tier,
		ArchetypeID:       id,
		ArchetypeLabel:    label,
		ChallengeRating:   info.ChallengeRating,
		ProficiencyBonus:  info.ProficiencyBonus,
		ArmorClass:        ArmorClass(info, id),
		HitPoints:         HitPoints(info, mods.CON),
		Speed:             speed,
		Initiative:        mods.DEX,
		AbilityScores:     scores,
		AbilityMods:       mods,
		SaveProficiencies: profs,
		SavingThrows:      SavingThrows(mods, profs, info.ProficiencyBonus),
	}
	b.Traits, b.Actions, b.Reactions = e.behaviors(arch, info, mods)

	e.logger.Debug("computed stat block",
		zap.String("archetype", string(id)),
		zap.Stringer("tier", info.Tier),
		zap.String("race", raceLabel),
		zap.Int("ac", b.ArmorClass),
		zap.Int("hp", b.HitPoints),
		zap.Int("actions", len(b.Actions)),
	)
	return b
}

func (e *Engine) behaviors(arch *ruleset.Archetype, info ruleset.TierInfo, mods Scores) (traits, actions, reactions []Entry) {
	sel := NewSelector(e.src, e.retryCap)
	resolve := func(list []*ruleset.Behavior) []Entry {
		out := make([]Entry, 0, len(list))
		for _, b := range list {
			out = append(out, Resolve(b, mods, info.ProficiencyBonus, info.Tier, arch))
		}
		return out
	}

	traits = resolve(sel.Select(e.tables.Traits, arch, info.Traits))
	picked := sel.Select(e.tables.Actions, arch, info.Actions)
	actions = resolve(picked)
	reactions = resolve(sel.Select(e.tables.Reactions, arch, info.Reactions))

	if arch != nil && !arch.ID.PureCaster() && info.Multiattack > 0 {
		if ma, ok := Multiattack(picked, AttackPool(e.tables.Actions, arch), info.Multiattack); ok {
			// Multiattack takes slot 0; the last selected action is dropped.
			actions = append([]Entry{ma}, actions...)
			if len(actions) > info.Actions {
				actions = actions[:info.Actions]
			}
		}
	}
	return traits, actions, reactions
}
