package npc

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/reference"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

// Generator assembles NPC records. It holds no mutable state beyond its
// injected collaborators and is safe for concurrent use when they are.
type Generator struct {
	tables *ruleset.Tables
	engine *statblock.Engine
	linker *reference.Linker
	src    dice.Source
	ids    IDGenerator
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithIDGenerator overrides the default UUID generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(g *Generator) { g.ids = ids }
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the generator's logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a Generator over engine's tables, drawing identity
// choices from src.
//
// Precondition: engine and src must be non-nil.
func NewGenerator(engine *statblock.Engine, src dice.Source, opts ...Option) *Generator {
	if engine == nil || src == nil {
		panic("npc.NewGenerator: engine and src must be non-nil")
	}
	g := &Generator{
		tables: engine.Tables(),
		engine: engine,
		linker: reference.NewLinkerFromTables(engine.Tables()),
		src:    src,
		ids:    UUIDGenerator{},
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Linker returns the reference linker built over the generator's tables.
func (g *Generator) Linker() *reference.Linker {
	return g.linker
}

// Generate resolves every Random field of c and builds a complete record.
// Concrete values are used as given; an unknown archetype or tier coerces to
// its default.
//
// Postcondition: Returns a fully populated, version-stamped NPC.
func (g *Generator) Generate(c Criteria) *NPC {
	sex := g.pickOr(c.Sex, sexOptions)
	alignment := g.pickOr(c.Alignment, alignmentOptions)
	race := g.resolveRace(c.Race)

	archetype := c.Archetype
	if isRandom(archetype) {
		archetype = string(g.pickArchetype())
	}
	tier, ok := tierOrRandom(c.Tier)
	if !ok {
		tiers := ruleset.Tiers()
		tier = tiers[g.src.Intn(len(tiers))]
	}

	n := &NPC{
		ID:                  g.ids.Generate(),
		CreatedAt:           g.now().UTC(),
		Sex:                 sex,
		Race:                race.Label,
		RaceID:              race.ID,
		Alignment:           alignment,
		Name:                g.name(race, sex),
		PhysicalDescription: g.pick(g.tables.Physical.For(race.Label)),
		PsychDescription:    g.pick(g.tables.Psych.For(alignment)),
		Face:                g.pick(g.tables.Faces),
		Version:             RecordVersion,
	}
	g.restat(n, archetype, tier)

	g.logger.Info("generated npc",
		zap.String("id", n.ID),
		zap.String("name", n.Name),
		zap.String("race", n.Race),
		zap.String("archetype", string(n.ArchetypeID)),
		zap.Stringer("tier", n.Tier),
	)
	return n
}

// Restat recomputes n's stat block for a new archetype and tier, replacing
// every derived field. Identity and notes are untouched.
//
// Precondition: n must be non-nil.
func (g *Generator) Restat(n *NPC, archetype string, tier ruleset.Tier) {
	g.restat(n, archetype, tier)
	g.logger.Debug("restatted npc",
		zap.String("id", n.ID),
		zap.String("archetype", string(n.ArchetypeID)),
		zap.Stringer("tier", n.Tier),
	)
}

func (g *Generator) restat(n *NPC, archetype string, tier ruleset.Tier) {
	block := g.engine.ComputeStatsFor(archetype, tier, n.Race)
	block.SpellActions = g.linker.SpellActions(&block)
	n.Block = block
}

func (g *Generator) pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[g.src.Intn(len(list))]
}

func (g *Generator) pickOr(value string, options []string) string {
	if isRandom(value) {
		return g.pick(options)
	}
	return value
}

func (g *Generator) pickArchetype() ruleset.ArchetypeID {
	if len(g.tables.Archetypes) == 0 {
		return ""
	}
	return g.tables.Archetypes[g.src.Intn(len(g.tables.Archetypes))].ID
}

// resolveRace returns the loaded race for choice, a random race for Random,
// or an ad-hoc race carrying the caller's id and label when unknown.
func (g *Generator) resolveRace(choice RaceChoice) *ruleset.Race {
	if choice.IsRandom() {
		if len(g.tables.Races) == 0 {
			return &ruleset.Race{}
		}
		return g.tables.Races[g.src.Intn(len(g.tables.Races))]
	}
	for _, key := range []string{choice.ID, choice.Label} {
		if isRandom(key) {
			continue
		}
		if r, ok := g.tables.Race(key); ok {
			return r
		}
	}
	return &ruleset.Race{ID: choice.ID, Label: choice.Label}
}

func (g *Generator) name(r *ruleset.Race, sex string) string {
	first := r.Names.MaleFirst
	if sex == "Female" {
		first = r.Names.FemaleFirst
	}
	firstName := g.pick(first)
	lastName := g.pick(r.Names.Last)
	if r.NameFormat == ruleset.NameFormatNickname {
		return fmt.Sprintf("%s %q %s", firstName, g.pick(r.Names.Nicknames), lastName)
	}
	return joinNonEmpty(firstName, lastName)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
