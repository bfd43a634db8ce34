package ruleset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Tables is the read-only content bundle the stat engine and NPC generator
// are constructed with. It is never mutated after LoadTables returns.
type Tables struct {
	Archetypes []*Archetype
	Races      []*Race
	Traits     []*Behavior
	Actions    []*Behavior
	Reactions  []*Behavior
	Physical   *Physical
	Psych      Psych
	Faces      []string
	Spells     []*Spell
	Conditions []*Condition
}

// Option is a selectable id/label pair for presentation layers.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// LoadTables loads every content table under dir concurrently.
//
// Expected layout:
//
//	archetypes/*.yaml  races/*.yaml
//	behaviors/{traits,actions,reactions}.yaml
//	flavor/{physical,psych,faces}.yaml
//	reference/{spells,conditions}.yaml
//
// Precondition: dir must be a readable content directory.
// Postcondition: Returns validated Tables with archetypes in canonical order,
// or the first load error encountered.
func LoadTables(ctx context.Context, dir string) (*Tables, error) {
	t := &Tables{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		t.Archetypes, err = LoadArchetypes(filepath.Join(dir, "archetypes"))
		return err
	})
	g.Go(func() (err error) {
		t.Races, err = LoadRaces(filepath.Join(dir, "races"))
		return err
	})
	behaviorDir := filepath.Join(dir, "behaviors")
	g.Go(func() (err error) {
		t.Traits, err = LoadBehaviors(filepath.Join(behaviorDir, "traits.yaml"))
		return err
	})
	g.Go(func() (err error) {
		t.Actions, err = LoadBehaviors(filepath.Join(behaviorDir, "actions.yaml"))
		return err
	})
	g.Go(func() (err error) {
		t.Reactions, err = LoadBehaviors(filepath.Join(behaviorDir, "reactions.yaml"))
		return err
	})
	flavorDir := filepath.Join(dir, "flavor")
	g.Go(func() (err error) {
		t.Physical, err = LoadPhysical(filepath.Join(flavorDir, "physical.yaml"))
		return err
	})
	g.Go(func() (err error) {
		t.Psych, err = LoadPsych(filepath.Join(flavorDir, "psych.yaml"))
		return err
	})
	g.Go(func() (err error) {
		t.Faces, err = LoadFaces(filepath.Join(flavorDir, "faces.yaml"))
		return err
	})
	refDir := filepath.Join(dir, "reference")
	g.Go(func() (err error) {
		t.Spells, err = LoadSpells(filepath.Join(refDir, "spells.yaml"))
		return err
	})
	g.Go(func() (err error) {
		t.Conditions, err = LoadConditions(filepath.Join(refDir, "conditions.yaml"))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading content from %s: %w", dir, err)
	}
	t.sortArchetypes()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validating content from %s: %w", dir, err)
	}
	return t, nil
}

func (t *Tables) sortArchetypes() {
	sort.SliceStable(t.Archetypes, func(i, j int) bool {
		return t.Archetypes[i].ID.Index() < t.Archetypes[j].ID.Index()
	})
}

// Validate checks cross-table invariants: at least one archetype and race,
// unique archetype ids, and every archetype able to fill each non-empty
// behavior category through its tags or the wildcard pool.
//
// Postcondition: Returns nil if valid, or an error joining every violation.
func (t *Tables) Validate() error {
	var errs []error
	if len(t.Archetypes) == 0 {
		errs = append(errs, errors.New("no archetypes defined"))
	}
	if len(t.Races) == 0 {
		errs = append(errs, errors.New("no races defined"))
	}
	seen := make(map[ArchetypeID]bool)
	for _, a := range t.Archetypes {
		if seen[a.ID] {
			errs = append(errs, fmt.Errorf("archetype %q defined more than once", a.ID))
		}
		seen[a.ID] = true
		for _, c := range Categories() {
			pool := t.Behaviors(c)
			if len(pool) == 0 {
				continue
			}
			if len(Pool(pool, a)) == 0 {
				errs = append(errs, fmt.Errorf("archetype %q: no %s template matches its tags or %q", a.ID, c, TagAny))
			}
		}
	}
	return errors.Join(errs...)
}

// Behaviors returns the template list for c.
func (t *Tables) Behaviors(c Category) []*Behavior {
	switch c {
	case CategoryTraits:
		return t.Traits
	case CategoryActions:
		return t.Actions
	case CategoryReactions:
		return t.Reactions
	default:
		return nil
	}
}

// Pool returns the templates in list tagged for a, falling back to the
// wildcard-tagged templates when none match. A nil archetype selects the
// wildcard pool directly.
func Pool(list []*Behavior, a *Archetype) []*Behavior {
	if a != nil {
		if tagged := Tagged(list, a.MatchTags()...); len(tagged) > 0 {
			return tagged
		}
	}
	return Tagged(list, TagAny)
}

// Tagged returns the templates in list carrying any of tags, in list order.
func Tagged(list []*Behavior, tags ...string) []*Behavior {
	var out []*Behavior
	for _, b := range list {
		for _, tag := range tags {
			if b.HasTag(tag) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// Archetype returns the archetype with id.
func (t *Tables) Archetype(id ArchetypeID) (*Archetype, bool) {
	for _, a := range t.Archetypes {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// ResolveArchetype looks up s by id or label, case-insensitively. Unknown
// input coerces to the first archetype; nil is returned only when no
// archetypes are loaded.
func (t *Tables) ResolveArchetype(s string) *Archetype {
	if id, ok := ParseArchetypeID(s); ok {
		if a, ok := t.Archetype(id); ok {
			return a
		}
	}
	for _, a := range t.Archetypes {
		if equalFoldTrim(a.Label, s) {
			return a
		}
	}
	if len(t.Archetypes) == 0 {
		return nil
	}
	return t.Archetypes[0]
}

// Race returns the race whose label or id matches s, case-insensitively.
func (t *Tables) Race(s string) (*Race, bool) {
	for _, r := range t.Races {
		if r.Matches(s) {
			return r, true
		}
	}
	return nil, false
}

// ArchetypeOptions enumerates the loaded archetypes in canonical order.
func (t *Tables) ArchetypeOptions() []Option {
	out := make([]Option, 0, len(t.Archetypes))
	for _, a := range t.Archetypes {
		out = append(out, Option{ID: string(a.ID), Label: a.Label})
	}
	return out
}

// RaceOptions enumerates the loaded races in load order.
func (t *Tables) RaceOptions() []Option {
	out := make([]Option, 0, len(t.Races))
	for _, r := range t.Races {
		out = append(out, Option{ID: r.ID, Label: r.Label})
	}
	return out
}
