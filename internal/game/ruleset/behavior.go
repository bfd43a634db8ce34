package ruleset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category names one of the three behavior lists of a stat block.
type Category string

// Behavior categories.
const (
	CategoryTraits    Category = "traits"
	CategoryActions   Category = "actions"
	CategoryReactions Category = "reactions"
)

// Categories returns the behavior categories in stat-block order.
func Categories() []Category {
	return []Category{CategoryTraits, CategoryActions, CategoryReactions}
}

// TagAny is the wildcard tag matched when no archetype-tagged template exists.
const TagAny = "any"

// Behavior is a tagged, placeholder-bearing template for a trait, action, or
// reaction. Text may contain {toHit}, {dc}, {damage}, {pb} and {mod}.
// ModifierAbility feeds those placeholders for text that is neither an attack
// nor a save, e.g. a damage bonus trait.
type Behavior struct {
	Name            string            `yaml:"name"`
	Tags            []string          `yaml:"tags"`
	Text            string            `yaml:"text"`
	AttackAbility   Ability           `yaml:"attack_ability"`
	SaveAbility     Ability           `yaml:"save_ability"`
	ModifierAbility Ability           `yaml:"modifier_ability"`
	Damage          string            `yaml:"damage"`
	DamageByTier    map[string]string `yaml:"damage_by_tier"`
}

// HasTag reports whether the template carries tag.
func (b *Behavior) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// AttackCapable reports whether the template describes an attack.
func (b *Behavior) AttackCapable() bool {
	return b.AttackAbility != ""
}

// ActingAbility returns the attack ability, else the save ability, else the
// modifier ability, else "".
func (b *Behavior) ActingAbility() Ability {
	switch {
	case b.AttackAbility != "":
		return b.AttackAbility
	case b.SaveAbility != "":
		return b.SaveAbility
	}
	return b.ModifierAbility
}

// DamageFor returns the tier-specific damage dice when declared, else the flat
// Damage expression.
func (b *Behavior) DamageFor(t Tier) string {
	if d, ok := b.DamageByTier[t.String()]; ok && strings.TrimSpace(d) != "" {
		return strings.TrimSpace(d)
	}
	return strings.TrimSpace(b.Damage)
}

// Validate checks the template's required fields.
func (b *Behavior) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("behavior: name must not be empty")
	}
	if strings.TrimSpace(b.Text) == "" {
		return fmt.Errorf("behavior %q: text must not be empty", b.Name)
	}
	if len(b.Tags) == 0 {
		return fmt.Errorf("behavior %q: at least one tag is required", b.Name)
	}
	for tier := range b.DamageByTier {
		if _, ok := ParseTier(tier); !ok {
			return fmt.Errorf("behavior %q: damage_by_tier names unknown tier %q", b.Name, tier)
		}
	}
	return nil
}

type behaviorFile struct {
	Templates []*Behavior `yaml:"templates"`
}

// LoadBehaviorsFromBytes parses a behavior list document of the form
// `templates: [...]` and validates every entry.
//
// Postcondition: Returns the templates in document order or a non-nil error.
func LoadBehaviorsFromBytes(data []byte) ([]*Behavior, error) {
	var f behaviorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing behaviors: %w", err)
	}
	for i, b := range f.Templates {
		if b == nil {
			return nil, fmt.Errorf("behavior %d: empty entry", i)
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Templates, nil
}

// LoadBehaviors reads and parses the behavior list at path.
//
// Precondition: path must name a readable file.
func LoadBehaviors(path string) ([]*Behavior, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	bs, err := LoadBehaviorsFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("behavior file %s: %w", path, err)
	}
	return bs, nil
}
