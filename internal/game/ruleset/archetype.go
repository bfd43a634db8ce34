package ruleset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ArchetypeID identifies a combat role. The set is closed.
type ArchetypeID string

// Known archetype ids, in canonical order.
const (
	Martial    ArchetypeID = "martial"
	Brute      ArchetypeID = "brute"
	Skirmisher ArchetypeID = "skirmisher"
	Rogue      ArchetypeID = "rogue"
	Caster     ArchetypeID = "caster"
	Cleric     ArchetypeID = "cleric"
)

var archetypeOrder = [...]ArchetypeID{Martial, Brute, Skirmisher, Rogue, Caster, Cleric}

// ArchetypeIDs returns every known archetype id in canonical order.
func ArchetypeIDs() []ArchetypeID {
	out := make([]ArchetypeID, len(archetypeOrder))
	copy(out, archetypeOrder[:])
	return out
}

// Index returns the canonical position of id, or -1 when id is unknown.
func (id ArchetypeID) Index() int {
	for i, k := range archetypeOrder {
		if k == id {
			return i
		}
	}
	return -1
}

// Valid reports whether id is a known archetype id.
func (id ArchetypeID) Valid() bool {
	return id.Index() >= 0
}

// ACAdjust returns the armor-class adjustment for the role.
func (id ArchetypeID) ACAdjust() int {
	switch id {
	case Martial:
		return 2
	case Brute, Skirmisher, Cleric:
		return 1
	case Caster:
		return -1
	default:
		return 0
	}
}

// PureCaster reports whether the role never receives a multiattack.
func (id ArchetypeID) PureCaster() bool {
	return id == Caster
}

// ParseArchetypeID normalizes s into a known id.
func ParseArchetypeID(s string) (ArchetypeID, bool) {
	id := ArchetypeID(strings.ToLower(strings.TrimSpace(s)))
	return id, id.Valid()
}

// Archetype defines the ability emphasis and behavior affinity of a combat role.
//
// Precondition: ID must be a known ArchetypeID and Label non-empty after loading.
type Archetype struct {
	ID        ArchetypeID `yaml:"id"`
	Label     string      `yaml:"label"`
	Primary   []Ability   `yaml:"primary"`
	Secondary []Ability   `yaml:"secondary"`
	// SaveProfs is honored only when it names exactly two distinct keys.
	SaveProfs []Ability `yaml:"save_profs"`
	// Tags extend the archetype's own id when matching behavior templates.
	Tags []string `yaml:"tags"`
	// BonusDamage maps a tier name to an extra damage die, e.g. "Veteran": "2d6".
	BonusDamage map[string]string `yaml:"bonus_damage"`
}

// BonusDie returns the archetype's extra damage die for t, or "".
func (a *Archetype) BonusDie(t Tier) string {
	if a == nil {
		return ""
	}
	return strings.TrimSpace(a.BonusDamage[t.String()])
}

// MatchTags returns the tags a behavior template may carry to be selected for
// this archetype: its id followed by any declared extra tags.
func (a *Archetype) MatchTags() []string {
	tags := []string{string(a.ID)}
	for _, t := range a.Tags {
		if t != string(a.ID) {
			tags = append(tags, t)
		}
	}
	return tags
}

// Validate checks the archetype's id and ability lists.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (a *Archetype) Validate() error {
	if !a.ID.Valid() {
		return fmt.Errorf("archetype %q: unknown id", a.ID)
	}
	if a.Label == "" {
		return fmt.Errorf("archetype %q: label must not be empty", a.ID)
	}
	if len(a.Primary) == 0 {
		return fmt.Errorf("archetype %q: at least one primary ability is required", a.ID)
	}
	for tier := range a.BonusDamage {
		if _, ok := ParseTier(tier); !ok {
			return fmt.Errorf("archetype %q: bonus_damage names unknown tier %q", a.ID, tier)
		}
	}
	return nil
}

// LoadArchetypeFromBytes parses and validates a single archetype document.
//
// Postcondition: Returns a valid *Archetype or a non-nil error.
func LoadArchetypeFromBytes(data []byte) (*Archetype, error) {
	var a Archetype
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing archetype: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadArchetypes reads all content files in dir and parses each as an Archetype.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed archetypes (may be empty slice) or a non-nil error.
func LoadArchetypes(dir string) ([]*Archetype, error) {
	files, err := contentFiles(dir)
	if err != nil {
		return nil, err
	}
	archetypes := make([]*Archetype, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		a, err := LoadArchetypeFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("archetype file %s: %w", path, err)
		}
		archetypes = append(archetypes, a)
	}
	return archetypes, nil
}
