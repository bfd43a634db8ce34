package ruleset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spell is a reference entry for a named spell.
//
// Precondition: Name must be non-empty after loading.
type Spell struct {
	Name        string `yaml:"name"`
	Level       int    `yaml:"level"`
	School      string `yaml:"school,omitempty"`
	CastingTime string `yaml:"casting_time,omitempty"`
	Range       string `yaml:"range,omitempty"`
	Duration    string `yaml:"duration,omitempty"`
	Description string `yaml:"description"`
}

// Condition is a reference entry for a named condition.
type Condition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SpellList is the on-disk shape of the spell reference table.
type SpellList struct {
	Spells []*Spell `yaml:"spells"`
}

type conditionList struct {
	Conditions []*Condition `yaml:"conditions"`
}

// NormalizeKey folds a reference name into its lookup key: lower case with
// runs of whitespace collapsed.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// LoadSpellsFromBytes parses and validates a spell table document.
//
// Postcondition: Returns every spell, each with a non-empty name and a level in
// [0,9], or a non-nil error. Duplicate names are rejected.
func LoadSpellsFromBytes(data []byte) ([]*Spell, error) {
	var l SpellList
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing spells: %w", err)
	}
	seen := make(map[string]bool, len(l.Spells))
	for i, s := range l.Spells {
		if s == nil || strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("spell %d: name must not be empty", i)
		}
		if s.Level < 0 || s.Level > 9 {
			return nil, fmt.Errorf("spell %q: level %d out of range [0,9]", s.Name, s.Level)
		}
		key := NormalizeKey(s.Name)
		if seen[key] {
			return nil, fmt.Errorf("spell %q: duplicate name", s.Name)
		}
		seen[key] = true
	}
	return l.Spells, nil
}

// LoadSpells reads the spell table at path.
func LoadSpells(path string) ([]*Spell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	spells, err := LoadSpellsFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("spell file %s: %w", path, err)
	}
	return spells, nil
}

// LoadConditions reads the condition table at path.
func LoadConditions(path string) ([]*Condition, error) {
	var l conditionList
	if err := readYAML(path, &l); err != nil {
		return nil, err
	}
	for i, c := range l.Conditions {
		if c == nil || strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("condition %d in %s: name must not be empty", i, path)
		}
	}
	return l.Conditions, nil
}
