package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// NameFormatNickname renders names as `First "Nick" Last`.
const NameFormatNickname = "first_nickname_last"

// NameLists holds the name pools used to name members of a race.
type NameLists struct {
	MaleFirst   []string `yaml:"male_first"`
	FemaleFirst []string `yaml:"female_first"`
	Last        []string `yaml:"last"`
	Nicknames   []string `yaml:"nicknames"`
}

// Race defines a playable ancestry for NPC identity and movement speed.
//
// Precondition: ID and Label must be non-empty after loading.
type Race struct {
	ID          string    `yaml:"id"`
	Label       string    `yaml:"label"`
	NameFormat  string    `yaml:"name_format"`
	ShortLegged bool      `yaml:"short_legged"`
	Names       NameLists `yaml:"names"`
}

// Matches reports whether s names this race by label or id, case-insensitively.
func (r *Race) Matches(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(r.Label, s) || strings.EqualFold(r.ID, s)
}

// Speed returns the race's walking speed in feet.
//
// Postcondition: Returns 25 for short-legged races, else 30.
func (r *Race) Speed() int {
	if r != nil && r.ShortLegged {
		return 25
	}
	return 30
}

// Validate checks that the race has an identity and names to draw from.
func (r *Race) Validate() error {
	if r.ID == "" || r.Label == "" {
		return fmt.Errorf("race %q: id and label must be non-empty", r.ID)
	}
	if len(r.Names.Last) == 0 || (len(r.Names.MaleFirst) == 0 && len(r.Names.FemaleFirst) == 0) {
		return fmt.Errorf("race %q: first and last name lists must not be empty", r.ID)
	}
	if r.NameFormat == NameFormatNickname && len(r.Names.Nicknames) == 0 {
		return fmt.Errorf("race %q: name_format %s requires nicknames", r.ID, NameFormatNickname)
	}
	return nil
}

// LoadRaces reads all content files in dir and parses each as a Race.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed races (may be empty slice) or a non-nil error.
func LoadRaces(dir string) ([]*Race, error) {
	files, err := contentFiles(dir)
	if err != nil {
		return nil, err
	}
	races := make([]*Race, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var r Race
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parsing race file %s: %w", path, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("race file %s: %w", path, err)
		}
		races = append(races, &r)
	}
	return races, nil
}

// contentFiles lists the .yaml, .yml and .json files directly under dir,
// sorted by name.
func contentFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
