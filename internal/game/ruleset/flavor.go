package ruleset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Physical holds physical-description sentences, generic and per race label.
type Physical struct {
	Generic []string            `yaml:"generic"`
	ByRace  map[string][]string `yaml:"by_race"`
}

// For returns the race-specific sentences for raceLabel when any exist, else
// the generic list.
func (p *Physical) For(raceLabel string) []string {
	if p == nil {
		return nil
	}
	for label, sentences := range p.ByRace {
		if strings.EqualFold(label, raceLabel) && len(sentences) > 0 {
			return sentences
		}
	}
	return p.Generic
}

// Psych holds personality sentences keyed by lower-case alignment.
type Psych map[string][]string

// For returns the sentences for alignment, matched case-insensitively.
func (p Psych) For(alignment string) []string {
	return p[strings.ToLower(strings.TrimSpace(alignment))]
}

type facesFile struct {
	Faces []string `yaml:"faces"`
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// LoadPhysical reads the physical-description table at path.
func LoadPhysical(path string) (*Physical, error) {
	var p Physical
	if err := readYAML(path, &p); err != nil {
		return nil, err
	}
	if len(p.Generic) == 0 {
		return nil, fmt.Errorf("physical table %s: generic sentences must not be empty", path)
	}
	return &p, nil
}

// LoadPsych reads the alignment-keyed personality table at path. Keys are
// normalized to lower case.
func LoadPsych(path string) (Psych, error) {
	var raw map[string][]string
	if err := readYAML(path, &raw); err != nil {
		return nil, err
	}
	p := make(Psych, len(raw))
	for k, v := range raw {
		p[strings.ToLower(k)] = v
	}
	return p, nil
}

// LoadFaces reads the portrait id list at path.
func LoadFaces(path string) ([]string, error) {
	var f facesFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	return f.Faces, nil
}
