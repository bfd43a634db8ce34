// Package npc generates complete NPC records: identity and flavor drawn from
// the content tables, combined with a computed stat block.
package npc

import (
	"time"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

// Random is the criteria sentinel requesting a random choice.
const Random = "random"

// RecordVersion is the schema version stamped on new records.
const RecordVersion = 1

var (
	sexOptions       = []string{"Male", "Female"}
	alignmentOptions = []string{"Good", "Neutral", "Evil"}
)

// SexOptions returns the selectable sexes.
func SexOptions() []string {
	return append([]string(nil), sexOptions...)
}

// AlignmentOptions returns the selectable alignments.
func AlignmentOptions() []string {
	return append([]string(nil), alignmentOptions...)
}

// NPC is a generated character. The embedded Block is replaced wholesale by
// Restat and never patched field by field.
type NPC struct {
	ID                  string    `json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	Sex                 string    `json:"sex"`
	Race                string    `json:"race"`
	RaceID              string    `json:"race_id"`
	Alignment           string    `json:"alignment"`
	Name                string    `json:"name"`
	PhysicalDescription string    `json:"physical_description"`
	PsychDescription    string    `json:"psych_description"`
	Face                string    `json:"face,omitempty"`
	Notes               string    `json:"notes"`
	Version             int       `json:"version"`
	statblock.Block
}

// RaceChoice selects a race; an empty ID or the Random sentinel requests a
// random race.
type RaceChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// IsRandom reports whether the choice defers to a random pick.
func (r RaceChoice) IsRandom() bool {
	return isRandom(r.ID) && isRandom(r.Label)
}

// Criteria selects what to generate. Each string field is a concrete value or
// Random; the empty string also means Random.
type Criteria struct {
	Sex       string     `json:"sex"`
	Race      RaceChoice `json:"race"`
	Alignment string     `json:"alignment"`
	Archetype string     `json:"archetype"`
	Tier      string     `json:"tier"`
}

// RandomCriteria requests a random value for every field.
func RandomCriteria() Criteria {
	return Criteria{Sex: Random, Race: RaceChoice{ID: Random}, Alignment: Random, Archetype: Random, Tier: Random}
}

func isRandom(s string) bool {
	return s == "" || s == Random
}

// tierOrRandom resolves a tier name, returning false for the Random sentinel.
func tierOrRandom(s string) (ruleset.Tier, bool) {
	if isRandom(s) {
		return 0, false
	}
	t, _ := ruleset.ParseTier(s)
	return t, true
}
