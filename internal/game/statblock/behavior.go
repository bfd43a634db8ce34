package statblock

import (
	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// DefaultRetryCap is the number of draws attempted to find a template whose
// name is not already selected before a duplicate is accepted.
const DefaultRetryCap = 5

// Selector draws behavior templates from tagged pools.
type Selector struct {
	src      dice.Source
	retryCap int
}

// NewSelector returns a Selector drawing from src. A retryCap below 1 is
// treated as 1.
//
// Precondition: src must be non-nil.
func NewSelector(src dice.Source, retryCap int) *Selector {
	if retryCap < 1 {
		retryCap = 1
	}
	return &Selector{src: src, retryCap: retryCap}
}

// Select draws count templates for archetype a from list.
//
// The draw pool is the archetype-tagged subset of list, or the wildcard subset
// when none is tagged. Each slot is drawn up to the retry cap times to avoid a
// name already chosen; on exhaustion the duplicate is kept. Once every distinct
// name of the tagged pool has been chosen the remaining slots draw from the
// wildcard pool.
//
// Postcondition: len(result) == count when the pool is non-empty, else 0.
// A count of 0 performs no draws.
func (s *Selector) Select(list []*ruleset.Behavior, a *ruleset.Archetype, count int) []*ruleset.Behavior {
	if count <= 0 {
		return nil
	}
	pool := ruleset.Pool(list, a)
	wildcard := ruleset.Tagged(list, ruleset.TagAny)
	onWildcard := a == nil || len(ruleset.Tagged(list, a.MatchTags()...)) == 0

	chosen := make([]*ruleset.Behavior, 0, count)
	used := make(map[string]bool, count)
	for len(chosen) < count {
		if !onWildcard && exhausted(pool, used) && len(wildcard) > 0 {
			pool, onWildcard = wildcard, true
		}
		if len(pool) == 0 {
			break
		}
		pick := s.draw(pool, used)
		chosen = append(chosen, pick)
		used[pick.Name] = true
	}
	return chosen
}

func (s *Selector) draw(pool []*ruleset.Behavior, used map[string]bool) *ruleset.Behavior {
	var pick *ruleset.Behavior
	for attempt := 0; attempt < s.retryCap; attempt++ {
		pick = pool[s.src.Intn(len(pool))]
		if !used[pick.Name] {
			break
		}
	}
	return pick
}

// exhausted reports whether every name in pool has been used.
func exhausted(pool []*ruleset.Behavior, used map[string]bool) bool {
	for _, b := range pool {
		if !used[b.Name] {
			return false
		}
	}
	return true
}
