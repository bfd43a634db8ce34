package statblock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/npcforge/internal/game/dice"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

const contentDir = "../../../content"

var (
	tablesOnce sync.Once
	tables     *ruleset.Tables
	tablesErr  error
)

func loadTables(t testing.TB) *ruleset.Tables {
	t.Helper()
	tablesOnce.Do(func() {
		tables, tablesErr = ruleset.LoadTables(context.Background(), contentDir)
	})
	require.NoError(t, tablesErr)
	return tables
}

// countingSource records how many draws were made.
type countingSource struct {
	src   dice.Source
	calls int
}

func (c *countingSource) Intn(n int) int {
	c.calls++
	return c.src.Intn(n)
}

// constSource always returns v clamped into [0, n).
type constSource int

func (c constSource) Intn(n int) int {
	if int(c) >= n {
		return n - 1
	}
	return int(c)
}

func behavior(name string, tags []string, attack ruleset.Ability) *ruleset.Behavior {
	return &ruleset.Behavior{Name: name, Tags: tags, Text: name, AttackAbility: attack, Damage: "1d6"}
}
