package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NPCGEN_CONTENT_DIR", filepath.Join("..", "..", "content"))
	t.Setenv("NPCGEN_STORAGE_DRIVER", "sqlite")
	t.Setenv("NPCGEN_SQLITE_PATH", filepath.Join(t.TempDir(), "library.db"))
	t.Setenv("NPCGEN_LOGGING_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root, a := newRootCmd(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env")}, args...))
	err := execute(root, a)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "npcgen %v", args)
	return out
}

func TestGenerateSaveRestatFlow(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "generate", "--json", "--seed", "42", "--save",
		"--archetype", "martial", "--tier", "veteran", "--race", "human",
		"--sex", "Female", "--alignment", "Good")
	var n npc.NPC
	require.NoError(t, json.Unmarshal([]byte(out), &n))
	assert.Equal(t, ruleset.Veteran, n.Tier)
	assert.Equal(t, ruleset.Martial, n.ArchetypeID)
	assert.Equal(t, "Human", n.Race)
	assert.Equal(t, 6, n.ChallengeRating)
	require.NotEmpty(t, n.ID)

	var rows []librarySummary
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "library", "list")), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, n.ID, rows[0].ID)

	var restated npc.NPC
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "restat", n.ID, "--tier", "elite")), &restated))
	assert.Equal(t, ruleset.Elite, restated.Tier)
	assert.Equal(t, n.Name, restated.Name)
	assert.Equal(t, 10, restated.ChallengeRating)

	shown := mustRun(t, "library", "show", n.ID)
	assert.Contains(t, shown, n.Name)
	assert.Contains(t, shown, "CR 10")

	noted := mustRun(t, "--json", "library", "notes", n.ID, "owes", "the", "party")
	assert.Contains(t, noted, `"notes": "owes the party"`)

	save := mustRun(t, "roll", "save", n.ID, "wis")
	assert.Contains(t, save, "WIS save")

	mustRun(t, "library", "delete", n.ID)
	_, err := run(t, "library", "show", n.ID)
	assert.Error(t, err)
}

func TestFailingCommandStillReleasesStores(t *testing.T) {
	setupEnv(t)

	var out bytes.Buffer
	root, a := newRootCmd(&out)
	closed := false
	a.closers = append(a.closers, func() { closed = true })
	root.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env"), "restat", "no-such-id"})

	require.Error(t, execute(root, a))
	assert.True(t, closed)
	assert.Empty(t, a.closers)
}

func TestGenerateCount(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "generate", "-n", "3", "--seed", "7")
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte("Sex: ")))

	_, err := run(t, "generate", "-n", "0")
	assert.Error(t, err)
}

func TestRollExpression(t *testing.T) {
	setupEnv(t)
	var o struct {
		Result int    `json:"result"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "roll", "2d6+3")), &o))
	assert.GreaterOrEqual(t, o.Result, 5)
	assert.LessOrEqual(t, o.Result, 15)
	assert.Contains(t, o.Detail, "2d6+3")
}

func TestOptions(t *testing.T) {
	setupEnv(t)
	var set optionSet
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "options")), &set))
	assert.Len(t, set.Tiers, len(ruleset.Tiers()))
	assert.Len(t, set.Archetypes, len(ruleset.ArchetypeIDs()))
	assert.Equal(t, npc.SexOptions(), set.Sexes)
	assert.Equal(t, npc.AlignmentOptions(), set.Alignments)
	assert.NotEmpty(t, set.Races)
}

func TestSpellLookup(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "spell", "fire", "bolt")
	assert.Contains(t, out, "Fire Bolt")

	_, err := run(t, "spell", "no such spell")
	assert.Error(t, err)
}

func TestLibraryClearRequiresConfirmation(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "library", "clear")
	assert.Error(t, err)
	assert.Contains(t, mustRun(t, "library", "clear", "--yes"), "library cleared")
}

func TestLibraryFull(t *testing.T) {
	setupEnv(t)
	t.Setenv("NPCGEN_STORAGE_CAPACITY", "1")
	mustRun(t, "generate", "--save")
	_, err := run(t, "generate", "--save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "library is full")
}
