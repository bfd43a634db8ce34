package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

func newGenerateCmd(a *app) *cobra.Command {
	c := npc.RandomCriteria()
	var (
		count int
		save  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one or more NPCs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("count must be >= 1, got %d", count)
			}
			ctx := cmd.Context()
			if err := a.loadContent(ctx); err != nil {
				return err
			}
			if save {
				if err := a.openLibrary(ctx); err != nil {
					return err
				}
			}
			criteria := c
			criteria.Race = raceChoice(a.tables, c.Race.ID)

			for i := 0; i < count; i++ {
				n := a.generator.Generate(criteria)
				if save {
					if err := a.library.Save(ctx, n); err != nil {
						return fmt.Errorf("saving %s: %w", n.Name, err)
					}
				}
				if err := a.printNPC(n); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.Sex, "sex", npc.Random, "sex or 'random'")
	f.StringVar(&c.Race.ID, "race", npc.Random, "race id or label, or 'random'")
	f.StringVar(&c.Alignment, "alignment", npc.Random, "alignment or 'random'")
	f.StringVar(&c.Archetype, "archetype", npc.Random, "archetype id or 'random'")
	f.StringVar(&c.Tier, "tier", npc.Random, "tier name or 'random'")
	f.IntVarP(&count, "count", "n", 1, "number of NPCs to generate")
	f.BoolVar(&save, "save", false, "store generated NPCs in the library")
	return cmd
}

// raceChoice maps a flag value onto a table race, keeping unknown input as
// an ad-hoc label.
func raceChoice(t *ruleset.Tables, s string) npc.RaceChoice {
	if s == "" || s == npc.Random {
		return npc.RaceChoice{ID: npc.Random}
	}
	if r, ok := t.Race(s); ok {
		return npc.RaceChoice{ID: r.ID, Label: r.Label}
	}
	return npc.RaceChoice{Label: s}
}
