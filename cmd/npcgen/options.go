package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

type tierOption struct {
	Name             string `json:"name"`
	ChallengeRating  int    `json:"cr"`
	ProficiencyBonus int    `json:"proficiency_bonus"`
}

type optionSet struct {
	Tiers      []tierOption     `json:"tiers"`
	Archetypes []ruleset.Option `json:"archetypes"`
	Races      []ruleset.Option `json:"races"`
	Sexes      []string         `json:"sexes"`
	Alignments []string         `json:"alignments"`
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the selectable tiers, archetypes, races, sexes and alignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.loadContent(cmd.Context()); err != nil {
				return err
			}
			set := optionSet{
				Archetypes: a.tables.ArchetypeOptions(),
				Races:      a.tables.RaceOptions(),
				Sexes:      npc.SexOptions(),
				Alignments: npc.AlignmentOptions(),
			}
			for _, t := range ruleset.Tiers() {
				info := t.Info()
				set.Tiers = append(set.Tiers, tierOption{Name: t.String(), ChallengeRating: info.ChallengeRating, ProficiencyBonus: info.ProficiencyBonus})
			}
			if a.asJSON {
				return a.printJSON(set)
			}

			var b strings.Builder
			b.WriteString("Tiers:\n")
			for _, t := range set.Tiers {
				fmt.Fprintf(&b, "  %-10s CR %-2d PB +%d\n", t.Name, t.ChallengeRating, t.ProficiencyBonus)
			}
			writeOptions(&b, "Archetypes", set.Archetypes)
			writeOptions(&b, "Races", set.Races)
			fmt.Fprintf(&b, "Sexes: %s\n", strings.Join(set.Sexes, ", "))
			fmt.Fprintf(&b, "Alignments: %s\n", strings.Join(set.Alignments, ", "))
			_, err := fmt.Fprint(a.out, b.String())
			return err
		},
	}
}

func writeOptions(b *strings.Builder, heading string, opts []ruleset.Option) {
	fmt.Fprintf(b, "%s:\n", heading)
	for _, o := range opts {
		fmt.Fprintf(b, "  %-12s %s\n", o.ID, o.Label)
	}
}
