package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/game/statblock"
)

func newRollCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll <expression>",
		Short: "Roll dice, or roll against a saved NPC",
		Long: `Roll an arbitrary expression such as "2d6+3", or use a subcommand to
roll a saved NPC's attack, save or ability check.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadContent(cmd.Context()); err != nil {
				return err
			}
			return a.printOutcome(a.roller.Expression(strings.Join(args, "")))
		},
	}
	cmd.AddCommand(
		newRollAbilityCmd(a, "save", "Roll a saving throw", (*statblock.Roller).Save),
		newRollAbilityCmd(a, "check", "Roll an ability check", (*statblock.Roller).Check),
		newRollAttackCmd(a),
	)
	return cmd
}

func newRollAbilityCmd(a *app, use, short string, roll func(*statblock.Roller, *statblock.Block, ruleset.Ability) statblock.Outcome) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <ability>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.loadContent(ctx); err != nil {
				return err
			}
			if err := a.openLibrary(ctx); err != nil {
				return err
			}
			n, err := a.library.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
			ability, err := ruleset.ParseAbility(args[1])
			if err != nil {
				return err
			}
			return a.printOutcome(roll(a.roller, &n.Block, ability))
		},
	}
}

func newRollAttackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "attack <id> <action>",
		Short: "Roll a saved NPC's attack and damage",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.loadContent(ctx); err != nil {
				return err
			}
			if err := a.openLibrary(ctx); err != nil {
				return err
			}
			n, err := a.library.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
			name := strings.Join(args[1:], " ")
			entry, ok := findRollable(&n.Block, name)
			if !ok {
				return fmt.Errorf("%s has no attack named %q", n.Name, name)
			}
			if err := a.printOutcome(a.roller.Attack(*entry.Roll)); err != nil {
				return err
			}
			return a.printOutcome(a.roller.Damage(*entry.Roll))
		},
	}
}

// findRollable returns the first entry named name that carries a roll payload.
func findRollable(b *statblock.Block, name string) (statblock.Entry, bool) {
	for _, e := range append(b.Entries(), b.SpellActions...) {
		if e.Roll != nil && strings.EqualFold(e.Name, strings.TrimSpace(name)) {
			return e, true
		}
	}
	return statblock.Entry{}, false
}

func (a *app) printOutcome(o statblock.Outcome) error {
	if a.asJSON {
		return a.printJSON(o)
	}
	_, err := fmt.Fprintln(a.out, o.Detail)
	return err
}
