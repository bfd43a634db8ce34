package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

func newRestatCmd(a *app) *cobra.Command {
	var archetype, tier string
	cmd := &cobra.Command{
		Use:   "restat <id>",
		Short: "Recompute a saved NPC's stat block for a new archetype or tier",
		Args:  cobra.ExactArgs(1),
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

			arch := string(n.ArchetypeID)
			if archetype != "" {
				arch = archetype
			}
			t := n.Tier
			if tier != "" {
				parsed, ok := ruleset.ParseTier(tier)
				if !ok {
					a.logger.Warn("unknown tier coerced", zap.String("tier", tier), zap.Stringer("used", parsed))
				}
				t = parsed
			}

			a.generator.Restat(n, arch, t)
			if err := a.library.Save(ctx, n); err != nil {
				return fmt.Errorf("saving %s: %w", n.ID, err)
			}
			return a.printNPC(n)
		},
	}
	cmd.Flags().StringVar(&archetype, "archetype", "", "new archetype id (default: keep)")
	cmd.Flags().StringVar(&tier, "tier", "", "new tier name (default: keep)")
	return cmd
}
